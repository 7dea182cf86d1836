package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the project root.
const FileName = "profilewiz.yaml"

// Defaults applied by Validate to unset fields.
const (
	DefaultStoreDir          = ".profilewiz"
	DefaultSnapshotKey       = "companyProfileWizardData"
	DefaultSaveDebounce      = 500 * time.Millisecond
	DefaultAdvisoryTimeout   = 30 * time.Second
	DefaultSubmissionTimeout = 30 * time.Second
)

// Duration reads "500ms" style strings from YAML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

type Advisory struct {
	Endpoint string   `yaml:"endpoint"`
	Timeout  Duration `yaml:"timeout"`
}

// Submission selects where finished profiles go: an HTTP endpoint or an
// outbox directory, never both.
type Submission struct {
	Endpoint  string   `yaml:"endpoint,omitempty"`
	OutboxDir string   `yaml:"outbox-dir,omitempty"`
	Timeout   Duration `yaml:"timeout"`
}

type Config struct {
	StoreDir     string     `yaml:"store-dir"`
	SnapshotKey  string     `yaml:"snapshot-key"`
	SaveDebounce Duration   `yaml:"save-debounce"`
	Advisory     Advisory   `yaml:"advisory"`
	Submission   Submission `yaml:"submission"`
}

// Default returns a validated config with every default applied.
func Default(projectRoot string) *Config {
	cfg := &Config{}
	// Validate cannot fail on the zero config.
	_ = Validate(cfg, projectRoot)
	return cfg
}

// Load reads a YAML config file and returns a validated Config.
func Load(path, projectRoot string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg, projectRoot); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read decodes a YAML config file without validating it, so callers can
// apply overrides first. Unknown keys are an error.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
