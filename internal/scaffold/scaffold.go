package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sriram020204/website-prototype-sub000/internal/config"
	"github.com/sriram020204/website-prototype-sub000/internal/ux"
)

var configTemplate = `# profilewiz configuration. See 'profilewiz docs config'.

# Saved progress lives here, relative to this file's directory.
store-dir: .profilewiz
snapshot-key: companyProfileWizardData
save-debounce: 500ms

advisory:
  endpoint: %s
  timeout: 30s

submission:
  # Set endpoint to POST finished profiles; leave it empty to write them
  # to outbox-dir instead.
%s  timeout: 30s
`

// Options fills in the generated config.
type Options struct {
	AdvisoryEndpoint   string
	SubmissionEndpoint string
}

// Init writes profilewiz.yaml into targetDir.
func Init(targetDir string, opts Options) error {
	path := filepath.Join(targetDir, config.FileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, targetDir)
	}

	sub := "  outbox-dir: .profilewiz/outbox\n"
	if opts.SubmissionEndpoint != "" {
		sub = "  endpoint: " + strconv.Quote(opts.SubmissionEndpoint) + "\n"
	}
	body := fmt.Sprintf(configTemplate, strconv.Quote(opts.AdvisoryEndpoint), sub)

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", targetDir, err)
	}
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", config.FileName, err)
	}
	if _, err := config.Load(path, targetDir); err != nil {
		os.Remove(path)
		return fmt.Errorf("generated config is invalid: %w", err)
	}

	fmt.Printf("\n%s%s✓ Initialized %s%s\n\n", ux.Bold, ux.Green, config.FileName, ux.Reset)
	fmt.Printf("  Next steps:\n")
	step := 1
	if opts.AdvisoryEndpoint == "" {
		fmt.Printf("    %d. Set %sadvisory.endpoint%s in %s\n", step, ux.Cyan, ux.Reset, config.FileName)
		step++
	}
	fmt.Printf("    %d. Run %sprofilewiz run%s to fill in the profile\n\n", step, ux.Cyan, ux.Reset)
	return nil
}
