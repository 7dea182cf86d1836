package config

import (
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/sriram020204/website-prototype-sub000/internal/store"
)

// Validate checks the config for errors and sets defaults. Relative
// directories are resolved against projectRoot.
func Validate(cfg *Config, projectRoot string) error {
	if cfg.StoreDir == "" {
		cfg.StoreDir = DefaultStoreDir
	}
	cfg.StoreDir = resolve(projectRoot, cfg.StoreDir)

	if cfg.SnapshotKey == "" {
		cfg.SnapshotKey = DefaultSnapshotKey
	}
	if err := store.ValidateKey(cfg.SnapshotKey); err != nil {
		return fmt.Errorf("config: 'snapshot-key': %w", err)
	}

	switch {
	case cfg.SaveDebounce.Duration < 0:
		return fmt.Errorf("config: 'save-debounce' must not be negative")
	case cfg.SaveDebounce.Duration == 0:
		cfg.SaveDebounce.Duration = DefaultSaveDebounce
	}

	if cfg.Advisory.Endpoint != "" {
		if err := checkEndpoint(cfg.Advisory.Endpoint); err != nil {
			return fmt.Errorf("config: 'advisory.endpoint': %w", err)
		}
	}
	switch {
	case cfg.Advisory.Timeout.Duration < 0:
		return fmt.Errorf("config: 'advisory.timeout' must not be negative")
	case cfg.Advisory.Timeout.Duration == 0:
		cfg.Advisory.Timeout.Duration = DefaultAdvisoryTimeout
	}

	sub := &cfg.Submission
	if sub.Endpoint != "" && sub.OutboxDir != "" {
		return fmt.Errorf("config: 'submission.endpoint' and 'submission.outbox-dir' are mutually exclusive")
	}
	if sub.Endpoint != "" {
		if err := checkEndpoint(sub.Endpoint); err != nil {
			return fmt.Errorf("config: 'submission.endpoint': %w", err)
		}
	} else {
		if sub.OutboxDir == "" {
			sub.OutboxDir = filepath.Join(cfg.StoreDir, "outbox")
		}
		sub.OutboxDir = resolve(projectRoot, sub.OutboxDir)
	}
	switch {
	case sub.Timeout.Duration < 0:
		return fmt.Errorf("config: 'submission.timeout' must not be negative")
	case sub.Timeout.Duration == 0:
		sub.Timeout.Duration = DefaultSubmissionTimeout
	}
	return nil
}

func resolve(root, dir string) string {
	if filepath.IsAbs(dir) || root == "" {
		return dir
	}
	return filepath.Join(root, dir)
}

func checkEndpoint(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q must be an http or https URL", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}
