package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"

	"github.com/sriram020204/website-prototype-sub000/internal/advisory"
	"github.com/sriram020204/website-prototype-sub000/internal/config"
	"github.com/sriram020204/website-prototype-sub000/internal/profile"
	"github.com/sriram020204/website-prototype-sub000/internal/store"
	"github.com/sriram020204/website-prototype-sub000/internal/submission"
	"github.com/sriram020204/website-prototype-sub000/internal/wizard"
)

// loadConfig reads the config file, applies flag and environment overrides,
// then validates. A missing file is only an error when named explicitly.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	path := cmd.String("config")
	explicit := path != ""
	if !explicit {
		path = filepath.Join(root, config.FileName)
	} else {
		root = filepath.Dir(path)
	}

	cfg, err := config.Read(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		slog.Debug("no config file, using defaults", "path", path)
		cfg = &config.Config{}
	case err != nil:
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if cmd.IsSet("store-dir") {
		cfg.StoreDir = cmd.String("store-dir")
	}
	if cmd.IsSet("snapshot-key") {
		cfg.SnapshotKey = cmd.String("snapshot-key")
	}
	if cmd.IsSet("save-debounce") {
		cfg.SaveDebounce.Duration = cmd.Duration("save-debounce")
	}
	if cmd.IsSet("advisory-endpoint") {
		cfg.Advisory.Endpoint = cmd.String("advisory-endpoint")
	}
	if cmd.IsSet("advisory-timeout") {
		cfg.Advisory.Timeout.Duration = cmd.Duration("advisory-timeout")
	}
	if cmd.IsSet("submission-endpoint") {
		cfg.Submission.Endpoint = cmd.String("submission-endpoint")
		cfg.Submission.OutboxDir = ""
	}
	if cmd.IsSet("outbox-dir") {
		cfg.Submission.OutboxDir = cmd.String("outbox-dir")
		cfg.Submission.Endpoint = ""
	}
	if cmd.IsSet("submission-timeout") {
		cfg.Submission.Timeout.Duration = cmd.Duration("submission-timeout")
	}

	if err := config.Validate(cfg, root); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore(cfg *config.Config) store.Store {
	return store.NewFileStore(cfg.StoreDir)
}

func openSubmitter(cfg *config.Config) submission.Submitter {
	if cfg.Submission.Endpoint != "" {
		return submission.NewHTTP(cfg.Submission.Endpoint, cfg.Submission.Timeout.Duration)
	}
	return submission.NewOutbox(store.NewFileStore(cfg.Submission.OutboxDir))
}

func openWizard(ctx context.Context, cfg *config.Config, log *slog.Logger) (*wizard.Orchestrator, error) {
	return wizard.New(ctx, wizard.Options{
		Catalog:   profile.Default(),
		Store:     openStore(cfg),
		Key:       cfg.SnapshotKey,
		SaveDelay: cfg.SaveDebounce.Duration,
		Advisor:   advisory.NewClient(cfg.Advisory.Endpoint, cfg.Advisory.Timeout.Duration, log),
		Submitter: openSubmitter(cfg),
		Logger:    log,
	})
}

// loadSnapshot reads the saved profile without starting a wizard. A corrupt
// snapshot is reported, not erased; 'run' is the only command that discards.
func loadSnapshot(ctx context.Context, cfg *config.Config, cat *profile.Catalog) (profile.Profile, bool, error) {
	raw, ok, err := openStore(cfg).Get(ctx, cfg.SnapshotKey)
	if err != nil {
		return nil, false, fmt.Errorf("reading saved progress: %w", err)
	}
	if !ok {
		return cat.Defaults(), false, nil
	}
	p, err := cat.Decode([]byte(raw))
	if err != nil {
		return nil, false, fmt.Errorf("saved progress under %q: %w", cfg.SnapshotKey, err)
	}
	return p, true, nil
}
