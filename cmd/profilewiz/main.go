package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"github.com/sriram020204/website-prototype-sub000/internal/config"
	"github.com/sriram020204/website-prototype-sub000/internal/docs"
	"github.com/sriram020204/website-prototype-sub000/internal/present"
	"github.com/sriram020204/website-prototype-sub000/internal/profile"
	"github.com/sriram020204/website-prototype-sub000/internal/scaffold"
	"github.com/sriram020204/website-prototype-sub000/internal/state"
	"github.com/sriram020204/website-prototype-sub000/internal/ux"
	"github.com/sriram020204/website-prototype-sub000/internal/validate"
	"github.com/sriram020204/website-prototype-sub000/internal/wizard"
)

func main() {
	app := &cli.Command{
		Name:        "profilewiz",
		Usage:       "Company profile wizard",
		Description: "Run 'profilewiz docs' for documentation on configuration, fields, and the workflow.",
		Flags:       globalFlags(),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			setupLogging(cmd.Bool("verbose"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			initCmd(),
			runCmd(),
			statusCmd(),
			validateCmd(),
			resetCmd(),
			docsCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%serror:%s %v\n", ux.Red, ux.Reset, err)
		os.Exit(1)
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to profilewiz.yaml", Sources: cli.EnvVars("PROFILEWIZ_CONFIG")},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Debug logging", Sources: cli.EnvVars("PROFILEWIZ_VERBOSE")},
		&cli.StringFlag{Name: "store-dir", Usage: "Directory holding saved progress", Sources: cli.EnvVars("PROFILEWIZ_STORE_DIR")},
		&cli.StringFlag{Name: "snapshot-key", Usage: "Saved-progress entry name", Sources: cli.EnvVars("PROFILEWIZ_SNAPSHOT_KEY")},
		&cli.DurationFlag{Name: "save-debounce", Usage: "Delay before edits are written", Sources: cli.EnvVars("PROFILEWIZ_SAVE_DEBOUNCE")},
		&cli.StringFlag{Name: "advisory-endpoint", Usage: "Advisory validation service URL", Sources: cli.EnvVars("PROFILEWIZ_ADVISORY_ENDPOINT")},
		&cli.DurationFlag{Name: "advisory-timeout", Usage: "Advisory request timeout", Sources: cli.EnvVars("PROFILEWIZ_ADVISORY_TIMEOUT")},
		&cli.StringFlag{Name: "submission-endpoint", Usage: "URL receiving finished profiles", Sources: cli.EnvVars("PROFILEWIZ_SUBMISSION_ENDPOINT")},
		&cli.StringFlag{Name: "outbox-dir", Usage: "Directory receiving finished profiles", Sources: cli.EnvVars("PROFILEWIZ_OUTBOX_DIR")},
		&cli.DurationFlag{Name: "submission-timeout", Usage: "Submission request timeout", Sources: cli.EnvVars("PROFILEWIZ_SUBMISSION_TIMEOUT")},
	}
}

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a starter profilewiz.yaml in the current directory",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			return scaffold.Init(dir, scaffold.Options{
				AdvisoryEndpoint:   cmd.String("advisory-endpoint"),
				SubmissionEndpoint: cmd.String("submission-endpoint"),
			})
		},
	}
}

func runCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Fill in the company profile",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Advisory.Endpoint == "" {
				return fmt.Errorf("advisory.endpoint is not set; add it to %s or pass --advisory-endpoint", config.FileName)
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
			defer stop()

			o, err := openWizard(ctx, cfg, slog.Default())
			if err != nil {
				return err
			}
			defer o.Close()

			if o.Resumed() {
				ux.Notice("resuming saved progress; every step is checked again")
			}
			submitted, err := present.New(o, nil).Run(ctx)
			switch {
			case errors.Is(err, present.ErrAborted), errors.Is(err, context.Canceled):
				ux.ResumeHint(cmd.String("config"))
				return nil
			case err != nil:
				return err
			case !submitted:
				ux.ResumeHint(cmd.String("config"))
			}
			return nil
		},
	}
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show which steps of the saved profile are complete",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cat := profile.Default()
			v, err := validate.New(cat)
			if err != nil {
				return err
			}
			p, found, err := loadSnapshot(ctx, cfg, cat)
			if err != nil {
				return err
			}
			prog := wizard.Evaluate(state.Steps(cat), v, state.New(p))
			ux.RenderStatus(cfg.SnapshotKey, found, prog)
			return nil
		},
	}
}

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Check every section of the saved profile",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cat := profile.Default()
			v, err := validate.New(cat)
			if err != nil {
				return err
			}
			p, found, err := loadSnapshot(ctx, cfg, cat)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("no saved profile under %q", cfg.SnapshotKey)
			}
			if errs := v.ValidateAll(p); len(errs) > 0 {
				ux.FieldErrors(errs)
				return fmt.Errorf("profile is incomplete: %d field(s) failed", len(errs))
			}
			fmt.Printf("%s✓ Every section passes%s\n", ux.Green, ux.Reset)
			return nil
		},
	}
}

func resetCmd() *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Erase saved progress",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := openStore(cfg).Delete(ctx, cfg.SnapshotKey); err != nil {
				return fmt.Errorf("erasing saved progress: %w", err)
			}
			fmt.Printf("%s✓ Saved progress erased%s\n", ux.Green, ux.Reset)
			return nil
		},
	}
}

func docsCmd() *cli.Command {
	return &cli.Command{
		Name:      "docs",
		Usage:     "Show documentation",
		ArgsUsage: "[topic]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				fmt.Print("\nAvailable topics:\n\n")
				for _, t := range docs.All() {
					fmt.Printf("  %-14s %s\n", t.Name, t.Summary)
				}
				fmt.Println("\nRun 'profilewiz docs <topic>' to read a topic.")
				return nil
			}
			t, err := docs.Get(name)
			if err != nil {
				return err
			}
			fmt.Print(t.Content)
			return nil
		},
	}
}
