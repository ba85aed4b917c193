/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/Dykam/gangwars"
	"github.com/Dykam/gangwars/command"
	"github.com/Dykam/gangwars/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath  string
	EnvFile     string
	Backend     string
	DataDir     string
	LogLevel    string
	MetricsAddr string
	Color       bool
}

// NewRootCommand creates the root command of the gangwars CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "gangwars",
		Short: "gangwars - gang management for survival servers",
		Long: "Run the gang wars game mode: create gangs, invite and kick members, " +
			"and track power gained in war time.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.LogLevel != "" && !slices.Contains(validLevels, opts.LogLevel) {
				return fmt.Errorf("invalid log level %q: must be one of %v", opts.LogLevel, validLevels)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "config.yml", "config file, created with defaults when missing")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file loaded before the config")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "", "storage backend override (yaml|sqlite|dynamodb|memory)")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "data directory override")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level override (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	cmd.PersistentFlags().BoolVar(&opts.Color, "color", true, "colour chat messages on terminals")

	cmd.AddCommand(NewShellCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

var validLevels = []string{"debug", "info", "warn", "error"}

// loadConfig loads the dotenv file and the config, then applies flag
// overrides.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	if err := config.LoadEnv(opts.EnvFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Backend != "" {
		cfg.Storage.Backend = opts.Backend
	}
	if opts.DataDir != "" {
		cfg.Storage.DataDir = opts.DataDir
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.MetricsAddr != "" {
		cfg.MetricsAddr = opts.MetricsAddr
	}
	return cfg, nil
}

// session is an open app with its telemetry.
type session struct {
	app       *gangwars.App
	logger    *slog.Logger
	telemetry *gangwars.Telemetry
}

// openSession loads the configuration and opens the app, printing chat
// messages to out.
func openSession(ctx context.Context, opts *RootOptions, out io.Writer) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	logger := gangwars.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	s := &session{logger: logger}
	if cfg.MetricsAddr != "" {
		s.telemetry, err = gangwars.NewTelemetry(logger)
		if err != nil {
			return nil, err
		}
		if err := s.telemetry.Serve(cfg.MetricsAddr); err != nil {
			return nil, err
		}
	}

	var format command.Formatter = command.Plain{}
	if opts.Color {
		format = command.NewStyled(out)
	}

	s.app, err = gangwars.New(ctx, cfg,
		gangwars.WithLogger(logger),
		gangwars.WithOutput(out),
		gangwars.WithFormatter(format),
	)
	if err != nil {
		s.shutdownTelemetry(ctx)
		return nil, err
	}
	return s, nil
}

func (s *session) close(ctx context.Context) error {
	err := s.app.Close(ctx)
	s.shutdownTelemetry(ctx)
	return err
}

func (s *session) shutdownTelemetry(ctx context.Context) {
	if s.telemetry == nil {
		return
	}
	if err := s.telemetry.Shutdown(ctx); err != nil {
		s.logger.Warn("telemetry shutdown failed", "error", err)
	}
}
