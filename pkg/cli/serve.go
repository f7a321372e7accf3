package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/FrothyRythm/project010/internal/logger"
	"github.com/FrothyRythm/project010/pkg/config"
	"github.com/FrothyRythm/project010/pkg/server"
	"github.com/FrothyRythm/project010/version"
	"github.com/spf13/cobra"
)

// loadConfig layers defaults, the config file, the environment and any
// flags set on the command line, in that order
func loadConfig(cmd *cobra.Command, opts *options, getenv func(string) string) (*config.Config, string, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}

	ignoredPort := cfg.ApplyEnv(getenv)

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = strings.ToLower(opts.logLevel)
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = strings.ToLower(opts.logFormat)
	}
	if flags.Changed("pid-file") {
		cfg.PIDFile = opts.pidFile
	}
	if flags.Changed("open") {
		cfg.OpenBrowser = opts.open
	}
	if flags.Changed("systemd") {
		cfg.Systemd = opts.systemd
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, ignoredPort, nil
}

func runServe(ctx context.Context, cmd *cobra.Command, opts *options, getenv func(string) string) error {
	cfg, ignoredPort, err := loadConfig(cmd, opts, getenv)
	if err != nil {
		return err
	}

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if ignoredPort != "" {
		log.Warn("Ignoring invalid PORT", "value", ignoredPort, "port", cfg.Port)
	}

	log.Info("Starting pipeline-app",
		"version", version.GetVersion(),
		"commit", version.Commit,
		"date", version.Date,
	)

	return server.New(cfg, log).Run(ctx)
}
