package cli

import (
	"fmt"
	"os"

	"github.com/FrothyRythm/project010/pkg/config"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
)

func newConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Display the effective configuration",
		Long:  `Displays the configuration the server would start with, after applying the config file and environment.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ignoredPort, err := loadConfig(cmd, opts, os.Getenv)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "pipeline-app Configuration:")
			fmt.Fprintf(out, "  Port: %d\n", cfg.Port)
			if ignoredPort != "" {
				fmt.Fprintf(out, "  Ignored PORT: %q\n", ignoredPort)
			}
			fmt.Fprintf(out, "  Address: %s\n", cfg.Addr())
			fmt.Fprintf(out, "  Log Level: %s\n", cfg.LogLevel)
			fmt.Fprintf(out, "  Log Format: %s\n", cfg.LogFormat)
			if cfg.PIDFile != "" {
				fmt.Fprintf(out, "  PID File: %s\n", cfg.PIDFile)
			}

			path := opts.configPath
			if path == "" {
				path, err = config.DefaultPath()
				if err != nil {
					return err
				}
			}
			expanded, err := homedir.Expand(path)
			if err != nil {
				return fmt.Errorf("failed to expand config path: %w", err)
			}

			fmt.Fprintf(out, "\nConfig File:\n")
			if _, err := os.Stat(expanded); err == nil {
				fmt.Fprintf(out, "  %s (found)\n", expanded)
			} else {
				fmt.Fprintf(out, "  %s (not found, using defaults)\n", expanded)
			}

			return nil
		},
	}
}
