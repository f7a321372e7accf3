package cli

import (
	"context"
	"os"

	"github.com/FrothyRythm/project010/version"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	logLevel   string
	logFormat  string
	pidFile    string
	open       bool
	systemd    bool
}

func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "pipeline-app",
		Short: "Serve the pipeline smoke-test page",
		Long: `pipeline-app answers GET / with a fixed text body so a deployment
pipeline can check that the build came up. It listens on $PORT
(default 3000).`,
		Version:      version.GetFullVersion(),
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runServe(ctx, cmd, opts, os.Getenv)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to configuration file (default: ~/.config/pipeline-app/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.Flags().StringVar(&opts.pidFile, "pid-file", "", "Path to PID file")
	rootCmd.Flags().BoolVar(&opts.open, "open", false, "Open the served page in the local browser")
	rootCmd.Flags().BoolVar(&opts.systemd, "systemd", false, "Run in systemd mode with sd_notify support")

	rootCmd.AddCommand(newConfigCmd(opts))

	return rootCmd
}
