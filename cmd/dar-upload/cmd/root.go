package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/dar-publisher/internal/config"
	"github.com/oshokin/dar-publisher/internal/logger"
	"github.com/oshokin/dar-publisher/internal/service/publish"
	"github.com/oshokin/dar-publisher/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel overrides the default info log level.
	logLevel string

	// rootCmd represents the base command for publishing a DAR to all participants.
	rootCmd = &cobra.Command{
		Use:   "dar-upload [version]",
		Short: "Upload a DAR to every participant, vet it and update the package registry.",
		Long: `Publishes a built DAR to the configured Canton participants.

The DAR is uploaded to the authoritative participant first; its response
supplies the canonical package ID. The same DAR is then uploaded to every
secondary participant, vetted everywhere, and the version → package ID pair
is recorded in the package registry consumed by other services.

The version can be passed as the single positional argument; otherwise it is
read from the project's daml.yaml. Vetting failures on individual participants
are reported as warnings and do not fail the command.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			applyLogLevel()

			var explicitVersion string
			if len(args) > 0 {
				explicitVersion = args[0]
			}

			return publish.Run(ctx, &publish.Options{
				ConfigPath: configPath,
				Version:    explicitVersion,
			})
		},
	}
)

// Execute runs the dar-upload CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// applyLogLevel configures the global logger from the --log-level flag.
func applyLogLevel() {
	if level, ok := logger.ParseLogLevel(logLevel); ok {
		logger.SetLevel(level)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "log level (debug, info, warn, error)")
}
