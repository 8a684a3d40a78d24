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

	// rootCmd represents the base command for vetting an already-uploaded package.
	rootCmd = &cobra.Command{
		Use:   "dar-vet <package-id>",
		Short: "Vet an already-uploaded package on every participant.",
		Long: `Marks an uploaded package as usable on every configured Canton participant.

Canton requires packages to be vetted before they can be used in transactions;
vetting ensures all participants agree on which packages are allowed. Use this
command when a package was uploaded but vetting failed on some participant
during dar-upload. The command fails unless every participant vets the package.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			applyLogLevel()

			return publish.RunVet(ctx, &publish.VetOptions{
				ConfigPath: configPath,
				PackageID:  args[0],
			})
		},
	}
)

// Execute runs the dar-vet CLI and exits with non-zero status on error.
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
