package publish

import (
	"context"
	"fmt"
	"strings"

	"github.com/oshokin/dar-publisher/internal/config"
	"github.com/oshokin/dar-publisher/internal/domain/release"
	"github.com/oshokin/dar-publisher/internal/logger"
	"github.com/oshokin/dar-publisher/internal/repository/registry"
	"github.com/oshokin/dar-publisher/internal/transport"
)

// Options are inputs accepted by the dar-upload entry point.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// Version is the explicit version to publish. Empty means resolve it
	// from the project manifest.
	Version string
}

// VetOptions are inputs accepted by the dar-vet entry point.
type VetOptions struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// PackageID is the already-uploaded package to vet on every participant.
	PackageID string
}

// Run executes the full publish pipeline: resolve the version, load the DAR,
// distribute it to every participant, vet it everywhere, and record the
// resulting package ID in the registry. It is the entry point for dar-upload.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "dar-upload")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	client := transport.NewClient(transport.WithCallTimeout(cfg.Timeout))
	defer func() {
		_ = client.Close()
	}()

	repo := registry.NewFileRepository(cfg.RegistryPath())

	if err = run(ctx, cfg, client, repo, opts.Version); err != nil {
		logger.ErrorKV(ctx, "Publish failed", "error", err)
		return err
	}

	logger.Info(ctx, "Publish completed")

	return nil
}

// run is the pipeline with collaborators injected, so tests can substitute
// fake participants and a scratch registry.
func run(
	ctx context.Context,
	cfg *config.Config,
	svc transport.PackageService,
	repo registry.Repository,
	explicitVersion string,
) error {
	version, err := ResolveVersion(ctx, cfg, explicitVersion)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Publishing DAR", "dar", cfg.DarName, "version", version)

	artifact, err := LoadArtifact(ctx, cfg, version)
	if err != nil {
		return err
	}

	packageID, uploads, err := NewDistributor(svc, cfg).Distribute(ctx, artifact)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "DAR distributed to all participants",
		"package_id", packageID, "participants", len(uploads))

	// Vetting failures are warnings: the DAR is on every participant and the
	// registry update must still happen. They are summarized after the fact.
	outcomes := NewVetter(svc, cfg).VetAll(ctx, packageID)
	reportVettingSummary(ctx, outcomes)

	logger.InfoKV(ctx, "Updating package registry", "path", cfg.RegistryPath())

	reg, err := repo.Upsert(ctx, version, packageID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRegistryWrite, err)
	}

	logger.InfoKV(ctx, "Registry updated",
		"current_version", reg.CurrentVersion,
		"current_package_id", reg.CurrentPackageID,
		"entries", len(reg.Entries))

	return nil
}

// RunVet vets an already-uploaded package on every participant. It is the
// entry point for dar-vet. Unlike the full pipeline, where a partial vetting
// is only a warning, here it is the command's whole job, so any participant
// failure makes the command fail.
func RunVet(ctx context.Context, opts *VetOptions) error {
	ctx = logger.WithName(ctx, "dar-vet")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	client := transport.NewClient(transport.WithCallTimeout(cfg.Timeout))
	defer func() {
		_ = client.Close()
	}()

	if err = runVet(ctx, cfg, client, opts.PackageID); err != nil {
		logger.ErrorKV(ctx, "Vetting failed", "error", err)
		return err
	}

	logger.Info(ctx, "Package vetted on all participants")

	return nil
}

// runVet is the vet-only flow with the transport injected.
func runVet(ctx context.Context, cfg *config.Config, svc transport.PackageService, packageID string) error {
	logger.InfoKV(ctx, "Vetting package on all participants", "package_id", packageID)

	outcomes := NewVetter(svc, cfg).VetAll(ctx, packageID)

	if failed := release.FailedActivations(outcomes); len(failed) > 0 {
		return fmt.Errorf("%w: %s", errVettingIncomplete, failedNodeNames(failed))
	}

	return nil
}

// reportVettingSummary logs a single end-of-run warning when one or more
// participants did not vet the package.
func reportVettingSummary(ctx context.Context, outcomes []release.ActivationOutcome) {
	failed := release.FailedActivations(outcomes)
	if len(failed) == 0 {
		logger.Info(ctx, "Package vetted on all participants")
		return
	}

	logger.WarnKV(ctx, "Package is distributed but not vetted everywhere; re-run dar-vet for the failed participants",
		"failed_participants", failedNodeNames(failed))
}

// failedNodeNames renders the failed participant names for logs and errors.
func failedNodeNames(failed []release.ActivationOutcome) string {
	names := make([]string, 0, len(failed))
	for _, outcome := range failed {
		names = append(names, outcome.Node)
	}

	return strings.Join(names, ", ")
}
