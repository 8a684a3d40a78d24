package publish

import (
	"context"

	"github.com/oshokin/dar-publisher/internal/config"
	"github.com/oshokin/dar-publisher/internal/domain/release"
	"github.com/oshokin/dar-publisher/internal/logger"
	"github.com/oshokin/dar-publisher/internal/transport"
)

// Vetter broadcasts a vetting request for a package to every configured
// participant. A participant refusing to vet does not stop the broadcast;
// every participant is attempted and the caller decides what a partial
// result means.
type Vetter struct {
	// svc performs the admin API calls.
	svc transport.PackageService
	// cfg supplies the participant set.
	cfg *config.Config
}

// NewVetter creates a vetter for the configured participant set.
func NewVetter(svc transport.PackageService, cfg *config.Config) *Vetter {
	return &Vetter{
		svc: svc,
		cfg: cfg,
	}
}

// VetAll sends the vetting request to all participants in configuration order
// and returns one outcome per participant. It never fails as a whole.
func (v *Vetter) VetAll(ctx context.Context, packageID string) []release.ActivationOutcome {
	request := &transport.VetDarRequest{
		MainPackageID: packageID,
		Synchronize:   true,
	}

	outcomes := make([]release.ActivationOutcome, 0, len(v.cfg.Nodes))

	for _, node := range v.cfg.Nodes {
		logger.InfoKV(ctx, "Vetting package", "participant", node.Name, "address", node.Address)

		if err := v.svc.VetDar(ctx, node.Address, request); err != nil {
			logger.WarnKV(ctx, "Vetting failed, continuing with remaining participants",
				"participant", node.Name, "error", err)

			outcomes = append(outcomes, release.ActivationOutcome{
				Node:   node.Name,
				Detail: err.Error(),
			})

			continue
		}

		logger.InfoKV(ctx, "Vetting successful", "participant", node.Name)

		outcomes = append(outcomes, release.ActivationOutcome{
			Node:    node.Name,
			Success: true,
		})
	}

	return outcomes
}
