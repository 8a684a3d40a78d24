package publish

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/oshokin/dar-publisher/internal/config"
	"github.com/oshokin/dar-publisher/internal/domain/release"
	"github.com/oshokin/dar-publisher/internal/logger"
	"github.com/oshokin/dar-publisher/internal/transport"
)

// Distributor pushes one DAR to every configured participant, authoritative
// node first. Any upload failure is fatal: a DAR that is not present on every
// participant must not be registered as available.
type Distributor struct {
	// svc performs the admin API calls.
	svc transport.PackageService
	// cfg supplies the participant set and artifact naming.
	cfg *config.Config
}

// NewDistributor creates a distributor for the configured participant set.
func NewDistributor(svc transport.PackageService, cfg *config.Config) *Distributor {
	return &Distributor{
		svc: svc,
		cfg: cfg,
	}
}

// Distribute uploads the artifact to all participants and returns the
// canonical package ID taken from the authoritative participant's response,
// plus the per-participant outcomes for reporting.
func (d *Distributor) Distribute(
	ctx context.Context,
	artifact *release.Artifact,
) (string, []release.UploadOutcome, error) {
	request := d.buildRequest(artifact)
	outcomes := make([]release.UploadOutcome, 0, len(d.cfg.Nodes))

	// The authoritative participant goes first: without its response there is
	// no canonical package ID and nothing else may proceed.
	authoritative := d.cfg.Authoritative()

	packageID, outcome, err := d.uploadAuthoritative(ctx, authoritative, request)
	outcomes = append(outcomes, outcome)

	if err != nil {
		return "", outcomes, err
	}

	logger.InfoKV(ctx, "Package ID assigned", "package_id", packageID)

	for _, node := range d.cfg.Secondaries() {
		outcome = d.upload(ctx, node, request)
		outcomes = append(outcomes, outcome)

		if !outcome.Success {
			return "", outcomes, fmt.Errorf("%w: participant %s: %s", ErrDistribution, node.Name, outcome.Detail)
		}
	}

	return packageID, outcomes, nil
}

// buildRequest encodes the artifact for transport once; every participant
// receives the same payload.
func (d *Distributor) buildRequest(artifact *release.Artifact) *transport.UploadDarRequest {
	return &transport.UploadDarRequest{
		Dars: []transport.DarPayload{
			{
				Bytes:       base64.StdEncoding.EncodeToString(artifact.Bytes),
				Description: fmt.Sprintf("%s v%s", d.cfg.DarName, artifact.Version),
			},
		},
		VetAllPackages:     true,
		SynchronizeVetting: true,
	}
}

// uploadAuthoritative uploads to the authoritative participant and extracts
// the canonical package ID from its response.
func (d *Distributor) uploadAuthoritative(
	ctx context.Context,
	node config.Node,
	request *transport.UploadDarRequest,
) (string, release.UploadOutcome, error) {
	logger.InfoKV(ctx, "Uploading DAR", "participant", node.Name, "address", node.Address)

	response, err := d.svc.UploadDar(ctx, node.Address, request)
	if err != nil {
		outcome := release.UploadOutcome{Node: node.Name, Detail: err.Error()}
		return "", outcome, fmt.Errorf("%w: participant %s: %w", ErrDistribution, node.Name, err)
	}

	if len(response.DarIDs) == 0 {
		outcome := release.UploadOutcome{Node: node.Name, Detail: "response contains no package ID"}
		return "", outcome, fmt.Errorf("%w: participant %s returned no package ID", ErrDistribution, node.Name)
	}

	packageID := response.DarIDs[0]

	logger.InfoKV(ctx, "Upload successful", "participant", node.Name)

	return packageID, release.UploadOutcome{
		Node:      node.Name,
		Success:   true,
		PackageID: packageID,
	}, nil
}

// upload pushes the request to a secondary participant.
func (d *Distributor) upload(
	ctx context.Context,
	node config.Node,
	request *transport.UploadDarRequest,
) release.UploadOutcome {
	logger.InfoKV(ctx, "Uploading DAR", "participant", node.Name, "address", node.Address)

	response, err := d.svc.UploadDar(ctx, node.Address, request)
	if err != nil {
		return release.UploadOutcome{Node: node.Name, Detail: err.Error()}
	}

	logger.InfoKV(ctx, "Upload successful", "participant", node.Name)

	outcome := release.UploadOutcome{Node: node.Name, Success: true}
	if len(response.DarIDs) > 0 {
		outcome.PackageID = response.DarIDs[0]
	}

	return outcome
}
