package transport

import "context"

// Canton participant admin API methods invoked by the publisher.
const (
	// UploadDarMethod is the full gRPC method name for DAR uploads.
	UploadDarMethod = "/com.digitalasset.canton.admin.participant.v30.PackageService/UploadDar"
	// VetDarMethod is the full gRPC method name for package vetting.
	VetDarMethod = "/com.digitalasset.canton.admin.participant.v30.PackageService/VetDar"
)

// DarPayload is a single DAR carried in an upload request.
type DarPayload struct {
	// Bytes is the base64-encoded DAR content.
	Bytes string `json:"bytes"`
	// Description is a human-readable label shown in the participant's package list.
	Description string `json:"description"`
}

// UploadDarRequest is the PackageService/UploadDar request body.
type UploadDarRequest struct {
	Dars []DarPayload `json:"dars"`
	// VetAllPackages asks the participant to vet the uploaded packages immediately.
	VetAllPackages bool `json:"vet_all_packages"`
	// SynchronizeVetting blocks the call until vetting has propagated.
	SynchronizeVetting bool `json:"synchronize_vetting"`
}

// UploadDarResponse is the PackageService/UploadDar response body.
// The first DAR ID is the canonical package ID for the uploaded artifact.
type UploadDarResponse struct {
	DarIDs []string `json:"darIds"`
}

// VetDarRequest is the PackageService/VetDar request body.
type VetDarRequest struct {
	MainPackageID string `json:"main_package_id"`
	// Synchronize blocks the call until vetting has completed on the participant.
	Synchronize bool `json:"synchronize"`
}

// PackageService is the slice of the participant admin API the coordinators
// depend on. A call returns a nil error exactly when the participant accepted
// the request; there is no structured failure payload.
type PackageService interface {
	UploadDar(ctx context.Context, address string, req *UploadDarRequest) (*UploadDarResponse, error)
	VetDar(ctx context.Context, address string, req *VetDarRequest) error
}
