package publish

import "errors"

// Fatal error classes of a publish run. Everything wrapping one of these
// aborts the run and produces a non-zero exit status; per-participant vetting
// failures are deliberately not represented here (they are warnings).
var (
	// ErrConfig indicates the version to publish could not be resolved.
	ErrConfig = errors.New("version could not be resolved")
	// ErrArtifactNotFound indicates no built DAR exists for the resolved version.
	ErrArtifactNotFound = errors.New("dar not found")
	// ErrDistribution indicates an upload failed or returned no package ID.
	// The DAR must reach every participant before it may be registered.
	ErrDistribution = errors.New("dar distribution failed")
	// ErrRegistryWrite indicates the registry could not be read or written.
	ErrRegistryWrite = errors.New("registry update failed")
)

// errVettingIncomplete is returned by the vet-only entry point when one or
// more participants rejected the vetting request.
var errVettingIncomplete = errors.New("vetting did not complete on all participants")
