package release

// Artifact is a built DAR located on disk for a specific version.
// It is immutable once loaded.
type Artifact struct {
	// Version is the semantic version the DAR was built for.
	Version string
	// Bytes is the raw DAR content.
	Bytes []byte
}

// UploadOutcome records the result of pushing the DAR to one participant.
type UploadOutcome struct {
	// Node is the participant name the upload was sent to.
	Node string
	// Success reports whether the participant accepted the DAR.
	Success bool
	// PackageID is the package ID the participant returned, when it returned one.
	// Only the authoritative participant's value is canonical.
	PackageID string
	// Detail carries the failure description when Success is false.
	Detail string
}

// ActivationOutcome records the result of vetting the package on one participant.
type ActivationOutcome struct {
	// Node is the participant name the vetting request was sent to.
	Node string
	// Success reports whether vetting completed on the participant.
	Success bool
	// Detail carries the failure description when Success is false.
	Detail string
}

// FailedActivations filters the outcomes down to the participants where vetting failed.
func FailedActivations(outcomes []ActivationOutcome) []ActivationOutcome {
	var failed []ActivationOutcome

	for _, outcome := range outcomes {
		if !outcome.Success {
			failed = append(failed, outcome)
		}
	}

	return failed
}
