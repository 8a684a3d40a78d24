// Package publish implements the DAR publish pipeline: resolve the version to
// operate on, load the built DAR, distribute it to every configured
// participant (authoritative node first, since its response carries the
// canonical package ID), vet the package everywhere, and merge the resulting
// version → package ID pair into the registry.
//
// The pipeline is strictly sequential and fails fast on any upload error;
// per-participant vetting failures are collected and reported as warnings
// instead. Run is the full pipeline, RunVet the activation-only entry point —
// both share the same Vetter.
package publish
