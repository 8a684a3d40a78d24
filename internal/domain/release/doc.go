// Package release holds the pure data types produced by a publish run:
// the located DAR artifact and the per-participant upload and vetting outcomes.
package release
