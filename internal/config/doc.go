// Package config defines publisher settings used by the binaries and provides
// helpers to load, validate and save them in YAML format.
//
// The Config type holds the Daml project layout, the participant node list and
// the registry file location. Node addresses and roles live here rather than in
// code so tests can substitute fake participants.
package config
