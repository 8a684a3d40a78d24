package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/dar-publisher/internal/config"
	"github.com/oshokin/dar-publisher/internal/transport"
)

// call records one admin API invocation for order and target assertions.
type call struct {
	method  string
	address string
}

// fakeParticipants implements transport.PackageService in memory.
type fakeParticipants struct {
	// calls is every invocation in order.
	calls []call
	// uploads captures the upload request sent to each address.
	uploads map[string]*transport.UploadDarRequest
	// darIDs is the upload response identifier list.
	darIDs []string
	// failUploads maps addresses to upload error messages.
	failUploads map[string]string
	// failVets maps addresses to vetting error messages.
	failVets map[string]string
}

func newFakeParticipants(darIDs ...string) *fakeParticipants {
	return &fakeParticipants{
		uploads:     make(map[string]*transport.UploadDarRequest),
		darIDs:      darIDs,
		failUploads: make(map[string]string),
		failVets:    make(map[string]string),
	}
}

// UploadDar implements transport.PackageService.
func (f *fakeParticipants) UploadDar(
	_ context.Context,
	address string,
	req *transport.UploadDarRequest,
) (*transport.UploadDarResponse, error) {
	f.calls = append(f.calls, call{method: "upload", address: address})
	f.uploads[address] = req

	if message, ok := f.failUploads[address]; ok {
		return nil, errors.New(message)
	}

	return &transport.UploadDarResponse{DarIDs: f.darIDs}, nil
}

// VetDar implements transport.PackageService.
func (f *fakeParticipants) VetDar(
	_ context.Context,
	address string,
	_ *transport.VetDarRequest,
) error {
	f.calls = append(f.calls, call{method: "vet", address: address})

	if message, ok := f.failVets[address]; ok {
		return errors.New(message)
	}

	return nil
}

// vetCalls returns only the vetting invocations.
func (f *fakeParticipants) vetCalls() []call {
	var vets []call

	for _, c := range f.calls {
		if c.method == "vet" {
			vets = append(vets, c)
		}
	}

	return vets
}

// Participant addresses shared by the tests.
const (
	providerAddress = "127.0.0.1:3902"
	userAddress     = "127.0.0.1:2902"
)

// testConfig returns a validated configuration rooted in a temp directory.
func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{
		ProjectRoot:  t.TempDir(),
		DarDir:       ".daml/dist",
		DarName:      "minimal-token",
		ManifestFile: "daml.yaml",
		RegistryFile: filepath.Join("src", "config", "packages.json"),
		Nodes: []config.Node{
			{Name: "app-provider", Address: providerAddress, Role: config.RoleAuthoritative},
			{Name: "app-user", Address: userAddress, Role: config.RoleSecondary},
		},
	}
	require.NoError(t, config.Validate(cfg))

	return cfg
}

// writeDar creates a DAR file for the version under the configured dist directory.
func writeDar(t *testing.T, cfg *config.Config, version string, contents []byte) {
	t.Helper()

	path := cfg.DarPath(version)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, contents, 0o600))
}

// writeManifest creates a daml.yaml with the given version field.
func writeManifest(t *testing.T, cfg *config.Config, body string) {
	t.Helper()

	require.NoError(t, os.WriteFile(cfg.ManifestPath(), []byte(body), 0o600))
}
