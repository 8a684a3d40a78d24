package publish

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/dar-publisher/internal/domain/release"
)

// TestDistribute_Success uploads authoritative-first and returns the first DAR ID.
func TestDistribute_Success(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	svc := newFakeParticipants("abc123", "extra456")
	artifact := &release.Artifact{Version: "1.0.0", Bytes: []byte{0x01, 0x02, 0x03}}

	packageID, outcomes, err := NewDistributor(svc, cfg).Distribute(context.Background(), artifact)
	require.NoError(t, err)
	require.Equal(t, "abc123", packageID)

	require.Equal(t, []call{
		{method: "upload", address: providerAddress},
		{method: "upload", address: userAddress},
	}, svc.calls)

	require.Len(t, outcomes, 2)
	require.True(t, outcomes[0].Success)
	require.Equal(t, "app-provider", outcomes[0].Node)
	require.Equal(t, "abc123", outcomes[0].PackageID)
	require.True(t, outcomes[1].Success)

	// Every participant receives the same encoded payload.
	request := svc.uploads[providerAddress]
	require.Equal(t, svc.uploads[userAddress], request)
	require.Len(t, request.Dars, 1)
	require.Equal(t, base64.StdEncoding.EncodeToString(artifact.Bytes), request.Dars[0].Bytes)
	require.Equal(t, "minimal-token v1.0.0", request.Dars[0].Description)
	require.True(t, request.VetAllPackages)
	require.True(t, request.SynchronizeVetting)
}

// TestDistribute_AuthoritativeFailure aborts before any secondary upload.
func TestDistribute_AuthoritativeFailure(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	svc := newFakeParticipants("abc123")
	svc.failUploads[providerAddress] = "connection refused"

	_, outcomes, err := NewDistributor(svc, cfg).
		Distribute(context.Background(), &release.Artifact{Version: "1.0.0", Bytes: []byte{0x01}})
	require.ErrorIs(t, err, ErrDistribution)
	require.ErrorContains(t, err, "app-provider")

	require.Equal(t, []call{{method: "upload", address: providerAddress}}, svc.calls)
	require.Len(t, outcomes, 1)
	require.False(t, outcomes[0].Success)
	require.Equal(t, "connection refused", outcomes[0].Detail)
}

// TestDistribute_NoPackageID treats a successful upload without identifiers as fatal.
func TestDistribute_NoPackageID(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	svc := newFakeParticipants() // empty darIds

	_, _, err := NewDistributor(svc, cfg).
		Distribute(context.Background(), &release.Artifact{Version: "1.0.0", Bytes: []byte{0x01}})
	require.ErrorIs(t, err, ErrDistribution)
	require.ErrorContains(t, err, "no package ID")

	// Nothing is pushed to secondaries without a canonical package ID.
	require.Equal(t, []call{{method: "upload", address: providerAddress}}, svc.calls)
}

// TestDistribute_SecondaryFailure is fatal: an unevenly distributed DAR must
// not be registered as available.
func TestDistribute_SecondaryFailure(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	svc := newFakeParticipants("abc123")
	svc.failUploads[userAddress] = "participant unavailable"

	_, outcomes, err := NewDistributor(svc, cfg).
		Distribute(context.Background(), &release.Artifact{Version: "1.0.0", Bytes: []byte{0x01}})
	require.ErrorIs(t, err, ErrDistribution)
	require.ErrorContains(t, err, "app-user")

	require.Len(t, outcomes, 2)
	require.True(t, outcomes[0].Success)
	require.False(t, outcomes[1].Success)
}
