package registry

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFileRepository_NotFound verifies Load returns ErrNotFound for missing file.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "missing.json"))

	reg, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, reg)
}

// TestFileRepository_Upsert_CreatesTemplate ensures the first publish creates
// the file (and parent directories) from an empty template.
func TestFileRepository_Upsert_CreatesTemplate(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "src", "config", "packages.json")
	repo := NewFileRepository(file)

	reg, err := repo.Upsert(context.Background(), "1.0.0", "abc123")
	require.NoError(t, err)
	require.Equal(t, "1.0.0", reg.CurrentVersion)
	require.Equal(t, "abc123", reg.CurrentPackageID)
	require.Equal(t, Entries{"1.0.0": "abc123"}, reg.Entries)

	_, err = os.Stat(file)
	require.NoError(t, err)
}

// TestFileRepository_Roundtrip ensures a saved registry parses back to the same entry set.
func TestFileRepository_Roundtrip(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "packages.json")
	repo := NewFileRepository(file)

	_, err := repo.Upsert(context.Background(), "1.0.0", "abc123")
	require.NoError(t, err)

	_, err = repo.Upsert(context.Background(), "1.1.0", "def456")
	require.NoError(t, err)

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "1.1.0", got.CurrentVersion)
	require.Equal(t, "def456", got.CurrentPackageID)
	require.Equal(t, Entries{
		"1.0.0": "abc123",
		"1.1.0": "def456",
	}, got.Entries)
}

// TestFileRepository_Upsert_Overwrites checks repeated publishes of the same
// version keep only the latest package ID and leave other versions alone.
func TestFileRepository_Upsert_Overwrites(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "packages.json"))
	ctx := context.Background()

	_, err := repo.Upsert(ctx, "1.0.0", "abc123")
	require.NoError(t, err)

	_, err = repo.Upsert(ctx, "1.0.0", "fff999")
	require.NoError(t, err)

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, Entries{"1.0.0": "fff999"}, got.Entries)
}

// TestFileRepository_LastWriteWins verifies publishing an older version still
// moves the current pointer to it while newer entries are preserved.
func TestFileRepository_LastWriteWins(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "packages.json"))
	ctx := context.Background()

	_, err := repo.Upsert(ctx, "1.0.0", "abc123")
	require.NoError(t, err)

	got, err := repo.Upsert(ctx, "0.9.0", "old999")
	require.NoError(t, err)
	require.Equal(t, "0.9.0", got.CurrentVersion)
	require.Equal(t, "old999", got.CurrentPackageID)
	require.Equal(t, Entries{
		"1.0.0": "abc123",
		"0.9.0": "old999",
	}, got.Entries)
}

// TestSave_EntriesOrderedVersionDescending pins the on-disk key order:
// semantic descending, including versions where string order would differ.
func TestSave_EntriesOrderedVersionDescending(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "packages.json")
	repo := NewFileRepository(file)
	ctx := context.Background()

	for version, id := range map[string]string{
		"0.9.0":  "old999",
		"1.10.0": "big111",
		"1.2.0":  "mid222",
	} {
		_, err := repo.Upsert(ctx, version, id)
		require.NoError(t, err)
	}

	contents, err := os.ReadFile(file)
	require.NoError(t, err)

	// Scope the index checks to the entries object so the currentVersion
	// header (whichever version was upserted last) cannot match first.
	text := string(contents)
	entriesStart := strings.Index(text, `"entries"`)
	require.GreaterOrEqual(t, entriesStart, 0)
	text = text[entriesStart:]
	require.Less(t, strings.Index(text, `"1.10.0"`), strings.Index(text, `"1.2.0"`))
	require.Less(t, strings.Index(text, `"1.2.0"`), strings.Index(text, `"0.9.0"`))
}

// TestCompareVersions covers the semantic comparison and its string fallback.
func TestCompareVersions(t *testing.T) {
	t.Parallel()

	require.Positive(t, compareVersions("1.10.0", "1.2.0"))
	require.Negative(t, compareVersions("0.9.0", "1.0.0"))
	require.Zero(t, compareVersions("1.0.0", "1.0.0"))

	// Unparseable versions fall back to string comparison.
	require.Positive(t, compareVersions("nightly-b", "nightly-a"))
	require.Negative(t, compareVersions("1.0.0", "v-custom"))
}
