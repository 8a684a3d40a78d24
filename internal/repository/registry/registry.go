package registry

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/Masterminds/semver"
)

// Registry is the persisted version → package ID mapping consumed by other
// services. CurrentVersion and CurrentPackageID always reflect the most recent
// completed publish, regardless of how the versions compare.
type Registry struct {
	// CurrentVersion is the version of the most recent publish.
	CurrentVersion string `json:"currentVersion"`
	// CurrentPackageID is the canonical package ID of the most recent publish.
	CurrentPackageID string `json:"currentPackageId"`
	// Entries maps every published version to its canonical package ID.
	Entries Entries `json:"entries"`
}

// Entries is the version → package ID mapping. It serializes with keys ordered
// by version descending so the generated file reads newest-first.
type Entries map[string]string

// New returns an empty registry template.
func New() *Registry {
	return &Registry{
		Entries: make(Entries),
	}
}

// Upsert records the package ID for a version, overwriting any previous value,
// and marks the pair as current. Other versions' entries are untouched.
func (r *Registry) Upsert(version, packageID string) {
	if r.Entries == nil {
		r.Entries = make(Entries)
	}

	r.Entries[version] = packageID
	r.CurrentVersion = version
	r.CurrentPackageID = packageID
}

// MarshalJSON emits the entries as a JSON object with keys sorted by version
// descending, semantic comparison when both sides parse as semver and plain
// string comparison otherwise.
func (e Entries) MarshalJSON() ([]byte, error) {
	versions := make([]string, 0, len(e))
	for version := range e {
		versions = append(versions, version)
	}

	sort.Slice(versions, func(i, j int) bool {
		return compareVersions(versions[i], versions[j]) > 0
	})

	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, version := range versions {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(version)
		if err != nil {
			return nil, err
		}

		value, err := json.Marshal(e[version])
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// compareVersions orders two version strings: positive when a > b.
func compareVersions(a, b string) int {
	av, aErr := semver.NewVersion(a)
	bv, bErr := semver.NewVersion(b)

	if aErr == nil && bErr == nil {
		return av.Compare(bv)
	}

	return strings.Compare(a, b)
}
