package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/oshokin/dar-publisher/internal/config"
)

// Repository defines persistence operations for the package registry.
type Repository interface {
	Load(ctx context.Context) (*Registry, error)
	Upsert(ctx context.Context, version, packageID string) (*Registry, error)
}

// FileRepository persists the registry to a JSON file on disk.
// The file is an entirely machine-written artifact; it must round-trip through
// this repository but is not expected to survive arbitrary hand edits.
type FileRepository struct {
	// path is the filesystem location of the JSON registry file.
	path string
}

// ErrNotFound is returned when the registry file does not exist yet.
var ErrNotFound = errors.New("registry not found")

// errLocked is returned when another publish holds the registry lock.
var errLocked = errors.New("registry is locked by another publish")

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the registry from disk.
func (r *FileRepository) Load(_ context.Context) (*Registry, error) {
	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read registry file: %w", err)
	}

	var reg Registry
	if err = json.Unmarshal(contents, &reg); err != nil {
		return nil, fmt.Errorf("decode registry file: %w", err)
	}

	if reg.Entries == nil {
		reg.Entries = make(Entries)
	}

	return &reg, nil
}

// Upsert merges the (version, packageID) pair into the persisted registry and
// writes it back, creating the file from an empty template when absent.
// The read-modify-write runs under an advisory file lock so a concurrent
// publish fails fast rather than silently racing.
func (r *FileRepository) Upsert(ctx context.Context, version, packageID string) (*Registry, error) {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o750); err != nil {
		return nil, fmt.Errorf("create registry directory: %w", err)
	}

	fsLock := flock.New(r.path + ".lock")

	locked, err := fsLock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire registry lock %q: %w", fsLock.Path(), err)
	}

	if !locked {
		return nil, fmt.Errorf("acquire registry lock %q: %w", fsLock.Path(), errLocked)
	}

	defer func() {
		_ = fsLock.Unlock()
	}()

	reg, err := r.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		reg = New()
	} else if err != nil {
		return nil, err
	}

	reg.Upsert(version, packageID)

	if err = r.save(reg); err != nil {
		return nil, err
	}

	return reg, nil
}

// save writes the registry to disk, entries newest-first.
func (r *FileRepository) save(reg *Registry) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}

	data = append(data, '\n')

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write registry file: %w", err)
	}

	return nil
}
