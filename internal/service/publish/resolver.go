package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/dar-publisher/internal/config"
	"github.com/oshokin/dar-publisher/internal/logger"
)

// manifest is the slice of daml.yaml the resolver cares about.
type manifest struct {
	Version string `yaml:"version"`
}

// ResolveVersion determines the version to publish. An explicit value is used
// verbatim; otherwise the version field of the project manifest is read.
func ResolveVersion(ctx context.Context, cfg *config.Config, explicit string) (string, error) {
	if explicit != "" {
		logger.InfoKV(ctx, "Using version from command line", "version", explicit)
		return explicit, nil
	}

	path := cfg.ManifestPath()
	logger.InfoKV(ctx, "Reading version from project manifest", "path", path)

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("%w: read manifest %s: %w", ErrConfig, path, err)
	}

	var m manifest
	if err = yaml.Unmarshal(contents, &m); err != nil {
		return "", fmt.Errorf("%w: parse manifest %s: %w", ErrConfig, path, err)
	}

	if m.Version == "" {
		return "", fmt.Errorf("%w: manifest %s has no version field", ErrConfig, path)
	}

	return m.Version, nil
}
