package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/dar-publisher/internal/config"
	"github.com/oshokin/dar-publisher/internal/domain/release"
	"github.com/oshokin/dar-publisher/internal/logger"
)

// LoadArtifact locates and reads the built DAR for the given version.
// The DAR path is a pure function of the configuration and the version.
func LoadArtifact(ctx context.Context, cfg *config.Config, version string) (*release.Artifact, error) {
	path := cfg.DarPath(version)
	logger.InfoKV(ctx, "Reading DAR file", "path", path)

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (did you run 'daml build' first?)", ErrArtifactNotFound, path)
		}

		return nil, fmt.Errorf("read dar %s: %w", path, err)
	}

	logger.InfoKV(ctx, "Loaded DAR file", "size_bytes", len(contents))

	return &release.Artifact{
		Version: version,
		Bytes:   contents,
	}, nil
}
