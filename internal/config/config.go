package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Role describes what a participant node contributes to a publish run.
type Role string

const (
	// RoleAuthoritative marks the node whose upload response supplies the canonical package ID.
	RoleAuthoritative Role = "authoritative"
	// RoleSecondary marks every other node receiving the DAR.
	RoleSecondary Role = "secondary"
)

// Node is a single Canton participant admin endpoint.
type Node struct {
	// Name is a human-readable participant name used in logs and errors.
	Name string `yaml:"name"`
	// Address is the host:port of the participant admin API.
	Address string `yaml:"address"`
	// Role is either authoritative or secondary.
	Role Role `yaml:"role"`
}

// IsAuthoritative reports whether this node supplies the canonical package ID.
func (n Node) IsAuthoritative() bool {
	return n.Role == RoleAuthoritative
}

// Config holds everything a publish run needs: where the Daml project lives,
// which participants to push to, and where the package registry is written.
type Config struct {
	// ProjectRoot is the Daml project root directory. Relative paths below resolve against it.
	ProjectRoot string `yaml:"project_root"`
	// DarDir is the directory holding built DAR files, relative to ProjectRoot.
	DarDir string `yaml:"dar_dir"`
	// DarName is the artifact base name; the DAR for version V is <DarName>-<V>.dar.
	DarName string `yaml:"dar_name"`
	// ManifestFile is the daml.yaml path used to resolve the version when none is given.
	ManifestFile string `yaml:"manifest_file"`
	// RegistryFile is the JSON package registry consumed by other services.
	RegistryFile string `yaml:"registry_file"`
	// Timeout is the duration for individual admin API calls.
	Timeout time.Duration `yaml:"timeout"`
	// Nodes lists the participants in upload/vetting order.
	// Exactly one must be authoritative; at least one must be secondary.
	Nodes []Node `yaml:"participants"`
}

const (
	// DefaultConfigFilename is the default filename for publisher settings.
	DefaultConfigFilename = "dar-publisher.yaml"

	// DefaultTimeout is the default duration for admin API calls.
	DefaultTimeout = 30 * time.Second

	// DefaultFilePermissions is the default file permission for generated files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errDarNameRequired is returned when the artifact base name is missing.
	errDarNameRequired = errors.New("dar_name must be provided")
	// errRegistryFileRequired is returned when the registry path is missing.
	errRegistryFileRequired = errors.New("registry_file must be provided")
	// errNoNodes is returned when the participant list is empty.
	errNoNodes = errors.New("at least one participant must be configured")
	// errOneAuthoritative is returned unless exactly one node is authoritative.
	errOneAuthoritative = errors.New("exactly one participant must have the authoritative role")
	// errNoSecondaries is returned when no secondary participant is configured.
	errNoSecondaries = errors.New("at least one secondary participant must be configured")
	// errNodeNameRequired is returned when a participant has no name.
	errNodeNameRequired = errors.New("participant name must be provided")
	// errUnknownRole is returned when a participant role is not recognized.
	errUnknownRole = errors.New("participant role must be authoritative or secondary")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided configuration for required fields and formatting,
// filling defaults for optional ones.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.DarName == "" {
		return errDarNameRequired
	}

	if cfg.RegistryFile == "" {
		return errRegistryFileRequired
	}

	if err := validateNodes(cfg.Nodes); err != nil {
		return err
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.ProjectRoot == "" {
		cfg.ProjectRoot = "."
	}

	return nil
}

// validateNodes enforces the participant set shape: exactly one authoritative
// node, a non-empty secondary set, reachable-looking addresses.
func validateNodes(nodes []Node) error {
	if len(nodes) == 0 {
		return errNoNodes
	}

	var authoritative, secondaries int

	for _, node := range nodes {
		if node.Name == "" {
			return errNodeNameRequired
		}

		if _, err := net.ResolveTCPAddr("tcp", node.Address); err != nil {
			return fmt.Errorf("participant %s: invalid address: %w", node.Name, err)
		}

		switch node.Role {
		case RoleAuthoritative:
			authoritative++
		case RoleSecondary:
			secondaries++
		default:
			return fmt.Errorf("participant %s: %w", node.Name, errUnknownRole)
		}
	}

	if authoritative != 1 {
		return errOneAuthoritative
	}

	if secondaries == 0 {
		return errNoSecondaries
	}

	return nil
}

// Authoritative returns the single authoritative node.
// Validate guarantees it exists.
func (c *Config) Authoritative() Node {
	for _, node := range c.Nodes {
		if node.IsAuthoritative() {
			return node
		}
	}

	return Node{}
}

// Secondaries returns the secondary nodes in configuration order.
func (c *Config) Secondaries() []Node {
	result := make([]Node, 0, len(c.Nodes))

	for _, node := range c.Nodes {
		if !node.IsAuthoritative() {
			result = append(result, node)
		}
	}

	return result
}

// DarPath returns the filesystem path of the built DAR for the given version.
// It is a pure function of the configuration and the version string.
func (c *Config) DarPath(version string) string {
	return filepath.Join(c.ProjectRoot, c.DarDir, fmt.Sprintf("%s-%s.dar", c.DarName, version))
}

// ManifestPath returns the resolved daml.yaml path.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.ProjectRoot, c.ManifestFile)
}

// RegistryPath returns the resolved registry file path.
func (c *Config) RegistryPath() string {
	return filepath.Join(c.ProjectRoot, c.RegistryFile)
}
