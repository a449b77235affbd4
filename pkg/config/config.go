// Package config handles loading and validation of user configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/sgaunet/auto-release/internal/timeutil"
	"github.com/sgaunet/auto-release/pkg/git"
	"gopkg.in/yaml.v3"
)

// Head strategies for the release pull request.
const (
	// HeadSnapshot opens the pull request from a branch created at the tagged commit.
	HeadSnapshot = "snapshot"
	// HeadIntegration opens the pull request from the integration branch itself.
	HeadIntegration = "integration"
)

// Defaults applied to empty fields.
const (
	DefaultIntegrationBranch   = "main"
	DefaultReleaseBranch       = "release"
	DefaultReleaseMarkerPrefix = "[Release] "
	DefaultLegacyEpoch         = "2000-01-01T00:00:00Z"
	DefaultManifestPath        = "package.json"
	DefaultTagPrefix           = "v"
)

var (
	errInvalid    = errors.New("invalid configuration")
	errReadConfig = errors.New("failed to read config file")

	// ErrInvalid is returned when a configuration value is missing or malformed.
	ErrInvalid = errInvalid
	// ErrReadConfig is returned when an explicitly named config file cannot be read.
	ErrReadConfig = errReadConfig
)

// Config represents the complete configuration for auto-release.
type Config struct {
	Platform string        `yaml:"platform" toml:"platform"`
	BaseURL  string        `yaml:"base_url" toml:"base_url"`
	LockFile string        `yaml:"lock_file" toml:"lock_file"`
	Release  ReleaseConfig `yaml:"release" toml:"release"`
}

// ReleaseConfig describes the repository and branch topology of a release.
type ReleaseConfig struct {
	Owner               string `yaml:"owner" toml:"owner"`
	Repo                string `yaml:"repo" toml:"repo"`
	IntegrationBranch   string `yaml:"integration_branch" toml:"integration_branch"`
	ReleaseBranch       string `yaml:"release_branch" toml:"release_branch"`
	ReleaseMarkerPrefix string `yaml:"release_marker_prefix" toml:"release_marker_prefix"`
	LegacyEpoch         string `yaml:"legacy_epoch" toml:"legacy_epoch"`
	ManifestPath        string `yaml:"manifest_path" toml:"manifest_path"`
	TagPrefix           string `yaml:"tag_prefix" toml:"tag_prefix"`
	HeadStrategy        string `yaml:"head_strategy" toml:"head_strategy"`
}

// DefaultPath returns ~/.config/auto-release/config.yml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "auto-release", "config.yml"), nil
}

// Load reads the configuration at path, or the default path when path is
// empty. A missing default file yields the defaults; a missing explicit
// file is an error. The format follows the extension: .toml is TOML,
// anything else YAML. Load does not validate; call Validate once remote
// inference has filled the gaps.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	// #nosec G304 - Reading a user-selected config file is intentional
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			cfg := &Config{}
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("%w: %s: %w", errReadConfig, path, err)
	}

	cfg, err := Parse(path, data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes data as TOML or YAML depending on the extension of name
// and fills defaults.
func Parse(name string, data []byte) (*Config, error) {
	var cfg Config
	if strings.EqualFold(filepath.Ext(name), ".toml") {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: failed to parse config file: %w", errInvalid, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: failed to parse config file: %w", errInvalid, err)
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	r := &c.Release
	setDefault(&r.IntegrationBranch, DefaultIntegrationBranch)
	setDefault(&r.ReleaseBranch, DefaultReleaseBranch)
	setDefault(&r.ReleaseMarkerPrefix, DefaultReleaseMarkerPrefix)
	setDefault(&r.LegacyEpoch, DefaultLegacyEpoch)
	setDefault(&r.ManifestPath, DefaultManifestPath)
	setDefault(&r.TagPrefix, DefaultTagPrefix)
	setDefault(&r.HeadStrategy, HeadSnapshot)
}

func setDefault(field *string, value string) {
	if strings.TrimSpace(*field) == "" {
		*field = value
	}
}

// ApplyRemote fills platform, owner, and repo from the origin remote when
// they are not configured.
func (c *Config) ApplyRemote(remote *git.Remote) {
	if remote == nil {
		return
	}
	setDefault(&c.Platform, string(remote.Platform))
	if c.Release.Owner == "" && c.Release.Repo == "" {
		c.Release.Owner = remote.Owner
		c.Release.Repo = remote.Repo
	}
}

// PlatformName returns the validated platform.
func (c *Config) PlatformName() (git.Platform, error) {
	p, err := git.ParsePlatform(c.Platform)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errInvalid, err)
	}
	return p, nil
}

// TokenEnv returns the environment variable holding the API token.
func (c *Config) TokenEnv() string {
	if p, err := git.ParsePlatform(c.Platform); err == nil && p == git.PlatformGitLab {
		return "GITLAB_TOKEN"
	}
	return "GITHUB_TOKEN"
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if _, err := c.PlatformName(); err != nil {
		return err
	}

	r := c.Release
	if r.Owner == "" || r.Repo == "" {
		return fmt.Errorf("%w: owner and repo are required (none could be inferred from the origin remote)", errInvalid)
	}
	if r.IntegrationBranch == r.ReleaseBranch {
		return fmt.Errorf("%w: integration_branch and release_branch must differ (both %q)", errInvalid, r.ReleaseBranch)
	}
	if strings.TrimSpace(r.ReleaseMarkerPrefix) == "" {
		return fmt.Errorf("%w: release_marker_prefix must not be blank", errInvalid)
	}
	if _, err := c.Epoch(); err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(r.ManifestPath)) {
	case ".json", ".yml", ".yaml":
	default:
		return fmt.Errorf("%w: manifest_path %q must be a .json, .yml or .yaml file", errInvalid, r.ManifestPath)
	}
	switch r.HeadStrategy {
	case HeadSnapshot, HeadIntegration:
	default:
		return fmt.Errorf("%w: head_strategy %q must be %q or %q", errInvalid, r.HeadStrategy, HeadSnapshot, HeadIntegration)
	}
	return nil
}

// Epoch returns the cutoff used when no release tag exists.
func (c *Config) Epoch() (time.Time, error) {
	t, err := timeutil.ParseTimestamp(c.Release.LegacyEpoch)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: legacy_epoch: %w", errInvalid, err)
	}
	return t, nil
}
