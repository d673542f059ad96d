package clientcli

import (
	"cmp"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// DefaultEndpoint is the default media server URL.
const DefaultEndpoint = "http://127.0.0.1:8889"

// Profile holds configuration for a single media server.
type Profile struct {
	Name     string `yaml:"name"`
	Endpoint string `yaml:"endpoint"`
	// Storage is the default storage_type for uploads (public or private).
	Storage string `yaml:"storage,omitempty"`
	Default bool   `yaml:"default,omitempty"`
}

// ConfigFile holds the full config file structure with multiple profiles.
type ConfigFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// index returns the position of the named profile, or -1.
func (c *ConfigFile) index(name string) int {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			return i
		}
	}
	return -1
}

// GetProfile returns the named profile, or the default one for "".
func (c *ConfigFile) GetProfile(name string) (*Profile, error) {
	if name == "" {
		return c.GetDefaultProfile()
	}
	if len(c.Profiles) == 0 {
		return nil, ErrNoProfiles
	}

	i := c.index(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	return &c.Profiles[i], nil
}

// GetDefaultProfile returns the profile flagged default, falling back to
// the first one.
func (c *ConfigFile) GetDefaultProfile() (*Profile, error) {
	if len(c.Profiles) == 0 {
		return nil, ErrNoProfiles
	}

	i := slices.IndexFunc(c.Profiles, func(p Profile) bool { return p.Default })
	return &c.Profiles[max(i, 0)], nil
}

// AddProfile appends p; names are unique.
func (c *ConfigFile) AddProfile(p Profile) error {
	if c.index(p.Name) >= 0 {
		return fmt.Errorf("%w: %s", ErrProfileExists, p.Name)
	}
	c.Profiles = append(c.Profiles, p)
	return nil
}

// UpdateProfile replaces the profile with the same name.
func (c *ConfigFile) UpdateProfile(p Profile) error {
	i := c.index(p.Name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, p.Name)
	}
	c.Profiles[i] = p
	return nil
}

func (c *ConfigFile) RemoveProfile(name string) error {
	i := c.index(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	c.Profiles = slices.Delete(c.Profiles, i, i+1)
	return nil
}

// SetDefault flags name as the only default profile.
func (c *ConfigFile) SetDefault(name string) error {
	target := c.index(name)
	if target < 0 {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}

	for i := range c.Profiles {
		c.Profiles[i].Default = i == target
	}
	return nil
}

func (c *ConfigFile) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for _, p := range c.Profiles {
		names = append(names, p.Name)
	}
	return names
}

// Save writes the profiles as YAML with owner-only permissions.
func (c *ConfigFile) Save(path string) error {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o600)
}

// LoadConfigFile reads a profile file. A missing file wraps os.ErrNotExist.
func LoadConfigFile(path string) (*ConfigFile, error) {
	data, err := os.ReadFile(filepath.Clean(path)) //#nosec G304 -- path is user-provided config file
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cf := &ConfigFile{}
	if err := yaml.Unmarshal(data, cf); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cf, nil
}

// DefaultConfigPath returns ~/.grabbieldb/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".grabbieldb", "config.yaml")
}

// Config holds resolved client configuration for a single server.
type Config struct {
	Endpoint string
	Storage  string
}

// Validate checks that Endpoint is an absolute http(s) URL.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEndpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidEndpoint, c.Endpoint)
	}
	return nil
}

// WithDefaults returns a copy of the config with default values applied.
func (c *Config) WithDefaults() *Config {
	cfg := *c
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	return &cfg
}

// ConfigFromProfile creates a Config from a Profile.
func ConfigFromProfile(p *Profile) *Config {
	if p == nil {
		return &Config{}
	}
	return &Config{
		Endpoint: p.Endpoint,
		Storage:  p.Storage,
	}
}

// ConfigFromEnv loads config from GRABBIELDB_ENDPOINT and GRABBIELDB_STORAGE.
func ConfigFromEnv() *Config {
	return &Config{
		Endpoint: os.Getenv("GRABBIELDB_ENDPOINT"),
		Storage:  os.Getenv("GRABBIELDB_STORAGE"),
	}
}

// ProfileFromEnv returns the profile name from GRABBIELDB_PROFILE.
func ProfileFromEnv() string {
	return os.Getenv("GRABBIELDB_PROFILE")
}

// ConfigPathFromEnv returns the config file path from GRABBIELDB_CLI_CONFIG.
func ConfigPathFromEnv() string {
	return os.Getenv("GRABBIELDB_CLI_CONFIG")
}

// MergeConfig layers configs left to right. Empty fields never override.
func MergeConfig(configs ...*Config) *Config {
	merged := &Config{}
	for _, cfg := range configs {
		if cfg == nil {
			continue
		}
		merged.Endpoint = cmp.Or(cfg.Endpoint, merged.Endpoint)
		merged.Storage = cmp.Or(cfg.Storage, merged.Storage)
	}
	return merged
}
