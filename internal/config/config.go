// Package config persists nixdash settings: the flake path, global extra
// arguments, and the known hosts with their connections. The file lives
// under the XDG config directory and is written back after any edit the
// UI makes.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

const (
	configDirName  = "nixdash"
	configFileName = "config.yaml"
)

// Config is the on-disk configuration.
type Config struct {
	FlakePath string                `yaml:"flake_path,omitempty"`
	ExtraArgs []string              `yaml:"extra_args,omitempty"`
	Hosts     map[string]HostConfig `yaml:"hosts"`

	path string // where this config was loaded from; empty means default
}

// Host is a (name, record) pair in stable name order.
type Host struct {
	Name string
	HostConfig
}

// DefaultPath returns the config file location, honoring XDG_CONFIG_HOME
// with a HOME/.config fallback.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, configDirName, configFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", configDirName, configFileName), nil
}

// Load reads the config file, creating a default one if it does not exist.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from an explicit path, creating a default
// file there when missing.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{Hosts: map[string]HostConfig{}, path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := cfg.Save(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Hosts == nil {
		cfg.Hosts = map[string]HostConfig{}
	}
	cfg.path = path
	return cfg, nil
}

// Save writes the config back to the file it was loaded from.
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return err
		}
		c.path = path
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("serializing config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// SortedHosts returns hosts in stable name order for display.
func (c *Config) SortedHosts() []Host {
	hosts := make([]Host, 0, len(c.Hosts))
	for name, hc := range c.Hosts {
		hosts = append(hosts, Host{Name: name, HostConfig: hc})
	}
	sort.Slice(hosts, func(i, j int) bool { return hosts[i].Name < hosts[j].Name })
	return hosts
}

// MergeDiscovered folds flake-discovered configuration names into the
// host table. Known hosts keep their connection; a name matching the
// current hostname becomes local; anything else starts unconfigured.
func (c *Config) MergeDiscovered(names map[string]struct{}, currentHostname string) {
	for name := range names {
		if _, ok := c.Hosts[name]; ok {
			continue
		}
		if name == currentHostname {
			c.Hosts[name] = LocalHost()
		} else {
			c.Hosts[name] = UnconfiguredHost()
		}
	}
}
