// Package config loads and persists hangar's configuration. Defaults are
// embedded in the binary; a user file in the XDG config directory overrides
// them. The only value hangar writes back is the detected simulator
// packages path, so it survives restarts without re-probing the disk.
package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"

	hangarerr "github.com/arthur-debert/hangar/pkg/errors"
)

// Well-known configuration keys.
const (
	// KeySimPackagesPath remembers the detected simulator packages path
	KeySimPackagesPath = "sim.packages_path"

	// KeyInstallDeleteSource controls whether installs delete extracted sources
	KeyInstallDeleteSource = "install.delete_source"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements a koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Config is hangar's loaded configuration plus the file it persists to.
type Config struct {
	k    *koanf.Koanf
	path string
}

// Load reads the embedded defaults and, if present, the user configuration
// file at the given path.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// 1. Load built-in defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, hangarerr.Wrap(err, hangarerr.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Load the user config file if it exists
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, hangarerr.Wrapf(err, hangarerr.ErrConfigLoad, "failed to load config from %s", path)
		}
	}

	return &Config{k: k, path: path}, nil
}

// GetString returns the string value for a key, or "" when absent.
func (c *Config) GetString(key string) string {
	return c.k.String(key)
}

// GetBool returns the boolean value for a key, or false when absent.
func (c *Config) GetBool(key string) bool {
	return c.k.Bool(key)
}

// SimPackagesPath returns the remembered simulator packages path, or ""
// when detection has not run yet.
func (c *Config) SimPackagesPath() string {
	return c.k.String(KeySimPackagesPath)
}

// SetSimPackagesPath updates the remembered packages path and persists the
// whole configuration.
func (c *Config) SetSimPackagesPath(path string) error {
	if err := c.k.Set(KeySimPackagesPath, path); err != nil {
		return hangarerr.Wrap(err, hangarerr.ErrConfigWrite, "failed to set packages path")
	}
	return c.save()
}

// save writes the merged configuration back to the user config file.
func (c *Config) save() error {
	data, err := gotoml.Marshal(c.k.Raw())
	if err != nil {
		return hangarerr.Wrap(err, hangarerr.ErrConfigWrite, "failed to marshal config")
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return hangarerr.Wrapf(err, hangarerr.ErrConfigWrite, "failed to create config directory")
	}

	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return hangarerr.Wrapf(err, hangarerr.ErrConfigWrite, "failed to write config to %s", c.path)
	}

	return nil
}
