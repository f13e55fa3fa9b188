// Package config loads the depgraph configuration file.
//
// The file is TOML and every key is optional; a missing default file
// yields [Default]. Command-line flags override what the file sets.
//
//	[match]
//	app_prefix  = "dpdk-"
//	app_types   = ["app", "examples"]
//	driver_type = "drivers"
//
//	[render]
//	format = "dot"
//	layout = "neato"
//	scale  = 2.0
//
//	[server]
//	addr       = ":8080"
//	watch      = false
//	cache_size = 256
//
//	[cache]
//	enabled = true
//	dir     = "~/.cache/depgraph"
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	deperrors "github.com/matzehuels/depgraph/pkg/errors"
	"github.com/matzehuels/depgraph/pkg/match"
	"github.com/matzehuels/depgraph/pkg/pipeline"
	"github.com/matzehuels/depgraph/pkg/render/nodelink"
)

// AppName names the configuration and cache directories.
const AppName = "depgraph"

// FileName is the configuration file name inside the config directory.
const FileName = "config.toml"

// Config is the complete configuration.
type Config struct {
	Match  MatchConfig  `toml:"match"`
	Render RenderConfig `toml:"render"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
}

// MatchConfig holds the naming conventions used by the name resolver.
type MatchConfig struct {
	AppPrefix  string   `toml:"app_prefix"`
	AppTypes   []string `toml:"app_types"`
	DriverType string   `toml:"driver_type"`
}

// RenderConfig holds output defaults for draw.
type RenderConfig struct {
	Format string  `toml:"format"`
	Layout string  `toml:"layout"`
	Scale  float64 `toml:"scale"`
}

// ServerConfig configures the HTTP query service.
type ServerConfig struct {
	Addr      string `toml:"addr"`
	Watch     bool   `toml:"watch"`
	CacheSize int    `toml:"cache_size"` // rendered responses kept in memory
}

// CacheConfig configures the on-disk artifact cache of the CLI.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"` // empty means the user cache directory
}

// Default returns the built-in configuration.
func Default() Config {
	def := match.DefaultOptions()
	return Config{
		Match: MatchConfig{
			AppPrefix:  def.AppPrefix,
			AppTypes:   def.AppTypes,
			DriverType: def.DriverType,
		},
		Render: RenderConfig{
			Format: pipeline.DefaultFormat,
			Layout: nodelink.DefaultLayout,
			Scale:  pipeline.DefaultScale,
		},
		Server: ServerConfig{
			Addr:      ":8080",
			CacheSize: 256,
		},
		Cache: CacheConfig{Enabled: true},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/depgraph/config.toml, or the
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, FileName), nil
}

// Load reads the configuration at path on top of [Default].
//
// An empty path means [DefaultPath], and a missing default file is not an
// error. A path given explicitly must exist. Unknown keys are rejected so
// that typos do not go unnoticed. All errors carry
// [deperrors.ErrCodeInvalidConfig].
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, deperrors.Wrap(deperrors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, deperrors.New(deperrors.ErrCodeInvalidConfig,
			"%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, deperrors.Wrap(deperrors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, nil
}

// Validate checks the values that cannot be checked by decoding alone.
func (c Config) Validate() error {
	if c.Match.DriverType == "" {
		return errors.New("match.driver_type must not be empty")
	}
	if err := deperrors.ValidateTypeName(c.Match.DriverType); err != nil {
		return err
	}
	for _, t := range c.Match.AppTypes {
		if err := deperrors.ValidateTypeName(t); err != nil {
			return err
		}
	}
	if err := pipeline.ValidateFormat(c.Render.Format); err != nil {
		return err
	}
	if !slices.Contains(nodelink.Layouts, c.Render.Layout) {
		return errors.New("render.layout: unknown Graphviz engine " + c.Render.Layout)
	}
	if c.Render.Scale <= 0 {
		return errors.New("render.scale must be positive")
	}
	if c.Server.CacheSize < 0 {
		return errors.New("server.cache_size must not be negative")
	}
	return nil
}

// MatchOptions converts the [match] section into resolver options.
func (c Config) MatchOptions() match.Options {
	return match.Options{
		AppPrefix:  c.Match.AppPrefix,
		AppTypes:   slices.Clone(c.Match.AppTypes),
		DriverType: c.Match.DriverType,
	}
}

// PipelineOptions converts the [render] section into pipeline options.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Format: c.Render.Format,
		Layout: c.Render.Layout,
		Scale:  c.Render.Scale,
	}
}

// CacheDir returns the artifact cache directory: Cache.Dir with a leading
// "~" expanded, or the user cache directory.
func (c Config) CacheDir() (string, error) {
	if dir := c.Cache.Dir; dir != "" {
		if rest, ok := strings.CutPrefix(dir, "~"); ok {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			return filepath.Join(home, rest), nil
		}
		return dir, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}
