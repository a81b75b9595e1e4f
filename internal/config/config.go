// Package config loads kipart settings from a YAML file, an optional .env
// file and KIPART_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/kipart/internal/logging"
	"github.com/OpenTraceLab/kipart/pkg/cache"
	"github.com/OpenTraceLab/kipart/pkg/catalog"
	"github.com/OpenTraceLab/kipart/pkg/lcsc"
	"github.com/OpenTraceLab/kipart/pkg/resolver"
)

// DefaultFile is the config file looked up when none is given.
const DefaultFile = "kipart.yaml"

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend string `yaml:"backend"` // memory, dir or sqlite
	Path    string `yaml:"path"`
}

// LCSCConfig configures the external conversion tool.
type LCSCConfig struct {
	Command       string        `yaml:"command"`
	Timeout       time.Duration `yaml:"timeout"`
	Disabled      bool          `yaml:"disabled"`
	TripThreshold int           `yaml:"trip_threshold"`
}

// ResolverConfig tunes part resolution.
type ResolverConfig struct {
	Workers         int    `yaml:"workers"`
	DisableFallback bool   `yaml:"disable_fallback"`
	WorkDir         string `yaml:"work_dir"`
}

// CatalogConfig extends the builtin role catalog.
type CatalogConfig struct {
	Roles     map[string]catalog.Entry `yaml:"roles"`
	Libraries []string                 `yaml:"libraries"`
}

// MetricsConfig configures the metrics textfile.
type MetricsConfig struct {
	File string `yaml:"file"`
}

// Config is the full kipart configuration.
type Config struct {
	Cache    CacheConfig    `yaml:"cache"`
	LCSC     LCSCConfig     `yaml:"lcsc"`
	Resolver ResolverConfig `yaml:"resolver"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Log      logging.Config `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`

	// dir is the directory of the loaded file; relative paths resolve
	// against it.
	dir string
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Backend: cache.BackendDir,
			Path:    defaultCachePath(),
		},
		LCSC: LCSCConfig{
			Command:       lcsc.DefaultCommand,
			Timeout:       lcsc.DefaultTimeout,
			TripThreshold: lcsc.DefaultTripThreshold,
		},
		Resolver: ResolverConfig{Workers: 1},
		Log:      logging.DefaultConfig(),
	}
}

func defaultCachePath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "kipart", "parts")
	}
	return ".kipart-cache"
}

// LoadConfig reads path over the defaults. A missing file is not an
// error; the defaults plus environment overrides are returned.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := DefaultConfig()

	// 2. Load YAML config
	if path != "" {
		file, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: %w", err)
		default:
			if err := yaml.Unmarshal(file, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
			cfg.dir = filepath.Dir(path)
		}
	}

	// 3. Override with environment variables if present
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("KIPART_CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("KIPART_CACHE_PATH"); v != "" {
		c.Cache.Path = v
	}
	if v := os.Getenv("KIPART_LCSC_COMMAND"); v != "" {
		c.LCSC.Command = v
	}
	if v := os.Getenv("KIPART_LCSC_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: KIPART_LCSC_TIMEOUT: %w", err)
		}
		c.LCSC.Timeout = d
	}
	if v := os.Getenv("KIPART_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("KIPART_NO_EXTERNAL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: KIPART_NO_EXTERNAL: %w", err)
		}
		c.LCSC.Disabled = b
	}
	return nil
}

// Validate checks the configuration and fills in defaults for unset
// numeric fields.
func (c *Config) Validate() error {
	var errs []error

	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if c.Cache.Backend == "" {
		c.Cache.Backend = cache.BackendDir
	}
	if !slices.Contains(cache.Backends, c.Cache.Backend) {
		errs = append(errs, fmt.Errorf("cache.backend %q: want one of %s", c.Cache.Backend, strings.Join(cache.Backends, ", ")))
	}
	if c.Cache.Backend != cache.BackendMemory && c.Cache.Path == "" {
		errs = append(errs, fmt.Errorf("cache.path is required for backend %q", c.Cache.Backend))
	}

	if c.LCSC.Timeout <= 0 {
		c.LCSC.Timeout = lcsc.DefaultTimeout
	}
	if c.LCSC.TripThreshold < 1 {
		c.LCSC.TripThreshold = lcsc.DefaultTripThreshold
	}
	if strings.TrimSpace(c.LCSC.Command) == "" {
		c.LCSC.Command = lcsc.DefaultCommand
	}

	if c.Resolver.Workers < 1 {
		c.Resolver.Workers = 1
	}

	for role, e := range c.Catalog.Roles {
		if e.Symbol == "" {
			errs = append(errs, fmt.Errorf("catalog.roles.%s: symbol is required", role))
		}
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Resolve makes a path from the config file relative to the file itself.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.dir == "" {
		return path
	}
	return filepath.Join(c.dir, path)
}

// CacheOptions returns the cache backend selection.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{Backend: c.Cache.Backend, Path: c.Resolve(c.Cache.Path)}
}

// ResolverConfig returns the resolver settings.
func (c *Config) ResolverConfig() resolver.Config {
	return resolver.Config{
		Timeout:         c.LCSC.Timeout,
		Workers:         c.Resolver.Workers,
		DisableFallback: c.Resolver.DisableFallback,
		WorkDir:         c.Resolve(c.Resolver.WorkDir),
	}
}

// BuildCatalog returns the builtin catalog extended with the configured
// libraries and roles. Roles are applied last so they may name symbols
// from the libraries.
func (c *Config) BuildCatalog() (*catalog.Catalog, error) {
	cat := catalog.Default()
	for _, lib := range c.Catalog.Libraries {
		if _, err := cat.LoadLibrary(c.Resolve(lib)); err != nil {
			return nil, err
		}
	}
	for role, e := range c.Catalog.Roles {
		if err := cat.AddRole(role, e); err != nil {
			return nil, err
		}
	}
	return cat, nil
}
