// Package config loads server settings.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/ritzau/workflow-canvas/pkg/codec"
	"github.com/ritzau/workflow-canvas/pkg/logging"
	"github.com/ritzau/workflow-canvas/pkg/store"
)

const (
	// DefaultFile is read from the working directory when present.
	DefaultFile = "workflow-canvas.toml"
	// EnvPrefix selects environment overrides, e.g. WORKFLOW_CANVAS_STORE_DRIVER=sqlite.
	EnvPrefix = "WORKFLOW_CANVAS_"
)

// Config holds all configuration for the server
type Config struct {
	Port  int  `koanf:"port"`
	Watch bool `koanf:"watch"`
	Open  bool `koanf:"open"`
	// Palette is an optional TOML file with extra palette entries
	Palette string      `koanf:"palette"`
	Log     LogConfig   `koanf:"log"`
	Store   StoreConfig `koanf:"store"`
}

type LogConfig struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

type StoreConfig struct {
	Driver      string `koanf:"driver"`
	Path        string `koanf:"path"`
	Compression string `koanf:"compression"`
}

// Defaults returns the built-in configuration values.
func Defaults() map[string]any {
	return map[string]any{
		"port":              8080,
		"watch":             true,
		"open":              false,
		"palette":           "",
		"log.level":         "info",
		"log.json":          false,
		"store.driver":      string(store.DriverFile),
		"store.path":        "workflows",
		"store.compression": string(codec.CompressionZstd),
	}
}

// RegisterFlags adds the command-line flags Load understands. Flag names use
// the same dotted keys as the config file.
func RegisterFlags(f *pflag.FlagSet) {
	f.Int("port", 8080, "Port for the HTTP server")
	f.Bool("watch", true, "Watch the store directory and push list updates")
	f.Bool("open", false, "Open the browser after starting")
	f.String("palette", "", "TOML file with extra palette entries")
	f.String("log.level", "info", "Log level (trace, debug, info, warn, error)")
	f.Bool("log.json", false, "Emit JSON logs")
	f.String("store.driver", string(store.DriverFile), "Workflow store (file, sqlite)")
	f.String("store.path", "workflows", "Store directory or database file")
	f.String("store.compression", string(codec.CompressionZstd), "Compression for stored workflows (none, gzip, zstd)")
}

// Load loads configuration from defaults, config file, environment variables, and flags.
// Priority: Flags > Env > Config File > Defaults.
// An empty path reads DefaultFile if it exists; an explicit path must exist.
func Load(path string, f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(mapProvider(Defaults()), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	} else if err := k.Load(file.Provider(DefaultFile), toml.Parser()); err == nil {
		logging.Debug("loaded config file", "path", DefaultFile)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps WORKFLOW_CANVAS_STORE_DRIVER to store.driver.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
}

// Validate checks values that koanf cannot type-check.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := store.ParseDriver(c.Store.Driver); err != nil {
		return err
	}
	if _, err := codec.ParseCompression(c.Store.Compression); err != nil {
		return err
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}
	return nil
}

// mapProvider feeds a static map with dotted keys into koanf
type mapProvider map[string]any

func (p mapProvider) Read() (map[string]any, error) {
	return maps.Unflatten(p, "."), nil
}

func (p mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
