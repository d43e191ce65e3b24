package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.Store.Driver != "file" || cfg.Store.Path != "workflows" || cfg.Store.Compression != "zstd" {
		t.Errorf("unexpected store defaults %+v", cfg.Store)
	}
	if cfg.Log.Level != "info" || cfg.Log.JSON {
		t.Errorf("unexpected log defaults %+v", cfg.Log)
	}
}

func TestLoadPriority(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	toml := `
port = 9000

[store]
driver = "sqlite"
path = "flows.db"

[log]
level = "debug"
`
	if err := os.WriteFile(filepath.Join(dir, DefaultFile), []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WORKFLOW_CANVAS_PORT", "9100")
	t.Setenv("WORKFLOW_CANVAS_STORE_COMPRESSION", "gzip")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	if err := flags.Parse([]string{"--port=9200"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("", flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 9200 {
		t.Errorf("flag should win: port = %d", cfg.Port)
	}
	if cfg.Store.Compression != "gzip" {
		t.Errorf("env should override file: compression = %s", cfg.Store.Compression)
	}
	if cfg.Store.Driver != "sqlite" || cfg.Store.Path != "flows.db" {
		t.Errorf("file values lost: %+v", cfg.Store)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("file log level lost: %s", cfg.Log.Level)
	}
}

func TestLoadExplicitFileMustExist(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml"), nil); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		Port:  8080,
		Log:   LogConfig{Level: "info"},
		Store: StoreConfig{Driver: "file", Path: "x", Compression: "none"},
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := map[string]func(c *Config){
		"port":        func(c *Config) { c.Port = 0 },
		"level":       func(c *Config) { c.Log.Level = "loud" },
		"driver":      func(c *Config) { c.Store.Driver = "postgres" },
		"compression": func(c *Config) { c.Store.Compression = "brotli" },
		"path":        func(c *Config) { c.Store.Path = "" },
	}
	for name, mutate := range tests {
		c := base
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}
