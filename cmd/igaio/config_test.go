package main

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func skipWithoutXDG(t *testing.T) {
	t.Helper()
	if runtime.GOOS != "linux" {
		t.Skip("config path derives from XDG_CONFIG_HOME on linux")
	}
}

func TestConfigPath(t *testing.T) {
	skipWithoutXDG(t)
	t.Setenv("XDG_CONFIG_HOME", "/tmp/conf")
	want := filepath.Join("/tmp/conf", "igaio", "config.yaml")
	if got := configPath(); got != want {
		t.Fatalf("unexpected config path: got %q want %q", got, want)
	}
}

func TestLoadConfig(t *testing.T) {
	skipWithoutXDG(t)

	t.Run("missing file yields zero config", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		if cfg := LoadConfig(); cfg != (Config{}) {
			t.Fatalf("expected zero config, got %+v", cfg)
		}
	})

	t.Run("values load from yaml", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", dir)
		if err := os.MkdirAll(filepath.Join(dir, "igaio"), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		data := []byte("precision: single\nindices: 64bit\nrefine: 3\nserver_address: 127.0.0.1:9999\n")
		if err := os.WriteFile(filepath.Join(dir, "igaio", "config.yaml"), data, 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}

		cfg := LoadConfig()
		if cfg.Precision != "single" || cfg.Indices != "64bit" {
			t.Fatalf("unexpected profile defaults: %+v", cfg)
		}
		if cfg.Refine == nil || *cfg.Refine != 3 {
			t.Fatalf("unexpected refine: %v", cfg.Refine)
		}
		if cfg.ServerAddress != "127.0.0.1:9999" {
			t.Fatalf("unexpected server address: %q", cfg.ServerAddress)
		}
	})

	t.Run("malformed file yields zero config", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", dir)
		if err := os.MkdirAll(filepath.Join(dir, "igaio"), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "igaio", "config.yaml"), []byte("precision: [oops"), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if cfg := LoadConfig(); cfg != (Config{}) {
			t.Fatalf("expected zero config, got %+v", cfg)
		}
	})
}
