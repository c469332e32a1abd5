// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Host != "http://127.0.0.1:11434" {
		t.Errorf("Host = %q, want the local Ollama default", cfg.Server.Host)
	}
	if cfg.Server.StreamTimeoutSecs != 600 {
		t.Errorf("StreamTimeoutSecs = %d, want 600", cfg.Server.StreamTimeoutSecs)
	}
	if got := cfg.Server.StreamTimeout(); got != 600*time.Second {
		t.Errorf("StreamTimeout() = %v, want 600s", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath() failed: %v", err)
	}
	if cfg.Server.Host != "http://127.0.0.1:11434" {
		t.Errorf("Host = %q, want default", cfg.Server.Host)
	}
}

func TestLoadFromPath_PartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `default_model = "llama3:8b"

[server]
host = "http://192.168.1.10:11434"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() failed: %v", err)
	}
	if cfg.DefaultModel != "llama3:8b" {
		t.Errorf("DefaultModel = %q, want llama3:8b", cfg.DefaultModel)
	}
	if cfg.Server.Host != "http://192.168.1.10:11434" {
		t.Errorf("Host = %q, want the configured host", cfg.Server.Host)
	}
	// Unset fields fall back to defaults.
	if cfg.Server.StreamTimeoutSecs != 600 {
		t.Errorf("StreamTimeoutSecs = %d, want default 600", cfg.Server.StreamTimeoutSecs)
	}
	if cfg.UI.Theme != "auto" {
		t.Errorf("Theme = %q, want default auto", cfg.UI.Theme)
	}
}

func TestLoadFromPath_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Error("LoadFromPath() should fail on malformed TOML")
	}
}

func TestLoadFromPath_EnvOverrides(t *testing.T) {
	t.Setenv("OLLAMAMATE_HOST", "http://10.0.0.5:11434")
	t.Setenv("OLLAMAMATE_MODEL", "qwen2.5:7b")
	t.Setenv("OLLAMAMATE_EXPORT_DIR", "/tmp/exports")

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `default_model = "llama3:8b"

[server]
host = "http://192.168.1.10:11434"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() failed: %v", err)
	}
	if cfg.Server.Host != "http://10.0.0.5:11434" {
		t.Errorf("Host = %q, env override must win over the file", cfg.Server.Host)
	}
	if cfg.DefaultModel != "qwen2.5:7b" {
		t.Errorf("DefaultModel = %q, env override must win over the file", cfg.DefaultModel)
	}
	if cfg.Export.Dir != "/tmp/exports" {
		t.Errorf("Export.Dir = %q, want env override", cfg.Export.Dir)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid https host",
			mutate: func(c *Config) { c.Server.Host = "https://ollama.internal:11434" },
		},
		{
			name:    "bad scheme",
			mutate:  func(c *Config) { c.Server.Host = "ftp://127.0.0.1:11434" },
			wantErr: "server.host",
		},
		{
			name:    "missing host",
			mutate:  func(c *Config) { c.Server.Host = "http://" },
			wantErr: "server.host",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Server.StreamTimeoutSecs = 0 },
			wantErr: "server.stream_timeout_secs",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Server.StreamTimeoutSecs = -5 },
			wantErr: "server.stream_timeout_secs",
		},
		{
			name:    "unknown theme",
			mutate:  func(c *Config) { c.UI.Theme = "solarized" },
			wantErr: "ui.theme",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tc.wantErr)
			}
		})
	}
}

func TestSaveToPath_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.DefaultModel = "llama3:8b"
	cfg.Server.Host = "http://192.168.1.10:11434"

	if err := SaveToPath(cfg, path); err != nil {
		t.Fatalf("SaveToPath() failed: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() failed: %v", err)
	}
	if loaded.DefaultModel != cfg.DefaultModel {
		t.Errorf("DefaultModel = %q, want %q", loaded.DefaultModel, cfg.DefaultModel)
	}
	if loaded.Server.Host != cfg.Server.Host {
		t.Errorf("Host = %q, want %q", loaded.Server.Host, cfg.Server.Host)
	}
}
