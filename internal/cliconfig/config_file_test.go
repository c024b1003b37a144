package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileConfig(t *testing.T) {
	path := writeConfigFile(t, `
server = "relay.example.net:443"
service_url = "https://api.example.net"
auth_key = "secret"
region = "nz"
keepalive_interval = "30s"
status_interval = "10m"
verbose = true
`)

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig: %v", err)
	}

	if fc.ServerAddress != "relay.example.net:443" {
		t.Errorf("ServerAddress = %q", fc.ServerAddress)
	}
	if fc.KeepaliveInterval != "30s" {
		t.Errorf("KeepaliveInterval = %q", fc.KeepaliveInterval)
	}
	if fc.Verbose == nil || !*fc.Verbose {
		t.Error("Verbose not parsed")
	}
}

func TestLoadFileConfig_Invalid(t *testing.T) {
	path := writeConfigFile(t, "server = [not toml")
	if _, err := LoadFileConfig(path); err == nil {
		t.Error("LoadFileConfig on invalid TOML should return an error")
	}
}

func TestApplyFileConfig(t *testing.T) {
	fc := FileConfig{
		ServerAddress:     "file.example.net:443",
		KeepaliveInterval: "45s",
	}

	t.Run("applies when flag unchanged", func(t *testing.T) {
		cfg := DefaultConfig()
		if err := ApplyFileConfig(&cfg, fc, map[string]bool{}); err != nil {
			t.Fatalf("ApplyFileConfig: %v", err)
		}
		if cfg.ServerAddress != "file.example.net:443" {
			t.Errorf("ServerAddress = %q", cfg.ServerAddress)
		}
		if cfg.KeepaliveInterval != 45*time.Second {
			t.Errorf("KeepaliveInterval = %v", cfg.KeepaliveInterval)
		}
	})

	t.Run("flag wins over file", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ServerAddress = "flag.example.net:443"
		changed := map[string]bool{"server": true}
		if err := ApplyFileConfig(&cfg, fc, changed); err != nil {
			t.Fatalf("ApplyFileConfig: %v", err)
		}
		if cfg.ServerAddress != "flag.example.net:443" {
			t.Errorf("ServerAddress = %q, file config overrode a set flag", cfg.ServerAddress)
		}
	})

	t.Run("bad duration rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		bad := FileConfig{KeepaliveInterval: "soon"}
		if err := ApplyFileConfig(&cfg, bad, map[string]bool{}); err == nil {
			t.Error("ApplyFileConfig should reject an unparseable duration")
		}
	})
}
