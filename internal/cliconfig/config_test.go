package cliconfig

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.ServerAddress = "relay.example.net:443"
	cfg.StateDir = "/tmp/conduit-test"
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing server", func(c *Config) { c.ServerAddress = "" }, "server is required"},
		{"server without port", func(c *Config) { c.ServerAddress = "relay.example.net" }, "host:port"},
		{"missing state dir", func(c *Config) { c.StateDir = "" }, "state-dir is required"},
		{"zero keepalive interval", func(c *Config) { c.KeepaliveInterval = 0 }, "keepalive interval"},
		{"negative status interval", func(c *Config) { c.StatusInterval = -time.Second }, "status interval"},
		{"zero dial timeout", func(c *Config) { c.DialTimeout = 0 }, "dial timeout"},
		{"zero http timeout", func(c *Config) { c.HTTPTimeout = 0 }, "http timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateStripsTrailingSlash(t *testing.T) {
	cfg := validConfig()
	cfg.ServiceURL = "https://api.example.net/"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if cfg.ServiceURL != "https://api.example.net" {
		t.Errorf("ServiceURL = %q, want trailing slash removed", cfg.ServiceURL)
	}
}

func TestConfig_ValidateDefaultsServiceURL(t *testing.T) {
	cfg := validConfig()
	cfg.ServiceURL = ""

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if cfg.ServiceURL != DefaultServiceURL {
		t.Errorf("ServiceURL = %q, want %q", cfg.ServiceURL, DefaultServiceURL)
	}
}
