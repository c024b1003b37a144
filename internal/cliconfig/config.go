package cliconfig

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// DefaultServiceURL is the default endpoint for handshake and status requests.
const DefaultServiceURL = "https://api.portalmesh.net"

// Config holds CLI configuration for the conduit daemon.
type Config struct {
	ServerAddress string
	ServiceURL    string
	AuthKey       string
	Region        string

	StateDir   string
	ConfigPath string

	KeepaliveInterval time.Duration
	StatusInterval    time.Duration
	DialTimeout       time.Duration
	HTTPTimeout       time.Duration

	Verbose bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ServiceURL:        DefaultServiceURL,
		KeepaliveInterval: 20 * time.Second,
		StatusInterval:    5 * time.Minute,
		DialTimeout:       20 * time.Second,
		HTTPTimeout:       30 * time.Second,
		StateDir:          defaultStateDir(),
		AuthKey:           os.Getenv("CONDUIT_AUTH_KEY"),
	}
}

func defaultStateDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".conduit")
	}
	return ""
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server is required")
	}
	if _, _, err := net.SplitHostPort(c.ServerAddress); err != nil {
		return fmt.Errorf("server must be host:port: %w", err)
	}

	if c.ServiceURL == "" {
		c.ServiceURL = DefaultServiceURL
	}
	// Ensure no trailing slash
	if len(c.ServiceURL) > 0 && c.ServiceURL[len(c.ServiceURL)-1] == '/' {
		c.ServiceURL = c.ServiceURL[:len(c.ServiceURL)-1]
	}

	if c.StateDir == "" {
		return fmt.Errorf("state-dir is required")
	}

	if c.KeepaliveInterval <= 0 {
		return fmt.Errorf("keepalive interval must be positive")
	}
	if c.StatusInterval <= 0 {
		return fmt.Errorf("status interval must be positive")
	}
	if c.DialTimeout <= 0 {
		return fmt.Errorf("dial timeout must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}

	return nil
}

// Logger returns the CLI zerolog logger writing console output to stderr.
func Logger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
