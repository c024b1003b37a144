package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (CONDUIT_*).
// It respects flags that have been explicitly set (changed map).
// Returns an error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("server", os.Getenv("CONDUIT_SERVER"), &cfg.ServerAddress)
	s.setString("service-url", os.Getenv("CONDUIT_SERVICE_URL"), &cfg.ServiceURL)
	s.setString("auth-key", os.Getenv("CONDUIT_AUTH_KEY"), &cfg.AuthKey)
	s.setString("region", os.Getenv("CONDUIT_REGION"), &cfg.Region)
	s.setString("state-dir", os.Getenv("CONDUIT_STATE_DIR"), &cfg.StateDir)

	if err := s.setDuration("keepalive-interval", os.Getenv("CONDUIT_KEEPALIVE_INTERVAL"), &cfg.KeepaliveInterval); err != nil {
		return err
	}
	if err := s.setDuration("status-interval", os.Getenv("CONDUIT_STATUS_INTERVAL"), &cfg.StatusInterval); err != nil {
		return err
	}
	if err := s.setDuration("dial-timeout", os.Getenv("CONDUIT_DIAL_TIMEOUT"), &cfg.DialTimeout); err != nil {
		return err
	}
	if err := s.setDuration("timeout", os.Getenv("CONDUIT_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}

	s.setBoolFromString("verbose", os.Getenv("CONDUIT_VERBOSE"), &cfg.Verbose)

	return nil
}
