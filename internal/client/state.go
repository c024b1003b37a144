package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// State is what the client remembers between runs: the last relay that
// worked and the servers the service told us about.
type State struct {
	LastServer      string    `json:"last_server"`
	LastHandshakeAt time.Time `json:"last_handshake_at"`
	KnownServers    []string  `json:"known_servers,omitempty"`
	UpgradeVersion  string    `json:"upgrade_version,omitempty"`
}

func stateFile(dir string) string { return filepath.Join(dir, "client-state.json") }

// loadState reads the persisted state. A missing file yields the zero State.
func loadState(dir string) (State, error) {
	b, err := os.ReadFile(stateFile(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, nil
		}
		return State{}, err
	}
	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		return State{}, err
	}
	return st, nil
}

// saveState persists the state atomically (temp file, then rename).
func saveState(dir string, st State) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp := stateFile(dir) + ".tmp"
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, stateFile(dir))
}
