// Package conduit provides the circumvention client core: a cooperative
// worker lifecycle framework with barrier-synchronized shutdown, and the
// client activities (relay keepalive, status reporting, config watching)
// built on it.
//
// Example usage:
//
//	cfg := conduit.Config{
//	    ServerAddress: "relay.example.net:443",
//	    ServiceURL:    "https://api.example.net",
//	    StateDir:      "/var/lib/conduit",
//	    // intervals ...
//	}
//	if err := conduit.Run(context.Background(), cfg, logger); err != nil {
//	    log.Fatal(err)
//	}
//
// Embedders that need finer control build their own workers directly on
// pkg/worker.
package conduit

import (
	"context"

	"github.com/portalmesh/conduit/internal/client"
	"github.com/portalmesh/conduit/pkg/log"
)

// Config holds the configuration for the client worker group.
type Config = client.Config

// Run starts the client worker group and blocks until the context is
// cancelled or a worker exits on its own. On return, all workers have been
// stopped and joined.
func Run(ctx context.Context, cfg Config, logger log.Logger) error {
	return client.NewController(cfg, logger).Run(ctx)
}
