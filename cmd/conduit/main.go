package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/portalmesh/conduit/internal/client"
	"github.com/portalmesh/conduit/internal/cliconfig"
	pkglog "github.com/portalmesh/conduit/pkg/log"
)

const longHelp = `conduit keeps a circumvention tunnel alive in the background.

It handshakes with the service, then runs a coordinated group of workers:
relay keepalive, status reporting, and config watching. Workers shut down
through a graceful rendezvous on user cancel, and bail out immediately if
any of them aborts.

Configure via file ($HOME/.conduit/config.toml), CONDUIT_* environment
variables, or flags; flags win over environment, environment over file.`

const exampleUsage = `  conduit --server relay.example.net:443 --auth-key <api-key>
  conduit --config /etc/conduit/config.toml --verbose`

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "conduit",
		Short:   "Keep a circumvention tunnel alive in the background",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags; file and env never override them.
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
				cfg.ConfigPath = cfgFile
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			if !cfg.Verbose {
				log = log.Level(zerolog.InfoLevel)
			}

			// Log configuration (masking the API key)
			logCfg := cfg
			if len(logCfg.AuthKey) > 0 {
				logCfg.AuthKey = "*****"
			}
			log.Info().Interface("config", logCfg).Msg("configuration")

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				sig := <-sigCh
				log.Info().Str("signal", sig.String()).Msg("received signal, stopping...")
				cancel()
			}()

			logger := pkglog.NewZerologLogger(log)

			// Re-run the worker group when a run ended without a cancel and
			// the watcher saw a config change during it; a change alone does
			// not end a run. Each pass reloads file and env with the same
			// precedence.
			for {
				runCfg, err := buildClientConfig(cfg, cfgFile, changed)
				if err != nil {
					return err
				}

				ctrl := client.NewController(runCfg, logger)
				err = ctrl.Run(ctx)

				if ctx.Err() == nil && ctrl.ReloadRequested() {
					log.Info().Msg("restarting with updated configuration")
					continue
				}
				if err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			}
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.conduit/config.toml)")
	root.Flags().StringVar(&cfg.ServerAddress, "server", cfg.ServerAddress, "relay server address (host:port)")
	root.Flags().StringVar(&cfg.ServiceURL, "service-url", cfg.ServiceURL, "base service URL for handshake and status")
	root.Flags().StringVar(&cfg.AuthKey, "auth-key", cfg.AuthKey, "API key for authentication")
	root.Flags().StringVar(&cfg.Region, "region", cfg.Region, "preferred egress region (optional)")
	root.Flags().StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "directory for persisted client state")

	root.Flags().DurationVar(&cfg.KeepaliveInterval, "keepalive-interval", cfg.KeepaliveInterval, "interval between relay keepalive probes")
	root.Flags().DurationVar(&cfg.StatusInterval, "status-interval", cfg.StatusInterval, "interval between status reports")
	root.Flags().DurationVar(&cfg.DialTimeout, "dial-timeout", cfg.DialTimeout, "relay dial timeout")
	root.Flags().DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout")

	root.Flags().BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable debug logging")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("conduit")
		os.Exit(1)
	}
}

// buildClientConfig converts the layered CLI config into the client layer's
// config, re-reading file and env so a reload pass picks up edits.
func buildClientConfig(cfg cliconfig.Config, cfgFile string, changed map[string]bool) (client.Config, error) {
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return client.Config{}, fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
			return client.Config{}, err
		}
	}
	if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
		return client.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return client.Config{}, err
	}

	return client.Config{
		ServerAddress:     cfg.ServerAddress,
		ServiceURL:        cfg.ServiceURL,
		AuthKey:           cfg.AuthKey,
		Region:            cfg.Region,
		StateDir:          cfg.StateDir,
		ConfigPath:        cfg.ConfigPath,
		KeepaliveInterval: cfg.KeepaliveInterval,
		StatusInterval:    cfg.StatusInterval,
		DialTimeout:       cfg.DialTimeout,
		HTTPTimeout:       cfg.HTTPTimeout,
	}, nil
}
