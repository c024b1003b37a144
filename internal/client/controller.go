package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/portalmesh/conduit/pkg/log"
	"github.com/portalmesh/conduit/pkg/worker"
)

// handshakeAttempts is how many times the startup handshake is tried before
// giving up.
const handshakeAttempts = 3

// Config holds the client layer configuration. The CLI builds it from
// cliconfig after file/env/flag layering.
type Config struct {
	ServerAddress string
	ServiceURL    string
	AuthKey       string
	Region        string
	StateDir      string
	ConfigPath    string

	KeepaliveInterval time.Duration
	StatusInterval    time.Duration
	DialTimeout       time.Duration
	HTTPTimeout       time.Duration
}

// Controller runs the client worker group. It owns the external stop flag
// and the shutdown rendezvous; every worker it starts borrows both for the
// duration of the run.
type Controller struct {
	cfg        Config
	logger     log.Logger
	httpClient *http.Client
	session    *Session

	stop    worker.Flag
	synch   *worker.Synch
	watch   *ConfigWatchTask
	workers []*worker.Worker
}

// NewController creates a Controller. If logger is nil, a no-op logger is used.
func NewController(cfg Config, logger log.Logger) *Controller {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	return &Controller{
		cfg:        cfg,
		logger:     logger,
		httpClient: httpClient,
		session:    NewSession(cfg.ServiceURL, cfg.AuthKey, cfg.Region, httpClient, logger),
		synch:      worker.NewSynch(),
	}
}

// Session exposes the controller's session for callers that surface
// homepages or upgrade availability.
func (c *Controller) Session() *Session {
	return c.session
}

// ReloadRequested reports whether the config watcher observed a change
// during the run.
func (c *Controller) ReloadRequested() bool {
	return c.watch != nil && c.watch.ReloadRequested()
}

// Run performs the handshake, starts the worker group, and blocks until the
// context is cancelled or a worker exits on its own. On return, every worker
// has been stopped and joined.
func (c *Controller) Run(ctx context.Context) error {
	st, err := loadState(c.cfg.StateDir)
	if err != nil {
		c.logger.Warn("state load failed", log.Err(err))
	}

	if err := c.handshakeWithRetry(ctx); err != nil {
		return err
	}

	info := c.session.Info()
	st.LastServer = c.cfg.ServerAddress
	st.LastHandshakeAt = c.session.EstablishedAt()
	if len(info.Servers) > 0 {
		st.KnownServers = info.Servers
	}
	st.UpgradeVersion = info.UpgradeVersion
	if err := saveState(c.cfg.StateDir, st); err != nil {
		c.logger.Warn("state save failed", log.Err(err))
	}

	c.synch.Reset()
	c.workers = c.buildWorkers()

	started := 0
	for _, w := range c.workers {
		ok, err := w.Start(&c.stop, c.synch)
		if err != nil || !ok {
			c.logger.Error("worker start failed",
				log.String("worker", w.Name()),
				log.Err(err),
			)
			c.stopWorkers(started)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrStartFailed, w.Name(), err)
			}
			return fmt.Errorf("%w: %s", ErrStartFailed, w.Name())
		}
		started++
		c.logger.Info("worker started", log.String("worker", w.Name()))
	}

	// Funnel every worker's stopped event into one channel so the wait
	// below is a plain two-way select.
	exited := make(chan string, len(c.workers))
	for _, w := range c.workers {
		w := w
		go func() {
			<-w.StoppedEvent().Done()
			exited <- w.Name()
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		c.logger.Info("stop requested")
	case name := <-exited:
		c.logger.Error("worker exited unexpectedly", log.String("worker", name))
		runErr = fmt.Errorf("conduit: worker %s exited", name)
	}

	c.stopWorkers(len(c.workers))

	st.LastHandshakeAt = c.session.EstablishedAt()
	if err := saveState(c.cfg.StateDir, st); err != nil {
		c.logger.Warn("state save failed", log.Err(err))
	}

	return runErr
}

// handshakeWithRetry attempts the startup handshake a few times on the
// backoff curve before giving up.
func (c *Controller) handshakeWithRetry(ctx context.Context) error {
	back := newBackoff(time.Second, 30*time.Second)

	var err error
	for attempt := 1; attempt <= handshakeAttempts; attempt++ {
		if err = c.session.Handshake(ctx); err == nil {
			return nil
		}
		if attempt == handshakeAttempts {
			break
		}

		delay := back.NextDelay()
		c.logger.Warn("handshake failed, retrying",
			log.Int("attempt", attempt),
			log.Duration("retry_in", delay),
			log.Err(err),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}

// buildWorkers assembles the worker group. The keepalive worker leads so its
// graceful goodbye happens while the status worker is still alive to report.
func (c *Controller) buildWorkers() []*worker.Worker {
	keepalive := NewKeepaliveTask(
		c.cfg.ServerAddress, c.cfg.DialTimeout, c.cfg.KeepaliveInterval, c.logger)
	status := NewStatusTask(
		c.cfg.ServiceURL, c.cfg.AuthKey, c.cfg.Region, c.cfg.StatusInterval,
		c.httpClient, c.logger)

	workers := []*worker.Worker{
		worker.New("keepalive", keepalive, c.logger),
		worker.New("status", status, c.logger),
	}

	c.watch = nil
	if c.cfg.ConfigPath != "" {
		c.watch = NewConfigWatchTask(c.cfg.ConfigPath, c.logger)
		workers = append(workers, worker.New("configwatch", c.watch, c.logger))
	}
	return workers
}

// stopWorkers raises the shared stop flag and joins the first n workers in
// reverse start order.
func (c *Controller) stopWorkers(n int) {
	c.stop.Set()
	for i := n - 1; i >= 0; i-- {
		c.workers[i].Stop()
		c.logger.Info("worker stopped", log.String("worker", c.workers[i].Name()))
	}
}
