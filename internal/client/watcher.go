package client

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/portalmesh/conduit/pkg/log"
	"github.com/portalmesh/conduit/pkg/worker"
)

// reloadDebounce is how long the watcher waits after a config file event
// before latching the reload flag, coalescing editor write bursts.
const reloadDebounce = 100 * time.Millisecond

// ConfigWatchTask watches the client config file and latches a reload flag
// when it changes. The controller polls ReloadRequested after shutdown to
// decide whether to restart with fresh configuration.
//
// The fsnotify event channel is drained non-blocking from Tick, keeping the
// tick bounded as the worker framework requires.
type ConfigWatchTask struct {
	path   string
	logger log.Logger
	delay  time.Duration

	watcher *fsnotify.Watcher
	reload  worker.Flag

	mu       sync.Mutex
	debounce *time.Timer
}

// NewConfigWatchTask creates a watcher task for the given config file path.
func NewConfigWatchTask(path string, logger log.Logger) *ConfigWatchTask {
	return &ConfigWatchTask{path: path, logger: logger, delay: reloadDebounce}
}

// Setup creates the fsnotify watcher over the config file's directory.
// Watching the directory rather than the file survives editors that
// rename-replace on save.
func (c *ConfigWatchTask) Setup() bool {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		c.logger.Error("config watcher create failed", log.Err(err))
		return false
	}
	if err := watcher.Add(filepath.Dir(c.path)); err != nil {
		c.logger.Error("config watcher add failed", log.String("path", c.path), log.Err(err))
		_ = watcher.Close()
		return false
	}
	c.watcher = watcher
	return true
}

// Tick drains pending filesystem events without blocking.
func (c *ConfigWatchTask) Tick() bool {
	for {
		select {
		case event, ok := <-c.watcher.Events:
			if !ok {
				return false
			}
			if filepath.Base(event.Name) != filepath.Base(c.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			c.scheduleReload()

		case err, ok := <-c.watcher.Errors:
			if !ok {
				return false
			}
			c.logger.Warn("config watcher error", log.Err(err))

		default:
			return true
		}
	}
}

// scheduleReload (re)arms the debounce timer, so a burst of events for one
// save collapses into a single reload request.
func (c *ConfigWatchTask) scheduleReload() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.debounce != nil {
		c.debounce.Stop()
	}
	c.debounce = time.AfterFunc(c.delay, func() {
		if !c.reload.IsSet() {
			c.logger.Info("config file changed, reload requested", log.String("path", c.path))
		}
		c.reload.Set()
	})
}

// Teardown closes the watcher. A change still inside the debounce window is
// latched rather than lost, so the controller sees it after shutdown.
func (c *ConfigWatchTask) Teardown() {
	c.mu.Lock()
	if c.debounce != nil && c.debounce.Stop() {
		c.reload.Set()
	}
	c.debounce = nil
	c.mu.Unlock()

	if c.watcher != nil {
		_ = c.watcher.Close()
		c.watcher = nil
	}
}

// ReloadRequested reports whether a config change was observed.
func (c *ConfigWatchTask) ReloadRequested() bool {
	return c.reload.IsSet()
}
