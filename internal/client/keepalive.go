package client

import (
	"net"
	"time"

	"github.com/portalmesh/conduit/pkg/log"
)

// maxProbeFailures is the count of consecutive keepalive probe failures at
// which the task requests a stop.
const maxProbeFailures = 3

const probeWriteTimeout = 5 * time.Second

// KeepaliveTask maintains the relay connection. Setup dials, Tick sends a
// periodic probe, StopImminent sends a graceful goodbye on the clean path,
// and Teardown closes the connection.
type KeepaliveTask struct {
	addr        string
	dialTimeout time.Duration
	interval    time.Duration
	logger      log.Logger

	// dial is swappable for tests; defaults to net.DialTimeout.
	dial func(network, addr string, timeout time.Duration) (net.Conn, error)

	conn      net.Conn
	lastProbe time.Time
	failures  int
}

// NewKeepaliveTask creates a keepalive task for the given relay address.
func NewKeepaliveTask(addr string, dialTimeout, interval time.Duration, logger log.Logger) *KeepaliveTask {
	return &KeepaliveTask{
		addr:        addr,
		dialTimeout: dialTimeout,
		interval:    interval,
		logger:      logger,
		dial:        net.DialTimeout,
	}
}

// Setup dials the relay.
func (k *KeepaliveTask) Setup() bool {
	conn, err := k.dial("tcp", k.addr, k.dialTimeout)
	if err != nil {
		k.logger.Error("relay dial failed", log.String("addr", k.addr), log.Err(err))
		return false
	}
	k.conn = conn
	k.lastProbe = time.Now()
	k.failures = 0
	k.logger.Info("relay connected", log.String("addr", k.addr))
	return true
}

// Tick sends a keepalive probe when the interval has elapsed. Repeated probe
// failures request an unclean stop so the controller can react.
func (k *KeepaliveTask) Tick() bool {
	if time.Since(k.lastProbe) < k.interval {
		return true
	}
	k.lastProbe = time.Now()

	if err := k.writeFrame("ping"); err != nil {
		k.failures++
		k.logger.Warn("keepalive probe failed",
			log.String("addr", k.addr),
			log.Int("failures", k.failures),
			log.Err(err),
		)
		return k.failures < maxProbeFailures
	}

	k.failures = 0
	return true
}

// StopImminent notifies the relay of the graceful disconnect.
func (k *KeepaliveTask) StopImminent() {
	if err := k.writeFrame("bye"); err != nil {
		k.logger.Debug("goodbye frame failed", log.Err(err))
	}
}

// Teardown closes the relay connection.
func (k *KeepaliveTask) Teardown() {
	if k.conn != nil {
		_ = k.conn.Close()
		k.conn = nil
		k.logger.Info("relay disconnected", log.String("addr", k.addr))
	}
}

func (k *KeepaliveTask) writeFrame(kind string) error {
	if err := k.conn.SetWriteDeadline(time.Now().Add(probeWriteTimeout)); err != nil {
		return err
	}
	_, err := k.conn.Write([]byte(kind + "\n"))
	return err
}
