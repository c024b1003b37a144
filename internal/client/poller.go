package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/portalmesh/conduit/pkg/log"
)

const statusEndpoint = "/v1/client/status"

// statusReport is the JSON payload posted to the status endpoint.
type statusReport struct {
	Region        string `json:"region,omitempty"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Final         bool   `json:"final,omitempty"`
}

// StatusTask periodically reports client status to the service. Failed
// reports are retried on an exponential backoff schedule; they never stop
// the worker. On a clean group shutdown, StopImminent flushes one final
// report so the service sees the disconnect as intentional.
type StatusTask struct {
	serviceURL string
	authKey    string
	region     string
	interval   time.Duration
	httpClient *http.Client
	logger     log.Logger

	back      *backoff
	startedAt time.Time
	nextSend  time.Time
}

// NewStatusTask creates a status reporting task.
func NewStatusTask(serviceURL, authKey, region string, interval time.Duration, httpClient *http.Client, logger log.Logger) *StatusTask {
	return &StatusTask{
		serviceURL: serviceURL,
		authKey:    authKey,
		region:     region,
		interval:   interval,
		httpClient: httpClient,
		logger:     logger,
		back:       newBackoff(2*time.Second, 2*time.Minute),
	}
}

// Setup records the session start; the first report goes out on the first
// due Tick rather than at startup.
func (t *StatusTask) Setup() bool {
	t.startedAt = time.Now()
	t.nextSend = t.startedAt.Add(t.interval)
	return true
}

// Tick sends a status report when due. A failure reschedules the next
// attempt on the backoff curve instead of blocking the tick.
func (t *StatusTask) Tick() bool {
	if time.Now().Before(t.nextSend) {
		return true
	}

	if err := t.send(false); err != nil {
		delay := t.back.NextDelay()
		t.nextSend = time.Now().Add(delay)
		t.logger.Warn("status report failed",
			log.Duration("retry_in", delay),
			log.Err(err),
		)
		return true
	}

	t.back.Reset()
	t.nextSend = time.Now().Add(t.interval)
	return true
}

// StopImminent flushes a final status report on the clean shutdown path.
func (t *StatusTask) StopImminent() {
	if err := t.send(true); err != nil {
		t.logger.Debug("final status report failed", log.Err(err))
	}
}

// Teardown is a no-op; the task holds no connection state.
func (t *StatusTask) Teardown() {}

func (t *StatusTask) send(final bool) error {
	report := statusReport{
		Region:        t.region,
		UptimeSeconds: int64(time.Since(t.startedAt).Seconds()),
		Final:         final,
	}
	body, err := json.Marshal(report)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, t.serviceURL+statusEndpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if t.authKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.authKey)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return &statusError{code: resp.StatusCode}
	}
	return nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status endpoint returned %d", e.code)
}
