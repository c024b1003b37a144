package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/portalmesh/conduit/pkg/handshake"
	"github.com/portalmesh/conduit/pkg/log"
)

const handshakeEndpoint = "/v1/client/handshake"

// Session performs the handshake with the service and holds the resulting
// session fields for the client workers.
type Session struct {
	serviceURL string
	authKey    string
	region     string
	httpClient *http.Client
	logger     log.Logger

	mu            sync.Mutex
	info          handshake.SessionInfo
	establishedAt time.Time
}

// NewSession creates a Session against the given service URL.
func NewSession(serviceURL, authKey, region string, httpClient *http.Client, logger log.Logger) *Session {
	return &Session{
		serviceURL: serviceURL,
		authKey:    authKey,
		region:     region,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Handshake requests a new session from the service and parses the response.
// Prior session fields are replaced wholesale on success.
func (s *Session) Handshake(ctx context.Context) error {
	reqURL := s.serviceURL + handshakeEndpoint
	if s.region != "" {
		reqURL += "?region=" + url.QueryEscape(s.region)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%w: create request: %v", ErrHandshakeFailed, err)
	}
	if s.authKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.authKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHandshakeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%w: unexpected status %d", ErrHandshakeFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrHandshakeFailed, err)
	}

	var info handshake.SessionInfo
	info.Parse(string(body))

	s.mu.Lock()
	s.info = info
	s.establishedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("handshake complete",
		log.Int("homepages", len(info.Homepages)),
		log.Int("servers", len(info.Servers)),
		log.Bool("upgrade_available", info.UpgradeVersion != ""),
	)
	return nil
}

// Info returns a copy of the current session fields.
func (s *Session) Info() handshake.SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

// EstablishedAt returns when the current session was established, or the
// zero time if no handshake has succeeded yet.
func (s *Session) EstablishedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.establishedAt
}
