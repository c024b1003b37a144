package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/portalmesh/conduit/pkg/log"
)

func TestSession_Handshake(t *testing.T) {
	var gotAuth, gotRegion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRegion = r.URL.Query().Get("region")
		_, _ = w.Write([]byte("PSK: deadbeef\nHomepage: https://example.net\nServer: aabb\nServer: ccdd\n"))
	}))
	defer srv.Close()

	s := NewSession(srv.URL, "secret", "nz", srv.Client(), log.NewNoopLogger())
	if err := s.Handshake(context.Background()); err != nil {
		t.Fatalf("Handshake: %v", err)
	}

	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer secret")
	}
	if gotRegion != "nz" {
		t.Errorf("region = %q, want %q", gotRegion, "nz")
	}

	info := s.Info()
	if info.PSK != "deadbeef" {
		t.Errorf("PSK = %q, want %q", info.PSK, "deadbeef")
	}
	if len(info.Servers) != 2 {
		t.Errorf("Servers = %v, want 2 entries", info.Servers)
	}
	if s.EstablishedAt().IsZero() {
		t.Error("EstablishedAt is zero after successful handshake")
	}
}

func TestSession_HandshakeErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			s := NewSession(srv.URL, "", "", srv.Client(), log.NewNoopLogger())
			err := s.Handshake(context.Background())
			if !errors.Is(err, ErrHandshakeFailed) {
				t.Errorf("Handshake error = %v, want ErrHandshakeFailed", err)
			}
			if !s.EstablishedAt().IsZero() {
				t.Error("EstablishedAt set after failed handshake")
			}
		})
	}
}

func TestSession_HandshakeUnreachable(t *testing.T) {
	s := NewSession("http://127.0.0.1:1", "", "", &http.Client{}, log.NewNoopLogger())
	if err := s.Handshake(context.Background()); !errors.Is(err, ErrHandshakeFailed) {
		t.Errorf("Handshake error = %v, want ErrHandshakeFailed", err)
	}
}
