package proxy

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewHTTPClient_Direct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c, err := NewHTTPClient("", 2*time.Second)
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}
	if c.Timeout != 2*time.Second {
		t.Fatalf("timeout = %v", c.Timeout)
	}
	resp, err := c.Get(srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestNewHTTPClient_SocksUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	// Nothing listens on port 1, so dialing through the proxy must fail
	// instead of silently going direct.
	c, err := NewHTTPClient("127.0.0.1:1", time.Second)
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}
	if _, err := c.Get(srv.URL); err == nil {
		t.Fatalf("expected dial error through unreachable proxy")
	}
}
