package server

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestKeepAlivePingsUntilCancelled(t *testing.T) {
	env := newTestServer(t, ServerOptions{})
	var hits atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		env.server.Handler().ServeHTTP(w, r)
	}))
	defer backend.Close()

	logs := &syncBuffer{}
	pinger := &KeepAlive{
		URL:      backend.URL + "/health",
		Interval: 10 * time.Millisecond,
		Logger:   log.New(logs, "", 0),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		pinger.Run(ctx)
		close(done)
	}()

	deadline := time.After(5 * time.Second)
	for hits.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 3 pings, got %d", hits.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("keep-alive did not stop after cancel")
	}

	if !strings.Contains(logs.String(), "health check ping successful: ok") {
		t.Fatalf("expected success log, got %q", logs.String())
	}
}

func TestKeepAlivePingReportsFailure(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer backend.Close()

	pinger := &KeepAlive{URL: backend.URL + "/health"}
	if _, err := pinger.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error")
	}
}
