package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amonks/remindme/client"
	"github.com/amonks/remindme/feedback"
	"github.com/amonks/remindme/internal/kv"
	"github.com/amonks/remindme/server"
	"github.com/amonks/remindme/updatecheck"
	"github.com/amonks/remindme/version"
)

func newVersionAPI(t *testing.T, records ...version.PublishRequest) *httptest.Server {
	t.Helper()

	versions := version.NewService(version.NewMemoryRepository(), version.ServiceOptions{})
	for _, record := range records {
		if _, err := versions.Publish(context.Background(), record); err != nil {
			t.Fatalf("publish %s: %v", record.Version, err)
		}
	}
	srv, err := server.NewServer(server.ServerOptions{
		Versions: versions,
		Feedback: feedback.NewService(feedback.NewMemoryRepository(), feedback.ServiceOptions{}),
		Logger:   log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	api := httptest.NewServer(srv.Handler())
	t.Cleanup(api.Close)
	return api
}

func TestCheckVersionUsesBackendLatest(t *testing.T) {
	api := newVersionAPI(t,
		version.PublishRequest{Version: "1.0.0", Type: "major", ReleaseNotes: "first"},
		version.PublishRequest{Version: "1.2.0", Type: "minor", ReleaseNotes: "Faster sync"},
	)
	store := kv.NewMemoryStore()
	var out bytes.Buffer

	snapshot, err := checkVersion(context.Background(), &out, updatecheck.Options{
		Fetcher:      client.New(api.URL, client.Options{}),
		Store:        store,
		LocalVersion: "1.0.0",
		Profile:      "production",
		Logger:       log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("checkVersion: %v", err)
	}

	if snapshot.CurrentVersion != "1.2.0" {
		t.Fatalf("current version = %q, want 1.2.0", snapshot.CurrentVersion)
	}
	if !strings.Contains(out.String(), "Current version:   1.2.0") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Faster sync") {
		t.Fatalf("expected release notes in output:\n%s", out.String())
	}
	cached, ok, err := store.Get(updatecheck.CacheKey)
	if err != nil || !ok || string(cached) != "1.2.0" {
		t.Fatalf("cached = %q, %v, %v", cached, ok, err)
	}
}

func TestCheckVersionFallsBackToLocalWhenUnreachable(t *testing.T) {
	api := newVersionAPI(t)
	url := api.URL
	api.Close()

	store := kv.NewMemoryStore()
	var out, logs bytes.Buffer

	snapshot, err := checkVersion(context.Background(), &out, updatecheck.Options{
		Fetcher:      client.New(url, client.Options{}),
		Store:        store,
		LocalVersion: "1.0.0",
		Logger:       log.New(&logs, "", 0),
	})
	if err != nil {
		t.Fatalf("checkVersion: %v", err)
	}

	if snapshot.CurrentVersion != "1.0.0" {
		t.Fatalf("current version = %q, want 1.0.0", snapshot.CurrentVersion)
	}
	if strings.Contains(out.String(), "Release notes") {
		t.Fatalf("did not expect release notes:\n%s", out.String())
	}
	cached, ok, _ := store.Get(updatecheck.CacheKey)
	if !ok || string(cached) != "1.0.0" {
		t.Fatalf("cached = %q, %v; want local version", cached, ok)
	}
}
