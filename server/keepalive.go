package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

// KeepAlive periodically requests a health endpoint so hosting platforms
// that sleep idle services keep this one awake.
type KeepAlive struct {
	URL      string
	Interval time.Duration
	Client   *http.Client
	Logger   *log.Logger
}

// Run pings immediately and then every Interval until ctx is done.
func (k *KeepAlive) Run(ctx context.Context) {
	interval := k.Interval
	if interval <= 0 {
		interval = DefaultKeepAliveInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	k.pingAndLog(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			k.pingAndLog(ctx)
		}
	}
}

func (k *KeepAlive) pingAndLog(ctx context.Context) {
	logger := k.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "keepalive: ", log.LstdFlags)
	}
	status, err := k.Ping(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Printf("health check ping failed: %v", err)
		return
	}
	logger.Printf("health check ping successful: %s", status)
}

// Ping requests the health endpoint once and returns the reported status.
func (k *KeepAlive) Ping(ctx context.Context) (string, error) {
	client := k.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.URL, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}
	var payload healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode health response: %w", err)
	}
	return payload.Status, nil
}
