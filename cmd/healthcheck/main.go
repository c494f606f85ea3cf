// Command healthcheck probes the running server's health endpoint and exits
// non-zero when it is unreachable or reports a problem. It is the container
// HEALTHCHECK for scratch images, which have no curl.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/ericfisherdev/mycookbook/internal/config"
)

const (
	fallbackAddr = "127.0.0.1:8080"
	probeTimeout = 2 * time.Second
)

func main() {
	addr := fallbackAddr
	if cfg, err := config.Load(); err == nil {
		addr = cfg.ListenAddr
	}

	if err := probe(context.Background(), "http://"+loopbackAddr(addr)+"/api/v1/health"); err != nil {
		fmt.Fprintln(os.Stderr, "healthcheck:", err)
		os.Exit(1)
	}
}

// probe fetches the health endpoint and requires a 200 with status "ok".
func probe(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode health response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || body.Status != "ok" {
		return fmt.Errorf("unhealthy: %d %q", resp.StatusCode, body.Status)
	}
	return nil
}

// loopbackAddr rewrites a bind-all listen address to loopback, since the probe
// runs inside the same container as the server.
func loopbackAddr(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return fallbackAddr
	}

	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port)
}
