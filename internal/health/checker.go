// Package health probes whether the notification endpoint is reachable.
package health

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"
)

// CheckResult contains the results of an endpoint probe
type CheckResult struct {
	Endpoint      string `json:"endpoint"`
	HostReachable bool   `json:"host_reachable"`
	HostError     string `json:"host_error,omitempty"`
	URLAccessible bool   `json:"url_accessible"`
	URLError      string `json:"url_error,omitempty"`
	ResponseTime  int64  `json:"response_time_ms"`
	LastChecked   string `json:"last_checked"`
}

// Healthy reports whether both the TCP and HTTP checks passed.
func (r CheckResult) Healthy() bool {
	return r.HostReachable && r.URLAccessible
}

// Checker performs reachability checks
type Checker struct {
	timeout time.Duration
}

func NewChecker(timeout time.Duration) *Checker {
	return &Checker{
		timeout: timeout,
	}
}

// Check dials the endpoint host, then issues a GET against the URL.
func (c *Checker) Check(ctx context.Context, endpoint string) CheckResult {
	result := CheckResult{
		Endpoint:    endpoint,
		LastChecked: time.Now().Format(time.RFC3339),
	}

	parsedURL, err := url.Parse(endpoint)
	if err != nil || parsedURL.Host == "" {
		if err == nil {
			err = fmt.Errorf("missing host")
		}
		result.HostError = fmt.Sprintf("Invalid URL: %v", err)
		result.URLError = result.HostError
		return result
	}

	result.HostReachable, result.HostError = c.tcpPing(ctx, hostPort(parsedURL))

	if result.HostReachable {
		start := time.Now()
		result.URLAccessible, result.URLError = c.httpCheck(ctx, endpoint)
		result.ResponseTime = time.Since(start).Milliseconds()
	} else {
		result.URLError = "Host unreachable"
	}

	return result
}

func hostPort(u *url.URL) string {
	if u.Port() != "" {
		return u.Host
	}
	port := "80"
	if u.Scheme == "https" {
		port = "443"
	}
	return net.JoinHostPort(u.Hostname(), port)
}

func (c *Checker) tcpPing(ctx context.Context, host string) (bool, string) {
	dialer := net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", host)
	if err != nil {
		return false, fmt.Sprintf("TCP connection failed: %v", err)
	}
	_ = conn.Close()
	return true, ""
}

func (c *Checker) httpCheck(ctx context.Context, urlStr string) (bool, string) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return false, fmt.Sprintf("Request creation failed: %v", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false, fmt.Sprintf("HTTP request failed: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		return true, ""
	}

	return false, fmt.Sprintf("HTTP %d", resp.StatusCode)
}
