// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch acquires the source XML document over HTTP.
package fetch

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/geodcat-bridge/pkg/types"
)

// NewClient builds the HTTP client used for the source fetch and the
// stylesheet download. When cfg.InsecureSkipVerify is set the client skips
// TLS certificate verification; callers must treat that mode as unsafe and
// surface it to the operator rather than enabling it silently.
func NewClient(cfg types.HTTPConfig) *http.Client {
	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.InsecureSkipVerify {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return client
}

// Fetch performs a single GET against url and returns the response body.
// There is no retry: a failed fetch is terminal for the run.
func Fetch(client *http.Client, url string, cfg types.HTTPConfig) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "application/xml")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}
