package services

import (
	"context"
	"errors"
	"fmt"
	"gpttransit/src/logger"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

var (
	// ErrUpstream wraps any non-200 answer from a third-party API.
	ErrUpstream = errors.New("upstream request failed")
	// ErrNotFound is returned when a lookup matched nothing.
	ErrNotFound = errors.New("no results found")
)

// jsonClient issues GET requests against one base URL and decodes JSON bodies.
type jsonClient struct {
	name    string
	baseURL string
	headers map[string]string
	http    *http.Client
}

func newJSONClient(name, baseURL string, hc *http.Client, headers map[string]string) *jsonClient {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &jsonClient{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: headers,
		http:    hc,
	}
}

func (c *jsonClient) get(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", c.name, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn().Err(err).Str("api", c.name).Str("path", path).Msg("Upstream request error")
		return fmt.Errorf("%w: %s: %v", ErrUpstream, c.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", c.name, err)
	}

	logger.Debug().
		Str("api", c.name).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Upstream request")

	if resp.StatusCode != http.StatusOK {
		logger.Warn().Str("api", c.name).Str("path", path).Int("status", resp.StatusCode).Msg("Upstream returned non-200")
		return fmt.Errorf("%w: %s returned status code %d", ErrUpstream, c.name, resp.StatusCode)
	}

	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", c.name, err)
	}
	return nil
}
