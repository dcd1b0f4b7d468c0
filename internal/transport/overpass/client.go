// Package overpass is a thin client for the Overpass map-data API.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/healthagg/healthagg/internal/domain"
	"github.com/healthagg/healthagg/internal/domain/provider"
	"github.com/healthagg/healthagg/internal/metrics"
)

const providerLabel = "overpass"

// Client submits Overpass QL queries to an interpreter endpoint.
type Client struct {
	endpoint  string
	userAgent string
	http      *http.Client
	logger    *zap.Logger
}

// Config holds the Overpass client settings.
type Config struct {
	Endpoint  string
	UserAgent string
	Timeout   time.Duration
	Logger    *zap.Logger
}

// NewClient creates an Overpass API client.
func NewClient(cfg *Config) *Client {
	return &Client{
		endpoint:  cfg.Endpoint,
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: cfg.Timeout},
		logger:    cfg.Logger,
	}
}

// response is the wire shape of an interpreter reply. Elements lacking
// expected fields decode to their zero values and are validated downstream.
type response struct {
	Elements []provider.Element `json:"elements"`
}

// Query submits a QL query and returns the raw elements.
// Any transport or non-2xx failure maps to domain.ErrUpstream.
func (c *Client) Query(ctx context.Context, ql string) ([]provider.Element, error) {
	form := url.Values{"data": {ql}}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("build overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)

	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(providerLabel, "error").Inc()
		return nil, fmt.Errorf("overpass request: %v: %w", err, domain.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamRequestsTotal.WithLabelValues(providerLabel, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("overpass returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return nil, fmt.Errorf("overpass returned %d: %w", resp.StatusCode, domain.ErrUpstream)
	}

	var parsed response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(providerLabel, "error").Inc()
		return nil, fmt.Errorf("decode overpass response: %v: %w", err, domain.ErrUpstream)
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(providerLabel, "success").Inc()
	metrics.UpstreamRequestDuration.WithLabelValues(providerLabel).Observe(duration.Seconds())

	return parsed.Elements, nil
}
