// Package nominatim is a thin client for the Nominatim reverse-geocoding API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/healthagg/healthagg/internal/domain"
	"github.com/healthagg/healthagg/internal/domain/geo"
	"github.com/healthagg/healthagg/internal/metrics"
)

const providerLabel = "nominatim"

// Client resolves coordinates to addresses via the Nominatim reverse endpoint.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	logger    *zap.Logger
}

// Config holds the Nominatim client settings.
type Config struct {
	BaseURL   string
	UserAgent string // required by the Nominatim usage policy
	Timeout   time.Duration
	Logger    *zap.Logger
}

// NewClient creates a Nominatim client.
func NewClient(cfg *Config) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: cfg.Timeout},
		logger:    cfg.Logger,
	}
}

// reverseResponse is the subset of the Nominatim reverse reply we consume.
type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		Road     string `json:"road"`
		Suburb   string `json:"suburb"`
		City     string `json:"city"`
		Town     string `json:"town"`
		Village  string `json:"village"`
		State    string `json:"state"`
		Postcode string `json:"postcode"`
		Country  string `json:"country"`
	} `json:"address"`
}

// Reverse resolves a point to an address.
// Any transport or non-2xx failure maps to domain.ErrUpstream.
func (c *Client) Reverse(ctx context.Context, p geo.Point) (geo.Address, error) {
	q := url.Values{
		"format": {"json"},
		"lat":    {strconv.FormatFloat(p.Lat, 'f', -1, 64)},
		"lon":    {strconv.FormatFloat(p.Lon, 'f', -1, 64)},
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), http.NoBody,
	)
	if err != nil {
		return geo.Address{}, fmt.Errorf("build reverse request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)

	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(providerLabel, "error").Inc()
		return geo.Address{}, fmt.Errorf("reverse geocode: %v: %w", err, domain.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamRequestsTotal.WithLabelValues(providerLabel, "error").Inc()
		return geo.Address{}, fmt.Errorf("nominatim returned %d: %w", resp.StatusCode, domain.ErrUpstream)
	}

	var parsed reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(providerLabel, "error").Inc()
		return geo.Address{}, fmt.Errorf("decode reverse response: %v: %w", err, domain.ErrUpstream)
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(providerLabel, "success").Inc()
	metrics.UpstreamRequestDuration.WithLabelValues(providerLabel).Observe(duration.Seconds())

	city := parsed.Address.City
	if city == "" {
		city = parsed.Address.Town
	}
	if city == "" {
		city = parsed.Address.Village
	}

	return geo.Address{
		DisplayName: parsed.DisplayName,
		Road:        parsed.Address.Road,
		Suburb:      parsed.Address.Suburb,
		City:        city,
		State:       parsed.Address.State,
		Postcode:    parsed.Address.Postcode,
		Country:     parsed.Address.Country,
	}, nil
}
