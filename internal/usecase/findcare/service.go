// Package findcare translates a free-text care search into a map-data
// query and ranks the returned entities by relevance and distance.
package findcare

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/healthagg/healthagg/internal/domain"
	"github.com/healthagg/healthagg/internal/domain/geo"
	"github.com/healthagg/healthagg/internal/domain/provider"
	"github.com/healthagg/healthagg/internal/logger"
)

// Search defaults applied when the request leaves them unset.
const (
	DefaultRadiusMeters = 10000
	DefaultLimit        = 3
)

// Request is one care search.
type Request struct {
	Location     geo.Point
	RadiusMeters int
	Query        string
	Limit        int
}

// Result is the ranked outcome of a care search.
type Result struct {
	Providers []provider.CareProvider `json:"providers"`
	Total     int                     `json:"total"`
	RadiusKm  float64                 `json:"radius"`
	Location  geo.Point               `json:"location"`
}

// Service handles care-provider search.
type Service struct {
	source MapSource
}

// New creates a find-care service.
func New(source MapSource) *Service {
	return &Service{source: source}
}

// Find executes one search: validate, build the query, fetch, rank.
func (s *Service) Find(ctx context.Context, req Request) (Result, error) {
	// Zero coordinates are treated as unset, matching the request
	// contract where absent parameters parse to zero.
	if req.Location.IsZero() {
		return Result{}, fmt.Errorf("%w: location coordinates required", domain.ErrInvalidInput)
	}
	if !req.Location.Valid() {
		return Result{}, fmt.Errorf("%w: location coordinates out of range", domain.ErrInvalidInput)
	}
	if req.RadiusMeters <= 0 {
		req.RadiusMeters = DefaultRadiusMeters
	}
	if req.Limit <= 0 {
		req.Limit = DefaultLimit
	}

	ql := BuildQuery(req.Location, req.RadiusMeters, req.Query)

	elements, err := s.source.Query(ctx, ql)
	if err != nil {
		return Result{}, fmt.Errorf("query map data: %w", err)
	}

	providers, total := Rank(elements, req.Location, req.Query, req.Limit)

	logger.FromContext(ctx).Debug("care search completed",
		zap.Int("raw", len(elements)),
		zap.Int("total", total),
		zap.Int("returned", len(providers)),
	)

	return Result{
		Providers: providers,
		Total:     total,
		RadiusKm:  float64(req.RadiusMeters) / 1000,
		Location:  req.Location,
	}, nil
}
