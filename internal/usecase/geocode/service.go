// Package geocode resolves coordinates to human-readable addresses.
package geocode

import (
	"context"
	"fmt"

	"github.com/healthagg/healthagg/internal/domain"
	"github.com/healthagg/healthagg/internal/domain/geo"
)

// Geocoder resolves a point to an address.
type Geocoder interface {
	Reverse(ctx context.Context, p geo.Point) (geo.Address, error)
}

// Service handles reverse geocoding.
type Service struct {
	geocoder Geocoder
}

// New creates a geocode service.
func New(geocoder Geocoder) *Service {
	return &Service{geocoder: geocoder}
}

// Reverse validates the point and resolves its address.
func (s *Service) Reverse(ctx context.Context, p geo.Point) (geo.Address, error) {
	if p.IsZero() {
		return geo.Address{}, fmt.Errorf("%w: location coordinates required", domain.ErrInvalidInput)
	}
	if !p.Valid() {
		return geo.Address{}, fmt.Errorf("%w: location coordinates out of range", domain.ErrInvalidInput)
	}

	addr, err := s.geocoder.Reverse(ctx, p)
	if err != nil {
		return geo.Address{}, fmt.Errorf("resolve address: %w", err)
	}
	return addr, nil
}
