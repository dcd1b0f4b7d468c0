package geocode

import (
	"context"
	"errors"
	"testing"

	"github.com/healthagg/healthagg/internal/domain"
	"github.com/healthagg/healthagg/internal/domain/geo"
)

type stubGeocoder struct {
	addr geo.Address
	err  error
}

func (s *stubGeocoder) Reverse(_ context.Context, _ geo.Point) (geo.Address, error) {
	return s.addr, s.err
}

func TestReverse_ZeroCoordinatesIsInvalidInput(t *testing.T) {
	svc := New(&stubGeocoder{})

	_, err := svc.Reverse(context.Background(), geo.Point{})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestReverse_OutOfRangeIsInvalidInput(t *testing.T) {
	svc := New(&stubGeocoder{})

	_, err := svc.Reverse(context.Background(), geo.Point{Lat: 12, Lon: 181})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestReverse_ReturnsResolvedAddress(t *testing.T) {
	svc := New(&stubGeocoder{addr: geo.Address{DisplayName: "MG Road", City: "Bengaluru"}})

	addr, err := svc.Reverse(context.Background(), geo.Point{Lat: 12.97, Lon: 77.59})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr.City != "Bengaluru" {
		t.Errorf("city = %q", addr.City)
	}
}

func TestReverse_UpstreamErrorPropagates(t *testing.T) {
	svc := New(&stubGeocoder{err: domain.ErrUpstream})

	_, err := svc.Reverse(context.Background(), geo.Point{Lat: 12.97, Lon: 77.59})
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}
