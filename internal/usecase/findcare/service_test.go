package findcare

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/healthagg/healthagg/internal/domain"
	"github.com/healthagg/healthagg/internal/domain/geo"
	"github.com/healthagg/healthagg/internal/domain/provider"
)

type stubSource struct {
	gotQL    string
	elements []provider.Element
	err      error
}

func (s *stubSource) Query(_ context.Context, ql string) ([]provider.Element, error) {
	s.gotQL = ql
	return s.elements, s.err
}

func TestFind_MissingCoordinatesIsInvalidInput(t *testing.T) {
	svc := New(&stubSource{})

	_, err := svc.Find(context.Background(), Request{Query: "dentist"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestFind_OutOfRangeCoordinatesIsInvalidInput(t *testing.T) {
	svc := New(&stubSource{})

	_, err := svc.Find(context.Background(), Request{Location: geo.Point{Lat: 91, Lon: 10}})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestFind_AppliesDefaults(t *testing.T) {
	src := &stubSource{}
	svc := New(src)

	res, err := svc.Find(context.Background(), Request{
		Location: geo.Point{Lat: 12.97, Lon: 77.59},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(src.gotQL, "(around:10000,") {
		t.Errorf("expected default 10000m radius in query:\n%s", src.gotQL)
	}
	if res.RadiusKm != 10 {
		t.Errorf("radius km = %v, want 10", res.RadiusKm)
	}
	if res.Location.Lat != 12.97 || res.Location.Lon != 77.59 {
		t.Errorf("location not echoed: %+v", res.Location)
	}
}

func TestFind_UpstreamErrorPropagates(t *testing.T) {
	svc := New(&stubSource{err: domain.ErrUpstream})

	_, err := svc.Find(context.Background(), Request{
		Location: geo.Point{Lat: 12.97, Lon: 77.59},
	})
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestFind_EmptyResultIsNotAnError(t *testing.T) {
	svc := New(&stubSource{})

	res, err := svc.Find(context.Background(), Request{
		Location: geo.Point{Lat: 12.97, Lon: 77.59},
		Query:    "dentist",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 0 || len(res.Providers) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestFind_RanksAndTruncates(t *testing.T) {
	origin := geo.Point{Lat: 12.97, Lon: 77.59}
	src := &stubSource{
		elements: []provider.Element{
			dentistAt(1, "Far Care", origin, 5.0),
			dentistAt(2, "Near Care", origin, 1.0),
			dentistAt(3, "Mid Care", origin, 3.0),
			dentistAt(4, "Other Care", origin, 2.0),
		},
	}
	svc := New(src)

	res, err := svc.Find(context.Background(), Request{
		Location: origin,
		Query:    "dentist near me",
		Limit:    2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 4 {
		t.Errorf("total = %d, want 4", res.Total)
	}
	if len(res.Providers) != 2 {
		t.Fatalf("returned %d, want 2", len(res.Providers))
	}
	// "near" in the query matches the name "Near Care" (+50); it sorts first.
	if res.Providers[0].ID != 2 {
		t.Errorf("first id = %d, want 2", res.Providers[0].ID)
	}
}
