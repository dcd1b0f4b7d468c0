package findcare

import (
	"context"

	"github.com/healthagg/healthagg/internal/domain/provider"
)

// MapSource executes a structured query against the external map-data service.
type MapSource interface {
	Query(ctx context.Context, ql string) ([]provider.Element, error)
}
