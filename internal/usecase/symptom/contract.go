package symptom

import (
	"context"

	"github.com/healthagg/healthagg/internal/domain/guidance"
)

// Analyzer produces clinical guidance from free-text symptoms.
type Analyzer interface {
	Analyze(ctx context.Context, symptoms string) (guidance.Guidance, error)
	AnalyzeWithKey(ctx context.Context, apiKey, symptoms string) (guidance.Guidance, error)
}
