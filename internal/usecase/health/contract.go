package health

import "context"

// DBPinger checks database connectivity.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// AnalyzerChecker checks AI provider availability.
type AnalyzerChecker interface {
	HealthCheck(ctx context.Context) error
}
