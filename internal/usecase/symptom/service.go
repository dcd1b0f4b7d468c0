// Package symptom turns a symptom-checker conversation into structured
// clinical guidance, with a curated static fallback when the AI provider
// is unavailable.
package symptom

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/healthagg/healthagg/internal/domain"
	"github.com/healthagg/healthagg/internal/domain/guidance"
	"github.com/healthagg/healthagg/internal/logger"
	"github.com/healthagg/healthagg/internal/metrics"
)

// Message is one turn of the symptom-checker conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is one analysis call. APIKey, when set, is the caller's own
// provider key; failures on that path surface instead of falling back.
type Request struct {
	Messages []Message `json:"messages"`
	APIKey   string    `json:"apiKey,omitempty"`
}

// Result carries the guidance plus whether it came from the static
// fallback rather than the AI provider.
type Result struct {
	Guidance guidance.Guidance
	Fallback bool
}

// Service handles symptom analysis.
type Service struct {
	analyzer Analyzer
}

// New creates a symptom analysis service.
func New(analyzer Analyzer) *Service {
	return &Service{analyzer: analyzer}
}

// Analyze runs one analysis. The symptom text is taken from the most
// recent user message. Upstream failure without a caller key triggers
// exactly one fallback attempt; there is no retry.
func (s *Service) Analyze(ctx context.Context, req Request) (Result, error) {
	symptoms := latestUserContent(req.Messages)
	if symptoms == "" {
		return Result{}, fmt.Errorf("%w: messages required", domain.ErrInvalidInput)
	}

	log := logger.FromContext(ctx)

	if req.APIKey != "" {
		g, err := s.analyzer.AnalyzeWithKey(ctx, req.APIKey, symptoms)
		if err != nil {
			// A caller brought their own key: report the failure so they
			// can fix the key instead of silently masking it.
			if errors.Is(err, domain.ErrUpstreamAuth) {
				return Result{}, err
			}
			return Result{}, fmt.Errorf("%w: %w", domain.ErrUpstreamAuth, err)
		}
		return Result{Guidance: g}, nil
	}

	g, err := s.analyzer.Analyze(ctx, symptoms)
	if err != nil {
		log.Warn("analysis provider failed, serving fallback guidance", zap.Error(err))
		metrics.AnalysisFallbackTotal.Inc()
		return Result{Guidance: matchFallback(symptoms), Fallback: true}, nil
	}
	return Result{Guidance: g}, nil
}

// latestUserContent returns the content of the most recent user message,
// or the last message of any role if no user turn exists.
func latestUserContent(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" && messages[i].Content != "" {
			return messages[i].Content
		}
	}
	if n := len(messages); n > 0 {
		return messages[n-1].Content
	}
	return ""
}
