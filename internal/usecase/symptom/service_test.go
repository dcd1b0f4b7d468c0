package symptom

import (
	"context"
	"errors"
	"testing"

	"github.com/healthagg/healthagg/internal/domain"
	"github.com/healthagg/healthagg/internal/domain/guidance"
)

type stubAnalyzer struct {
	guidance    guidance.Guidance
	err         error
	gotSymptoms string
	gotKey      string
	calls       int
}

func (s *stubAnalyzer) Analyze(_ context.Context, symptoms string) (guidance.Guidance, error) {
	s.calls++
	s.gotSymptoms = symptoms
	return s.guidance, s.err
}

func (s *stubAnalyzer) AnalyzeWithKey(_ context.Context, apiKey, symptoms string) (guidance.Guidance, error) {
	s.calls++
	s.gotKey = apiKey
	s.gotSymptoms = symptoms
	return s.guidance, s.err
}

func userMessage(text string) []Message {
	return []Message{{Role: "user", Content: text}}
}

func TestAnalyze_EmptyMessagesIsInvalidInput(t *testing.T) {
	svc := New(&stubAnalyzer{})

	_, err := svc.Analyze(context.Background(), Request{})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	_, err = svc.Analyze(context.Background(), Request{Messages: []Message{}})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty slice, got %v", err)
	}
}

func TestAnalyze_UsesLatestUserMessage(t *testing.T) {
	stub := &stubAnalyzer{guidance: guidance.Guidance{ChiefComplaint: "x", Confidence: 90}}
	svc := New(stub)

	_, err := svc.Analyze(context.Background(), Request{Messages: []Message{
		{Role: "user", Content: "I have a cough"},
		{Role: "assistant", Content: "Tell me more"},
		{Role: "user", Content: "and now a fever too"},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.gotSymptoms != "and now a fever too" {
		t.Errorf("symptoms = %q", stub.gotSymptoms)
	}
}

func TestAnalyze_ProviderSuccessIsNotFallback(t *testing.T) {
	stub := &stubAnalyzer{guidance: guidance.Guidance{ChiefComplaint: "Cough", Confidence: 91}}
	svc := New(stub)

	res, err := svc.Analyze(context.Background(), Request{Messages: userMessage("cough")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Fallback {
		t.Error("successful provider call must not flag fallback")
	}
	if res.Guidance.Confidence != 91 {
		t.Errorf("confidence = %d", res.Guidance.Confidence)
	}
}

func TestAnalyze_ProviderFailureServesHeadacheTemplate(t *testing.T) {
	stub := &stubAnalyzer{err: domain.ErrUpstream}
	svc := New(stub)

	res, err := svc.Analyze(context.Background(), Request{Messages: userMessage("I have a headache")})
	if err != nil {
		t.Fatalf("fallback path must not error: %v", err)
	}
	if !res.Fallback {
		t.Error("expected fallback flag")
	}
	if stub.calls != 1 {
		t.Errorf("provider called %d times, want exactly 1 (no retry)", stub.calls)
	}

	g := res.Guidance
	if g.ChiefComplaint != "Patient reports headache symptoms requiring clinical evaluation." {
		t.Errorf("chief complaint = %q", g.ChiefComplaint)
	}
	if len(g.DifferentialDiagnosis) != 3 {
		t.Errorf("differential entries = %d, want 3", len(g.DifferentialDiagnosis))
	}
	if g.Confidence != 85 {
		t.Errorf("confidence = %d, want 85", g.Confidence)
	}
}

func TestAnalyze_ProviderFailureServesFeverTemplate(t *testing.T) {
	svc := New(&stubAnalyzer{err: domain.ErrUpstream})

	res, err := svc.Analyze(context.Background(), Request{Messages: userMessage("running a fever since morning")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Guidance.Confidence != 88 {
		t.Errorf("confidence = %d, want 88", res.Guidance.Confidence)
	}
}

func TestAnalyze_ProviderFailureServesDefaultTemplate(t *testing.T) {
	svc := New(&stubAnalyzer{err: domain.ErrUpstream})

	res, err := svc.Analyze(context.Background(), Request{Messages: userMessage("my knee clicks")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Guidance.Confidence != 70 {
		t.Errorf("confidence = %d, want 70", res.Guidance.Confidence)
	}
	if res.Guidance.Specialist != "General Physician" {
		t.Errorf("specialist = %q", res.Guidance.Specialist)
	}
}

func TestAnalyze_CallerKeyFailureSurfaces(t *testing.T) {
	stub := &stubAnalyzer{err: domain.ErrUpstreamAuth}
	svc := New(stub)

	_, err := svc.Analyze(context.Background(), Request{
		Messages: userMessage("I have a headache"),
		APIKey:   "sk-bad",
	})
	if !errors.Is(err, domain.ErrUpstreamAuth) {
		t.Fatalf("expected ErrUpstreamAuth, got %v", err)
	}
	if stub.gotKey != "sk-bad" {
		t.Errorf("key = %q", stub.gotKey)
	}
}

func TestAnalyze_CallerKeySuccessUsesProvidedKey(t *testing.T) {
	stub := &stubAnalyzer{guidance: guidance.Guidance{Confidence: 80}}
	svc := New(stub)

	res, err := svc.Analyze(context.Background(), Request{
		Messages: userMessage("headache"),
		APIKey:   "sk-mine",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Fallback {
		t.Error("caller-key success must not flag fallback")
	}
	if stub.gotKey != "sk-mine" {
		t.Errorf("key = %q", stub.gotKey)
	}
}

func TestMatchFallback_FirstHitWins(t *testing.T) {
	g := matchFallback("fever and headache together")
	// Ordered lookup: headache is checked first.
	if g.Confidence != 85 {
		t.Errorf("confidence = %d, want headache template (85)", g.Confidence)
	}
}

func TestMatchFallback_CaseInsensitive(t *testing.T) {
	g := matchFallback("HEADACHE")
	if g.Confidence != 85 {
		t.Errorf("confidence = %d, want 85", g.Confidence)
	}
}
