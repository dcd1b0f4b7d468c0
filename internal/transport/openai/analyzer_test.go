package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/healthagg/healthagg/internal/domain"
	"github.com/healthagg/healthagg/internal/domain/guidance"
)

const sampleGuidanceJSON = `{
	"chiefComplaint": "Headache for two days",
	"differentialDiagnosis": [
		{"condition": "Tension headache", "probability": "High", "explanation": "Most common cause"}
	],
	"severityAssessment": {"level": "Mild", "emergencyRisk": false, "redFlagSymptoms": []},
	"immediateCare": {"lifestyleRemedies": ["Rest"], "otcMedications": []},
	"recommendedTests": [],
	"emergencySigns": ["Sudden severe headache"],
	"preventiveAdvice": ["Stay hydrated"],
	"specialist": "Neurologist",
	"consultationReason": "If persistent beyond 3 days",
	"confidence": 82
}`

func newTestAnalyzer(t *testing.T, handler http.HandlerFunc) *Analyzer {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewAnalyzer(&Config{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/v1",
		Model:   "gpt-4o-mini",
		Logger:  zap.NewNop(),
	})
}

func completionBody(content string) []byte {
	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	type choice struct {
		Message msg `json:"message"`
	}
	type resp struct {
		Choices []choice `json:"choices"`
	}
	b, _ := json.Marshal(resp{Choices: []choice{{Message: msg{Role: "assistant", Content: content}}}})
	return b
}

func TestAnalyze_DecodesGuidance(t *testing.T) {
	a := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody(sampleGuidanceJSON)))
	})

	g, err := a.Analyze(context.Background(), "headache for two days")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.ChiefComplaint != "Headache for two days" {
		t.Errorf("chief complaint = %q", g.ChiefComplaint)
	}
	if len(g.DifferentialDiagnosis) != 1 || g.DifferentialDiagnosis[0].Probability != guidance.ProbabilityHigh {
		t.Errorf("unexpected differential: %+v", g.DifferentialDiagnosis)
	}
	if g.Confidence != 82 {
		t.Errorf("confidence = %d", g.Confidence)
	}
}

func TestAnalyze_StripsMarkdownFences(t *testing.T) {
	a := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("```json\n" + sampleGuidanceJSON + "\n```")))
	})

	g, err := a.Analyze(context.Background(), "headache")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Specialist != "Neurologist" {
		t.Errorf("specialist = %q", g.Specialist)
	}
}

func TestAnalyze_UnauthorizedIsUpstreamAuth(t *testing.T) {
	a := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`))
	})

	_, err := a.Analyze(context.Background(), "headache")
	if !errors.Is(err, domain.ErrUpstreamAuth) {
		t.Fatalf("expected ErrUpstreamAuth, got %v", err)
	}
}

func TestAnalyze_ServerFailureIsUpstreamError(t *testing.T) {
	a := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "overloaded", "type": "server_error"}}`))
	})

	_, err := a.Analyze(context.Background(), "headache")
	if errors.Is(err, domain.ErrUpstreamAuth) {
		t.Fatal("server failure must not classify as auth error")
	}
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestAnalyze_MalformedGuidanceIsUpstreamError(t *testing.T) {
	a := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("I am sorry, I cannot help with that.")))
	})

	_, err := a.Analyze(context.Background(), "headache")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestAnalyze_NoServerKeyConfigured(t *testing.T) {
	a := NewAnalyzer(&Config{Model: "gpt-4o-mini", Logger: zap.NewNop()})

	_, err := a.Analyze(context.Background(), "headache")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestDecodeGuidance_ClampsConfidence(t *testing.T) {
	g, err := decodeGuidance(`{"chiefComplaint": "x", "confidence": 140}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Confidence != 100 {
		t.Errorf("confidence = %d, want clamped to 100", g.Confidence)
	}
}

func TestStripFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripFences(tc.in); got != tc.want {
				t.Errorf("stripFences(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
