// Package openai implements the clinical symptom analyzer on top of an
// OpenAI-compatible chat-completion API.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/healthagg/healthagg/internal/domain"
	"github.com/healthagg/healthagg/internal/domain/guidance"
	"github.com/healthagg/healthagg/internal/metrics"
)

const providerLabel = "ai"

// clinicalSystemPrompt constrains the model to structured, safety-first
// clinical guidance in the exact JSON shape of guidance.Guidance.
const clinicalSystemPrompt = `You are an AI Clinical Decision Support Assistant designed to generate structured, doctor-style medical guidance based on user-reported symptoms.

You must respond in a professional clinical format similar to a qualified physician consultation note.

MANDATORY RULES:
- Avoid overconfidence. Use language like "could suggest," "possibilities include," "may indicate."
- NEVER claim definitive diagnosis.
- NEVER prescribe restricted/controlled medications, steroids, antibiotics, or Schedule H/H1 medicines.
- Provide only safe OTC suggestions with full dosage, contraindication, and side effect info.
- Clearly state red-flag conditions and emergency signs.
- Recommend lab tests where appropriate with clear reasoning.
- Include dosage only for OTC medicines.
- Include contraindication warnings for every OTC medicine.
- Include when to see a doctor urgently.
- If symptoms indicate emergency (chest pain, stroke signs, severe bleeding, breathing difficulty), immediately recommend emergency care.
- If child, pregnant woman, elderly, or chronic disease patient, add extra caution.
- If dosage uncertainty, say "Consult physician for exact dosage."
- Use medical terminology with patient-friendly explanations.
- Always state this is for educational purposes only and not a substitute for professional medical care.

TONE: Professional, Clinical, Reassuring, Clear. No casual language. No emojis. No generic vague responses.

Respond ONLY with a valid JSON object matching this schema, no markdown, no commentary:
{
  "chiefComplaint": "string",
  "differentialDiagnosis": [{"condition": "string", "probability": "High|Moderate|Low", "explanation": "string"}],
  "severityAssessment": {"level": "Mild|Moderate|Severe", "emergencyRisk": false, "redFlagSymptoms": ["string"]},
  "immediateCare": {
    "lifestyleRemedies": ["string"],
    "otcMedications": [{"genericName": "string", "brandName": "string", "standardDose": "string", "frequency": "string", "maxDailyDose": "string", "contraindications": "string", "sideEffects": "string", "avoidIf": "string"}]
  },
  "recommendedTests": [{"testName": "string", "reason": "string"}],
  "emergencySigns": ["string"],
  "preventiveAdvice": ["string"],
  "specialist": "string",
  "consultationReason": "string",
  "confidence": 0
}`

// Analyzer calls a chat-completion model for clinical guidance.
type Analyzer struct {
	client  *openai.Client
	baseURL string
	model   string
	logger  *zap.Logger
}

// Config holds the analyzer provider settings.
type Config struct {
	APIKey  string // server-side key; empty disables the server-key path
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewAnalyzer creates a clinical analyzer against an OpenAI-compatible endpoint.
func NewAnalyzer(cfg *Config) *Analyzer {
	var client *openai.Client
	if cfg.APIKey != "" {
		client = newClient(cfg.APIKey, cfg.BaseURL)
	}
	return &Analyzer{
		client:  client,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		logger:  cfg.Logger,
	}
}

func newClient(apiKey, baseURL string) *openai.Client {
	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(clientCfg)
}

// Analyze produces guidance using the server-configured key.
func (a *Analyzer) Analyze(ctx context.Context, symptoms string) (guidance.Guidance, error) {
	if a.client == nil {
		return guidance.Guidance{}, fmt.Errorf("no server API key configured: %w", domain.ErrUpstream)
	}
	return a.complete(ctx, a.client, symptoms)
}

// AnalyzeWithKey produces guidance using a caller-supplied key.
// A fresh client is built per call so keys never outlive the request.
func (a *Analyzer) AnalyzeWithKey(ctx context.Context, apiKey, symptoms string) (guidance.Guidance, error) {
	return a.complete(ctx, newClient(apiKey, a.baseURL), symptoms)
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (a *Analyzer) HealthCheck(ctx context.Context) error {
	if a.client == nil {
		return nil
	}
	if _, err := a.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func (a *Analyzer) complete(
	ctx context.Context, client *openai.Client, symptoms string,
) (guidance.Guidance, error) {
	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: clinicalSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Patient's reported symptoms: %q", symptoms)},
		},
		Temperature: 0.3,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	start := time.Now()
	resp, err := client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(providerLabel, "error").Inc()
		return guidance.Guidance{}, classifyAPIError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.UpstreamRequestsTotal.WithLabelValues(providerLabel, "error").Inc()
		return guidance.Guidance{}, fmt.Errorf("empty completion response: %w", domain.ErrUpstream)
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(providerLabel, "success").Inc()
	metrics.UpstreamRequestDuration.WithLabelValues(providerLabel).Observe(duration.Seconds())

	return decodeGuidance(resp.Choices[0].Message.Content)
}

// decodeGuidance parses the model output, tolerating markdown code fences
// some models wrap JSON in despite instructions.
func decodeGuidance(raw string) (guidance.Guidance, error) {
	text := stripFences(raw)

	var g guidance.Guidance
	if err := json.Unmarshal([]byte(text), &g); err != nil {
		return guidance.Guidance{}, fmt.Errorf("decode guidance: %v: %w", err, domain.ErrUpstream)
	}

	if g.Confidence < 0 {
		g.Confidence = 0
	}
	if g.Confidence > 100 {
		g.Confidence = 100
	}

	return g, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// classifyAPIError maps provider failures onto domain sentinels:
// authentication rejections surface as ErrUpstreamAuth so callers with
// their own key see the real problem instead of a silent fallback.
func classifyAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusUnauthorized || apiErr.HTTPStatusCode == http.StatusForbidden {
			return fmt.Errorf("completion API error %d: %s: %w",
				apiErr.HTTPStatusCode, apiErr.Message, domain.ErrUpstreamAuth)
		}
		return fmt.Errorf("completion API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, domain.ErrUpstream)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == http.StatusUnauthorized || reqErr.HTTPStatusCode == http.StatusForbidden {
			return fmt.Errorf("completion API error %d: %w", reqErr.HTTPStatusCode, domain.ErrUpstreamAuth)
		}
		return fmt.Errorf("completion API error %d: %w", reqErr.HTTPStatusCode, domain.ErrUpstream)
	}

	return fmt.Errorf("completion request failed: %v: %w", err, domain.ErrUpstream)
}
