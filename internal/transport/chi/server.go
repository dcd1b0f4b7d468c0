// Package chi implements the HTTP API on the chi router.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/healthagg/healthagg/internal/domain"
	"github.com/healthagg/healthagg/internal/domain/geo"
	"github.com/healthagg/healthagg/internal/domain/guidance"
	authuc "github.com/healthagg/healthagg/internal/usecase/auth"
	findcareuc "github.com/healthagg/healthagg/internal/usecase/findcare"
	geocodeuc "github.com/healthagg/healthagg/internal/usecase/geocode"
	healthuc "github.com/healthagg/healthagg/internal/usecase/health"
	symptomuc "github.com/healthagg/healthagg/internal/usecase/symptom"
)

// Error codes returned in the error response body.
const (
	codeBadRequest         = "bad_request"
	codeValidationFailed   = "validation_failed"
	codeInvalidCredentials = "invalid_credentials"
	codeSessionExpired     = "session_expired"
	codeUpstreamAuth       = "upstream_auth_failed"
	codeNotFound           = "not_found"
	codeAlreadyExists      = "already_exists"
	codeUpstreamError      = "upstream_error"
	codeInternalError      = "internal_error"
)

// errorResponse is the wire shape of every error.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the aggregator use cases over HTTP.
type Server struct {
	symptom       *symptomuc.Service
	findcare      *findcareuc.Service
	geocode       *geocodeuc.Service
	auth          *authuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	symptom *symptomuc.Service,
	findcare *findcareuc.Service,
	geocode *geocodeuc.Service,
	auth *authuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		symptom:  symptom,
		findcare: findcare,
		geocode:  geocode,
		auth:     auth,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidCredentials, http.StatusUnauthorized, codeInvalidCredentials),
		sentinelHandler(domain.ErrSessionExpired, http.StatusUnauthorized, codeSessionExpired),
		sentinelHandler(domain.ErrUpstreamAuth, http.StatusUnauthorized, codeUpstreamAuth),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, codeAlreadyExists),
		sentinelHandler(domain.ErrUpstream, http.StatusBadGateway, codeUpstreamError),
	}
	return s
}

// Routes mounts all endpoints on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", s.Analyze)
		r.Get("/find-care", s.FindCare)
		r.Get("/geocode/reverse", s.ReverseGeocode)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", s.SignUp)
			r.Post("/signin", s.SignIn)
			r.Post("/signout", s.SignOut)
			r.Get("/me", s.Me)
		})
	})
}

// analyzeResponse flattens the guidance object and flags fallback results.
type analyzeResponse struct {
	guidance.Guidance
	Fallback bool `json:"fallback,omitempty"`
}

// Analyze handles POST /api/v1/analyze.
func (s *Server) Analyze(w http.ResponseWriter, r *http.Request) {
	var req symptomuc.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	res, err := s.symptom.Analyze(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "Messages are required")
			return
		}
		if errors.Is(err, domain.ErrUpstreamAuth) {
			writeError(w, http.StatusUnauthorized, codeUpstreamAuth,
				"Invalid API key or AI service error. Please check your API key and try again.")
			return
		}
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{Guidance: res.Guidance, Fallback: res.Fallback})
}

// FindCare handles GET /api/v1/find-care.
func (s *Server) FindCare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(q.Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Location coordinates required")
		return
	}

	radius, _ := strconv.Atoi(q.Get("radius"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	res, err := s.findcare.Find(r.Context(), findcareuc.Request{
		Location:     geo.Point{Lat: lat, Lon: lon},
		RadiusMeters: radius,
		Query:        q.Get("q"),
		Limit:        limit,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "Location coordinates required")
			return
		}
		if errors.Is(err, domain.ErrUpstream) {
			writeError(w, http.StatusBadGateway, codeUpstreamError,
				"Unable to fetch care providers. Please try again.")
			return
		}
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// ReverseGeocode handles GET /api/v1/geocode/reverse.
func (s *Server) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(q.Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Location coordinates required")
		return
	}

	addr, err := s.geocode.Reverse(r.Context(), geo.Point{Lat: lat, Lon: lon})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, addr)
}

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp handles POST /api/v1/auth/signup.
func (s *Server) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sess, err := s.auth.SignUp(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sess)
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn handles POST /api/v1/auth/signin.
func (s *Server) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sess, err := s.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sess)
}

// Me handles GET /api/v1/auth/me.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		if c, err := r.Cookie(sessionCookie); err == nil {
			token = c.Value
		}
	}

	acc, err := s.auth.Me(r.Context(), token)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, acc)
}

// SignOut handles POST /api/v1/auth/signout.
func (s *Server) SignOut(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Session token required")
		return
	}

	if err := s.auth.SignOut(r.Context(), token); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidInput,
		domain.ErrInvalidCredentials,
		domain.ErrSessionExpired,
		domain.ErrUpstreamAuth,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrUpstream,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
