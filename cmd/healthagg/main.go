package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/healthagg/healthagg/internal/config"
	dbRedis "github.com/healthagg/healthagg/internal/db/redis"
	logpkg "github.com/healthagg/healthagg/internal/logger"
	"github.com/healthagg/healthagg/internal/metrics"
	"github.com/healthagg/healthagg/internal/repository/geocache"
	sessionrepo "github.com/healthagg/healthagg/internal/repository/session"
	userrepo "github.com/healthagg/healthagg/internal/repository/user"
	chiTransport "github.com/healthagg/healthagg/internal/transport/chi"
	"github.com/healthagg/healthagg/internal/transport/nominatim"
	aiTransport "github.com/healthagg/healthagg/internal/transport/openai"
	"github.com/healthagg/healthagg/internal/transport/overpass"
	authuc "github.com/healthagg/healthagg/internal/usecase/auth"
	findcareuc "github.com/healthagg/healthagg/internal/usecase/findcare"
	geocodeuc "github.com/healthagg/healthagg/internal/usecase/geocode"
	healthuc "github.com/healthagg/healthagg/internal/usecase/health"
	symptomuc "github.com/healthagg/healthagg/internal/usecase/symptom"
	"github.com/healthagg/healthagg/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting healthagg API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register upstream metrics explicitly (no init())
	metrics.RegisterUpstreamMetrics()

	upstreamTimeout := time.Duration(cfg.Upstream.TimeoutSec) * time.Second

	analyzer := aiTransport.NewAnalyzer(&aiTransport.Config{
		APIKey:  cfg.AI.APIKey,
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.Model,
		Logger:  logger,
	})

	mapSource := overpass.NewClient(&overpass.Config{
		Endpoint:  cfg.Upstream.OverpassURL,
		UserAgent: cfg.Upstream.UserAgent,
		Timeout:   upstreamTimeout,
		Logger:    logger,
	})

	// Geocoder chain: Nominatim -> cached (addresses are static, the
	// upstream is rate-limited)
	geocoder := geocache.New(
		nominatim.NewClient(&nominatim.Config{
			BaseURL:   cfg.Upstream.NominatimURL,
			UserAgent: cfg.Upstream.UserAgent,
			Timeout:   upstreamTimeout,
			Logger:    logger,
		}),
		store,
		cfg.Storage.KeyPrefix,
		time.Duration(cfg.Upstream.GeocodeCacheTTLHrs)*time.Hour,
		metrics.GeocodeCacheTotal,
		logger,
	)

	// Repositories
	users := userrepo.New(store, cfg.Storage.KeyPrefix)
	sessions := sessionrepo.New(store, cfg.Storage.KeyPrefix)

	// Use case services
	symptomSvc := symptomuc.New(analyzer)
	findcareSvc := findcareuc.New(mapSource)
	geocodeSvc := geocodeuc.New(geocoder)
	authSvc := authuc.New(users, sessions, time.Duration(cfg.Auth.SessionTTLHours)*time.Hour)

	var analyzerChecker healthuc.AnalyzerChecker
	if cfg.AI.APIKey != "" {
		analyzerChecker = analyzer
	}
	healthSvc := healthuc.New(store, analyzerChecker)

	server := chiTransport.NewServer(symptomSvc, findcareSvc, geocodeSvc, authSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(chiTransport.SessionMiddleware(authSvc, cfg.Auth.RequireSession))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
