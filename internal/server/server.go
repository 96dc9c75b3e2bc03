package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tradepulse/arcade/internal/arcade"
	"github.com/tradepulse/arcade/internal/database"
	"github.com/tradepulse/arcade/internal/handler"
	"github.com/tradepulse/arcade/internal/ledger"
	"github.com/tradepulse/arcade/internal/logger"
	"github.com/tradepulse/arcade/internal/metrics"
	"github.com/tradepulse/arcade/internal/progression"
)

type Server struct {
	httpServer         *http.Server
	dbPool             database.Pool
	arcadeService      arcade.Service
	progressionService progression.Service
	ledgerService      ledger.Service
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey string, trustedProxies []string, dbPool database.Pool, arcadeService arcade.Service, progressionService progression.Service, ledgerService ledger.Service) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(RateLimitMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		arcadeHandler := handler.NewArcadeHandler(arcadeService)
		r.Route("/arcade", func(r chi.Router) {
			r.Post("/commit", arcadeHandler.HandleCommit)
			r.Post("/resolve/{module}", arcadeHandler.HandleResolve)
			r.Get("/resolution", arcadeHandler.HandleGetResolution)
			r.Get("/verify", arcadeHandler.HandleVerify)
			r.Post("/vault/lock", arcadeHandler.HandleLockVault)
			r.Post("/mission/start", arcadeHandler.HandleStartMission)
		})

		progressionHandlers := handler.NewProgressionHandlers(progressionService)
		r.Route("/progression", func(r chi.Router) {
			r.Get("/state", progressionHandlers.HandleGetState)
			r.Post("/prestige", progressionHandlers.HandlePrestige)
			r.Get("/next-tier-xp", progressionHandlers.HandleNextTierXP)
			r.Get("/arcade-state", progressionHandlers.HandleGetArcadeState)
			r.Post("/arcade-state", progressionHandlers.HandlePatchArcadeState)
		})

		ledgerHandlers := handler.NewLedgerHandlers(ledgerService)
		r.Route("/ledger", func(r chi.Router) {
			r.Get("/user", ledgerHandlers.HandleGetUserHistory)
			r.Get("/module", ledgerHandlers.HandleGetModuleActivity)
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool:             dbPool,
		arcadeService:      arcadeService,
		progressionService: progressionService,
		ledgerService:      ledgerService,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
