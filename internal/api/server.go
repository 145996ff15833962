// Package api exposes the converter over HTTP
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"file2pdf/internal/converter"
)

// Service information
const (
	ServiceName    = "file2pdf"
	ServiceVersion = "1.0.0"
)

// Options configures the HTTP server
type Options struct {
	Port           int
	OutputDir      string
	MaxUploadBytes int64
	CORSOrigins    []string
}

// Handler builds the routed, CORS-wrapped handler for the API
func Handler(converterMgr *converter.ConverterManager, opts Options, logger *zap.Logger) http.Handler {
	server := NewServer(converterMgr, opts.OutputDir, opts.MaxUploadBytes, logger)

	// Create a new router and register handlers
	mux := http.NewServeMux()

	// Register service discovery endpoints
	mux.HandleFunc("/health", server.HealthCheckHandler)
	mux.HandleFunc("/service-info", server.ServiceInfoHandler)

	// Register API endpoints
	mux.HandleFunc("/api/formats", server.FormatsHandler)
	mux.HandleFunc("/api/detect", server.DetectFormatHandler)
	mux.HandleFunc("/api/convert", server.ConvertToPDFHandler)
	mux.HandleFunc("/api/batch-convert", server.BatchConvertHandler)

	c := cors.New(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		ExposedHeaders: []string{"Content-Disposition", "X-Conversion-Failures", "X-Conversion-Skipped", "X-Request-Id"},
	})
	return server.logRequests(c.Handler(mux))
}

// StartServer runs the HTTP server until ctx is cancelled, then shuts it
// down gracefully
func StartServer(ctx context.Context, converterMgr *converter.ConverterManager, opts Options, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Create the HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      Handler(converterMgr, opts, logger),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 300 * time.Second, // Allow for longer conversion times
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting API server", zap.Int("port", opts.Port), zap.String("output", opts.OutputDir))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

// HealthCheckHandler returns the health status of the service
func (s *Server) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ServiceInfoHandler returns information about this service for service discovery
func (s *Server) ServiceInfoHandler(w http.ResponseWriter, r *http.Request) {
	hostname, _ := os.Hostname()

	info := map[string]interface{}{
		"service":  ServiceName,
		"version":  ServiceVersion,
		"hostname": hostname,
		"endpoints": []string{
			"/api/formats",
			"/api/detect",
			"/api/convert",
			"/api/batch-convert",
		},
		"extensions": s.converterMgr.Registry().All(),
	}
	writeJSON(w, http.StatusOK, info)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Info("request",
			zap.String("id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
