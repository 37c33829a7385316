package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"carline-cleanup/services"
)

// Server exposes the manual cleanup trigger over HTTP.
type Server struct {
	logger  *zap.Logger
	service *services.CleanupService
	http    *http.Server
	running atomic.Bool
}

// NewServer builds the HTTP surface on the given listen address.
func NewServer(addr string, service *services.CleanupService, logger *zap.Logger) *Server {
	s := &Server{
		logger:  logger,
		service: service,
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/cleanup/run", s.handleRun).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	s.http = &http.Server{Addr: addr, Handler: r}
	return s
}

// ListenAndServe blocks serving requests until Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", zap.String("addr", s.http.Addr))
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// handleRun runs a cleanup pass synchronously and returns the RunResult.
// Runs are single-flight: a trigger while one is in progress gets a 409.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if !s.running.CompareAndSwap(false, true) {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": "a cleanup run is already in progress",
		})
		return
	}
	defer s.running.Store(false)

	s.logger.Info("manual cleanup trigger called")
	result := s.service.Run(r.Context())

	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
