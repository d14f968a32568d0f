// Package api declares HTTP contracts and route registration helpers for
// the serving wrapper around the diagnostics engine. The engine itself is a
// library; this package is the surrounding application surface.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/venturelens/pulse/internal/domain/model"
)

// Dependencies required by HTTP handlers. An interface bundle keeps the
// handler layer loosely coupled to the engine implementation.
type Dependencies interface {
	GenerateReport(ctx context.Context, snapshot model.Snapshot) (model.Report, error)
	GenerateBatch(ctx context.Context, snapshots []model.Snapshot) ([]model.Report, error)
	Reload(ctx context.Context) error
	Profiles(ctx context.Context) []model.ClusterKey
}

// Server wires HTTP routes for the engine API.
type Server struct {
	healthHandler    *HealthHandler
	reportsHandler   *ReportsHandler
	knowledgeHandler *KnowledgeHandler
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*Server)

// WithMaxBatchSize caps POST /v1/reports/batch.
func WithMaxBatchSize(n int) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.reportsHandler.maxBatchSize = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler:    NewHealthHandler(),
		reportsHandler:   NewReportsHandler(deps),
		knowledgeHandler: NewKnowledgeHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/v1/reports", MetricsMiddleware(s.reportsHandler.HandlePostReport, "reports"))
	mux.HandleFunc("/v1/reports/batch", MetricsMiddleware(s.reportsHandler.HandlePostBatch, "reports_batch"))
	mux.HandleFunc("/v1/knowledge/reload", MetricsMiddleware(s.knowledgeHandler.HandleReload, "knowledge_reload"))
	mux.HandleFunc("/v1/profiles", MetricsMiddleware(s.knowledgeHandler.HandleProfiles, "profiles"))
}

// snapshotRequest mirrors the POST /v1/reports body.
type snapshotRequest struct {
	SnapshotID string            `json:"snapshot_id"`
	Segment    string            `json:"segment"`
	Stage      string            `json:"stage"`
	Responses  []responseRequest `json:"responses"`
}

type responseRequest struct {
	KPIID string  `json:"kpi_id"`
	Value float64 `json:"value"`
}

func (r snapshotRequest) validate() error {
	switch {
	case strings.TrimSpace(r.Segment) == "":
		return errors.New("missing segment")
	case strings.TrimSpace(r.Stage) == "":
		return errors.New("missing stage")
	case len(r.Responses) == 0:
		return errors.New("missing responses")
	}
	for i, resp := range r.Responses {
		if strings.TrimSpace(resp.KPIID) == "" {
			return fmt.Errorf("missing kpi_id in response %d", i)
		}
	}
	return nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
