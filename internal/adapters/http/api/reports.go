package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/venturelens/pulse/internal/app"
	"github.com/venturelens/pulse/internal/domain/model"
)

// defaultMaxBatchSize caps batch requests unless configured otherwise.
const defaultMaxBatchSize = 100

// ReportsHandler handles report generation requests.
type ReportsHandler struct {
	deps         Dependencies
	maxBatchSize int
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(deps Dependencies) *ReportsHandler {
	return &ReportsHandler{deps: deps, maxBatchSize: defaultMaxBatchSize}
}

// HandlePostReport handles POST /v1/reports.
func (h *ReportsHandler) HandlePostReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req snapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	rep, err := h.deps.GenerateReport(r.Context(), toSnapshot(req))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// HandlePostBatch handles POST /v1/reports/batch.
func (h *ReportsHandler) HandlePostBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var reqs []snapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if len(reqs) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("empty batch"))
		return
	}
	if len(reqs) > h.maxBatchSize {
		writeError(w, http.StatusRequestEntityTooLarge, "batch_too_large", ErrBatchTooLarge)
		return
	}
	snapshots := make([]model.Snapshot, 0, len(reqs))
	for i, req := range reqs {
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request",
				fmt.Errorf("snapshot %d: %w", i, err))
			return
		}
		snapshots = append(snapshots, toSnapshot(req))
	}

	reports, err := h.deps.GenerateBatch(r.Context(), snapshots)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// toSnapshot converts a request body, minting a snapshot ID when the client
// did not supply one.
func toSnapshot(req snapshotRequest) model.Snapshot {
	id := req.SnapshotID
	if id == "" {
		id = uuid.NewString()
	}
	responses := make([]model.KPIResponse, 0, len(req.Responses))
	for _, r := range req.Responses {
		responses = append(responses, model.KPIResponse{KPIID: r.KPIID, Value: r.Value})
	}
	return model.Snapshot{
		ID:        id,
		Cluster:   model.ClusterKey{Segment: req.Segment, Stage: req.Stage},
		Responses: responses,
	}
}

// writeEngineError translates engine sentinel errors to HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrEmptySnapshot):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, app.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "not_ready", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
