package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/duskforge/riftgate/pkg/catalog"
	"github.com/duskforge/riftgate/pkg/convergence"
	"github.com/duskforge/riftgate/pkg/director"
	"github.com/duskforge/riftgate/pkg/routing"
	"github.com/duskforge/riftgate/pkg/run"
	"github.com/duskforge/riftgate/pkg/storage"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// EventPublisher is the slice of the event broadcaster the run handler
// needs. May be nil, in which case no events are published.
type EventPublisher interface {
	PublishRunCreated(ctx context.Context, runID uuid.UUID) error
	PublishEncounterCleared(ctx context.Context, runID uuid.UUID, key string, barrier convergence.BarrierState) error
	PublishRunCompleted(ctx context.Context, runID uuid.UUID) error
	PublishRunDeleted(ctx context.Context, runID uuid.UUID) error
}

// RunHandler exposes run lifecycle and branch operations over HTTP.
//
// Routes:
//
//	POST   /v1/runs                create a run
//	GET    /v1/runs/{id}           read run summary
//	DELETE /v1/runs/{id}           abandon a run
//	GET    /v1/runs/{id}/preview?side=left|right
//	POST   /v1/runs/{id}/select    resolve a side into a route
//	POST   /v1/runs/{id}/cleared   report a defeated encounter
//	GET    /v1/runs/{id}/barrier   read gate states
type RunHandler struct {
	cat         *catalog.Catalog
	storage     storage.Storage
	events      EventPublisher
	logger      *slog.Logger
	defaultSeed string
}

func NewRunHandler(cat *catalog.Catalog, storage storage.Storage, events EventPublisher, defaultSeed string, logger *slog.Logger) *RunHandler {
	return &RunHandler{
		cat:         cat,
		storage:     storage,
		events:      events,
		logger:      logger,
		defaultSeed: defaultSeed,
	}
}

type CreateRunRequest struct {
	Seed string `json:"seed,omitempty"`
}

type RunSummary struct {
	ID           uuid.UUID                `json:"id"`
	Seed         string                   `json:"seed"`
	Cleared      []string                 `json:"cleared"`
	ClearedCount int                      `json:"cleared_count"`
	Complete     bool                     `json:"complete"`
	Barrier      convergence.BarrierState `json:"barrier"`
}

type SelectRequest struct {
	Side        string `json:"side"`
	FastForward bool   `json:"fast_forward,omitempty"`
}

type SelectResponse struct {
	Choice run.BranchChoice `json:"choice"`
	Route  *routing.Route   `json:"route,omitempty"`
}

type ClearedRequest struct {
	Encounter string `json:"encounter"`
}

func (h *RunHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// Path shapes: /v1/runs, /v1/runs/{id}, /v1/runs/{id}/{op}
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/runs"), "/")

	if rest == "" {
		if r.Method != http.MethodPost {
			h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Supported: POST")
			return
		}
		h.handleCreate(w, r)
		return
	}

	parts := strings.SplitN(rest, "/", 2)
	runID, err := uuid.Parse(parts[0])
	if err != nil {
		h.logger.Warn("Invalid run ID", "id", parts[0], "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid run ID format")
		return
	}

	op := ""
	if len(parts) == 2 {
		op = parts[1]
	}

	switch {
	case op == "" && r.Method == http.MethodGet:
		h.handleRead(w, r, runID)
	case op == "" && r.Method == http.MethodDelete:
		h.handleDelete(w, r, runID)
	case op == "preview" && r.Method == http.MethodGet:
		h.handlePreview(w, r, runID)
	case op == "select" && r.Method == http.MethodPost:
		h.handleSelect(w, r, runID)
	case op == "cleared" && r.Method == http.MethodPost:
		h.handleCleared(w, r, runID)
	case op == "barrier" && r.Method == http.MethodGet:
		h.handleBarrier(w, r, runID)
	default:
		h.writeError(w, http.StatusMethodNotAllowed, "Unsupported operation for run endpoint")
	}
}

func (h *RunHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRunRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	seed := req.Seed
	if seed == "" {
		seed = h.defaultSeed
	}
	if seed == "" {
		// First segment of a fresh UUID is random enough for a run seed.
		seed = strings.SplitN(uuid.NewString(), "-", 2)[0]
	}

	d := director.New(h.cat, seed)
	if err := h.storage.SaveRun(r.Context(), d.State()); err != nil {
		h.logger.Error("Failed to save new run", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to create run")
		return
	}

	if h.events != nil {
		if err := h.events.PublishRunCreated(r.Context(), d.State().ID); err != nil {
			h.logger.Warn("Failed to publish run.created", "run_id", d.State().ID, "error", err)
		}
	}

	h.logger.Info("Run created", "run_id", d.State().ID, "seed", seed)
	w.WriteHeader(http.StatusCreated)
	h.writeSummary(w, d)
}

func (h *RunHandler) handleRead(w http.ResponseWriter, r *http.Request, runID uuid.UUID) {
	d, ok := h.loadDirector(w, r, runID)
	if !ok {
		return
	}
	h.writeSummary(w, d)
}

func (h *RunHandler) handleDelete(w http.ResponseWriter, r *http.Request, runID uuid.UUID) {
	if err := h.storage.DeleteRun(r.Context(), runID); err != nil {
		h.logger.Error("Failed to delete run", "run_id", runID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to delete run")
		return
	}

	if h.events != nil {
		if err := h.events.PublishRunDeleted(r.Context(), runID); err != nil {
			h.logger.Warn("Failed to publish run.deleted", "run_id", runID, "error", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RunHandler) handlePreview(w http.ResponseWriter, r *http.Request, runID uuid.UUID) {
	side, err := run.ParseSide(r.URL.Query().Get("side"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Query parameter 'side' must be 'left' or 'right'")
		return
	}

	d, ok := h.loadDirector(w, r, runID)
	if !ok {
		return
	}

	if err := json.NewEncoder(w).Encode(d.Preview(side)); err != nil {
		h.logger.Error("Failed to encode preview response", "error", err)
	}
}

func (h *RunHandler) handleSelect(w http.ResponseWriter, r *http.Request, runID uuid.UUID) {
	var req SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	side, err := run.ParseSide(req.Side)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Field 'side' must be 'left' or 'right'")
		return
	}

	d, ok := h.loadDirector(w, r, runID)
	if !ok {
		return
	}

	route, choice, err := d.Select(side, req.FastForward)
	if err != nil {
		h.logger.Error("Failed to resolve route", "run_id", runID, "side", side, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to resolve route")
		return
	}

	resp := SelectResponse{Choice: choice}
	if choice.Some() {
		resp.Route = &route
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Failed to encode select response", "error", err)
	}
}

func (h *RunHandler) handleCleared(w http.ResponseWriter, r *http.Request, runID uuid.UUID) {
	var req ClearedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	d, ok := h.loadDirector(w, r, runID)
	if !ok {
		return
	}

	if err := d.MarkCleared(req.Encounter); err != nil {
		if errors.Is(err, catalog.ErrUnknownEncounter) {
			h.writeError(w, http.StatusBadRequest, "Unknown encounter: "+req.Encounter)
			return
		}
		h.logger.Error("Failed to mark encounter cleared", "run_id", runID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to mark encounter cleared")
		return
	}

	if err := h.storage.SaveRun(r.Context(), d.State()); err != nil {
		h.logger.Error("Failed to save run after clear", "run_id", runID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to save run")
		return
	}

	if h.events != nil {
		if err := h.events.PublishEncounterCleared(r.Context(), runID, req.Encounter, d.Barrier()); err != nil {
			h.logger.Warn("Failed to publish encounter.cleared", "run_id", runID, "error", err)
		}
		if d.Complete() {
			if err := h.events.PublishRunCompleted(r.Context(), runID); err != nil {
				h.logger.Warn("Failed to publish run.completed", "run_id", runID, "error", err)
			}
		}
	}

	h.logger.Info("Encounter cleared", "run_id", runID, "encounter", req.Encounter,
		"cleared_count", d.State().ClearedCount(true), "complete", d.Complete())
	h.writeSummary(w, d)
}

func (h *RunHandler) handleBarrier(w http.ResponseWriter, r *http.Request, runID uuid.UUID) {
	d, ok := h.loadDirector(w, r, runID)
	if !ok {
		return
	}
	if err := json.NewEncoder(w).Encode(d.Barrier()); err != nil {
		h.logger.Error("Failed to encode barrier response", "error", err)
	}
}

// loadDirector fetches run state and wraps it for use. Writes the error
// response itself when loading fails.
func (h *RunHandler) loadDirector(w http.ResponseWriter, r *http.Request, runID uuid.UUID) (*director.Director, bool) {
	state, err := h.storage.LoadRun(r.Context(), runID)
	if err != nil {
		h.logger.Error("Failed to load run", "run_id", runID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to load run")
		return nil, false
	}
	if state == nil {
		h.writeError(w, http.StatusNotFound, "Run not found")
		return nil, false
	}
	return director.Resume(h.cat, state), true
}

func (h *RunHandler) writeSummary(w http.ResponseWriter, d *director.Director) {
	s := d.State()
	summary := RunSummary{
		ID:           s.ID,
		Seed:         s.Seed,
		Cleared:      s.Cleared,
		ClearedCount: s.ClearedCount(true),
		Complete:     d.Complete(),
		Barrier:      d.Barrier(),
	}
	if summary.Cleared == nil {
		summary.Cleared = []string{}
	}
	if err := json.NewEncoder(w).Encode(summary); err != nil {
		h.logger.Error("Failed to encode run summary", "error", err)
	}
}

func (h *RunHandler) writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		h.logger.Error("Failed to encode error response", "error", err)
	}
}
