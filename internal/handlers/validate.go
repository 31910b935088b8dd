package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/duskforge/riftgate/pkg/scenegraph"
	"github.com/duskforge/riftgate/pkg/storage"
)

// ValidateHandler runs the scene-graph connectivity scan for editor
// tooling. POST accepts a document in the request body; GET validates the
// deployed configuration from storage.
type ValidateHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewValidateHandler(storage storage.Storage, logger *slog.Logger) *ValidateHandler {
	return &ValidateHandler{
		storage: storage,
		logger:  logger,
	}
}

type ValidateResponse struct {
	Findings []scenegraph.Finding `json:"findings"`
	Errors   int                  `json:"errors"`
	Warnings int                  `json:"warnings"`
}

func (h *ValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var doc scenegraph.Document
	switch r.Method {
	case http.MethodGet:
		var err error
		doc, err = h.storage.GetSceneGraph(r.Context())
		if err != nil {
			h.logger.Error("Failed to load scene graph", "error", err)
			h.writeError(w, http.StatusInternalServerError, "Failed to load scene graph")
			return
		}
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid scene graph document")
			return
		}
	default:
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Supported: GET, POST")
		return
	}

	findings := scenegraph.Validate(doc)
	counts := scenegraph.CountBySeverity(findings)

	resp := ValidateResponse{
		Findings: findings,
		Errors:   counts[scenegraph.SeverityError],
		Warnings: counts[scenegraph.SeverityWarning],
	}
	if resp.Findings == nil {
		resp.Findings = []scenegraph.Finding{}
	}

	h.logger.Debug("Scene graph validated", "findings", len(findings),
		"errors", resp.Errors, "warnings", resp.Warnings)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Failed to encode validate response", "error", err)
	}
}

func (h *ValidateHandler) writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		h.logger.Error("Failed to encode error response", "error", err)
	}
}
