package web

import (
	"encoding/json"
	"net/http"

	"github.com/kiwimenu123/TACAC/internal/metrics"
	"github.com/kiwimenu123/TACAC/internal/storage"
)

// IngestDetectionRequest is the body a game server posts when its
// add-on flags a player.
type IngestDetectionRequest struct {
	PlayerName string `json:"playerName"`
	Type       string `json:"type"`
	Details    string `json:"details"`
	Action     string `json:"action"`
}

// HandleIngestDetection records a detection reported by a game server.
// POST /ingest/detections
func (h *Handler) HandleIngestDetection(w http.ResponseWriter, r *http.Request) {
	var req IngestDetectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON")
		return
	}
	if req.PlayerName == "" || req.Type == "" {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "playerName and type required")
		return
	}

	username := ingestUsername(r.Context())
	d := &storage.Detection{
		PlayerName: req.PlayerName,
		Type:       req.Type,
		Details:    req.Details,
		Action:     req.Action,
	}
	if err := h.svc.RecordDetection(r.Context(), username, d); err != nil {
		h.logger.Error("failed to record detection", "error", err, "account", username)
		writeServiceError(w, err)
		return
	}

	metrics.RecordIngestEvent("detection")
	writeJSON(w, http.StatusCreated, map[string]string{"id": d.ID})
}

// IngestKickRequest is the body a game server posts after an automated kick.
type IngestKickRequest struct {
	PlayerName string `json:"playerName"`
	Reason     string `json:"reason"`
	KickedBy   string `json:"kickedBy"`
}

// HandleIngestKick records a kick reported by a game server.
// POST /ingest/kicks
func (h *Handler) HandleIngestKick(w http.ResponseWriter, r *http.Request) {
	var req IngestKickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON")
		return
	}
	if req.PlayerName == "" {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "playerName required")
		return
	}

	username := ingestUsername(r.Context())
	k := &storage.Kick{
		PlayerName: req.PlayerName,
		Reason:     req.Reason,
		KickedBy:   req.KickedBy,
	}
	if err := h.svc.RecordKick(r.Context(), username, k); err != nil {
		h.logger.Error("failed to record kick", "error", err, "account", username)
		writeServiceError(w, err)
		return
	}

	metrics.RecordIngestEvent("kick")
	writeJSON(w, http.StatusCreated, map[string]string{"id": k.ID})
}

// IngestPlayerRequest is the body a game server posts when a player joins.
type IngestPlayerRequest struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
}

// HandleIngestPlayer upserts a tracked player sighting.
// POST /ingest/players
func (h *Handler) HandleIngestPlayer(w http.ResponseWriter, r *http.Request) {
	var req IngestPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON")
		return
	}
	if req.Name == "" || req.Identifier == "" {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "name and identifier required")
		return
	}

	username := ingestUsername(r.Context())
	p := &storage.Player{
		Name:       req.Name,
		Identifier: req.Identifier,
	}
	if err := h.svc.TrackPlayer(r.Context(), username, p); err != nil {
		h.logger.Error("failed to track player", "error", err, "account", username)
		writeServiceError(w, err)
		return
	}

	metrics.RecordIngestEvent("player")
	writeJSON(w, http.StatusOK, map[string]string{"id": p.ID})
}
