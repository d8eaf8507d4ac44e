package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kiwimenu123/TACAC/internal/confgen"
	"github.com/kiwimenu123/TACAC/internal/storage"
)

const timeFormat = time.RFC3339

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encErr := json.NewEncoder(w).Encode(v)
	if encErr != nil {
		// Response already started, nothing we can do
		_ = encErr
	}
}

// sessionUsername pulls the logged-in username set by SessionMiddleware.
func sessionUsername(r *http.Request) string {
	s, _ := GetSession(r.Context())
	if s == nil {
		return ""
	}
	return s.Username
}

// SettingsPayload mirrors the settings form.
type SettingsPayload struct {
	Godmode          bool   `json:"godmode"`
	Speedhack        bool   `json:"speedhack"`
	Noclip           bool   `json:"noclip"`
	Weapons          bool   `json:"weapons"`
	Vehicles         bool   `json:"vehicles"`
	Explosions       bool   `json:"explosions"`
	Injection        bool   `json:"injection"`
	Teleport         bool   `json:"teleport"`
	PunishmentAction string `json:"punishmentAction"`
	BanDuration      int    `json:"banDuration"`
	DiscordEnabled   bool   `json:"discordEnabled"`
	DiscordWebhook   string `json:"discordWebhook"`
}

// ProfileResponse is the dashboard profile view. The password is never
// echoed through the JSON API; it only appears inside the generated config.
type ProfileResponse struct {
	Username   string          `json:"username"`
	Email      string          `json:"email"`
	ServerName string          `json:"serverName"`
	LicenseKey string          `json:"licenseKey"`
	CreatedAt  string          `json:"createdAt"`
	Settings   SettingsPayload `json:"settings"`
}

// HandleGetProfile returns the account profile.
// GET /api/profile
func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.Profile(r.Context(), sessionUsername(r))
	if err != nil {
		h.logger.Error("failed to load profile", "error", err)
		writeServiceError(w, err)
		return
	}

	st := profile.Settings
	writeJSON(w, http.StatusOK, ProfileResponse{
		Username:   profile.Username,
		Email:      profile.Email,
		ServerName: profile.ServerName,
		LicenseKey: profile.LicenseKey,
		CreatedAt:  profile.CreatedAt.UTC().Format(timeFormat),
		Settings: SettingsPayload{
			Godmode:          st.Godmode,
			Speedhack:        st.Speedhack,
			Noclip:           st.Noclip,
			Weapons:          st.Weapons,
			Vehicles:         st.Vehicles,
			Explosions:       st.Explosions,
			Injection:        st.Injection,
			Teleport:         st.Teleport,
			PunishmentAction: st.PunishmentAction,
			BanDuration:      st.BanDuration,
			DiscordEnabled:   st.DiscordEnabled,
			DiscordWebhook:   st.DiscordWebhook,
		},
	})
}

// HandleUpdateSettings replaces the profile settings.
// PUT /api/settings
func (h *Handler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON")
		return
	}

	switch req.PunishmentAction {
	case "kick", "ban", "warn":
	default:
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "punishmentAction must be kick, ban or warn")
		return
	}
	if req.BanDuration < 0 {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "banDuration must be >= 0")
		return
	}

	err := h.svc.UpdateSettings(r.Context(), sessionUsername(r), storage.Settings{
		Godmode:          req.Godmode,
		Speedhack:        req.Speedhack,
		Noclip:           req.Noclip,
		Weapons:          req.Weapons,
		Vehicles:         req.Vehicles,
		Explosions:       req.Explosions,
		Injection:        req.Injection,
		Teleport:         req.Teleport,
		PunishmentAction: req.PunishmentAction,
		BanDuration:      req.BanDuration,
		DiscordEnabled:   req.DiscordEnabled,
		DiscordWebhook:   req.DiscordWebhook,
	})
	if err != nil {
		h.logger.Error("failed to update settings", "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// StatsResponse is the dashboard overview.
type StatsResponse struct {
	Players          int            `json:"players"`
	Bans             int            `json:"bans"`
	Kicks            int            `json:"kicks"`
	Admins           int            `json:"admins"`
	DetectionsToday  int            `json:"detectionsToday"`
	DetectionsByType map[string]int `json:"detectionsByType"`
}

// HandleGetStats returns the overview counters.
// GET /api/stats
func (h *Handler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context(), sessionUsername(r))
	if err != nil {
		h.logger.Error("failed to load stats", "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{
		Players:          stats.Players,
		Bans:             stats.Bans,
		Kicks:            stats.Kicks,
		Admins:           stats.Admins,
		DetectionsToday:  stats.DetectionsToday,
		DetectionsByType: stats.DetectionsByType,
	})
}

// HandleGetConfig renders the add-on configuration artifact.
// GET /api/config
func (h *Handler) HandleGetConfig(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.Profile(r.Context(), sessionUsername(r))
	if err != nil {
		h.logger.Error("failed to load profile for config", "error", err)
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, werr := w.Write([]byte(confgen.Generate(profile)))
	if werr != nil {
		_ = werr
	}
}

// BanPayload is the request body for POST /api/bans.
type BanPayload struct {
	PlayerName string `json:"playerName"`
	Identifier string `json:"identifier"`
	Reason     string `json:"reason"`
	Expiry     int    `json:"expiry"` // days, 0 = permanent
}

// BanResponse is one ban row.
type BanResponse struct {
	ID         string `json:"id"`
	PlayerName string `json:"playerName"`
	Identifier string `json:"identifier"`
	Reason     string `json:"reason"`
	Expiry     int    `json:"expiry"`
	BannedBy   string `json:"bannedBy"`
	Timestamp  string `json:"timestamp"`
}

// HandleListBans returns the ban list in insertion order.
// GET /api/bans
func (h *Handler) HandleListBans(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.Profile(r.Context(), sessionUsername(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := make([]BanResponse, len(profile.Bans))
	for i, b := range profile.Bans {
		resp[i] = BanResponse{
			ID:         b.ID,
			PlayerName: b.PlayerName,
			Identifier: b.Identifier,
			Reason:     b.Reason,
			Expiry:     b.Expiry,
			BannedBy:   b.BannedBy,
			Timestamp:  b.Timestamp.UTC().Format(timeFormat),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleAddBan records a ban.
// POST /api/bans
func (h *Handler) HandleAddBan(w http.ResponseWriter, r *http.Request) {
	var req BanPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON")
		return
	}
	if req.PlayerName == "" || req.Identifier == "" {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "playerName and identifier required")
		return
	}
	if req.Expiry < 0 {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "expiry must be >= 0")
		return
	}

	username := sessionUsername(r)
	ban := &storage.Ban{
		PlayerName: req.PlayerName,
		Identifier: req.Identifier,
		Reason:     req.Reason,
		Expiry:     req.Expiry,
		BannedBy:   username,
	}
	if err := h.svc.AddBan(r.Context(), username, ban); err != nil {
		h.logger.Error("failed to add ban", "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, BanResponse{
		ID:         ban.ID,
		PlayerName: ban.PlayerName,
		Identifier: ban.Identifier,
		Reason:     ban.Reason,
		Expiry:     ban.Expiry,
		BannedBy:   ban.BannedBy,
		Timestamp:  ban.Timestamp.UTC().Format(timeFormat),
	})
}

// HandleUnban lifts a ban by entry ID.
// DELETE /api/bans/{id}
func (h *Handler) HandleUnban(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Unban(r.Context(), sessionUsername(r), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "unbanned"})
}

// KickResponse is one kick row.
type KickResponse struct {
	ID         string `json:"id"`
	PlayerName string `json:"playerName"`
	Reason     string `json:"reason"`
	KickedBy   string `json:"kickedBy"`
	Timestamp  string `json:"timestamp"`
}

// HandleListKicks returns the kick history in insertion order.
// GET /api/kicks
func (h *Handler) HandleListKicks(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.Profile(r.Context(), sessionUsername(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := make([]KickResponse, len(profile.Kicks))
	for i, k := range profile.Kicks {
		resp[i] = KickResponse{
			ID:         k.ID,
			PlayerName: k.PlayerName,
			Reason:     k.Reason,
			KickedBy:   k.KickedBy,
			Timestamp:  k.Timestamp.UTC().Format(timeFormat),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleRemoveKick deletes a kick record by entry ID.
func (h *Handler) HandleRemoveKick(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.RemoveKick(r.Context(), sessionUsername(r), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// AdminPayload is the request body for POST /api/admins.
type AdminPayload struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
	Role       string `json:"role"`
}

// AdminResponse is one admin row.
type AdminResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
	Role       string `json:"role"`
	AddedAt    string `json:"addedAt"`
}

// HandleListAdmins returns the admin list in insertion order.
// GET /api/admins
func (h *Handler) HandleListAdmins(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.Profile(r.Context(), sessionUsername(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := make([]AdminResponse, len(profile.Admins))
	for i, a := range profile.Admins {
		resp[i] = AdminResponse{
			ID:         a.ID,
			Name:       a.Name,
			Identifier: a.Identifier,
			Role:       a.Role,
			AddedAt:    a.AddedAt.UTC().Format(timeFormat),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleAddAdmin appends an admin entry.
// POST /api/admins
func (h *Handler) HandleAddAdmin(w http.ResponseWriter, r *http.Request) {
	var req AdminPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON")
		return
	}
	if req.Name == "" || req.Identifier == "" {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "name and identifier required")
		return
	}
	switch req.Role {
	case "moderator", "admin", "superadmin":
	default:
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "role must be moderator, admin or superadmin")
		return
	}

	admin := &storage.Admin{
		Name:       req.Name,
		Identifier: req.Identifier,
		Role:       req.Role,
	}
	if err := h.svc.AddAdmin(r.Context(), sessionUsername(r), admin); err != nil {
		h.logger.Error("failed to add admin", "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, AdminResponse{
		ID:         admin.ID,
		Name:       admin.Name,
		Identifier: admin.Identifier,
		Role:       admin.Role,
		AddedAt:    admin.AddedAt.UTC().Format(timeFormat),
	})
}

// HandleRemoveAdmin deletes an admin entry by ID.
// DELETE /api/admins/{id}
func (h *Handler) HandleRemoveAdmin(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.RemoveAdmin(r.Context(), sessionUsername(r), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// WhitelistPayload is the request body for POST /api/whitelist.
type WhitelistPayload struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
	Bypass     string `json:"bypass"`
}

// WhitelistResponse is one whitelist row.
type WhitelistResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
	Bypass     string `json:"bypass"`
	AddedBy    string `json:"addedBy"`
	AddedAt    string `json:"addedAt"`
}

// HandleListWhitelist returns the whitelist in insertion order.
// GET /api/whitelist
func (h *Handler) HandleListWhitelist(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.Profile(r.Context(), sessionUsername(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := make([]WhitelistResponse, len(profile.Whitelist))
	for i, e := range profile.Whitelist {
		resp[i] = WhitelistResponse{
			ID:         e.ID,
			Name:       e.Name,
			Identifier: e.Identifier,
			Bypass:     e.Bypass,
			AddedBy:    e.AddedBy,
			AddedAt:    e.AddedAt.UTC().Format(timeFormat),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleAddWhitelist appends a whitelist entry.
// POST /api/whitelist
func (h *Handler) HandleAddWhitelist(w http.ResponseWriter, r *http.Request) {
	var req WhitelistPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON")
		return
	}
	if req.Name == "" || req.Identifier == "" {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "name and identifier required")
		return
	}

	username := sessionUsername(r)
	entry := &storage.WhitelistEntry{
		Name:       req.Name,
		Identifier: req.Identifier,
		Bypass:     req.Bypass,
		AddedBy:    username,
	}
	if err := h.svc.AddWhitelist(r.Context(), username, entry); err != nil {
		h.logger.Error("failed to add whitelist entry", "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, WhitelistResponse{
		ID:         entry.ID,
		Name:       entry.Name,
		Identifier: entry.Identifier,
		Bypass:     entry.Bypass,
		AddedBy:    entry.AddedBy,
		AddedAt:    entry.AddedAt.UTC().Format(timeFormat),
	})
}

// HandleRemoveWhitelist deletes a whitelist entry by ID.
// DELETE /api/whitelist/{id}
func (h *Handler) HandleRemoveWhitelist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.RemoveWhitelist(r.Context(), sessionUsername(r), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// PlayerResponse is one tracked player row.
type PlayerResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
	FirstSeen  string `json:"firstSeen"`
	LastSeen   string `json:"lastSeen"`
	Banned     bool   `json:"banned"`
}

// HandleListPlayers returns tracked players in insertion order.
// GET /api/players
func (h *Handler) HandleListPlayers(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.Profile(r.Context(), sessionUsername(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := make([]PlayerResponse, len(profile.Players))
	for i, p := range profile.Players {
		resp[i] = PlayerResponse{
			ID:         p.ID,
			Name:       p.Name,
			Identifier: p.Identifier,
			FirstSeen:  p.FirstSeen.UTC().Format(timeFormat),
			LastSeen:   p.LastSeen.UTC().Format(timeFormat),
			Banned:     p.Banned,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleRemovePlayer drops a tracked player by ID.
// DELETE /api/players/{id}
func (h *Handler) HandleRemovePlayer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.RemovePlayer(r.Context(), sessionUsername(r), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// DetectionResponse is one detection row.
type DetectionResponse struct {
	ID         string `json:"id"`
	PlayerName string `json:"playerName"`
	Type       string `json:"type"`
	Details    string `json:"details"`
	Action     string `json:"action"`
	Timestamp  string `json:"timestamp"`
}

// HandleListDetections returns detections in insertion order.
// GET /api/detections
func (h *Handler) HandleListDetections(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.Profile(r.Context(), sessionUsername(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := make([]DetectionResponse, len(profile.Detections))
	for i, d := range profile.Detections {
		resp[i] = DetectionResponse{
			ID:         d.ID,
			PlayerName: d.PlayerName,
			Type:       d.Type,
			Details:    d.Details,
			Action:     d.Action,
			Timestamp:  d.Timestamp.UTC().Format(timeFormat),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ActivityResponse is one audit trail row, newest first.
type ActivityResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// HandleListActivity returns the newest audit entries first.
// GET /api/activity?limit=N
func (h *Handler) HandleListActivity(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	entries, err := h.svc.Activity(r.Context(), sessionUsername(r), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := make([]ActivityResponse, len(entries))
	for i, e := range entries {
		resp[i] = ActivityResponse{
			ID:        e.ID,
			Type:      e.Type,
			Message:   e.Message,
			Timestamp: e.Timestamp.UTC().Format(timeFormat),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleClearActivity wipes the audit trail.
// DELETE /api/activity
func (h *Handler) HandleClearActivity(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearActivity(r.Context(), sessionUsername(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// RotateTokenResponse includes the new server token (shown only once).
type RotateTokenResponse struct {
	ServerToken string `json:"serverToken"` // Plain token, shown once
}

// HandleRotateToken issues a fresh ingest token, invalidating the old one.
// POST /api/token/rotate
func (h *Handler) HandleRotateToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.svc.RotateServerToken(r.Context(), sessionUsername(r))
	if err != nil {
		h.logger.Error("failed to rotate server token", "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RotateTokenResponse{ServerToken: token})
}

// SetLogLevelRequest is the request body for POST /api/loglevel.
type SetLogLevelRequest struct {
	Level string `json:"level"`
}

// HandleSetLogLevel changes the runtime log level.
// POST /api/loglevel
// Body: {"level": "debug|info|warn|error"}
func (h *Handler) HandleSetLogLevel(w http.ResponseWriter, r *http.Request) {
	var req SetLogLevelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON")
		return
	}

	var level slog.Level
	switch req.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid level (must be: debug, info, warn, error)")
		return
	}

	h.logLevel.Set(level)
	h.logger.Info("log level changed", "new_level", req.Level)

	writeJSON(w, http.StatusOK, map[string]string{"level": req.Level})
}
