package web

import (
	"encoding/json"
	"net/http"

	"github.com/kiwimenu123/TACAC/internal/account"
	"github.com/kiwimenu123/TACAC/internal/metrics"
)

// RegisterRequest is the request body for POST /auth/register.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	ServerName      string `json:"serverName"`
	LicenseKey      string `json:"licenseKey"`
}

// RegisterResponse includes the server token (shown only once).
type RegisterResponse struct {
	Username    string `json:"username"`
	ServerName  string `json:"serverName"`
	ServerToken string `json:"serverToken"` // Plain token, shown once
}

// HandleRegister creates an account and redeems its license key.
// POST /auth/register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON")
		return
	}
	if req.Username == "" {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Username required")
		return
	}

	profile, token, err := h.svc.Register(r.Context(), account.RegisterRequest{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		ServerName:      req.ServerName,
		LicenseKey:      req.LicenseKey,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	metrics.RecordRegistration()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	encErr := json.NewEncoder(w).Encode(RegisterResponse{
		Username:    profile.Username,
		ServerName:  profile.ServerName,
		ServerToken: token,
	})
	if encErr != nil {
		_ = encErr
	}
}

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin authenticates and opens a session.
// POST /auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON")
		return
	}

	session, err := h.svc.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		metrics.RecordAuthFailure("invalid_credentials")
		h.logger.Warn("failed login attempt", "username", req.Username, "remote_addr", r.RemoteAddr)
		writeServiceError(w, err)
		return
	}

	metrics.RecordLogin()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session.ID,
		Path:     "/",
		MaxAge:   int(h.svc.Sessions().Timeout().Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Content-Type", "application/json")
	encErr := json.NewEncoder(w).Encode(map[string]string{
		"username":  session.Username,
		"loginTime": session.LoginTime.UTC().Format("2006-01-02T15:04:05Z"),
	})
	if encErr != nil {
		_ = encErr
	}
}

// HandleLogout invalidates the session.
// POST /auth/logout
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		h.svc.Logout(r.Context(), cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	w.WriteHeader(http.StatusOK)
	_, err := w.Write([]byte("Logged out"))
	if err != nil {
		// Write errors are not critical for logout responses
		_ = err
	}
}
