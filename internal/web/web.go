// Package web provides the HTTP surface of the panel: dashboard API,
// authentication endpoints and the game-server ingest API.
package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/kiwimenu123/TACAC/internal/account"
	"github.com/kiwimenu123/TACAC/internal/logging"
	"github.com/kiwimenu123/TACAC/internal/metrics"
)

// sessionCookie is the dashboard session cookie name.
const sessionCookie = "tac_session"

// Pinger is the slice of storage the health endpoints need.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler provides all HTTP endpoints.
type Handler struct {
	svc      *account.Service
	store    Pinger
	logger   *slog.Logger
	logLevel *slog.LevelVar
}

// NewHandler creates the HTTP handler.
func NewHandler(svc *account.Service, store Pinger, logLevel *slog.LevelVar, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if logLevel == nil {
		logLevel = new(slog.LevelVar)
	}
	return &Handler{
		svc:      svc,
		store:    store,
		logger:   logger,
		logLevel: logLevel,
	}
}

type contextKey string

const sessionContextKey contextKey = "session"

// WithSession stores the session in the context.
func WithSession(ctx context.Context, s *account.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// GetSession retrieves the session from the context.
func GetSession(ctx context.Context) (*account.Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(*account.Session)
	return s, ok
}

// SessionMiddleware validates the session cookie and rejects requests
// without a live session.
func (h *Handler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			metrics.RecordAuthFailure("no_session")
			WriteError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Not logged in")
			return
		}

		session, ok := h.svc.Sessions().GetSession(r.Context(), cookie.Value)
		if !ok {
			metrics.RecordAuthFailure("expired_session")
			WriteError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid or expired session")
			return
		}

		ctx := WithSession(r.Context(), session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

const usernameContextKey contextKey = "ingest-username"

// TokenAuthMiddleware authenticates game-server requests via the AccessKey
// header carrying the profile's server token.
func (h *Handler) TokenAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("AccessKey")
		if token == "" {
			metrics.RecordAuthFailure("missing_token")
			WriteError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Missing server token")
			return
		}

		username, err := h.svc.VerifyServerToken(r.Context(), token)
		if err != nil {
			metrics.RecordAuthFailure("invalid_token")
			h.logger.Warn("invalid server token",
				"remote_addr", r.RemoteAddr,
				"token", logging.MaskSecret(token))
			writeServiceError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), usernameContextKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ingestUsername retrieves the token-authenticated username from the context.
func ingestUsername(ctx context.Context) string {
	u, _ := ctx.Value(usernameContextKey).(string)
	return u
}
