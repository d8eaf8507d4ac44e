package web

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kiwimenu123/TACAC/internal/metrics"
	"github.com/kiwimenu123/TACAC/internal/middleware"
)

// NewRouter creates the panel router.
func (h *Handler) NewRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.BodyLimit)
	r.Use(metrics.Middleware)

	// Public endpoints (no auth)
	r.Get("/health", h.HandleHealth)
	r.Get("/ready", h.HandleReady)

	r.Post("/auth/register", h.HandleRegister)
	r.Post("/auth/login", h.HandleLogin)
	r.Post("/auth/logout", h.HandleLogout)

	// Dashboard API (session auth)
	r.Route("/api", func(r chi.Router) {
		r.Use(h.SessionMiddleware)

		r.Get("/profile", h.HandleGetProfile)
		r.Put("/settings", h.HandleUpdateSettings)
		r.Get("/stats", h.HandleGetStats)
		r.Get("/config", h.HandleGetConfig)

		r.Get("/bans", h.HandleListBans)
		r.Post("/bans", h.HandleAddBan)
		r.Delete("/bans/{id}", h.HandleUnban)

		r.Get("/kicks", h.HandleListKicks)
		r.Delete("/kicks/{id}", h.HandleRemoveKick)

		r.Get("/admins", h.HandleListAdmins)
		r.Post("/admins", h.HandleAddAdmin)
		r.Delete("/admins/{id}", h.HandleRemoveAdmin)

		r.Get("/whitelist", h.HandleListWhitelist)
		r.Post("/whitelist", h.HandleAddWhitelist)
		r.Delete("/whitelist/{id}", h.HandleRemoveWhitelist)

		r.Get("/players", h.HandleListPlayers)
		r.Delete("/players/{id}", h.HandleRemovePlayer)

		r.Get("/detections", h.HandleListDetections)

		r.Get("/activity", h.HandleListActivity)
		r.Delete("/activity", h.HandleClearActivity)

		r.Post("/token/rotate", h.HandleRotateToken)
		r.Post("/loglevel", h.HandleSetLogLevel)
	})

	// Ingest API for the game-server runtime (server token auth)
	r.Route("/ingest", func(r chi.Router) {
		r.Use(h.TokenAuthMiddleware)

		r.Post("/detections", h.HandleIngestDetection)
		r.Post("/kicks", h.HandleIngestKick)
		r.Post("/players", h.HandleIngestPlayer)
	})

	return r
}
