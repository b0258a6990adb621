package http

import (
	"net/http"

	"dreambook/internal/auth"
	"dreambook/internal/config"
	"dreambook/internal/dream"
	"dreambook/internal/http/handler"
	mw "dreambook/internal/http/middleware"
	"dreambook/internal/http/respond"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter wires the public and admin routes. hint may be nil.
func NewRouter(cfg config.Config, svc *dream.Service, gate *auth.Gate, hint handler.RetryHinter, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.Logger(log))
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	requireAdmin := auth.RequireAdmin(gate, respond.Unauthorized)

	pub := &handler.DreamHandler{Svc: svc, Log: log, RetryAfter: hint}
	admin := &handler.AdminHandler{Svc: svc, Log: log, DefaultLimit: dream.DefaultLimit}
	adminAPI := &handler.AdminHandler{Svc: svc, Log: log, DefaultLimit: dream.DefaultAdminLimit}

	r.Route("/dreams", func(r chi.Router) {
		r.Post("/", pub.Submit)
		r.Get("/public", pub.Public)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			adminRoutes(r, admin)
		})
	})
	r.With(requireAdmin).Get("/stats", admin.Stats)

	// admin API with the dashboard's larger default page
	r.Route("/admin", func(r chi.Router) {
		r.Use(requireAdmin)

		r.Route("/dreams", func(r chi.Router) {
			adminRoutes(r, adminAPI)
		})
		r.Get("/stats", adminAPI.Stats)
	})

	return r
}

func adminRoutes(r chi.Router, h *handler.AdminHandler) {
	r.Get("/", h.List)
	r.Put("/", h.Interpret)
	r.Delete("/", h.Delete)

	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Interpret)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/archive", h.Archive)
	r.Post("/{id}/public", h.TogglePublic)
	r.Post("/{id}/tags", h.AddTags)
}
