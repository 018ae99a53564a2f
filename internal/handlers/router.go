package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/luminabooks/bookadmin/internal/metrics"
)

// Routes returns the full HTTP surface
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/session/login", h.HandleLogin)
		r.Post("/session/logout", h.HandleLogout)
		r.Post("/session/reload", h.HandleReload)
		r.Get("/state", h.HandleState)
		r.Put("/view", h.HandleNavigate)
		r.Post("/theme/toggle", h.HandleToggleTheme)

		r.Get("/dashboard", h.HandleDashboard)
		r.Get("/orders", h.HandleOrders)

		r.Post("/books/new", h.HandleBeginAdd)
		r.Post("/books/{id}/edit", h.HandleBeginEdit)
		r.Delete("/books/{id}", h.HandleDeleteBook)

		r.Post("/form/save", h.HandleSave)
		r.Post("/form/cancel", h.HandleCancel)
		r.Post("/form/describe", h.HandleDescribe)

		r.Route("/catalog", func(r chi.Router) {
			r.Use(h.requireCatalogKey)
			r.Get("/books", h.HandleCatalogBooks)
			r.Post("/books", h.HandleCatalogCreate)
			r.Put("/books/{id}", h.HandleCatalogUpdate)
			r.Get("/orders", h.HandleCatalogOrders)
		})
	})

	if h.staticDir != "" {
		r.Get("/*", h.HandleStatic)
	}
	return r
}
