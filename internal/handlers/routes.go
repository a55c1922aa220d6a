package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes builds the HTTP surface for the canvas client.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", h.HandleCatalogList)
			r.Get("/categories", h.HandleCatalogCategories)
			r.Post("/digitize", h.HandleDigitize)
			r.Get("/{itemID}", h.HandleCatalogItem)
		})

		r.Route("/canvases", func(r chi.Router) {
			r.Post("/", h.HandleCreateCanvas)
			r.Get("/", h.HandleListCanvases)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", h.HandleGetCanvas)
				r.Delete("/", h.HandleExitCanvas)
				r.Post("/items", h.HandleAddItem)
				r.Post("/items/{instanceID}/front", h.HandleBringToFront)
				r.Post("/items/{instanceID}/scale", h.HandleRescale)
				r.Delete("/items/{instanceID}", h.HandleRemoveItem)
				r.Post("/reset", h.HandleReset)
				r.Post("/save", h.HandleSave)
			})
		})

		r.Route("/outfits", func(r chi.Router) {
			r.Get("/", h.HandleListOutfits)
			r.Get("/export", h.HandleExportOutfits)
			r.Get("/{outfitID}", h.HandleGetOutfit)
		})
	})

	r.NotFound(h.HandleStatic)
	return r
}
