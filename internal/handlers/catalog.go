package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wardrobehub/wardrobehub/internal/catalog"
	"github.com/wardrobehub/wardrobehub/internal/digitize"
)

func (h *Handler) HandleCatalogList(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.List(catalog.Filter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("q"),
	})
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.writeJSON(w, items)
}

func (h *Handler) HandleCatalogCategories(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, catalog.Categories())
}

func (h *Handler) HandleCatalogItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.catalog.Get(r.Context(), chi.URLParam(r, "itemID"))
	if err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			h.writeError(w, "Catalog item not found", http.StatusNotFound)
			return
		}
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, item)
}

// HandleDigitize drafts a catalog item from an image URL. The draft is not
// added to the catalog.
func (h *Handler) HandleDigitize(w http.ResponseWriter, r *http.Request) {
	if h.digitizer == nil {
		h.writeError(w, "Digitizing is not configured", http.StatusServiceUnavailable)
		return
	}

	var request digitize.Request
	if err := decodeOptional(r, &request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if request.ImageURL == "" {
		h.writeError(w, "image_url is required", http.StatusBadRequest)
		return
	}

	item, err := h.digitizer.Digitize(r.Context(), request)
	if err != nil {
		h.writeError(w, "Failed to digitize item: "+err.Error(), http.StatusBadGateway)
		return
	}
	h.writeJSON(w, item)
}
