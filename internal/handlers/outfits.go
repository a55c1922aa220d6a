package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/wardrobehub/wardrobehub/internal/export"
	"github.com/wardrobehub/wardrobehub/internal/models"
	"github.com/wardrobehub/wardrobehub/internal/outfits"
)

// HandleListOutfits serves the profile grid. Without a creator query the
// configured handle is used; creator=* lists everyone.
func (h *Handler) HandleListOutfits(w http.ResponseWriter, r *http.Request) {
	if h.outfits == nil {
		h.writeError(w, "Outfit storage is not configured", http.StatusServiceUnavailable)
		return
	}

	list, err := h.listOutfits(r)
	if err != nil {
		h.writeError(w, "Failed to list outfits: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, list)
}

func (h *Handler) HandleGetOutfit(w http.ResponseWriter, r *http.Request) {
	if h.outfits == nil {
		h.writeError(w, "Outfit storage is not configured", http.StatusServiceUnavailable)
		return
	}

	outfit, err := h.outfits.GetOutfit(r.Context(), chi.URLParam(r, "outfitID"))
	if err != nil {
		if errors.Is(err, outfits.ErrOutfitNotFound) {
			h.writeError(w, "Outfit not found", http.StatusNotFound)
			return
		}
		h.writeError(w, "Failed to load outfit: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, outfit)
}

func (h *Handler) HandleExportOutfits(w http.ResponseWriter, r *http.Request) {
	if h.outfits == nil {
		h.writeError(w, "Outfit storage is not configured", http.StatusServiceUnavailable)
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = export.FormatJSON
	}

	list, err := h.listOutfits(r)
	if err != nil {
		h.writeError(w, "Failed to list outfits: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, list); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", `attachment; filename="outfits.`+format+`"`)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("Unable to write export", "err", err)
	}
}

func (h *Handler) listOutfits(r *http.Request) ([]models.Outfit, error) {
	creator := r.URL.Query().Get("creator")
	var (
		list []models.Outfit
		err  error
	)
	switch creator {
	case "*":
		list, err = h.outfits.ListAll(r.Context())
	case "":
		list, err = h.outfits.ListOutfits(r.Context(), h.creatorHandle)
	default:
		list, err = h.outfits.ListOutfits(r.Context(), creator)
	}
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Outfit{}
	}
	return list, nil
}
