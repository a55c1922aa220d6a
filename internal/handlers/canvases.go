package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wardrobehub/wardrobehub/internal/canvas"
	"github.com/wardrobehub/wardrobehub/internal/catalog"
	"github.com/wardrobehub/wardrobehub/internal/models"
)

type placedResponse struct {
	Item   models.PlacedItem `json:"item"`
	Canvas canvas.State      `json:"canvas"`
}

type exitResponse struct {
	SessionID string             `json:"session_id"`
	Next      canvas.Destination `json:"next"`
}

func (h *Handler) HandleCreateCanvas(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Title string `json:"title"`
	}
	if err := decodeOptional(r, &request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	sessionID := h.newID()
	session := canvas.New(sessionID, h.outfits,
		canvas.WithResolver(h.catalog),
		canvas.WithCreator(h.creatorHandle),
		canvas.WithTitle(request.Title),
		canvas.WithNavigator(viewNavigator(sessionID)),
	)
	h.sessionStore.Set(sessionID, session)

	slog.Info("Canvas session opened", "session_id", sessionID)
	h.writeJSONStatus(w, http.StatusCreated, session.Snapshot())
}

func (h *Handler) HandleListCanvases(w http.ResponseWriter, r *http.Request) {
	ids := h.sessionStore.IDs()
	sessionList := make([]canvas.State, 0, len(ids))
	for _, id := range ids {
		if session, ok := h.sessionStore.Get(id); ok {
			sessionList = append(sessionList, session.Snapshot())
		}
	}
	h.writeJSON(w, sessionList)
}

func (h *Handler) HandleGetCanvas(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, chi.URLParam(r, "sessionID"))
	if !ok {
		return
	}
	h.writeJSON(w, session.Snapshot())
}

// HandleExitCanvas discards the session. A save still in flight is allowed to
// finish on its own.
func (h *Handler) HandleExitCanvas(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	session, ok := h.sessionStore.Delete(sessionID)
	if !ok {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return
	}
	session.Exit(r.Context())
	slog.Info("Canvas session closed", "session_id", sessionID)
	h.writeJSON(w, exitResponse{SessionID: sessionID, Next: canvas.DestinationBack})
}

func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, chi.URLParam(r, "sessionID"))
	if !ok {
		return
	}

	var request struct {
		CatalogItemID string `json:"catalog_item_id"`
	}
	if err := decodeOptional(r, &request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if request.CatalogItemID == "" {
		h.writeError(w, "catalog_item_id is required", http.StatusBadRequest)
		return
	}

	item, err := h.catalog.Get(r.Context(), request.CatalogItemID)
	if err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			h.writeError(w, "Catalog item not found", http.StatusNotFound)
			return
		}
		h.writeError(w, "Failed to look up catalog item: "+err.Error(), http.StatusInternalServerError)
		return
	}

	placed := session.AddItem(item)
	h.writeJSONStatus(w, http.StatusCreated, placedResponse{Item: placed, Canvas: session.Snapshot()})
}

// HandleBringToFront is called by the client when a drag starts.
func (h *Handler) HandleBringToFront(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, chi.URLParam(r, "sessionID"))
	if !ok {
		return
	}
	session.BringToFront(chi.URLParam(r, "instanceID"))
	h.writeJSON(w, session.Snapshot())
}

func (h *Handler) HandleRescale(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, chi.URLParam(r, "sessionID"))
	if !ok {
		return
	}

	var request struct {
		Delta *float64 `json:"delta"`
	}
	if err := decodeOptional(r, &request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if request.Delta == nil {
		h.writeError(w, "delta is required", http.StatusBadRequest)
		return
	}

	session.Rescale(chi.URLParam(r, "instanceID"), *request.Delta)
	h.writeJSON(w, session.Snapshot())
}

func (h *Handler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, chi.URLParam(r, "sessionID"))
	if !ok {
		return
	}
	session.RemoveItem(chi.URLParam(r, "instanceID"))
	h.writeJSON(w, session.Snapshot())
}

func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, chi.URLParam(r, "sessionID"))
	if !ok {
		return
	}
	session.Reset()
	h.writeJSON(w, session.Snapshot())
}

// HandleSave blocks until the persister answers or the save timeout expires.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	session, ok := h.getSessionOrError(w, sessionID)
	if !ok {
		return
	}

	var request struct {
		Title *string `json:"title"`
	}
	if err := decodeOptional(r, &request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if request.Title != nil {
		session.SetTitleIfIdle(*request.Title)
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.saveTimeout)
	defer cancel()

	result, err := session.Save(ctx)
	switch {
	case err == nil:
		h.writeJSON(w, result)
	case errors.Is(err, canvas.ErrSaveInProgress):
		h.writeError(w, "A save is already in progress for this canvas", http.StatusConflict)
	case errors.Is(err, canvas.ErrClosed):
		h.writeError(w, "Session not found", http.StatusNotFound)
	case errors.Is(err, canvas.ErrPersistence):
		h.writeError(w, "Failed to save outfit, canvas kept for retry: "+err.Error(), http.StatusBadGateway)
	default:
		h.writeError(w, "Failed to save outfit: "+err.Error(), http.StatusInternalServerError)
	}
}

// viewNavigator records where the client view is being sent. The HTTP
// responses carry the same destination for the client to act on.
func viewNavigator(sessionID string) canvas.Navigator {
	return canvas.NavigatorFunc(func(_ context.Context, dest canvas.Destination) {
		slog.Info("Canvas view navigation", "session_id", sessionID, "destination", dest)
	})
}
