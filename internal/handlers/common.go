package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/wardrobehub/wardrobehub/internal/canvas"
	"github.com/wardrobehub/wardrobehub/internal/catalog"
	"github.com/wardrobehub/wardrobehub/internal/digitize"
	"github.com/wardrobehub/wardrobehub/internal/models"
	"github.com/wardrobehub/wardrobehub/internal/storage"
)

// OutfitStore is the persistence and profile collaborator.
type OutfitStore interface {
	canvas.Persister
	GetOutfit(ctx context.Context, id string) (models.Outfit, error)
	ListOutfits(ctx context.Context, creatorHandle string) ([]models.Outfit, error)
	ListAll(ctx context.Context) ([]models.Outfit, error)
}

// Digitizer drafts catalog items from photos.
type Digitizer interface {
	Digitize(ctx context.Context, req digitize.Request) (models.CatalogItem, error)
}

type Handler struct {
	sessionStore  *storage.SessionStore
	catalog       *catalog.Catalog
	outfits       OutfitStore
	digitizer     Digitizer
	creatorHandle string
	saveTimeout   time.Duration
	staticDir     string
	newID         func() string
}

// Options wires a Handler's collaborators
type Options struct {
	Catalog       *catalog.Catalog
	Outfits       OutfitStore
	Digitizer     Digitizer
	CreatorHandle string
	SaveTimeout   time.Duration
	StaticDir     string
	NewID         func() string
}

func New(opts Options) *Handler {
	h := &Handler{
		sessionStore:  storage.New(),
		catalog:       opts.Catalog,
		outfits:       opts.Outfits,
		digitizer:     opts.Digitizer,
		creatorHandle: opts.CreatorHandle,
		saveTimeout:   opts.SaveTimeout,
		staticDir:     opts.StaticDir,
		newID:         opts.NewID,
	}
	if h.catalog == nil {
		h.catalog = catalog.Default()
	}
	if h.newID == nil {
		h.newID = uuid.NewString
	}
	if h.saveTimeout <= 0 {
		h.saveTimeout = 10 * time.Second
	}
	return h
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		h.writeError(w, "Unable to encode JSON response: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("Unable to write JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message)
	} else {
		slog.Warn(message, "status", code)
	}
	http.Error(w, message, code)
}

// decodeOptional decodes a JSON body into v. An empty body leaves v as is.
func decodeOptional(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, sessionID string) (*canvas.Canvas, bool) {
	session, exists := h.sessionStore.Get(sessionID)
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}
