package canvas

import (
	"context"
	"errors"
	"log/slog"

	"github.com/wardrobehub/wardrobehub/internal/models"
)

var errNoPersister = errors.New("no persister configured")

// Save hands the current arrangement, bottom-to-top, to the persister.
//
// Only one save runs at a time; a concurrent call returns ErrSaveInProgress
// without reaching the persister. On failure the board is untouched and the
// error is a *PersistenceError. Retrying an unchanged board reuses the failed
// submission ID so a persister that did store the first attempt does not
// store it twice. On success the board is reset and the navigator is sent to
// the profile view, unless the canvas was closed in the meantime.
func (c *Canvas) Save(ctx context.Context) (SaveResult, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return SaveResult{}, ErrClosed
	}
	if c.saving {
		c.mu.Unlock()
		slog.Warn("Dropping duplicate save request", "canvas_id", c.id)
		return SaveResult{}, ErrSaveInProgress
	}
	c.saving = true

	sub := Submission{
		ID:            c.submissionIDLocked(),
		CanvasID:      c.id,
		Name:          c.title,
		CreatorHandle: c.creator,
	}
	stack := c.stackLocked()
	placed := make([]placement, 0, len(stack))
	for _, p := range stack {
		placed = append(placed, *p)
	}
	revision := c.revision
	c.mu.Unlock()

	sub.Items = c.resolve(ctx, placed)

	slog.Info("Saving outfit", "canvas_id", c.id, "submission_id", sub.ID, "pieces", len(sub.Items))

	var (
		outfit models.Outfit
		err    error
	)
	if c.persister == nil {
		err = errNoPersister
	} else {
		outfit, err = c.persister.SaveOutfit(ctx, sub)
	}

	c.mu.Lock()
	c.saving = false
	if err != nil {
		c.lastFailed = &failedSubmission{id: sub.ID, revision: revision}
		c.mu.Unlock()
		slog.Error("Failed to save outfit", "canvas_id", c.id, "submission_id", sub.ID, "err", err)
		return SaveResult{}, &PersistenceError{SubmissionID: sub.ID, Err: err}
	}
	c.lastFailed = nil
	closed := c.closed
	if !closed {
		c.resetLocked()
	}
	c.mu.Unlock()

	if closed {
		slog.Info("Outfit saved after canvas closed", "canvas_id", c.id, "outfit_id", outfit.ID)
		return SaveResult{Outfit: outfit}, nil
	}

	slog.Info("Outfit saved", "canvas_id", c.id, "outfit_id", outfit.ID)
	c.navigate(ctx, DestinationProfile)
	return SaveResult{Outfit: outfit, Next: DestinationProfile}, nil
}

func (c *Canvas) submissionIDLocked() string {
	if c.lastFailed != nil && c.lastFailed.revision == c.revision {
		return c.lastFailed.id
	}
	return c.newID()
}

func (c *Canvas) resolve(ctx context.Context, placed []placement) []models.OutfitItem {
	items := make([]models.OutfitItem, 0, len(placed))
	for _, p := range placed {
		if c.resolver != nil {
			item, err := c.resolver.Get(ctx, p.CatalogItemID)
			if err == nil {
				p.item = item
			} else {
				slog.Debug("Using captured catalog data", "catalog_item_id", p.CatalogItemID, "err", err)
			}
		}
		items = append(items, p.view())
	}
	return items
}
