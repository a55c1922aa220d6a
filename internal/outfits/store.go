// Package outfits persists saved canvas arrangements in SQLite and serves
// them back for the profile grid.
package outfits

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wardrobehub/wardrobehub/internal/canvas"
	"github.com/wardrobehub/wardrobehub/internal/models"
	"github.com/wardrobehub/wardrobehub/internal/outfits/migrations"
	_ "modernc.org/sqlite"
)

// ErrOutfitNotFound is returned when no outfit matches.
var ErrOutfitNotFound = errors.New("outfit not found")

// DefaultName is used for outfits saved without a title.
const DefaultName = "Untitled Outfit"

// Store persists outfits in SQLite.
type Store struct {
	db    *sql.DB
	newID func() string
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens (creating if needed) the outfit database and applies embedded
// migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := "file:" + filepath.Clean(path) +
		"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db, newID: uuid.NewString, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveOutfit stores a canvas submission. Submitting the same ID again returns
// the outfit stored the first time without writing anything.
func (s *Store) SaveOutfit(ctx context.Context, sub canvas.Submission) (models.Outfit, error) {
	if err := ctx.Err(); err != nil {
		return models.Outfit{}, err
	}
	if strings.TrimSpace(sub.ID) == "" {
		return models.Outfit{}, fmt.Errorf("submission id is required")
	}

	name := strings.TrimSpace(sub.Name)
	if name == "" {
		name = DefaultName
	}
	outfit := models.Outfit{
		ID:            s.newID(),
		SubmissionID:  sub.ID,
		Name:          name,
		CreatorHandle: sub.CreatorHandle,
		Items:         sub.Items,
		CreatedAt:     s.now().UTC().Truncate(time.Millisecond),
	}
	if outfit.Items == nil {
		outfit.Items = []models.OutfitItem{}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Outfit{}, fmt.Errorf("begin save outfit: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO outfits (id, submission_id, canvas_id, name, creator_handle, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(submission_id) DO NOTHING`,
		outfit.ID, outfit.SubmissionID, sub.CanvasID, outfit.Name, outfit.CreatorHandle, toMillis(outfit.CreatedAt),
	)
	if err != nil {
		return models.Outfit{}, fmt.Errorf("insert outfit: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return models.Outfit{}, fmt.Errorf("insert outfit: %w", err)
	}
	if inserted == 0 {
		_ = tx.Rollback()
		return s.getBySubmission(ctx, sub.ID)
	}

	for i, item := range outfit.Items {
		isPublic := 0
		if item.Item.IsPublic {
			isPublic = 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO outfit_items (
			   outfit_id, position, instance_id, catalog_item_id, name, category,
			   image_url, brand, is_public, scale, z_order
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			outfit.ID, i, item.InstanceID, item.Item.ID, item.Item.Name, string(item.Item.Category),
			item.Item.ImageURL, item.Item.Brand, isPublic, item.Scale, item.ZOrder,
		); err != nil {
			return models.Outfit{}, fmt.Errorf("insert outfit item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Outfit{}, fmt.Errorf("commit outfit: %w", err)
	}
	return outfit, nil
}

// GetOutfit returns one outfit by id.
func (s *Store) GetOutfit(ctx context.Context, id string) (models.Outfit, error) {
	outfits, err := s.query(ctx, `WHERE o.id = ?`, id)
	if err != nil {
		return models.Outfit{}, err
	}
	if len(outfits) == 0 {
		return models.Outfit{}, fmt.Errorf("%w: %s", ErrOutfitNotFound, id)
	}
	return outfits[0], nil
}

// ListOutfits returns a creator's outfits, most recent first.
func (s *Store) ListOutfits(ctx context.Context, creatorHandle string) ([]models.Outfit, error) {
	return s.query(ctx, `WHERE o.creator_handle = ?`, creatorHandle)
}

// ListAll returns every outfit, most recent first.
func (s *Store) ListAll(ctx context.Context) ([]models.Outfit, error) {
	return s.query(ctx, ``)
}

func (s *Store) getBySubmission(ctx context.Context, submissionID string) (models.Outfit, error) {
	outfits, err := s.query(ctx, `WHERE o.submission_id = ?`, submissionID)
	if err != nil {
		return models.Outfit{}, err
	}
	if len(outfits) == 0 {
		return models.Outfit{}, fmt.Errorf("%w: submission %s", ErrOutfitNotFound, submissionID)
	}
	return outfits[0], nil
}

func (s *Store) query(ctx context.Context, where string, args ...any) ([]models.Outfit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT o.id, o.submission_id, o.name, o.creator_handle, o.created_at
		 FROM outfits o `+where+`
		 ORDER BY o.created_at DESC, o.id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query outfits: %w", err)
	}
	defer rows.Close()

	var outfits []models.Outfit
	for rows.Next() {
		var (
			o         models.Outfit
			createdAt int64
		)
		if err := rows.Scan(&o.ID, &o.SubmissionID, &o.Name, &o.CreatorHandle, &createdAt); err != nil {
			return nil, fmt.Errorf("scan outfit: %w", err)
		}
		o.CreatedAt = fromMillis(createdAt)
		outfits = append(outfits, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outfits: %w", err)
	}
	rows.Close()

	for i := range outfits {
		items, err := s.items(ctx, outfits[i].ID)
		if err != nil {
			return nil, err
		}
		outfits[i].Items = items
	}
	return outfits, nil
}

func (s *Store) items(ctx context.Context, outfitID string) ([]models.OutfitItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT instance_id, catalog_item_id, name, category, image_url, brand, is_public, scale, z_order
		 FROM outfit_items WHERE outfit_id = ? ORDER BY position`,
		outfitID,
	)
	if err != nil {
		return nil, fmt.Errorf("query outfit items: %w", err)
	}
	defer rows.Close()

	items := []models.OutfitItem{}
	for rows.Next() {
		var (
			item     models.OutfitItem
			category string
			isPublic int
		)
		if err := rows.Scan(
			&item.InstanceID, &item.Item.ID, &item.Item.Name, &category,
			&item.Item.ImageURL, &item.Item.Brand, &isPublic, &item.Scale, &item.ZOrder,
		); err != nil {
			return nil, fmt.Errorf("scan outfit item: %w", err)
		}
		item.Item.Category = models.Category(category)
		item.Item.IsPublic = isPublic != 0
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outfit items: %w", err)
	}
	return items, nil
}
