// Package canvas implements the outfit composition canvas: the working set of
// placed items a user is layering together, their stacking order and scale,
// and the hand-off of a finished arrangement to a persister.
//
// Position is owned by the drag surface on the client and is not modelled
// here. Visual order is fully determined by ZOrder values, which are handed
// out from a per-canvas counter that only moves forward until Reset.
package canvas

import (
	"context"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wardrobehub/wardrobehub/internal/models"
)

const (
	DefaultScale = 1.0
	MinScale     = 0.5

	// BaseZOrder is the first stacking value handed out after New or Reset.
	BaseZOrder int64 = 1
)

// Destination is where the client view should go next
type Destination string

const (
	DestinationProfile Destination = "/profile"
	DestinationBack    Destination = "back"
)

// Resolver looks up current catalog data for a placed item at save time.
type Resolver interface {
	Get(ctx context.Context, id string) (models.CatalogItem, error)
}

// Persister durably stores a finished outfit. Implementations must accept a
// given Submission.ID at most once.
type Persister interface {
	SaveOutfit(ctx context.Context, sub Submission) (models.Outfit, error)
}

// Navigator is told where the view should transition after save or exit.
type Navigator interface {
	Navigate(ctx context.Context, dest Destination)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, dest Destination)

func (f NavigatorFunc) Navigate(ctx context.Context, dest Destination) {
	f(ctx, dest)
}

// Submission is what a canvas hands to its Persister.
type Submission struct {
	ID            string
	CanvasID      string
	Name          string
	CreatorHandle string
	Items         []models.OutfitItem
}

// SaveResult is returned by a successful Save.
type SaveResult struct {
	Outfit models.Outfit `json:"outfit"`
	Next   Destination   `json:"next,omitempty"`
}

// State is a point-in-time view of a canvas
type State struct {
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	Items      []models.OutfitItem `json:"items"`
	Stack      []string            `json:"stack"`
	NextZOrder int64               `json:"next_z_order"`
	Saving     bool                `json:"saving"`
	CreatedAt  time.Time           `json:"created_at"`
}

type placement struct {
	models.PlacedItem
	item models.CatalogItem
}

type failedSubmission struct {
	id       string
	revision uint64
}

// Canvas is safe for concurrent use. The lock is never held while the
// persister or navigator run.
type Canvas struct {
	mu         sync.Mutex
	id         string
	title      string
	creator    string
	items      []*placement
	nextZOrder int64
	revision   uint64
	saving     bool
	closed     bool
	lastFailed *failedSubmission
	createdAt  time.Time

	persister Persister
	resolver  Resolver
	navigator Navigator
	newID     func() string
}

// Option configures a Canvas
type Option func(*Canvas)

// WithResolver refreshes catalog data from r when saving.
func WithResolver(r Resolver) Option {
	return func(c *Canvas) { c.resolver = r }
}

// WithNavigator sets the navigation collaborator.
func WithNavigator(n Navigator) Option {
	return func(c *Canvas) { c.navigator = n }
}

// WithIDGenerator replaces the UUID generator used for instance and
// submission IDs.
func WithIDGenerator(fn func() string) Option {
	return func(c *Canvas) { c.newID = fn }
}

// WithCreator sets the handle the saved outfit is attributed to.
func WithCreator(handle string) Option {
	return func(c *Canvas) { c.creator = handle }
}

// WithTitle sets the initial outfit name.
func WithTitle(title string) Option {
	return func(c *Canvas) { c.title = title }
}

// New returns an empty canvas.
func New(id string, persister Persister, opts ...Option) *Canvas {
	c := &Canvas{
		id:         id,
		nextZOrder: BaseZOrder,
		persister:  persister,
		newID:      uuid.NewString,
		createdAt:  time.Now(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Canvas) ID() string {
	return c.id
}

// AddItem places a new instance of item on top of everything else.
func (c *Canvas) AddItem(item models.CatalogItem) models.PlacedItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := &placement{
		PlacedItem: models.PlacedItem{
			InstanceID:    c.newID(),
			CatalogItemID: item.ID,
			Scale:         DefaultScale,
			ZOrder:        c.takeZOrder(),
		},
		item: item,
	}
	c.items = append(c.items, p)
	c.revision++
	return p.PlacedItem
}

// BringToFront moves the instance above every other item. Unknown ids are
// ignored.
func (c *Canvas) BringToFront(instanceID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.find(instanceID)
	if p == nil {
		return
	}
	p.ZOrder = c.takeZOrder()
	c.revision++
}

// Rescale adds delta to the instance's scale, never going below MinScale.
// Unknown ids, non-finite deltas and deltas that would overflow the scale
// are ignored.
func (c *Canvas) Rescale(instanceID string, delta float64) {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.find(instanceID)
	if p == nil {
		return
	}
	next := p.Scale + delta
	if math.IsInf(next, 0) {
		return
	}
	p.Scale = math.Max(MinScale, next)
	c.revision++
}

// RemoveItem deletes the instance. Remaining z-orders are left as they are.
func (c *Canvas) RemoveItem(instanceID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := slices.IndexFunc(c.items, func(p *placement) bool {
		return p.InstanceID == instanceID
	})
	if idx < 0 {
		return
	}
	c.items = slices.Delete(c.items, idx, idx+1)
	c.revision++
}

// Reset clears the board and restarts the z-order counter at BaseZOrder.
func (c *Canvas) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

// SetTitleIfIdle renames the outfit unless a save is in flight. It reports
// whether the title was applied.
func (c *Canvas) SetTitleIfIdle(title string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.saving {
		return false
	}
	if c.title != title {
		c.title = title
		c.revision++
	}
	return true
}

// Item returns the placed instance with the given id.
func (c *Canvas) Item(instanceID string) (models.PlacedItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.find(instanceID)
	if p == nil {
		return models.PlacedItem{}, false
	}
	return p.PlacedItem, true
}

// Items returns placed items in insertion order.
func (c *Canvas) Items() []models.PlacedItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.PlacedItem, 0, len(c.items))
	for _, p := range c.items {
		out = append(out, p.PlacedItem)
	}
	return out
}

// Stack returns placed items bottom-to-top.
func (c *Canvas) Stack() []models.PlacedItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	stack := c.stackLocked()
	out := make([]models.PlacedItem, 0, len(stack))
	for _, p := range stack {
		out = append(out, p.PlacedItem)
	}
	return out
}

// Len reports how many pieces are on the board.
func (c *Canvas) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Saving reports whether a save is in flight.
func (c *Canvas) Saving() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saving
}

// Snapshot returns the full canvas state.
func (c *Canvas) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := State{
		ID:         c.id,
		Title:      c.title,
		Items:      make([]models.OutfitItem, 0, len(c.items)),
		Stack:      make([]string, 0, len(c.items)),
		NextZOrder: c.nextZOrder,
		Saving:     c.saving,
		CreatedAt:  c.createdAt,
	}
	for _, p := range c.items {
		state.Items = append(state.Items, p.view())
	}
	for _, p := range c.stackLocked() {
		state.Stack = append(state.Stack, p.InstanceID)
	}
	return state
}

// Close tears the canvas down. A save still in flight completes against the
// persister but no longer resets the board or navigates.
func (c *Canvas) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Exit closes the canvas and sends the view back where it came from.
func (c *Canvas) Exit(ctx context.Context) {
	c.Close()
	c.navigate(ctx, DestinationBack)
}

func (c *Canvas) takeZOrder() int64 {
	z := c.nextZOrder
	c.nextZOrder++
	return z
}

func (c *Canvas) resetLocked() {
	c.items = nil
	c.nextZOrder = BaseZOrder
	c.revision++
}

func (c *Canvas) find(instanceID string) *placement {
	for _, p := range c.items {
		if p.InstanceID == instanceID {
			return p
		}
	}
	return nil
}

func (c *Canvas) stackLocked() []*placement {
	stack := slices.Clone(c.items)
	slices.SortFunc(stack, func(a, b *placement) int {
		switch {
		case a.ZOrder < b.ZOrder:
			return -1
		case a.ZOrder > b.ZOrder:
			return 1
		default:
			return 0
		}
	})
	return stack
}

func (c *Canvas) navigate(ctx context.Context, dest Destination) {
	if c.navigator == nil {
		return
	}
	c.navigator.Navigate(ctx, dest)
}

func (p *placement) view() models.OutfitItem {
	return models.OutfitItem{
		InstanceID: p.InstanceID,
		Item:       p.item,
		Scale:      p.Scale,
		ZOrder:     p.ZOrder,
	}
}
