package canvas

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/wardrobehub/wardrobehub/internal/models"
)

type fakePersister struct {
	mu          sync.Mutex
	submissions []Submission
	err         error
	started     chan struct{}
	release     chan struct{}
}

func (f *fakePersister) SaveOutfit(ctx context.Context, sub Submission) (models.Outfit, error) {
	f.mu.Lock()
	f.submissions = append(f.submissions, sub)
	err := f.err
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return models.Outfit{}, ctx.Err()
		}
	}
	if err != nil {
		return models.Outfit{}, err
	}
	return models.Outfit{
		ID:            "outfit-" + sub.ID,
		SubmissionID:  sub.ID,
		Name:          sub.Name,
		CreatorHandle: sub.CreatorHandle,
		Items:         sub.Items,
	}, nil
}

func (f *fakePersister) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submissions)
}

type recordingNavigator struct {
	mu    sync.Mutex
	dests []Destination
}

func (n *recordingNavigator) Navigate(_ context.Context, dest Destination) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dests = append(n.dests, dest)
}

func (n *recordingNavigator) visited() []Destination {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Destination(nil), n.dests...)
}

type mapResolver map[string]models.CatalogItem

func (m mapResolver) Get(_ context.Context, id string) (models.CatalogItem, error) {
	item, ok := m[id]
	if !ok {
		return models.CatalogItem{}, errors.New("not found")
	}
	return item, nil
}

func TestSaveSuccess(t *testing.T) {
	persister := &fakePersister{}
	nav := &recordingNavigator{}
	c := New("canvas", persister, WithNavigator(nav), WithCreator("your_handle"), WithTitle("Monday"), WithIDGenerator(sequentialIDs()))

	a := c.AddItem(whiteTee)
	b := c.AddItem(denim)
	c.BringToFront(a.InstanceID)

	res, err := c.Save(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Next != DestinationProfile {
		t.Errorf("Expected next %s, got %s", DestinationProfile, res.Next)
	}
	if res.Outfit.CreatorHandle != "your_handle" || res.Outfit.Name != "Monday" {
		t.Errorf("Unexpected outfit metadata: %+v", res.Outfit)
	}

	items := persister.submissions[0].Items
	if len(items) != 2 {
		t.Fatalf("Expected 2 submitted pieces, got %d", len(items))
	}
	if items[0].InstanceID != b.InstanceID || items[1].InstanceID != a.InstanceID {
		t.Errorf("Expected bottom-to-top [%s %s], got [%s %s]", b.InstanceID, a.InstanceID, items[0].InstanceID, items[1].InstanceID)
	}
	if items[1].Item.Name != whiteTee.Name {
		t.Errorf("Expected resolved catalog data, got %+v", items[1].Item)
	}

	if c.Len() != 0 {
		t.Errorf("Expected canvas to be reset, got %d pieces", c.Len())
	}
	if p := c.AddItem(trench); p.ZOrder != BaseZOrder {
		t.Errorf("Expected counter restart after save, got %d", p.ZOrder)
	}
	if got := nav.visited(); len(got) != 1 || got[0] != DestinationProfile {
		t.Errorf("Expected navigation to profile, got %v", got)
	}
	if c.Saving() {
		t.Error("Expected saving flag cleared")
	}
}

func TestSaveEmptyCanvas(t *testing.T) {
	persister := &fakePersister{}
	c := New("canvas", persister)

	res, err := c.Save(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(res.Outfit.Items) != 0 {
		t.Errorf("Expected empty outfit, got %d pieces", len(res.Outfit.Items))
	}
	if persister.count() != 1 {
		t.Errorf("Expected one submission, got %d", persister.count())
	}
}

func TestConcurrentSaveIsRejected(t *testing.T) {
	persister := &fakePersister{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	c := New("canvas", persister)
	c.AddItem(whiteTee)

	done := make(chan error, 1)
	go func() {
		_, err := c.Save(context.Background())
		done <- err
	}()

	<-persister.started
	if !c.Saving() {
		t.Error("Expected saving flag while the first save is pending")
	}

	if _, err := c.Save(context.Background()); !errors.Is(err, ErrSaveInProgress) {
		t.Fatalf("Expected ErrSaveInProgress, got %v", err)
	}

	// editing stays allowed while saving
	c.AddItem(denim)

	close(persister.release)
	if err := <-done; err != nil {
		t.Fatalf("First save failed: %v", err)
	}
	if persister.count() != 1 {
		t.Errorf("Expected exactly one submission, got %d", persister.count())
	}
}

func TestTitleLockedWhileSaving(t *testing.T) {
	persister := &fakePersister{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	c := New("canvas", persister, WithTitle("Draft"))
	if !c.SetTitleIfIdle("Office") {
		t.Fatal("Expected title applied on an idle canvas")
	}

	done := make(chan error, 1)
	go func() {
		_, err := c.Save(context.Background())
		done <- err
	}()

	<-persister.started
	if c.SetTitleIfIdle("Changed Mid Save") {
		t.Error("Expected title rejected while saving")
	}
	close(persister.release)
	if err := <-done; err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	persister.mu.Lock()
	name := persister.submissions[0].Name
	persister.mu.Unlock()
	if name != "Office" {
		t.Errorf("Expected submitted name Office, got %q", name)
	}
	if got := c.Snapshot().Title; got != "Office" {
		t.Errorf("Expected title kept as Office, got %q", got)
	}
}

func TestSaveFailureKeepsCanvas(t *testing.T) {
	persister := &fakePersister{err: errors.New("disk full")}
	nav := &recordingNavigator{}
	c := New("canvas", persister, WithNavigator(nav))
	a := c.AddItem(whiteTee)
	b := c.AddItem(denim)
	before := c.Stack()

	_, err := c.Save(context.Background())
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("Expected ErrPersistence, got %v", err)
	}
	var perr *PersistenceError
	if !errors.As(err, &perr) || perr.SubmissionID == "" {
		t.Fatalf("Expected *PersistenceError with submission id, got %v", err)
	}

	after := c.Stack()
	if len(after) != len(before) {
		t.Fatalf("Expected %d pieces after failure, got %d", len(before), len(after))
	}
	for _, id := range []string{a.InstanceID, b.InstanceID} {
		if _, ok := c.Item(id); !ok {
			t.Errorf("Expected %s to survive a failed save", id)
		}
	}
	if len(nav.visited()) != 0 {
		t.Errorf("Expected no navigation on failure, got %v", nav.visited())
	}
	if c.Saving() {
		t.Error("Expected saving flag cleared after failure")
	}

	persister.mu.Lock()
	persister.err = nil
	persister.mu.Unlock()

	res, err := c.Save(context.Background())
	if err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if res.Outfit.SubmissionID != perr.SubmissionID {
		t.Errorf("Expected retry of unchanged canvas to reuse submission %s, got %s", perr.SubmissionID, res.Outfit.SubmissionID)
	}
}

func TestRetryAfterEditUsesNewSubmission(t *testing.T) {
	persister := &fakePersister{err: errors.New("timeout")}
	c := New("canvas", persister)
	p := c.AddItem(whiteTee)

	_, err := c.Save(context.Background())
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected *PersistenceError, got %v", err)
	}

	c.Rescale(p.InstanceID, 0.1)
	_, err = c.Save(context.Background())
	var second *PersistenceError
	if !errors.As(err, &second) {
		t.Fatalf("Expected *PersistenceError, got %v", err)
	}
	if second.SubmissionID == perr.SubmissionID {
		t.Error("Expected a fresh submission id after the canvas changed")
	}
}

func TestSaveWithoutPersister(t *testing.T) {
	c := New("canvas", nil)
	c.AddItem(whiteTee)

	if _, err := c.Save(context.Background()); !errors.Is(err, ErrPersistence) {
		t.Fatalf("Expected ErrPersistence, got %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("Expected canvas intact, got %d pieces", c.Len())
	}
}

func TestSaveCompletesAfterClose(t *testing.T) {
	persister := &fakePersister{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	nav := &recordingNavigator{}
	c := New("canvas", persister, WithNavigator(nav))
	c.AddItem(whiteTee)

	done := make(chan SaveResult, 1)
	go func() {
		res, err := c.Save(context.Background())
		if err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
		done <- res
	}()

	<-persister.started
	c.Exit(context.Background())
	close(persister.release)

	select {
	case res := <-done:
		if res.Next != "" {
			t.Errorf("Expected no navigation target for a torn-down view, got %s", res.Next)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Save did not complete")
	}

	if got := nav.visited(); len(got) != 1 || got[0] != DestinationBack {
		t.Errorf("Expected only the exit navigation, got %v", got)
	}
	if persister.count() != 1 {
		t.Errorf("Expected the in-flight submission to complete, got %d", persister.count())
	}
	if _, err := c.Save(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed on a closed canvas, got %v", err)
	}
}

func TestSaveRefreshesCatalogData(t *testing.T) {
	persister := &fakePersister{}
	renamed := whiteTee
	renamed.Name = "Cotton Boxy Tee"
	c := New("canvas", persister, WithResolver(mapResolver{whiteTee.ID: renamed}))

	c.AddItem(whiteTee)
	c.AddItem(denim) // not in resolver, keeps captured copy

	res, err := c.Save(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Outfit.Items[0].Item.Name != "Cotton Boxy Tee" {
		t.Errorf("Expected refreshed name, got %s", res.Outfit.Items[0].Item.Name)
	}
	if res.Outfit.Items[1].Item.Name != denim.Name {
		t.Errorf("Expected captured name, got %s", res.Outfit.Items[1].Item.Name)
	}
}

func TestSaveHonoursContext(t *testing.T) {
	persister := &fakePersister{release: make(chan struct{})}
	c := New("canvas", persister)
	c.AddItem(whiteTee)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Save(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected deadline exceeded, got %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("Expected canvas intact, got %d pieces", c.Len())
	}
}
