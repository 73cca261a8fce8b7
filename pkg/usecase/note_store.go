package usecase

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/olive/pkg/domain/interfaces"
	"github.com/secmon-lab/olive/pkg/domain/model"
	"github.com/secmon-lab/olive/pkg/domain/types"
	"github.com/secmon-lab/olive/pkg/utils/errutil"
	"github.com/secmon-lab/olive/pkg/utils/logging"
)

// NotesKey is the KV key holding the JSON-encoded note collection
const NotesKey = "olive:notes"

// NoteObserver receives the collection after every change, in mutation
// order. It may read the store; the store lock is not held while it runs.
// Notifications are delivered by whichever mutation is already draining the
// queue, so a mutation can return before its own notification is delivered.
type NoteObserver func(notes []*model.Note)

// NoteStore owns the note collection, newest first, and is the only writer
// of its persisted form. Every mutation updates memory, writes the whole
// collection to the KV store and then notifies observers. Persistence
// failures are logged; memory stays authoritative until the next successful
// write.
type NoteStore struct {
	kv  interfaces.KVStore
	now func() time.Time

	mu    sync.RWMutex
	state types.StoreState
	notes []*model.Note

	// pending holds snapshots in mutation order until delivered
	queueMu  sync.Mutex
	pending  [][]*model.Note
	draining bool

	obsMu     sync.Mutex
	observers map[int]NoteObserver
	nextObs   int
}

// NoteStoreOption is a functional option for NoteStore
type NoteStoreOption func(*NoteStore)

// WithStoreClock replaces time.Now
func WithStoreClock(now func() time.Time) NoteStoreOption {
	return func(s *NoteStore) {
		s.now = now
	}
}

// NewNoteStore creates an uninitialized store. Call Load before use.
func NewNoteStore(kv interfaces.KVStore, opts ...NoteStoreOption) *NoteStore {
	s := &NoteStore{
		kv:        kv,
		now:       time.Now,
		state:     types.StoreStateUninitialized,
		observers: make(map[int]NoteObserver),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the readiness of the store
func (s *NoteStore) State() types.StoreState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Load hydrates the collection from the KV store. Only the first call has an
// effect. A read or parse failure starts from an empty collection.
func (s *NoteStore) Load(ctx context.Context) {
	s.mu.Lock()
	if s.state != types.StoreStateUninitialized {
		s.mu.Unlock()
		return
	}
	s.state = types.StoreStateLoading
	s.mu.Unlock()

	notes := s.read(ctx)

	s.mu.Lock()
	s.notes = notes
	s.state = types.StoreStateReady
	s.publishLocked()

	logging.From(ctx).Info("note store ready", "notes", len(notes))
}

func (s *NoteStore) read(ctx context.Context) []*model.Note {
	data, ok, err := s.kv.Get(ctx, NotesKey)
	if err != nil {
		errutil.Handle(ctx, err, "failed to read notes, starting empty")
		return nil
	}
	if !ok || len(data) == 0 {
		return nil
	}

	var stored []*model.Note
	if err := json.Unmarshal(data, &stored); err != nil {
		errutil.Handle(ctx, goerr.Wrap(err, "failed to parse stored notes", goerr.V("size", len(data))),
			"stored notes are corrupted, starting empty")
		return nil
	}

	notes := make([]*model.Note, 0, len(stored))
	seen := make(map[model.NoteID]struct{}, len(stored))
	for _, n := range stored {
		if n == nil {
			continue
		}
		n.Normalize()
		if err := n.Validate(); err != nil {
			errutil.Warn(ctx, err, "skipping invalid stored note")
			continue
		}
		if _, dup := seen[n.ID]; dup {
			logging.From(ctx).Warn("skipping duplicated stored note", "note_id", n.ID)
			continue
		}
		seen[n.ID] = struct{}{}
		notes = append(notes, n)
	}
	return notes
}

// Notes returns a copy of the collection. ok is false while the store is not
// ready, meaning the collection is not known yet.
func (s *NoteStore) Notes() (notes []*model.Note, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != types.StoreStateReady {
		return nil, false
	}
	return copyNotes(s.notes), true
}

// Add inserts note at the front of the collection. Only invalid notes and
// duplicated IDs are reported, plus ErrStoreNotReady while Load has not
// finished: a note added before hydration would be lost when the stored
// collection replaces memory. Persistence errors are logged.
func (s *NoteStore) Add(ctx context.Context, note *model.Note) error {
	if note == nil {
		return goerr.Wrap(model.ErrInvalidNote, "note is nil")
	}
	added := note.Copy()
	added.Normalize()
	if err := added.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.state != types.StoreStateReady {
		s.mu.Unlock()
		return goerr.Wrap(ErrStoreNotReady, "cannot add note", goerr.V(model.NoteIDKey, added.ID))
	}
	if s.indexLocked(added.ID) >= 0 {
		s.mu.Unlock()
		return goerr.Wrap(ErrDuplicateNote, "note already exists", goerr.V(model.NoteIDKey, added.ID))
	}

	s.notes = append([]*model.Note{added}, s.notes...)
	s.persistLocked(ctx)
	s.publishLocked()

	logging.From(ctx).Info("note added", "note_id", added.ID, "category", added.Category)
	return nil
}

// Update merges update into the note with id and returns the updated note,
// or nil when no such note exists.
func (s *NoteStore) Update(ctx context.Context, id model.NoteID, update model.NoteUpdate) *model.Note {
	return s.mutate(ctx, id, func(n *model.Note) {
		update.Apply(n)
	})
}

// ToggleCompletion flips the completed flag of the note with id and returns
// the updated note, or nil when no such note exists.
func (s *NoteStore) ToggleCompletion(ctx context.Context, id model.NoteID) *model.Note {
	return s.mutate(ctx, id, func(n *model.Note) {
		n.Completed = !n.Completed
	})
}

func (s *NoteStore) mutate(ctx context.Context, id model.NoteID, fn func(n *model.Note)) *model.Note {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if s.state != types.StoreStateReady || idx < 0 {
		s.mu.Unlock()
		logging.From(ctx).Debug("note not found", "note_id", id)
		return nil
	}

	updated := s.notes[idx].Copy()
	fn(updated)
	updated.ID = s.notes[idx].ID
	updated.OriginalText = s.notes[idx].OriginalText
	updated.CreatedAt = s.notes[idx].CreatedAt
	updated.AddedBy = s.notes[idx].AddedBy
	updated.UpdatedAt = s.nextUpdatedAt(s.notes[idx].UpdatedAt)
	s.notes[idx] = updated

	s.persistLocked(ctx)
	s.publishLocked()

	return updated.Copy()
}

// Delete removes the note with id. It reports whether a note was removed.
func (s *NoteStore) Delete(ctx context.Context, id model.NoteID) bool {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if s.state != types.StoreStateReady || idx < 0 {
		s.mu.Unlock()
		return false
	}

	notes := make([]*model.Note, 0, len(s.notes)-1)
	notes = append(notes, s.notes[:idx]...)
	notes = append(notes, s.notes[idx+1:]...)
	s.notes = notes

	s.persistLocked(ctx)
	s.publishLocked()

	logging.From(ctx).Info("note deleted", "note_id", id)
	return true
}

// GetByID returns a copy of the note with id, or nil
func (s *NoteStore) GetByID(id model.NoteID) *model.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexLocked(id); idx >= 0 {
		return s.notes[idx].Copy()
	}
	return nil
}

// GetByCategory returns notes whose category equals category ignoring case,
// newest first.
func (s *NoteStore) GetByCategory(category string) []*model.Note {
	return s.Search(category, model.NoteFilter{ShowCompleted: true})
}

// Search returns the notes of category that pass filter, newest first
func (s *NoteStore) Search(category string, filter model.NoteFilter) []*model.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	category = strings.TrimSpace(category)
	result := make([]*model.Note, 0)
	for _, n := range s.notes {
		if strings.EqualFold(n.Category, category) && filter.Match(n) {
			result = append(result, n.Copy())
		}
	}
	return result
}

// CategoryStats counts the notes of category by completion
func (s *NoteStore) CategoryStats(category string) model.CategoryStats {
	return model.NewCategoryStats(s.GetByCategory(category))
}

// Subscribe registers an observer and returns a function removing it
func (s *NoteStore) Subscribe(fn NoteObserver) (unsubscribe func()) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()

	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn

	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		delete(s.observers, id)
	}
}

func (s *NoteStore) indexLocked(id model.NoteID) int {
	for i, n := range s.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// nextUpdatedAt never goes backwards, even if the clock does
func (s *NoteStore) nextUpdatedAt(prev time.Time) time.Time {
	now := s.now().UTC()
	if now.Before(prev) {
		return prev
	}
	return now
}

// persistLocked writes the whole collection. Caller holds s.mu.
func (s *NoteStore) persistLocked(ctx context.Context) {
	data, err := json.Marshal(s.notes)
	if err != nil {
		errutil.Handle(ctx, goerr.Wrap(err, "failed to marshal notes"), "failed to persist notes")
		return
	}
	if err := s.kv.Set(ctx, NotesKey, data); err != nil {
		errutil.Handle(ctx, err, "failed to persist notes")
	}
}

// publishLocked queues a snapshot of the collection, releases s.mu and then
// delivers queued snapshots. Caller holds s.mu, so queue order is mutation
// order.
func (s *NoteStore) publishLocked() {
	snapshot := copyNotes(s.notes)
	s.queueMu.Lock()
	s.pending = append(s.pending, snapshot)
	s.queueMu.Unlock()
	s.mu.Unlock()

	s.drain()
}

// drain delivers pending snapshots until the queue is empty. Only one caller
// drains at a time; others return after queueing.
func (s *NoteStore) drain() {
	s.queueMu.Lock()
	if s.draining {
		s.queueMu.Unlock()
		return
	}
	s.draining = true
	defer func() {
		s.queueMu.Lock()
		s.draining = false
		s.queueMu.Unlock()
	}()

	for len(s.pending) > 0 {
		snapshot := s.pending[0]
		s.pending = s.pending[1:]
		s.queueMu.Unlock()

		for _, fn := range s.currentObservers() {
			fn(copyNotes(snapshot))
		}

		s.queueMu.Lock()
	}
	s.queueMu.Unlock()
}

func (s *NoteStore) currentObservers() []NoteObserver {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()

	ids := make([]int, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	observers := make([]NoteObserver, 0, len(ids))
	for _, id := range ids {
		observers = append(observers, s.observers[id])
	}
	return observers
}

func copyNotes(notes []*model.Note) []*model.Note {
	out := make([]*model.Note, len(notes))
	for i, n := range notes {
		out[i] = n.Copy()
	}
	return out
}
