package workspace

import (
	"container/list"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultCapacity = 64

var ErrNotFound = errors.New("workspace not found")

type entry struct {
	workspace *Workspace
	lastUsed  time.Time
}

// Store is a thread-safe LRU of workspaces. Creating a workspace beyond
// capacity evicts the least recently used one.
type Store struct {
	mu       sync.Mutex
	capacity int
	opts     Options
	items    map[uuid.UUID]*list.Element
	order    *list.List // front is most recently used
	nowFn    func() time.Time
}

// NewStore creates a store holding at most capacity workspaces, each built with opts.
func NewStore(capacity int, opts Options) *Store {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Store{
		capacity: capacity,
		opts:     opts,
		items:    make(map[uuid.UUID]*list.Element),
		order:    list.New(),
		nowFn:    time.Now,
	}
}

// Create adds a new empty workspace.
func (s *Store) Create() *Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.order.Len() >= s.capacity {
		if oldest := s.order.Back(); oldest != nil {
			evicted := s.remove(oldest)
			slog.Info("Evicted least recently used workspace", "workspace_id", evicted.ID)
		}
	}

	w := New(uuid.New(), s.opts)
	s.items[w.ID] = s.order.PushFront(&entry{workspace: w, lastUsed: s.nowFn()})
	s.opts.Metrics.SetWorkspaces(s.order.Len())
	return w
}

// Get returns the workspace and marks it most recently used.
func (s *Store) Get(id uuid.UUID) (*Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.order.MoveToFront(elem)
	e := elem.Value.(*entry)
	e.lastUsed = s.nowFn()
	return e.workspace, nil
}

// Delete removes the workspace.
func (s *Store) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}
	s.remove(elem)
	s.opts.Metrics.SetWorkspaces(s.order.Len())
	return nil
}

// EvictIdle removes every workspace not used for longer than ttl and returns
// how many were removed.
func (s *Store) EvictIdle(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.nowFn().Add(-ttl)
	evicted := 0
	for elem := s.order.Back(); elem != nil; elem = s.order.Back() {
		if !elem.Value.(*entry).lastUsed.Before(cutoff) {
			break
		}
		s.remove(elem)
		evicted++
	}
	if evicted > 0 {
		s.opts.Metrics.SetWorkspaces(s.order.Len())
	}
	return evicted
}

// remove must be called with mu held.
func (s *Store) remove(elem *list.Element) *Workspace {
	w := elem.Value.(*entry).workspace
	delete(s.items, w.ID)
	s.order.Remove(elem)
	return w
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}
