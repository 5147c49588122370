package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/cvsaves/cvsaves-api/models"
)

const defaultSessionTTL = 30 * time.Minute

// Manager hands out sessions keyed by (user, month key) and evicts snapshots
// that have sat idle past the TTL. Category writes go through the manager so
// every live session of the owning user gets the same snapshot patch.
type Manager struct {
	remote Remote
	ttl    time.Duration

	mu       sync.Mutex
	sessions map[string]*Session

	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

func NewManager(remote Remote) *Manager {
	m := &Manager{
		remote:      remote,
		ttl:         defaultSessionTTL,
		sessions:    make(map[string]*Session),
		stopCleanup: make(chan struct{}),
	}
	go m.startCleanup()
	return m
}

func sessionKey(userID, monthKey string) string {
	return userID + "|" + monthKey
}

// Get returns the live session for (user, month), creating and loading it on
// first use. A failed load is not cached.
func (m *Manager) Get(ctx context.Context, userID, monthKey string) (*Session, error) {
	key := sessionKey(userID, monthKey)

	m.mu.Lock()
	s, ok := m.sessions[key]
	if !ok {
		s = newSession(m.remote, userID, monthKey)
		m.sessions[key] = s
	}
	m.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		m.mu.Lock()
		if m.sessions[key] == s {
			delete(m.sessions, key)
		}
		m.mu.Unlock()
		return nil, err
	}
	s.touch()
	return s, nil
}

// Invalidate drops one (user, month) snapshot; the next Get reloads it.
func (m *Manager) Invalidate(userID, monthKey string) {
	m.mu.Lock()
	delete(m.sessions, sessionKey(userID, monthKey))
	m.mu.Unlock()
}

// InvalidateUser drops every snapshot the user owns.
func (m *Manager) InvalidateUser(userID string) {
	m.mu.Lock()
	for key, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, key)
		}
	}
	m.mu.Unlock()
}

func (m *Manager) forUser(userID string) []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Session
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out
}

// UpdateExpense runs a partial update through the month's session. When the
// new date moves the row into a different month, the source snapshot has
// already dropped it; the destination month's snapshot is invalidated here so
// its next read reloads instead of serving a stale view until eviction.
func (m *Manager) UpdateExpense(ctx context.Context, s *Session, id string, fields models.UpdateExpenseRequest) (models.Expense, error) {
	updated, err := s.UpdateExpense(ctx, id, fields)
	if err != nil {
		return models.Expense{}, err
	}
	if key := monthOfDay(updated.Date); key != "" && key != s.MonthKey {
		m.Invalidate(s.UserID, key)
	}
	return updated, nil
}

// ----------------------------------------------------------------------------
// Category operations (remote write, then patch every live session)
// ----------------------------------------------------------------------------

// AddCategory persists a new category and appends it to the user's live
// snapshots. Category creation is not optimistic: the snapshot is patched
// only after the write succeeded.
func (m *Manager) AddCategory(ctx context.Context, userID, name, color string) (models.Category, error) {
	cat, err := m.remote.CreateCategory(ctx, userID, name, color)
	if err != nil {
		return models.Category{}, &RemoteWriteError{Op: "add category", Err: err}
	}
	for _, s := range m.forUser(userID) {
		s.applyCategoryAdd(cat)
	}
	return cat, nil
}

// RecolorCategory updates the display color only; the name, and therefore
// the expense records, are untouched.
func (m *Manager) RecolorCategory(ctx context.Context, userID, categoryID, color string) error {
	if err := m.remote.RecolorCategory(ctx, categoryID, color); err != nil {
		return &RemoteWriteError{Op: "recolor category", Err: err}
	}
	for _, s := range m.forUser(userID) {
		s.applyCategoryRecolor(categoryID, color)
	}
	return nil
}

// DeleteCategory removes the category record. Expenses that referenced its
// name are left orphaned on purpose; the caller is responsible for refusing
// to delete the user's last category.
func (m *Manager) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	if err := m.remote.DeleteCategory(ctx, categoryID); err != nil {
		return &RemoteWriteError{Op: "delete category", Err: err}
	}
	for _, s := range m.forUser(userID) {
		s.applyCategoryDelete(categoryID)
	}
	return nil
}

// ----------------------------------------------------------------------------
// Idle eviction
// ----------------------------------------------------------------------------

func (m *Manager) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.evictStale()
		case <-m.stopCleanup:
			return
		}
	}
}

func (m *Manager) evictStale() {
	cutoff := time.Now().Add(-m.ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			delete(m.sessions, key)
		}
	}
}

// Stop ends the eviction goroutine.
func (m *Manager) Stop() {
	m.shutdownOnce.Do(func() {
		close(m.stopCleanup)
	})
}
