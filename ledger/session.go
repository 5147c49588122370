package ledger

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/cvsaves/cvsaves-api/models"
)

// Session owns the in-memory snapshot for one (user, month): the month's
// expenses newest first, the user's categories, and the month's income/budget
// figures. All access is serialized by the mutex; nothing is serialized
// across sessions, so the remote store stays last-write-wins.
type Session struct {
	UserID   string
	MonthKey string

	remote Remote

	loadMu sync.Mutex
	loaded bool

	mu         sync.Mutex
	expenses   []models.Expense
	categories []models.Category
	meta       models.MonthlyMeta
	selected   string // pinned category filter, "" when none
	lastUsed   time.Time
}

func newSession(remote Remote, userID, monthKey string) *Session {
	return &Session{
		UserID:   userID,
		MonthKey: monthKey,
		remote:   remote,
		lastUsed: time.Now(),
	}
}

// ensureLoaded runs the initial snapshot fetch exactly once per session. A
// failed fetch leaves the session unloaded so the next caller retries.
func (s *Session) ensureLoaded(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if s.loaded {
		return nil
	}
	if err := s.load(ctx); err != nil {
		return err
	}
	s.loaded = true
	return nil
}

// load fetches the three snapshot parts concurrently. An absent meta row is
// the expected "use zero defaults" case, not a failure.
func (s *Session) load(ctx context.Context) error {
	var (
		exps []models.Expense
		cats []models.Category
		meta models.MonthlyMeta
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		exps, err = s.remote.ListExpenses(gctx, s.UserID, s.MonthKey)
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = s.remote.ListCategories(gctx, s.UserID)
		return err
	})
	g.Go(func() error {
		m, err := s.remote.GetMonthlyMeta(gctx, s.UserID, s.MonthKey)
		if errors.Is(err, ErrMetaNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		meta = m
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	s.expenses = exps
	s.categories = cats
	s.meta = meta
	s.mu.Unlock()
	return nil
}

// ----------------------------------------------------------------------------
// Optimistic mutation commands
// ----------------------------------------------------------------------------

// command is one optimistic mutation: apply changes the snapshot and returns
// the closure that undoes it, commit mirrors the change to the remote store.
type command struct {
	op     string
	apply  func() func()
	commit func(context.Context) error
}

// run executes a command under the session lock. The rollback runs whenever
// the remote write fails, for every operation alike: add, update, delete and
// meta saves all follow the same symmetric policy.
func (s *Session) run(ctx context.Context, cmd command) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rollback := cmd.apply()
	if err := cmd.commit(ctx); err != nil {
		rollback()
		return &RemoteWriteError{Op: cmd.op, Err: err}
	}
	return nil
}

// AddExpense validates, applies an optimistic insert at the head of the list
// (the position the UI prepends to) and persists the row. The identifier is
// minted here so the insert can happen before the write resolves.
func (s *Session) AddExpense(ctx context.Context, req models.CreateExpenseRequest) (models.Expense, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return models.Expense{}, &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	name := strings.TrimSpace(req.Category)
	if name == "" {
		return models.Expense{}, &ValidationError{Field: "category", Reason: "must not be empty"}
	}
	day, err := NormalizeDay(req.Date)
	if err != nil {
		return models.Expense{}, err
	}

	exp := models.Expense{
		ID:          uuid.NewString(),
		UserID:      s.UserID,
		Amount:      req.Amount,
		Category:    name,
		Description: strings.TrimSpace(req.Description),
		Date:        day,
		CreatedAt:   time.Now().UTC(),
	}

	persisted := exp
	err = s.run(ctx, command{
		op: "add expense",
		apply: func() func() {
			s.expenses = append([]models.Expense{exp}, s.expenses...)
			return func() { s.removeLocked(exp.ID) }
		},
		commit: func(ctx context.Context) error {
			row, err := s.remote.CreateExpense(ctx, exp)
			if err != nil {
				return err
			}
			persisted = row
			s.replaceLocked(exp.ID, row)
			return nil
		},
	})
	if err != nil {
		return models.Expense{}, err
	}
	return persisted, nil
}

// UpdateExpense merges a partial update into the snapshot row, then persists
// it. A row absent from this month's snapshot is updated remote-only (it can
// belong to a month the session is not looking at).
func (s *Session) UpdateExpense(ctx context.Context, id string, fields models.UpdateExpenseRequest) (models.Expense, error) {
	if fields.Amount != nil && fields.Amount.LessThanOrEqual(decimal.Zero) {
		return models.Expense{}, &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if fields.Category != nil {
		name := strings.TrimSpace(*fields.Category)
		if name == "" {
			return models.Expense{}, &ValidationError{Field: "category", Reason: "must not be empty"}
		}
		fields.Category = &name
	}
	if fields.Date != nil {
		day, err := NormalizeDay(*fields.Date)
		if err != nil {
			return models.Expense{}, err
		}
		fields.Date = &day
	}

	var updated models.Expense
	err := s.run(ctx, command{
		op: "update expense",
		apply: func() func() {
			i := s.indexLocked(id)
			if i < 0 {
				return func() {}
			}
			backup := s.expenses[i]
			s.expenses[i] = mergeFields(backup, fields)
			return func() { s.expenses[i] = backup }
		},
		commit: func(ctx context.Context) error {
			row, err := s.remote.UpdateExpense(ctx, id, fields)
			if err != nil {
				return err
			}
			updated = row
			if monthOfDay(row.Date) != s.MonthKey {
				// The date moved the row into another month; it no longer
				// belongs in this snapshot.
				s.removeLocked(id)
				return nil
			}
			s.replaceLocked(id, row)
			return nil
		},
	})
	if err != nil {
		return models.Expense{}, err
	}
	return updated, nil
}

// DeleteExpense removes the row optimistically; a failed remote delete puts
// it back at its original position with its original content.
func (s *Session) DeleteExpense(ctx context.Context, id string) error {
	return s.run(ctx, command{
		op: "delete expense",
		apply: func() func() {
			backup, i, ok := s.removeLocked(id)
			if !ok {
				return func() {}
			}
			return func() { s.insertAtLocked(backup, i) }
		},
		commit: func(ctx context.Context) error {
			return s.remote.DeleteExpense(ctx, id)
		},
	})
}

// SaveMeta upserts the month's income/budget figures with the same
// optimistic apply and rollback as expense mutations.
func (s *Session) SaveMeta(ctx context.Context, meta models.MonthlyMeta) error {
	if meta.Income.IsNegative() {
		return &ValidationError{Field: "income", Reason: "must not be negative"}
	}
	if meta.Budget.IsNegative() {
		return &ValidationError{Field: "budget", Reason: "must not be negative"}
	}
	return s.run(ctx, command{
		op: "save monthly meta",
		apply: func() func() {
			prev := s.meta
			s.meta = meta
			return func() { s.meta = prev }
		},
		commit: func(ctx context.Context) error {
			return s.remote.UpsertMonthlyMeta(ctx, s.UserID, s.MonthKey, meta)
		},
	})
}

// ----------------------------------------------------------------------------
// Snapshot access
// ----------------------------------------------------------------------------

func (s *Session) Expenses() []models.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Expense, len(s.expenses))
	copy(out, s.expenses)
	return out
}

func (s *Session) Categories() []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

func (s *Session) Meta() models.MonthlyMeta {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta
}

// SelectCategory pins the category-detail filter; empty clears it.
func (s *Session) SelectCategory(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = name
}

func (s *Session) SelectedCategory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// ----------------------------------------------------------------------------
// Snapshot patches applied by the manager after remote category writes
// ----------------------------------------------------------------------------

// applyRename patches the snapshot once both remote rename steps succeeded:
// the category record, every expense tagged with the old name, and a pinned
// selection that would otherwise point at a name that no longer exists.
func (s *Session) applyRename(categoryID, oldName, newName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == categoryID {
			s.categories[i].Name = newName
		}
	}
	for i := range s.expenses {
		if s.expenses[i].Category == oldName {
			s.expenses[i].Category = newName
		}
	}
	if s.selected == oldName {
		s.selected = newName
	}
}

func (s *Session) applyCategoryAdd(cat models.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, cat)
}

func (s *Session) applyCategoryRecolor(categoryID, color string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == categoryID {
			s.categories[i].Color = color
		}
	}
}

// applyCategoryDelete drops the category record only. Expenses tagged with
// its name stay as they are and render with the fallback color from then on.
func (s *Session) applyCategoryDelete(categoryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.categories[:0]
	var removed string
	for _, c := range s.categories {
		if c.ID == categoryID {
			removed = c.Name
			continue
		}
		kept = append(kept, c)
	}
	s.categories = kept
	if removed != "" && s.selected == removed {
		s.selected = ""
	}
}

// ----------------------------------------------------------------------------
// Locked helpers (callers hold s.mu)
// ----------------------------------------------------------------------------

func (s *Session) indexLocked(id string) int {
	for i := range s.expenses {
		if s.expenses[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) removeLocked(id string) (models.Expense, int, bool) {
	i := s.indexLocked(id)
	if i < 0 {
		return models.Expense{}, -1, false
	}
	backup := s.expenses[i]
	s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
	return backup, i, true
}

func (s *Session) insertAtLocked(exp models.Expense, i int) {
	if i < 0 || i > len(s.expenses) {
		i = 0
	}
	s.expenses = append(s.expenses, models.Expense{})
	copy(s.expenses[i+1:], s.expenses[i:])
	s.expenses[i] = exp
}

func (s *Session) replaceLocked(id string, row models.Expense) {
	if i := s.indexLocked(id); i >= 0 {
		s.expenses[i] = row
	}
}

func mergeFields(exp models.Expense, fields models.UpdateExpenseRequest) models.Expense {
	if fields.Amount != nil {
		exp.Amount = *fields.Amount
	}
	if fields.Category != nil {
		exp.Category = *fields.Category
	}
	if fields.Description != nil {
		exp.Description = *fields.Description
	}
	if fields.Date != nil {
		exp.Date = *fields.Date
	}
	return exp
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastUsed = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}
