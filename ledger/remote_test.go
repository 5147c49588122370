package ledger

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/cvsaves/cvsaves-api/models"
)

// fakeRemote is an in-memory Remote with per-operation failure injection and
// call counting, standing in for the SQL store.
type fakeRemote struct {
	mu         sync.Mutex
	expenses   map[string]models.Expense
	categories []models.Category
	metas      map[string]models.MonthlyMeta

	fail  map[string]error // op name -> injected error
	calls map[string]int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		expenses: make(map[string]models.Expense),
		metas:    make(map[string]models.MonthlyMeta),
		fail:     make(map[string]error),
		calls:    make(map[string]int),
	}
}

func (f *fakeRemote) step(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.fail[op]
}

func (f *fakeRemote) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeRemote) failWith(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[op] = err
}

func (f *fakeRemote) ListExpenses(ctx context.Context, userID, monthKey string) ([]models.Expense, error) {
	if err := f.step("ListExpenses"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Expense
	for _, e := range f.expenses {
		if e.UserID == userID && len(e.Date) >= 7 && e.Date[:7] == monthKey {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRemote) CreateExpense(ctx context.Context, exp models.Expense) (models.Expense, error) {
	if err := f.step("CreateExpense"); err != nil {
		return models.Expense{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if exp.ID == "" {
		exp.ID = uuid.NewString()
	}
	f.expenses[exp.ID] = exp
	return exp, nil
}

func (f *fakeRemote) UpdateExpense(ctx context.Context, id string, fields models.UpdateExpenseRequest) (models.Expense, error) {
	if err := f.step("UpdateExpense"); err != nil {
		return models.Expense{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	row := mergeFields(f.expenses[id], fields)
	row.ID = id
	f.expenses[id] = row
	return row, nil
}

func (f *fakeRemote) DeleteExpense(ctx context.Context, id string) error {
	if err := f.step("DeleteExpense"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.expenses, id)
	return nil
}

func (f *fakeRemote) GetMonthlyMeta(ctx context.Context, userID, monthKey string) (models.MonthlyMeta, error) {
	if err := f.step("GetMonthlyMeta"); err != nil {
		return models.MonthlyMeta{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.metas[userID+"|"+monthKey]
	if !ok {
		return models.MonthlyMeta{}, ErrMetaNotFound
	}
	return m, nil
}

func (f *fakeRemote) UpsertMonthlyMeta(ctx context.Context, userID, monthKey string, meta models.MonthlyMeta) error {
	if err := f.step("UpsertMonthlyMeta"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metas[userID+"|"+monthKey] = meta
	return nil
}

func (f *fakeRemote) ListCategories(ctx context.Context, userID string) ([]models.Category, error) {
	if err := f.step("ListCategories"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Category
	for _, c := range f.categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRemote) CreateCategory(ctx context.Context, userID, name, color string) (models.Category, error) {
	if err := f.step("CreateCategory"); err != nil {
		return models.Category{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cat := models.Category{ID: uuid.NewString(), UserID: userID, Name: name, Color: color}
	f.categories = append(f.categories, cat)
	return cat, nil
}

func (f *fakeRemote) RenameCategory(ctx context.Context, id, name string) error {
	if err := f.step("RenameCategory"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.categories {
		if f.categories[i].ID == id {
			f.categories[i].Name = name
		}
	}
	return nil
}

func (f *fakeRemote) RecolorCategory(ctx context.Context, id, color string) error {
	if err := f.step("RecolorCategory"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.categories {
		if f.categories[i].ID == id {
			f.categories[i].Color = color
		}
	}
	return nil
}

func (f *fakeRemote) DeleteCategory(ctx context.Context, id string) error {
	if err := f.step("DeleteCategory"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.categories[:0]
	for _, c := range f.categories {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	f.categories = kept
	return nil
}

func (f *fakeRemote) BulkRenameExpenseCategory(ctx context.Context, userID, oldName, newName string) error {
	if err := f.step("BulkRenameExpenseCategory"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, e := range f.expenses {
		if e.UserID == userID && e.Category == oldName {
			e.Category = newName
			f.expenses[id] = e
		}
	}
	return nil
}

var _ Remote = (*fakeRemote)(nil)
