package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/cvsaves/cvsaves-api/models"
)

func loadedSession(t *testing.T, f *fakeRemote, userID, monthKey string) *Session {
	t.Helper()
	s := newSession(f, userID, monthKey)
	if err := s.ensureLoaded(context.Background()); err != nil {
		t.Fatalf("ensureLoaded: %v", err)
	}
	return s
}

func TestSessionLoadAbsorbsMissingMeta(t *testing.T) {
	f := newFakeRemote()
	s := loadedSession(t, f, "u1", "2026-02")
	if !s.Meta().Income.IsZero() || !s.Meta().Budget.IsZero() {
		t.Fatalf("missing meta row should read as zeros, got %+v", s.Meta())
	}
}

func TestSessionLoadRetriesAfterFailure(t *testing.T) {
	f := newFakeRemote()
	f.failWith("ListExpenses", errors.New("connection refused"))
	s := newSession(f, "u1", "2026-02")
	if err := s.ensureLoaded(context.Background()); err == nil {
		t.Fatal("expected load failure")
	}
	f.failWith("ListExpenses", nil)
	if err := s.ensureLoaded(context.Background()); err != nil {
		t.Fatalf("second load should succeed: %v", err)
	}
}

func TestAddExpensePrepends(t *testing.T) {
	f := newFakeRemote()
	s := loadedSession(t, f, "u1", "2026-02")

	first, err := s.AddExpense(context.Background(), models.CreateExpenseRequest{
		Amount: dec("19.99"), Category: "Food", Date: "2026-02-10",
	})
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	second, err := s.AddExpense(context.Background(), models.CreateExpenseRequest{
		Amount: dec("2.50"), Category: "Transport", Date: "2026-02-11T08:00:00Z",
	})
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	exps := s.Expenses()
	if len(exps) != 2 {
		t.Fatalf("got %d expenses, want 2", len(exps))
	}
	if exps[0].ID != second.ID || exps[1].ID != first.ID {
		t.Fatal("newest expense should sit at the head")
	}
	if second.Date != "2026-02-11" {
		t.Fatalf("timestamp date should be normalized, got %s", second.Date)
	}
	if f.callCount("CreateExpense") != 2 {
		t.Fatalf("remote writes = %d, want 2", f.callCount("CreateExpense"))
	}
}

func TestAddExpenseValidation(t *testing.T) {
	f := newFakeRemote()
	s := loadedSession(t, f, "u1", "2026-02")

	cases := []models.CreateExpenseRequest{
		{Amount: decimal.Zero, Category: "Food", Date: "2026-02-10"},
		{Amount: dec("-5"), Category: "Food", Date: "2026-02-10"},
		{Amount: dec("5"), Category: "   ", Date: "2026-02-10"},
		{Amount: dec("5"), Category: "Food", Date: "10/02/2026"},
	}
	for i, req := range cases {
		_, err := s.AddExpense(context.Background(), req)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("case %d: want ValidationError, got %v", i, err)
		}
	}
	if f.callCount("CreateExpense") != 0 {
		t.Fatal("validation failures must not reach the remote")
	}
	if len(s.Expenses()) != 0 {
		t.Fatal("validation failures must not touch the snapshot")
	}
}

func TestAddExpenseRollsBackOnRemoteFailure(t *testing.T) {
	f := newFakeRemote()
	s := loadedSession(t, f, "u1", "2026-02")
	f.failWith("CreateExpense", errors.New("disk full"))

	_, err := s.AddExpense(context.Background(), models.CreateExpenseRequest{
		Amount: dec("19.99"), Category: "Food", Date: "2026-02-10",
	})
	var werr *RemoteWriteError
	if !errors.As(err, &werr) {
		t.Fatalf("want RemoteWriteError, got %v", err)
	}
	if len(s.Expenses()) != 0 {
		t.Fatal("failed add must leave the snapshot unchanged")
	}
}

func TestUpdateExpenseRollsBackOnRemoteFailure(t *testing.T) {
	f := newFakeRemote()
	s := loadedSession(t, f, "u1", "2026-02")
	row, err := s.AddExpense(context.Background(), models.CreateExpenseRequest{
		Amount: dec("19.99"), Category: "Food", Date: "2026-02-10",
	})
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	f.failWith("UpdateExpense", errors.New("timeout"))
	newAmount := dec("25")
	_, err = s.UpdateExpense(context.Background(), row.ID, models.UpdateExpenseRequest{Amount: &newAmount})
	var werr *RemoteWriteError
	if !errors.As(err, &werr) {
		t.Fatalf("want RemoteWriteError, got %v", err)
	}
	got := s.Expenses()[0]
	if !got.Amount.Equal(dec("19.99")) {
		t.Fatalf("failed update must restore the old amount, got %s", got.Amount)
	}
}

func TestUpdateExpenseMergesFields(t *testing.T) {
	f := newFakeRemote()
	s := loadedSession(t, f, "u1", "2026-02")
	row, err := s.AddExpense(context.Background(), models.CreateExpenseRequest{
		Amount: dec("19.99"), Category: "Food", Description: "dinner", Date: "2026-02-10",
	})
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	cat := "Transport"
	updated, err := s.UpdateExpense(context.Background(), row.ID, models.UpdateExpenseRequest{Category: &cat})
	if err != nil {
		t.Fatalf("UpdateExpense: %v", err)
	}
	if updated.Category != "Transport" {
		t.Fatalf("category = %s, want Transport", updated.Category)
	}
	if !updated.Amount.Equal(dec("19.99")) || updated.Description != "dinner" {
		t.Fatalf("untouched fields must survive the merge: %+v", updated)
	}
}

func TestDeleteExpenseRollbackRestoresPosition(t *testing.T) {
	f := newFakeRemote()
	s := loadedSession(t, f, "u1", "2026-02")

	var ids []string
	for _, day := range []string{"2026-02-10", "2026-02-11", "2026-02-12"} {
		row, err := s.AddExpense(context.Background(), models.CreateExpenseRequest{
			Amount: dec("5"), Category: "Food", Date: day,
		})
		if err != nil {
			t.Fatalf("AddExpense: %v", err)
		}
		ids = append(ids, row.ID)
	}
	// Snapshot order is newest first: ids[2], ids[1], ids[0].
	middle := ids[1]

	f.failWith("DeleteExpense", errors.New("timeout"))
	err := s.DeleteExpense(context.Background(), middle)
	var werr *RemoteWriteError
	if !errors.As(err, &werr) {
		t.Fatalf("want RemoteWriteError, got %v", err)
	}

	exps := s.Expenses()
	if len(exps) != 3 {
		t.Fatalf("got %d expenses after rollback, want 3", len(exps))
	}
	if exps[1].ID != middle {
		t.Fatalf("rolled-back row must return to index 1, found %s there", exps[1].ID)
	}
}

func TestDeleteExpenseSuccess(t *testing.T) {
	f := newFakeRemote()
	s := loadedSession(t, f, "u1", "2026-02")
	row, err := s.AddExpense(context.Background(), models.CreateExpenseRequest{
		Amount: dec("5"), Category: "Food", Date: "2026-02-10",
	})
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if err := s.DeleteExpense(context.Background(), row.ID); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	if len(s.Expenses()) != 0 {
		t.Fatal("deleted expense still in snapshot")
	}
	if _, ok := f.expenses[row.ID]; ok {
		t.Fatal("deleted expense still in remote")
	}
}

func TestSaveMetaRollsBackOnRemoteFailure(t *testing.T) {
	f := newFakeRemote()
	f.metas["u1|2026-02"] = models.MonthlyMeta{Income: dec("3000"), Budget: dec("1000")}
	s := loadedSession(t, f, "u1", "2026-02")

	f.failWith("UpsertMonthlyMeta", errors.New("timeout"))
	err := s.SaveMeta(context.Background(), models.MonthlyMeta{Income: dec("3500"), Budget: dec("1200")})
	var werr *RemoteWriteError
	if !errors.As(err, &werr) {
		t.Fatalf("want RemoteWriteError, got %v", err)
	}
	if !s.Meta().Budget.Equal(dec("1000")) {
		t.Fatalf("failed save must restore the old meta, got %+v", s.Meta())
	}
}

func TestSaveMetaRejectsNegatives(t *testing.T) {
	f := newFakeRemote()
	s := loadedSession(t, f, "u1", "2026-02")
	err := s.SaveMeta(context.Background(), models.MonthlyMeta{Income: dec("-1"), Budget: decimal.Zero})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if f.callCount("UpsertMonthlyMeta") != 0 {
		t.Fatal("validation failure must not reach the remote")
	}
}

func TestCategoryDeleteClearsSelection(t *testing.T) {
	f := newFakeRemote()
	f.categories = []models.Category{{ID: "c1", UserID: "u1", Name: "Food", Color: "#FF6384"}}
	s := loadedSession(t, f, "u1", "2026-02")

	s.SelectCategory("Food")
	s.applyCategoryDelete("c1")
	if s.SelectedCategory() != "" {
		t.Fatalf("selection should clear when its category is deleted, got %q", s.SelectedCategory())
	}
}
