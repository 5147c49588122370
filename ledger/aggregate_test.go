package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/cvsaves/cvsaves-api/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func exp(category, amount string) models.Expense {
	return models.Expense{Amount: dec(amount), Category: category, Date: "2026-02-10"}
}

var testCategories = []models.Category{
	{ID: "c1", Name: "Food", Color: "#FF6384"},
	{ID: "c2", Name: "Transport", Color: "#36A2EB"},
}

func TestAggregateByCategorySumsAndOrder(t *testing.T) {
	filtered := []models.Expense{
		exp("Transport", "2.50"),
		exp("Food", "19.99"),
		exp("Transport", "2.50"),
		exp("Food", "0.01"),
	}
	rows := AggregateByCategory(filtered, testCategories)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	// First-occurrence order, not category-list order.
	if rows[0].Name != "Transport" || rows[1].Name != "Food" {
		t.Fatalf("wrong order: %s, %s", rows[0].Name, rows[1].Name)
	}
	if !rows[0].Amount.Equal(dec("5.00")) {
		t.Fatalf("Transport sum = %s, want 5.00", rows[0].Amount)
	}
	if !rows[1].Amount.Equal(dec("20.00")) {
		t.Fatalf("Food sum = %s, want 20.00", rows[1].Amount)
	}
	if rows[0].Color != "#36A2EB" || rows[1].Color != "#FF6384" {
		t.Fatalf("wrong colors: %s, %s", rows[0].Color, rows[1].Color)
	}
}

// Row sums must add up to the month total exactly. Decimal arithmetic keeps
// this an equality, not a tolerance check.
func TestAggregateSumInvariant(t *testing.T) {
	filtered := []models.Expense{
		exp("Food", "0.10"),
		exp("Food", "0.20"),
		exp("Transport", "0.30"),
		exp("Other", "1.15"),
	}
	rows := AggregateByCategory(filtered, testCategories)
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Amount)
	}
	if !total.Equal(Totals(filtered, decimal.Zero, ModeBudget).Sum) {
		t.Fatalf("row sums %s != month total", total)
	}
	if !total.Equal(dec("1.75")) {
		t.Fatalf("total = %s, want 1.75", total)
	}
}

func TestAggregateOrphanedCategoryColor(t *testing.T) {
	rows := AggregateByCategory([]models.Expense{exp("Vacation", "50")}, testCategories)
	if len(rows) != 1 || rows[0].Color != FallbackColor {
		t.Fatalf("orphaned category should keep %s, got %+v", FallbackColor, rows)
	}
}

func TestAggregateNameMatchIsCaseSensitive(t *testing.T) {
	rows := AggregateByCategory([]models.Expense{exp("food", "5")}, testCategories)
	if len(rows) != 1 || rows[0].Color != FallbackColor {
		t.Fatalf("lowercase name must not match Food: %+v", rows)
	}
}

func TestTotalsOverspendNotClamped(t *testing.T) {
	filtered := []models.Expense{exp("Food", "150")}
	s := Totals(filtered, dec("100"), ModeBudget)
	if !s.Remaining.Equal(dec("-50")) {
		t.Fatalf("remaining = %s, want -50", s.Remaining)
	}
	if !s.Percent.Equal(dec("1.5")) {
		t.Fatalf("percent = %s, want 1.5", s.Percent)
	}
}

func TestTotalsZeroBudgetNeverDivides(t *testing.T) {
	filtered := []models.Expense{exp("Food", "42")}
	s := Totals(filtered, decimal.Zero, ModeBudget)
	if !s.Percent.IsZero() {
		t.Fatalf("percent with zero budget = %s, want 0", s.Percent)
	}
	if !s.Share(dec("42")).IsZero() {
		t.Fatalf("share with zero budget should be 0")
	}
	if !s.Remaining.Equal(dec("-42")) {
		t.Fatalf("remaining = %s, want -42", s.Remaining)
	}
}

func TestTotalsTrackerMode(t *testing.T) {
	filtered := []models.Expense{exp("Food", "30"), exp("Transport", "70")}
	s := Totals(filtered, decimal.Zero, ModeTracker)
	if !s.Percent.Equal(dec("1")) {
		t.Fatalf("tracker percent = %s, want 1", s.Percent)
	}
	if !s.Share(dec("30")).Equal(dec("0.3")) {
		t.Fatalf("tracker share = %s, want 0.3", s.Share(dec("30")))
	}
}

func TestTotalsEmptyMonth(t *testing.T) {
	s := Totals(nil, decimal.Zero, ModeTracker)
	if !s.Sum.IsZero() || !s.Percent.IsZero() {
		t.Fatalf("empty tracker month should be all zeros: %+v", s)
	}
}

func TestParseMode(t *testing.T) {
	if ParseMode("tracker") != ModeTracker {
		t.Fatal("tracker string should map to ModeTracker")
	}
	if ParseMode("") != ModeBudget || ParseMode("budget") != ModeBudget {
		t.Fatal("anything else should map to ModeBudget")
	}
}
