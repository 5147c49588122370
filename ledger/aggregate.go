package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/cvsaves/cvsaves-api/models"
)

// FallbackColor marks expenses whose category name no longer matches any
// category record (orphaned by a category delete).
const FallbackColor = "#ccc"

// SpendingCategory is one accumulator row of a monthly breakdown.
type SpendingCategory struct {
	Name   string
	Amount decimal.Decimal
	Color  string
}

// AggregateByCategory sums the filtered expenses per category name
// (case-sensitive, exact match). Rows keep first-occurrence order from the
// expense list. The color is looked up in the current category snapshot on a
// row's first occurrence, FallbackColor when nothing matches.
func AggregateByCategory(filtered []models.Expense, categories []models.Category) []SpendingCategory {
	index := make(map[string]int, len(filtered))
	out := make([]SpendingCategory, 0, len(categories))
	for _, e := range filtered {
		if i, ok := index[e.Category]; ok {
			out[i].Amount = out[i].Amount.Add(e.Amount)
			continue
		}
		color := FallbackColor
		for _, c := range categories {
			if c.Name == e.Category {
				color = c.Color
				break
			}
		}
		index[e.Category] = len(out)
		out = append(out, SpendingCategory{Name: e.Category, Amount: e.Amount, Color: color})
	}
	return out
}

// Mode selects the denominator for percentage figures.
type Mode int

const (
	// ModeBudget computes shares against the month's budget figure.
	ModeBudget Mode = iota
	// ModeTracker has no budget concept; shares are taken of total spending.
	ModeTracker
)

// ParseMode maps the query-string form of the toggle; anything that is not
// "tracker" reads as budget mode.
func ParseMode(s string) Mode {
	if s == "tracker" {
		return ModeTracker
	}
	return ModeBudget
}

// Summary holds the derived totals for one month.
type Summary struct {
	Sum       decimal.Decimal
	Remaining decimal.Decimal // budget - sum, negative when overspent
	Percent   decimal.Decimal // sum over the mode's denominator
	denom     decimal.Decimal
}

// Totals reduces the filtered expense set. Remaining is never clamped: a
// negative value is a valid, displayed overspend signal. A zero denominator
// yields zero percentages, it never divides.
func Totals(filtered []models.Expense, budget decimal.Decimal, mode Mode) Summary {
	sum := decimal.Zero
	for _, e := range filtered {
		sum = sum.Add(e.Amount)
	}
	s := Summary{Sum: sum, Remaining: budget.Sub(sum)}
	if mode == ModeTracker {
		s.denom = sum
	} else {
		s.denom = budget
	}
	if !s.denom.IsZero() {
		s.Percent = sum.Div(s.denom)
	} else {
		s.Percent = decimal.Zero
	}
	return s
}

// Share returns amount relative to the summary's denominator, for
// per-category percentage display. Same zero-denominator rule as Percent.
func (s Summary) Share(amount decimal.Decimal) decimal.Decimal {
	if s.denom.IsZero() {
		return decimal.Zero
	}
	return amount.Div(s.denom)
}
