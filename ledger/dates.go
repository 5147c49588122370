package ledger

import (
	"fmt"
	"time"

	"github.com/cvsaves/cvsaves-api/models"
)

const dayLayout = "2006-01-02"

// monthIndex maps English long month names to their calendar month. A direct
// table replaces the old trick of parsing a constructed "<month> 1, 2000"
// date; the output is identical for all twelve names.
var monthIndex = map[string]time.Month{
	"January":   time.January,
	"February":  time.February,
	"March":     time.March,
	"April":     time.April,
	"May":       time.May,
	"June":      time.June,
	"July":      time.July,
	"August":    time.August,
	"September": time.September,
	"October":   time.October,
	"November":  time.November,
	"December":  time.December,
}

// MonthKey formats a (month name, year) selection as YYYY-MM.
func MonthKey(monthName string, year int) (string, error) {
	m, ok := monthIndex[monthName]
	if !ok {
		return "", &ValidationError{Field: "month", Reason: fmt.Sprintf("unknown month name %q", monthName)}
	}
	return fmt.Sprintf("%04d-%02d", year, int(m)), nil
}

// MonthBounds returns the first and last calendar day of a YYYY-MM key,
// both as stored-form date strings. The last day comes from the calendar
// (28/29/30/31, leap-aware), never from string prefix matching.
func MonthBounds(monthKey string) (first, last string, err error) {
	t, perr := time.Parse("2006-01", monthKey)
	if perr != nil {
		return "", "", &ValidationError{Field: "month", Reason: "want YYYY-MM"}
	}
	first = monthKey + "-01"
	last = t.AddDate(0, 1, -1).Format(dayLayout)
	return first, last, nil
}

// ParseDay converts a stored YYYY-MM-DD string into a time anchored at midday
// UTC. The midday anchor means no UTC offset between -12 and +14 applied by a
// reader's formatting layer can shift the wall-clock day; midnight anchoring
// caused exactly that defect in earlier revisions. Display and filtering must
// read the returned value's own calendar accessors, never a zone-converted
// instant.
func ParseDay(date string) (time.Time, error) {
	t, err := time.Parse(dayLayout, date)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Reason: "want YYYY-MM-DD"}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC), nil
}

// FormatDay renders a day value back to its stored YYYY-MM-DD form.
func FormatDay(t time.Time) string {
	return t.Format(dayLayout)
}

// monthOfDay returns the YYYY-MM prefix of a stored-form day, "" when the
// value is too short to carry one.
func monthOfDay(day string) string {
	if len(day) < 7 {
		return ""
	}
	return day[:7]
}

// NormalizeDay reduces whatever date representation a caller submits to the
// plain calendar day, keeping the wall-clock day of the input untouched.
// Timestamp suffixes are dropped, not converted through any timezone.
func NormalizeDay(raw string) (string, error) {
	if len(raw) >= len(dayLayout) {
		day := raw[:len(dayLayout)]
		if _, err := time.Parse(dayLayout, day); err == nil {
			return day, nil
		}
	}
	return "", &ValidationError{Field: "date", Reason: "want YYYY-MM-DD"}
}

// FilterToMonth keeps the expenses whose calendar day falls inside the
// selected month. The comparison runs on the parsed day value; rows with a
// malformed stored date are skipped.
func FilterToMonth(expenses []models.Expense, monthName string, year int) []models.Expense {
	month, ok := monthIndex[monthName]
	if !ok {
		return nil
	}
	out := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		d, err := ParseDay(e.Date)
		if err != nil {
			continue
		}
		if d.Month() == month && d.Year() == year {
			out = append(out, e)
		}
	}
	return out
}
