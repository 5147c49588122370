// migration/normalize_dates.go
// One-shot repair for expense dates written by older clients as full
// timestamps ("2024-03-05T14:22:31.000Z") instead of plain YYYY-MM-DD.
// Month filtering compares the date column as a string, so a single legacy
// row silently drops out of every monthly view until it is trimmed.
//
// USAGE:
// Set NORMALIZE_DATES=1 and restart; main.go calls NormalizeExpenseDates
// once after the schema migrations.

package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/cvsaves/cvsaves-api/ledger"
)

// NormalizeExpenseDates rewrites every expense date that is longer than
// YYYY-MM-DD down to its first ten characters. Rows whose prefix is not a
// valid calendar day are reported and left untouched.
func NormalizeExpenseDates(db *sql.DB) error {
	ctx := context.Background()

	log.Println("🚀 Starting expense date normalization...")

	rows, err := db.QueryContext(ctx, `SELECT id, date FROM expenses WHERE length(date) > 10`)
	if err != nil {
		return fmt.Errorf("failed to query legacy dates: %w", err)
	}
	defer rows.Close()

	type fix struct {
		id  string
		day string
	}
	var fixes []fix
	var skipped int

	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return fmt.Errorf("failed to scan expense row: %w", err)
		}
		day, err := ledger.NormalizeDay(raw)
		if err != nil {
			log.Printf("  ⚠️ Expense %s has unparseable date %q, skipping", id, raw)
			skipped++
			continue
		}
		fixes = append(fixes, fix{id: id, day: day})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read legacy dates: %w", err)
	}

	var updated int
	for _, f := range fixes {
		if _, err := db.ExecContext(ctx, `UPDATE expenses SET date = $1 WHERE id = $2`, f.day, f.id); err != nil {
			return fmt.Errorf("failed to update expense %s: %w", f.id, err)
		}
		updated++
	}

	log.Printf("📊 Date normalization done: %d updated, %d skipped", updated, skipped)
	return nil
}
