package ledger

import (
	"context"
	"strings"
)

// RenameCategory renames a category record and cascades the new name to
// every expense still tagged with the old one, then patches the user's live
// snapshots. The two remote writes are not atomic: when the cascade fails
// after the record rename succeeded, the stored data is inconsistent and the
// caller gets a *PartialCascadeError it must surface as such.
//
// Renaming to an empty or unchanged name is a no-op, not an error, and
// performs no remote write.
func (m *Manager) RenameCategory(ctx context.Context, userID, categoryID, newName string) error {
	clean := strings.TrimSpace(newName)
	if clean == "" {
		return nil
	}

	cats, err := m.remote.ListCategories(ctx, userID)
	if err != nil {
		return &RemoteWriteError{Op: "rename category", Err: err}
	}
	oldName := ""
	for _, c := range cats {
		if c.ID == categoryID {
			oldName = c.Name
			break
		}
	}
	if oldName == "" {
		return &ValidationError{Field: "id", Reason: "unknown category"}
	}
	if clean == oldName {
		return nil
	}

	if err := m.remote.RenameCategory(ctx, categoryID, clean); err != nil {
		return &RemoteWriteError{Op: "rename category", Err: err}
	}
	if err := m.remote.BulkRenameExpenseCategory(ctx, userID, oldName, clean); err != nil {
		return &PartialCascadeError{OldName: oldName, NewName: clean, Err: err}
	}

	// Local state is patched only after both remote steps succeeded.
	for _, s := range m.forUser(userID) {
		s.applyRename(categoryID, oldName, clean)
	}
	return nil
}
