package ledger

import "context"

// Repository records the last Taiwan calendar date (YYYY-MM-DD) each user
// received an unsolicited tide notification.
type Repository interface {
	// LastNotified returns the stored date and whether the user has an entry.
	LastNotified(ctx context.Context, userID string) (string, bool, error)
	MarkNotified(ctx context.Context, userID, date string) error
	// PruneBefore drops entries dated strictly before date and returns how many were removed.
	PruneBefore(ctx context.Context, date string) (int64, error)
}
