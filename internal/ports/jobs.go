package ports

import (
	"context"

	"parley/internal/domain"
)

// ReminderRepository supports scheduling and claiming due reminders.
// ClaimNextDue hands at most one pending, due reminder to a single worker
// and marks it sending; concurrent claimers never receive the same row.
type ReminderRepository interface {
	CreateReminder(ctx context.Context, r *domain.Reminder) error
	ClaimNextDue(ctx context.Context) (r domain.Reminder, found bool, err error)
	MarkReminderSent(ctx context.Context, id string) error
	MarkReminderFailed(ctx context.Context, id string) error
}
