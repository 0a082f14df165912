package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"parley/internal/domain"
)

func (db *DB) CreateReminder(ctx context.Context, r *domain.Reminder) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO reminders (id, interview_id, candidate_id, kind, scheduled_for, status, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.ID, r.InterviewID, r.CandidateID, r.Kind, r.ScheduledFor, string(r.Status), r.SentAt)
	if err != nil {
		return fmt.Errorf("create reminder: %w", err)
	}
	return nil
}

// ClaimNextDue locks the oldest due pending reminder with SKIP LOCKED and
// marks it sending, so concurrent workers never deliver the same one.
func (db *DB) ClaimNextDue(ctx context.Context) (r domain.Reminder, found bool, err error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return r, false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	var status string
	err = tx.QueryRow(ctx, `
		SELECT id, interview_id, candidate_id, kind, scheduled_for, status
		FROM reminders
		WHERE status = 'pending' AND scheduled_for <= now()
		ORDER BY scheduled_for
		FOR UPDATE SKIP LOCKED
		LIMIT 1
	`).Scan(&r.ID, &r.InterviewID, &r.CandidateID, &r.Kind, &r.ScheduledFor, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		err = nil
		return r, false, nil
	}
	if err != nil {
		return r, false, err
	}

	if _, err = tx.Exec(ctx, `UPDATE reminders SET status = 'sending' WHERE id = $1`, r.ID); err != nil {
		return r, false, err
	}
	r.Status = domain.ReminderSending
	return r, true, nil
}

func (db *DB) MarkReminderSent(ctx context.Context, id string) error {
	_, err := db.Pool.Exec(ctx, `UPDATE reminders SET status = 'sent', sent_at = now() WHERE id = $1`, id)
	return err
}

func (db *DB) MarkReminderFailed(ctx context.Context, id string) error {
	_, err := db.Pool.Exec(ctx, `UPDATE reminders SET status = 'failed' WHERE id = $1`, id)
	return err
}
