package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"parley/internal/domain"
)

func (s *Store) CreateReminder(ctx context.Context, r *domain.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reminders (id, interview_id, candidate_id, kind, scheduled_for, status, sent_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.InterviewID, r.CandidateID, r.Kind, fmtTime(r.ScheduledFor), string(r.Status), fmtTimePtr(r.SentAt))
	if err != nil {
		return fmt.Errorf("create reminder: insert: %w", err)
	}
	return nil
}

// ClaimNextDue hands out the oldest due pending reminder. The store mutex
// stands in for the row locking the Postgres adapter gets from SKIP LOCKED.
func (s *Store) ClaimNextDue(ctx context.Context) (r domain.Reminder, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var scheduled string
	err = s.db.QueryRowContext(ctx, `
		SELECT id, interview_id, candidate_id, kind, scheduled_for
		FROM reminders
		WHERE status = 'pending' AND scheduled_for <= ?
		ORDER BY scheduled_for
		LIMIT 1
	`, fmtTime(time.Now())).Scan(&r.ID, &r.InterviewID, &r.CandidateID, &r.Kind, &scheduled)
	if errors.Is(err, sql.ErrNoRows) {
		return r, false, nil
	}
	if err != nil {
		return r, false, err
	}
	if r.ScheduledFor, err = parseTime(scheduled); err != nil {
		return r, false, err
	}

	if _, err = s.db.ExecContext(ctx, `UPDATE reminders SET status = 'sending' WHERE id = ?`, r.ID); err != nil {
		return r, false, err
	}
	r.Status = domain.ReminderSending
	return r, true, nil
}

func (s *Store) MarkReminderSent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `UPDATE reminders SET status = 'sent', sent_at = ? WHERE id = ?`,
		fmtTime(time.Now()), id)
	return err
}

func (s *Store) MarkReminderFailed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `UPDATE reminders SET status = 'failed' WHERE id = ?`, id)
	return err
}
