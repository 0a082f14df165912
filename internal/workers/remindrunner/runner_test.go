package remindrunner

import (
	"context"
	"errors"
	"testing"
	"time"

	"parley/internal/domain"
)

type fakeRepo struct {
	due    []domain.Reminder
	sent   []string
	failed []string
}

func (f *fakeRepo) CreateReminder(_ context.Context, r *domain.Reminder) error {
	f.due = append(f.due, *r)
	return nil
}

func (f *fakeRepo) ClaimNextDue(context.Context) (domain.Reminder, bool, error) {
	if len(f.due) == 0 {
		return domain.Reminder{}, false, nil
	}
	r := f.due[0]
	f.due = f.due[1:]
	r.Status = domain.ReminderSending
	return r, true, nil
}

func (f *fakeRepo) MarkReminderSent(_ context.Context, id string) error {
	f.sent = append(f.sent, id)
	return nil
}

func (f *fakeRepo) MarkReminderFailed(_ context.Context, id string) error {
	f.failed = append(f.failed, id)
	return nil
}

type failingSender struct{ failID string }

func (s failingSender) Send(_ context.Context, r domain.Reminder) error {
	if r.ID == s.failID {
		return errors.New("delivery refused")
	}
	return nil
}

func TestProcessDue(t *testing.T) {
	repo := &fakeRepo{}
	for _, id := range []string{"r-1", "r-2", "r-3"} {
		_ = repo.CreateReminder(context.Background(), &domain.Reminder{
			ID:           id,
			InterviewID:  "iv-1",
			Kind:         "interview_scheduled",
			ScheduledFor: time.Now().Add(-time.Minute),
			Status:       domain.ReminderPending,
		})
	}

	sent, err := ProcessDue(context.Background(), repo, failingSender{failID: "r-2"})
	if err != nil {
		t.Fatalf("process due: %v", err)
	}
	if sent != 2 {
		t.Fatalf("sent = %d, want 2", sent)
	}
	if len(repo.sent) != 2 || repo.sent[0] != "r-1" || repo.sent[1] != "r-3" {
		t.Fatalf("sent ids = %v", repo.sent)
	}
	if len(repo.failed) != 1 || repo.failed[0] != "r-2" {
		t.Fatalf("failed ids = %v", repo.failed)
	}
}

func TestProcessDueEmpty(t *testing.T) {
	sent, err := ProcessDue(context.Background(), &fakeRepo{}, LogSender{})
	if err != nil || sent != 0 {
		t.Fatalf("empty queue: sent=%d err=%v", sent, err)
	}
}
