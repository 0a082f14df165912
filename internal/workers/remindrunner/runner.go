package remindrunner

import (
	"context"
	"log"
	"time"

	"parley/internal/domain"
	"parley/internal/ports"
)

// LogSender writes reminders to the process log. Replace with a real
// notification channel when one is provisioned.
type LogSender struct{}

func (LogSender) Send(_ context.Context, r domain.Reminder) error {
	log.Printf("reminder %s: %s for interview %s (candidate %s)", r.ID, r.Kind, r.InterviewID, r.CandidateID)
	return nil
}

// Run starts worker goroutines that claim due reminders and deliver them.
func Run(ctx context.Context, repo ports.ReminderRepository, sender ports.Sender, concurrency int, pollInterval time.Duration) {
	if concurrency < 1 {
		return
	}
	remindersCh := make(chan domain.Reminder, concurrency)

	// dispatcher loop
	go func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				close(remindersCh)
				return
			case <-ticker.C:
				for {
					r, found, err := repo.ClaimNextDue(ctx)
					if err != nil {
						log.Printf("reminder claim error: %v", err)
						break
					}
					if !found {
						break
					}
					remindersCh <- r
				}
			}
		}
	}()

	// workers
	for i := 0; i < concurrency; i++ {
		go func(idx int) {
			for r := range remindersCh {
				if err := sender.Send(ctx, r); err != nil {
					_ = repo.MarkReminderFailed(ctx, r.ID)
					log.Printf("worker %d: reminder %s failed: %v", idx, r.ID, err)
					continue
				}
				if err := repo.MarkReminderSent(ctx, r.ID); err != nil {
					log.Printf("worker %d: mark sent err: %v", idx, err)
				}
			}
		}(i)
	}
}

// ProcessDue drains every currently due reminder synchronously and returns
// how many were delivered. The HTTP-less path used by tests and one-shot runs.
func ProcessDue(ctx context.Context, repo ports.ReminderRepository, sender ports.Sender) (int, error) {
	sent := 0
	for {
		r, found, err := repo.ClaimNextDue(ctx)
		if err != nil {
			return sent, err
		}
		if !found {
			return sent, nil
		}
		if err := sender.Send(ctx, r); err != nil {
			_ = repo.MarkReminderFailed(ctx, r.ID)
			log.Printf("reminder %s failed: %v", r.ID, err)
			continue
		}
		if err := repo.MarkReminderSent(ctx, r.ID); err != nil {
			return sent, err
		}
		sent++
	}
}
