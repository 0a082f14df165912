package applications

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"

	"parley/internal/domain"
	"parley/internal/ports"
)

// reminderLead is how far before the scheduled time the candidate is notified.
const reminderLead = 24 * time.Hour

// Service handles candidate application intake and the handoff into the
// interview pipeline: accepting an application creates the interview in
// scheduled status and queues its reminder.
type Service struct {
	apps       ports.ApplicationRepository
	interviews ports.InterviewRepository
	reminders  ports.ReminderRepository
}

func New(apps ports.ApplicationRepository, interviews ports.InterviewRepository, reminders ports.ReminderRepository) *Service {
	return &Service{apps: apps, interviews: interviews, reminders: reminders}
}

type CreateInput struct {
	CandidateID   string
	CandidateName string
	Role          string
	CoverLetter   string
	PortfolioURL  string
}

// Create records a new pending application.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Application, error) {
	if strings.TrimSpace(in.CandidateID) == "" {
		return nil, fmt.Errorf("candidate id is required")
	}
	if strings.TrimSpace(in.Role) == "" {
		return nil, fmt.Errorf("role is required")
	}

	app := &domain.Application{
		ID:            uuid.NewString(),
		CandidateID:   in.CandidateID,
		CandidateName: strings.TrimSpace(in.CandidateName),
		Role:          strings.TrimSpace(in.Role),
		CoverLetter:   in.CoverLetter,
		PortfolioURL:  strings.TrimSpace(in.PortfolioURL),
		Status:        domain.ApplicationPending,
		CreatedAt:     time.Now().UTC(),
	}
	if app.PortfolioURL != "" {
		app.PortfolioDomain = registrableDomain(app.PortfolioURL)
	}
	if err := s.apps.CreateApplication(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// AcceptAndSchedule accepts an application and schedules its interview,
// queueing a reminder 24 hours ahead of the slot.
func (s *Service) AcceptAndSchedule(ctx context.Context, applicationID string, at time.Time) (*domain.Interview, error) {
	app, err := s.apps.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status == domain.ApplicationAccepted || app.Status == domain.ApplicationRejected {
		return nil, fmt.Errorf("application is %s: %w", app.Status, domain.ErrInvalidState)
	}

	scheduled := at.UTC()
	iv := &domain.Interview{
		ID:            uuid.NewString(),
		CandidateID:   app.CandidateID,
		CandidateName: app.CandidateName,
		Role:          app.Role,
		Status:        domain.StatusScheduled,
		ScheduledAt:   &scheduled,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.interviews.Create(ctx, iv); err != nil {
		return nil, err
	}
	if err := s.apps.UpdateApplicationStatus(ctx, applicationID, domain.ApplicationAccepted); err != nil {
		return nil, err
	}

	rem := &domain.Reminder{
		ID:           uuid.NewString(),
		InterviewID:  iv.ID,
		CandidateID:  iv.CandidateID,
		Kind:         "interview_scheduled",
		ScheduledFor: scheduled.Add(-reminderLead),
		Status:       domain.ReminderPending,
	}
	if err := s.reminders.CreateReminder(ctx, rem); err != nil {
		return nil, err
	}
	return iv, nil
}

// registrableDomain reduces a portfolio URL to its eTLD+1 for grouping and
// dedup on the recruiter side. Best effort: an unparseable value yields "".
func registrableDomain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	if host == "" {
		host = raw
	}
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		registrable = host
	}
	return strings.ToLower(registrable)
}
