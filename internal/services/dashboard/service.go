package dashboard

import (
	"context"

	"parley/internal/domain"
	"parley/internal/ports"
)

// Service is the recruiter-facing read model: the candidate directory and
// dashboard statistics. Statistics are recomputed from the stored interview
// set on every read rather than kept as incremental counters, since
// interviews can be cancelled after partial scoring.
type Service struct {
	interviews ports.InterviewRepository
}

func New(interviews ports.InterviewRepository) *Service {
	return &Service{interviews: interviews}
}

// Candidates lists interviews matching every supplied filter. Interviews
// without an overall score never satisfy a minimum-score filter.
func (s *Service) Candidates(ctx context.Context, f domain.CandidateFilter) ([]domain.CandidateSummary, error) {
	return s.interviews.List(ctx, f)
}

// Candidate returns one interview with its full ordered response set.
func (s *Service) Candidate(ctx context.Context, interviewID string) (*domain.Interview, error) {
	return s.interviews.Get(ctx, interviewID)
}

// Statistics computes dashboard-wide aggregates: total and completed counts,
// and the mean overall score across completed interviews only.
func (s *Service) Statistics(ctx context.Context) (domain.DashboardStats, error) {
	return s.interviews.Stats(ctx)
}
