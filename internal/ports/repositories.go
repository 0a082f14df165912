package ports

import (
	"context"

	"parley/internal/domain"
)

// InterviewRepository stores interviews and their responses.
//
// Mutate runs fn on the current state of one interview inside a storage-level
// critical section: the interview is loaded with its responses, fn applies a
// transition, and the result is persisted atomically. An error from fn aborts
// with no write. Mutations for the same interview id never interleave.
type InterviewRepository interface {
	Create(ctx context.Context, iv *domain.Interview) error
	Get(ctx context.Context, id string) (*domain.Interview, error)
	Mutate(ctx context.Context, id string, fn func(*domain.Interview) error) (*domain.Interview, error)
	List(ctx context.Context, f domain.CandidateFilter) ([]domain.CandidateSummary, error)
	Stats(ctx context.Context) (domain.DashboardStats, error)
}

// ApplicationRepository stores candidate applications.
type ApplicationRepository interface {
	CreateApplication(ctx context.Context, app *domain.Application) error
	GetApplication(ctx context.Context, id string) (*domain.Application, error)
	UpdateApplicationStatus(ctx context.Context, id string, status domain.ApplicationStatus) error
}
