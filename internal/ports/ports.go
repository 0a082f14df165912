package ports

import (
	"context"

	"parley/internal/domain"
)

// QuestionSource produces the ordered question sequence for a role. The
// session captures the result once at start; an empty sequence is a valid
// return value here but is rejected by the caller.
type QuestionSource interface {
	QuestionsForRole(ctx context.Context, role string) ([]domain.Question, error)
}

// Scorer evaluates a single answer as one synchronous unit of work. Either
// all four scores come back together or the call fails.
type Scorer interface {
	Score(ctx context.Context, question, answer string) (domain.ScoreCard, error)
}

// Sender delivers a reminder to the candidate.
type Sender interface {
	Send(ctx context.Context, r domain.Reminder) error
}
