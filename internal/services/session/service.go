package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"parley/internal/domain"
	"parley/internal/ports"
)

// Service drives the interview lifecycle. Collaborator I/O (question supply,
// scoring) happens outside the repository's critical section; the state
// machine guards are re-validated inside it, so a lost race surfaces as a
// normal guard error with nothing written.
type Service struct {
	interviews ports.InterviewRepository
	questions  ports.QuestionSource
	scorer     ports.Scorer
}

func New(interviews ports.InterviewRepository, questions ports.QuestionSource, scorer ports.Scorer) *Service {
	return &Service{interviews: interviews, questions: questions, scorer: scorer}
}

// Start moves a scheduled interview to in_progress, fetching and freezing its
// question sequence. The sequence is returned so the caller can present
// question 1.
func (s *Service) Start(ctx context.Context, interviewID string) ([]domain.Question, error) {
	iv, err := s.interviews.Get(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if iv.Status != domain.StatusScheduled {
		return nil, fmt.Errorf("start from %s: %w", iv.Status, domain.ErrInvalidState)
	}

	qs, err := s.questions.QuestionsForRole(ctx, iv.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQuestionSupply, err)
	}

	out, err := s.interviews.Mutate(ctx, interviewID, func(iv *domain.Interview) error {
		return iv.Start(qs, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}
	return out.Questions, nil
}

// SubmitResponse scores and records the answer for the active question.
// more reports whether questions remain after this one.
func (s *Service) SubmitResponse(ctx context.Context, interviewID string, questionNumber int, answer string) (resp *domain.Response, more bool, err error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, false, domain.ErrEmptyAnswer
	}

	iv, err := s.interviews.Get(ctx, interviewID)
	if err != nil {
		return nil, false, err
	}
	q, err := iv.QuestionFor(questionNumber)
	if err != nil {
		return nil, false, err
	}

	// Scoring is all-or-nothing: on failure nothing is persisted and the
	// caller may resubmit the same question and answer.
	card, err := s.scorer.Score(ctx, q.Prompt, answer)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", domain.ErrScoringUnavailable, err)
	}

	r := domain.Response{
		QuestionNumber: questionNumber,
		Question:       q.Prompt,
		Answer:         answer,
		Sentiment:      card.Sentiment,
		Confidence:     card.Confidence,
		Clarity:        card.Clarity,
		Overall:        card.Overall,
		CreatedAt:      time.Now().UTC(),
	}
	out, err := s.interviews.Mutate(ctx, interviewID, func(iv *domain.Interview) error {
		return iv.Record(r)
	})
	if err != nil {
		return nil, false, err
	}
	return &r, out.Remaining(), nil
}

// Complete finalizes a fully answered interview and fixes its overall score.
func (s *Service) Complete(ctx context.Context, interviewID string) (*domain.Interview, error) {
	return s.interviews.Mutate(ctx, interviewID, func(iv *domain.Interview) error {
		return iv.Complete(time.Now().UTC())
	})
}

// Cancel terminates an interview from scheduled or in_progress. Responses
// already recorded are retained for audit.
func (s *Service) Cancel(ctx context.Context, interviewID string) (*domain.Interview, error) {
	return s.interviews.Mutate(ctx, interviewID, func(iv *domain.Interview) error {
		return iv.Cancel()
	})
}

// IsGuardError reports whether err is a state-machine rejection rather than
// an infrastructure failure.
func IsGuardError(err error) bool {
	return errors.Is(err, domain.ErrInvalidState) ||
		errors.Is(err, domain.ErrOutOfSequence) ||
		errors.Is(err, domain.ErrEmptyAnswer) ||
		errors.Is(err, domain.ErrIncompleteInterview)
}
