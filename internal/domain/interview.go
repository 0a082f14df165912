package domain

import (
	"fmt"
	"time"
)

// Transition guards for the interview state machine. All methods mutate the
// receiver only after every guard has passed, so a failed call leaves the
// interview exactly as it was. Persistence applies these inside a
// per-interview critical section.

// Start moves the interview from scheduled to in_progress and freezes the
// question sequence for the rest of its lifetime.
func (iv *Interview) Start(questions []Question, now time.Time) error {
	if iv.Status != StatusScheduled {
		return fmt.Errorf("start from %s: %w", iv.Status, ErrInvalidState)
	}
	if len(questions) == 0 {
		return fmt.Errorf("no questions produced for role %q: %w", iv.Role, ErrQuestionSupply)
	}
	iv.Status = StatusInProgress
	iv.Questions = questions
	iv.CurrentIndex = 0
	t := now
	iv.StartedAt = &t
	return nil
}

// QuestionFor returns the question a submission for questionNumber must
// answer. It enforces strictly sequential submission: no skipping, no
// resubmission of an answered question.
func (iv *Interview) QuestionFor(questionNumber int) (Question, error) {
	if iv.Status != StatusInProgress {
		return Question{}, fmt.Errorf("submit while %s: %w", iv.Status, ErrInvalidState)
	}
	if questionNumber != iv.CurrentIndex+1 {
		return Question{}, fmt.Errorf("expected question %d, got %d: %w",
			iv.CurrentIndex+1, questionNumber, ErrOutOfSequence)
	}
	return iv.Questions[questionNumber-1], nil
}

// Record appends a fully scored response and advances the current index.
// The guards are re-checked here so a submission raced by another writer
// fails cleanly after the fact.
func (iv *Interview) Record(r Response) error {
	if _, err := iv.QuestionFor(r.QuestionNumber); err != nil {
		return err
	}
	iv.Responses = append(iv.Responses, r)
	iv.CurrentIndex++
	return nil
}

// Remaining reports whether unanswered questions remain.
func (iv *Interview) Remaining() bool {
	return iv.CurrentIndex < len(iv.Questions)
}

// Complete closes out a fully answered interview, fixing its overall score
// as the mean of its responses' overall scores.
func (iv *Interview) Complete(now time.Time) error {
	if iv.Status != StatusInProgress {
		return fmt.Errorf("complete from %s: %w", iv.Status, ErrInvalidState)
	}
	if iv.CurrentIndex != len(iv.Questions) {
		return fmt.Errorf("%d of %d questions answered: %w",
			iv.CurrentIndex, len(iv.Questions), ErrIncompleteInterview)
	}
	mean, ok := MeanOverall(iv.Responses)
	if !ok {
		return fmt.Errorf("no responses recorded: %w", ErrIncompleteInterview)
	}
	iv.Status = StatusCompleted
	iv.OverallScore = &mean
	t := now
	iv.CompletedAt = &t
	return nil
}

// Cancel is legal from scheduled or in_progress. Recorded responses are
// retained for audit; the interview keeps no overall score.
func (iv *Interview) Cancel() error {
	if iv.Status.Terminal() {
		return fmt.Errorf("cancel from %s: %w", iv.Status, ErrInvalidState)
	}
	iv.Status = StatusCancelled
	return nil
}

// MeanOverall is the single-interview aggregation rule: the arithmetic mean
// of each response's overall score. ok is false when there are no responses.
func MeanOverall(responses []Response) (mean float64, ok bool) {
	if len(responses) == 0 {
		return 0, false
	}
	var sum float64
	for _, r := range responses {
		sum += r.Overall
	}
	return sum / float64(len(responses)), true
}
