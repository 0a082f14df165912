package domain

import (
	"errors"
	"math"
	"testing"
	"time"
)

func twoQuestions() []Question {
	return []Question{
		{Prompt: "Tell me about your experience with version control."},
		{Prompt: "Describe a project you are proud of."},
	}
}

func scored(n int, overall float64) Response {
	return Response{
		QuestionNumber: n,
		Question:       "q",
		Answer:         "a",
		Sentiment:      0.5,
		Confidence:     0.5,
		Clarity:        0.5,
		Overall:        overall,
	}
}

func TestStartGuards(t *testing.T) {
	now := time.Now()

	iv := Interview{ID: "i1", Role: "developer", Status: StatusScheduled}
	if err := iv.Start(nil, now); !errors.Is(err, ErrQuestionSupply) {
		t.Fatalf("start with no questions: got %v, want ErrQuestionSupply", err)
	}
	if iv.Status != StatusScheduled {
		t.Fatalf("failed start mutated status to %s", iv.Status)
	}

	if err := iv.Start(twoQuestions(), now); err != nil {
		t.Fatalf("start: %v", err)
	}
	if iv.Status != StatusInProgress || iv.CurrentIndex != 0 || iv.StartedAt == nil {
		t.Fatalf("start did not initialize session: %+v", iv)
	}

	if err := iv.Start(twoQuestions(), now); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second start: got %v, want ErrInvalidState", err)
	}
}

func TestSubmitSequenceAndComplete(t *testing.T) {
	now := time.Now()
	iv := Interview{ID: "i1", Role: "developer", Status: StatusScheduled}
	if err := iv.Start(twoQuestions(), now); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := iv.QuestionFor(2); !errors.Is(err, ErrOutOfSequence) {
		t.Fatalf("skip ahead: got %v, want ErrOutOfSequence", err)
	}
	if err := iv.Record(scored(1, 0.8)); err != nil {
		t.Fatalf("record 1: %v", err)
	}
	if !iv.Remaining() {
		t.Fatal("one of two answered, Remaining() = false")
	}

	// Resubmitting an answered question must fail and leave state untouched.
	if err := iv.Record(scored(1, 0.9)); !errors.Is(err, ErrOutOfSequence) {
		t.Fatalf("resubmit: got %v, want ErrOutOfSequence", err)
	}
	if len(iv.Responses) != 1 || iv.CurrentIndex != 1 {
		t.Fatalf("failed resubmit mutated state: %d responses, index %d", len(iv.Responses), iv.CurrentIndex)
	}

	if err := iv.Complete(now); !errors.Is(err, ErrIncompleteInterview) {
		t.Fatalf("early complete: got %v, want ErrIncompleteInterview", err)
	}

	if err := iv.Record(scored(2, 0.6)); err != nil {
		t.Fatalf("record 2: %v", err)
	}
	if iv.Remaining() {
		t.Fatal("all answered, Remaining() = true")
	}

	if err := iv.Complete(now); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if iv.Status != StatusCompleted || iv.OverallScore == nil {
		t.Fatalf("complete did not finalize: %+v", iv)
	}
	if got := *iv.OverallScore; math.Abs(got-0.7) > 1e-9 {
		t.Fatalf("overall = %v, want 0.7", got)
	}

	if err := iv.Complete(now); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("re-complete: got %v, want ErrInvalidState", err)
	}
	if err := iv.Record(scored(3, 0.5)); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("submit after complete: got %v, want ErrInvalidState", err)
	}
}

func TestCancelLegality(t *testing.T) {
	now := time.Now()

	iv := Interview{Status: StatusScheduled}
	if err := iv.Cancel(); err != nil {
		t.Fatalf("cancel from scheduled: %v", err)
	}
	if err := iv.Cancel(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("cancel twice: got %v, want ErrInvalidState", err)
	}

	iv = Interview{Status: StatusScheduled}
	if err := iv.Start(twoQuestions(), now); err != nil {
		t.Fatal(err)
	}
	if err := iv.Cancel(); err != nil {
		t.Fatalf("cancel from in_progress: %v", err)
	}
	if iv.OverallScore != nil {
		t.Fatal("cancelled interview carries an overall score")
	}

	iv = Interview{Status: StatusCompleted}
	if err := iv.Cancel(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("cancel from completed: got %v, want ErrInvalidState", err)
	}
}

func TestMeanOverall(t *testing.T) {
	rs := []Response{scored(1, 0.8), scored(2, 0.6), scored(3, 1.0)}
	mean, ok := MeanOverall(rs)
	if !ok {
		t.Fatal("ok = false for three responses")
	}
	if math.Abs(mean-0.8) > 1e-9 {
		t.Fatalf("mean = %v, want 0.8", mean)
	}

	if _, ok := MeanOverall(nil); ok {
		t.Fatal("ok = true for zero responses")
	}
}
