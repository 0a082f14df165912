package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"parley/internal/domain"
)

// memRepo is a map-backed InterviewRepository. Mutate applies fn to a copy
// and only stores it on success, like the real adapters.
type memRepo struct {
	mu  sync.Mutex
	ivs map[string]*domain.Interview
}

func newMemRepo() *memRepo { return &memRepo{ivs: map[string]*domain.Interview{}} }

func (m *memRepo) Create(_ context.Context, iv *domain.Interview) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *iv
	m.ivs[iv.ID] = &cp
	return nil
}

func (m *memRepo) Get(_ context.Context, id string) (*domain.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	iv, ok := m.ivs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *iv
	cp.Questions = append([]domain.Question(nil), iv.Questions...)
	cp.Responses = append([]domain.Response(nil), iv.Responses...)
	return &cp, nil
}

func (m *memRepo) Mutate(ctx context.Context, id string, fn func(*domain.Interview) error) (*domain.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	iv, ok := m.ivs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *iv
	cp.Questions = append([]domain.Question(nil), iv.Questions...)
	cp.Responses = append([]domain.Response(nil), iv.Responses...)
	if err := fn(&cp); err != nil {
		return nil, err
	}
	m.ivs[id] = &cp
	out := cp
	return &out, nil
}

func (m *memRepo) List(context.Context, domain.CandidateFilter) ([]domain.CandidateSummary, error) {
	return nil, nil
}

func (m *memRepo) Stats(context.Context) (domain.DashboardStats, error) {
	return domain.DashboardStats{}, nil
}

type stubSource struct {
	questions []domain.Question
	err       error
}

func (s stubSource) QuestionsForRole(context.Context, string) ([]domain.Question, error) {
	return s.questions, s.err
}

type stubScorer struct {
	card domain.ScoreCard
	err  error
}

func (s *stubScorer) Score(context.Context, string, string) (domain.ScoreCard, error) {
	return s.card, s.err
}

func seed(t *testing.T, repo *memRepo) string {
	t.Helper()
	iv := &domain.Interview{ID: "iv-1", CandidateID: "c-1", Role: "developer", Status: domain.StatusScheduled}
	if err := repo.Create(context.Background(), iv); err != nil {
		t.Fatal(err)
	}
	return iv.ID
}

func TestStart(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	id := seed(t, repo)
	qs := []domain.Question{{Prompt: "Q1"}, {Prompt: "Q2"}}
	svc := New(repo, stubSource{questions: qs}, &stubScorer{})

	got, err := svc.Start(ctx, id)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(got) != 2 || got[0].Prompt != "Q1" {
		t.Fatalf("start returned %+v", got)
	}

	if _, err := svc.Start(ctx, id); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("second start: got %v, want ErrInvalidState", err)
	}
	if _, err := svc.Start(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown id: got %v, want ErrNotFound", err)
	}
}

func TestStartEmptySupply(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	id := seed(t, repo)

	svc := New(repo, stubSource{questions: nil}, &stubScorer{})
	if _, err := svc.Start(ctx, id); !errors.Is(err, domain.ErrQuestionSupply) {
		t.Fatalf("empty supply: got %v, want ErrQuestionSupply", err)
	}

	svc = New(repo, stubSource{err: fmt.Errorf("upstream down")}, &stubScorer{})
	if _, err := svc.Start(ctx, id); !errors.Is(err, domain.ErrQuestionSupply) {
		t.Fatalf("supply error: got %v, want ErrQuestionSupply", err)
	}

	iv, _ := repo.Get(ctx, id)
	if iv.Status != domain.StatusScheduled {
		t.Fatalf("failed start mutated status to %s", iv.Status)
	}
}

func TestSubmitResponse(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	id := seed(t, repo)
	qs := []domain.Question{{Prompt: "Q1"}, {Prompt: "Q2"}}
	scorer := &stubScorer{card: domain.ScoreCard{Sentiment: 0.6, Confidence: 0.7, Clarity: 0.8, Overall: 0.8}}
	svc := New(repo, stubSource{questions: qs}, scorer)

	if _, _, err := svc.SubmitResponse(ctx, id, 1, "A1"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("submit before start: got %v, want ErrInvalidState", err)
	}
	if _, err := svc.Start(ctx, id); err != nil {
		t.Fatal(err)
	}

	if _, _, err := svc.SubmitResponse(ctx, id, 1, "   \t"); !errors.Is(err, domain.ErrEmptyAnswer) {
		t.Fatalf("blank answer: got %v, want ErrEmptyAnswer", err)
	}

	r, more, err := svc.SubmitResponse(ctx, id, 1, " A1 ")
	if err != nil {
		t.Fatalf("submit 1: %v", err)
	}
	if !more {
		t.Fatal("one of two answered, more = false")
	}
	if r.Answer != "A1" || r.Question != "Q1" || r.Overall != 0.8 {
		t.Fatalf("response = %+v", r)
	}

	if _, _, err := svc.SubmitResponse(ctx, id, 1, "again"); !errors.Is(err, domain.ErrOutOfSequence) {
		t.Fatalf("resubmit: got %v, want ErrOutOfSequence", err)
	}
	iv, _ := repo.Get(ctx, id)
	if len(iv.Responses) != 1 {
		t.Fatalf("failed submit persisted a response: %d", len(iv.Responses))
	}

	scorer.card.Overall = 0.6
	_, more, err = svc.SubmitResponse(ctx, id, 2, "A2")
	if err != nil {
		t.Fatalf("submit 2: %v", err)
	}
	if more {
		t.Fatal("all answered, more = true")
	}

	out, err := svc.Complete(ctx, id)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out.Status != domain.StatusCompleted || out.OverallScore == nil {
		t.Fatalf("complete left %+v", out)
	}
	if math.Abs(*out.OverallScore-0.7) > 1e-9 {
		t.Fatalf("overall = %v, want 0.7", *out.OverallScore)
	}
}

func TestSubmitScoringFailure(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	id := seed(t, repo)
	scorer := &stubScorer{err: fmt.Errorf("model timeout")}
	svc := New(repo, stubSource{questions: []domain.Question{{Prompt: "Q1"}}}, scorer)

	if _, err := svc.Start(ctx, id); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.SubmitResponse(ctx, id, 1, "A1"); !errors.Is(err, domain.ErrScoringUnavailable) {
		t.Fatalf("scoring failure: got %v, want ErrScoringUnavailable", err)
	}

	// Nothing persisted; the same submission succeeds once scoring recovers.
	iv, _ := repo.Get(ctx, id)
	if len(iv.Responses) != 0 || iv.CurrentIndex != 0 {
		t.Fatalf("failed scoring mutated state: %+v", iv)
	}
	scorer.err = nil
	scorer.card = domain.ScoreCard{Overall: 0.5}
	if _, _, err := svc.SubmitResponse(ctx, id, 1, "A1"); err != nil {
		t.Fatalf("resubmit after recovery: %v", err)
	}
}

func TestCompleteIncomplete(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	id := seed(t, repo)
	qs := []domain.Question{{Prompt: "Q1"}, {Prompt: "Q2"}, {Prompt: "Q3"}}
	svc := New(repo, stubSource{questions: qs}, &stubScorer{card: domain.ScoreCard{Overall: 0.9}})

	if _, err := svc.Start(ctx, id); err != nil {
		t.Fatal(err)
	}
	for n := 1; n <= 2; n++ {
		if _, _, err := svc.SubmitResponse(ctx, id, n, "answer"); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := svc.Complete(ctx, id); !errors.Is(err, domain.ErrIncompleteInterview) {
		t.Fatalf("complete with 2/3: got %v, want ErrIncompleteInterview", err)
	}
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	id := seed(t, repo)
	svc := New(repo, stubSource{questions: []domain.Question{{Prompt: "Q1"}}}, &stubScorer{})

	out, err := svc.Cancel(ctx, id)
	if err != nil {
		t.Fatalf("cancel from scheduled: %v", err)
	}
	if out.Status != domain.StatusCancelled {
		t.Fatalf("status = %s", out.Status)
	}
	if _, err := svc.Cancel(ctx, id); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("cancel twice: got %v, want ErrInvalidState", err)
	}
	if _, err := svc.Start(ctx, id); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("start after cancel: got %v, want ErrInvalidState", err)
	}
}
