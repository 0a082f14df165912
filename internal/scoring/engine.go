package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"parley/internal/domain"
	"parley/internal/openai"
)

// Score weights. Relevance carries the largest share since it is the only
// component that looks at the question.
const (
	weightSentiment  = 0.20
	weightConfidence = 0.25
	weightClarity    = 0.25
	weightRelevance  = 0.30

	neutralRelevance = 0.5
)

const evaluateSystemPrompt = "You are an expert interviewer evaluating candidate responses. Be objective and constructive."

// Engine scores one answer as a single unit of work: lexical analysis plus an
// AI relevance evaluation, combined into the four-part score card. A failed
// AI call degrades to neutral relevance rather than failing the submission;
// that retreat is internal to the engine.
type Engine struct {
	ai *openai.Client
}

func NewEngine(ai *openai.Client) *Engine {
	return &Engine{ai: ai}
}

type evaluation struct {
	RelevanceScore float64 `json:"relevance_score"`
	Feedback       string  `json:"feedback"`
}

// Score implements ports.Scorer.
func (e *Engine) Score(ctx context.Context, question, answer string) (domain.ScoreCard, error) {
	if strings.TrimSpace(answer) == "" {
		return domain.ScoreCard{}, fmt.Errorf("score: empty answer")
	}

	a := analyze(answer)

	relevance := neutralRelevance
	if e.ai != nil {
		if r, err := e.evaluateRelevance(ctx, question, answer); err == nil {
			relevance = r
		} else {
			log.Printf("relevance evaluation failed, using neutral: %v", err)
		}
	}

	overall := a.Sentiment*weightSentiment +
		a.Confidence*weightConfidence +
		a.Clarity*weightClarity +
		relevance*weightRelevance

	return domain.ScoreCard{
		Sentiment:  round3(a.Sentiment),
		Confidence: round3(a.Confidence),
		Clarity:    round3(a.Clarity),
		Overall:    round3(clamp(overall)),
	}, nil
}

func (e *Engine) evaluateRelevance(ctx context.Context, question, answer string) (float64, error) {
	prompt := fmt.Sprintf(`Evaluate this interview response:

Question: %s
Answer: %s

Reply with only a JSON object with keys:
1. relevance_score (0-1): how relevant the answer is to the question
2. feedback: one sentence of constructive feedback`, question, answer)

	reply, err := e.ai.Complete(ctx, evaluateSystemPrompt, prompt, 0.3, 500)
	if err != nil {
		return 0, err
	}
	raw, err := openai.ExtractJSON(reply, '{', '}')
	if err != nil {
		return 0, err
	}
	var ev evaluation
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		return 0, fmt.Errorf("parse evaluation: %w", err)
	}
	return clamp(ev.RelevanceScore), nil
}
