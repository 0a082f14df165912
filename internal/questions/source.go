package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"parley/internal/domain"
	"parley/internal/openai"
)

const generateSystemPrompt = "You are an expert HR interviewer. Generate relevant interview questions."

// Source produces the question sequence for a role: AI-generated when a
// client is configured and the reply parses, otherwise the curated bank.
type Source struct {
	ai    *openai.Client
	bank  *Bank
	count int
}

// NewSource builds a Source. ai may be nil, in which case only the bank is
// consulted. count is the number of questions requested from the generator.
func NewSource(ai *openai.Client, bank *Bank, count int) *Source {
	if count <= 0 {
		count = 5
	}
	return &Source{ai: ai, bank: bank, count: count}
}

type generatedQuestion struct {
	Question string   `json:"question"`
	Type     string   `json:"type"`
	Keywords []string `json:"expected_keywords"`
}

// QuestionsForRole implements ports.QuestionSource.
func (s *Source) QuestionsForRole(ctx context.Context, role string) ([]domain.Question, error) {
	if s.ai != nil {
		qs, err := s.generate(ctx, role)
		if err == nil {
			return qs, nil
		}
		log.Printf("question generation failed for role %q, using bank: %v", role, err)
	}

	qs := s.bank.ForRole(role)
	if len(qs) == 0 {
		return nil, fmt.Errorf("no questions available for role %q", role)
	}
	return qs, nil
}

func (s *Source) generate(ctx context.Context, role string) ([]domain.Question, error) {
	prompt := fmt.Sprintf(`Generate %d interview questions for a %s position.

For each question provide:
1. The question text
2. Expected keywords or topics that should be covered in a good answer
3. Question type (technical, behavioral, or situational)

Reply with only a JSON array of objects with keys: question, expected_keywords, type`,
		s.count, role)

	reply, err := s.ai.Complete(ctx, generateSystemPrompt, prompt, 0.7, 1000)
	if err != nil {
		return nil, err
	}

	raw, err := openai.ExtractJSON(reply, '[', ']')
	if err != nil {
		return nil, err
	}
	var gen []generatedQuestion
	if err := json.Unmarshal([]byte(raw), &gen); err != nil {
		return nil, fmt.Errorf("parse generated questions: %w", err)
	}

	var out []domain.Question
	for _, g := range gen {
		if strings.TrimSpace(g.Question) == "" {
			continue
		}
		out = append(out, domain.Question{
			Prompt:   strings.TrimSpace(g.Question),
			Category: strings.ToLower(g.Type),
			Keywords: g.Keywords,
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("generator returned no usable questions")
	}
	return out, nil
}
