package questions

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"parley/internal/domain"
)

//go:embed bank.yaml
var defaultBank []byte

// Bank is the curated, role-keyed question bank. It backs the /questions
// listing and serves as the fallback when AI generation is unavailable.
// A "default" role covers roles without a dedicated entry.
type Bank struct {
	roles map[string][]domain.Question
}

type bankFile struct {
	Roles map[string][]bankQuestion `yaml:"roles"`
}

type bankQuestion struct {
	Prompt   string   `yaml:"prompt"`
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// LoadBank reads a bank from path, or the embedded default when path is "".
func LoadBank(path string) (*Bank, error) {
	data := defaultBank
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read question bank %s: %w", path, err)
		}
	}
	return parseBank(data)
}

func parseBank(data []byte) (*Bank, error) {
	var f bankFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	if len(f.Roles) == 0 {
		return nil, fmt.Errorf("question bank defines no roles")
	}

	b := &Bank{roles: make(map[string][]domain.Question, len(f.Roles))}
	for role, qs := range f.Roles {
		role = strings.ToLower(strings.TrimSpace(role))
		if role == "" {
			return nil, fmt.Errorf("question bank has a role with an empty name")
		}
		if len(qs) == 0 {
			return nil, fmt.Errorf("role %q has no questions", role)
		}
		for i, q := range qs {
			if strings.TrimSpace(q.Prompt) == "" {
				return nil, fmt.Errorf("role %q question %d has an empty prompt", role, i+1)
			}
			b.roles[role] = append(b.roles[role], domain.Question{
				Prompt:   strings.TrimSpace(q.Prompt),
				Category: q.Category,
				Keywords: q.Keywords,
			})
		}
	}
	return b, nil
}

// ForRole returns the bank's sequence for role, falling back to the
// "default" entry. The returned slice is a copy.
func (b *Bank) ForRole(role string) []domain.Question {
	qs, ok := b.roles[strings.ToLower(strings.TrimSpace(role))]
	if !ok {
		qs = b.roles["default"]
	}
	return append([]domain.Question(nil), qs...)
}

// List returns bank questions filtered by role and category; empty filter
// values match everything.
func (b *Bank) List(role, category string) []domain.Question {
	role = strings.ToLower(strings.TrimSpace(role))
	category = strings.ToLower(strings.TrimSpace(category))

	var out []domain.Question
	for r, qs := range b.roles {
		if role != "" && r != role {
			continue
		}
		for _, q := range qs {
			if category != "" && strings.ToLower(q.Category) != category {
				continue
			}
			out = append(out, q)
		}
	}
	return out
}
