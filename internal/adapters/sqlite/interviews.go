package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"parley/internal/domain"
)

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) Create(ctx context.Context, iv *domain.Interview) error {
	questions, err := json.Marshal(iv.Questions)
	if err != nil {
		return fmt.Errorf("create interview: encode questions: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO interviews (id, candidate_id, candidate_name, role, status, questions,
			current_index, overall_score, scheduled_at, started_at, completed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, iv.ID, iv.CandidateID, iv.CandidateName, iv.Role, string(iv.Status), string(questions),
		iv.CurrentIndex, iv.OverallScore, fmtTimePtr(iv.ScheduledAt), fmtTimePtr(iv.StartedAt),
		fmtTimePtr(iv.CompletedAt), fmtTime(iv.CreatedAt))
	if err != nil {
		return fmt.Errorf("create interview: insert: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Interview, error) {
	return loadInterview(ctx, s.db, id)
}

// Mutate applies fn inside the store's write lock and a transaction, so
// mutations for one interview never interleave.
func (s *Store) Mutate(ctx context.Context, id string, fn func(*domain.Interview) error) (iv *domain.Interview, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	iv, err = loadInterview(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	persisted := len(iv.Responses)

	if err = fn(iv); err != nil {
		return nil, err
	}

	for _, r := range iv.Responses[persisted:] {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO interview_responses (interview_id, question_number, question, answer,
				sentiment_score, confidence_score, clarity_score, overall_score, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, iv.ID, r.QuestionNumber, r.Question, r.Answer,
			r.Sentiment, r.Confidence, r.Clarity, r.Overall, fmtTime(r.CreatedAt)); err != nil {
			return nil, fmt.Errorf("insert response %d: %w", r.QuestionNumber, err)
		}
	}

	questions, err := json.Marshal(iv.Questions)
	if err != nil {
		return nil, fmt.Errorf("encode questions: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `
		UPDATE interviews
		SET status = ?, questions = ?, current_index = ?, overall_score = ?,
			started_at = ?, completed_at = ?
		WHERE id = ?
	`, string(iv.Status), string(questions), iv.CurrentIndex, iv.OverallScore,
		fmtTimePtr(iv.StartedAt), fmtTimePtr(iv.CompletedAt), iv.ID); err != nil {
		return nil, fmt.Errorf("update interview: %w", err)
	}
	return iv, nil
}

func (s *Store) List(ctx context.Context, f domain.CandidateFilter) ([]domain.CandidateSummary, error) {
	q := `SELECT id, candidate_id, candidate_name, role, status, overall_score, completed_at FROM interviews`
	var conds []string
	var args []any
	if f.Role != "" {
		conds = append(conds, "role = ?")
		args = append(args, f.Role)
	}
	if f.MinScore != nil {
		conds = append(conds, "overall_score IS NOT NULL AND overall_score >= ?")
		args = append(args, *f.MinScore)
	}
	if f.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, string(*f.Status))
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY overall_score DESC NULLS LAST, created_at"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CandidateSummary
	for rows.Next() {
		var c domain.CandidateSummary
		var status string
		var completed sql.NullString
		if err := rows.Scan(&c.InterviewID, &c.CandidateID, &c.CandidateName, &c.Role,
			&status, &c.OverallScore, &completed); err != nil {
			return nil, err
		}
		c.Status = domain.InterviewStatus(status)
		if c.CompletedAt, err = parseTimePtr(completed); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) Stats(ctx context.Context) (domain.DashboardStats, error) {
	var st domain.DashboardStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COALESCE(AVG(overall_score) FILTER (WHERE status = 'completed'), 0)
		FROM interviews
	`).Scan(&st.TotalInterviews, &st.CompletedInterviews, &st.AverageScore)
	if err != nil {
		return st, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT role, COUNT(*), COALESCE(AVG(overall_score), 0)
		FROM interviews
		WHERE status = 'completed'
		GROUP BY role
		ORDER BY role
	`)
	if err != nil {
		return st, err
	}
	defer rows.Close()
	for rows.Next() {
		var r domain.RoleStats
		if err := rows.Scan(&r.Role, &r.Count, &r.AverageScore); err != nil {
			return st, err
		}
		st.ByRole = append(st.ByRole, r)
	}
	return st, rows.Err()
}

func loadInterview(ctx context.Context, q queryer, id string) (*domain.Interview, error) {
	var iv domain.Interview
	var status, questions, created string
	var scheduled, started, completed sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT id, candidate_id, candidate_name, role, status, questions,
			current_index, overall_score, scheduled_at, started_at, completed_at, created_at
		FROM interviews WHERE id = ?
	`, id).Scan(&iv.ID, &iv.CandidateID, &iv.CandidateName, &iv.Role, &status, &questions,
		&iv.CurrentIndex, &iv.OverallScore, &scheduled, &started, &completed, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	iv.Status = domain.InterviewStatus(status)
	if questions != "" {
		if err := json.Unmarshal([]byte(questions), &iv.Questions); err != nil {
			return nil, fmt.Errorf("decode questions: %w", err)
		}
	}
	if iv.ScheduledAt, err = parseTimePtr(scheduled); err != nil {
		return nil, err
	}
	if iv.StartedAt, err = parseTimePtr(started); err != nil {
		return nil, err
	}
	if iv.CompletedAt, err = parseTimePtr(completed); err != nil {
		return nil, err
	}
	if iv.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, `
		SELECT question_number, question, answer, sentiment_score, confidence_score,
			clarity_score, overall_score, created_at
		FROM interview_responses
		WHERE interview_id = ?
		ORDER BY question_number
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var r domain.Response
		var at string
		if err := rows.Scan(&r.QuestionNumber, &r.Question, &r.Answer,
			&r.Sentiment, &r.Confidence, &r.Clarity, &r.Overall, &at); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = parseTime(at); err != nil {
			return nil, err
		}
		iv.Responses = append(iv.Responses, r)
	}
	return &iv, rows.Err()
}
