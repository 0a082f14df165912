package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"parley/internal/domain"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so the scan helpers
// can serve locked and unlocked reads.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const interviewColumns = `id, candidate_id, candidate_name, role, status, questions,
	current_index, overall_score, scheduled_at, started_at, completed_at, created_at`

func (db *DB) Create(ctx context.Context, iv *domain.Interview) error {
	questions, err := json.Marshal(iv.Questions)
	if err != nil {
		return fmt.Errorf("create interview: encode questions: %w", err)
	}
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO interviews (id, candidate_id, candidate_name, role, status, questions,
			current_index, overall_score, scheduled_at, started_at, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, iv.ID, iv.CandidateID, iv.CandidateName, iv.Role, string(iv.Status), questions,
		iv.CurrentIndex, iv.OverallScore, iv.ScheduledAt, iv.StartedAt, iv.CompletedAt, iv.CreatedAt)
	if err != nil {
		return fmt.Errorf("create interview: %w", err)
	}
	return nil
}

func (db *DB) Get(ctx context.Context, id string) (*domain.Interview, error) {
	return loadInterview(ctx, db.Pool, id, false)
}

// Mutate locks the interview row FOR UPDATE, applies fn to the loaded state,
// and persists the result in the same transaction. Mutations for one
// interview are therefore serialized by the database.
func (db *DB) Mutate(ctx context.Context, id string, fn func(*domain.Interview) error) (iv *domain.Interview, err error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	iv, err = loadInterview(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}
	persisted := len(iv.Responses)

	if err = fn(iv); err != nil {
		return nil, err
	}

	for _, r := range iv.Responses[persisted:] {
		if _, err = tx.Exec(ctx, `
			INSERT INTO interview_responses (interview_id, question_number, question, answer,
				sentiment_score, confidence_score, clarity_score, overall_score, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, iv.ID, r.QuestionNumber, r.Question, r.Answer,
			r.Sentiment, r.Confidence, r.Clarity, r.Overall, r.CreatedAt); err != nil {
			return nil, fmt.Errorf("insert response %d: %w", r.QuestionNumber, err)
		}
	}

	questions, err := json.Marshal(iv.Questions)
	if err != nil {
		return nil, fmt.Errorf("encode questions: %w", err)
	}
	if _, err = tx.Exec(ctx, `
		UPDATE interviews
		SET status = $2, questions = $3, current_index = $4, overall_score = $5,
			started_at = $6, completed_at = $7
		WHERE id = $1
	`, iv.ID, string(iv.Status), questions, iv.CurrentIndex, iv.OverallScore,
		iv.StartedAt, iv.CompletedAt); err != nil {
		return nil, fmt.Errorf("update interview: %w", err)
	}
	return iv, nil
}

func (db *DB) List(ctx context.Context, f domain.CandidateFilter) ([]domain.CandidateSummary, error) {
	q := `SELECT id, candidate_id, candidate_name, role, status, overall_score, completed_at FROM interviews`
	var conds []string
	var args []any
	if f.Role != "" {
		args = append(args, f.Role)
		conds = append(conds, fmt.Sprintf("role = $%d", len(args)))
	}
	if f.MinScore != nil {
		args = append(args, *f.MinScore)
		conds = append(conds, fmt.Sprintf("overall_score IS NOT NULL AND overall_score >= $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, string(*f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY overall_score DESC NULLS LAST, created_at"

	rows, err := db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CandidateSummary
	for rows.Next() {
		var c domain.CandidateSummary
		var status string
		if err := rows.Scan(&c.InterviewID, &c.CandidateID, &c.CandidateName, &c.Role,
			&status, &c.OverallScore, &c.CompletedAt); err != nil {
			return nil, err
		}
		c.Status = domain.InterviewStatus(status)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (db *DB) Stats(ctx context.Context) (domain.DashboardStats, error) {
	var s domain.DashboardStats
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COALESCE(AVG(overall_score) FILTER (WHERE status = 'completed'), 0)
		FROM interviews
	`).Scan(&s.TotalInterviews, &s.CompletedInterviews, &s.AverageScore)
	if err != nil {
		return s, err
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT role, COUNT(*), COALESCE(AVG(overall_score), 0)
		FROM interviews
		WHERE status = 'completed'
		GROUP BY role
		ORDER BY role
	`)
	if err != nil {
		return s, err
	}
	defer rows.Close()
	for rows.Next() {
		var r domain.RoleStats
		if err := rows.Scan(&r.Role, &r.Count, &r.AverageScore); err != nil {
			return s, err
		}
		s.ByRole = append(s.ByRole, r)
	}
	return s, rows.Err()
}

func loadInterview(ctx context.Context, q querier, id string, forUpdate bool) (*domain.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var iv domain.Interview
	var status string
	var questions []byte
	err := q.QueryRow(ctx, query, id).Scan(&iv.ID, &iv.CandidateID, &iv.CandidateName,
		&iv.Role, &status, &questions, &iv.CurrentIndex, &iv.OverallScore,
		&iv.ScheduledAt, &iv.StartedAt, &iv.CompletedAt, &iv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	iv.Status = domain.InterviewStatus(status)
	if len(questions) > 0 {
		if err := json.Unmarshal(questions, &iv.Questions); err != nil {
			return nil, fmt.Errorf("decode questions: %w", err)
		}
	}

	rows, err := q.Query(ctx, `
		SELECT question_number, question, answer, sentiment_score, confidence_score,
			clarity_score, overall_score, created_at
		FROM interview_responses
		WHERE interview_id = $1
		ORDER BY question_number
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var r domain.Response
		if err := rows.Scan(&r.QuestionNumber, &r.Question, &r.Answer,
			&r.Sentiment, &r.Confidence, &r.Clarity, &r.Overall, &r.CreatedAt); err != nil {
			return nil, err
		}
		iv.Responses = append(iv.Responses, r)
	}
	return &iv, rows.Err()
}
