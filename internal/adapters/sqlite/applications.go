package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"parley/internal/domain"
)

func (s *Store) CreateApplication(ctx context.Context, app *domain.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO applications (id, candidate_id, candidate_name, role, cover_letter,
			portfolio_url, portfolio_domain, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, app.ID, app.CandidateID, app.CandidateName, app.Role, app.CoverLetter,
		app.PortfolioURL, app.PortfolioDomain, string(app.Status), fmtTime(app.CreatedAt))
	if err != nil {
		return fmt.Errorf("create application: insert: %w", err)
	}
	return nil
}

func (s *Store) GetApplication(ctx context.Context, id string) (*domain.Application, error) {
	var app domain.Application
	var status, created string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, candidate_id, candidate_name, role, cover_letter,
			portfolio_url, portfolio_domain, status, created_at
		FROM applications WHERE id = ?
	`, id).Scan(&app.ID, &app.CandidateID, &app.CandidateName, &app.Role, &app.CoverLetter,
		&app.PortfolioURL, &app.PortfolioDomain, &status, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	app.Status = domain.ApplicationStatus(status)
	if app.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	return &app, nil
}

func (s *Store) UpdateApplicationStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, `UPDATE applications SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
