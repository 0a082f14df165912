package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"parley/internal/domain"
)

func (db *DB) CreateApplication(ctx context.Context, app *domain.Application) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO applications (id, candidate_id, candidate_name, role, cover_letter,
			portfolio_url, portfolio_domain, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, app.ID, app.CandidateID, app.CandidateName, app.Role, app.CoverLetter,
		app.PortfolioURL, app.PortfolioDomain, string(app.Status), app.CreatedAt)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

func (db *DB) GetApplication(ctx context.Context, id string) (*domain.Application, error) {
	var app domain.Application
	var status string
	err := db.Pool.QueryRow(ctx, `
		SELECT id, candidate_id, candidate_name, role, cover_letter,
			portfolio_url, portfolio_domain, status, created_at
		FROM applications WHERE id = $1
	`, id).Scan(&app.ID, &app.CandidateID, &app.CandidateName, &app.Role, &app.CoverLetter,
		&app.PortfolioURL, &app.PortfolioDomain, &status, &app.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	app.Status = domain.ApplicationStatus(status)
	return &app, nil
}

func (db *DB) UpdateApplicationStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	tag, err := db.Pool.Exec(ctx, `UPDATE applications SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
