package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"studyvault/internal/domain"
	"studyvault/internal/repository"
)

const createCollegesTable = `
CREATE TABLE IF NOT EXISTS colleges (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	slug TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT ''
);
`

type CollegeRepository struct {
	db *sql.DB
}

func NewCollegeRepository(db *sql.DB) repository.CollegeRepository {
	return &CollegeRepository{db: db}
}

func (r *CollegeRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createCollegesTable); err != nil {
		return fmt.Errorf("create colleges table: %w", err)
	}
	return nil
}

func (r *CollegeRepository) Create(ctx context.Context, college *domain.College) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO colleges (id, name, slug, description)
VALUES (?, ?, ?, ?)`,
		college.ID,
		college.Name,
		college.Slug,
		college.Description,
	)
	if err != nil {
		return fmt.Errorf("insert college: %w", translateErr(err))
	}
	return nil
}

func (r *CollegeRepository) List(ctx context.Context) ([]domain.College, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, slug, description FROM colleges ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list colleges: %w", err)
	}
	defer rows.Close()

	var colleges []domain.College
	for rows.Next() {
		var c domain.College
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description); err != nil {
			return nil, fmt.Errorf("scan college: %w", err)
		}
		colleges = append(colleges, c)
	}
	return colleges, rows.Err()
}

func (r *CollegeRepository) GetByID(ctx context.Context, id string) (*domain.College, error) {
	return scanCollege(r.db.QueryRowContext(ctx, `SELECT id, name, slug, description FROM colleges WHERE id = ?`, id))
}

func (r *CollegeRepository) GetBySlug(ctx context.Context, slug string) (*domain.College, error) {
	return scanCollege(r.db.QueryRowContext(ctx, `SELECT id, name, slug, description FROM colleges WHERE slug = ?`, slug))
}

func (r *CollegeRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM colleges`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count colleges: %w", err)
	}
	return n, nil
}

func scanCollege(row *sql.Row) (*domain.College, error) {
	var c domain.College
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan college: %w", err)
	}
	return &c, nil
}
