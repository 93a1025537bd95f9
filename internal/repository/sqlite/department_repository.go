package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"studyvault/internal/domain"
	"studyvault/internal/repository"
)

const createDepartmentsTable = `
CREATE TABLE IF NOT EXISTS departments (
	id TEXT PRIMARY KEY,
	college_id TEXT NOT NULL REFERENCES colleges(id),
	code TEXT NOT NULL,
	name TEXT NOT NULL,
	slug TEXT NOT NULL UNIQUE
);
`

type DepartmentRepository struct {
	db *sql.DB
}

func NewDepartmentRepository(db *sql.DB) repository.DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createDepartmentsTable); err != nil {
		return fmt.Errorf("create departments table: %w", err)
	}
	return nil
}

func (r *DepartmentRepository) Create(ctx context.Context, department *domain.Department) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO departments (id, college_id, code, name, slug)
VALUES (?, ?, ?, ?, ?)`,
		department.ID,
		department.CollegeID,
		department.Code,
		department.Name,
		department.Slug,
	)
	if err != nil {
		return fmt.Errorf("insert department: %w", translateErr(err))
	}
	return nil
}

const selectDepartment = `SELECT id, college_id, code, name, slug FROM departments `

func (r *DepartmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	return r.queryDepartments(ctx, selectDepartment+`ORDER BY name`)
}

func (r *DepartmentRepository) ListByCollege(ctx context.Context, collegeID string) ([]domain.Department, error) {
	return r.queryDepartments(ctx, selectDepartment+`WHERE college_id = ? ORDER BY name`, collegeID)
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id string) (*domain.Department, error) {
	return scanDepartment(r.db.QueryRowContext(ctx, selectDepartment+`WHERE id = ?`, id))
}

func (r *DepartmentRepository) GetBySlug(ctx context.Context, slug string) (*domain.Department, error) {
	return scanDepartment(r.db.QueryRowContext(ctx, selectDepartment+`WHERE slug = ?`, slug))
}

func (r *DepartmentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM departments`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count departments: %w", err)
	}
	return n, nil
}

func (r *DepartmentRepository) queryDepartments(ctx context.Context, query string, args ...any) ([]domain.Department, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var departments []domain.Department
	for rows.Next() {
		var d domain.Department
		if err := rows.Scan(&d.ID, &d.CollegeID, &d.Code, &d.Name, &d.Slug); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

func scanDepartment(row *sql.Row) (*domain.Department, error) {
	var d domain.Department
	if err := row.Scan(&d.ID, &d.CollegeID, &d.Code, &d.Name, &d.Slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan department: %w", err)
	}
	return &d, nil
}
