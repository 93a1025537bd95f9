package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"studyvault/internal/domain"
	"studyvault/internal/repository"
)

const createCoursesTable = `
CREATE TABLE IF NOT EXISTS courses (
	id TEXT PRIMARY KEY,
	department_id TEXT NOT NULL REFERENCES departments(id),
	code TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	level INTEGER NOT NULL,
	semester TEXT NOT NULL DEFAULT '',
	UNIQUE (department_id, code)
);
`

type CourseRepository struct {
	db *sql.DB
}

func NewCourseRepository(db *sql.DB) repository.CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createCoursesTable); err != nil {
		return fmt.Errorf("create courses table: %w", err)
	}
	return nil
}

func (r *CourseRepository) Create(ctx context.Context, course *domain.Course) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO courses (id, department_id, code, title, description, level, semester)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		course.ID,
		course.DepartmentID,
		course.Code,
		course.Title,
		course.Description,
		course.Level,
		course.Semester,
	)
	if err != nil {
		return fmt.Errorf("insert course: %w", translateErr(err))
	}
	return nil
}

const selectCourse = `SELECT id, department_id, code, title, description, level, semester FROM courses `

func (r *CourseRepository) List(ctx context.Context) ([]domain.Course, error) {
	return r.queryCourses(ctx, selectCourse+`ORDER BY code`)
}

func (r *CourseRepository) ListByDepartment(ctx context.Context, departmentID string) ([]domain.Course, error) {
	return r.queryCourses(ctx, selectCourse+`WHERE department_id = ? ORDER BY level, code`, departmentID)
}

func (r *CourseRepository) ListByDepartmentLevel(ctx context.Context, departmentID string, level int) ([]domain.Course, error) {
	return r.queryCourses(ctx, selectCourse+`WHERE department_id = ? AND level = ? ORDER BY code`, departmentID, level)
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	return scanCourse(r.db.QueryRowContext(ctx, selectCourse+`WHERE id = ?`, id))
}

func (r *CourseRepository) GetByCode(ctx context.Context, departmentID, code string) (*domain.Course, error) {
	return scanCourse(r.db.QueryRowContext(ctx, selectCourse+`WHERE department_id = ? AND code = ?`, departmentID, code))
}

func (r *CourseRepository) queryCourses(ctx context.Context, query string, args ...any) ([]domain.Course, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		var c domain.Course
		if err := rows.Scan(&c.ID, &c.DepartmentID, &c.Code, &c.Title, &c.Description, &c.Level, &c.Semester); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func scanCourse(row *sql.Row) (*domain.Course, error) {
	var c domain.Course
	if err := row.Scan(&c.ID, &c.DepartmentID, &c.Code, &c.Title, &c.Description, &c.Level, &c.Semester); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan course: %w", err)
	}
	return &c, nil
}
