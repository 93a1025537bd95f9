package repository

import (
	"context"

	"studyvault/internal/domain"
)

// CollegeRepository defines persistence operations for College entities.
type CollegeRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, college *domain.College) error
	List(ctx context.Context) ([]domain.College, error)
	GetByID(ctx context.Context, id string) (*domain.College, error)
	GetBySlug(ctx context.Context, slug string) (*domain.College, error)
	Count(ctx context.Context) (int64, error)
}

// DepartmentRepository defines persistence operations for Department entities.
type DepartmentRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, department *domain.Department) error
	List(ctx context.Context) ([]domain.Department, error)
	ListByCollege(ctx context.Context, collegeID string) ([]domain.Department, error)
	GetByID(ctx context.Context, id string) (*domain.Department, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Department, error)
	Count(ctx context.Context) (int64, error)
}

// CourseRepository defines persistence operations for Course entities.
type CourseRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, course *domain.Course) error
	List(ctx context.Context) ([]domain.Course, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]domain.Course, error)
	ListByDepartmentLevel(ctx context.Context, departmentID string, level int) ([]domain.Course, error)
	GetByID(ctx context.Context, id string) (*domain.Course, error)
	GetByCode(ctx context.Context, departmentID, code string) (*domain.Course, error)
}
