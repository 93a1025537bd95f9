package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"studyvault/internal/domain"
	"studyvault/internal/repository"
)

// ErrConflict indicates a catalog record that already exists (slug or code taken).
var ErrConflict = errors.New("record already exists")

// CatalogService exposes the college → department → course hierarchy.
type CatalogService interface {
	CreateCollege(ctx context.Context, name, slug, description string) (*domain.College, error)
	Colleges(ctx context.Context) ([]domain.College, error)
	CollegeBySlug(ctx context.Context, slug string) (*domain.College, error)
	DepartmentsByCollegeSlug(ctx context.Context, slug string) ([]domain.Department, error)

	CreateDepartment(ctx context.Context, collegeID, code, name, slug string) (*domain.Department, error)
	DepartmentBySlug(ctx context.Context, slug string) (*domain.Department, error)
	CoursesByDepartmentSlug(ctx context.Context, slug string, level *int) ([]domain.Course, error)

	CreateCourse(ctx context.Context, departmentID, code, title, description string, level int, semester string) (*domain.Course, error)
	CourseByID(ctx context.Context, id string) (*domain.Course, error)

	// EnsureCourse finds the course by (department, code) or creates it,
	// converging under concurrent uploads for the same course.
	EnsureCourse(ctx context.Context, departmentID, code, title string, level int) (*domain.Course, error)
}

type catalogService struct {
	colleges    repository.CollegeRepository
	departments repository.DepartmentRepository
	courses     repository.CourseRepository
}

func NewCatalogService(
	colleges repository.CollegeRepository,
	departments repository.DepartmentRepository,
	courses repository.CourseRepository,
) CatalogService {
	return &catalogService{
		colleges:    colleges,
		departments: departments,
		courses:     courses,
	}
}

func (s *catalogService) CreateCollege(ctx context.Context, name, slug, description string) (*domain.College, error) {
	name = strings.TrimSpace(name)
	slug = normalizeSlug(slug)
	if name == "" || slug == "" {
		return nil, errors.New("college name and slug are required")
	}

	college := &domain.College{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(description),
	}
	if err := s.colleges.Create(ctx, college); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create college: %w", err)
	}
	return college, nil
}

func (s *catalogService) Colleges(ctx context.Context) ([]domain.College, error) {
	return s.colleges.List(ctx)
}

func (s *catalogService) CollegeBySlug(ctx context.Context, slug string) (*domain.College, error) {
	college, err := s.colleges.GetBySlug(ctx, normalizeSlug(slug))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return college, nil
}

func (s *catalogService) DepartmentsByCollegeSlug(ctx context.Context, slug string) ([]domain.Department, error) {
	college, err := s.CollegeBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.departments.ListByCollege(ctx, college.ID)
}

func (s *catalogService) CreateDepartment(ctx context.Context, collegeID, code, name, slug string) (*domain.Department, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	slug = normalizeSlug(slug)
	if collegeID == "" || code == "" || name == "" || slug == "" {
		return nil, errors.New("department college, code, name and slug are required")
	}

	if _, err := s.colleges.GetByID(ctx, collegeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	department := &domain.Department{
		ID:        uuid.NewString(),
		CollegeID: collegeID,
		Code:      code,
		Name:      name,
		Slug:      slug,
	}
	if err := s.departments.Create(ctx, department); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create department: %w", err)
	}
	return department, nil
}

func (s *catalogService) DepartmentBySlug(ctx context.Context, slug string) (*domain.Department, error) {
	department, err := s.departments.GetBySlug(ctx, normalizeSlug(slug))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return department, nil
}

func (s *catalogService) CoursesByDepartmentSlug(ctx context.Context, slug string, level *int) ([]domain.Course, error) {
	department, err := s.DepartmentBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if level != nil {
		return s.courses.ListByDepartmentLevel(ctx, department.ID, *level)
	}
	return s.courses.ListByDepartment(ctx, department.ID)
}

func (s *catalogService) CreateCourse(ctx context.Context, departmentID, code, title, description string, level int, semester string) (*domain.Course, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	title = strings.TrimSpace(title)
	if departmentID == "" || code == "" || title == "" {
		return nil, errors.New("course department, code and title are required")
	}

	if _, err := s.departments.GetByID(ctx, departmentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	course := &domain.Course{
		ID:           uuid.NewString(),
		DepartmentID: departmentID,
		Code:         code,
		Title:        title,
		Description:  strings.TrimSpace(description),
		Level:        level,
		Semester:     strings.TrimSpace(semester),
	}
	if err := s.courses.Create(ctx, course); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create course: %w", err)
	}
	return course, nil
}

func (s *catalogService) CourseByID(ctx context.Context, id string) (*domain.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *catalogService) EnsureCourse(ctx context.Context, departmentID, code, title string, level int) (*domain.Course, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, errors.New("course code is required")
	}
	if title = strings.TrimSpace(title); title == "" {
		title = code
	}

	course, err := s.courses.GetByCode(ctx, departmentID, code)
	if err == nil {
		return course, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("look up course: %w", err)
	}

	course, err = s.CreateCourse(ctx, departmentID, code, title, "", level, "")
	if err == nil {
		return course, nil
	}
	if errors.Is(err, ErrConflict) {
		// A concurrent upload created the same course first.
		return s.courses.GetByCode(ctx, departmentID, code)
	}
	return nil, err
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
