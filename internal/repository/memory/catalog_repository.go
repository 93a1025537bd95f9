package memory

import (
	"context"
	"sort"
	"sync"

	"studyvault/internal/domain"
	"studyvault/internal/repository"
)

type CollegeRepository struct {
	mu       sync.RWMutex
	colleges map[string]domain.College
}

func NewCollegeRepository() repository.CollegeRepository {
	return &CollegeRepository{colleges: make(map[string]domain.College)}
}

func (r *CollegeRepository) Init(ctx context.Context) error { return nil }

func (r *CollegeRepository) Create(ctx context.Context, college *domain.College) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.colleges {
		if c.Slug == college.Slug {
			return repository.ErrDuplicate
		}
	}
	r.colleges[college.ID] = *college
	return nil
}

func (r *CollegeRepository) List(ctx context.Context) ([]domain.College, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	colleges := make([]domain.College, 0, len(r.colleges))
	for _, c := range r.colleges {
		colleges = append(colleges, c)
	}
	sort.Slice(colleges, func(i, j int) bool { return colleges[i].Name < colleges[j].Name })
	return colleges, nil
}

func (r *CollegeRepository) GetByID(ctx context.Context, id string) (*domain.College, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.colleges[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *CollegeRepository) GetBySlug(ctx context.Context, slug string) (*domain.College, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.colleges {
		if c.Slug == slug {
			college := c
			return &college, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *CollegeRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.colleges)), nil
}

type DepartmentRepository struct {
	mu          sync.RWMutex
	departments map[string]domain.Department
}

func NewDepartmentRepository() repository.DepartmentRepository {
	return &DepartmentRepository{departments: make(map[string]domain.Department)}
}

func (r *DepartmentRepository) Init(ctx context.Context) error { return nil }

func (r *DepartmentRepository) Create(ctx context.Context, department *domain.Department) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.departments {
		if d.Slug == department.Slug {
			return repository.ErrDuplicate
		}
	}
	r.departments[department.ID] = *department
	return nil
}

func (r *DepartmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	return r.filter(func(domain.Department) bool { return true }), nil
}

func (r *DepartmentRepository) ListByCollege(ctx context.Context, collegeID string) ([]domain.Department, error) {
	return r.filter(func(d domain.Department) bool { return d.CollegeID == collegeID }), nil
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id string) (*domain.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.departments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (r *DepartmentRepository) GetBySlug(ctx context.Context, slug string) (*domain.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.departments {
		if d.Slug == slug {
			department := d
			return &department, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *DepartmentRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.departments)), nil
}

func (r *DepartmentRepository) filter(match func(domain.Department) bool) []domain.Department {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var departments []domain.Department
	for _, d := range r.departments {
		if match(d) {
			departments = append(departments, d)
		}
	}
	sort.Slice(departments, func(i, j int) bool { return departments[i].Name < departments[j].Name })
	return departments
}

type CourseRepository struct {
	mu      sync.RWMutex
	courses map[string]domain.Course
}

func NewCourseRepository() repository.CourseRepository {
	return &CourseRepository{courses: make(map[string]domain.Course)}
}

func (r *CourseRepository) Init(ctx context.Context) error { return nil }

func (r *CourseRepository) Create(ctx context.Context, course *domain.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.courses {
		if c.DepartmentID == course.DepartmentID && c.Code == course.Code {
			return repository.ErrDuplicate
		}
	}
	r.courses[course.ID] = *course
	return nil
}

func (r *CourseRepository) List(ctx context.Context) ([]domain.Course, error) {
	return r.filter(func(domain.Course) bool { return true }), nil
}

func (r *CourseRepository) ListByDepartment(ctx context.Context, departmentID string) ([]domain.Course, error) {
	return r.filter(func(c domain.Course) bool { return c.DepartmentID == departmentID }), nil
}

func (r *CourseRepository) ListByDepartmentLevel(ctx context.Context, departmentID string, level int) ([]domain.Course, error) {
	return r.filter(func(c domain.Course) bool {
		return c.DepartmentID == departmentID && c.Level == level
	}), nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.courses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *CourseRepository) GetByCode(ctx context.Context, departmentID, code string) (*domain.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.courses {
		if c.DepartmentID == departmentID && c.Code == code {
			course := c
			return &course, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *CourseRepository) filter(match func(domain.Course) bool) []domain.Course {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var courses []domain.Course
	for _, c := range r.courses {
		if match(c) {
			courses = append(courses, c)
		}
	}
	sort.Slice(courses, func(i, j int) bool {
		if courses[i].Level != courses[j].Level {
			return courses[i].Level < courses[j].Level
		}
		return courses[i].Code < courses[j].Code
	})
	return courses
}
