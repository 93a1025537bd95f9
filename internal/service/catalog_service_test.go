package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyvault/internal/domain"
	"studyvault/internal/repository/memory"
)

func newTestCatalog() CatalogService {
	return NewCatalogService(
		memory.NewCollegeRepository(),
		memory.NewDepartmentRepository(),
		memory.NewCourseRepository(),
	)
}

func seedDepartment(t *testing.T, catalog CatalogService) *domain.Department {
	t.Helper()
	ctx := context.Background()

	college, err := catalog.CreateCollege(ctx, "College of Engineering", "engineering", "")
	require.NoError(t, err)

	department, err := catalog.CreateDepartment(ctx, college.ID, "CSC", "Computer Science", "computer-science")
	require.NoError(t, err)
	return department
}

func TestCollegeLifecycle(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog()

	college, err := catalog.CreateCollege(ctx, "College of Engineering", "Engineering", "desc")
	require.NoError(t, err)
	assert.Equal(t, "engineering", college.Slug, "slug is normalized to lower case")

	_, err = catalog.CreateCollege(ctx, "Other", "engineering", "")
	assert.ErrorIs(t, err, ErrConflict)

	got, err := catalog.CollegeBySlug(ctx, "ENGINEERING")
	require.NoError(t, err)
	assert.Equal(t, college.ID, got.ID)

	_, err = catalog.CollegeBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDepartmentListingByCollege(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog()
	department := seedDepartment(t, catalog)

	departments, err := catalog.DepartmentsByCollegeSlug(ctx, "engineering")
	require.NoError(t, err)
	require.Len(t, departments, 1)
	assert.Equal(t, department.ID, departments[0].ID)

	_, err = catalog.DepartmentsByCollegeSlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateDepartmentRequiresCollege(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog()

	_, err := catalog.CreateDepartment(ctx, "missing-college", "CSC", "Computer Science", "csc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCoursesByDepartmentLevel(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog()
	department := seedDepartment(t, catalog)

	_, err := catalog.CreateCourse(ctx, department.ID, "CSC101", "Intro to CS", "", 100, "first")
	require.NoError(t, err)
	_, err = catalog.CreateCourse(ctx, department.ID, "CSC201", "Data Structures", "", 200, "first")
	require.NoError(t, err)

	all, err := catalog.CoursesByDepartmentSlug(ctx, "computer-science", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	level := 200
	filtered, err := catalog.CoursesByDepartmentSlug(ctx, "computer-science", &level)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "CSC201", filtered[0].Code)
}

func TestEnsureCourseFindsOrCreates(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog()
	department := seedDepartment(t, catalog)

	first, err := catalog.EnsureCourse(ctx, department.ID, "csc101", "Intro to CS", 100)
	require.NoError(t, err)
	assert.Equal(t, "CSC101", first.Code, "course code is canonicalized")

	// Same (department, code) converges on the existing course.
	second, err := catalog.EnsureCourse(ctx, department.ID, "CSC101", "Different Title", 100)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestEnsureCourseDefaultsTitleToCode(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog()
	department := seedDepartment(t, catalog)

	course, err := catalog.EnsureCourse(ctx, department.ID, "CSC305", "", 300)
	require.NoError(t, err)
	assert.Equal(t, "CSC305", course.Title)
}
