package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyvault/internal/domain"
	"studyvault/internal/repository/memory"
)

type fileFixture struct {
	files      FileService
	catalog    CatalogService
	department *domain.Department
}

func newFileFixture(t *testing.T) *fileFixture {
	t.Helper()
	catalog := newTestCatalog()
	return &fileFixture{
		files:      NewFileService(memory.NewFileRepository(), memory.NewDownloadRepository(), catalog),
		catalog:    catalog,
		department: seedDepartment(t, catalog),
	}
}

func uploadInput(departmentID string) UploadInput {
	return UploadInput{
		DepartmentID: departmentID,
		Level:        100,
		CourseCode:   "CSC101",
		CourseTitle:  "Intro to CS",
		Title:        "Week 1 Notes",
		FileName:     "week1 notes.pdf",
		FileType:     "application/pdf",
		FileSize:     1024,
	}
}

func TestUploadCreatesCourseAndFile(t *testing.T) {
	ctx := context.Background()
	f := newFileFixture(t)

	file, err := f.files.Upload(ctx, "user-1", uploadInput(f.department.ID))
	require.NoError(t, err)
	assert.Equal(t, "Week 1 Notes", file.Title)
	assert.Equal(t, "user-1", file.UserID)
	assert.False(t, file.Verified)
	assert.Zero(t, file.DownloadCount)
	assert.Contains(t, file.FileURL, "/files/"+file.ID+"/")
	assert.NotContains(t, file.FileURL, " ", "file name is path-escaped in the URL")

	course, err := f.catalog.CourseByID(ctx, file.CourseID)
	require.NoError(t, err)
	assert.Equal(t, "CSC101", course.Code)

	files, err := f.files.FilesByCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestUploadReusesExistingCourse(t *testing.T) {
	ctx := context.Background()
	f := newFileFixture(t)

	first, err := f.files.Upload(ctx, "user-1", uploadInput(f.department.ID))
	require.NoError(t, err)
	second, err := f.files.Upload(ctx, "user-2", uploadInput(f.department.ID))
	require.NoError(t, err)

	assert.Equal(t, first.CourseID, second.CourseID)
}

func TestUploadRequiresUser(t *testing.T) {
	ctx := context.Background()
	f := newFileFixture(t)

	_, err := f.files.Upload(ctx, "", uploadInput(f.department.ID))
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestUploadUnknownDepartment(t *testing.T) {
	ctx := context.Background()
	f := newFileFixture(t)

	_, err := f.files.Upload(ctx, "user-1", uploadInput("missing-department"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDownloadRecordsAndCounts(t *testing.T) {
	ctx := context.Background()
	f := newFileFixture(t)

	file, err := f.files.Upload(ctx, "user-1", uploadInput(f.department.ID))
	require.NoError(t, err)

	got, err := f.files.Download(ctx, file.ID, "user-2")
	require.NoError(t, err)
	assert.Equal(t, 1, got.DownloadCount)

	got, err = f.files.Download(ctx, file.ID, "user-2")
	require.NoError(t, err)
	assert.Equal(t, 2, got.DownloadCount)

	downloads, err := f.files.UserDownloads(ctx, "user-2")
	require.NoError(t, err)
	assert.Len(t, downloads, 2)

	none, err := f.files.UserDownloads(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDownloadUnknownFile(t *testing.T) {
	ctx := context.Background()
	f := newFileFixture(t)

	_, err := f.files.Download(ctx, "missing", "user-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatsCounts(t *testing.T) {
	ctx := context.Background()

	accounts := memory.NewAccountRepository()
	colleges := memory.NewCollegeRepository()
	departments := memory.NewDepartmentRepository()
	courses := memory.NewCourseRepository()
	filesRepo := memory.NewFileRepository()

	catalog := NewCatalogService(colleges, departments, courses)
	files := NewFileService(filesRepo, memory.NewDownloadRepository(), catalog)
	stats := NewStatsService(accounts, colleges, departments, filesRepo)

	college, err := catalog.CreateCollege(ctx, "College of Science", "science", "")
	require.NoError(t, err)
	department, err := catalog.CreateDepartment(ctx, college.ID, "MTH", "Mathematics", "mathematics")
	require.NoError(t, err)
	_, err = files.Upload(ctx, "user-1", UploadInput{
		DepartmentID: department.ID,
		Level:        100,
		CourseCode:   "MTH101",
		Title:        "Algebra Notes",
		FileName:     "algebra.pdf",
	})
	require.NoError(t, err)

	got, err := stats.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Colleges: 1, Departments: 1, Students: 0, Files: 1}, got)
}
