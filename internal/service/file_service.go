package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"studyvault/internal/domain"
	"studyvault/internal/repository"
)

// UploadInput is the metadata of a new study material. The archive records
// metadata and a synthetic URL only; it never persists file bytes.
type UploadInput struct {
	DepartmentID string
	Level        int
	CourseCode   string
	CourseTitle  string
	Title        string
	Description  string
	FileName     string
	FileType     string
	FileSize     int64
}

// FileService handles uploads, downloads and per-user download history.
type FileService interface {
	Upload(ctx context.Context, userID string, input UploadInput) (*domain.File, error)
	FilesByCourse(ctx context.Context, courseID string) ([]domain.File, error)
	FileByID(ctx context.Context, id string) (*domain.File, error)

	// Download records that userID fetched the file and bumps its counter,
	// returning the file with the fresh count.
	Download(ctx context.Context, fileID, userID string) (*domain.File, error)
	UserDownloads(ctx context.Context, userID string) ([]domain.Download, error)
}

type fileService struct {
	files     repository.FileRepository
	downloads repository.DownloadRepository
	catalog   CatalogService
}

func NewFileService(files repository.FileRepository, downloads repository.DownloadRepository, catalog CatalogService) FileService {
	return &fileService{
		files:     files,
		downloads: downloads,
		catalog:   catalog,
	}
}

func (s *fileService) Upload(ctx context.Context, userID string, input UploadInput) (*domain.File, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.FileName = strings.TrimSpace(input.FileName)
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if input.Title == "" {
		return nil, errors.New("title is required")
	}
	if input.FileName == "" {
		return nil, errors.New("file name is required")
	}

	course, err := s.catalog.EnsureCourse(ctx, input.DepartmentID, input.CourseCode, input.CourseTitle, input.Level)
	if err != nil {
		return nil, err
	}

	file := &domain.File{
		ID:       uuid.NewString(),
		CourseID: course.ID,
		UserID:   userID,
		Title:    input.Title,
		FileName: input.FileName,
		FileType: input.FileType,
		FileSize: input.FileSize,
	}
	file.FileURL = fmt.Sprintf("/files/%s/%s", file.ID, url.PathEscape(file.FileName))

	if err := s.files.Create(ctx, file); err != nil {
		return nil, fmt.Errorf("record file: %w", err)
	}
	return file, nil
}

func (s *fileService) FilesByCourse(ctx context.Context, courseID string) ([]domain.File, error) {
	if _, err := s.catalog.CourseByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.files.ListByCourse(ctx, courseID)
}

func (s *fileService) FileByID(ctx context.Context, id string) (*domain.File, error) {
	file, err := s.files.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return file, nil
}

func (s *fileService) Download(ctx context.Context, fileID, userID string) (*domain.File, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	file, err := s.FileByID(ctx, fileID)
	if err != nil {
		return nil, err
	}

	download := &domain.Download{
		ID:     uuid.NewString(),
		FileID: file.ID,
		UserID: userID,
	}
	if err := s.downloads.Create(ctx, download); err != nil {
		return nil, fmt.Errorf("record download: %w", err)
	}
	if err := s.files.IncrementDownloadCount(ctx, file.ID); err != nil {
		return nil, fmt.Errorf("increment download count: %w", err)
	}

	file.DownloadCount++
	return file, nil
}

func (s *fileService) UserDownloads(ctx context.Context, userID string) ([]domain.Download, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	return s.downloads.ListByUser(ctx, userID)
}
