package repository

import (
	"context"

	"studyvault/internal/domain"
)

// FileRepository defines persistence operations for uploaded file metadata.
type FileRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, file *domain.File) error
	List(ctx context.Context) ([]domain.File, error)
	ListByCourse(ctx context.Context, courseID string) ([]domain.File, error)
	GetByID(ctx context.Context, id string) (*domain.File, error)
	IncrementDownloadCount(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// DownloadRepository records which account fetched which file.
type DownloadRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, download *domain.Download) error
	ListByUser(ctx context.Context, userID string) ([]domain.Download, error)
}
