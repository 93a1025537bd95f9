package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"studyvault/internal/domain"
	"studyvault/internal/repository"
)

const createFilesTable = `
CREATE TABLE IF NOT EXISTS files (
	id TEXT PRIMARY KEY,
	course_id TEXT NOT NULL REFERENCES courses(id),
	user_id TEXT NOT NULL REFERENCES accounts(id),
	title TEXT NOT NULL,
	file_name TEXT NOT NULL,
	file_type TEXT NOT NULL,
	file_url TEXT NOT NULL,
	file_size INTEGER NOT NULL DEFAULT 0,
	verified INTEGER NOT NULL DEFAULT 0,
	download_count INTEGER NOT NULL DEFAULT 0,
	uploaded_at DATETIME NOT NULL
);
`

type FileRepository struct {
	db *sql.DB
}

func NewFileRepository(db *sql.DB) repository.FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createFilesTable); err != nil {
		return fmt.Errorf("create files table: %w", err)
	}
	return nil
}

func (r *FileRepository) Create(ctx context.Context, file *domain.File) error {
	if file.UploadedAt.IsZero() {
		file.UploadedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO files (id, course_id, user_id, title, file_name, file_type, file_url, file_size, verified, download_count, uploaded_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		file.ID,
		file.CourseID,
		file.UserID,
		file.Title,
		file.FileName,
		file.FileType,
		file.FileURL,
		file.FileSize,
		file.Verified,
		file.DownloadCount,
		file.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("insert file: %w", translateErr(err))
	}
	return nil
}

const selectFile = `
SELECT id, course_id, user_id, title, file_name, file_type, file_url, file_size, verified, download_count, uploaded_at
FROM files
`

func (r *FileRepository) List(ctx context.Context) ([]domain.File, error) {
	return r.queryFiles(ctx, selectFile+`ORDER BY uploaded_at DESC`)
}

func (r *FileRepository) ListByCourse(ctx context.Context, courseID string) ([]domain.File, error) {
	return r.queryFiles(ctx, selectFile+`WHERE course_id = ? ORDER BY uploaded_at DESC`, courseID)
}

func (r *FileRepository) GetByID(ctx context.Context, id string) (*domain.File, error) {
	row := r.db.QueryRowContext(ctx, selectFile+`WHERE id = ?`, id)

	var f domain.File
	if err := scanFileRow(row.Scan, &f); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return &f, nil
}

func (r *FileRepository) IncrementDownloadCount(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE files SET download_count = download_count + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("increment download count: %w", err)
	}
	return requireRow(res)
}

func (r *FileRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count files: %w", err)
	}
	return n, nil
}

func (r *FileRepository) queryFiles(ctx context.Context, query string, args ...any) ([]domain.File, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var files []domain.File
	for rows.Next() {
		var f domain.File
		if err := scanFileRow(rows.Scan, &f); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func scanFileRow(scan func(dest ...any) error, f *domain.File) error {
	return scan(
		&f.ID,
		&f.CourseID,
		&f.UserID,
		&f.Title,
		&f.FileName,
		&f.FileType,
		&f.FileURL,
		&f.FileSize,
		&f.Verified,
		&f.DownloadCount,
		&f.UploadedAt,
	)
}
