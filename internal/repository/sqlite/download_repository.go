package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"studyvault/internal/domain"
	"studyvault/internal/repository"
)

const createDownloadsTable = `
CREATE TABLE IF NOT EXISTS downloads (
	id TEXT PRIMARY KEY,
	file_id TEXT NOT NULL REFERENCES files(id),
	user_id TEXT NOT NULL REFERENCES accounts(id),
	downloaded_at DATETIME NOT NULL
);
`

type DownloadRepository struct {
	db *sql.DB
}

func NewDownloadRepository(db *sql.DB) repository.DownloadRepository {
	return &DownloadRepository{db: db}
}

func (r *DownloadRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createDownloadsTable); err != nil {
		return fmt.Errorf("create downloads table: %w", err)
	}
	return nil
}

func (r *DownloadRepository) Create(ctx context.Context, download *domain.Download) error {
	if download.DownloadedAt.IsZero() {
		download.DownloadedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO downloads (id, file_id, user_id, downloaded_at)
VALUES (?, ?, ?, ?)`,
		download.ID,
		download.FileID,
		download.UserID,
		download.DownloadedAt,
	)
	if err != nil {
		return fmt.Errorf("insert download: %w", translateErr(err))
	}
	return nil
}

func (r *DownloadRepository) ListByUser(ctx context.Context, userID string) ([]domain.Download, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, file_id, user_id, downloaded_at
FROM downloads
WHERE user_id = ?
ORDER BY downloaded_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list downloads: %w", err)
	}
	defer rows.Close()

	var downloads []domain.Download
	for rows.Next() {
		var d domain.Download
		if err := rows.Scan(&d.ID, &d.FileID, &d.UserID, &d.DownloadedAt); err != nil {
			return nil, fmt.Errorf("scan download: %w", err)
		}
		downloads = append(downloads, d)
	}
	return downloads, rows.Err()
}
