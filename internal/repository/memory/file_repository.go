package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"studyvault/internal/domain"
	"studyvault/internal/repository"
)

type FileRepository struct {
	mu    sync.RWMutex
	files map[string]domain.File
}

func NewFileRepository() repository.FileRepository {
	return &FileRepository{files: make(map[string]domain.File)}
}

func (r *FileRepository) Init(ctx context.Context) error { return nil }

func (r *FileRepository) Create(ctx context.Context, file *domain.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.files[file.ID]; ok {
		return repository.ErrDuplicate
	}
	if file.UploadedAt.IsZero() {
		file.UploadedAt = time.Now().UTC()
	}
	r.files[file.ID] = *file
	return nil
}

func (r *FileRepository) List(ctx context.Context) ([]domain.File, error) {
	return r.filter(func(domain.File) bool { return true }), nil
}

func (r *FileRepository) ListByCourse(ctx context.Context, courseID string) ([]domain.File, error) {
	return r.filter(func(f domain.File) bool { return f.CourseID == courseID }), nil
}

func (r *FileRepository) GetByID(ctx context.Context, id string) (*domain.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.files[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &f, nil
}

func (r *FileRepository) IncrementDownloadCount(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.files[id]
	if !ok {
		return repository.ErrNotFound
	}
	f.DownloadCount++
	r.files[id] = f
	return nil
}

func (r *FileRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.files)), nil
}

func (r *FileRepository) filter(match func(domain.File) bool) []domain.File {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var files []domain.File
	for _, f := range r.files {
		if match(f) {
			files = append(files, f)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].UploadedAt.After(files[j].UploadedAt) })
	return files
}

type DownloadRepository struct {
	mu        sync.RWMutex
	downloads []domain.Download
}

func NewDownloadRepository() repository.DownloadRepository {
	return &DownloadRepository{}
}

func (r *DownloadRepository) Init(ctx context.Context) error { return nil }

func (r *DownloadRepository) Create(ctx context.Context, download *domain.Download) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if download.DownloadedAt.IsZero() {
		download.DownloadedAt = time.Now().UTC()
	}
	r.downloads = append(r.downloads, *download)
	return nil
}

func (r *DownloadRepository) ListByUser(ctx context.Context, userID string) ([]domain.Download, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var downloads []domain.Download
	for _, d := range r.downloads {
		if d.UserID == userID {
			downloads = append(downloads, d)
		}
	}
	sort.Slice(downloads, func(i, j int) bool {
		return downloads[i].DownloadedAt.After(downloads[j].DownloadedAt)
	})
	return downloads, nil
}
