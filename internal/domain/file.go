package domain

import "time"

// File records the metadata of an uploaded study material. Only metadata and
// a synthetic URL are kept; the archive never stores file bytes.
type File struct {
	ID            string
	CourseID      string
	UserID        string
	Title         string
	FileName      string
	FileType      string
	FileURL       string
	FileSize      int64
	Verified      bool
	DownloadCount int
	UploadedAt    time.Time
}

// Download records that an account fetched a file.
type Download struct {
	ID           string
	FileID       string
	UserID       string
	DownloadedAt time.Time
}
