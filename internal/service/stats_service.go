package service

import (
	"context"
	"fmt"

	"studyvault/internal/repository"
)

// Stats is the landing-page summary of the archive.
type Stats struct {
	Colleges    int64 `json:"colleges"`
	Departments int64 `json:"departments"`
	Students    int64 `json:"students"`
	Files       int64 `json:"files"`
}

// StatsService aggregates record counts across the stores.
type StatsService interface {
	Stats(ctx context.Context) (Stats, error)
}

type statsService struct {
	accounts    repository.AccountRepository
	colleges    repository.CollegeRepository
	departments repository.DepartmentRepository
	files       repository.FileRepository
}

func NewStatsService(
	accounts repository.AccountRepository,
	colleges repository.CollegeRepository,
	departments repository.DepartmentRepository,
	files repository.FileRepository,
) StatsService {
	return &statsService{
		accounts:    accounts,
		colleges:    colleges,
		departments: departments,
		files:       files,
	}
}

func (s *statsService) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	var err error

	if stats.Colleges, err = s.colleges.Count(ctx); err != nil {
		return Stats{}, fmt.Errorf("count colleges: %w", err)
	}
	if stats.Departments, err = s.departments.Count(ctx); err != nil {
		return Stats{}, fmt.Errorf("count departments: %w", err)
	}
	if stats.Students, err = s.accounts.Count(ctx); err != nil {
		return Stats{}, fmt.Errorf("count accounts: %w", err)
	}
	if stats.Files, err = s.files.Count(ctx); err != nil {
		return Stats{}, fmt.Errorf("count files: %w", err)
	}
	return stats, nil
}
