// Package query resolves upload ids to their provisioned tables and serves
// offset-based pages of rows.
package query

import (
	"context"
	"fmt"

	"sheetdrop/internal/domain"
	"sheetdrop/internal/repository"
)

const (
	// DefaultLimit applies when the caller does not specify a page size.
	DefaultLimit = 200

	// MaxLimit caps the page size; larger requests are silently clamped.
	MaxLimit = 1000
)

// Page is one window over a provisioned table, plus its column metadata and
// the exact total row count.
type Page struct {
	TableName string
	Columns   []string
	Rows      []map[string]any
	Total     int64
}

// Service reads provisioned tables through the upload log.
type Service struct {
	uploads  repository.UploadLogRepository
	datasets repository.DatasetRepository
}

// NewService creates a new query service.
func NewService(uploads repository.UploadLogRepository, datasets repository.DatasetRepository) *Service {
	return &Service{
		uploads:  uploads,
		datasets: datasets,
	}
}

// ListUploads returns every logged upload, newest first.
func (s *Service) ListUploads(ctx context.Context) ([]domain.UploadRecord, error) {
	return s.uploads.List(ctx)
}

// FetchPage resolves the upload id via the log and returns the row window
// [offset, offset+limit) ordered by the synthetic id ascending. limit is
// clamped to [0, MaxLimit]; a negative offset becomes 0. Columns come from
// the table's schema, not from the returned rows, so an empty page still
// carries the full column list.
func (s *Service) FetchPage(ctx context.Context, uploadID int64, limit, offset int) (Page, error) {
	rec, err := s.uploads.Get(ctx, uploadID)
	if err != nil {
		return Page{}, err
	}

	if limit < 0 {
		limit = 0
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	columns, err := s.datasets.Columns(ctx, rec.TableName)
	if err != nil {
		return Page{}, fmt.Errorf("failed to resolve columns: %w", err)
	}

	total, err := s.datasets.CountRows(ctx, rec.TableName)
	if err != nil {
		return Page{}, fmt.Errorf("failed to count rows: %w", err)
	}

	rows, err := s.datasets.FetchPage(ctx, rec.TableName, limit, offset)
	if err != nil {
		return Page{}, fmt.Errorf("failed to fetch page: %w", err)
	}

	return Page{
		TableName: rec.TableName,
		Columns:   columns,
		Rows:      rows,
		Total:     total,
	}, nil
}
