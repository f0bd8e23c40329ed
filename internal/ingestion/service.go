// Package ingestion runs the upload pipeline: decode the spreadsheet, plan a
// schema, provision a table, load the rows, store the raw file, and append
// the upload log entry that publishes the data set.
package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"time"

	"sheetdrop/internal/decoder"
	"sheetdrop/internal/domain"
	"sheetdrop/internal/repository"
	"sheetdrop/internal/schema"
	"sheetdrop/internal/storage"
)

// previewLimit caps the number of loaded rows echoed back to the client.
const previewLimit = 20

// Service ingests spreadsheet uploads into per-upload tables.
type Service struct {
	datasets repository.DatasetRepository
	uploads  repository.UploadLogRepository
	blobs    storage.BlobStore
}

// NewService creates a new ingestion service. blobs may be nil when object
// storage is not configured; the retrieval URL is then omitted.
func NewService(
	datasets repository.DatasetRepository,
	uploads repository.UploadLogRepository,
	blobs storage.BlobStore,
) *Service {
	return &Service{
		datasets: datasets,
		uploads:  uploads,
		blobs:    blobs,
	}
}

// Result describes a completed ingestion.
type Result struct {
	TableName string
	RowsCount int
	Preview   []map[string]string
	FileURL   *string
}

// Ingest reads the uploaded file and runs the full pipeline. The upload log
// entry is written last and is the publish point: a data set only becomes
// visible to the read API once its entry exists. A log write failure after a
// successful load is a degraded success, not an ingestion failure.
func (s *Service) Ingest(ctx context.Context, fileName string, data io.Reader) (Result, error) {
	if data == nil {
		return Result{}, fmt.Errorf("data reader is required")
	}

	payload, err := io.ReadAll(data)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(payload) == 0 {
		return Result{}, decoder.ErrNoDataRows
	}

	table, err := decoder.Decode(fileName, payload)
	if err != nil {
		return Result{}, err
	}

	columns, err := schema.PlanColumns(table.Headers)
	if err != nil {
		return Result{}, err
	}

	tableName := schema.NewTableName()
	if err := s.datasets.Provision(ctx, tableName, columns); err != nil {
		return Result{}, err
	}

	inserted, err := s.datasets.InsertRows(ctx, tableName, columns, table.Rows)
	if err != nil {
		return Result{RowsCount: inserted}, err
	}

	fileURL := s.storeBlob(ctx, fileName, payload)

	rec := domain.UploadRecord{
		FileName:  fileName,
		FileURL:   fileURL,
		TableName: tableName,
		RowCount:  inserted,
	}
	if _, err := s.uploads.Record(ctx, rec); err != nil {
		// The rows are already durable; the data set simply stays
		// unpublished until the log write is retried.
		slog.Warn("upload log write failed",
			"table", tableName,
			"file", fileName,
			"error", err,
		)
	}

	return Result{
		TableName: tableName,
		RowsCount: inserted,
		Preview:   buildPreview(columns, table.Rows),
		FileURL:   fileURL,
	}, nil
}

// storeBlob uploads the raw file bytes for later retrieval. Blob storage is
// an independent side channel; its failure only drops the URL.
func (s *Service) storeBlob(ctx context.Context, fileName string, payload []byte) *string {
	if s.blobs == nil {
		return nil
	}

	key := fmt.Sprintf("uploads/%d_%s", time.Now().UnixMilli(), fileName)
	contentType := mime.TypeByExtension(filepath.Ext(fileName))

	url, err := s.blobs.Upload(ctx, key, payload, contentType)
	if err != nil {
		slog.Warn("blob store upload failed",
			"file", fileName,
			"error", err,
		)
		return nil
	}

	return &url
}

func buildPreview(columns []string, rows [][]string) []map[string]string {
	limit := previewLimit
	if len(rows) < limit {
		limit = len(rows)
	}

	preview := make([]map[string]string, 0, limit)
	for _, row := range rows[:limit] {
		record := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(row) {
				record[col] = row[i]
			} else {
				record[col] = ""
			}
		}
		preview = append(preview, record)
	}

	return preview
}
