package repository

import (
	"context"

	"sheetdrop/internal/domain"
)

// DatasetRepository provisions and reads the per-upload data tables.
type DatasetRepository interface {
	// Provision creates a new table with a synthetic bigserial id column plus
	// one text column per identifier, in order. A pre-existing table name
	// fails with domain.ErrTableExists.
	Provision(ctx context.Context, tableName string, columns []string) error

	// InsertRows loads every row in source order so the synthetic id reflects
	// that order ascending. On failure it returns the rows inserted so far
	// inside a *domain.LoadError; already-inserted rows are not rolled back.
	InsertRows(ctx context.Context, tableName string, columns []string, rows [][]string) (int, error)

	// Columns returns the table's column identifiers in definition order,
	// excluding the synthetic id column.
	Columns(ctx context.Context, tableName string) ([]string, error)

	// CountRows returns the exact number of rows currently in the table.
	CountRows(ctx context.Context, tableName string) (int64, error)

	// FetchPage reads the window [offset, offset+limit) ordered by the
	// synthetic id ascending.
	FetchPage(ctx context.Context, tableName string, limit, offset int) ([]map[string]any, error)
}

// UploadLogRepository is the append-only registry of completed uploads.
type UploadLogRepository interface {
	Record(ctx context.Context, rec domain.UploadRecord) (domain.UploadRecord, error)
	List(ctx context.Context) ([]domain.UploadRecord, error)
	Get(ctx context.Context, id int64) (domain.UploadRecord, error)
}

// LoginRepository checks credentials against the fixed logins table.
type LoginRepository interface {
	Verify(ctx context.Context, username, password string) (bool, error)
}
