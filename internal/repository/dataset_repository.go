package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sheetdrop/internal/domain"
	"sheetdrop/internal/schema"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgErrDuplicateTable is the SQLSTATE postgres raises when CREATE TABLE hits
// an existing relation.
const pgErrDuplicateTable = "42P07"

// maxBindParams is the extended-protocol bind parameter ceiling; a multi-row
// INSERT uses one parameter per cell, so wide sheets need smaller batches.
const maxBindParams = 65535

// maxInsertBatch caps rows per multi-row INSERT for narrow sheets.
const maxInsertBatch = 500

// insertBatchSize returns the largest row batch whose cell count stays within
// the bind parameter ceiling.
func insertBatchSize(columnCount int) int {
	if columnCount <= 0 {
		return maxInsertBatch
	}
	size := maxBindParams / columnCount
	if size < 1 {
		return 1
	}
	if size > maxInsertBatch {
		return maxInsertBatch
	}
	return size
}

type datasetRepository struct {
	pool *pgxpool.Pool
}

// NewDatasetRepository wires a dataset repository backed by pgxpool.
func NewDatasetRepository(pool *pgxpool.Pool) DatasetRepository {
	return &datasetRepository{pool: pool}
}

func (r *datasetRepository) Provision(ctx context.Context, tableName string, columns []string) error {
	if err := schema.ValidateIdentifier(tableName); err != nil {
		return fmt.Errorf("invalid table name: %w", err)
	}
	if len(columns) == 0 {
		return fmt.Errorf("at least one column is required")
	}

	defs := make([]string, 0, len(columns)+1)
	defs = append(defs, schema.QuoteIdentifier(schema.ReservedIDColumn)+" BIGSERIAL PRIMARY KEY")
	for _, col := range columns {
		if err := schema.ValidateIdentifier(col); err != nil {
			return fmt.Errorf("invalid column name: %w", err)
		}
		defs = append(defs, schema.QuoteIdentifier(col)+" TEXT")
	}

	stmt := fmt.Sprintf("CREATE TABLE %s (%s)", schema.QuoteIdentifier(tableName), strings.Join(defs, ", "))

	if _, err := r.pool.Exec(ctx, stmt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrDuplicateTable {
			return fmt.Errorf("%w: %s", domain.ErrTableExists, tableName)
		}
		return fmt.Errorf("failed to provision table %s: %w", tableName, err)
	}

	return nil
}

func (r *datasetRepository) InsertRows(ctx context.Context, tableName string, columns []string, rows [][]string) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = schema.QuoteIdentifier(col)
	}
	prefix := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES ",
		schema.QuoteIdentifier(tableName),
		strings.Join(quoted, ", "),
	)

	batchSize := insertBatchSize(len(columns))
	inserted := 0
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		var b strings.Builder
		b.WriteString(prefix)
		args := make([]any, 0, len(batch)*len(columns))
		for i, row := range batch {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("(")
			for j := range columns {
				if j > 0 {
					b.WriteString(", ")
				}
				fmt.Fprintf(&b, "$%d", len(args)+1)
				var value string
				if j < len(row) {
					value = row[j]
				}
				args = append(args, value)
			}
			b.WriteString(")")
		}

		if _, err := r.pool.Exec(ctx, b.String(), args...); err != nil {
			return inserted, &domain.LoadError{
				Inserted: inserted,
				Err:      fmt.Errorf("failed to insert rows into %s: %w", tableName, err),
			}
		}
		inserted += len(batch)
	}

	return inserted, nil
}

func (r *datasetRepository) Columns(ctx context.Context, tableName string) ([]string, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT column_name
		 FROM information_schema.columns
		 WHERE table_schema = current_schema() AND table_name = $1
		 ORDER BY ordinal_position`,
		tableName,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", tableName, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan column name: %w", err)
		}
		if name == schema.ReservedIDColumn {
			continue
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate columns: %w", err)
	}
	if columns == nil {
		return nil, fmt.Errorf("table %s has no columns", tableName)
	}

	return columns, nil
}

func (r *datasetRepository) CountRows(ctx context.Context, tableName string) (int64, error) {
	if err := schema.ValidateIdentifier(tableName); err != nil {
		return 0, fmt.Errorf("invalid table name: %w", err)
	}

	var count int64
	stmt := fmt.Sprintf("SELECT COUNT(*) FROM %s", schema.QuoteIdentifier(tableName))
	if err := r.pool.QueryRow(ctx, stmt).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows of %s: %w", tableName, err)
	}

	return count, nil
}

func (r *datasetRepository) FetchPage(ctx context.Context, tableName string, limit, offset int) ([]map[string]any, error) {
	if err := schema.ValidateIdentifier(tableName); err != nil {
		return nil, fmt.Errorf("invalid table name: %w", err)
	}

	stmt := fmt.Sprintf(
		"SELECT * FROM %s ORDER BY %s ASC LIMIT $1 OFFSET $2",
		schema.QuoteIdentifier(tableName),
		schema.QuoteIdentifier(schema.ReservedIDColumn),
	)

	rows, err := r.pool.Query(ctx, stmt, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query page of %s: %w", tableName, err)
	}
	defer rows.Close()

	page := []map[string]any{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		fields := rows.FieldDescriptions()
		record := make(map[string]any, len(fields))
		for i, field := range fields {
			if i < len(values) {
				record[field.Name] = values[i]
			}
		}
		page = append(page, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate page rows: %w", err)
	}

	return page, nil
}
