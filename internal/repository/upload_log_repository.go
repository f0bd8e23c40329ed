package repository

import (
	"context"
	"errors"
	"fmt"

	"sheetdrop/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type uploadLogRepository struct {
	pool *pgxpool.Pool
}

// NewUploadLogRepository wires a repository backed by pgxpool.
func NewUploadLogRepository(pool *pgxpool.Pool) UploadLogRepository {
	return &uploadLogRepository{pool: pool}
}

func (r *uploadLogRepository) Record(ctx context.Context, rec domain.UploadRecord) (domain.UploadRecord, error) {
	var fileURL any
	if rec.FileURL != nil {
		fileURL = *rec.FileURL
	}

	var uploadedAt pgtype.Timestamptz
	err := r.pool.QueryRow(
		ctx,
		`INSERT INTO uploads_log (file_name, file_url, table_name, row_count)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, uploaded_at`,
		rec.FileName,
		fileURL,
		rec.TableName,
		rec.RowCount,
	).Scan(&rec.ID, &uploadedAt)
	if err != nil {
		return domain.UploadRecord{}, fmt.Errorf("failed to record upload: %w", err)
	}
	if uploadedAt.Valid {
		rec.UploadedAt = uploadedAt.Time
	}

	return rec, nil
}

func (r *uploadLogRepository) List(ctx context.Context) ([]domain.UploadRecord, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, file_name, file_url, table_name, row_count, uploaded_at
		 FROM uploads_log
		 ORDER BY uploaded_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	defer rows.Close()

	records := []domain.UploadRecord{}
	for rows.Next() {
		rec, err := scanUploadRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate uploads: %w", err)
	}

	return records, nil
}

func (r *uploadLogRepository) Get(ctx context.Context, id int64) (domain.UploadRecord, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, file_name, file_url, table_name, row_count, uploaded_at
		 FROM uploads_log
		 WHERE id = $1`,
		id,
	)

	rec, err := scanUploadRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UploadRecord{}, domain.ErrUploadNotFound
		}
		return domain.UploadRecord{}, err
	}

	return rec, nil
}

func scanUploadRecord(row pgx.Row) (domain.UploadRecord, error) {
	var (
		rec        domain.UploadRecord
		fileURL    pgtype.Text
		uploadedAt pgtype.Timestamptz
	)
	if err := row.Scan(
		&rec.ID,
		&rec.FileName,
		&fileURL,
		&rec.TableName,
		&rec.RowCount,
		&uploadedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UploadRecord{}, err
		}
		return domain.UploadRecord{}, fmt.Errorf("failed to scan upload record: %w", err)
	}

	if fileURL.Valid {
		value := fileURL.String
		rec.FileURL = &value
	}
	if uploadedAt.Valid {
		rec.UploadedAt = uploadedAt.Time
	}

	return rec, nil
}
