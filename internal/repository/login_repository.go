package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type loginRepository struct {
	pool *pgxpool.Pool
}

// NewLoginRepository wires a repository backed by pgxpool.
func NewLoginRepository(pool *pgxpool.Pool) LoginRepository {
	return &loginRepository{pool: pool}
}

func (r *loginRepository) Verify(ctx context.Context, username, password string) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(
		ctx,
		`SELECT EXISTS (
			SELECT 1 FROM logins WHERE username = $1 AND password = $2
		 )`,
		username,
		password,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("failed to verify credentials: %w", err)
	}

	return ok, nil
}
