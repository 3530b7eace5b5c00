package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

type salesStore struct {
	pool *pgxpool.Pool
}

func (s *salesStore) Record(ctx context.Context, amountCents int64) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO sales (amount_cents) VALUES ($1)`, amountCents)
	if err != nil {
		return domain.Internal(err, "sales.record", "failed to record sale")
	}
	return nil
}

func (s *salesStore) Total(ctx context.Context) (int64, error) {
	var total int64
	err := s.pool.QueryRow(ctx, `SELECT coalesce(sum(amount_cents), 0) FROM sales`).Scan(&total)
	if err != nil {
		return 0, domain.Internal(err, "sales.total", "failed to sum sales")
	}
	return total, nil
}
