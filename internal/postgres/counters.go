package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

type counterStore struct {
	pool *pgxpool.Pool
}

// nextSeq increments and returns the namespace counter using whatever
// querier it is handed, so audit appends can run it inside their own
// transaction. The upsert takes the row lock, which serializes concurrent
// allocators per namespace and keeps the sequence gap-free.
const nextSeqSQL = `
	INSERT INTO counters (namespace, value)
	VALUES ($1, 1)
	ON CONFLICT (namespace) DO UPDATE SET value = counters.value + 1
	RETURNING value`

func (s *counterStore) Next(ctx context.Context, namespace string) (int64, error) {
	var value int64
	if err := s.pool.QueryRow(ctx, nextSeqSQL, namespace).Scan(&value); err != nil {
		return 0, domain.Unavailable(err, "allocator.next", "counter storage unavailable")
	}
	return value, nil
}
