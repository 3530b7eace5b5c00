package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
	"storefront/internal/store"
)

type auditStore struct {
	pool *pgxpool.Pool
}

// Append allocates the sequence id and inserts the entry in one
// transaction. Either both happen or neither does, so the log never
// develops a gap even when an insert fails after allocation.
func (s *auditStore) Append(ctx context.Context, actor, action string) (*domain.AuditEntry, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.Unavailable(err, "audit.append", "audit storage unavailable")
	}
	defer tx.Rollback(ctx)

	entry := domain.AuditEntry{
		Timestamp: time.Now().UTC(),
		Actor:     actor,
		Action:    action,
	}

	if err := tx.QueryRow(ctx, nextSeqSQL, store.NamespaceAudit).Scan(&entry.SequenceID); err != nil {
		return nil, domain.Unavailable(err, "audit.append", "sequence allocation failed")
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO audit_log (sequence_id, ts, actor, action) VALUES ($1, $2, $3, $4)`,
		entry.SequenceID, entry.Timestamp, entry.Actor, entry.Action,
	)
	if err != nil {
		return nil, domain.Unavailable(err, "audit.append", "failed to write audit entry")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.Unavailable(err, "audit.append", "failed to commit audit entry")
	}
	return &entry, nil
}

func (s *auditStore) List(ctx context.Context, afterSeq int64, limit int) ([]domain.AuditEntry, error) {
	sql := `SELECT sequence_id, ts, actor, action FROM audit_log WHERE sequence_id > $1 ORDER BY sequence_id`
	args := []any{afterSeq}
	if limit > 0 {
		sql += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, domain.Internal(err, "audit.list", "failed to list audit entries")
	}
	defer rows.Close()

	var out []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.SequenceID, &e.Timestamp, &e.Actor, &e.Action); err != nil {
			return nil, domain.Internal(err, "audit.list", "failed to scan audit entry")
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "audit.list", "failed to read audit entries")
	}
	return out, nil
}
