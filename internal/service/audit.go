package service

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/store"
)

// AuditService exposes the administrative change log.
type AuditService interface {
	// Append records an action attributed to actor. Entries receive a
	// strictly increasing, gap-free sequence id.
	Append(ctx context.Context, actor, action string) (*domain.AuditEntry, error)

	// List pages through entries in sequence order, starting after
	// afterSeq. A limit of 0 or below returns everything remaining.
	List(ctx context.Context, afterSeq int64, limit int) ([]domain.AuditEntry, error)
}

type auditService struct {
	audit store.Audit
}

// NewAuditService creates a new AuditService instance
func NewAuditService(s *store.Store) AuditService {
	return &auditService{audit: s.Audit}
}

func (s *auditService) Append(ctx context.Context, actor, action string) (*domain.AuditEntry, error) {
	if actor == "" {
		actor = domain.UnknownActor
	}
	return s.audit.Append(ctx, actor, action)
}

func (s *auditService) List(ctx context.Context, afterSeq int64, limit int) ([]domain.AuditEntry, error) {
	return s.audit.List(ctx, afterSeq, limit)
}
