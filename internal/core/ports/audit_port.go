package ports

import (
	"context"

	"github.com/ybenkirane/autopart_inventory_system/internal/core/domain"
)

// AuditLogPort is the append-only audit sink, queryable per entity in
// chronological ascending order.
type AuditLogPort interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
	ListByEntity(ctx context.Context, entityType string, entityID int64) ([]domain.AuditEntry, error)
}
