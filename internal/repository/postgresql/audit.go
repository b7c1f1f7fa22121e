package postgresql

import (
	"context"
	"fmt"

	"github.com/sentryforce/guard-payroll/internal/domain/audit"
	"github.com/sentryforce/guard-payroll/internal/pkg/database"
)

type auditRepositoryImpl struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.AuditRepository {
	return &auditRepositoryImpl{db: db}
}

// Create implements audit.AuditRepository.
func (r *auditRepositoryImpl) Create(ctx context.Context, entry audit.Entry) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO audit_entries (
			id, actor_id, action, entity_type, entity_id, description, before_data, after_data, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := q.Exec(ctx, query,
		entry.ID, entry.ActorID, string(entry.Action), entry.EntityType, entry.EntityID,
		entry.Description, nullableJSON(entry.Before), nullableJSON(entry.After), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}
	return nil
}

func nullableJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
