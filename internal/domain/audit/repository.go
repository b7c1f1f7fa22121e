package audit

import "context"

type AuditRepository interface {
	Create(ctx context.Context, entry Entry) error
}
