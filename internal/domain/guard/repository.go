package guard

import "context"

type GuardRepository interface {
	GetByID(ctx context.Context, id string) (Guard, error)
	ListActive(ctx context.Context) ([]Guard, error)
}
