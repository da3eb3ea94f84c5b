package integration

import "context"

type Repository interface {
	Get(ctx context.Context, provider string) (Status, bool, error)
	Upsert(ctx context.Context, s Status) error
	List(ctx context.Context) ([]Status, error)
}
