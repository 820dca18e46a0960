package out

import (
	"context"

	"studyhub/internal/modules/planner/domain"
)

// KVStore is the opaque string storage medium.
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type StateRepository interface {
	Save(ctx context.Context, state domain.State) error
	// Load reports ok=false when nothing has been stored yet.
	Load(ctx context.Context) (domain.State, bool, error)
}

// SubjectObserver is told about subjects removed from the store.
type SubjectObserver interface {
	SubjectDeleted(ctx context.Context, subjectID int64)
}
