package out

import (
	"context"
	"encoding/json"
	"fmt"

	"studyhub/internal/modules/planner/domain"
	plannerout "studyhub/internal/modules/planner/port/out"
	apperrors "studyhub/internal/platform/errors"
)

const corruptSuffix = ".corrupt"

// KVStateRepository stores the whole planner state as one JSON string under
// a single key of a KVStore.
type KVStateRepository struct {
	store plannerout.KVStore
	key   string
}

func NewKVStateRepository(store plannerout.KVStore, key string) plannerout.StateRepository {
	return &KVStateRepository{store: store, key: key}
}

func (r *KVStateRepository) Save(ctx context.Context, state domain.State) error {
	state.Normalize()
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := r.store.Set(ctx, r.key, string(payload)); err != nil {
		return fmt.Errorf("write state %q: %w", r.key, err)
	}
	return nil
}

// Load returns ok=false when the key has never been written. A value that
// does not parse is copied to <key>.corrupt before ErrCorruptState is
// returned, so the next Save cannot destroy it.
func (r *KVStateRepository) Load(ctx context.Context) (domain.State, bool, error) {
	raw, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		return domain.State{}, false, fmt.Errorf("read state %q: %w", r.key, err)
	}
	if !ok {
		return domain.State{}, false, nil
	}

	state := domain.State{}
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		backup := r.key + corruptSuffix
		if setErr := r.store.Set(ctx, backup, raw); setErr != nil {
			return domain.State{}, false, fmt.Errorf("%w: %v (backup to %q failed: %v)", apperrors.ErrCorruptState, err, backup, setErr)
		}
		return domain.State{}, false, fmt.Errorf("%w: %v (backed up to %q)", apperrors.ErrCorruptState, err, backup)
	}
	state.Normalize()
	return state, true, nil
}
