package out

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"studyhub/internal/modules/planner/domain"
	plannerout "studyhub/internal/modules/planner/port/out"
	"studyhub/internal/platform/clock"
	apperrors "studyhub/internal/platform/errors"
)

func kvStores(t *testing.T) map[string]plannerout.KVStore {
	t.Helper()
	sqliteStore, err := NewSQLiteKVStore(filepath.Join(t.TempDir(), "db", "studyhub.db"), clock.Fixed(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })
	return map[string]plannerout.KVStore{
		"file":   NewFileKVStore(filepath.Join(t.TempDir(), "state")),
		"sqlite": sqliteStore,
		"memory": NewMemoryKVStore(),
	}
}

func TestKVStoresGetSet(t *testing.T) {
	t.Parallel()
	for name, store := range kvStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, ok, err := store.Get(ctx, "missing")
			require.NoError(t, err)
			require.False(t, ok)

			require.NoError(t, store.Set(ctx, "study-scheduler-data", `{"a":1}`))
			require.NoError(t, store.Set(ctx, "study-scheduler-data", `{"a":2}`))
			value, ok, err := store.Get(ctx, "study-scheduler-data")
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, `{"a":2}`, value)
		})
	}
}

func TestFileKVStoreEscapesKeys(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := NewFileKVStore(dir)
	require.NoError(t, store.Set(context.Background(), "../escape/me", "x"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "..%2Fescape%2Fme.json", entries[0].Name())
}

func sampleState() domain.State {
	return domain.State{
		Subjects: []domain.Subject{
			{ID: 1700000000001, Name: "Math", Difficulty: 5, TotalHours: 25.0 / 60},
			{ID: 1700000000002, Name: "History", Difficulty: 2},
		},
		Todos: map[int64][]domain.Todo{
			1700000000001: {{ID: 1700000000003, Text: "Read ch.1", Completed: true}},
			1700000000002: {},
		},
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()
	for name, store := range kvStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := NewKVStateRepository(store, "study-scheduler-data")

			_, ok, err := repo.Load(ctx)
			require.NoError(t, err)
			require.False(t, ok)

			state := sampleState()
			require.NoError(t, repo.Save(ctx, state))
			loaded, ok, err := repo.Load(ctx)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, state, loaded)

			require.NoError(t, repo.Save(ctx, domain.EmptyState()))
			loaded, ok, err = repo.Load(ctx)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, domain.EmptyState(), loaded)
		})
	}
}

func TestRepositoryWireLayout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryKVStore()
	require.NoError(t, NewKVStateRepository(store, "k").Save(ctx, sampleState()))

	raw, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)

	var wire struct {
		Subjects []map[string]any            `json:"subjects"`
		Todos    map[string][]map[string]any `json:"todos"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &wire))
	require.Equal(t, "Math", wire.Subjects[0]["name"])
	require.Contains(t, wire.Subjects[0], "totalHours")
	require.Equal(t, "Read ch.1", wire.Todos["1700000000001"][0]["text"])
	require.Equal(t, true, wire.Todos["1700000000001"][0]["completed"])
	require.Empty(t, wire.Todos["1700000000002"])
}

func TestRepositoryDefaultsMissingFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryKVStore()
	require.NoError(t, store.Set(ctx, "k", `{"subjects":[{"id":1,"name":"Math","difficulty":3,"totalHours":0}],"todos":{"1":[],"42":[{"id":2,"text":"orphan","completed":false}]}}`))

	loaded, ok, err := NewKVStateRepository(store, "k").Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, loaded.Subjects, 1)
	require.NotContains(t, loaded.Todos, int64(42))

	require.NoError(t, store.Set(ctx, "k", `{}`))
	loaded, ok, err = NewKVStateRepository(store, "k").Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, domain.EmptyState(), loaded)
}

func TestRepositoryBacksUpCorruptValue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryKVStore()
	require.NoError(t, store.Set(ctx, "k", "][garbage"))

	_, ok, err := NewKVStateRepository(store, "k").Load(ctx)
	require.ErrorIs(t, err, apperrors.ErrCorruptState)
	require.False(t, ok)

	backup, found, getErr := store.Get(ctx, "k.corrupt")
	require.NoError(t, getErr)
	require.True(t, found)
	require.Equal(t, "][garbage", backup)
}
