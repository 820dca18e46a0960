package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"studyhub/internal/platform/config"
)

func newTestApp(t *testing.T, dataDir, backend string) *App {
	t.Helper()
	cfg, err := config.New(dataDir)
	require.NoError(t, err)
	cfg, err = cfg.WithBackend(backend)
	require.NoError(t, err)
	app, err := New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestDeletingSubjectAbortsRunningSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	app := newTestApp(t, t.TempDir(), config.BackendMemory)

	subject, err := app.PlannerCLI.AddSubject(ctx, "Math", 7)
	require.NoError(t, err)
	_, err = app.SessionCLI.Start(ctx, subject.ID)
	require.NoError(t, err)

	_, err = app.PlannerCLI.DeleteSubject(ctx, subject.ID)
	require.NoError(t, err)

	snap, err := app.SessionCLI.Snapshot(ctx)
	require.NoError(t, err)
	require.False(t, snap.Active)
}

func TestStatePersistsAcrossRestarts(t *testing.T) {
	t.Parallel()
	for _, backend := range []string{config.BackendFile, config.BackendSQLite} {
		backend := backend
		t.Run(backend, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			dir := t.TempDir()

			first := newTestApp(t, dir, backend)
			subject, err := first.PlannerCLI.AddSubject(ctx, "Math", 7)
			require.NoError(t, err)
			_, err = first.PlannerCLI.AddTodo(ctx, subject.ID, "Read chapter 1")
			require.NoError(t, err)
			_, err = first.SessionCLI.Start(ctx, subject.ID)
			require.NoError(t, err)
			_, err = first.SessionCLI.Complete(ctx)
			require.NoError(t, err)
			require.NoError(t, first.Close())

			second := newTestApp(t, dir, backend)
			subjects, err := second.PlannerCLI.ListSubjects(ctx)
			require.NoError(t, err)
			require.Len(t, subjects, 1)
			require.Equal(t, "Math", subjects[0].Name)
			require.InDelta(t, 0.4167, subjects[0].TotalHours, 1e-4)
			require.Equal(t, 1, subjects[0].OpenTodos)

			snap, err := second.SessionCLI.Snapshot(ctx)
			require.NoError(t, err)
			require.False(t, snap.Active)
		})
	}
}
