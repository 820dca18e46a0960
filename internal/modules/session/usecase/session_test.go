package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	planneradapter "studyhub/internal/modules/planner/adapter/out"
	plannerdto "studyhub/internal/modules/planner/dto"
	plannerin "studyhub/internal/modules/planner/port/in"
	plannerservice "studyhub/internal/modules/planner/service"
	plannerusecase "studyhub/internal/modules/planner/usecase"
	sessionout "studyhub/internal/modules/session/adapter/out"
	"studyhub/internal/modules/session/domain"
	sessiondto "studyhub/internal/modules/session/dto"
	sessionin "studyhub/internal/modules/session/port/in"
	"studyhub/internal/modules/session/service"
	"studyhub/internal/modules/session/usecase"
	apperrors "studyhub/internal/platform/errors"
	"studyhub/internal/platform/id"
)

type manualTask struct {
	fn      func()
	stopped bool
}

// manualScheduler never ticks on its own; tests fire tasks explicitly.
type manualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

func (s *manualScheduler) Every(_ time.Duration, fn func()) func() {
	task := &manualTask{fn: fn}
	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		task.stopped = true
		s.mu.Unlock()
	}
}

func (s *manualScheduler) task(i int) *manualTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks[i]
}

func (s *manualScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *manualScheduler) stopped(task *manualTask) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return task.stopped
}

// fire runs the latest task n times, the way a ticker would, until stopped.
func (s *manualScheduler) fire(n int) {
	task := s.task(s.count() - 1)
	for i := 0; i < n; i++ {
		if s.stopped(task) {
			return
		}
		task.fn()
	}
}

type harness struct {
	planner   plannerin.Usecase
	session   sessionin.Usecase
	scheduler *manualScheduler
	notifier  *sessionout.ChannelNotifier
}

func newHarness(t *testing.T) harness {
	t.Helper()
	repo := planneradapter.NewKVStateRepository(planneradapter.NewMemoryKVStore(), "study-scheduler-data")
	plannerSvc := plannerservice.NewPlannerService(&id.Sequence{}, repo, nil)
	plannerSvc.Load(context.Background())
	planner := plannerusecase.NewInteractor(plannerSvc)

	scheduler := &manualScheduler{}
	notifier := sessionout.NewChannelNotifier()
	sessionSvc := service.NewSessionService(scheduler, sessionout.NewPlannerCreditAdapter(planner), notifier, nil)
	session := usecase.NewInteractor(sessionSvc, planner)

	observer := planneradapter.NewSessionSubjectObserver()
	observer.Bind(session)
	plannerSvc.SetObserver(observer)
	t.Cleanup(session.Close)

	return harness{planner: planner, session: session, scheduler: scheduler, notifier: notifier}
}

func (h harness) addSubject(t *testing.T, name string) int64 {
	t.Helper()
	subject, err := h.planner.AddSubject(context.Background(), plannerdto.AddSubjectInput{Name: name, Difficulty: 5})
	require.NoError(t, err)
	return subject.ID
}

func TestImmediateCompleteCreditsFullStudyDuration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)
	math := h.addSubject(t, "Math")

	started, err := h.session.Start(ctx, sessiondto.StartInput{SubjectID: math})
	require.NoError(t, err)
	require.Equal(t, "Math", started.SubjectName)
	require.Equal(t, "25:00", started.Clock)
	require.True(t, started.CanComplete)

	out, err := h.session.Complete(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.StudySeconds, out.CreditedSeconds)
	require.InDelta(t, 0.4167, out.CreditedHours, 1e-4)

	subject, err := h.planner.GetSubject(ctx, math)
	require.NoError(t, err)
	require.InDelta(t, 0.4167, subject.TotalHours, 1e-4)

	snap, err := h.session.Snapshot(ctx)
	require.NoError(t, err)
	require.False(t, snap.Active)
	require.True(t, h.scheduler.stopped(h.scheduler.task(0)))
}

func TestCompleteCreditsFullDurationAfterPartialStudy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)
	math := h.addSubject(t, "Math")

	_, err := h.session.Start(ctx, sessiondto.StartInput{SubjectID: math})
	require.NoError(t, err)
	h.scheduler.fire(600)

	out, err := h.session.Complete(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.StudySeconds, out.CreditedSeconds)
}

func TestStartWhileActiveIsRejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)
	math := h.addSubject(t, "Math")
	physics := h.addSubject(t, "Physics")

	_, err := h.session.Start(ctx, sessiondto.StartInput{SubjectID: math})
	require.NoError(t, err)
	h.scheduler.fire(10)

	snap, err := h.session.Start(ctx, sessiondto.StartInput{SubjectID: physics})
	require.ErrorIs(t, err, apperrors.ErrActiveSessionExists)
	require.Equal(t, math, snap.SubjectID)
	require.Equal(t, domain.StudySeconds-10, snap.Remaining)
	require.Equal(t, 1, h.scheduler.count())
}

func TestStartUnknownSubjectIsRejected(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	_, err := h.session.Start(context.Background(), sessiondto.StartInput{SubjectID: 42})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	require.Equal(t, 0, h.scheduler.count())
}

func TestTicksMoveThroughStudyBreakAndIdle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)
	math := h.addSubject(t, "Math")

	_, err := h.session.Start(ctx, sessiondto.StartInput{SubjectID: math})
	require.NoError(t, err)

	h.scheduler.fire(domain.StudySeconds)
	snap, err := h.session.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, string(domain.PhaseBreak), snap.Phase)
	require.Equal(t, domain.BreakSeconds, snap.Remaining)
	require.False(t, snap.CanComplete)

	_, err = h.session.Complete(ctx)
	require.ErrorIs(t, err, apperrors.ErrNotStudying)

	h.scheduler.fire(domain.BreakSeconds)
	snap, err = h.session.Snapshot(ctx)
	require.NoError(t, err)
	require.False(t, snap.Active)
	require.Equal(t, string(domain.PhaseIdle), snap.Phase)
	require.True(t, h.scheduler.stopped(h.scheduler.task(0)))

	subject, err := h.planner.GetSubject(ctx, math)
	require.NoError(t, err)
	require.Zero(t, subject.TotalHours)
}

func TestDeletingActiveSubjectAbortsSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)
	math := h.addSubject(t, "Math")

	_, err := h.session.Start(ctx, sessiondto.StartInput{SubjectID: math})
	require.NoError(t, err)

	_, err = h.planner.DeleteSubject(ctx, math)
	require.NoError(t, err)

	snap, err := h.session.Snapshot(ctx)
	require.NoError(t, err)
	require.False(t, snap.Active)
	require.True(t, h.scheduler.stopped(h.scheduler.task(0)))

	_, err = h.session.Complete(ctx)
	require.ErrorIs(t, err, apperrors.ErrNoActiveSession)
}

func TestDeletingOtherSubjectKeepsSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)
	math := h.addSubject(t, "Math")
	physics := h.addSubject(t, "Physics")

	_, err := h.session.Start(ctx, sessiondto.StartInput{SubjectID: math})
	require.NoError(t, err)
	_, err = h.planner.DeleteSubject(ctx, physics)
	require.NoError(t, err)

	snap, err := h.session.Snapshot(ctx)
	require.NoError(t, err)
	require.True(t, snap.Active)
	require.Equal(t, math, snap.SubjectID)
}

func TestStaleTickIsIgnoredAfterRestart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)
	math := h.addSubject(t, "Math")

	_, err := h.session.Start(ctx, sessiondto.StartInput{SubjectID: math})
	require.NoError(t, err)
	first := h.scheduler.task(0)

	_, err = h.session.Cancel(ctx)
	require.NoError(t, err)
	_, err = h.session.Start(ctx, sessiondto.StartInput{SubjectID: math})
	require.NoError(t, err)

	// A ticker that fires once more after stop must not touch the new session.
	first.fn()
	snap, err := h.session.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.StudySeconds, snap.Remaining)

	h.scheduler.fire(1)
	snap, err = h.session.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.StudySeconds-1, snap.Remaining)
}

func TestCancelWithoutSession(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	_, err := h.session.Cancel(context.Background())
	require.ErrorIs(t, err, apperrors.ErrNoActiveSession)
}

func TestNotifierSignalsTransitions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)
	math := h.addSubject(t, "Math")

	_, err := h.session.Start(ctx, sessiondto.StartInput{SubjectID: math})
	require.NoError(t, err)
	h.scheduler.fire(3)

	select {
	case <-h.notifier.C():
	default:
		t.Fatalf("expected a pending timer signal")
	}
	select {
	case <-h.notifier.C():
		t.Fatalf("signals must coalesce into one slot")
	default:
	}
}
