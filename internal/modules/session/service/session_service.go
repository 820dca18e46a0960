package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"studyhub/internal/modules/session/domain"
	sessionout "studyhub/internal/modules/session/port/out"
	apperrors "studyhub/internal/platform/errors"
	"studyhub/internal/platform/logging"
)

const TickInterval = time.Second

// SessionService drives the timer from a scheduler. At most one scheduled
// task is live; ticks from an older task are dropped by generation.
type SessionService struct {
	scheduler sessionout.Scheduler
	crediter  sessionout.StudyCrediter
	notifier  sessionout.Notifier
	logger    hclog.Logger

	mu         sync.Mutex
	timer      domain.Timer
	stop       func()
	generation uint64
}

func NewSessionService(scheduler sessionout.Scheduler, crediter sessionout.StudyCrediter, notifier sessionout.Notifier, logger hclog.Logger) *SessionService {
	return &SessionService{
		scheduler: scheduler,
		crediter:  crediter,
		notifier:  notifier,
		logger:    logging.OrNull(logger).Named("session"),
		timer:     domain.Timer{Phase: domain.PhaseIdle},
	}
}

func (s *SessionService) Start(ctx context.Context, subjectID int64) (domain.Timer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer.Active() {
		return s.timer, apperrors.ErrActiveSessionExists
	}
	s.stopLocked()
	s.timer.Start(subjectID)
	gen := s.generation
	s.stop = s.scheduler.Every(TickInterval, func() {
		s.tick(context.Background(), gen)
	})
	s.logger.Info("session started", "subject_id", subjectID)
	s.publishLocked(ctx)
	return s.timer, nil
}

// Complete ends the study phase and credits the full study duration. The
// credit call happens after the lock is released.
func (s *SessionService) Complete(ctx context.Context) (domain.Credit, error) {
	s.mu.Lock()
	if !s.timer.Active() {
		s.mu.Unlock()
		return domain.Credit{}, apperrors.ErrNoActiveSession
	}
	credit, ok := s.timer.Complete()
	if !ok {
		s.mu.Unlock()
		return domain.Credit{}, apperrors.ErrNotStudying
	}
	s.stopLocked()
	s.publishLocked(ctx)
	s.mu.Unlock()

	s.logger.Info("session completed", "subject_id", credit.SubjectID, "credited_seconds", credit.Seconds)
	if s.crediter == nil {
		return credit, nil
	}
	if err := s.crediter.CreditStudyTime(ctx, credit.SubjectID, credit.Seconds); err != nil {
		s.logger.Warn("credit study time failed", "subject_id", credit.SubjectID, "error", err)
		return credit, fmt.Errorf("credit study time: %w", err)
	}
	return credit, nil
}

// Cancel drops the active session without credit.
func (s *SessionService) Cancel(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.timer.Active() {
		return false
	}
	s.logger.Info("session cancelled", "subject_id", s.timer.SubjectID, "phase", string(s.timer.Phase))
	s.resetLocked(ctx)
	return true
}

// AbortSubject cancels the session only when it belongs to subjectID.
func (s *SessionService) AbortSubject(ctx context.Context, subjectID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.timer.Active() || s.timer.SubjectID != subjectID {
		return false
	}
	s.logger.Info("session aborted, subject deleted", "subject_id", subjectID)
	s.resetLocked(ctx)
	return true
}

func (s *SessionService) Snapshot() domain.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer
}

// Close stops the tick source. The service is idle afterwards.
func (s *SessionService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.timer.Reset()
}

func (s *SessionService) tick(ctx context.Context, gen uint64) domain.TickResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return domain.TickIgnored
	}
	result := s.timer.Tick()
	switch result {
	case domain.TickIgnored:
		return result
	case domain.TickBreakStarted:
		s.logger.Info("study phase over, break started", "subject_id", s.timer.SubjectID)
	case domain.TickFinished:
		s.logger.Info("break over, session finished")
		s.stopLocked()
	}
	s.publishLocked(ctx)
	return result
}

func (s *SessionService) resetLocked(ctx context.Context) {
	s.stopLocked()
	s.timer.Reset()
	s.publishLocked(ctx)
}

func (s *SessionService) stopLocked() {
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
	s.generation++
}

// publishLocked runs under the lock so snapshots arrive in order; notifiers
// must not block or call back into the service.
func (s *SessionService) publishLocked(ctx context.Context) {
	if s.notifier != nil {
		s.notifier.Publish(ctx, s.timer)
	}
}
