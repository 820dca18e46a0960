package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"studyhub/internal/modules/planner/domain"
	plannerout "studyhub/internal/modules/planner/port/out"
	apperrors "studyhub/internal/platform/errors"
	"studyhub/internal/platform/id"
	"studyhub/internal/platform/logging"
)

// PlannerService owns the in-memory subject and todo state. Every mutation
// is written through the repository; a failed write is logged and remembered
// but never rolls back memory. After a read failure that is not corruption
// nothing is written, so the stored value survives.
type PlannerService struct {
	idGen  id.Generator
	repo   plannerout.StateRepository
	logger hclog.Logger

	mu             sync.Mutex
	state          domain.State
	observer       plannerout.SubjectObserver
	lastSaveErr    error
	loadErr        error
	recoveredEmpty bool
}

func NewPlannerService(idGen id.Generator, repo plannerout.StateRepository, logger hclog.Logger) *PlannerService {
	return &PlannerService{
		idGen:  idGen,
		repo:   repo,
		logger: logging.OrNull(logger).Named("planner"),
		state:  domain.EmptyState(),
	}
}

// SetObserver registers the listener for subject deletions. It is set after
// construction because the session module depends on the planner as well.
func (s *PlannerService) SetObserver(observer plannerout.SubjectObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = observer
}

// Load replaces memory with the persisted state. Corrupt data has already
// been backed up, so the service starts empty and writes normally. Any other
// read error also starts empty but disables writes until a Load succeeds.
func (s *PlannerService) Load(ctx context.Context) {
	state, ok, err := s.repo.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadErr = nil
	if err != nil {
		s.state = domain.EmptyState()
		if errors.Is(err, apperrors.ErrCorruptState) {
			s.logger.Error("persisted state corrupt, starting empty", "error", err)
			s.recoveredEmpty = true
			return
		}
		s.logger.Error("persisted state unreadable, writes disabled", "error", err)
		s.loadErr = err
		s.lastSaveErr = fmt.Errorf("%w: %v", apperrors.ErrStateNotLoaded, err)
		return
	}
	s.recoveredEmpty = false
	s.lastSaveErr = nil
	if !ok {
		s.logger.Debug("no persisted state, starting empty")
		s.state = domain.EmptyState()
		return
	}
	if orphans := state.Normalize(); len(orphans) > 0 {
		s.logger.Warn("dropped todo lists without a subject", "subject_ids", orphans)
	}
	s.state = state
	s.logger.Debug("state loaded", "subjects", len(state.Subjects))
}

func (s *PlannerService) AddSubject(ctx context.Context, name string, difficulty int) (domain.Subject, error) {
	if err := domain.ValidateSubject(name, difficulty); err != nil {
		return domain.Subject{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	subject := domain.Subject{
		ID:         s.idGen.New(),
		Name:       strings.TrimSpace(name),
		Difficulty: difficulty,
		TotalHours: 0,
	}
	s.state.Subjects = append(s.state.Subjects, subject)
	s.state.Todos[subject.ID] = []domain.Todo{}
	s.persistLocked(ctx, "add subject")
	return subject, nil
}

// DeleteSubject removes the subject and its todo list. Unknown ids are a
// no-op. The observer runs after the lock is released.
func (s *PlannerService) DeleteSubject(ctx context.Context, subjectID int64) bool {
	s.mu.Lock()
	idx := s.state.IndexOfSubject(subjectID)
	_, hasTodos := s.state.Todos[subjectID]
	if idx >= 0 {
		s.state.Subjects = append(s.state.Subjects[:idx], s.state.Subjects[idx+1:]...)
	}
	delete(s.state.Todos, subjectID)
	s.persistLocked(ctx, "delete subject")
	observer := s.observer
	s.mu.Unlock()

	changed := idx >= 0 || hasTodos
	if changed && observer != nil {
		observer.SubjectDeleted(ctx, subjectID)
	}
	return changed
}

func (s *PlannerService) AddTodo(ctx context.Context, subjectID int64, text string) (domain.Todo, error) {
	if err := domain.ValidateTodo(text); err != nil {
		return domain.Todo{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.IndexOfSubject(subjectID) < 0 {
		return domain.Todo{}, fmt.Errorf("subject %d: %w", subjectID, apperrors.ErrNotFound)
	}
	todo := domain.Todo{ID: s.idGen.New(), Text: strings.TrimSpace(text), Completed: false}
	s.state.Todos[subjectID] = append(s.state.Todos[subjectID], todo)
	s.persistLocked(ctx, "add todo")
	return todo, nil
}

func (s *PlannerService) ToggleTodo(ctx context.Context, subjectID, todoID int64) (domain.Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todos := s.state.Todos[subjectID]
	for i := range todos {
		if todos[i].ID == todoID {
			todos[i].Completed = !todos[i].Completed
			s.persistLocked(ctx, "toggle todo")
			return todos[i], true
		}
	}
	s.persistLocked(ctx, "toggle todo")
	return domain.Todo{}, false
}

func (s *PlannerService) DeleteTodo(ctx context.Context, subjectID, todoID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	todos, ok := s.state.Todos[subjectID]
	removed := false
	if ok {
		kept := make([]domain.Todo, 0, len(todos))
		for _, todo := range todos {
			if todo.ID == todoID {
				removed = true
				continue
			}
			kept = append(kept, todo)
		}
		s.state.Todos[subjectID] = kept
	}
	s.persistLocked(ctx, "delete todo")
	return removed
}

// CreditStudyTime adds seconds/3600 hours to the subject. Unknown subjects
// are a no-op.
func (s *PlannerService) CreditStudyTime(ctx context.Context, subjectID int64, seconds int) (domain.Subject, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.state.IndexOfSubject(subjectID)
	if idx < 0 {
		s.persistLocked(ctx, "credit study time")
		return domain.Subject{}, false
	}
	s.state.Subjects[idx].TotalHours += float64(seconds) / domain.SecondsPerHour
	s.persistLocked(ctx, "credit study time")
	return s.state.Subjects[idx], true
}

func (s *PlannerService) Snapshot() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// LastSaveError returns the most recent persistence failure, cleared by the
// next successful write.
func (s *PlannerService) LastSaveError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaveErr
}

func (s *PlannerService) RecoveredEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recoveredEmpty
}

func (s *PlannerService) persistLocked(ctx context.Context, op string) {
	if s.loadErr != nil {
		s.lastSaveErr = fmt.Errorf("%w: %v", apperrors.ErrStateNotLoaded, s.loadErr)
		s.logger.Warn("persist skipped, stored state was never loaded", "op", op, "error", s.loadErr)
		return
	}
	if err := s.repo.Save(ctx, s.state.Clone()); err != nil {
		s.lastSaveErr = err
		s.logger.Warn("persist failed, keeping in-memory state", "op", op, "error", err)
		return
	}
	s.lastSaveErr = nil
}
