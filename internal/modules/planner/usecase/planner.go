package usecase

import (
	"context"
	"fmt"

	"studyhub/internal/modules/planner/domain"
	"studyhub/internal/modules/planner/dto"
	plannerin "studyhub/internal/modules/planner/port/in"
	"studyhub/internal/modules/planner/service"
	apperrors "studyhub/internal/platform/errors"
)

type Interactor struct {
	svc *service.PlannerService
}

func NewInteractor(svc *service.PlannerService) plannerin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) AddSubject(ctx context.Context, input dto.AddSubjectInput) (dto.SubjectOutput, error) {
	subject, err := i.svc.AddSubject(ctx, input.Name, input.Difficulty)
	if err != nil {
		return dto.SubjectOutput{}, err
	}
	return toSubjectOutput(subject, nil), nil
}

func (i *Interactor) DeleteSubject(ctx context.Context, subjectID int64) (dto.MutationOutput, error) {
	return dto.MutationOutput{Changed: i.svc.DeleteSubject(ctx, subjectID)}, nil
}

func (i *Interactor) AddTodo(ctx context.Context, input dto.AddTodoInput) (dto.TodoOutput, error) {
	todo, err := i.svc.AddTodo(ctx, input.SubjectID, input.Text)
	if err != nil {
		return dto.TodoOutput{}, err
	}
	return toTodoOutput(input.SubjectID, todo), nil
}

func (i *Interactor) ToggleTodo(ctx context.Context, input dto.TodoRefInput) (dto.MutationOutput, error) {
	_, ok := i.svc.ToggleTodo(ctx, input.SubjectID, input.TodoID)
	return dto.MutationOutput{Changed: ok}, nil
}

func (i *Interactor) DeleteTodo(ctx context.Context, input dto.TodoRefInput) (dto.MutationOutput, error) {
	return dto.MutationOutput{Changed: i.svc.DeleteTodo(ctx, input.SubjectID, input.TodoID)}, nil
}

func (i *Interactor) CreditStudyTime(ctx context.Context, input dto.CreditInput) (dto.MutationOutput, error) {
	_, ok := i.svc.CreditStudyTime(ctx, input.SubjectID, input.Seconds)
	return dto.MutationOutput{Changed: ok}, nil
}

func (i *Interactor) ListSubjects(_ context.Context) ([]dto.SubjectOutput, error) {
	state := i.svc.Snapshot()
	out := make([]dto.SubjectOutput, 0, len(state.Subjects))
	for _, subject := range state.Subjects {
		out = append(out, toSubjectOutput(subject, state.Todos[subject.ID]))
	}
	return out, nil
}

func (i *Interactor) GetSubject(_ context.Context, subjectID int64) (dto.SubjectOutput, error) {
	state := i.svc.Snapshot()
	idx := state.IndexOfSubject(subjectID)
	if idx < 0 {
		return dto.SubjectOutput{}, fmt.Errorf("subject %d: %w", subjectID, apperrors.ErrNotFound)
	}
	return toSubjectOutput(state.Subjects[idx], state.Todos[subjectID]), nil
}

func (i *Interactor) ListTodos(_ context.Context, subjectID int64) ([]dto.TodoOutput, error) {
	todos := i.svc.Snapshot().Todos[subjectID]
	out := make([]dto.TodoOutput, 0, len(todos))
	for _, todo := range todos {
		out = append(out, toTodoOutput(subjectID, todo))
	}
	return out, nil
}

func (i *Interactor) Progress(_ context.Context) (dto.ProgressOutput, error) {
	state := i.svc.Snapshot()
	out := dto.ProgressOutput{Rows: make([]dto.ProgressRow, 0, len(state.Subjects))}
	for _, subject := range state.Subjects {
		out.Rows = append(out.Rows, dto.ProgressRow{SubjectID: subject.ID, Name: subject.Name, TotalHours: subject.TotalHours})
		out.TotalHours += subject.TotalHours
	}
	return out, nil
}

func (i *Interactor) Status(_ context.Context) (dto.StatusOutput, error) {
	state := i.svc.Snapshot()
	out := dto.StatusOutput{Subjects: len(state.Subjects), RecoveredEmpty: i.svc.RecoveredEmpty()}
	for _, todos := range state.Todos {
		out.Todos += len(todos)
	}
	if err := i.svc.LastSaveError(); err != nil {
		out.LastSaveError = err.Error()
	}
	return out, nil
}

func toSubjectOutput(subject domain.Subject, todos []domain.Todo) dto.SubjectOutput {
	out := dto.SubjectOutput{
		ID:         subject.ID,
		Name:       subject.Name,
		Difficulty: subject.Difficulty,
		TotalHours: subject.TotalHours,
		TodoCount:  len(todos),
	}
	for _, todo := range todos {
		if !todo.Completed {
			out.OpenTodos++
		}
	}
	return out
}

func toTodoOutput(subjectID int64, todo domain.Todo) dto.TodoOutput {
	return dto.TodoOutput{ID: todo.ID, SubjectID: subjectID, Text: todo.Text, Completed: todo.Completed}
}
