package in

import (
	"context"

	"studyhub/internal/modules/planner/dto"
)

type Usecase interface {
	AddSubject(ctx context.Context, input dto.AddSubjectInput) (dto.SubjectOutput, error)
	DeleteSubject(ctx context.Context, subjectID int64) (dto.MutationOutput, error)
	AddTodo(ctx context.Context, input dto.AddTodoInput) (dto.TodoOutput, error)
	ToggleTodo(ctx context.Context, input dto.TodoRefInput) (dto.MutationOutput, error)
	DeleteTodo(ctx context.Context, input dto.TodoRefInput) (dto.MutationOutput, error)
	CreditStudyTime(ctx context.Context, input dto.CreditInput) (dto.MutationOutput, error)
	ListSubjects(ctx context.Context) ([]dto.SubjectOutput, error)
	GetSubject(ctx context.Context, subjectID int64) (dto.SubjectOutput, error)
	ListTodos(ctx context.Context, subjectID int64) ([]dto.TodoOutput, error)
	Progress(ctx context.Context) (dto.ProgressOutput, error)
	Status(ctx context.Context) (dto.StatusOutput, error)
}
