package in

import (
	"context"

	"studyhub/internal/modules/planner/dto"
	plannerin "studyhub/internal/modules/planner/port/in"
)

type CLIHandler struct {
	usecase plannerin.Usecase
}

func NewCLIHandler(usecase plannerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) AddSubject(ctx context.Context, name string, difficulty int) (dto.SubjectOutput, error) {
	return h.usecase.AddSubject(ctx, dto.AddSubjectInput{Name: name, Difficulty: difficulty})
}

func (h CLIHandler) DeleteSubject(ctx context.Context, subjectID int64) (dto.MutationOutput, error) {
	return h.usecase.DeleteSubject(ctx, subjectID)
}

func (h CLIHandler) ListSubjects(ctx context.Context) ([]dto.SubjectOutput, error) {
	return h.usecase.ListSubjects(ctx)
}

func (h CLIHandler) AddTodo(ctx context.Context, subjectID int64, text string) (dto.TodoOutput, error) {
	return h.usecase.AddTodo(ctx, dto.AddTodoInput{SubjectID: subjectID, Text: text})
}

func (h CLIHandler) ToggleTodo(ctx context.Context, subjectID, todoID int64) (dto.MutationOutput, error) {
	return h.usecase.ToggleTodo(ctx, dto.TodoRefInput{SubjectID: subjectID, TodoID: todoID})
}

func (h CLIHandler) DeleteTodo(ctx context.Context, subjectID, todoID int64) (dto.MutationOutput, error) {
	return h.usecase.DeleteTodo(ctx, dto.TodoRefInput{SubjectID: subjectID, TodoID: todoID})
}

func (h CLIHandler) ListTodos(ctx context.Context, subjectID int64) ([]dto.TodoOutput, error) {
	return h.usecase.ListTodos(ctx, subjectID)
}

func (h CLIHandler) Progress(ctx context.Context) (dto.ProgressOutput, error) {
	return h.usecase.Progress(ctx)
}

func (h CLIHandler) Status(ctx context.Context) (dto.StatusOutput, error) {
	return h.usecase.Status(ctx)
}
