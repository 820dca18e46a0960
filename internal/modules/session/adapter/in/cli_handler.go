package in

import (
	"context"

	sessiondto "studyhub/internal/modules/session/dto"
	sessionin "studyhub/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, subjectID int64) (sessiondto.SnapshotOutput, error) {
	return h.usecase.Start(ctx, sessiondto.StartInput{SubjectID: subjectID})
}

func (h CLIHandler) Complete(ctx context.Context) (sessiondto.CompleteOutput, error) {
	return h.usecase.Complete(ctx)
}

func (h CLIHandler) Cancel(ctx context.Context) (sessiondto.AbortOutput, error) {
	return h.usecase.Cancel(ctx)
}

func (h CLIHandler) Snapshot(ctx context.Context) (sessiondto.SnapshotOutput, error) {
	return h.usecase.Snapshot(ctx)
}
