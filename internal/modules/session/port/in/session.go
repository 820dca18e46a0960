package in

import (
	"context"

	"studyhub/internal/modules/session/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.SnapshotOutput, error)
	Complete(ctx context.Context) (dto.CompleteOutput, error)
	Cancel(ctx context.Context) (dto.AbortOutput, error)
	AbortSubject(ctx context.Context, subjectID int64) (dto.AbortOutput, error)
	Snapshot(ctx context.Context) (dto.SnapshotOutput, error)
	Close()
}
