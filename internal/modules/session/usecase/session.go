package usecase

import (
	"context"
	"errors"

	plannerin "studyhub/internal/modules/planner/port/in"
	"studyhub/internal/modules/session/domain"
	sessiondto "studyhub/internal/modules/session/dto"
	sessionin "studyhub/internal/modules/session/port/in"
	"studyhub/internal/modules/session/service"
	apperrors "studyhub/internal/platform/errors"
)

type Interactor struct {
	svc     *service.SessionService
	planner plannerin.Usecase
}

func NewInteractor(svc *service.SessionService, planner plannerin.Usecase) sessionin.Usecase {
	return &Interactor{svc: svc, planner: planner}
}

func (i *Interactor) Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.SnapshotOutput, error) {
	if current := i.svc.Snapshot(); current.Active() {
		return i.toSnapshot(ctx, current), apperrors.ErrActiveSessionExists
	}
	if i.planner != nil {
		if _, err := i.planner.GetSubject(ctx, input.SubjectID); err != nil {
			return sessiondto.SnapshotOutput{}, err
		}
	}
	timer, err := i.svc.Start(ctx, input.SubjectID)
	if err != nil {
		return i.toSnapshot(ctx, timer), err
	}
	return i.toSnapshot(ctx, timer), nil
}

func (i *Interactor) Complete(ctx context.Context) (sessiondto.CompleteOutput, error) {
	credit, err := i.svc.Complete(ctx)
	if err != nil && credit.Seconds == 0 {
		return sessiondto.CompleteOutput{}, err
	}
	return sessiondto.CompleteOutput{
		SubjectID:       credit.SubjectID,
		CreditedSeconds: credit.Seconds,
		CreditedHours:   float64(credit.Seconds) / 3600,
	}, err
}

func (i *Interactor) Cancel(ctx context.Context) (sessiondto.AbortOutput, error) {
	if !i.svc.Cancel(ctx) {
		return sessiondto.AbortOutput{}, apperrors.ErrNoActiveSession
	}
	return sessiondto.AbortOutput{Aborted: true}, nil
}

func (i *Interactor) AbortSubject(ctx context.Context, subjectID int64) (sessiondto.AbortOutput, error) {
	return sessiondto.AbortOutput{Aborted: i.svc.AbortSubject(ctx, subjectID)}, nil
}

func (i *Interactor) Snapshot(ctx context.Context) (sessiondto.SnapshotOutput, error) {
	return i.toSnapshot(ctx, i.svc.Snapshot()), nil
}

func (i *Interactor) Close() {
	i.svc.Close()
}

func (i *Interactor) toSnapshot(ctx context.Context, timer domain.Timer) sessiondto.SnapshotOutput {
	out := sessiondto.SnapshotOutput{
		Active:      timer.Active(),
		Phase:       string(timer.State()),
		CanComplete: timer.Phase == domain.PhaseStudying,
	}
	if !out.Active {
		return out
	}
	out.SubjectID = timer.SubjectID
	out.Remaining = timer.Remaining
	out.Clock = domain.FormatClock(timer.Remaining)
	if i.planner != nil {
		subject, err := i.planner.GetSubject(ctx, timer.SubjectID)
		if err == nil {
			out.SubjectName = subject.Name
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			out.SubjectName = "?"
		}
	}
	return out
}
