package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"studyhub/internal/bootstrap"
	apperrors "studyhub/internal/platform/errors"
)

// runSession starts a session and follows it until it ends: enter completes
// the study phase, ctx cancellation cancels, and the timer finishing the
// break ends it on its own.
func runSession(ctx context.Context, app *bootstrap.App, subjectID int64, in io.Reader, out io.Writer) error {
	snap, err := app.SessionCLI.Start(ctx, subjectID)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "studying %s for %s (enter completes, ctrl-c cancels)\n", snap.SubjectName, snap.Clock)

	done := make(chan struct{})
	defer close(done)
	enter := watchLines(in, done)

	for {
		select {
		case <-ctx.Done():
			if _, err := app.SessionCLI.Cancel(context.Background()); err != nil && !errors.Is(err, apperrors.ErrNoActiveSession) {
				return err
			}
			_, _ = fmt.Fprintln(out, "\nsession cancelled, no time credited")
			return nil

		case _, ok := <-enter:
			if !ok {
				enter = nil
				continue
			}
			res, err := app.SessionCLI.Complete(ctx)
			if errors.Is(err, apperrors.ErrNotStudying) {
				_, _ = fmt.Fprintln(out, "\non break, nothing to complete")
				continue
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "\nsession complete: +%.2fh\n", res.CreditedHours)
			return nil

		case <-app.TimerSignals:
			snap, err := app.SessionCLI.Snapshot(ctx)
			if err != nil {
				return err
			}
			if !snap.Active {
				_, _ = fmt.Fprintln(out, "\nbreak over, session finished")
				return nil
			}
			_, _ = fmt.Fprintf(out, "\r%-8s %s ", snap.Phase, snap.Clock)
		}
	}
}

// watchLines signals once per line read from in. The reader goroutine exits
// at EOF, or at the first line after done is closed; a read already blocked
// on a terminal cannot be interrupted, so it lingers until that line arrives.
// The returned channel is closed when the goroutine exits.
func watchLines(in io.Reader, done <-chan struct{}) <-chan struct{} {
	lines := make(chan struct{}, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case <-done:
				return
			default:
			}
			select {
			case lines <- struct{}{}:
			default:
			}
		}
	}()
	return lines
}
