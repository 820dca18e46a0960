package out

import (
	"context"
	"time"

	"studyhub/internal/modules/session/domain"
)

// Scheduler runs fn every interval until the returned stop func is called.
// stop must be idempotent and must not wait for an in-flight fn.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (stop func())
}

type StudyCrediter interface {
	CreditStudyTime(ctx context.Context, subjectID int64, seconds int) error
}

// Notifier receives the timer after every transition.
type Notifier interface {
	Publish(ctx context.Context, timer domain.Timer)
}
