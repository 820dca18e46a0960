package out

import (
	"context"
	"sync"

	plannerout "studyhub/internal/modules/planner/port/out"
	sessionin "studyhub/internal/modules/session/port/in"
)

// SessionSubjectObserver aborts the running session when its subject is
// deleted. Bind is called once the session usecase exists.
type SessionSubjectObserver struct {
	mu      sync.RWMutex
	session sessionin.Usecase
}

func NewSessionSubjectObserver() *SessionSubjectObserver {
	return &SessionSubjectObserver{}
}

var _ plannerout.SubjectObserver = (*SessionSubjectObserver)(nil)

func (o *SessionSubjectObserver) Bind(session sessionin.Usecase) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.session = session
}

func (o *SessionSubjectObserver) SubjectDeleted(ctx context.Context, subjectID int64) {
	o.mu.RLock()
	session := o.session
	o.mu.RUnlock()
	if session == nil {
		return
	}
	_, _ = session.AbortSubject(ctx, subjectID)
}
