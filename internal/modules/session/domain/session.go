package domain

import "fmt"

const (
	StudySeconds = 25 * 60
	BreakSeconds = 5 * 60
)

type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseStudying Phase = "studying"
	PhaseBreak    Phase = "break"
)

// TickResult says what a single tick did to the timer.
type TickResult int

const (
	TickIgnored TickResult = iota
	TickCounted
	TickBreakStarted
	TickFinished
)

// Timer is the session state machine: Idle, Studying(subject, remaining) or
// OnBreak(subject, remaining). The zero value is Idle.
type Timer struct {
	SubjectID int64
	Phase     Phase
	Remaining int
}

func (t Timer) Active() bool {
	return t.Phase == PhaseStudying || t.Phase == PhaseBreak
}

// Start moves Idle to Studying. It refuses when a session is already active
// and leaves the timer untouched.
func (t *Timer) Start(subjectID int64) bool {
	if t.Active() {
		return false
	}
	*t = Timer{SubjectID: subjectID, Phase: PhaseStudying, Remaining: StudySeconds}
	return true
}

// Tick counts down one second. The last second of study switches to break;
// the last second of break returns to Idle. Neither switch credits time.
func (t *Timer) Tick() TickResult {
	if !t.Active() {
		return TickIgnored
	}
	if t.Remaining > 1 {
		t.Remaining--
		return TickCounted
	}
	if t.Phase == PhaseStudying {
		t.Phase = PhaseBreak
		t.Remaining = BreakSeconds
		return TickBreakStarted
	}
	t.Reset()
	return TickFinished
}

// Complete ends a study phase and returns the subject to credit. The credit
// is always the full StudySeconds, however much time is left.
func (t *Timer) Complete() (Credit, bool) {
	if t.Phase != PhaseStudying {
		return Credit{}, false
	}
	credit := Credit{SubjectID: t.SubjectID, Seconds: StudySeconds}
	t.Reset()
	return credit, true
}

func (t *Timer) Reset() {
	*t = Timer{Phase: PhaseIdle}
}

func (t Timer) State() Phase {
	if t.Phase == "" {
		return PhaseIdle
	}
	return t.Phase
}

type Credit struct {
	SubjectID int64
	Seconds   int
}

// FormatClock renders seconds as m:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
