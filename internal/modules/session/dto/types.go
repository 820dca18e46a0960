package dto

type StartInput struct {
	SubjectID int64
}

type SnapshotOutput struct {
	Active      bool
	SubjectID   int64
	SubjectName string
	Phase       string
	Remaining   int
	Clock       string
	CanComplete bool
}

type CompleteOutput struct {
	SubjectID       int64
	CreditedSeconds int
	CreditedHours   float64
}

type AbortOutput struct {
	Aborted bool
}
