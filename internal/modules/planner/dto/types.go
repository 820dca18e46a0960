package dto

type AddSubjectInput struct {
	Name       string
	Difficulty int
}

type AddTodoInput struct {
	SubjectID int64
	Text      string
}

type TodoRefInput struct {
	SubjectID int64
	TodoID    int64
}

type CreditInput struct {
	SubjectID int64
	Seconds   int
}

type SubjectOutput struct {
	ID         int64
	Name       string
	Difficulty int
	TotalHours float64
	TodoCount  int
	OpenTodos  int
}

type TodoOutput struct {
	ID        int64
	SubjectID int64
	Text      string
	Completed bool
}

// MutationOutput reports whether an idempotent operation changed anything.
type MutationOutput struct {
	Changed bool
}

type ProgressRow struct {
	SubjectID  int64
	Name       string
	TotalHours float64
}

type ProgressOutput struct {
	Rows       []ProgressRow
	TotalHours float64
}

type StatusOutput struct {
	Subjects       int
	Todos          int
	LastSaveError  string
	RecoveredEmpty bool
}
