package domain

import (
	"fmt"
	"strings"
)

const (
	MinDifficulty  = 1
	MaxDifficulty  = 10
	SecondsPerHour = 3600
)

type Subject struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Difficulty int     `json:"difficulty"`
	TotalHours float64 `json:"totalHours"`
}

type Todo struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// State is everything that gets persisted. Subjects keep insertion order;
// Todos is keyed by owning subject id.
type State struct {
	Subjects []Subject        `json:"subjects"`
	Todos    map[int64][]Todo `json:"todos"`
}

func EmptyState() State {
	return State{Subjects: []Subject{}, Todos: map[int64][]Todo{}}
}

func ValidateSubject(name string, difficulty int) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("subject name is required")
	}
	if difficulty < MinDifficulty || difficulty > MaxDifficulty {
		return fmt.Errorf("difficulty must be between %d and %d, got %d", MinDifficulty, MaxDifficulty, difficulty)
	}
	return nil
}

func ValidateTodo(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("todo text is required")
	}
	return nil
}

func (s State) IndexOfSubject(id int64) int {
	for i, subject := range s.Subjects {
		if subject.ID == id {
			return i
		}
	}
	return -1
}

// Normalize fills nil containers and drops todo lists whose subject no
// longer exists. It returns the ids of the dropped lists.
func (s *State) Normalize() []int64 {
	if s.Subjects == nil {
		s.Subjects = []Subject{}
	}
	if s.Todos == nil {
		s.Todos = map[int64][]Todo{}
	}
	var orphans []int64
	for subjectID := range s.Todos {
		if s.IndexOfSubject(subjectID) < 0 {
			orphans = append(orphans, subjectID)
			delete(s.Todos, subjectID)
		}
	}
	return orphans
}

// Clone deep-copies the state so callers never alias the store's slices.
func (s State) Clone() State {
	out := State{
		Subjects: append([]Subject{}, s.Subjects...),
		Todos:    make(map[int64][]Todo, len(s.Todos)),
	}
	for k, v := range s.Todos {
		out.Todos[k] = append([]Todo{}, v...)
	}
	return out
}
