package apperrors

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrNoActiveSession     = errors.New("no active session")
	ErrActiveSessionExists = errors.New("active session already exists")
	ErrNotStudying         = errors.New("session is not in study phase")
	ErrCorruptState        = errors.New("corrupt persisted state")
	ErrStateNotLoaded      = errors.New("persisted state could not be read")
)
