package apperrors

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrSessionBusy        = errors.New("reading session already active")
	ErrOpenAborted        = errors.New("open aborted by close")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrDirectionUnknown   = errors.New("direction unknown")
	ErrUnknownTheme       = errors.New("unknown theme")
)
