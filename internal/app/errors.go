package app

import "errors"

var (
	// ErrAlreadyRunning indicates the main loop is already running.
	ErrAlreadyRunning = errors.New("client already running")

	// ErrNoSurface indicates Run was called before SetSurface.
	ErrNoSurface = errors.New("no surface attached")
)

// InitError reports a component that failed to initialize.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}
