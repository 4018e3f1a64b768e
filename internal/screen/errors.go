package screen

import (
	"errors"
	"fmt"
)

// ErrUnknownGrid indicates a command referencing a grid id that no
// resize ever announced.
var ErrUnknownGrid = errors.New("screen: unknown grid")

// StateError reports a redraw command that could not be applied. The
// command is dropped and the grid marked for a full repaint so the next
// flush self-heals.
type StateError struct {
	Grid int
	Op   string
	Err  error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("screen: %s: grid %d: %v", e.Op, e.Grid, e.Err)
}

func (e *StateError) Unwrap() error { return e.Err }
