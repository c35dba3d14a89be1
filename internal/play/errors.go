package play

import "fmt"

// RenderError wraps a failure while drawing a single note. It is logged
// and the rest of the frame is still drawn.
type RenderError struct {
	NoteID int
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("note %v: %v", e.NoteID, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
