package stroke

import (
	"errors"

	"github.com/ayusman/gesturepaint/internal/canvas"
)

var (
	// ErrNothingToUndo is returned by Undo when the history is empty.
	ErrNothingToUndo = errors.New("nothing to undo")
	// ErrNothingToRedo is returned by Redo when the redo stack is empty.
	ErrNothingToRedo = errors.New("nothing to redo")
)

type entry struct {
	stroke Stroke
	patch  *canvas.Patch // pixels under the stroke before it was drawn; may be nil
}

// Log is the stroke history plus the redo stack. A stroke lives in exactly
// one of the two, or has been discarded.
//
// Undo and redo are both incremental: undo copies back the pixels the stroke
// covered, redo draws the stroke again. When a stroke carries no patch, undo
// falls back to rebuilding the canvas from the history.
type Log struct {
	history []entry
	redo    []entry
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{}
}

// Push appends a sealed stroke and clears the redo stack.
func (l *Log) Push(s Stroke, patch *canvas.Patch) {
	l.history = append(l.history, entry{stroke: s, patch: patch})
	closeAll(l.redo)
	l.redo = nil
}

// Undo moves the newest stroke to the redo stack and removes it from c.
func (l *Log) Undo(c *canvas.Canvas) (Stroke, error) {
	if len(l.history) == 0 {
		return Stroke{}, ErrNothingToUndo
	}

	e := l.history[len(l.history)-1]
	l.history = l.history[:len(l.history)-1]

	if e.patch != nil {
		c.Restore(e.patch)
	} else {
		l.Rebuild(c)
	}

	l.redo = append(l.redo, e)
	return e.stroke, nil
}

// Redo moves the newest undone stroke back to the history and draws it on c.
func (l *Log) Redo(c *canvas.Canvas) (Stroke, error) {
	if len(l.redo) == 0 {
		return Stroke{}, ErrNothingToRedo
	}

	e := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]

	e.stroke.DrawOn(c)

	l.history = append(l.history, e)
	return e.stroke, nil
}

// Rebuild redraws c from the history.
func (l *Log) Rebuild(c *canvas.Canvas) {
	Replay(c, l.History())
}

// Clear drops both stacks.
func (l *Log) Clear() {
	closeAll(l.history)
	closeAll(l.redo)
	l.history = nil
	l.redo = nil
}

// History returns the committed strokes, oldest first.
func (l *Log) History() []Stroke {
	out := make([]Stroke, len(l.history))
	for i, e := range l.history {
		out[i] = e.stroke
	}
	return out
}

// Len returns the number of strokes in the history.
func (l *Log) Len() int {
	return len(l.history)
}

// RedoLen returns the number of strokes that can be redone.
func (l *Log) RedoLen() int {
	return len(l.redo)
}

func closeAll(entries []entry) {
	for _, e := range entries {
		e.patch.Close()
	}
}
