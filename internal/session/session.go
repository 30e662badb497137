// Package session owns one editing session: the document, the cursor and
// viewport, and the dirty flag.
//
// A Session is driven by one goroutine. The event loop hands it one intent
// per input event and repaints from Frame afterwards.
package session

import (
	"errors"
	"fmt"

	"github.com/dshills/exedit/internal/engine/cursor"
	"github.com/dshills/exedit/internal/engine/document"
	"github.com/dshills/exedit/internal/engine/edit"
	"github.com/dshills/exedit/internal/input"
)

// DefaultModifiedMarker is appended to the title while there are unsaved
// changes.
const DefaultModifiedMarker = " *"

// Outcome tells the event loop what to do after an intent was handled.
type Outcome uint8

const (
	// OutcomeNone means nothing changed.
	OutcomeNone Outcome = iota
	// OutcomeRedraw means the cursor, viewport or document changed.
	OutcomeRedraw
	// OutcomeSave asks the caller to persist Content and call MarkSaved.
	OutcomeSave
	// OutcomeQuit ends the event loop.
	OutcomeQuit
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeRedraw:
		return "redraw"
	case OutcomeSave:
		return "save"
	case OutcomeQuit:
		return "quit"
	default:
		return fmt.Sprintf("Outcome(%d)", uint8(o))
	}
}

// Logger is the logging surface a session needs.
type Logger interface {
	Error(format string, args ...any)
}

// Option configures a Session.
type Option func(*Session)

// WithStrict makes cursor contract violations panic instead of being
// logged and dropped.
func WithStrict(strict bool) Option {
	return func(s *Session) { s.strict = strict }
}

// WithModifiedMarker sets the title suffix shown while dirty.
func WithModifiedMarker(marker string) Option {
	return func(s *Session) { s.marker = marker }
}

// WithLogger sets the logger used for dropped contract violations.
func WithLogger(l Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithHeight sets the initial viewport height.
func WithHeight(h int) Option {
	return func(s *Session) { s.state.View = s.state.View.Resize(h) }
}

// Frame is everything the renderer needs to paint one screen.
type Frame struct {
	Title  string
	Lines  []string
	Cursor cursor.Position
	Status string
}

// Session is the single owned editing aggregate.
// It is not safe for concurrent use.
type Session struct {
	path   string
	doc    *document.Document
	state  cursor.State
	dirty  bool
	status string
	marker string
	strict bool
	logger Logger
}

// New creates a session for doc, which was loaded from path.
func New(path string, doc *document.Document, opts ...Option) *Session {
	if doc == nil {
		doc = document.New(nil)
	}
	s := &Session{
		path:   path,
		doc:    doc,
		state:  cursor.NewState(0),
		marker: DefaultModifiedMarker,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = cursor.Fit(s.state, s.doc.Lengths())
	return s
}

// Path returns the file path the session edits.
func (s *Session) Path() string { return s.path }

// Document returns the underlying document.
func (s *Session) Document() *document.Document { return s.doc }

// State returns the current cursor and viewport.
func (s *Session) State() cursor.State { return s.state }

// Dirty reports whether there are unsaved changes.
func (s *Session) Dirty() bool { return s.dirty }

// Status returns the current status message.
func (s *Session) Status() string { return s.status }

// SetStatus sets the status message shown by the renderer.
func (s *Session) SetStatus(msg string) { s.status = msg }

// Content returns the document serialized for saving.
func (s *Session) Content() string { return s.doc.Text() }

// MarkSaved clears the dirty flag after a successful save.
func (s *Session) MarkSaved() { s.dirty = false }

// SetHeight applies the viewport height reported by the renderer and
// re-establishes the cursor invariants for it.
func (s *Session) SetHeight(h int) {
	if h == s.state.View.Height {
		return
	}
	s.state.View = s.state.View.Resize(h)
	s.state = cursor.Fit(s.state, s.doc.Lengths())
}

// Title returns the path with the modified marker when dirty.
func (s *Session) Title() string {
	if s.dirty {
		return s.path + s.marker
	}
	return s.path
}

// Frame returns the renderable window for the current state.
func (s *Session) Frame() Frame {
	start, end := s.state.View.WindowBounds(s.doc.LineCount())
	return Frame{
		Title:  s.Title(),
		Lines:  s.doc.Slice(start, end),
		Cursor: s.state.Cursor,
		Status: s.status,
	}
}

// Handle processes one intent to completion.
//
// A cursor contract violation is returned as an error wrapping
// document.ErrOutOfRange, after being logged, and leaves the session
// unchanged. In strict mode it panics instead.
func (s *Session) Handle(in input.Intent) (Outcome, error) {
	lengths := s.doc.Lengths()
	switch in.Kind {
	case input.None:
		return OutcomeNone, nil
	case input.MoveUp:
		return s.move(cursor.Move(s.state, cursor.Up, lengths))
	case input.MoveDown:
		return s.move(cursor.Move(s.state, cursor.Down, lengths))
	case input.MoveLeft:
		return s.move(cursor.Move(s.state, cursor.Left, lengths))
	case input.MoveRight:
		return s.move(cursor.Move(s.state, cursor.Right, lengths))
	case input.Home:
		return s.move(cursor.Home(s.state))
	case input.End:
		return s.move(cursor.End(s.state, lengths))
	case input.InsertChar:
		return s.apply(edit.Op{Kind: edit.InsertChar, Rune: in.Rune})
	case input.Enter:
		return s.apply(edit.Op{Kind: edit.SplitLine})
	case input.Backspace:
		return s.apply(edit.Op{Kind: edit.Backspace})
	case input.Delete:
		return s.apply(edit.Op{Kind: edit.Delete})
	case input.Save:
		return OutcomeSave, nil
	case input.Quit:
		return OutcomeQuit, nil
	default:
		return OutcomeNone, fmt.Errorf("%w: %v", input.ErrUnsupported, in)
	}
}

func (s *Session) move(next cursor.State) (Outcome, error) {
	if next == s.state {
		return OutcomeNone, nil
	}
	s.state = next
	return OutcomeRedraw, nil
}

func (s *Session) apply(op edit.Op) (Outcome, error) {
	res, err := edit.Apply(s.doc, s.state, op)
	if err != nil {
		return OutcomeNone, s.violation(err)
	}
	if !res.Changed {
		return OutcomeNone, nil
	}
	s.state = res.State
	s.dirty = true
	return OutcomeRedraw, nil
}

// violation applies the contract-violation policy.
func (s *Session) violation(err error) error {
	if s.strict && errors.Is(err, document.ErrOutOfRange) {
		panic(fmt.Sprintf("session: cursor invariant broken: %v", err))
	}
	if s.logger != nil {
		s.logger.Error("dropped edit: %v", err)
	}
	return err
}
