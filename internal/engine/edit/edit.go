// Package edit applies text-mutation intents to a document and computes
// where the cursor lands afterwards.
//
// Apply is the only place that mutates a document on behalf of the user.
// It resolves the document row under the cursor, validates the intent
// against the cursor invariants, performs exactly one document operation
// and returns the post-edit cursor state. The document, its length cache
// and the cursor are consistent again when Apply returns.
package edit

import (
	"fmt"

	"github.com/dshills/exedit/internal/engine/cursor"
	"github.com/dshills/exedit/internal/engine/document"
)

// Kind identifies an edit intent.
type Kind uint8

const (
	// InsertChar inserts Op.Rune before the cursor.
	InsertChar Kind = iota
	// SplitLine breaks the line at the cursor (Enter).
	SplitLine
	// Backspace removes the character before the cursor, or joins the line
	// with the previous one at column 1.
	Backspace
	// Delete removes the character under the cursor, or joins the next line
	// onto this one at end of line.
	Delete
)

// String returns the intent name.
func (k Kind) String() string {
	switch k {
	case InsertChar:
		return "insert"
	case SplitLine:
		return "split"
	case Backspace:
		return "backspace"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Op is a single edit request.
type Op struct {
	Kind Kind
	Rune rune // InsertChar only
}

// Result is the outcome of Apply.
type Result struct {
	// State is the cursor and viewport after the edit.
	State cursor.State
	// Changed is false when the intent had nothing to act on (Backspace at
	// the start of the document, Delete at the end).
	Changed bool
}

// Apply performs op at the cursor position in s.
//
// Errors wrap document.ErrOutOfRange and only occur when s violates the
// cursor invariants. The document is unchanged when an error is returned.
func Apply(doc *document.Document, s cursor.State, op Op) (Result, error) {
	row := s.DocumentRow()
	col := s.DocumentColumn()

	length, err := doc.LengthOf(row)
	if err != nil {
		return Result{State: s}, fmt.Errorf("%s at %v: %w", op.Kind, s.Cursor, err)
	}
	if col < 0 || col > length {
		return Result{State: s}, fmt.Errorf("%s at %v: %w", op.Kind, s.Cursor,
			&document.RangeError{Op: op.Kind.String(), Row: row, Column: col})
	}

	next := s
	switch op.Kind {
	case InsertChar:
		if err := doc.InsertChar(row, col, op.Rune); err != nil {
			return Result{State: s}, err
		}
		next.Cursor.Column++

	case SplitLine:
		if err := doc.Split(row, col); err != nil {
			return Result{State: s}, err
		}
		next.Cursor.Column = 1
		next = down(next)

	case Backspace:
		switch {
		case col > 0:
			if err := doc.RemoveChar(row, col-1); err != nil {
				return Result{State: s}, err
			}
			next.Cursor.Column--
		case row > 0:
			prevLen, err := doc.LengthOf(row - 1)
			if err != nil {
				return Result{State: s}, err
			}
			if err := doc.MergeWithNext(row - 1); err != nil {
				return Result{State: s}, err
			}
			next.Cursor.Column = prevLen + 1
			next = up(next)
		default:
			return Result{State: s}, nil
		}

	case Delete:
		switch {
		case col < length:
			if err := doc.RemoveChar(row, col); err != nil {
				return Result{State: s}, err
			}
		case row+1 < doc.LineCount():
			if err := doc.MergeWithNext(row); err != nil {
				return Result{State: s}, err
			}
		default:
			return Result{State: s}, nil
		}

	default:
		return Result{State: s}, fmt.Errorf("unknown edit kind %d", op.Kind)
	}

	return Result{State: next, Changed: true}, nil
}

// down moves the cursor to the next screen row, scrolling instead when the
// cursor is already on the bottom row of the band.
func down(s cursor.State) cursor.State {
	if s.View.Known() && s.Cursor.Row >= s.View.Height {
		s.View.Offset++
		return s
	}
	s.Cursor.Row++
	return s
}

// up moves the cursor to the previous screen row, scrolling instead when
// the cursor is on the top row of a scrolled viewport.
func up(s cursor.State) cursor.State {
	if s.Cursor.Row == 1 {
		s.View.Offset--
		return s
	}
	s.Cursor.Row--
	return s
}
