package cursor

import (
	"fmt"

	"github.com/dshills/exedit/internal/engine/viewport"
)

// ScrollBand is the number of screen rows at the top of the viewport in
// which an upward move scrolls the document instead of moving the cursor.
const ScrollBand = 3

// Direction is a single-step move request.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Position is a 1-based screen coordinate.
type Position struct {
	Column int
	Row    int
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Column, p.Row)
}

// State is the cursor together with the viewport it is relative to.
type State struct {
	Cursor Position
	View   viewport.Viewport
}

// NewState returns a cursor at the top-left of an unscrolled viewport.
func NewState(height int) State {
	return State{
		Cursor: Position{Column: 1, Row: 1},
		View:   viewport.New(height),
	}
}

// DocumentRow returns the 0-based document row under the cursor.
func (s State) DocumentRow() int {
	return s.View.DocumentRow(s.Cursor.Row)
}

// DocumentColumn returns the 0-based character index under the cursor.
func (s State) DocumentColumn() int {
	return s.Cursor.Column - 1
}

// Move applies one directional step.
//
// An upward move within ScrollBand rows of the top scrolls the viewport up
// while rows remain above it; a downward move at the bottom of the band
// scrolls down while rows remain below it. In both cases the screen row is
// unchanged. Otherwise the cursor steps by one, a step off the left or top
// edge is ignored, and the result is clamped to the document.
func Move(s State, dir Direction, lengths []int) State {
	c, v := s.Cursor, s.View
	n := len(lengths)

	switch {
	case dir == Up && c.Row <= ScrollBand && v.Offset > 0:
		v.Offset--
		c.Column = clampColumn(c.Column, lengths, v.DocumentRow(c.Row))
		return State{Cursor: c, View: v}

	case dir == Down && v.Known() && c.Row >= v.Height && v.HasMoreBelow(n):
		v.Offset++
		c.Column = clampColumn(c.Column, lengths, v.DocumentRow(c.Row))
		return State{Cursor: c, View: v}
	}

	switch dir {
	case Up:
		if c.Row > 1 {
			c.Row--
		}
	case Down:
		c.Row++
	case Left:
		if c.Column > 1 {
			c.Column--
		}
	case Right:
		c.Column++
	}

	if limit := v.Remaining(n); c.Row > limit {
		c.Row = limit
	}
	if c.Row < 1 {
		c.Row = 1
	}
	c.Column = clampColumn(c.Column, lengths, v.DocumentRow(c.Row))
	return State{Cursor: c, View: v}
}

// Home scrolls to the top of the document and puts the cursor at (1,1).
func Home(s State) State {
	v := s.View
	v.Offset = 0
	return State{Cursor: Position{Column: 1, Row: 1}, View: v}
}

// End shows the end of the document. When the document is taller than the
// viewport, the last Height rows become visible and the cursor moves to the
// first column of the bottom row. Otherwise the viewport is unscrolled and
// the cursor moves to the last row, keeping its column where the line
// allows.
func End(s State, lengths []int) State {
	c, v := s.Cursor, s.View
	n := len(lengths)

	if v.Known() && n > v.Height {
		v.Offset = n - v.Height
		return State{Cursor: Position{Column: 1, Row: v.Height}, View: v}
	}

	v.Offset = 0
	c.Row = n
	if c.Row < 1 {
		c.Row = 1
	}
	c.Column = clampColumn(c.Column, lengths, v.DocumentRow(c.Row))
	return State{Cursor: c, View: v}
}

// Fit re-establishes the cursor invariants after the document or the
// viewport height changed underneath the cursor. A cursor below the band
// scrolls the viewport rather than jumping.
func Fit(s State, lengths []int) State {
	c, v := s.Cursor, s.View
	n := len(lengths)

	if v.Offset > n-1 {
		v.Offset = n - 1
	}
	if v.Offset < 0 {
		v.Offset = 0
	}
	if v.Known() && c.Row > v.Height {
		v.Offset += c.Row - v.Height
		c.Row = v.Height
		if v.Offset > n-1 {
			v.Offset = n - 1
		}
	}
	if limit := v.Remaining(n); c.Row > limit {
		c.Row = limit
	}
	if c.Row < 1 {
		c.Row = 1
	}
	c.Column = clampColumn(c.Column, lengths, v.DocumentRow(c.Row))
	return State{Cursor: c, View: v}
}

// Valid reports whether s satisfies the cursor invariants for lengths.
func Valid(s State, lengths []int) bool {
	row := s.DocumentRow()
	if s.Cursor.Row < 1 || row < 0 || row >= len(lengths) {
		return false
	}
	if s.View.Known() && s.Cursor.Row > s.View.Height {
		return false
	}
	return s.Cursor.Column >= 1 && s.Cursor.Column <= lengths[row]+1
}

// clampColumn bounds col to [1, length of row + 1].
func clampColumn(col int, lengths []int, row int) int {
	if row < 0 || row >= len(lengths) {
		return 1
	}
	if limit := lengths[row] + 1; col > limit {
		col = limit
	}
	if col < 1 {
		col = 1
	}
	return col
}
