// Package renderer paints a session frame onto a terminal backend.
//
// The screen is one bordered box. The title sits on the top border, the
// status message on the bottom border, and the frame's lines fill the
// inside, clipped to its width.
package renderer

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/exedit/internal/renderer/backend"
	"github.com/dshills/exedit/internal/renderer/core"
	"github.com/dshills/exedit/internal/session"
)

// Border runes.
const (
	cornerTopLeft     = '┌'
	cornerTopRight    = '┐'
	cornerBottomLeft  = '└'
	cornerBottomRight = '┘'
	lineHorizontal    = '─'
	lineVertical      = '│'
)

// minSize is the smallest width or height the box can be drawn in.
const minSize = 4

// reservedRows are the border rows plus the over-render slack below the
// cursor band.
const reservedRows = 4

// Renderer draws frames to a backend.
type Renderer struct {
	backend backend.Backend
	width   int
	height  int
	frames  uint64

	borderStyle core.Style
	titleStyle  core.Style
	statusStyle core.Style
	textStyle   core.Style
}

// New creates a renderer sized to the backend.
func New(b backend.Backend) *Renderer {
	w, h := b.Size()
	return &Renderer{
		backend:     b,
		width:       w,
		height:      h,
		borderStyle: core.DefaultStyle(),
		titleStyle:  core.DefaultStyle().Bold(),
		statusStyle: core.DefaultStyle().Reverse(),
		textStyle:   core.DefaultStyle(),
	}
}

// Resize updates the screen dimensions.
func (r *Renderer) Resize(width, height int) {
	r.width = width
	r.height = height
}

// Size returns the screen dimensions.
func (r *Renderer) Size() (width, height int) {
	return r.width, r.height
}

// TextHeight returns the cursor band height for the current layout.
func (r *Renderer) TextHeight() int {
	if h := r.height - reservedRows; h > 0 {
		return h
	}
	return 0
}

// FrameCount returns how many frames were rendered.
func (r *Renderer) FrameCount() uint64 {
	return r.frames
}

// Render paints f and flushes it to the screen.
func (r *Renderer) Render(f session.Frame) {
	r.frames++
	r.backend.Clear()
	if r.width < minSize || r.height < minSize {
		r.backend.HideCursor()
		r.backend.Show()
		return
	}

	r.drawBox()
	r.drawLabel(0, f.Title, r.titleStyle)
	if f.Status != "" {
		r.drawLabel(r.height-1, f.Status, r.statusStyle)
	}

	inner := core.RectFromSize(1, 1, r.height-2, r.width-2)
	for i, line := range f.Lines {
		if i >= inner.Height() {
			break
		}
		r.drawText(inner.Left, inner.Top+i, displayText(line), inner.Width(), r.textStyle)
	}

	r.placeCursor(f, inner)
	r.backend.Show()
}

func (r *Renderer) drawBox() {
	right, bottom := r.width-1, r.height-1
	horiz := core.NewStyledCell(lineHorizontal, r.borderStyle)
	vert := core.NewStyledCell(lineVertical, r.borderStyle)

	r.backend.Fill(core.ScreenRect{Top: 0, Left: 1, Bottom: 1, Right: right}, horiz)
	r.backend.Fill(core.ScreenRect{Top: bottom, Left: 1, Bottom: bottom + 1, Right: right}, horiz)
	r.backend.Fill(core.ScreenRect{Top: 1, Left: 0, Bottom: bottom, Right: 1}, vert)
	r.backend.Fill(core.ScreenRect{Top: 1, Left: right, Bottom: bottom, Right: right + 1}, vert)

	r.backend.SetCell(0, 0, core.NewStyledCell(cornerTopLeft, r.borderStyle))
	r.backend.SetCell(right, 0, core.NewStyledCell(cornerTopRight, r.borderStyle))
	r.backend.SetCell(0, bottom, core.NewStyledCell(cornerBottomLeft, r.borderStyle))
	r.backend.SetCell(right, bottom, core.NewStyledCell(cornerBottomRight, r.borderStyle))
}

// drawLabel writes " text " into a border row, leaving the corners and one
// border cell on each side.
func (r *Renderer) drawLabel(y int, text string, style core.Style) {
	avail := r.width - 4
	if avail <= 2 || text == "" {
		return
	}
	label := runewidth.Truncate(" "+displayText(text)+" ", avail, "…")
	r.drawText(2, y, label, avail, style)
}

// drawText writes s at (x, y), stopping before maxWidth columns are used.
// Returns the number of columns written.
func (r *Renderer) drawText(x, y int, s string, maxWidth int, style core.Style) int {
	used := 0
	for _, ch := range s {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if used+w > maxWidth {
			break
		}
		r.backend.SetCell(x+used, y, core.Cell{Rune: ch, Width: w, Style: style})
		used += w
	}
	return used
}

// placeCursor converts the 1-based cursor to screen cells inside the box.
func (r *Renderer) placeCursor(f session.Frame, inner core.ScreenRect) {
	row := f.Cursor.Row - 1
	if row < 0 || row >= inner.Height() {
		r.backend.HideCursor()
		return
	}
	col := f.Cursor.Column - 1
	x := col
	if row < len(f.Lines) {
		line := []rune(displayText(f.Lines[row]))
		if col > len(line) {
			col = len(line)
		}
		x = runewidth.StringWidth(string(line[:col])) + (f.Cursor.Column - 1 - col)
	}
	if x < 0 || x >= inner.Width() {
		r.backend.HideCursor()
		return
	}
	r.backend.ShowCursor(inner.Left+x, inner.Top+row)
}

// displayText replaces control characters so each rune occupies one cell.
func displayText(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' || r < 0x20 || r == 0x7f {
			return ' '
		}
		return r
	}, s)
}
