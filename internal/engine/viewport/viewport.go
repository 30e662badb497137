// Package viewport tracks which document rows are visible and translates
// between document rows and screen rows.
package viewport

// Viewport is the visible band of the document.
//
// Offset is the first visible document row (0-indexed). Height is the number
// of text rows the renderer reported for the current layout; zero means the
// layout has not been measured yet.
type Viewport struct {
	Offset int
	Height int
}

// New creates a viewport at the top of the document.
func New(height int) Viewport {
	if height < 0 {
		height = 0
	}
	return Viewport{Height: height}
}

// Known reports whether the renderer has supplied a height.
func (v Viewport) Known() bool {
	return v.Height > 0
}

// Resize returns the viewport with a new height. Negative heights are
// treated as unknown.
func (v Viewport) Resize(height int) Viewport {
	if height < 0 {
		height = 0
	}
	v.Height = height
	return v
}

// DocumentRow converts a 1-based screen row to a 0-based document row.
func (v Viewport) DocumentRow(screenRow int) int {
	return screenRow - 1 + v.Offset
}

// ScreenRow converts a 0-based document row to a 1-based screen row.
// The result may fall outside [1, Height] when the row is not visible.
func (v Viewport) ScreenRow(docRow int) int {
	return docRow - v.Offset + 1
}

// Remaining returns how many document rows start at or below Offset.
func (v Viewport) Remaining(lineCount int) int {
	r := lineCount - v.Offset
	if r < 0 {
		return 0
	}
	return r
}

// HasMoreBelow reports whether rows exist below the visible band.
func (v Viewport) HasMoreBelow(lineCount int) bool {
	return v.Known() && v.Remaining(lineCount) > v.Height
}

// WindowBounds returns the document rows [start, end) handed to the
// renderer.
//
// The window starts at Offset. When the remaining rows fit in Height+1, or
// the height is unknown, every remaining row is included. Otherwise exactly
// Height+2 rows are included: the renderer's text area is two rows taller
// than the cursor band, and the extra rows avoid a one-line flicker when the
// band scrolls.
func (v Viewport) WindowBounds(lineCount int) (start, end int) {
	start = v.Offset
	if start > lineCount {
		start = lineCount
	}
	remaining := lineCount - start
	if !v.Known() || remaining <= v.Height+1 {
		return start, lineCount
	}
	return start, start + v.Height + 2
}
