// Package cursor implements cursor navigation over a document's line
// length table.
//
// Positions are screen coordinates: Column and Row are 1-based and Row is
// relative to the viewport, so the document row under the cursor is
// Row-1+View.Offset. Every function here is pure: it takes the current
// State and returns the next one, moving the viewport by at most one row
// per step when the cursor pushes against the top look-ahead band or the
// bottom of the visible band.
//
// Invariants maintained for every reachable state:
//
//	1 <= Column <= lengths[Row-1+Offset] + 1
//	1 <= Row    <= min(Height, len(lengths)-Offset)
package cursor
