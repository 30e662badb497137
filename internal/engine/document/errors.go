package document

import (
	"errors"
	"fmt"
)

// ErrOutOfRange indicates a row or column outside the current document bounds.
var ErrOutOfRange = errors.New("position out of range")

// RangeError describes a rejected operation.
type RangeError struct {
	Op     string // Operation name (e.g., "split", "remove")
	Row    int
	Column int // -1 when the operation takes no column
}

func (e *RangeError) Error() string {
	if e.Column < 0 {
		return fmt.Sprintf("%s: row %d: %v", e.Op, e.Row, ErrOutOfRange)
	}
	return fmt.Sprintf("%s: row %d column %d: %v", e.Op, e.Row, e.Column, ErrOutOfRange)
}

// Unwrap returns ErrOutOfRange so errors.Is matches the sentinel.
func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

func rowError(op string, row int) error {
	return &RangeError{Op: op, Row: row, Column: -1}
}

func posError(op string, row, col int) error {
	return &RangeError{Op: op, Row: row, Column: col}
}
