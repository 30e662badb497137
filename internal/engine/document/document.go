package document

import (
	"strings"
)

// Document is a mutable sequence of lines with a cached length per line.
// It always holds at least one line.
type Document struct {
	lines   [][]rune
	lengths []int
}

// New creates a document holding the given lines verbatim.
// An empty slice yields a document with a single empty line.
func New(lines []string) *Document {
	d := &Document{
		lines:   make([][]rune, 0, len(lines)+1),
		lengths: make([]int, 0, len(lines)+1),
	}
	for _, l := range lines {
		r := []rune(l)
		d.lines = append(d.lines, r)
		d.lengths = append(d.lengths, len(r))
	}
	if len(d.lines) == 0 {
		d.lines = append(d.lines, []rune{})
		d.lengths = append(d.lengths, 0)
	}
	return d
}

// FromText splits file content into lines and appends the trailing empty
// line that gives the cursor a slot at end of file.
//
// Lines are split on "\n"; a "\r" immediately before it is dropped. A final
// newline does not start an extra line, so "a\nb\n" and "a\nb" both load
// as ["a", "b", ""].
func FromText(text string) *Document {
	var lines []string
	if text != "" {
		text = strings.TrimSuffix(text, "\n")
		for _, l := range strings.Split(text, "\n") {
			lines = append(lines, strings.TrimSuffix(l, "\r"))
		}
	}
	lines = append(lines, "")
	return New(lines)
}

// Text serializes the document for saving: every line is terminated by
// "\n", and a single trailing empty line is elided.
func (d *Document) Text() string {
	n := len(d.lines)
	if n > 0 && d.lengths[n-1] == 0 {
		n--
	}

	var sb strings.Builder
	size := 0
	for i := 0; i < n; i++ {
		size += d.lengths[i] + 1
	}
	sb.Grow(size)
	for i := 0; i < n; i++ {
		sb.WriteString(string(d.lines[i]))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// LengthOf returns the cached length of a line.
func (d *Document) LengthOf(row int) (int, error) {
	if !d.validRow(row) {
		return 0, rowError("length", row)
	}
	return d.lengths[row], nil
}

// TextOf returns the current content of a line.
func (d *Document) TextOf(row int) (string, error) {
	if !d.validRow(row) {
		return "", rowError("text", row)
	}
	return string(d.lines[row]), nil
}

// Lengths returns the length cache. The slice is a read-only view that is
// only valid until the next mutation.
func (d *Document) Lengths() []int {
	return d.lengths
}

// Lines returns a copy of every line as a string.
func (d *Document) Lines() []string {
	out := make([]string, len(d.lines))
	for i, l := range d.lines {
		out[i] = string(l)
	}
	return out
}

// Slice returns lines [start, end) as strings.
func (d *Document) Slice(start, end int) []string {
	if start < 0 {
		start = 0
	}
	if end > len(d.lines) {
		end = len(d.lines)
	}
	if start >= end {
		return nil
	}
	out := make([]string, 0, end-start)
	for _, l := range d.lines[start:end] {
		out = append(out, string(l))
	}
	return out
}

// Split breaks line row at column: the line keeps [0, column) and a new
// line holding [column, end) is inserted directly after it.
func (d *Document) Split(row, column int) error {
	if !d.validRow(row) || column < 0 || column > d.lengths[row] {
		return posError("split", row, column)
	}

	line := d.lines[row]
	head := make([]rune, column)
	copy(head, line[:column])
	tail := make([]rune, len(line)-column)
	copy(tail, line[column:])

	d.lines = append(d.lines, nil)
	copy(d.lines[row+2:], d.lines[row+1:])
	d.lines[row] = head
	d.lines[row+1] = tail

	d.lengths = append(d.lengths, 0)
	copy(d.lengths[row+2:], d.lengths[row+1:])
	d.lengths[row] = len(head)
	d.lengths[row+1] = len(tail)
	return nil
}

// MergeWithNext appends line row+1 to line row and removes line row+1.
func (d *Document) MergeWithNext(row int) error {
	if !d.validRow(row) || row+1 >= len(d.lines) {
		return rowError("merge", row)
	}

	d.lines[row] = append(d.lines[row], d.lines[row+1]...)
	d.lengths[row] += d.lengths[row+1]

	d.lines = append(d.lines[:row+1], d.lines[row+2:]...)
	d.lengths = append(d.lengths[:row+1], d.lengths[row+2:]...)
	return nil
}

// InsertChar inserts ch before column. Column may equal the line length
// to append.
func (d *Document) InsertChar(row, column int, ch rune) error {
	if !d.validRow(row) || column < 0 || column > d.lengths[row] {
		return posError("insert", row, column)
	}

	line := append(d.lines[row], 0)
	copy(line[column+1:], line[column:])
	line[column] = ch
	d.lines[row] = line
	d.lengths[row]++
	return nil
}

// RemoveChar removes the character at column.
func (d *Document) RemoveChar(row, column int) error {
	if !d.validRow(row) || column < 0 || column >= d.lengths[row] {
		return posError("remove", row, column)
	}

	d.lines[row] = append(d.lines[row][:column], d.lines[row][column+1:]...)
	d.lengths[row]--
	return nil
}

func (d *Document) validRow(row int) bool {
	return row >= 0 && row < len(d.lines)
}
