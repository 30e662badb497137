package edit

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/dshills/exedit/internal/engine/cursor"
	"github.com/dshills/exedit/internal/engine/document"
	"github.com/dshills/exedit/internal/engine/viewport"
)

func at(col, row int) cursor.State {
	return cursor.State{
		Cursor: cursor.Position{Column: col, Row: row},
		View:   viewport.Viewport{Height: 10},
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name      string
		lines     []string
		state     cursor.State
		op        Op
		wantLines []string
		wantPos   cursor.Position
		changed   bool
	}{
		{
			name:      "insert in middle",
			lines:     []string{"ac"},
			state:     at(2, 1),
			op:        Op{Kind: InsertChar, Rune: 'b'},
			wantLines: []string{"abc"},
			wantPos:   cursor.Position{Column: 3, Row: 1},
			changed:   true,
		},
		{
			name:      "insert at end of line",
			lines:     []string{"ab"},
			state:     at(3, 1),
			op:        Op{Kind: InsertChar, Rune: '!'},
			wantLines: []string{"ab!"},
			wantPos:   cursor.Position{Column: 4, Row: 1},
			changed:   true,
		},
		{
			name:      "enter at column 1",
			lines:     []string{"ab", "c", ""},
			state:     at(1, 1),
			op:        Op{Kind: SplitLine},
			wantLines: []string{"", "ab", "c", ""},
			wantPos:   cursor.Position{Column: 1, Row: 2},
			changed:   true,
		},
		{
			name:      "enter mid line",
			lines:     []string{"hello"},
			state:     at(3, 1),
			op:        Op{Kind: SplitLine},
			wantLines: []string{"he", "llo"},
			wantPos:   cursor.Position{Column: 1, Row: 2},
			changed:   true,
		},
		{
			name:      "backspace removes previous char",
			lines:     []string{"ab"},
			state:     at(3, 1),
			op:        Op{Kind: Backspace},
			wantLines: []string{"a"},
			wantPos:   cursor.Position{Column: 2, Row: 1},
			changed:   true,
		},
		{
			name:      "backspace joins with previous line",
			lines:     []string{"ab", "cd"},
			state:     at(1, 2),
			op:        Op{Kind: Backspace},
			wantLines: []string{"abcd"},
			wantPos:   cursor.Position{Column: 3, Row: 1},
			changed:   true,
		},
		{
			name:      "backspace at start of document",
			lines:     []string{"ab"},
			state:     at(1, 1),
			op:        Op{Kind: Backspace},
			wantLines: []string{"ab"},
			wantPos:   cursor.Position{Column: 1, Row: 1},
		},
		{
			name:      "delete char under cursor",
			lines:     []string{"abc"},
			state:     at(2, 1),
			op:        Op{Kind: Delete},
			wantLines: []string{"ac"},
			wantPos:   cursor.Position{Column: 2, Row: 1},
			changed:   true,
		},
		{
			name:      "delete at end of line joins next",
			lines:     []string{"a", "b"},
			state:     at(2, 1),
			op:        Op{Kind: Delete},
			wantLines: []string{"ab"},
			wantPos:   cursor.Position{Column: 2, Row: 1},
			changed:   true,
		},
		{
			name:      "delete at end of document",
			lines:     []string{"a", "b"},
			state:     at(2, 2),
			op:        Op{Kind: Delete},
			wantLines: []string{"a", "b"},
			wantPos:   cursor.Position{Column: 2, Row: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := document.New(tt.lines)
			res, err := Apply(doc, tt.state, tt.op)
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if got := doc.Lines(); !reflect.DeepEqual(got, tt.wantLines) {
				t.Errorf("lines = %q, want %q", got, tt.wantLines)
			}
			if res.State.Cursor != tt.wantPos {
				t.Errorf("cursor = %v, want %v", res.State.Cursor, tt.wantPos)
			}
			if res.Changed != tt.changed {
				t.Errorf("changed = %v, want %v", res.Changed, tt.changed)
			}
		})
	}
}

func TestApplyEnterOnBottomRowScrolls(t *testing.T) {
	doc := document.New([]string{"a", "b", "c", "d"})
	s := cursor.State{
		Cursor: cursor.Position{Column: 2, Row: 3},
		View:   viewport.Viewport{Offset: 0, Height: 3},
	}

	res, err := Apply(doc, s, Op{Kind: SplitLine})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.State.Cursor != (cursor.Position{Column: 1, Row: 3}) || res.State.View.Offset != 1 {
		t.Errorf("state = %+v, want cursor (1,3) offset 1", res.State)
	}
	if res.State.DocumentRow() != 3 {
		t.Errorf("document row = %d, want 3", res.State.DocumentRow())
	}
}

func TestApplyBackspaceOnTopRowOfScrolledView(t *testing.T) {
	doc := document.New([]string{"a", "bc", "d"})
	s := cursor.State{
		Cursor: cursor.Position{Column: 1, Row: 1},
		View:   viewport.Viewport{Offset: 2, Height: 3},
	}

	res, err := Apply(doc, s, Op{Kind: Backspace})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := doc.Lines(); !reflect.DeepEqual(got, []string{"a", "bcd"}) {
		t.Errorf("lines = %q", got)
	}
	if res.State.Cursor != (cursor.Position{Column: 3, Row: 1}) || res.State.View.Offset != 1 {
		t.Errorf("state = %+v, want cursor (3,1) offset 1", res.State)
	}
}

func TestApplyRejectsInvalidCursor(t *testing.T) {
	doc := document.New([]string{"ab"})

	for _, s := range []cursor.State{at(5, 1), at(1, 4), at(0, 1)} {
		_, err := Apply(doc, s, Op{Kind: InsertChar, Rune: 'x'})
		if !errors.Is(err, document.ErrOutOfRange) {
			t.Errorf("Apply at %v: err = %v, want ErrOutOfRange", s.Cursor, err)
		}
	}
	if got := doc.Lines(); !reflect.DeepEqual(got, []string{"ab"}) {
		t.Errorf("rejected edit mutated document: %q", got)
	}
}

func TestApplyKeepsInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	doc := document.FromText("one\ntwo\nthree\nfour\nfive\n")
	s := cursor.NewState(4)

	for i := 0; i < 10000; i++ {
		if rng.Intn(3) == 0 {
			s = cursor.Move(s, cursor.Direction(rng.Intn(4)), doc.Lengths())
			continue
		}

		op := Op{Kind: Kind(rng.Intn(4)), Rune: rune('a' + rng.Intn(26))}
		res, err := Apply(doc, s, op)
		if err != nil {
			t.Fatalf("step %d: %v from %+v: %v", i, op.Kind, s, err)
		}
		s = res.State

		if !cursor.Valid(s, doc.Lengths()) {
			t.Fatalf("step %d: %v left invalid state %+v", i, op.Kind, s)
		}
		for row := 0; row < doc.LineCount(); row++ {
			text, _ := doc.TextOf(row)
			n, _ := doc.LengthOf(row)
			if len([]rune(text)) != n {
				t.Fatalf("step %d: row %d length cache %d, actual %d", i, row, n, len([]rune(text)))
			}
		}
	}
}
