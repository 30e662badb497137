package renderer

import (
	"strings"
	"testing"

	"github.com/dshills/exedit/internal/engine/cursor"
	"github.com/dshills/exedit/internal/renderer/backend"
	"github.com/dshills/exedit/internal/session"
)

func newTestRenderer(t *testing.T, w, h int) (*Renderer, *backend.NullBackend) {
	t.Helper()
	b := backend.NewNullBackend(w, h)
	if err := b.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return New(b), b
}

func TestTextHeight(t *testing.T) {
	tests := []struct {
		height int
		want   int
	}{
		{24, 20},
		{10, 6},
		{4, 0},
		{2, 0},
	}
	for _, tt := range tests {
		r, _ := newTestRenderer(t, 80, tt.height)
		if got := r.TextHeight(); got != tt.want {
			t.Errorf("TextHeight() with height %d = %d, want %d", tt.height, got, tt.want)
		}
	}
}

func TestRenderFrame(t *testing.T) {
	r, b := newTestRenderer(t, 20, 10)
	r.Render(session.Frame{
		Title:  "f.txt *",
		Lines:  []string{"hello", "wo\trld"},
		Cursor: cursor.Position{Column: 3, Row: 2},
		Status: "saved",
	})

	top := b.Row(0)
	if !strings.HasPrefix(top, "┌─ f.txt * ─") || !strings.HasSuffix(top, "─┐") {
		t.Errorf("top border = %q", top)
	}
	if got, want := b.Row(1), "│hello"+strings.Repeat(" ", 13)+"│"; got != want {
		t.Errorf("row 1 = %q, want %q", got, want)
	}
	if got, want := b.Row(2), "│wo rld"+strings.Repeat(" ", 12)+"│"; got != want {
		t.Errorf("row 2 = %q, want %q", got, want)
	}
	bottom := b.Row(9)
	if !strings.HasPrefix(bottom, "└─ saved ─") || !strings.HasSuffix(bottom, "┘") {
		t.Errorf("bottom border = %q", bottom)
	}

	x, y, visible := b.CursorPosition()
	if !visible || x != 3 || y != 2 {
		t.Errorf("cursor = (%d, %d, %v), want (3, 2, true)", x, y, visible)
	}
	if b.Shows() != 1 || r.FrameCount() != 1 {
		t.Errorf("shows %d frames %d, want 1 and 1", b.Shows(), r.FrameCount())
	}
}

func TestRenderClipsLongLines(t *testing.T) {
	r, b := newTestRenderer(t, 10, 6)
	r.Render(session.Frame{
		Lines:  []string{strings.Repeat("abc", 10)},
		Cursor: cursor.Position{Column: 1, Row: 1},
	})

	if got, want := b.Row(1), "│abcabcab│"; got != want {
		t.Errorf("row 1 = %q, want %q", got, want)
	}
}

func TestRenderOverRenderRows(t *testing.T) {
	r, b := newTestRenderer(t, 10, 8)
	lines := []string{"0", "1", "2", "3", "4", "5", "6", "7"}
	r.Render(session.Frame{Lines: lines, Cursor: cursor.Position{Column: 1, Row: 1}})

	// 6 inner rows: the cursor band of 4 plus two rows of slack.
	for i := 0; i < 6; i++ {
		if got := b.Row(i + 1); !strings.HasPrefix(got, "│"+lines[i]) {
			t.Errorf("row %d = %q", i+1, got)
		}
	}
	if got := b.Row(7); !strings.HasPrefix(got, "└") {
		t.Errorf("last row = %q, want bottom border", got)
	}
}

func TestRenderCursorAfterWideRunes(t *testing.T) {
	r, b := newTestRenderer(t, 20, 8)
	r.Render(session.Frame{
		Lines:  []string{"世界x"},
		Cursor: cursor.Position{Column: 3, Row: 1},
	})

	x, y, visible := b.CursorPosition()
	if !visible || x != 5 || y != 1 {
		t.Errorf("cursor = (%d, %d, %v), want (5, 1, true)", x, y, visible)
	}
}

func TestRenderTooSmall(t *testing.T) {
	r, b := newTestRenderer(t, 3, 3)
	b.ShowCursor(1, 1)
	r.Render(session.Frame{Title: "x", Lines: []string{"a"}, Cursor: cursor.Position{Column: 1, Row: 1}})

	if _, _, visible := b.CursorPosition(); visible {
		t.Error("cursor should be hidden when the screen is too small")
	}
	if got := b.Row(0); got != "   " {
		t.Errorf("row 0 = %q, want blank", got)
	}
}

func TestRenderCursorOutsideBox(t *testing.T) {
	r, b := newTestRenderer(t, 6, 6)
	r.Render(session.Frame{
		Lines:  []string{"abcdefgh"},
		Cursor: cursor.Position{Column: 8, Row: 1},
	})
	if _, _, visible := b.CursorPosition(); visible {
		t.Error("cursor past the right edge should be hidden")
	}
}

func TestRenderAfterResize(t *testing.T) {
	r, b := newTestRenderer(t, 10, 6)
	b.Resize(12, 9)
	r.Resize(12, 9)
	if w, h := r.Size(); w != 12 || h != 9 {
		t.Fatalf("Size() = (%d, %d)", w, h)
	}
	r.Render(session.Frame{Cursor: cursor.Position{Column: 1, Row: 1}})
	if got := b.Row(8); !strings.HasPrefix(got, "└") || len([]rune(got)) != 12 {
		t.Errorf("bottom row after resize = %q", got)
	}
}
