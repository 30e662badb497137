package document

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
	"unicode/utf8"
)

func checkLengths(t *testing.T, d *Document) {
	t.Helper()
	if len(d.lines) != len(d.lengths) {
		t.Fatalf("lines=%d lengths=%d", len(d.lines), len(d.lengths))
	}
	for i, l := range d.lines {
		if got := utf8.RuneCountInString(string(l)); got != d.lengths[i] {
			t.Fatalf("row %d: cached length %d, actual %d (%q)", i, d.lengths[i], got, string(l))
		}
	}
}

func TestNew(t *testing.T) {
	d := New(nil)
	if d.LineCount() != 1 {
		t.Fatalf("expected 1 line, got %d", d.LineCount())
	}
	if n, _ := d.LengthOf(0); n != 0 {
		t.Errorf("expected empty line, got length %d", n)
	}

	d = New([]string{"ab", "héllo"})
	checkLengths(t, d)
	if n, _ := d.LengthOf(1); n != 5 {
		t.Errorf("expected 5 runes, got %d", n)
	}
}

func TestFromText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{""}},
		{"single newline", "\n", []string{"", ""}},
		{"terminated", "a\nb\n", []string{"a", "b", ""}},
		{"unterminated", "a\nb", []string{"a", "b", ""}},
		{"blank lines", "a\n\n", []string{"a", "", ""}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := FromText(tt.text)
			if got := d.Lines(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FromText(%q) = %q, want %q", tt.text, got, tt.want)
			}
			checkLengths(t, d)
		})
	}
}

func TestTextRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"\n",
		"hello\n",
		"a\nb\nc\n",
		"a\n\n\n",
		"tabs\there\nunicode ✓\n",
	}
	for _, in := range inputs {
		if got := FromText(in).Text(); got != in {
			t.Errorf("round trip %q = %q", in, got)
		}
	}
}

func TestTextElidesOnlyOneTrailingEmptyLine(t *testing.T) {
	d := New([]string{"a", "", ""})
	if got := d.Text(); got != "a\n\n" {
		t.Errorf("Text() = %q, want %q", got, "a\n\n")
	}

	d = New([]string{"a", "b"})
	if got := d.Text(); got != "a\nb\n" {
		t.Errorf("Text() = %q, want %q", got, "a\nb\n")
	}
}

func TestLengthOfOutOfRange(t *testing.T) {
	d := New([]string{"a"})
	for _, row := range []int{-1, 1, 5} {
		if _, err := d.LengthOf(row); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("LengthOf(%d) err = %v, want ErrOutOfRange", row, err)
		}
		if _, err := d.TextOf(row); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("TextOf(%d) err = %v, want ErrOutOfRange", row, err)
		}
	}
}

func TestSplit(t *testing.T) {
	d := New([]string{"ab", "c", ""})
	if err := d.Split(0, 0); err != nil {
		t.Fatalf("split failed: %v", err)
	}
	want := []string{"", "ab", "c", ""}
	if got := d.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
	checkLengths(t, d)

	if err := d.Split(1, 1); err != nil {
		t.Fatalf("split failed: %v", err)
	}
	want = []string{"", "a", "b", "c", ""}
	if got := d.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
	checkLengths(t, d)

	if err := d.Split(3, 1); err != nil {
		t.Fatalf("split at end failed: %v", err)
	}
	if n, _ := d.LengthOf(4); n != 0 {
		t.Errorf("expected new empty line, got length %d", n)
	}
}

func TestSplitOutOfRange(t *testing.T) {
	d := New([]string{"ab"})
	cases := [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 3}}
	for _, c := range cases {
		err := d.Split(c[0], c[1])
		if !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Split(%d, %d) err = %v, want ErrOutOfRange", c[0], c[1], err)
		}
		var re *RangeError
		if !errors.As(err, &re) || re.Op != "split" {
			t.Errorf("Split(%d, %d) err = %v, want *RangeError{Op: split}", c[0], c[1], err)
		}
	}
	if got := d.Lines(); !reflect.DeepEqual(got, []string{"ab"}) {
		t.Errorf("failed split mutated document: %q", got)
	}
}

func TestMergeWithNext(t *testing.T) {
	d := New([]string{"a", "b", "c"})
	if err := d.MergeWithNext(0); err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	want := []string{"ab", "c"}
	if got := d.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
	checkLengths(t, d)

	if err := d.MergeWithNext(1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("merging last row: err = %v, want ErrOutOfRange", err)
	}
}

func TestSplitMergeInverse(t *testing.T) {
	line := "hello, world"
	for k := 0; k <= len(line); k++ {
		d := New([]string{"before", line, "after"})
		if err := d.Split(1, k); err != nil {
			t.Fatalf("Split(1, %d): %v", k, err)
		}
		if err := d.MergeWithNext(1); err != nil {
			t.Fatalf("MergeWithNext(1): %v", err)
		}
		if got, _ := d.TextOf(1); got != line {
			t.Errorf("k=%d: line = %q, want %q", k, got, line)
		}
		if n, _ := d.LengthOf(1); n != len(line) {
			t.Errorf("k=%d: length = %d, want %d", k, n, len(line))
		}
		if d.LineCount() != 3 {
			t.Errorf("k=%d: line count = %d, want 3", k, d.LineCount())
		}
	}
}

func TestInsertChar(t *testing.T) {
	d := New([]string{"ac"})
	if err := d.InsertChar(0, 1, 'b'); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := d.InsertChar(0, 3, 'd'); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := d.InsertChar(0, 0, 'é'); err != nil {
		t.Fatalf("prepend failed: %v", err)
	}
	if got, _ := d.TextOf(0); got != "éabcd" {
		t.Errorf("line = %q, want %q", got, "éabcd")
	}
	checkLengths(t, d)

	if err := d.InsertChar(0, 6, 'x'); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("insert past end: err = %v, want ErrOutOfRange", err)
	}
}

func TestRemoveChar(t *testing.T) {
	d := New([]string{"abc"})
	if err := d.RemoveChar(0, 1); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if got, _ := d.TextOf(0); got != "ac" {
		t.Errorf("line = %q, want %q", got, "ac")
	}
	checkLengths(t, d)

	// The end-of-line insertion point is not a character.
	if err := d.RemoveChar(0, 2); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("remove at end: err = %v, want ErrOutOfRange", err)
	}
	if err := d.RemoveChar(0, -1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("remove at -1: err = %v, want ErrOutOfRange", err)
	}
}

func TestSlice(t *testing.T) {
	d := New([]string{"a", "b", "c"})
	if got := d.Slice(1, 10); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("Slice(1, 10) = %q", got)
	}
	if got := d.Slice(3, 4); got != nil {
		t.Errorf("Slice(3, 4) = %q, want nil", got)
	}
}

func TestLengthCacheUnderRandomEdits(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	d := FromText("alpha\nbeta\ngamma\n")

	for i := 0; i < 5000; i++ {
		row := rng.Intn(d.LineCount())
		n, _ := d.LengthOf(row)
		var err error
		switch rng.Intn(4) {
		case 0:
			err = d.InsertChar(row, rng.Intn(n+1), rune('a'+rng.Intn(26)))
		case 1:
			err = d.Split(row, rng.Intn(n+1))
		case 2:
			if row+1 < d.LineCount() {
				err = d.MergeWithNext(row)
			}
		case 3:
			if n > 0 {
				err = d.RemoveChar(row, rng.Intn(n))
			}
		}
		if err != nil {
			t.Fatalf("step %d: valid operation failed: %v", i, err)
		}
		checkLengths(t, d)
		if d.LineCount() == 0 {
			t.Fatalf("step %d: document became empty", i)
		}
	}
}
