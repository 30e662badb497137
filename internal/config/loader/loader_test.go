package loader

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dshills/exedit/internal/vfs"
)

func newFS(t *testing.T, files map[string]string) *vfs.MemFS {
	t.Helper()
	mfs := vfs.NewMemFS()
	for p, content := range files {
		if err := mfs.AddFile(p, content, 0644); err != nil {
			t.Fatalf("AddFile(%s): %v", p, err)
		}
	}
	return mfs
}

func TestLoadersProduceSameMap(t *testing.T) {
	mfs := newFS(t, map[string]string{
		"/cfg/config.toml": `
[logging]
level = "debug"

[watch]
enabled = false
debounce = "250ms"

[keys]
save = ["Ctrl+S", "F2"]
`,
		"/cfg/config.yaml": `
logging:
  level: debug
watch:
  enabled: false
  debounce: 250ms
keys:
  save: ["Ctrl+S", "F2"]
`,
		"/cfg/config.json": `{
  "logging": {"level": "debug"},
  "watch": {"enabled": false, "debounce": "250ms"},
  "keys": {"save": ["Ctrl+S", "F2"]}
}`,
	})

	want := map[string]any{
		"logging": map[string]any{"level": "debug"},
		"watch":   map[string]any{"enabled": false, "debounce": "250ms"},
		"keys":    map[string]any{"save": []any{"Ctrl+S", "F2"}},
	}

	for _, p := range []string{"/cfg/config.toml", "/cfg/config.yaml", "/cfg/config.json"} {
		t.Run(p, func(t *testing.T) {
			l, err := ForPath(mfs, p)
			if err != nil {
				t.Fatalf("ForPath: %v", err)
			}
			got, err := l.Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Load() = %#v\nwant %#v", got, want)
			}
		})
	}
}

func TestNumbersNormalized(t *testing.T) {
	mfs := newFS(t, map[string]string{
		"/a.toml": "n = 3\nf = 1.5\n",
		"/a.yaml": "n: 3\nf: 1.5\n",
		"/a.json": `{"n": 3, "f": 1.5}`,
	})
	for _, p := range []string{"/a.toml", "/a.yaml", "/a.json"} {
		l, _ := ForPath(mfs, p)
		got, err := l.Load()
		if err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		if got["n"] != int64(3) || got["f"] != 1.5 {
			t.Errorf("%s: n=%#v f=%#v", p, got["n"], got["f"])
		}
	}
}

func TestMissingFileIsNotAnError(t *testing.T) {
	mfs := vfs.NewMemFS()
	for _, p := range []string{"/x.toml", "/x.yaml", "/x.json"} {
		l, _ := ForPath(mfs, p)
		got, err := l.Load()
		if err != nil || got != nil {
			t.Errorf("%s: Load() = %v, %v; want nil, nil", p, got, err)
		}
	}
}

func TestParseErrors(t *testing.T) {
	mfs := newFS(t, map[string]string{
		"/bad.toml":   "[logging\nlevel = 1",
		"/bad.yaml":   "a: [1, 2",
		"/bad.json":   `{"a": }`,
		"/array.json": `[1, 2]`,
	})
	for _, p := range []string{"/bad.toml", "/bad.yaml", "/bad.json", "/array.json"} {
		l, _ := ForPath(mfs, p)
		_, err := l.Load()
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("%s: error = %v, want *ParseError", p, err)
			continue
		}
		if pe.Path != p {
			t.Errorf("%s: ParseError.Path = %q", p, pe.Path)
		}
	}

	l, _ := ForPath(mfs, "/bad.toml")
	_, err := l.Load()
	var pe *ParseError
	if errors.As(err, &pe) && pe.Line == 0 {
		t.Errorf("TOML parse error should carry a line: %v", pe)
	}
}

func TestForPathUnsupported(t *testing.T) {
	if _, err := ForPath(vfs.NewMemFS(), "/config.ini"); err == nil {
		t.Error("expected error for .ini")
	}
}

func TestFind(t *testing.T) {
	mfs := newFS(t, map[string]string{
		"/cfg/config.yml":  "a: 1",
		"/cfg/config.json": "{}",
	})
	if got := Find(mfs, "/cfg", "config"); got != "/cfg/config.yml" {
		t.Errorf("Find = %q, want yml before json", got)
	}
	if got := Find(mfs, "/none", "config"); got != "" {
		t.Errorf("Find in empty dir = %q", got)
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"logging": map[string]any{"level": "info", "file": "a.log"},
		"ui":      map[string]any{"modifiedMarker": " *"},
	}
	src := map[string]any{
		"logging": map[string]any{"level": "debug"},
		"ui":      "flat",
		"new":     true,
	}
	got := DeepMerge(dst, src)
	want := map[string]any{
		"logging": map[string]any{"level": "debug", "file": "a.log"},
		"ui":      "flat",
		"new":     true,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DeepMerge = %#v", got)
	}
	if got := DeepMerge(nil, nil); got == nil || len(got) != 0 {
		t.Errorf("DeepMerge(nil, nil) = %#v", got)
	}
}

func TestClone(t *testing.T) {
	src := map[string]any{
		"a": map[string]any{"b": []any{"x", map[string]any{"c": 1}}},
	}
	cp := Clone(src)
	cp["a"].(map[string]any)["b"].([]any)[0] = "changed"
	if src["a"].(map[string]any)["b"].([]any)[0] != "x" {
		t.Error("Clone shares slices with the source")
	}
	if Clone(nil) != nil {
		t.Error("Clone(nil) should be nil")
	}
}
