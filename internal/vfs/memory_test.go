package vfs

import (
	"errors"
	"io/fs"
	"reflect"
	"testing"
)

func TestMemFS_AddFile(t *testing.T) {
	mfs := NewMemFS()

	if err := mfs.AddFile("/a/b/c/file.txt", "content", 0600); err != nil {
		t.Fatalf("AddFile failed: %v", err)
	}
	if !mfs.Exists("/a/b/c/file.txt") {
		t.Error("file should exist")
	}
	if !mfs.Exists("/a/b") {
		t.Error("grandparent directory should exist")
	}

	info, err := mfs.Stat("/a/b/c/file.txt")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 || info.Size() != 7 || info.Name() != "file.txt" {
		t.Errorf("info = mode %v size %d name %q", info.Mode(), info.Size(), info.Name())
	}
}

func TestMemFS_ReadWrite(t *testing.T) {
	mfs := NewMemFS()

	if err := mfs.WriteFile("/test.txt", []byte("hello"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	content, err := mfs.ReadFile("test.txt")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(content) != "hello" {
		t.Errorf("content: got %q, want %q", content, "hello")
	}

	// Returned slices are copies.
	content[0] = 'J'
	again, _ := mfs.ReadFile("/test.txt")
	if string(again) != "hello" {
		t.Errorf("stored content modified through returned slice: %q", again)
	}
}

func TestMemFS_WriteKeepsMode(t *testing.T) {
	mfs := NewMemFS()
	mfs.AddFile("/x", "a", 0600)
	if err := mfs.WriteFile("/x", []byte("b"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	info, _ := mfs.Stat("/x")
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestMemFS_Errors(t *testing.T) {
	mfs := NewMemFS()
	mfs.AddFile("/dir/file", "x", 0644)

	if _, err := mfs.ReadFile("/missing"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile missing: %v", err)
	}
	if err := mfs.WriteFile("/nodir/file", nil, 0644); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("WriteFile without parent: %v", err)
	}
	if _, err := mfs.ReadFile("/dir"); err == nil {
		t.Error("ReadFile on a directory should fail")
	}
	if err := mfs.MkdirAll("/dir/file/sub", 0755); err == nil {
		t.Error("MkdirAll through a file should fail")
	}
	if err := mfs.Remove("/dir"); err == nil {
		t.Error("Remove of non-empty directory should fail")
	}
	if _, err := mfs.Stat("/missing"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Stat missing: %v", err)
	}
}

func TestMemFS_Rename(t *testing.T) {
	mfs := NewMemFS()
	mfs.AddFile("/d/.f.tmp", "new", 0640)
	mfs.AddFile("/d/f", "old", 0644)

	if err := mfs.Rename("/d/.f.tmp", "/d/f"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	content, _ := mfs.ReadFile("/d/f")
	if string(content) != "new" {
		t.Errorf("content after rename = %q", content)
	}
	if mfs.Exists("/d/.f.tmp") {
		t.Error("source should be gone after rename")
	}
	if got := mfs.Files(); !reflect.DeepEqual(got, []string{"/d/f"}) {
		t.Errorf("Files() = %v", got)
	}

	if err := mfs.Rename("/d/missing", "/d/f"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Rename missing: %v", err)
	}
	if err := mfs.Rename("/d/f", "/nowhere/f"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Rename into missing dir: %v", err)
	}
}

func TestMemFS_Remove(t *testing.T) {
	mfs := NewMemFS()
	mfs.AddFile("/d/f", "x", 0644)

	if err := mfs.Remove("/d/f"); err != nil {
		t.Fatalf("Remove file: %v", err)
	}
	if err := mfs.Remove("/d"); err != nil {
		t.Fatalf("Remove empty dir: %v", err)
	}
	if mfs.Exists("/d") {
		t.Error("directory should be gone")
	}
	if err := mfs.Remove("/d"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Remove missing: %v", err)
	}
}

func TestMemFS_PathHelpers(t *testing.T) {
	mfs := NewMemFS()
	if got := mfs.Join("a", "b", "c.txt"); got != "a/b/c.txt" {
		t.Errorf("Join = %q", got)
	}
	if got := mfs.Dir("/a/b/c.txt"); got != "/a/b" {
		t.Errorf("Dir = %q", got)
	}
	if got := mfs.Base("/a/b/c.txt"); got != "c.txt" {
		t.Errorf("Base = %q", got)
	}
	if got, _ := mfs.Abs("a/../b"); got != "/b" {
		t.Errorf("Abs = %q", got)
	}
}
