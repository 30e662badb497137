package lua

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

type recordingLogger struct {
	infos  []string
	errors []string
}

func (l *recordingLogger) Info(format string, args ...any) {
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Error(format string, args ...any) {
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

type recordingBinder struct {
	bound map[string]string
}

func (b *recordingBinder) Bind(spec, action string) error {
	if action == "explode" {
		return errors.New("unknown action")
	}
	if b.bound == nil {
		b.bound = make(map[string]string)
	}
	b.bound[spec] = action
	return nil
}

func TestHostBind(t *testing.T) {
	binder := &recordingBinder{}
	h := NewHost(binder, &recordingLogger{})
	defer h.Close()

	err := h.Run(context.Background(), "init.lua", `
editor.bind("Ctrl+W", "save")
editor.bind("F10", "quit")
`)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if binder.bound["Ctrl+W"] != "save" || binder.bound["F10"] != "quit" {
		t.Errorf("bound = %v", binder.bound)
	}
}

func TestHostBindError(t *testing.T) {
	h := NewHost(&recordingBinder{}, &recordingLogger{})
	defer h.Close()

	err := h.Run(context.Background(), "init.lua", `editor.bind("F2", "explode")`)
	if err == nil || !strings.Contains(err.Error(), "unknown action") {
		t.Errorf("Run() error = %v, want the binder error", err)
	}
}

func TestHostHooks(t *testing.T) {
	logger := &recordingLogger{}
	h := NewHost(nil, logger)
	defer h.Close()

	err := h.Run(context.Background(), "init.lua", `
editor.on_open(function(path, lines) editor.log("open " .. path .. " " .. lines) end)
editor.on_save(function(path, lines) editor.log("save " .. path .. " " .. lines) end)
editor.on_save(function(path, lines) error("hook failed") end)
editor.on_save(function(path, lines) print("after", lines) end)
`)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if save, open := h.HookCount(); save != 3 || open != 1 {
		t.Errorf("HookCount() = %d, %d, want 3, 1", save, open)
	}

	if err := h.OnOpen(context.Background(), "a.txt", 4); err != nil {
		t.Errorf("OnOpen() error = %v", err)
	}
	if err := h.OnSave(context.Background(), "a.txt", 5); err == nil {
		t.Error("OnSave() should report the failing hook")
	}

	wantInfos := []string{"lua: open a.txt 4", "lua: save a.txt 5", "lua: after\t5"}
	if fmt.Sprint(logger.infos) != fmt.Sprint(wantInfos) {
		t.Errorf("infos = %q, want %q", logger.infos, wantInfos)
	}
	if len(logger.errors) != 1 || !strings.Contains(logger.errors[0], "on_save") {
		t.Errorf("errors = %q", logger.errors)
	}
}

func TestHostBadArguments(t *testing.T) {
	h := NewHost(nil, &recordingLogger{})
	defer h.Close()

	if err := h.Run(context.Background(), "init.lua", `editor.on_save("not a function")`); err == nil {
		t.Error("on_save with a string should fail")
	}
}
