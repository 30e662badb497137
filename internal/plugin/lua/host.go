package lua

import (
	"context"
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// Binder receives key bindings made by the script. *input.Keymap
// satisfies it.
type Binder interface {
	Bind(spec, action string) error
}

// Logger receives script output and hook failures.
type Logger interface {
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Host exposes the editor table to a script and dispatches its hooks.
type Host struct {
	state  *State
	binder Binder
	logger Logger

	onSave []*lua.LFunction
	onOpen []*lua.LFunction
}

// NewHost creates a host whose editor.bind calls go to binder.
func NewHost(binder Binder, logger Logger, opts ...StateOption) *Host {
	h := &Host{binder: binder, logger: logger}
	opts = append([]StateOption{WithPrint(func(msg string) {
		h.logger.Info("lua: %s", msg)
	})}, opts...)
	h.state = NewState(opts...)
	h.state.RegisterModule("editor", map[string]lua.LGFunction{
		"bind":    h.luaBind,
		"on_save": h.luaOnSave,
		"on_open": h.luaOnOpen,
		"log":     h.luaLog,
	})
	return h
}

// Run executes a script. name is used in error messages.
func (h *Host) Run(ctx context.Context, name, src string) error {
	if err := h.state.DoString(ctx, name, src); err != nil {
		return fmt.Errorf("running %s: %w", name, err)
	}
	return nil
}

// HookCount returns the number of registered save and open hooks.
func (h *Host) HookCount() (save, open int) {
	return len(h.onSave), len(h.onOpen)
}

// OnSave runs the save hooks after path was written with the given number
// of lines. A failing hook is logged and does not stop the others.
func (h *Host) OnSave(ctx context.Context, path string, lines int) error {
	return h.dispatch(ctx, "on_save", h.onSave, path, lines)
}

// OnOpen runs the open hooks after path was loaded.
func (h *Host) OnOpen(ctx context.Context, path string, lines int) error {
	return h.dispatch(ctx, "on_open", h.onOpen, path, lines)
}

func (h *Host) dispatch(ctx context.Context, hook string, fns []*lua.LFunction, path string, lines int) error {
	var errs []error
	for _, fn := range fns {
		if err := h.state.Call(ctx, fn, lua.LString(path), lua.LNumber(lines)); err != nil {
			h.logger.Error("lua %s hook: %v", hook, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close releases the Lua state.
func (h *Host) Close() {
	h.state.Close()
}

func (h *Host) luaBind(L *lua.LState) int {
	key := L.CheckString(1)
	action := L.CheckString(2)
	if h.binder == nil {
		return 0
	}
	if err := h.binder.Bind(key, action); err != nil {
		L.RaiseError("editor.bind(%q, %q): %v", key, action, err)
	}
	return 0
}

func (h *Host) luaOnSave(L *lua.LState) int {
	h.onSave = append(h.onSave, L.CheckFunction(1))
	return 0
}

func (h *Host) luaOnOpen(L *lua.LState) int {
	h.onOpen = append(h.onOpen, L.CheckFunction(1))
	return 0
}

func (h *Host) luaLog(L *lua.LState) int {
	h.logger.Info("lua: %s", L.CheckString(1))
	return 0
}
