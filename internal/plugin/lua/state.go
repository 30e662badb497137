package lua

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds a single call into Lua.
const DefaultExecutionTimeout = time.Second

// State wraps a sandboxed gopher-lua state. Every entry point runs under a
// fresh deadline, so a runaway script is interrupted instead of hanging the
// editor.
type State struct {
	L *lua.LState

	timeout time.Duration
	sandbox *Sandbox
	closed  bool
}

// StateOption configures a State.
type StateOption func(*stateConfig)

type stateConfig struct {
	timeout time.Duration
	print   func(string)
}

// WithExecutionTimeout sets the per-call timeout. Non-positive values
// disable it.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(c *stateConfig) { c.timeout = d }
}

// WithPrint receives the output of the Lua print function.
func WithPrint(fn func(msg string)) StateOption {
	return func(c *stateConfig) { c.print = fn }
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	cfg := stateConfig{timeout: DefaultExecutionTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	s := &State{
		L:       L,
		timeout: cfg.timeout,
		sandbox: NewSandbox(L, cfg.print),
	}
	s.sandbox.Install()
	return s
}

// DoString executes a chunk of Lua source. name identifies the chunk in
// error messages.
func (s *State) DoString(ctx context.Context, name, code string) error {
	if s.closed {
		return ErrStateClosed
	}
	fn, err := s.L.Load(strings.NewReader(code), name)
	if err != nil {
		return fmt.Errorf("compiling %s: %w", name, err)
	}
	return s.call(ctx, fn)
}

// Call invokes a Lua function with the given arguments, discarding results.
func (s *State) Call(ctx context.Context, fn *lua.LFunction, args ...lua.LValue) error {
	if s.closed {
		return ErrStateClosed
	}
	return s.call(ctx, fn, args...)
}

func (s *State) call(ctx context.Context, fn *lua.LFunction, args ...lua.LValue) (err error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	err = s.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
	}
	return err
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// RegisterModule installs a global table holding the given functions.
func (s *State) RegisterModule(name string, funcs map[string]lua.LGFunction) {
	if s.closed {
		return
	}
	s.L.SetGlobal(name, s.L.SetFuncs(s.L.NewTable(), funcs))
}

// Close releases the Lua state. Further calls return ErrStateClosed.
func (s *State) Close() {
	if s.closed {
		return
	}
	s.L.Close()
	s.closed = true
}
