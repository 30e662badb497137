package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// unsafeGlobals load code from outside the script.
var unsafeGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
}

// Sandbox restricts a Lua state to the safe standard libraries.
type Sandbox struct {
	L     *lua.LState
	print func(msg string)
}

// NewSandbox creates a sandbox for L. Output of the Lua print function is
// passed to print; a nil print discards it.
func NewSandbox(L *lua.LState, print func(msg string)) *Sandbox {
	return &Sandbox{L: L, print: print}
}

// openSafeLibraries opens only the libraries that cannot reach the file
// system or the process: base, table, string and math.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// Install removes the loaders and redirects print.
func (s *Sandbox) Install() {
	for _, name := range unsafeGlobals {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.installSafePrint()
}

// installSafePrint replaces print, which would write over the terminal the
// renderer owns.
func (s *Sandbox) installSafePrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		top := L.GetTop()
		parts := make([]string, 0, top)
		for i := 1; i <= top; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		if s.print != nil {
			s.print(strings.Join(parts, "\t"))
		}
		return 0
	}))
}
