// Package lua runs the user's init script in a sandboxed gopher-lua state.
//
// The script sees the base, table, string and math libraries and a global
// editor table:
//
//	editor.bind("Ctrl+W", "save")
//	editor.on_save(function(path, lines) editor.log(path .. " saved") end)
//	editor.on_open(function(path, lines) end)
//	editor.log("loaded")
//
// gopher-lua states are not goroutine-safe; a Host is owned by the event
// loop goroutine.
package lua
