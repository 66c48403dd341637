// Package mapscript runs Lua map scripts against an editing session.
//
// A script builds a Script value and returns it:
//
//	local s = Script.new("World")
//	s:region("north"):map("north", "Keep")
//	s:resize("Keep", 12, 8)
//	s:place({x = 2, y = 3, tile = {type = "shape", shape = "tree"}})
//	s:map("north", "Keep"):expect_error("DUPLICATE_MAP_NAME")
//	return s
//
// Loading only records steps. A Runner then turns each step into a command
// and executes it through a session, so every step lands in the undo history
// and undo, redo and batch behave like their editor counterparts. Steps that
// name no map use the map selected by the last map or select step.
//
// Watch re-runs a script whenever its file changes.
package mapscript
