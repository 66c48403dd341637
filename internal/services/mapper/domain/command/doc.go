// Package command holds the reversible mutations applied to an atlas.
//
// Commands capture names and parameters, never entity pointers obtained before
// execution: every Execute and Undo resolves its targets against the atlas it
// is handed, so a command stays valid across structural changes made and
// reverted by other commands. The only retained handles are entities a command
// itself detached and must re-insert on undo.
package command
