// Package engine sequences commands against an atlas and keeps the undo and
// redo history.
//
// The processor is not safe for concurrent use. A failed execute leaves both
// lists and the modification counter untouched, so the history is an exact log
// of applied changes.
package engine
