package core

import "errors"

// Common errors.
var (
	// ErrOutOfRange is returned when a position does not index the note list.
	ErrOutOfRange = errors.New("position out of range")
	// ErrDuplicateTag is returned when a tag name is already present.
	ErrDuplicateTag = errors.New("tag already exists")
	// ErrEmptyTag is returned when a tag name is empty.
	ErrEmptyTag = errors.New("tag name cannot be empty")
	// ErrPersistence wraps any failure to write the durable copy.
	// The in-memory mutation that triggered the write is kept.
	ErrPersistence = errors.New("persistence failure")
	// ErrNotFound is returned when no note has the requested ID.
	ErrNotFound = errors.New("note not found")
	// ErrNothingToUndo is returned by Undo when no delete is pending.
	ErrNothingToUndo = errors.New("nothing to undo")
	// ErrReadOnly is returned by stores opened in read-only mode.
	ErrReadOnly = errors.New("store is in read-only mode")
	// ErrUnsupported is returned when the store lacks an optional capability.
	ErrUnsupported = errors.New("operation not supported by store")
)
