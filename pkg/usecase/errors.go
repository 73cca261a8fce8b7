package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrNoteNotFound = errors.New("note not found")

	// State errors
	ErrStoreNotReady = errors.New("note store is not ready")
	ErrDuplicateNote = errors.New("note already exists")

	// Input errors
	ErrEmptyText   = errors.New("note text is empty")
	ErrEmptyUpdate = errors.New("note update has no field")
)

// Context keys for error values
const (
	AuthorKey = "author"
)
