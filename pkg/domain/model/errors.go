package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for domain model validation
var (
	ErrInvalidNote       = goerr.New("invalid note")
	ErrInvalidUpdate     = goerr.New("invalid note update")
	ErrInvalidCategories = goerr.New("invalid category set")
	ErrMalformedPayload  = goerr.New("malformed classification payload")
	ErrInvalidCouple     = goerr.New("invalid couple names")
)

// Context keys for error values
const (
	NoteIDKey   = "note_id"
	CategoryKey = "category"
)
