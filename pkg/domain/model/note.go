package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/olive/pkg/domain/types"
)

const (
	// MaxTags is the maximum number of tags kept on a note
	MaxTags = 3

	// SummaryFallbackLength is the number of characters of the original text
	// used as summary when no summary was produced
	SummaryFallbackLength = 100
)

// NoteID is a UUID-based identifier for Note
type NoteID string

// NewNoteID generates a new UUID v4 NoteID
func NewNoteID() NoteID {
	return NoteID(uuid.New().String())
}

func (id NoteID) String() string {
	return string(id)
}

// Note is the structured record derived from one captured free-form note.
// ID, OriginalText and CreatedAt never change after creation.
type Note struct {
	ID           NoteID         `json:"id"`
	OriginalText string         `json:"originalText"`
	Summary      string         `json:"summary"`
	Category     string         `json:"category"`
	DueDate      string         `json:"dueDate,omitempty"`
	AddedBy      string         `json:"addedBy"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	Completed    bool           `json:"completed"`
	Priority     types.Priority `json:"priority,omitempty"`
	Tags         []string       `json:"tags"`
	Items        []string       `json:"items,omitempty"`
}

// Copy returns a deep copy of the note
func (n *Note) Copy() *Note {
	if n == nil {
		return nil
	}
	copied := *n
	copied.Tags = cloneStrings(n.Tags)
	copied.Items = cloneStrings(n.Items)
	return &copied
}

// Normalize fixes representation-only differences so that a note survives a
// JSON round trip unchanged: Tags is never nil and Items is never empty.
func (n *Note) Normalize() {
	if n.Tags == nil {
		n.Tags = []string{}
	}
	if len(n.Items) == 0 {
		n.Items = nil
	}
	n.CreatedAt = n.CreatedAt.UTC()
	n.UpdatedAt = n.UpdatedAt.UTC()
}

// Validate checks the note invariants
func (n *Note) Validate() error {
	if n.ID == "" {
		return goerr.Wrap(ErrInvalidNote, "note ID is required")
	}
	if n.OriginalText == "" {
		return goerr.Wrap(ErrInvalidNote, "original text is required", goerr.V(NoteIDKey, n.ID))
	}
	if n.Category == "" {
		return goerr.Wrap(ErrInvalidNote, "category is required", goerr.V(NoteIDKey, n.ID))
	}
	if n.AddedBy == "" {
		return goerr.Wrap(ErrInvalidNote, "addedBy is required", goerr.V(NoteIDKey, n.ID))
	}
	if n.UpdatedAt.Before(n.CreatedAt) {
		return goerr.Wrap(ErrInvalidNote, "updatedAt precedes createdAt",
			goerr.V(NoteIDKey, n.ID),
			goerr.V("created_at", n.CreatedAt),
			goerr.V("updated_at", n.UpdatedAt))
	}
	if n.Priority != "" && !n.Priority.IsValid() {
		return goerr.Wrap(ErrInvalidNote, "invalid priority", goerr.V(NoteIDKey, n.ID), goerr.V("priority", n.Priority))
	}
	if len(n.Tags) > MaxTags {
		return goerr.Wrap(ErrInvalidNote, "too many tags", goerr.V(NoteIDKey, n.ID), goerr.V("tags", n.Tags))
	}
	return nil
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// TruncateText returns at most limit characters (runes) of text
func TruncateText(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
