package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/olive/pkg/domain/types"
)

// NoteUpdate holds the partial fields merged into an existing note. A nil
// field is left untouched. An empty DueDate or Priority clears the value.
// Completion is not part of an update; it only changes by toggling.
type NoteUpdate struct {
	Summary  *string         `json:"summary,omitempty"`
	Category *string         `json:"category,omitempty"`
	DueDate  *string         `json:"dueDate,omitempty"`
	Priority *types.Priority `json:"priority,omitempty"`
	Tags     *[]string       `json:"tags,omitempty"`
	Items    *[]string       `json:"items,omitempty"`
}

// IsEmpty reports whether the update carries no field
func (u NoteUpdate) IsEmpty() bool {
	return u.Summary == nil && u.Category == nil && u.DueDate == nil &&
		u.Priority == nil && u.Tags == nil && u.Items == nil
}

// Validate checks that applying the update cannot break note invariants
func (u NoteUpdate) Validate() error {
	if u.Category != nil && strings.TrimSpace(*u.Category) == "" {
		return goerr.Wrap(ErrInvalidUpdate, "category cannot be empty")
	}
	if u.Priority != nil && *u.Priority != "" && !u.Priority.IsValid() {
		return goerr.Wrap(ErrInvalidUpdate, "invalid priority", goerr.V("priority", *u.Priority))
	}
	if u.Tags != nil && len(*u.Tags) > MaxTags {
		return goerr.Wrap(ErrInvalidUpdate, "too many tags", goerr.V("count", len(*u.Tags)))
	}
	if u.DueDate != nil && *u.DueDate != "" {
		if _, ok := NormalizeDueDate(*u.DueDate); !ok {
			return goerr.Wrap(ErrInvalidUpdate, "invalid due date", goerr.V("due_date", *u.DueDate))
		}
	}
	return nil
}

// Apply merges the update into n. Fields that would violate a note invariant
// are skipped, so Apply is safe on unvalidated input.
func (u NoteUpdate) Apply(n *Note) {
	if u.Summary != nil {
		n.Summary = *u.Summary
	}
	if u.Category != nil {
		if c := strings.TrimSpace(*u.Category); c != "" {
			n.Category = c
		}
	}
	if u.DueDate != nil {
		if *u.DueDate == "" {
			n.DueDate = ""
		} else if d, ok := NormalizeDueDate(*u.DueDate); ok {
			n.DueDate = d
		}
	}
	if u.Priority != nil && (*u.Priority == "" || u.Priority.IsValid()) {
		n.Priority = *u.Priority
	}
	if u.Tags != nil {
		n.Tags = cleanStrings(*u.Tags, MaxTags)
		if n.Tags == nil {
			n.Tags = []string{}
		}
	}
	if u.Items != nil {
		n.Items = cleanStrings(*u.Items, 0)
	}
}

// cleanStrings trims entries and drops empty ones. limit <= 0 means no limit.
// Returns nil when nothing remains.
func cleanStrings(in []string, limit int) []string {
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
