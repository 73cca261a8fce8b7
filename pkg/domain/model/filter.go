package model

import "strings"

// NoteFilter narrows a category view
type NoteFilter struct {
	// Query is matched case-insensitively against summary and original text
	Query string
	// ShowCompleted includes completed notes when true
	ShowCompleted bool
}

// Match reports whether n passes the filter
func (f NoteFilter) Match(n *Note) bool {
	if !f.ShowCompleted && n.Completed {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(n.Summary), q) ||
		strings.Contains(strings.ToLower(n.OriginalText), q)
}

// CategoryStats counts notes in one category
type CategoryStats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Incomplete int `json:"incomplete"`
}

// NewCategoryStats counts notes by completion
func NewCategoryStats(notes []*Note) CategoryStats {
	var s CategoryStats
	for _, n := range notes {
		s.Total++
		if n.Completed {
			s.Completed++
		} else {
			s.Incomplete++
		}
	}
	return s
}
