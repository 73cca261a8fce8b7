package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/olive/pkg/domain/types"
)

// Classification is the set of derived fields for a note. The zero value of
// a field means the field is absent. Tags and Items are absent when nil.
type Classification struct {
	Summary  string
	Category string
	DueDate  string
	Tags     []string
	Priority types.Priority
	Items    []string
}

// classificationPayload mirrors the JSON object requested from the remote
// classifier. Fields are decoded loosely so that one wrongly typed field does
// not discard the others.
type classificationPayload struct {
	Summary  json.RawMessage `json:"summary"`
	Category json.RawMessage `json:"category"`
	DueDate  json.RawMessage `json:"dueDate"`
	Tags     json.RawMessage `json:"tags"`
	Priority json.RawMessage `json:"priority"`
	Items    json.RawMessage `json:"items"`
}

// ParseClassification validates and repairs a remote classification payload.
// Markdown code fences and text around the outermost JSON object are
// stripped. Fields with the wrong type, unknown categories, invalid
// priorities and unparsable dates are dropped. An error is returned only
// when the payload is not a JSON object at all.
func ParseClassification(payload string, categories *CategorySet) (*Classification, error) {
	raw := extractJSONObject(payload)
	if raw == "" {
		return nil, goerr.Wrap(ErrMalformedPayload, "no JSON object found", goerr.V("payload", payload))
	}

	var p classificationPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, goerr.Wrap(ErrMalformedPayload, "failed to decode payload", goerr.V("payload", payload), goerr.V("error", err.Error()))
	}

	var c Classification
	if s, ok := decodeString(p.Summary); ok {
		c.Summary = strings.TrimSpace(s)
	}
	if s, ok := decodeString(p.Category); ok && categories != nil {
		if name, found := categories.Canonical(s); found {
			c.Category = name
		}
	}
	if s, ok := decodeString(p.DueDate); ok {
		if d, valid := NormalizeDueDate(s); valid {
			c.DueDate = d
		}
	}
	if s, ok := decodeString(p.Priority); ok {
		if prio, err := types.ParsePriority(s); err == nil {
			c.Priority = prio
		}
	}
	if tags, ok := decodeStrings(p.Tags); ok {
		c.Tags = cleanStrings(tags, MaxTags)
		if c.Tags == nil {
			c.Tags = []string{}
		}
	}
	if items, ok := decodeStrings(p.Items); ok {
		c.Items = cleanStrings(items, 0)
	}

	return &c, nil
}

// MergeClassification picks each field from the first source where it is
// present: remote, then heuristic, then defaults. remote may be nil.
func MergeClassification(remote *Classification, heuristic, defaults Classification) Classification {
	sources := make([]Classification, 0, 3)
	if remote != nil {
		sources = append(sources, *remote)
	}
	sources = append(sources, heuristic, defaults)

	var merged Classification
	for _, src := range sources {
		if merged.Summary == "" {
			merged.Summary = src.Summary
		}
		if merged.Category == "" {
			merged.Category = src.Category
		}
		if merged.DueDate == "" {
			merged.DueDate = src.DueDate
		}
		if merged.Priority == "" {
			merged.Priority = src.Priority
		}
		if merged.Tags == nil {
			merged.Tags = cloneStrings(src.Tags)
		}
		if merged.Items == nil {
			merged.Items = cloneStrings(src.Items)
		}
	}

	return merged
}

// DefaultClassification returns the documented defaults for text
func DefaultClassification(text string, categories *CategorySet) Classification {
	return Classification{
		Summary:  TruncateText(text, SummaryFallbackLength),
		Category: categories.Default(),
		Tags:     []string{},
	}
}

var dueDateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// NormalizeDueDate accepts ISO-8601 dates and date-times and returns the
// trimmed input when it parses.
func NormalizeDueDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, layout := range dueDateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return s, true
		}
	}
	return "", false
}

// extractJSONObject strips code fences and returns the text between the
// first '{' and the last '}', or "" when there is none.
func extractJSONObject(payload string) string {
	s := strings.TrimSpace(payload)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func decodeString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func decodeStrings(raw json.RawMessage) ([]string, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var values []any
	if err := json.Unmarshal(raw, &values); err != nil || values == nil {
		return nil, false
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, true
}
