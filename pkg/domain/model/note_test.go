package model_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/olive/pkg/domain/model"
	"github.com/secmon-lab/olive/pkg/domain/types"
)

func newTestNote() *model.Note {
	now := time.Date(2026, 10, 18, 9, 30, 0, 123456789, time.UTC)
	return &model.Note{
		ID:           model.NewNoteID(),
		OriginalText: "buy lemons, bread and milk",
		Summary:      "Groceries",
		Category:     model.CategoryGroceries,
		AddedBy:      "Alex",
		CreatedAt:    now,
		UpdatedAt:    now,
		Priority:     types.PriorityMedium,
		Tags:         []string{"food"},
		Items:        []string{"lemons", "bread", "milk"},
	}
}

func TestNote_Copy(t *testing.T) {
	note := newTestNote()
	copied := note.Copy()
	gt.Value(t, copied).Equal(note)

	copied.Tags[0] = "changed"
	copied.Items[0] = "changed"
	gt.Value(t, note.Tags[0]).Equal("food")
	gt.Value(t, note.Items[0]).Equal("lemons")

	var nilNote *model.Note
	gt.Value(t, nilNote.Copy()).Nil()
}

func TestNote_JSONRoundTrip(t *testing.T) {
	note := newTestNote()
	note.DueDate = "2026-10-19"
	note.Normalize()

	data, err := json.Marshal(note)
	gt.NoError(t, err).Required()
	gt.String(t, string(data)).Contains(`"originalText":"buy lemons, bread and milk"`)
	gt.String(t, string(data)).Contains(`"dueDate":"2026-10-19"`)

	var decoded model.Note
	gt.NoError(t, json.Unmarshal(data, &decoded)).Required()
	decoded.Normalize()
	gt.Value(t, &decoded).Equal(note)
}

func TestNote_JSONOmitsAbsentFields(t *testing.T) {
	note := newTestNote()
	note.Priority = ""
	note.Items = nil
	note.Tags = nil
	note.Normalize()

	data, err := json.Marshal(note)
	gt.NoError(t, err).Required()
	gt.Bool(t, strings.Contains(string(data), "dueDate")).False()
	gt.Bool(t, strings.Contains(string(data), "priority")).False()
	gt.Bool(t, strings.Contains(string(data), "items")).False()
	gt.String(t, string(data)).Contains(`"tags":[]`)
}

func TestNote_Validate(t *testing.T) {
	t.Run("valid note", func(t *testing.T) {
		gt.NoError(t, newTestNote().Validate())
	})

	testCases := []struct {
		name   string
		mutate func(n *model.Note)
	}{
		{name: "missing id", mutate: func(n *model.Note) { n.ID = "" }},
		{name: "missing text", mutate: func(n *model.Note) { n.OriginalText = "" }},
		{name: "missing category", mutate: func(n *model.Note) { n.Category = "" }},
		{name: "missing author", mutate: func(n *model.Note) { n.AddedBy = "" }},
		{name: "updated before created", mutate: func(n *model.Note) { n.UpdatedAt = n.CreatedAt.Add(-time.Second) }},
		{name: "invalid priority", mutate: func(n *model.Note) { n.Priority = "urgent" }},
		{name: "too many tags", mutate: func(n *model.Note) { n.Tags = []string{"a", "b", "c", "d"} }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n := newTestNote()
			tc.mutate(n)
			err := n.Validate()
			gt.Value(t, err).NotNil()
			gt.Bool(t, errors.Is(err, model.ErrInvalidNote)).True()
		})
	}
}

func TestTruncateText(t *testing.T) {
	gt.Value(t, model.TruncateText("short", 100)).Equal("short")
	gt.Value(t, model.TruncateText(strings.Repeat("a", 150), 100)).Equal(strings.Repeat("a", 100))
	gt.Value(t, model.TruncateText("日本語のメモ", 3)).Equal("日本語")
}

func TestNoteUpdate(t *testing.T) {
	strPtr := func(s string) *string { return &s }
	prioPtr := func(p types.Priority) *types.Priority { return &p }

	t.Run("applies only provided fields", func(t *testing.T) {
		n := newTestNote()
		orig := n.Copy()
		model.NoteUpdate{Summary: strPtr("Weekend groceries")}.Apply(n)

		gt.Value(t, n.Summary).Equal("Weekend groceries")
		gt.Value(t, n.Category).Equal(orig.Category)
		gt.Value(t, n.Tags).Equal(orig.Tags)
		gt.Value(t, n.Items).Equal(orig.Items)
	})

	t.Run("clears due date and priority with empty values", func(t *testing.T) {
		n := newTestNote()
		n.DueDate = "2026-10-19"
		model.NoteUpdate{DueDate: strPtr(""), Priority: prioPtr("")}.Apply(n)
		gt.Value(t, n.DueDate).Equal("")
		gt.Value(t, n.Priority).Equal(types.Priority(""))
	})

	t.Run("skips invariant breaking values", func(t *testing.T) {
		n := newTestNote()
		model.NoteUpdate{
			Category: strPtr("  "),
			Priority: prioPtr("urgent"),
			DueDate:  strPtr("someday"),
		}.Apply(n)
		gt.Value(t, n.Category).Equal(model.CategoryGroceries)
		gt.Value(t, n.Priority).Equal(types.PriorityMedium)
		gt.Value(t, n.DueDate).Equal("")
	})

	t.Run("cleans tags and items", func(t *testing.T) {
		n := newTestNote()
		tags := []string{"", " x ", "y", "z", "w"}
		items := []string{" "}
		model.NoteUpdate{Tags: &tags, Items: &items}.Apply(n)
		gt.Value(t, n.Tags).Equal([]string{"x", "y", "z"})
		gt.Value(t, n.Items).Nil()
		gt.Bool(t, n.Completed).False()
	})

	t.Run("validate rejects invalid fields", func(t *testing.T) {
		tooMany := []string{"a", "b", "c", "d"}
		for _, u := range []model.NoteUpdate{
			{Category: strPtr("")},
			{Priority: prioPtr("urgent")},
			{Tags: &tooMany},
			{DueDate: strPtr("tomorrow")},
		} {
			err := u.Validate()
			gt.Bool(t, errors.Is(err, model.ErrInvalidUpdate)).True()
		}
		gt.NoError(t, model.NoteUpdate{DueDate: strPtr(""), Priority: prioPtr("")}.Validate())
	})

	t.Run("is empty", func(t *testing.T) {
		gt.Bool(t, model.NoteUpdate{}.IsEmpty()).True()
		gt.Bool(t, model.NoteUpdate{Summary: strPtr("")}.IsEmpty()).False()
	})

	t.Run("ignores completed in payload", func(t *testing.T) {
		var u model.NoteUpdate
		gt.NoError(t, json.Unmarshal([]byte(`{"completed":true}`), &u)).Required()
		gt.Bool(t, u.IsEmpty()).True()

		n := newTestNote()
		u.Apply(n)
		gt.Bool(t, n.Completed).False()
	})
}
