package model_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/olive/pkg/domain/model"
	"github.com/secmon-lab/olive/pkg/domain/types"
)

func TestParseClassification(t *testing.T) {
	categories := model.DefaultCategorySet()

	t.Run("well formed payload", func(t *testing.T) {
		c, err := model.ParseClassification(`{
			"summary": "Groceries for the weekend",
			"category": "groceries",
			"dueDate": "2026-10-19",
			"tags": ["food", "weekend"],
			"priority": "High",
			"items": ["lemons", "bread"]
		}`, categories)
		gt.NoError(t, err).Required()

		gt.Value(t, c.Summary).Equal("Groceries for the weekend")
		gt.Value(t, c.Category).Equal(model.CategoryGroceries)
		gt.Value(t, c.DueDate).Equal("2026-10-19")
		gt.Value(t, c.Tags).Equal([]string{"food", "weekend"})
		gt.Value(t, c.Priority).Equal(types.PriorityHigh)
		gt.Value(t, c.Items).Equal([]string{"lemons", "bread"})
	})

	t.Run("repairs code fences and surrounding text", func(t *testing.T) {
		c, err := model.ParseClassification("Sure!\n```json\n{\"summary\":\"Call mom\",\"category\":\"Task\"}\n```", categories)
		gt.NoError(t, err).Required()
		gt.Value(t, c.Summary).Equal("Call mom")
		gt.Value(t, c.Category).Equal(model.CategoryTask)
	})

	t.Run("wrongly typed fields are dropped individually", func(t *testing.T) {
		c, err := model.ParseClassification(`{
			"summary": 42,
			"category": "Date Idea",
			"dueDate": "next friday",
			"tags": "romantic",
			"priority": "urgent",
			"items": "single"
		}`, categories)
		gt.NoError(t, err).Required()

		gt.Value(t, c.Summary).Equal("")
		gt.Value(t, c.Category).Equal(model.CategoryDateIdea)
		gt.Value(t, c.DueDate).Equal("")
		gt.Value(t, c.Tags).Nil()
		gt.Value(t, c.Priority).Equal(types.Priority(""))
		gt.Value(t, c.Items).Nil()
	})

	t.Run("unknown category is treated as absent", func(t *testing.T) {
		c, err := model.ParseClassification(`{"category": "Finance"}`, categories)
		gt.NoError(t, err).Required()
		gt.Value(t, c.Category).Equal("")
	})

	t.Run("tags are capped and cleaned", func(t *testing.T) {
		c, err := model.ParseClassification(`{"tags": [" a ", "", 1, "b", "c", "d"]}`, categories)
		gt.NoError(t, err).Required()
		gt.Value(t, c.Tags).Equal([]string{"a", "b", "c"})
	})

	t.Run("null due date is absent", func(t *testing.T) {
		c, err := model.ParseClassification(`{"dueDate": null}`, categories)
		gt.NoError(t, err).Required()
		gt.Value(t, c.DueDate).Equal("")
	})

	t.Run("empty items list is absent", func(t *testing.T) {
		c, err := model.ParseClassification(`{"items": []}`, categories)
		gt.NoError(t, err).Required()
		gt.Value(t, c.Items).Nil()
	})

	t.Run("non object payloads are malformed", func(t *testing.T) {
		for _, payload := range []string{"", "not json", `["a","b"]`, `{"summary": }`} {
			_, err := model.ParseClassification(payload, categories)
			gt.Value(t, err).NotNil()
			gt.Bool(t, errors.Is(err, model.ErrMalformedPayload)).True()
		}
	})
}

func TestMergeClassification(t *testing.T) {
	defaults := model.Classification{
		Summary:  "fallback summary",
		Category: model.CategoryTask,
		Tags:     []string{},
	}

	t.Run("remote wins when present", func(t *testing.T) {
		remote := &model.Classification{
			Summary:  "remote",
			Category: model.CategoryTravelIdea,
			Tags:     []string{"trip"},
			Priority: types.PriorityLow,
			Items:    []string{"tickets"},
		}
		heuristic := model.Classification{
			Category: model.CategoryGroceries,
			Items:    []string{"a", "b"},
		}

		merged := model.MergeClassification(remote, heuristic, defaults)
		gt.Value(t, merged.Summary).Equal("remote")
		gt.Value(t, merged.Category).Equal(model.CategoryTravelIdea)
		gt.Value(t, merged.Tags).Equal([]string{"trip"})
		gt.Value(t, merged.Priority).Equal(types.PriorityLow)
		gt.Value(t, merged.Items).Equal([]string{"tickets"})
	})

	t.Run("heuristic fills fields the remote omitted", func(t *testing.T) {
		remote := &model.Classification{Summary: "remote"}
		heuristic := model.Classification{
			Category: model.CategoryGroceries,
			Items:    []string{"a", "b"},
		}

		merged := model.MergeClassification(remote, heuristic, defaults)
		gt.Value(t, merged.Summary).Equal("remote")
		gt.Value(t, merged.Category).Equal(model.CategoryGroceries)
		gt.Value(t, merged.Items).Equal([]string{"a", "b"})
		gt.Value(t, merged.Tags).Equal([]string{})
	})

	t.Run("nil remote falls back to heuristic then defaults", func(t *testing.T) {
		merged := model.MergeClassification(nil, model.Classification{}, defaults)
		gt.Value(t, merged.Summary).Equal("fallback summary")
		gt.Value(t, merged.Category).Equal(model.CategoryTask)
		gt.Value(t, merged.DueDate).Equal("")
		gt.Value(t, merged.Items).Nil()
		gt.Value(t, merged.Tags).Equal([]string{})
	})

	t.Run("merge does not alias source slices", func(t *testing.T) {
		remote := &model.Classification{Tags: []string{"x"}}
		merged := model.MergeClassification(remote, model.Classification{}, defaults)
		merged.Tags[0] = "changed"
		gt.Value(t, remote.Tags[0]).Equal("x")
	})
}

func TestNormalizeDueDate(t *testing.T) {
	for _, valid := range []string{"2026-10-19", "2026-10-19T09:00:00Z", "2026-10-19T09:00:00+09:00", "2026-10-19T09:00"} {
		got, ok := model.NormalizeDueDate(valid)
		gt.Bool(t, ok).True()
		gt.Value(t, got).Equal(valid)
	}
	for _, invalid := range []string{"", "tomorrow", "19/10/2026"} {
		_, ok := model.NormalizeDueDate(invalid)
		gt.Bool(t, ok).False()
	}
}
