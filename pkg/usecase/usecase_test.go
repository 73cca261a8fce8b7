package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/olive/pkg/domain/model"
	"github.com/secmon-lab/olive/pkg/repository/memory"
	"github.com/secmon-lab/olive/pkg/usecase"
)

func newTestUseCases(t *testing.T) *usecase.UseCases {
	t.Helper()
	uc := usecase.New(memory.New())
	uc.Notes.Load(context.Background())
	return uc
}

func TestUseCases_CaptureNote(t *testing.T) {
	ctx := context.Background()
	uc := newTestUseCases(t)

	note, err := uc.CaptureNote(ctx, "buy lemons, bread and milk", "")
	gt.NoError(t, err).Required()
	gt.Value(t, note.AddedBy).Equal(model.DefaultPartner1)
	gt.Value(t, note.Category).Equal(model.CategoryGroceries)

	stored := uc.Notes.GetByID(note.ID)
	gt.Value(t, stored).Equal(note)
}

func TestUseCases_CaptureNoteUsesCurrentUser(t *testing.T) {
	ctx := context.Background()
	uc := newTestUseCases(t)
	_, err := uc.Couple.SaveCoupleNames(ctx, model.CoupleNames{Partner1: "Alex", Partner2: "Sam"})
	gt.NoError(t, err).Required()
	_, err = uc.Couple.SwitchUser(ctx)
	gt.NoError(t, err).Required()

	note, err := uc.CaptureNote(ctx, "fix kitchen sink", "")
	gt.NoError(t, err).Required()
	gt.Value(t, note.AddedBy).Equal("Sam")

	note, err = uc.CaptureNote(ctx, "fix kitchen sink", "Alex")
	gt.NoError(t, err).Required()
	gt.Value(t, note.AddedBy).Equal("Alex")
}

func TestUseCases_CaptureNoteEmptyText(t *testing.T) {
	uc := newTestUseCases(t)
	_, err := uc.CaptureNote(context.Background(), "   ", "Sam")
	gt.Error(t, err).Is(usecase.ErrEmptyText)
}

func TestUseCases_CaptureNoteNotReady(t *testing.T) {
	uc := usecase.New(memory.New())
	_, err := uc.CaptureNote(context.Background(), "fix kitchen sink", "Sam")
	gt.Error(t, err).Is(usecase.ErrStoreNotReady)
}

func TestUseCases_UpdateNote(t *testing.T) {
	ctx := context.Background()
	uc := newTestUseCases(t)
	note, err := uc.CaptureNote(ctx, "fix kitchen sink", "Sam")
	gt.NoError(t, err).Required()

	category := "home improvement"
	updated, err := uc.UpdateNote(ctx, note.ID, model.NoteUpdate{Category: &category})
	gt.NoError(t, err).Required()
	gt.Value(t, updated.Category).Equal(model.CategoryHomeImprovement)

	_, err = uc.UpdateNote(ctx, note.ID, model.NoteUpdate{})
	gt.Error(t, err).Is(usecase.ErrEmptyUpdate)

	tags := []string{"a", "b", "c", "d"}
	_, err = uc.UpdateNote(ctx, note.ID, model.NoteUpdate{Tags: &tags})
	gt.Error(t, err).Is(model.ErrInvalidUpdate)

	_, err = uc.UpdateNote(ctx, model.NoteID("missing"), model.NoteUpdate{Category: &category})
	gt.Error(t, err).Is(usecase.ErrNoteNotFound)
}

func TestUseCases_Categories(t *testing.T) {
	ctx := context.Background()
	uc := newTestUseCases(t)
	_, err := uc.CaptureNote(ctx, "buy lemons and milk", "Sam")
	gt.NoError(t, err).Required()
	groceries, err := uc.CaptureNote(ctx, "buy eggs and bread", "Sam")
	gt.NoError(t, err).Required()
	uc.Notes.ToggleCompletion(ctx, groceries.ID)

	summaries := uc.Categories()
	gt.Array(t, summaries).Length(5)
	gt.Value(t, summaries[0].Name).Equal(model.CategoryGroceries)
	gt.Value(t, summaries[0].Stats).Equal(model.CategoryStats{Total: 2, Completed: 1, Incomplete: 1})
	gt.Value(t, summaries[1].Stats.Total).Equal(0)

	view := uc.ViewCategory("groceries", model.NoteFilter{})
	gt.Value(t, view.Name).Equal(model.CategoryGroceries)
	gt.Array(t, view.Notes).Length(1)
	gt.Value(t, view.Stats.Total).Equal(2)
}
