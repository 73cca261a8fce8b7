package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/olive/pkg/domain/interfaces"
	"github.com/secmon-lab/olive/pkg/domain/model"
)

type UseCases struct {
	classifierOpts []ClassifierOption
	storeOpts      []NoteStoreOption
	Classifier     *Classifier
	Notes          *NoteStore
	Couple         *CoupleUseCase
}

type Option func(*UseCases)

func WithClassifierOptions(opts ...ClassifierOption) Option {
	return func(uc *UseCases) {
		uc.classifierOpts = append(uc.classifierOpts, opts...)
	}
}

func WithNoteStoreOptions(opts ...NoteStoreOption) Option {
	return func(uc *UseCases) {
		uc.storeOpts = append(uc.storeOpts, opts...)
	}
}

func New(kv interfaces.KVStore, opts ...Option) *UseCases {
	uc := &UseCases{}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Classifier = NewClassifier(uc.classifierOpts...)
	uc.Notes = NewNoteStore(kv, uc.storeOpts...)
	uc.Couple = NewCoupleUseCase(kv)

	return uc
}

// Classify builds a note from text without storing it. An empty author is
// replaced by the current user.
func (uc *UseCases) Classify(ctx context.Context, text, author string) (*model.Note, error) {
	if strings.TrimSpace(text) == "" {
		return nil, goerr.Wrap(ErrEmptyText, "cannot classify empty text")
	}
	if strings.TrimSpace(author) == "" {
		author = uc.Couple.Couple(ctx).CurrentUser
	}
	return uc.Classifier.Classify(ctx, text, author), nil
}

// CaptureNote classifies text and adds the result to the store
func (uc *UseCases) CaptureNote(ctx context.Context, text, author string) (*model.Note, error) {
	note, err := uc.Classify(ctx, text, author)
	if err != nil {
		return nil, err
	}
	if err := uc.Notes.Add(ctx, note); err != nil {
		return nil, goerr.Wrap(err, "failed to add note", goerr.V(model.NoteIDKey, note.ID))
	}
	return note, nil
}

// UpdateNote validates and applies update to the note with id
func (uc *UseCases) UpdateNote(ctx context.Context, id model.NoteID, update model.NoteUpdate) (*model.Note, error) {
	if update.IsEmpty() {
		return nil, goerr.Wrap(ErrEmptyUpdate, "nothing to update", goerr.V(model.NoteIDKey, id))
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}
	if update.Category != nil {
		if name, ok := uc.Classifier.Categories().Canonical(*update.Category); ok {
			update.Category = &name
		}
	}

	note := uc.Notes.Update(ctx, id, update)
	if note == nil {
		return nil, goerr.Wrap(ErrNoteNotFound, "cannot update note", goerr.V(model.NoteIDKey, id))
	}
	return note, nil
}

// CategorySummary is one configured category with its note counts
type CategorySummary struct {
	Name  string              `json:"name"`
	Stats model.CategoryStats `json:"stats"`
}

// Categories lists the configured categories in order with their counts
func (uc *UseCases) Categories() []CategorySummary {
	names := uc.Classifier.Categories().Names()
	result := make([]CategorySummary, 0, len(names))
	for _, name := range names {
		result = append(result, CategorySummary{
			Name:  name,
			Stats: uc.Notes.CategoryStats(name),
		})
	}
	return result
}

// CategoryView is the filtered content of one category
type CategoryView struct {
	Name  string              `json:"name"`
	Notes []*model.Note       `json:"notes"`
	Stats model.CategoryStats `json:"stats"`
}

// ViewCategory filters one category. Unknown names are served as-is so that
// notes carrying a category outside the configured set stay reachable.
func (uc *UseCases) ViewCategory(category string, filter model.NoteFilter) *CategoryView {
	if name, ok := uc.Classifier.Categories().Canonical(category); ok {
		category = name
	}
	return &CategoryView{
		Name:  category,
		Notes: uc.Notes.Search(category, filter),
		Stats: uc.Notes.CategoryStats(category),
	}
}
