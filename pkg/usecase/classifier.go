package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"strings"
	"text/template"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/olive/pkg/domain/interfaces"
	"github.com/secmon-lab/olive/pkg/domain/model"
	"github.com/secmon-lab/olive/pkg/utils/errutil"
	"github.com/secmon-lab/olive/pkg/utils/logging"
)

//go:embed prompt/classify_system.md
var classifySystemPromptTmpl string

var classifySystemPrompt = template.Must(template.New("classify_system").Parse(classifySystemPromptTmpl))

// DefaultRemoteTimeout bounds one remote classification call
const DefaultRemoteTimeout = 30 * time.Second

// Classifier turns raw note text into a Note. The remote completion call is
// optional: when it is not configured, fails, or returns unusable data, the
// note is built from local heuristics and defaults.
type Classifier struct {
	completion interfaces.CompletionClient
	categories *model.CategorySet
	timeout    time.Duration
	now        func() time.Time
}

// ClassifierOption is a functional option for Classifier
type ClassifierOption func(*Classifier)

// WithCompletionClient enables remote classification
func WithCompletionClient(client interfaces.CompletionClient) ClassifierOption {
	return func(c *Classifier) {
		c.completion = client
	}
}

// WithRemoteTimeout bounds the remote call. Zero or negative disables the bound.
func WithRemoteTimeout(d time.Duration) ClassifierOption {
	return func(c *Classifier) {
		c.timeout = d
	}
}

// WithClassifierCategories replaces the default category set
func WithClassifierCategories(categories *model.CategorySet) ClassifierOption {
	return func(c *Classifier) {
		c.categories = categories
	}
}

// WithClassifierClock replaces time.Now
func WithClassifierClock(now func() time.Time) ClassifierOption {
	return func(c *Classifier) {
		c.now = now
	}
}

// NewClassifier creates a Classifier
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		categories: model.DefaultCategorySet(),
		timeout:    DefaultRemoteTimeout,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Categories returns the category set used for classification
func (c *Classifier) Categories() *model.CategorySet {
	return c.categories
}

// Classify builds a new Note from text. It never fails: every remote problem
// degrades to heuristic and default fields.
func (c *Classifier) Classify(ctx context.Context, text, author string) *model.Note {
	remote := c.remoteClassify(ctx, text)
	heuristic := model.HeuristicClassification(text, c.categories)
	fields := model.MergeClassification(remote, heuristic, model.DefaultClassification(text, c.categories))

	logging.From(ctx).Debug("note classified",
		"remote", remote != nil,
		"category", fields.Category,
		"items", len(fields.Items),
	)

	now := c.now().UTC()
	note := &model.Note{
		ID:           model.NewNoteID(),
		OriginalText: text,
		Summary:      fields.Summary,
		Category:     fields.Category,
		DueDate:      fields.DueDate,
		AddedBy:      author,
		CreatedAt:    now,
		UpdatedAt:    now,
		Completed:    false,
		Priority:     fields.Priority,
		Tags:         fields.Tags,
		Items:        fields.Items,
	}
	note.Normalize()
	return note
}

// remoteClassify performs one remote attempt and returns nil when it produced
// no usable structured data. Panics from the client are recovered.
func (c *Classifier) remoteClassify(ctx context.Context, text string) (result *model.Classification) {
	if c.completion == nil || strings.TrimSpace(text) == "" {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			errutil.Handle(ctx, goerr.New("panic in remote classification", goerr.V("panic", r)), "remote classification panicked")
			result = nil
		}
	}()

	messages, err := c.buildMessages(text)
	if err != nil {
		errutil.Handle(ctx, err, "failed to build classification prompt")
		return nil
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	completion, err := c.completion.Complete(ctx, messages)
	if err != nil {
		errutil.Warn(ctx, err, "remote classification failed, using heuristics")
		return nil
	}

	parsed, err := model.ParseClassification(completion, c.categories)
	if err != nil {
		errutil.Warn(ctx, err, "remote classification returned malformed payload, using heuristics")
		return nil
	}

	return parsed
}

func (c *Classifier) buildMessages(text string) ([]model.Message, error) {
	now := c.now()
	var buf bytes.Buffer
	if err := classifySystemPrompt.Execute(&buf, struct {
		Today      string
		Weekday    string
		Categories string
		Shopping   string
		Default    string
	}{
		Today:      now.Format(time.DateOnly),
		Weekday:    now.Weekday().String(),
		Categories: strings.Join(c.categories.Names(), ", "),
		Shopping:   c.categories.Shopping(),
		Default:    c.categories.Default(),
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to render classification prompt")
	}

	return []model.Message{
		{Role: model.RoleSystem, Content: buf.String()},
		{Role: model.RoleUser, Content: text},
	}, nil
}
