package interfaces

import (
	"context"

	"github.com/secmon-lab/olive/pkg/domain/model"
)

// CompletionClient sends role-tagged messages to a remote text-completion
// service and returns the raw completion text.
type CompletionClient interface {
	Complete(ctx context.Context, messages []model.Message) (string, error)
}
