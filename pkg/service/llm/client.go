package llm

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/olive/pkg/domain/interfaces"
	"github.com/secmon-lab/olive/pkg/domain/model"
)

// client implements interfaces.CompletionClient on top of a gollem LLM
// client. System messages become the session system prompt and user messages
// become the generation input. The session is asked for JSON output.
type client struct {
	llmClient gollem.LLMClient
}

var _ interfaces.CompletionClient = &client{}

// New creates a completion client backed by llmClient
func New(llmClient gollem.LLMClient) (interfaces.CompletionClient, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}
	return &client{llmClient: llmClient}, nil
}

func (c *client) Complete(ctx context.Context, messages []model.Message) (string, error) {
	var system []string
	var inputs []gollem.Input
	for _, m := range messages {
		switch m.Role {
		case model.RoleSystem:
			system = append(system, m.Content)
		case model.RoleUser:
			inputs = append(inputs, gollem.Text(m.Content))
		default:
			return "", goerr.New("unsupported message role", goerr.V("role", m.Role))
		}
	}
	if len(inputs) == 0 {
		return "", goerr.New("at least one user message is required")
	}

	opts := []gollem.SessionOption{
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
	}
	if len(system) > 0 {
		opts = append(opts, gollem.WithSessionSystemPrompt(strings.Join(system, "\n\n")))
	}

	session, err := c.llmClient.NewSession(ctx, opts...)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, inputs...)
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content from LLM")
	}
	if resp == nil || len(resp.Texts) == 0 {
		return "", goerr.New("LLM returned no text")
	}

	return strings.Join(resp.Texts, ""), nil
}
