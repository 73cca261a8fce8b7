package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/olive/pkg/domain/interfaces"
	"github.com/secmon-lab/olive/pkg/service/completion"
	"github.com/secmon-lab/olive/pkg/service/llm"
	"github.com/secmon-lab/olive/pkg/usecase"
	"github.com/secmon-lab/olive/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Completion holds CLI flags for the remote classification endpoint
type Completion struct {
	url     string
	timeout time.Duration
}

// Flags returns CLI flags for completion configuration
func (c *Completion) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "completion-url",
			Category:    "Classification",
			Usage:       "Text-completion endpoint used for remote classification",
			Sources:     cli.EnvVars("OLIVE_COMPLETION_URL"),
			Destination: &c.url,
		},
		&cli.DurationFlag{
			Name:        "completion-timeout",
			Category:    "Classification",
			Usage:       "Timeout of one remote classification call (0 disables the bound)",
			Value:       usecase.DefaultRemoteTimeout,
			Sources:     cli.EnvVars("OLIVE_COMPLETION_TIMEOUT"),
			Destination: &c.timeout,
		},
	}
}

// LogAttrs returns log attributes for the completion configuration
func (c *Completion) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("url", c.url),
		slog.Duration("timeout", c.timeout),
	}
}

// Configure builds classifier options. The text-completion endpoint is
// preferred over Gemini; when neither is configured the classifier relies on
// heuristics only.
func (c *Completion) Configure(ctx context.Context, gemini *Gemini) ([]usecase.ClassifierOption, error) {
	opts := []usecase.ClassifierOption{
		usecase.WithRemoteTimeout(c.timeout),
	}

	var client interfaces.CompletionClient
	switch {
	case c.url != "":
		cc, err := completion.New(c.url)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create completion client")
		}
		client = cc
		logging.Default().Info("Remote classification enabled", "completion", slog.GroupValue(c.LogAttrs()...))

	case gemini != nil:
		llmClient, err := gemini.Configure(ctx)
		if err != nil {
			return nil, err
		}
		if llmClient != nil {
			lc, err := llm.New(llmClient)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to create LLM completion client")
			}
			client = lc
			logging.Default().Info("Remote classification enabled", "gemini", slog.GroupValue(gemini.LogAttrs()...))
		}
	}

	if client == nil {
		logging.Default().Info("Remote classification not configured, using heuristics only")
		return opts, nil
	}

	return append(opts, usecase.WithCompletionClient(client)), nil
}
