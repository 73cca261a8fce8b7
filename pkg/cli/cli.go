package cli

import (
	"context"
	"io"
	"os"

	"github.com/secmon-lab/olive/pkg/cli/config"
	"github.com/secmon-lab/olive/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// output receives command results. Logs go to the logger output instead.
var output io.Writer = os.Stdout

func Run(ctx context.Context, args []string, version string) error {
	var loggerCfg config.Logger
	var sentryCfg config.Sentry
	var closers []func()

	flags := append(loggerCfg.Flags(), sentryCfg.Flags()...)

	app := &cli.Command{
		Name:    "olive",
		Usage:   "Shared note capture and classification for couples",
		Version: version,
		Flags:   flags,
		Writer:  output,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closers = append(closers, f)

			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return ctx, err
			}
			closers = append(closers, flush)

			logging.Default().Debug("Starting olive", "logger", loggerCfg)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdNote(),
			cmdClassify(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}
