package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/olive/pkg/cli/config"
	"github.com/secmon-lab/olive/pkg/usecase"
	"github.com/secmon-lab/olive/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

// environment bundles the flag groups needed to build the use cases
type environment struct {
	app        config.AppConfig
	storage    config.Storage
	completion config.Completion
	gemini     config.Gemini
}

func (x *environment) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, x.app.Flags()...)
	flags = append(flags, x.storage.Flags()...)
	flags = append(flags, x.completion.Flags()...)
	flags = append(flags, x.gemini.Flags()...)
	return flags
}

// Configure opens storage and builds the use cases. Notes are not loaded;
// the caller decides when to call Notes.Load. The returned function closes
// the storage.
func (x *environment) Configure(ctx context.Context) (*usecase.UseCases, func(), error) {
	categories, err := x.app.Configure()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to load configuration")
	}

	classifierOpts, err := x.completion.Configure(ctx, &x.gemini)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to configure classifier")
	}
	classifierOpts = append(classifierOpts, usecase.WithClassifierCategories(categories))

	kv, err := x.storage.Configure(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to initialize storage")
	}

	uc := usecase.New(kv, usecase.WithClassifierOptions(classifierOpts...))
	return uc, func() { safe.Close(ctx, kv) }, nil
}
