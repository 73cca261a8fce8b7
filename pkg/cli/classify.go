package cli

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdClassify() *cli.Command {
	var env environment
	var author string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "author",
			Aliases:     []string{"a"},
			Usage:       "Partner adding the note (defaults to the current user)",
			Destination: &author,
		},
	}

	return &cli.Command{
		Name:      "classify",
		Usage:     "Print the classified note as JSON without storing it",
		ArgsUsage: "<text>",
		Flags:     append(flags, env.Flags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := env.Configure(ctx)
			if err != nil {
				return err
			}
			defer closer()

			note, err := uc.Classify(ctx, strings.Join(c.Args().Slice(), " "), author)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(output)
			enc.SetIndent("", "  ")
			if err := enc.Encode(note); err != nil {
				return goerr.Wrap(err, "failed to encode note")
			}
			return nil
		},
	}
}
