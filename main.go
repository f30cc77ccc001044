package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rubiojr/falcony/cmd"
	"github.com/rubiojr/falcony/pkg/config"
	"github.com/rubiojr/falcony/pkg/log"
	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "falcony",
		Usage: "A search front-end with autocomplete, highlighting and pagination",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: false,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path",
				Value: getDefaultConfigPathOrExit(),
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			log.SetGlobalDebug(c.Bool("debug"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmd.InitCommand(),
			cmd.WebCommand(),
			cmd.SearchCommand(),
			cmd.SuggestCommand(),
			cmd.HistoryCommand(),
			cmd.SettingsCommand(),
			cmd.VersionCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func getDefaultConfigPathOrExit() string {
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get default config path: %v\n", err)
		os.Exit(1)
	}
	return path
}
