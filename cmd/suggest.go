package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/rubiojr/falcony/pkg/suggest"
	"github.com/urfave/cli/v3"
)

// SuggestCommand creates the suggest command
func SuggestCommand() *cli.Command {
	return &cli.Command{
		Name:      "suggest",
		Usage:     "Show autocomplete suggestions for a partial query",
		ArgsUsage: "[partial query]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "history-only",
				Usage: "Only use the local search history",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return showSuggestions(ctx, c.String("config"), strings.Join(c.Args().Slice(), " "), c.Bool("history-only"))
		},
	}
}

func showSuggestions(ctx context.Context, configPath, query string, historyOnly bool) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	var live *suggest.Live
	if !historyOnly {
		live = suggest.NewLive(a.backend, a.cfg.MaxSuggestions)
	}
	store := suggest.NewStore(a.history, live)

	list, err := store.Update(ctx, query)
	if err != nil {
		fmt.Println(metaStyle.Render("Live suggestions unavailable, showing history only."))
	}
	fmt.Print(formatSuggestions(list, query))
	return nil
}
