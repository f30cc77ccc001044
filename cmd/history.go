package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// HistoryCommand creates the history command
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect or clear the search history",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent queries, most recent first",
				Action: func(ctx context.Context, c *cli.Command) error {
					return listHistory(c.String("config"))
				},
			},
			{
				Name:  "clear",
				Usage: "Forget every recorded query",
				Action: func(ctx context.Context, c *cli.Command) error {
					return clearHistory(c.String("config"))
				},
			},
		},
	}
}

func listHistory(configPath string) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	entries := a.history.List()
	if len(entries) == 0 {
		fmt.Println(noDataStyle.Render("Search history is empty."))
		return nil
	}
	for i, q := range entries {
		fmt.Printf("%2d. %s\n", i+1, q)
	}
	return nil
}

func clearHistory(configPath string) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.history.Clear(); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	fmt.Println("Search history cleared")
	return nil
}
