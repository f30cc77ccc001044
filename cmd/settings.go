package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// SettingsCommand creates the settings command
func SettingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Show or change UI settings",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the current settings",
				Action: func(ctx context.Context, c *cli.Command) error {
					return showSettings(c.String("config"))
				},
			},
			{
				Name:      "set",
				Usage:     "Change a setting (theme_color, dark_mode, safe_search, language)",
				ArgsUsage: "<key> <value>",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 2 {
						return fmt.Errorf("usage: settings set <key> <value>")
					}
					return setSetting(c.String("config"), c.Args().Get(0), c.Args().Get(1))
				},
			},
			{
				Name:  "reset",
				Usage: "Restore the default settings",
				Action: func(ctx context.Context, c *cli.Command) error {
					return resetSettings(c.String("config"))
				},
			},
		},
	}
}

func showSettings(configPath string) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Print(formatSettings(a.settings.Get()))
	return nil
}

func setSetting(configPath, key, value string) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.settings.Set(key, value); err != nil {
		return err
	}
	fmt.Print(formatSettings(a.settings.Get()))
	return nil
}

func resetSettings(configPath string) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.settings.Reset(); err != nil {
		return fmt.Errorf("resetting settings: %w", err)
	}
	fmt.Println("Settings restored to defaults")
	return nil
}
