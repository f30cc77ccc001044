package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rubiojr/falcony/pkg/config"
	"github.com/urfave/cli/v3"
)

// InitCommand creates the init command
func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "backend",
				Usage: "Search backend base URL",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing configuration file",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return initConfig(c.String("config"), c.String("backend"), c.Bool("force"))
		},
	}
}

// initConfig writes the commented configuration template
func initConfig(configPath, backendURL string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", configPath)
	}

	cfg, err := config.GetDefaultConfig()
	if err != nil {
		return fmt.Errorf("building default config: %w", err)
	}
	if backendURL != "" {
		cfg.BackendURL = backendURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	if err := cfg.SaveTemplateConfig(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("Configuration initialized at %s\n", configPath)
	return nil
}
