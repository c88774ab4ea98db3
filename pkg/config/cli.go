package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Board configuration helpers",
		Subcommands: []*cli.Command{
			{
				Name:      "parse-url",
				Usage:     "extract the line, stations and direction from a journey planner URL",
				ArgsUsage: "<url>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return errors.New("expected exactly one URL")
					}

					extracted, ok := ParseURL(c.Args().First())

					output, err := json.MarshalIndent(extracted, "", "  ")
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, string(output))

					if !ok {
						return cli.Exit("URL does not contain both a line and a departure station", 1)
					}

					return nil
				},
			},
			{
				Name:  "validate",
				Usage: "load and validate a board configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Usage:    "path to the board configuration file",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					file, err := Load(c.String("config"))
					if err != nil {
						return err
					}

					interval, _ := file.Interval()
					fmt.Fprintf(c.App.Writer, "%d cards, refreshing every %s\n", len(file.Cards), interval)
					for _, card := range file.Cards {
						fmt.Fprintf(c.App.Writer, "  %s: %s at %s\n", card.Name, card.Line, card.Station)
					}

					return nil
				},
			},
		},
	}
}
