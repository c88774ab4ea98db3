package idfmdepartures

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/idfmboard/idfmboard/pkg/config"
	"github.com/idfmboard/idfmboard/pkg/idfm"
	"github.com/idfmboard/idfmboard/pkg/localize"
	"github.com/idfmboard/idfmboard/pkg/transforms"
	"github.com/kr/pretty"
	"github.com/rodaine/table"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

// NewTrackerManagerFromFile wires every card of a configuration file to the upstream source
func NewTrackerManagerFromFile(file *config.File, source Source, publisher Publisher) (*TrackerManager, error) {
	enricher, err := transforms.Setup(file.Transforms)
	if err != nil {
		return nil, err
	}

	refreshRate, err := file.Interval()
	if err != nil {
		return nil, err
	}

	return NewTrackerManager(file.Cards, TrackerOptions{
		Source:      source,
		Enricher:    enricher,
		Publisher:   publisher,
		RefreshRate: refreshRate,
	}), nil
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "resolve and fetch every configured board once and print it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Usage:    "path to the board configuration file",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "dump the resolved route topology",
			},
		},
		Action: func(c *cli.Context) error {
			file, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}

			manager, err := NewTrackerManagerFromFile(file, idfm.NewClientFromEnvironment(), nil)
			if err != nil {
				return err
			}

			for _, tracker := range manager.trackers {
				showBoard(c.Context, tracker, c.Bool("debug"))
			}

			return nil
		},
	}
}

func showBoard(ctx context.Context, tracker *CardTracker, debug bool) {
	if err := tracker.Setup(ctx); err != nil {
		fmt.Fprintf(os.Stdout, "%s: %s\n\n", tracker.Card.Name, tracker.Snapshot().Failure)
		return
	}
	if err := tracker.Refresh(ctx); err != nil {
		log.Warn().Err(err).Str("card", tracker.Card.Name).Msg("Showing board without departures")
	}

	snapshot := tracker.Snapshot()
	board := snapshot.Board()

	title := board.Name
	if board.Header != nil {
		title = fmt.Sprintf("%s [%s %s%s] %s", board.Name, board.Header.Mode, board.Header.Badge, board.Header.BadgeLetter, board.Header.Origin)
		if board.Header.Destination != "" {
			title += " → " + board.Header.Destination
		}
	}
	fmt.Fprintln(os.Stdout, title)

	if debug {
		pretty.Println(snapshot.Topology)
	}

	tbl := table.New("Vehicle", "Destination", "Minutes", "Status")
	for _, row := range board.Rows {
		tbl.AddRow(row.Vehicle, row.Destination, row.Minutes, row.Message)
	}
	tbl.Print()

	footer := []string{fmt.Sprintf("%s %s", localize.Localize("timetable.lastupdated"), board.LastUpdated.Format("15:04:05"))}
	if board.Error {
		footer = append(footer, "(stale)")
	}
	fmt.Fprintf(os.Stdout, "%s\n\n", strings.Join(footer, " "))
}
