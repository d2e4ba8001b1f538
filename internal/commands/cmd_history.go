package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/catalog/internal/catalog"
	"github.com/colonyops/catalog/internal/core/history"
	"github.com/colonyops/catalog/internal/printer"
	"github.com/colonyops/catalog/pkg/iojson"
)

type HistoryCmd struct {
	flags *Flags
	app   *catalog.App

	// flags
	limit      int
	jsonOutput bool
	clear      bool
}

// NewHistoryCmd creates a new history command
func NewHistoryCmd(flags *Flags, app *catalog.App) *HistoryCmd {
	return &HistoryCmd{flags: flags, app: app}
}

// Register adds the history command to the application
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "history",
		Usage:     "Show recent refresh attempts",
		UsageText: "catalog history [--limit N] [--json] [--clear]",
		Description: `Lists how recent refreshes resolved, newest first. Only the outcome of
each attempt is kept; fetched items are never stored.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "maximum entries to show (0 for all)",
				Value:       20,
				Destination: &cmd.limit,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
			&cli.BoolFlag{
				Name:        "clear",
				Usage:       "delete all recorded attempts",
				Destination: &cmd.clear,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *HistoryCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if cmd.clear {
		if err := cmd.app.History.Clear(ctx); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		p.Successf("Refresh history cleared")
		return nil
	}

	entries, err := cmd.app.History.List(ctx, cmd.limit)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, e := range entries {
			if err := iojson.WriteLine(out, e); err != nil {
				return fmt.Errorf("encode entry: %w", err)
			}
		}
		return nil
	}

	if len(entries) == 0 {
		p.Infof("No refresh history")
		return nil
	}

	return writeHistoryTable(out, entries)
}

func writeHistoryTable(out io.Writer, entries []history.Entry) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "FINISHED\tTRIGGER\tOUTCOME\tITEMS\tTOOK\tMESSAGE")
	for _, e := range entries {
		items := "-"
		if !e.Failed() {
			items = fmt.Sprintf("%d/%d", e.Items, e.Groups)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.FinishedAt.Local().Format(time.DateTime),
			e.Trigger,
			e.Outcome,
			items,
			e.Duration().Round(time.Millisecond),
			e.Message,
		)
	}
	return w.Flush()
}
