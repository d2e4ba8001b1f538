package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/catalog/internal/catalog"
	"github.com/colonyops/catalog/internal/core/item"
	"github.com/colonyops/catalog/internal/core/styles"
	"github.com/colonyops/catalog/pkg/iojson"
)

const markdownWrap = 80

type LsCmd struct {
	flags *Flags
	app   *catalog.App

	// flags
	format string
	list   int
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *catalog.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "Fetch and print the item lists",
		UsageText: "catalog ls [--format table|json|markdown] [--list N]",
		Description: `Fetches the item list once, drops items without a name, and prints the
remaining items grouped by list and sorted by name.

Exits non-zero with the fetch error when the request fails.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "output format (table, json, markdown)",
				Value:       "table",
				Destination: &cmd.format,
				Validator: func(s string) error {
					switch s {
					case "table", "json", "markdown":
						return nil
					}
					return fmt.Errorf("unknown format %q", s)
				},
			},
			&cli.IntFlag{
				Name:        "list",
				Aliases:     []string{"l"},
				Usage:       "only print the list with this id",
				Destination: &cmd.list,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	s, err := cmd.app.Store().WaitLoaded(ctx)
	if err != nil {
		return fmt.Errorf("fetch items: %w", err)
	}
	if s.HasError() {
		return errors.New(s.Error)
	}

	coll := s.Items
	if c.IsSet("list") {
		coll = item.Collection{}
		if g, ok := s.Items.Group(cmd.list); ok {
			coll.Groups = []item.Group{g}
		}
	}

	out := c.Root().Writer
	switch cmd.format {
	case "json":
		return iojson.WriteWith(out, c.Root().ErrWriter, coll)
	case "markdown":
		return writeMarkdown(out, coll)
	default:
		return writeTable(out, coll)
	}
}

func writeTable(out io.Writer, coll item.Collection) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "LIST\tID\tNAME")
	for _, g := range coll.Groups {
		for _, it := range g.Items {
			_, _ = fmt.Fprintf(w, "%d\t%d\t%s\n", g.ListID, it.ID, it.Name)
		}
	}
	return w.Flush()
}

// renderMarkdown builds the document printed by --format markdown.
func renderMarkdown(coll item.Collection) string {
	var b strings.Builder
	b.WriteString("# Items List\n\n")
	if coll.IsEmpty() {
		b.WriteString("_No items available_\n")
		return b.String()
	}

	for _, g := range coll.Groups {
		fmt.Fprintf(&b, "## List %d\n\n", g.ListID)
		fmt.Fprintf(&b, "| ID | Name |\n|---:|------|\n")
		for _, it := range g.Items {
			fmt.Fprintf(&b, "| %d | %s |\n", it.ID, strings.ReplaceAll(it.Name, "|", `\|`))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeMarkdown(out io.Writer, coll item.Collection) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(markdownWrap),
	)
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}

	rendered, err := r.Render(renderMarkdown(coll))
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	_, err = io.WriteString(out, rendered)
	return err
}

// Run executes ls. Exported for use as the default command when stdout is
// not a terminal.
func (cmd *LsCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}
