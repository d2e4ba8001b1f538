// Package printer writes styled, human-facing command output.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/colonyops/catalog/internal/core/styles"
)

type ctxKey struct{}

// Printer formats status lines for CLI commands.
type Printer struct {
	out io.Writer
}

// New returns a Printer writing to out.
func New(out io.Writer) *Printer {
	return &Printer{out: out}
}

// NewContext attaches p to ctx.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the Printer stored in ctx, or one writing to stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok && p != nil {
		return p
	}
	return New(os.Stderr)
}

func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Infof(format string, args ...any) {
	p.Printf("%s %s", styles.MutedStyle.Render("•"), fmt.Sprintf(format, args...))
}

func (p *Printer) Successf(format string, args ...any) {
	p.Printf("%s %s", styles.SuccessStyle.Render("✓"), fmt.Sprintf(format, args...))
}

func (p *Printer) Warnf(format string, args ...any) {
	p.Printf("%s %s", styles.WarningStyle.Render("!"), fmt.Sprintf(format, args...))
}

func (p *Printer) Errorf(format string, args ...any) {
	p.Printf("%s %s", styles.ErrorStyle.Render("✗"), fmt.Sprintf(format, args...))
}

// Section prints a bold header followed by a divider.
func (p *Printer) Section(title string) {
	p.Printf("%s", styles.CommandHeaderStyle.Render(title))
	p.Printf("%s", styles.DividerStyle.Render(strings.Repeat("─", max(len(title), 8))))
}
