package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/catalog/internal/catalog"
	"github.com/colonyops/catalog/internal/core/eventbus"
	"github.com/colonyops/catalog/internal/core/kv"
	"github.com/colonyops/catalog/internal/core/notify"
	"github.com/colonyops/catalog/internal/core/state"
	"github.com/colonyops/catalog/internal/tui"
	"github.com/colonyops/catalog/pkg/profiler"
	"github.com/colonyops/catalog/pkg/utils"
)

const (
	prefsNamespace = "tui"
	prefsExpanded  = "expanded"
)

type TuiCmd struct {
	flags  *Flags
	app    *catalog.App
	build  tui.BuildInfo
	stderr *utils.DeferredWriter
}

// NewTuiCmd creates a new tui command. Output written to stderr is held
// while the TUI owns the terminal and flushed when it exits.
func NewTuiCmd(flags *Flags, app *catalog.App, build tui.BuildInfo, stderr *utils.DeferredWriter) *TuiCmd {
	return &TuiCmd{
		flags:  flags,
		app:    app,
		build:  build,
		stderr: stderr,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof and /debug/state HTTP endpoints on specified port (e.g., 6060)",
			Sources:     cli.EnvVars("CATALOG_PROFILER_PORT"),
			Destination: &cmd.flags.ProfilerPort,
		},
	}
}

// Register adds the tui command to the application
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:   "tui",
		Usage:  "Browse the item lists interactively",
		Action: cmd.run,
	})
	return app
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	cfg := cmd.app.Config

	var warnings []string
	for _, w := range cfg.Warnings() {
		warnings = append(warnings, w.Message)
	}

	if cmd.flags.ProfilerPort > 0 {
		profServer := profiler.New(cmd.flags.ProfilerPort)
		profServer.HandleJSON("/debug/state", func() any { return cmd.app.Diagnostics() })
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
		log.Info().
			Str("url", fmt.Sprintf("http://%s/debug/pprof/", profServer.Addr())).
			Msg("profiler endpoint available")
	}

	prefs := kv.Scoped[[]int](cmd.app.KV, prefsNamespace)
	var expanded []int
	if cfg.TUI.RememberExpanded {
		var err error
		expanded, err = prefs.GetOr(ctx, prefsExpanded, nil)
		if err != nil {
			log.Warn().Err(err).Msg("failed to load expanded lists")
		}
	}

	// Subscribe before the model takes its snapshot so no publish is missed.
	feed := tui.NewFeed()
	defer feed.Stop()

	store := cmd.app.Store()
	unsubscribe := store.Subscribe(func(s state.FetchState) {
		feed.Push(tui.StateMsg{State: s})
	})
	defer unsubscribe()

	if cmd.app.Bus != nil {
		cmd.app.Bus.SubscribeNotificationPublished(func(p eventbus.NotificationPublishedPayload) {
			feed.Push(tui.NotificationMsg{Notification: notify.Notification{
				Level:     p.Level,
				Message:   p.Message,
				CreatedAt: time.Now(),
			}})
		})
	}

	m := tui.New(store, tui.Options{
		Expanded:  expanded,
		ExpandAll: cfg.TUI.ExpandAll,
		Build:     cmd.build,
		Warnings:  warnings,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	go feed.Run(p.Send)

	if cmd.stderr != nil {
		cmd.stderr.Hold()
		defer func() { _ = cmd.stderr.Release() }()
	}

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	if cfg.TUI.RememberExpanded {
		if fm, ok := finalModel.(tui.Model); ok {
			if err := prefs.Set(ctx, prefsExpanded, fm.ExpandedListIDs()); err != nil {
				log.Warn().Err(err).Msg("failed to save expanded lists")
			}
		}
	}

	return nil
}
