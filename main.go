package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/catalog/internal/catalog"
	"github.com/colonyops/catalog/internal/commands"
	"github.com/colonyops/catalog/internal/core/config"
	"github.com/colonyops/catalog/internal/core/eventbus"
	"github.com/colonyops/catalog/internal/core/logging"
	"github.com/colonyops/catalog/internal/core/styles"
	"github.com/colonyops/catalog/internal/data/db"
	"github.com/colonyops/catalog/internal/data/stores"
	"github.com/colonyops/catalog/internal/printer"
	"github.com/colonyops/catalog/internal/tui"
	"github.com/colonyops/catalog/pkg/logutils"
	"github.com/colonyops/catalog/pkg/utils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, buildInfo() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func buildInfo() tui.BuildInfo {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	return tui.BuildInfo{Version: v, Commit: c, Date: d}
}

func build() string {
	b := buildInfo()
	return fmt.Sprintf("%s %s", b.Label(), b.Date)
}

// openDatabase opens the refresh log, moving a corrupted file aside once.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	opts := db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	}

	database, err := db.Open(cfg.DataDir, opts)
	if err == nil || !stores.IsCorruptionError(err) {
		return database, err
	}

	log.Warn().Err(err).Msg("database is corrupted, starting a new refresh log")
	if rerr := stores.RecoverFromCorruption(cfg.DataDir); rerr != nil {
		return nil, fmt.Errorf("recover corrupted database: %w", rerr)
	}
	return db.Open(cfg.DataDir, opts)
}

func main() {
	ctx := context.Background()

	var (
		logCloser  func()
		catalogApp = &catalog.App{}
		database   *db.DB
		busCancel  context.CancelFunc
		stderr     = utils.NewDeferredWriter(os.Stderr)
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "catalog",
		Usage:     "Browse a remote catalog of grouped items",
		UsageText: "catalog [global options] command [command options]",
		Description: `Catalog fetches a JSON list of items, drops entries without a name, and
shows the rest grouped by list id and sorted by name.

Run 'catalog' with no arguments in a terminal to open the interactive browser.
When stdout is not a terminal it behaves like 'catalog ls'.`,
		Version:               build(),
		ErrWriter:             stderr,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("CATALOG_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/catalog.log)",
				Sources:     cli.EnvVars("CATALOG_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("CATALOG_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("CATALOG_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "source-url",
				Usage:       "full URL of the item list, overriding source.base_url and source.path",
				Sources:     cli.EnvVars("CATALOG_SOURCE_URL"),
				Destination: &flags.SourceURL,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			ctx = printer.NewContext(ctx, printer.New(stderr))

			if err := os.MkdirAll(flags.DataDir, 0o755); err != nil {
				return ctx, fmt.Errorf("create data dir: %w", err)
			}

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			if flags.SourceURL != "" {
				// An absolute path resolves to itself against any base.
				cfg.Source.BaseURL = flags.SourceURL
				cfg.Source.Path = flags.SourceURL
			}
			flags.Config = cfg

			logFile := flags.LogFile
			if logFile == "" {
				logFile = cfg.LogFile()
			}
			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.TUI.Theme)
			styles.SetTheme(palette)

			database, err = openDatabase(cfg)
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			bus := eventbus.New(256)
			eventbus.RegisterDebugLogger(bus, logging.Component("eventbus"))
			eventbus.NewNotificationRouter(bus).Register()

			busCtx, cancel := context.WithCancel(context.Background())
			busCancel = cancel
			go bus.Start(busCtx)

			// Populate the pre-allocated App (commands already hold a pointer to it)
			if err := catalogApp.Init(cfg, database, bus); err != nil {
				return ctx, err
			}

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			catalogApp.Close()

			if busCancel != nil {
				busCancel()
			}

			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, catalogApp, buildInfo(), stderr)
	lsCmd := commands.NewLsCmd(flags, catalogApp)

	app = lsCmd.Register(app)
	app = tuiCmd.Register(app)
	app = commands.NewHistoryCmd(flags, catalogApp).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)
	app = commands.NewInitCmd(flags).Register(app)

	// Register TUI flags on root command
	app.Flags = append(app.Flags, tuiCmd.Flags()...)

	// TUI is the default action in a terminal; piped output gets the table.
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'catalog --help' for usage", c.Args().First())
		}
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return tuiCmd.Run(ctx, c)
		}
		return lsCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		_, _ = fmt.Fprintln(os.Stderr, runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
