// Package catalog wires the fetch client, state store and persistence into
// the App consumed by commands and the TUI.
package catalog

import (
	"fmt"
	"sync"
	"time"

	"github.com/colonyops/catalog/internal/core/config"
	"github.com/colonyops/catalog/internal/core/eventbus"
	"github.com/colonyops/catalog/internal/core/fetch"
	"github.com/colonyops/catalog/internal/core/kv"
	"github.com/colonyops/catalog/internal/core/logging"
	"github.com/colonyops/catalog/internal/core/state"
	"github.com/colonyops/catalog/internal/data/db"
	"github.com/colonyops/catalog/internal/data/stores"
)

// App is the central entry point for catalog operations.
// Commands and TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Config  *config.Config
	DB      *db.DB
	Bus     *eventbus.EventBus
	Client  *fetch.HTTPClient
	History *stores.RefreshLogStore
	KV      kv.KV

	mu    sync.Mutex
	store *state.Store
}

// NewApp constructs an App from explicit dependencies. bus may be nil.
func NewApp(cfg *config.Config, database *db.DB, bus *eventbus.EventBus) (*App, error) {
	a := &App{}
	if err := a.Init(cfg, database, bus); err != nil {
		return nil, err
	}
	return a, nil
}

// Init populates a zero App in place. main pre-allocates the App so commands
// can hold a pointer to it before the Before hook has loaded config.
func (a *App) Init(cfg *config.Config, database *db.DB, bus *eventbus.EventBus) error {
	client, err := fetch.NewHTTPClient(fetch.Options{
		BaseURL:     cfg.Source.BaseURL,
		Path:        cfg.Source.Path,
		Timeout:     cfg.Source.Timeout.Std(),
		UserAgent:   cfg.Source.UserAgent,
		MinInterval: cfg.Source.RateLimit.Std(),
		Logger:      logging.Component("fetch"),
	})
	if err != nil {
		return fmt.Errorf("create fetch client: %w", err)
	}

	a.Config = cfg
	a.DB = database
	a.Bus = bus
	a.Client = client
	a.History = stores.NewRefreshLogStore(database, cfg.History.Retain)
	a.KV = stores.NewKVStore(database)
	return nil
}

// Store returns the state store. The first call creates it, which starts the
// initial refresh; commands that never need items never fetch.
func (a *App) Store() *state.Store {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.store != nil {
		return a.store
	}

	opts := []state.Option{
		state.WithLogger(logging.Component("state")),
		state.WithInterval(a.Config.Refresh.Interval.Std()),
	}
	if a.Bus != nil {
		opts = append(opts, state.WithBus(a.Bus))
	}
	if a.Config.History.Enabled {
		opts = append(opts, state.WithRecorder(a.History))
	}

	a.store = state.New(a.Client, opts...)
	return a.store
}

// Close stops the state store if it was started. The database and bus are
// owned by the caller.
func (a *App) Close() {
	a.mu.Lock()
	store := a.store
	a.mu.Unlock()

	if store != nil {
		store.Close()
	}
}

// Diagnostics summarizes the running App for the debug endpoint.
type Diagnostics struct {
	Endpoint  string    `json:"endpoint"`
	Started   bool      `json:"started"`
	Loading   bool      `json:"loading"`
	Error     string    `json:"error,omitempty"`
	Groups    int       `json:"groups"`
	Items     int       `json:"items"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
	Interval  string    `json:"interval"`
}

// Diagnostics reports the current state without starting the store.
func (a *App) Diagnostics() Diagnostics {
	d := Diagnostics{
		Endpoint: a.Client.Endpoint(),
		Interval: a.Config.Refresh.Interval.String(),
	}

	a.mu.Lock()
	store := a.store
	a.mu.Unlock()

	if store == nil {
		return d
	}

	s := store.Snapshot()
	d.Started = true
	d.Loading = s.Loading
	d.Error = s.Error
	d.Groups = len(s.Items.Groups)
	d.Items = s.Items.Len()
	d.UpdatedAt = s.UpdatedAt
	return d
}
