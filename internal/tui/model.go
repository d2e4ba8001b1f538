// Package tui implements the interactive catalog browser.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/catalog/internal/core/logging"
	"github.com/colonyops/catalog/internal/core/notify"
	"github.com/colonyops/catalog/internal/core/state"
	"github.com/colonyops/catalog/internal/core/styles"
	"github.com/colonyops/catalog/internal/tui/views/catalog"
)

// Store is the part of the state store the TUI drives. Refresh and ClearError
// may publish synchronously, so the model only calls them from tea.Cmds.
type Store interface {
	Snapshot() state.FetchState
	Refresh()
	ClearError()
}

// Options configures the TUI behavior.
type Options struct {
	Expanded  []int     // list IDs expanded on start
	ExpandAll bool      // expand every list once the first items arrive
	Build     BuildInfo // shown in the status line
	Warnings  []string  // startup warnings shown as toasts
}

// StateMsg delivers a published FetchState into the update loop.
type StateMsg struct {
	State state.FetchState
}

// NotificationMsg delivers a user-facing notification into the update loop.
type NotificationMsg struct {
	Notification notify.Notification
}

// Model is the Bubble Tea model for the catalog browser.
type Model struct {
	store   Store
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	build   BuildInfo

	list      *catalog.Controller
	listView  *catalog.View
	toasts    *ToastController
	toastView *ToastView

	state         state.FetchState
	pendingExpand bool
	spinning      bool
	width         int
	height        int
}

// New creates the model seeded with the store's current snapshot.
func New(store Store, opts Options) Model {
	list := catalog.NewController(opts.Expanded)
	toasts := NewToastController()
	for _, w := range opts.Warnings {
		toasts.Push(notify.Notification{Level: notify.LevelWarning, Message: w})
	}

	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	sp.Style = styles.StatusStyle

	m := Model{
		store:         store,
		keys:          defaultKeyMap(),
		help:          help.New(),
		spinner:       sp,
		build:         opts.Build,
		list:          list,
		listView:      catalog.NewView(list),
		toasts:        toasts,
		toastView:     NewToastView(toasts),
		pendingExpand: opts.ExpandAll,
	}
	m.applyState(store.Snapshot())
	return m
}

// ExpandedListIDs returns the lists the user left expanded.
func (m Model) ExpandedListIDs() []int {
	return m.list.Expanded()
}

// State returns the last FetchState the model received.
func (m Model) State() state.FetchState {
	return m.state
}

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.state.Loading {
		cmds = append(cmds, m.spinner.Tick)
	}
	if m.toasts.HasToasts() {
		m.toasts.SetTicking(true)
		cmds = append(cmds, scheduleToastTick())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case StateMsg:
		return m.handleState(msg)
	case NotificationMsg:
		m.toasts.Push(msg.Notification)
		return m, m.ensureToastTick()
	case toastTickMsg:
		m.toasts.Tick(toastTickInterval)
		if m.toasts.HasToasts() {
			return m, scheduleToastTick()
		}
		m.toasts.SetTicking(false)
		return m, nil
	case spinner.TickMsg:
		if !m.state.Loading {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleState(msg StateMsg) (tea.Model, tea.Cmd) {
	m.applyState(msg.State)
	if m.state.Loading && !m.spinning {
		m.spinning = true
		return m, m.spinner.Tick
	}
	return m, nil
}

func (m *Model) applyState(s state.FetchState) {
	m.state = s
	m.list.SetCollection(s.Items)
	if m.pendingExpand && !s.Items.IsEmpty() {
		m.pendingExpand = false
		if len(m.list.Expanded()) < len(s.Items.Groups) {
			m.list.ToggleAll()
		}
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.list.MoveUp(1)
	case key.Matches(msg, m.keys.Down):
		m.list.MoveDown(1)
	case key.Matches(msg, m.keys.Top):
		m.list.Top()
	case key.Matches(msg, m.keys.Bottom):
		m.list.Bottom()
	case key.Matches(msg, m.keys.Toggle):
		m.list.Toggle()
	case key.Matches(msg, m.keys.ExpandAll):
		m.list.ToggleAll()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshCmd()
	case key.Matches(msg, m.keys.ClearError):
		if m.state.HasError() {
			return m, m.clearErrorCmd()
		}
	case key.Matches(msg, m.keys.Dismiss):
		m.toasts.Dismiss()
	}
	return m, nil
}

func (m Model) refreshCmd() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		logger := logging.Component("tui")
		logger.Debug().Msg("manual refresh")
		store.Refresh()
		return nil
	}
}

func (m Model) clearErrorCmd() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		store.ClearError()
		return nil
	}
}

func (m Model) ensureToastTick() tea.Cmd {
	if m.toasts.Ticking() {
		return nil
	}
	m.toasts.SetTicking(true)
	return scheduleToastTick()
}
