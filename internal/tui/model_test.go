package tui

import (
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/catalog/internal/core/item"
	"github.com/colonyops/catalog/internal/core/notify"
	"github.com/colonyops/catalog/internal/core/state"
	"github.com/colonyops/catalog/pkg/tuitest"
)

type fakeStore struct {
	snapshot  state.FetchState
	refreshes atomic.Int32
	clears    atomic.Int32
}

func (f *fakeStore) Snapshot() state.FetchState { return f.snapshot }
func (f *fakeStore) Refresh()                   { f.refreshes.Add(1) }
func (f *fakeStore) ClearError()                { f.clears.Add(1) }

func loaded() state.FetchState {
	return state.FetchState{
		Items: item.BuildCollection([]item.RawItem{
			item.NewRaw(1, 2, "Item 1"),
			item.NewRaw(2, 1, "Item 2"),
			item.NewRaw(3, 1, "Item 3"),
		}),
		UpdatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func newModel(t *testing.T, s state.FetchState, opts Options) (Model, *fakeStore) {
	t.Helper()
	store := &fakeStore{snapshot: s}
	m := New(store, opts)
	return tuitest.Send(m, tuitest.WindowSize(100, 30)).(Model), store
}

func render(m Model) string {
	return tuitest.StripANSI(m.View())
}

func TestModel_LoadingView(t *testing.T) {
	m, _ := newModel(t, state.FetchState{Loading: true}, Options{})

	out := render(m)
	assert.Contains(t, out, "Items List")
	assert.Contains(t, out, "Loading items")
	assert.Contains(t, out, "refreshing")
	assert.NotNil(t, m.Init(), "spinner starts while loading")
}

func TestModel_ShowsCollapsedHeaders(t *testing.T) {
	m, _ := newModel(t, loaded(), Options{})

	out := render(m)
	assert.Contains(t, out, "List 1 (2)")
	assert.Contains(t, out, "List 2 (1)")
	assert.NotContains(t, out, "Item 2")
	assert.Contains(t, out, "3 items in 2 lists")
}

func TestModel_EmptyCollection(t *testing.T) {
	m, _ := newModel(t, state.FetchState{UpdatedAt: time.Now()}, Options{})
	assert.Contains(t, render(m), "No items available")
}

func TestModel_ToggleAndMove(t *testing.T) {
	m, _ := newModel(t, loaded(), Options{})

	m = tuitest.Send(m, tuitest.KeyEnter()).(Model)
	out := render(m)
	assert.Contains(t, out, "Item 2")
	assert.Contains(t, out, "Item 3")
	assert.Equal(t, []int{1}, m.ExpandedListIDs())

	m = tuitest.Send(m, tuitest.KeyPress('j'), tuitest.KeyPress('j'), tuitest.KeyPress('j'), tuitest.KeySpace()).(Model)
	assert.Equal(t, []int{1, 2}, m.ExpandedListIDs())
	assert.Contains(t, render(m), "Item 1")

	m = tuitest.Send(m, tuitest.KeyPress('E')).(Model)
	assert.Empty(t, m.ExpandedListIDs())
}

func TestModel_ExpandOptions(t *testing.T) {
	t.Run("expanded ids", func(t *testing.T) {
		m, _ := newModel(t, loaded(), Options{Expanded: []int{2}})
		assert.Equal(t, []int{2}, m.ExpandedListIDs())
	})

	t.Run("expand all waits for items", func(t *testing.T) {
		m, _ := newModel(t, state.FetchState{Loading: true}, Options{ExpandAll: true})
		assert.Empty(t, m.ExpandedListIDs())

		m = tuitest.Send(m, StateMsg{State: loaded()}).(Model)
		assert.Equal(t, []int{1, 2}, m.ExpandedListIDs())

		// Only the first load expands; later refreshes keep the user's choice.
		m = tuitest.Send(m, tuitest.KeyPress('E'), StateMsg{State: loaded()}).(Model)
		assert.Empty(t, m.ExpandedListIDs())
	})
}

func TestModel_ErrorHidesItemsUntilCleared(t *testing.T) {
	m, store := newModel(t, loaded(), Options{Expanded: []int{1}})

	failed := loaded()
	failed.Error = "Error: 404 - Not Found"
	m = tuitest.Send(m, StateMsg{State: failed}).(Model)

	out := render(m)
	assert.Contains(t, out, "Error: 404 - Not Found")
	assert.Contains(t, out, "No items available")
	assert.NotContains(t, out, "Item 2")

	_, cmd := m.Update(tuitest.KeyPress('e'))
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())
	assert.Equal(t, int32(1), store.clears.Load())

	m = tuitest.Send(m, StateMsg{State: loaded()}).(Model)
	out = render(m)
	assert.NotContains(t, out, "Error:")
	assert.Contains(t, out, "Item 2")
}

func TestModel_ClearErrorWithoutError(t *testing.T) {
	m, store := newModel(t, loaded(), Options{})

	_, cmd := m.Update(tuitest.KeyPress('e'))
	assert.Nil(t, cmd)
	assert.Zero(t, store.clears.Load())
}

func TestModel_Refresh(t *testing.T) {
	m, store := newModel(t, loaded(), Options{})

	_, cmd := m.Update(tuitest.KeyPress('r'))
	require.NotNil(t, cmd)
	assert.Zero(t, store.refreshes.Load(), "refresh runs off the update loop")

	cmd()
	assert.Equal(t, int32(1), store.refreshes.Load())
}

func TestModel_LoadingStartsSpinner(t *testing.T) {
	m, _ := newModel(t, loaded(), Options{})

	s := loaded()
	s.Loading = true
	next, cmd := m.Update(StateMsg{State: s})
	assert.NotNil(t, cmd)

	// A second loading state does not start another tick chain.
	_, cmd = next.Update(StateMsg{State: s})
	assert.Nil(t, cmd)
}

func TestModel_Quit(t *testing.T) {
	m, _ := newModel(t, loaded(), Options{})

	_, cmd := m.Update(tuitest.KeyPress('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_Notifications(t *testing.T) {
	m, _ := newModel(t, loaded(), Options{})

	next, cmd := m.Update(NotificationMsg{Notification: notify.Notification{
		Level:   notify.LevelInfo,
		Message: "loaded 3 items",
	}})
	require.NotNil(t, cmd, "first toast starts the tick")
	m = next.(Model)
	assert.Contains(t, render(m), "loaded 3 items")

	_, cmd = m.Update(NotificationMsg{Notification: notify.Notification{Message: "again"}})
	assert.Nil(t, cmd, "tick already running")

	m = tuitest.Send(m, tea.KeyMsg{Type: tea.KeyEsc}).(Model)
	assert.NotContains(t, render(m), "again")
}

func TestModel_ToastTickExpires(t *testing.T) {
	m, _ := newModel(t, loaded(), Options{Warnings: []string{"rate limit exceeds interval"}})
	require.NotNil(t, m.Init())
	assert.Contains(t, render(m), "rate limit exceeds interval")

	ticks := 0
	for {
		next, cmd := m.Update(toastTickMsg(time.Now()))
		m = next.(Model)
		ticks++
		if cmd == nil {
			break
		}
		require.Less(t, ticks, 1000)
	}

	assert.Equal(t, int(defaultToastTTL/toastTickInterval), ticks)
	assert.NotContains(t, render(m), "rate limit")
}
