package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

const feedBuffer = 64

// Feed relays messages from background goroutines into a program in the
// order they were pushed. Push never blocks once the feed is stopped, so
// late store or bus callbacks after the program exits are dropped.
type Feed struct {
	ch       chan tea.Msg
	done     chan struct{}
	stopOnce sync.Once
}

func NewFeed() *Feed {
	return &Feed{
		ch:   make(chan tea.Msg, feedBuffer),
		done: make(chan struct{}),
	}
}

// Push queues msg, blocking while the buffer is full.
func (f *Feed) Push(msg tea.Msg) {
	select {
	case f.ch <- msg:
	case <-f.done:
	}
}

// Run delivers queued messages to send until Stop is called.
func (f *Feed) Run(send func(tea.Msg)) {
	for {
		select {
		case msg := <-f.ch:
			send(msg)
		case <-f.done:
			return
		}
	}
}

// Stop ends Run and releases blocked Push calls.
func (f *Feed) Stop() {
	f.stopOnce.Do(func() { close(f.done) })
}
