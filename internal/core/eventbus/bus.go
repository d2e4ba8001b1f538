package eventbus

import (
	"context"
	"sync"
)

// Event names a bus topic.
type Event string

type envelope struct {
	event   Event
	payload any
}

// EventBus is an in-process publish/subscribe bus. Publish never blocks:
// events are queued into a bounded buffer and delivered in order by the
// goroutine running Start. When the buffer is full the event is dropped
// and OnDrop hooks fire.
type EventBus struct {
	queue chan envelope

	mu          sync.RWMutex
	subscribers map[Event][]func(any)
	onPublish   []func(Event, any)
	onDrop      []func(Event, any)
	onPanic     []func(Event, any, any)
}

// New creates a bus with the given queue capacity.
func New(buffer int) *EventBus {
	if buffer < 1 {
		buffer = 1
	}
	return &EventBus{
		queue:       make(chan envelope, buffer),
		subscribers: make(map[Event][]func(any)),
	}
}

// Start delivers queued events until ctx is cancelled.
func (b *EventBus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-b.queue:
			b.dispatch(env)
		}
	}
}

// OnPublish registers a hook invoked for every accepted event, before delivery.
func (b *EventBus) OnPublish(fn func(Event, any)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onPublish = append(b.onPublish, fn)
}

// OnDrop registers a hook invoked when an event is discarded because the queue is full.
func (b *EventBus) OnDrop(fn func(Event, any)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onDrop = append(b.onDrop, fn)
}

// OnPanic registers a hook invoked when a subscriber panics. The panic is recovered.
func (b *EventBus) OnPanic(fn func(Event, any, any)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onPanic = append(b.onPanic, fn)
}

func (b *EventBus) subscribe(event Event, fn func(any)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[event] = append(b.subscribers[event], fn)
}

func (b *EventBus) publish(event Event, payload any) {
	if b == nil {
		return
	}

	select {
	case b.queue <- envelope{event: event, payload: payload}:
	default:
		b.mu.RLock()
		hooks := b.onDrop
		b.mu.RUnlock()
		for _, fn := range hooks {
			fn(event, payload)
		}
	}
}

func (b *EventBus) dispatch(env envelope) {
	b.mu.RLock()
	hooks := b.onPublish
	subs := b.subscribers[env.event]
	b.mu.RUnlock()

	for _, fn := range hooks {
		fn(env.event, env.payload)
	}

	for _, fn := range subs {
		b.deliver(env, fn)
	}
}

func (b *EventBus) deliver(env envelope, fn func(any)) {
	defer func() {
		if r := recover(); r != nil {
			b.mu.RLock()
			hooks := b.onPanic
			b.mu.RUnlock()
			for _, h := range hooks {
				h(env.event, env.payload, r)
			}
		}
	}()
	fn(env.payload)
}
