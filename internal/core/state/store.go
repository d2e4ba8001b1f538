package state

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/colonyops/catalog/internal/core/eventbus"
	"github.com/colonyops/catalog/internal/core/fetch"
	"github.com/colonyops/catalog/internal/core/history"
	"github.com/colonyops/catalog/internal/core/item"
	"github.com/colonyops/catalog/internal/core/logging"
)

// Refresh triggers, recorded in logs and the refresh history.
const (
	TriggerStartup  = "startup"
	TriggerManual   = "manual"
	TriggerInterval = "interval"
)

const flightKey = "items"

// ErrClosed is returned by blocking calls on a closed Store.
var ErrClosed = errors.New("state store closed")

// Option configures a Store.
type Option func(*Store)

// WithBus publishes catalog events to bus after every state change.
func WithBus(bus *eventbus.EventBus) Option {
	return func(s *Store) { s.bus = bus }
}

// WithRecorder writes one history entry per resolved refresh.
func WithRecorder(r history.Recorder) Option {
	return func(s *Store) { s.recorder = r }
}

// WithLogger overrides the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithInterval refreshes every d for the lifetime of the store. Zero disables it.
func WithInterval(d time.Duration) Option {
	return func(s *Store) { s.interval = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store owns the FetchState. It is the only writer; readers take snapshots or
// subscribe. At most one fetch runs at a time: overlapping refresh requests
// join the running one.
type Store struct {
	client   fetch.Client
	bus      *eventbus.EventBus
	recorder history.Recorder
	log      zerolog.Logger
	interval time.Duration
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	flight singleflight.Group
	// active counts fetches that have not yet settled; Loading mirrors it.
	active atomic.Int32

	loaded     chan struct{}
	loadedOnce sync.Once

	// publishMu serializes publish so subscribers observe states in order.
	publishMu sync.Mutex

	mu      sync.RWMutex
	state   FetchState
	closed  bool
	subs    map[uint64]func(FetchState)
	nextSub uint64
}

// New creates a Store and starts the initial refresh.
func New(client fetch.Client, opts ...Option) *Store {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Store{
		client: client,
		log:    logging.Component("state"),
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
		loaded: make(chan struct{}),
		subs:   make(map[uint64]func(FetchState)),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.trigger(TriggerStartup)

	if s.interval > 0 {
		s.wg.Add(1)
		go s.tick()
	}

	return s
}

// Snapshot returns the latest published state.
func (s *Store) Snapshot() FetchState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn to receive every published state, in publish order.
// fn runs on the publishing goroutine and must not call Store mutators.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(FetchState)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Refresh starts a refresh without waiting for it. If one is already running
// the call joins it.
func (s *Store) Refresh() {
	s.trigger(TriggerManual)
}

// RefreshWait starts or joins a refresh and blocks until it resolves or ctx
// is done. The returned state is the one published by that refresh.
func (s *Store) RefreshWait(ctx context.Context) (FetchState, error) {
	ch := s.trigger(TriggerManual)
	if ch == nil {
		return s.Snapshot(), ErrClosed
	}

	select {
	case <-ctx.Done():
		return s.Snapshot(), ctx.Err()
	case res := <-ch:
		return res.Val.(FetchState), nil
	}
}

// WaitLoaded blocks until the initial refresh started by New has resolved.
func (s *Store) WaitLoaded(ctx context.Context) (FetchState, error) {
	select {
	case <-ctx.Done():
		return s.Snapshot(), ctx.Err()
	case <-s.loaded:
		if s.isClosed() {
			return s.Snapshot(), ErrClosed
		}
		return s.Snapshot(), nil
	}
}

// ClearError removes the error message. Items are left untouched.
func (s *Store) ClearError() {
	var had bool
	_, ok := s.publish(func(st *FetchState) bool {
		had = st.HasError()
		st.Error = ""
		return had
	})
	if ok && had {
		s.bus.PublishCatalogErrorCleared(eventbus.CatalogErrorClearedPayload{})
	}
}

// Close cancels in-flight work and waits for it to finish. Results that
// arrive afterwards are discarded. Close is idempotent.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.subs = nil
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	s.markLoaded()
}

func (s *Store) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *Store) markLoaded() {
	s.loadedOnce.Do(func() { close(s.loaded) })
}

// trigger starts or joins the shared fetch. It returns nil once the store is closed.
func (s *Store) trigger(reason string) <-chan singleflight.Result {
	if s.isClosed() {
		return nil
	}
	return s.flight.DoChan(flightKey, func() (any, error) {
		return s.run(reason), nil
	})
}

// begin registers in-flight work unless the store is closed. The check and
// the Add happen under mu so Close never waits on a zero counter that is
// about to grow.
func (s *Store) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.wg.Add(1)
	return true
}

func (s *Store) run(reason string) FetchState {
	if !s.begin() {
		return s.Snapshot()
	}
	defer s.wg.Done()
	defer s.markLoaded()

	id := uuid.NewString()
	ctx := logging.WithTrigger(logging.WithRefreshID(s.ctx, id), reason)
	started := s.now()

	s.active.Add(1)
	s.publish(func(st *FetchState) bool {
		st.Loading = true
		return true
	})

	s.log.Debug().Ctx(ctx).Msg("refresh started")
	raw, err := s.client.FetchItems(ctx)

	// Callers that arrive from here on start a new fetch instead of joining
	// one whose result is already decided.
	s.flight.Forget(flightKey)
	s.active.Add(-1)

	if s.ctx.Err() != nil {
		s.log.Debug().Ctx(ctx).Msg("store closed, discarding refresh result")
		return s.Snapshot()
	}

	finished := s.now()
	entry := history.Entry{
		ID:         id,
		Trigger:    reason,
		StartedAt:  started,
		FinishedAt: finished,
	}

	var (
		next      FetchState
		published bool
	)
	if err != nil {
		msg := ErrorMessage(err)
		next, published = s.publish(func(st *FetchState) bool {
			st.Loading = s.active.Load() > 0
			st.Error = msg
			return true
		})

		entry.Outcome = history.OutcomeTransportError
		if pe, ok := fetch.AsProtocolError(err); ok {
			entry.Outcome = history.OutcomeProtocolError
			entry.StatusCode = pe.StatusCode
		}
		entry.Message = msg

		if !published {
			return next
		}
		s.log.Warn().Ctx(ctx).Err(err).Msg("refresh failed")
		s.bus.PublishCatalogRefreshFailed(eventbus.CatalogRefreshFailedPayload{RefreshID: id, Message: msg})
	} else {
		collection := item.BuildCollection(raw)
		next, published = s.publish(func(st *FetchState) bool {
			st.Loading = s.active.Load() > 0
			st.Error = ""
			st.Items = collection
			st.UpdatedAt = finished
			return true
		})

		if !published {
			return next
		}
		entry.Outcome = history.OutcomeSuccess
		entry.Groups = len(collection.Groups)
		entry.Items = collection.Len()

		s.log.Info().Ctx(ctx).
			Int("raw", len(raw)).
			Int("items", entry.Items).
			Int("groups", entry.Groups).
			Dur("took", finished.Sub(started)).
			Msg("refresh complete")
		s.bus.PublishCatalogRefreshed(eventbus.CatalogRefreshedPayload{
			RefreshID:  id,
			Groups:     entry.Groups,
			Items:      entry.Items,
			FinishedAt: finished,
		})
	}

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, entry); err != nil {
			s.log.Warn().Ctx(ctx).Err(err).Msg("failed to record refresh")
		}
	}

	return next
}

// publish applies mutate to the current state and, if it reports a change,
// notifies subscribers with the new snapshot. Nothing is published once the
// store is closed.
func (s *Store) publish(mutate func(*FetchState) bool) (FetchState, bool) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	if s.closed {
		st := s.state
		s.mu.Unlock()
		return st, false
	}

	next := s.state
	if !mutate(&next) {
		s.mu.Unlock()
		return next, false
	}
	s.state = next

	subs := make([]func(FetchState), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}

	return next, true
}

func (s *Store) tick() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.trigger(TriggerInterval)
		}
	}
}
