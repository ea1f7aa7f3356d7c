package tables

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/playmatatu/billiards/internal/game"
	"github.com/playmatatu/billiards/internal/scene"
)

var ErrInputQueueFull = errors.New("input queue full")

const (
	inputQueueSize = 32
	writeQueueSize = 64
)

// Broadcaster delivers messages to every client watching a table.
type Broadcaster interface {
	BroadcastToTable(tableID string, message interface{})
}

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastToTable(string, interface{}) {}

// TableState is the serializable view of a table returned by the API and
// cached in Redis.
type TableState struct {
	ID        string        `json:"id"`
	Shots     int           `json:"shots"`
	Snapshot  game.Snapshot `json:"snapshot"`
	Frame     scene.Frame   `json:"frame"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Live      bool          `json:"live"`
}

// Summary is a short description of a running table for listings.
type Summary struct {
	ID           string    `json:"id"`
	Shots        int       `json:"shots"`
	Frozen       bool      `json:"frozen"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

type inputKind int

const (
	inputPress inputKind = iota
	inputRelease
)

type input struct {
	kind inputKind
	x, y float64
}

// Session runs one table: it owns the game driver, ticks it at the frame rate
// the driver asks for and streams changes to a Broadcaster.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu           sync.Mutex
	driver       *game.Driver
	recorder     *scene.Recorder
	interval     time.Duration
	shots        int
	lastActivity time.Time
	wasFrozen    bool
	updatedAt    time.Time

	inputs      chan input
	broadcaster Broadcaster
	store       *Store
	cache       *Cache
	onStop      func(id, reason string)

	writes    chan write
	written   chan struct{}
	closeOnce sync.Once

	cancel context.CancelFunc
	done   chan struct{}
}

// write is the persistence work produced by one tick. Writes are applied in
// tick order by a single goroutine per session.
type write struct {
	events      []game.Event
	shotNumbers []int
	state       *TableState
}

func newSession(id string, broadcaster Broadcaster, store *Store, cache *Cache) *Session {
	if broadcaster == nil {
		broadcaster = nopBroadcaster{}
	}
	now := time.Now()
	s := &Session{
		ID:           id,
		CreatedAt:    now,
		recorder:     scene.NewRecorder(),
		lastActivity: now,
		updatedAt:    now,
		wasFrozen:    true,
		inputs:       make(chan input, inputQueueSize),
		broadcaster:  broadcaster,
		store:        store,
		cache:        cache,
		writes:       make(chan write, writeQueueSize),
		written:      make(chan struct{}),
		done:         make(chan struct{}),
	}
	s.driver = game.NewDriver(s, s.recorder)
	s.driver.Init()
	go s.writeLoop()
	return s
}

// SetTargetFPS sets the tick interval. It is called by the driver.
func (s *Session) SetTargetFPS(fps int) {
	if fps <= 0 {
		fps = game.TargetFPS
	}
	s.interval = time.Second / time.Duration(fps)
}

// Interval returns the time between ticks.
func (s *Session) Interval() time.Duration {
	return s.interval
}

// Press queues a mouse press at table coordinates (x, y).
func (s *Session) Press(x, y float64) error {
	return s.enqueue(input{kind: inputPress, x: x, y: y})
}

// Release queues a mouse release at table coordinates (x, y).
func (s *Session) Release(x, y float64) error {
	return s.enqueue(input{kind: inputRelease, x: x, y: y})
}

func (s *Session) enqueue(in input) error {
	select {
	case s.inputs <- in:
	default:
		return ErrInputQueueFull
	}
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
	return nil
}

// start runs the tick loop until ctx is cancelled or the session is stopped.
func (s *Session) start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	go s.run(ctx)
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[TABLE] Table %s stopped after panic: %v", s.ID, r)
			if s.onStop != nil {
				go s.onStop(s.ID, ReasonPanic)
			}
		}
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	dt := s.interval.Seconds()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(dt)
		}
	}
}

// stop cancels the tick loop, waits for it to exit and then waits for every
// queued write to be applied.
func (s *Session) stop() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
	s.closeOnce.Do(func() { close(s.writes) })
	<-s.written
}

type tickResult struct {
	frame       *scene.Frame
	events      []game.Event
	shotNumbers []int
	state       *TableState
}

// tick applies queued input, advances the game by dt and publishes whatever
// changed.
func (s *Session) tick(dt float64) {
	res := s.advance(dt)

	if res.frame != nil {
		s.broadcaster.BroadcastToTable(s.ID, map[string]interface{}{
			"type":   "frame",
			"frame":  res.frame,
			"events": res.events,
		})
	}
	if len(res.events) > 0 || res.state != nil {
		s.writes <- write{events: res.events, shotNumbers: res.shotNumbers, state: res.state}
	}
}

func (s *Session) advance(dt float64) tickResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drainInputs()
	s.driver.Update(dt)

	g := s.driver.Game()
	var res tickResult
	res.events = g.DrainEvents()
	shot := false
	for _, e := range res.events {
		if e.Type == game.EventShot {
			s.shots++
			shot = true
		}
		res.shotNumbers = append(res.shotNumbers, s.shots)
	}

	if s.recorder.Dirty() || len(res.events) > 0 {
		f := s.recorder.Frame()
		res.frame = &f
		s.updatedAt = time.Now()
	}

	frozen := g.IsFrozen()
	if shot || (frozen && !s.wasFrozen) {
		state := s.stateLocked()
		res.state = &state
	}
	s.wasFrozen = frozen
	return res
}

func (s *Session) drainInputs() {
	for {
		select {
		case in := <-s.inputs:
			switch in.kind {
			case inputPress:
				s.driver.MouseButtonPressed(in.x, in.y)
			case inputRelease:
				s.driver.MouseButtonReleased(in.x, in.y)
			}
		default:
			return
		}
	}
}

func (s *Session) writeLoop() {
	defer close(s.written)
	for w := range s.writes {
		if len(w.events) > 0 {
			s.persist(w.events, w.shotNumbers)
		}
		if w.state != nil {
			if err := s.cache.SaveState(context.Background(), *w.state); err != nil {
				log.Printf("[REDIS] Failed to save state for table %s: %v", s.ID, err)
			}
		}
	}
}

func (s *Session) persist(events []game.Event, shotNumbers []int) {
	for i, e := range events {
		switch e.Type {
		case game.EventShot:
			s.store.RecordShot(s.ID, shotNumbers[i], e)
		case game.EventPocket:
			s.store.RecordPocket(s.ID, shotNumbers[i], e)
		}
	}
	s.cache.PublishEvents(context.Background(), s.ID, shotNumbers, events)
}

// State returns the current state of the table.
func (s *Session) State() TableState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() TableState {
	return TableState{
		ID:        s.ID,
		Shots:     s.shots,
		Snapshot:  s.driver.Game().Snapshot(),
		Frame:     s.recorder.Peek(),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.updatedAt,
		Live:      true,
	}
}

func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		ID:           s.ID,
		Shots:        s.shots,
		Frozen:       s.driver.Game().IsFrozen(),
		CreatedAt:    s.CreatedAt,
		LastActivity: s.lastActivity,
	}
}

// IdleFor reports how long it has been since the last input.
func (s *Session) IdleFor(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastActivity)
}

// Stopped reports whether the tick loop has exited.
func (s *Session) Stopped() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
