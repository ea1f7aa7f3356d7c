package tables

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/playmatatu/billiards/internal/models"
)

var (
	ErrTableNotFound = errors.New("table not found")
	ErrTooManyTables = errors.New("too many tables")
)

// Close reasons stored with a table session.
const (
	ReasonClosed   = "closed"
	ReasonIdle     = "idle"
	ReasonPanic    = "panic"
	ReasonShutdown = "shutdown"
)

// Manager owns every running table.
type Manager struct {
	tables      map[string]*Session
	store       *Store
	cache       *Cache
	broadcaster Broadcaster
	maxTables   int
	idleTimeout time.Duration
	ctx         context.Context
	mu          sync.RWMutex
}

// Options configures a Manager. Zero values mean no limit.
type Options struct {
	MaxTables   int
	IdleTimeout time.Duration
}

// NewManager creates a manager whose tables tick until ctx is cancelled.
func NewManager(ctx context.Context, store *Store, cache *Cache, broadcaster Broadcaster, opts Options) *Manager {
	if broadcaster == nil {
		broadcaster = nopBroadcaster{}
	}
	return &Manager{
		tables:      make(map[string]*Session),
		store:       store,
		cache:       cache,
		broadcaster: broadcaster,
		maxTables:   opts.MaxTables,
		idleTimeout: opts.IdleTimeout,
		ctx:         ctx,
	}
}

func generateToken(length int) string {
	bytes := make([]byte, length)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

func generateTableID() string {
	return "t_" + generateToken(8)
}

// CreateTable racks a new table and starts ticking it.
func (m *Manager) CreateTable() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxTables > 0 && len(m.tables) >= m.maxTables {
		return nil, ErrTooManyTables
	}

	id := generateTableID()
	if err := m.store.CreateTable(id); err != nil {
		return nil, err
	}

	s := newSession(id, m.broadcaster, m.store, m.cache)
	s.onStop = func(id, reason string) {
		if err := m.Close(id, reason); err != nil && !errors.Is(err, ErrTableNotFound) {
			log.Printf("[TABLE] Failed to close table %s: %v", id, err)
		}
	}
	m.tables[id] = s
	s.start(m.ctx)

	log.Printf("[TABLE] Table created: %s (active=%d)", id, len(m.tables))
	return s, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.tables[id]
	if !ok {
		return nil, ErrTableNotFound
	}
	return s, nil
}

// List returns a summary of every running table, oldest first.
func (m *Manager) List() []Summary {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.tables))
	for _, s := range m.tables {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	out := make([]Summary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Summary())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables)
}

// Close stops a table, records why and tells its clients.
func (m *Manager) Close(id, reason string) error {
	m.mu.Lock()
	s, ok := m.tables[id]
	if ok {
		delete(m.tables, id)
	}
	m.mu.Unlock()
	if !ok {
		return ErrTableNotFound
	}

	s.stop()

	state := s.State()
	if err := m.cache.SaveState(context.Background(), state); err != nil {
		log.Printf("[REDIS] Failed to save final state for table %s: %v", id, err)
	}
	m.cache.PublishClosed(context.Background(), id, reason)
	m.broadcaster.BroadcastToTable(id, map[string]interface{}{
		"type":   "table_closed",
		"reason": reason,
	})

	log.Printf("[TABLE] Table %s closed (reason=%s, shots=%d)", id, reason, state.Shots)
	return m.store.CloseTable(id, reason)
}

// State returns a running table's state, or the cached state of a table that
// is no longer in memory.
func (m *Manager) State(ctx context.Context, id string) (*TableState, error) {
	if s, err := m.Get(id); err == nil {
		state := s.State()
		return &state, nil
	}
	state, err := m.cache.LoadState(ctx, id)
	if errors.Is(err, ErrNoSnapshot) {
		return nil, ErrTableNotFound
	}
	return state, err
}

// Shots returns the recorded shot history of a table.
func (m *Manager) Shots(id string) ([]models.Shot, error) {
	return m.store.ListShots(id)
}

// Pocketings returns the recorded pocketings of a table.
func (m *Manager) Pocketings(id string) ([]models.Pocketing, error) {
	return m.store.ListPocketings(id)
}

// History returns closed and running table sessions from the database.
func (m *Manager) History(limit, offset int) ([]models.TableSession, int, error) {
	return m.store.ListSessions(limit, offset)
}

// StartIdleReaper closes tables that have had no input for the idle timeout.
// It blocks until ctx is cancelled.
func (m *Manager) StartIdleReaper(ctx context.Context, every time.Duration) {
	if m.idleTimeout <= 0 {
		log.Println("[TABLE] Idle timeout disabled; reaper not started")
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.reapIdle(now)
		}
	}
}

func (m *Manager) reapIdle(now time.Time) int {
	m.mu.RLock()
	var idle []string
	for id, s := range m.tables {
		if s.IdleFor(now) >= m.idleTimeout {
			idle = append(idle, id)
		}
	}
	m.mu.RUnlock()

	closed := 0
	for _, id := range idle {
		if err := m.Close(id, ReasonIdle); err == nil {
			closed++
		} else if !errors.Is(err, ErrTableNotFound) {
			log.Printf("[TABLE] Failed to close idle table %s: %v", id, err)
		}
	}
	return closed
}

// Shutdown closes every table.
func (m *Manager) Shutdown() {
	m.mu.RLock()
	ids := make([]string, 0, len(m.tables))
	for id := range m.tables {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	for _, id := range ids {
		if err := m.Close(id, ReasonShutdown); err != nil && !errors.Is(err, ErrTableNotFound) {
			log.Printf("[TABLE] Failed to close table %s on shutdown: %v", id, err)
		}
	}
}
