// Package session owns all per-session conversation state.
//
// The Manager is the exclusive owner of ConversationContext and UserProfile
// instances: no other component constructs them directly. It serializes turns
// per session (at most one active turn per session id) while letting distinct
// sessions proceed fully in parallel, and evicts idle sessions on a TTL sweep.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vendalab/salespipe/internal/models"
)

// Default eviction policy. The in-memory table would otherwise grow without
// bound, one entry per session id ever seen.
const (
	DefaultTTL           = 24 * time.Hour
	DefaultSweepInterval = 15 * time.Minute
)

// Opts holds configuration for the session manager.
type Opts struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// Option defines a configuration option for the session manager.
type Option func(*Opts)

// WithTTL sets how long an idle session is retained before eviction.
func WithTTL(d time.Duration) Option {
	return func(o *Opts) { o.TTL = d }
}

// WithSweepInterval sets how often the eviction sweep runs.
func WithSweepInterval(d time.Duration) Option {
	return func(o *Opts) { o.SweepInterval = d }
}

// entry pairs a context with its turn lock and eviction bookkeeping.
type entry struct {
	mu       sync.Mutex
	ctx      *models.ConversationContext
	lastSeen time.Time
}

// Manager is a concurrency-safe in-memory session table.
type Manager struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	sweep   time.Duration
	done    chan struct{}
	once    sync.Once
}

// NewManager creates a session manager with the given options.
func NewManager(opts ...Option) *Manager {
	cfg := Opts{TTL: DefaultTTL, SweepInterval: DefaultSweepInterval}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	m := &Manager{
		entries: make(map[string]*entry),
		ttl:     cfg.TTL,
		sweep:   cfg.SweepInterval,
		done:    make(chan struct{}),
	}
	slog.Debug("session.NewManager: manager created", "ttl", m.ttl, "sweep_interval", m.sweep)
	return m
}

// GetOrCreate returns the context for a session id, creating it with
// first-contact defaults if the session is new.
func (m *Manager) GetOrCreate(sessionID string) *models.ConversationContext {
	e := m.entryFor(sessionID, true)
	return e.ctx
}

// Get returns the context for a session id, or ErrSessionNotFound.
func (m *Manager) Get(sessionID string) (*models.ConversationContext, error) {
	e := m.entryFor(sessionID, false)
	if e == nil {
		return nil, models.ErrSessionNotFound
	}
	return e.ctx, nil
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// WithTurn runs fn while holding the session's turn lock, creating the session
// if needed. Concurrent turns for the same session id are serialized here to
// preserve the profile-update invariants; turns for distinct sessions do not
// contend.
func (m *Manager) WithTurn(sessionID string, fn func(*models.ConversationContext) error) error {
	return m.runTurn(sessionID, m.entryFor(sessionID, true), fn)
}

func (m *Manager) runTurn(sessionID string, e *entry, fn func(*models.ConversationContext) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	// The sweeper may have evicted this entry between lookup and lock.
	// Reinstate it under the table lock so the turn's updates stay visible;
	// once the turn lock is held the sweeper's TryLock keeps it alive.
	m.mu.Lock()
	if m.entries[sessionID] != e {
		m.entries[sessionID] = e
	}
	m.mu.Unlock()
	err := fn(e.ctx)
	m.mu.Lock()
	e.lastSeen = time.Now()
	m.mu.Unlock()
	return err
}

func (m *Manager) entryFor(sessionID string, create bool) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[sessionID]
	if !ok {
		if !create {
			return nil
		}
		e = &entry{ctx: models.NewConversationContext(sessionID), lastSeen: time.Now()}
		m.entries[sessionID] = e
		slog.Debug("session.Manager: created new session", "session_id", sessionID)
	}
	return e
}

// StartSweeper launches the background TTL eviction loop. It stops when the
// provided context is cancelled or Close is called.
func (m *Manager) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.sweep)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-m.done:
				return
			case <-ticker.C:
				evicted := m.evictIdle(time.Now())
				if evicted > 0 {
					slog.Info("session.Manager: evicted idle sessions", "count", evicted, "ttl", m.ttl)
				}
			}
		}
	}()
}

// evictIdle removes sessions whose last activity predates now-ttl. Sessions
// with a turn in flight are skipped and picked up on a later sweep.
func (m *Manager) evictIdle(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	var evicted int
	for id, e := range m.entries {
		if now.Sub(e.lastSeen) < m.ttl {
			continue
		}
		if !e.mu.TryLock() {
			continue
		}
		e.mu.Unlock()
		delete(m.entries, id)
		evicted++
	}
	return evicted
}

// Close stops the sweeper.
func (m *Manager) Close() {
	m.once.Do(func() { close(m.done) })
}
