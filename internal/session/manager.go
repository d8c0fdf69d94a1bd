package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/q587p/telegram-game-bot/internal/engine"
)

// ErrEmptyKey is returned for an empty player key.
var ErrEmptyKey = errors.New("empty player key")

// DefaultIdleAfter is how long an unused key lock is kept before Sweep
// evicts it.
const DefaultIdleAfter = 30 * time.Minute

// keyLock serializes access to one player's session.
type keyLock struct {
	mu       sync.Mutex
	refs     int
	lastUsed time.Time
}

// Manager loads, updates and saves sessions. At most one update runs per
// player key at a time; different keys proceed in parallel.
type Manager struct {
	store  Store
	engine *engine.Engine
	runs   RunRecorder
	now    func() time.Time

	idleAfter time.Duration

	mu    sync.Mutex
	locks map[string]*keyLock
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// WithRunRecorder sets the run journal. By default the store is used when
// it implements RunRecorder.
func WithRunRecorder(r RunRecorder) ManagerOption {
	return func(m *Manager) { m.runs = r }
}

// WithIdleAfter sets the idle period after which Sweep evicts key locks.
func WithIdleAfter(d time.Duration) ManagerOption {
	return func(m *Manager) { m.idleAfter = d }
}

// NewManager creates a Manager over store.
func NewManager(store Store, eng *engine.Engine, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:     store,
		engine:    eng,
		now:       time.Now,
		idleAfter: DefaultIdleAfter,
		locks:     make(map[string]*keyLock),
	}
	if r, ok := store.(RunRecorder); ok {
		m.runs = r
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) acquire(key string) *keyLock {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &keyLock{}
		m.locks[key] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return l
}

func (m *Manager) release(l *keyLock) {
	m.mu.Lock()
	l.refs--
	l.lastUsed = m.now()
	m.mu.Unlock()

	l.mu.Unlock()
}

// Do loads the session for key, passes it to fn and saves the result.
// Damaged data is replaced with what could be recovered. When fn returns an
// error nothing is saved.
func (m *Manager) Do(ctx context.Context, key string, fn func(s *Session) error) error {
	if key == "" {
		return ErrEmptyKey
	}
	l := m.acquire(key)
	defer m.release(l)

	s, err := m.load(ctx, key)
	if err != nil {
		return err
	}
	if err := fn(&s); err != nil {
		return err
	}

	data, err := s.Encode()
	if err != nil {
		return err
	}
	if err := m.store.Save(ctx, key, data); err != nil {
		return fmt.Errorf("saving session %q: %w", key, err)
	}
	return nil
}

func (m *Manager) load(ctx context.Context, key string) (Session, error) {
	now := m.now()
	raw, err := m.store.Load(ctx, key)
	if err != nil {
		return Session{}, fmt.Errorf("loading session %q: %w", key, err)
	}
	if raw == nil {
		return New(now), nil
	}
	s, err := Decode(raw, now)
	if err != nil {
		slog.Warn("session data repaired", "player", key, "err", err)
	}
	return s, nil
}

// Get returns the stored session for key without modifying it.
func (m *Manager) Get(ctx context.Context, key string) (Session, error) {
	if key == "" {
		return Session{}, ErrEmptyKey
	}
	l := m.acquire(key)
	defer m.release(l)
	return m.load(ctx, key)
}

// Apply runs one engine action on the player's session and returns its
// result. Finished quests are appended to the run journal.
func (m *Manager) Apply(ctx context.Context, key string, a engine.Action) (engine.Result, error) {
	var res engine.Result
	err := m.Do(ctx, key, func(s *Session) error {
		s.Quest, res = m.engine.Apply(&s.Profile, s.Quest, a, m.now())
		return nil
	})
	if err != nil {
		return engine.Result{}, err
	}

	if res.Run != nil && m.runs != nil {
		run := RunRecord{
			RunID:      res.Run.RunID,
			PlayerKey:  key,
			Seed:       res.Run.Seed,
			Moves:      res.Run.Moves,
			Outcome:    string(res.Run.State),
			FinishedAt: m.now().UTC(),
		}
		if err := m.runs.RecordRun(ctx, run); err != nil {
			slog.Error("recording quest run", "player", key, "run", run.RunID, "err", err)
		}
	}
	return res, nil
}

// Peek runs a against a copy of the player's session. Nothing is saved and
// no run is recorded.
func (m *Manager) Peek(ctx context.Context, key string, a engine.Action) (engine.Result, error) {
	s, err := m.Get(ctx, key)
	if err != nil {
		return engine.Result{}, err
	}
	_, res := m.engine.Apply(&s.Profile, s.Quest, a, m.now())
	return res, nil
}

// Delete removes the player's session.
func (m *Manager) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	l := m.acquire(key)
	defer m.release(l)

	if err := m.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("deleting session %q: %w", key, err)
	}
	return nil
}

// Sweep evicts key locks that are unused and idle, returning how many
// were removed.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.idleAfter)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, l := range m.locks {
		if l.refs == 0 && !l.lastUsed.After(cutoff) {
			delete(m.locks, key)
			removed++
		}
	}
	return removed
}

// Schedule registers Sweep on c using a standard cron spec.
func (m *Manager) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	id, err := c.AddFunc(spec, func() {
		if n := m.Sweep(); n > 0 {
			slog.Debug("swept idle session locks", "count", n)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("scheduling session sweep %q: %w", spec, err)
	}
	return id, nil
}
