package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/formbind"
	"github.com/aretw0/formbind/internal/logging"
	"github.com/aretw0/formbind/pkg/ports"
	"github.com/google/uuid"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates access to live forms, ensuring operations on one form do not
// interleave. It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.FormStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	newID  func() string
	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithIDGenerator replaces the random UUID ids of Create.
func WithIDGenerator(gen func() string) Option {
	return func(m *Manager) {
		m.newID = gen
	}
}

// NewManager creates a Manager over store.
func NewManager(store ports.FormStore, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		locks:  make(map[string]*lockEntry),
		newID:  uuid.NewString,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu and call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// Create stores f under a fresh id.
func (m *Manager) Create(ctx context.Context, f *formbind.Form) (string, error) {
	id := m.newID()
	err := m.lock(ctx, id, func(ctx context.Context) error {
		if _, err := m.store.Load(ctx, id); err == nil {
			return fmt.Errorf("form %s already exists", id)
		}
		return m.store.Save(ctx, id, f)
	})
	if err != nil {
		return "", err
	}
	m.logger.Info("form created", "form_id", id)
	return id, nil
}

// Get returns the form stored under id.
func (m *Manager) Get(ctx context.Context, id string) (*formbind.Form, error) {
	var f *formbind.Form
	err := m.lock(ctx, id, func(ctx context.Context) error {
		var err error
		f, err = m.store.Load(ctx, id)
		return err
	})
	return f, err
}

// WithForm runs fn with the form stored under id while holding its lock.
func (m *Manager) WithForm(ctx context.Context, id string, fn func(context.Context, *formbind.Form) error) error {
	return m.lock(ctx, id, func(ctx context.Context) error {
		f, err := m.store.Load(ctx, id)
		if err != nil {
			return err
		}
		return fn(ctx, f)
	})
}

// Delete closes the form and removes it from the store.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.lock(ctx, id, func(ctx context.Context) error {
		f, err := m.store.Load(ctx, id)
		if err != nil {
			return err
		}
		f.Close()
		if err := m.store.Delete(ctx, id); err != nil {
			return err
		}
		m.logger.Info("form deleted", "form_id", id)
		return nil
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying form store.
func (m *Manager) Store() ports.FormStore {
	return m.store
}

// lock executes fn while holding the lock for id.
func (m *Manager) lock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
