package identity

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chatterm/internal/bus"
	"chatterm/internal/kv"
	"chatterm/internal/store"
)

// Demo credentials accepted by SignIn. There is no real authentication in
// this design.
const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "demo123"
)

const defaultAvatar = "https://images.unsplash.com/photo-1582562124811-c09040d0a901?w=150&h=150&fit=crop&crop=face"

// Service is the command/query surface of the session manager.
type Service interface {
	// Current returns the signed-in identity, or nil.
	Current() *Identity
	// SignIn simulates a credential check against the demo account. It
	// reports whether the credentials were accepted.
	SignIn(ctx context.Context, email, password string) (bool, error)
	// SignUp simulates account creation; it accepts anything.
	SignUp(ctx context.Context, name, email, password string) (*Identity, error)
	// SignOut destroys the identity and clears the persisted record.
	SignOut()
}

// Manager implements Service. The identity record is mirrored to a
// process-local key-value slot on every change and restored at startup.
type Manager struct {
	mu      sync.RWMutex
	current *Identity

	db     *store.DB
	slots  kv.Store
	bus    *bus.Bus
	logger *zap.Logger
	delay  time.Duration
}

// NewManager creates the session manager and restores any persisted
// identity.
func NewManager(db *store.DB, slots kv.Store, b *bus.Bus, logger *zap.Logger, signInDelay time.Duration) *Manager {
	m := &Manager{
		db:     db,
		slots:  slots,
		bus:    b,
		logger: logger,
		delay:  signInDelay,
	}
	m.restore()
	return m
}

// Current returns the signed-in identity, or nil.
func (m *Manager) Current() *Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	id := *m.current
	return &id
}

// SignIn checks the demo credentials after a simulated network delay. On
// success the identity is resolved from the directory and persisted.
func (m *Manager) SignIn(ctx context.Context, email, password string) (bool, error) {
	if err := m.simulateNetwork(ctx); err != nil {
		return false, err
	}

	if email != DemoEmail || password != DemoPassword {
		m.logger.Debug("sign-in rejected", zap.String("email", email))
		return false, nil
	}

	u, err := m.db.GetUserByEmail(email)
	if err != nil {
		return false, err
	}
	id := &Identity{
		ID:     "demo",
		Name:   "Demo User",
		Email:  DemoEmail,
		Avatar: defaultAvatar,
		Status: StatusOnline,
	}
	if u != nil {
		id = &Identity{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar, Status: StatusOnline}
	}

	m.setCurrent(id)
	m.logger.Info("signed in", zap.String("user", id.ID))
	return true, nil
}

// SignUp creates a fresh identity after a simulated delay. Like the demo it
// mimics, it never rejects.
func (m *Manager) SignUp(ctx context.Context, name, email, _ string) (*Identity, error) {
	if err := m.simulateNetwork(ctx); err != nil {
		return nil, err
	}

	id := &Identity{
		ID:     uuid.New().String(),
		Name:   name,
		Email:  email,
		Avatar: defaultAvatar,
		Status: StatusOnline,
	}
	m.setCurrent(id)
	m.logger.Info("signed up", zap.String("user", id.ID))
	return id, nil
}

// SignOut destroys the identity and removes the persisted record.
func (m *Manager) SignOut() {
	m.mu.Lock()
	was := m.current
	m.current = nil
	m.slots.Delete(kv.KeyCurrentUser)
	m.mu.Unlock()

	if was == nil {
		return
	}
	m.logger.Info("signed out", zap.String("user", was.ID))
	m.bus.Publish(bus.Event{Kind: bus.KindSignedOut, Timestamp: time.Now(), Payload: was.ID})
}

func (m *Manager) setCurrent(id *Identity) {
	m.mu.Lock()
	m.current = id
	if raw, err := id.encode(); err == nil {
		m.slots.Set(kv.KeyCurrentUser, raw)
	}
	m.mu.Unlock()

	m.bus.Publish(bus.Event{Kind: bus.KindSignedIn, Timestamp: time.Now(), Payload: id.ID})
}

// restore reads the persisted identity record written by a prior sign-in in
// this process.
func (m *Manager) restore() {
	raw, ok := m.slots.Get(kv.KeyCurrentUser)
	if !ok {
		return
	}
	id, err := decode(raw)
	if err != nil {
		m.logger.Warn("discarding unreadable identity record", zap.Error(err))
		m.slots.Delete(kv.KeyCurrentUser)
		return
	}
	m.current = id
	m.logger.Info("session restored", zap.String("user", id.ID))
}

func (m *Manager) simulateNetwork(ctx context.Context) error {
	if m.delay <= 0 {
		return nil
	}
	select {
	case <-time.After(m.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
