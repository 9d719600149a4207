package friend

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chatterm/internal/bus"
	"chatterm/internal/identity"
	"chatterm/internal/store"
)

// SelfSource provides the signed-in identity. Satisfied by the session
// manager.
type SelfSource interface {
	Current() *identity.Identity
}

// Service is the command/query surface of the relationship manager. Commands
// follow the same fail-silent policy as the conversation manager: invalid
// preconditions (self-referential requests, unknown request ids, duplicate
// pending requests) leave state untouched.
type Service interface {
	Directory() []store.User
	Friends() []store.User
	SentRequests() []FriendRequest
	ReceivedRequests() []FriendRequest
	Discoverable() []store.User

	SearchUsers(query string) []store.User
	SendFriendRequest(userID string)
	AcceptFriendRequest(requestID string)
	RejectFriendRequest(requestID string)

	IsFriend(userID string) bool
	HasSentRequest(userID string) bool
	HasReceivedRequest(userID string) bool

	SetUserFilters(f Filters)
	UserFilters() Filters
}

// Options seeds the initial relationship state.
type Options struct {
	Friends  []string
	Requests []FriendRequest
}

// Manager implements Service over the immutable user directory. The
// discoverable set is recomputed after every mutation that can affect it,
// so reads always return the cached derivation.
type Manager struct {
	mu sync.Mutex

	directory    []store.User
	friends      map[string]bool
	sent         []*FriendRequest
	received     []*FriendRequest
	filters      Filters
	discoverable []store.User

	db     *store.DB
	self   SelfSource
	bus    *bus.Bus
	logger *zap.Logger

	unsubscribe func()
}

// NewManager loads the user directory and seeds the relationship state. It
// watches the bus for session changes so the discoverable set tracks the
// signed-in identity.
func NewManager(db *store.DB, self SelfSource, b *bus.Bus, logger *zap.Logger, opts Options) (*Manager, error) {
	directory, err := db.ListUsers()
	if err != nil {
		return nil, err
	}

	m := &Manager{
		directory: directory,
		friends:   make(map[string]bool),
		filters:   DefaultFilters(),
		db:        db,
		self:      self,
		bus:       b,
		logger:    logger,
	}
	for _, id := range opts.Friends {
		m.friends[id] = true
	}
	for i := range opts.Requests {
		r := opts.Requests[i]
		if r.Status == "" {
			r.Status = StatusPending
		}
		m.sent = append(m.sent, &r)
		m.received = append(m.received, &r)
	}
	m.recomputeLocked()

	events, unsub := b.Subscribe("session.", 8)
	m.unsubscribe = unsub
	go func() {
		for range events {
			m.mu.Lock()
			m.recomputeLocked()
			m.mu.Unlock()
		}
	}()
	return m, nil
}

// Close stops tracking session changes.
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Directory returns the full user directory in seed order.
func (m *Manager) Directory() []store.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]store.User, len(m.directory))
	copy(out, m.directory)
	return out
}

// Friends returns the current friends in directory order.
func (m *Manager) Friends() []store.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.User
	for _, u := range m.directory {
		if m.friends[u.ID] {
			out = append(out, u)
		}
	}
	return out
}

// SentRequests returns copies of all requests this identity has sent.
func (m *Manager) SentRequests() []FriendRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyRequests(m.sent)
}

// ReceivedRequests returns copies of the pending requests addressed to this
// identity. Accepted and rejected requests are removed from this set.
func (m *Manager) ReceivedRequests() []FriendRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyRequests(m.received)
}

// Discoverable returns the cached discoverable-user set.
func (m *Manager) Discoverable() []store.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]store.User, len(m.discoverable))
	copy(out, m.discoverable)
	return out
}

// SearchUsers returns directory entries other than self whose name or email
// contains query. A blank query yields nothing; searching is distinct from
// discovery.
func (m *Manager) SearchUsers(query string) []store.User {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	users, err := m.db.SearchUsers(query, m.selfID())
	if err != nil {
		m.logger.Warn("user search failed", zap.Error(err))
		return nil
	}
	return users
}

// SendFriendRequest creates a pending request to userID and records it in
// both the sent and received sets. No-op when userID is self, already a
// friend, or already has a pending request from this identity.
func (m *Manager) SendFriendRequest(userID string) {
	selfID := m.selfID()
	if selfID == "" || userID == selfID {
		return
	}

	m.mu.Lock()
	if m.friends[userID] || m.hasSentLocked(userID) {
		m.mu.Unlock()
		m.logger.Debug("friend request ignored", zap.String("user", userID))
		return
	}
	req := &FriendRequest{
		ID:         uuid.New().String(),
		SenderID:   selfID,
		ReceiverID: userID,
		Timestamp:  time.Now(),
		Status:     StatusPending,
	}
	m.sent = append(m.sent, req)
	m.received = append(m.received, req)
	m.recomputeLocked()
	m.mu.Unlock()

	m.publish(bus.KindRequestSent, busRef(req))
}

// AcceptFriendRequest adds the request's sender to the friend list and
// removes the request from the received set. Unknown ids are ignored.
func (m *Manager) AcceptFriendRequest(requestID string) {
	m.mu.Lock()
	req := m.takeReceivedLocked(requestID)
	if req == nil {
		m.mu.Unlock()
		return
	}
	req.Status = StatusAccepted
	m.friends[req.SenderID] = true
	m.recomputeLocked()
	m.mu.Unlock()

	m.logger.Info("friend request accepted", zap.String("sender", req.SenderID))
	m.publish(bus.KindRequestAccepted, busRef(req))
}

// RejectFriendRequest removes the request from the received set without
// touching the friend list. Unknown ids are ignored.
func (m *Manager) RejectFriendRequest(requestID string) {
	m.mu.Lock()
	req := m.takeReceivedLocked(requestID)
	if req == nil {
		m.mu.Unlock()
		return
	}
	req.Status = StatusRejected
	m.recomputeLocked()
	m.mu.Unlock()

	m.publish(bus.KindRequestRejected, busRef(req))
}

// IsFriend reports whether userID is in the friend list.
func (m *Manager) IsFriend(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.friends[userID]
}

// HasSentRequest reports whether a pending request to userID exists.
func (m *Manager) HasSentRequest(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hasSentLocked(userID)
}

// HasReceivedRequest reports whether a pending request from userID exists.
func (m *Manager) HasReceivedRequest(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.received {
		if r.SenderID == userID && r.Status == StatusPending {
			return true
		}
	}
	return false
}

// SetUserFilters replaces the discovery filters wholesale. Bounds are taken
// as given; an inverted range simply yields an empty set.
func (m *Manager) SetUserFilters(f Filters) {
	m.mu.Lock()
	m.filters = f
	m.recomputeLocked()
	m.mu.Unlock()

	m.publish(bus.KindFiltersChanged, f)
}

// UserFilters returns the active discovery filters.
func (m *Manager) UserFilters() Filters {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filters
}

// recomputeLocked derives the discoverable set: every directory user except
// self, friends, and anyone with a pending request in either direction, then
// narrowed by the active filters.
func (m *Manager) recomputeLocked() {
	selfID := m.selfID()

	excluded := map[string]bool{selfID: true}
	for id := range m.friends {
		excluded[id] = true
	}
	for _, r := range m.sent {
		if r.Status == StatusPending {
			excluded[r.ReceiverID] = true
		}
	}
	for _, r := range m.received {
		if r.Status == StatusPending {
			excluded[r.SenderID] = true
		}
	}

	f := m.filters
	m.discoverable = m.discoverable[:0]
	for _, u := range m.directory {
		if excluded[u.ID] {
			continue
		}
		if f.Location != "" && !containsFold(u.Location, f.Location) {
			continue
		}
		if f.Query != "" && !containsFold(u.Name, f.Query) && !containsFold(u.Bio, f.Query) {
			continue
		}
		if u.Age < f.MinAge || u.Age > f.MaxAge {
			continue
		}
		if u.HeightCM < f.MinHeight || u.HeightCM > f.MaxHeight {
			continue
		}
		m.discoverable = append(m.discoverable, u)
	}
}

func (m *Manager) hasSentLocked(userID string) bool {
	for _, r := range m.sent {
		if r.ReceiverID == userID && r.Status == StatusPending {
			return true
		}
	}
	return false
}

// takeReceivedLocked removes and returns the pending received request with
// the given id, or nil.
func (m *Manager) takeReceivedLocked(requestID string) *FriendRequest {
	for i, r := range m.received {
		if r.ID == requestID && r.Status == StatusPending {
			m.received = append(m.received[:i], m.received[i+1:]...)
			return r
		}
	}
	return nil
}

func (m *Manager) selfID() string {
	if id := m.self.Current(); id != nil {
		return id.ID
	}
	return ""
}

func (m *Manager) publish(kind string, payload any) {
	m.bus.Publish(bus.Event{Kind: kind, Timestamp: time.Now(), Payload: payload})
}

func busRef(r *FriendRequest) bus.RequestRef {
	return bus.RequestRef{RequestID: r.ID, SenderID: r.SenderID, ReceiverID: r.ReceiverID}
}

func copyRequests(reqs []*FriendRequest) []FriendRequest {
	var out []FriendRequest
	for _, r := range reqs {
		out = append(out, *r)
	}
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
