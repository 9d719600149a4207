package chat

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chatterm/internal/bus"
	"chatterm/internal/config"
	"chatterm/internal/identity"
	"chatterm/internal/kv"
)

// SenderSource provides the author of outgoing messages. Satisfied by the
// session manager.
type SenderSource interface {
	Current() *identity.Identity
}

// Service is the command/query surface of the conversation manager. All
// commands are fail-silent: invalid preconditions (no active conversation,
// unknown ids) result in no state change rather than an error.
type Service interface {
	Contacts() []Contact
	FilteredContacts() []Contact
	Conversations() []Conversation
	ActiveConversation() *Conversation

	SelectConversation(contactID string)
	SendMessage(content string, kind MessageKind)
	EditMessage(messageID, newContent string)
	DeleteMessage(messageID string)
	PinMessage(messageID string)
	UnpinMessage(messageID string)
	StartTyping(contactID string)
	StopTyping(contactID string)

	SetSearchQuery(query string)
	SearchQuery() string
	SetMessageSearchQuery(query string)
	MessageSearchQuery() string
	FilteredMessages() []*Message

	ToggleDarkMode()
	DarkMode() bool
	SetUserStatus(status Presence)
	UserStatus() Presence
}

// Options tunes the simulated-network timers and seeds initial state.
type Options struct {
	ReplyDelayMin time.Duration
	ReplyDelayMax time.Duration
	TypingQuiet   time.Duration
	Seed          []*Conversation
}

func (o *Options) applyDefaults() {
	if o.ReplyDelayMin <= 0 {
		o.ReplyDelayMin = config.DefaultReplyDelayMin
	}
	if o.ReplyDelayMax < o.ReplyDelayMin {
		o.ReplyDelayMax = o.ReplyDelayMin
	}
	if o.TypingQuiet <= 0 {
		o.TypingQuiet = config.DefaultTypingQuiet
	}
}

// Manager implements Service. A single mutex orders every state transition;
// timer callbacks re-enter through the same mutex, so commands always apply
// fully before the next one observes the state.
type Manager struct {
	mu sync.Mutex

	contacts      []*Contact
	conversations []*Conversation
	active        *Conversation

	searchQuery        string
	messageSearchQuery string
	darkMode           bool
	status             Presence

	typingTimers map[string]*time.Timer
	closed       bool

	sender SenderSource
	slots  kv.Store
	bus    *bus.Bus
	logger *zap.Logger
	opts   Options
}

// NewManager creates the conversation manager over the given contact
// directory. The dark-mode preference is restored from its key-value slot.
func NewManager(contacts []Contact, sender SenderSource, slots kv.Store, b *bus.Bus, logger *zap.Logger, opts Options) *Manager {
	opts.applyDefaults()

	m := &Manager{
		status:       PresenceOnline,
		typingTimers: make(map[string]*time.Timer),
		sender:       sender,
		slots:        slots,
		bus:          b,
		logger:       logger,
		opts:         opts,
	}
	for i := range contacts {
		c := contacts[i]
		m.contacts = append(m.contacts, &c)
	}
	m.conversations = append(m.conversations, opts.Seed...)
	if raw, ok := slots.Get(kv.KeyDarkMode); ok {
		m.darkMode, _ = strconv.ParseBool(raw)
	}
	return m
}

// Close stops all pending typing timers and suppresses any reply still in
// flight.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	for id, t := range m.typingTimers {
		t.Stop()
		delete(m.typingTimers, id)
	}
}

// Contacts returns a snapshot of the contact directory.
func (m *Manager) Contacts() []Contact {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.contactsLocked("")
}

// FilteredContacts returns contacts whose name or email contains the search
// query, case-insensitively. An empty query yields everyone.
func (m *Manager) FilteredContacts() []Contact {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.contactsLocked(m.searchQuery)
}

func (m *Manager) contactsLocked(query string) []Contact {
	q := strings.ToLower(query)
	var out []Contact
	for _, c := range m.contacts {
		if q != "" && !strings.Contains(strings.ToLower(c.Name), q) && !strings.Contains(strings.ToLower(c.Email), q) {
			continue
		}
		out = append(out, *c)
	}
	return out
}

// Conversations returns snapshots of all conversations in creation order.
func (m *Manager) Conversations() []Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Conversation, len(m.conversations))
	for i, c := range m.conversations {
		out[i] = c.snapshot()
	}
	return out
}

// ActiveConversation returns a snapshot of the selection, or nil.
func (m *Manager) ActiveConversation() *Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return nil
	}
	snap := m.active.snapshot()
	return &snap
}

// SelectConversation finds or lazily creates the conversation for contactID,
// makes it the active selection and marks it read. Idempotent.
func (m *Manager) SelectConversation(contactID string) {
	m.mu.Lock()
	conv := m.findByContact(contactID)
	if conv == nil {
		conv = &Conversation{
			ID:        uuid.New().String(),
			ContactID: contactID,
		}
		m.conversations = append(m.conversations, conv)
		m.logger.Info("conversation created", zap.String("contact", contactID))
	}
	conv.UnreadCount = 0
	m.active = conv
	convID := conv.ID
	m.mu.Unlock()

	m.publish(bus.KindConversationSelected, convID)
}

// SendMessage appends a message authored by the current identity to the
// active conversation and schedules a single simulated peer reply. No-op
// when nothing is selected or content is blank.
func (m *Manager) SendMessage(content string, kind MessageKind) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}
	if kind == "" {
		kind = KindText
	}
	sender := m.sender.Current()

	m.mu.Lock()
	if m.active == nil || sender == nil {
		m.mu.Unlock()
		m.logger.Debug("send ignored: no active conversation or no identity")
		return
	}

	msg := &Message{
		ID:        uuid.New().String(),
		SenderID:  sender.ID,
		Content:   content,
		Timestamp: time.Now(),
		Kind:      kind,
	}
	m.active.append(msg)

	convID := m.active.ID
	contactID := m.active.ContactID
	delay := m.replyDelayLocked()
	m.mu.Unlock()

	m.publish(bus.KindMessageSent, bus.MessageRef{ConversationID: convID, MessageID: msg.ID})

	// The reply targets the conversation by id: it must land there even if
	// the user has navigated away by the time the timer fires.
	time.AfterFunc(delay, func() { m.deliverReply(convID, contactID) })
}

func (m *Manager) replyDelayLocked() time.Duration {
	min, max := m.opts.ReplyDelayMin, m.opts.ReplyDelayMax
	if max <= min {
		return min
	}
	return min + rand.N(max-min)
}

// deliverReply appends a canned acknowledgement from the conversation's
// contact and bumps the unread counter. The counter is bumped even for the
// active conversation; the demo assumes the user is no longer looking.
func (m *Manager) deliverReply(convID, contactID string) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	conv := m.findByID(convID)
	if conv == nil {
		m.mu.Unlock()
		return
	}

	msg := &Message{
		ID:        uuid.New().String(),
		SenderID:  contactID,
		Content:   cannedReplies[rand.IntN(len(cannedReplies))],
		Timestamp: time.Now(),
		Kind:      KindText,
	}
	conv.append(msg)
	conv.UnreadCount++
	m.mu.Unlock()

	m.logger.Debug("simulated reply delivered", zap.String("conversation", convID))
	m.publish(bus.KindMessageReceived, bus.MessageRef{ConversationID: convID, MessageID: msg.ID})
}

// EditMessage replaces the content of a message in the active conversation
// and marks it edited.
func (m *Manager) EditMessage(messageID, newContent string) {
	m.mu.Lock()
	if m.active == nil {
		m.mu.Unlock()
		return
	}
	msg := m.active.find(messageID)
	if msg == nil {
		m.mu.Unlock()
		m.logger.Debug("edit ignored: unknown message", zap.String("message", messageID))
		return
	}
	msg.Content = newContent
	msg.Edited = true
	convID := m.active.ID
	m.mu.Unlock()

	m.publish(bus.KindMessageEdited, bus.MessageRef{ConversationID: convID, MessageID: messageID})
}

// DeleteMessage removes a message from the active conversation's sequence
// and pinned set.
func (m *Manager) DeleteMessage(messageID string) {
	m.mu.Lock()
	if m.active == nil {
		m.mu.Unlock()
		return
	}
	found := false
	msgs := m.active.Messages[:0]
	for _, msg := range m.active.Messages {
		if msg.ID == messageID {
			found = true
			continue
		}
		msgs = append(msgs, msg)
	}
	m.active.Messages = msgs
	m.active.PinnedIDs = deleteID(m.active.PinnedIDs, messageID)
	convID := m.active.ID
	m.mu.Unlock()

	if found {
		m.publish(bus.KindMessageDeleted, bus.MessageRef{ConversationID: convID, MessageID: messageID})
	}
}

// PinMessage marks a message pinned and adds it to the conversation's
// pinned set. Pinning an already-pinned message changes nothing.
func (m *Manager) PinMessage(messageID string) {
	m.mu.Lock()
	if m.active == nil {
		m.mu.Unlock()
		return
	}
	msg := m.active.find(messageID)
	if msg == nil || m.active.pinned(messageID) {
		m.mu.Unlock()
		return
	}
	msg.Pinned = true
	m.active.PinnedIDs = append(m.active.PinnedIDs, messageID)
	convID := m.active.ID
	m.mu.Unlock()

	m.publish(bus.KindMessagePinned, bus.MessageRef{ConversationID: convID, MessageID: messageID})
}

// UnpinMessage clears the pinned flag and removes the id from the pinned
// set. Idempotent.
func (m *Manager) UnpinMessage(messageID string) {
	m.mu.Lock()
	if m.active == nil {
		m.mu.Unlock()
		return
	}
	msg := m.active.find(messageID)
	if msg == nil || !m.active.pinned(messageID) {
		m.mu.Unlock()
		return
	}
	msg.Pinned = false
	m.active.PinnedIDs = deleteID(m.active.PinnedIDs, messageID)
	convID := m.active.ID
	m.mu.Unlock()

	m.publish(bus.KindMessageUnpinned, bus.MessageRef{ConversationID: convID, MessageID: messageID})
}

// StartTyping sets the contact's typing flag and (re)arms its auto-clear
// timer. Re-arming cancels the prior timer, so the flag clears one quiet
// period after the last call.
func (m *Manager) StartTyping(contactID string) {
	m.mu.Lock()
	c := m.findContact(contactID)
	if c == nil {
		m.mu.Unlock()
		return
	}
	changed := !c.Typing
	c.Typing = true

	if prev := m.typingTimers[contactID]; prev != nil {
		prev.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(m.opts.TypingQuiet, func() { m.typingExpired(contactID, t) })
	m.typingTimers[contactID] = t
	m.mu.Unlock()

	if changed {
		m.publish(bus.KindTypingStarted, bus.TypingChange{ContactID: contactID, Typing: true})
	}
}

// StopTyping clears the contact's typing flag and cancels any pending
// auto-clear timer.
func (m *Manager) StopTyping(contactID string) {
	m.mu.Lock()
	if t := m.typingTimers[contactID]; t != nil {
		t.Stop()
		delete(m.typingTimers, contactID)
	}
	c := m.findContact(contactID)
	changed := c != nil && c.Typing
	if changed {
		c.Typing = false
	}
	m.mu.Unlock()

	if changed {
		m.publish(bus.KindTypingStopped, bus.TypingChange{ContactID: contactID, Typing: false})
	}
}

// typingExpired is the auto-clear path. A timer that was superseded by a
// newer StartTyping finds itself replaced in the map and does nothing.
func (m *Manager) typingExpired(contactID string, self *time.Timer) {
	m.mu.Lock()
	if m.typingTimers[contactID] != self {
		m.mu.Unlock()
		return
	}
	delete(m.typingTimers, contactID)
	c := m.findContact(contactID)
	changed := c != nil && c.Typing
	if changed {
		c.Typing = false
	}
	m.mu.Unlock()

	if changed {
		m.publish(bus.KindTypingStopped, bus.TypingChange{ContactID: contactID, Typing: false})
	}
}

// SetSearchQuery sets the contact-level search query.
func (m *Manager) SetSearchQuery(query string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchQuery = query
}

// SearchQuery returns the contact-level search query.
func (m *Manager) SearchQuery() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.searchQuery
}

// SetMessageSearchQuery sets the message-level search query.
func (m *Manager) SetMessageSearchQuery(query string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messageSearchQuery = query
}

// MessageSearchQuery returns the message-level search query.
func (m *Manager) MessageSearchQuery() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.messageSearchQuery
}

// FilteredMessages returns the active conversation's messages whose content
// contains the message search query, case-insensitively. An empty query
// yields the full sequence; no selection yields nothing.
func (m *Manager) FilteredMessages() []*Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return nil
	}
	q := strings.ToLower(m.messageSearchQuery)
	var out []*Message
	for _, msg := range m.active.Messages {
		if q != "" && !strings.Contains(strings.ToLower(msg.Content), q) {
			continue
		}
		cp := *msg
		out = append(out, &cp)
	}
	return out
}

// ToggleDarkMode flips the display preference and persists it.
func (m *Manager) ToggleDarkMode() {
	m.mu.Lock()
	m.darkMode = !m.darkMode
	dark := m.darkMode
	m.slots.Set(kv.KeyDarkMode, strconv.FormatBool(dark))
	m.mu.Unlock()

	m.publish(bus.KindDarkModeToggled, dark)
}

// DarkMode returns the display preference.
func (m *Manager) DarkMode() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.darkMode
}

// SetUserStatus sets the own presence state.
func (m *Manager) SetUserStatus(status Presence) {
	m.mu.Lock()
	m.status = status
	m.mu.Unlock()

	m.publish(bus.KindStatusChanged, status)
}

// UserStatus returns the own presence state.
func (m *Manager) UserStatus() Presence {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Manager) findByContact(contactID string) *Conversation {
	for _, c := range m.conversations {
		if c.ContactID == contactID {
			return c
		}
	}
	return nil
}

func (m *Manager) findByID(convID string) *Conversation {
	for _, c := range m.conversations {
		if c.ID == convID {
			return c
		}
	}
	return nil
}

func (m *Manager) findContact(contactID string) *Contact {
	for _, c := range m.contacts {
		if c.ID == contactID {
			return c
		}
	}
	return nil
}

func (m *Manager) publish(kind string, payload any) {
	m.bus.Publish(bus.Event{Kind: kind, Timestamp: time.Now(), Payload: payload})
}

func deleteID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
