package chat

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"chatterm/internal/bus"
	"chatterm/internal/identity"
	"chatterm/internal/kv"
)

type fixedSender struct{ id *identity.Identity }

func (s fixedSender) Current() *identity.Identity { return s.id }

var demoSender = fixedSender{id: &identity.Identity{ID: "demo", Name: "Demo User", Email: "demo@example.com"}}

func testContacts() []Contact {
	return []Contact{
		{ID: "alice", Name: "Alice Johnson", Email: "alice@example.com", Status: PresenceOnline},
		{ID: "bob", Name: "Bob Smith", Email: "bob@example.com", Status: PresenceAway},
	}
}

func testManager(t *testing.T, opts Options) (*Manager, *bus.Bus) {
	t.Helper()
	// Keep simulated replies out of the way unless a test opts in.
	if opts.ReplyDelayMin == 0 {
		opts.ReplyDelayMin = time.Minute
		opts.ReplyDelayMax = time.Minute
	}
	if opts.TypingQuiet == 0 {
		opts.TypingQuiet = 20 * time.Millisecond
	}
	b := bus.New()
	m := NewManager(testContacts(), demoSender, kv.NewMemory(), b, zap.NewNop(), opts)
	t.Cleanup(m.Close)
	return m, b
}

func awaitEvent(t *testing.T, ch <-chan bus.Event, kind string) bus.Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Kind == kind {
				return evt
			}
		case <-deadline:
			t.Fatalf("timeout waiting for %s", kind)
		}
	}
}

func TestSelectConversationCreatesOnce(t *testing.T) {
	m, _ := testManager(t, Options{})

	m.SelectConversation("alice")
	convs := m.Conversations()
	if len(convs) != 1 {
		t.Fatalf("got %d conversations, want 1", len(convs))
	}
	if convs[0].ContactID != "alice" || len(convs[0].Messages) != 0 || convs[0].UnreadCount != 0 {
		t.Errorf("new conversation = %+v, want empty read thread for alice", convs[0])
	}

	// Selecting again is idempotent.
	m.SelectConversation("alice")
	if got := len(m.Conversations()); got != 1 {
		t.Errorf("got %d conversations after reselect, want 1", got)
	}
	active := m.ActiveConversation()
	if active == nil || active.ContactID != "alice" {
		t.Errorf("active = %+v, want alice", active)
	}
}

func TestSelectConversationMarksRead(t *testing.T) {
	seed := &Conversation{
		ID:        "conv-alice",
		ContactID: "alice",
		Messages: []*Message{
			{ID: "m1", SenderID: "alice", Content: "hey", Kind: KindText, Timestamp: time.Now()},
		},
		UnreadCount: 2,
	}
	m, _ := testManager(t, Options{Seed: []*Conversation{seed}})

	m.SelectConversation("alice")
	if got := m.ActiveConversation().UnreadCount; got != 0 {
		t.Errorf("unread after select = %d, want 0", got)
	}
}

func TestSendMessageAppends(t *testing.T) {
	m, _ := testManager(t, Options{})
	m.SelectConversation("alice")

	m.SendMessage("hello", KindText)
	m.SendMessage("  world  ", "")

	active := m.ActiveConversation()
	if len(active.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(active.Messages))
	}
	first, second := active.Messages[0], active.Messages[1]
	if first.SenderID != "demo" || first.Content != "hello" {
		t.Errorf("first = %+v", first)
	}
	if second.Content != "world" {
		t.Errorf("content not trimmed: %q", second.Content)
	}
	if second.Kind != KindText {
		t.Errorf("empty kind should default to text, got %q", second.Kind)
	}
	if first.ID == second.ID {
		t.Error("message ids must be unique")
	}
	if active.LastMessage == nil || active.LastMessage.ID != second.ID {
		t.Errorf("last message = %+v, want %q", active.LastMessage, second.ID)
	}
}

func TestSendMessageNoOps(t *testing.T) {
	m, _ := testManager(t, Options{})

	// No active conversation.
	m.SendMessage("hello", KindText)
	if got := len(m.Conversations()); got != 0 {
		t.Errorf("got %d conversations, want 0", got)
	}

	// Blank content.
	m.SelectConversation("alice")
	m.SendMessage("", KindText)
	m.SendMessage("   \t  ", KindText)
	if got := len(m.ActiveConversation().Messages); got != 0 {
		t.Errorf("got %d messages after blank sends, want 0", got)
	}
}

// TestSimulatedReply verifies that each send schedules exactly one reply
// authored by the contact, and that the reply bumps the unread counter even
// though the conversation is still the active selection.
func TestSimulatedReply(t *testing.T) {
	m, b := testManager(t, Options{ReplyDelayMin: 5 * time.Millisecond, ReplyDelayMax: 10 * time.Millisecond})
	ch, unsub := b.Subscribe("chat.message_received", 10)
	defer unsub()

	m.SelectConversation("alice")
	m.SendMessage("ping", KindText)

	awaitEvent(t, ch, bus.KindMessageReceived)

	active := m.ActiveConversation()
	if len(active.Messages) != 2 {
		t.Fatalf("got %d messages, want send + reply", len(active.Messages))
	}
	reply := active.Messages[1]
	if reply.SenderID != "alice" {
		t.Errorf("reply sender = %q, want alice", reply.SenderID)
	}
	if !containsReply(reply.Content) {
		t.Errorf("reply content %q not from canned pool", reply.Content)
	}
	if active.UnreadCount != 1 {
		t.Errorf("unread = %d, want 1 (bumped even while active)", active.UnreadCount)
	}

	// Exactly one reply: no second event arrives.
	select {
	case evt := <-ch:
		t.Errorf("unexpected extra reply: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

// TestReplyLandsInDeselectedConversation verifies that a reply fired after
// the user navigated away is appended to the original conversation by id,
// not dropped and not misdelivered.
func TestReplyLandsInDeselectedConversation(t *testing.T) {
	m, b := testManager(t, Options{ReplyDelayMin: 5 * time.Millisecond, ReplyDelayMax: 10 * time.Millisecond})
	ch, unsub := b.Subscribe("chat.message_received", 10)
	defer unsub()

	m.SelectConversation("alice")
	m.SendMessage("ping", KindText)
	m.SelectConversation("bob")

	awaitEvent(t, ch, bus.KindMessageReceived)

	var aliceConv *Conversation
	for _, c := range m.Conversations() {
		if c.ContactID == "alice" {
			cc := c
			aliceConv = &cc
		}
	}
	if aliceConv == nil {
		t.Fatal("alice conversation missing")
	}
	if len(aliceConv.Messages) != 2 {
		t.Fatalf("alice thread has %d messages, want 2", len(aliceConv.Messages))
	}
	if aliceConv.UnreadCount != 1 {
		t.Errorf("alice unread = %d, want 1", aliceConv.UnreadCount)
	}
	if got := len(m.ActiveConversation().Messages); got != 0 {
		t.Errorf("bob thread has %d messages, want 0", got)
	}
}

func TestEditMessage(t *testing.T) {
	m, _ := testManager(t, Options{})
	m.SelectConversation("alice")
	m.SendMessage("draft", KindText)
	id := m.ActiveConversation().Messages[0].ID

	m.EditMessage(id, "v2")
	m.EditMessage(id, "v3")

	msgs := m.ActiveConversation().Messages
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0].Content != "v3" || !msgs[0].Edited {
		t.Errorf("message = %+v, want content v3, edited", msgs[0])
	}

	// Unknown id and missing selection are no-ops.
	m.EditMessage("nope", "x")
	if m.ActiveConversation().Messages[0].Content != "v3" {
		t.Error("edit with unknown id should not change anything")
	}
}

func TestPinUnpinRoundTrip(t *testing.T) {
	m, _ := testManager(t, Options{})
	m.SelectConversation("alice")
	m.SendMessage("keep this", KindText)
	id := m.ActiveConversation().Messages[0].ID

	m.PinMessage(id)
	m.PinMessage(id) // idempotent

	active := m.ActiveConversation()
	if len(active.PinnedIDs) != 1 || active.PinnedIDs[0] != id {
		t.Fatalf("pinned ids = %v, want [%s]", active.PinnedIDs, id)
	}
	if !active.Messages[0].Pinned {
		t.Error("message flag not set")
	}

	m.UnpinMessage(id)
	m.UnpinMessage(id) // idempotent

	active = m.ActiveConversation()
	if len(active.PinnedIDs) != 0 {
		t.Errorf("pinned ids = %v, want empty (round trip)", active.PinnedIDs)
	}
	if active.Messages[0].Pinned {
		t.Error("message flag not cleared")
	}
}

func TestDeleteMessageRemovesPin(t *testing.T) {
	m, _ := testManager(t, Options{})
	m.SelectConversation("alice")
	m.SendMessage("one", KindText)
	m.SendMessage("two", KindText)
	id := m.ActiveConversation().Messages[0].ID
	m.PinMessage(id)

	m.DeleteMessage(id)

	active := m.ActiveConversation()
	if len(active.Messages) != 1 || active.Messages[0].Content != "two" {
		t.Errorf("messages = %+v, want only 'two'", active.Messages)
	}
	if len(active.PinnedIDs) != 0 {
		t.Errorf("pinned ids = %v, want empty after delete", active.PinnedIDs)
	}
}

// TestTypingTimerRearm verifies that a second StartTyping before the quiet
// period elapses replaces the first timer: the flag must still be set after
// the first timer would have fired, and clear one quiet period after the
// last call.
func TestTypingTimerRearm(t *testing.T) {
	m, b := testManager(t, Options{TypingQuiet: 60 * time.Millisecond})
	ch, unsub := b.Subscribe("chat.typing_stopped", 10)
	defer unsub()

	m.StartTyping("alice")
	time.Sleep(30 * time.Millisecond)
	m.StartTyping("alice")
	time.Sleep(45 * time.Millisecond)

	// 75ms after the first call: its timer is dead, the second is pending.
	if !typingFlag(m, "alice") {
		t.Fatal("typing flag cleared by the superseded timer")
	}

	awaitEvent(t, ch, bus.KindTypingStopped)
	if typingFlag(m, "alice") {
		t.Error("typing flag still set after quiet period")
	}
}

func TestStopTypingCancelsTimer(t *testing.T) {
	m, b := testManager(t, Options{TypingQuiet: 30 * time.Millisecond})
	ch, unsub := b.Subscribe("chat.typing_stopped", 10)
	defer unsub()

	m.StartTyping("alice")
	m.StopTyping("alice")
	if typingFlag(m, "alice") {
		t.Fatal("typing flag should clear on explicit stop")
	}
	awaitEvent(t, ch, bus.KindTypingStopped)

	// The canceled timer must not produce a second stop event.
	select {
	case evt := <-ch:
		t.Errorf("unexpected event after cancel: %v", evt)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestContactFilter(t *testing.T) {
	m, _ := testManager(t, Options{})

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"empty yields all", "", 2},
		{"by name", "alice", 1},
		{"case-insensitive", "ALICE", 1},
		{"by email", "bob@", 1},
		{"no match", "zzz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.SetSearchQuery(tt.query)
			if got := len(m.FilteredContacts()); got != tt.want {
				t.Errorf("FilteredContacts(%q) = %d, want %d", tt.query, got, tt.want)
			}
		})
	}
}

func TestMessageFilter(t *testing.T) {
	m, _ := testManager(t, Options{})

	// No selection: nothing, regardless of query.
	if got := m.FilteredMessages(); got != nil {
		t.Errorf("FilteredMessages without selection = %v, want nil", got)
	}

	m.SelectConversation("alice")
	m.SendMessage("the quick brown fox", KindText)
	m.SendMessage("lazy dog", KindText)

	m.SetMessageSearchQuery("QUICK")
	if got := len(m.FilteredMessages()); got != 1 {
		t.Errorf("filtered = %d, want 1", got)
	}

	// Empty query yields the full sequence.
	m.SetMessageSearchQuery("")
	if got := len(m.FilteredMessages()); got != 2 {
		t.Errorf("unfiltered = %d, want 2", got)
	}
}

func TestDarkModePersistence(t *testing.T) {
	slots := kv.NewMemory()
	b := bus.New()
	m := NewManager(testContacts(), demoSender, slots, b, zap.NewNop(), Options{})
	defer m.Close()

	if m.DarkMode() {
		t.Fatal("dark mode should default off")
	}
	m.ToggleDarkMode()
	if !m.DarkMode() {
		t.Fatal("toggle should enable dark mode")
	}

	// A new manager over the same slots restores the preference.
	m2 := NewManager(testContacts(), demoSender, slots, b, zap.NewNop(), Options{})
	defer m2.Close()
	if !m2.DarkMode() {
		t.Error("dark mode preference not restored from slot")
	}
}

func TestSetUserStatus(t *testing.T) {
	m, _ := testManager(t, Options{})
	if m.UserStatus() != PresenceOnline {
		t.Errorf("default status = %q, want online", m.UserStatus())
	}
	m.SetUserStatus(PresenceBusy)
	if m.UserStatus() != PresenceBusy {
		t.Errorf("status = %q, want busy", m.UserStatus())
	}
}

func typingFlag(m *Manager, contactID string) bool {
	for _, c := range m.Contacts() {
		if c.ID == contactID {
			return c.Typing
		}
	}
	return false
}

func containsReply(s string) bool {
	for _, r := range cannedReplies {
		if r == s {
			return true
		}
	}
	return false
}
