package bus

import "time"

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// Event kinds published by the state managers. Subscribers filter by
// namespace prefix ("chat.", "friend.", "session.").
const (
	KindConversationSelected = "chat.conversation_selected"
	KindMessageSent          = "chat.message_sent"
	KindMessageReceived      = "chat.message_received"
	KindMessageEdited        = "chat.message_edited"
	KindMessageDeleted       = "chat.message_deleted"
	KindMessagePinned        = "chat.message_pinned"
	KindMessageUnpinned      = "chat.message_unpinned"
	KindTypingStarted        = "chat.typing_started"
	KindTypingStopped        = "chat.typing_stopped"
	KindDarkModeToggled      = "chat.dark_mode_toggled"
	KindStatusChanged        = "chat.status_changed"

	KindRequestSent     = "friend.request_sent"
	KindRequestAccepted = "friend.request_accepted"
	KindRequestRejected = "friend.request_rejected"
	KindFiltersChanged  = "friend.filters_changed"

	KindSignedIn  = "session.signed_in"
	KindSignedOut = "session.signed_out"
)

// MessageRef identifies a message within a conversation. Payload for the
// chat.message_* events.
type MessageRef struct {
	ConversationID string
	MessageID      string
}

// TypingChange is the payload for the chat.typing_* events.
type TypingChange struct {
	ContactID string
	Typing    bool
}

// RequestRef identifies a friend request. Payload for the friend.request_*
// events.
type RequestRef struct {
	RequestID  string
	SenderID   string
	ReceiverID string
}
