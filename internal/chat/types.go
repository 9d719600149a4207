package chat

import (
	"slices"
	"time"
)

// Presence is a contact presence state.
type Presence string

const (
	PresenceOnline    Presence = "online"
	PresenceOffline   Presence = "offline"
	PresenceAway      Presence = "away"
	PresenceBusy      Presence = "busy"
	PresenceInvisible Presence = "invisible"
)

// MessageKind classifies message content.
type MessageKind string

const (
	KindText       MessageKind = "text"
	KindEmoji      MessageKind = "emoji"
	KindAttachment MessageKind = "attachment"
	KindImage      MessageKind = "image"
)

// Attachment carries metadata for attachment and image messages.
type Attachment struct {
	URL  string
	Name string
	Type string
}

// Message is a single entry in a conversation. Messages are owned by their
// conversation: edit and pin mutate in place, delete removes.
type Message struct {
	ID         string
	SenderID   string
	Content    string
	Timestamp  time.Time
	Kind       MessageKind
	Edited     bool
	Pinned     bool
	Attachment *Attachment
}

// Contact is a directory user as seen by the conversation manager.
type Contact struct {
	ID       string
	Name     string
	Email    string
	Avatar   string
	Status   Presence
	LastSeen time.Time // zero when unknown
	Typing   bool
}

// Conversation is the message thread with one contact. At most one
// conversation exists per contact; once created it is never destroyed.
type Conversation struct {
	ID          string
	ContactID   string
	Messages    []*Message
	LastMessage *Message
	UnreadCount int
	PinnedIDs   []string
}

func (c *Conversation) append(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.LastMessage = msg
}

func (c *Conversation) find(messageID string) *Message {
	for _, m := range c.Messages {
		if m.ID == messageID {
			return m
		}
	}
	return nil
}

func (c *Conversation) pinned(messageID string) bool {
	return slices.Contains(c.PinnedIDs, messageID)
}

// snapshot returns a deep copy safe to hand to the presentation layer.
func (c *Conversation) snapshot() Conversation {
	out := Conversation{
		ID:          c.ID,
		ContactID:   c.ContactID,
		UnreadCount: c.UnreadCount,
		PinnedIDs:   slices.Clone(c.PinnedIDs),
	}
	out.Messages = make([]*Message, len(c.Messages))
	for i, m := range c.Messages {
		cp := *m
		out.Messages[i] = &cp
		if c.LastMessage != nil && m.ID == c.LastMessage.ID {
			out.LastMessage = out.Messages[i]
		}
	}
	return out
}
