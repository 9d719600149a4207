package app

import (
	"time"

	"chatterm/internal/chat"
	"chatterm/internal/friend"
	"chatterm/internal/identity"
	"chatterm/internal/store"
)

// seedContacts maps the directory to the conversation manager's contact
// list. The demo account itself is not a contact.
func seedContacts(db *store.DB) ([]chat.Contact, error) {
	users, err := db.ListUsers()
	if err != nil {
		return nil, err
	}
	var contacts []chat.Contact
	for _, u := range users {
		if u.Email == identity.DemoEmail {
			continue
		}
		c := chat.Contact{
			ID:     u.ID,
			Name:   u.Name,
			Email:  u.Email,
			Avatar: u.Avatar,
			Status: chat.Presence(u.Status),
		}
		if u.LastSeenAt > 0 {
			c.LastSeen = time.UnixMilli(u.LastSeenAt)
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}

// seedConversations builds the demo threads present on first run: an unread
// exchange with Alice, one message pinned, and a short thread with Bob.
func seedConversations() []*chat.Conversation {
	now := time.Now()

	aliceMsgs := []*chat.Message{
		{
			ID:        "seed-alice-1",
			SenderID:  "alice",
			Content:   "Hey! How's your day going?",
			Timestamp: now.Add(-25 * time.Minute),
			Kind:      chat.KindText,
		},
		{
			ID:        "seed-alice-2",
			SenderID:  "demo",
			Content:   "Pretty good! Just finished a big project",
			Timestamp: now.Add(-20 * time.Minute),
			Kind:      chat.KindText,
		},
		{
			ID:        "seed-alice-3",
			SenderID:  "alice",
			Content:   "That's awesome! Want to grab coffee later?",
			Timestamp: now.Add(-15 * time.Minute),
			Kind:      chat.KindText,
			Pinned:    true,
		},
	}

	bobMsgs := []*chat.Message{
		{
			ID:        "seed-bob-1",
			SenderID:  "demo",
			Content:   "Did you see the game last night?",
			Timestamp: now.Add(-2 * time.Hour),
			Kind:      chat.KindText,
		},
		{
			ID:        "seed-bob-2",
			SenderID:  "bob",
			Content:   "Yes! What an incredible finish! 🔥",
			Timestamp: now.Add(-110 * time.Minute),
			Kind:      chat.KindEmoji,
		},
	}

	return []*chat.Conversation{
		{
			ID:          "seed-conv-alice",
			ContactID:   "alice",
			Messages:    aliceMsgs,
			LastMessage: aliceMsgs[len(aliceMsgs)-1],
			UnreadCount: 2,
			PinnedIDs:   []string{"seed-alice-3"},
		},
		{
			ID:          "seed-conv-bob",
			ContactID:   "bob",
			Messages:    bobMsgs,
			LastMessage: bobMsgs[len(bobMsgs)-1],
		},
	}
}

// seedRelationships builds the initial friend graph: Alice and Bob are
// already friends, Carol has a pending request.
func seedRelationships() friend.Options {
	return friend.Options{
		Friends: []string{"alice", "bob"},
		Requests: []friend.FriendRequest{
			{
				ID:         "seed-req-carol",
				SenderID:   "carol",
				ReceiverID: "demo",
				Timestamp:  time.Now().Add(-time.Hour),
			},
		},
	}
}
