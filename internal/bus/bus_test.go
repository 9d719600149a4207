package bus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("chat.", 10)
	defer unsub()

	b.Publish(Event{Kind: KindMessageSent, Timestamp: time.Now(), Payload: MessageRef{ConversationID: "c1", MessageID: "m1"}})

	select {
	case evt := <-ch:
		if evt.Kind != KindMessageSent {
			t.Errorf("got kind %q, want %q", evt.Kind, KindMessageSent)
		}
		ref, ok := evt.Payload.(MessageRef)
		if !ok {
			t.Fatalf("payload type = %T, want MessageRef", evt.Payload)
		}
		if ref.ConversationID != "c1" || ref.MessageID != "m1" {
			t.Errorf("payload = %+v, want c1/m1", ref)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestNamespaceFiltering(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("friend.", 10)
	defer unsub()

	b.Publish(Event{Kind: KindMessageSent})
	b.Publish(Event{Kind: KindRequestSent})

	select {
	case evt := <-ch:
		if evt.Kind != KindRequestSent {
			t.Errorf("got kind %q, want %q", evt.Kind, KindRequestSent)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	// Ensure the chat event was not delivered.
	select {
	case evt := <-ch:
		t.Errorf("unexpected event: %v", evt)
	case <-time.After(50 * time.Millisecond):
		// Expected: no more events.
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("session.", 10)
	unsub()

	b.Publish(Event{Kind: KindSignedIn})

	select {
	case evt := <-ch:
		t.Errorf("received event after unsubscribe: %v", evt)
	case <-time.After(50 * time.Millisecond):
		// Expected.
	}
}

func TestDropOnFullBuffer(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("chat.", 1)
	defer unsub()

	// Fill buffer.
	b.Publish(Event{Kind: KindTypingStarted})
	// This should be dropped (non-blocking).
	b.Publish(Event{Kind: KindTypingStopped})

	evt := <-ch
	if evt.Kind != KindTypingStarted {
		t.Errorf("got %q, want %q", evt.Kind, KindTypingStarted)
	}
}
