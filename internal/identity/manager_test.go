package identity

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"chatterm/internal/bus"
	"chatterm/internal/kv"
	"chatterm/internal/store"
)

func testManager(t *testing.T) (*Manager, kv.Store) {
	t.Helper()
	db, err := store.Open(store.InMemory)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	slots := kv.NewMemory()
	return NewManager(db, slots, bus.New(), zap.NewNop(), 0), slots
}

func TestSignInDemoCredentials(t *testing.T) {
	m, slots := testManager(t)

	ok, err := m.SignIn(context.Background(), DemoEmail, DemoPassword)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("SignIn with demo credentials should succeed")
	}

	cur := m.Current()
	if cur == nil || cur.ID != "demo" {
		t.Fatalf("Current() = %+v, want demo", cur)
	}
	if cur.Name != "Demo User" || cur.Status != StatusOnline {
		t.Errorf("identity = %+v, want directory-resolved demo user", cur)
	}

	if _, ok := slots.Get(kv.KeyCurrentUser); !ok {
		t.Error("identity record not persisted to key-value slot")
	}
}

func TestSignInWrongCredentials(t *testing.T) {
	m, _ := testManager(t)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", DemoEmail, "nope"},
		{"unknown email", "alice@example.com", DemoPassword},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := m.SignIn(context.Background(), tt.email, tt.password)
			if err != nil {
				t.Fatal(err)
			}
			if ok {
				t.Error("SignIn should reject")
			}
			if m.Current() != nil {
				t.Error("Current() should stay nil after rejected sign-in")
			}
		})
	}
}

func TestSignUpAcceptsAnything(t *testing.T) {
	m, _ := testManager(t)

	id, err := m.SignUp(context.Background(), "New Person", "new@example.com", "pw")
	if err != nil {
		t.Fatal(err)
	}
	if id.ID == "" || id.Name != "New Person" {
		t.Errorf("SignUp identity = %+v", id)
	}
	if cur := m.Current(); cur == nil || cur.ID != id.ID {
		t.Errorf("Current() = %+v, want %v", cur, id)
	}
}

func TestSignOutClearsSlot(t *testing.T) {
	m, slots := testManager(t)

	if _, err := m.SignIn(context.Background(), DemoEmail, DemoPassword); err != nil {
		t.Fatal(err)
	}
	m.SignOut()

	if m.Current() != nil {
		t.Error("Current() should be nil after sign-out")
	}
	if _, ok := slots.Get(kv.KeyCurrentUser); ok {
		t.Error("identity record should be removed on sign-out")
	}

	// Signing out twice is harmless.
	m.SignOut()
}

func TestRestorePersistedIdentity(t *testing.T) {
	db, err := store.Open(store.InMemory)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	slots := kv.NewMemory()
	first := NewManager(db, slots, bus.New(), zap.NewNop(), 0)
	if _, err := first.SignIn(context.Background(), DemoEmail, DemoPassword); err != nil {
		t.Fatal(err)
	}

	// A second manager over the same slots restores the record.
	second := NewManager(db, slots, bus.New(), zap.NewNop(), 0)
	cur := second.Current()
	if cur == nil || cur.ID != "demo" {
		t.Errorf("restored Current() = %+v, want demo", cur)
	}
}

func TestSignInHonorsContext(t *testing.T) {
	db, err := store.Open(store.InMemory)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	m := NewManager(db, kv.NewMemory(), bus.New(), zap.NewNop(), time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.SignIn(ctx, DemoEmail, DemoPassword); err == nil {
		t.Error("SignIn should return the context error when canceled")
	}
}
