package store

import "testing"

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(InMemory)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateSeedsDirectory(t *testing.T) {
	db := testDB(t)

	count, err := db.UserCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 7 {
		t.Errorf("UserCount() = %d, want 7", count)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	db := testDB(t)

	result, err := db.Migrate()
	if err != nil {
		t.Fatal(err)
	}
	if result.Changed {
		t.Error("second Migrate() should report no change")
	}
}

func TestGetUser(t *testing.T) {
	db := testDB(t)

	u, err := db.GetUser("alice")
	if err != nil {
		t.Fatal(err)
	}
	if u == nil {
		t.Fatal("alice not found")
	}
	if u.Name != "Alice Johnson" || u.Email != "alice@example.com" {
		t.Errorf("got %q/%q, want Alice Johnson/alice@example.com", u.Name, u.Email)
	}
	if u.Age == 0 || u.HeightCM == 0 || u.Location == "" {
		t.Errorf("profile attributes not seeded: %+v", u)
	}

	missing, err := db.GetUser("nobody")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Errorf("GetUser(nobody) = %+v, want nil", missing)
	}
}

func TestGetUserByEmail(t *testing.T) {
	db := testDB(t)

	u, err := db.GetUserByEmail("DEMO@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if u == nil || u.ID != "demo" {
		t.Errorf("GetUserByEmail(DEMO@example.com) = %+v, want demo (case-insensitive)", u)
	}
}

func TestSearchUsers(t *testing.T) {
	db := testDB(t)

	tests := []struct {
		name    string
		query   string
		exclude string
		wantIDs []string
	}{
		{"by name fragment", "ali", "demo", []string{"alice"}},
		{"case-insensitive", "ALICE", "demo", []string{"alice"}},
		{"by email", "bob@", "demo", []string{"bob"}},
		{"excludes self", "demo", "demo", nil},
		{"shared domain", "example.com", "demo", []string{"alice", "bob", "carol", "david", "emma", "frank"}},
		{"no match", "zzz", "demo", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := db.SearchUsers(tt.query, tt.exclude)
			if err != nil {
				t.Fatal(err)
			}
			if len(users) != len(tt.wantIDs) {
				t.Fatalf("got %d users, want %d", len(users), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if users[i].ID != id {
					t.Errorf("users[%d].ID = %q, want %q", i, users[i].ID, id)
				}
			}
		})
	}
}

func TestDirectoryOrderStable(t *testing.T) {
	db := testDB(t)

	users, err := db.ListUsers()
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 7 {
		t.Fatalf("got %d users, want 7", len(users))
	}
	if users[0].ID != "demo" {
		t.Errorf("first user = %q, want demo (seed order)", users[0].ID)
	}
}
