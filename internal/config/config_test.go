package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	cfg := &Config{
		DefaultProfile: "work",
		Simulation:     Simulation{ReplyDelayMinMS: 10, ReplyDelayMaxMS: 20},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DefaultProfile != "work" {
		t.Errorf("DefaultProfile = %q, want %q", loaded.DefaultProfile, "work")
	}
	if loaded.Simulation.ReplyDelayMin() != 10*time.Millisecond {
		t.Errorf("ReplyDelayMin = %v, want 10ms", loaded.Simulation.ReplyDelayMin())
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestSimulationDefaults(t *testing.T) {
	var s Simulation
	tests := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"reply min", s.ReplyDelayMin(), 2 * time.Second},
		{"reply max", s.ReplyDelayMax(), 5 * time.Second},
		{"typing quiet", s.TypingQuiet(), 3 * time.Second},
		{"sign-in delay", s.SignInDelay(), time.Second},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestSavePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	if err := Save(path, &Config{DefaultProfile: "main"}); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	perm := info.Mode().Perm()
	if perm != 0600 {
		t.Errorf("file permission = %o, want 0600", perm)
	}
}
