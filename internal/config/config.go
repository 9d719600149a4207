package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Simulation tunes the mock-network delays. Zero values fall back to the
// defaults below.
type Simulation struct {
	ReplyDelayMinMS int `toml:"reply_delay_min_ms"`
	ReplyDelayMaxMS int `toml:"reply_delay_max_ms"`
	TypingQuietMS   int `toml:"typing_quiet_ms"`
	SignInDelayMS   int `toml:"sign_in_delay_ms"`
}

// Config represents the global ~/.chatterm/config.toml.
type Config struct {
	DefaultProfile string     `toml:"default_profile"`
	Simulation     Simulation `toml:"simulation"`
}

// Default simulated delays, matching the original demo: replies land after a
// uniform 2-5 s, a typing indicator clears 3 s after the last keystroke, and
// sign-in takes 1 s.
const (
	DefaultReplyDelayMin = 2 * time.Second
	DefaultReplyDelayMax = 5 * time.Second
	DefaultTypingQuiet   = 3 * time.Second
	DefaultSignInDelay   = time.Second
)

// ReplyDelayMin returns the configured minimum reply delay or the default.
func (s Simulation) ReplyDelayMin() time.Duration {
	if s.ReplyDelayMinMS > 0 {
		return time.Duration(s.ReplyDelayMinMS) * time.Millisecond
	}
	return DefaultReplyDelayMin
}

// ReplyDelayMax returns the configured maximum reply delay or the default.
func (s Simulation) ReplyDelayMax() time.Duration {
	if s.ReplyDelayMaxMS > 0 {
		return time.Duration(s.ReplyDelayMaxMS) * time.Millisecond
	}
	return DefaultReplyDelayMax
}

// TypingQuiet returns the configured typing quiet period or the default.
func (s Simulation) TypingQuiet() time.Duration {
	if s.TypingQuietMS > 0 {
		return time.Duration(s.TypingQuietMS) * time.Millisecond
	}
	return DefaultTypingQuiet
}

// SignInDelay returns the configured sign-in delay or the default.
func (s Simulation) SignInDelay() time.Duration {
	if s.SignInDelayMS > 0 {
		return time.Duration(s.SignInDelayMS) * time.Millisecond
	}
	return DefaultSignInDelay
}

// Load reads config from the given path. Returns zero config and error if
// file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
