// Package kv provides the process-local key-value slots backing session and
// display-preference persistence. Values live for the lifetime of the
// process; there is no durable backend in this design.
package kv

import "sync"

// Well-known keys.
const (
	KeyCurrentUser = "currentUser"
	KeyDarkMode    = "darkMode"
)

// Store is a process-local key-value slot.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// Memory is the in-memory Store implementation.
type Memory struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{slots: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.slots[key]
	return v, ok
}

// Set stores value under key, replacing any prior value.
func (m *Memory) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = value
}

// Delete removes key. Deleting a missing key is a no-op.
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
}
