// Package profile persists what survives between runs: the world seed, the
// objects already scavenged and where the player last stood.
package profile

import (
	"errors"
	"sync"
)

var ErrClosed = errors.New("profile: closed")

// Profile is the persistence collaborator of the world. Values are opaque to
// the store.
type Profile interface {
	Seed() int64
	IsScavenged(id string) bool
	MarkScavenged(id string) error
	LastCell() (row, col int, ok bool)
	SaveCell(row, col int) error
	Get(key string) (string, bool)
	Put(key, value string) error
}

// Memory keeps the profile in process memory.
type Memory struct {
	mu        sync.Mutex
	seed      int64
	scavenged map[string]struct{}
	cell      [2]int
	hasCell   bool
	kv        map[string]string
}

func NewMemory(seed int64) *Memory {
	return &Memory{
		seed:      seed,
		scavenged: make(map[string]struct{}),
		kv:        make(map[string]string),
	}
}

func (m *Memory) Seed() int64 {
	return m.seed
}

func (m *Memory) IsScavenged(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.scavenged[id]
	return ok
}

func (m *Memory) MarkScavenged(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scavenged[id] = struct{}{}
	return nil
}

// Scavenged returns how many objects have been recorded.
func (m *Memory) Scavenged() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.scavenged)
}

func (m *Memory) LastCell() (int, int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cell[0], m.cell[1], m.hasCell
}

func (m *Memory) SaveCell(row, col int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cell = [2]int{row, col}
	m.hasCell = true
	return nil
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.kv[key]
	return v, ok
}

func (m *Memory) Put(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kv[key] = value
	return nil
}

var (
	_ Profile = (*Memory)(nil)
	_ Profile = (*SQLiteStore)(nil)
)
