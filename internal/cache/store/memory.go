package store

import "sync"

// Memory is a Backend that keeps the last saved snapshot in process. It
// backs the "memory" configuration and the tests.
type Memory struct {
	mu    sync.Mutex
	snap  Snapshot
	saves int
	err   error
}

func NewMemory() *Memory {
	return &Memory{snap: Snapshot{}}
}

// NewMemoryWith returns a Memory backend that loads s.
func NewMemoryWith(s Snapshot) *Memory {
	return &Memory{snap: s}
}

func (m *Memory) Load() (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap.Clone(), nil
}

func (m *Memory) Save(s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.snap = s.Clone()
	m.saves++
	return nil
}

func (m *Memory) Close() error {
	return nil
}

// Saves returns how many successful saves happened.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Saved returns a copy of the last saved snapshot.
func (m *Memory) Saved() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap.Clone()
}

// FailSaves makes every following Save return err. A nil err restores
// normal behaviour.
func (m *Memory) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}
