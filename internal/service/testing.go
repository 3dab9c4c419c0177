package service

import (
	"context"
	"errors"
	"sync"

	"github.com/fortuna-totem/engine/internal/game"
	"github.com/fortuna-totem/engine/internal/model"
)

// MemoryStore is an in-memory PlayStore and SettingsStore for tests and
// local development. A single mutex spans each play transaction, giving it
// the same serialization window the PostgreSQL store gets from its row
// lock.
type MemoryStore struct {
	mu      sync.Mutex
	records []model.PlayRecord
	state   game.BatchState

	// Settings live behind their own lock: the engine re-reads the
	// emergency flag while a play transaction is open.
	settingsMu sync.Mutex
	emergency  bool

	// FailHistoryReads makes WinningPrizeNames fail, to exercise the
	// degrade-to-empty-inventory path.
	FailHistoryReads bool
	// FailSettingsReads makes EmergencyMode fail, to exercise the
	// fail-safe-off path.
	FailSettingsReads bool
	// FailAppends makes Append fail, to exercise the committed-write
	// requirement.
	FailAppends bool
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

type memorySession struct {
	s *MemoryStore
}

func (m *memorySession) HasPlayed(_ context.Context, employeeID string) (bool, error) {
	for _, r := range m.s.records {
		if r.EmployeeID == employeeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memorySession) WinningPrizeNames(_ context.Context) ([]string, error) {
	if m.s.FailHistoryReads {
		return nil, errors.New("memory store: history reads disabled")
	}
	var names []string
	for _, r := range m.s.records {
		if r.Win && r.Prize != nil {
			names = append(names, *r.Prize)
		}
	}
	return names, nil
}

func (m *memorySession) BatchState(_ context.Context) (game.BatchState, error) {
	return m.s.state, nil
}

func (m *memorySession) Append(_ context.Context, rec model.PlayRecord, st game.BatchState) error {
	if m.s.FailAppends {
		return errors.New("memory store: appends disabled")
	}
	m.s.records = append(m.s.records, rec)
	m.s.state = st
	return nil
}

// Play implements PlayStore.
func (s *MemoryStore) Play(_ context.Context, fn func(PlaySession) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&memorySession{s: s})
}

// History implements PlayStore, newest first.
func (s *MemoryStore) History(_ context.Context) ([]model.PlayRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.PlayRecord, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

// Reset implements PlayStore.
func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.state = game.BatchState{}
	return nil
}

// EmergencyMode implements SettingsStore.
func (s *MemoryStore) EmergencyMode(_ context.Context) (bool, error) {
	if s.FailSettingsReads {
		return false, errors.New("memory store: settings reads disabled")
	}
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()
	return s.emergency, nil
}

// SetEmergencyMode implements SettingsStore.
func (s *MemoryStore) SetEmergencyMode(_ context.Context, enabled bool) error {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()
	s.emergency = enabled
	return nil
}

// State returns a copy of the pacing counters.
func (s *MemoryStore) State() game.BatchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
