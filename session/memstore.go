package session

import (
	"context"
	"sync"
)

type (
	// MemoryStore is a process local Store, records are lost on restart.
	MemoryStore struct {
		mu      sync.RWMutex
		records map[string]Record
	}
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Record),
	}
}

func (m *MemoryStore) Put(_ context.Context, rec Record) error {
	if rec.SessionID == "" {
		return InvalidArgument{Name: "session_id", Reason: "cannot be empty"}
	}
	m.mu.Lock()
	m.records[rec.SessionID] = rec
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) GetBy(_ context.Context, field Field, value string) (Record, error) {
	if err := CheckField(field); err != nil {
		return Record{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if field == FieldSessionID {
		rec, ok := m.records[value]
		if !ok {
			return Record{}, NotFound{Field: field, Value: value}
		}
		return rec, nil
	}
	var matches []Record
	for _, rec := range m.records {
		if rec.Value(field) == value {
			matches = append(matches, rec)
		}
	}
	rec, ok := Newest(matches)
	if !ok {
		return Record{}, NotFound{Field: field, Value: value}
	}
	return rec, nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.records[sessionID]
	if ok {
		delete(m.records, sessionID)
	}
	return ok, nil
}

// Len returns how many records are kept, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
