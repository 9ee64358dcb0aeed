package store

import (
	"context"
	"sort"
	"sync"

	"truco-lite/truco"
)

// MemoryStore keeps everything in process; states are cloned on the way in
// and out so callers never share slices with it.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]truco.State
	events map[string][]EventItem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[string]truco.State),
		events: make(map[string][]EventItem),
	}
}

func (m *MemoryStore) Load(_ context.Context, gameID string) (truco.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.states[gameID]
	if !ok {
		return truco.State{}, ErrNotFound
	}
	return st.Clone(), nil
}

func (m *MemoryStore) Save(_ context.Context, st truco.State) error {
	if _, err := encodeState(st); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[st.GameID] = st.Clone()
	return nil
}

func (m *MemoryStore) AppendEvents(_ context.Context, gameID string, events []EventItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stream := m.events[gameID]
	have := make(map[uint64]bool, len(stream))
	for _, ev := range stream {
		have[ev.Seq] = true
	}
	for _, ev := range events {
		if have[ev.Seq] {
			continue
		}
		have[ev.Seq] = true
		stream = append(stream, ev)
	}
	sort.Slice(stream, func(i, j int) bool { return stream[i].Seq < stream[j].Seq })
	m.events[gameID] = stream
	return nil
}

func (m *MemoryStore) Events(_ context.Context, gameID string, afterSeq uint64) ([]EventItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []EventItem{}
	for _, ev := range m.events[gameID] {
		if ev.Seq > afterSeq {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }
