// Package store persists game states and their committed event streams.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"truco-lite/truco"
)

var ErrNotFound = errors.New("not found")

// EventItem is one encoded event of a game's stream.
type EventItem struct {
	Seq         uint64 `json:"seq"`
	EventType   string `json:"event_type"`
	EnvelopeB64 string `json:"envelope_b64"`
	ServerTsMs  int64  `json:"server_ts_ms"`
}

// Store is the storage collaborator of the engine. Save overwrites the
// game's state; AppendEvents ignores sequences already stored.
type Store interface {
	Load(ctx context.Context, gameID string) (truco.State, error)
	Save(ctx context.Context, st truco.State) error
	AppendEvents(ctx context.Context, gameID string, events []EventItem) error
	Events(ctx context.Context, gameID string, afterSeq uint64) ([]EventItem, error)
	Close() error
}

func encodeState(st truco.State) ([]byte, error) {
	if strings.TrimSpace(st.GameID) == "" {
		return nil, fmt.Errorf("save: empty game id")
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("marshal state %s: %w", st.GameID, err)
	}
	return raw, nil
}

func decodeState(gameID string, raw []byte) (truco.State, error) {
	var st truco.State
	if err := json.Unmarshal(raw, &st); err != nil {
		return truco.State{}, fmt.Errorf("unmarshal state %s: %w", gameID, err)
	}
	return st, nil
}
