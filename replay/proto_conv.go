package replay

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"truco-lite/card"
	"truco-lite/codec"
	"truco-lite/truco"
)

// Tapes carry fixed timestamps and name-based event IDs so the same spec
// always yields the same bytes.
var (
	replayEpoch     = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	replayNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("truco-lite/replay"))
)

type tapeBuilder struct {
	gameID   string
	heroSeat int
	seq      uint64
	events   []ReplayEvent
}

func newTapeBuilder(gameID string, heroSeat int) *tapeBuilder {
	return &tapeBuilder{gameID: gameID, heroSeat: heroSeat}
}

func (b *tapeBuilder) add(kind string, payload map[string]any) error {
	b.seq++
	eventID := uuid.NewSHA1(replayNamespace, []byte(fmt.Sprintf("%s/%d", b.gameID, b.seq))).String()
	env, err := codec.Wrap(eventID, b.gameID, b.seq, kind, payload, replayEpoch.Add(time.Duration(b.seq)*time.Millisecond))
	if err != nil {
		return err
	}
	b64, err := codec.EncodeB64(env)
	if err != nil {
		return err
	}
	b.events = append(b.events, ReplayEvent{
		Type:        kind,
		Seq:         b.seq,
		Value:       payload,
		EnvelopeB64: b64,
	})
	return nil
}

// addBatch records one committed batch, a hero snapshot after each deal and
// a prompt for the seat to act.
func (b *tapeBuilder) addBatch(st *truco.State, events []truco.Event) error {
	for _, ev := range events {
		payload, err := codec.EventPayload(ev)
		if err != nil {
			return err
		}
		if err := b.add(string(ev.Kind()), payload); err != nil {
			return err
		}
		if ev.Kind() == truco.EventHandStarted {
			snap := st.Snapshot().Redacted(b.heroSeat)
			if err := b.add(codec.TypeSnapshot, codec.SnapshotPayload(snap)); err != nil {
				return err
			}
		}
	}
	if st.Status == truco.StatusInProgress && st.ActiveSeat != truco.InvalidSeat {
		actions := truco.LegalActions(st, st.ActiveSeat)
		return b.add(codec.TypeActionPrompt, codec.PromptPayload(st.ActiveSeat, st.PendingTeam != truco.TeamNone, actions))
	}
	return nil
}

func expectedState(st *truco.State) *ExpectedState {
	out := &ExpectedState{
		ActiveSeat: st.ActiveSeat,
		Responding: st.PendingTeam != truco.TeamNone,
		Hand:       st.CurrentHand,
		Round:      st.CurrentRound,
	}
	if st.ActiveSeat == truco.InvalidSeat {
		return out
	}
	for _, k := range truco.LegalActions(st, st.ActiveSeat) {
		out.LegalActions = append(out.LegalActions, string(k))
	}
	out.HandCards = card.Codes(st.Players[st.ActiveSeat].Hand)
	return out
}
