package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truco-lite/card"
	"truco-lite/truco"
)

func TestEventEnvelopeRoundTrip(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	ev := truco.CardPlayed{Seat: 2, Card: card.CardClub4, Hand: 1, Round: 3}

	env, err := WrapEvent("g1", 7, ev, now)
	require.NoError(t, err)
	b64, err := EncodeB64(env)
	require.NoError(t, err)

	back, err := DecodeB64(b64)
	require.NoError(t, err)
	assert.Equal(t, "card_played", EnvelopeType(back))
	assert.Equal(t, uint64(7), EnvelopeSeq(back))
	assert.NotEmpty(t, back.GetFields()[FieldEventID].GetStringValue())

	payload := Payload(back)
	assert.Equal(t, "4c", payload["card"])
	assert.Equal(t, float64(2), payload["seat"])
	assert.Equal(t, false, payload["fold"])
}

func TestEveryEventKindEncodes(t *testing.T) {
	events := []truco.Event{
		truco.HandStarted{Hand: 1},
		truco.TurnStarted{Seat: 1, Responding: true},
		truco.CardPlayed{Seat: 0, Card: card.CardRear, Fold: true},
		truco.RoundCompleted{WinnerSeat: truco.InvalidSeat, WinnerTeam: truco.TeamNone, Draw: true},
		truco.RoundStarted{Round: 2},
		truco.TrucoOrRaiseCalled{Team: truco.TeamA, CallState: truco.CallTruco, ProposedStakes: 4},
		truco.TrucoAccepted{Team: truco.TeamB, Stakes: 4},
		truco.HandCompleted{Winner: truco.TeamA, Points: 2, Reason: truco.HandEndRounds},
		truco.GameCompleted{Winner: truco.TeamB, Scores: [2]int{6, 12}},
	}
	for _, ev := range events {
		env, err := WrapEvent("g", 1, ev, time.Now())
		require.NoError(t, err, "%T", ev)
		_, err = JSON(env)
		require.NoError(t, err)
	}

	env, _ := WrapEvent("g", 1, events[2], time.Now())
	assert.Equal(t, "back", Payload(env)["card"])
}

func TestSnapshotEnvelope(t *testing.T) {
	rng := truco.NewRandom(1)
	st, err := truco.NewState("g", truco.DefaultConfig(), rng)
	require.NoError(t, err)
	_, err = truco.NewFlow(rng).Begin(&st)
	require.NoError(t, err)

	env, err := WrapSnapshot("g", 3, st.Snapshot().Redacted(0), time.Now())
	require.NoError(t, err)
	players := Payload(env)["players"].([]any)
	require.Len(t, players, truco.NumSeats)
	other := players[1].(map[string]any)["hand"].([]any)
	for _, c := range other {
		assert.Equal(t, "back", c)
	}
}

func TestEncodeB64IsStableForEqualEnvelopes(t *testing.T) {
	rng := truco.NewRandom(3)
	st, err := truco.NewState("g", truco.DefaultConfig(), rng)
	require.NoError(t, err)
	_, err = truco.NewFlow(rng).Begin(&st)
	require.NoError(t, err)
	payload := SnapshotPayload(st.Snapshot())
	now := time.UnixMilli(1_700_000_000_000)

	first, err := Wrap("evt-1", "g", 4, TypeSnapshot, payload, now)
	require.NoError(t, err)
	want, err := EncodeB64(first)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		env, err := Wrap("evt-1", "g", 4, TypeSnapshot, payload, now)
		require.NoError(t, err)
		got, err := EncodeB64(env)
		require.NoError(t, err)
		require.Equal(t, want, got, "encoding %d differs", i)
	}
}
