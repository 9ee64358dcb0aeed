package replay

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truco-lite/codec"
)

// baseGameSpec plays one full hand that team A takes 2-1.
func baseGameSpec() GameSpec {
	spec := GameSpec{
		DealerSeat: 3,
		HeroSeat:   0,
		Names:      []string{"Hero", "Zé", "Cida", "Tião"},
		Hands: [][]string{
			{"4c", "5s", "6s"},
			{"3s", "3h", "5h"},
			{"2s", "Ks", "Qs"},
			{"Js", "Jh", "6h"},
		},
	}
	for _, seat := range []int{0, 1, 2, 3, 0, 1, 2, 3, 1, 2, 3, 0} {
		spec.Commands = append(spec.Commands, CommandSpec{Seat: seat, Type: "play_card"})
	}
	return spec
}

func replayErr(t *testing.T, err error) *ReplayError {
	t.Helper()
	require.Error(t, err)
	re, ok := err.(*ReplayError)
	require.True(t, ok, "expected *ReplayError, got %T", err)
	return re
}

func TestGenerateReplayTape_IsDeterministic(t *testing.T) {
	spec := baseGameSpec()

	tapeA, err := GenerateReplayTape(spec)
	require.NoError(t, err)
	tapeB, err := GenerateReplayTape(spec)
	require.NoError(t, err)

	if !reflect.DeepEqual(tapeA, tapeB) {
		t.Fatalf("expected deterministic replay tape for the same GameSpec")
	}
	require.NotEmpty(t, tapeA.Events)

	seen := map[string]int{}
	for i, e := range tapeA.Events {
		assert.Equal(t, uint64(i+1), e.Seq)
		seen[e.Type]++

		env, err := codec.DecodeB64(e.EnvelopeB64)
		require.NoError(t, err)
		assert.Equal(t, e.Type, codec.EnvelopeType(env))
		assert.Equal(t, e.Seq, codec.EnvelopeSeq(env))
	}
	assert.Equal(t, 2, seen["hand_started"])
	assert.Equal(t, 2, seen[codec.TypeSnapshot])
	assert.Equal(t, 12, seen["card_played"])
	assert.Equal(t, 3, seen["round_completed"])
	assert.Equal(t, 1, seen["hand_completed"])
	assert.Equal(t, 13, seen[codec.TypeActionPrompt])
}

func TestGenerateReplayTape_SnapshotHidesOtherHands(t *testing.T) {
	tape, err := GenerateReplayTape(baseGameSpec())
	require.NoError(t, err)

	var snap map[string]any
	for _, e := range tape.Events {
		if e.Type == codec.TypeSnapshot {
			snap = e.Value
			break
		}
	}
	require.NotNil(t, snap)
	players := snap["players"].([]any)
	hero := players[0].(map[string]any)
	assert.Equal(t, "Hero", hero["name"])
	assert.Equal(t, []any{"4c", "5s", "6s"}, hero["hand"])
	for _, p := range players[1:] {
		assert.Equal(t, []any{"back", "back", "back"}, p.(map[string]any)["hand"])
	}
}

func TestGenerateReplayTape_ReturnsReplayErrorOnOutOfTurnAction(t *testing.T) {
	spec := baseGameSpec()
	spec.Commands[0].Seat = 2

	_, err := GenerateReplayTape(spec)
	re := replayErr(t, err)
	assert.Equal(t, ReasonOutOfTurn, re.Reason)
	assert.Equal(t, int32(0), re.StepIndex)
	require.NotNil(t, re.Expected)
	assert.Equal(t, 0, re.Expected.ActiveSeat)
	assert.Contains(t, re.Expected.LegalActions, "play_card")
	assert.Equal(t, []string{"4c", "5s", "6s"}, re.Expected.HandCards)
}

func TestGenerateReplayTape_IllegalActions(t *testing.T) {
	t.Run("accept without call", func(t *testing.T) {
		spec := baseGameSpec()
		spec.Commands[0] = CommandSpec{Seat: 0, Type: "accept_truco"}
		re := replayErr(t, mustFail(spec))
		assert.Equal(t, ReasonIllegalAction, re.Reason)
	})
	t.Run("card not held", func(t *testing.T) {
		spec := baseGameSpec()
		spec.Commands[0] = CommandSpec{Seat: 0, Type: "play_card", Card: "3h"}
		re := replayErr(t, mustFail(spec))
		assert.Equal(t, ReasonIllegalAction, re.Reason)
	})
	t.Run("bad index", func(t *testing.T) {
		spec := baseGameSpec()
		spec.Commands[0].CardIndex = 7
		re := replayErr(t, mustFail(spec))
		assert.Equal(t, ReasonIllegalAction, re.Reason)
	})
}

func mustFail(spec GameSpec) error {
	_, err := GenerateReplayTape(spec)
	return err
}

func TestGenerateReplayTape_PlayByCardCode(t *testing.T) {
	spec := baseGameSpec()
	spec.Commands[0] = CommandSpec{Seat: 0, Type: "play_card", Card: "6s"}
	spec.Commands = spec.Commands[:1]

	tape, err := GenerateReplayTape(spec)
	require.NoError(t, err)
	var played map[string]any
	for _, e := range tape.Events {
		if e.Type == "card_played" {
			played = e.Value
		}
	}
	require.NotNil(t, played)
	assert.Equal(t, "6s", played["card"])
}

func TestGenerateReplayTape_NoActionAfterGameEnds(t *testing.T) {
	spec := baseGameSpec()
	spec.VictoryScore = 2
	spec.LastHandThreshold = 1
	spec.Commands = append(spec.Commands, CommandSpec{Seat: 1, Type: "play_card"})

	re := replayErr(t, mustFail(spec))
	assert.Equal(t, ReasonNoActionExpected, re.Reason)
	assert.Equal(t, int32(12), re.StepIndex)
}

func TestGenerateReplayTape_InvalidSpec(t *testing.T) {
	cases := map[string]func(*GameSpec){
		"dealer out of range": func(s *GameSpec) { s.DealerSeat = 4 },
		"hero out of range":   func(s *GameSpec) { s.HeroSeat = -1 },
		"bad card":            func(s *GameSpec) { s.Hands[1][0] = "9s" },
		"short hand":          func(s *GameSpec) { s.Hands[2] = s.Hands[2][:2] },
		"deck and hands":      func(s *GameSpec) { s.Deck = []string{"4c"} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			spec := baseGameSpec()
			mutate(&spec)
			re := replayErr(t, mustFail(spec))
			assert.Equal(t, ReasonInvalidSpec, re.Reason)
			assert.Equal(t, int32(-1), re.StepIndex)
		})
	}

	spec := baseGameSpec()
	spec.Commands[3].Type = "nine"
	re := replayErr(t, mustFail(spec))
	assert.Equal(t, ReasonUnknownCommand, re.Reason)
	assert.Equal(t, int32(3), re.StepIndex)
}

func TestToWireReplayTape(t *testing.T) {
	assert.Nil(t, ToWireReplayTape(nil))
	tape, err := GenerateReplayTape(baseGameSpec())
	require.NoError(t, err)
	wire := ToWireReplayTape(tape)
	require.Len(t, wire.Events, len(tape.Events))
	assert.Equal(t, tape.Events[0].EnvelopeB64, wire.Events[0].EnvelopeB64)
	assert.Equal(t, "replay_local", wire.GameID)
}
