package npc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"truco-lite/card"
	"truco-lite/truco"
)

func cards(codes ...string) []card.Card {
	out := make([]card.Card, 0, len(codes))
	for _, c := range codes {
		out = append(out, card.MustParse(c))
	}
	return out
}

func onTable(plays map[int]string) [truco.NumSeats]truco.PlayedCard {
	var tbl [truco.NumSeats]truco.PlayedCard
	for seat := range tbl {
		tbl[seat].Seat = seat
	}
	for seat, code := range plays {
		tbl[seat].Card = card.MustParse(code)
	}
	return tbl
}

func respondingView(hand []card.Card, own, opp int) GameView {
	return GameView{
		Seat:           1,
		Team:           truco.TeamB,
		Hand:           hand,
		Table:          onTable(nil),
		Round:          1,
		Stakes:         truco.StakeBase,
		CallState:      truco.CallTruco,
		LastCallerTeam: truco.TeamA,
		PendingTeam:    truco.TeamB,
		OwnScore:       own,
		OpponentScore:  opp,
		VictoryScore:   12,
		LegalActions:   []truco.CommandKind{truco.CmdAcceptTruco, truco.CmdSurrenderTruco, truco.CmdCallTruco},
	}
}

func TestNeverSurrenderWhenOpponentsWouldWin(t *testing.T) {
	brain := NewRuleBrain(&DefaultPersona, 42)
	view := respondingView(cards("4s", "5h", "6d"), 0, 10)

	for i := 0; i < 1000; i++ {
		d := brain.DecideTrucoResponse(view)
		if d.Kind == truco.CmdSurrenderTruco {
			t.Fatalf("trial %d: surrendered with opponents on %d", i, view.OpponentScore)
		}
	}
}

func TestNeverRaiseWhenOwnTeamCanCloseTheGame(t *testing.T) {
	brain := NewRuleBrain(&NPCPersona{ID: "wild", Name: "wild", Brain: PersonalityProfile{Aggression: 1, Bluffing: 1}}, 7)
	strong := cards("4c", "7h", "As")

	responding := respondingView(strong, 10, 0)
	opening := GameView{
		Seat:           0,
		Team:           truco.TeamA,
		Hand:           strong,
		Table:          onTable(nil),
		Round:          1,
		Stakes:         truco.StakeBase,
		CallState:      truco.CallNone,
		LastCallerTeam: truco.TeamNone,
		PendingTeam:    truco.TeamNone,
		OwnScore:       10,
		VictoryScore:   12,
		LegalActions:   []truco.CommandKind{truco.CmdPlayCard, truco.CmdFoldRound, truco.CmdCallTruco, truco.CmdSurrenderHand},
	}
	raising := opening
	raising.CallState = truco.CallTruco
	raising.Stakes = truco.StakeTruco
	raising.LastCallerTeam = truco.TeamB
	raising.OwnScore = 8

	for i := 0; i < 1000; i++ {
		if brain.ShouldCallTruco(opening) {
			t.Fatalf("trial %d: called truco on 10 points", i)
		}
		if brain.ShouldRaise(raising) {
			t.Fatalf("trial %d: raised with 8 + 4 points", i)
		}
		if brain.ShouldRaise(responding) {
			t.Fatalf("trial %d: raised while answering on 10 points", i)
		}
		if d := brain.DecideTrucoResponse(responding); d.Kind == truco.CmdCallTruco {
			t.Fatalf("trial %d: answered with a raise on 10 points", i)
		}
	}
}

func TestBothRulesBindingForcesAccept(t *testing.T) {
	brain := NewRuleBrain(&DefaultPersona, 3)
	view := respondingView(cards("4s", "5h", "6d"), 10, 10)
	for i := 0; i < 1000; i++ {
		assert.Equal(t, truco.CmdAcceptTruco, brain.DecideTrucoResponse(view).Kind)
	}
}

func TestStrongHandAlwaysAccepts(t *testing.T) {
	brain := NewRuleBrain(&DefaultPersona, 5)
	view := respondingView(cards("4c", "7h", "3s"), 0, 0)
	view.LegalActions = []truco.CommandKind{truco.CmdAcceptTruco, truco.CmdSurrenderTruco}
	for i := 0; i < 200; i++ {
		assert.Equal(t, truco.CmdAcceptTruco, brain.DecideTrucoResponse(view).Kind)
	}
}

func TestWeakHandSurrendersSometimes(t *testing.T) {
	brain := NewRuleBrain(&NPCPersona{ID: "calm", Name: "calm"}, 11)
	view := respondingView(cards("4s", "5h", "4d"), 0, 0)
	view.LegalActions = []truco.CommandKind{truco.CmdAcceptTruco, truco.CmdSurrenderTruco}

	surrenders := 0
	for i := 0; i < 1000; i++ {
		if brain.DecideTrucoResponse(view).Kind == truco.CmdSurrenderTruco {
			surrenders++
		}
	}
	// bluffs keep a share of weak-hand accepts
	assert.Greater(t, surrenders, 400)
	assert.Less(t, surrenders, 950)
}

func TestChooseCard(t *testing.T) {
	brain := NewRuleBrain(&DefaultPersona, 1)

	cases := []struct {
		name  string
		seat  int
		plays map[int]string
		hand  []card.Card
		want  int
	}{
		{"partner holds the table", 2, map[int]string{0: "3s", 1: "5s"}, cards("4c", "Kh", "6d"), 2},
		{"smallest winning card", 1, map[int]string{0: "Ks"}, cards("3h", "As", "Ah"), 2},
		{"cannot beat the table", 1, map[int]string{0: "4c"}, cards("3h", "2s", "5d"), 2},
		{"strong lead", 0, nil, cards("7h", "4c", "As"), 1},
		{"weak lead", 0, nil, cards("6s", "4s", "5s"), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			view := GameView{
				Seat:        tc.seat,
				Team:        truco.TeamOfSeat(tc.seat),
				Hand:        tc.hand,
				Table:       onTable(tc.plays),
				RoundLeader: 0,
			}
			assert.Equal(t, tc.want, brain.ChooseCard(view))
		})
	}
}

func TestHandStrength(t *testing.T) {
	view := GameView{Hand: cards("4c", "4c", "4c")}
	assert.InDelta(t, 1.0, HandStrength(view), 1e-9)
	assert.Equal(t, 0.0, HandStrength(GameView{}))
}
