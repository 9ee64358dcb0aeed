package npc

import (
	"truco-lite/card"
	"truco-lite/truco"
)

// GameView is the part of the game state one NPC seat is allowed to see.
type GameView struct {
	Seat         int
	Team         truco.Team
	Hand         []card.Card
	Table        [truco.NumSeats]truco.PlayedCard
	RoundLeader  int
	Round        int
	RoundWinners []truco.Team

	Stakes         int
	CallState      truco.CallState
	LastCallerTeam truco.Team
	PendingTeam    truco.Team

	OwnScore      int
	OpponentScore int
	VictoryScore  int

	LegalActions []truco.CommandKind
}

// NewGameView projects st for seat.
func NewGameView(st *truco.State, seat int) GameView {
	team := truco.TeamOfSeat(seat)
	view := GameView{
		Seat:           seat,
		Team:           team,
		Hand:           append([]card.Card(nil), st.Players[seat].Hand...),
		Table:          st.PlayedCards,
		RoundLeader:    st.RoundLeaderSeat,
		Round:          st.CurrentRound,
		RoundWinners:   append([]truco.Team(nil), st.RoundWinners...),
		Stakes:         st.Stakes,
		CallState:      st.CallState,
		LastCallerTeam: st.LastCallerTeam,
		PendingTeam:    st.PendingTeam,
		VictoryScore:   st.Rules.VictoryScore,
		LegalActions:   truco.LegalActions(st, seat),
	}
	if team.Valid() {
		view.OwnScore = st.TeamScores[team]
		view.OpponentScore = st.TeamScores[team.Opponent()]
	}
	return view
}

func (v GameView) can(kind truco.CommandKind) bool {
	for _, k := range v.LegalActions {
		if k == kind {
			return true
		}
	}
	return false
}

// Responding reports whether the seat owes an answer to a call.
func (v GameView) Responding() bool {
	return v.PendingTeam != truco.TeamNone && v.PendingTeam == v.Team
}

// Behind reports whether the seat's team trails on score.
func (v GameView) Behind() bool { return v.OwnScore < v.OpponentScore }

// WonFirstRound reports whether the seat's team took round 1 of this hand.
func (v GameView) WonFirstRound() bool {
	return len(v.RoundWinners) > 0 && v.RoundWinners[0] == v.Team
}

// Decision is what a BrainDecider returns.
type Decision struct {
	Kind      truco.CommandKind
	CardIndex int
}

// Command binds the decision to a seat.
func (d Decision) Command(seat int) truco.Command {
	return truco.Command{Kind: d.Kind, Seat: seat, CardIndex: d.CardIndex}
}

// BrainDecider is the core interface all NPC types implement.
type BrainDecider interface {
	// Decide is called when the NPC holds the turn or must answer a call.
	Decide(view GameView) Decision
	// Name returns a human-readable identifier for debugging.
	Name() string
}
