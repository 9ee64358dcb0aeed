package npc

import (
	"math"

	"truco-lite/card"
	"truco-lite/truco"
)

// RuleBrain answers calls and picks cards from a DecisionTable and a persona.
type RuleBrain struct {
	Persona *NPCPersona
	Table   DecisionTable
	rng     truco.Random
}

func NewRuleBrain(persona *NPCPersona, seed int64) *RuleBrain {
	return NewRuleBrainWithRandom(persona, truco.NewRandom(seed))
}

func NewRuleBrainWithRandom(persona *NPCPersona, rng truco.Random) *RuleBrain {
	if persona == nil {
		persona = &DefaultPersona
	}
	return &RuleBrain{Persona: persona, Table: DefaultDecisionTable, rng: rng}
}

func (b *RuleBrain) Name() string { return b.Persona.Name }

// Decide implements BrainDecider.
func (b *RuleBrain) Decide(view GameView) Decision {
	legal := view.LegalActions
	if len(legal) == 0 {
		return Decision{}
	}
	if view.Responding() {
		return b.DecideTrucoResponse(view)
	}
	if view.can(truco.CmdCallTruco) {
		call := false
		if view.CallState == truco.CallNone {
			call = b.ShouldCallTruco(view)
		} else {
			call = b.ShouldRaise(view)
		}
		if call {
			return Decision{Kind: truco.CmdCallTruco}
		}
	}
	if view.can(truco.CmdPlayCard) {
		return Decision{Kind: truco.CmdPlayCard, CardIndex: b.ChooseCard(view)}
	}
	return Decision{Kind: legal[0]}
}

// DecideTrucoResponse answers a pending call with accept, raise or surrender.
func (b *RuleBrain) DecideTrucoResponse(view GameView) Decision {
	strength := HandStrength(view)
	bluff := b.bluff(view)

	if view.can(truco.CmdCallTruco) && !b.raiseForbidden(view) &&
		(strength >= b.threshold(b.raiseBase(view), view) || bluff) {
		return Decision{Kind: truco.CmdCallTruco}
	}
	if strength >= b.threshold(b.Table.AcceptThreshold, view) || bluff || b.surrenderForbidden(view) {
		return Decision{Kind: truco.CmdAcceptTruco}
	}
	return Decision{Kind: truco.CmdSurrenderTruco}
}

// ShouldCallTruco decides whether to open the ladder on the NPC's own turn.
func (b *RuleBrain) ShouldCallTruco(view GameView) bool {
	if view.CallState != truco.CallNone || !view.can(truco.CmdCallTruco) || b.raiseForbidden(view) {
		return false
	}
	return HandStrength(view) >= b.threshold(b.Table.CallThreshold, view) || b.bluff(view)
}

// ShouldRaise decides whether to push an accepted call one step further.
func (b *RuleBrain) ShouldRaise(view GameView) bool {
	if view.CallState == truco.CallNone || !view.can(truco.CmdCallTruco) || b.raiseForbidden(view) {
		return false
	}
	return HandStrength(view) >= b.threshold(b.raiseBase(view), view) || b.bluff(view)
}

// ChooseCard returns the hand index to play.
func (b *RuleBrain) ChooseCard(view GameView) int {
	hand := card.CardList(view.Hand)
	if hand.Count() == 0 {
		return 0
	}
	bestSeat, best := truco.StrongestOnTable(view.Table, view.RoundLeader)
	if bestSeat == truco.InvalidSeat {
		// leading: stronger hands open with stronger cards
		order := sortedIndices(hand)
		pos := int(math.Round(HandStrength(view) * float64(len(order)-1)))
		return order[pos]
	}
	if truco.TeamOfSeat(bestSeat) == view.Team {
		return hand.Weakest()
	}
	winner := -1
	for i, c := range hand {
		if c.Strength() > best && (winner < 0 || c.Order() < hand[winner].Order()) {
			winner = i
		}
	}
	if winner >= 0 {
		return winner
	}
	return hand.Weakest()
}

// surrenderForbidden: the opponents would win the game on a surrender.
func (b *RuleBrain) surrenderForbidden(view GameView) bool {
	return view.OpponentScore+view.Stakes >= view.VictoryScore
}

// raiseForbidden: the own team could already close the game at the stakes in
// play, counting a pending call as accepted.
func (b *RuleBrain) raiseForbidden(view GameView) bool {
	stakes := view.Stakes
	if view.CallState > truco.CallNone {
		if s := truco.NextStake(view.CallState - 1); s > stakes {
			stakes = s
		}
	}
	return view.OwnScore+stakes >= view.VictoryScore
}

func (b *RuleBrain) raiseBase(view GameView) float64 {
	if view.Stakes >= b.Table.HighStakes {
		return b.Table.HighRaiseThreshold
	}
	return b.Table.RaiseThreshold
}

func (b *RuleBrain) threshold(base float64, view GameView) float64 {
	t := base * (1 + b.rng.Uniform(-b.Table.Jitter, b.Table.Jitter))
	if view.Behind() {
		t -= b.Table.BehindBonus
	}
	if view.WonFirstRound() {
		t -= b.Table.WonFirstBonus
	}
	t -= (b.Persona.Brain.Aggression - 0.5) * b.Table.AggressionSpan
	return clamp01(t)
}

// bluff is the single weighted coin flip that can turn a weak hand aggressive.
func (b *RuleBrain) bluff(view GameView) bool {
	p := b.Table.BluffBaseMin + clamp01(b.Persona.Brain.Bluffing)*(b.Table.BluffBaseMax-b.Table.BluffBaseMin)
	if view.Behind() {
		p += b.Table.BehindBluff
	}
	if view.WonFirstRound() {
		p += b.Table.WonFirstBluff
	}
	if p > b.Table.BluffCap {
		p = b.Table.BluffCap
	}
	if b.rng.Uniform(0, 1) < p {
		return true
	}
	return b.rng.Uniform(0, 1) < b.Table.RandomBluff
}

// HandStrength averages the normalized strength of the cards still held plus
// the seat's face-up card on the table this round.
func HandStrength(view GameView) float64 {
	var sum float64
	n := 0
	for _, c := range view.Hand {
		sum += c.NormalizedStrength()
		n++
	}
	if pc := view.Table[view.Seat]; pc.Filled() && !pc.Fold {
		sum += pc.Card.NormalizedStrength()
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func sortedIndices(hand card.CardList) []int {
	idx := make([]int, len(hand))
	for i := range idx {
		idx[i] = i
	}
	for i := 1; i < len(idx); i++ {
		for j := i; j > 0 && hand[idx[j]].Order() < hand[idx[j-1]].Order(); j-- {
			idx[j], idx[j-1] = idx[j-1], idx[j]
		}
	}
	return idx
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
