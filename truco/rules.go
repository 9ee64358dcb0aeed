package truco

// NextStake maps a call state to the points the hand is worth once the
// next call is accepted.
func NextStake(cs CallState) int {
	switch cs {
	case CallNone:
		return StakeTruco
	case CallTruco:
		return StakeSeis
	default:
		return StakeDoze
	}
}

// LegalCallFor reports whether team may call or raise: it must not have
// made the last call and the ladder must not be exhausted.
func LegalCallFor(team, lastCaller Team, cs CallState) bool {
	if !team.Valid() || team == lastCaller {
		return false
	}
	return cs < CallDoze
}

// IsLastHandActive classifies scores against the threshold. The team is
// only meaningful for LastHandOneTeam.
func IsLastHandActive(scores [2]int, threshold int) (LastHandMode, Team) {
	a, b := scores[TeamA] >= threshold, scores[TeamB] >= threshold
	switch {
	case a && b:
		return LastHandBoth, TeamNone
	case a:
		return LastHandOneTeam, TeamA
	case b:
		return LastHandOneTeam, TeamB
	}
	return LastHandNone, TeamNone
}

// ApplyLastHandRule adjusts the freshly dealt hand for the threshold rule.
func ApplyLastHandRule(st *State) {
	mode, team := IsLastHandActive(st.TeamScores, st.Rules.LastHandThreshold)
	st.LastHand = mode
	switch mode {
	case LastHandOneTeam:
		st.CallState = CallTruco
		st.Stakes = StakeTruco
		st.LastCallerTeam = team
		st.CanRaiseTeam = TeamNone
		st.CallsDisabled = true
	case LastHandBoth:
		st.Stakes = StakeBase
		st.CallsDisabled = true
		st.WinnerTakesGame = true
	}
}

// ResolveRound finds the seat holding the single strongest card. Any tie at
// the top, partners included, is a draw.
func ResolveRound(played [NumSeats]PlayedCard) (winnerSeat int, draw bool, err error) {
	best, bestSeat, ties := -1, InvalidSeat, 0
	for seat, pc := range played {
		if !pc.Filled() {
			return InvalidSeat, false, ErrInvalidState("round resolved with an empty slot")
		}
		s := pc.Strength()
		switch {
		case s > best:
			best, bestSeat, ties = s, seat, 1
		case s == best:
			ties++
		}
	}
	if ties > 1 {
		return InvalidSeat, true, nil
	}
	return bestSeat, false, nil
}

// ResolveDrawPolicy decides a hand whose latest round (roundNumber, 1-based)
// was drawn. A drawn first round defers to the next decisive round; later
// draws go to the first-round winner; three draws end the hand with no winner.
func ResolveDrawPolicy(roundNumber int, roundWinners []Team) (Team, bool) {
	if roundNumber <= 1 || len(roundWinners) == 0 {
		return TeamNone, false
	}
	if first := roundWinners[0]; first != TeamNone {
		return first, true
	}
	if roundNumber >= MaxRounds {
		return TeamNone, true
	}
	return TeamNone, false
}

// ResolveHandWinner reports whether the hand is decided after the rounds
// played so far. TeamNone with done=true means nobody scores.
func ResolveHandWinner(roundWinners []Team) (Team, bool) {
	n := len(roundWinners)
	if n == 0 {
		return TeamNone, false
	}
	var wins [2]int
	for _, t := range roundWinners {
		if t.Valid() {
			wins[t]++
		}
	}
	for _, t := range []Team{TeamA, TeamB} {
		if wins[t] >= 2 {
			return t, true
		}
	}
	last := roundWinners[n-1]
	if last == TeamNone {
		return ResolveDrawPolicy(n, roundWinners)
	}
	if n >= 2 && roundWinners[0] == TeamNone {
		return last, true
	}
	if n >= MaxRounds {
		if roundWinners[0] != TeamNone {
			return roundWinners[0], true
		}
		return last, true
	}
	return TeamNone, false
}

// StrongestOnTable returns the seat holding the strongest filled slot and
// its strength. Ties keep the seat that played first from leader.
func StrongestOnTable(played [NumSeats]PlayedCard, leader int) (seat int, strength int) {
	if leader < 0 || leader >= NumSeats {
		leader = 0
	}
	seat, strength = InvalidSeat, -1
	for i := 0; i < NumSeats; i++ {
		s := (leader + i) % NumSeats
		pc := played[s]
		if !pc.Filled() {
			continue
		}
		if v := pc.Strength(); v > strength {
			seat, strength = s, v
		}
	}
	return seat, strength
}

// PlayedThisRound counts filled slots.
func PlayedThisRound(st *State) int {
	n := 0
	for _, pc := range st.PlayedCards {
		if pc.Filled() {
			n++
		}
	}
	return n
}

