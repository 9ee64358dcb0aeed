package truco

// LegalActions lists the commands seat could submit right now.
func LegalActions(st *State, seat int) []CommandKind {
	if st.Status != StatusInProgress || seat < 0 || seat >= NumSeats || st.CurrentHand == 0 {
		return nil
	}
	team := TeamOfSeat(seat)
	var out []CommandKind

	if st.PendingTeam != TeamNone {
		if team != st.PendingTeam {
			return nil
		}
		out = append(out, CmdAcceptTruco, CmdSurrenderTruco)
		if canCall(st, team) {
			out = append(out, CmdCallTruco)
		}
		return out
	}
	if seat != st.ActiveSeat {
		return nil
	}
	if st.Players[seat].Hand.Count() > 0 {
		out = append(out, CmdPlayCard, CmdFoldRound)
	}
	if canCall(st, team) && (st.CanRaiseTeam == TeamNone || st.CanRaiseTeam == team) {
		out = append(out, CmdCallTruco)
	}
	out = append(out, CmdSurrenderHand)
	return out
}

func canCall(st *State, team Team) bool {
	return !st.CallsDisabled && LegalCallFor(team, st.LastCallerTeam, st.CallState)
}

// IsLegal reports whether kind is currently allowed for seat.
func IsLegal(st *State, seat int, kind CommandKind) bool {
	for _, k := range LegalActions(st, seat) {
		if k == kind {
			return true
		}
	}
	return false
}
