package truco

import "truco-lite/card"

// Apply validates cmd against st and returns the successor state plus the
// events the command produced. st is never modified. A rejected command
// returns a *RuleViolation and the input state.
func Apply(st State, cmd Command) (State, []Event, error) {
	if st.Status == StatusCompleted {
		return st, nil, reject(ReasonGameCompleted)
	}
	if cmd.Seat < 0 || cmd.Seat >= NumSeats {
		return st, nil, ErrUnknownSeat
	}
	if st.CurrentHand == 0 {
		return st, nil, ErrInvalidState("no hand dealt")
	}

	next := st.Clone()
	var (
		events []Event
		err    error
	)
	switch cmd.Kind {
	case CmdPlayCard:
		events, err = next.playCard(cmd.Seat, cmd.CardIndex, false)
	case CmdFoldRound:
		events, err = next.playCard(cmd.Seat, cmd.CardIndex, true)
	case CmdCallTruco:
		events, err = next.callTruco(cmd.Seat)
	case CmdAcceptTruco:
		events, err = next.acceptTruco(cmd.Seat)
	case CmdSurrenderTruco:
		events, err = next.surrenderTruco(cmd.Seat)
	case CmdSurrenderHand:
		events, err = next.surrenderHand(cmd.Seat)
	default:
		return st, nil, reject("unknown command " + string(cmd.Kind))
	}
	if err != nil {
		return st, nil, err
	}
	return next, events, nil
}

func (s *State) playCard(seat, idx int, fold bool) ([]Event, error) {
	if s.PendingTeam != TeamNone {
		return nil, reject(ReasonCallPending)
	}
	if seat != s.ActiveSeat {
		return nil, reject(ReasonNotYourTurn)
	}
	if s.PlayedCards[seat].Filled() {
		return nil, reject(ReasonAlreadyPlayed)
	}
	p := &s.Players[seat]
	c, ok := p.Hand.RemoveAt(idx)
	if !ok {
		return nil, reject(ReasonBadCardIndex)
	}
	slot := PlayedCard{Seat: seat, Card: c}
	if fold {
		s.Discarded.Add(c)
		slot.Card, slot.Fold = card.CardRear, true
	}
	s.PlayedCards[seat] = slot
	return []Event{CardPlayed{
		Seat:  seat,
		Card:  slot.Card,
		Fold:  fold,
		Hand:  s.CurrentHand,
		Round: s.CurrentRound,
	}}, nil
}

func (s *State) callTruco(seat int) ([]Event, error) {
	team := TeamOfSeat(seat)
	if s.CallsDisabled {
		if s.LastHand == LastHandBoth {
			return nil, reject(ReasonBothLastHandNoCall)
		}
		return nil, reject(ReasonLastHandNoCalls)
	}
	raising := s.PendingTeam != TeamNone
	if raising {
		if team != s.PendingTeam {
			return nil, reject(ReasonNotRespondingTeam)
		}
	} else if seat != s.ActiveSeat {
		return nil, reject(ReasonNotYourTurn)
	}
	if s.CallState >= CallDoze {
		return nil, reject(ReasonStakesAtMaximum)
	}
	if !LegalCallFor(team, s.LastCallerTeam, s.CallState) {
		return nil, reject(ReasonTeamAlreadyCalled)
	}
	if !raising && s.CanRaiseTeam != TeamNone && s.CanRaiseTeam != team {
		return nil, reject(ReasonTeamAlreadyCalled)
	}

	if raising {
		// raising implies accepting the standing call
		s.Stakes = NextStake(s.CallState - 1)
	} else {
		s.ResumeSeat = s.ActiveSeat
	}
	s.CallState, _ = s.CallState.Next()
	s.LastCallerTeam = team
	s.CanRaiseTeam = TeamNone
	s.PendingTeam = team.Opponent()
	s.setActive(InvalidSeat)

	return []Event{TrucoOrRaiseCalled{
		Seat:           seat,
		Team:           team,
		CallState:      s.CallState,
		Stakes:         s.Stakes,
		ProposedStakes: NextStake(s.CallState - 1),
	}}, nil
}

func (s *State) acceptTruco(seat int) ([]Event, error) {
	team := TeamOfSeat(seat)
	if s.PendingTeam == TeamNone {
		return nil, reject(ReasonNoCallPending)
	}
	if team != s.PendingTeam {
		return nil, reject(ReasonNotRespondingTeam)
	}
	s.Stakes = NextStake(s.CallState - 1)
	s.CanRaiseTeam = team
	s.PendingTeam = TeamNone
	s.setActive(s.ResumeSeat)
	s.ResumeSeat = InvalidSeat
	return []Event{TrucoAccepted{
		Seat:      seat,
		Team:      team,
		CallState: s.CallState,
		Stakes:    s.Stakes,
	}}, nil
}

func (s *State) surrenderTruco(seat int) ([]Event, error) {
	team := TeamOfSeat(seat)
	if s.PendingTeam == TeamNone {
		return nil, reject(ReasonNoCallPending)
	}
	if team != s.PendingTeam {
		return nil, reject(ReasonNotRespondingTeam)
	}
	s.PendingTeam = TeamNone
	s.ResumeSeat = InvalidSeat
	s.setActive(InvalidSeat)
	return []Event{HandCompleted{
		Hand:   s.CurrentHand,
		Winner: s.LastCallerTeam,
		Points: s.Stakes,
		Reason: HandEndTrucoRefused,
	}}, nil
}

func (s *State) surrenderHand(seat int) ([]Event, error) {
	if s.PendingTeam != TeamNone {
		return nil, reject(ReasonCallPending)
	}
	if seat != s.ActiveSeat {
		return nil, reject(ReasonNotYourTurn)
	}
	s.setActive(InvalidSeat)
	return []Event{HandCompleted{
		Hand:   s.CurrentHand,
		Winner: TeamOfSeat(seat).Opponent(),
		Points: s.Stakes,
		Reason: HandEndSurrendered,
	}}, nil
}
