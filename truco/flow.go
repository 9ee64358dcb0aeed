package truco

import "fmt"

// Handler reacts to one event on the working state and may emit follow-ups.
type Handler func(st *State, ev Event) ([]Event, error)

// Flow runs the post-command cascade: events are processed first in, first
// out, every registered handler for a kind runs in registration order and
// its follow-up events are queued behind the current ones.
type Flow struct {
	handlers map[EventKind][]Handler
	rng      Random
}

// maxCascade bounds a single cascade; a well-formed game needs a few dozen.
const maxCascade = 256

func NewFlow(rng Random) *Flow {
	f := &Flow{handlers: make(map[EventKind][]Handler), rng: rng}
	f.Register(EventCardPlayed, f.onCardPlayed)
	f.Register(EventTrucoOrRaiseCalled, f.onTrucoCalled)
	f.Register(EventTrucoAccepted, f.onTrucoAccepted)
	f.Register(EventHandCompleted, f.onHandCompleted)
	f.Register(EventHandStarted, f.onHandStarted)
	return f
}

func (f *Flow) Register(kind EventKind, h Handler) {
	f.handlers[kind] = append(f.handlers[kind], h)
}

// Run drains initial and every follow-up. The returned slice holds all
// events in processing order, initial ones included.
func (f *Flow) Run(st *State, initial []Event) ([]Event, error) {
	queue := append([]Event(nil), initial...)
	var out []Event
	for len(queue) > 0 {
		if len(out) >= maxCascade {
			return out, ErrInvalidState("event cascade did not settle")
		}
		ev := queue[0]
		queue = queue[1:]
		out = append(out, ev)
		for _, h := range f.handlers[ev.Kind()] {
			more, err := h(st, ev)
			if err != nil {
				return out, fmt.Errorf("handle %s: %w", ev.Kind(), err)
			}
			queue = append(queue, more...)
		}
	}
	return out, nil
}

// Begin deals the first hand of a freshly created state.
func (f *Flow) Begin(st *State) ([]Event, error) {
	if st.CurrentHand != 0 {
		return nil, ErrInvalidState("game already started")
	}
	ev, err := f.startHand(st)
	if err != nil {
		return nil, err
	}
	return f.Run(st, []Event{ev})
}

// Step applies cmd and runs the cascade, returning the committed candidate.
func (f *Flow) Step(st State, cmd Command) (State, []Event, error) {
	next, events, err := Apply(st, cmd)
	if err != nil {
		return st, nil, err
	}
	all, err := f.Run(&next, events)
	if err != nil {
		return st, nil, err
	}
	return next, all, nil
}

func (f *Flow) startHand(st *State) (Event, error) {
	if err := st.dealHand(f.rng); err != nil {
		return nil, err
	}
	mode, _ := IsLastHandActive(st.TeamScores, st.Rules.LastHandThreshold)
	return HandStarted{
		Hand:       st.CurrentHand,
		DealerSeat: st.DealerSeat,
		FirstSeat:  NextSeat(st.DealerSeat),
		LastHand:   mode,
	}, nil
}

func (f *Flow) onHandStarted(st *State, ev Event) ([]Event, error) {
	ApplyLastHandRule(st)
	first := NextSeat(st.DealerSeat)
	st.RoundLeaderSeat = first
	st.setActive(first)
	return []Event{TurnStarted{Seat: first, Hand: st.CurrentHand, Round: st.CurrentRound}}, nil
}

func (f *Flow) onCardPlayed(st *State, ev Event) ([]Event, error) {
	played := ev.(CardPlayed)
	if !st.tableFull() {
		nextSeat := NextSeat(played.Seat)
		st.setActive(nextSeat)
		return []Event{TurnStarted{Seat: nextSeat, Hand: st.CurrentHand, Round: st.CurrentRound}}, nil
	}

	winnerSeat, draw, err := ResolveRound(st.PlayedCards)
	if err != nil {
		return nil, err
	}
	winnerTeam := TeamNone
	if !draw {
		winnerTeam = TeamOfSeat(winnerSeat)
	}
	completed := RoundCompleted{
		Hand:       st.CurrentHand,
		Round:      st.CurrentRound,
		WinnerSeat: winnerSeat,
		WinnerTeam: winnerTeam,
		Draw:       draw,
		Cards:      st.PlayedCards,
	}
	st.RoundWinners = append(st.RoundWinners, winnerTeam)
	for _, pc := range st.PlayedCards {
		if !pc.Fold {
			st.Discarded.Add(pc.Card)
		}
	}
	st.clearTable()

	if team, done := ResolveHandWinner(st.RoundWinners); done {
		st.setActive(InvalidSeat)
		reason := HandEndRounds
		if team == TeamNone {
			reason = HandEndAllDrawn
		}
		points := st.Stakes
		if team == TeamNone {
			points = 0
		}
		return []Event{completed, HandCompleted{Hand: st.CurrentHand, Winner: team, Points: points, Reason: reason}}, nil
	}
	if st.CurrentRound >= MaxRounds {
		return nil, ErrInvalidState("three rounds played without a hand result")
	}

	// drawn round: the leader of that round leads again
	leader := st.RoundLeaderSeat
	if !draw {
		leader = winnerSeat
	}
	st.CurrentRound++
	st.RoundLeaderSeat = leader
	st.setActive(leader)
	return []Event{
		completed,
		RoundStarted{Hand: st.CurrentHand, Round: st.CurrentRound, LeaderSeat: leader},
		TurnStarted{Seat: leader, Hand: st.CurrentHand, Round: st.CurrentRound},
	}, nil
}

// responderFor is the first seat of the challenged team clockwise from the caller.
func responderFor(callerSeat int) int {
	return NextSeat(callerSeat)
}

func (f *Flow) onTrucoCalled(st *State, ev Event) ([]Event, error) {
	called := ev.(TrucoOrRaiseCalled)
	responder := responderFor(called.Seat)
	st.setActive(responder)
	return []Event{TurnStarted{Seat: responder, Hand: st.CurrentHand, Round: st.CurrentRound, Responding: true}}, nil
}

func (f *Flow) onTrucoAccepted(st *State, ev Event) ([]Event, error) {
	if st.ActiveSeat == InvalidSeat {
		return nil, ErrInvalidState("no seat to resume after accept")
	}
	return []Event{TurnStarted{Seat: st.ActiveSeat, Hand: st.CurrentHand, Round: st.CurrentRound}}, nil
}

func (f *Flow) onHandCompleted(st *State, ev Event) ([]Event, error) {
	done := ev.(HandCompleted)
	st.setActive(InvalidSeat)
	st.PendingTeam = TeamNone
	if done.Winner.Valid() {
		st.TeamScores[done.Winner] += done.Points
		if st.WinnerTakesGame && st.TeamScores[done.Winner] < st.Rules.VictoryScore {
			st.TeamScores[done.Winner] = st.Rules.VictoryScore
		}
	}
	for _, t := range []Team{TeamA, TeamB} {
		if st.TeamScores[t] >= st.Rules.VictoryScore {
			st.Status = StatusCompleted
			st.Winner = t
			return []Event{GameCompleted{Winner: t, Scores: st.TeamScores}}, nil
		}
	}

	// return the hand's leftovers before the next deal
	for i := range st.Players {
		st.Discarded.Add(st.Players[i].Hand...)
		st.Players[i].Hand = nil
	}
	for _, pc := range st.PlayedCards {
		if pc.Filled() && !pc.Fold {
			st.Discarded.Add(pc.Card)
		}
	}
	st.clearTable()

	next, err := f.startHand(st)
	if err != nil {
		return nil, err
	}
	return []Event{next}, nil
}
