package truco

import (
	"fmt"

	"truco-lite/card"
)

// State is the full authoritative game record. Treat it as a value:
// Clone before mutating a copy that others may still read.
type State struct {
	GameID string `json:"game_id"`
	Rules  Rules  `json:"rules"`

	Players   [NumSeats]Player `json:"players"`
	Deck      card.CardList    `json:"deck"`
	Discarded card.CardList    `json:"discarded"`

	// DeckOverride is reused for every deal when set.
	DeckOverride card.CardList `json:"deck_override,omitempty"`

	CurrentHand     int                  `json:"current_hand"`
	CurrentRound    int                  `json:"current_round"`
	DealerSeat      int                  `json:"dealer_seat"`
	ActiveSeat      int                  `json:"active_seat"`
	RoundLeaderSeat int                  `json:"round_leader_seat"`
	PlayedCards     [NumSeats]PlayedCard `json:"played_cards"`
	RoundWinners    []Team               `json:"round_winners"`

	// Betting
	Stakes         int       `json:"stakes"`
	CallState      CallState `json:"call_state"`
	LastCallerTeam Team      `json:"last_caller_team"`
	CanRaiseTeam   Team      `json:"can_raise_team"`
	PendingTeam    Team      `json:"pending_team"` // team that owes an answer to a call
	ResumeSeat     int       `json:"resume_seat"`  // seat that resumes play once a call is accepted

	LastHand        LastHandMode `json:"last_hand"`
	CallsDisabled   bool         `json:"calls_disabled"`
	WinnerTakesGame bool         `json:"winner_takes_game"`

	TeamScores [2]int `json:"team_scores"`
	Status     Status `json:"status"`
	Winner     Team   `json:"winner"`
}

// NewState seats four players and fixes the first dealer. No cards are
// dealt; Flow.Begin starts the first hand.
func NewState(gameID string, cfg Config, rng Random) (State, error) {
	if err := cfg.validate(); err != nil {
		return State{}, err
	}
	st := State{
		GameID:          gameID,
		Rules:           Rules{VictoryScore: cfg.VictoryScore, LastHandThreshold: cfg.LastHandThreshold},
		ActiveSeat:      InvalidSeat,
		RoundLeaderSeat: InvalidSeat,
		ResumeSeat:      InvalidSeat,
		LastCallerTeam:  TeamNone,
		CanRaiseTeam:    TeamNone,
		PendingTeam:     TeamNone,
		Winner:          TeamNone,
		Stakes:          StakeBase,
	}
	if len(cfg.DeckOverride) > 0 {
		st.DeckOverride = card.CardList(cfg.DeckOverride).Clone()
	}
	for seat := 0; seat < NumSeats; seat++ {
		st.Players[seat] = Player{
			Seat: seat,
			Team: TeamOfSeat(seat),
			Name: fmt.Sprintf("seat-%d", seat),
			IsAI: !cfg.isHuman(seat),
		}
		st.PlayedCards[seat] = PlayedCard{Seat: seat}
	}
	if cfg.ForcedDealerSeat != nil {
		st.DealerSeat = *cfg.ForcedDealerSeat
	} else {
		st.DealerSeat = rng.Intn(NumSeats)
	}
	// first dealHand rotates once
	st.DealerSeat = (st.DealerSeat + NumSeats - 1) % NumSeats
	return st, nil
}

func (s State) Clone() State {
	out := s
	for i := range out.Players {
		out.Players[i].Hand = s.Players[i].Hand.Clone()
	}
	out.Deck = s.Deck.Clone()
	out.Discarded = s.Discarded.Clone()
	out.DeckOverride = s.DeckOverride.Clone()
	if s.RoundWinners != nil {
		out.RoundWinners = append([]Team(nil), s.RoundWinners...)
	}
	return out
}

func (s *State) Player(seat int) (*Player, error) {
	if seat < 0 || seat >= NumSeats {
		return nil, ErrUnknownSeat
	}
	return &s.Players[seat], nil
}

// setActive moves the turn marker; InvalidSeat clears it.
func (s *State) setActive(seat int) {
	s.ActiveSeat = seat
	for i := range s.Players {
		s.Players[i].IsActive = i == seat
	}
}

func (s *State) setDealer(seat int) {
	s.DealerSeat = seat
	for i := range s.Players {
		s.Players[i].IsDealer = i == seat
	}
}

func (s *State) clearTable() {
	for seat := range s.PlayedCards {
		s.PlayedCards[seat] = PlayedCard{Seat: seat}
	}
}

func (s *State) tableFull() bool {
	for _, pc := range s.PlayedCards {
		if !pc.Filled() {
			return false
		}
	}
	return true
}

// dealHand rotates the dealer, rebuilds and shuffles the deck, resets all
// hand-scoped fields and deals HandSize cards to each seat starting left
// of the dealer.
func (s *State) dealHand(rng Random) error {
	s.CurrentHand++
	s.CurrentRound = 1
	s.setDealer(NextSeat(s.DealerSeat))

	var deck card.CardList
	if len(s.DeckOverride) > 0 {
		deck.Init(s.DeckOverride)
	} else {
		deck.Init(card.TrucoCards)
		deck.Shuffle(rng.Shuffle)
	}
	s.Deck = deck
	s.Discarded = nil
	for i := range s.Players {
		s.Players[i].Hand = make(card.CardList, 0, HandSize)
	}
	s.clearTable()
	s.RoundWinners = nil

	s.Stakes = StakeBase
	s.CallState = CallNone
	s.LastCallerTeam = TeamNone
	s.CanRaiseTeam = TeamNone
	s.PendingTeam = TeamNone
	s.ResumeSeat = InvalidSeat
	s.LastHand = LastHandNone
	s.CallsDisabled = false
	s.WinnerTakesGame = false

	first := NextSeat(s.DealerSeat)
	for i := 0; i < HandSize; i++ {
		for n := 0; n < NumSeats; n++ {
			seat := (first + n) % NumSeats
			cs, ok := s.Deck.PopCards(1)
			if !ok {
				return ErrInvalidState("deck exhausted while dealing")
			}
			s.Players[seat].Hand.Add(cs...)
		}
	}
	s.RoundLeaderSeat = first
	s.setActive(InvalidSeat)
	return nil
}

// Validate checks the structural invariants of a committed state.
func (s *State) Validate() error {
	if s.Stakes != StakeBase && s.Stakes != StakeTruco && s.Stakes != StakeSeis && s.Stakes != StakeDoze {
		return ErrInvalidState(fmt.Sprintf("stakes %d not on ladder", s.Stakes))
	}
	if s.CallState > CallDoze {
		return ErrInvalidState(fmt.Sprintf("call state %d out of range", s.CallState))
	}
	if len(s.RoundWinners) > MaxRounds {
		return ErrInvalidState("more than three rounds recorded")
	}
	for t := range s.TeamScores {
		if s.TeamScores[t] < 0 {
			return ErrInvalidState("negative score")
		}
	}

	actives, dealers := 0, 0
	for i, p := range s.Players {
		if p.Seat != i || p.Team != TeamOfSeat(i) {
			return ErrInvalidState(fmt.Sprintf("seat %d mislabeled", i))
		}
		if p.IsActive {
			actives++
			if i != s.ActiveSeat {
				return ErrInvalidState(fmt.Sprintf("seat %d flagged active but active seat is %d", i, s.ActiveSeat))
			}
		}
		if p.IsDealer {
			dealers++
		}
		if p.Hand.Count() > HandSize {
			return ErrInvalidState(fmt.Sprintf("seat %d holds %d cards", i, p.Hand.Count()))
		}
	}
	if actives > 1 {
		return ErrInvalidState("more than one active seat")
	}
	if s.Status == StatusInProgress {
		if actives == 0 && s.PendingTeam == TeamNone {
			return ErrInvalidState("no active seat while in progress")
		}
	} else if actives != 0 {
		return ErrInvalidState("active seat after game completed")
	}
	if s.CurrentHand > 0 && dealers != 1 {
		return ErrInvalidState("exactly one dealer required")
	}
	if s.PendingTeam != TeamNone && s.CallsDisabled {
		return ErrInvalidState("call pending while calls disabled")
	}

	if s.CurrentHand == 0 {
		return nil
	}
	seen := make(map[card.Card]struct{}, card.DeckSize)
	count := 0
	mark := func(c card.Card) error {
		if !c.Valid() {
			return ErrInvalidState(fmt.Sprintf("unexpected card %v", c))
		}
		if _, dup := seen[c]; dup {
			return ErrInvalidState(fmt.Sprintf("duplicate card %v", c))
		}
		seen[c] = struct{}{}
		count++
		return nil
	}
	for _, p := range s.Players {
		for _, c := range p.Hand {
			if err := mark(c); err != nil {
				return err
			}
		}
	}
	for _, pc := range s.PlayedCards {
		if pc.Filled() && !pc.Fold {
			if err := mark(pc.Card); err != nil {
				return err
			}
		}
	}
	for _, c := range s.Deck {
		if err := mark(c); err != nil {
			return err
		}
	}
	for _, c := range s.Discarded {
		if err := mark(c); err != nil {
			return err
		}
	}
	if count != card.DeckSize {
		return ErrInvalidState(fmt.Sprintf("card count %d != %d", count, card.DeckSize))
	}
	return nil
}
