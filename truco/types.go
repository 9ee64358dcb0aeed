package truco

import "truco-lite/card"

const (
	NumSeats    = 4
	HandSize    = 3
	MaxRounds   = 3
	InvalidSeat = -1
)

// Team 队伍: seats 0 and 2 play for TeamA, seats 1 and 3 for TeamB.
type Team int8

const (
	TeamNone Team = -1
	TeamA    Team = 0
	TeamB    Team = 1
)

func TeamOfSeat(seat int) Team {
	if seat < 0 || seat >= NumSeats {
		return TeamNone
	}
	return Team(seat % 2)
}

func (t Team) Opponent() Team {
	switch t {
	case TeamA:
		return TeamB
	case TeamB:
		return TeamA
	}
	return TeamNone
}

func (t Team) Valid() bool { return t == TeamA || t == TeamB }

func (t Team) String() string {
	switch t {
	case TeamA:
		return "A"
	case TeamB:
		return "B"
	}
	return "none"
}

// NextSeat returns the seat to the left of seat.
func NextSeat(seat int) int { return (seat + 1) % NumSeats }

// CallState 叫分阶段: None -> Truco -> Seis -> Doze.
type CallState byte

const (
	CallNone  CallState = 0
	CallTruco CallState = 1
	CallSeis  CallState = 2
	CallDoze  CallState = 3
)

var CallStateDictionary = map[CallState]string{
	CallNone:  "NONE",
	CallTruco: "TRUCO",
	CallSeis:  "SEIS",
	CallDoze:  "DOZE",
}

func (c CallState) String() string {
	if name, ok := CallStateDictionary[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// Next returns the following ladder step; Doze has none.
func (c CallState) Next() (CallState, bool) {
	if c >= CallDoze {
		return CallDoze, false
	}
	return c + 1, true
}

type Status byte

const (
	StatusInProgress Status = 0
	StatusCompleted  Status = 1
)

func (s Status) String() string {
	if s == StatusCompleted {
		return "completed"
	}
	return "in_progress"
}

// LastHandMode describes the score-threshold special hand.
type LastHandMode byte

const (
	LastHandNone    LastHandMode = 0
	LastHandOneTeam LastHandMode = 1 // mão de 10
	LastHandBoth    LastHandMode = 2 // both teams at threshold: winner takes the game
)

func (m LastHandMode) String() string {
	switch m {
	case LastHandOneTeam:
		return "one_team"
	case LastHandBoth:
		return "both"
	}
	return "none"
}

// Player is owned by State; Seat never changes once assigned.
type Player struct {
	Seat     int           `json:"seat"`
	Team     Team          `json:"team"`
	Name     string        `json:"name,omitempty"`
	Hand     card.CardList `json:"hand"`
	IsAI     bool          `json:"is_ai"`
	IsActive bool          `json:"is_active"`
	IsDealer bool          `json:"is_dealer"`
}

// PlayedCard is one table slot. card.CardEmpty means nothing played yet;
// card.CardRear with Fold set means the seat covered a card.
type PlayedCard struct {
	Seat int       `json:"seat"`
	Card card.Card `json:"card"`
	Fold bool      `json:"fold,omitempty"`
}

func (p PlayedCard) Filled() bool { return p.Card != card.CardEmpty }

// Strength is zero for empty or folded slots.
func (p PlayedCard) Strength() int {
	if p.Fold {
		return card.StrengthNone
	}
	return p.Card.Strength()
}

// stake ladder
const (
	StakeBase  = 2
	StakeTruco = 4
	StakeSeis  = 8
	StakeDoze  = 12
)
