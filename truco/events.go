package truco

import "truco-lite/card"

type EventKind string

const (
	EventHandStarted        EventKind = "hand_started"
	EventTurnStarted        EventKind = "turn_started"
	EventCardPlayed         EventKind = "card_played"
	EventRoundCompleted     EventKind = "round_completed"
	EventRoundStarted       EventKind = "round_started"
	EventTrucoOrRaiseCalled EventKind = "truco_called"
	EventTrucoAccepted      EventKind = "truco_accepted"
	EventHandCompleted      EventKind = "hand_completed"
	EventGameCompleted      EventKind = "game_completed"
)

// Event is a state-change fact emitted by the machine or the flow.
type Event interface {
	Kind() EventKind
}

type HandStarted struct {
	Hand       int          `json:"hand"`
	DealerSeat int          `json:"dealer_seat"`
	FirstSeat  int          `json:"first_seat"`
	LastHand   LastHandMode `json:"last_hand"`
}

// TurnStarted marks seat as the one expected to act. Responding is set when
// the seat must answer a truco call rather than play a card.
type TurnStarted struct {
	Seat       int  `json:"seat"`
	Hand       int  `json:"hand"`
	Round      int  `json:"round"`
	Responding bool `json:"responding,omitempty"`
}

type CardPlayed struct {
	Seat  int       `json:"seat"`
	Card  card.Card `json:"card"`
	Fold  bool      `json:"fold,omitempty"`
	Hand  int       `json:"hand"`
	Round int       `json:"round"`
}

type RoundCompleted struct {
	Hand       int                  `json:"hand"`
	Round      int                  `json:"round"`
	WinnerSeat int                  `json:"winner_seat"`
	WinnerTeam Team                 `json:"winner_team"`
	Draw       bool                 `json:"draw"`
	Cards      [NumSeats]PlayedCard `json:"cards"`
}

type RoundStarted struct {
	Hand       int `json:"hand"`
	Round      int `json:"round"`
	LeaderSeat int `json:"leader_seat"`
}

type TrucoOrRaiseCalled struct {
	Seat           int       `json:"seat"`
	Team           Team      `json:"team"`
	CallState      CallState `json:"call_state"`
	Stakes         int       `json:"stakes"`
	ProposedStakes int       `json:"proposed_stakes"`
}

type TrucoAccepted struct {
	Seat      int       `json:"seat"`
	Team      Team      `json:"team"`
	CallState CallState `json:"call_state"`
	Stakes    int       `json:"stakes"`
}

type HandEndReason string

const (
	HandEndRounds       HandEndReason = "rounds"
	HandEndAllDrawn     HandEndReason = "all_drawn"
	HandEndTrucoRefused HandEndReason = "truco_refused"
	HandEndSurrendered  HandEndReason = "surrendered"
)

type HandCompleted struct {
	Hand   int           `json:"hand"`
	Winner Team          `json:"winner"`
	Points int           `json:"points"`
	Reason HandEndReason `json:"reason"`
}

type GameCompleted struct {
	Winner Team   `json:"winner"`
	Scores [2]int `json:"scores"`
}

func (HandStarted) Kind() EventKind        { return EventHandStarted }
func (TurnStarted) Kind() EventKind        { return EventTurnStarted }
func (CardPlayed) Kind() EventKind         { return EventCardPlayed }
func (RoundCompleted) Kind() EventKind     { return EventRoundCompleted }
func (RoundStarted) Kind() EventKind       { return EventRoundStarted }
func (TrucoOrRaiseCalled) Kind() EventKind { return EventTrucoOrRaiseCalled }
func (TrucoAccepted) Kind() EventKind      { return EventTrucoAccepted }
func (HandCompleted) Kind() EventKind      { return EventHandCompleted }
func (GameCompleted) Kind() EventKind      { return EventGameCompleted }
