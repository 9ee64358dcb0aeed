package truco

import "truco-lite/card"

type PlayerSnapshot struct {
	Seat      int         `json:"seat"`
	Team      Team        `json:"team"`
	Name      string      `json:"name,omitempty"`
	IsAI      bool        `json:"is_ai"`
	IsActive  bool        `json:"is_active"`
	IsDealer  bool        `json:"is_dealer"`
	HandCount int         `json:"hand_count"`
	HandCards []card.Card `json:"hand_cards"`
}

// Snapshot is a read-only projection safe to hand to callers.
type Snapshot struct {
	GameID string `json:"game_id"`
	Status Status `json:"status"`
	Winner Team   `json:"winner"`

	Hand            int          `json:"hand"`
	Round           int          `json:"round"`
	DealerSeat      int          `json:"dealer_seat"`
	ActiveSeat      int          `json:"active_seat"`
	RoundLeaderSeat int          `json:"round_leader_seat"`
	PlayedCards     []PlayedCard `json:"played_cards"`
	RoundWinners    []Team       `json:"round_winners"`

	Stakes         int          `json:"stakes"`
	CallState      CallState    `json:"call_state"`
	LastCallerTeam Team         `json:"last_caller_team"`
	CanRaiseTeam   Team         `json:"can_raise_team"`
	PendingTeam    Team         `json:"pending_team"`
	LastHand       LastHandMode `json:"last_hand"`
	CallsDisabled  bool         `json:"calls_disabled"`

	TeamScores [2]int           `json:"team_scores"`
	DeckCount  int              `json:"deck_count"`
	Players    []PlayerSnapshot `json:"players"`
}

func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		GameID:          s.GameID,
		Status:          s.Status,
		Winner:          s.Winner,
		Hand:            s.CurrentHand,
		Round:           s.CurrentRound,
		DealerSeat:      s.DealerSeat,
		ActiveSeat:      s.ActiveSeat,
		RoundLeaderSeat: s.RoundLeaderSeat,
		PlayedCards:     append([]PlayedCard{}, s.PlayedCards[:]...),
		RoundWinners:    append([]Team{}, s.RoundWinners...),
		Stakes:          s.Stakes,
		CallState:       s.CallState,
		LastCallerTeam:  s.LastCallerTeam,
		CanRaiseTeam:    s.CanRaiseTeam,
		PendingTeam:     s.PendingTeam,
		LastHand:        s.LastHand,
		CallsDisabled:   s.CallsDisabled,
		TeamScores:      s.TeamScores,
		DeckCount:       s.Deck.Count(),
	}
	for _, p := range s.Players {
		snap.Players = append(snap.Players, PlayerSnapshot{
			Seat:      p.Seat,
			Team:      p.Team,
			Name:      p.Name,
			IsAI:      p.IsAI,
			IsActive:  p.IsActive,
			IsDealer:  p.IsDealer,
			HandCount: p.Hand.Count(),
			HandCards: append([]card.Card{}, p.Hand...),
		})
	}
	return snap
}

// Redacted hides every hand except viewerSeat's behind card backs.
func (sn Snapshot) Redacted(viewerSeat int) Snapshot {
	out := sn
	out.Players = make([]PlayerSnapshot, len(sn.Players))
	for i, p := range sn.Players {
		if p.Seat != viewerSeat {
			hidden := make([]card.Card, len(p.HandCards))
			for j := range hidden {
				hidden[j] = card.CardRear
			}
			p.HandCards = hidden
		}
		out.Players[i] = p
	}
	return out
}
