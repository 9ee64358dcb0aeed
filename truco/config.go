package truco

import (
	"fmt"

	"truco-lite/card"
)

type Config struct {
	// Scoring
	VictoryScore      int
	LastHandThreshold int

	// Seats controlled by a human; every other seat is an NPC.
	HumanSeats []int

	// RNG seed (0 => time-based)
	Seed int64

	// Optional deterministic setup.
	ForcedDealerSeat *int
	DeckOverride     []card.Card
}

// DefaultConfig is one human at seat 0 against three NPCs.
func DefaultConfig() Config {
	return Config{
		VictoryScore:      12,
		LastHandThreshold: 10,
		HumanSeats:        []int{0},
	}
}

func (c Config) validate() error {
	if c.VictoryScore <= 0 {
		return fmt.Errorf("VictoryScore must be > 0")
	}
	if c.LastHandThreshold <= 0 || c.LastHandThreshold >= c.VictoryScore {
		return fmt.Errorf("LastHandThreshold must be in (0, VictoryScore): got %d", c.LastHandThreshold)
	}
	seen := make(map[int]struct{}, len(c.HumanSeats))
	for _, seat := range c.HumanSeats {
		if seat < 0 || seat >= NumSeats {
			return fmt.Errorf("invalid human seat %d", seat)
		}
		if _, dup := seen[seat]; dup {
			return fmt.Errorf("duplicate human seat %d", seat)
		}
		seen[seat] = struct{}{}
	}
	if c.ForcedDealerSeat != nil && (*c.ForcedDealerSeat < 0 || *c.ForcedDealerSeat >= NumSeats) {
		return fmt.Errorf("invalid forced dealer seat %d", *c.ForcedDealerSeat)
	}
	if len(c.DeckOverride) > 0 {
		if len(c.DeckOverride) != card.DeckSize {
			return fmt.Errorf("deck override must have %d cards, got %d", card.DeckSize, len(c.DeckOverride))
		}
		used := make(map[card.Card]struct{}, card.DeckSize)
		for i, cc := range c.DeckOverride {
			if !cc.Valid() {
				return fmt.Errorf("deck override card %d is not a truco card: %v", i, cc)
			}
			if _, dup := used[cc]; dup {
				return fmt.Errorf("deck override has duplicate card %v", cc)
			}
			used[cc] = struct{}{}
		}
	}
	return nil
}

func (c Config) isHuman(seat int) bool {
	for _, s := range c.HumanSeats {
		if s == seat {
			return true
		}
	}
	return false
}

// Rules is the scoring subset of Config carried inside State.
type Rules struct {
	VictoryScore      int `json:"victory_score"`
	LastHandThreshold int `json:"last_hand_threshold"`
}
