package truco

import (
	"fmt"

	"truco-lite/card"
)

// StackedDeck builds a full deck that deals hands[seat] to each seat when
// the dealer is dealer. Unlisted cards follow in TrucoCards order.
func StackedDeck(dealer int, hands [NumSeats][]card.Card) ([]card.Card, error) {
	if dealer < 0 || dealer >= NumSeats {
		return nil, fmt.Errorf("invalid dealer seat %d", dealer)
	}
	used := make(map[card.Card]struct{}, card.DeckSize)
	deck := make([]card.Card, 0, card.DeckSize)
	first := NextSeat(dealer)
	for i := 0; i < HandSize; i++ {
		for n := 0; n < NumSeats; n++ {
			seat := (first + n) % NumSeats
			if len(hands[seat]) != HandSize {
				return nil, fmt.Errorf("seat %d: want %d cards, got %d", seat, HandSize, len(hands[seat]))
			}
			c := hands[seat][i]
			if _, dup := used[c]; dup {
				return nil, fmt.Errorf("duplicate card %v", c)
			}
			used[c] = struct{}{}
			deck = append(deck, c)
		}
	}
	for _, c := range card.TrucoCards {
		if _, ok := used[c]; !ok {
			deck = append(deck, c)
		}
	}
	return deck, nil
}
