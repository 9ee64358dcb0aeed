package card

type Suit byte

const (
	Spade Suit = iota // ♠️
	Heart             // ♥️
	Club              // ♣️
	Diamond           // ♦️
)

func (s Suit) String() string {
	switch s {
	case Diamond:
		return "♦"
	case Club:
		return "♣"
	case Heart:
		return "♥"
	case Spade:
		return "♠"
	}
	return "?"
}

// Letter is the ASCII suit code used by Parse.
func (s Suit) Letter() string {
	switch s {
	case Diamond:
		return "d"
	case Club:
		return "c"
	case Heart:
		return "h"
	case Spade:
		return "s"
	}
	return "?"
}

// tiebreak orders suits for the total order only (clubs high, diamonds low).
func (s Suit) tiebreak() int {
	switch s {
	case Club:
		return 3
	case Heart:
		return 2
	case Spade:
		return 1
	default:
		return 0
	}
}
