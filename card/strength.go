package card

// Strength values. Fixed manilhas: no rotating reference card.
const (
	StrengthNone = 0 // empty slot or face-down card
	StrengthMax  = 14
)

var manilhaStrength = map[Card]int{
	CardClub4:    14, // zap
	CardHeart7:   13, // copas
	CardSpadeA:   12, // espadilha
	CardDiamond7: 11, // pica-fumo
}

// rankStrength: 4 < 5 < 6 < 7 < Q < J < K < A < 2 < 3
var rankStrength = map[byte]int{
	4:  1,
	5:  2,
	6:  3,
	7:  4,
	12: 5,
	11: 6,
	13: 7,
	1:  8,
	2:  9,
	3:  10,
}

// Strength is the value used to decide a round. Non-manilha cards of the same
// rank tie across suits.
func (c Card) Strength() int {
	if !c.IsPlayable() {
		return StrengthNone
	}
	if s, ok := manilhaStrength[c]; ok {
		return s
	}
	return rankStrength[c.Rank()]
}

func (c Card) IsManilha() bool {
	_, ok := manilhaStrength[c]
	return ok
}

// Order is a strict total order over the deck: strength first, suit breaks ties.
func (c Card) Order() int {
	return c.Strength()*4 + c.Suit().tiebreak()
}

// Beats reports whether c strictly outranks other in a round.
func (c Card) Beats(other Card) bool {
	return c.Strength() > other.Strength()
}

// NormalizedStrength maps Strength onto 0..1.
func (c Card) NormalizedStrength() float64 {
	return float64(c.Strength()) / float64(StrengthMax)
}
