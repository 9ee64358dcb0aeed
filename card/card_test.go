package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckComposition(t *testing.T) {
	require.Len(t, TrucoCards, DeckSize)
	seen := make(map[Card]bool)
	for _, c := range TrucoCards {
		assert.True(t, c.Valid(), "card %v", c)
		assert.False(t, seen[c], "duplicate %v", c)
		seen[c] = true
		assert.NotContains(t, []byte{8, 9, 10}, c.Rank())
	}
}

func TestManilhaOrder(t *testing.T) {
	zap, copas, espadilha, picaFumo := MustParse("4c"), MustParse("7h"), MustParse("As"), MustParse("7d")
	assert.Equal(t, 14, zap.Strength())
	assert.Equal(t, 13, copas.Strength())
	assert.Equal(t, 12, espadilha.Strength())
	assert.Equal(t, 11, picaFumo.Strength())
	for _, c := range []Card{zap, copas, espadilha, picaFumo} {
		assert.True(t, c.IsManilha())
		assert.True(t, c.Beats(MustParse("3s")))
	}
	assert.False(t, MustParse("4s").IsManilha())
}

func TestRankOrder(t *testing.T) {
	ladder := []string{"4s", "5s", "6s", "7s", "Qs", "Js", "Ks", "Ah", "2s", "3s"}
	for i := 1; i < len(ladder); i++ {
		lo, hi := MustParse(ladder[i-1]), MustParse(ladder[i])
		assert.Less(t, lo.Strength(), hi.Strength(), "%s < %s", lo, hi)
	}
	// suits do not break ties outside manilhas
	assert.Equal(t, MustParse("3h").Strength(), MustParse("3d").Strength())
	assert.False(t, MustParse("3h").Beats(MustParse("3d")))
	assert.NotEqual(t, MustParse("3h").Order(), MustParse("3d").Order())
}

func TestParseRoundTrip(t *testing.T) {
	for _, c := range TrucoCards {
		back, err := Parse(c.Code())
		require.NoError(t, err)
		assert.Equal(t, c, back)
	}
	for _, bad := range []string{"", "8s", "10h", "Kx", "Z"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestCardListHelpers(t *testing.T) {
	var hand CardList
	hand.Init([]Card{MustParse("5s"), MustParse("4c"), MustParse("Kh")})
	assert.Equal(t, 1, hand.Strongest())
	assert.Equal(t, 0, hand.Weakest())

	sorted := hand.SortedByOrder()
	assert.Equal(t, []Card{MustParse("5s"), MustParse("Kh"), MustParse("4c")}, []Card(sorted))

	c, ok := hand.RemoveAt(1)
	require.True(t, ok)
	assert.Equal(t, CardClub4, c)
	assert.Equal(t, 2, hand.Count())
	_, ok = hand.RemoveAt(5)
	assert.False(t, ok)

	assert.Equal(t, StrengthNone, CardRear.Strength())
	assert.Equal(t, "", CardRear.Code())
}
