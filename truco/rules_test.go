package truco

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truco-lite/card"
)

func table(cards ...string) [NumSeats]PlayedCard {
	var out [NumSeats]PlayedCard
	for seat, code := range cards {
		if code == "--" {
			out[seat] = PlayedCard{Seat: seat, Card: card.CardRear, Fold: true}
			continue
		}
		out[seat] = PlayedCard{Seat: seat, Card: card.MustParse(code)}
	}
	return out
}

func TestResolveRound(t *testing.T) {
	cases := []struct {
		name   string
		played [NumSeats]PlayedCard
		winner int
		draw   bool
	}{
		{"zap beats everything", table("3s", "2s", "4c", "7h"), 2, false},
		{"rank order", table("Kh", "Ah", "Js", "Qd"), 1, false},
		{"opponents tie at top", table("3s", "3h", "5s", "6s"), InvalidSeat, true},
		{"partners tie at top", table("3s", "5s", "3h", "6s"), InvalidSeat, true},
		{"tie below top is irrelevant", table("2s", "5s", "5h", "6s"), 0, false},
		{"folded card is worth nothing", table("--", "5s", "4s", "6s"), 3, false},
		{"all folded", table("--", "--", "--", "--"), InvalidSeat, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seat, draw, err := ResolveRound(tc.played)
			require.NoError(t, err)
			assert.Equal(t, tc.draw, draw)
			assert.Equal(t, tc.winner, seat)
		})
	}

	_, _, err := ResolveRound(table("3s", "2s", "4c"))
	var ise InvalidStateError
	assert.ErrorAs(t, err, &ise)
}

func TestResolveRoundIsOrderIndependent(t *testing.T) {
	a := table("7d", "As", "7h", "4c")
	b := table("4c", "7h", "As", "7d")
	wa, _, _ := ResolveRound(a)
	wb, _, _ := ResolveRound(b)
	assert.Equal(t, a[wa].Card, b[wb].Card)
}

func TestResolveHandWinner(t *testing.T) {
	A, B, N := TeamA, TeamB, TeamNone
	cases := []struct {
		rounds []Team
		winner Team
		done   bool
	}{
		{nil, N, false},
		{[]Team{A}, N, false},
		{[]Team{N}, N, false},
		{[]Team{A, A}, A, true},
		{[]Team{A, B}, N, false},
		{[]Team{A, N}, A, true},
		{[]Team{N, B}, B, true},
		{[]Team{N, N}, N, false},
		{[]Team{N, N, A}, A, true},
		{[]Team{N, N, N}, N, true},
		{[]Team{A, B, N}, A, true},
		{[]Team{B, A, N}, B, true},
		{[]Team{A, B, B}, B, true},
		{[]Team{B, A, A}, A, true},
	}
	for _, tc := range cases {
		winner, done := ResolveHandWinner(tc.rounds)
		assert.Equal(t, tc.done, done, "rounds %v", tc.rounds)
		assert.Equal(t, tc.winner, winner, "rounds %v", tc.rounds)
	}
}

func TestResolveDrawPolicy(t *testing.T) {
	team, done := ResolveDrawPolicy(1, []Team{TeamNone})
	assert.False(t, done)
	assert.Equal(t, TeamNone, team)

	team, done = ResolveDrawPolicy(2, []Team{TeamB, TeamNone})
	assert.True(t, done)
	assert.Equal(t, TeamB, team)
}

func TestStakeLadder(t *testing.T) {
	assert.Equal(t, 4, NextStake(CallNone))
	assert.Equal(t, 8, NextStake(CallTruco))
	assert.Equal(t, 12, NextStake(CallSeis))
	assert.Equal(t, 12, NextStake(CallDoze))

	assert.True(t, LegalCallFor(TeamA, TeamNone, CallNone))
	assert.False(t, LegalCallFor(TeamA, TeamA, CallTruco))
	assert.True(t, LegalCallFor(TeamB, TeamA, CallTruco))
	assert.False(t, LegalCallFor(TeamB, TeamA, CallDoze))
	assert.False(t, LegalCallFor(TeamNone, TeamA, CallNone))
}

func TestIsLastHandActive(t *testing.T) {
	mode, team := IsLastHandActive([2]int{9, 11}, 10)
	assert.Equal(t, LastHandOneTeam, mode)
	assert.Equal(t, TeamB, team)

	mode, _ = IsLastHandActive([2]int{10, 10}, 10)
	assert.Equal(t, LastHandBoth, mode)

	mode, _ = IsLastHandActive([2]int{9, 9}, 10)
	assert.Equal(t, LastHandNone, mode)
}

func TestSeatsAndTeams(t *testing.T) {
	assert.Equal(t, TeamA, TeamOfSeat(0))
	assert.Equal(t, TeamB, TeamOfSeat(1))
	assert.Equal(t, TeamA, TeamOfSeat(2))
	assert.Equal(t, TeamB, TeamOfSeat(3))
	assert.Equal(t, TeamNone, TeamOfSeat(4))
	assert.Equal(t, 0, NextSeat(3))
	assert.Equal(t, TeamB, TeamA.Opponent())
}
