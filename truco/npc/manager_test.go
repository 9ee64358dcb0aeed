package npc

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truco-lite/truco"
)

func TestRegistryLoadFromJSON(t *testing.T) {
	r := NewRegistry()
	err := r.LoadFromJSON([]byte(`[
		{"id": "a", "name": "A", "tier": 1, "brain": {"aggression": 1.7, "bluffing": 0.2}},
		{"id": "", "name": "skipped"},
		{"id": "b", "name": "B", "tier": 2}
	]`))
	require.NoError(t, err)
	assert.Equal(t, 2, r.Count())
	assert.Equal(t, 1.0, r.Get("a").Brain.Aggression)
	assert.Len(t, r.ByTier(2), 1)

	assert.Error(t, r.LoadFromJSON([]byte(`{`)))
	assert.Error(t, r.LoadFromFile("/nonexistent/personas.json"))
}

func TestManagerSpawnHonorsTier(t *testing.T) {
	rng := truco.NewRandom(4)
	m := NewManager(NewDefaultRegistry(), ThinkConfig{}, rng, logrus.New())
	m.SetTier(1)
	for seat := 0; seat < truco.NumSeats; seat++ {
		inst, err := m.Spawn("tiered", seat)
		require.NoError(t, err)
		assert.Equal(t, 1, inst.Persona.Tier)
	}

	// a tier with no personas falls back to the whole registry
	r := NewRegistry()
	require.NoError(t, r.LoadFromJSON([]byte(`[{"id": "only", "name": "Only", "tier": 2}]`)))
	m2 := NewManager(r, ThinkConfig{}, rng, logrus.New())
	m2.SetTier(1)
	inst, err := m2.Spawn("fallback", 1)
	require.NoError(t, err)
	assert.Equal(t, "only", inst.Persona.ID)
}

func TestDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry()
	assert.GreaterOrEqual(t, r.Count(), 3)
	for _, p := range r.All() {
		assert.NotEmpty(t, p.Name)
	}
}

func TestManagerSpawnAndTurn(t *testing.T) {
	rng := truco.NewRandom(9)
	think := ThinkConfig{Min: 10 * time.Millisecond, Max: 50 * time.Millisecond}
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	m := NewManager(NewDefaultRegistry(), think, rng, logger)

	cfg := truco.DefaultConfig()
	cfg.HumanSeats = nil
	st, err := truco.NewState("g1", cfg, rng)
	require.NoError(t, err)
	_, err = truco.NewFlow(rng).Begin(&st)
	require.NoError(t, err)

	seen := map[string]bool{}
	for seat := 0; seat < truco.NumSeats; seat++ {
		inst, err := m.Spawn("g1", seat)
		require.NoError(t, err)
		assert.False(t, seen[inst.Persona.ID], "persona reused inside one game")
		seen[inst.Persona.ID] = true
		d := m.ThinkDelay("g1", seat)
		assert.GreaterOrEqual(t, d, think.Min)
		assert.LessOrEqual(t, d, think.Max)
	}
	_, err = m.Spawn("g1", 7)
	assert.ErrorIs(t, err, truco.ErrUnknownSeat)

	cmd, ok := m.OnTurn(&st, st.ActiveSeat)
	require.True(t, ok)
	assert.Equal(t, st.ActiveSeat, cmd.Seat)
	assert.True(t, truco.IsLegal(&st, cmd.Seat, cmd.Kind))

	m.Despawn("g1")
	assert.Nil(t, m.Instance("g1", 0))
	assert.Equal(t, think.Min, m.ThinkDelay("g1", 0))
	_, ok = m.OnTurn(&st, 0)
	assert.False(t, ok)
}

// NPCs playing every seat must finish a game through legal commands only.
func TestNPCsFinishAGame(t *testing.T) {
	rng := truco.NewRandom(21)
	m := NewManager(nil, DefaultThinkConfig(), rng, logrus.New())
	cfg := truco.DefaultConfig()
	cfg.HumanSeats = nil
	st, err := truco.NewState("g-npc", cfg, rng)
	require.NoError(t, err)
	flow := truco.NewFlow(rng)
	_, err = flow.Begin(&st)
	require.NoError(t, err)
	for seat := 0; seat < truco.NumSeats; seat++ {
		_, err := m.Spawn(st.GameID, seat)
		require.NoError(t, err)
	}

	for steps := 0; st.Status == truco.StatusInProgress; steps++ {
		require.Less(t, steps, 3000)
		cmd, ok := m.OnTurn(&st, st.ActiveSeat)
		require.True(t, ok)
		st, _, err = flow.Step(st, cmd)
		require.NoError(t, err)
	}
	assert.True(t, st.Winner.Valid())
}
