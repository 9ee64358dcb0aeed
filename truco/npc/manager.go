package npc

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"truco-lite/truco"
)

// NPCInstance is one NPC seated in one game.
type NPCInstance struct {
	GameID     string
	Seat       int
	Persona    *NPCPersona
	Brain      BrainDecider
	ThinkDelay time.Duration
}

// ThinkConfig bounds the simulated thinking time.
type ThinkConfig struct {
	Min time.Duration
	Max time.Duration
}

func DefaultThinkConfig() ThinkConfig {
	return ThinkConfig{Min: 800 * time.Millisecond, Max: 2500 * time.Millisecond}
}

type instanceKey struct {
	gameID string
	seat   int
}

// Manager seats NPCs into games and answers their turns.
type Manager struct {
	registry  *PersonaRegistry
	think     ThinkConfig
	log       logrus.FieldLogger
	mu        sync.RWMutex
	instances map[instanceKey]*NPCInstance
	rng       truco.Random
	tier      int
}

func NewManager(registry *PersonaRegistry, think ThinkConfig, rng truco.Random, log logrus.FieldLogger) *Manager {
	if registry == nil {
		registry = NewDefaultRegistry()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	if think.Max < think.Min {
		think.Max = think.Min
	}
	return &Manager{
		registry:  registry,
		think:     think,
		log:       log.WithField("component", "npc"),
		instances: make(map[instanceKey]*NPCInstance),
		rng:       rng,
	}
}

func (m *Manager) Registry() *PersonaRegistry { return m.registry }

// SetTier restricts new NPCs to personas of tier (1=tough, 2=regular,
// 3=casual). Zero allows every tier; an empty tier falls back to all.
func (m *Manager) SetTier(tier int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tier = tier
}

// Spawn seats an NPC for seat in gameID. Personas are drawn from the registry
// without repeating inside one game while enough exist.
func (m *Manager) Spawn(gameID string, seat int) (*NPCInstance, error) {
	if seat < 0 || seat >= truco.NumSeats {
		return nil, fmt.Errorf("spawn NPC in %s: %w", gameID, truco.ErrUnknownSeat)
	}
	persona := m.pickPersona(gameID)

	// Think delay: Min plus a randomness-weighted share of the span, plus jitter.
	span := float64(m.think.Max - m.think.Min)
	base := span * 0.6 * persona.Brain.Randomness
	jitter := m.rng.Uniform(0, span*0.4)
	delay := m.think.Min + time.Duration(base+jitter)

	inst := &NPCInstance{
		GameID:     gameID,
		Seat:       seat,
		Persona:    persona,
		Brain:      NewRuleBrainWithRandom(persona, m.rng),
		ThinkDelay: delay,
	}
	m.mu.Lock()
	m.instances[instanceKey{gameID, seat}] = inst
	m.mu.Unlock()

	m.log.WithFields(logrus.Fields{"game": gameID, "seat": seat, "persona": persona.ID}).Debug("[NPC] spawned")
	return inst, nil
}

func (m *Manager) pickPersona(gameID string) *NPCPersona {
	all := m.registry.All()
	if len(all) == 0 {
		return &DefaultPersona
	}
	m.mu.RLock()
	if m.tier > 0 {
		if tiered := m.registry.ByTier(m.tier); len(tiered) > 0 {
			all = tiered
		}
	}
	taken := make(map[string]bool)
	for key, inst := range m.instances {
		if key.gameID == gameID {
			taken[inst.Persona.ID] = true
		}
	}
	m.mu.RUnlock()

	free := make([]*NPCPersona, 0, len(all))
	for _, p := range all {
		if !taken[p.ID] {
			free = append(free, p)
		}
	}
	if len(free) == 0 {
		free = all
	}
	return free[m.rng.Intn(len(free))]
}

// OnTurn asks the seat's brain for a command against st.
func (m *Manager) OnTurn(st *truco.State, seat int) (truco.Command, bool) {
	inst := m.Instance(st.GameID, seat)
	if inst == nil {
		m.log.WithFields(logrus.Fields{"game": st.GameID, "seat": seat}).Warn("[NPC] OnTurn for unknown seat")
		return truco.Command{}, false
	}
	view := NewGameView(st, seat)
	decision := inst.Brain.Decide(view)
	if decision.Kind == "" {
		return truco.Command{}, false
	}
	m.log.WithFields(logrus.Fields{
		"game":    st.GameID,
		"seat":    seat,
		"persona": inst.Persona.ID,
		"kind":    decision.Kind,
		"card":    decision.CardIndex,
	}).Debug("[NPC] decided")
	return decision.Command(seat), true
}

func (m *Manager) Instance(gameID string, seat int) *NPCInstance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.instances[instanceKey{gameID, seat}]
}

// ThinkDelay returns the pacing for a seat, Min when unknown.
func (m *Manager) ThinkDelay(gameID string, seat int) time.Duration {
	if inst := m.Instance(gameID, seat); inst != nil {
		return inst.ThinkDelay
	}
	return m.think.Min
}

// Despawn forgets every NPC of gameID.
func (m *Manager) Despawn(gameID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.instances {
		if key.gameID == gameID {
			delete(m.instances, key)
		}
	}
}
