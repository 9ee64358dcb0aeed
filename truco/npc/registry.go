package npc

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
)

//go:embed personas.json
var defaultPersonasJSON []byte

// DefaultPersona backs seats when the registry is empty.
var DefaultPersona = NPCPersona{
	ID:    "default",
	Name:  "Zé",
	Tier:  2,
	Brain: PersonalityProfile{Aggression: 0.5, Bluffing: 0.5, Randomness: 0.3},
}

// PersonaRegistry holds all NPC persona definitions.
type PersonaRegistry struct {
	mu       sync.RWMutex
	personas map[string]*NPCPersona
}

func NewRegistry() *PersonaRegistry {
	return &PersonaRegistry{
		personas: make(map[string]*NPCPersona),
	}
}

// NewDefaultRegistry returns a registry preloaded with the built-in personas.
func NewDefaultRegistry() *PersonaRegistry {
	r := NewRegistry()
	if err := r.LoadFromJSON(defaultPersonasJSON); err != nil {
		panic(fmt.Sprintf("built-in personas: %v", err))
	}
	return r
}

// LoadFromFile loads NPC personas from a JSON file.
func (r *PersonaRegistry) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read personas file: %w", err)
	}
	return r.LoadFromJSON(data)
}

// LoadFromJSON loads NPC personas from raw JSON bytes.
func (r *PersonaRegistry) LoadFromJSON(data []byte) error {
	var list []*NPCPersona
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("parse personas JSON: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range list {
		if p.ID == "" {
			continue
		}
		p.Brain.Aggression = clamp01(p.Brain.Aggression)
		p.Brain.Bluffing = clamp01(p.Brain.Bluffing)
		p.Brain.Randomness = clamp01(p.Brain.Randomness)
		r.personas[p.ID] = p
	}
	return nil
}

func (r *PersonaRegistry) Get(id string) *NPCPersona {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.personas[id]
}

// All returns every persona sorted by ID.
func (r *PersonaRegistry) All() []*NPCPersona {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*NPCPersona, 0, len(r.personas))
	for _, p := range r.personas {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *PersonaRegistry) ByTier(tier int) []*NPCPersona {
	var out []*NPCPersona
	for _, p := range r.All() {
		if p.Tier == tier {
			out = append(out, p)
		}
	}
	return out
}

func (r *PersonaRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.personas)
}
