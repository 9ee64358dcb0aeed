package npc

// PersonalityProfile tunes a RuleBrain on top of the shared DecisionTable.
type PersonalityProfile struct {
	Aggression float64 `json:"aggression"` // 0.0–1.0: shifts every threshold down as it rises
	Bluffing   float64 `json:"bluffing"`   // 0.0–1.0: scales the base bluff rate
	Randomness float64 `json:"randomness"` // 0.0–1.0: think-time spread
}

// NPCPersona defines a named NPC character.
type NPCPersona struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	Tagline string             `json:"tagline"`
	Tier    int                `json:"tier"` // 1=tough, 2=regular, 3=casual
	Brain   PersonalityProfile `json:"brain"`
}
