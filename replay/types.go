package replay

// GameSpec scripts a game from a fixed deal.
type GameSpec struct {
	DealerSeat        int           `json:"dealer_seat"`
	HeroSeat          int           `json:"hero_seat"`
	VictoryScore      int           `json:"victory_score,omitempty"`
	LastHandThreshold int           `json:"last_hand_threshold,omitempty"`
	Names             []string      `json:"names,omitempty"`
	Hands             [][]string    `json:"hands,omitempty"`
	Deck              []string      `json:"deck,omitempty"`
	Commands          []CommandSpec `json:"commands"`
	RNG               *RNGSpec      `json:"rng,omitempty"`
}

// CommandSpec is one scripted command. Card, when set, names the card to
// play instead of CardIndex.
type CommandSpec struct {
	Seat      int    `json:"seat"`
	Type      string `json:"type"`
	CardIndex int    `json:"card_index,omitempty"`
	Card      string `json:"card,omitempty"`
}

type RNGSpec struct {
	Seed int64 `json:"seed"`
}

type ReplayTape struct {
	TapeVersion int           `json:"tape_version"`
	GameID      string        `json:"game_id"`
	HeroSeat    int           `json:"hero_seat"`
	Events      []ReplayEvent `json:"events"`
}

type ReplayEvent struct {
	Type        string         `json:"type"`
	Seq         uint64         `json:"seq"`
	Value       map[string]any `json:"value,omitempty"`
	EnvelopeB64 string         `json:"envelope_b64,omitempty"`
}
