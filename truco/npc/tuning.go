package npc

// DecisionTable holds every threshold and modifier the rule brain uses.
// Bonuses are subtracted from thresholds.
type DecisionTable struct {
	AcceptThreshold    float64
	RaiseThreshold     float64
	HighRaiseThreshold float64 // replaces RaiseThreshold once stakes reach HighStakes
	HighStakes         int
	CallThreshold      float64
	Jitter             float64 // relative, applied as ±Jitter

	BehindBonus   float64
	WonFirstBonus float64

	// AggressionSpan shifts thresholds by (aggression-0.5)*AggressionSpan.
	AggressionSpan float64

	BluffBaseMin  float64
	BluffBaseMax  float64
	BehindBluff   float64
	WonFirstBluff float64
	BluffCap      float64
	RandomBluff   float64
}

var DefaultDecisionTable = DecisionTable{
	AcceptThreshold:    0.30,
	RaiseThreshold:     0.70,
	HighRaiseThreshold: 0.85,
	HighStakes:         8,
	CallThreshold:      0.60,
	Jitter:             0.10,

	BehindBonus:   0.10,
	WonFirstBonus: 0.30,

	AggressionSpan: 0.10,

	BluffBaseMin:  0.25,
	BluffBaseMax:  0.40,
	BehindBluff:   0.10,
	WonFirstBluff: 0.10,
	BluffCap:      0.60,
	RandomBluff:   0.075,
}
