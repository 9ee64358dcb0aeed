package replay

import (
	"strings"

	"truco-lite/card"
	"truco-lite/truco"
)

type normalizedCommand struct {
	seat  int
	kind  truco.CommandKind
	index int
	card  card.Card // CardEmpty when the index is used
}

type normalizedSpec struct {
	cfg      truco.Config
	heroSeat int
	names    [truco.NumSeats]string
	commands []normalizedCommand
}

func normalizeSpec(spec GameSpec) (normalizedSpec, error) {
	var out normalizedSpec

	if spec.DealerSeat < 0 || spec.DealerSeat >= truco.NumSeats {
		return out, specError("dealer_seat %d out of range", spec.DealerSeat)
	}
	if spec.HeroSeat < 0 || spec.HeroSeat >= truco.NumSeats {
		return out, specError("hero_seat %d out of range", spec.HeroSeat)
	}
	if len(spec.Names) > truco.NumSeats {
		return out, specError("at most %d names", truco.NumSeats)
	}
	out.heroSeat = spec.HeroSeat
	for i, name := range spec.Names {
		out.names[i] = strings.TrimSpace(name)
	}

	cfg := truco.DefaultConfig()
	cfg.HumanSeats = []int{0, 1, 2, 3}
	cfg.Seed = seedFromSpec(spec.RNG)
	dealer := spec.DealerSeat
	cfg.ForcedDealerSeat = &dealer
	if spec.VictoryScore > 0 {
		cfg.VictoryScore = spec.VictoryScore
	}
	if spec.LastHandThreshold > 0 {
		cfg.LastHandThreshold = spec.LastHandThreshold
	}

	deck, err := deckFromSpec(spec)
	if err != nil {
		return out, err
	}
	cfg.DeckOverride = deck
	out.cfg = cfg

	for i, cs := range spec.Commands {
		kind := truco.CommandKind(strings.ToLower(strings.TrimSpace(cs.Type)))
		if !kind.Valid() {
			return out, &ReplayError{StepIndex: int32(i), Reason: ReasonUnknownCommand, Message: "unknown command type " + cs.Type}
		}
		nc := normalizedCommand{seat: cs.Seat, kind: kind, index: cs.CardIndex}
		if cs.Card != "" {
			if kind != truco.CmdPlayCard && kind != truco.CmdFoldRound {
				return out, &ReplayError{StepIndex: int32(i), Reason: ReasonInvalidSpec, Message: "card is only valid for play_card and fold_round"}
			}
			c, err := card.Parse(cs.Card)
			if err != nil || !c.Valid() {
				return out, &ReplayError{StepIndex: int32(i), Reason: ReasonInvalidSpec, Message: "invalid card " + cs.Card}
			}
			nc.card = c
		}
		out.commands = append(out.commands, nc)
	}
	return out, nil
}

func deckFromSpec(spec GameSpec) ([]card.Card, error) {
	switch {
	case len(spec.Deck) > 0 && len(spec.Hands) > 0:
		return nil, specError("deck and hands are mutually exclusive")
	case len(spec.Deck) > 0:
		deck, err := card.ParseList(spec.Deck)
		if err != nil {
			return nil, specError("deck: %v", err)
		}
		return deck, nil
	case len(spec.Hands) > 0:
		if len(spec.Hands) != truco.NumSeats {
			return nil, specError("hands must list %d seats, got %d", truco.NumSeats, len(spec.Hands))
		}
		var hands [truco.NumSeats][]card.Card
		for seat, codes := range spec.Hands {
			parsed, err := card.ParseList(codes)
			if err != nil {
				return nil, specError("hands[%d]: %v", seat, err)
			}
			hands[seat] = parsed
		}
		deck, err := truco.StackedDeck(spec.DealerSeat, hands)
		if err != nil {
			return nil, specError("hands: %v", err)
		}
		return deck, nil
	}
	return nil, nil
}

func seedFromSpec(rng *RNGSpec) int64 {
	if rng == nil || rng.Seed == 0 {
		return 1
	}
	return rng.Seed
}
