package replay

import (
	"fmt"

	"truco-lite/card"
	"truco-lite/truco"
)

const defaultGameID = "replay_local"

// GenerateReplayTape deals spec's game and applies its commands in order.
// The first command the game would not accept stops generation with a
// *ReplayError describing what was expected instead.
func GenerateReplayTape(spec GameSpec) (*ReplayTape, error) {
	ns, err := normalizeSpec(spec)
	if err != nil {
		return nil, err
	}

	rng := truco.NewRandom(ns.cfg.Seed)
	st, err := truco.NewState(defaultGameID, ns.cfg, rng)
	if err != nil {
		return nil, &ReplayError{StepIndex: -1, Reason: ReasonEngineInit, Message: err.Error()}
	}
	for seat, name := range ns.names {
		if name != "" {
			st.Players[seat].Name = name
		}
	}
	flow := truco.NewFlow(rng)
	events, err := flow.Begin(&st)
	if err != nil {
		return nil, &ReplayError{StepIndex: -1, Reason: ReasonEngineInit, Message: err.Error()}
	}

	builder := newTapeBuilder(defaultGameID, ns.heroSeat)
	if err := builder.addBatch(&st, events); err != nil {
		return nil, &ReplayError{StepIndex: -1, Reason: ReasonEncodeFailed, Message: err.Error()}
	}

	for i, nc := range ns.commands {
		step := int32(i)
		if st.Status == truco.StatusCompleted || st.ActiveSeat == truco.InvalidSeat {
			return nil, &ReplayError{
				StepIndex: step,
				Reason:    ReasonNoActionExpected,
				Message:   "game is already complete; no further commands are allowed",
			}
		}
		if nc.seat != st.ActiveSeat {
			return nil, &ReplayError{
				StepIndex: step,
				Reason:    ReasonOutOfTurn,
				Message:   fmt.Sprintf("expected seat %d, got %d", st.ActiveSeat, nc.seat),
				Expected:  expectedState(&st),
			}
		}
		if !truco.IsLegal(&st, nc.seat, nc.kind) {
			return nil, &ReplayError{
				StepIndex: step,
				Reason:    ReasonIllegalAction,
				Message:   fmt.Sprintf("%s is not legal for seat %d", nc.kind, nc.seat),
				Expected:  expectedState(&st),
			}
		}
		idx := nc.index
		if nc.card != card.CardEmpty {
			idx = indexOf(st.Players[nc.seat].Hand, nc.card)
			if idx < 0 {
				return nil, &ReplayError{
					StepIndex: step,
					Reason:    ReasonIllegalAction,
					Message:   fmt.Sprintf("seat %d does not hold %s", nc.seat, nc.card.Code()),
					Expected:  expectedState(&st),
				}
			}
		}

		next, events, err := flow.Step(st, truco.Command{Kind: nc.kind, Seat: nc.seat, CardIndex: idx})
		if err != nil {
			reason := ReasonApplyFailed
			if _, ok := truco.IsRuleViolation(err); ok {
				reason = ReasonIllegalAction
			}
			return nil, &ReplayError{StepIndex: step, Reason: reason, Message: err.Error(), Expected: expectedState(&st)}
		}
		st = next
		if err := builder.addBatch(&st, events); err != nil {
			return nil, &ReplayError{StepIndex: step, Reason: ReasonEncodeFailed, Message: err.Error()}
		}
	}

	return &ReplayTape{
		TapeVersion: 1,
		GameID:      builder.gameID,
		HeroSeat:    ns.heroSeat,
		Events:      builder.events,
	}, nil
}

func indexOf(hand card.CardList, c card.Card) int {
	for i, h := range hand {
		if h == c {
			return i
		}
	}
	return -1
}
