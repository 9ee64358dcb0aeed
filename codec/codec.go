// Package codec turns engine events and snapshots into protobuf envelopes.
package codec

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"truco-lite/card"
	"truco-lite/truco"
)

// Envelope fields.
const (
	FieldEventID    = "event_id"
	FieldGameID     = "game_id"
	FieldServerSeq  = "server_seq"
	FieldServerTsMs = "server_ts_ms"
	FieldType       = "type"
	FieldPayload    = "payload"
)

// Envelope types that are not engine events.
const (
	TypeSnapshot     = "snapshot"
	TypeActionPrompt = "action_prompt"
	TypeError        = "error"
)

// PromptPayload describes what seat may submit next.
func PromptPayload(seat int, responding bool, actions []truco.CommandKind) map[string]any {
	legal := make([]any, 0, len(actions))
	for _, a := range actions {
		legal = append(legal, string(a))
	}
	return map[string]any{
		"seat":          seat,
		"responding":    responding,
		"legal_actions": legal,
	}
}

// WrapEvent builds the envelope for one committed event.
func WrapEvent(gameID string, serverSeq uint64, ev truco.Event, now time.Time) (*structpb.Struct, error) {
	payload, err := EventPayload(ev)
	if err != nil {
		return nil, err
	}
	return Wrap(uuid.NewString(), gameID, serverSeq, string(ev.Kind()), payload, now)
}

// WrapSnapshot builds a "snapshot" envelope.
func WrapSnapshot(gameID string, serverSeq uint64, snap truco.Snapshot, now time.Time) (*structpb.Struct, error) {
	return Wrap(uuid.NewString(), gameID, serverSeq, TypeSnapshot, SnapshotPayload(snap), now)
}

// Wrap builds an envelope with a caller-chosen event ID.
func Wrap(eventID, gameID string, serverSeq uint64, kind string, payload map[string]any, now time.Time) (*structpb.Struct, error) {
	env, err := structpb.NewStruct(map[string]any{
		FieldEventID:    eventID,
		FieldGameID:     gameID,
		FieldServerSeq:  float64(serverSeq),
		FieldServerTsMs: float64(now.UnixMilli()),
		FieldType:       kind,
		FieldPayload:    payload,
	})
	if err != nil {
		return nil, fmt.Errorf("wrap %s: %w", kind, err)
	}
	return env, nil
}

// EventPayload flattens an event into JSON-compatible values.
func EventPayload(ev truco.Event) (map[string]any, error) {
	switch e := ev.(type) {
	case truco.HandStarted:
		return map[string]any{
			"hand":        e.Hand,
			"dealer_seat": e.DealerSeat,
			"first_seat":  e.FirstSeat,
			"last_hand":   e.LastHand.String(),
		}, nil
	case truco.TurnStarted:
		return map[string]any{
			"seat":       e.Seat,
			"hand":       e.Hand,
			"round":      e.Round,
			"responding": e.Responding,
		}, nil
	case truco.CardPlayed:
		return map[string]any{
			"seat":  e.Seat,
			"card":  CardCode(e.Card),
			"fold":  e.Fold,
			"hand":  e.Hand,
			"round": e.Round,
		}, nil
	case truco.RoundCompleted:
		return map[string]any{
			"hand":        e.Hand,
			"round":       e.Round,
			"winner_seat": e.WinnerSeat,
			"winner_team": e.WinnerTeam.String(),
			"draw":        e.Draw,
			"cards":       playedList(e.Cards[:]),
		}, nil
	case truco.RoundStarted:
		return map[string]any{
			"hand":        e.Hand,
			"round":       e.Round,
			"leader_seat": e.LeaderSeat,
		}, nil
	case truco.TrucoOrRaiseCalled:
		return map[string]any{
			"seat":            e.Seat,
			"team":            e.Team.String(),
			"call_state":      e.CallState.String(),
			"stakes":          e.Stakes,
			"proposed_stakes": e.ProposedStakes,
		}, nil
	case truco.TrucoAccepted:
		return map[string]any{
			"seat":       e.Seat,
			"team":       e.Team.String(),
			"call_state": e.CallState.String(),
			"stakes":     e.Stakes,
		}, nil
	case truco.HandCompleted:
		return map[string]any{
			"hand":   e.Hand,
			"winner": e.Winner.String(),
			"points": e.Points,
			"reason": string(e.Reason),
		}, nil
	case truco.GameCompleted:
		return map[string]any{
			"winner": e.Winner.String(),
			"scores": []any{e.Scores[truco.TeamA], e.Scores[truco.TeamB]},
		}, nil
	}
	return nil, fmt.Errorf("unsupported event %T", ev)
}

// SnapshotPayload flattens a (usually redacted) snapshot.
func SnapshotPayload(snap truco.Snapshot) map[string]any {
	players := make([]any, 0, len(snap.Players))
	for _, p := range snap.Players {
		players = append(players, map[string]any{
			"seat":       p.Seat,
			"team":       p.Team.String(),
			"name":       p.Name,
			"is_ai":      p.IsAI,
			"is_active":  p.IsActive,
			"is_dealer":  p.IsDealer,
			"hand_count": p.HandCount,
			"hand":       cardList(p.HandCards),
		})
	}
	winners := make([]any, 0, len(snap.RoundWinners))
	for _, t := range snap.RoundWinners {
		winners = append(winners, t.String())
	}
	return map[string]any{
		"game_id":          snap.GameID,
		"status":           snap.Status.String(),
		"winner":           snap.Winner.String(),
		"hand":             snap.Hand,
		"round":            snap.Round,
		"dealer_seat":      snap.DealerSeat,
		"active_seat":      snap.ActiveSeat,
		"played_cards":     playedList(snap.PlayedCards),
		"round_winners":    winners,
		"stakes":           snap.Stakes,
		"call_state":       snap.CallState.String(),
		"last_caller_team": snap.LastCallerTeam.String(),
		"can_raise_team":   snap.CanRaiseTeam.String(),
		"pending_team":     snap.PendingTeam.String(),
		"last_hand":        snap.LastHand.String(),
		"calls_disabled":   snap.CallsDisabled,
		"scores":           []any{snap.TeamScores[truco.TeamA], snap.TeamScores[truco.TeamB]},
		"deck_count":       snap.DeckCount,
		"players":          players,
	}
}

// CardCode renders face-up cards as Parse codes, backs as "back", empty as "".
func CardCode(c card.Card) string {
	if c == card.CardRear {
		return "back"
	}
	return c.Code()
}

func cardList(cs []card.Card) []any {
	out := make([]any, 0, len(cs))
	for _, c := range cs {
		out = append(out, CardCode(c))
	}
	return out
}

func playedList(played []truco.PlayedCard) []any {
	out := make([]any, 0, len(played))
	for _, pc := range played {
		out = append(out, map[string]any{
			"seat": pc.Seat,
			"card": CardCode(pc.Card),
			"fold": pc.Fold,
		})
	}
	return out
}

var marshalOptions = proto.MarshalOptions{Deterministic: true}

// Marshal is the binary form stored in event logs. Map keys are written in
// sorted order so equal envelopes encode to equal bytes.
func Marshal(env *structpb.Struct) ([]byte, error) {
	return marshalOptions.Marshal(env)
}

func Unmarshal(raw []byte) (*structpb.Struct, error) {
	env := &structpb.Struct{}
	if err := proto.Unmarshal(raw, env); err != nil {
		return nil, err
	}
	return env, nil
}

func EncodeB64(env *structpb.Struct) (string, error) {
	raw, err := Marshal(env)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func DecodeB64(s string) (*structpb.Struct, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return Unmarshal(raw)
}

// JSON renders the envelope for text transports.
func JSON(env *structpb.Struct) ([]byte, error) {
	return protojson.Marshal(env)
}

// EnvelopeType returns the "type" field, "" when missing.
func EnvelopeType(env *structpb.Struct) string {
	return env.GetFields()[FieldType].GetStringValue()
}

func EnvelopeSeq(env *structpb.Struct) uint64 {
	return uint64(env.GetFields()[FieldServerSeq].GetNumberValue())
}

// Payload returns the payload as plain Go values.
func Payload(env *structpb.Struct) map[string]any {
	p := env.GetFields()[FieldPayload].GetStructValue()
	if p == nil {
		return nil
	}
	return p.AsMap()
}
