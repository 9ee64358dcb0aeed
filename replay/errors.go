package replay

import "fmt"

// Failure reasons.
const (
	ReasonInvalidSpec      = "invalid_spec"
	ReasonEngineInit       = "engine_init_failed"
	ReasonUnknownCommand   = "unknown_command"
	ReasonOutOfTurn        = "out_of_turn"
	ReasonIllegalAction    = "illegal_action"
	ReasonNoActionExpected = "no_action_expected"
	ReasonApplyFailed      = "action_apply_failed"
	ReasonEncodeFailed     = "encode_failed"
)

type ReplayError struct {
	StepIndex int32          `json:"step_index"`
	Reason    string         `json:"reason"`
	Message   string         `json:"message"`
	Expected  *ExpectedState `json:"expected,omitempty"`
}

// ExpectedState is what the game was waiting for when a step failed.
type ExpectedState struct {
	ActiveSeat   int      `json:"active_seat"`
	Responding   bool     `json:"responding,omitempty"`
	LegalActions []string `json:"legal_actions,omitempty"`
	Hand         int      `json:"hand"`
	Round        int      `json:"round"`
	HandCards    []string `json:"hand_cards,omitempty"`
}

func (e *ReplayError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("replay error(step=%d reason=%s): %s", e.StepIndex, e.Reason, e.Message)
}

func specError(format string, args ...any) *ReplayError {
	return &ReplayError{StepIndex: -1, Reason: ReasonInvalidSpec, Message: fmt.Sprintf(format, args...)}
}
