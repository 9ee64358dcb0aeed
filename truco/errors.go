package truco

import "errors"

var (
	ErrGameCompleted = errors.New("game already completed")
	ErrUnknownSeat   = errors.New("unknown seat")
)

// Human-readable rejection reasons.
const (
	ReasonNotYourTurn        = "not your turn"
	ReasonCallPending        = "truco call pending"
	ReasonNoCallPending      = "no truco call pending"
	ReasonBadCardIndex       = "invalid card index"
	ReasonTeamAlreadyCalled  = "team already called"
	ReasonStakesAtMaximum    = "stakes already at maximum"
	ReasonNotRespondingTeam  = "only the challenged team can answer"
	ReasonLastHandNoCalls    = "Mão de 10: Truco disabled"
	ReasonBothLastHandNoCall = "Mão de ferro: Truco disabled"
	ReasonGameCompleted      = "game already completed"
	ReasonAlreadyPlayed      = "seat already played this round"
)

// RuleViolation is an expected rejection of a command; never fatal.
type RuleViolation struct {
	Reason string
}

func (e *RuleViolation) Error() string { return "rule violation: " + e.Reason }

func reject(reason string) error { return &RuleViolation{Reason: reason} }

// IsRuleViolation extracts the rejection reason from err, if any.
func IsRuleViolation(err error) (string, bool) {
	var rv *RuleViolation
	if errors.As(err, &rv) {
		return rv.Reason, true
	}
	return "", false
}

type InvalidStateError string

func (e InvalidStateError) Error() string { return "invalid state: " + string(e) }

func ErrInvalidState(msg string) error { return InvalidStateError(msg) }
