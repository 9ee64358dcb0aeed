package truco

type CommandKind string

const (
	CmdPlayCard       CommandKind = "play_card"
	CmdFoldRound      CommandKind = "fold_round"
	CmdCallTruco      CommandKind = "call_truco"
	CmdAcceptTruco    CommandKind = "accept_truco"
	CmdSurrenderTruco CommandKind = "surrender_truco"
	CmdSurrenderHand  CommandKind = "surrender_hand"
)

var commandKinds = map[CommandKind]struct{}{
	CmdPlayCard: {}, CmdFoldRound: {}, CmdCallTruco: {},
	CmdAcceptTruco: {}, CmdSurrenderTruco: {}, CmdSurrenderHand: {},
}

func (k CommandKind) Valid() bool {
	_, ok := commandKinds[k]
	return ok
}

// Command is a player intent. CardIndex is only read by PlayCard and FoldRound.
type Command struct {
	Kind      CommandKind `json:"kind"`
	Seat      int         `json:"seat"`
	CardIndex int         `json:"card_index,omitempty"`
}

func PlayCard(seat, idx int) Command  { return Command{Kind: CmdPlayCard, Seat: seat, CardIndex: idx} }
func FoldRound(seat, idx int) Command { return Command{Kind: CmdFoldRound, Seat: seat, CardIndex: idx} }
func RaiseTruco(seat int) Command     { return Command{Kind: CmdCallTruco, Seat: seat} }
func AcceptTruco(seat int) Command    { return Command{Kind: CmdAcceptTruco, Seat: seat} }
func SurrenderTruco(seat int) Command { return Command{Kind: CmdSurrenderTruco, Seat: seat} }
func SurrenderHand(seat int) Command  { return Command{Kind: CmdSurrenderHand, Seat: seat} }
