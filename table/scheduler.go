package table

import (
	"context"

	"github.com/sirupsen/logrus"

	"truco-lite/eventbus"
	"truco-lite/truco"
)

// scheduleNPC hands the latest turn of a published batch to the NPC owning
// the seat. The task is dropped if another turn started in the meantime.
func (e *Engine) scheduleNPC(msgs []eventbus.Message) {
	var (
		last  eventbus.Message
		found bool
	)
	for _, msg := range msgs {
		if msg.Event.Kind() == truco.EventTurnStarted {
			last, found = msg, true
		}
	}
	if !found {
		return
	}
	turn := last.Event.(truco.TurnStarted)
	if e.npc.Instance(last.GameID, turn.Seat) == nil {
		return
	}
	delay := e.npc.ThinkDelay(last.GameID, turn.Seat)
	e.runner.Go(func() {
		e.sleeper.Sleep(delay)
		if !e.turnCurrent(last.GameID, last.Seq) {
			return
		}
		e.playNPC(last.GameID, turn.Seat, last.Seq)
	})
}

func (e *Engine) turnCurrent(gameID string, seq uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.turns[gameID] == seq
}

func (e *Engine) playNPC(gameID string, seat int, turnSeq uint64) {
	log := e.log.WithFields(logrus.Fields{"game": gameID, "seat": seat})
	res, err := e.submit(context.Background(), gameID, func(st *truco.State) (truco.Command, bool) {
		if st.Status != truco.StatusInProgress || st.ActiveSeat != seat || !e.turnCurrent(gameID, turnSeq) {
			return truco.Command{}, false
		}
		return e.npc.OnTurn(st, seat)
	})
	if err != nil {
		log.WithError(err).Error("[Engine] NPC command failed")
		return
	}
	if !res.Accepted && res.Reason != "" {
		log.WithField("reason", res.Reason).Warn("[Engine] NPC command rejected")
	}
}

func (e *Engine) onGameCompleted(msg eventbus.Message) {
	done := msg.Event.(truco.GameCompleted)
	e.npc.Despawn(msg.GameID)
	e.mu.Lock()
	delete(e.turns, msg.GameID)
	e.mu.Unlock()
	e.log.WithFields(logrus.Fields{
		"game":   msg.GameID,
		"winner": done.Winner.String(),
		"scores": done.Scores,
	}).Info("[Engine] game completed")
}
