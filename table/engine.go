// Package table hosts games: it serializes commands per game, persists every
// committed state and drives NPC seats.
package table

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"truco-lite/codec"
	"truco-lite/eventbus"
	"truco-lite/store"
	"truco-lite/truco"
	"truco-lite/truco/npc"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrUnknownSeat  = truco.ErrUnknownSeat
)

const (
	ReasonGameNotFound = "game not found"
	ReasonUnknownSeat  = "unknown seat"
)

// CommandResult is what a caller sees for one submitted command.
type CommandResult struct {
	Accepted bool
	Reason   string
	Events   []truco.Event
}

type Options struct {
	Store   store.Store
	Bus     *eventbus.Bus
	NPC     *npc.Manager
	Sleeper Sleeper
	Runner  Runner
	Rand    truco.Random
	Log     logrus.FieldLogger
	Now     func() time.Time
}

type Engine struct {
	store   store.Store
	bus     *eventbus.Bus
	npc     *npc.Manager
	sleeper Sleeper
	runner  Runner
	rng     truco.Random
	log     logrus.FieldLogger
	now     func() time.Time
	flow    *truco.Flow

	mu    sync.Mutex
	locks map[string]*sync.Mutex
	pubs  map[string]*sync.Mutex // held while a committed batch is published
	seqs  map[string]uint64
	turns map[string]uint64 // seq of the latest committed TurnStarted
}

func New(opts Options) *Engine {
	e := &Engine{
		store:   opts.Store,
		bus:     opts.Bus,
		npc:     opts.NPC,
		sleeper: opts.Sleeper,
		runner:  opts.Runner,
		rng:     opts.Rand,
		log:     opts.Log,
		now:     opts.Now,
		locks:   make(map[string]*sync.Mutex),
		pubs:    make(map[string]*sync.Mutex),
		seqs:    make(map[string]uint64),
		turns:   make(map[string]uint64),
	}
	if e.store == nil {
		e.store = store.NewMemoryStore()
	}
	if e.log == nil {
		e.log = logrus.StandardLogger()
	}
	if e.bus == nil {
		e.bus = eventbus.New(e.log)
	}
	if e.rng == nil {
		e.rng = truco.NewRandom(0)
	}
	if e.npc == nil {
		e.npc = npc.NewManager(nil, npc.DefaultThinkConfig(), e.rng, e.log)
	}
	if e.sleeper == nil {
		e.sleeper = RealSleeper
	}
	if e.runner == nil {
		e.runner = &GoRunner{}
	}
	if e.now == nil {
		e.now = time.Now
	}
	e.flow = truco.NewFlow(e.rng)
	e.bus.Subscribe(truco.EventGameCompleted, e.onGameCompleted)
	return e
}

func (e *Engine) Bus() *eventbus.Bus { return e.bus }

func (e *Engine) gameLock(gameID string) *sync.Mutex {
	return e.mutexFor(e.locks, gameID)
}

func (e *Engine) publishLock(gameID string) *sync.Mutex {
	return e.mutexFor(e.pubs, gameID)
}

func (e *Engine) mutexFor(m map[string]*sync.Mutex, gameID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := m[gameID]
	if !ok {
		l = &sync.Mutex{}
		m[gameID] = l
	}
	return l
}

// Create starts a new game, deals the first hand and seats NPCs on every
// seat not listed in cfg.HumanSeats.
func (e *Engine) Create(ctx context.Context, cfg truco.Config) (string, truco.Snapshot, error) {
	gameID, err := NewGameID()
	if err != nil {
		return "", truco.Snapshot{}, fmt.Errorf("game id: %w", err)
	}
	return e.CreateWithID(ctx, gameID, cfg)
}

func (e *Engine) CreateWithID(ctx context.Context, gameID string, cfg truco.Config) (string, truco.Snapshot, error) {
	lock := e.gameLock(gameID)
	lock.Lock()

	if _, err := e.store.Load(ctx, gameID); err == nil {
		lock.Unlock()
		return "", truco.Snapshot{}, fmt.Errorf("create %s: game already exists", gameID)
	} else if !errors.Is(err, store.ErrNotFound) {
		lock.Unlock()
		return "", truco.Snapshot{}, fmt.Errorf("create %s: %w", gameID, err)
	}
	st, err := truco.NewState(gameID, cfg, e.rng)
	if err != nil {
		lock.Unlock()
		return "", truco.Snapshot{}, fmt.Errorf("create %s: %w", gameID, err)
	}
	events, err := e.flow.Begin(&st)
	if err == nil {
		err = st.Validate()
	}
	if err != nil {
		lock.Unlock()
		return "", truco.Snapshot{}, fmt.Errorf("create %s: %w", gameID, err)
	}
	for i, p := range st.Players {
		if !p.IsAI {
			continue
		}
		inst, err := e.npc.Spawn(gameID, p.Seat)
		if err != nil {
			lock.Unlock()
			e.npc.Despawn(gameID)
			return "", truco.Snapshot{}, fmt.Errorf("create %s: %w", gameID, err)
		}
		st.Players[i].Name = inst.Persona.Name
	}
	if err := e.store.Save(ctx, st); err != nil {
		lock.Unlock()
		e.npc.Despawn(gameID)
		return "", truco.Snapshot{}, fmt.Errorf("save %s: %w", gameID, err)
	}
	msgs := e.record(ctx, gameID, events)
	e.log.WithFields(logrus.Fields{"game": gameID, "dealer": st.DealerSeat}).Info("[Engine] game created")
	e.publish(gameID, lock, msgs)
	return gameID, st.Snapshot(), nil
}

// Submit applies one command. Rule violations and unknown games or seats
// come back as a rejected result; the error is reserved for storage and
// invariant failures, after which the last saved state stays authoritative.
func (e *Engine) Submit(ctx context.Context, gameID string, cmd truco.Command) (CommandResult, error) {
	return e.submit(ctx, gameID, func(*truco.State) (truco.Command, bool) { return cmd, true })
}

// chooser picks the command to apply once the game lock is held.
type chooser func(st *truco.State) (truco.Command, bool)

func (e *Engine) submit(ctx context.Context, gameID string, choose chooser) (CommandResult, error) {
	lock := e.gameLock(gameID)
	lock.Lock()

	st, err := e.store.Load(ctx, gameID)
	if errors.Is(err, store.ErrNotFound) {
		lock.Unlock()
		return CommandResult{Reason: ReasonGameNotFound}, nil
	}
	if err != nil {
		lock.Unlock()
		return CommandResult{}, fmt.Errorf("load %s: %w", gameID, err)
	}
	cmd, ok := choose(&st)
	if !ok {
		lock.Unlock()
		return CommandResult{}, nil
	}
	fields := logrus.Fields{"game": gameID, "seat": cmd.Seat, "kind": cmd.Kind}

	next, events, err := e.flow.Step(st, cmd)
	if err != nil {
		lock.Unlock()
		if reason, ok := truco.IsRuleViolation(err); ok {
			e.log.WithFields(fields).WithField("reason", reason).Debug("[Engine] command rejected")
			return CommandResult{Reason: reason}, nil
		}
		if errors.Is(err, truco.ErrUnknownSeat) {
			return CommandResult{Reason: ReasonUnknownSeat}, nil
		}
		e.log.WithFields(fields).WithError(err).Error("[Engine] command failed")
		return CommandResult{}, err
	}
	if err := next.Validate(); err != nil {
		lock.Unlock()
		e.log.WithFields(fields).WithError(err).Error("[Engine] invariant violated, state not committed")
		return CommandResult{}, err
	}
	if err := e.store.Save(ctx, next); err != nil {
		lock.Unlock()
		e.log.WithFields(fields).WithError(err).Error("[Engine] save failed")
		return CommandResult{}, fmt.Errorf("save %s: %w", gameID, err)
	}
	msgs := e.record(ctx, gameID, events)
	e.log.WithFields(fields).WithField("events", len(events)).Debug("[Engine] command applied")
	e.publish(gameID, lock, msgs)
	return CommandResult{Accepted: true, Events: events}, nil
}

// Resume reattaches a stored game after a restart: NPCs are seated again
// and the seat to act, if it is an NPC, is scheduled.
func (e *Engine) Resume(ctx context.Context, gameID string) error {
	lock := e.gameLock(gameID)
	lock.Lock()
	st, err := e.store.Load(ctx, gameID)
	if errors.Is(err, store.ErrNotFound) {
		lock.Unlock()
		return ErrGameNotFound
	}
	if err != nil {
		lock.Unlock()
		return fmt.Errorf("load %s: %w", gameID, err)
	}
	if st.Status != truco.StatusInProgress {
		lock.Unlock()
		return nil
	}
	for _, p := range st.Players {
		if p.IsAI && e.npc.Instance(gameID, p.Seat) == nil {
			if _, err := e.npc.Spawn(gameID, p.Seat); err != nil {
				lock.Unlock()
				return fmt.Errorf("resume %s: %w", gameID, err)
			}
		}
	}
	seq := e.lastSeq(ctx, gameID)
	e.mu.Lock()
	e.seqs[gameID] = seq
	e.turns[gameID] = seq
	e.mu.Unlock()
	lock.Unlock()

	if st.ActiveSeat == truco.InvalidSeat {
		return nil
	}
	e.log.WithFields(logrus.Fields{"game": gameID, "seat": st.ActiveSeat}).Info("[Engine] game resumed")
	e.scheduleNPC([]eventbus.Message{{
		GameID: gameID,
		Seq:    seq,
		Event: truco.TurnStarted{
			Seat:       st.ActiveSeat,
			Hand:       st.CurrentHand,
			Round:      st.CurrentRound,
			Responding: st.PendingTeam != truco.TeamNone,
		},
	}})
	return nil
}

// Snapshot returns the projection of gameID; hands other than viewerSeat's
// are hidden unless viewerSeat is outside 0..3.
func (e *Engine) Snapshot(ctx context.Context, gameID string, viewerSeat int) (truco.Snapshot, error) {
	st, err := e.store.Load(ctx, gameID)
	if errors.Is(err, store.ErrNotFound) {
		return truco.Snapshot{}, ErrGameNotFound
	}
	if err != nil {
		return truco.Snapshot{}, err
	}
	snap := st.Snapshot()
	if viewerSeat >= 0 && viewerSeat < truco.NumSeats {
		snap = snap.Redacted(viewerSeat)
	}
	return snap, nil
}

// LegalActions lists what seat may submit now.
func (e *Engine) LegalActions(ctx context.Context, gameID string, seat int) ([]truco.CommandKind, error) {
	st, err := e.store.Load(ctx, gameID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	return truco.LegalActions(&st, seat), nil
}

// Events returns the encoded stream after afterSeq.
func (e *Engine) Events(ctx context.Context, gameID string, afterSeq uint64) ([]store.EventItem, error) {
	return e.store.Events(ctx, gameID, afterSeq)
}

// record numbers events and appends them to the event log. Called with the
// game lock held.
func (e *Engine) record(ctx context.Context, gameID string, events []truco.Event) []eventbus.Message {
	seq := e.lastSeq(ctx, gameID)
	now := e.now()
	msgs := make([]eventbus.Message, 0, len(events))
	items := make([]store.EventItem, 0, len(events))
	turn := uint64(0)
	for _, ev := range events {
		seq++
		msgs = append(msgs, eventbus.Message{GameID: gameID, Seq: seq, Event: ev})
		if ev.Kind() == truco.EventTurnStarted {
			turn = seq
		}
		env, err := codec.WrapEvent(gameID, seq, ev, now)
		if err != nil {
			e.log.WithError(err).WithField("game", gameID).Error("[Engine] encode event failed")
			continue
		}
		b64, err := codec.EncodeB64(env)
		if err != nil {
			e.log.WithError(err).WithField("game", gameID).Error("[Engine] marshal event failed")
			continue
		}
		items = append(items, store.EventItem{
			Seq:         seq,
			EventType:   string(ev.Kind()),
			EnvelopeB64: b64,
			ServerTsMs:  now.UnixMilli(),
		})
	}
	e.mu.Lock()
	e.seqs[gameID] = seq
	if turn != 0 {
		e.turns[gameID] = turn
	}
	e.mu.Unlock()
	if err := e.store.AppendEvents(ctx, gameID, items); err != nil {
		e.log.WithError(err).WithField("game", gameID).Error("[Engine] append event log failed")
	}
	return msgs
}

func (e *Engine) lastSeq(ctx context.Context, gameID string) uint64 {
	e.mu.Lock()
	seq, ok := e.seqs[gameID]
	e.mu.Unlock()
	if ok {
		return seq
	}
	items, err := e.store.Events(ctx, gameID, 0)
	if err != nil {
		e.log.WithError(err).WithField("game", gameID).Warn("[Engine] read event log failed")
		return 0
	}
	if n := len(items); n > 0 {
		return items[n-1].Seq
	}
	return 0
}

// publish delivers a committed batch in order, then schedules the NPC
// whose turn it is, if any.
// publish releases the held game lock and delivers msgs. The game's publish
// lock is taken before the game lock is released, so batches of one game
// reach subscribers in commit order. NPC scheduling runs after both are free.
func (e *Engine) publish(gameID string, lock *sync.Mutex, msgs []eventbus.Message) {
	pub := e.publishLock(gameID)
	pub.Lock()
	lock.Unlock()
	for _, msg := range msgs {
		e.bus.Publish(msg)
	}
	pub.Unlock()
	e.scheduleNPC(msgs)
}
