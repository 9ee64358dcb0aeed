package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/types/known/structpb"

	"truco-lite/apps/server/internal/lobby"
	"truco-lite/codec"
	"truco-lite/eventbus"
	"truco-lite/table"
	"truco-lite/truco"
)

// Client message types.
const (
	MsgCreate  = "create"
	MsgJoin    = "join"
	MsgCommand = "command"
	MsgResync  = "resync"
)

// Error codes sent in "error" envelopes.
const (
	ErrCodeBadMessage  = 1
	ErrCodeCreate      = 2
	ErrCodeNotJoined   = 3
	ErrCodeRejected    = 4
	ErrCodeUnavailable = 5
	ErrCodeAuth        = 6
)

const typeTicket = "ticket"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: check Origin against an allow-list before exposing beyond localhost
	},
}

type clientMessage struct {
	Type      string            `json:"type"`
	GameID    string            `json:"game_id,omitempty"`
	Token     string            `json:"token,omitempty"`
	Kind      truco.CommandKind `json:"kind,omitempty"`
	CardIndex int               `json:"card_index,omitempty"`
	AfterSeq  uint64            `json:"after_seq,omitempty"`
}

// Connection is one websocket client, bound to at most one seat.
type Connection struct {
	ID       string
	Conn     *websocket.Conn
	Send     chan []byte
	Gateway  *Gateway
	LastPing time.Time

	mu     sync.RWMutex
	gameID string
	seat   int
}

func (c *Connection) binding() (string, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gameID, c.seat
}

// Gateway speaks JSON envelopes over websockets and relays committed
// events to the clients seated in each game.
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	byGame      map[string]map[string]*Connection
	nextConnID  uint64
	lobby       *lobby.Lobby
	engine      *table.Engine
	log         logrus.FieldLogger
}

func New(lby *lobby.Lobby, log logrus.FieldLogger) *Gateway {
	if log == nil {
		log = logrus.StandardLogger()
	}
	g := &Gateway{
		connections: make(map[string]*Connection),
		byGame:      make(map[string]map[string]*Connection),
		lobby:       lby,
		engine:      lby.Engine(),
		log:         log,
	}
	g.engine.Bus().SubscribeAll(g.onEvent)
	return g
}

// HandleWebSocket handles WebSocket upgrade and connection
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.WithError(err).Warn("[Gateway] Upgrade error")
		return
	}

	g.mu.Lock()
	g.nextConnID++
	c := &Connection{
		ID:       fmt.Sprintf("conn_%d", g.nextConnID),
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Gateway:  g,
		LastPing: time.Now(),
		seat:     truco.InvalidSeat,
	}
	g.connections[c.ID] = c
	total := len(g.connections)
	g.mu.Unlock()

	g.log.WithFields(logrus.Fields{"conn": c.ID, "total": total}).Info("[Gateway] Client connected")

	go c.readPump()
	go c.writePump()
}

func (c *Connection) readPump() {
	defer func() {
		c.Gateway.removeConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(65536)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		c.LastPing = time.Now()
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Gateway.log.WithError(err).Warn("[Gateway] Read error")
			}
			break
		}
		c.handleMessage(message)
	}
}

func (c *Connection) handleMessage(data []byte) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeBadMessage, "invalid message format")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch msg.Type {
	case MsgCreate:
		c.handleCreate(ctx)
	case MsgJoin:
		c.handleJoin(ctx, msg.GameID, msg.Token)
	case MsgCommand:
		c.handleCommand(ctx, msg)
	case MsgResync:
		c.handleResync(ctx, msg.AfterSeq)
	default:
		c.sendError(ErrCodeBadMessage, "unknown message type "+msg.Type)
	}
}

func (c *Connection) handleCreate(ctx context.Context) {
	ticket, _, err := c.Gateway.lobby.QuickStart(ctx)
	if err != nil {
		c.Gateway.log.WithError(err).Error("[Gateway] create game failed")
		c.sendError(ErrCodeCreate, "create game failed")
		return
	}
	c.sendPayload(ticket.GameID, typeTicket, map[string]any{
		"game_id": ticket.GameID,
		"seat":    ticket.Seat,
		"token":   ticket.Token,
	})
	c.handleJoin(ctx, ticket.GameID, ticket.Token)
}

func (c *Connection) handleJoin(ctx context.Context, gameID, token string) {
	seat, err := c.Gateway.lobby.Authorize(gameID, token)
	if err != nil {
		c.sendError(ErrCodeAuth, err.Error())
		return
	}
	c.Gateway.bind(c, gameID, seat)
	c.Gateway.log.WithFields(logrus.Fields{"conn": c.ID, "game": gameID, "seat": seat}).Info("[Gateway] joined game")

	c.sendSnapshot(ctx)
	c.sendPrompt(ctx)
}

func (c *Connection) handleCommand(ctx context.Context, msg clientMessage) {
	gameID, seat := c.binding()
	if gameID == "" {
		c.sendError(ErrCodeNotJoined, "not in a game")
		return
	}
	res, err := c.Gateway.engine.Submit(ctx, gameID, truco.Command{Kind: msg.Kind, Seat: seat, CardIndex: msg.CardIndex})
	if err != nil {
		c.Gateway.log.WithError(err).WithField("game", gameID).Error("[Gateway] submit failed")
		c.sendError(ErrCodeUnavailable, "command failed")
		return
	}
	if !res.Accepted {
		c.sendError(ErrCodeRejected, res.Reason)
	}
}

// handleResync replays the stored event log after afterSeq.
func (c *Connection) handleResync(ctx context.Context, afterSeq uint64) {
	gameID, _ := c.binding()
	if gameID == "" {
		c.sendError(ErrCodeNotJoined, "not in a game")
		return
	}
	items, err := c.Gateway.engine.Events(ctx, gameID, afterSeq)
	if err != nil {
		c.sendError(ErrCodeUnavailable, "event log unavailable")
		return
	}
	for _, it := range items {
		env, err := codec.DecodeB64(it.EnvelopeB64)
		if err != nil {
			c.Gateway.log.WithError(err).WithFields(logrus.Fields{"game": gameID, "seq": it.Seq}).Error("[Gateway] corrupt event log entry")
			continue
		}
		c.sendEnvelope(env)
	}
	c.sendSnapshot(ctx)
}

func (c *Connection) sendSnapshot(ctx context.Context) {
	gameID, seat := c.binding()
	snap, err := c.Gateway.engine.Snapshot(ctx, gameID, seat)
	if err != nil {
		c.sendError(ErrCodeUnavailable, err.Error())
		return
	}
	c.sendPayload(gameID, codec.TypeSnapshot, codec.SnapshotPayload(snap))
}

// sendPrompt tells the client its legal actions when it is its turn.
func (c *Connection) sendPrompt(ctx context.Context) {
	gameID, seat := c.binding()
	actions, err := c.Gateway.engine.LegalActions(ctx, gameID, seat)
	if err != nil || len(actions) == 0 {
		return
	}
	snap, err := c.Gateway.engine.Snapshot(ctx, gameID, seat)
	if err != nil {
		return
	}
	c.sendPayload(gameID, codec.TypeActionPrompt, codec.PromptPayload(seat, snap.PendingTeam != truco.TeamNone, actions))
}

func (c *Connection) sendError(code int32, msg string) {
	gameID, _ := c.binding()
	c.sendPayload(gameID, codec.TypeError, map[string]any{"code": code, "message": msg})
}

// sendPayload sends an out-of-band envelope; those carry seq 0.
func (c *Connection) sendPayload(gameID, kind string, payload map[string]any) {
	env, err := codec.Wrap(uuid.NewString(), gameID, 0, kind, payload, time.Now())
	if err != nil {
		c.Gateway.log.WithError(err).Error("[Gateway] wrap failed")
		return
	}
	c.sendEnvelope(env)
}

func (c *Connection) sendEnvelope(env *structpb.Struct) {
	data, err := codec.JSON(env)
	if err != nil {
		c.Gateway.log.WithError(err).Error("[Gateway] encode failed")
		return
	}
	select {
	case c.Send <- data:
	default:
		// Drop if buffer full
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (g *Gateway) bind(c *Connection, gameID string, seat int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c.mu.Lock()
	if old := c.gameID; old != "" {
		delete(g.byGame[old], c.ID)
	}
	c.gameID, c.seat = gameID, seat
	c.mu.Unlock()
	if g.byGame[gameID] == nil {
		g.byGame[gameID] = make(map[string]*Connection)
	}
	g.byGame[gameID][c.ID] = c
}

func (g *Gateway) removeConnection(c *Connection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.connections, c.ID)
	if gameID, _ := c.binding(); gameID != "" {
		delete(g.byGame[gameID], c.ID)
		if len(g.byGame[gameID]) == 0 {
			delete(g.byGame, gameID)
		}
	}
	g.log.WithFields(logrus.Fields{"conn": c.ID, "total": len(g.connections)}).Info("[Gateway] Client disconnected")
}

func (g *Gateway) subscribers(gameID string) []*Connection {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Connection, 0, len(g.byGame[gameID]))
	for _, c := range g.byGame[gameID] {
		out = append(out, c)
	}
	return out
}

// onEvent relays one committed event. A new deal is followed by each
// client's own snapshot, and a turn by the prompt for its seat.
func (g *Gateway) onEvent(msg eventbus.Message) {
	conns := g.subscribers(msg.GameID)
	if len(conns) == 0 {
		return
	}
	env, err := codec.WrapEvent(msg.GameID, msg.Seq, msg.Event, time.Now())
	if err != nil {
		g.log.WithError(err).WithField("game", msg.GameID).Error("[Gateway] wrap event failed")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, c := range conns {
		c.sendEnvelope(env)
		switch ev := msg.Event.(type) {
		case truco.HandStarted:
			c.sendSnapshot(ctx)
		case truco.TurnStarted:
			if _, seat := c.binding(); seat == ev.Seat {
				c.sendPrompt(ctx)
			}
		}
	}
}

// Close disconnects every client.
func (g *Gateway) Close() error {
	g.mu.RLock()
	conns := make([]*Connection, 0, len(g.connections))
	for _, c := range g.connections {
		conns = append(conns, c)
	}
	g.mu.RUnlock()
	for _, c := range conns {
		_ = c.Conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		c.Conn.Close()
	}
	return nil
}
