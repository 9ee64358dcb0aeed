package gateway

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"truco-lite/apps/server/internal/lobby"
	"truco-lite/store"
	"truco-lite/table"
	"truco-lite/truco"
	"truco-lite/truco/npc"
)

type envelope struct {
	Type      string         `json:"type"`
	GameID    string         `json:"game_id"`
	ServerSeq float64        `json:"server_seq"`
	Payload   map[string]any `json:"payload"`
}

func newTestServer(t *testing.T) *websocket.Conn {
	t.Helper()
	log, _ := test.NewNullLogger()
	rng := truco.NewRandom(8)
	engine := table.New(table.Options{
		Store:   store.NewMemoryStore(),
		NPC:     npc.NewManager(nil, npc.ThinkConfig{}, rng, log),
		Sleeper: table.NoSleep,
		Runner:  &table.QueueRunner{},
		Rand:    rng,
		Log:     log,
	})
	cfg := truco.DefaultConfig()
	dealer := 3
	cfg.ForcedDealerSeat = &dealer
	lby := lobby.New(engine, log, lobby.Options{HashCost: bcrypt.MinCost, Config: cfg})
	gw := New(lby, log)

	mux := http.NewServeMux()
	gw.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil returns the first envelope of type kind matching ok.
func readUntil(t *testing.T, conn *websocket.Conn, kind string, ok func(envelope) bool) envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var env envelope
		require.NoError(t, conn.ReadJSON(&env), "waiting for %s", kind)
		if env.Type == kind && (ok == nil || ok(env)) {
			return env
		}
	}
}

func TestGatewayCreateAndPlay(t *testing.T) {
	conn := newTestServer(t)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": MsgCreate}))
	ticket := readUntil(t, conn, typeTicket, nil)
	assert.NotEmpty(t, ticket.Payload["token"])
	assert.Equal(t, float64(0), ticket.Payload["seat"])

	snap := readUntil(t, conn, "snapshot", nil)
	players := snap.Payload["players"].([]any)
	assert.Len(t, players[0].(map[string]any)["hand"], 3)
	assert.Equal(t, []any{"back", "back", "back"}, players[2].(map[string]any)["hand"])

	played := playRound(t, conn)
	for seat := 0; seat < truco.NumSeats; seat++ {
		assert.Contains(t, played, float64(seat), "seat %d never played", seat)
	}
}

// playRound answers the human's prompts until the first round completes:
// pending calls are accepted, otherwise the first card is played. It returns
// the seats seen in card_played events.
func playRound(t *testing.T, conn *websocket.Conn) []any {
	t.Helper()
	var seats []any
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var env envelope
		require.NoError(t, conn.ReadJSON(&env), "waiting for round_completed")
		switch env.Type {
		case "action_prompt":
			if env.Payload["responding"] == true {
				require.NoError(t, conn.WriteJSON(map[string]any{"type": MsgCommand, "kind": "accept_truco"}))
				continue
			}
			require.NoError(t, conn.WriteJSON(map[string]any{"type": MsgCommand, "kind": "play_card", "card_index": 0}))
		case "card_played":
			assert.Greater(t, env.ServerSeq, float64(0))
			seats = append(seats, env.Payload["seat"])
		case "error":
			t.Fatalf("command rejected: %v", env.Payload["message"])
		case "round_completed":
			return seats
		}
	}
}

func TestGatewayErrors(t *testing.T) {
	conn := newTestServer(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{")))
	env := readUntil(t, conn, "error", nil)
	assert.Equal(t, float64(ErrCodeBadMessage), env.Payload["code"])

	require.NoError(t, conn.WriteJSON(map[string]any{"type": MsgCommand, "kind": "play_card"}))
	env = readUntil(t, conn, "error", nil)
	assert.Equal(t, float64(ErrCodeNotJoined), env.Payload["code"])

	require.NoError(t, conn.WriteJSON(map[string]any{"type": MsgJoin, "game_id": "nope", "token": "x"}))
	env = readUntil(t, conn, "error", nil)
	assert.Equal(t, float64(ErrCodeAuth), env.Payload["code"])

	require.NoError(t, conn.WriteJSON(map[string]any{"type": MsgCreate}))
	readUntil(t, conn, "action_prompt", nil)
	require.NoError(t, conn.WriteJSON(map[string]any{"type": MsgCommand, "kind": "accept_truco"}))
	env = readUntil(t, conn, "error", nil)
	assert.Equal(t, float64(ErrCodeRejected), env.Payload["code"])
	assert.Equal(t, truco.ReasonNoCallPending, env.Payload["message"])
}

func TestGatewayResync(t *testing.T) {
	conn := newTestServer(t)
	require.NoError(t, conn.WriteJSON(map[string]any{"type": MsgCreate}))
	readUntil(t, conn, "action_prompt", nil)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": MsgResync, "after_seq": 0}))
	first := readUntil(t, conn, "hand_started", nil)
	assert.Equal(t, float64(1), first.ServerSeq)
	readUntil(t, conn, "turn_started", nil)
	readUntil(t, conn, "snapshot", nil)
}
