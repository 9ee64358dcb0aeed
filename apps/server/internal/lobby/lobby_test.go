package lobby

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"truco-lite/store"
	"truco-lite/table"
	"truco-lite/truco"
	"truco-lite/truco/npc"
)

func newTestLobby(t *testing.T) *Lobby {
	t.Helper()
	log, _ := test.NewNullLogger()
	rng := truco.NewRandom(17)
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
	return New(engine, log, Options{HashCost: bcrypt.MinCost, Config: cfg})
}

func TestQuickStartIssuesSeatToken(t *testing.T) {
	l := newTestLobby(t)
	ticket, snap, err := l.QuickStart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, ticket.Seat)
	assert.NotEmpty(t, ticket.Token)
	assert.Equal(t, ticket.GameID, snap.GameID)
	assert.Equal(t, []string{ticket.GameID}, l.ListGames())

	seat, err := l.Authorize(ticket.GameID, ticket.Token)
	require.NoError(t, err)
	assert.Equal(t, 0, seat)

	_, err = l.Authorize(ticket.GameID, "wrong")
	assert.ErrorIs(t, err, ErrBadToken)
	_, err = l.Authorize("missing", ticket.Token)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHTTPGameFlow(t *testing.T) {
	mux := http.NewServeMux()
	NewHTTPHandler(newTestLobby(t)).RegisterRoutes(mux)

	rec := do(t, mux, http.MethodPost, "/api/games", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Ticket   Ticket         `json:"ticket"`
		Snapshot map[string]any `json:"snapshot"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id, token := created.Ticket.GameID, created.Ticket.Token

	rec = do(t, mux, http.MethodGet, "/api/games/"+id, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		Snapshot     map[string]any `json:"snapshot"`
		LegalActions []string       `json:"legal_actions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Contains(t, view.LegalActions, "play_card")
	players := view.Snapshot["players"].([]any)
	assert.Equal(t, []any{"back", "back", "back"}, players[1].(map[string]any)["hand"])

	rec = do(t, mux, http.MethodPost, "/api/games/"+id+"/commands", token, map[string]any{"kind": "play_card", "card_index": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	var res struct {
		Accepted bool     `json:"accepted"`
		Events   []string `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Accepted)
	assert.Equal(t, "card_played", res.Events[0])

	rec = do(t, mux, http.MethodPost, "/api/games/"+id+"/commands", token, map[string]any{"kind": "accept_truco"})
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.Accepted)

	rec = do(t, mux, http.MethodGet, "/api/games/"+id+"/events?after=1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var log struct {
		Events []store.EventItem `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &log))
	require.NotEmpty(t, log.Events)
	assert.Equal(t, uint64(2), log.Events[0].Seq)
}

func TestHTTPAuthFailures(t *testing.T) {
	l := newTestLobby(t)
	ticket, _, err := l.QuickStart(context.Background())
	require.NoError(t, err)
	mux := http.NewServeMux()
	NewHTTPHandler(l).RegisterRoutes(mux)

	assert.Equal(t, http.StatusUnauthorized, do(t, mux, http.MethodGet, "/api/games/"+ticket.GameID, "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, mux, http.MethodGet, "/api/games/"+ticket.GameID, "nope", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodGet, "/api/games/missing", ticket.Token, nil).Code)
	assert.Equal(t, http.StatusBadRequest,
		do(t, mux, http.MethodPost, "/api/games/"+ticket.GameID+"/commands", ticket.Token, map[string]any{"kind": "nine"}).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, mux, http.MethodDelete, "/api/games", "", nil).Code)
}

func TestHTTPReplay(t *testing.T) {
	mux := http.NewServeMux()
	NewHTTPHandler(newTestLobby(t)).RegisterRoutes(mux)

	spec := map[string]any{"spec": map[string]any{
		"dealer_seat": 3,
		"commands":    []any{map[string]any{"seat": 0, "type": "play_card"}},
	}}
	rec := do(t, mux, http.MethodPost, "/api/replay", "", spec)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "envelopeB64")

	bad := map[string]any{"spec": map[string]any{
		"dealer_seat": 3,
		"commands":    []any{map[string]any{"seat": 2, "type": "play_card"}},
	}}
	rec = do(t, mux, http.MethodPost, "/api/replay", "", bad)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "out_of_turn")
}
