package lobby

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"truco-lite/codec"
	"truco-lite/replay"
	"truco-lite/truco"
)

type HTTPHandler struct {
	lobby *Lobby
}

type errorResponse struct {
	Error string `json:"error"`
}

type commandRequest struct {
	Kind      truco.CommandKind `json:"kind"`
	CardIndex int               `json:"card_index"`
}

type replayRequest struct {
	Spec *replay.GameSpec `json:"spec"`
}

func NewHTTPHandler(l *Lobby) *HTTPHandler {
	return &HTTPHandler{lobby: l}
}

func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/games", h.handleGames)
	mux.HandleFunc("/api/games/", h.handleGame)
	mux.HandleFunc("/api/replay", h.handleReplay)
}

func (h *HTTPHandler) handleGames(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		ticket, snap, err := h.lobby.QuickStart(ctx)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "create game failed")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"ticket":   ticket,
			"snapshot": codec.SnapshotPayload(snap),
		})
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"games": h.lobby.ListGames()})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleGame serves /api/games/{id}, /api/games/{id}/events and
// /api/games/{id}/commands.
func (h *HTTPHandler) handleGame(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/games/"), "/")
	if path == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	parts := strings.Split(path, "/")
	gameID := parts[0]

	seat, ok := h.resolveSeat(w, r, gameID)
	if !ok {
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.handleSnapshot(w, r, gameID, seat)
	case len(parts) == 2 && parts[1] == "events" && r.Method == http.MethodGet:
		h.handleEvents(w, r, gameID)
	case len(parts) == 2 && parts[1] == "commands" && r.Method == http.MethodPost:
		h.handleCommand(w, r, gameID, seat)
	case len(parts) <= 2:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *HTTPHandler) handleSnapshot(w http.ResponseWriter, r *http.Request, gameID string, seat int) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	snap, err := h.lobby.Engine().Snapshot(ctx, gameID, seat)
	if err != nil {
		writeLookupError(w, err, "query game failed")
		return
	}
	actions, err := h.lobby.Engine().LegalActions(ctx, gameID, seat)
	if err != nil {
		writeLookupError(w, err, "query game failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"snapshot":      codec.SnapshotPayload(snap),
		"legal_actions": actions,
	})
}

func (h *HTTPHandler) handleEvents(w http.ResponseWriter, r *http.Request, gameID string) {
	after := parseSeq(r.URL.Query().Get("after"))
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	items, err := h.lobby.Engine().Events(ctx, gameID, after)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "query events failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"game_id": gameID,
		"events":  items,
	})
}

func (h *HTTPHandler) handleCommand(w http.ResponseWriter, r *http.Request, gameID string, seat int) {
	var req commandRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil || !req.Kind.Valid() {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	res, err := h.lobby.Engine().Submit(ctx, gameID, truco.Command{Kind: req.Kind, Seat: seat, CardIndex: req.CardIndex})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "submit command failed")
		return
	}
	kinds := make([]string, 0, len(res.Events))
	for _, ev := range res.Events {
		kinds = append(kinds, string(ev.Kind()))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"accepted": res.Accepted,
		"reason":   res.Reason,
		"events":   kinds,
	})
}

func (h *HTTPHandler) handleReplay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req replayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Spec == nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tape, err := replay.GenerateReplayTape(*req.Spec)
	if err != nil {
		var replayErr *replay.ReplayError
		if errors.As(err, &replayErr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": replayErr})
			return
		}
		writeError(w, http.StatusInternalServerError, "replay generation failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tape": replay.ToWireReplayTape(tape)})
}

func (h *HTTPHandler) resolveSeat(w http.ResponseWriter, r *http.Request, gameID string) (int, bool) {
	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing seat token")
		return truco.InvalidSeat, false
	}
	seat, err := h.lobby.Authorize(gameID, token)
	switch {
	case errors.Is(err, ErrGameNotFound):
		writeError(w, http.StatusNotFound, "game not found")
		return truco.InvalidSeat, false
	case err != nil:
		writeError(w, http.StatusUnauthorized, "invalid seat token")
		return truco.InvalidSeat, false
	}
	return seat, true
}

func writeLookupError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, ErrGameNotFound) {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}
	writeError(w, http.StatusInternalServerError, msg)
}

func parseSeq(raw string) uint64 {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func bearerToken(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
