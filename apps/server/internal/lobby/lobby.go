package lobby

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"truco-lite/table"
	"truco-lite/truco"
)

var (
	ErrBadToken     = errors.New("invalid seat token")
	ErrGameNotFound = table.ErrGameNotFound
)

// Ticket is handed to the human once; only the token hash is kept.
type Ticket struct {
	GameID string `json:"game_id"`
	Seat   int    `json:"seat"`
	Token  string `json:"token"`
}

type Options struct {
	HashCost int
	Config   truco.Config
}

// Lobby creates games and guards human seats with bearer tokens.
type Lobby struct {
	engine        *table.Engine
	log           logrus.FieldLogger
	hashCost      int
	defaultConfig truco.Config

	mu    sync.RWMutex
	seats map[string]map[int][]byte // game -> seat -> token hash
}

func New(engine *table.Engine, log logrus.FieldLogger, opts Options) *Lobby {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}
	if opts.Config.VictoryScore == 0 {
		opts.Config = truco.DefaultConfig()
	}
	return &Lobby{
		engine:        engine,
		log:           log,
		hashCost:      opts.HashCost,
		defaultConfig: opts.Config,
		seats:         make(map[string]map[int][]byte),
	}
}

func (l *Lobby) Engine() *table.Engine { return l.engine }

// QuickStart creates a game for one human against NPCs and returns the
// human's ticket together with the opening snapshot.
func (l *Lobby) QuickStart(ctx context.Context) (Ticket, truco.Snapshot, error) {
	cfg := l.defaultConfig
	if len(cfg.HumanSeats) == 0 {
		return Ticket{}, truco.Snapshot{}, fmt.Errorf("lobby config has no human seat")
	}
	gameID, snap, err := l.engine.Create(ctx, cfg)
	if err != nil {
		return Ticket{}, truco.Snapshot{}, err
	}
	seat := cfg.HumanSeats[0]
	token, err := l.issue(gameID, seat)
	if err != nil {
		return Ticket{}, truco.Snapshot{}, err
	}
	l.log.WithFields(logrus.Fields{"game": gameID, "seat": seat}).Info("[Lobby] QuickStart: created game")
	return Ticket{GameID: gameID, Seat: seat, Token: token}, snap.Redacted(seat), nil
}

func (l *Lobby) issue(gameID string, seat int) (string, error) {
	token, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("seat token: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), l.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash seat token: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seats[gameID] == nil {
		l.seats[gameID] = make(map[int][]byte)
	}
	l.seats[gameID][seat] = hash
	return token, nil
}

// Authorize resolves token to the seat it was issued for.
func (l *Lobby) Authorize(gameID, token string) (int, error) {
	l.mu.RLock()
	seats, ok := l.seats[gameID]
	if !ok {
		l.mu.RUnlock()
		return truco.InvalidSeat, ErrGameNotFound
	}
	candidates := make(map[int][]byte, len(seats))
	for seat, hash := range seats {
		candidates[seat] = hash
	}
	l.mu.RUnlock()

	for seat, hash := range candidates {
		if bcrypt.CompareHashAndPassword(hash, []byte(token)) == nil {
			return seat, nil
		}
	}
	return truco.InvalidSeat, ErrBadToken
}

// ListGames returns the IDs of games created here.
func (l *Lobby) ListGames() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]string, 0, len(l.seats))
	for id := range l.seats {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
