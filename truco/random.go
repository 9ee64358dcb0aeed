package truco

import (
	"math/rand"
	"sync"
	"time"
)

// Random is the injectable source for shuffles and NPC jitter.
type Random interface {
	// Uniform returns a value in [min, max).
	Uniform(min, max float64) float64
	Shuffle(n int, swap func(i, j int))
	Intn(n int) int
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandom returns a goroutine-safe Random. seed 0 picks a time-based seed.
func NewRandom(seed int64) Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Uniform(min, max float64) float64 {
	if min >= max {
		return min
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return min + l.r.Float64()*(max-min)
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}

func (l *lockedRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}
