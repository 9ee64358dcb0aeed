package table

import (
	"sync"
	"time"
)

// Sleeper paces NPC turns.
type Sleeper interface {
	Sleep(d time.Duration)
}

type SleeperFunc func(d time.Duration)

func (f SleeperFunc) Sleep(d time.Duration) { f(d) }

var (
	RealSleeper Sleeper = SleeperFunc(time.Sleep)
	NoSleep     Sleeper = SleeperFunc(func(time.Duration) {})
)

// Runner decides where scheduled NPC work executes.
type Runner interface {
	Go(fn func())
}

// GoRunner runs every task on its own goroutine.
type GoRunner struct {
	wg sync.WaitGroup
}

func (r *GoRunner) Go(fn func()) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		fn()
	}()
}

// Wait blocks until every started task returned.
func (r *GoRunner) Wait() { r.wg.Wait() }

// QueueRunner runs tasks on the calling goroutine. A task scheduled while
// another is running is queued behind it instead of nesting, so a chain of
// NPC turns unrolls as a loop.
type QueueRunner struct {
	mu      sync.Mutex
	queue   []func()
	running bool
}

func (r *QueueRunner) Go(fn func()) {
	r.mu.Lock()
	r.queue = append(r.queue, fn)
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	for {
		r.mu.Lock()
		if len(r.queue) == 0 {
			r.running = false
			r.mu.Unlock()
			return
		}
		next := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		next()
	}
}
