// Package eventbus fans committed game events out to in-process subscribers.
package eventbus

import (
	"sync"

	"github.com/sirupsen/logrus"

	"truco-lite/truco"
)

// Message is one committed event of one game.
type Message struct {
	GameID string
	Seq    uint64
	Event  truco.Event
}

type Handler func(msg Message)

// Bus delivers synchronously: handlers for the same kind run in registration
// order, wildcard handlers after them. A panicking handler is logged and
// does not stop delivery to the rest.
type Bus struct {
	mu       sync.RWMutex
	byKind   map[truco.EventKind][]Handler
	wildcard []Handler
	log      logrus.FieldLogger
}

func New(log logrus.FieldLogger) *Bus {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Bus{
		byKind: make(map[truco.EventKind][]Handler),
		log:    log.WithField("component", "eventbus"),
	}
}

func (b *Bus) Subscribe(kind truco.EventKind, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.byKind[kind] = append(b.byKind[kind], h)
}

// SubscribeAll receives every event.
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.wildcard = append(b.wildcard, h)
}

func (b *Bus) Publish(msg Message) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.byKind[msg.Event.Kind()])+len(b.wildcard))
	handlers = append(handlers, b.byKind[msg.Event.Kind()]...)
	handlers = append(handlers, b.wildcard...)
	b.mu.RUnlock()

	for _, h := range handlers {
		b.deliver(h, msg)
	}
}

func (b *Bus) deliver(h Handler, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			b.log.WithFields(logrus.Fields{
				"game":  msg.GameID,
				"seq":   msg.Seq,
				"kind":  msg.Event.Kind(),
				"panic": r,
			}).Error("[EventBus] handler panicked")
		}
	}()
	h(msg)
}
