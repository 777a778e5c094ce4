// Package notify surfaces timer fires as desktop notifications. An alert
// marked repeating re-shows on a fixed cadence until the user stops it, so a
// missed toast can't silently eat a spawn window.
package notify

import (
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"go.uber.org/zap"
)

// Sender delivers one notification. Split out so tests can observe delivery
// without a desktop session.
type Sender func(title, body string) error

// Notifier tracks one active alert per timer ID.
type Notifier struct {
	log         *zap.Logger
	send        Sender
	repeatEvery time.Duration

	mu     sync.Mutex
	active map[string]chan struct{}
}

// New builds a Notifier backed by the system notification daemon.
func New(log *zap.Logger, repeatEvery time.Duration) *Notifier {
	return NewWithSender(log, repeatEvery, func(title, body string) error {
		return beeep.Notify(title, body, "")
	})
}

// NewWithSender is New with delivery swapped out.
func NewWithSender(log *zap.Logger, repeatEvery time.Duration, send Sender) *Notifier {
	return &Notifier{
		log:         log,
		send:        send,
		repeatEvery: repeatEvery,
		active:      map[string]chan struct{}{},
	}
}

// Show delivers the alert. With repeat set it keeps re-showing every
// repeatEvery until Stop(id) or a newer Show for the same id. Delivery runs
// entirely off the caller's goroutine: a hung notification daemon must not
// stall the polling cadence. Failures are logged and otherwise ignored.
func (n *Notifier) Show(id, title, body string, repeat bool) {
	n.Stop(id)

	var stop chan struct{}
	if repeat {
		stop = make(chan struct{})
		n.mu.Lock()
		n.active[id] = stop
		n.mu.Unlock()
	}

	go func() {
		if err := n.send(title, body); err != nil {
			n.log.Warn("notification failed", zap.String("timer", id), zap.Error(err))
		}
		if !repeat {
			return
		}

		ticker := time.NewTicker(n.repeatEvery)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if err := n.send(title, body); err != nil {
					n.log.Warn("notification repeat failed", zap.String("timer", id), zap.Error(err))
				}
			}
		}
	}()
}

// Stop dismisses the repeating alert for id, if any.
func (n *Notifier) Stop(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if stop, ok := n.active[id]; ok {
		close(stop)
		delete(n.active, id)
	}
}

// StopAll dismisses every repeating alert.
func (n *Notifier) StopAll() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for id, stop := range n.active {
		close(stop)
		delete(n.active, id)
	}
}
