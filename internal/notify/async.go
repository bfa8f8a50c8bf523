package notify

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrQueueFull is returned by Async.Send when the queue has no room.
var ErrQueueFull = errors.New("notification queue full")

// ErrClosed is returned by Async.Send after Close.
var ErrClosed = errors.New("notifier closed")

// Async hands messages to a background worker so the caller never blocks on
// delivery. Delivery errors are logged by the worker.
type Async struct {
	next  Notifier
	queue chan Message
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewAsync starts a worker delivering through next with a queue of size n.
func NewAsync(next Notifier, n int) *Async {
	if n <= 0 {
		n = 1
	}
	a := &Async{
		next:  next,
		queue: make(chan Message, n),
		done:  make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Async) run() {
	defer close(a.done)
	for msg := range a.queue {
		if err := a.next.Send(context.Background(), msg); err != nil {
			log.Warn().Err(err).Str("event", msg.EventID).Msg("Notification delivery failed")
			continue
		}
		log.Info().Str("event", msg.EventID).Msg("Notification sent")
	}
}

// Queued reports whether n only enqueues messages, so a nil error from Send
// does not mean the message was delivered.
func Queued(n Notifier) bool {
	_, ok := n.(*Async)
	return ok
}

// Send implements Notifier. It only reports queueing failures.
func (a *Async) Send(_ context.Context, msg Message) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}
	select {
	case a.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting messages and waits for queued ones to be delivered.
func (a *Async) Close() {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()
	<-a.done
}
