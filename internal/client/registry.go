package client

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/nerrad567/gray-logic-ditto/internal/protocol"
)

// Handler receives an inbound envelope.
//
// requestID is the correlation id taken from the command topic. It is empty
// for one-way messages, which expect no reply. Every handler gets its own
// copy of the envelope.
type Handler func(requestID string, env *protocol.Envelope)

// Subscription identifies one registered handler.
type Subscription uuid.UUID

// String returns the subscription id.
func (s Subscription) String() string {
	return uuid.UUID(s).String()
}

type registration struct {
	sub     Subscription
	handler Handler
}

// registry is the ordered set of handlers. Dispatch works on a snapshot so
// the lock is never held while handlers run.
type registry struct {
	mu      sync.RWMutex
	entries []registration
}

func (r *registry) add(handlers ...Handler) []Subscription {
	subs := make([]Subscription, len(handlers))

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, h := range handlers {
		if h == nil {
			continue
		}
		subs[i] = Subscription(uuid.New())
		r.entries = append(r.entries, registration{sub: subs[i], handler: h})
	}
	return subs
}

// remove deletes the given subscriptions in one pass and reports every one
// it did not find.
func (r *registry) remove(subs ...Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, sub := range subs {
		i := slices.IndexFunc(r.entries, func(e registration) bool { return e.sub == sub })
		if i < 0 {
			errs = append(errs, fmt.Errorf("%w: %s", ErrHandlerNotFound, sub))
			continue
		}
		r.entries = slices.Delete(r.entries, i, i+1)
	}
	return errors.Join(errs...)
}

func (r *registry) clear() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.entries)
	r.entries = nil
	return n
}

func (r *registry) snapshot() []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.entries) == 0 {
		return nil
	}
	handlers := make([]Handler, len(r.entries))
	for i, e := range r.entries {
		handlers[i] = e.handler
	}
	return handlers
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
