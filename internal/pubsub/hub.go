package pubsub

import (
	"sync"

	"github.com/guilhermegouw/agrochat/internal/events"
)

// Hub owns the domain brokers for one running client.
type Hub struct { //nolint:govet // fieldalignment: preserving logical field order
	Session *Broker[events.SessionEvent]
	Request *Broker[events.RequestEvent]
	Notice  *Broker[events.Notice]

	registry *Registry
	done     chan struct{}
}

// NewHub creates a Hub with every broker registered. The request broker
// replays its last event so late subscribers see the current loading state.
func NewHub() *Hub {
	h := &Hub{
		Session:  NewBroker[events.SessionEvent]("session"),
		Request:  NewBroker[events.RequestEvent]("request", WithReplayLast[events.RequestEvent]()),
		Notice:   NewBroker[events.Notice]("notice"),
		registry: NewRegistry(),
		done:     make(chan struct{}),
	}

	h.registry.Register(h.Session.Name(), h.Session)
	h.registry.Register(h.Request.Name(), h.Request)
	h.registry.Register(h.Notice.Name(), h.Notice)

	return h
}

// Shutdown shuts down every broker. Safe to call more than once.
func (h *Hub) Shutdown() {
	select {
	case <-h.done:
		return
	default:
		close(h.done)
	}

	var wg sync.WaitGroup
	for _, shutdown := range []func(){h.Session.Shutdown, h.Request.Shutdown, h.Notice.Shutdown} {
		wg.Add(1)
		go func(fn func()) {
			defer wg.Done()
			fn()
		}(shutdown)
	}
	wg.Wait()
}

// IsShutdown returns true if the hub has been shut down.
func (h *Hub) IsShutdown() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that's closed when the hub is shut down.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Registry returns the debug registry for introspection.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Loading reports the loading flag carried by the last request event.
func (h *Hub) Loading() bool {
	ev, ok := h.Request.Last()
	return ok && ev.Payload.Loading
}

// AllMetrics returns metrics for all brokers.
func (h *Hub) AllMetrics() []BrokerMetrics {
	return []BrokerMetrics{
		h.Session.Metrics(),
		h.Request.Metrics(),
		h.Notice.Metrics(),
	}
}

// DebugString returns a formatted debug string for all brokers.
func (h *Hub) DebugString() string {
	return h.registry.DebugString()
}
