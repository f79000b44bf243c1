package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/guilhermegouw/agrochat/internal/events"
	"github.com/guilhermegouw/agrochat/internal/pubsub"
)

type request struct {
	sessionID string
	kind      events.RequestKind
	cancel    context.CancelFunc
	start     time.Time
}

// tracker records in-flight backend requests keyed by id.
type tracker struct {
	mu        sync.Mutex
	pending   map[string]*request
	publisher pubsub.Publisher[events.RequestEvent]
}

func newTracker() *tracker {
	return &tracker{pending: make(map[string]*request)}
}

// begin registers a request and returns its context and completion func.
// done must be called exactly once.
func (t *tracker) begin(parent context.Context, sessionID string, kind events.RequestKind) (context.Context, func(error)) {
	ctx, cancel := context.WithCancel(parent)
	id := uuid.New().String()

	t.mu.Lock()
	t.pending[id] = &request{sessionID: sessionID, kind: kind, cancel: cancel, start: time.Now()}
	t.mu.Unlock()

	t.publish(pubsub.EventStarted, events.NewRequestPendingEvent(id, sessionID, kind))

	var once sync.Once
	done := func(err error) {
		once.Do(func() {
			t.mu.Lock()
			req := t.pending[id]
			delete(t.pending, id)
			loading := len(t.pending) > 0
			t.mu.Unlock()

			cancel()
			var took time.Duration
			if req != nil {
				took = time.Since(req.start)
			}
			t.publish(pubsub.EventFinished, events.NewRequestDoneEvent(id, sessionID, kind, err, took, loading))
		})
	}
	return ctx, done
}

// cancelSession cancels every request bound to sessionID and returns how
// many were cancelled. Their done funcs still run.
func (t *tracker) cancelSession(sessionID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for _, req := range t.pending {
		if req.sessionID == sessionID {
			req.cancel()
			n++
		}
	}
	return n
}

func (t *tracker) loading() bool {
	return t.count() > 0
}

func (t *tracker) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

func (t *tracker) publish(typ pubsub.EventType, ev events.RequestEvent) {
	if t.publisher != nil {
		t.publisher.Publish(typ, ev)
	}
}
