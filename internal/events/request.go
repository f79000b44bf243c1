// Package events defines the domain events published on the pub/sub hub.
package events

import "time"

// RequestKind identifies the backend operation a request belongs to.
type RequestKind string

// Request kinds tracked for the loading indicator.
const (
	RequestCreate   RequestKind = "create"
	RequestAsk      RequestKind = "ask"
	RequestFollowUp RequestKind = "follow_up"
	RequestDelete   RequestKind = "delete"
	RequestClear    RequestKind = "clear"
	RequestHistory  RequestKind = "history"
	RequestList     RequestKind = "list"
)

// RequestPhase is the state of a single in-flight request.
type RequestPhase string

// Request phases: Idle -> Pending -> {Success, Failure}.
const (
	RequestPending RequestPhase = "pending"
	RequestSuccess RequestPhase = "success"
	RequestFailure RequestPhase = "failure"
)

// RequestEvent reports a transition of one backend request.
type RequestEvent struct {
	ID        string
	SessionID string
	Kind      RequestKind
	Phase     RequestPhase
	Error     string
	Duration  time.Duration
	Timestamp time.Time

	// Loading is the OR of every tracked in-flight request after this transition.
	Loading bool
}

// NewRequestPendingEvent creates a pending request event.
func NewRequestPendingEvent(id, sessionID string, kind RequestKind) RequestEvent {
	return RequestEvent{
		ID:        id,
		SessionID: sessionID,
		Kind:      kind,
		Phase:     RequestPending,
		Loading:   true,
		Timestamp: time.Now(),
	}
}

// NewRequestDoneEvent creates a success or failure event depending on err.
func NewRequestDoneEvent(id, sessionID string, kind RequestKind, err error, took time.Duration, loading bool) RequestEvent {
	ev := RequestEvent{
		ID:        id,
		SessionID: sessionID,
		Kind:      kind,
		Phase:     RequestSuccess,
		Duration:  took,
		Loading:   loading,
		Timestamp: time.Now(),
	}
	if err != nil {
		ev.Phase = RequestFailure
		ev.Error = err.Error()
	}
	return ev
}
