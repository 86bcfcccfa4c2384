package controller

import (
	"slices"
	"sync"
	"time"
)

// EventKind labels what happened to a message inside the relay engine.
type EventKind string

const (
	EventReceived  EventKind = "received"
	EventRelayed   EventKind = "relayed"
	EventSent      EventKind = "sent"
	EventDropped   EventKind = "dropped"
	EventMalformed EventKind = "malformed"
	EventStack     EventKind = "stack-report"
	EventProbe     EventKind = "probe"
	EventLoopExit  EventKind = "loop-exit"
)

// Event is one observable relay engine occurrence. The relay loops
// produce these; the web and MCP surfaces consume them.
type Event struct {
	Time   time.Time `json:"time"`
	Kind   EventKind `json:"kind"`
	Role   string    `json:"role,omitempty"`
	Type   string    `json:"type,omitempty"`
	Data   uint32    `json:"data,omitempty"`
	Detail string    `json:"detail,omitempty"`
}

// Counters aggregate relay activity since startup.
type Counters struct {
	Received  uint64 `json:"received"`
	Relayed   uint64 `json:"relayed"`
	Sent      uint64 `json:"sent"`
	Dropped   uint64 `json:"dropped"`
	Malformed uint64 `json:"malformed"`
	Probes    uint64 `json:"probes"`
}

const eventCapacity = 256

// eventLog keeps the most recent events in a fixed-size ring plus
// running counters. Subscriber callbacks run inline on the recording
// goroutine.
type eventLog struct {
	mu       sync.RWMutex
	ring     []Event
	counters Counters
	subs     []func(Event)
}

func newEventLog() *eventLog {
	return &eventLog{}
}

func (l *eventLog) Subscribe(fn func(Event)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subs = append(l.subs, fn)
}

func (l *eventLog) Record(ev Event) {
	ev.Time = time.Now()

	l.mu.Lock()
	switch ev.Kind {
	case EventReceived:
		l.counters.Received++
	case EventRelayed:
		l.counters.Relayed++
	case EventSent:
		l.counters.Sent++
	case EventDropped:
		l.counters.Dropped++
	case EventMalformed:
		l.counters.Malformed++
	case EventProbe:
		l.counters.Probes++
	}
	l.ring = append(l.ring, ev)
	if len(l.ring) > eventCapacity {
		l.ring = l.ring[len(l.ring)-eventCapacity:]
	}
	subs := slices.Clone(l.subs)
	l.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

// Recent returns a copy of the retained events, oldest first.
func (l *eventLog) Recent() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.ring)
}

func (l *eventLog) Counters() Counters {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.counters
}
