package event

import (
	"sync/atomic"
)

const (
	// QueueSize is the ring capacity, must be a power of two
	QueueSize = 64
	queueMask = QueueSize - 1
)

// stamped tags an event with the sequence number it was pushed under
type stamped struct {
	seq uint64
	ev  RaceEvent
}

// slot is published whole, so a lapping writer never tears a read in progress
type slot struct {
	entry atomic.Pointer[stamped]
}

// EventQueue is a lock-free ring of race events with many producers and one consumer
// When full the oldest unread events are overwritten and counted as dropped
type EventQueue struct {
	slots   [QueueSize]slot
	head    atomic.Uint64 // next read
	tail    atomic.Uint64 // next reservation
	dropped atomic.Uint64
}

func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Push reserves a sequence number and publishes ev under it
func (q *EventQueue) Push(ev RaceEvent) {
	seq := q.tail.Add(1) - 1
	q.slots[seq&queueMask].entry.Store(&stamped{seq: seq, ev: ev})

	floor := seq + 1
	if floor < QueueSize {
		return
	}
	floor -= QueueSize
	for {
		head := q.head.Load()
		if head >= floor {
			return
		}
		if q.head.CompareAndSwap(head, floor) {
			q.dropped.Add(floor - head)
			return
		}
	}
}

// Consume drains published events in push order; nil when nothing is pending
// Stops at the first slot not yet holding its expected sequence number
func (q *EventQueue) Consume() []RaceEvent {
	for {
		head := q.head.Load()
		tail := q.tail.Load()
		if tail <= head {
			return nil
		}
		start := max(head, tail-min(tail, QueueSize))

		var out []RaceEvent
		for seq := start; seq < tail; seq++ {
			e := q.slots[seq&queueMask].entry.Load()
			if e == nil || e.seq != seq {
				break
			}
			out = append(out, e.ev)
		}

		if q.head.CompareAndSwap(head, start+uint64(len(out))) {
			q.dropped.Add(start - head)
			if len(out) == 0 {
				return nil
			}
			return out
		}
	}
}

// Len returns the approximate number of pending events
func (q *EventQueue) Len() int {
	n := q.tail.Load() - min(q.head.Load(), q.tail.Load())
	return int(min(n, QueueSize))
}

// Dropped returns how many events were overwritten unread
func (q *EventQueue) Dropped() uint64 {
	return q.dropped.Load()
}
