package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	q := NewEventQueue()
	assert.Nil(t, q.Consume())

	q.Push(RaceEvent{Type: EventRaceStarted, Frame: 1})
	q.Push(RaceEvent{Type: EventCheckpointPassed, Frame: 2, Payload: &CheckpointPayload{Index: 0, Next: 1, Lap: 1}})
	require.Equal(t, 2, q.Len())

	events := q.Consume()
	require.Len(t, events, 2)
	assert.Equal(t, EventRaceStarted, events[0].Type)
	assert.Equal(t, EventCheckpointPassed, events[1].Type)
	p, ok := events[1].Payload.(*CheckpointPayload)
	require.True(t, ok)
	assert.Equal(t, 1, p.Next)

	assert.Zero(t, q.Len())
	assert.Nil(t, q.Consume())
}

func TestQueueOverflowDropsOldest(t *testing.T) {
	q := NewEventQueue()
	for i := 0; i < QueueSize+5; i++ {
		q.Push(RaceEvent{Type: EventCheckpointPassed, Frame: int64(i)})
	}

	assert.Equal(t, QueueSize, q.Len())
	assert.Equal(t, uint64(5), q.Dropped())

	events := q.Consume()
	require.Len(t, events, QueueSize)
	assert.Equal(t, int64(5), events[0].Frame)
	assert.Equal(t, int64(QueueSize+4), events[len(events)-1].Frame)
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewEventQueue()
	const producers = 4
	const perProducer = 8

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(RaceEvent{Type: EventCheckpointPassed})
			}
		}()
	}
	wg.Wait()

	assert.Len(t, q.Consume(), producers*perProducer)
}

func TestQueueWraparoundWhileConsuming(t *testing.T) {
	q := NewEventQueue()
	const producers = 4
	const perProducer = 4 * QueueSize

	stop := make(chan struct{})
	done := make(chan struct{})
	var consumed int
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
			}
			for _, e := range q.Consume() {
				if e.Type != EventCheckpointPassed {
					panic("torn event")
				}
				consumed++
			}
		}
	}()

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(RaceEvent{Type: EventCheckpointPassed, Frame: int64(i)})
			}
		}()
	}
	wg.Wait()
	close(stop)
	<-done

	consumed += len(q.Consume())
	assert.Equal(t, uint64(producers*perProducer), uint64(consumed)+q.Dropped(), "every event is read or counted dropped")
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "RaceFinished", EventRaceFinished.String())
	assert.Equal(t, "EventType(99)", EventType(99).String())
}
