package event

import "fmt"

// EventType represents the type of race event
type EventType int

const (
	// EventRaceStarted fires on NotStarted -> Running
	// Payload: *RaceStartedPayload
	EventRaceStarted EventType = iota + 1

	// EventCheckpointPassed fires on every checkpoint advance, including the lap-closing one
	// Payload: *CheckpointPayload
	EventCheckpointPassed

	// EventLapCompleted fires when the checkpoint sequence wraps
	// Payload: *LapPayload
	EventLapCompleted

	// EventRaceFinished fires once per race on Running -> Finished
	// Payload: *RaceFinishedPayload
	EventRaceFinished

	// EventRespawned fires when the vehicle is returned to the start pose
	// Payload: nil
	EventRespawned

	// EventPaused fires on Running -> Paused
	// Payload: nil
	EventPaused

	// EventResumed fires on Paused -> Running
	// Payload: nil
	EventResumed

	// EventRestarted fires when the race is reset to NotStarted
	// Payload: nil
	EventRestarted

	// EventTierChanged fires when the quality controller moves one tier
	// Payload: *TierChangedPayload
	EventTierChanged
)

var typeNames = map[EventType]string{
	EventRaceStarted:      "RaceStarted",
	EventCheckpointPassed: "CheckpointPassed",
	EventLapCompleted:     "LapCompleted",
	EventRaceFinished:     "RaceFinished",
	EventRespawned:        "Respawned",
	EventPaused:           "Paused",
	EventResumed:          "Resumed",
	EventRestarted:        "Restarted",
	EventTierChanged:      "TierChanged",
}

func (t EventType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

// RaceEvent is a single queued event
type RaceEvent struct {
	Type    EventType
	Payload any
	Frame   int64
}
