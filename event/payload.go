package event

import "time"

// RaceStartedPayload identifies the vehicle and race session
type RaceStartedPayload struct {
	SessionID string `msgpack:"session_id"`
	Vehicle   string `msgpack:"vehicle"`
	TotalLaps int    `msgpack:"total_laps"`
}

// CheckpointPayload carries the passed checkpoint index and the index now expected
type CheckpointPayload struct {
	Index int `msgpack:"index"`
	Next  int `msgpack:"next"`
	Lap   int `msgpack:"lap"`
}

// LapPayload carries the closed lap number and its duration
type LapPayload struct {
	Lap      int           `msgpack:"lap"`
	Duration time.Duration `msgpack:"duration"`
	Best     time.Duration `msgpack:"best"`
}

// RaceFinishedPayload is the only event required by collaborators
type RaceFinishedPayload struct {
	Total time.Duration `msgpack:"total"`
	Best  time.Duration `msgpack:"best"`
}

// TierChangedPayload carries the quality transition
type TierChangedPayload struct {
	From       string  `msgpack:"from"`
	To         string  `msgpack:"to"`
	AverageFPS float64 `msgpack:"average_fps"`
}
