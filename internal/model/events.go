package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventContestantAdded EventType = "contestant_added"
)

// Event describes a roster change pushed to live dashboards
type Event struct {
	Type       EventType
	Timestamp  time.Time
	Contestant Contestant
}
