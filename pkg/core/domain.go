package core

import (
	"fmt"
	"time"
)

// Slot names the independent durable collections.
type Slot string

const (
	SlotNotes    Slot = "notes"
	SlotTags     Slot = "tags"
	SlotSettings Slot = "settings"
)

// EventType represents the type of change in the store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event reports that a slot changed on the durable medium.
type Event struct {
	Type      EventType
	Slot      Slot
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s at %s", e.Type, e.Slot, time.Unix(e.Timestamp, 0).Format(time.RFC3339))
}
