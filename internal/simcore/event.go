package simcore

import (
	"encoding/json"
	"time"
)

// EventType classifies a diagnostic event logged by the rollback
// controller.
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeDesync             // local and remote state hashes diverged at a frame
	EventTypeRollback           // a misprediction forced a resimulation
	EventTypeDroppedInput       // a remote input frame arrived outside the legal window
	EventTypeCapacity           // the event log itself dropped an event under load
)

// EventVersion guards the on-disk/wire schema of logged events.
const EventVersion uint8 = 1

// Event is one entry in the diagnostic event log.
type Event struct {
	Version   uint8     `json:"version"`
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"`
	Sequence  uint64    `json:"sequence"`
	Frame     int32     `json:"frame"`
	PlayerID  string    `json:"playerId"` // "" for events not tied to one player
	Payload   []byte    `json:"payload"`
}

func (t EventType) String() string {
	switch t {
	case EventTypeDesync:
		return "desync"
	case EventTypeRollback:
		return "rollback"
	case EventTypeDroppedInput:
		return "dropped_input"
	case EventTypeCapacity:
		return "capacity"
	default:
		return "unknown"
	}
}

// DesyncPayload records a confirmed state hash mismatch between peers
// at a given frame.
type DesyncPayload struct {
	LocalHash  uint32 `json:"localHash"`
	RemoteHash uint32 `json:"remoteHash"`
}

// RollbackPayload records a resimulation triggered by a late or
// corrected remote input.
type RollbackPayload struct {
	FromFrame int32 `json:"fromFrame"`
	ToFrame   int32 `json:"toFrame"`
	Depth     int32 `json:"depth"`
}

// DroppedInputPayload records a remote input frame that fell outside
// the rollback window and could not be applied.
type DroppedInputPayload struct {
	RequestedFrame int32 `json:"requestedFrame"`
	OldestLegal    int32 `json:"oldestLegal"`
	NewestLegal    int32 `json:"newestLegal"`
}

// EncodePayload marshals a payload to JSON bytes, returning nil on
// failure rather than erroring — a malformed diagnostic payload should
// never take down the event log.
func EncodePayload(payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent builds an Event stamped with the current time.
func NewEvent(eventType EventType, frame int32, playerID string, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		Frame:     frame,
		PlayerID:  playerID,
		Payload:   EncodePayload(payload),
	}
}
