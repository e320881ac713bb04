package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType names a workflow outcome other components can react to.
type EventType string

const (
	EventExtractionCompleted     EventType = "extraction.completed"
	EventExtractionFailed        EventType = "extraction.failed"
	EventReconstructionCompleted EventType = "reconstruction.completed"
	EventReconstructionFailed    EventType = "reconstruction.failed"
	EventCoherenceCompleted      EventType = "coherence.completed"
	EventCoherenceFailed         EventType = "coherence.failed"
)

// WorkflowEventTypes lists every event type published by the stores.
func WorkflowEventTypes() []EventType {
	return []EventType{
		EventExtractionCompleted, EventExtractionFailed,
		EventReconstructionCompleted, EventReconstructionFailed,
		EventCoherenceCompleted, EventCoherenceFailed,
	}
}

// Event is a message on the bus.
type Event struct {
	ID         string
	Type       EventType
	OccurredAt time.Time
	Payload    any
}

// NewEvent stamps a payload with an ID and the current time.
func NewEvent(t EventType, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// ExtractionOutcome is the payload of extraction events.
type ExtractionOutcome struct {
	FilePath  string
	Result    *ExtractionResult
	ElapsedMs float64
	Error     string
}

// ReconstructionOutcome is the payload of reconstruction events.
type ReconstructionOutcome struct {
	FilePath string
	Result   *ReconstructionResult
	Error    string
}

// CoherenceOutcome is the payload of coherence events.
type CoherenceOutcome struct {
	TargetPath string
	Result     *CoherenceResult
	Error      string
}
