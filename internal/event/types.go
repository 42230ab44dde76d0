package event

import "time"

// Event is the interface all experiment events implement.
type Event interface {
	// EventType returns a string identifier, "category.action"
	// (e.g. "position.started", "method.resolved").
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{eventType: eventType, timestamp: time.Now()}
}

// PositionStartedEvent is emitted when the harness begins a corpus position.
type PositionStartedEvent struct {
	baseEvent
	Index int    // 0-based position index in the corpus
	Total int    // total positions in the run
	FEN   string // the position being played
}

// NewPositionStartedEvent creates a PositionStartedEvent.
func NewPositionStartedEvent(index, total int, fen string) PositionStartedEvent {
	return PositionStartedEvent{
		baseEvent: newBaseEvent("position.started"),
		Index:     index,
		Total:     total,
		FEN:       fen,
	}
}

// MethodResolvedEvent is emitted when one method finishes one position.
type MethodResolvedEvent struct {
	baseEvent
	Method   string // method identifier
	FEN      string // the position it resolved
	Move     string // proposed UCI move, empty if rejected
	Accepted bool   // whether the outcome was accepted
	Reason   string // rejection reason, empty if accepted
}

// NewMethodResolvedEvent creates a MethodResolvedEvent.
func NewMethodResolvedEvent(method, fen, move string, accepted bool, reason string) MethodResolvedEvent {
	return MethodResolvedEvent{
		baseEvent: newBaseEvent("method.resolved"),
		Method:    method,
		FEN:       fen,
		Move:      move,
		Accepted:  accepted,
		Reason:    reason,
	}
}

// PositionScoredEvent is emitted after a position's full batch is scored.
type PositionScoredEvent struct {
	baseEvent
	FEN     string             // the scored position
	Best    float64            // the winning evaluation score
	Winners []string           // methods that tied for best (empty if all rejected)
	Scores  map[string]float64 // per-method scores for accepted entries
}

// NewPositionScoredEvent creates a PositionScoredEvent.
func NewPositionScoredEvent(fen string, best float64, winners []string, scores map[string]float64) PositionScoredEvent {
	return PositionScoredEvent{
		baseEvent: newBaseEvent("position.scored"),
		FEN:       fen,
		Best:      best,
		Winners:   winners,
		Scores:    scores,
	}
}

// ExperimentCompletedEvent is emitted once after the full corpus.
type ExperimentCompletedEvent struct {
	baseEvent
	Positions int           // positions processed
	Elapsed   time.Duration // wall time for the run
}

// NewExperimentCompletedEvent creates an ExperimentCompletedEvent.
func NewExperimentCompletedEvent(positions int, elapsed time.Duration) ExperimentCompletedEvent {
	return ExperimentCompletedEvent{
		baseEvent: newBaseEvent("experiment.completed"),
		Positions: positions,
		Elapsed:   elapsed,
	}
}
