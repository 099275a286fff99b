package event

type EventType string

const (
	ScanStartedEventType  EventType = "scan-started"
	ScanProgressEventType EventType = "scan-progress"
	ScanCompleteEventType EventType = "scan-complete"
	ErrorEventType        EventType = "error"
	FatalErrorEventType   EventType = "fatal-error"
)

// Event data structure representing any event we may want to react to
type Event struct {
	Type    EventType
	Payload any
}

// ProgressPayload payload of scan-progress events
type ProgressPayload struct {
	Done  int
	Total int
}

// StartedPayload payload of scan-started events
type StartedPayload struct {
	Host  string
	Total int
}
