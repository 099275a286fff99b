package event

import (
	"sync"
	"time"

	"github.com/robgonnella/portx/internal/logger"
)

type listener struct {
	id        int
	eventType EventType
	channel   chan Event
}

// DefaultSendTimeout how long Send waits on a full listener channel
// before giving up on an event that is not a progress event
const DefaultSendTimeout = time.Second * 5

// EventManager represents our event.Manager implementation
type EventManager struct {
	log         logger.Logger
	listeners   []*listener
	nextID      int
	sendTimeout time.Duration
	mux         sync.RWMutex
}

// EventManagerOption configures an EventManager
type EventManagerOption func(m *EventManager)

// WithSendTimeout overrides DefaultSendTimeout
func WithSendTimeout(timeout time.Duration) EventManagerOption {
	return func(m *EventManager) {
		m.sendTimeout = timeout
	}
}

// NewEventManager returns a new instance of EventManager
func NewEventManager(options ...EventManagerOption) *EventManager {
	m := &EventManager{
		log:         logger.New(),
		listeners:   []*listener{},
		nextID:      1,
		sendTimeout: DefaultSendTimeout,
	}

	for _, o := range options {
		o(m)
	}

	return m
}

// RegisterListener registers a channel to receive events of eventType
func (m *EventManager) RegisterListener(eventType EventType, channel chan Event) int {
	m.mux.Lock()
	defer m.mux.Unlock()

	l := &listener{
		id:        m.nextID,
		eventType: eventType,
		channel:   channel,
	}

	m.listeners = append(m.listeners, l)
	m.nextID++

	return l.id
}

// RemoveListener removes a registered listener and returns its id
func (m *EventManager) RemoveListener(id int) int {
	m.mux.Lock()
	defer m.mux.Unlock()

	listeners := []*listener{}

	for _, l := range m.listeners {
		if l.id != id {
			listeners = append(listeners, l)
		}
	}

	m.listeners = listeners

	return id
}

// Send delivers event to every listener of its type. Progress events are
// dropped for listeners that cannot accept them immediately. Every other
// event type waits up to the send timeout for room in the channel.
func (m *EventManager) Send(evt Event) {
	for _, l := range m.listenersFor(evt.Type) {
		if evt.Type == ScanProgressEventType {
			select {
			case l.channel <- evt:
			default:
				m.log.Debug().
					Int("listener", l.id).
					Str("type", string(evt.Type)).
					Msg("listener busy: dropping progress event")
			}

			continue
		}

		m.deliver(l, evt)
	}
}

func (m *EventManager) deliver(l *listener, evt Event) {
	timer := time.NewTimer(m.sendTimeout)
	defer timer.Stop()

	select {
	case l.channel <- evt:
	case <-timer.C:
		m.log.Warn().
			Int("listener", l.id).
			Str("type", string(evt.Type)).
			Dur("timeout", m.sendTimeout).
			Msg("listener unresponsive: dropping event")
	}
}

// listenersFor snapshots the listeners of eventType so slow deliveries
// never hold the lock
func (m *EventManager) listenersFor(eventType EventType) []*listener {
	m.mux.RLock()
	defer m.mux.RUnlock()

	matched := []*listener{}

	for _, l := range m.listeners {
		if l.eventType == eventType {
			matched = append(matched, l)
		}
	}

	return matched
}

// ReportFatalError sends a fatal-error event
func (m *EventManager) ReportFatalError(err error) {
	m.Send(Event{
		Type:    FatalErrorEventType,
		Payload: err,
	})
}

// ReportError sends an error event
func (m *EventManager) ReportError(err error) {
	m.Send(Event{
		Type:    ErrorEventType,
		Payload: err,
	})
}
