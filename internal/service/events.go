package service

import "sync"

// EventType names a domain event. It is also the SSE event name.
type EventType string

const (
	// EventCognatesMerged carries old, new and moved
	EventCognatesMerged EventType = "cognates.merged"
	// EventLexiconSaved carries the task id and the saved count
	EventLexiconSaved EventType = "lexicon.saved"
	// EventDatasetImported carries file, revision and created counts; only
	// committed imports publish it
	EventDatasetImported EventType = "dataset.imported"
)

// Event is a published domain change
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// EventBus delivers events to subscriber channels without blocking the
// publisher. Services share one bus.
type EventBus struct {
	mu   sync.RWMutex
	subs []chan<- Event
}

// NewEventBus creates an empty bus
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers ch; a full ch misses events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subs = append(eb.subs, ch)
}

// Publish sends an event to all subscribers. A nil bus discards events.
func (eb *EventBus) Publish(event Event) {
	if eb == nil {
		return
	}
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
