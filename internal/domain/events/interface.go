package events

//go:generate mockgen -destination=mock/mock_event_listener.go -package=mockevents -source=interface.go EventListener

// EventListener represents an object that can handle game events
type EventListener interface {
	HandleEvent(event *GameEvent) error
	Priority() int
}

// Bus is what the engine publishes through
type Bus interface {
	// Subscribe adds a listener for a specific event type
	Subscribe(eventType EventType, listener EventListener)

	// Emit sends an event to all registered listeners
	Emit(event *GameEvent) error
}
