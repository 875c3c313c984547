package events

import "github.com/KirkDiggler/rpg-toolkit/core"

// GameEvent is something that happened in an encounter. Source is whoever
// acted; Target is who it happened to, nil for encounter-wide events.
type GameEvent struct {
	Type    EventType
	Source  core.Entity
	Target  core.Entity
	Context map[string]any
}

// NewGameEvent creates an event; source may be nil
func NewGameEvent(eventType EventType, source core.Entity) *GameEvent {
	return &GameEvent{
		Type:    eventType,
		Source:  source,
		Context: make(map[string]any),
	}
}

// WithTarget sets the target for the event
func (e *GameEvent) WithTarget(target core.Entity) *GameEvent {
	e.Target = target
	return e
}

// WithContext adds context data to the event
func (e *GameEvent) WithContext(key string, value any) *GameEvent {
	e.Context[key] = value
	return e
}

// SourceID is the source entity's id, or ""
func (e *GameEvent) SourceID() string {
	if e.Source == nil {
		return ""
	}
	return e.Source.GetID()
}

// TargetID is the target entity's id, or ""
func (e *GameEvent) TargetID() string {
	if e.Target == nil {
		return ""
	}
	return e.Target.GetID()
}

// GetContext retrieves a value from the context
func (e *GameEvent) GetContext(key string) (any, bool) {
	val, exists := e.Context[key]
	return val, exists
}

// GetIntContext retrieves an int value from the context
func (e *GameEvent) GetIntContext(key string) (int, bool) {
	v, ok := e.Context[key].(int)
	return v, ok
}

// GetBoolContext retrieves a bool value from the context
func (e *GameEvent) GetBoolContext(key string) (value, exists bool) {
	v, ok := e.Context[key].(bool)
	return v, ok
}

// GetStringContext retrieves a string value from the context
func (e *GameEvent) GetStringContext(key string) (string, bool) {
	v, ok := e.Context[key].(string)
	return v, ok
}
