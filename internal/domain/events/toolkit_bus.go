package events

import (
	"context"
	"fmt"

	rpgevents "github.com/KirkDiggler/rpg-toolkit/events"
)

// gameEventKey carries the original event through the toolkit context
const gameEventKey = "squad.game_event"

// ToolkitBus publishes encounter events on rpg-toolkit's event bus.
// Combatants travel as the toolkit event's source and target entities.
type ToolkitBus struct {
	bus *rpgevents.Bus
}

// NewToolkitBus creates a bus backed by a fresh rpg-toolkit bus
func NewToolkitBus() *ToolkitBus {
	return &ToolkitBus{bus: rpgevents.NewBus()}
}

// Subscribe adds a listener for a specific event type
func (tb *ToolkitBus) Subscribe(eventType EventType, listener EventListener) {
	handler := func(_ context.Context, e rpgevents.Event) error {
		ev := fromToolkit(e, eventType)
		if ev == nil {
			return nil
		}
		return listener.HandleEvent(ev)
	}
	tb.bus.SubscribeFunc(toolkitName(eventType), listener.Priority(), handler)
}

// Emit publishes an event to every listener of its type
func (tb *ToolkitBus) Emit(event *GameEvent) error {
	if event == nil {
		return fmt.Errorf("cannot emit nil event")
	}

	tk := rpgevents.NewGameEvent(toolkitName(event.Type), event.Source, event.Target)
	tk.Context().Set(gameEventKey, event)

	if err := tb.bus.Publish(context.Background(), tk); err != nil {
		return fmt.Errorf("error handling event %s: %w", event.Type, err)
	}
	return nil
}

// SubscribeAll adds a listener for every event type
func SubscribeAll(bus Bus, listener EventListener) {
	for _, eventType := range AllEventTypes() {
		bus.Subscribe(eventType, listener)
	}
}

// toolkitName maps event types onto the toolkit's shared names where one
// exists, so toolkit-side handlers see our attacks, damage and conditions
func toolkitName(eventType EventType) string {
	switch eventType {
	case OnTurnStarted:
		return rpgevents.EventOnTurnStart
	case OnAttackResolved:
		return rpgevents.EventAfterAttackRoll
	case OnDamageTaken:
		return rpgevents.EventOnTakeDamage
	case OnConditionApplied:
		return rpgevents.EventOnConditionApplied
	case OnConditionRemoved:
		return rpgevents.EventOnConditionRemoved
	default:
		return "squad." + eventType.String()
	}
}

func fromToolkit(e rpgevents.Event, eventType EventType) *GameEvent {
	raw, ok := e.Context().Get(gameEventKey)
	if !ok {
		return nil
	}
	original, ok := raw.(*GameEvent)
	if !ok || original.Type != eventType {
		return nil
	}

	return &GameEvent{
		Type:    eventType,
		Source:  e.Source(),
		Target:  e.Target(),
		Context: original.Context,
	}
}
