package events_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/squad-tactics/internal/domain/events"
)

func TestGameEvent_Builder(t *testing.T) {
	ev := events.NewGameEvent(events.OnDamageTaken, &entity{id: "hero-1"}).
		WithTarget(&entity{id: "gob-2"}).
		WithContext(events.ContextDamage, "edged").
		WithContext(events.ContextAmount, 3).
		WithContext(events.ContextHit, true)

	assert.Equal(t, "hero-1", ev.SourceID())
	assert.Equal(t, "gob-2", ev.TargetID())

	damage, ok := ev.GetStringContext(events.ContextDamage)
	assert.True(t, ok)
	assert.Equal(t, "edged", damage)

	amount, ok := ev.GetIntContext(events.ContextAmount)
	assert.True(t, ok)
	assert.Equal(t, 3, amount)

	hit, ok := ev.GetBoolContext(events.ContextHit)
	assert.True(t, ok)
	assert.True(t, hit)
}

func TestGameEvent_WrongContextType(t *testing.T) {
	ev := events.NewGameEvent(events.OnHealed, nil).WithContext(events.ContextAmount, "three")

	_, ok := ev.GetIntContext(events.ContextAmount)
	assert.False(t, ok)
	_, ok = ev.GetBoolContext(events.ContextAmount)
	assert.False(t, ok)
	_, ok = ev.GetStringContext(events.ContextHit)
	assert.False(t, ok)
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "OnAttackResolved", events.OnAttackResolved.String())
	assert.Equal(t, "OnConditionsInverted", events.OnConditionsInverted.String())
	assert.Equal(t, "Unknown", events.EventType(99).String())
}
