package resolution

import (
	"fmt"

	"github.com/KirkDiggler/squad-tactics/internal/domain/events"
	"github.com/KirkDiggler/squad-tactics/internal/domain/game/encounter"
)

// CombatLog writes readable lines for game events into the encounter they
// happened in
type CombatLog struct{}

// NewCombatLog creates the log listener
func NewCombatLog() *CombatLog {
	return &CombatLog{}
}

// Priority runs the log after rule listeners
func (l *CombatLog) Priority() int {
	return 100
}

// HandleEvent implements events.EventListener
func (l *CombatLog) HandleEvent(ev *events.GameEvent) error {
	raw, _ := ev.GetContext(events.ContextEncounter)
	enc, ok := raw.(*encounter.Encounter)
	if !ok || enc == nil {
		return nil
	}
	if line := Describe(enc, ev); line != "" {
		enc.AddLog("%s", line)
	}
	return nil
}

// Describe renders an event as a combat log line. Events not worth a line
// return "".
func Describe(enc *encounter.Encounter, ev *events.GameEvent) string {
	actor := name(enc, ev.SourceID())
	target := name(enc, ev.TargetID())

	switch ev.Type {
	case events.OnActionTaken:
		id, _ := ev.GetStringContext(events.ContextActionID)
		return fmt.Sprintf("%s uses %s", actor, id)
	case events.OnAttackResolved:
		hit, _ := ev.GetBoolContext(events.ContextHit)
		atk, _ := ev.GetIntContext(events.ContextAttack)
		def, _ := ev.GetIntContext(events.ContextDefense)
		verb := "misses"
		if hit {
			verb = "hits"
		}
		return fmt.Sprintf("%s attacks %s (%d vs %d) and %s", actor, target, atk, def, verb)
	case events.OnDamageTaken:
		amount, _ := ev.GetIntContext(events.ContextAmount)
		damage, _ := ev.GetStringContext(events.ContextDamage)
		return fmt.Sprintf("%s takes %d %s damage", target, amount, damage)
	case events.OnHealed:
		amount, _ := ev.GetIntContext(events.ContextAmount)
		effect, _ := ev.GetStringContext(events.ContextEffect)
		if effect == "heal-wounds" {
			return fmt.Sprintf("%s recovers %d wound(s)", target, amount)
		}
		return fmt.Sprintf("%s heals %d", target, amount)
	case events.OnStateChanged:
		state, _ := ev.GetStringContext(events.ContextState)
		return fmt.Sprintf("%s is now %s", target, state)
	case events.OnMoved:
		from, _ := ev.GetStringContext(events.ContextFrom)
		to, _ := ev.GetStringContext(events.ContextTo)
		return fmt.Sprintf("%s is moved %s -> %s", target, from, to)
	case events.OnSummoned:
		to, _ := ev.GetStringContext(events.ContextTo)
		return fmt.Sprintf("%s summons %s at %s", actor, target, to)
	case events.OnItemStolen:
		item, _ := ev.GetStringContext(events.ContextItem)
		return fmt.Sprintf("%s steals %s from %s", actor, item, target)
	case events.OnConditionApplied:
		cond, _ := ev.GetStringContext(events.ContextCondition)
		rank, _ := ev.GetIntContext(events.ContextAmount)
		return fmt.Sprintf("%s gains %s %d", target, cond, rank)
	case events.OnConditionRemoved:
		n, _ := ev.GetIntContext(events.ContextCount)
		return fmt.Sprintf("%s loses %d condition(s)", target, n)
	case events.OnConditionTransferred:
		cond, _ := ev.GetStringContext(events.ContextCondition)
		return fmt.Sprintf("%s is passed between %s and %s", cond, actor, target)
	case events.OnConditionsInverted:
		n, _ := ev.GetIntContext(events.ContextCount)
		return fmt.Sprintf("%d condition(s) on %s are turned around", n, target)
	default:
		// rounds, turns and outcomes are logged by the encounter itself;
		// skipped effects stay in the process log only
		return ""
	}
}

func name(enc *encounter.Encounter, id string) string {
	if id == "" {
		return ""
	}
	if c, ok := enc.Combatant(id); ok {
		return c.Name
	}
	return id
}

var _ events.EventListener = (*CombatLog)(nil)
