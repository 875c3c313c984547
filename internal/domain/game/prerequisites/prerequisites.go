// Package prerequisites decides whether an action may be selected and, if
// not, says why in words a player can read.
package prerequisites

import (
	"fmt"

	"github.com/KirkDiggler/squad-tactics/internal/domain/actions"
	"github.com/KirkDiggler/squad-tactics/internal/domain/combatant"
	"github.com/KirkDiggler/squad-tactics/internal/domain/conditions"
	"github.com/KirkDiggler/squad-tactics/internal/domain/game/encounter"
	"github.com/KirkDiggler/squad-tactics/internal/domain/rules"
	"github.com/KirkDiggler/squad-tactics/internal/domain/stats"
)

// Blocker is one failed prerequisite
type Blocker struct {
	Prerequisite actions.Prerequisite `json:"prerequisite"`
	Reason       string               `json:"reason"`
}

// Evaluate returns every blocker for the action; none means selectable
func Evaluate(action *actions.Action, actor *combatant.Combatant, enc *encounter.Encounter) []Blocker {
	var blockers []Blocker
	for _, p := range action.Prerequisites {
		if ok, reason := Check(p, actor, enc); !ok {
			blockers = append(blockers, Blocker{Prerequisite: p, Reason: reason})
		}
	}
	return blockers
}

// Selectable reports whether every prerequisite holds
func Selectable(action *actions.Action, actor *combatant.Combatant, enc *encounter.Encounter) bool {
	return len(Evaluate(action, actor, enc)) == 0
}

// Check evaluates a single prerequisite. It is a pure function of the
// combatant and encounter.
func Check(p actions.Prerequisite, actor *combatant.Combatant, enc *encounter.Encounter) (bool, string) {
	switch p.Kind {
	case actions.PrereqProne:
		return actor.State == combatant.StateProne, "must be prone"
	case actions.PrereqStanding:
		return actor.State == combatant.StateStanding, "must be standing"
	case actions.PrereqHidden:
		return actor.Hidden, "must be hidden"
	case actions.PrereqNotHidden:
		return !actor.Hidden, "already hidden"
	case actions.PrereqMeleeWeapon:
		w := actor.Inventory.Weapon()
		return w != nil && w.Kind == combatant.ItemMeleeWeapon, "requires a melee weapon"
	case actions.PrereqRangedWeapon:
		w := actor.Inventory.Weapon()
		return w != nil && w.Kind == combatant.ItemRangedWeapon, "requires a ranged weapon"
	case actions.PrereqEmptyHand:
		return actor.Inventory.FreeHands() > 0, "requires an empty hand"
	case actions.PrereqHasCondition:
		_, ok := actor.Conditions.Find(conditions.Filter{Trait: p.Trait})
		if p.Trait == "" || p.Trait == rules.TraitAny {
			return ok, "requires an active condition"
		}
		return ok, fmt.Sprintf("requires an active %s condition", p.Trait)
	case actions.PrereqAdjacentEnemy:
		return hasAdjacentEnemy(actor, enc), "requires an adjacent enemy"
	case actions.PrereqNoAdjacentEnemy:
		return !hasAdjacentEnemy(actor, enc), "cannot be used next to an enemy"
	case actions.PrereqNotStunned:
		return actor.StunnedTurns == 0, "is stunned"
	case actions.PrereqProficiency:
		return stats.HasProficiency(actor, p.Proficiency), fmt.Sprintf("requires %s proficiency", p.Proficiency)
	default:
		// catalog validation rejects unknown kinds; fail closed if one slips through
		return false, fmt.Sprintf("unknown requirement %q", p.Kind)
	}
}

func hasAdjacentEnemy(actor *combatant.Combatant, enc *encounter.Encounter) bool {
	for _, other := range enc.Combatants {
		if other.IsDown() || !actor.IsEnemy(other) {
			continue
		}
		if actor.Position.IsAdjacent(other.Position) {
			return true
		}
	}
	return false
}
