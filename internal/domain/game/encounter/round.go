package encounter

import (
	"context"
	"log"
	"sort"

	"github.com/KirkDiggler/squad-tactics/internal/dice"
	"github.com/KirkDiggler/squad-tactics/internal/domain/combatant"
	"github.com/KirkDiggler/squad-tactics/internal/domain/rules"
	"github.com/KirkDiggler/squad-tactics/internal/domain/stats"
	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
)

// InitiativeDie is rolled and added to effective Reactions
const InitiativeDie = 6

// StartRound advances the round counter, applies automatic heal/damage,
// counts down condition durations and rolls initiative for everyone still up.
func (e *Encounter) StartRound(ctx context.Context, roller dice.Roller) error {
	if !e.IsActive() {
		return apperrors.FailedPreconditionf("encounter %s is over (%s)", e.ID, e.State)
	}

	e.Round++
	log.Printf("[ENCOUNTER] %s: starting round %d", e.ID, e.Round)

	for _, c := range e.Living() {
		switch regen := stats.Regen(c); {
		case regen > 0:
			if healed := c.HealDamage(regen); healed > 0 {
				e.AddLog("%s regenerates %d", c.Name, healed)
			}
		case regen < 0:
			dealt := c.TakeDamage(-regen)
			e.AddLog("%s suffers %d from lingering harm", c.Name, dealt)
		}
		for _, expired := range c.Conditions.Tick() {
			e.AddLog("%s's %s fades", c.Name, expired.Type)
		}
	}

	if e.Evaluate(ctx) != OutcomeActive {
		return nil
	}

	if err := e.rollInitiative(roller); err != nil {
		return err
	}

	e.Turn = -1
	return e.advance(ctx, roller)
}

func (e *Encounter) rollInitiative(roller dice.Roller) error {
	type entry struct {
		c         *combatant.Combatant
		reactions int
	}

	var order []entry
	for _, c := range e.Combatants {
		if c.IsDown() {
			continue
		}
		reactions := stats.Trait(c, rules.TraitReactions)
		roll, err := roller.Roll(1, InitiativeDie, reactions)
		if err != nil {
			return apperrors.Wrapf(err, "failed to roll initiative for %s", c.ID)
		}
		c.Initiative = roll.Total
		order = append(order, entry{c: c, reactions: reactions})
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.c.Initiative != b.c.Initiative {
			return a.c.Initiative > b.c.Initiative
		}
		if a.reactions != b.reactions {
			return a.reactions > b.reactions
		}
		return a.c.ID < b.c.ID
	})

	e.TurnOrder = make([]string, len(order))
	for i, o := range order {
		e.TurnOrder[i] = o.c.ID
	}
	return nil
}

// EndTurn passes to the next combatant able to act, starting a new round
// when everyone has gone.
func (e *Encounter) EndTurn(ctx context.Context, roller dice.Roller) error {
	if !e.IsActive() {
		return apperrors.FailedPreconditionf("encounter %s is over (%s)", e.ID, e.State)
	}
	return e.advance(ctx, roller)
}

func (e *Encounter) advance(ctx context.Context, roller dice.Roller) error {
	e.ChainedActions = 0
	e.MovedThisTurn = false

	for e.Turn++; e.Turn < len(e.TurnOrder); e.Turn++ {
		c := e.Current()
		if c == nil || c.IsDown() {
			continue
		}
		if c.StunnedTurns > 0 {
			c.StunnedTurns--
			e.AddLog("%s is stunned and loses the turn", c.Name)
			continue
		}
		e.AddLog("%s's turn", c.Name)
		return nil
	}

	if e.Evaluate(ctx) != OutcomeActive {
		return nil
	}
	return e.StartRound(ctx, roller)
}
