package encounter

import (
	"log"

	"github.com/KirkDiggler/squad-tactics/internal/domain/campaign"
	"github.com/KirkDiggler/squad-tactics/internal/domain/combatant"
	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
)

// Summary reports what an encounter's end did to the campaign
type Summary struct {
	Outcome   Outcome           `json:"outcome"`
	XPAwarded int               `json:"xp_awarded"`
	Survivors []string          `json:"survivors"`
	Fallen    []string          `json:"fallen"`
	Loot      []*combatant.Item `json:"loot,omitempty"`
}

// Resolve applies XP, loot and hero loss to the campaign. It runs exactly
// once per encounter; later calls fail without touching the campaign.
func (e *Encounter) Resolve(c *campaign.Campaign) (*Summary, error) {
	if c == nil {
		return nil, apperrors.InvalidArgument("campaign is required")
	}
	if e.IsActive() {
		return nil, apperrors.FailedPreconditionf("encounter %s is still active", e.ID)
	}
	if e.Resolved {
		return nil, apperrors.FailedPreconditionf("encounter %s was already resolved", e.ID)
	}

	summary := &Summary{Outcome: e.State}

	for _, fighter := range e.Combatants {
		if fighter.Faction != combatant.FactionPlayer || fighter.Summoned {
			continue
		}
		hero, ok := c.Hero(fighter.ID)
		if !ok {
			continue
		}

		if fighter.State == combatant.StateDead {
			if err := c.Lose(hero.ID); err != nil {
				return nil, err
			}
			summary.Fallen = append(summary.Fallen, hero.Name)
			continue
		}

		carryOver(fighter, hero)
		summary.Survivors = append(summary.Survivors, hero.Name)

		if e.State == OutcomeVictory && e.XP > 0 {
			if err := c.AwardXP(hero.ID, e.XP); err != nil {
				return nil, err
			}
		}
	}

	if e.State == OutcomeVictory {
		c.AddLoot(e.Loot...)
		summary.Loot = e.Loot
		summary.XPAwarded = e.XP
		c.Cleared++
	}

	e.Resolved = true
	for _, fighter := range e.Combatants {
		fighter.Conditions.Clear()
	}

	log.Printf("[ENCOUNTER] %s resolved as %s: %d survivor(s), %d fallen",
		e.ID, e.State, len(summary.Survivors), len(summary.Fallen))

	return summary, nil
}

// carryOver copies what persists between encounters back onto the roster:
// wounds and equipment. Health refills and conditions are dropped.
func carryOver(fighter, hero *combatant.Combatant) {
	hero.Wounds = fighter.Wounds
	hero.Health = hero.MaxHealth
	hero.State = combatant.StateStanding
	hero.StunnedTurns = 0
	hero.Hidden = false
	hero.Inventory = fighter.Inventory
}
