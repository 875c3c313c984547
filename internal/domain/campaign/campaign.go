// Package campaign is the persistent roster that outlives single encounters.
package campaign

import (
	"log"

	"github.com/KirkDiggler/squad-tactics/internal/domain/combatant"
	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
)

// Campaign tracks the squad between encounters
type Campaign struct {
	ID      string                 `json:"id"`
	Name    string                 `json:"name"`
	Roster  []*combatant.Combatant `json:"roster"`
	Stash   []*combatant.Item      `json:"stash,omitempty"`
	Fallen  []string               `json:"fallen,omitempty"`
	Cleared int                    `json:"cleared"`
}

// New creates a campaign around a starting squad
func New(id, name string, roster ...*combatant.Combatant) *Campaign {
	return &Campaign{ID: id, Name: name, Roster: roster}
}

// Hero finds a roster member by id
func (c *Campaign) Hero(id string) (*combatant.Combatant, bool) {
	for _, hero := range c.Roster {
		if hero.ID == id {
			return hero, true
		}
	}
	return nil, false
}

// AwardXP grants experience to a hero
func (c *Campaign) AwardXP(id string, xp int) error {
	hero, ok := c.Hero(id)
	if !ok {
		return apperrors.NotFoundf("hero %s not in roster", id)
	}
	hero.XP += xp
	log.Printf("[CAMPAIGN] %s gained %d XP (total %d)", hero.Name, xp, hero.XP)
	return nil
}

// AddLoot moves items into the shared stash
func (c *Campaign) AddLoot(items ...*combatant.Item) {
	c.Stash = append(c.Stash, items...)
}

// Lose removes a dead hero from the roster permanently
func (c *Campaign) Lose(id string) error {
	for i, hero := range c.Roster {
		if hero.ID != id {
			continue
		}
		c.Roster = append(c.Roster[:i], c.Roster[i+1:]...)
		c.Fallen = append(c.Fallen, hero.Name)
		log.Printf("[CAMPAIGN] %s has fallen", hero.Name)
		return nil
	}
	return apperrors.NotFoundf("hero %s not in roster", id)
}
