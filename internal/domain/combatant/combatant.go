// Package combatant holds the per-unit record the rules engine reads and mutates.
package combatant

import (
	"log"

	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/squad-tactics/internal/domain/conditions"
	"github.com/KirkDiggler/squad-tactics/internal/domain/features"
	"github.com/KirkDiggler/squad-tactics/internal/domain/grid"
	"github.com/KirkDiggler/squad-tactics/internal/domain/rules"
)

// EntityType is what GetType reports to the toolkit
const EntityType = "combatant"

// DefaultMovement is used when content does not set one
const DefaultMovement = 4

// DefaultMaxWounds is how many wounds a combatant survives before dying
const DefaultMaxWounds = 3

// Faction decides who is an ally and who is an enemy
type Faction string

const (
	FactionPlayer   Faction = "player"
	FactionOpposing Faction = "opposing"
)

// State is the combat posture of a combatant
type State string

const (
	StateStanding    State = "standing"
	StateProne       State = "prone"
	StateUnconscious State = "unconscious"
	StateDead        State = "dead"
)

// Combatant is one unit on the battlefield
type Combatant struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Faction    Faction `json:"faction"`
	Species    string  `json:"species,omitempty"`
	Role       string  `json:"role,omitempty"`
	Background string  `json:"background,omitempty"`

	Traits     map[rules.Trait]int `json:"traits"`
	Skills     map[rules.Skill]int `json:"skills,omitempty"`
	Features   []features.Feature  `json:"features,omitempty"`
	Conditions *conditions.Ledger  `json:"conditions"`

	Health    int   `json:"health"`
	MaxHealth int   `json:"max_health"`
	Wounds    int   `json:"wounds"`
	MaxWounds int   `json:"max_wounds"`
	State     State `json:"state"`

	Position     grid.Position `json:"position"`
	Hidden       bool          `json:"hidden,omitempty"`
	StunnedTurns int           `json:"stunned_turns,omitempty"`
	Movement     int           `json:"movement"`
	Initiative   int           `json:"initiative"`

	Inventory Inventory `json:"inventory"`
	Actions   []string  `json:"actions"`

	Summoned   bool   `json:"summoned,omitempty"`
	SummonerID string `json:"summoner_id,omitempty"`
	XP         int    `json:"xp,omitempty"`
}

// New creates a standing combatant at full health
func New(id, name string, faction Faction, maxHealth int) *Combatant {
	return &Combatant{
		ID:         id,
		Name:       name,
		Faction:    faction,
		Traits:     make(map[rules.Trait]int),
		Skills:     make(map[rules.Skill]int),
		Conditions: conditions.NewLedger(id),
		Health:     maxHealth,
		MaxHealth:  maxHealth,
		MaxWounds:  DefaultMaxWounds,
		State:      StateStanding,
		Movement:   DefaultMovement,
	}
}

// GetID implements core.Entity
func (c *Combatant) GetID() string {
	return c.ID
}

// GetType implements core.Entity
func (c *Combatant) GetType() string {
	return EntityType
}

// AllFeatures returns permanent features plus those granted by held items
func (c *Combatant) AllFeatures() []features.Feature {
	out := append([]features.Feature(nil), c.Features...)
	for _, item := range c.Inventory.Held {
		out = append(out, item.Features...)
	}
	return out
}

// IsDown reports unconscious or dead
func (c *Combatant) IsDown() bool {
	return c.State == StateUnconscious || c.State == StateDead
}

// IsAlive reports anything but dead
func (c *Combatant) IsAlive() bool {
	return c.State != StateDead
}

// CanAct reports whether the combatant may take a turn
func (c *Combatant) CanAct() bool {
	return !c.IsDown() && c.StunnedTurns == 0
}

// IsAlly reports whether other fights on the same side (a combatant is its own ally)
func (c *Combatant) IsAlly(other *Combatant) bool {
	return c.Faction == other.Faction
}

// IsEnemy reports whether other fights on the opposing side
func (c *Combatant) IsEnemy(other *Combatant) bool {
	return c.Faction != other.Faction
}

// WeaponRange is the reach of the held weapon, or unarmed reach
func (c *Combatant) WeaponRange() int {
	if w := c.Inventory.Weapon(); w != nil && w.Range > 0 {
		return w.Range
	}
	return UnarmedRange
}

// TakeDamage lowers health, clamped at zero. Dropping to zero inflicts a
// wound; running out of wounds kills. Returns the damage actually applied.
func (c *Combatant) TakeDamage(amount int) int {
	if amount <= 0 || c.State == StateDead {
		return 0
	}

	applied := min(amount, c.Health)
	c.Health -= applied

	if c.Health == 0 {
		c.Wounds++
		if c.Wounds >= c.MaxWounds {
			c.setState(StateDead)
		} else {
			c.setState(StateUnconscious)
		}
	}

	return applied
}

// HealDamage restores health up to the maximum. An unconscious combatant
// brought above zero wakes up prone. Returns the amount restored.
func (c *Combatant) HealDamage(amount int) int {
	if amount <= 0 || c.State == StateDead {
		return 0
	}

	applied := min(amount, c.MaxHealth-c.Health)
	c.Health += applied

	if c.State == StateUnconscious && c.Health > 0 {
		c.setState(StateProne)
	}

	return applied
}

// HealWounds removes wounds, never below zero
func (c *Combatant) HealWounds(amount int) int {
	if amount <= 0 || c.State == StateDead {
		return 0
	}
	applied := min(amount, c.Wounds)
	c.Wounds -= applied
	return applied
}

// KnockDown puts a standing combatant on the ground
func (c *Combatant) KnockDown() bool {
	if c.State != StateStanding {
		return false
	}
	c.setState(StateProne)
	return true
}

// StandUp returns a prone combatant to its feet
func (c *Combatant) StandUp() bool {
	if c.State != StateProne {
		return false
	}
	c.setState(StateStanding)
	return true
}

// Stun makes the combatant lose its next turns
func (c *Combatant) Stun(turns int) {
	if turns > c.StunnedTurns {
		c.StunnedTurns = turns
	}
}

func (c *Combatant) setState(state State) {
	if c.State == state {
		return
	}
	log.Printf("[COMBATANT] %s (%s) %s -> %s", c.Name, c.ID, c.State, state)
	c.State = state
	if state == StateUnconscious || state == StateDead {
		c.Hidden = false
	}
}

// Restore fills fields older saves may lack
func (c *Combatant) Restore() {
	if c.Conditions == nil {
		c.Conditions = conditions.NewLedger(c.ID)
	}
	c.Conditions.SetOwner(c.ID)
	if c.Traits == nil {
		c.Traits = make(map[rules.Trait]int)
	}
	if c.Skills == nil {
		c.Skills = make(map[rules.Skill]int)
	}
	if c.Movement == 0 {
		c.Movement = DefaultMovement
	}
	if c.MaxWounds == 0 {
		c.MaxWounds = DefaultMaxWounds
	}
	if c.State == "" {
		c.State = StateStanding
	}
}

var _ core.Entity = (*Combatant)(nil)
