package conditions

import (
	"encoding/json"
	"log"

	"github.com/KirkDiggler/squad-tactics/internal/domain/ranks"
	"github.com/KirkDiggler/squad-tactics/internal/domain/rules"
	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
)

// Filter selects conditions by source trait. The zero value matches everything.
type Filter struct {
	Trait rules.Trait
	// Limit caps how many conditions are affected; 0 means no cap
	Limit int
}

func (f Filter) matches(c *Condition) bool {
	return c.SourceTrait.Matches(f.Trait)
}

// Ledger is the ordered list of conditions one combatant carries.
// It is owned by a single combatant and is not safe for concurrent use.
type Ledger struct {
	ownerID    string
	conditions []*Condition
}

// NewLedger creates an empty ledger for a combatant
func NewLedger(ownerID string) *Ledger {
	return &Ledger{ownerID: ownerID}
}

// SetOwner records which combatant carries the ledger (used in log lines)
func (l *Ledger) SetOwner(ownerID string) {
	l.ownerID = ownerID
}

// Add appends a condition. Conditions never deduplicate; two identical
// bonuses stack.
func (l *Ledger) Add(c *Condition) error {
	if c == nil {
		return apperrors.InvalidArgument("condition is required")
	}
	if err := c.Validate(); err != nil {
		return err
	}

	l.conditions = append(l.conditions, c)

	log.Printf("[CONDITIONS] Applied %s (rank %d, source trait %s) to entity %s",
		c.Type, c.Rank, c.SourceTrait, l.ownerID)

	return nil
}

// Remove drops conditions whose source trait matches the filter and returns them
func (l *Ledger) Remove(filter Filter) []*Condition {
	var removed []*Condition
	kept := l.conditions[:0]
	for _, c := range l.conditions {
		if filter.matches(c) && (filter.Limit == 0 || len(removed) < filter.Limit) {
			removed = append(removed, c)
			continue
		}
		kept = append(kept, c)
	}
	clearTail(l.conditions, len(kept))
	l.conditions = kept

	if len(removed) > 0 {
		log.Printf("[CONDITIONS] Removed %d condition(s) from entity %s", len(removed), l.ownerID)
	}

	return removed
}

// Invert flips the sign of matching conditions for the rest of the encounter.
// Without includeBeneficial only bonus, resistance and movement-bonus kinds
// flip; with it every matching condition flips, automatic heal/damage
// included. Returns how many conditions flipped.
func (l *Ledger) Invert(filter Filter, includeBeneficial bool) int {
	flipped := 0
	for _, c := range l.conditions {
		if !filter.matches(c) {
			continue
		}
		if filter.Limit > 0 && flipped >= filter.Limit {
			break
		}
		if !includeBeneficial && (c.Type.IsAutomatic() || !c.Type.IsBeneficial()) {
			continue
		}
		c.Inverted = !c.Inverted
		flipped++
	}

	if flipped > 0 {
		log.Printf("[CONDITIONS] Inverted %d condition(s) on entity %s", flipped, l.ownerID)
	}

	return flipped
}

// Transfer moves a condition instance to another ledger
func (l *Ledger) Transfer(id string, to *Ledger) error {
	if to == nil {
		return apperrors.InvalidArgument("destination ledger is required")
	}
	if to == l {
		return nil
	}

	for i, c := range l.conditions {
		if c.ID != id {
			continue
		}
		l.conditions = append(l.conditions[:i], l.conditions[i+1:]...)
		to.conditions = append(to.conditions, c)

		log.Printf("[CONDITIONS] Transferred %s from entity %s to entity %s", c.Type, l.ownerID, to.ownerID)
		return nil
	}

	return apperrors.NotFoundf("condition %s not found on entity %s", id, l.ownerID)
}

// Aggregate sums signed ranks per (stat, target). A bonus and a penalty on
// the same target cancel additively.
func (l *Ledger) Aggregate() ranks.Totals {
	return ranks.Reduce(l.conditions, (*Condition).Contribution)
}

// Regen is the net automatic heal (positive) or damage (negative) per round
func (l *Ledger) Regen() int {
	return l.Aggregate().Get(StatRegen, "")
}

// Tick counts down round-limited conditions and removes the expired ones
func (l *Ledger) Tick() []*Condition {
	var expired []*Condition
	kept := l.conditions[:0]
	for _, c := range l.conditions {
		if c.Rounds > 0 {
			c.Rounds--
			if c.Rounds == 0 {
				expired = append(expired, c)
				continue
			}
		}
		kept = append(kept, c)
	}
	clearTail(l.conditions, len(kept))
	l.conditions = kept

	for _, c := range expired {
		log.Printf("[CONDITIONS] %s expired on entity %s", c.Type, l.ownerID)
	}

	return expired
}

// Clear drops every condition, used when an encounter ends
func (l *Ledger) Clear() {
	l.conditions = nil
}

// Get returns a condition by id
func (l *Ledger) Get(id string) (*Condition, bool) {
	for _, c := range l.conditions {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Find returns the first condition matching the filter
func (l *Ledger) Find(filter Filter) (*Condition, bool) {
	for _, c := range l.conditions {
		if filter.matches(c) {
			return c, true
		}
	}
	return nil, false
}

// All returns the conditions in application order
func (l *Ledger) All() []*Condition {
	out := make([]*Condition, len(l.conditions))
	copy(out, l.conditions)
	return out
}

// Len returns the number of conditions carried
func (l *Ledger) Len() int {
	return len(l.conditions)
}

// MarshalJSON persists the ledger as a plain list
func (l *Ledger) MarshalJSON() ([]byte, error) {
	if l.conditions == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.conditions)
}

// UnmarshalJSON restores the ledger from a plain list
func (l *Ledger) UnmarshalJSON(data []byte) error {
	var list []*Condition
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	l.conditions = list
	return nil
}

func clearTail(s []*Condition, from int) {
	for i := from; i < len(s); i++ {
		s[i] = nil
	}
}
