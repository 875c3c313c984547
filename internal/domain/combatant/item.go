package combatant

import (
	"github.com/KirkDiggler/squad-tactics/internal/domain/features"
	"github.com/KirkDiggler/squad-tactics/internal/domain/rules"
)

// ItemKind classifies equipment
type ItemKind string

const (
	ItemMeleeWeapon  ItemKind = "melee-weapon"
	ItemRangedWeapon ItemKind = "ranged-weapon"
	ItemShield       ItemKind = "shield"
	ItemArmor        ItemKind = "armor"
	ItemTrinket      ItemKind = "trinket"
)

// UnarmedRange is the reach of a combatant holding no weapon
const UnarmedRange = 1

// Item is a piece of equipment. Held items grant their features.
type Item struct {
	ID          string             `json:"id" yaml:"id"`
	Name        string             `json:"name" yaml:"name"`
	Kind        ItemKind           `json:"kind" yaml:"kind"`
	Hands       int                `json:"hands" yaml:"hands"`
	Range       int                `json:"range,omitempty" yaml:"range,omitempty"`
	Damage      rules.DamageType   `json:"damage,omitempty" yaml:"damage,omitempty"`
	Proficiency rules.Proficiency  `json:"proficiency,omitempty" yaml:"proficiency,omitempty"`
	Features    []features.Feature `json:"features,omitempty" yaml:"features,omitempty"`
}

// IsWeapon reports whether the item can be attacked with
func (i *Item) IsWeapon() bool {
	return i.Kind == ItemMeleeWeapon || i.Kind == ItemRangedWeapon
}

// Clone copies the item so catalog templates are never shared between combatants
func (i *Item) Clone() *Item {
	clone := *i
	clone.Features = append([]features.Feature(nil), i.Features...)
	return &clone
}

// Inventory splits what a combatant holds from what it carries
type Inventory struct {
	Held []*Item `json:"held,omitempty"`
	Pack []*Item `json:"pack,omitempty"`
}

// FreeHands is how many of the two hands are empty
func (inv *Inventory) FreeHands() int {
	used := 0
	for _, item := range inv.Held {
		used += item.Hands
	}
	return max(0, 2-used)
}

// Weapon returns the first held weapon, or nil when unarmed
func (inv *Inventory) Weapon() *Item {
	for _, item := range inv.Held {
		if item.IsWeapon() {
			return item
		}
	}
	return nil
}

// Hold moves an item into the hands if there is room, otherwise into the pack.
// Returns true when the item ended up held.
func (inv *Inventory) Hold(item *Item) bool {
	if item.Hands <= inv.FreeHands() {
		inv.Held = append(inv.Held, item)
		return true
	}
	inv.Pack = append(inv.Pack, item)
	return false
}

// TakeAny removes and returns something to steal: the pack first, then held items.
func (inv *Inventory) TakeAny() *Item {
	if n := len(inv.Pack); n > 0 {
		item := inv.Pack[0]
		inv.Pack = inv.Pack[1:]
		return item
	}
	if n := len(inv.Held); n > 0 {
		item := inv.Held[0]
		inv.Held = inv.Held[1:]
		return item
	}
	return nil
}

// All returns held then packed items
func (inv *Inventory) All() []*Item {
	out := make([]*Item, 0, len(inv.Held)+len(inv.Pack))
	out = append(out, inv.Held...)
	return append(out, inv.Pack...)
}
