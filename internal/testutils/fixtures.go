package testutils

import (
	"github.com/KirkDiggler/squad-tactics/internal/domain/combatant"
	"github.com/KirkDiggler/squad-tactics/internal/domain/game/encounter"
	"github.com/KirkDiggler/squad-tactics/internal/domain/grid"
	"github.com/KirkDiggler/squad-tactics/internal/domain/rules"
)

// CreateTestSword creates a one-handed melee weapon
func CreateTestSword() *combatant.Item {
	return &combatant.Item{
		ID:          "sword",
		Name:        "Sword",
		Kind:        combatant.ItemMeleeWeapon,
		Hands:       1,
		Range:       1,
		Damage:      rules.DamageEdged,
		Proficiency: rules.ProficiencyBlades,
	}
}

// CreateTestCombatant creates a standing combatant with even traits and a sword
func CreateTestCombatant(id, name string, faction combatant.Faction, pos grid.Position) *combatant.Combatant {
	c := combatant.New(id, name, faction, 10)
	for _, t := range rules.Traits() {
		c.Traits[t] = 2
	}
	c.Skills[rules.SkillMelee] = 1
	c.Position = pos
	c.Inventory.Hold(CreateTestSword())
	c.Actions = []string{"strike"}
	return c
}

// CreateTestEncounter creates an active 6x6 encounter with one hero and one
// goblin standing next to each other
func CreateTestEncounter(id, regionID string) *encounter.Encounter {
	enc := encounter.New(id, "Test Encounter", grid.NewMap(6, 6, grid.Position{X: 3, Y: 0}))
	enc.RegionID = regionID
	enc.XP = 50

	hero := CreateTestCombatant("hero-1", "Ash", combatant.FactionPlayer, grid.Position{X: 1, Y: 1})
	goblin := CreateTestCombatant("gob-1", "Goblin", combatant.FactionOpposing, grid.Position{X: 2, Y: 1})
	goblin.MaxHealth, goblin.Health = 4, 4

	// positions are fixed above and always free
	_ = enc.Add(hero)   //nolint:errcheck
	_ = enc.Add(goblin) //nolint:errcheck

	return enc
}
