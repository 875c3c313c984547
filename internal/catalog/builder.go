package catalog

import (
	"maps"

	"github.com/KirkDiggler/squad-tactics/internal/domain/combatant"
	"github.com/KirkDiggler/squad-tactics/internal/domain/features"
	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
)

// Build describes a hero to assemble from catalog parts
type Build struct {
	ID         string
	Name       string
	Faction    combatant.Faction
	Species    string
	Role       string
	Background string
	// Choices resolves wildcard features, keyed by feature id
	Choices map[string]string
}

// BuildCombatant assembles a combatant from species, role and background.
// Every wildcard feature must have a matching choice.
func (c *Catalog) BuildCombatant(b Build) (*combatant.Combatant, error) {
	if b.ID == "" {
		return nil, apperrors.InvalidArgument("combatant id is required")
	}
	species, err := c.Species(b.Species)
	if err != nil {
		return nil, err
	}
	role, err := c.Role(b.Role)
	if err != nil {
		return nil, err
	}
	background, err := c.Background(b.Background)
	if err != nil {
		return nil, err
	}

	faction := b.Faction
	if faction == "" {
		faction = combatant.FactionPlayer
	}
	name := b.Name
	if name == "" {
		name = species.Name + " " + role.Name
	}

	hero := combatant.New(b.ID, name, faction, species.Health)
	hero.Species, hero.Role, hero.Background = species.ID, role.ID, background.ID
	maps.Copy(hero.Traits, species.Traits)
	for skill, rank := range role.Skills {
		hero.Skills[skill] += rank
	}
	for skill, rank := range background.Skills {
		hero.Skills[skill] += rank
	}
	if species.Movement > 0 {
		hero.Movement = species.Movement
	}

	grants := []struct {
		source string
		fs     []features.Feature
	}{
		{source: "species:" + species.ID, fs: species.Features},
		{source: "role:" + role.ID, fs: role.Features},
		{source: "background:" + background.ID, fs: background.Features},
	}
	for _, g := range grants {
		for _, f := range g.fs {
			resolved, err := choose(f, b.Choices)
			if err != nil {
				return nil, err
			}
			resolved.Source = g.source
			hero.Features = append(hero.Features, resolved)
		}
	}
	if _, err := features.Aggregate(hero.Features); err != nil {
		return nil, err
	}

	hero.Actions = mergeIDs(species.Actions, role.Actions, background.Actions)

	if err := c.equip(hero, role.Items, background.Items); err != nil {
		return nil, err
	}

	return hero, nil
}

func choose(f features.Feature, choices map[string]string) (features.Feature, error) {
	if !f.IsWildcard() {
		return f, nil
	}
	target, ok := choices[f.ID]
	if !ok {
		return f, apperrors.InvalidArgumentf("feature %s needs a choice", f.ID)
	}
	resolved, err := f.Choose(target)
	if err != nil {
		return f, err
	}
	return *resolved, nil
}

func mergeIDs(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, id := range list {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

func (c *Catalog) equip(target *combatant.Combatant, lists ...[]string) error {
	for _, list := range lists {
		for _, id := range list {
			item, err := c.Item(id)
			if err != nil {
				return err
			}
			target.Inventory.Hold(item)
		}
	}
	return nil
}

// SpawnCreature builds a combatant from a creature template. It is the
// creature source handed to the effect interpreter for summons.
func (c *Catalog) SpawnCreature(creatureID, id string, faction combatant.Faction) (*combatant.Combatant, error) {
	tmpl, err := c.Creature(creatureID)
	if err != nil {
		return nil, err
	}

	cr := combatant.New(id, tmpl.Name, faction, tmpl.Health)
	cr.Species = tmpl.ID
	maps.Copy(cr.Traits, tmpl.Traits)
	maps.Copy(cr.Skills, tmpl.Skills)
	if tmpl.MaxWounds > 0 {
		cr.MaxWounds = tmpl.MaxWounds
	}
	if tmpl.Movement > 0 {
		cr.Movement = tmpl.Movement
	}
	for _, f := range tmpl.Features {
		f.Source = "creature:" + tmpl.ID
		cr.Features = append(cr.Features, f)
	}
	cr.Actions = append([]string(nil), tmpl.Actions...)

	if err := c.equip(cr, tmpl.Items); err != nil {
		return nil, err
	}
	return cr, nil
}

// Party builds the scenario's heroes at their starting squares
func (c *Catalog) Party(s *Scenario) ([]*combatant.Combatant, error) {
	party := make([]*combatant.Combatant, 0, len(s.Heroes))
	for _, slot := range s.Heroes {
		hero, err := c.BuildCombatant(Build{
			ID:         slot.ID,
			Name:       slot.Name,
			Faction:    combatant.FactionPlayer,
			Species:    slot.Species,
			Role:       slot.Role,
			Background: slot.Background,
			Choices:    slot.Choices,
		})
		if err != nil {
			return nil, apperrors.Wrapf(err, "scenario %s hero %s", s.ID, slot.ID)
		}
		hero.Position = slot.Position
		party = append(party, hero)
	}
	return party, nil
}

// Enemies spawns the scenario's opposing combatants at their squares
func (c *Catalog) Enemies(s *Scenario) ([]*combatant.Combatant, error) {
	out := make([]*combatant.Combatant, 0, len(s.Enemies))
	for _, slot := range s.Enemies {
		enemy, err := c.SpawnCreature(slot.Creature, slot.ID, combatant.FactionOpposing)
		if err != nil {
			return nil, apperrors.Wrapf(err, "scenario %s enemy %s", s.ID, slot.ID)
		}
		if slot.Name != "" {
			enemy.Name = slot.Name
		}
		enemy.Position = slot.Position
		out = append(out, enemy)
	}
	return out, nil
}

// Loot returns fresh copies of the scenario's reward items
func (c *Catalog) Loot(s *Scenario) ([]*combatant.Item, error) {
	out := make([]*combatant.Item, 0, len(s.Loot))
	for _, id := range s.Loot {
		item, err := c.Item(id)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
