package catalog

import (
	"github.com/KirkDiggler/squad-tactics/internal/domain/actions"
	"github.com/KirkDiggler/squad-tactics/internal/domain/combatant"
	"github.com/KirkDiggler/squad-tactics/internal/domain/features"
	"github.com/KirkDiggler/squad-tactics/internal/domain/grid"
	"github.com/KirkDiggler/squad-tactics/internal/domain/rules"
	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
)

func (c *Catalog) validate() error {
	for _, id := range sortedKeys(c.actions) {
		a := c.actions[id]
		if err := a.Validate(); err != nil {
			return err
		}
		if err := c.checkSummons(a.ID, a.Effects); err != nil {
			return err
		}
	}

	for _, id := range sortedKeys(c.items) {
		if err := validateItem(c.items[id]); err != nil {
			return err
		}
	}

	for _, id := range sortedKeys(c.species) {
		s := c.species[id]
		if s.Health < 1 {
			return apperrors.Contentf("species %s needs positive health", s.ID)
		}
		if s.Movement < 0 {
			return apperrors.Contentf("species %s has negative movement", s.ID)
		}
		if err := validateTraits("species "+s.ID, s.Traits); err != nil {
			return err
		}
		if err := c.checkGrants("species "+s.ID, s.Features, s.Actions, nil); err != nil {
			return err
		}
	}

	for _, id := range sortedKeys(c.roles) {
		r := c.roles[id]
		if err := validateSkills("role "+r.ID, r.Skills); err != nil {
			return err
		}
		if err := c.checkGrants("role "+r.ID, r.Features, r.Actions, r.Items); err != nil {
			return err
		}
	}

	for _, id := range sortedKeys(c.backgrounds) {
		b := c.backgrounds[id]
		if err := validateSkills("background "+b.ID, b.Skills); err != nil {
			return err
		}
		if err := c.checkGrants("background "+b.ID, b.Features, b.Actions, b.Items); err != nil {
			return err
		}
	}

	for _, id := range sortedKeys(c.creatures) {
		cr := c.creatures[id]
		owner := "creature " + cr.ID
		if cr.Health < 1 {
			return apperrors.Contentf("%s needs positive health", owner)
		}
		if err := validateTraits(owner, cr.Traits); err != nil {
			return err
		}
		if err := validateSkills(owner, cr.Skills); err != nil {
			return err
		}
		if err := c.checkGrants(owner, cr.Features, cr.Actions, cr.Items); err != nil {
			return err
		}
		for _, f := range cr.Features {
			if f.IsWildcard() {
				return apperrors.Contentf("%s feature %s cannot be a choice", owner, f.ID)
			}
		}
	}

	for _, id := range sortedKeys(c.scenarios) {
		if err := c.validateScenario(c.scenarios[id]); err != nil {
			return err
		}
	}

	return nil
}

func (c *Catalog) checkSummons(actionID string, effects []actions.Effect) error {
	for i := range effects {
		e := &effects[i]
		if summon, ok := e.Data.(*actions.SummonData); ok {
			if _, exists := c.creatures[summon.Creature]; !exists {
				return apperrors.Contentf("action %s summons unknown creature %q", actionID, summon.Creature)
			}
		}
		if err := c.checkSummons(actionID, e.Children); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) checkGrants(owner string, fs []features.Feature, actionIDs, itemIDs []string) error {
	for i := range fs {
		if err := fs[i].Validate(); err != nil {
			return apperrors.Wrapf(err, "%s", owner)
		}
	}
	for _, id := range actionIDs {
		if _, ok := c.actions[id]; !ok {
			return apperrors.Contentf("%s grants unknown action %q", owner, id)
		}
	}
	for _, id := range itemIDs {
		if _, ok := c.items[id]; !ok {
			return apperrors.Contentf("%s carries unknown item %q", owner, id)
		}
	}
	return nil
}

func validateItem(item *combatant.Item) error {
	switch item.Kind {
	case combatant.ItemMeleeWeapon, combatant.ItemRangedWeapon:
		if !item.Damage.IsValid() {
			return apperrors.Contentf("weapon %s has unknown damage type %q", item.ID, item.Damage)
		}
		if item.Range < 1 {
			return apperrors.Contentf("weapon %s needs a positive range", item.ID)
		}
	case combatant.ItemShield, combatant.ItemArmor, combatant.ItemTrinket:
	default:
		return apperrors.Contentf("item %s has unknown kind %q", item.ID, item.Kind)
	}
	if item.Hands < 0 || item.Hands > 2 {
		return apperrors.Contentf("item %s must use 0 to 2 hands, got %d", item.ID, item.Hands)
	}
	if item.Proficiency != "" && !item.Proficiency.IsValid() {
		return apperrors.Contentf("item %s has unknown proficiency %q", item.ID, item.Proficiency)
	}
	for i := range item.Features {
		f := &item.Features[i]
		if err := f.Validate(); err != nil {
			return apperrors.Wrapf(err, "item %s", item.ID)
		}
		if f.IsWildcard() {
			return apperrors.Contentf("item %s feature %s cannot be a choice", item.ID, f.ID)
		}
	}
	return nil
}

func validateTraits(owner string, traits map[rules.Trait]int) error {
	for t := range traits {
		if !t.IsValid() {
			return apperrors.Contentf("%s has unknown trait %q", owner, t)
		}
	}
	return nil
}

func validateSkills(owner string, skills map[rules.Skill]int) error {
	for s := range skills {
		if !s.IsValid() {
			return apperrors.Contentf("%s has unknown skill %q", owner, s)
		}
	}
	return nil
}

func (c *Catalog) validateScenario(s *Scenario) error {
	owner := "scenario " + s.ID
	if s.Map.Width < 1 || s.Map.Height < 1 {
		return apperrors.Contentf("%s needs a map", owner)
	}
	if len(s.Heroes) == 0 || len(s.Enemies) == 0 {
		return apperrors.Contentf("%s needs heroes and enemies", owner)
	}

	taken := make(map[grid.Position]bool)
	ids := make(map[string]bool)
	place := func(id, what string, pos grid.Position) error {
		if id == "" {
			return apperrors.Contentf("%s has a %s without an id", owner, what)
		}
		if ids[id] {
			return apperrors.Contentf("%s uses id %q twice", owner, id)
		}
		ids[id] = true
		if !s.Map.IsOpen(pos) {
			return apperrors.Contentf("%s places %s on blocked square %s", owner, id, pos)
		}
		if taken[pos] {
			return apperrors.Contentf("%s places two combatants at %s", owner, pos)
		}
		taken[pos] = true
		return nil
	}

	for _, h := range s.Heroes {
		if _, err := c.Species(h.Species); err != nil {
			return apperrors.WrapWithCode(err, apperrors.CodeContent, owner)
		}
		if _, err := c.Role(h.Role); err != nil {
			return apperrors.WrapWithCode(err, apperrors.CodeContent, owner)
		}
		if _, err := c.Background(h.Background); err != nil {
			return apperrors.WrapWithCode(err, apperrors.CodeContent, owner)
		}
		if err := place(h.ID, "hero", h.Position); err != nil {
			return err
		}
	}
	for _, e := range s.Enemies {
		if _, ok := c.creatures[e.Creature]; !ok {
			return apperrors.Contentf("%s uses unknown creature %q", owner, e.Creature)
		}
		if err := place(e.ID, "enemy", e.Position); err != nil {
			return err
		}
	}
	for _, id := range s.Loot {
		if _, ok := c.items[id]; !ok {
			return apperrors.Contentf("%s drops unknown item %q", owner, id)
		}
	}
	if s.XP < 0 {
		return apperrors.Contentf("%s has negative xp", owner)
	}
	return nil
}
