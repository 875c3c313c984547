package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/squad-tactics/internal/domain/combatant"
	"github.com/KirkDiggler/squad-tactics/internal/domain/conditions"
	"github.com/KirkDiggler/squad-tactics/internal/domain/features"
	"github.com/KirkDiggler/squad-tactics/internal/domain/rules"
	"github.com/KirkDiggler/squad-tactics/internal/domain/stats"
)

func newHero() *combatant.Combatant {
	return combatant.New("hero-1", "Ash", combatant.FactionPlayer, 10)
}

func TestTrait_FeaturePlusConditions(t *testing.T) {
	c := newHero()
	c.Features = []features.Feature{
		{ID: "stout", Kind: features.KindTrait, Target: string(rules.TraitEndurance), Rank: 2},
	}
	require.NoError(t, c.Conditions.Add(&conditions.Condition{
		ID: "c1", Type: conditions.TraitBonus, Rank: 1, Details: conditions.Details{Trait: rules.TraitEndurance},
	}))
	require.NoError(t, c.Conditions.Add(&conditions.Condition{
		ID: "c2", Type: conditions.TraitPenalty, Rank: 1, Details: conditions.Details{Trait: rules.TraitEndurance},
	}))

	assert.Equal(t, 2, stats.Trait(c, rules.TraitEndurance))
}

func TestTrait_IncludesBase(t *testing.T) {
	c := newHero()
	c.Traits[rules.TraitReactions] = 3

	assert.Equal(t, 3, stats.Trait(c, rules.TraitReactions))
	assert.Equal(t, 0, stats.Trait(c, rules.TraitAgility))
}

func TestSkill_AddsCategory(t *testing.T) {
	c := newHero()
	c.Features = []features.Feature{
		{ID: "brawler", Kind: features.KindSkillCategory, Target: string(rules.SkillCategoryCombat), Rank: 1},
		{ID: "fencer", Kind: features.KindSkill, Target: string(rules.SkillMelee), Rank: 2},
	}

	assert.Equal(t, 3, stats.Skill(c, rules.SkillMelee))
	assert.Equal(t, 1, stats.Skill(c, rules.SkillRanged))
	assert.Equal(t, 0, stats.Skill(c, rules.SkillStealth))
}

func TestDamageResist_CategoryAndVulnerability(t *testing.T) {
	c := newHero()
	c.Features = []features.Feature{
		{ID: "scaled", Kind: features.KindDamageCategoryResist, Target: string(rules.DamageCategoryElemental), Rank: 1},
	}
	require.NoError(t, c.Conditions.Add(&conditions.Condition{
		ID: "soaked", Type: conditions.DamageVulnerability, Rank: 2, Details: conditions.Details{Damage: rules.DamageLightning},
	}))

	assert.Equal(t, 1, stats.DamageResist(c, rules.DamageFire))
	assert.Equal(t, -1, stats.DamageResist(c, rules.DamageLightning))
	assert.Equal(t, 0, stats.DamageResist(c, rules.DamageEdged))
}

func TestAuraFeatures_ContributeWithoutLedger(t *testing.T) {
	c := newHero()
	c.Features = []features.Feature{{
		ID:   "mending-presence",
		Kind: features.KindAura,
		Rank: 2,
		Aura: &features.Aura{Family: features.AuraBoon, Type: conditions.AutoHeal},
	}}

	assert.Equal(t, 2, stats.Regen(c))
	assert.Equal(t, 0, c.Conditions.Len())
}

func TestMovement_NeverNegative(t *testing.T) {
	c := newHero()
	require.NoError(t, c.Conditions.Add(&conditions.Condition{ID: "mud", Type: conditions.MovementPenalty, Rank: 10}))

	assert.Equal(t, 0, stats.Movement(c))
}

func TestRecomputesAfterMutation(t *testing.T) {
	c := newHero()
	cond := &conditions.Condition{ID: "c1", Type: conditions.SkillBonus, Rank: 2, Details: conditions.Details{Skill: rules.SkillStealth}}
	require.NoError(t, c.Conditions.Add(cond))
	assert.Equal(t, 2, stats.Skill(c, rules.SkillStealth))

	c.Conditions.Invert(conditions.Filter{}, false)
	assert.Equal(t, -2, stats.Skill(c, rules.SkillStealth))

	c.Conditions.Remove(conditions.Filter{})
	assert.Equal(t, 0, stats.Skill(c, rules.SkillStealth))
}

func TestSnapshot(t *testing.T) {
	c := newHero()
	c.Traits[rules.TraitAgility] = 2
	c.Features = []features.Feature{
		{ID: "blades", Kind: features.KindProficiency, Target: string(rules.ProficiencyBlades)},
		{ID: "burning", Kind: features.KindDamageBonus, Target: string(rules.DamageFire), Rank: 1},
	}

	sheet := stats.Snapshot(c)

	assert.Equal(t, 2, sheet.Traits[rules.TraitAgility])
	assert.Equal(t, 1, sheet.DamageBonus[rules.DamageFire])
	assert.NotContains(t, sheet.DamageBonus, rules.DamageCold)
	assert.Equal(t, []rules.Proficiency{rules.ProficiencyBlades}, sheet.Proficiencies)
	assert.Equal(t, combatant.DefaultMovement, sheet.Movement)
	assert.True(t, stats.HasProficiency(c, rules.ProficiencyBlades))
}
