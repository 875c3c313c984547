// Package stats resolves effective values from a combatant's base numbers,
// its features and its live conditions. Nothing is cached; every call
// recomputes from current state.
package stats

import (
	"log"

	"github.com/KirkDiggler/squad-tactics/internal/domain/combatant"
	"github.com/KirkDiggler/squad-tactics/internal/domain/conditions"
	"github.com/KirkDiggler/squad-tactics/internal/domain/features"
	"github.com/KirkDiggler/squad-tactics/internal/domain/ranks"
	"github.com/KirkDiggler/squad-tactics/internal/domain/rules"
)

type view struct {
	feats *features.Totals
	conds ranks.Totals
}

func load(c *combatant.Combatant) view {
	feats, err := features.Aggregate(c.AllFeatures())
	if err != nil {
		// catalog validation keeps this from happening outside hand-built test data
		log.Printf("[STATS] Ignoring features of %s: %v", c.ID, err)
		feats, _ = features.Aggregate(nil)
	}

	conds := ranks.Totals{}
	if c.Conditions != nil {
		conds = c.Conditions.Aggregate()
	}
	conds.Merge(ranks.Reduce(feats.Auras(), (*conditions.Condition).Contribution))

	return view{feats: feats, conds: conds}
}

func (v view) trait(c *combatant.Combatant, t rules.Trait) int {
	return c.Traits[t] + v.feats.Trait(t) + v.conds.Get(conditions.StatTrait, string(t))
}

func (v view) skill(c *combatant.Combatant, s rules.Skill) int {
	category := s.Category()
	return c.Skills[s] +
		v.feats.Skill(s) + v.feats.SkillCategory(category) +
		v.conds.Get(conditions.StatSkill, string(s)) +
		v.conds.Get(conditions.StatSkillCategory, string(category))
}

func (v view) damageBonus(d rules.DamageType) int {
	category := d.Category()
	return v.feats.DamageBonus(d) + v.feats.DamageCategoryBonus(category) +
		v.conds.Get(conditions.StatDamage, string(d)) +
		v.conds.Get(conditions.StatDamageCategory, string(category))
}

func (v view) damageResist(d rules.DamageType) int {
	category := d.Category()
	return v.feats.DamageResist(d) + v.feats.DamageCategoryResist(category) +
		v.conds.Get(conditions.StatResist, string(d)) +
		v.conds.Get(conditions.StatDamageCategoryResist, string(category))
}

// Trait is base + feature + condition contribution for one trait
func Trait(c *combatant.Combatant, t rules.Trait) int {
	return load(c).trait(c, t)
}

// Skill adds the skill's category contributions on top of the exact skill
func Skill(c *combatant.Combatant, s rules.Skill) int {
	return load(c).skill(c, s)
}

// DamageBonus is extra damage dealt of a type, including its category
func DamageBonus(c *combatant.Combatant, d rules.DamageType) int {
	return load(c).damageBonus(d)
}

// DamageResist is damage prevented of a type, including its category.
// Vulnerabilities make it negative.
func DamageResist(c *combatant.Combatant, d rules.DamageType) int {
	return load(c).damageResist(d)
}

// Movement is how many squares the combatant may move, never negative
func Movement(c *combatant.Combatant) int {
	return max(0, c.Movement+load(c).conds.Get(conditions.StatMovement, ""))
}

// Regen is net automatic healing (positive) or damage (negative) per round
func Regen(c *combatant.Combatant) int {
	return load(c).conds.Get(conditions.StatRegen, "")
}

// HasProficiency reports whether any feature grants the proficiency
func HasProficiency(c *combatant.Combatant, p rules.Proficiency) bool {
	return load(c).feats.HasProficiency(p)
}

// Sheet is a display snapshot of every effective value
type Sheet struct {
	Traits        map[rules.Trait]int      `json:"traits"`
	Skills        map[rules.Skill]int      `json:"skills"`
	DamageBonus   map[rules.DamageType]int `json:"damage_bonus"`
	DamageResist  map[rules.DamageType]int `json:"damage_resist"`
	Movement      int                      `json:"movement"`
	Regen         int                      `json:"regen"`
	Proficiencies []rules.Proficiency      `json:"proficiencies"`
}

// Snapshot computes a full sheet in one pass
func Snapshot(c *combatant.Combatant) *Sheet {
	v := load(c)
	sheet := &Sheet{
		Traits:        make(map[rules.Trait]int),
		Skills:        make(map[rules.Skill]int),
		DamageBonus:   make(map[rules.DamageType]int),
		DamageResist:  make(map[rules.DamageType]int),
		Movement:      max(0, c.Movement+v.conds.Get(conditions.StatMovement, "")),
		Regen:         v.conds.Get(conditions.StatRegen, ""),
		Proficiencies: v.feats.Proficiencies(),
	}

	for _, t := range rules.Traits() {
		sheet.Traits[t] = v.trait(c, t)
	}
	for _, s := range rules.Skills() {
		sheet.Skills[s] = v.skill(c, s)
	}
	for _, d := range rules.DamageTypes() {
		if bonus := v.damageBonus(d); bonus != 0 {
			sheet.DamageBonus[d] = bonus
		}
		if resist := v.damageResist(d); resist != 0 {
			sheet.DamageResist[d] = resist
		}
	}

	return sheet
}
