package conditions

import (
	"github.com/KirkDiggler/squad-tactics/internal/domain/ranks"
	"github.com/KirkDiggler/squad-tactics/internal/domain/rules"
	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
)

// Type represents a kind of condition (aura)
type Type string

const (
	AutoHeal   Type = "auto-heal"
	AutoDamage Type = "auto-damage"

	TraitBonus   Type = "trait-bonus"
	TraitPenalty Type = "trait-penalty"

	SkillBonus           Type = "skill-bonus"
	SkillPenalty         Type = "skill-penalty"
	SkillCategoryBonus   Type = "skill-category-bonus"
	SkillCategoryPenalty Type = "skill-category-penalty"

	DamageBonus           Type = "damage-bonus"
	DamagePenalty         Type = "damage-penalty"
	DamageCategoryBonus   Type = "damage-category-bonus"
	DamageCategoryPenalty Type = "damage-category-penalty"

	DamageResistance            Type = "damage-resistance"
	DamageVulnerability         Type = "damage-vulnerability"
	DamageCategoryResistance    Type = "damage-category-resistance"
	DamageCategoryVulnerability Type = "damage-category-vulnerability"
	MovementBonus               Type = "movement-bonus"
	MovementPenalty             Type = "movement-penalty"
)

// Stat names used as ranks.Key.Stat by both conditions and features
const (
	StatTrait                = "trait"
	StatSkill                = "skill"
	StatSkillCategory        = "skill-category"
	StatDamage               = "damage"
	StatDamageCategory       = "damage-category"
	StatResist               = "resist"
	StatDamageCategoryResist = "damage-category-resist"
	StatMovement             = "movement"
	StatRegen                = "regen"
)

type typeInfo struct {
	stat      string
	sign      int
	automatic bool
}

var types = map[Type]typeInfo{
	AutoHeal:                    {stat: StatRegen, sign: 1, automatic: true},
	AutoDamage:                  {stat: StatRegen, sign: -1, automatic: true},
	TraitBonus:                  {stat: StatTrait, sign: 1},
	TraitPenalty:                {stat: StatTrait, sign: -1},
	SkillBonus:                  {stat: StatSkill, sign: 1},
	SkillPenalty:                {stat: StatSkill, sign: -1},
	SkillCategoryBonus:          {stat: StatSkillCategory, sign: 1},
	SkillCategoryPenalty:        {stat: StatSkillCategory, sign: -1},
	DamageBonus:                 {stat: StatDamage, sign: 1},
	DamagePenalty:               {stat: StatDamage, sign: -1},
	DamageCategoryBonus:         {stat: StatDamageCategory, sign: 1},
	DamageCategoryPenalty:       {stat: StatDamageCategory, sign: -1},
	DamageResistance:            {stat: StatResist, sign: 1},
	DamageVulnerability:         {stat: StatResist, sign: -1},
	DamageCategoryResistance:    {stat: StatDamageCategoryResist, sign: 1},
	DamageCategoryVulnerability: {stat: StatDamageCategoryResist, sign: -1},
	MovementBonus:               {stat: StatMovement, sign: 1},
	MovementPenalty:             {stat: StatMovement, sign: -1},
}

// Types returns every known condition type
func Types() []Type {
	return []Type{
		AutoHeal, AutoDamage,
		TraitBonus, TraitPenalty,
		SkillBonus, SkillPenalty, SkillCategoryBonus, SkillCategoryPenalty,
		DamageBonus, DamagePenalty, DamageCategoryBonus, DamageCategoryPenalty,
		DamageResistance, DamageVulnerability, DamageCategoryResistance, DamageCategoryVulnerability,
		MovementBonus, MovementPenalty,
	}
}

// IsValid reports whether t is a known condition type
func (t Type) IsValid() bool {
	_, ok := types[t]
	return ok
}

// IsBeneficial reports whether the type helps its bearer before any inversion
func (t Type) IsBeneficial() bool {
	return types[t].sign > 0
}

// IsAutomatic reports whether the type heals or damages on its own each round
func (t Type) IsAutomatic() bool {
	return types[t].automatic
}

// Stat returns the stat this type contributes to
func (t Type) Stat() string {
	return types[t].stat
}

// Details names the exact thing a condition modifies. Only the field matching
// the condition's stat is meaningful.
type Details struct {
	Trait          rules.Trait          `json:"trait,omitempty" yaml:"trait,omitempty"`
	Skill          rules.Skill          `json:"skill,omitempty" yaml:"skill,omitempty"`
	SkillCategory  rules.SkillCategory  `json:"skill_category,omitempty" yaml:"skill_category,omitempty"`
	Damage         rules.DamageType     `json:"damage,omitempty" yaml:"damage,omitempty"`
	DamageCategory rules.DamageCategory `json:"damage_category,omitempty" yaml:"damage_category,omitempty"`
}

// Condition is a live, stackable modifier on a combatant
type Condition struct {
	ID   string `json:"id"`
	Type Type   `json:"type"`
	// SourceTrait is the trait whose check decides the strength of the condition
	// when it is applied. Removal filters match on it.
	SourceTrait rules.Trait `json:"source_trait"`
	Rank        int         `json:"rank"`
	Details     Details     `json:"details"`
	SourceID    string      `json:"source_id,omitempty"`
	Inverted    bool        `json:"inverted,omitempty"`
	// Rounds remaining; 0 lasts until the encounter ends
	Rounds int `json:"rounds,omitempty"`
}

// Target returns the key target for the condition's stat
func (c *Condition) Target() string {
	switch c.Type.Stat() {
	case StatTrait:
		return string(c.Details.Trait)
	case StatSkill:
		return string(c.Details.Skill)
	case StatSkillCategory:
		return string(c.Details.SkillCategory)
	case StatDamage, StatResist:
		return string(c.Details.Damage)
	case StatDamageCategory, StatDamageCategoryResist:
		return string(c.Details.DamageCategory)
	default:
		return ""
	}
}

// Sign is +1 when the condition currently helps its bearer, -1 otherwise
func (c *Condition) Sign() int {
	sign := types[c.Type].sign
	if c.Inverted {
		sign = -sign
	}
	return sign
}

// Contribution is the signed rank the condition adds to its stat key.
// It is the extractor handed to ranks.Reduce.
func (c *Condition) Contribution() (ranks.Key, int, bool) {
	info, ok := types[c.Type]
	if !ok {
		return ranks.Key{}, 0, false
	}
	return ranks.Key{Stat: info.stat, Target: c.Target()}, c.Sign() * c.Rank, true
}

// Validate checks the condition is internally consistent
func (c *Condition) Validate() error {
	if !c.Type.IsValid() {
		return apperrors.Contentf("unknown condition type %q", c.Type)
	}
	if c.Rank < 0 {
		return apperrors.Contentf("condition %s has negative rank %d", c.Type, c.Rank)
	}
	if c.SourceTrait != "" && !c.SourceTrait.IsValid() {
		return apperrors.Contentf("condition %s has unknown source trait %q", c.Type, c.SourceTrait)
	}
	if c.Rounds < 0 {
		return apperrors.Contentf("condition %s has negative duration %d", c.Type, c.Rounds)
	}

	switch c.Type.Stat() {
	case StatTrait:
		if !c.Details.Trait.IsValid() {
			return apperrors.Contentf("condition %s needs a trait, got %q", c.Type, c.Details.Trait)
		}
	case StatSkill:
		if !c.Details.Skill.IsValid() {
			return apperrors.Contentf("condition %s needs a skill, got %q", c.Type, c.Details.Skill)
		}
	case StatSkillCategory:
		if !c.Details.SkillCategory.IsValid() {
			return apperrors.Contentf("condition %s needs a skill category, got %q", c.Type, c.Details.SkillCategory)
		}
	case StatDamage, StatResist:
		if !c.Details.Damage.IsValid() {
			return apperrors.Contentf("condition %s needs a damage type, got %q", c.Type, c.Details.Damage)
		}
	case StatDamageCategory, StatDamageCategoryResist:
		if !c.Details.DamageCategory.IsValid() {
			return apperrors.Contentf("condition %s needs a damage category, got %q", c.Type, c.Details.DamageCategory)
		}
	}

	return nil
}

// Clone returns an independent copy
func (c *Condition) Clone() *Condition {
	clone := *c
	return &clone
}
