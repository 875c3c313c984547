// Package features aggregates the permanent grants a combatant gets from its
// species, role, background and equipped items.
package features

import (
	"github.com/KirkDiggler/squad-tactics/internal/domain/conditions"
	"github.com/KirkDiggler/squad-tactics/internal/domain/rules"
	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
)

// Kind discriminates what a feature grants
type Kind string

const (
	KindTrait                Kind = "trait"
	KindSkill                Kind = "skill"
	KindSkillCategory        Kind = "skill-category"
	KindProficiency          Kind = "proficiency"
	KindDamageBonus          Kind = "damage-bonus"
	KindDamageCategoryBonus  Kind = "damage-category-bonus"
	KindDamageResist         Kind = "damage-resist"
	KindDamageCategoryResist Kind = "damage-category-resist"
	KindAura                 Kind = "aura"
)

// AuraFamily constrains which condition types an aura may grant
type AuraFamily string

const (
	AuraBoon AuraFamily = "boon"
	AuraBane AuraFamily = "bane"
)

// Aura is the persistent condition an aura feature keeps on its bearer
type Aura struct {
	Family      AuraFamily         `json:"family" yaml:"family"`
	Type        conditions.Type    `json:"type" yaml:"type"`
	SourceTrait rules.Trait        `json:"source_trait,omitempty" yaml:"source_trait,omitempty"`
	Details     conditions.Details `json:"details" yaml:"details"`
}

// Feature is a permanent, non-removable grant
type Feature struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Kind   Kind   `json:"kind" yaml:"kind"`
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	// Target names what the feature modifies: a trait, skill, category,
	// damage type or proficiency depending on Kind. "any" must be resolved
	// with Choose before the feature is aggregated.
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
	Rank   int    `json:"rank" yaml:"rank"`
	Aura   *Aura  `json:"aura,omitempty" yaml:"aura,omitempty"`
}

var auraAllowList = map[AuraFamily]func(conditions.Type) bool{
	AuraBoon: conditions.Type.IsBeneficial,
	AuraBane: func(t conditions.Type) bool { return t.IsValid() && !t.IsBeneficial() },
}

// IsWildcard reports whether the feature still waits for a player choice
func (f *Feature) IsWildcard() bool {
	return f.Target == rules.Any
}

// Choose resolves a wildcard feature into a concrete one
func (f *Feature) Choose(target string) (*Feature, error) {
	if !f.IsWildcard() {
		return nil, apperrors.InvalidArgumentf("feature %s has no choice to make", f.ID)
	}

	resolved := *f
	resolved.Target = target
	if err := resolved.validateTarget(); err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.CodeInvalidArgument, "invalid choice")
	}

	return &resolved, nil
}

// Validate checks the feature against the rule vocabulary and the aura allow-list.
// Wildcard targets pass validation; aggregation rejects them.
func (f *Feature) Validate() error {
	if f.Rank < 0 {
		return apperrors.Contentf("feature %s has negative rank %d", f.ID, f.Rank)
	}

	if f.Kind == KindAura {
		return f.validateAura()
	}
	if f.Aura != nil {
		return apperrors.Contentf("feature %s of kind %s cannot carry an aura", f.ID, f.Kind)
	}

	if f.IsWildcard() {
		switch f.Kind {
		case KindTrait, KindSkill, KindSkillCategory, KindProficiency,
			KindDamageBonus, KindDamageCategoryBonus, KindDamageResist, KindDamageCategoryResist:
			return nil
		default:
			return apperrors.Contentf("feature %s has unknown kind %q", f.ID, f.Kind)
		}
	}

	return f.validateTarget()
}

func (f *Feature) validateTarget() error {
	ok := false
	switch f.Kind {
	case KindTrait:
		ok = rules.Trait(f.Target).IsValid()
	case KindSkill:
		ok = rules.Skill(f.Target).IsValid()
	case KindSkillCategory:
		ok = rules.SkillCategory(f.Target).IsValid()
	case KindProficiency:
		ok = rules.Proficiency(f.Target).IsValid()
	case KindDamageBonus, KindDamageResist:
		ok = rules.DamageType(f.Target).IsValid()
	case KindDamageCategoryBonus, KindDamageCategoryResist:
		ok = rules.DamageCategory(f.Target).IsValid()
	default:
		return apperrors.Contentf("feature %s has unknown kind %q", f.ID, f.Kind)
	}

	if !ok {
		return apperrors.Contentf("feature %s (%s) has unknown target %q", f.ID, f.Kind, f.Target)
	}
	return nil
}

func (f *Feature) validateAura() error {
	if f.Aura == nil {
		return apperrors.Contentf("aura feature %s has no aura", f.ID)
	}

	allowed, ok := auraAllowList[f.Aura.Family]
	if !ok {
		return apperrors.Contentf("aura feature %s has unknown family %q", f.ID, f.Aura.Family)
	}
	if !allowed(f.Aura.Type) {
		return apperrors.Contentf("aura feature %s: %s auras cannot grant %q", f.ID, f.Aura.Family, f.Aura.Type)
	}

	return f.auraCondition().Validate()
}

func (f *Feature) auraCondition() *conditions.Condition {
	return &conditions.Condition{
		ID:          "aura:" + f.ID,
		Type:        f.Aura.Type,
		SourceTrait: f.Aura.SourceTrait,
		Rank:        f.Rank,
		Details:     f.Aura.Details,
		SourceID:    f.ID,
	}
}
