// Package rules holds the closed vocabulary every other package keys on:
// traits, skills and their categories, damage types and their categories,
// and proficiencies.
package rules

// Any is the wildcard target accepted by filters and unresolved feature choices
const Any = "any"

// Trait is one of the six core traits of a combatant
type Trait string

const (
	TraitAgility    Trait = "agility"
	TraitEndurance  Trait = "endurance"
	TraitExpertise  Trait = "expertise"
	TraitPerception Trait = "perception"
	TraitReactions  Trait = "reactions"
	TraitResolve    Trait = "resolve"

	// TraitAny matches every trait in filters
	TraitAny Trait = Any
)

// Traits returns the concrete traits in display order
func Traits() []Trait {
	return []Trait{TraitAgility, TraitEndurance, TraitExpertise, TraitPerception, TraitReactions, TraitResolve}
}

// IsValid reports whether t is a concrete trait
func (t Trait) IsValid() bool {
	for _, known := range Traits() {
		if t == known {
			return true
		}
	}
	return false
}

// Matches reports whether t satisfies a filter value (which may be TraitAny or empty)
func (t Trait) Matches(filter Trait) bool {
	return filter == "" || filter == TraitAny || filter == t
}

// SkillCategory groups skills
type SkillCategory string

const (
	SkillCategoryCombat   SkillCategory = "combat"
	SkillCategoryPhysical SkillCategory = "physical"
	SkillCategoryMental   SkillCategory = "mental"
)

// SkillCategories returns the concrete categories
func SkillCategories() []SkillCategory {
	return []SkillCategory{SkillCategoryCombat, SkillCategoryPhysical, SkillCategoryMental}
}

// IsValid reports whether c is a known category
func (c SkillCategory) IsValid() bool {
	for _, known := range SkillCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// Skill is a trained capability belonging to exactly one category
type Skill string

const (
	SkillMelee     Skill = "melee"
	SkillRanged    Skill = "ranged"
	SkillUnarmed   Skill = "unarmed"
	SkillAthletics Skill = "athletics"
	SkillStealth   Skill = "stealth"
	SkillThievery  Skill = "thievery"
	SkillMedicine  Skill = "medicine"
	SkillTactics   Skill = "tactics"
	SkillArcana    Skill = "arcana"
)

var skillCategories = map[Skill]SkillCategory{
	SkillMelee:     SkillCategoryCombat,
	SkillRanged:    SkillCategoryCombat,
	SkillUnarmed:   SkillCategoryCombat,
	SkillAthletics: SkillCategoryPhysical,
	SkillStealth:   SkillCategoryPhysical,
	SkillThievery:  SkillCategoryPhysical,
	SkillMedicine:  SkillCategoryMental,
	SkillTactics:   SkillCategoryMental,
	SkillArcana:    SkillCategoryMental,
}

// Skills returns every concrete skill in display order
func Skills() []Skill {
	return []Skill{
		SkillMelee, SkillRanged, SkillUnarmed,
		SkillAthletics, SkillStealth, SkillThievery,
		SkillMedicine, SkillTactics, SkillArcana,
	}
}

// IsValid reports whether s is a known skill
func (s Skill) IsValid() bool {
	_, ok := skillCategories[s]
	return ok
}

// Category returns the category a skill belongs to, or "" for unknown skills
func (s Skill) Category() SkillCategory {
	return skillCategories[s]
}

// DamageCategory groups damage types
type DamageCategory string

const (
	DamageCategoryPhysical  DamageCategory = "physical"
	DamageCategoryElemental DamageCategory = "elemental"
	DamageCategoryOccult    DamageCategory = "occult"
)

// DamageCategories returns the concrete categories
func DamageCategories() []DamageCategory {
	return []DamageCategory{DamageCategoryPhysical, DamageCategoryElemental, DamageCategoryOccult}
}

// IsValid reports whether c is a known category
func (c DamageCategory) IsValid() bool {
	for _, known := range DamageCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// DamageType is a concrete kind of damage
type DamageType string

const (
	DamageEdged     DamageType = "edged"
	DamageBlunt     DamageType = "blunt"
	DamagePiercing  DamageType = "piercing"
	DamageFire      DamageType = "fire"
	DamageCold      DamageType = "cold"
	DamageLightning DamageType = "lightning"
	DamagePoison    DamageType = "poison"
	DamagePsychic   DamageType = "psychic"
)

var damageCategories = map[DamageType]DamageCategory{
	DamageEdged:     DamageCategoryPhysical,
	DamageBlunt:     DamageCategoryPhysical,
	DamagePiercing:  DamageCategoryPhysical,
	DamageFire:      DamageCategoryElemental,
	DamageCold:      DamageCategoryElemental,
	DamageLightning: DamageCategoryElemental,
	DamagePoison:    DamageCategoryOccult,
	DamagePsychic:   DamageCategoryOccult,
}

// DamageTypes returns every concrete damage type
func DamageTypes() []DamageType {
	return []DamageType{
		DamageEdged, DamageBlunt, DamagePiercing,
		DamageFire, DamageCold, DamageLightning,
		DamagePoison, DamagePsychic,
	}
}

// IsValid reports whether d is a known damage type
func (d DamageType) IsValid() bool {
	_, ok := damageCategories[d]
	return ok
}

// Category returns the category a damage type belongs to
func (d DamageType) Category() DamageCategory {
	return damageCategories[d]
}

// Proficiency is a permission to use a class of equipment
type Proficiency string

const (
	ProficiencyBlades     Proficiency = "blades"
	ProficiencyBludgeons  Proficiency = "bludgeons"
	ProficiencyPolearms   Proficiency = "polearms"
	ProficiencyBows       Proficiency = "bows"
	ProficiencyThrown     Proficiency = "thrown"
	ProficiencyShields    Proficiency = "shields"
	ProficiencyFoci       Proficiency = "foci"
	ProficiencyHeavyArmor Proficiency = "heavy-armor"
)

// Proficiencies returns every known proficiency
func Proficiencies() []Proficiency {
	return []Proficiency{
		ProficiencyBlades, ProficiencyBludgeons, ProficiencyPolearms, ProficiencyBows,
		ProficiencyThrown, ProficiencyShields, ProficiencyFoci, ProficiencyHeavyArmor,
	}
}

// IsValid reports whether p is a known proficiency
func (p Proficiency) IsValid() bool {
	for _, known := range Proficiencies() {
		if p == known {
			return true
		}
	}
	return false
}
