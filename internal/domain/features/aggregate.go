package features

import (
	"sort"

	"github.com/KirkDiggler/squad-tactics/internal/domain/conditions"
	"github.com/KirkDiggler/squad-tactics/internal/domain/ranks"
	"github.com/KirkDiggler/squad-tactics/internal/domain/rules"
	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
)

var kindStats = map[Kind]string{
	KindTrait:                conditions.StatTrait,
	KindSkill:                conditions.StatSkill,
	KindSkillCategory:        conditions.StatSkillCategory,
	KindDamageBonus:          conditions.StatDamage,
	KindDamageCategoryBonus:  conditions.StatDamageCategory,
	KindDamageResist:         conditions.StatResist,
	KindDamageCategoryResist: conditions.StatDamageCategoryResist,
}

// Totals is the aggregated view of a feature list
type Totals struct {
	ranks         ranks.Totals
	proficiencies map[rules.Proficiency]bool
	auras         []*conditions.Condition
}

// Aggregate sums feature ranks per (kind, target), unions proficiencies and
// collects aura conditions. Unresolved wildcards are a content error.
func Aggregate(fs []Feature) (*Totals, error) {
	for i := range fs {
		if fs[i].IsWildcard() {
			return nil, apperrors.Contentf("feature %s still has an unresolved %q choice", fs[i].ID, rules.Any)
		}
	}

	totals := &Totals{
		ranks: ranks.Reduce(fs, func(f Feature) (ranks.Key, int, bool) {
			stat, ok := kindStats[f.Kind]
			if !ok {
				return ranks.Key{}, 0, false
			}
			return ranks.Key{Stat: stat, Target: f.Target}, f.Rank, true
		}),
		proficiencies: make(map[rules.Proficiency]bool),
	}

	for i := range fs {
		switch fs[i].Kind {
		case KindProficiency:
			totals.proficiencies[rules.Proficiency(fs[i].Target)] = true
		case KindAura:
			if fs[i].Aura != nil {
				totals.auras = append(totals.auras, fs[i].auraCondition())
			}
		}
	}

	return totals, nil
}

// Ranks exposes the raw reduced totals
func (t *Totals) Ranks() ranks.Totals {
	return t.ranks
}

func (t *Totals) Trait(trait rules.Trait) int {
	return t.ranks.Get(conditions.StatTrait, string(trait))
}

func (t *Totals) Skill(skill rules.Skill) int {
	return t.ranks.Get(conditions.StatSkill, string(skill))
}

func (t *Totals) SkillCategory(category rules.SkillCategory) int {
	return t.ranks.Get(conditions.StatSkillCategory, string(category))
}

func (t *Totals) DamageBonus(damage rules.DamageType) int {
	return t.ranks.Get(conditions.StatDamage, string(damage))
}

func (t *Totals) DamageCategoryBonus(category rules.DamageCategory) int {
	return t.ranks.Get(conditions.StatDamageCategory, string(category))
}

func (t *Totals) DamageResist(damage rules.DamageType) int {
	return t.ranks.Get(conditions.StatResist, string(damage))
}

func (t *Totals) DamageCategoryResist(category rules.DamageCategory) int {
	return t.ranks.Get(conditions.StatDamageCategoryResist, string(category))
}

// HasProficiency reports set membership
func (t *Totals) HasProficiency(p rules.Proficiency) bool {
	return t.proficiencies[p]
}

// Proficiencies returns the proficiency set sorted for display
func (t *Totals) Proficiencies() []rules.Proficiency {
	out := make([]rules.Proficiency, 0, len(t.proficiencies))
	for p := range t.proficiencies {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Auras returns the persistent conditions granted by aura features.
// They are fresh copies each call and never enter a combatant's ledger.
func (t *Totals) Auras() []*conditions.Condition {
	out := make([]*conditions.Condition, len(t.auras))
	for i, c := range t.auras {
		out[i] = c.Clone()
	}
	return out
}
