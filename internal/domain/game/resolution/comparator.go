package resolution

import (
	"github.com/KirkDiggler/squad-tactics/internal/dice"
	"github.com/KirkDiggler/squad-tactics/internal/domain/actions"
	"github.com/KirkDiggler/squad-tactics/internal/domain/combatant"
	"github.com/KirkDiggler/squad-tactics/internal/domain/rules"
	"github.com/KirkDiggler/squad-tactics/internal/domain/stats"
	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
)

// AttackOutcome is the result of one attack comparison
type AttackOutcome struct {
	Hit     bool `json:"hit"`
	Attack  int  `json:"attack"`
	Defense int  `json:"defense"`
}

// Comparator decides whether an attack lands
type Comparator interface {
	Compare(attacker, defender *combatant.Combatant, attack *actions.AttackData) (*AttackOutcome, error)
}

// ComparatorFunc adapts a plain function to Comparator
type ComparatorFunc func(attacker, defender *combatant.Combatant, attack *actions.AttackData) (*AttackOutcome, error)

// Compare implements Comparator
func (f ComparatorFunc) Compare(attacker, defender *combatant.Combatant, attack *actions.AttackData) (*AttackOutcome, error) {
	return f(attacker, defender, attack)
}

// Always returns a comparator with a fixed result
func Always(hit bool) Comparator {
	return ComparatorFunc(func(_, _ *combatant.Combatant, _ *actions.AttackData) (*AttackOutcome, error) {
		return &AttackOutcome{Hit: hit}, nil
	})
}

// AttackStats fills in the defaults for an attack: the wielded weapon's
// skill, Agility to attack and Agility to defend.
func AttackStats(attacker *combatant.Combatant, attack *actions.AttackData) (rules.Skill, rules.Trait, rules.Trait) {
	skill, trait, defense := attack.Skill, attack.Trait, attack.Defense
	if skill == "" {
		skill = rules.SkillUnarmed
		if w := attacker.Inventory.Weapon(); w != nil {
			switch w.Kind {
			case combatant.ItemMeleeWeapon:
				skill = rules.SkillMelee
			case combatant.ItemRangedWeapon:
				skill = rules.SkillRanged
			}
		}
	}
	if trait == "" {
		trait = rules.TraitAgility
	}
	if defense == "" {
		defense = rules.TraitAgility
	}
	return skill, trait, defense
}

// OpposedRoll is the default comparator: the attacker rolls 2d6 + skill +
// trait against the defender's 2d6 + defense trait and must beat it.
type OpposedRoll struct {
	roller dice.Roller
}

// NewOpposedRoll creates the default comparator
func NewOpposedRoll(roller dice.Roller) *OpposedRoll {
	if roller == nil {
		panic("dice roller is required")
	}
	return &OpposedRoll{roller: roller}
}

// Compare implements Comparator
func (o *OpposedRoll) Compare(attacker, defender *combatant.Combatant, attack *actions.AttackData) (*AttackOutcome, error) {
	skill, trait, defense := AttackStats(attacker, attack)

	atk, err := o.roller.Roll(2, 6, stats.Skill(attacker, skill)+stats.Trait(attacker, trait))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to roll attack")
	}
	def, err := o.roller.Roll(2, 6, stats.Trait(defender, defense))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to roll defense")
	}

	return &AttackOutcome{
		Hit:     atk.Total > def.Total,
		Attack:  atk.Total,
		Defense: def.Total,
	}, nil
}
