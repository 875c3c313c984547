// Package actions defines the declarative content records the engine
// interprets: actions, their prerequisites, parameters and effect trees.
package actions

import (
	"github.com/KirkDiggler/squad-tactics/internal/domain/rules"
	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
)

// PrerequisiteKind names a gating predicate
type PrerequisiteKind string

const (
	PrereqProne           PrerequisiteKind = "prone"
	PrereqStanding        PrerequisiteKind = "standing"
	PrereqHidden          PrerequisiteKind = "hidden"
	PrereqNotHidden       PrerequisiteKind = "not-hidden"
	PrereqMeleeWeapon     PrerequisiteKind = "melee-weapon"
	PrereqRangedWeapon    PrerequisiteKind = "ranged-weapon"
	PrereqEmptyHand       PrerequisiteKind = "empty-hand"
	PrereqHasCondition    PrerequisiteKind = "has-condition"
	PrereqAdjacentEnemy   PrerequisiteKind = "adjacent-enemy"
	PrereqNoAdjacentEnemy PrerequisiteKind = "no-adjacent-enemy"
	PrereqProficiency     PrerequisiteKind = "proficiency"
	PrereqNotStunned      PrerequisiteKind = "not-stunned"
)

// Prerequisite is a named predicate with its parameters
type Prerequisite struct {
	Kind        PrerequisiteKind  `json:"kind" yaml:"kind"`
	Trait       rules.Trait       `json:"trait,omitempty" yaml:"trait,omitempty"`
	Proficiency rules.Proficiency `json:"proficiency,omitempty" yaml:"proficiency,omitempty"`
}

// Validate rejects unknown predicates and bad arguments
func (p *Prerequisite) Validate() error {
	switch p.Kind {
	case PrereqProne, PrereqStanding, PrereqHidden, PrereqNotHidden,
		PrereqMeleeWeapon, PrereqRangedWeapon, PrereqEmptyHand,
		PrereqAdjacentEnemy, PrereqNoAdjacentEnemy, PrereqNotStunned:
		return nil
	case PrereqHasCondition:
		if p.Trait != "" && p.Trait != rules.TraitAny && !p.Trait.IsValid() {
			return apperrors.Contentf("prerequisite %s has unknown trait %q", p.Kind, p.Trait)
		}
		return nil
	case PrereqProficiency:
		if !p.Proficiency.IsValid() {
			return apperrors.Contentf("prerequisite %s has unknown proficiency %q", p.Kind, p.Proficiency)
		}
		return nil
	default:
		return apperrors.Contentf("unknown prerequisite kind %q", p.Kind)
	}
}

// ParameterKind splits origin parameters from target parameters
type ParameterKind string

const (
	ParamOrigin ParameterKind = "origin"
	ParamTarget ParameterKind = "target"
)

// OriginKind is where an action is resolved from
type OriginKind string

const (
	OriginSelf     OriginKind = "self"
	OriginDistance OriginKind = "distance"
	OriginWeapon   OriginKind = "weapon"
)

// TargetCategory filters what can be picked
type TargetCategory string

const (
	TargetAllies     TargetCategory = "allies"
	TargetEnemies    TargetCategory = "enemies"
	TargetCombatants TargetCategory = "combatants"
	TargetSquares    TargetCategory = "squares"
	TargetWalls      TargetCategory = "walls"
)

// Shape limits candidates by distance from the origin
type Shape string

const (
	ShapeAdjacent Shape = "adjacent"
	ShapeBurst    Shape = "burst"
	ShapeWeapon   Shape = "weapon"
)

// Unlimited as a Max means every candidate is affected
const Unlimited = -1

// Parameter is either an origin or a target parameter
type Parameter struct {
	Kind ParameterKind `json:"kind" yaml:"kind"`

	// origin
	Origin   OriginKind `json:"origin,omitempty" yaml:"origin,omitempty"`
	Distance int        `json:"distance,omitempty" yaml:"distance,omitempty"`

	// target
	Category    TargetCategory `json:"category,omitempty" yaml:"category,omitempty"`
	Shape       Shape          `json:"shape,omitempty" yaml:"shape,omitempty"`
	Radius      int            `json:"radius,omitempty" yaml:"radius,omitempty"`
	Max         int            `json:"max" yaml:"max"`
	IncludeSelf bool           `json:"include_self,omitempty" yaml:"include_self,omitempty"`
}

// IsUnlimited reports whether every candidate is selected
func (p *Parameter) IsUnlimited() bool {
	return p.Max == Unlimited
}

// Validate checks a single parameter
func (p *Parameter) Validate() error {
	switch p.Kind {
	case ParamOrigin:
		switch p.Origin {
		case OriginSelf, OriginWeapon:
		case OriginDistance:
			if p.Distance < 1 {
				return apperrors.Contentf("distance origin needs a positive distance, got %d", p.Distance)
			}
		default:
			return apperrors.Contentf("unknown origin %q", p.Origin)
		}
	case ParamTarget:
		switch p.Category {
		case TargetAllies, TargetEnemies, TargetCombatants, TargetSquares, TargetWalls:
		default:
			return apperrors.Contentf("unknown target category %q", p.Category)
		}
		switch p.Shape {
		case ShapeAdjacent, ShapeWeapon:
		case ShapeBurst:
			if p.Radius < 0 {
				return apperrors.Contentf("burst radius must be >= 0, got %d", p.Radius)
			}
		default:
			return apperrors.Contentf("unknown target shape %q", p.Shape)
		}
		if p.Max == 0 || p.Max < Unlimited {
			return apperrors.Contentf("target max must be positive or %d, got %d", Unlimited, p.Max)
		}
	default:
		return apperrors.Contentf("unknown parameter kind %q", p.Kind)
	}
	return nil
}

// Action is an immutable content record
type Action struct {
	ID            string         `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	Description   string         `json:"description,omitempty" yaml:"description,omitempty"`
	Prerequisites []Prerequisite `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
	Parameters    []Parameter    `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Effects       []Effect       `json:"effects" yaml:"effects"`
}

// OriginParam returns the origin parameter; actions without one resolve from the actor
func (a *Action) OriginParam() Parameter {
	for _, p := range a.Parameters {
		if p.Kind == ParamOrigin {
			return p
		}
	}
	return Parameter{Kind: ParamOrigin, Origin: OriginSelf}
}

// TargetParam returns the target parameter, or nil when the action only affects its user
func (a *Action) TargetParam() *Parameter {
	for i := range a.Parameters {
		if a.Parameters[i].Kind == ParamTarget {
			return &a.Parameters[i]
		}
	}
	return nil
}

// Validate checks the whole record. Catalog loading fails fast on the first error.
func (a *Action) Validate() error {
	if a.ID == "" {
		return apperrors.Content("action is missing an id")
	}

	for i := range a.Prerequisites {
		if err := a.Prerequisites[i].Validate(); err != nil {
			return apperrors.Wrapf(err, "action %s", a.ID)
		}
	}

	origins, targets := 0, 0
	for i := range a.Parameters {
		p := &a.Parameters[i]
		if err := p.Validate(); err != nil {
			return apperrors.Wrapf(err, "action %s parameter %d", a.ID, i)
		}
		switch p.Kind {
		case ParamOrigin:
			if targets > 0 {
				return apperrors.Contentf("action %s lists an origin after a target", a.ID)
			}
			origins++
		case ParamTarget:
			targets++
		}
	}
	if origins > 1 || targets > 1 {
		return apperrors.Contentf("action %s may have at most one origin and one target parameter", a.ID)
	}

	if len(a.Effects) == 0 {
		return apperrors.Contentf("action %s has no effects", a.ID)
	}
	for i := range a.Effects {
		if err := a.Effects[i].Validate(); err != nil {
			return apperrors.Wrapf(err, "action %s", a.ID)
		}
	}

	return nil
}
