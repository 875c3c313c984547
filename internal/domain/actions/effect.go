package actions

import (
	"github.com/KirkDiggler/squad-tactics/internal/dice"
	"github.com/KirkDiggler/squad-tactics/internal/domain/conditions"
	"github.com/KirkDiggler/squad-tactics/internal/domain/rules"
	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
)

// MaxDepth bounds effect trees so resolution always terminates
const MaxDepth = 16

// EffectKind discriminates effect nodes
type EffectKind string

const (
	EffectDamage            EffectKind = "damage"
	EffectHealDamage        EffectKind = "heal-damage"
	EffectHealWounds        EffectKind = "heal-wounds"
	EffectAddCondition      EffectKind = "add-condition"
	EffectRemoveCondition   EffectKind = "remove-condition"
	EffectTransferCondition EffectKind = "transfer-condition"
	EffectInvertConditions  EffectKind = "invert-conditions"
	EffectAttack            EffectKind = "attack"
	EffectToSelf            EffectKind = "to-self"
	EffectTakeAnotherAction EffectKind = "take-another-action"
	EffectForceMovement     EffectKind = "force-movement"
	EffectSummon            EffectKind = "summon"
	EffectSteal             EffectKind = "steal"
	EffectHide              EffectKind = "hide"
	EffectStun              EffectKind = "stun"
	EffectKnockDown         EffectKind = "knock-down"
)

// Payload is the typed data carried by an effect node. The set of
// implementations is closed: one per EffectKind.
type Payload interface {
	Validate() error
	payload()
}

// Effect is one node of an effect tree
type Effect struct {
	Kind     EffectKind `json:"id"`
	Data     Payload    `json:"data,omitempty"`
	Children []Effect   `json:"children,omitempty"`
}

// NewEffect builds a node; a nil payload gets the kind's zero payload
func NewEffect(kind EffectKind, data Payload, children ...Effect) Effect {
	if data == nil {
		data, _ = newPayload(kind)
	}
	return Effect{Kind: kind, Data: data, Children: children}
}

// Validate checks the node, its payload and all descendants
func (e *Effect) Validate() error {
	return e.validate(1)
}

func (e *Effect) validate(depth int) error {
	if depth > MaxDepth {
		return apperrors.Contentf("effect tree deeper than %d", MaxDepth)
	}
	expected, err := newPayload(e.Kind)
	if err != nil {
		return err
	}
	if e.Data == nil {
		e.Data = expected
	}
	if !samePayloadKind(expected, e.Data) {
		return apperrors.Contentf("effect %s carries a %T payload", e.Kind, e.Data)
	}
	if err := e.Data.Validate(); err != nil {
		return apperrors.Wrapf(err, "effect %s", e.Kind)
	}
	for i := range e.Children {
		if err := e.Children[i].validate(depth + 1); err != nil {
			return err
		}
	}
	return nil
}

// Depth is the height of the tree rooted at e
func (e *Effect) Depth() int {
	deepest := 0
	for i := range e.Children {
		deepest = max(deepest, e.Children[i].Depth())
	}
	return deepest + 1
}

func newPayload(kind EffectKind) (Payload, error) {
	switch kind {
	case EffectDamage:
		return &DamageData{}, nil
	case EffectHealDamage, EffectHealWounds:
		return &HealData{}, nil
	case EffectAddCondition:
		return &AddConditionData{}, nil
	case EffectRemoveCondition:
		return &RemoveConditionData{}, nil
	case EffectTransferCondition:
		return &TransferConditionData{}, nil
	case EffectInvertConditions:
		return &InvertConditionsData{}, nil
	case EffectAttack:
		return &AttackData{}, nil
	case EffectForceMovement:
		return &ForceMovementData{}, nil
	case EffectSummon:
		return &SummonData{}, nil
	case EffectStun:
		return &StunData{}, nil
	case EffectToSelf, EffectTakeAnotherAction, EffectSteal, EffectHide, EffectKnockDown:
		return &NoData{}, nil
	default:
		return nil, apperrors.Contentf("unknown effect kind %q", kind)
	}
}

func samePayloadKind(a, b Payload) bool {
	switch a.(type) {
	case *DamageData:
		_, ok := b.(*DamageData)
		return ok
	case *HealData:
		_, ok := b.(*HealData)
		return ok
	case *AddConditionData:
		_, ok := b.(*AddConditionData)
		return ok
	case *RemoveConditionData:
		_, ok := b.(*RemoveConditionData)
		return ok
	case *TransferConditionData:
		_, ok := b.(*TransferConditionData)
		return ok
	case *InvertConditionsData:
		_, ok := b.(*InvertConditionsData)
		return ok
	case *AttackData:
		_, ok := b.(*AttackData)
		return ok
	case *ForceMovementData:
		_, ok := b.(*ForceMovementData)
		return ok
	case *SummonData:
		_, ok := b.(*SummonData)
		return ok
	case *StunData:
		_, ok := b.(*StunData)
		return ok
	case *NoData:
		_, ok := b.(*NoData)
		return ok
	}
	return false
}

// NoData is the payload of effects that need no parameters
type NoData struct{}

func (*NoData) payload()        {}
func (*NoData) Validate() error { return nil }

// DamageData deals Amount plus an optional dice roll of one damage type
type DamageData struct {
	Damage rules.DamageType `json:"damage" yaml:"damage"`
	Amount int              `json:"amount" yaml:"amount"`
	Dice   string           `json:"dice,omitempty" yaml:"dice,omitempty"`
}

func (*DamageData) payload() {}

func (d *DamageData) Validate() error {
	if !d.Damage.IsValid() {
		return apperrors.Contentf("unknown damage type %q", d.Damage)
	}
	return validateAmount(d.Amount, d.Dice)
}

// HealData restores health (heal-damage) or removes wounds (heal-wounds)
type HealData struct {
	Amount int    `json:"amount" yaml:"amount"`
	Dice   string `json:"dice,omitempty" yaml:"dice,omitempty"`
}

func (*HealData) payload() {}

func (h *HealData) Validate() error {
	return validateAmount(h.Amount, h.Dice)
}

func validateAmount(amount int, notation string) error {
	if amount < 0 {
		return apperrors.Contentf("amount must be >= 0, got %d", amount)
	}
	if notation != "" {
		if _, err := dice.ParseNotation(notation); err != nil {
			return apperrors.WrapWithCode(err, apperrors.CodeContent, "bad dice")
		}
	} else if amount == 0 {
		return apperrors.Content("amount or dice is required")
	}
	return nil
}

// AddConditionData applies a condition. A zero Rank uses the actor's
// effective score in the source trait (at least 1).
type AddConditionData struct {
	Type    conditions.Type    `json:"type" yaml:"type"`
	Trait   rules.Trait        `json:"trait" yaml:"trait"`
	Rank    int                `json:"rank,omitempty" yaml:"rank,omitempty"`
	Details conditions.Details `json:"details" yaml:"details"`
	Rounds  int                `json:"rounds,omitempty" yaml:"rounds,omitempty"`
}

func (*AddConditionData) payload() {}

func (a *AddConditionData) Validate() error {
	if !a.Trait.IsValid() {
		return apperrors.Contentf("add-condition needs a source trait, got %q", a.Trait)
	}
	candidate := &conditions.Condition{
		Type:        a.Type,
		SourceTrait: a.Trait,
		Rank:        a.Rank,
		Details:     a.Details,
		Rounds:      a.Rounds,
	}
	return candidate.Validate()
}

// RemoveConditionData strips conditions of a source trait ("any" for all)
type RemoveConditionData struct {
	Trait rules.Trait `json:"trait" yaml:"trait"`
	Limit int         `json:"limit,omitempty" yaml:"limit,omitempty"`
}

func (*RemoveConditionData) payload() {}

func (r *RemoveConditionData) Validate() error {
	if err := validateFilterTrait(r.Trait); err != nil {
		return err
	}
	if r.Limit < 0 {
		return apperrors.Contentf("limit must be >= 0, got %d", r.Limit)
	}
	return nil
}

// TransferDirection says which way a condition moves
type TransferDirection string

const (
	TransferToTarget   TransferDirection = "to-target"
	TransferFromTarget TransferDirection = "from-target"
)

// TransferConditionData moves one matching condition between actor and target
type TransferConditionData struct {
	Trait     rules.Trait       `json:"trait" yaml:"trait"`
	Direction TransferDirection `json:"direction,omitempty" yaml:"direction,omitempty"`
}

func (*TransferConditionData) payload() {}

func (t *TransferConditionData) Validate() error {
	switch t.Direction {
	case "", TransferToTarget, TransferFromTarget:
	default:
		return apperrors.Contentf("unknown transfer direction %q", t.Direction)
	}
	return validateFilterTrait(t.Trait)
}

// InvertConditionsData flips matching conditions on the target
type InvertConditionsData struct {
	Trait             rules.Trait `json:"trait" yaml:"trait"`
	IncludeBeneficial bool        `json:"include_beneficial,omitempty" yaml:"include_beneficial,omitempty"`
}

func (*InvertConditionsData) payload() {}

func (i *InvertConditionsData) Validate() error {
	return validateFilterTrait(i.Trait)
}

func validateFilterTrait(t rules.Trait) error {
	if t == "" || t == rules.TraitAny || t.IsValid() {
		return nil
	}
	return apperrors.Contentf("unknown trait %q", t)
}

// AttackData gates its children on an attack comparison. Empty fields fall
// back to the wielded weapon's skill, Agility to attack and Agility to defend.
type AttackData struct {
	Skill   rules.Skill `json:"skill,omitempty" yaml:"skill,omitempty"`
	Trait   rules.Trait `json:"trait,omitempty" yaml:"trait,omitempty"`
	Defense rules.Trait `json:"defense,omitempty" yaml:"defense,omitempty"`
}

func (*AttackData) payload() {}

func (a *AttackData) Validate() error {
	if a.Skill != "" && !a.Skill.IsValid() {
		return apperrors.Contentf("unknown attack skill %q", a.Skill)
	}
	if a.Trait != "" && !a.Trait.IsValid() {
		return apperrors.Contentf("unknown attack trait %q", a.Trait)
	}
	if a.Defense != "" && !a.Defense.IsValid() {
		return apperrors.Contentf("unknown defense trait %q", a.Defense)
	}
	return nil
}

// MovementMode is how force-movement relocates its target
type MovementMode string

const (
	MovePush   MovementMode = "push"
	MovePull   MovementMode = "pull"
	MoveSwap   MovementMode = "swap"
	MoveToward MovementMode = "toward"
	MoveAway   MovementMode = "away"
	MoveRandom MovementMode = "random"
	MoveBeside MovementMode = "beside"
)

// ForceMovementData relocates the target. Push/pull are relative to the
// actor; toward/away are relative to the action's origin square.
type ForceMovementData struct {
	Mode     MovementMode `json:"mode" yaml:"mode"`
	Distance int          `json:"distance,omitempty" yaml:"distance,omitempty"`
}

func (*ForceMovementData) payload() {}

func (f *ForceMovementData) Validate() error {
	switch f.Mode {
	case MovePush, MovePull, MoveToward, MoveAway, MoveRandom:
		if f.Distance < 1 {
			return apperrors.Contentf("%s movement needs a positive distance", f.Mode)
		}
	case MoveSwap, MoveBeside:
	default:
		return apperrors.Contentf("unknown movement mode %q", f.Mode)
	}
	return nil
}

// SummonData places catalog creatures on the targeted squares
type SummonData struct {
	Creature string `json:"creature" yaml:"creature"`
}

func (*SummonData) payload() {}

func (s *SummonData) Validate() error {
	if s.Creature == "" {
		return apperrors.Content("summon needs a creature id")
	}
	return nil
}

// StunData makes the target lose turns
type StunData struct {
	Turns int `json:"turns" yaml:"turns"`
}

func (*StunData) payload() {}

func (s *StunData) Validate() error {
	if s.Turns < 1 {
		return apperrors.Contentf("stun needs at least one turn, got %d", s.Turns)
	}
	return nil
}
