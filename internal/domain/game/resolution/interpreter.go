// Package resolution interprets effect trees against the battlefield.
//
// Resolution never fails an action part way: a node that cannot be carried
// out (dead target, nothing to remove, no room to move) is skipped, counted
// and logged, and the walk continues with the next node.
package resolution

import (
	"log"

	"github.com/KirkDiggler/squad-tactics/internal/dice"
	"github.com/KirkDiggler/squad-tactics/internal/domain/actions"
	"github.com/KirkDiggler/squad-tactics/internal/domain/combatant"
	"github.com/KirkDiggler/squad-tactics/internal/domain/conditions"
	"github.com/KirkDiggler/squad-tactics/internal/domain/events"
	"github.com/KirkDiggler/squad-tactics/internal/domain/game/encounter"
	"github.com/KirkDiggler/squad-tactics/internal/domain/game/targeting"
	"github.com/KirkDiggler/squad-tactics/internal/domain/grid"
	"github.com/KirkDiggler/squad-tactics/internal/domain/stats"
	"github.com/KirkDiggler/squad-tactics/internal/uuid"
)

// CreatureSource builds summoned combatants from content templates
type CreatureSource interface {
	SpawnCreature(creatureID, id string, faction combatant.Faction) (*combatant.Combatant, error)
}

// InterpreterConfig holds the interpreter's collaborators
type InterpreterConfig struct {
	Roller dice.Roller
	IDs    uuid.Generator
	// Comparator defaults to an opposed 2d6 roll
	Comparator Comparator
	// Bus is optional; without it no events are published
	Bus events.Bus
	// Creatures is optional; without it summon effects are skipped
	Creatures CreatureSource
}

// Interpreter executes actions
type Interpreter struct {
	roller     dice.Roller
	ids        uuid.Generator
	comparator Comparator
	bus        events.Bus
	creatures  CreatureSource
}

// NewInterpreter creates an interpreter
func NewInterpreter(cfg *InterpreterConfig) *Interpreter {
	if cfg.Roller == nil {
		panic("dice roller is required")
	}
	if cfg.IDs == nil {
		panic("id generator is required")
	}

	comparator := cfg.Comparator
	if comparator == nil {
		comparator = NewOpposedRoll(cfg.Roller)
	}

	return &Interpreter{
		roller:     cfg.Roller,
		ids:        cfg.IDs,
		comparator: comparator,
		bus:        cfg.Bus,
		creatures:  cfg.Creatures,
	}
}

// Request is one use of an action
type Request struct {
	Encounter *encounter.Encounter
	Actor     *combatant.Combatant
	Action    *actions.Action
	Origin    grid.Position
	// Targets are the selected candidates; empty means the action affects its user
	Targets []targeting.Candidate
}

// Result summarizes what happened
type Result struct {
	ExtraAction bool `json:"extra_action"`
	Applied     int  `json:"applied"`
	Skipped     int  `json:"skipped"`
	Hits        int  `json:"hits"`
	Misses      int  `json:"misses"`
}

type outcome int

const (
	applied outcome = iota
	// missed stops the children without counting as a skip
	missed
	skipped
)

type run struct {
	*Interpreter
	req    *Request
	result *Result
}

// Execute walks the action's effects depth first, once per target
func (i *Interpreter) Execute(req *Request) *Result {
	r := &run{Interpreter: i, req: req, result: &Result{}}

	targets := req.Targets
	if len(targets) == 0 {
		targets = []targeting.Candidate{r.self()}
	}

	for _, t := range targets {
		for k := range req.Action.Effects {
			r.apply(&req.Action.Effects[k], t, 1)
		}
	}

	log.Printf("[RESOLUTION] %s used %s on %d target(s): %d applied, %d skipped",
		req.Actor.ID, req.Action.ID, len(targets), r.result.Applied, r.result.Skipped)

	return r.result
}

func (r *run) self() targeting.Candidate {
	return targeting.Candidate{
		Kind:        targeting.CandidateCombatant,
		CombatantID: r.req.Actor.ID,
		Position:    r.req.Actor.Position,
	}
}

func (r *run) apply(e *actions.Effect, t targeting.Candidate, depth int) {
	if depth > actions.MaxDepth {
		r.skip(e, t, "effect tree too deep")
		return
	}

	var out outcome
	var reason string

	switch e.Kind {
	case actions.EffectDamage:
		out, reason = r.damage(e, t)
	case actions.EffectHealDamage:
		out, reason = r.healDamage(e, t)
	case actions.EffectHealWounds:
		out, reason = r.healWounds(e, t)
	case actions.EffectAddCondition:
		out, reason = r.addCondition(e, t)
	case actions.EffectRemoveCondition:
		out, reason = r.removeCondition(e, t)
	case actions.EffectTransferCondition:
		out, reason = r.transferCondition(e, t)
	case actions.EffectInvertConditions:
		out, reason = r.invertConditions(e, t)
	case actions.EffectAttack:
		out, reason = r.attack(e, t)
	case actions.EffectToSelf:
		out = applied
	case actions.EffectTakeAnotherAction:
		r.result.ExtraAction = true
		out = applied
	case actions.EffectForceMovement:
		out, reason = r.forceMovement(e, t)
	case actions.EffectSummon:
		out, reason = r.summon(e, t)
	case actions.EffectSteal:
		out, reason = r.steal(t)
	case actions.EffectHide:
		out, reason = r.hide(t)
	case actions.EffectStun:
		out, reason = r.stun(e, t)
	case actions.EffectKnockDown:
		out, reason = r.knockDown(t)
	default:
		out, reason = skipped, "unknown effect"
	}

	switch out {
	case skipped:
		r.skip(e, t, reason)
		return
	case missed:
		return
	}

	r.result.Applied++

	next := t
	if e.Kind == actions.EffectToSelf {
		next = r.self()
	}
	for k := range e.Children {
		r.apply(&e.Children[k], next, depth+1)
	}
}

func (r *run) skip(e *actions.Effect, t targeting.Candidate, reason string) {
	r.result.Skipped++
	log.Printf("[RESOLUTION] Skipped %s on %s: %s", e.Kind, t.ID(), reason)
	victim, _ := r.req.Encounter.Combatant(t.CombatantID)
	r.publish(r.event(events.OnEffectSkipped, victim).
		WithContext(events.ContextEffect, string(e.Kind)).
		WithContext(events.ContextReason, reason))
}

func (r *run) event(eventType events.EventType, target *combatant.Combatant) *events.GameEvent {
	ev := events.NewGameEvent(eventType, r.req.Actor).
		WithContext(events.ContextActionID, r.req.Action.ID).
		WithContext(events.ContextEncounter, r.req.Encounter)
	if target != nil {
		ev.WithTarget(target)
	}
	return ev
}

func (r *run) publish(ev *events.GameEvent) {
	if r.bus == nil {
		return
	}
	if err := r.bus.Emit(ev); err != nil {
		log.Printf("[RESOLUTION] Failed to emit %s: %v", ev.Type, err)
	}
}

func (r *run) stateChanged(c *combatant.Combatant, before combatant.State) {
	if c.State == before {
		return
	}
	r.publish(r.event(events.OnStateChanged, c).WithContext(events.ContextState, string(c.State)))
}

// target resolves a candidate to a living combatant
func (r *run) target(t targeting.Candidate) (*combatant.Combatant, string) {
	if t.Kind != targeting.CandidateCombatant {
		return nil, "needs a combatant target"
	}
	c, ok := r.req.Encounter.Combatant(t.CombatantID)
	if !ok {
		return nil, "target is not in the encounter"
	}
	if !c.IsAlive() {
		return nil, "target is dead"
	}
	return c, ""
}

func payloadOf[T actions.Payload](e *actions.Effect) (T, bool) {
	p, ok := e.Data.(T)
	return p, ok
}

func (r *run) roll(base int, notation string) (int, error) {
	if notation == "" {
		return base, nil
	}
	res, err := dice.RollNotation(r.roller, notation)
	if err != nil {
		return 0, err
	}
	return base + res.Total, nil
}

func (r *run) damage(e *actions.Effect, t targeting.Candidate) (outcome, string) {
	data, ok := payloadOf[*actions.DamageData](e)
	if !ok {
		return skipped, "malformed payload"
	}
	target, reason := r.target(t)
	if target == nil {
		return skipped, reason
	}

	amount, err := r.roll(data.Amount, data.Dice)
	if err != nil {
		return skipped, err.Error()
	}
	amount += stats.DamageBonus(r.req.Actor, data.Damage) - stats.DamageResist(target, data.Damage)

	before := target.State
	dealt := target.TakeDamage(max(0, amount))

	r.publish(r.event(events.OnDamageTaken, target).
		WithContext(events.ContextAmount, dealt).
		WithContext(events.ContextDamage, string(data.Damage)))
	r.stateChanged(target, before)
	return applied, ""
}

func (r *run) healDamage(e *actions.Effect, t targeting.Candidate) (outcome, string) {
	data, ok := payloadOf[*actions.HealData](e)
	if !ok {
		return skipped, "malformed payload"
	}
	target, reason := r.target(t)
	if target == nil {
		return skipped, reason
	}

	amount, err := r.roll(data.Amount, data.Dice)
	if err != nil {
		return skipped, err.Error()
	}

	before := target.State
	restored := target.HealDamage(amount)

	r.publish(r.event(events.OnHealed, target).
		WithContext(events.ContextAmount, restored).
		WithContext(events.ContextEffect, string(e.Kind)))
	r.stateChanged(target, before)
	return applied, ""
}

func (r *run) healWounds(e *actions.Effect, t targeting.Candidate) (outcome, string) {
	data, ok := payloadOf[*actions.HealData](e)
	if !ok {
		return skipped, "malformed payload"
	}
	target, reason := r.target(t)
	if target == nil {
		return skipped, reason
	}

	amount, err := r.roll(data.Amount, data.Dice)
	if err != nil {
		return skipped, err.Error()
	}

	r.publish(r.event(events.OnHealed, target).
		WithContext(events.ContextAmount, target.HealWounds(amount)).
		WithContext(events.ContextEffect, string(e.Kind)))
	return applied, ""
}

func (r *run) addCondition(e *actions.Effect, t targeting.Candidate) (outcome, string) {
	data, ok := payloadOf[*actions.AddConditionData](e)
	if !ok {
		return skipped, "malformed payload"
	}
	target, reason := r.target(t)
	if target == nil {
		return skipped, reason
	}

	rank := data.Rank
	if rank == 0 {
		rank = max(1, stats.Trait(r.req.Actor, data.Trait))
	}

	cond := &conditions.Condition{
		ID:          r.ids.New(),
		Type:        data.Type,
		SourceTrait: data.Trait,
		Rank:        rank,
		Details:     data.Details,
		SourceID:    r.req.Actor.ID,
		Rounds:      data.Rounds,
	}
	if err := target.Conditions.Add(cond); err != nil {
		return skipped, err.Error()
	}

	r.publish(r.event(events.OnConditionApplied, target).
		WithContext(events.ContextCondition, string(cond.Type)).
		WithContext(events.ContextAmount, cond.Rank))
	return applied, ""
}

func (r *run) removeCondition(e *actions.Effect, t targeting.Candidate) (outcome, string) {
	data, ok := payloadOf[*actions.RemoveConditionData](e)
	if !ok {
		return skipped, "malformed payload"
	}
	target, reason := r.target(t)
	if target == nil {
		return skipped, reason
	}

	removed := target.Conditions.Remove(conditions.Filter{Trait: data.Trait, Limit: data.Limit})
	if len(removed) == 0 {
		return skipped, "no matching conditions"
	}

	r.publish(r.event(events.OnConditionRemoved, target).WithContext(events.ContextCount, len(removed)))
	return applied, ""
}

func (r *run) transferCondition(e *actions.Effect, t targeting.Candidate) (outcome, string) {
	data, ok := payloadOf[*actions.TransferConditionData](e)
	if !ok {
		return skipped, "malformed payload"
	}
	target, reason := r.target(t)
	if target == nil {
		return skipped, reason
	}
	if target.ID == r.req.Actor.ID {
		return skipped, "cannot transfer a condition to itself"
	}

	from, to := r.req.Actor.Conditions, target.Conditions
	if data.Direction == actions.TransferFromTarget {
		from, to = to, from
	}

	cond, found := from.Find(conditions.Filter{Trait: data.Trait})
	if !found {
		return skipped, "no matching condition"
	}
	if err := from.Transfer(cond.ID, to); err != nil {
		return skipped, err.Error()
	}

	r.publish(r.event(events.OnConditionTransferred, target).
		WithContext(events.ContextCondition, string(cond.Type)).
		WithContext(events.ContextFrom, string(data.Direction)))
	return applied, ""
}

func (r *run) invertConditions(e *actions.Effect, t targeting.Candidate) (outcome, string) {
	data, ok := payloadOf[*actions.InvertConditionsData](e)
	if !ok {
		return skipped, "malformed payload"
	}
	target, reason := r.target(t)
	if target == nil {
		return skipped, reason
	}

	n := target.Conditions.Invert(conditions.Filter{Trait: data.Trait}, data.IncludeBeneficial)
	if n == 0 {
		return skipped, "no invertible conditions"
	}

	r.publish(r.event(events.OnConditionsInverted, target).WithContext(events.ContextCount, n))
	return applied, ""
}

func (r *run) attack(e *actions.Effect, t targeting.Candidate) (outcome, string) {
	data, ok := payloadOf[*actions.AttackData](e)
	if !ok {
		return skipped, "malformed payload"
	}
	target, reason := r.target(t)
	if target == nil {
		return skipped, reason
	}
	if target.ID == r.req.Actor.ID {
		return skipped, "cannot attack itself"
	}

	result, err := r.comparator.Compare(r.req.Actor, target, data)
	if err != nil {
		return skipped, err.Error()
	}
	// attacking gives away a hiding spot
	r.req.Actor.Hidden = false

	r.publish(r.event(events.OnAttackResolved, target).
		WithContext(events.ContextHit, result.Hit).
		WithContext(events.ContextAttack, result.Attack).
		WithContext(events.ContextDefense, result.Defense))

	if !result.Hit {
		r.result.Misses++
		return missed, ""
	}
	r.result.Hits++
	return applied, ""
}

func (r *run) summon(e *actions.Effect, t targeting.Candidate) (outcome, string) {
	data, ok := payloadOf[*actions.SummonData](e)
	if !ok {
		return skipped, "malformed payload"
	}
	if t.Kind != targeting.CandidateSquare {
		return skipped, "needs a square"
	}
	if r.creatures == nil {
		return skipped, "no creature source"
	}
	if !r.req.Encounter.IsFree(t.Position) {
		return skipped, "square is taken"
	}

	actor := r.req.Actor
	c, err := r.creatures.SpawnCreature(data.Creature, r.ids.New(), actor.Faction)
	if err != nil {
		return skipped, err.Error()
	}
	c.Position = t.Position
	c.Summoned = true
	c.SummonerID = actor.ID
	if err := r.req.Encounter.Add(c); err != nil {
		return skipped, err.Error()
	}

	r.publish(r.event(events.OnSummoned, c).WithContext(events.ContextTo, t.Position.String()))
	return applied, ""
}

func (r *run) steal(t targeting.Candidate) (outcome, string) {
	target, reason := r.target(t)
	if target == nil {
		return skipped, reason
	}
	if target.ID == r.req.Actor.ID {
		return skipped, "cannot steal from itself"
	}

	item := target.Inventory.TakeAny()
	if item == nil {
		return skipped, "nothing to steal"
	}
	r.req.Actor.Inventory.Pack = append(r.req.Actor.Inventory.Pack, item)

	r.publish(r.event(events.OnItemStolen, target).WithContext(events.ContextItem, item.Name))
	return applied, ""
}

func (r *run) hide(t targeting.Candidate) (outcome, string) {
	target, reason := r.target(t)
	if target == nil {
		return skipped, reason
	}
	if target.IsDown() {
		return skipped, "target is down"
	}
	if target.Hidden {
		return skipped, "already hidden"
	}
	target.Hidden = true

	r.publish(r.event(events.OnStateChanged, target).WithContext(events.ContextState, "hidden"))
	return applied, ""
}

func (r *run) stun(e *actions.Effect, t targeting.Candidate) (outcome, string) {
	data, ok := payloadOf[*actions.StunData](e)
	if !ok {
		return skipped, "malformed payload"
	}
	target, reason := r.target(t)
	if target == nil {
		return skipped, reason
	}
	if target.IsDown() {
		return skipped, "target is down"
	}
	target.Stun(data.Turns)

	r.publish(r.event(events.OnStateChanged, target).WithContext(events.ContextState, "stunned"))
	return applied, ""
}

func (r *run) knockDown(t targeting.Candidate) (outcome, string) {
	target, reason := r.target(t)
	if target == nil {
		return skipped, reason
	}
	before := target.State
	if !target.KnockDown() {
		return skipped, "target is not standing"
	}
	r.stateChanged(target, before)
	return applied, ""
}
