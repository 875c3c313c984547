// Package targeting enumerates legal origins and targets for an action's
// parameters on the current battlefield.
package targeting

import (
	"github.com/KirkDiggler/squad-tactics/internal/domain/actions"
	"github.com/KirkDiggler/squad-tactics/internal/domain/combatant"
	"github.com/KirkDiggler/squad-tactics/internal/domain/game/encounter"
	"github.com/KirkDiggler/squad-tactics/internal/domain/grid"
	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
)

// CandidateKind says what a candidate refers to
type CandidateKind string

const (
	CandidateCombatant CandidateKind = "combatant"
	CandidateSquare    CandidateKind = "square"
	CandidateWall      CandidateKind = "wall"
)

// Candidate is one selectable target
type Candidate struct {
	Kind        CandidateKind `json:"kind"`
	CombatantID string        `json:"combatant_id,omitempty"`
	Position    grid.Position `json:"position"`
}

// ID is how callers refer to the candidate in a selection: the combatant id
// for combatants, the square for squares and walls.
func (c Candidate) ID() string {
	if c.Kind == CandidateCombatant {
		return c.CombatantID
	}
	return c.Position.String()
}

// Options is the resolved target set for one target parameter
type Options struct {
	Origin     grid.Position `json:"origin"`
	Candidates []Candidate   `json:"candidates"`
	Max        int           `json:"max"`
	// AutoSelect is set when every candidate will be affected and no choice is needed
	AutoSelect bool `json:"auto_select"`
}

// Origins lists the squares an action may be resolved from
func Origins(param actions.Parameter, actor *combatant.Combatant, enc *encounter.Encounter) []grid.Position {
	switch param.Origin {
	case actions.OriginDistance:
		return enc.Map.Squares(actor.Position, param.Distance)
	case actions.OriginWeapon:
		return enc.Map.Squares(actor.Position, actor.WeaponRange())
	default:
		return []grid.Position{actor.Position}
	}
}

// ValidOrigin reports whether origin is one of Origins
func ValidOrigin(param actions.Parameter, actor *combatant.Combatant, enc *encounter.Encounter, origin grid.Position) bool {
	for _, p := range Origins(param, actor, enc) {
		if p == origin {
			return true
		}
	}
	return false
}

// reach is the Chebyshev distance from the origin a shape covers
func reach(param *actions.Parameter, actor *combatant.Combatant) int {
	switch param.Shape {
	case actions.ShapeBurst:
		return param.Radius
	case actions.ShapeWeapon:
		return actor.WeaponRange()
	default:
		return 1
	}
}

// Resolve enumerates candidates matching both the category and the shape
// around origin
func Resolve(param *actions.Parameter, actor *combatant.Combatant, enc *encounter.Encounter, origin grid.Position) *Options {
	within := reach(param, actor)
	var candidates []Candidate

	switch param.Category {
	case actions.TargetSquares:
		occupied := enc.Occupancy()
		for _, p := range enc.Map.Squares(origin, within) {
			if occupied.At(p) == nil {
				candidates = append(candidates, Candidate{Kind: CandidateSquare, Position: p})
			}
		}
	case actions.TargetWalls:
		for _, p := range enc.Map.WallsWithin(origin, within) {
			candidates = append(candidates, Candidate{Kind: CandidateWall, Position: p})
		}
	default:
		for _, c := range enc.Occupancy().Within(origin, within) {
			if !eligible(param, actor, c) {
				continue
			}
			candidates = append(candidates, Candidate{Kind: CandidateCombatant, CombatantID: c.ID, Position: c.Position})
		}
	}

	return &Options{
		Origin:     origin,
		Candidates: candidates,
		Max:        param.Max,
		AutoSelect: param.IsUnlimited() || param.Max >= len(candidates),
	}
}

func eligible(param *actions.Parameter, actor, c *combatant.Combatant) bool {
	if !c.IsAlive() {
		return false
	}
	if c.ID == actor.ID {
		return param.IncludeSelf && param.Category != actions.TargetEnemies
	}
	// hidden enemies can only be found from next to them
	if actor.IsEnemy(c) && c.Hidden && !actor.Position.IsAdjacent(c.Position) {
		return false
	}
	switch param.Category {
	case actions.TargetAllies:
		return actor.IsAlly(c)
	case actions.TargetEnemies:
		return actor.IsEnemy(c)
	case actions.TargetCombatants:
		return true
	default:
		return false
	}
}

// Select validates an explicit choice. An empty choice is accepted only when
// the options auto-select, in which case every candidate is returned.
func (o *Options) Select(ids []string) ([]Candidate, error) {
	if len(o.Candidates) == 0 {
		return nil, apperrors.FailedPrecondition("no legal targets")
	}
	if len(ids) == 0 {
		if !o.AutoSelect {
			return nil, apperrors.InvalidArgumentf("choose up to %d targets", o.Max)
		}
		return append([]Candidate(nil), o.Candidates...), nil
	}
	if o.Max != actions.Unlimited && len(ids) > o.Max {
		return nil, apperrors.InvalidArgumentf("at most %d targets may be chosen, got %d", o.Max, len(ids))
	}

	byID := make(map[string]Candidate, len(o.Candidates))
	for _, c := range o.Candidates {
		byID[c.ID()] = c
	}

	seen := make(map[string]bool, len(ids))
	selected := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			return nil, apperrors.InvalidArgumentf("%s is not a legal target", id)
		}
		if seen[id] {
			return nil, apperrors.InvalidArgumentf("%s chosen twice", id)
		}
		seen[id] = true
		selected = append(selected, c)
	}
	return selected, nil
}

// IDs lists candidate ids in order
func (o *Options) IDs() []string {
	out := make([]string, len(o.Candidates))
	for i, c := range o.Candidates {
		out[i] = c.ID()
	}
	return out
}
