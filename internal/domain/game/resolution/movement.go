package resolution

import (
	"github.com/KirkDiggler/squad-tactics/internal/domain/actions"
	"github.com/KirkDiggler/squad-tactics/internal/domain/events"
	"github.com/KirkDiggler/squad-tactics/internal/domain/game/encounter"
	"github.com/KirkDiggler/squad-tactics/internal/domain/game/targeting"
	"github.com/KirkDiggler/squad-tactics/internal/domain/grid"
)

func (r *run) forceMovement(e *actions.Effect, t targeting.Candidate) (outcome, string) {
	data, ok := payloadOf[*actions.ForceMovementData](e)
	if !ok {
		return skipped, "malformed payload"
	}
	target, reason := r.target(t)
	if target == nil {
		return skipped, reason
	}

	actor := r.req.Actor
	enc := r.req.Encounter
	from := target.Position
	self := target.ID == actor.ID

	var dest grid.Position
	switch data.Mode {
	case actions.MovePush:
		if self {
			return skipped, "cannot push itself"
		}
		dx, dy := actor.Position.StepToward(from)
		dest = slide(enc, from, dx, dy, data.Distance)
	case actions.MovePull:
		if self {
			return skipped, "cannot pull itself"
		}
		dest = approach(enc, from, actor.Position, data.Distance)
	case actions.MoveToward:
		dest = approach(enc, from, r.req.Origin, data.Distance)
	case actions.MoveAway:
		dx, dy := r.req.Origin.StepToward(from)
		dest = slide(enc, from, dx, dy, data.Distance)
	case actions.MoveRandom:
		var err error
		if dest, err = r.wander(enc, from, data.Distance); err != nil {
			return skipped, err.Error()
		}
	case actions.MoveBeside:
		if self {
			return skipped, "already beside itself"
		}
		if from.IsAdjacent(actor.Position) {
			return skipped, "already beside"
		}
		dest = beside(enc, actor.Position, from)
	case actions.MoveSwap:
		if self {
			return skipped, "cannot swap with itself"
		}
		target.Position, actor.Position = actor.Position, target.Position
		r.publish(r.event(events.OnMoved, target).
			WithContext(events.ContextFrom, from.String()).
			WithContext(events.ContextTo, target.Position.String()))
		return applied, ""
	default:
		return skipped, "unknown movement mode"
	}

	if dest == from {
		return skipped, "no legal destination"
	}
	target.Position = dest

	r.publish(r.event(events.OnMoved, target).
		WithContext(events.ContextFrom, from.String()).
		WithContext(events.ContextTo, dest.String()))
	return applied, ""
}

// slide moves in a fixed direction until blocked or out of steps
func slide(enc *encounter.Encounter, from grid.Position, dx, dy, steps int) grid.Position {
	if dx == 0 && dy == 0 {
		return from
	}
	pos := from
	for i := 0; i < steps; i++ {
		next := pos.Add(dx, dy)
		if !enc.IsFree(next) {
			break
		}
		pos = next
	}
	return pos
}

// approach steps toward ref, re-aiming each step, until blocked or arrived
func approach(enc *encounter.Encounter, from, ref grid.Position, steps int) grid.Position {
	pos := from
	for i := 0; i < steps && pos != ref; i++ {
		dx, dy := pos.StepToward(ref)
		next := pos.Add(dx, dy)
		if !enc.IsFree(next) {
			break
		}
		pos = next
	}
	return pos
}

// beside picks the free square next to anchor closest to from
func beside(enc *encounter.Encounter, anchor, from grid.Position) grid.Position {
	best, bestDistance := from, -1
	for _, p := range anchor.Neighbors() {
		if !enc.IsFree(p) {
			continue
		}
		if d := p.Distance(from); bestDistance < 0 || d < bestDistance {
			best, bestDistance = p, d
		}
	}
	return best
}

// wander takes random steps onto free neighbouring squares
func (r *run) wander(enc *encounter.Encounter, from grid.Position, steps int) (grid.Position, error) {
	pos := from
	for i := 0; i < steps; i++ {
		var open []grid.Position
		for _, p := range pos.Neighbors() {
			if enc.IsFree(p) {
				open = append(open, p)
			}
		}
		if len(open) == 0 {
			break
		}
		pick, err := r.roller.Roll(1, len(open), 0)
		if err != nil {
			return from, err
		}
		pos = open[pick.Total-1]
	}
	return pos, nil
}
