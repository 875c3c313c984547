// Package autopilot plays both sides of an encounter through the encounter
// service: every combatant attacks the first enemy it can, walks toward the
// nearest one when it cannot, and ends its turn.
package autopilot

import (
	"context"
	"log"
	"sort"

	"github.com/KirkDiggler/squad-tactics/internal/domain/actions"
	"github.com/KirkDiggler/squad-tactics/internal/domain/combatant"
	encdomain "github.com/KirkDiggler/squad-tactics/internal/domain/game/encounter"
	"github.com/KirkDiggler/squad-tactics/internal/domain/grid"
	"github.com/KirkDiggler/squad-tactics/internal/domain/stats"
	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
	"github.com/KirkDiggler/squad-tactics/internal/services/encounter"
)

// DefaultMaxRounds is when a stalled fight gives up and retreats
const DefaultMaxRounds = 30

// maxSteps bounds the commands one turn may issue
const maxSteps = 8

// Config holds the pilot's dependencies
type Config struct {
	Service   encounter.Service
	MaxRounds int
}

// Pilot drives an encounter to its end
type Pilot struct {
	svc       encounter.Service
	maxRounds int
}

// New creates a pilot
func New(cfg *Config) *Pilot {
	if cfg == nil || cfg.Service == nil {
		panic("encounter service is required")
	}
	maxRounds := cfg.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	return &Pilot{svc: cfg.Service, maxRounds: maxRounds}
}

// Run plays turns until the encounter is decided. A fight still going after
// MaxRounds ends in retreat.
func (p *Pilot) Run(ctx context.Context, encounterID string) (*encdomain.Encounter, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		enc, err := p.svc.GetEncounter(ctx, encounterID)
		if err != nil {
			return nil, err
		}
		if !enc.IsActive() {
			return enc, nil
		}
		if enc.Round > p.maxRounds {
			log.Printf("[AUTOPILOT] %s still undecided after %d rounds, retreating", enc.ID, p.maxRounds)
			return p.svc.Retreat(ctx, encounterID)
		}

		actor := enc.Current()
		if actor == nil {
			if _, err := p.svc.StartRound(ctx, encounterID); err != nil {
				return nil, err
			}
			continue
		}

		if err := p.takeTurn(ctx, encounterID, actor); err != nil {
			return nil, apperrors.Wrapf(err, "turn of %s failed", actor.ID)
		}
	}
}

func (p *Pilot) takeTurn(ctx context.Context, encounterID string, actor *combatant.Combatant) error {
	moved := false
	if actor.State == combatant.StateProne {
		if _, err := p.svc.StandUp(ctx, encounterID, actor.ID); err != nil {
			return err
		}
		moved = true
	}

	for step := 0; step < maxSteps; step++ {
		res, err := p.attack(ctx, encounterID, actor.ID)
		if err != nil {
			return err
		}
		if res != nil {
			if res.TurnEnded {
				return nil
			}
			continue
		}

		if moved {
			break
		}
		moved = true
		closer, err := p.approach(ctx, encounterID, actor.ID)
		if err != nil {
			return err
		}
		if !closer {
			break
		}
	}

	_, err := p.svc.EndTurn(ctx, encounterID, actor.ID)
	return err
}

// attack uses the first selectable enemy-targeting action that has a target.
// Returns nil when nothing could be used.
func (p *Pilot) attack(ctx context.Context, encounterID, actorID string) (*encounter.ApplyActionResult, error) {
	options, err := p.svc.ListActions(ctx, encounterID, actorID)
	if err != nil {
		return nil, err
	}

	for _, opt := range options {
		param := opt.Action.TargetParam()
		if !opt.Selectable || param == nil || param.Category != actions.TargetEnemies {
			continue
		}
		if opt.Action.OriginParam().Origin != actions.OriginSelf {
			continue
		}

		input := encounter.ActionInput{EncounterID: encounterID, ActorID: actorID, ActionID: opt.Action.ID}
		targets, err := p.svc.ListTargets(ctx, &input)
		if err != nil {
			return nil, err
		}
		if len(targets.Candidates) == 0 {
			continue
		}

		var chosen []string
		if !targets.AutoSelect {
			chosen = targets.IDs()[:targets.Max]
		}
		return p.svc.ApplyAction(ctx, &encounter.ApplyActionInput{ActionInput: input, Targets: chosen})
	}

	return nil, nil
}

// approach moves toward the nearest enemy. Returns false when no reachable
// square is closer than where the actor stands.
func (p *Pilot) approach(ctx context.Context, encounterID, actorID string) (bool, error) {
	enc, err := p.svc.GetEncounter(ctx, encounterID)
	if err != nil {
		return false, err
	}
	actor, ok := enc.Combatant(actorID)
	if !ok {
		return false, apperrors.NotFoundf("combatant %s not in encounter %s", actorID, encounterID)
	}

	var enemies []grid.Position
	for _, c := range enc.Living() {
		if actor.IsEnemy(c) && !c.IsDown() {
			enemies = append(enemies, c.Position)
		}
	}
	if len(enemies) == 0 {
		return false, nil
	}

	occupied := enc.Occupancy()
	reach := enc.Map.Reachable(actor.Position, stats.Movement(actor), func(pos grid.Position) bool {
		return occupied.At(pos) != nil
	})
	squares := make([]grid.Position, 0, len(reach))
	for pos := range reach {
		squares = append(squares, pos)
	}
	sort.Slice(squares, func(i, j int) bool {
		if reach[squares[i]] != reach[squares[j]] {
			return reach[squares[i]] < reach[squares[j]]
		}
		if squares[i].Y != squares[j].Y {
			return squares[i].Y < squares[j].Y
		}
		return squares[i].X < squares[j].X
	})

	best, bestDist := actor.Position, nearest(actor.Position, enemies)
	for _, pos := range squares {
		if d := nearest(pos, enemies); d < bestDist {
			best, bestDist = pos, d
		}
	}
	if best == actor.Position {
		return false, nil
	}

	if _, err := p.svc.Move(ctx, &encounter.MoveInput{EncounterID: encounterID, ActorID: actorID, To: best}); err != nil {
		return false, err
	}
	return true, nil
}

func nearest(from grid.Position, targets []grid.Position) int {
	best := -1
	for _, t := range targets {
		if d := from.Distance(t); best < 0 || d < best {
			best = d
		}
	}
	return best
}
