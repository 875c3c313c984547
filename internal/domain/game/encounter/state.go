package encounter

import (
	"context"
	"log"

	"github.com/looplab/fsm"

	"github.com/KirkDiggler/squad-tactics/internal/domain/combatant"
	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
)

// Outcome is the encounter's position in its state machine
type Outcome string

const (
	OutcomeActive  Outcome = "active"
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
	OutcomeRetreat Outcome = "retreat"
)

const (
	eventWin     = "win"
	eventLose    = "lose"
	eventRetreat = "retreat"
)

func (e *Encounter) ensureMachine() {
	if e.machine != nil {
		return
	}
	active := []string{string(OutcomeActive)}
	e.machine = fsm.NewFSM(
		string(e.State),
		fsm.Events{
			{Name: eventWin, Src: active, Dst: string(OutcomeVictory)},
			{Name: eventLose, Src: active, Dst: string(OutcomeDefeat)},
			{Name: eventRetreat, Src: active, Dst: string(OutcomeRetreat)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, ev *fsm.Event) {
				e.State = Outcome(ev.Dst)
				e.AddLog("Encounter ended: %s", ev.Dst)
				log.Printf("[ENCOUNTER] %s: %s -> %s", e.ID, ev.Src, ev.Dst)
			},
		},
	)
}

func (e *Encounter) fire(ctx context.Context, event string) error {
	e.ensureMachine()
	if err := e.machine.Event(ctx, event); err != nil {
		return apperrors.WrapWithCode(err, apperrors.CodeFailedPrecondition,
			"encounter "+e.ID+" cannot "+event+" from "+string(e.State))
	}
	return nil
}

// Evaluate checks whether either side has been wiped out and moves the
// state machine. Returns the (possibly new) outcome.
func (e *Encounter) Evaluate(ctx context.Context) Outcome {
	if !e.IsActive() {
		return e.State
	}

	players, opposing := 0, 0
	for _, c := range e.Combatants {
		if c.IsDown() {
			continue
		}
		switch c.Faction {
		case combatant.FactionPlayer:
			players++
		case combatant.FactionOpposing:
			opposing++
		}
	}

	switch {
	case opposing == 0 && players > 0:
		_ = e.fire(ctx, eventWin) //nolint:errcheck // source state checked above
	case players == 0:
		_ = e.fire(ctx, eventLose) //nolint:errcheck // source state checked above
	}

	return e.State
}

// Retreat abandons the encounter; always legal while active
func (e *Encounter) Retreat(ctx context.Context) error {
	return e.fire(ctx, eventRetreat)
}

// CanRetreat reports whether Retreat would succeed
func (e *Encounter) CanRetreat() bool {
	e.ensureMachine()
	return e.machine.Can(eventRetreat)
}
