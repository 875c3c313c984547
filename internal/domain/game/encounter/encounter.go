// Package encounter is the battlefield aggregate: combatants on a map,
// rounds and turns, and the outcome state machine.
package encounter

import (
	"fmt"
	"time"

	"github.com/looplab/fsm"

	"github.com/KirkDiggler/squad-tactics/internal/domain/combatant"
	"github.com/KirkDiggler/squad-tactics/internal/domain/grid"
	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
)

// maxLogEntries keeps the combat log bounded
const maxLogEntries = 50

// Encounter is one battle
type Encounter struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	RegionID string    `json:"region_id,omitempty"`
	Map      *grid.Map `json:"map"`

	Combatants []*combatant.Combatant `json:"combatants"`
	Round      int                    `json:"round"`
	TurnOrder  []string               `json:"turn_order"`
	Turn       int                    `json:"turn"`

	State          Outcome `json:"state"`
	ChainedActions int     `json:"chained_actions"`
	MovedThisTurn  bool    `json:"moved_this_turn,omitempty"`

	Loot     []*combatant.Item `json:"loot,omitempty"`
	XP       int               `json:"xp"`
	Resolved bool              `json:"resolved"`

	Log       []string  `json:"log"`
	CreatedAt time.Time `json:"created_at"`

	machine *fsm.FSM
}

// New creates an active encounter on a map
func New(id, name string, m *grid.Map) *Encounter {
	e := &Encounter{
		ID:        id,
		Name:      name,
		Map:       m,
		State:     OutcomeActive,
		TurnOrder: []string{},
		Log:       []string{},
		CreatedAt: time.Now(),
	}
	e.ensureMachine()
	return e
}

// Add places a combatant on a free square
func (e *Encounter) Add(c *combatant.Combatant) error {
	if c == nil {
		return apperrors.InvalidArgument("combatant is required")
	}
	if _, exists := e.Combatant(c.ID); exists {
		return apperrors.AlreadyExistsf("combatant %s already in encounter %s", c.ID, e.ID)
	}
	if !e.IsFree(c.Position) {
		return apperrors.InvalidArgumentf("square %s is not free for %s", c.Position, c.ID)
	}
	e.Combatants = append(e.Combatants, c)
	return nil
}

// Combatant finds a combatant by id
func (e *Encounter) Combatant(id string) (*combatant.Combatant, bool) {
	for _, c := range e.Combatants {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// OccupantAt returns the combatant standing (or lying) on p; the dead do not block
func (e *Encounter) OccupantAt(p grid.Position) *combatant.Combatant {
	return e.Occupancy().At(p)
}

// IsFree reports an open square with nobody on it
func (e *Encounter) IsFree(p grid.Position) bool {
	return e.Map.IsOpen(p) && e.OccupantAt(p) == nil
}

// Living returns combatants that are not dead, in insertion order
func (e *Encounter) Living() []*combatant.Combatant {
	var out []*combatant.Combatant
	for _, c := range e.Combatants {
		if c.IsAlive() {
			out = append(out, c)
		}
	}
	return out
}

// Current returns whose turn it is, or nil between rounds
func (e *Encounter) Current() *combatant.Combatant {
	if e.Turn < 0 || e.Turn >= len(e.TurnOrder) {
		return nil
	}
	c, _ := e.Combatant(e.TurnOrder[e.Turn])
	return c
}

// IsActive reports whether actions are still accepted
func (e *Encounter) IsActive() bool {
	return e.State == OutcomeActive
}

// AddLog appends to the bounded combat log
func (e *Encounter) AddLog(format string, args ...any) {
	entry := fmt.Sprintf("Round %d: %s", e.Round, fmt.Sprintf(format, args...))
	e.Log = append(e.Log, entry)
	if len(e.Log) > maxLogEntries {
		e.Log = e.Log[len(e.Log)-maxLogEntries:]
	}
}

// Move walks a combatant to dest along open, unoccupied squares within its movement
func (e *Encounter) Move(c *combatant.Combatant, dest grid.Position, movement int) error {
	occupied := e.Occupancy()
	reach := e.Map.Reachable(c.Position, movement, func(p grid.Position) bool {
		return occupied.At(p) != nil
	})
	if _, ok := reach[dest]; !ok || dest == c.Position {
		return apperrors.InvalidArgumentf("%s cannot reach %s", c.Name, dest)
	}
	from := c.Position
	c.Position = dest
	e.AddLog("%s moves %s -> %s", c.Name, from, dest)
	return nil
}

// StandUp spends the turn's move getting a prone combatant on its feet
func (e *Encounter) StandUp(c *combatant.Combatant) error {
	if e.MovedThisTurn {
		return apperrors.FailedPreconditionf("%s already moved this turn", c.Name)
	}
	if !c.StandUp() {
		return apperrors.FailedPreconditionf("%s is not prone", c.Name)
	}
	e.MovedThisTurn = true
	e.AddLog("%s stands up", c.Name)
	return nil
}

// Restore rebuilds runtime state after loading a saved encounter and fills
// fields older saves lack
func (e *Encounter) Restore() {
	if e.State == "" {
		e.State = OutcomeActive
	}
	if e.Map == nil {
		e.Map = grid.NewMap(0, 0)
	}
	if e.TurnOrder == nil {
		e.TurnOrder = []string{}
	}
	if e.Log == nil {
		e.Log = []string{}
	}
	for _, c := range e.Combatants {
		c.Restore()
	}
	e.machine = nil
	e.ensureMachine()
}
