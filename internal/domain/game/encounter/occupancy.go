package encounter

import (
	"log/slog"
	"sort"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/tools/spatial"

	"github.com/KirkDiggler/squad-tactics/internal/domain/combatant"
	"github.com/KirkDiggler/squad-tactics/internal/domain/grid"
)

// Occupancy is a snapshot of where the living combatants stand, held in a
// toolkit room. Take a fresh one after anybody moves or dies.
type Occupancy struct {
	room  *spatial.BasicRoom
	order map[string]int
}

// Occupancy places every living combatant in a room over the encounter map
func (e *Encounter) Occupancy() *Occupancy {
	room := spatial.NewBasicRoom(spatial.BasicRoomConfig{
		ID:   e.ID,
		Type: "encounter",
		Grid: e.Map.Grid(),
	})
	order := make(map[string]int, len(e.Combatants))
	for i, c := range e.Combatants {
		order[c.ID] = i
		if !c.IsAlive() {
			continue
		}
		if err := room.PlaceEntity(c, c.Position.Spatial()); err != nil {
			slog.Warn("Failed to place combatant",
				"encounter_id", e.ID,
				"combatant_id", c.ID,
				"position", c.Position.String(),
				"error", err,
			)
		}
	}
	return &Occupancy{room: room, order: order}
}

// At returns the living combatant on p
func (o *Occupancy) At(p grid.Position) *combatant.Combatant {
	found := o.combatants(o.room.GetEntitiesAt(p.Spatial()))
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

// Within returns the living combatants within radius of center, in the
// order they joined the encounter
func (o *Occupancy) Within(center grid.Position, radius int) []*combatant.Combatant {
	found := o.combatants(o.room.GetEntitiesInRange(center.Spatial(), float64(radius)))
	out := found[:0]
	for _, c := range found {
		if center.Distance(c.Position) <= radius {
			out = append(out, c)
		}
	}
	return out
}

func (o *Occupancy) combatants(entities []core.Entity) []*combatant.Combatant {
	out := make([]*combatant.Combatant, 0, len(entities))
	for _, ent := range entities {
		if c, ok := ent.(*combatant.Combatant); ok {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return o.order[out[i].ID] < o.order[out[j].ID]
	})
	return out
}
