package encounter

//go:generate mockgen -destination=mock/mock_dependencies.go -package=mockencounter -source=dependencies.go

import (
	"github.com/KirkDiggler/squad-tactics/internal/domain/actions"
	"github.com/KirkDiggler/squad-tactics/internal/domain/combatant"
	"github.com/KirkDiggler/squad-tactics/internal/persistence"
)

// Content is the read-only catalog the service looks actions and summons up in
type Content interface {
	Action(id string) (*actions.Action, error)
	SpawnCreature(creatureID, id string, faction combatant.Faction) (*combatant.Combatant, error)
}

// Persister receives fire-and-forget snapshots after every command
type Persister interface {
	Submit(msg persistence.Message) error
}
