package autopilot_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/squad-tactics/internal/autopilot"
	"github.com/KirkDiggler/squad-tactics/internal/catalog"
	"github.com/KirkDiggler/squad-tactics/internal/dice"
	"github.com/KirkDiggler/squad-tactics/internal/domain/combatant"
	encdomain "github.com/KirkDiggler/squad-tactics/internal/domain/game/encounter"
	"github.com/KirkDiggler/squad-tactics/internal/domain/game/resolution"
	"github.com/KirkDiggler/squad-tactics/internal/domain/grid"
	"github.com/KirkDiggler/squad-tactics/internal/repositories/encounters"
	"github.com/KirkDiggler/squad-tactics/internal/services/encounter"
	mockencounter "github.com/KirkDiggler/squad-tactics/internal/services/encounter/mock"
	"github.com/KirkDiggler/squad-tactics/internal/testutils"
)

func newService(t *testing.T, cmp resolution.Comparator, seed int64) encounter.Service {
	ctrl := gomock.NewController(t)
	persister := mockencounter.NewMockPersister(ctrl)
	persister.EXPECT().Submit(gomock.Any()).Return(nil).AnyTimes()

	cat, err := catalog.Default()
	require.NoError(t, err)

	return encounter.NewService(&encounter.ServiceConfig{
		Repository:        encounters.NewInMemoryRepository(),
		Content:           cat,
		Roller:            dice.NewSeededRoller(seed),
		Persister:         persister,
		Comparator:        cmp,
		MaxChainedActions: encounter.DefaultMaxChainedActions,
	})
}

func TestRun_ClosesDistanceAndWins(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, resolution.Always(true), 1)

	hero := testutils.CreateTestCombatant("hero-1", "Ash", combatant.FactionPlayer, grid.Position{X: 0, Y: 0})
	hero.MaxHealth, hero.Health = 100, 100
	goblin := testutils.CreateTestCombatant("gob-1", "Goblin", combatant.FactionOpposing, grid.Position{X: 5, Y: 0})
	goblin.Actions = nil

	_, err := svc.CreateEncounter(ctx, &encounter.CreateEncounterInput{
		ID:         "enc-1",
		Name:       "Duel",
		Map:        grid.NewMap(6, 1),
		Combatants: []*combatant.Combatant{hero, goblin},
	})
	require.NoError(t, err)

	enc, err := autopilot.New(&autopilot.Config{Service: svc}).Run(ctx, "enc-1")
	require.NoError(t, err)

	assert.Equal(t, encdomain.OutcomeVictory, enc.State)
	assert.True(t, goblin.IsDown())
	assert.Contains(t, enc.Log, "Round 1: Ash uses strike")
}

func TestRun_RetreatsWhenStalled(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, resolution.Always(false), 1)

	hero := testutils.CreateTestCombatant("hero-1", "Ash", combatant.FactionPlayer, grid.Position{X: 0, Y: 0})
	goblin := testutils.CreateTestCombatant("gob-1", "Goblin", combatant.FactionOpposing, grid.Position{X: 1, Y: 0})

	_, err := svc.CreateEncounter(ctx, &encounter.CreateEncounterInput{
		ID:         "enc-1",
		Name:       "Stalemate",
		Map:        grid.NewMap(2, 1),
		Combatants: []*combatant.Combatant{hero, goblin},
	})
	require.NoError(t, err)

	enc, err := autopilot.New(&autopilot.Config{Service: svc, MaxRounds: 3}).Run(ctx, "enc-1")
	require.NoError(t, err)

	assert.Equal(t, encdomain.OutcomeRetreat, enc.State)
	assert.Equal(t, 4, enc.Round)
}

func TestRun_ScenarioReachesAnOutcome(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil, 42)

	cat, err := catalog.Default()
	require.NoError(t, err)
	scenario, err := cat.Scenario("goblin-ambush")
	require.NoError(t, err)
	party, err := cat.Party(scenario)
	require.NoError(t, err)
	enemies, err := cat.Enemies(scenario)
	require.NoError(t, err)

	_, err = svc.CreateEncounter(ctx, &encounter.CreateEncounterInput{
		ID:         "enc-1",
		Name:       scenario.Name,
		Map:        grid.NewMap(scenario.Map.Width, scenario.Map.Height, scenario.Map.Walls...),
		Combatants: append(party, enemies...),
	})
	require.NoError(t, err)

	enc, err := autopilot.New(&autopilot.Config{Service: svc}).Run(ctx, "enc-1")
	require.NoError(t, err)
	assert.False(t, enc.IsActive())
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := newService(t, nil, 1)
	_, err := autopilot.New(&autopilot.Config{Service: svc}).Run(ctx, "enc-1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_RequiresService(t *testing.T) {
	assert.Panics(t, func() { autopilot.New(&autopilot.Config{}) })
}
