package resolution_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"pgregory.net/rapid"

	mockdice "github.com/KirkDiggler/squad-tactics/internal/dice/mock"
	"github.com/KirkDiggler/squad-tactics/internal/domain/actions"
	"github.com/KirkDiggler/squad-tactics/internal/domain/combatant"
	"github.com/KirkDiggler/squad-tactics/internal/domain/conditions"
	"github.com/KirkDiggler/squad-tactics/internal/domain/events"
	mockevents "github.com/KirkDiggler/squad-tactics/internal/domain/events/mock"
	"github.com/KirkDiggler/squad-tactics/internal/domain/features"
	"github.com/KirkDiggler/squad-tactics/internal/domain/game/encounter"
	"github.com/KirkDiggler/squad-tactics/internal/domain/game/resolution"
	"github.com/KirkDiggler/squad-tactics/internal/domain/game/targeting"
	"github.com/KirkDiggler/squad-tactics/internal/domain/grid"
	"github.com/KirkDiggler/squad-tactics/internal/domain/rules"
	"github.com/KirkDiggler/squad-tactics/internal/domain/stats"
	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
	"github.com/KirkDiggler/squad-tactics/internal/uuid"
)

type fakeCreatures struct{}

func (fakeCreatures) SpawnCreature(creatureID, id string, faction combatant.Faction) (*combatant.Combatant, error) {
	if creatureID != "wolf" {
		return nil, apperrors.NotFoundf("creature %s not found", creatureID)
	}
	return combatant.New(id, "Wolf", faction, 6), nil
}

type battle struct {
	enc    *encounter.Encounter
	hero   *combatant.Combatant
	ally   *combatant.Combatant
	goblin *combatant.Combatant
}

// newBattle lays out a 7x7 map with a wall at (5,3):
// ally (2,2), hero (2,3), goblin (3,3)
func newBattle() *battle {
	b := &battle{enc: encounter.New("enc-1", "Test", grid.NewMap(7, 7, grid.Position{X: 5, Y: 3}))}
	add := func(id, name string, faction combatant.Faction, x, y int) *combatant.Combatant {
		c := combatant.New(id, name, faction, 10)
		c.Position = grid.Position{X: x, Y: y}
		if err := b.enc.Add(c); err != nil {
			panic(err)
		}
		return c
	}
	b.hero = add("hero", "Ash", combatant.FactionPlayer, 2, 3)
	b.ally = add("ally", "Brin", combatant.FactionPlayer, 2, 2)
	b.goblin = add("goblin", "Goblin", combatant.FactionOpposing, 3, 3)
	return b
}

func at(c *combatant.Combatant) targeting.Candidate {
	return targeting.Candidate{Kind: targeting.CandidateCombatant, CombatantID: c.ID, Position: c.Position}
}

func square(x, y int) targeting.Candidate {
	return targeting.Candidate{Kind: targeting.CandidateSquare, Position: grid.Position{X: x, Y: y}}
}

func act(effects ...actions.Effect) *actions.Action {
	return &actions.Action{ID: "test", Name: "Test", Effects: effects}
}

type InterpreterTestSuite struct {
	suite.Suite
	*battle
	roller *mockdice.ManualMockRoller
	bus    *events.ToolkitBus
}

func (s *InterpreterTestSuite) SetupTest() {
	s.battle = newBattle()
	s.roller = mockdice.NewManualMockRoller()
	s.bus = events.NewToolkitBus()
}

func (s *InterpreterTestSuite) interpreter(cmp resolution.Comparator) *resolution.Interpreter {
	return resolution.NewInterpreter(&resolution.InterpreterConfig{
		Roller:     s.roller,
		IDs:        uuid.NewSequentialGenerator("id"),
		Comparator: cmp,
		Bus:        s.bus,
		Creatures:  fakeCreatures{},
	})
}

func (s *InterpreterTestSuite) execute(cmp resolution.Comparator, action *actions.Action, targets ...targeting.Candidate) *resolution.Result {
	return s.interpreter(cmp).Execute(&resolution.Request{
		Encounter: s.enc,
		Actor:     s.hero,
		Action:    action,
		Origin:    s.hero.Position,
		Targets:   targets,
	})
}

func strike() *actions.Action {
	return act(actions.NewEffect(actions.EffectAttack, &actions.AttackData{},
		actions.NewEffect(actions.EffectDamage, &actions.DamageData{Damage: rules.DamageEdged, Amount: 3}),
		actions.NewEffect(actions.EffectKnockDown, nil),
	))
}

func (s *InterpreterTestSuite) TestAttackHit_DamagesAndKnocksDown() {
	result := s.execute(resolution.Always(true), strike(), at(s.goblin))

	s.Equal(7, s.goblin.Health)
	s.Equal(combatant.StateProne, s.goblin.State)
	s.Equal(1, result.Hits)
	s.Equal(3, result.Applied)
	s.Zero(result.Skipped)
}

func (s *InterpreterTestSuite) TestAttackMiss_SkipsChildren() {
	result := s.execute(resolution.Always(false), strike(), at(s.goblin))

	s.Equal(10, s.goblin.Health)
	s.Equal(combatant.StateStanding, s.goblin.State)
	s.Equal(1, result.Misses)
	s.Zero(result.Applied)
	s.Zero(result.Skipped, "a miss is not a failure")
}

func (s *InterpreterTestSuite) TestOpposedRoll_AttackerMustExceed() {
	s.hero.Skills[rules.SkillUnarmed] = 1
	s.hero.Traits[rules.TraitAgility] = 1

	// 4+4+2 = 10 against 5+5 = 10
	s.roller.SetRolls([]int{4, 4, 5, 5})
	result := s.execute(nil, strike(), at(s.goblin))
	s.Equal(1, result.Misses)
	s.Equal(10, s.goblin.Health)

	s.roller.SetRolls([]int{6, 5, 1, 1})
	result = s.execute(nil, strike(), at(s.goblin))
	s.Equal(1, result.Hits)
	s.Equal(7, s.goblin.Health)
}

func (s *InterpreterTestSuite) TestAttackingRevealsHiddenAttacker() {
	s.hero.Hidden = true
	s.execute(resolution.Always(false), strike(), at(s.goblin))
	s.False(s.hero.Hidden)
}

func (s *InterpreterTestSuite) TestDamage_BonusAndResistance() {
	s.hero.Features = append(s.hero.Features, features.Feature{
		ID: "sharp", Kind: features.KindDamageBonus, Target: string(rules.DamageEdged), Rank: 2,
	})
	s.Require().NoError(s.goblin.Conditions.Add(&conditions.Condition{
		ID: "hide", Type: conditions.DamageResistance, Rank: 1, Details: conditions.Details{Damage: rules.DamageEdged},
	}))

	cut := act(actions.NewEffect(actions.EffectDamage, &actions.DamageData{Damage: rules.DamageEdged, Amount: 3}))
	s.execute(nil, cut, at(s.goblin))
	s.Equal(6, s.goblin.Health)

	s.Require().NoError(s.goblin.Conditions.Add(&conditions.Condition{
		ID: "plate", Type: conditions.DamageResistance, Rank: 10, Details: conditions.Details{Damage: rules.DamageEdged},
	}))
	result := s.execute(nil, cut, at(s.goblin))
	s.Equal(6, s.goblin.Health, "damage is floored at zero")
	s.Equal(1, result.Applied)
}

func (s *InterpreterTestSuite) TestDamage_RollsDice() {
	s.roller.SetRolls([]int{3})
	s.execute(nil, act(actions.NewEffect(actions.EffectDamage, &actions.DamageData{Damage: rules.DamageFire, Amount: 1, Dice: "1d4"})), at(s.goblin))
	s.Equal(6, s.goblin.Health)
}

func (s *InterpreterTestSuite) TestDamage_ClampsAndWounds() {
	s.execute(nil, act(actions.NewEffect(actions.EffectDamage, &actions.DamageData{Damage: rules.DamageBlunt, Amount: 25})), at(s.goblin))

	s.Equal(0, s.goblin.Health)
	s.Equal(1, s.goblin.Wounds)
	s.Equal(combatant.StateUnconscious, s.goblin.State)
}

func (s *InterpreterTestSuite) TestHealDamage() {
	s.goblin.Health = 4
	mend := act(actions.NewEffect(actions.EffectHealDamage, &actions.HealData{Amount: 10}))

	s.execute(nil, mend, at(s.goblin))
	s.Equal(10, s.goblin.Health, "healing is clamped at max")

	s.ally.TakeDamage(10)
	s.Require().Equal(combatant.StateUnconscious, s.ally.State)
	s.execute(nil, act(actions.NewEffect(actions.EffectHealDamage, &actions.HealData{Amount: 2})), at(s.ally))
	s.Equal(2, s.ally.Health)
	s.Equal(combatant.StateProne, s.ally.State)
}

func (s *InterpreterTestSuite) TestHealWounds() {
	s.ally.Wounds = 2
	s.execute(nil, act(actions.NewEffect(actions.EffectHealWounds, &actions.HealData{Amount: 1})), at(s.ally))
	s.Equal(1, s.ally.Wounds)
}

func (s *InterpreterTestSuite) TestDeadTargetsAreSkipped() {
	s.goblin.MaxWounds = 1
	s.goblin.TakeDamage(99)
	s.Require().Equal(combatant.StateDead, s.goblin.State)

	ctrl := gomock.NewController(s.T())
	listener := mockevents.NewMockEventListener(ctrl)
	listener.EXPECT().Priority().Return(0).AnyTimes()
	listener.EXPECT().HandleEvent(gomock.Any()).DoAndReturn(func(ev *events.GameEvent) error {
		s.Equal(events.OnEffectSkipped, ev.Type)
		s.Equal("goblin", ev.TargetID())
		reason, _ := ev.GetStringContext(events.ContextReason)
		s.Equal("target is dead", reason)
		return nil
	}).Times(1)
	s.bus.Subscribe(events.OnEffectSkipped, listener)

	result := s.execute(nil, act(actions.NewEffect(actions.EffectHealDamage, &actions.HealData{Amount: 5})), at(s.goblin))

	s.Equal(1, result.Skipped)
	s.Equal(0, s.goblin.Health)
}

func (s *InterpreterTestSuite) TestAddCondition_RankFromSourceTrait() {
	s.hero.Traits[rules.TraitResolve] = 3
	rally := act(actions.NewEffect(actions.EffectAddCondition, &actions.AddConditionData{
		Type: conditions.TraitBonus, Trait: rules.TraitResolve, Details: conditions.Details{Trait: rules.TraitAgility},
	}))

	s.execute(nil, rally, at(s.ally))

	all := s.ally.Conditions.All()
	s.Require().Len(all, 1)
	s.Equal("id-1", all[0].ID)
	s.Equal(3, all[0].Rank)
	s.Equal("hero", all[0].SourceID)
	s.Equal(3, stats.Trait(s.ally, rules.TraitAgility))
}

func (s *InterpreterTestSuite) TestAddCondition_MinimumRankOne() {
	weaken := act(actions.NewEffect(actions.EffectAddCondition, &actions.AddConditionData{
		Type: conditions.MovementPenalty, Trait: rules.TraitExpertise, Rounds: 2,
	}))

	s.execute(nil, weaken, at(s.goblin))

	s.Equal(3, stats.Movement(s.goblin))
}

func (s *InterpreterTestSuite) TestRemoveCondition() {
	for i, trait := range []rules.Trait{rules.TraitResolve, rules.TraitResolve, rules.TraitExpertise} {
		s.Require().NoError(s.goblin.Conditions.Add(&conditions.Condition{
			ID: string(rune('a' + i)), Type: conditions.MovementBonus, SourceTrait: trait, Rank: 1,
		}))
	}
	purge := act(actions.NewEffect(actions.EffectRemoveCondition, &actions.RemoveConditionData{Trait: rules.TraitResolve}))

	result := s.execute(nil, purge, at(s.goblin))
	s.Equal(1, result.Applied)
	s.Equal(1, s.goblin.Conditions.Len())

	result = s.execute(nil, purge, at(s.goblin))
	s.Equal(1, result.Skipped, "nothing left to remove")
}

func (s *InterpreterTestSuite) TestTransferCondition() {
	s.Require().NoError(s.hero.Conditions.Add(&conditions.Condition{
		ID: "curse", Type: conditions.TraitPenalty, SourceTrait: rules.TraitResolve, Rank: 2,
		Details: conditions.Details{Trait: rules.TraitAgility},
	}))

	give := act(actions.NewEffect(actions.EffectTransferCondition, &actions.TransferConditionData{Trait: rules.TraitAny}))
	s.execute(nil, give, at(s.goblin))
	s.Zero(s.hero.Conditions.Len())
	s.Equal(-2, stats.Trait(s.goblin, rules.TraitAgility))

	take := act(actions.NewEffect(actions.EffectTransferCondition, &actions.TransferConditionData{
		Trait: rules.TraitResolve, Direction: actions.TransferFromTarget,
	}))
	s.execute(nil, take, at(s.goblin))
	s.Zero(s.goblin.Conditions.Len())
	s.Equal(1, s.hero.Conditions.Len())

	result := s.execute(nil, give, at(s.hero))
	s.Equal(1, result.Skipped)
}

func (s *InterpreterTestSuite) TestInvertConditions() {
	s.Require().NoError(s.goblin.Conditions.Add(&conditions.Condition{
		ID: "haste", Type: conditions.TraitBonus, SourceTrait: rules.TraitExpertise, Rank: 2,
		Details: conditions.Details{Trait: rules.TraitAgility},
	}))

	flip := act(actions.NewEffect(actions.EffectInvertConditions, &actions.InvertConditionsData{Trait: rules.TraitAny}))
	s.execute(nil, flip, at(s.goblin))
	s.Equal(-2, stats.Trait(s.goblin, rules.TraitAgility))

	s.execute(nil, flip, at(s.goblin))
	s.Equal(2, stats.Trait(s.goblin, rules.TraitAgility))
}

func (s *InterpreterTestSuite) TestToSelf_RetargetsChildren() {
	s.hero.Health = 5
	drain := act(actions.NewEffect(actions.EffectAttack, &actions.AttackData{},
		actions.NewEffect(actions.EffectDamage, &actions.DamageData{Damage: rules.DamagePsychic, Amount: 2}),
		actions.NewEffect(actions.EffectToSelf, nil,
			actions.NewEffect(actions.EffectHealDamage, &actions.HealData{Amount: 5}),
		),
	))

	s.execute(resolution.Always(true), drain, at(s.goblin))

	s.Equal(8, s.goblin.Health)
	s.Equal(10, s.hero.Health)
}

func (s *InterpreterTestSuite) TestTakeAnotherAction() {
	result := s.execute(nil, act(actions.NewEffect(actions.EffectTakeAnotherAction, nil)))
	s.True(result.ExtraAction)
}

func (s *InterpreterTestSuite) TestSummon() {
	call := act(actions.NewEffect(actions.EffectSummon, &actions.SummonData{Creature: "wolf"}))

	result := s.execute(nil, call, square(1, 3))
	s.Equal(1, result.Applied)

	wolf, ok := s.enc.Combatant("id-1")
	s.Require().True(ok)
	s.True(wolf.Summoned)
	s.Equal("hero", wolf.SummonerID)
	s.Equal(combatant.FactionPlayer, wolf.Faction)
	s.Equal(grid.Position{X: 1, Y: 3}, wolf.Position)

	result = s.execute(nil, call, square(1, 3))
	s.Equal(1, result.Skipped, "square is taken")

	result = s.execute(nil, call, at(s.goblin))
	s.Equal(1, result.Skipped, "needs a square")

	result = s.execute(nil, act(actions.NewEffect(actions.EffectSummon, &actions.SummonData{Creature: "dragon"})), square(0, 0))
	s.Equal(1, result.Skipped, "unknown creature")
}

func (s *InterpreterTestSuite) TestSummon_WithoutCreatureSource() {
	interp := resolution.NewInterpreter(&resolution.InterpreterConfig{Roller: s.roller, IDs: uuid.NewSequentialGenerator("id")})
	result := interp.Execute(&resolution.Request{
		Encounter: s.enc, Actor: s.hero, Origin: s.hero.Position,
		Action:  act(actions.NewEffect(actions.EffectSummon, &actions.SummonData{Creature: "wolf"})),
		Targets: []targeting.Candidate{square(1, 3)},
	})
	s.Equal(1, result.Skipped)
	s.Len(s.enc.Combatants, 3)
}

func (s *InterpreterTestSuite) TestSteal_TakesFromPackFirst() {
	s.goblin.Inventory.Hold(&combatant.Item{ID: "dagger", Name: "Dagger", Kind: combatant.ItemMeleeWeapon, Hands: 1})
	s.goblin.Inventory.Pack = append(s.goblin.Inventory.Pack, &combatant.Item{ID: "coin", Name: "Coin", Kind: combatant.ItemTrinket})
	pilfer := act(actions.NewEffect(actions.EffectSteal, nil))

	s.execute(nil, pilfer, at(s.goblin))
	s.Require().Len(s.hero.Inventory.Pack, 1)
	s.Equal("coin", s.hero.Inventory.Pack[0].ID)

	s.execute(nil, pilfer, at(s.goblin))
	s.Len(s.hero.Inventory.Pack, 2)
	s.Empty(s.goblin.Inventory.Held)

	result := s.execute(nil, pilfer, at(s.goblin))
	s.Equal(1, result.Skipped)
}

func (s *InterpreterTestSuite) TestHideStunKnockDown() {
	result := s.execute(nil, act(actions.NewEffect(actions.EffectHide, nil)))
	s.True(s.hero.Hidden)
	s.Equal(1, result.Applied)

	result = s.execute(nil, act(actions.NewEffect(actions.EffectHide, nil)))
	s.Equal(1, result.Skipped)

	s.execute(nil, act(actions.NewEffect(actions.EffectStun, &actions.StunData{Turns: 2})), at(s.goblin))
	s.Equal(2, s.goblin.StunnedTurns)

	s.goblin.KnockDown()
	result = s.execute(nil, act(actions.NewEffect(actions.EffectKnockDown, nil)), at(s.goblin))
	s.Equal(1, result.Skipped)
}

func (s *InterpreterTestSuite) TestCombatLogListener() {
	events.SubscribeAll(s.bus, resolution.NewCombatLog())

	s.execute(resolution.Always(true), strike(), at(s.goblin))

	log := strings.Join(s.enc.Log, "\n")
	s.Contains(log, "Round 0: Ash attacks Goblin (0 vs 0) and hits")
	s.Contains(log, "Goblin takes 3 edged damage")
	s.Contains(log, "Goblin is now prone")
}

func (s *InterpreterTestSuite) TestDepthCap() {
	leaf := actions.NewEffect(actions.EffectHealDamage, &actions.HealData{Amount: 1})
	for i := 0; i < 20; i++ {
		leaf = actions.NewEffect(actions.EffectToSelf, nil, leaf)
	}

	result := s.execute(nil, act(leaf))

	s.Equal(actions.MaxDepth, result.Applied)
	s.Equal(1, result.Skipped)
}

func TestInterpreterSuite(t *testing.T) {
	suite.Run(t, new(InterpreterTestSuite))
}

func TestForceMovement(t *testing.T) {
	tests := []struct {
		name    string
		mode    actions.MovementMode
		dist    int
		goblin  grid.Position
		origin  *grid.Position
		rolls   []int
		want    grid.Position
		skipped bool
	}{
		{name: "push stops at wall", mode: actions.MovePush, dist: 3, goblin: grid.Position{X: 3, Y: 3}, want: grid.Position{X: 4, Y: 3}},
		{name: "push into wall is a no-op", mode: actions.MovePush, dist: 1, goblin: grid.Position{X: 4, Y: 3}, want: grid.Position{X: 4, Y: 3}, skipped: true},
		{name: "pull stops beside actor", mode: actions.MovePull, dist: 5, goblin: grid.Position{X: 5, Y: 5}, want: grid.Position{X: 3, Y: 3}},
		{name: "toward origin", mode: actions.MoveToward, dist: 2, goblin: grid.Position{X: 3, Y: 3}, origin: &grid.Position{X: 6, Y: 0}, want: grid.Position{X: 5, Y: 1}},
		{name: "away from origin", mode: actions.MoveAway, dist: 2, goblin: grid.Position{X: 3, Y: 3}, origin: &grid.Position{X: 3, Y: 2}, want: grid.Position{X: 3, Y: 5}},
		{name: "away from own square", mode: actions.MoveAway, dist: 2, goblin: grid.Position{X: 3, Y: 3}, origin: &grid.Position{X: 3, Y: 3}, want: grid.Position{X: 3, Y: 3}, skipped: true},
		{name: "beside actor", mode: actions.MoveBeside, goblin: grid.Position{X: 6, Y: 6}, want: grid.Position{X: 3, Y: 3}},
		{name: "random", mode: actions.MoveRandom, dist: 1, goblin: grid.Position{X: 3, Y: 3}, rolls: []int{1}, want: grid.Position{X: 3, Y: 2}},
		{name: "swap", mode: actions.MoveSwap, goblin: grid.Position{X: 3, Y: 3}, want: grid.Position{X: 2, Y: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBattle()
			b.goblin.Position = tt.goblin
			roller := mockdice.NewManualMockRoller()
			roller.SetRolls(tt.rolls)
			origin := b.hero.Position
			if tt.origin != nil {
				origin = *tt.origin
			}
			heroStart := b.hero.Position

			interp := resolution.NewInterpreter(&resolution.InterpreterConfig{Roller: roller, IDs: uuid.NewSequentialGenerator("id")})
			result := interp.Execute(&resolution.Request{
				Encounter: b.enc,
				Actor:     b.hero,
				Action:    act(actions.NewEffect(actions.EffectForceMovement, &actions.ForceMovementData{Mode: tt.mode, Distance: tt.dist})),
				Origin:    origin,
				Targets:   []targeting.Candidate{at(b.goblin)},
			})

			assert.Equal(t, tt.want, b.goblin.Position)
			if tt.skipped {
				assert.Equal(t, 1, result.Skipped)
			} else {
				assert.Equal(t, 1, result.Applied)
			}
			if tt.mode == actions.MoveSwap {
				assert.Equal(t, tt.goblin, b.hero.Position)
			} else {
				assert.Equal(t, heroStart, b.hero.Position)
			}
		})
	}
}

func genEffect(t *rapid.T, depth int) actions.Effect {
	kinds := []actions.EffectKind{
		actions.EffectToSelf, actions.EffectTakeAnotherAction, actions.EffectHide,
		actions.EffectKnockDown, actions.EffectSteal, actions.EffectAttack, actions.EffectDamage,
	}
	kind := rapid.SampledFrom(kinds).Draw(t, "kind")

	var data actions.Payload
	if kind == actions.EffectDamage {
		data = &actions.DamageData{Damage: rules.DamageBlunt, Amount: rapid.IntRange(1, 6).Draw(t, "amount")}
	}

	var children []actions.Effect
	if depth < 5 {
		n := rapid.IntRange(0, 3).Draw(t, "children")
		for i := 0; i < n; i++ {
			children = append(children, genEffect(t, depth+1))
		}
	}
	return actions.NewEffect(kind, data, children...)
}

func countNodes(e actions.Effect) int {
	n := 1
	for _, c := range e.Children {
		n += countNodes(c)
	}
	return n
}

func TestExecute_AlwaysTerminatesWithinNodeBudget(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		b := newBattle()
		root := genEffect(rt, 1)
		hit := rapid.Bool().Draw(rt, "hit")

		interp := resolution.NewInterpreter(&resolution.InterpreterConfig{
			Roller:     mockdice.NewManualMockRoller(),
			IDs:        uuid.NewSequentialGenerator("id"),
			Comparator: resolution.Always(hit),
		})
		result := interp.Execute(&resolution.Request{
			Encounter: b.enc,
			Actor:     b.hero,
			Action:    act(root),
			Origin:    b.hero.Position,
			Targets:   []targeting.Candidate{at(b.goblin)},
		})

		require.LessOrEqual(rt, result.Applied+result.Skipped+result.Misses, countNodes(root))
		require.GreaterOrEqual(rt, b.goblin.Health, 0)
		require.LessOrEqual(rt, b.goblin.Health, b.goblin.MaxHealth)
	})
}
