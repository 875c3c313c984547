// Package encounter is the boundary a front end talks to: it loads an
// encounter, runs one command or query against the rules engine and saves
// the result.
package encounter

import (
	"context"
	"log"
	"strings"

	"github.com/KirkDiggler/squad-tactics/internal/dice"
	"github.com/KirkDiggler/squad-tactics/internal/domain/actions"
	"github.com/KirkDiggler/squad-tactics/internal/domain/campaign"
	"github.com/KirkDiggler/squad-tactics/internal/domain/combatant"
	"github.com/KirkDiggler/squad-tactics/internal/domain/events"
	encdomain "github.com/KirkDiggler/squad-tactics/internal/domain/game/encounter"
	"github.com/KirkDiggler/squad-tactics/internal/domain/game/prerequisites"
	"github.com/KirkDiggler/squad-tactics/internal/domain/game/resolution"
	"github.com/KirkDiggler/squad-tactics/internal/domain/game/targeting"
	"github.com/KirkDiggler/squad-tactics/internal/domain/grid"
	"github.com/KirkDiggler/squad-tactics/internal/domain/stats"
	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
	"github.com/KirkDiggler/squad-tactics/internal/persistence"
	"github.com/KirkDiggler/squad-tactics/internal/repositories/encounters"
	"github.com/KirkDiggler/squad-tactics/internal/uuid"
)

// DefaultMaxChainedActions is how many extra actions one turn may chain
const DefaultMaxChainedActions = 3

// Service defines the encounter service interface
type Service interface {
	// CreateEncounter places combatants on a map and stores the encounter
	CreateEncounter(ctx context.Context, input *CreateEncounterInput) (*encdomain.Encounter, error)

	// GetEncounter retrieves an encounter by ID
	GetEncounter(ctx context.Context, encounterID string) (*encdomain.Encounter, error)

	// EffectiveStats computes a combatant's current sheet
	EffectiveStats(ctx context.Context, encounterID, combatantID string) (*stats.Sheet, error)

	// ListActions returns every granted action with its blockers
	ListActions(ctx context.Context, encounterID, combatantID string) ([]*ActionOption, error)

	// ListOrigins returns the squares an action may be resolved from
	ListOrigins(ctx context.Context, input *ActionInput) ([]grid.Position, error)

	// ListTargets returns the legal targets for an action from an origin
	ListTargets(ctx context.Context, input *ActionInput) (*targeting.Options, error)

	// StartRound begins the first round
	StartRound(ctx context.Context, encounterID string) (*encdomain.Encounter, error)

	// ApplyAction resolves an action for the combatant whose turn it is
	ApplyAction(ctx context.Context, input *ApplyActionInput) (*ApplyActionResult, error)

	// Move walks the current combatant to a square
	Move(ctx context.Context, input *MoveInput) (*encdomain.Encounter, error)

	// StandUp spends the current combatant's move to get up from prone
	StandUp(ctx context.Context, encounterID, combatantID string) (*encdomain.Encounter, error)

	// EndTurn passes the turn on
	EndTurn(ctx context.Context, encounterID, combatantID string) (*encdomain.Encounter, error)

	// Retreat abandons the encounter
	Retreat(ctx context.Context, encounterID string) (*encdomain.Encounter, error)

	// Finalize applies a finished encounter to the campaign exactly once
	Finalize(ctx context.Context, encounterID string, c *campaign.Campaign) (*encdomain.Summary, error)
}

// CreateEncounterInput contains data for creating an encounter
type CreateEncounterInput struct {
	ID         string
	Name       string
	RegionID   string
	Map        *grid.Map
	Combatants []*combatant.Combatant
	Loot       []*combatant.Item
	XP         int
}

// ActionInput names an action a combatant is considering.
// A nil Origin means the combatant's own square.
type ActionInput struct {
	EncounterID string
	ActorID     string
	ActionID    string
	Origin      *grid.Position
}

// ApplyActionInput is an action with its chosen targets. Targets hold
// combatant ids or square strings as listed by ListTargets; empty accepts
// an auto-selected target set.
type ApplyActionInput struct {
	ActionInput
	Targets []string
}

// ApplyActionResult reports what an action did
type ApplyActionResult struct {
	Encounter *encdomain.Encounter
	Result    *resolution.Result
	// TurnEnded is false when the action granted another action this turn
	TurnEnded bool
}

// MoveInput moves a combatant
type MoveInput struct {
	EncounterID string
	ActorID     string
	To          grid.Position
}

// ActionOption is one granted action and why it cannot be used right now
type ActionOption struct {
	Action     *actions.Action         `json:"action"`
	Selectable bool                    `json:"selectable"`
	Blockers   []prerequisites.Blocker `json:"blockers,omitempty"`
}

type service struct {
	repository  encounters.Repository
	content     Content
	roller      dice.Roller
	uuids       uuid.Generator
	bus         events.Bus
	persister   Persister
	interpreter *resolution.Interpreter
	maxChained  int
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Repository encounters.Repository
	Content    Content
	Roller     dice.Roller
	Persister  Persister
	// UUIDGenerator defaults to random UUIDs
	UUIDGenerator uuid.Generator
	// Bus defaults to a fresh event bus with the combat log subscribed
	Bus events.Bus
	// Comparator defaults to an opposed roll
	Comparator resolution.Comparator
	// MaxChainedActions caps take-another-action per turn; 0 disables chaining
	MaxChainedActions int
}

// NewService creates a new encounter service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Repository == nil {
		panic("repository is required")
	}
	if cfg.Content == nil {
		panic("content is required")
	}
	if cfg.Roller == nil {
		panic("dice roller is required")
	}
	if cfg.Persister == nil {
		panic("persister is required")
	}
	if cfg.MaxChainedActions < 0 {
		panic("max chained actions must be >= 0")
	}

	svc := &service{
		repository: cfg.Repository,
		content:    cfg.Content,
		roller:     cfg.Roller,
		persister:  cfg.Persister,
		maxChained: cfg.MaxChainedActions,
	}

	if cfg.UUIDGenerator != nil {
		svc.uuids = cfg.UUIDGenerator
	} else {
		svc.uuids = uuid.NewGoogleUUIDGenerator()
	}

	if cfg.Bus != nil {
		svc.bus = cfg.Bus
	} else {
		svc.bus = events.NewToolkitBus()
	}
	events.SubscribeAll(svc.bus, resolution.NewCombatLog())

	svc.interpreter = resolution.NewInterpreter(&resolution.InterpreterConfig{
		Roller:     cfg.Roller,
		IDs:        svc.uuids,
		Comparator: cfg.Comparator,
		Bus:        svc.bus,
		Creatures:  cfg.Content,
	})

	return svc
}

// CreateEncounter places combatants on a map and stores the encounter
func (s *service) CreateEncounter(ctx context.Context, input *CreateEncounterInput) (*encdomain.Encounter, error) {
	if input == nil {
		return nil, apperrors.InvalidArgument("input cannot be nil")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.InvalidArgument("encounter name is required")
	}
	if input.Map == nil || input.Map.Width < 1 || input.Map.Height < 1 {
		return nil, apperrors.InvalidArgument("encounter needs a map")
	}
	if len(input.Combatants) == 0 {
		return nil, apperrors.InvalidArgument("encounter needs combatants")
	}

	id := input.ID
	if id == "" {
		id = s.uuids.New()
	}

	enc := encdomain.New(id, input.Name, input.Map)
	enc.RegionID = input.RegionID
	enc.Loot = input.Loot
	enc.XP = input.XP

	for _, c := range input.Combatants {
		if err := enc.Add(c); err != nil {
			return nil, apperrors.Wrapf(err, "failed to place %s", c.ID)
		}
	}

	if err := s.repository.Create(ctx, enc); err != nil {
		return nil, apperrors.Wrap(err, "failed to create encounter")
	}

	log.Printf("[ENCOUNTER] Created %s (%s) with %d combatants", enc.ID, enc.Name, len(enc.Combatants))
	s.snapshot(enc)

	return enc, nil
}

// GetEncounter retrieves an encounter by ID
func (s *service) GetEncounter(ctx context.Context, encounterID string) (*encdomain.Encounter, error) {
	if encounterID == "" {
		return nil, apperrors.InvalidArgument("encounter ID is required")
	}
	enc, err := s.repository.Get(ctx, encounterID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get encounter")
	}
	return enc, nil
}

// EffectiveStats computes a combatant's current sheet
func (s *service) EffectiveStats(ctx context.Context, encounterID, combatantID string) (*stats.Sheet, error) {
	_, c, err := s.load(ctx, encounterID, combatantID)
	if err != nil {
		return nil, err
	}
	return stats.Snapshot(c), nil
}

// ListActions returns every granted action with its blockers
func (s *service) ListActions(ctx context.Context, encounterID, combatantID string) ([]*ActionOption, error) {
	enc, c, err := s.load(ctx, encounterID, combatantID)
	if err != nil {
		return nil, err
	}

	options := make([]*ActionOption, 0, len(c.Actions))
	for _, id := range c.Actions {
		action, err := s.content.Action(id)
		if err != nil {
			return nil, apperrors.Wrapf(err, "%s is granted unknown action %s", c.ID, id)
		}
		blockers := prerequisites.Evaluate(action, c, enc)
		options = append(options, &ActionOption{
			Action:     action,
			Selectable: len(blockers) == 0,
			Blockers:   blockers,
		})
	}

	return options, nil
}

// ListOrigins returns the squares an action may be resolved from
func (s *service) ListOrigins(ctx context.Context, input *ActionInput) ([]grid.Position, error) {
	enc, actor, action, err := s.loadAction(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := checkPrerequisites(action, actor, enc); err != nil {
		return nil, err
	}
	return targeting.Origins(action.OriginParam(), actor, enc), nil
}

// ListTargets returns the legal targets for an action from an origin. Actions
// without a target parameter affect their user and come back auto-selected
// with no candidates.
func (s *service) ListTargets(ctx context.Context, input *ActionInput) (*targeting.Options, error) {
	enc, actor, action, err := s.loadAction(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := checkPrerequisites(action, actor, enc); err != nil {
		return nil, err
	}

	origin, err := resolveOrigin(input.Origin, action, actor, enc)
	if err != nil {
		return nil, err
	}

	param := action.TargetParam()
	if param == nil {
		return &targeting.Options{Origin: origin, Candidates: []targeting.Candidate{}, AutoSelect: true}, nil
	}
	return targeting.Resolve(param, actor, enc, origin), nil
}

// StartRound begins the first round. Later rounds start on their own when
// the last turn ends.
func (s *service) StartRound(ctx context.Context, encounterID string) (*encdomain.Encounter, error) {
	enc, err := s.GetEncounter(ctx, encounterID)
	if err != nil {
		return nil, err
	}
	if !enc.IsActive() {
		return nil, apperrors.FailedPreconditionf("encounter %s is over (%s)", enc.ID, enc.State)
	}
	if enc.Current() != nil {
		return nil, apperrors.FailedPreconditionf("round %d is already under way", enc.Round)
	}

	before := mark(enc)
	if err := enc.StartRound(ctx, s.roller); err != nil {
		return nil, apperrors.Wrap(err, "failed to start round")
	}
	s.announce(enc, before)

	return enc, s.save(ctx, enc)
}

// ApplyAction resolves an action for the combatant whose turn it is
func (s *service) ApplyAction(ctx context.Context, input *ApplyActionInput) (*ApplyActionResult, error) {
	if input == nil {
		return nil, apperrors.InvalidArgument("input cannot be nil")
	}

	enc, actor, action, err := s.loadAction(ctx, &input.ActionInput)
	if err != nil {
		return nil, err
	}
	if err := checkTurn(enc, actor); err != nil {
		return nil, err
	}
	if err := checkPrerequisites(action, actor, enc); err != nil {
		return nil, err
	}

	origin, err := resolveOrigin(input.Origin, action, actor, enc)
	if err != nil {
		return nil, err
	}

	var targets []targeting.Candidate
	if param := action.TargetParam(); param != nil {
		targets, err = targeting.Resolve(param, actor, enc, origin).Select(input.Targets)
		if err != nil {
			return nil, apperrors.Wrapf(err, "cannot use %s", action.ID)
		}
	} else if len(input.Targets) > 0 {
		return nil, apperrors.InvalidArgumentf("%s takes no targets", action.ID)
	}

	before := mark(enc)
	s.emit(events.NewGameEvent(events.OnActionTaken, actor).
		WithContext(events.ContextActionID, action.ID).
		WithContext(events.ContextEncounter, enc))

	result := s.interpreter.Execute(&resolution.Request{
		Encounter: enc,
		Actor:     actor,
		Action:    action,
		Origin:    origin,
		Targets:   targets,
	})

	turnEnded := true
	if enc.Evaluate(ctx) == encdomain.OutcomeActive {
		if result.ExtraAction && enc.ChainedActions < s.maxChained && actor.CanAct() {
			enc.ChainedActions++
			turnEnded = false
			log.Printf("[ENCOUNTER] %s chains another action (%d/%d)", actor.ID, enc.ChainedActions, s.maxChained)
		} else if err := enc.EndTurn(ctx, s.roller); err != nil {
			return nil, apperrors.Wrap(err, "failed to end turn")
		}
	}
	s.announce(enc, before)

	if err := s.save(ctx, enc); err != nil {
		return nil, err
	}

	return &ApplyActionResult{Encounter: enc, Result: result, TurnEnded: turnEnded}, nil
}

// Move walks the current combatant to a square. One move per turn; a prone
// combatant must stand up instead.
func (s *service) Move(ctx context.Context, input *MoveInput) (*encdomain.Encounter, error) {
	if input == nil {
		return nil, apperrors.InvalidArgument("input cannot be nil")
	}

	enc, actor, err := s.load(ctx, input.EncounterID, input.ActorID)
	if err != nil {
		return nil, err
	}
	if err := checkTurn(enc, actor); err != nil {
		return nil, err
	}
	if enc.MovedThisTurn {
		return nil, apperrors.FailedPreconditionf("%s already moved this turn", actor.Name)
	}
	if actor.State == combatant.StateProne {
		return nil, apperrors.FailedPreconditionf("%s is prone and must stand up first", actor.Name)
	}

	if err := enc.Move(actor, input.To, stats.Movement(actor)); err != nil {
		return nil, err
	}
	enc.MovedThisTurn = true

	return enc, s.save(ctx, enc)
}

// StandUp spends the current combatant's move to get up from prone
func (s *service) StandUp(ctx context.Context, encounterID, combatantID string) (*encdomain.Encounter, error) {
	enc, actor, err := s.load(ctx, encounterID, combatantID)
	if err != nil {
		return nil, err
	}
	if err := checkTurn(enc, actor); err != nil {
		return nil, err
	}
	if err := enc.StandUp(actor); err != nil {
		return nil, err
	}
	return enc, s.save(ctx, enc)
}

// EndTurn passes the turn on
func (s *service) EndTurn(ctx context.Context, encounterID, combatantID string) (*encdomain.Encounter, error) {
	enc, actor, err := s.load(ctx, encounterID, combatantID)
	if err != nil {
		return nil, err
	}
	if err := checkTurn(enc, actor); err != nil {
		return nil, err
	}

	before := mark(enc)
	if err := enc.EndTurn(ctx, s.roller); err != nil {
		return nil, apperrors.Wrap(err, "failed to end turn")
	}
	s.announce(enc, before)

	return enc, s.save(ctx, enc)
}

// Retreat abandons the encounter
func (s *service) Retreat(ctx context.Context, encounterID string) (*encdomain.Encounter, error) {
	enc, err := s.GetEncounter(ctx, encounterID)
	if err != nil {
		return nil, err
	}

	before := mark(enc)
	if err := enc.Retreat(ctx); err != nil {
		return nil, err
	}
	s.announce(enc, before)

	return enc, s.save(ctx, enc)
}

// Finalize applies a finished encounter to the campaign exactly once
func (s *service) Finalize(ctx context.Context, encounterID string, c *campaign.Campaign) (*encdomain.Summary, error) {
	enc, err := s.GetEncounter(ctx, encounterID)
	if err != nil {
		return nil, err
	}

	summary, err := enc.Resolve(c)
	if err != nil {
		return nil, err
	}

	if err := s.save(ctx, enc); err != nil {
		return nil, err
	}

	return summary, nil
}

func (s *service) load(ctx context.Context, encounterID, combatantID string) (*encdomain.Encounter, *combatant.Combatant, error) {
	enc, err := s.GetEncounter(ctx, encounterID)
	if err != nil {
		return nil, nil, err
	}
	c, ok := enc.Combatant(combatantID)
	if !ok {
		return nil, nil, apperrors.NotFoundf("combatant %s not in encounter %s", combatantID, encounterID)
	}
	return enc, c, nil
}

// loadAction resolves the encounter, actor and a granted action
func (s *service) loadAction(ctx context.Context, input *ActionInput) (*encdomain.Encounter, *combatant.Combatant, *actions.Action, error) {
	if input == nil {
		return nil, nil, nil, apperrors.InvalidArgument("input cannot be nil")
	}

	enc, actor, err := s.load(ctx, input.EncounterID, input.ActorID)
	if err != nil {
		return nil, nil, nil, err
	}

	granted := false
	for _, id := range actor.Actions {
		if id == input.ActionID {
			granted = true
			break
		}
	}
	if !granted {
		return nil, nil, nil, apperrors.FailedPreconditionf("%s does not have action %s", actor.Name, input.ActionID)
	}

	action, err := s.content.Action(input.ActionID)
	if err != nil {
		return nil, nil, nil, apperrors.Wrapf(err, "failed to look up action %s", input.ActionID)
	}

	return enc, actor, action, nil
}

func checkTurn(enc *encdomain.Encounter, actor *combatant.Combatant) error {
	if !enc.IsActive() {
		return apperrors.FailedPreconditionf("encounter %s is over (%s)", enc.ID, enc.State)
	}
	if current := enc.Current(); current == nil || current.ID != actor.ID {
		return apperrors.FailedPreconditionf("it is not %s's turn", actor.Name)
	}
	return nil
}

func checkPrerequisites(action *actions.Action, actor *combatant.Combatant, enc *encdomain.Encounter) error {
	blockers := prerequisites.Evaluate(action, actor, enc)
	if len(blockers) == 0 {
		return nil
	}
	reasons := make([]string, len(blockers))
	for i, b := range blockers {
		reasons[i] = b.Reason
	}
	return apperrors.FailedPreconditionf("%s cannot use %s: %s", actor.Name, action.ID, strings.Join(reasons, "; "))
}

func resolveOrigin(requested *grid.Position, action *actions.Action, actor *combatant.Combatant, enc *encdomain.Encounter) (grid.Position, error) {
	origin := actor.Position
	if requested != nil {
		origin = *requested
	}
	if !targeting.ValidOrigin(action.OriginParam(), actor, enc, origin) {
		return grid.Position{}, apperrors.InvalidArgumentf("%s cannot be used from %s", action.ID, origin)
	}
	return origin, nil
}

// turnMark remembers where the encounter was before a command so the
// service can announce what changed
type turnMark struct {
	round   int
	current string
	state   encdomain.Outcome
}

func mark(enc *encdomain.Encounter) turnMark {
	m := turnMark{round: enc.Round, state: enc.State}
	if c := enc.Current(); c != nil {
		m.current = c.ID
	}
	return m
}

func (s *service) announce(enc *encdomain.Encounter, before turnMark) {
	after := mark(enc)

	if after.round != before.round {
		s.emit(events.NewGameEvent(events.OnRoundStarted, nil).
			WithContext(events.ContextRound, after.round).
			WithContext(events.ContextEncounter, enc))
	}
	if after.current != "" && (after.current != before.current || after.round != before.round) {
		s.emit(events.NewGameEvent(events.OnTurnStarted, enc.Current()).
			WithContext(events.ContextRound, after.round).
			WithContext(events.ContextEncounter, enc))
	}
	if after.state != before.state {
		s.emit(events.NewGameEvent(events.OnEncounterEnded, nil).
			WithContext(events.ContextState, string(after.state)).
			WithContext(events.ContextEncounter, enc))
	}
}

func (s *service) emit(ev *events.GameEvent) {
	if err := s.bus.Emit(ev); err != nil {
		log.Printf("[ENCOUNTER] Failed to emit %s: %v", ev.Type, err)
	}
}

// save writes the encounter through the repository, then queues a snapshot.
// A dropped snapshot is logged, not returned.
func (s *service) save(ctx context.Context, enc *encdomain.Encounter) error {
	if err := s.repository.Update(ctx, enc); err != nil {
		return apperrors.Wrap(err, "failed to update encounter")
	}
	s.snapshot(enc)
	return nil
}

func (s *service) snapshot(enc *encdomain.Encounter) {
	if err := s.persister.Submit(persistence.Message{Type: persistence.MessageGame, Payload: enc}); err != nil {
		log.Printf("[ENCOUNTER] Snapshot of %s dropped: %v", enc.ID, err)
	}
}
