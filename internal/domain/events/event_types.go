package events

// EventType represents the type of game event
type EventType int

const (
	// Encounter flow
	OnRoundStarted EventType = iota
	OnTurnStarted
	OnActionTaken
	OnEncounterEnded

	// Resolution
	OnAttackResolved
	OnDamageTaken
	OnHealed
	OnStateChanged
	OnMoved
	OnSummoned
	OnItemStolen
	OnEffectSkipped

	// Conditions
	OnConditionApplied
	OnConditionRemoved
	OnConditionTransferred
	OnConditionsInverted
)

// String returns the string representation of the event type
func (e EventType) String() string {
	names := [...]string{
		"OnRoundStarted",
		"OnTurnStarted",
		"OnActionTaken",
		"OnEncounterEnded",
		"OnAttackResolved",
		"OnDamageTaken",
		"OnHealed",
		"OnStateChanged",
		"OnMoved",
		"OnSummoned",
		"OnItemStolen",
		"OnEffectSkipped",
		"OnConditionApplied",
		"OnConditionRemoved",
		"OnConditionTransferred",
		"OnConditionsInverted",
	}
	if e < OnRoundStarted || int(e) >= len(names) {
		return "Unknown"
	}
	return names[e]
}

// AllEventTypes lists every event type, for listeners that want everything
func AllEventTypes() []EventType {
	out := make([]EventType, 0, int(OnConditionsInverted)+1)
	for e := OnRoundStarted; e <= OnConditionsInverted; e++ {
		out = append(out, e)
	}
	return out
}
