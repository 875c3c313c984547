package events

// Context keys for event data
// These constants ensure consistent access to event context across the system
const (
	ContextActionID  = "action_id" // string: action being resolved
	ContextEffect    = "effect"    // string: effect node kind
	ContextAmount    = "amount"    // int: damage or healing actually applied
	ContextDamage    = "damage"    // string: damage type
	ContextHit       = "hit"       // bool: attack outcome
	ContextAttack    = "attack"    // int: attacker total
	ContextDefense   = "defense"   // int: defender total
	ContextCondition = "condition" // string: condition type
	ContextCount     = "count"     // int: how many conditions were touched
	ContextState     = "state"     // string: new combat state or encounter outcome
	ContextFrom      = "from"      // string: position before a move
	ContextTo        = "to"        // string: position after a move
	ContextItem      = "item"      // string: item name
	ContextReason    = "reason"    // string: why an effect was skipped
	ContextRound     = "round"     // int: current round number

	// ContextEncounter carries the *encounter.Encounter the event happened in
	// so log listeners can write to it
	ContextEncounter = "encounter"
)
