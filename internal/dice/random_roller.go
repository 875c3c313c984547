package dice

import (
	toolkitdice "github.com/KirkDiggler/rpg-toolkit/dice"

	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
)

// randomRoller implements Roller on top of the rpg-toolkit dice roller
type randomRoller struct {
	source toolkitdice.Roller
}

// NewRandomRoller creates a new random dice roller backed by the toolkit's default roller
func NewRandomRoller() Roller {
	return &randomRoller{source: toolkitdice.DefaultRoller}
}

// NewRollerFrom wraps a specific toolkit roller (seeded or crypto backed)
func NewRollerFrom(source toolkitdice.Roller) Roller {
	if source == nil {
		panic("dice source is required")
	}
	return &randomRoller{source: source}
}

// Roll implements Roller.Roll
func (r *randomRoller) Roll(count, sides, bonus int) (*RollResult, error) {
	if count < 1 {
		return nil, apperrors.InvalidArgumentf("invalid dice count: %d", count)
	}
	if sides < 1 {
		return nil, apperrors.InvalidArgumentf("invalid dice size: %d", sides)
	}

	rolls, err := r.source.RollN(count, sides)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to roll %dd%d", count, sides)
	}

	rawTotal := 0
	for _, roll := range rolls {
		rawTotal += roll
	}

	return &RollResult{
		Total:    rawTotal + bonus,
		Rolls:    rolls,
		Bonus:    bonus,
		Count:    count,
		Sides:    sides,
		RawTotal: rawTotal,
	}, nil
}
