package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/squad-tactics/internal/dice"
	mockdice "github.com/KirkDiggler/squad-tactics/internal/dice/mock"
)

func TestMockRoller_Roll(t *testing.T) {
	tests := []struct {
		name       string
		setupRolls []int
		count      int
		sides      int
		bonus      int
		wantTotal  int
		wantRolls  []int
		wantErr    bool
	}{
		{
			name:       "single d20 roll",
			setupRolls: []int{15},
			count:      1,
			sides:      20,
			bonus:      0,
			wantTotal:  15,
			wantRolls:  []int{15},
		},
		{
			name:       "2d6+3",
			setupRolls: []int{4, 5},
			count:      2,
			sides:      6,
			bonus:      3,
			wantTotal:  12, // 4+5+3
			wantRolls:  []int{4, 5},
		},
		{
			name:       "critical hit d20",
			setupRolls: []int{20},
			count:      1,
			sides:      20,
			bonus:      5,
			wantTotal:  25,
			wantRolls:  []int{20},
		},
		{
			name:       "not enough rolls",
			setupRolls: []int{10},
			count:      2,
			sides:      6,
			bonus:      0,
			wantErr:    true,
		},
		{
			name:       "invalid roll for die size",
			setupRolls: []int{7},
			count:      1,
			sides:      6,
			bonus:      0,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roller := mockdice.NewManualMockRoller()
			roller.SetRolls(tt.setupRolls)

			result, err := roller.Roll(tt.count, tt.sides, tt.bonus)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, result.Total)
			assert.Equal(t, tt.wantRolls, result.Rolls)
		})
	}
}

type fixedSource struct {
	values []int
}

func (f *fixedSource) Roll(_ int) (int, error) { return f.values[0], nil }
func (f *fixedSource) RollN(count, _ int) ([]int, error) {
	return f.values[:count], nil
}

func TestRandomRoller_UsesSource(t *testing.T) {
	roller := dice.NewRollerFrom(&fixedSource{values: []int{2, 5, 6}})

	result, err := roller.Roll(3, 6, 1)
	require.NoError(t, err)
	assert.Equal(t, 14, result.Total)
	assert.Equal(t, 13, result.RawTotal)
	assert.Equal(t, "3d6+1 [2,5,6] = 14", result.String())
}

func TestRandomRoller_RejectsBadDice(t *testing.T) {
	roller := dice.NewRandomRoller()

	_, err := roller.Roll(0, 6, 0)
	assert.Error(t, err)

	_, err = roller.Roll(1, 0, 0)
	assert.Error(t, err)
}

func TestRandomRoller_StaysInRange(t *testing.T) {
	roller := dice.NewRandomRoller()

	for i := 0; i < 50; i++ {
		result, err := roller.Roll(2, 6, 0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.Total, 2)
		assert.LessOrEqual(t, result.Total, 12)
	}
}

func TestSeededRoller_IsReproducible(t *testing.T) {
	a := dice.NewSeededRoller(42)
	b := dice.NewSeededRoller(42)

	for i := 0; i < 20; i++ {
		ra, err := a.Roll(3, 8, 0)
		require.NoError(t, err)
		rb, err := b.Roll(3, 8, 0)
		require.NoError(t, err)
		assert.Equal(t, ra.Rolls, rb.Rolls)
		for _, r := range ra.Rolls {
			assert.True(t, r >= 1 && r <= 8)
		}
	}
}

func TestParseNotation(t *testing.T) {
	tests := []struct {
		input   string
		want    dice.Notation
		wantErr bool
	}{
		{input: "1d6", want: dice.Notation{Count: 1, Sides: 6}},
		{input: "2d8+3", want: dice.Notation{Count: 2, Sides: 8, Bonus: 3}},
		{input: " 3D4-1 ", want: dice.Notation{Count: 3, Sides: 4, Bonus: -1}},
		{input: "d6", wantErr: true},
		{input: "0d6", wantErr: true},
		{input: "two dice", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := dice.ParseNotation(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestRollNotation(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	roller.SetRolls([]int{3, 4})

	result, err := dice.RollNotation(roller, "2d6-2")
	require.NoError(t, err)
	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 0, roller.Remaining())
}
