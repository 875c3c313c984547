package features_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/KirkDiggler/squad-tactics/internal/domain/conditions"
	"github.com/KirkDiggler/squad-tactics/internal/domain/features"
	"github.com/KirkDiggler/squad-tactics/internal/domain/rules"
	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
)

func TestAggregate(t *testing.T) {
	totals, err := features.Aggregate([]features.Feature{
		{ID: "stout", Kind: features.KindTrait, Target: string(rules.TraitEndurance), Rank: 2},
		{ID: "drilled", Kind: features.KindTrait, Target: string(rules.TraitEndurance), Rank: 1},
		{ID: "brawler", Kind: features.KindSkillCategory, Target: string(rules.SkillCategoryCombat), Rank: 1},
		{ID: "blades", Kind: features.KindProficiency, Target: string(rules.ProficiencyBlades)},
		{ID: "blades-again", Kind: features.KindProficiency, Target: string(rules.ProficiencyBlades)},
		{ID: "bows", Kind: features.KindProficiency, Target: string(rules.ProficiencyBows)},
		{ID: "fireproof", Kind: features.KindDamageResist, Target: string(rules.DamageFire), Rank: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, totals.Trait(rules.TraitEndurance))
	assert.Equal(t, 0, totals.Trait(rules.TraitAgility))
	assert.Equal(t, 1, totals.SkillCategory(rules.SkillCategoryCombat))
	assert.Equal(t, 2, totals.DamageResist(rules.DamageFire))
	assert.True(t, totals.HasProficiency(rules.ProficiencyBlades))
	assert.False(t, totals.HasProficiency(rules.ProficiencyShields))
	assert.Equal(t, []rules.Proficiency{rules.ProficiencyBlades, rules.ProficiencyBows}, totals.Proficiencies())
}

func TestAggregate_RejectsWildcard(t *testing.T) {
	_, err := features.Aggregate([]features.Feature{
		{ID: "versatile", Kind: features.KindSkill, Target: rules.Any, Rank: 1},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsContent(err))
}

func TestAggregate_Auras(t *testing.T) {
	totals, err := features.Aggregate([]features.Feature{
		{
			ID:   "mending-presence",
			Kind: features.KindAura,
			Rank: 2,
			Aura: &features.Aura{Family: features.AuraBoon, Type: conditions.AutoHeal, SourceTrait: rules.TraitResolve},
		},
	})
	require.NoError(t, err)

	auras := totals.Auras()
	require.Len(t, auras, 1)
	assert.Equal(t, conditions.AutoHeal, auras[0].Type)
	assert.Equal(t, 2, auras[0].Rank)

	auras[0].Rank = 99
	assert.Equal(t, 2, totals.Auras()[0].Rank, "aura copies must not leak")
}

func TestFeature_Choose(t *testing.T) {
	wild := features.Feature{ID: "versatile", Kind: features.KindSkill, Target: rules.Any, Rank: 1}

	chosen, err := wild.Choose(string(rules.SkillStealth))
	require.NoError(t, err)
	assert.Equal(t, string(rules.SkillStealth), chosen.Target)
	assert.True(t, wild.IsWildcard(), "original stays a wildcard")

	_, err = wild.Choose("juggling")
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidArgument(err))

	_, err = chosen.Choose(string(rules.SkillMelee))
	assert.Error(t, err)
}

func TestFeature_Validate(t *testing.T) {
	tests := []struct {
		name    string
		feature features.Feature
		wantErr bool
	}{
		{
			name:    "valid trait",
			feature: features.Feature{ID: "f", Kind: features.KindTrait, Target: string(rules.TraitAgility), Rank: 1},
		},
		{
			name:    "wildcard passes",
			feature: features.Feature{ID: "f", Kind: features.KindDamageBonus, Target: rules.Any, Rank: 1},
		},
		{
			name:    "unknown kind",
			feature: features.Feature{ID: "f", Kind: "flying", Target: "wings"},
			wantErr: true,
		},
		{
			name:    "unknown target",
			feature: features.Feature{ID: "f", Kind: features.KindSkill, Target: "juggling"},
			wantErr: true,
		},
		{
			name:    "negative rank",
			feature: features.Feature{ID: "f", Kind: features.KindTrait, Target: string(rules.TraitAgility), Rank: -1},
			wantErr: true,
		},
		{
			name: "boon aura granting penalty",
			feature: features.Feature{ID: "f", Kind: features.KindAura, Rank: 1, Aura: &features.Aura{
				Family: features.AuraBoon, Type: conditions.TraitPenalty, Details: conditions.Details{Trait: rules.TraitAgility},
			}},
			wantErr: true,
		},
		{
			name: "bane aura granting damage",
			feature: features.Feature{ID: "f", Kind: features.KindAura, Rank: 1, Aura: &features.Aura{
				Family: features.AuraBane, Type: conditions.AutoDamage,
			}},
		},
		{
			name: "aura missing details",
			feature: features.Feature{ID: "f", Kind: features.KindAura, Rank: 1, Aura: &features.Aura{
				Family: features.AuraBoon, Type: conditions.SkillBonus,
			}},
			wantErr: true,
		},
		{
			name:    "aura without payload",
			feature: features.Feature{ID: "f", Kind: features.KindAura, Rank: 1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.feature.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsContent(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

// Summing ranks feature by feature must equal what the aggregator reports.
func TestAggregate_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		fs := rapid.SliceOf(rapid.Custom(func(t *rapid.T) features.Feature {
			return features.Feature{
				ID:     "f",
				Kind:   features.KindTrait,
				Target: string(rapid.SampledFrom(rules.Traits()).Draw(t, "trait")),
				Rank:   rapid.IntRange(0, 5).Draw(t, "rank"),
			}
		})).Draw(t, "features")

		want := map[rules.Trait]int{}
		for _, f := range fs {
			want[rules.Trait(f.Target)] += f.Rank
		}

		totals, err := features.Aggregate(fs)
		if err != nil {
			t.Fatal(err)
		}
		for _, trait := range rules.Traits() {
			if got := totals.Trait(trait); got != want[trait] {
				t.Fatalf("%s: got %d want %d", trait, got, want[trait])
			}
		}
	})
}
