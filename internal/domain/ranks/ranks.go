// Package ranks sums signed ranks grouped by key. Features and conditions both
// reduce to "rank per (kind, target)" and share this one reducer.
package ranks

// Key identifies what a rank modifies, e.g. {Stat: "skill", Target: "melee"}
type Key struct {
	Stat   string `json:"stat"`
	Target string `json:"target"`
}

// Totals is the reduced view keyed by Key
type Totals map[Key]int

// Reduce groups items by the key the extractor returns and sums their ranks.
// Items for which extract returns ok=false are skipped.
func Reduce[T any, K comparable](items []T, extract func(T) (K, int, bool)) map[K]int {
	out := make(map[K]int)
	for _, item := range items {
		key, rank, ok := extract(item)
		if !ok {
			continue
		}
		out[key] += rank
	}
	return out
}

// Get returns the total for a stat/target pair, zero when absent
func (t Totals) Get(stat, target string) int {
	return t[Key{Stat: stat, Target: target}]
}

// Merge adds every entry of other into t
func (t Totals) Merge(other Totals) Totals {
	for k, v := range other {
		t[k] += v
	}
	return t
}
