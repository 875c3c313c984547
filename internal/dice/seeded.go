package dice

import (
	"math/rand"
	"sync"

	toolkitdice "github.com/KirkDiggler/rpg-toolkit/dice"

	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
)

// seededSource is a reproducible toolkit roller for simulations and replays
type seededSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededRoller returns a Roller that yields the same sequence for the same seed
func NewSeededRoller(seed int64) Roller {
	return NewRollerFrom(&seededSource{rng: rand.New(rand.NewSource(seed))})
}

func (s *seededSource) Roll(size int) (int, error) {
	if size < 1 {
		return 0, apperrors.InvalidArgumentf("invalid die size: %d", size)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(size) + 1, nil
}

func (s *seededSource) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		roll, err := s.Roll(size)
		if err != nil {
			return nil, err
		}
		out[i] = roll
	}
	return out, nil
}

var _ toolkitdice.Roller = (*seededSource)(nil)
