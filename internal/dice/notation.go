package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
)

var notationPattern = regexp.MustCompile(`^(\d+)d(\d+)([+-]\d+)?$`)

// Notation is a parsed dice expression such as "2d6+1"
type Notation struct {
	Count int
	Sides int
	Bonus int
}

// ParseNotation parses "NdS", "NdS+B" or "NdS-B"
func ParseNotation(s string) (*Notation, error) {
	matches := notationPattern.FindStringSubmatch(strings.TrimSpace(strings.ToLower(s)))
	if matches == nil {
		return nil, apperrors.InvalidArgumentf("invalid dice notation: %q", s)
	}

	count, err := strconv.Atoi(matches[1])
	if err != nil {
		return nil, apperrors.InvalidArgumentf("invalid dice count in notation: %q", s)
	}

	sides, err := strconv.Atoi(matches[2])
	if err != nil {
		return nil, apperrors.InvalidArgumentf("invalid die size in notation: %q", s)
	}

	if count <= 0 || sides <= 0 {
		return nil, apperrors.InvalidArgumentf("dice count and size must be positive: %q", s)
	}

	n := &Notation{Count: count, Sides: sides}
	if matches[3] != "" {
		n.Bonus, err = strconv.Atoi(matches[3])
		if err != nil {
			return nil, apperrors.InvalidArgumentf("invalid bonus in notation: %q", s)
		}
	}

	return n, nil
}

// RollNotation parses and rolls a dice expression with the given roller
func RollNotation(roller Roller, s string) (*RollResult, error) {
	n, err := ParseNotation(s)
	if err != nil {
		return nil, err
	}
	return roller.Roll(n.Count, n.Sides, n.Bonus)
}

func (n *Notation) String() string {
	switch {
	case n.Bonus > 0:
		return fmt.Sprintf("%dd%d+%d", n.Count, n.Sides, n.Bonus)
	case n.Bonus < 0:
		return fmt.Sprintf("%dd%d%d", n.Count, n.Sides, n.Bonus)
	default:
		return fmt.Sprintf("%dd%d", n.Count, n.Sides)
	}
}

func formatResult(r *RollResult) string {
	parts := make([]string, len(r.Rolls))
	for i, roll := range r.Rolls {
		parts[i] = strconv.Itoa(roll)
	}
	n := &Notation{Count: r.Count, Sides: r.Sides, Bonus: r.Bonus}
	return fmt.Sprintf("%s [%s] = %d", n, strings.Join(parts, ","), r.Total)
}
