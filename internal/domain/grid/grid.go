// Package grid models the square battlefield: bounds, walls and Chebyshev
// distance, on top of the toolkit's square grid.
package grid

import (
	"fmt"
	"sort"

	"github.com/KirkDiggler/rpg-toolkit/tools/spatial"
)

// Position is a square on the battlefield
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Spatial converts to toolkit coordinates
func (p Position) Spatial() spatial.Position {
	return spatial.Position{X: float64(p.X), Y: float64(p.Y)}
}

// FromSpatial converts a toolkit position back to a square
func FromSpatial(p spatial.Position) Position {
	return Position{X: int(p.X), Y: int(p.Y)}
}

// Add offsets a position
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Distance is the Chebyshev distance: diagonal steps cost the same as straight ones
func (p Position) Distance(o Position) int {
	return max(abs(p.X-o.X), abs(p.Y-o.Y))
}

// IsAdjacent reports Chebyshev distance exactly 1
func (p Position) IsAdjacent(o Position) bool {
	return p.Distance(o) == 1
}

// StepToward returns the unit step (each component in -1..1) from p toward o
func (p Position) StepToward(o Position) (dx, dy int) {
	return sign(o.X - p.X), sign(o.Y - p.Y)
}

// Neighbors returns the eight surrounding squares in a fixed order. Random
// movement picks from this order, so it must not change.
func (p Position) Neighbors() []Position {
	out := make([]Position, 0, 8)
	for _, d := range directions {
		out = append(out, p.Add(d[0], d[1]))
	}
	return out
}

var directions = [8][2]int{
	{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// Map is the static terrain of an encounter. Only the dimensions and walls
// are saved; the toolkit grid and wall index are built on first use.
type Map struct {
	Width  int        `json:"width" yaml:"width"`
	Height int        `json:"height" yaml:"height"`
	Walls  []Position `json:"walls,omitempty" yaml:"walls,omitempty"`

	square  *spatial.SquareGrid
	wallSet map[Position]bool
}

// NewMap creates a map with the given walls. Repeated walls are dropped.
func NewMap(width, height int, walls ...Position) *Map {
	m := &Map{Width: width, Height: height}
	seen := make(map[Position]bool, len(walls))
	for _, w := range walls {
		if !seen[w] {
			seen[w] = true
			m.Walls = append(m.Walls, w)
		}
	}
	m.index()
	return m
}

func (m *Map) index() {
	m.square = spatial.NewSquareGrid(spatial.SquareGridConfig{
		Width:  float64(m.Width),
		Height: float64(m.Height),
	})
	m.wallSet = make(map[Position]bool, len(m.Walls))
	for _, w := range m.Walls {
		m.wallSet[w] = true
	}
}

// Grid is the toolkit grid backing the map
func (m *Map) Grid() *spatial.SquareGrid {
	if m.square == nil {
		m.index()
	}
	return m.square
}

// InBounds reports whether p lies on the map
func (m *Map) InBounds(p Position) bool {
	return m.Grid().IsValidPosition(p.Spatial())
}

// IsWall reports whether p holds a wall
func (m *Map) IsWall(p Position) bool {
	if m.wallSet == nil {
		m.index()
	}
	return m.wallSet[p]
}

// IsOpen reports whether p is on the map and not a wall
func (m *Map) IsOpen(p Position) bool {
	return m.InBounds(p) && !m.IsWall(p)
}

// Squares returns every open square within radius of center, sorted row-major.
// A negative radius returns every open square on the map.
func (m *Map) Squares(center Position, radius int) []Position {
	var out []Position
	if radius < 0 {
		for y := 0; y < m.Height; y++ {
			for x := 0; x < m.Width; x++ {
				if p := (Position{X: x, Y: y}); !m.IsWall(p) {
					out = append(out, p)
				}
			}
		}
		return out
	}
	for _, p := range m.inRange(center, radius) {
		if m.IsOpen(p) {
			out = append(out, p)
		}
	}
	return out
}

// WallsWithin returns walls within radius of center, sorted row-major
func (m *Map) WallsWithin(center Position, radius int) []Position {
	var out []Position
	for _, p := range m.inRange(center, radius) {
		if m.IsWall(p) {
			out = append(out, p)
		}
	}
	return out
}

// inRange asks the toolkit grid for the on-map squares within radius
func (m *Map) inRange(center Position, radius int) []Position {
	found := m.Grid().GetPositionsInRange(center.Spatial(), float64(radius))
	out := make([]Position, 0, len(found))
	for _, sp := range found {
		p := FromSpatial(sp)
		if m.InBounds(p) && center.Distance(p) <= radius {
			out = append(out, p)
		}
	}
	sortRowMajor(out)
	return out
}

func sortRowMajor(ps []Position) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Y != ps[j].Y {
			return ps[i].Y < ps[j].Y
		}
		return ps[i].X < ps[j].X
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Reachable runs a breadth-first search from start over open squares not
// rejected by blocked, returning each reachable square with its step count.
// The start square is included at distance 0. Neighbours come from the
// toolkit grid; the toolkit has no step-limited flood fill around blockers.
func (m *Map) Reachable(start Position, steps int, blocked func(Position) bool) map[Position]int {
	dist := map[Position]int{start: 0}
	frontier := []Position{start}
	for len(frontier) > 0 {
		current := frontier[0]
		frontier = frontier[1:]
		if dist[current] >= steps {
			continue
		}
		for _, sp := range m.Grid().GetNeighbors(current.Spatial()) {
			next := FromSpatial(sp)
			if _, seen := dist[next]; seen {
				continue
			}
			if !m.IsOpen(next) || (blocked != nil && blocked(next)) {
				continue
			}
			dist[next] = dist[current] + 1
			frontier = append(frontier, next)
		}
	}
	return dist
}
