// Package generator builds playable boards: a start and end in opposite
// corners, a random walkable path of bounded length between them, and mines
// scattered off the path.
package generator

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zucenko/minepath/model"
)

var (
	ErrInvalidSize    = errors.New("grid size must be at least 2")
	ErrInvalidDensity = errors.New("mine density must be in (0,1)")
)

const (
	DefaultDensity  = 0.15
	DefaultMaxSteps = 10000
	// resamples allowed per cell before mine placement stops sampling blindly
	resamplesPerCell = 100
)

type Generator struct {
	Rand    *rand.Rand
	Density float64
	// MaxSteps bounds the path search.
	MaxSteps int
	// MaxResamples bounds rejected mine samples, 0 means 100 per cell.
	MaxResamples int
	// MinLength and MaxLength, when both set, accept any path reaching the
	// end within the range instead of one exact drawn length.
	MinLength, MaxLength int
	Log                  logrus.FieldLogger
}

func New(r *rand.Rand) *Generator {
	return &Generator{
		Rand:     r,
		Density:  DefaultDensity,
		MaxSteps: DefaultMaxSteps,
		Log:      logrus.StandardLogger(),
	}
}

// Generate builds a board with a time seeded generator.
func Generate(size int) (*model.Grid, error) {
	return New(rand.New(rand.NewSource(time.Now().UnixNano()))).Generate(size)
}

// MineCount is the number of mines a board of the given size receives.
func (g *Generator) MineCount(size int) int {
	if g.Density <= 0 {
		return 0
	}
	return int(math.Floor(g.Density * float64(size*size)))
}

// ValidDensity reports whether d leaves room for both mines and free cells.
func ValidDensity(d float64) bool {
	return d > 0 && d < 1
}

func (g *Generator) Generate(size int) (*model.Grid, error) {
	if size < 2 {
		return nil, fmt.Errorf("generate %d: %w", size, ErrInvalidSize)
	}
	if !ValidDensity(g.Density) {
		return nil, fmt.Errorf("generate density %v: %w", g.Density, ErrInvalidDensity)
	}
	if g.Log == nil {
		g.Log = logrus.StandardLogger()
	}
	grid := model.NewGrid(size)
	start := model.Pos{X: 0, Y: 0}
	end := model.Pos{X: size - 1, Y: size - 1}
	grid.At(start).Start = true
	grid.At(end).End = true

	minLen, maxLen := g.lengthBounds(size, start, end)
	path, found := g.findPath(size, start, end, minLen, maxLen)
	if !found {
		g.Log.Warnf("generator: no path of length %d..%d on %dx%d, using corridor fallback", minLen, maxLen, size, size)
		path = withCorridor(path, end)
	}
	for _, p := range path {
		grid.At(p).OnPath = true
	}

	want := g.MineCount(size)
	placed := g.placeMines(grid, start, want)
	if placed < want {
		g.Log.Warnf("generator: placed %d of %d mines on %dx%d", placed, want, size, size)
	}
	number(grid)

	grid.RevealFoothold()
	g.Log.Debugf("generator: %dx%d path %d mines %d\n%s", size, size, len(path)-1, placed, grid.Layout())
	return grid, nil
}

// lengthBounds picks the accepted walked length range. Without fixed bounds a
// single target is drawn from [2.5*size, 3.5*size]. Lengths are kept to those
// a path can actually have: the grid is bipartite so the parity must match
// the Manhattan distance, and no path is longer than size*size-1 steps.
func (g *Generator) lengthBounds(size int, start, end model.Pos) (int, int) {
	dist := manhattan(start, end)
	longest := size*size - 1
	if (longest-dist)%2 != 0 {
		longest--
	}
	feasible := func(l int) bool {
		return l >= dist && l <= longest && (l-dist)%2 == 0
	}

	if g.MinLength > 0 && g.MaxLength >= g.MinLength {
		lo, hi := g.MinLength, g.MaxLength
		if hi > longest {
			hi = longest
		}
		if lo > hi {
			lo = hi
		}
		return lo, hi
	}

	lo := int(math.Floor(2.5 * float64(size)))
	hi := int(math.Floor(3.5 * float64(size)))
	candidates := make([]int, 0, hi-lo+1)
	for l := lo; l <= hi; l++ {
		if feasible(l) {
			candidates = append(candidates, l)
		}
	}
	if len(candidates) == 0 {
		return longest, longest
	}
	l := candidates[g.Rand.Intn(len(candidates))]
	return l, l
}

// number sets each non-mine cell's count from the mines around it.
func number(grid *model.Grid) {
	for x := range grid.Matrix {
		for y := range grid.Matrix[x] {
			cell := &grid.Matrix[x][y]
			if !cell.Mine {
				continue
			}
			cell.Count = 0
			for _, n := range grid.Neighbours(model.Pos{X: x, Y: y}) {
				if nc := grid.At(n); !nc.Mine {
					nc.Count++
				}
			}
		}
	}
}

func manhattan(a, b model.Pos) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func chebyshev(a, b model.Pos) int {
	dx, dy := abs(a.X-b.X), abs(a.Y-b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
