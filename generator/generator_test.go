package generator

import (
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zucenko/minepath/model"
)

func seeded(seed int64) (*Generator, *test.Hook) {
	logger, hook := test.NewNullLogger()
	g := New(rand.New(rand.NewSource(seed)))
	g.Log = logger
	return g, hook
}

func TestGenerateInvalidSize(t *testing.T) {
	g, _ := seeded(1)
	for _, size := range []int{-3, 0, 1} {
		grid, err := g.Generate(size)
		assert.ErrorIs(t, err, ErrInvalidSize)
		assert.Nil(t, grid)
	}
}

func TestGenerateBoardProperties(t *testing.T) {
	for _, size := range []int{2, 5, 10, 16, 24} {
		for seed := int64(1); seed <= 8; seed++ {
			g, _ := seeded(seed)
			grid, err := g.Generate(size)
			require.NoError(t, err)
			checkBoard(t, g, grid)
		}
	}
}

func checkBoard(t *testing.T, g *Generator, grid *model.Grid) {
	t.Helper()
	size := grid.Size
	start := model.Pos{X: 0, Y: 0}
	end := model.Pos{X: size - 1, Y: size - 1}

	starts, ends := 0, 0
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			p := model.Pos{X: x, Y: y}
			c := grid.At(p)
			if c.Start {
				starts++
				assert.Equal(t, start, p)
			}
			if c.End {
				ends++
				assert.Equal(t, end, p)
			}
			if c.Mine {
				assert.False(t, c.Start || c.End, "mine on start or end %v", p)
				assert.False(t, c.OnPath, "mine on path %v", p)
				assert.Greater(t, chebyshev(p, start), 1, "mine next to start %v", p)
				continue
			}
			mines := 0
			for _, n := range grid.Neighbours(p) {
				if grid.At(n).Mine {
					mines++
				}
			}
			assert.Equal(t, mines, c.Count, "count at %v", p)
		}
	}
	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, ends)
	assert.Equal(t, g.MineCount(size), grid.Mines())

	for _, p := range []model.Pos{start, end, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}} {
		assert.True(t, grid.At(p).Revealed, "%v revealed", p)
	}
	assert.True(t, pathConnected(grid, start, end), "path from start to end")
}

// pathConnected walks OnPath cells with axis moves only.
func pathConnected(grid *model.Grid, start, end model.Pos) bool {
	seen := map[model.Pos]bool{start: true}
	queue := []model.Pos{start}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if p == end {
			return true
		}
		for _, d := range model.Directions {
			dx, dy := d.Delta()
			n := p.Add(dx, dy)
			if c := grid.At(n); c != nil && c.OnPath && !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return false
}

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	a, _ := seeded(42)
	b, _ := seeded(42)
	ga, err := a.Generate(10)
	require.NoError(t, err)
	gb, err := b.Generate(10)
	require.NoError(t, err)
	assert.Equal(t, ga.Layout(), gb.Layout())
}

func TestFindPathShape(t *testing.T) {
	found := 0
	for seed := int64(1); seed <= 20; seed++ {
		g, _ := seeded(seed)
		start, end := model.Pos{X: 0, Y: 0}, model.Pos{X: 4, Y: 4}
		minLen, maxLen := g.lengthBounds(5, start, end)
		require.Equal(t, minLen, maxLen)
		require.Zero(t, (minLen-8)%2)

		path, ok := g.findPath(5, start, end, minLen, maxLen)
		require.NotEmpty(t, path)
		assert.Equal(t, start, path[0])
		seen := map[model.Pos]bool{}
		for i, p := range path {
			assert.False(t, seen[p], "revisit %v", p)
			seen[p] = true
			if i > 0 {
				assert.Equal(t, 1, manhattan(path[i-1], p), "step %d", i)
			}
		}
		if ok {
			found++
			assert.Equal(t, end, path[len(path)-1])
			assert.Len(t, path, minLen+1)
		}
	}
	assert.NotZero(t, found)
}

func TestFindPathFixedBounds(t *testing.T) {
	g, _ := seeded(7)
	g.MinLength, g.MaxLength = 25, 35
	start, end := model.Pos{X: 0, Y: 0}, model.Pos{X: 9, Y: 9}
	minLen, maxLen := g.lengthBounds(10, start, end)
	assert.Equal(t, 25, minLen)
	assert.Equal(t, 35, maxLen)

	path, ok := g.findPath(10, start, end, minLen, maxLen)
	if ok {
		assert.Equal(t, end, path[len(path)-1])
		assert.GreaterOrEqual(t, len(path)-1, 25)
		assert.LessOrEqual(t, len(path)-1, 35)
	}
}

func TestLengthBoundsClampsSmallBoards(t *testing.T) {
	g, _ := seeded(3)
	minLen, maxLen := g.lengthBounds(2, model.Pos{}, model.Pos{X: 1, Y: 1})
	assert.Equal(t, 2, minLen)
	assert.Equal(t, 2, maxLen)

	minLen, maxLen = g.lengthBounds(3, model.Pos{}, model.Pos{X: 2, Y: 2})
	assert.Equal(t, 8, minLen)
	assert.Equal(t, 8, maxLen)
}

func TestStepBudgetFallsBackToCorridor(t *testing.T) {
	g, hook := seeded(5)
	g.MaxSteps = 1
	grid, err := g.Generate(10)
	require.NoError(t, err)
	checkBoard(t, g, grid)

	warned := false
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestMinePlacementNeverHangs(t *testing.T) {
	g, hook := seeded(9)
	g.Density = 0.9
	g.MaxResamples = 50
	grid, err := g.Generate(10)
	require.NoError(t, err)

	free := 0
	for x := 0; x < grid.Size; x++ {
		for y := 0; y < grid.Size; y++ {
			c := grid.At(model.Pos{X: x, Y: y})
			assert.False(t, c.Mine && (c.Start || c.End || c.OnPath))
			if !c.Start && !c.End && !c.OnPath && !c.Mine {
				free++
			}
		}
	}
	assert.Less(t, grid.Mines(), g.MineCount(10))
	assert.Zero(t, free, "every free cell is mined once the budget is spent")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestGenerateRejectsInvalidDensity(t *testing.T) {
	for _, density := range []float64{-0.1, 0, 1, 1.5} {
		g, _ := seeded(4)
		g.Density = density
		grid, err := g.Generate(10)
		assert.ErrorIs(t, err, ErrInvalidDensity, "density %v", density)
		assert.Nil(t, grid)
	}
}

func TestPlaceMinesIgnoresNonPositiveWant(t *testing.T) {
	g, _ := seeded(5)
	g.Density = -0.1
	assert.Zero(t, g.MineCount(10))

	grid := model.NewGrid(10)
	for _, want := range []int{-10, 0} {
		assert.Zero(t, g.placeMines(grid, model.Pos{}, want))
	}
	assert.Zero(t, grid.Mines())
}

func TestGenerateWithoutLogger(t *testing.T) {
	g := &Generator{Rand: rand.New(rand.NewSource(3)), Density: DefaultDensity, MaxSteps: 1}
	var grid *model.Grid
	require.NotPanics(t, func() {
		var err error
		grid, err = g.Generate(10)
		require.NoError(t, err)
	})
	assert.Equal(t, g.MineCount(10), grid.Mines())
	assert.NotNil(t, g.Log)
}
