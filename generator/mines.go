package generator

import "github.com/zucenko/minepath/model"

// placeMines puts up to want mines on cells that are not start, end, on the
// path, or touching start. Uniform sampling is retried until the resample
// budget is spent; after that the remaining mines are drawn from the cells
// still free with the start-adjacency rule relaxed. It returns the number
// placed, which is below want only when too few free cells exist.
func (g *Generator) placeMines(grid *model.Grid, start model.Pos, want int) int {
	eligible := func(p model.Pos, relaxed bool) bool {
		c := grid.At(p)
		if c.Start || c.End || c.OnPath || c.Mine {
			return false
		}
		return relaxed || chebyshev(p, start) > 1
	}

	budget := g.MaxResamples
	if budget <= 0 {
		budget = resamplesPerCell * grid.Size * grid.Size
	}

	if want <= 0 {
		return 0
	}
	placed, rejected := 0, 0
	for placed < want && rejected < budget {
		p := model.Pos{X: g.Rand.Intn(grid.Size), Y: g.Rand.Intn(grid.Size)}
		if !eligible(p, false) {
			rejected++
			continue
		}
		grid.At(p).Mine = true
		placed++
	}
	if placed == want {
		return placed
	}

	g.Log.Warnf("generator: mine sampling rejected %d times, relaxing start exclusion", rejected)
	var strict, near []model.Pos
	for x := 0; x < grid.Size; x++ {
		for y := 0; y < grid.Size; y++ {
			p := model.Pos{X: x, Y: y}
			switch {
			case eligible(p, false):
				strict = append(strict, p)
			case eligible(p, true):
				near = append(near, p)
			}
		}
	}
	shuffle := func(ps []model.Pos) {
		g.Rand.Shuffle(len(ps), func(i, j int) {
			ps[i], ps[j] = ps[j], ps[i]
		})
	}
	shuffle(strict)
	shuffle(near)
	// cells touching start are only used once the others run out
	for _, p := range append(strict, near...) {
		if placed == want {
			break
		}
		grid.At(p).Mine = true
		placed++
	}
	return placed
}
