package generator

import "github.com/zucenko/minepath/model"

type frame struct {
	pos   model.Pos
	moves []model.Pos
}

// findPath is a randomized depth first walk from start to end. A step is
// only taken when the walked length plus the Manhattan distance left still
// fits in maxLen, and the walk succeeds on reaching end with at least minLen
// steps. Dead ends backtrack to the parent frame's next shuffled move. When
// the step budget runs out the current partial path is returned with false.
func (g *Generator) findPath(size int, start, end model.Pos, minLen, maxLen int) ([]model.Pos, bool) {
	visited := make([][]bool, size)
	for x := range visited {
		visited[x] = make([]bool, size)
	}
	in := func(p model.Pos) bool {
		return p.X >= 0 && p.Y >= 0 && p.X < size && p.Y < size
	}

	stack := []*frame{{pos: start, moves: g.shuffledMoves(start)}}
	visited[start.X][start.Y] = true
	maxSteps := g.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	for steps := 0; len(stack) > 0; steps++ {
		if steps >= maxSteps {
			g.Log.Warnf("generator: path search stopped after %d steps", steps)
			return pathOf(stack), false
		}
		top := stack[len(stack)-1]
		length := len(stack) - 1

		if top.pos == end {
			if length >= minLen {
				return pathOf(stack), true
			}
			top.moves = nil
		}
		if len(top.moves) == 0 {
			if len(stack) == 1 {
				break
			}
			visited[top.pos.X][top.pos.Y] = false
			stack = stack[:len(stack)-1]
			continue
		}

		next := top.moves[0]
		top.moves = top.moves[1:]
		if !in(next) || visited[next.X][next.Y] {
			continue
		}
		if length+1+manhattan(next, end) > maxLen {
			continue
		}
		visited[next.X][next.Y] = true
		stack = append(stack, &frame{pos: next, moves: g.shuffledMoves(next)})
	}
	return pathOf(stack), false
}

func (g *Generator) shuffledMoves(p model.Pos) []model.Pos {
	moves := make([]model.Pos, 0, len(model.Directions))
	for _, d := range model.Directions {
		dx, dy := d.Delta()
		moves = append(moves, p.Add(dx, dy))
	}
	g.Rand.Shuffle(len(moves), func(i, j int) {
		moves[i], moves[j] = moves[j], moves[i]
	})
	return moves
}

func pathOf(stack []*frame) []model.Pos {
	path := make([]model.Pos, 0, len(stack))
	for _, f := range stack {
		path = append(path, f.pos)
	}
	return path
}

// withCorridor extends a partial path from its tip to end, first along rows
// then along columns, so a fallback board still has a mine free route.
func withCorridor(path []model.Pos, end model.Pos) []model.Pos {
	if len(path) == 0 {
		return path
	}
	p := path[len(path)-1]
	for p.X != end.X {
		if p.X < end.X {
			p.X++
		} else {
			p.X--
		}
		path = append(path, p)
	}
	for p.Y != end.Y {
		if p.Y < end.Y {
			p.Y++
		} else {
			p.Y--
		}
		path = append(path, p)
	}
	return path
}
