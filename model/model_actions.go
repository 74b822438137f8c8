package model

func NewGrid(size int) *Grid {
	matrix := make([][]Cell, 0, size)
	for x := 0; x < size; x++ {
		matrix = append(matrix, make([]Cell, size))
	}
	return &Grid{Size: size, Matrix: matrix}
}

// Renumber recomputes Count on every non-mine cell.
func (g *Grid) Renumber() {
	for x := range g.Matrix {
		for y := range g.Matrix[x] {
			cell := &g.Matrix[x][y]
			cell.Count = 0
			if cell.Mine {
				continue
			}
			for _, n := range g.Neighbours(Pos{X: x, Y: y}) {
				if g.At(n).Mine {
					cell.Count++
				}
			}
		}
	}
}

// RevealFoothold reveals start, end and the three cells diagonal-forward of start.
func (g *Grid) RevealFoothold() {
	if start, ok := g.Start(); ok {
		for _, p := range []Pos{start, start.Add(1, 0), start.Add(0, 1), start.Add(1, 1)} {
			if c := g.At(p); c != nil {
				c.Revealed = true
			}
		}
	}
	if end, ok := g.End(); ok {
		g.At(end).Revealed = true
	}
}

func (g *Grid) RevealAll() {
	for x := range g.Matrix {
		for y := range g.Matrix[x] {
			g.Matrix[x][y].Revealed = true
		}
	}
}

// Clone returns a deep copy sharing nothing with g.
func (g *Grid) Clone() *Grid {
	c := &Grid{Size: g.Size, Matrix: make([][]Cell, len(g.Matrix))}
	for x := range g.Matrix {
		c.Matrix[x] = append([]Cell(nil), g.Matrix[x]...)
	}
	return c
}
