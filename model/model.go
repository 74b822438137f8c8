package model

import "fmt"

// Pos addresses a cell. X is the row, Y the column.
type Pos struct {
	X, Y int
}

func (p Pos) Add(dx, dy int) Pos {
	return Pos{X: p.X + dx, Y: p.Y + dy}
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction indexes the four axis moves, clockwise from Right.
type Direction int

const (
	Right Direction = iota
	Down
	Left
	Up
)

var Directions = [4]Direction{Right, Down, Left, Up}

// Delta returns the (dx, dy) step of the direction.
func (d Direction) Delta() (int, int) {
	switch d {
	case Right:
		return 0, 1
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	case Up:
		return -1, 0
	default:
		return 0, 0
	}
}

func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

func (d Direction) Valid() bool {
	return d >= Right && d <= Up
}

func (d Direction) Name() string {
	switch d {
	case Right:
		return "RIGHT"
	case Down:
		return "DOWN"
	case Left:
		return "LEFT"
	case Up:
		return "UP"
	default:
		return fmt.Sprintf("n/a:%d", d)
	}
}

// DirectionOf maps a unit axis step back to its Direction.
func DirectionOf(dx, dy int) (Direction, bool) {
	for _, d := range Directions {
		ddx, ddy := d.Delta()
		if ddx == dx && ddy == dy {
			return d, true
		}
	}
	return 0, false
}

type Cell struct {
	Mine     bool
	Count    int // mines among the 8 neighbours, ignored on mines
	Revealed bool
	Flagged  bool
	Start    bool
	End      bool
	OnPath   bool
}

// Grid is a square board, Matrix[x][y].
type Grid struct {
	Size   int
	Matrix [][]Cell
}

func (g *Grid) In(p Pos) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.Size && p.Y < g.Size
}

// At returns the cell at p or nil when p is outside the grid.
func (g *Grid) At(p Pos) *Cell {
	if !g.In(p) {
		return nil
	}
	return &g.Matrix[p.X][p.Y]
}

// Neighbours returns the up to 8 in-bounds cells around p.
func (g *Grid) Neighbours(p Pos) []Pos {
	ns := make([]Pos, 0, 8)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := p.Add(dx, dy)
			if g.In(n) {
				ns = append(ns, n)
			}
		}
	}
	return ns
}

func (g *Grid) find(match func(c *Cell) bool) (Pos, bool) {
	for x := range g.Matrix {
		for y := range g.Matrix[x] {
			if match(&g.Matrix[x][y]) {
				return Pos{X: x, Y: y}, true
			}
		}
	}
	return Pos{}, false
}

func (g *Grid) Start() (Pos, bool) {
	return g.find(func(c *Cell) bool { return c.Start })
}

func (g *Grid) End() (Pos, bool) {
	return g.find(func(c *Cell) bool { return c.End })
}

func (g *Grid) Mines() int {
	n := 0
	for x := range g.Matrix {
		for y := range g.Matrix[x] {
			if g.Matrix[x][y].Mine {
				n++
			}
		}
	}
	return n
}

type State int

const (
	Active State = iota
	Won
	Lost
)

func (s State) Name() string {
	switch s {
	case Active:
		return "ACTIVE"
	case Won:
		return "WON"
	case Lost:
		return "LOST"
	default:
		return fmt.Sprintf("n/a:%d", s)
	}
}

func (s State) Terminal() bool {
	return s == Won || s == Lost
}

// Snapshot is everything a renderer needs after a command.
type Snapshot struct {
	Grid   *Grid
	Player Pos
	State  State
}
