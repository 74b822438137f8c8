package model

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Layout characters, one per cell, one row per line.
const (
	LayoutEmpty = '.'
	LayoutPath  = '#'
	LayoutMine  = '*'
	LayoutStart = 'S'
	LayoutEnd   = 'E'
)

// ParseGrid reads a square board layout. Counts are recomputed and the start
// foothold is revealed, so a parsed board is ready to play.
func ParseGrid(reader io.Reader) (*Grid, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Split(bufio.ScanLines)
	rows := make([][]Cell, 0)
	starts, ends := 0, 0
	line := 0

	for scanner.Scan() {
		line++
		s := strings.TrimSpace(scanner.Text())
		if s == "" || strings.HasPrefix(s, "//") {
			continue
		}
		row := make([]Cell, 0, len(s))
		col := 0
		for _, char := range s {
			col++
			cell := Cell{}
			switch char {
			case LayoutEmpty:
			case LayoutPath:
				cell.OnPath = true
			case LayoutMine:
				cell.Mine = true
			case LayoutStart:
				cell.Start = true
				starts++
			case LayoutEnd:
				cell.End = true
				ends++
			default:
				return nil, fmt.Errorf("layout line %d col %d: unexpected %q", line, col, char)
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}

	size := len(rows)
	if size < 2 {
		return nil, fmt.Errorf("layout has %d rows, need at least 2", size)
	}
	for x, row := range rows {
		if len(row) != size {
			return nil, fmt.Errorf("layout row %d has %d cells, want %d", x+1, len(row), size)
		}
	}
	if starts != 1 || ends != 1 {
		return nil, fmt.Errorf("layout needs exactly one %c and one %c, got %d and %d",
			LayoutStart, LayoutEnd, starts, ends)
	}

	g := &Grid{Size: size, Matrix: rows}
	g.Renumber()
	g.RevealFoothold()
	return g, nil
}

// Layout writes the board back in the ParseGrid format. Visibility and flags
// are not part of the layout.
func (g *Grid) Layout() string {
	var sb strings.Builder
	for x := 0; x < g.Size; x++ {
		for y := 0; y < g.Size; y++ {
			c := g.Matrix[x][y]
			switch {
			case c.Start:
				sb.WriteRune(LayoutStart)
			case c.End:
				sb.WriteRune(LayoutEnd)
			case c.Mine:
				sb.WriteRune(LayoutMine)
			case c.OnPath:
				sb.WriteRune(LayoutPath)
			default:
				sb.WriteRune(LayoutEmpty)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
