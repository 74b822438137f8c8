package model

import (
	"strconv"
	"strings"
)

type Glyph int

const (
	GlyphHidden Glyph = iota
	GlyphBlank
	GlyphFlag
	GlyphMine
	GlyphStart
	GlyphEnd
	GlyphNumber
)

// Glyph decides what a cell shows. A flag wins over everything, and an
// unrevealed cell never leaks its contents.
func (c Cell) Glyph() Glyph {
	switch {
	case c.Flagged:
		return GlyphFlag
	case !c.Revealed:
		return GlyphHidden
	case c.Mine:
		return GlyphMine
	case c.Start:
		return GlyphStart
	case c.End:
		return GlyphEnd
	case c.Count > 0:
		return GlyphNumber
	default:
		return GlyphBlank
	}
}

// Symbol is the single character text form of Glyph.
func (c Cell) Symbol() string {
	switch c.Glyph() {
	case GlyphFlag:
		return "F"
	case GlyphHidden:
		return "-"
	case GlyphMine:
		return "*"
	case GlyphStart:
		return "S"
	case GlyphEnd:
		return "E"
	case GlyphNumber:
		return strconv.Itoa(c.Count)
	default:
		return "."
	}
}

// Render draws the player's view of the grid, one row per line, with the
// player marked as '@'.
func (g *Grid) Render(player *Pos) string {
	var sb strings.Builder
	for x := 0; x < g.Size; x++ {
		for y := 0; y < g.Size; y++ {
			if y > 0 {
				sb.WriteByte(' ')
			}
			if player != nil && player.X == x && player.Y == y {
				sb.WriteByte('@')
				continue
			}
			sb.WriteString(g.Matrix[x][y].Symbol())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
