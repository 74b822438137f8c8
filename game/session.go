// Package game runs the exploration game on a generated board: a player token
// moves across the grid, flags guard cells, a mine loses and the end wins.
package game

import (
	"github.com/zucenko/minepath/generator"
	"github.com/zucenko/minepath/model"
)

// GridSource produces boards for new sessions.
type GridSource interface {
	Generate(size int) (*model.Grid, error)
}

// Session owns one grid exclusively. It is not safe for concurrent use; the
// owner serialises commands.
type Session struct {
	grid   *model.Grid
	player model.Pos
	state  model.State
}

// NewSession builds a session on a freshly generated board.
func NewSession(size int) (*Session, error) {
	grid, err := generator.Generate(size)
	if err != nil {
		return nil, err
	}
	return NewSessionFromGrid(grid), nil
}

// NewSessionFrom builds a session on a board from src.
func NewSessionFrom(src GridSource, size int) (*Session, error) {
	grid, err := src.Generate(size)
	if err != nil {
		return nil, err
	}
	return NewSessionFromGrid(grid), nil
}

// NewSessionFromGrid takes ownership of grid. The player starts on the start
// cell.
func NewSessionFromGrid(grid *model.Grid) *Session {
	start, _ := grid.Start()
	s := &Session{grid: grid, player: start, state: model.Active}
	grid.At(start).Revealed = true
	return s
}

func (s *Session) State() model.State {
	return s.state
}

func (s *Session) Player() model.Pos {
	return s.player
}

func (s *Session) Size() int {
	return s.grid.Size
}

// Snapshot copies the current state; the copy shares nothing with the session.
func (s *Session) Snapshot() model.Snapshot {
	return model.Snapshot{
		Grid:   s.grid.Clone(),
		Player: s.player,
		State:  s.state,
	}
}

// Move steps the player one cell in d, or toggles the flag on that cell when
// flag is set. Moves outside the grid, onto a flagged cell, or after the game
// ended change nothing.
func (s *Session) Move(d model.Direction, flag bool) model.Snapshot {
	if d.Valid() {
		dx, dy := d.Delta()
		s.step(dx, dy, flag)
	}
	return s.Snapshot()
}

// MoveBy is Move addressed by a unit axis step.
func (s *Session) MoveBy(dx, dy int, flag bool) model.Snapshot {
	if d, ok := model.DirectionOf(dx, dy); ok {
		return s.Move(d, flag)
	}
	return s.Snapshot()
}

func (s *Session) step(dx, dy int, flag bool) {
	if s.state != model.Active {
		return
	}
	target := s.player.Add(dx, dy)
	cell := s.grid.At(target)
	if cell == nil {
		return
	}
	if flag {
		cell.Flagged = !cell.Flagged
		return
	}
	if cell.Flagged {
		return
	}

	s.player = target
	cell.Revealed = true
	switch {
	case cell.Mine:
		s.state = model.Lost
		s.grid.RevealAll()
	case cell.End:
		s.state = model.Won
		s.grid.RevealAll()
	}
}

// Reveal uncovers p without moving the player. It never ends the game, only
// stepping onto a mine does. Reports whether anything changed.
func (s *Session) Reveal(p model.Pos) bool {
	cell := s.grid.At(p)
	if s.state != model.Active || cell == nil || cell.Revealed {
		return false
	}
	cell.Revealed = true
	return true
}

// ToggleFlag flips the flag on p. The player's own cell cannot be flagged.
func (s *Session) ToggleFlag(p model.Pos) bool {
	cell := s.grid.At(p)
	if s.state != model.Active || cell == nil || p == s.player {
		return false
	}
	cell.Flagged = !cell.Flagged
	return true
}
