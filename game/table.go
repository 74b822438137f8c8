package game

import (
	"errors"
	"fmt"

	"github.com/zucenko/minepath/model"
)

var (
	ErrUnknownTier = errors.New("unknown tier")
	ErrNoGame      = errors.New("no game in progress")
)

// Table is one player's seat: it replaces sessions on difficulty changes,
// applies commands, and schedules the result banner dismissal. Like Session it
// expects a single owner; the dismiss callback runs on a timer goroutine and
// must only hand the round back to that owner, who then calls Dismiss.
type Table struct {
	Id      string
	tiers   []Tier
	source  GridSource
	overlay *Overlay
	dismiss func(round int)

	tier    Tier
	round   int
	session *Session
}

func NewTable(id string, tiers []Tier, source GridSource, overlay *Overlay, dismiss func(round int)) *Table {
	if len(tiers) == 0 {
		tiers = DefaultTiers
	}
	return &Table{
		Id:      id,
		tiers:   tiers,
		source:  source,
		overlay: overlay,
		dismiss: dismiss,
	}
}

func (t *Table) Tiers() []Tier {
	return t.tiers
}

func (t *Table) Tier() Tier {
	return t.tier
}

func (t *Table) Round() int {
	return t.round
}

func (t *Table) Session() *Session {
	return t.session
}

// NewGame discards the current session for a fresh board of the named tier.
// A pending banner dismissal of the old session is cancelled.
func (t *Table) NewGame(tierName string) (model.ServerMessage, error) {
	tier, ok := FindTier(t.tiers, tierName)
	if !ok {
		return model.ServerMessage{}, fmt.Errorf("new game %q: %w", tierName, ErrUnknownTier)
	}
	session, err := NewSessionFrom(t.source, tier.Size)
	if err != nil {
		return model.ServerMessage{}, fmt.Errorf("new game %q: %w", tierName, err)
	}
	t.overlay.Cancel()
	t.round++
	t.tier = tier
	t.session = session
	return model.ServerMessage{
		Setup: []model.Setup{{
			SessionId: t.Id,
			Tier:      tier.Name,
			Size:      session.Size(),
			Round:     t.round,
		}},
		Snapshots: []model.Snapshot{session.Snapshot()},
	}, nil
}

func (t *Table) Handle(cm model.ClientMessage) (model.ServerMessage, error) {
	if cm.NewGame != "" {
		return t.NewGame(cm.NewGame)
	}
	if t.session == nil {
		return model.ServerMessage{}, ErrNoGame
	}
	before := t.session.State()
	snap := t.session.Move(cm.Move, cm.Flag)
	if !before.Terminal() && snap.State.Terminal() {
		round := t.round
		t.overlay.Schedule(func() { t.dismiss(round) })
	}
	return model.ServerMessage{Snapshots: []model.Snapshot{snap}}, nil
}

// Dismiss turns a fired banner timer into a message. Rounds already replaced
// by a new game are dropped.
func (t *Table) Dismiss(round int) (model.ServerMessage, bool) {
	if t.session == nil || round != t.round || !t.session.State().Terminal() {
		return model.ServerMessage{}, false
	}
	return model.ServerMessage{Dismiss: []model.Dismiss{{Round: round}}}, true
}

func (t *Table) Close() {
	t.overlay.Cancel()
}
