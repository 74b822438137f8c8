package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/minepath/game"
	"github.com/zucenko/minepath/model"
)

// Backend carries commands to a game and brings its messages back to the
// ebiten update loop. Poll never blocks.
type Backend interface {
	Send(cm model.ClientMessage)
	Poll() []model.ServerMessage
	Close() error
}

// localBackend plays in process. Everything but the banner timer runs on the
// update goroutine.
type localBackend struct {
	table      *game.Table
	dismissals chan int
	pending    []model.ServerMessage
}

func newLocalBackend(tiers []game.Tier, source game.GridSource, overlay *game.Overlay) *localBackend {
	l := &localBackend{dismissals: make(chan int, 4)}
	l.table = game.NewTable("local", tiers, source, overlay, func(round int) {
		select {
		case l.dismissals <- round:
		default:
		}
	})
	return l
}

func (l *localBackend) Send(cm model.ClientMessage) {
	mes, err := l.table.Handle(cm)
	if err != nil {
		log.Warnf("local command rejected: %v", err)
		return
	}
	l.pending = append(l.pending, mes)
}

func (l *localBackend) Poll() []model.ServerMessage {
loop:
	for {
		select {
		case round := <-l.dismissals:
			if mes, ok := l.table.Dismiss(round); ok {
				l.pending = append(l.pending, mes)
			}
		default:
			break loop
		}
	}
	out := l.pending
	l.pending = nil
	return out
}

func (l *localBackend) Close() error {
	l.table.Close()
	return nil
}
