package main

import (
	"encoding/gob"
	"strings"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/minepath/model"
)

// remoteBackend plays against a game server over a websocket, one gob
// encoded message per frame.
type remoteBackend struct {
	conn     *websocket.Conn
	incoming chan model.ServerMessage
	outgoing chan model.ClientMessage
	done     chan struct{}
}

func dialRemote(server, tier string) (*remoteBackend, error) {
	url := strings.TrimRight(server, "/") + "/play/" + tier
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	log.Infof("connected to %s", url)
	r := &remoteBackend{
		conn:     conn,
		incoming: make(chan model.ServerMessage, 10),
		outgoing: make(chan model.ClientMessage, 10),
		done:     make(chan struct{}),
	}
	go r.loopRead()
	go r.loopWrite()
	return r, nil
}

func (r *remoteBackend) loopRead() {
	for {
		_, rd, err := r.conn.NextReader()
		if err != nil {
			log.Warnf("remote read %v", err)
			return
		}
		mes := model.ServerMessage{}
		if err := gob.NewDecoder(rd).Decode(&mes); err != nil {
			log.Warnf("remote decode %v", err)
			return
		}
		select {
		case r.incoming <- mes:
		case <-r.done:
			return
		}
	}
}

func (r *remoteBackend) loopWrite() {
	for {
		select {
		case <-r.done:
			return
		case cm := <-r.outgoing:
			w, err := r.conn.NextWriter(websocket.BinaryMessage)
			if err != nil {
				log.Warnf("remote writer %v", err)
				return
			}
			if err := gob.NewEncoder(w).Encode(cm); err != nil {
				log.Warnf("remote encode %v", err)
				return
			}
			if err := w.Close(); err != nil {
				log.Warnf("remote flush %v", err)
				return
			}
		}
	}
}

func (r *remoteBackend) Send(cm model.ClientMessage) {
	select {
	case r.outgoing <- cm:
	default:
		log.Warn("remote outgoing FULL, dropping command")
	}
}

func (r *remoteBackend) Poll() []model.ServerMessage {
	var out []model.ServerMessage
	for {
		select {
		case mes := <-r.incoming:
			out = append(out, mes)
		default:
			return out
		}
	}
}

func (r *remoteBackend) Close() error {
	close(r.done)
	return r.conn.Close()
}
