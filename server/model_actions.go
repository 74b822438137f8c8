package server

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	"github.com/sirupsen/logrus"
	"github.com/zucenko/minepath/game"
	"github.com/zucenko/minepath/generator"
	"github.com/zucenko/minepath/model"
)

func NewGameServer(cfg Config, tiers []game.Tier, source game.GridSource, log logrus.FieldLogger) *GameServer {
	if len(tiers) == 0 {
		tiers = game.DefaultTiers
	}
	if cfg.HandoffTimeout <= 0 {
		cfg.HandoffTimeout = 200 * time.Millisecond
	}
	return &GameServer{
		Config:       cfg,
		Tiers:        tiers,
		Source:       &lockedSource{src: source},
		GameSessions: make(map[string]*GameSession),
		GameRequests: make(chan GameRequest),
		Finished:     make(chan string),
		Upgrader:     &websocket.Upgrader{},
		Log:          log,
	}
}

// HandleTiers lists the configured difficulty tiers.
func (s *GameServer) HandleTiers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s.Tiers); err != nil {
			s.Log.Warnf("HandleTiers encode %v", err)
		}
	}
}

func (s *GameServer) HandleHttpCall() http.HandlerFunc {
	timeout := s.Config.HandoffTimeout
	return func(w http.ResponseWriter, r *http.Request) {
		tier := way.Param(r.Context(), "tier")
		if tier == "" {
			tier = s.Config.DefaultTier
		}
		log := s.Log.WithField("tier", tier)
		log.Info("HandleHttpCall - connection received")

		gcas := make(chan GameContextAwaiting, 1)
		select {
		case s.GameRequests <- GameRequest{Tier: tier, GameContextAwaiting: gcas}:
		case <-time.After(timeout):
			log.Warn("GameRequests TIMEOUTED")
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}

		var gca GameContextAwaiting
		select {
		case gca = <-gcas:
			switch gca.ResponseCode {
			case GAME_READY:
			case GAME_NOT_FOUND, GAME_INVALIDE, GAME_UNAVAILABLE:
				w.WriteHeader(gca.ResponseCode.ToHttp())
				return
			default:
				log.Errorf("gca.ResponseCode not expected:%v", gca.ResponseCode)
				w.WriteHeader(HTTP_SERVER_ERR)
				return
			}
		case <-time.After(timeout):
			log.Warn("HandleHttpCall GameContextAwaiting <- TIMEOUTED")
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}
		gs := gca.GameSession

		// Upgrade replies to the client itself on failure.
		con, err := s.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warnf("HandleHttpCall websocket upgrade err %v", err)
			gs.fail()
			return
		}
		defer con.Close()

		gameOver := make(chan struct{})
		select {
		case gs.PlayerConnectRequests <- PlayerConnectRequest{Con: con, GameOver: gameOver}:
		case <-time.After(timeout):
			log.Warn("HandleHttpCall PlayerConnectRequests TIMEOUTED")
			gs.fail()
			return
		}

		<-gameOver
		log.WithField("session", gs.Id).Info("HandleHttpCall game over")
	}
}

// Loop owns the session registry until ctx is done.
func (s *GameServer) Loop(ctx context.Context) error {
	s.Log.Info("GameServer.Loop starting")
	for {
		select {
		case <-ctx.Done():
			s.Log.Infof("GameServer.Loop stopping with %d sessions", len(s.GameSessions))
			return ctx.Err()
		case gameReq := <-s.GameRequests:
			gs, code := s.newGameSession(ctx, gameReq.Tier)
			gameReq.GameContextAwaiting <- GameContextAwaiting{
				ResponseCode: code,
				GameSession:  gs,
			}
		case id := <-s.Finished:
			delete(s.GameSessions, id)
			s.Log.Infof("GameServer.Loop session %s finished, %d left", id, len(s.GameSessions))
		}
	}
}

func (s *GameServer) newGameSession(ctx context.Context, tier string) (*GameSession, ResponseCode) {
	id := uuid.NewString()
	gs := &GameSession{
		Id:                    id,
		State:                 GS_NEW,
		Errors:                make(chan struct{}, 1),
		Events:                make(chan model.ClientMessage, 10),
		Dismissals:            make(chan int, 1),
		PlayerConnectRequests: make(chan PlayerConnectRequest),
		Done:                  make(chan struct{}),
		Log:                   s.Log.WithField("session", id),
	}
	gs.Table = game.NewTable(id, s.Tiers, s.Source, game.NewOverlay(s.Config.BannerDelay), gs.dismiss)

	setup, err := gs.Table.NewGame(tier)
	if err != nil {
		gs.Log.Warnf("create GameSession: %v", err)
		switch {
		case errors.Is(err, game.ErrUnknownTier):
			return nil, GAME_NOT_FOUND
		case errors.Is(err, generator.ErrInvalidSize):
			return nil, GAME_INVALIDE
		default:
			return nil, GAME_UNAVAILABLE
		}
	}
	gs.Log.Infof("create GameSession tier %s size %d", gs.Table.Tier().Name, gs.Table.Tier().Size)
	s.GameSessions[id] = gs
	go gs.Loop(ctx, setup, s.Finished)
	return gs, GAME_READY
}

// Loop serialises every command of the session. It ends when the player's
// connection fails or ctx is done.
func (gs *GameSession) Loop(ctx context.Context, setup model.ServerMessage, finished chan<- string) {
	gs.Log.Info("GameSession.Loop start")
	defer func() {
		gs.Table.Close()
		close(gs.Done)
		if gs.Player.GameOver != nil {
			close(gs.Player.GameOver)
		}
		gs.Log.Infof("GameSession.Loop end %s player %s", gs.State.Name(), gs.Player.State.Name())
		select {
		case finished <- gs.Id:
		case <-ctx.Done():
		}
	}()

	for {
		select {
		case <-ctx.Done():
			gs.State = GS_OVER
			gs.Player.State = PS_OVER
			return
		case pcr := <-gs.PlayerConnectRequests:
			gs.addPlayer(pcr.Con, pcr.GameOver)
			gs.State = GS_PLAY
			gs.Player.State = PS_PLAY
			gs.send(setup)
		case <-gs.Errors:
			gs.Log.Warn("killing GS")
			gs.State = GS_ERR
			gs.Player.State = PS_ERR
			return
		case cm := <-gs.Events:
			mes, err := gs.Table.Handle(cm)
			if err != nil {
				gs.Log.Warnf("GameSession.Loop rejected command: %v", err)
				continue
			}
			gs.send(mes)
		case round := <-gs.Dismissals:
			if mes, ok := gs.Table.Dismiss(round); ok {
				gs.send(mes)
			}
		}
	}
}

func (gs *GameSession) send(mes model.ServerMessage) {
	select {
	case gs.Player.MessagesToSend <- mes:
	default:
		gs.Log.Warn("GameSession.send MessagesToSend FULL, dropping")
	}
}

// dismiss runs on the banner timer goroutine.
func (gs *GameSession) dismiss(round int) {
	select {
	case gs.Dismissals <- round:
	case <-gs.Done:
	}
}

func (gs *GameSession) fail() {
	select {
	case gs.Errors <- struct{}{}:
	default:
	}
}

func (gs *GameSession) addPlayer(conn *websocket.Conn, gameOver chan struct{}) {
	gs.Log.Info("GameSession.addPlayer")
	gs.Player = PlayerSession{
		State:          PS_NEW,
		GameSession:    gs,
		Conn:           conn,
		GameOver:       gameOver,
		MessagesToSend: make(chan model.ServerMessage, 10),
	}
	ps := &gs.Player
	conn.SetPingHandler(
		func(message string) error {
			err := conn.WriteControl(websocket.PongMessage, []byte(message), time.Now().Add(time.Second))
			ps.DebugLastPing = time.Now()
			ps.DebugPings++
			var netErr net.Error
			if err == websocket.ErrCloseSent {
				return nil
			} else if errors.As(err, &netErr) && netErr.Timeout() {
				return nil
			}
			return err
		})
	go ps.LoopChannelRead()
	go ps.LoopChannelWrite()
}

func (ps *PlayerSession) LoopChannelRead() {
	gs := ps.GameSession
	gs.Log.Debug("LoopChannelRead STARTED")
	// the ping handler runs inside NextReader, so every read counter is ours
	defer func() {
		gs.Log.Infof("LoopChannelRead end in %d last %v pings %d last %v",
			ps.DebugInMessages, ps.DebugLastMessage.Format(time.RFC3339), ps.DebugPings, ps.DebugLastPing.Format(time.RFC3339))
	}()
	for {
		_, r, err := ps.Conn.NextReader()
		if err != nil {
			gs.Log.Infof("LoopChannelRead err reading message from Conn %v", err)
			gs.fail()
			return
		}
		cm := model.ClientMessage{}
		if err := gob.NewDecoder(r).Decode(&cm); err != nil {
			gs.Log.Warnf("LoopChannelRead cant decode %v", err)
			gs.fail()
			return
		}
		ps.DebugLastMessage = time.Now()
		ps.DebugInMessages++

		select {
		case gs.Events <- cm:
		case <-gs.Done:
			return
		default:
			gs.Log.Warn("Dropping command read from socket, GameSession.Events FULL")
		}
	}
}

// LoopChannelWrite only consumes, so a full buffer never blocks the session.
func (ps *PlayerSession) LoopChannelWrite() {
	gs := ps.GameSession
	gs.Log.Debug("LoopChannelWrite STARTED")
	defer func() {
		gs.Log.Infof("LoopChannelWrite end out %d", ps.DebugOutMessages)
	}()
	for {
		select {
		case <-gs.Done:
			return
		case mes := <-ps.MessagesToSend:
			w, err := ps.Conn.NextWriter(websocket.BinaryMessage)
			if err != nil {
				gs.Log.Warnf("LoopChannelWrite cant get writer %v", err)
				gs.fail()
				return
			}
			if err := gob.NewEncoder(w).Encode(mes); err != nil {
				gs.Log.Warnf("LoopChannelWrite cant encode %v", err)
				gs.fail()
				return
			}
			if err := w.Close(); err != nil {
				gs.Log.Warnf("LoopChannelWrite cant flush %v", err)
				gs.fail()
				return
			}
			ps.DebugOutMessages++
		}
	}
}
