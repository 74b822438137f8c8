package server

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/zucenko/minepath/game"
	"github.com/zucenko/minepath/model"
)

type GameServer struct {
	Config       Config
	Tiers        []game.Tier
	Source       game.GridSource
	GameSessions map[string]*GameSession
	GameRequests chan GameRequest
	Finished     chan string
	Upgrader     *websocket.Upgrader
	Log          logrus.FieldLogger
}

type GameSessionState int

const (
	GS_NEW GameSessionState = iota
	GS_PLAY
	GS_ERR
	GS_OVER
)

// GameSession serves one connected player. Its Loop goroutine is the only
// one touching Table, so the game itself stays single threaded.
type GameSession struct {
	Id                    string
	State                 GameSessionState
	Table                 *game.Table
	Player                PlayerSession
	Errors                chan struct{}
	Events                chan model.ClientMessage
	Dismissals            chan int
	PlayerConnectRequests chan PlayerConnectRequest
	Done                  chan struct{}
	Log                   logrus.FieldLogger
}

type PlayerSessionState int

const (
	PS_NEW PlayerSessionState = iota + 1
	PS_PLAY
	PS_OVER
	PS_ERR
)

type PlayerSession struct {
	State       PlayerSessionState
	GameSession *GameSession
	Conn        *websocket.Conn
	GameOver    chan struct{}

	MessagesToSend chan model.ServerMessage

	DebugInMessages  int
	DebugOutMessages int
	DebugLastMessage time.Time
	DebugLastPing    time.Time
	DebugPings       int
}
