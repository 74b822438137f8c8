package server

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zucenko/minepath/game"
	"github.com/zucenko/minepath/model"
)

const loseLayout = `
S..
...
.*E
`

func newTestServer(t *testing.T, cfg Config) (*GameServer, *httptest.Server, *test.Hook) {
	t.Helper()
	grid, err := model.ParseGrid(strings.NewReader(loseLayout))
	require.NoError(t, err)
	logger, hook := test.NewNullLogger()

	gs := NewGameServer(cfg, nil, &FixedBoard{Grid: grid}, logger)
	ctx, cancel := context.WithCancel(context.Background())
	go gs.Loop(ctx)

	srv := httptest.NewServer(gs.HandleHttpCall())
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return gs, srv, hook
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, cm model.ClientMessage) {
	t.Helper()
	w, err := conn.NextWriter(websocket.BinaryMessage)
	require.NoError(t, err)
	require.NoError(t, gob.NewEncoder(w).Encode(cm))
	require.NoError(t, w.Close())
}

func receive(t *testing.T, conn *websocket.Conn) model.ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, r, err := conn.NextReader()
	require.NoError(t, err)
	var mes model.ServerMessage
	require.NoError(t, gob.NewDecoder(r).Decode(&mes))
	return mes
}

func TestPlayOverWebsocket(t *testing.T) {
	_, srv, _ := newTestServer(t, Config{
		DefaultTier:    "easy",
		BannerDelay:    30 * time.Millisecond,
		HandoffTimeout: time.Second,
	})
	conn := dial(t, srv)

	setup := receive(t, conn)
	require.Len(t, setup.Setup, 1)
	assert.Equal(t, "easy", setup.Setup[0].Tier)
	assert.Equal(t, 3, setup.Setup[0].Size)
	assert.NotEmpty(t, setup.Setup[0].SessionId)
	require.Len(t, setup.Snapshots, 1)
	assert.Equal(t, model.Active, setup.Snapshots[0].State)

	var last model.ServerMessage
	for _, d := range []model.Direction{model.Right, model.Down, model.Down} {
		send(t, conn, model.ClientMessage{Move: d})
		last = receive(t, conn)
	}
	require.Len(t, last.Snapshots, 1)
	assert.Equal(t, model.Lost, last.Snapshots[0].State)
	assert.Equal(t, model.Pos{X: 2, Y: 1}, last.Snapshots[0].Player)

	dismiss := receive(t, conn)
	assert.Equal(t, []model.Dismiss{{Round: 1}}, dismiss.Dismiss)

	send(t, conn, model.ClientMessage{NewGame: "hard"})
	fresh := receive(t, conn)
	require.Len(t, fresh.Setup, 1)
	assert.Equal(t, "hard", fresh.Setup[0].Tier)
	assert.Equal(t, 2, fresh.Setup[0].Round)
	assert.Equal(t, model.Active, fresh.Snapshots[0].State)
	assert.Equal(t, model.Pos{}, fresh.Snapshots[0].Player)
}

func TestUnknownTierIsNotFound(t *testing.T) {
	_, srv, _ := newTestServer(t, Config{DefaultTier: "nightmare", HandoffTimeout: time.Second})
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessionRemovedAfterDisconnect(t *testing.T) {
	_, srv, hook := newTestServer(t, Config{DefaultTier: "easy", HandoffTimeout: time.Second})
	conn := dial(t, srv)
	receive(t, conn)
	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool {
		for _, e := range hook.AllEntries() {
			if strings.Contains(e.Message, "finished, 0 left") {
				return true
			}
		}
		return false
	}, 2*time.Second, 20*time.Millisecond)
}

func TestPlayerCountersLoggedOnDisconnect(t *testing.T) {
	_, srv, hook := newTestServer(t, Config{DefaultTier: "easy", HandoffTimeout: time.Second})
	conn := dial(t, srv)
	receive(t, conn)
	send(t, conn, model.ClientMessage{Move: model.Right})
	receive(t, conn)
	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool {
		for _, e := range hook.AllEntries() {
			if strings.HasPrefix(e.Message, "LoopChannelRead end in 1 ") {
				return true
			}
		}
		return false
	}, 2*time.Second, 20*time.Millisecond)
}

func TestHandleTiers(t *testing.T) {
	logger, _ := test.NewNullLogger()
	gs := NewGameServer(Config{}, nil, nil, logger)
	rec := httptest.NewRecorder()
	gs.HandleTiers()(rec, httptest.NewRequest(http.MethodGet, "/tiers", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var tiers []game.Tier
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&tiers))
	assert.Equal(t, game.DefaultTiers, tiers)
}

func TestParseConfig(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MINEPATH_DENSITY", "0.2")

	cfg, err := ParseConfig(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-tier", "hard", "-banner-delay", "1s"})
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 0.2, cfg.Density)
	assert.Equal(t, "hard", cfg.DefaultTier)
	assert.Equal(t, time.Second, cfg.BannerDelay)
	assert.Equal(t, 200*time.Millisecond, cfg.HandoffTimeout)

	for _, density := range []string{"1.5", "-0.1", "0"} {
		_, err = ParseConfig(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-density", density})
		assert.Error(t, err, density)
	}
}

func TestConfigGridSource(t *testing.T) {
	logger, _ := test.NewNullLogger()
	path := filepath.Join(t.TempDir(), "board.txt")
	require.NoError(t, os.WriteFile(path, []byte(loseLayout), 0o644))

	src, err := Config{BoardFile: path}.GridSource(logger)
	require.NoError(t, err)
	a, err := src.Generate(24)
	require.NoError(t, err)
	b, err := src.Generate(24)
	require.NoError(t, err)
	assert.Equal(t, 3, a.Size)
	a.RevealAll()
	assert.False(t, b.At(model.Pos{X: 2, Y: 1}).Revealed, "boards are independent copies")

	src, err = Config{Density: 0.15}.GridSource(logger)
	require.NoError(t, err)
	grid, err := src.Generate(10)
	require.NoError(t, err)
	assert.Equal(t, 15, grid.Mines())

	_, err = Config{BoardFile: filepath.Join(t.TempDir(), "missing.txt")}.GridSource(logger)
	assert.Error(t, err)
}

type brokenSource struct{}

func (brokenSource) Generate(int) (*model.Grid, error) {
	return nil, errors.New("out of boards")
}

func TestBrokenSourceIsUnavailable(t *testing.T) {
	logger, _ := test.NewNullLogger()
	gs := NewGameServer(Config{DefaultTier: "easy", HandoffTimeout: time.Second}, nil, brokenSource{}, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go gs.Loop(ctx)

	rec := httptest.NewRecorder()
	gs.HandleHttpCall()(rec, httptest.NewRequest(http.MethodGet, "/play", nil))
	assert.Equal(t, HTTP_SERVER_ERR, rec.Code)
}
