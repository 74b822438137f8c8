package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/minepath/game"
	"github.com/zucenko/minepath/server"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	router     *way.Router
	GameServer *server.GameServer
}

func main() {
	cfg, err := server.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	level, err := cfg.Level()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.SetLevel(level)

	tiers, err := game.LoadTiersFile(cfg.TiersFile)
	if err != nil {
		log.Fatalf("tiers: %v", err)
	}
	source, err := cfg.GridSource(log.StandardLogger())
	if err != nil {
		log.Fatalf("board: %v", err)
	}

	s := Server{
		GameServer: server.NewGameServer(cfg, tiers, source, log.StandardLogger()),
	}
	s.routes()
	httpServer := &http.Server{Addr: ":" + cfg.Port, Handler: s.router}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.GameServer.Loop(ctx)
	})
	g.Go(func() error {
		log.Infof("listening on port %s", cfg.Port)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalln(err)
	}
}
