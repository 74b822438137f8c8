package main

import (
	"github.com/matryer/way"
)

const URI_WS = "/play"
const URI_WS_TIER = "/play/:tier"
const URI_TIERS = "/tiers"

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc("GET", URI_WS, s.GameServer.HandleHttpCall())
	s.router.HandleFunc("GET", URI_WS_TIER, s.GameServer.HandleHttpCall())
	s.router.HandleFunc("GET", URI_TIERS, s.GameServer.HandleTiers())
}
