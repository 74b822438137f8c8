package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang/freetype/truetype"
	"github.com/hajimehoshi/ebiten/ebitenutil"
	"github.com/zucenko/minepath/game"
	"github.com/zucenko/minepath/generator"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

type Config struct {
	Server      string        `env:"MINEPATH_SERVER"`
	Tier        string        `env:"MINEPATH_TIER"         envDefault:"easy"`
	Font        string        `env:"MINEPATH_FONT"`
	TiersFile   string        `env:"MINEPATH_TIERS_FILE"`
	Density     float64       `env:"MINEPATH_DENSITY"      envDefault:"0.15"`
	BannerDelay time.Duration `env:"MINEPATH_BANNER_DELAY" envDefault:"3s"`
}

func parseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	fs.StringVar(&cfg.Server, "server", cfg.Server, "ws://host:port of a game server, empty plays locally")
	fs.StringVar(&cfg.Tier, "tier", cfg.Tier, "difficulty tier to start with")
	fs.StringVar(&cfg.Font, "font", cfg.Font, "TrueType font file")
	fs.StringVar(&cfg.TiersFile, "tiers", cfg.TiersFile, "YAML file with difficulty tiers (local play)")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}
	if !generator.ValidDensity(cfg.Density) {
		return Config{}, fmt.Errorf("density %v outside (0,1)", cfg.Density)
	}
	return cfg, nil
}

// tiers comes from the server when playing remotely.
func (c Config) tiers() ([]game.Tier, error) {
	if c.Server == "" {
		return game.LoadTiersFile(c.TiersFile)
	}
	url := "http" + strings.TrimPrefix(strings.TrimRight(c.Server, "/"), "ws") + "/tiers"
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	var tiers []game.Tier
	if err := json.NewDecoder(resp.Body).Decode(&tiers); err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	return tiers, nil
}

func loadFont(path string, size float64) (font.Face, error) {
	if path == "" {
		return basicfont.Face7x13, nil
	}
	dat, err := ebitenutil.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer dat.Close()
	buf, err := ioutil.ReadAll(dat)
	if err != nil {
		return nil, err
	}
	tt, err := truetype.Parse(buf)
	if err != nil {
		return nil, err
	}
	const dpi = 72
	return truetype.NewFace(tt, &truetype.Options{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	}), nil
}
