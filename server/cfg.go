package server

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
	"github.com/zucenko/minepath/game"
	"github.com/zucenko/minepath/generator"
	"github.com/zucenko/minepath/model"
)

type Config struct {
	Port           string        `env:"PORT"                     envDefault:"8080"`
	LogLevel       string        `env:"MINEPATH_LOG_LEVEL"       envDefault:"info"`
	Density        float64       `env:"MINEPATH_DENSITY"         envDefault:"0.15"`
	BannerDelay    time.Duration `env:"MINEPATH_BANNER_DELAY"    envDefault:"3s"`
	HandoffTimeout time.Duration `env:"MINEPATH_HANDOFF_TIMEOUT" envDefault:"200ms"`
	DefaultTier    string        `env:"MINEPATH_DEFAULT_TIER"    envDefault:"easy"`
	TiersFile      string        `env:"MINEPATH_TIERS_FILE"`
	BoardFile      string        `env:"MINEPATH_BOARD_FILE"`
}

// ParseConfig reads the environment, then lets flags override it.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	fs.StringVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "logrus level")
	fs.Float64Var(&cfg.Density, "density", cfg.Density, "fraction of cells holding a mine")
	fs.DurationVar(&cfg.BannerDelay, "banner-delay", cfg.BannerDelay, "delay before a result banner is dismissed")
	fs.StringVar(&cfg.DefaultTier, "tier", cfg.DefaultTier, "tier served on /play")
	fs.StringVar(&cfg.TiersFile, "tiers", cfg.TiersFile, "YAML file with difficulty tiers")
	fs.StringVar(&cfg.BoardFile, "board", cfg.BoardFile, "fixed board layout served instead of generated boards")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}
	if !generator.ValidDensity(cfg.Density) {
		return Config{}, fmt.Errorf("density %v outside (0,1)", cfg.Density)
	}
	return cfg, nil
}

func (c Config) Level() (logrus.Level, error) {
	return logrus.ParseLevel(c.LogLevel)
}

// GridSource returns the fixed board when one is configured, else a time
// seeded generator.
func (c Config) GridSource(log logrus.FieldLogger) (game.GridSource, error) {
	if c.BoardFile != "" {
		board, err := LoadBoard(c.BoardFile)
		if err != nil {
			return nil, err
		}
		log.Infof("serving fixed %dx%d board from %s", board.Grid.Size, board.Grid.Size, c.BoardFile)
		return board, nil
	}
	gen := generator.New(rand.New(rand.NewSource(time.Now().UnixNano())))
	gen.Density = c.Density
	gen.Log = log
	return gen, nil
}

// FixedBoard serves copies of one layout whatever size is asked for.
type FixedBoard struct {
	Grid *model.Grid
}

func (f *FixedBoard) Generate(int) (*model.Grid, error) {
	return f.Grid.Clone(), nil
}

func LoadBoard(path string) (*FixedBoard, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	grid, err := model.ParseGrid(file)
	if err != nil {
		return nil, fmt.Errorf("board %s: %w", path, err)
	}
	return &FixedBoard{Grid: grid}, nil
}

// lockedSource lets session goroutines share one generator and its rand.Rand.
type lockedSource struct {
	mu  sync.Mutex
	src game.GridSource
}

func (l *lockedSource) Generate(size int) (*model.Grid, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Generate(size)
}
