package main

import (
	"flag"
	"fmt"
	"image/color"
	"math/rand"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten"
	"github.com/hajimehoshi/ebiten/ebitenutil"
	"github.com/hajimehoshi/ebiten/inpututil"
	"github.com/hajimehoshi/ebiten/text"
	log "github.com/sirupsen/logrus"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/zucenko/minepath/game"
	"github.com/zucenko/minepath/generator"
	"github.com/zucenko/minepath/model"
	"golang.org/x/image/font"
)

const (
	boardPx      = 600
	hudPx        = 30
	screenWidth  = boardPx
	screenHeight = boardPx + hudPx
	frameDt      = float32(1) / 60
)

var (
	COLOR_BG       = color.RGBA{70, 70, 70, 255}
	COLOR_HIDDEN   = color.RGBA{0x44, 0x44, 0x44, 0xff}
	COLOR_REVEALED = color.RGBA{0xcc, 0xcc, 0xcc, 0xff}
	COLOR_MINE     = color.RGBA{0xfa, 0x36, 0x36, 0xff}
	COLOR_START    = color.RGBA{0x0a, 0xbd, 0x38, 0xff}
	COLOR_END      = color.RGBA{0x32, 0x1e, 0xcc, 0xff}
	COLOR_FLAG     = color.RGBA{0xed, 0xbc, 0x1e, 0xff}
	COLOR_PLAYER   = color.RGBA{0xcb, 0x18, 0xdd, 0xff}
)

var moveKeys = []struct {
	key  ebiten.Key
	name string
}{
	{ebiten.KeyUp, "ArrowUp"},
	{ebiten.KeyDown, "ArrowDown"},
	{ebiten.KeyLeft, "ArrowLeft"},
	{ebiten.KeyRight, "ArrowRight"},
	{ebiten.KeyW, "w"},
	{ebiten.KeyA, "a"},
	{ebiten.KeyS, "s"},
	{ebiten.KeyD, "d"},
}

var tierKeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
	ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

type GameState int

const (
	WAITING GameState = iota + 1
	PLAYING
	BANNER
	GAME_OVER
)

func (s GameState) Name() string {
	switch s {
	case WAITING:
		return "WAITING"
	case PLAYING:
		return "PLAYING"
	case BANNER:
		return "BANNER"
	case GAME_OVER:
		return "GAME_OVER"
	default:
		return fmt.Sprintf("N/A(%d)", s)
	}
}

// Banner is the result overlay shown when a board is won or lost.
type Banner struct {
	Text  string
	Color color.Color
	alpha float64
}

type Game struct {
	State    GameState
	Backend  Backend
	Tiers    []game.Tier
	Setup    model.Setup
	Snapshot *model.Snapshot
	Banner   *Banner
	Frame    *Nine
	Font     font.Face
	Tweens   map[*gween.Tween]Action
}

func (g *Game) apply(mes model.ServerMessage) {
	for _, setup := range mes.Setup {
		g.Setup = setup
		g.Banner = nil
		g.Tweens = make(map[*gween.Tween]Action)
		g.State = PLAYING
		log.Infof("board %s %dx%d round %d", setup.Tier, setup.Size, setup.Size, setup.Round)
	}
	for i := range mes.Snapshots {
		snap := mes.Snapshots[i]
		g.Snapshot = &snap
		if snap.State.Terminal() && g.State == PLAYING {
			g.showBanner(snap.State)
		}
	}
	for _, d := range mes.Dismiss {
		if d.Round == g.Setup.Round && g.State == BANNER {
			g.hideBanner()
		}
	}
}

func (g *Game) showBanner(state model.State) {
	b := &Banner{Text: "Congratulations, you win!", Color: COLOR_START}
	if state == model.Lost {
		b.Text, b.Color = "Game Over!", COLOR_MINE
	}
	g.Banner = b
	g.State = BANNER

	setAlpha := func(v float32) { b.alpha = float64(v) }
	fadeIn := Action{onChange: setAlpha}
	settle := fadeIn.next(gween.New(1, 0.85, 0.4, ease.InOutQuad))
	settle.onChange = setAlpha
	g.Tweens[gween.New(0, 1, 0.3, ease.OutQuad)] = fadeIn
}

func (g *Game) hideBanner() {
	b := g.Banner
	if b == nil {
		return
	}
	g.Tweens = make(map[*gween.Tween]Action)
	fadeOut := Action{onChange: func(v float32) { b.alpha = float64(v) }}
	fadeOut.addOnFinish(func() {
		if g.Banner == b {
			g.Banner = nil
			g.State = GAME_OVER
		}
	})
	g.Tweens[gween.New(float32(b.alpha), 0, 0.3, ease.InQuad)] = fadeOut
}

func (g *Game) handleKeys() {
	flagging := ebiten.IsKeyPressed(ebiten.KeyShift)
	for _, k := range moveKeys {
		if !inpututil.IsKeyJustPressed(k.key) {
			continue
		}
		if d, ok := game.DirectionForKey(k.name); ok {
			g.Backend.Send(model.ClientMessage{Move: d, Flag: flagging})
		}
	}
	for i, t := range g.Tiers {
		if i < len(tierKeys) && inpututil.IsKeyJustPressed(tierKeys[i]) {
			g.Backend.Send(model.ClientMessage{NewGame: t.Name})
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) && g.Setup.Tier != "" {
		g.Backend.Send(model.ClientMessage{NewGame: g.Setup.Tier})
	}
}

func (g *Game) update(screen *ebiten.Image) error {
	g.step(frameDt)
	for _, mes := range g.Backend.Poll() {
		g.apply(mes)
	}
	g.handleKeys()

	if ebiten.IsDrawingSkipped() {
		return nil
	}
	if err := screen.Fill(COLOR_BG); err != nil {
		return err
	}
	if g.Snapshot != nil {
		g.drawBoard(screen)
	}
	if g.Banner != nil {
		g.drawBanner(screen)
	}
	ebitenutil.DebugPrintAt(screen,
		fmt.Sprintf("%s %s  [1-%d] tier  [R] restart  shift+move flags", g.Setup.Tier, g.State.Name(), len(g.Tiers)),
		4, boardPx+8)
	return nil
}

func cellColor(c model.Cell) color.Color {
	switch c.Glyph() {
	case model.GlyphFlag:
		return COLOR_FLAG
	case model.GlyphHidden:
		return COLOR_HIDDEN
	case model.GlyphMine:
		return COLOR_MINE
	case model.GlyphStart:
		return COLOR_START
	case model.GlyphEnd:
		return COLOR_END
	default:
		return COLOR_REVEALED
	}
}

func (g *Game) drawBoard(screen *ebiten.Image) {
	grid := g.Snapshot.Grid
	cell := float64(boardPx) / float64(grid.Size)
	for x := 0; x < grid.Size; x++ {
		for y := 0; y < grid.Size; y++ {
			c := grid.Matrix[x][y]
			left, top := float64(y)*cell, float64(x)*cell
			ebitenutil.DrawRect(screen, left+1, top+1, cell-2, cell-2, cellColor(c))
			if g.Snapshot.Player.X == x && g.Snapshot.Player.Y == y {
				ebitenutil.DrawRect(screen, left+cell/4, top+cell/4, cell/2, cell/2, COLOR_PLAYER)
				continue
			}
			switch c.Glyph() {
			case model.GlyphHidden, model.GlyphBlank:
			default:
				bounds, _ := font.BoundString(g.Font, c.Symbol())
				w := (bounds.Max.X - bounds.Min.X).Ceil()
				h := (bounds.Max.Y - bounds.Min.Y).Ceil()
				text.Draw(screen, c.Symbol(), g.Font, int(left+cell/2)-w/2, int(top+cell/2)+h/2, color.Black)
			}
		}
	}
}

func (g *Game) drawBanner(screen *ebiten.Image) {
	const width, height = 360, 80
	x, y := (boardPx-width)/2, (boardPx-height)/2
	g.Frame.SetPosition(x, y)
	g.Frame.SetSize(width, height)
	g.Frame.SetAlpha(g.Banner.alpha)
	g.Frame.Draw(screen)

	r, gr, b, _ := g.Banner.Color.RGBA()
	clr := color.NRGBA{uint8(r >> 8), uint8(gr >> 8), uint8(b >> 8), uint8(255 * g.Banner.alpha)}
	bounds, _ := font.BoundString(g.Font, g.Banner.Text)
	w := (bounds.Max.X - bounds.Min.X).Ceil()
	text.Draw(screen, g.Banner.Text, g.Font, x+(width-w)/2, y+height/2+5, clr)
}

func newGame(cfg Config) (*Game, error) {
	tiers, err := cfg.tiers()
	if err != nil {
		return nil, err
	}
	face, err := loadFont(cfg.Font, 20)
	if err != nil {
		return nil, err
	}
	frame, err := newFrame(4)
	if err != nil {
		return nil, err
	}

	var backend Backend
	if cfg.Server != "" {
		backend, err = dialRemote(cfg.Server, cfg.Tier)
		if err != nil {
			return nil, err
		}
	} else {
		gen := generator.New(rand.New(rand.NewSource(time.Now().UnixNano())))
		gen.Density = cfg.Density
		backend = newLocalBackend(tiers, gen, game.NewOverlay(cfg.BannerDelay))
		backend.Send(model.ClientMessage{NewGame: cfg.Tier})
	}

	return &Game{
		State:   WAITING,
		Backend: backend,
		Tiers:   tiers,
		Frame:   frame,
		Font:    face,
		Tweens:  make(map[*gween.Tween]Action),
	}, nil
}

func main() {
	cfg, err := parseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	g, err := newGame(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer g.Backend.Close()
	if err := ebiten.Run(g.update, screenWidth, screenHeight, 1, "Minepath"); err != nil {
		log.Fatal(err)
	}
}
