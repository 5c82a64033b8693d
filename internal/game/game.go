package game

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/iburimskiy/canvas-eyes/internal/config"
	"github.com/iburimskiy/canvas-eyes/internal/eyes"
	"github.com/iburimskiy/canvas-eyes/internal/loop"
	"github.com/iburimskiy/canvas-eyes/internal/pointer"
	"github.com/iburimskiy/canvas-eyes/internal/render"
	"github.com/iburimskiy/canvas-eyes/internal/texture"
	"go.uber.org/zap"
)

var (
	backgroundColor = color.RGBA{R: 18, G: 20, B: 28, A: 255}
	outlineColor    = color.RGBA{R: 60, G: 64, B: 80, A: 255}
)

// eyeSprite is the software-rendered image of one eye.
type eyeSprite struct {
	pixels *image.RGBA
	img    *ebiten.Image
}

// Game is the window surface. It feeds cursor movement to the tracker and
// draws whatever frame the render loop presented last.
type Game struct {
	cfg     config.Config
	cam     render.Camera
	region  pointer.Region
	tracker *pointer.Tracker
	tap     *frameTap
	tex     *texture.Future
	log     *zap.Logger

	sprites  [2]eyeSprite
	drawn    eyes.Frame
	hasDrawn bool
	texReady bool

	cursor     image.Point
	cursorSeen bool

	debug bool
	done  <-chan struct{}
}

func New(cfg config.Config, tracker *pointer.Tracker, tex *texture.Future, logger *zap.Logger) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Game{
		cfg: cfg,
		cam: render.Camera{
			Width:       cfg.Width,
			Height:      cfg.Height,
			Distance:    cfg.CameraDistance,
			FieldOfView: cfg.FieldOfView,
		},
		region:  pointer.Region{Width: float64(cfg.Width), Height: float64(cfg.Height)},
		tracker: tracker,
		tap:     newFrameTap(),
		tex:     tex,
		log:     logger,
	}
}

// Sink is where the render loop should present frames.
func (g *Game) Sink() loop.Sink { return g.tap }

// Run opens the window and blocks until it is closed or ctx is done.
func (g *Game) Run(ctx context.Context) error {
	g.done = ctx.Done()

	w, h := windowSize(g.cfg.Width, g.cfg.Height)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Canvas Eyes - D: debug, Esc/Q: quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(g.cfg.TickRate)

	g.log.Info("window surface started",
		zap.Int("width", g.cfg.Width),
		zap.Int("height", g.cfg.Height),
		zap.Int("window_width", w),
		zap.Int("window_height", h))

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func (g *Game) Update() error {
	select {
	case <-g.done:
		return ebiten.Termination
	default:
	}

	x, y := ebiten.CursorPosition()
	if p := image.Pt(x, y); !g.cursorSeen || p != g.cursor {
		g.cursor, g.cursorSeen = p, true
		g.tracker.MoveIn(g.region, float64(x), float64(y))
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	frame, ok := g.tap.snapshot()
	if !ok {
		return
	}
	g.refreshSprites(frame)

	radius := g.cfg.Radius * g.cam.Scale()
	for i, eye := range []eyes.Eye{frame.Left, frame.Right} {
		cx, cy := g.cam.Project(eye.Center)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(cx-radius, cy-radius)
		screen.DrawImage(g.sprites[i].img, op)
		vector.StrokeCircle(screen, float32(cx), float32(cy), float32(radius), 2, outlineColor, true)
	}

	if g.debug {
		g.drawDebug(screen, frame)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// refreshSprites re-renders the eye images when the gaze or the texture changed.
func (g *Game) refreshSprites(frame eyes.Frame) {
	ready := g.tex.Ready()
	if g.hasDrawn && frame == g.drawn && ready == g.texReady {
		return
	}

	side := int(math.Ceil(2 * g.cfg.Radius * g.cam.Scale()))
	tex := g.tex.Texture()
	for i, eye := range []eyes.Eye{frame.Left, frame.Right} {
		s := &g.sprites[i]
		if s.img == nil || s.pixels.Bounds().Dx() != side {
			if s.img != nil {
				s.img.Deallocate()
			}
			s.pixels = image.NewRGBA(image.Rect(0, 0, side, side))
			s.img = ebiten.NewImage(side, side)
		}
		render.FillDisc(s.pixels, render.NewShader(tex, eye))
		s.img.WritePixels(s.pixels.Pix)
	}

	if ready && !g.texReady {
		g.log.Debug("eye texture ready", zap.Bool("placeholder", g.tex.Err() != nil))
	}
	g.drawn, g.hasDrawn, g.texReady = frame, true, ready
}

func (g *Game) drawDebug(screen *ebiten.Image, frame eyes.Frame) {
	pos := g.tracker.Current()
	lines := []string{
		fmt.Sprintf("pointer %7.1f %7.1f  layer %.0f", pos.X, pos.Y, g.cfg.PointerLayer),
		fmt.Sprintf("left  yaw %s pitch %s", formatAngle(frame.Left.Yaw), formatAngle(frame.Left.Pitch)),
		fmt.Sprintf("right yaw %s pitch %s", formatAngle(frame.Right.Yaw), formatAngle(frame.Right.Pitch)),
		fmt.Sprintf("frames %d  tps %.0f", g.tap.frames(), ebiten.ActualTPS()),
	}
	if err := g.tex.Err(); err != nil {
		lines = append(lines, "texture: "+err.Error())
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, 12, 12+i*16)
	}
}
