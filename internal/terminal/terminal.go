package terminal

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/iburimskiy/canvas-eyes/internal/config"
	"github.com/iburimskiy/canvas-eyes/internal/eyes"
	"github.com/iburimskiy/canvas-eyes/internal/pointer"
	"github.com/iburimskiy/canvas-eyes/internal/render"
	"github.com/iburimskiy/canvas-eyes/internal/texture"
	"go.uber.org/zap"
)

var ErrNoTerminal = errors.New("terminal surface unavailable")

const (
	upperHalf = '▀'
	lowerHalf = '▄'
)

// Surface draws the eyes with half-block characters. Every cell holds two
// roughly square sub-pixels stacked vertically. The configured surface size is
// fitted into the grid, keeping its aspect ratio.
type Surface struct {
	screen  tcell.Screen
	cfg     config.Config
	cam     render.Camera
	region  pointer.Region
	tracker *pointer.Tracker
	tex     *texture.Future
	log     *zap.Logger

	mu       sync.Mutex
	frame    eyes.Frame
	hasFrame bool
}

// New takes over the controlling terminal.
func New(cfg config.Config, tracker *pointer.Tracker, tex *texture.Future, logger *zap.Logger) (*Surface, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoTerminal, err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoTerminal, err)
	}
	return newSurface(screen, cfg, tracker, tex, logger), nil
}

func newSurface(screen tcell.Screen, cfg config.Config, tracker *pointer.Tracker, tex *texture.Future, logger *zap.Logger) *Surface {
	if logger == nil {
		logger = zap.NewNop()
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()
	screen.Clear()

	return &Surface{
		screen: screen,
		cfg:    cfg,
		cam: render.Camera{
			Width:       cfg.Width,
			Height:      cfg.Height,
			Distance:    cfg.CameraDistance,
			FieldOfView: cfg.FieldOfView,
		},
		region:  pointer.Region{Width: float64(cfg.Width), Height: float64(cfg.Height)},
		tracker: tracker,
		tex:     tex,
		log:     logger,
	}
}

// Present draws frame. It is called from the render loop.
func (s *Surface) Present(frame eyes.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame, s.hasFrame = frame, true
	s.draw()
}

// Run handles input until the user quits or ctx is done.
func (s *Surface) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = s.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	s.log.Info("terminal surface started")
	for {
		switch ev := s.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return nil
			}
		case *tcell.EventMouse:
			x, y := ev.Position()
			px, py := s.toSurface(float64(x)+0.5, 2*(float64(y)+0.5))
			s.tracker.MoveIn(s.region, px, py)
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q')) {
				return nil
			}
		case *tcell.EventResize:
			s.screen.Sync()
			s.mu.Lock()
			s.draw()
			s.mu.Unlock()
		}
	}
}

func (s *Surface) Close() {
	s.screen.Fini()
}

// toSurface converts sub-pixel grid coordinates into surface pixels.
func (s *Surface) toSurface(sx, sy float64) (float64, float64) {
	cols, rows := s.screen.Size()
	subW, subH := float64(cols), float64(rows*2)
	k := max(float64(s.cfg.Width)/subW, float64(s.cfg.Height)/subH)
	ox := (float64(s.cfg.Width) - subW*k) / 2
	oy := (float64(s.cfg.Height) - subH*k) / 2
	return ox + sx*k, oy + sy*k
}

// draw must be called with mu held.
func (s *Surface) draw() {
	if !s.hasFrame {
		return
	}
	tex := s.tex.Texture()
	shaders := [2]render.Shader{
		render.NewShader(tex, s.frame.Left),
		render.NewShader(tex, s.frame.Right),
	}
	centers := [2]eyes.Eye{s.frame.Left, s.frame.Right}

	shade := func(sx, sy float64) (color.RGBA, bool) {
		p := s.cam.Unproject(s.toSurface(sx, sy))
		for i, e := range centers {
			nx := (p.X() - e.Center.X()) / s.cfg.Radius
			ny := (p.Y() - e.Center.Y()) / s.cfg.Radius
			if c, ok := shaders[i].At(nx, ny); ok {
				return c, true
			}
		}
		return color.RGBA{}, false
	}

	cols, rows := s.screen.Size()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top, topOK := shade(float64(x)+0.5, float64(2*y)+0.5)
			bottom, bottomOK := shade(float64(x)+0.5, float64(2*y)+1.5)
			if !topOK && !bottomOK {
				s.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
				continue
			}
			switch {
			case topOK && bottomOK:
				s.screen.SetContent(x, y, upperHalf, nil, tcell.StyleDefault.Foreground(rgb(top)).Background(rgb(bottom)))
			case topOK:
				s.screen.SetContent(x, y, upperHalf, nil, tcell.StyleDefault.Foreground(rgb(top)))
			default:
				s.screen.SetContent(x, y, lowerHalf, nil, tcell.StyleDefault.Foreground(rgb(bottom)))
			}
		}
	}
	s.screen.Show()
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
