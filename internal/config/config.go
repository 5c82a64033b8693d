package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultRadius       = 100.0
	DefaultPointerLayer = 600.0
	DefaultImage        = "./img/eye.png"
	DefaultTickRate     = 60
	DefaultLogLevel     = "info"

	// one tick per millisecond
	MaxTickRate = 1000

	// Camera placement of the scene
	DefaultCameraDistance = 500.0
	DefaultFieldOfView    = 60.0

	SurfaceWindow   = "window"
	SurfaceTerminal = "terminal"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Options is the user-facing configuration. Every field is optional; nil means
// "use the default".
type Options struct {
	Radius         *float64 `yaml:"radius"`
	PointerLayer   *float64 `yaml:"pointerLayer"`
	Image          *string  `yaml:"image"`
	Width          *int     `yaml:"width"`
	Height         *int     `yaml:"height"`
	TickRate       *int     `yaml:"tickRate"`
	Surface        *string  `yaml:"surface"`
	CameraDistance *float64 `yaml:"cameraDistance"`
	FieldOfView    *float64 `yaml:"fieldOfView"`
	LogLevel       *string  `yaml:"logLevel"`
	LogFile        *string  `yaml:"logFile"`
}

// Config is the resolved, immutable configuration.
type Config struct {
	Radius         float64
	PointerLayer   float64
	Image          string
	Width          int
	Height         int
	TickRate       int
	Surface        string
	CameraDistance float64
	FieldOfView    float64
	LogLevel       string
	LogFile        string
}

// Default is equivalent to resolving empty Options.
func Default() Config {
	c, _ := Options{}.Resolve()
	return c
}

// Load reads YAML options from path.
func Load(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, err
	}
	defer f.Close()
	return LoadYAML(f)
}

func LoadYAML(r io.Reader) (Options, error) {
	var o Options
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil {
		if errors.Is(err, io.EOF) {
			return Options{}, nil
		}
		return Options{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return o, nil
}

// Merge returns o with every field set in over replacing its counterpart.
func (o Options) Merge(over Options) Options {
	if over.Radius != nil {
		o.Radius = over.Radius
	}
	if over.PointerLayer != nil {
		o.PointerLayer = over.PointerLayer
	}
	if over.Image != nil {
		o.Image = over.Image
	}
	if over.Width != nil {
		o.Width = over.Width
	}
	if over.Height != nil {
		o.Height = over.Height
	}
	if over.TickRate != nil {
		o.TickRate = over.TickRate
	}
	if over.Surface != nil {
		o.Surface = over.Surface
	}
	if over.CameraDistance != nil {
		o.CameraDistance = over.CameraDistance
	}
	if over.FieldOfView != nil {
		o.FieldOfView = over.FieldOfView
	}
	if over.LogLevel != nil {
		o.LogLevel = over.LogLevel
	}
	if over.LogFile != nil {
		o.LogFile = over.LogFile
	}
	return o
}

// Resolve fills in defaults and validates. An unset width or height sizes the
// surface so both eyes fit: radius*16 + 10, rounded up to whole pixels.
func (o Options) Resolve() (Config, error) {
	c := Config{
		Radius:         valueOr(o.Radius, DefaultRadius),
		PointerLayer:   valueOr(o.PointerLayer, DefaultPointerLayer),
		Image:          valueOr(o.Image, DefaultImage),
		TickRate:       valueOr(o.TickRate, DefaultTickRate),
		Surface:        valueOr(o.Surface, SurfaceWindow),
		CameraDistance: valueOr(o.CameraDistance, DefaultCameraDistance),
		FieldOfView:    valueOr(o.FieldOfView, DefaultFieldOfView),
		LogLevel:       valueOr(o.LogLevel, DefaultLogLevel),
		LogFile:        valueOr(o.LogFile, ""),
	}
	// validated below; only size from a usable radius
	fit := 0
	if finite(c.Radius) && c.Radius > 0 {
		fit = int(math.Ceil(c.Radius*16)) + 10
	}
	c.Width = valueOr(o.Width, fit)
	c.Height = valueOr(o.Height, fit)

	return c, c.Validate()
}

func (c Config) Validate() error {
	switch {
	case !finite(c.Radius) || c.Radius <= 0:
		return fmt.Errorf("%w: radius must be positive, got %v", ErrInvalidConfig, c.Radius)
	case !finite(c.PointerLayer):
		return fmt.Errorf("%w: pointer layer must be finite, got %v", ErrInvalidConfig, c.PointerLayer)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: surface size must be positive, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.TickRate <= 0 || c.TickRate > MaxTickRate:
		return fmt.Errorf("%w: tick rate must be in [1, %d], got %d", ErrInvalidConfig, MaxTickRate, c.TickRate)
	case !finite(c.CameraDistance) || c.CameraDistance <= 0:
		return fmt.Errorf("%w: camera distance must be positive, got %v", ErrInvalidConfig, c.CameraDistance)
	case !finite(c.FieldOfView) || c.FieldOfView <= 0 || c.FieldOfView >= 180:
		return fmt.Errorf("%w: field of view must be in (0, 180), got %v", ErrInvalidConfig, c.FieldOfView)
	}
	if c.Surface != SurfaceWindow && c.Surface != SurfaceTerminal {
		return fmt.Errorf("%w: unknown surface %q", ErrInvalidConfig, c.Surface)
	}
	return nil
}

// TickInterval is the period of the render loop.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
