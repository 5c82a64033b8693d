package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/iburimskiy/canvas-eyes/internal/config"
	"github.com/iburimskiy/canvas-eyes/internal/eyes"
	"github.com/iburimskiy/canvas-eyes/internal/game"
	"github.com/iburimskiy/canvas-eyes/internal/logging"
	"github.com/iburimskiy/canvas-eyes/internal/loop"
	"github.com/iburimskiy/canvas-eyes/internal/pointer"
	"github.com/iburimskiy/canvas-eyes/internal/terminal"
	"github.com/iburimskiy/canvas-eyes/internal/texture"
	"github.com/ncruces/zenity"
	"go.uber.org/zap"
)

// cliArgs is the parsed command line. Only flags given explicitly end up in
// Options, so they override the config file without clobbering it.
type cliArgs struct {
	configPath string
	pickImage  bool
	options    config.Options
}

func parseArgs(args []string, output io.Writer) (cliArgs, error) {
	fs := flag.NewFlagSet("canvas-eyes", flag.ContinueOnError)
	fs.SetOutput(output)

	var (
		cli          cliArgs
		radius       = fs.Float64("radius", config.DefaultRadius, "half the distance between the eyes")
		pointerLayer = fs.Float64("pointer-layer", config.DefaultPointerLayer, "depth of the plane the pointer moves on")
		image        = fs.String("image", config.DefaultImage, "eye texture (png, jpeg, gif, bmp, webp)")
		width        = fs.Int("width", 0, "surface width in pixels (default radius*16+10)")
		height       = fs.Int("height", 0, "surface height in pixels (default radius*16+10)")
		tickRate     = fs.Int("tick-rate", config.DefaultTickRate, "gaze updates per second")
		surface      = fs.String("surface", config.SurfaceWindow, "where to draw: window or terminal")
		logLevel     = fs.String("log-level", config.DefaultLogLevel, "debug, info, warn or error")
		logFile      = fs.String("log-file", "", "write logs to this file instead of stderr")
	)
	fs.StringVar(&cli.configPath, "config", "", "YAML config file")
	fs.BoolVar(&cli.pickImage, "pick-image", false, "choose the eye texture with a file dialog")

	if err := fs.Parse(args); err != nil {
		return cliArgs{}, err
	}
	if fs.NArg() > 0 {
		return cliArgs{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	o := &cli.options
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "radius":
			o.Radius = radius
		case "pointer-layer":
			o.PointerLayer = pointerLayer
		case "image":
			o.Image = image
		case "width":
			o.Width = width
		case "height":
			o.Height = height
		case "tick-rate":
			o.TickRate = tickRate
		case "surface":
			o.Surface = surface
		case "log-level":
			o.LogLevel = logLevel
		case "log-file":
			o.LogFile = logFile
		}
	})
	return cli, nil
}

func loadConfig(cli cliArgs) (config.Config, error) {
	var opts config.Options
	if cli.configPath != "" {
		fileOpts, err := config.Load(cli.configPath)
		if err != nil {
			return config.Config{}, err
		}
		opts = fileOpts
	}
	return opts.Merge(cli.options).Resolve()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	// the terminal surface owns the tty
	if cfg.Surface == config.SurfaceTerminal && cfg.LogFile == "" {
		return zap.NewNop(), nil
	}
	return logging.New(cfg.LogLevel, cfg.LogFile)
}

// pickImage asks for a texture file. It returns current if the dialog is
// cancelled.
func pickImage(current string) (string, error) {
	filename, err := zenity.SelectFile(
		zenity.Title("Choose Eye Texture"),
		zenity.FileFilters{{
			Name:     "Images",
			Patterns: []string{"*.png", "*.jpg", "*.jpeg", "*.gif", "*.bmp", "*.webp"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return current, nil
		}
		return "", err
	}
	return filename, nil
}

func run() error {
	cli, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if cli.pickImage {
		current := config.DefaultImage
		if cli.options.Image != nil {
			current = *cli.options.Image
		}
		chosen, err := pickImage(current)
		if err != nil {
			return fmt.Errorf("pick image: %w", err)
		}
		cli.options.Image = &chosen
	}

	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tracker := pointer.NewTracker()
	pair := eyes.New(cfg.Radius, cfg.PointerLayer)
	tex := texture.Load(ctx, cfg.Image, func(err error) {
		logger.Warn("eye texture unavailable, using placeholder",
			zap.String("image", cfg.Image),
			zap.Error(err))
	})

	logger.Info("starting canvas eyes",
		zap.String("surface", cfg.Surface),
		zap.Float64("radius", cfg.Radius),
		zap.Float64("pointer_layer", cfg.PointerLayer),
		zap.Duration("tick_interval", cfg.TickInterval()))

	switch cfg.Surface {
	case config.SurfaceTerminal:
		surface, err := terminal.New(cfg, tracker, tex, logger)
		if err != nil {
			return err
		}
		defer surface.Close()

		h := loop.New(tracker, pair, surface,
			loop.WithInterval(cfg.TickInterval()),
			loop.WithLogger(logger)).Start(ctx)
		runErr := surface.Run(ctx)
		return errors.Join(runErr, h.Stop())

	default:
		g := game.New(cfg, tracker, tex, logger)
		h := loop.New(tracker, pair, g.Sink(),
			loop.WithInterval(cfg.TickInterval()),
			loop.WithLogger(logger)).Start(ctx)
		runErr := g.Run(ctx)
		return errors.Join(runErr, h.Stop())
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "canvas-eyes:", err)
		os.Exit(1)
	}
}
