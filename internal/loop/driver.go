package loop

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/iburimskiy/canvas-eyes/internal/eyes"
	"github.com/iburimskiy/canvas-eyes/internal/gaze"
	"github.com/iburimskiy/canvas-eyes/internal/pointer"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultInterval = time.Second / 60

var ErrAlreadyRunning = errors.New("render loop is already running")

// PointSource supplies the latest pointer position.
type PointSource interface {
	Current() pointer.Point2
}

// Sink receives a frame after every tick. Present must not block.
type Sink interface {
	Present(frame eyes.Frame)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(frame eyes.Frame)

func (f SinkFunc) Present(frame eyes.Frame) { f(frame) }

type Option func(*Driver)

func WithInterval(d time.Duration) Option {
	return func(dr *Driver) {
		if d > 0 {
			dr.interval = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(dr *Driver) {
		if l != nil {
			dr.log = l
		}
	}
}

// Stats counts completed and skipped ticks.
type Stats struct {
	Ticks   uint64
	Skipped uint64
}

// Driver pulls the pointer position on a fixed cadence, turns the eyes towards
// it and hands the result to a Sink.
type Driver struct {
	src      PointSource
	pair     *eyes.Pair
	sink     Sink
	interval time.Duration
	log      *zap.Logger

	running atomic.Bool
	busy    atomic.Bool
	ticks   atomic.Uint64
	skipped atomic.Uint64
}

func New(src PointSource, pair *eyes.Pair, sink Sink, opts ...Option) *Driver {
	d := &Driver{
		src:      src,
		pair:     pair,
		sink:     sink,
		interval: DefaultInterval,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) Interval() time.Duration { return d.interval }

// Tick runs one update. It returns false without doing anything if another
// tick is still in progress.
func (d *Driver) Tick() bool {
	if !d.busy.CompareAndSwap(false, true) {
		d.skipped.Add(1)
		return false
	}
	defer d.busy.Store(false)

	pos := d.src.Current()
	d.pair.Update(gaze.Point3{pos.X, pos.Y, d.pair.Layer()})
	if d.sink != nil {
		d.sink.Present(d.pair.Frame())
	}
	d.ticks.Add(1)
	return true
}

func (d *Driver) Stats() Stats {
	return Stats{Ticks: d.ticks.Load(), Skipped: d.skipped.Load()}
}

// Handle controls a started loop.
type Handle struct {
	cancel context.CancelFunc
	group  *errgroup.Group
}

// Stop cancels the loop and waits for the last tick to finish.
func (h *Handle) Stop() error {
	h.cancel()
	return h.Wait()
}

// Wait blocks until the loop exits.
func (h *Handle) Wait() error {
	return h.group.Wait()
}

// Start ticks until ctx is done or the handle is stopped. Only one loop may run
// per driver; a second Start yields a handle whose Wait reports ErrAlreadyRunning.
func (d *Driver) Start(ctx context.Context) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	group, ctx := errgroup.WithContext(ctx)
	h := &Handle{cancel: cancel, group: group}

	if !d.running.CompareAndSwap(false, true) {
		group.Go(func() error { return ErrAlreadyRunning })
		return h
	}

	group.Go(func() error {
		defer d.running.Store(false)
		return d.run(ctx)
	})
	return h
}

func (d *Driver) run(ctx context.Context) error {
	d.log.Debug("render loop started", zap.Duration("interval", d.interval))

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			st := d.Stats()
			d.log.Debug("render loop stopped",
				zap.Uint64("ticks", st.Ticks),
				zap.Uint64("skipped", st.Skipped))
			return nil
		case <-ticker.C:
			d.Tick()
		}
	}
}
