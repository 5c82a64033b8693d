package loop

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/iburimskiy/canvas-eyes/internal/eyes"
	"github.com/iburimskiy/canvas-eyes/internal/pointer"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	frames []eyes.Frame
}

func (s *recordingSink) Present(f eyes.Frame) {
	s.mu.Lock()
	s.frames = append(s.frames, f)
	s.mu.Unlock()
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

func (s *recordingSink) last() eyes.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames[len(s.frames)-1]
}

func TestDriver_Tick(t *testing.T) {
	t.Run("Builds Target From Pointer", func(t *testing.T) {
		tr := pointer.NewTracker()
		tr.MoveIn(pointer.Region{Width: 1000, Height: 1000}, 700, 400)

		sink := &recordingSink{}
		d := New(tr, eyes.New(50, 300), sink)

		require.True(t, d.Tick())
		require.Equal(t, 1, sink.count())

		f := sink.last()
		require.InDelta(t, math.Atan(250.0/300.0)+math.Pi/2, f.Left.Yaw, 1e-12)
		require.InDelta(t, math.Atan(150.0/300.0)+math.Pi/2, f.Right.Yaw, 1e-12)
		require.InDelta(t, -math.Atan(100.0/300.0), f.Left.Pitch, 1e-12)
		require.Equal(t, Stats{Ticks: 1}, d.Stats())
	})

	t.Run("Skips Overlapping Tick", func(t *testing.T) {
		var d *Driver
		var nested bool
		sink := SinkFunc(func(eyes.Frame) {
			nested = d.Tick()
		})
		d = New(pointer.NewTracker(), eyes.New(100, 600), sink)

		require.True(t, d.Tick())
		require.False(t, nested)
		require.Equal(t, Stats{Ticks: 1, Skipped: 1}, d.Stats())
	})

	t.Run("Nil Sink", func(t *testing.T) {
		d := New(pointer.NewTracker(), eyes.New(100, 600), nil)
		require.True(t, d.Tick())
	})
}

func TestDriver_Start(t *testing.T) {
	t.Run("Ticks Until Stopped", func(t *testing.T) {
		sink := &recordingSink{}
		d := New(pointer.NewTracker(), eyes.New(100, 600), sink, WithInterval(time.Millisecond))

		h := d.Start(context.Background())
		require.Eventually(t, func() bool { return sink.count() >= 3 }, time.Second, time.Millisecond)
		require.NoError(t, h.Stop())

		n := sink.count()
		time.Sleep(10 * time.Millisecond)
		require.Equal(t, n, sink.count())
	})

	t.Run("Context Cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		d := New(pointer.NewTracker(), eyes.New(100, 600), nil, WithInterval(time.Millisecond))

		h := d.Start(ctx)
		cancel()
		require.NoError(t, h.Wait())
	})

	t.Run("Already Running", func(t *testing.T) {
		d := New(pointer.NewTracker(), eyes.New(100, 600), nil, WithInterval(time.Millisecond))

		first := d.Start(context.Background())
		second := d.Start(context.Background())
		require.ErrorIs(t, second.Wait(), ErrAlreadyRunning)
		require.NoError(t, first.Stop())

		third := d.Start(context.Background())
		require.NoError(t, third.Stop())
	})

	t.Run("Default Interval", func(t *testing.T) {
		d := New(pointer.NewTracker(), eyes.New(100, 600), nil, WithInterval(0))
		require.Equal(t, DefaultInterval, d.Interval())
	})
}
