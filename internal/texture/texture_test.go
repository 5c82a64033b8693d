package texture

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func writePNG(t *testing.T, w, h int, c color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	path := filepath.Join(t.TempDir(), "eye.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestPlaceholder(t *testing.T) {
	p := Placeholder()
	require.Same(t, p, Placeholder())

	w, h := p.Size()
	require.Equal(t, placeholderWidth, w)
	require.Equal(t, placeholderHeight, h)

	pupil := p.Sample(0.5, 0.5)
	require.Less(t, pupil.R, uint8(20))

	sclera := p.Sample(0.0, 0.5)
	require.Greater(t, sclera.R, uint8(200))
}

func TestSample(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{B: 255, A: 255})
	tex := FromImage(img)

	require.Equal(t, uint8(255), tex.Sample(0.25, 0.5).R)
	require.Equal(t, uint8(255), tex.Sample(0.75, 0.5).B)
	// u wraps, v clamps
	require.Equal(t, uint8(255), tex.Sample(1.25, 7).R)
	require.Equal(t, uint8(255), tex.Sample(-0.25, -3).B)
}

func TestSample_Empty(t *testing.T) {
	tex := FromImage(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	require.Equal(t, color.RGBA{}, tex.Sample(0.5, 0.5))
}

func TestFromImage_Downscale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4*MaxSize, MaxSize))
	w, h := FromImage(src).Size()
	require.Equal(t, MaxSize, w)
	require.Equal(t, MaxSize/4, h)
}

func TestLoad(t *testing.T) {
	t.Run("Decodes PNG", func(t *testing.T) {
		path := writePNG(t, 8, 4, color.RGBA{G: 200, A: 255})

		f := Load(context.Background(), path, func(err error) { t.Errorf("unexpected error: %v", err) })
		tex, err := f.Wait(context.Background())
		require.NoError(t, err)
		require.True(t, f.Ready())
		require.Same(t, tex, f.Texture())
		require.Equal(t, uint8(200), tex.Sample(0.5, 0.5).G)
	})

	t.Run("Missing File Falls Back", func(t *testing.T) {
		reported := make(chan error, 1)
		f := Load(context.Background(), filepath.Join(t.TempDir(), "missing.png"), func(err error) { reported <- err })

		select {
		case err := <-reported:
			require.ErrorIs(t, err, os.ErrNotExist)
		case <-time.After(time.Second):
			t.Fatal("error callback not called")
		}
		<-f.Done()
		require.Same(t, Placeholder(), f.Texture())
		require.Error(t, f.Err())
	})

	t.Run("Unsupported Format", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "eye.txt")
		require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

		_, err := Load(context.Background(), path, nil).Wait(context.Background())
		require.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("Empty Image Falls Back", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.bmp")
		out, err := os.Create(path)
		require.NoError(t, err)
		require.NoError(t, bmp.Encode(out, image.NewRGBA(image.Rect(0, 0, 0, 0))))
		require.NoError(t, out.Close())

		reported := make(chan error, 1)
		f := Load(context.Background(), path, func(err error) { reported <- err })

		select {
		case err := <-reported:
			require.ErrorIs(t, err, ErrUnsupportedFormat)
		case <-time.After(time.Second):
			t.Fatal("error callback not called")
		}
		<-f.Done()
		require.Same(t, Placeholder(), f.Texture())
		require.ErrorIs(t, f.Err(), ErrUnsupportedFormat)
	})

	t.Run("Cancelled Load Is Quiet", func(t *testing.T) {
		path := writePNG(t, 4, 4, color.RGBA{R: 90, A: 255})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		f := Load(ctx, path, func(err error) { t.Errorf("unexpected error report: %v", err) })
		<-f.Done()
		require.ErrorIs(t, f.Err(), context.Canceled)
		require.Same(t, Placeholder(), f.Texture())
	})

	t.Run("Resolved", func(t *testing.T) {
		f := Resolved(Placeholder())
		require.True(t, f.Ready())
		require.NoError(t, f.Err())
	})
}
