package texture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// Future is a texture that is loaded in the background.
type Future struct {
	done chan struct{}
	tex  *Texture
	err  error
}

// Resolved returns a future that is already complete.
func Resolved(t *Texture) *Future {
	f := &Future{done: make(chan struct{}), tex: t}
	close(f.done)
	return f
}

// Load decodes the image at path on a new goroutine. If loading fails, onError
// is called with the cause and the future resolves to the placeholder.
func Load(ctx context.Context, path string, onError func(error)) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		t, err := decodeFile(ctx, path)
		if err != nil {
			f.tex, f.err = Placeholder(), err
			// shutdown, not a broken texture
			if onError != nil && !errors.Is(err, context.Canceled) {
				onError(err)
			}
			return
		}
		f.tex = t
	}()
	return f
}

func (f *Future) Done() <-chan struct{} { return f.done }

func (f *Future) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Texture returns the loaded texture, or the placeholder while loading is
// still in progress or after it failed. It never blocks.
func (f *Future) Texture() *Texture {
	if !f.Ready() {
		return Placeholder()
	}
	return f.tex
}

// Err reports the load failure, if any. It is nil while pending.
func (f *Future) Err() error {
	if !f.Ready() {
		return nil
	}
	return f.err
}

// Wait blocks until the load completes or ctx is done.
func (f *Future) Wait(ctx context.Context) (*Texture, error) {
	select {
	case <-f.done:
		return f.tex, f.err
	case <-ctx.Done():
		return Placeholder(), ctx.Err()
	}
}

func decodeFile(ctx context.Context, path string) (*Texture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
		}
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image %s", ErrUnsupportedFormat, path)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return FromImage(img), nil
}
