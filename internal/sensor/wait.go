package sensor

import (
	"context"
	"time"

	"codeberg.org/mutker/envsensed/internal/codec"
	"codeberg.org/mutker/envsensed/internal/errors"
)

// TryReadColor returns a color reading if one is available and
// ErrColorNotReady otherwise.
func TryReadColor(src Source) (codec.RGBA, error) {
	if !src.ColorAvailable() {
		return codec.RGBA{}, errFactory.New(ErrColorNotReady)
	}
	return src.ReadColor()
}

// WaitColor polls src every delay until a color reading is available. There
// is no retry limit; the wait ends early only when ctx is done.
func WaitColor(ctx context.Context, src Source, delay time.Duration) (codec.RGBA, error) {
	for {
		c, err := TryReadColor(src)
		if !errors.HasCode(err, ErrColorNotReady) {
			return c, err
		}

		select {
		case <-ctx.Done():
			return codec.RGBA{}, errFactory.Wrap(ErrColorWaitEnded, ctx.Err())
		case <-time.After(delay):
		}
	}
}
