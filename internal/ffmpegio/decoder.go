package ffmpegio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"github.com/vearutop/chromakey"
)

// Decoder streams rgb24 frames from a video file. It implements chromakey.FrameSource.
type Decoder struct {
	Width  int
	Height int

	r      *io.PipeReader
	done   chan error
	stderr bytes.Buffer
	frames int
}

// NewDecoder starts ffmpeg decoding path scaled to w x h.
func NewDecoder(ctx context.Context, path string, w, h int) (*Decoder, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid decode dimensions %dx%d", w, h)
	}

	pr, pw := io.Pipe()
	d := &Decoder{Width: w, Height: h, r: pr, done: make(chan error, 1)}

	stream := ffmpeg.Input(path).
		Output("pipe:1", ffmpeg.KwArgs{
			"format":  "rawvideo",
			"pix_fmt": "rgb24",
			"vf":      fmt.Sprintf("scale=%d:%d", w, h),
		}).
		WithOutput(pw).
		WithErrorOutput(&d.stderr)
	stream.Context = ctx

	go func() {
		err := stream.Run()
		if err != nil {
			err = fmt.Errorf("ffmpeg decode %s: %w: %s", path, err, lastLine(d.stderr.String()))
		}
		pw.CloseWithError(err)
		d.done <- err
	}()

	return d, nil
}

// Next implements chromakey.FrameSource.
func (d *Decoder) Next(ctx context.Context) (*chromakey.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f := chromakey.NewFrame(d.Width, d.Height)
	_, err := io.ReadFull(d.r, f.Pix)
	switch {
	case err == nil:
		d.frames++
		return f, nil
	case errors.Is(err, io.EOF):
		return nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return nil, fmt.Errorf("truncated frame %d", d.frames)
	default:
		return nil, err
	}
}

// Frames returns the number of frames decoded so far.
func (d *Decoder) Frames() int {
	return d.frames
}

// Close stops reading and waits for ffmpeg to exit.
func (d *Decoder) Close() error {
	_ = d.r.Close()
	err := <-d.done
	d.done <- err
	return err
}

// ReadAll decodes the whole file into memory, e.g. to buffer a background sequence.
func ReadAll(ctx context.Context, path string, w, h int) ([]*chromakey.Frame, error) {
	d, err := NewDecoder(ctx, path, w, h)
	if err != nil {
		return nil, err
	}
	frames, err := chromakey.ReadFrames(ctx, d)
	if err != nil {
		_ = d.Close()
		return nil, err
	}
	if err := d.Close(); err != nil {
		return nil, err
	}
	return frames, nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
