package ffmpegio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"github.com/vearutop/chromakey"
)

// EncodeOptions controls the output codec.
type EncodeOptions struct {
	Codec  string // ffmpeg video encoder, libx264 by default
	CRF    int    // constant rate factor, 0 leaves the encoder default
	Preset string
	PixFmt string // output pixel format, yuv420p by default
}

// Encoder pipes rgb24 frames into an ffmpeg process. It implements chromakey.FrameSink.
type Encoder struct {
	Width  int
	Height int

	w      *io.PipeWriter
	done   chan error
	stderr bytes.Buffer
	frames int
}

// NewEncoder starts ffmpeg writing a w x h video at fps frames per second to path.
// An existing file is overwritten.
func NewEncoder(ctx context.Context, path string, w, h int, fps float64, opts ...func(o *EncodeOptions)) (*Encoder, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid encode dimensions %dx%d", w, h)
	}
	if fps <= 0 {
		fps = defaultFPS
	}

	opt := EncodeOptions{
		Codec:  "libx264",
		CRF:    18,
		PixFmt: "yuv420p",
	}
	for _, applyOpt := range opts {
		applyOpt(&opt)
	}

	out := ffmpeg.KwArgs{
		"c:v":     opt.Codec,
		"pix_fmt": opt.PixFmt,
	}
	if opt.CRF > 0 {
		out["crf"] = strconv.Itoa(opt.CRF)
	}
	if opt.Preset != "" {
		out["preset"] = opt.Preset
	}

	pr, pw := io.Pipe()
	e := &Encoder{Width: w, Height: h, w: pw, done: make(chan error, 1)}

	stream := ffmpeg.Input("pipe:0", ffmpeg.KwArgs{
		"format":  "rawvideo",
		"pix_fmt": "rgb24",
		"s":       fmt.Sprintf("%dx%d", w, h),
		"r":       strconv.FormatFloat(fps, 'f', -1, 64),
	}).
		Output(path, out).
		OverWriteOutput().
		WithInput(pr).
		WithErrorOutput(&e.stderr)
	stream.Context = ctx

	go func() {
		err := stream.Run()
		if err != nil {
			err = fmt.Errorf("ffmpeg encode %s: %w: %s", path, err, lastLine(e.stderr.String()))
		}
		pr.CloseWithError(err)
		e.done <- err
	}()

	return e, nil
}

// WriteFrame implements chromakey.FrameSink.
func (e *Encoder) WriteFrame(f *chromakey.Frame) error {
	if f.Width != e.Width || f.Height != e.Height {
		return fmt.Errorf("%w: frame %dx%d, encoder %dx%d",
			chromakey.ErrDimensionMismatch, f.Width, f.Height, e.Width, e.Height)
	}
	if _, err := e.w.Write(f.Pix); err != nil {
		return err
	}
	e.frames++
	return nil
}

// Frames returns the number of frames written so far.
func (e *Encoder) Frames() int {
	return e.frames
}

// Close flushes the input and waits for ffmpeg to finish the file.
func (e *Encoder) Close() error {
	_ = e.w.Close()
	err := <-e.done
	e.done <- err
	return err
}
