package chromakey

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Config is the immutable keying and compositing setup of one run.
type Config struct {
	Key        RGB
	Tolerance  float32
	Softness   float32
	Metric     DistanceMetric
	Spill      float32 // spill suppression strength in [0, 1]
	Feather    float64 // Gaussian sigma applied to the mask, 0 disables
	Foreground ToneAdjustment
	Background ToneAdjustment
	Policy     BackgroundPolicy
	Blend      BlendMode
}

// DefaultConfig keys pure green with identity tones and a looping background.
func DefaultConfig() Config {
	return Config{
		Key:        DefaultKey,
		Tolerance:  defaultTolerance,
		Softness:   defaultSoftness,
		Metric:     MetricEuclidean,
		Foreground: IdentityTone(),
		Background: IdentityTone(),
		Policy:     PolicyLoop,
	}
}

// Validate checks all settings of the run.
func (c Config) Validate() error {
	if err := validateKeyRange(c.Tolerance, c.Softness); err != nil {
		return err
	}
	if _, err := distanceFor(c.Metric); err != nil {
		return err
	}
	if err := validateSpill(c.Spill); err != nil {
		return err
	}
	if math.IsNaN(c.Feather) || math.IsInf(c.Feather, 0) || c.Feather < 0 {
		return fmt.Errorf("%w: feather %v", ErrInvalidParameter, c.Feather)
	}
	if err := c.Foreground.Validate(); err != nil {
		return fmt.Errorf("foreground tone: %w", err)
	}
	if err := c.Background.Validate(); err != nil {
		return fmt.Errorf("background tone: %w", err)
	}
	if c.Blend != BlendSRGB && c.Blend != BlendLinear {
		return fmt.Errorf("%w: blend mode %d", ErrInvalidParameter, int(c.Blend))
	}
	if !c.Policy.valid() {
		return fmt.Errorf("%w: background policy %d", ErrInvalidParameter, int(c.Policy))
	}
	return nil
}

// FrameSource yields foreground frames in order and returns io.EOF after the last one.
type FrameSource interface {
	Next(ctx context.Context) (*Frame, error)
}

// FrameSink receives composited frames in index order.
type FrameSink interface {
	WriteFrame(f *Frame) error
}

// SliceSource serves frames from memory.
type SliceSource struct {
	Frames []*Frame
	pos    int
}

// Next implements FrameSource.
func (s *SliceSource) Next(ctx context.Context) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.Frames) {
		return nil, io.EOF
	}
	f := s.Frames[s.pos]
	s.pos++
	return f, nil
}

// SliceSink collects frames in memory.
type SliceSink struct {
	Frames []*Frame
}

// WriteFrame implements FrameSink.
func (s *SliceSink) WriteFrame(f *Frame) error {
	s.Frames = append(s.Frames, f)
	return nil
}

// ReadFrames drains src into memory.
func ReadFrames(ctx context.Context, src FrameSource) ([]*Frame, error) {
	var frames []*Frame
	for {
		f, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return frames, fmt.Errorf("read frame %d: %w", len(frames), err)
		}
		frames = append(frames, f)
	}
}

// PipelineOptions controls execution of Pipeline.Run.
type PipelineOptions struct {
	// Workers is the number of frames composited concurrently, GOMAXPROCS by default.
	Workers int
	Logger  logrus.FieldLogger
	// OnProgress is called from the writer after each frame with the number of frames written.
	OnProgress func(done int)
}

// Pipeline composites a foreground sequence over a fixed background sequence.
type Pipeline struct {
	cfg         Config
	backgrounds []*Frame
	dist        distanceFunc
	comp        *Compositor
	opt         PipelineOptions
}

// NewPipeline validates the configuration and backgrounds once for the whole run.
// All background frames must share one size; the foreground size is checked per frame.
func NewPipeline(cfg Config, backgrounds []*Frame, opts ...func(o *PipelineOptions)) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(backgrounds) == 0 {
		return nil, ErrEmptyBackgroundSource
	}
	for i, bg := range backgrounds {
		if !bg.valid() {
			return nil, fmt.Errorf("%w: background frame %d is malformed", ErrDimensionMismatch, i)
		}
		if bg.Width != backgrounds[0].Width || bg.Height != backgrounds[0].Height {
			return nil, fmt.Errorf("%w: background frame %d is %dx%d, expected %dx%d",
				ErrDimensionMismatch, i, bg.Width, bg.Height, backgrounds[0].Width, backgrounds[0].Height)
		}
	}

	opt := PipelineOptions{
		Workers: runtime.GOMAXPROCS(0),
		Logger:  logrus.StandardLogger(),
	}
	for _, applyOpt := range opts {
		applyOpt(&opt)
	}
	if opt.Workers < 1 {
		opt.Workers = 1
	}
	if opt.Logger == nil {
		opt.Logger = logrus.StandardLogger()
	}

	dist, _ := distanceFor(cfg.Metric)
	comp, err := NewCompositor(cfg.Foreground, cfg.Background, cfg.Key, cfg.Spill, func(o *CompositorOptions) {
		o.Blend = cfg.Blend
	})
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:         cfg,
		backgrounds: backgrounds,
		dist:        dist,
		comp:        comp,
		opt:         opt,
	}, nil
}

// Config returns the run configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Background returns the background frame paired with foreground index i.
func (p *Pipeline) Background(i int) *Frame {
	return p.backgrounds[p.cfg.Policy.Index(i, len(p.backgrounds))]
}

// Mask computes the (optionally feathered) alpha mask of a foreground frame.
func (p *Pipeline) Mask(fg *Frame) (*AlphaMask, error) {
	if !fg.valid() {
		return nil, fmt.Errorf("%w: malformed foreground frame", ErrDimensionMismatch)
	}
	m := computeMask(fg, p.cfg.Key, p.cfg.Tolerance, p.cfg.Softness, p.dist)
	return FeatherMask(m, p.cfg.Feather), nil
}

// Process composites foreground frame i.
func (p *Pipeline) Process(i int, fg *Frame) (*Frame, error) {
	m, err := p.Mask(fg)
	if err != nil {
		return nil, err
	}
	return p.comp.Composite(fg, p.Background(i), m)
}

type indexedFrame struct {
	index int
	frame *Frame
}

// Run composites every frame of src into sink and returns the number of frames written.
//
// Frames are processed concurrently but written strictly in order. Cancellation of ctx is
// checked between frames. The first error stops the run and is returned; no frame is skipped.
func (p *Pipeline) Run(ctx context.Context, src FrameSource, sink FrameSink) (int, error) {
	log := p.opt.Logger.WithFields(logrus.Fields{
		"run":         uuid.NewString(),
		"workers":     p.opt.Workers,
		"policy":      p.cfg.Policy.String(),
		"backgrounds": len(p.backgrounds),
		"key":         p.cfg.Key.String(),
	})
	log.Info("composite run started")
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan indexedFrame)
	results := make(chan indexedFrame, p.opt.Workers)
	// Bounds the number of decoded but not yet written frames.
	window := make(chan struct{}, p.opt.Workers*framesPerWorker)

	g.Go(func() error {
		defer close(jobs)
		for i := 0; ; i++ {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case window <- struct{}{}:
			}
			fg, err := src.Next(gctx)
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("read frame %d: %w", i, err)
			}
			select {
			case jobs <- indexedFrame{index: i, frame: fg}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	var workers sync.WaitGroup
	for w := 0; w < p.opt.Workers; w++ {
		workers.Add(1)
		g.Go(func() error {
			defer workers.Done()
			for j := range jobs {
				out, err := p.Process(j.index, j.frame)
				if err != nil {
					return fmt.Errorf("frame %d: %w", j.index, err)
				}
				select {
				case results <- indexedFrame{index: j.index, frame: out}:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		workers.Wait()
		close(results)
	}()

	written := 0
	g.Go(func() error {
		pending := make(map[int]*Frame, cap(window))
		for r := range results {
			if err := gctx.Err(); err != nil {
				return err
			}
			pending[r.index] = r.frame
			for {
				f, ok := pending[written]
				if !ok {
					break
				}
				delete(pending, written)
				if err := sink.WriteFrame(f); err != nil {
					return fmt.Errorf("write frame %d: %w", written, err)
				}
				log.WithField("frame", written).Debug("frame written")
				written++
				<-window
				if p.opt.OnProgress != nil {
					p.opt.OnProgress(written)
				}
			}
		}
		return nil
	})

	err := g.Wait()
	fields := logrus.Fields{"frames": written, "elapsed": time.Since(start).String()}
	if err != nil {
		log.WithFields(fields).WithError(err).Error("composite run aborted")
		return written, err
	}
	log.WithFields(fields).Info("composite run finished")
	return written, nil
}
