package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/vearutop/chromakey"
	"github.com/vearutop/chromakey/internal/ffmpegio"
	"github.com/vearutop/chromakey/internal/media"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "composite":
		err = runComposite(ctx, os.Args[2:])
	case "snapshot":
		err = runSnapshot(ctx, os.Args[2:])
	case "mask":
		err = runMask(ctx, os.Args[2:])
	case "pick":
		err = runPick(ctx, os.Args[2:])
	case "preset":
		err = runPreset(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		stop()
		fail(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: chromatool <command> [args]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  composite -fg in.mp4 (-bg-image bg.png | -bg-video bg.mp4) -out out.mp4 [keying flags] [-workers 8] [-crf 18]")
	fmt.Fprintln(os.Stderr, "  snapshot  -fg in.mp4 (-bg-image bg.png | -bg-video bg.mp4) -frame 0 -out preview.png [keying flags]")
	fmt.Fprintln(os.Stderr, "  mask      -fg in.mp4 -frame 0 -out mask.png [keying flags]")
	fmt.Fprintln(os.Stderr, "  pick      -fg in.mp4 -frame 0 -rect x0,y0,x1,y1")
	fmt.Fprintln(os.Stderr, "  preset    -out preset.yaml [keying flags]")
	fmt.Fprintln(os.Stderr, "Keying flags:")
	fmt.Fprintln(os.Stderr, "  [-config preset.yaml] [-key #00ff00] [-tolerance 40] [-softness 20] [-metric euclidean|redmean]")
	fmt.Fprintln(os.Stderr, "  [-spill 0..1] [-feather sigma] [-policy loop|static|reverse|pingpong] [-reverse] [-blend srgb|linear]")
	fmt.Fprintln(os.Stderr, "  [-fg-brightness 0] [-fg-contrast 1] [-fg-gamma 0] [-bg-brightness 0] [-bg-contrast 1] [-bg-gamma 0]")
	fmt.Fprintln(os.Stderr, "  [-fit stretch|cover] [-interp bilinear] [-v]")
}

func runComposite(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("composite", flag.ContinueOnError)
	fgPath := fs.String("fg", "", "foreground video")
	bgImage := fs.String("bg-image", "", "background image")
	bgVideo := fs.String("bg-video", "", "background video")
	outPath := fs.String("out", "", "output video")
	workers := fs.Int("workers", 0, "frames composited concurrently, 0 for GOMAXPROCS")
	crf := fs.Int("crf", 18, "output constant rate factor")
	codec := fs.String("codec", "libx264", "output video encoder")
	kf := registerKeyFlags(fs)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *fgPath == "" || *outPath == "" || (*bgImage == "") == (*bgVideo == "") {
		return errors.New("missing required arguments")
	}

	logger := newLogger(*kf.verbose)
	settings, cfg, err := kf.resolve(fs)
	if err != nil {
		return err
	}

	info, err := ffmpegio.Probe(*fgPath)
	if err != nil {
		return err
	}
	backgrounds, err := loadBackgrounds(ctx, *bgImage, *bgVideo, info.Width, info.Height, settings)
	if err != nil {
		return err
	}

	p, err := chromakey.NewPipeline(cfg, backgrounds, func(o *chromakey.PipelineOptions) {
		if *workers > 0 {
			o.Workers = *workers
		}
		o.Logger = logger
		o.OnProgress = progressLogger(logger, info.Frames)
	})
	if err != nil {
		return err
	}

	dec, err := ffmpegio.NewDecoder(ctx, *fgPath, info.Width, info.Height)
	if err != nil {
		return err
	}
	defer dec.Close()

	enc, err := ffmpegio.NewEncoder(ctx, *outPath, info.Width, info.Height, info.FPS, func(o *ffmpegio.EncodeOptions) {
		o.Codec = *codec
		o.CRF = *crf
	})
	if err != nil {
		return err
	}

	n, runErr := p.Run(ctx, dec, enc)
	if err := enc.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return fmt.Errorf("composite stopped after %d frames: %w", n, runErr)
	}

	logger.WithFields(logrus.Fields{"frames": n, "out": *outPath}).Info("export complete")
	return nil
}

func runSnapshot(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	fgPath := fs.String("fg", "", "foreground video")
	bgImage := fs.String("bg-image", "", "background image")
	bgVideo := fs.String("bg-video", "", "background video")
	outPath := fs.String("out", "", "output image, .png or .jpg")
	index := fs.Int("frame", 0, "foreground frame index")
	quality := fs.Int("q", 90, "JPEG quality")
	kf := registerKeyFlags(fs)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *fgPath == "" || *outPath == "" || *index < 0 || (*bgImage == "") == (*bgVideo == "") {
		return errors.New("missing required arguments")
	}

	logger := newLogger(*kf.verbose)
	settings, cfg, err := kf.resolve(fs)
	if err != nil {
		return err
	}

	fg, err := readFrameAt(ctx, *fgPath, *index)
	if err != nil {
		return err
	}
	backgrounds, err := loadBackgrounds(ctx, *bgImage, *bgVideo, fg.Width, fg.Height, settings)
	if err != nil {
		return err
	}
	p, err := chromakey.NewPipeline(cfg, backgrounds, func(o *chromakey.PipelineOptions) {
		o.Logger = logger
	})
	if err != nil {
		return err
	}
	out, err := p.Process(*index, fg)
	if err != nil {
		return err
	}
	return media.SaveImage(*outPath, out, *quality)
}

func runMask(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("mask", flag.ContinueOnError)
	fgPath := fs.String("fg", "", "foreground video")
	outPath := fs.String("out", "", "output image, .png or .jpg")
	index := fs.Int("frame", 0, "foreground frame index")
	kf := registerKeyFlags(fs)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *fgPath == "" || *outPath == "" || *index < 0 {
		return errors.New("missing required arguments")
	}

	_, cfg, err := kf.resolve(fs)
	if err != nil {
		return err
	}
	fg, err := readFrameAt(ctx, *fgPath, *index)
	if err != nil {
		return err
	}
	m, err := chromakey.ComputeMask(fg, cfg.Key, cfg.Tolerance, cfg.Softness, cfg.Metric)
	if err != nil {
		return err
	}
	return media.SaveImage(*outPath, chromakey.FeatherMask(m, cfg.Feather).Gray(), 95)
}

func runPick(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("pick", flag.ContinueOnError)
	fgPath := fs.String("fg", "", "foreground video")
	index := fs.Int("frame", 0, "foreground frame index")
	rect := fs.String("rect", "", "sample rectangle x0,y0,x1,y1")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *fgPath == "" || *rect == "" || *index < 0 {
		return errors.New("missing required arguments")
	}

	r, err := parseRect(*rect)
	if err != nil {
		return err
	}
	fg, err := readFrameAt(ctx, *fgPath, *index)
	if err != nil {
		return err
	}
	c, err := chromakey.SampleKeyColor(fg, r)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s R=%d G=%d B=%d\n", c, c.R, c.G, c.B)
	return nil
}

func runPreset(args []string) error {
	fs := flag.NewFlagSet("preset", flag.ContinueOnError)
	outPath := fs.String("out", "", "preset file, .json or .yaml")
	kf := registerKeyFlags(fs)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *outPath == "" {
		return errors.New("missing required arguments")
	}
	settings, _, err := kf.resolve(fs)
	if err != nil {
		return err
	}
	return chromakey.SaveSettings(*outPath, settings)
}

func loadBackgrounds(ctx context.Context, imagePath, videoPath string, w, h int, s chromakey.Settings) ([]*chromakey.Frame, error) {
	if imagePath != "" {
		mode, err := media.ParseFitMode(s.Fit)
		if err != nil {
			return nil, err
		}
		f, err := media.LoadFrame(imagePath, w, h, mode)
		if err != nil {
			return nil, err
		}
		return []*chromakey.Frame{f}, nil
	}

	interp, err := chromakey.ParseInterpolation(s.Interpolation)
	if err != nil {
		return nil, err
	}
	info, err := ffmpegio.Probe(videoPath)
	if err != nil {
		return nil, err
	}
	frames, err := ffmpegio.ReadAll(ctx, videoPath, info.Width, info.Height)
	if err != nil {
		return nil, err
	}
	return chromakey.FitBackgrounds(frames, w, h, interp)
}

func readFrameAt(ctx context.Context, path string, index int) (*chromakey.Frame, error) {
	info, err := ffmpegio.Probe(path)
	if err != nil {
		return nil, err
	}
	dec, err := ffmpegio.NewDecoder(ctx, path, info.Width, info.Height)
	if err != nil {
		return nil, err
	}
	// ffmpeg exits with a broken pipe once we stop reading early.
	defer func() { _ = dec.Close() }()

	for i := 0; ; i++ {
		f, err := dec.Next(ctx)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", index, err)
		}
		if i == index {
			return f, nil
		}
	}
}

func parseRect(s string) (image.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("invalid rectangle %q", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("invalid rectangle %q: %w", s, err)
		}
		v[i] = n
	}
	return image.Rect(v[0], v[1], v[2], v[3]), nil
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
