package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/vearutop/chromakey"
	"golang.org/x/term"
)

// keyFlags are the keying settings shared by subcommands.
// Explicitly set flags override values loaded from -config.
type keyFlags struct {
	config    *string
	key       *string
	tolerance *float64
	softness  *float64
	metric    *string
	spill     *float64
	feather   *float64
	policy    *string
	reverse   *bool
	blend     *string
	fit       *string
	interp    *string
	fgTone    toneFlags
	bgTone    toneFlags
	verbose   *bool
}

type toneFlags struct {
	brightness *float64
	contrast   *float64
	gamma      *float64
}

func registerKeyFlags(fs *flag.FlagSet) *keyFlags {
	d := chromakey.DefaultSettings()
	return &keyFlags{
		config:    fs.String("config", "", "keying preset, .json or .yaml"),
		key:       fs.String("key", d.Key.String(), "key color, #rrggbb, r,g,b or a name"),
		tolerance: fs.Float64("tolerance", float64(d.Tolerance), "color distance fully removed"),
		softness:  fs.Float64("softness", float64(d.Softness), "distance band of the opacity ramp"),
		metric:    fs.String("metric", d.Metric.String(), "color distance, euclidean or redmean"),
		spill:     fs.Float64("spill", float64(d.Spill), "spill suppression strength, 0..1"),
		feather:   fs.Float64("feather", d.Feather, "Gaussian sigma applied to the mask"),
		policy:    fs.String("policy", d.Policy.String(), "background sequencing: loop, static, reverse, pingpong"),
		reverse:   fs.Bool("reverse", false, "play background video in reverse, same as -policy reverse"),
		blend:     fs.String("blend", d.Blend.String(), "blend space: srgb or linear"),
		fit:       fs.String("fit", d.Fit, "background image fit: stretch or cover"),
		interp:    fs.String("interp", d.Interpolation, "background video interpolation"),
		fgTone:    registerToneFlags(fs, "fg", d.Foreground),
		bgTone:    registerToneFlags(fs, "bg", d.Background),
		verbose:   fs.Bool("v", false, "debug logging"),
	}
}

func registerToneFlags(fs *flag.FlagSet, prefix string, d chromakey.ToneAdjustment) toneFlags {
	return toneFlags{
		brightness: fs.Float64(prefix+"-brightness", float64(d.Brightness), prefix+" brightness offset"),
		contrast:   fs.Float64(prefix+"-contrast", float64(d.Contrast), prefix+" contrast scale"),
		gamma:      fs.Float64(prefix+"-gamma", float64(d.Gamma), prefix+" gamma, 0 disables"),
	}
}

// resolve loads the preset and applies explicitly set flags on top of it.
func (k *keyFlags) resolve(fs *flag.FlagSet) (chromakey.Settings, chromakey.Config, error) {
	s := chromakey.DefaultSettings()
	if *k.config != "" {
		var err error
		if s, err = chromakey.LoadSettings(*k.config); err != nil {
			return s, chromakey.Config{}, err
		}
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "key":
			s.Key, err = chromakey.ParseRGB(*k.key)
		case "tolerance":
			s.Tolerance = float32(*k.tolerance)
		case "softness":
			s.Softness = float32(*k.softness)
		case "metric":
			s.Metric, err = chromakey.ParseDistanceMetric(*k.metric)
		case "spill":
			s.Spill = float32(*k.spill)
		case "feather":
			s.Feather = *k.feather
		case "policy":
			s.Policy, err = chromakey.ParseBackgroundPolicy(*k.policy)
		case "reverse":
			if *k.reverse {
				s.Policy = chromakey.PolicyReverse
			}
		case "blend":
			s.Blend, err = chromakey.ParseBlendMode(*k.blend)
		case "fit":
			s.Fit = *k.fit
		case "interp":
			s.Interpolation = *k.interp
		case "fg-brightness":
			s.Foreground.Brightness = float32(*k.fgTone.brightness)
		case "fg-contrast":
			s.Foreground.Contrast = float32(*k.fgTone.contrast)
		case "fg-gamma":
			s.Foreground.Gamma = float32(*k.fgTone.gamma)
		case "bg-brightness":
			s.Background.Brightness = float32(*k.bgTone.brightness)
		case "bg-contrast":
			s.Background.Contrast = float32(*k.bgTone.contrast)
		case "bg-gamma":
			s.Background.Gamma = float32(*k.bgTone.gamma)
		}
		if err != nil {
			err = fmt.Errorf("-%s: %w", f.Name, err)
		}
	})
	if err != nil {
		return s, chromakey.Config{}, err
	}

	cfg, err := s.Config()
	return s, cfg, err
}

func newLogger(verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// progressLogger reports roughly every 5% of total, or every 100 frames when total is unknown.
func progressLogger(logger logrus.FieldLogger, total int) func(done int) {
	step := 100
	if total > 0 {
		step = max(total/20, 1)
	}
	return func(done int) {
		if done%step != 0 && done != total {
			return
		}
		fields := logrus.Fields{"frames": done}
		if total > 0 {
			fields["total"] = total
			fields["percent"] = 100 * done / total
		}
		logger.WithFields(fields).Info("progress")
	}
}
