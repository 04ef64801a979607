// Package ffmpegio decodes and encodes raw RGB frame sequences through an ffmpeg process.
package ffmpegio

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const defaultFPS = 30

// VideoInfo describes the first video stream of a file.
type VideoInfo struct {
	Width  int
	Height int
	FPS    float64
	// Frames is the frame count reported by the container, or an estimate from duration, 0 if unknown.
	Frames int
}

type probeResult struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		NbFrames     string `json:"nb_frames"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
		Duration     string `json:"duration"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe runs ffprobe on path.
func Probe(path string) (*VideoInfo, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return parseProbe([]byte(out))
}

func parseProbe(data []byte) (*VideoInfo, error) {
	var pr probeResult
	if err := json.Unmarshal(data, &pr); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}

	for _, s := range pr.Streams {
		if s.CodecType != "video" {
			continue
		}
		if s.Width <= 0 || s.Height <= 0 {
			return nil, fmt.Errorf("invalid video dimensions %dx%d", s.Width, s.Height)
		}
		info := &VideoInfo{Width: s.Width, Height: s.Height}

		info.FPS = parseRate(s.AvgFrameRate)
		if info.FPS == 0 {
			info.FPS = parseRate(s.RFrameRate)
		}
		if info.FPS == 0 {
			info.FPS = defaultFPS
		}

		if n, err := strconv.Atoi(s.NbFrames); err == nil && n > 0 {
			info.Frames = n
		} else {
			dur := s.Duration
			if dur == "" {
				dur = pr.Format.Duration
			}
			if d, err := strconv.ParseFloat(dur, 64); err == nil && d > 0 {
				info.Frames = int(d*info.FPS + 0.5)
			}
		}
		return info, nil
	}

	return nil, errors.New("no video stream found")
}

// parseRate parses ffprobe rationals like "30000/1001", returning 0 when unusable.
func parseRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 {
			return 0
		}
		return v
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || n <= 0 || d <= 0 {
		return 0
	}
	return n / d
}
