package probe

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// Result reports the measurements for one media file. Nil fields mean the value
// could not be determined. Error is set iff the file could not be read.
type Result struct {
	Path            string   `json:"path"`
	Filename        string   `json:"filename"`
	VideoDuration   *float64 `json:"video_duration"`
	VideoFPS        *float64 `json:"video_fps"`
	VideoFrames     *int64   `json:"video_frames"`
	VideoResolution *string  `json:"video_resolution"`
	AudioDuration   *float64 `json:"audio_duration"`
	AudioSampleRate *float64 `json:"audio_sample_rate"`
	AudioSamples    *int64   `json:"audio_samples"`
	Error           *string  `json:"error"`
}

// Failed reports whether the file could not be read.
func (r Result) Failed() bool { return r.Error != nil }

// Duration returns the duration for media "video" or "audio".
func (r Result) Duration(media string) (float64, bool) {
	var d *float64
	switch strings.ToLower(media) {
	case "video":
		d = r.VideoDuration
	case "audio":
		d = r.AudioDuration
	}
	if d == nil {
		return 0, false
	}
	return *d, true
}

// ErrorResult builds the Result for a file that could not be read.
func ErrorResult(path string, err error) Result {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Result{Path: path, Filename: filepath.Base(path), Error: &msg}
}

// Prober measures one media file. Implementations never fail; unreadable
// files produce a Result with Error set.
type Prober interface {
	Probe(ctx context.Context, path string) Result
}

// FFprobe is a Prober backed by the ffprobe binary.
type FFprobe struct {
	Binary string
}

// Probe implements Prober.
func (f FFprobe) Probe(ctx context.Context, path string) Result {
	out, err := Inspect(ctx, f.Binary, path)
	if err != nil {
		return ErrorResult(path, err)
	}
	return FromOutput(path, out)
}

// FromOutput derives a Result from parsed ffprobe output. Video duration is
// frames/fps when both are known, else the stream duration. Audio duration is
// samples/sample rate. A file with no decodable streams is reported as an error.
func FromOutput(path string, out Output) Result {
	res := Result{Path: path, Filename: filepath.Base(path)}
	video, hasVideo := out.FirstStream("video")
	audio, hasAudio := out.FirstStream("audio")
	if !hasVideo && !hasAudio {
		return ErrorResult(path, fmt.Errorf("no audio or video streams"))
	}

	if hasVideo {
		fps := parseRational(video.AvgFrameRate)
		if fps == 0 {
			fps = parseRational(video.RFrameRate)
		}
		frames := parseInt(video.NBReadFrames)
		if frames == 0 {
			frames = parseInt(video.NBFrames)
		}
		streamDuration := positive(parseFloat(video.Duration))
		if frames == 0 && fps > 0 && streamDuration > 0 {
			frames = int64(math.Round(streamDuration * fps))
		}
		res.VideoFrames = &frames
		if fps > 0 {
			res.VideoFPS = &fps
			if frames > 0 {
				d := float64(frames) / fps
				res.VideoDuration = &d
			}
		}
		if res.VideoDuration == nil && streamDuration > 0 {
			res.VideoDuration = &streamDuration
		}
		if video.Width > 0 && video.Height > 0 {
			resolution := fmt.Sprintf("%dx%d", video.Width, video.Height)
			res.VideoResolution = &resolution
		}
	}

	var samples int64
	if hasAudio {
		rate := parseFloat(audio.SampleRate)
		if rate > 0 && !math.IsNaN(rate) {
			res.AudioSampleRate = &rate
			samples = audioSamples(audio, rate)
			if samples > 0 {
				d := float64(samples) / rate
				res.AudioDuration = &d
			}
		}
	}
	res.AudioSamples = &samples
	return res
}

// audioSamples prefers the exact duration_ts when the time base is one sample,
// falling back to the rounded stream duration.
func audioSamples(s Stream, rate float64) int64 {
	if s.DurationTS > 0 && parseRational(s.TimeBase) == 1/rate {
		return s.DurationTS
	}
	if d := positive(parseFloat(s.Duration)); d > 0 {
		return int64(math.Round(d * rate))
	}
	return 0
}

func positive(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
