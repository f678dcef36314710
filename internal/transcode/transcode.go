// Package transcode re-encodes dataset clips to a fixed frame rate, audio
// sample rate and minimum edge, and extracts a mono PCM wav beside each one.
package transcode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"curator/internal/batcherr"
)

// Params are the re-encode settings.
type Params struct {
	FPS        int
	SampleRate int
	MinEdge    int
}

// DefaultParams matches the dataset's training input.
var DefaultParams = Params{FPS: 25, SampleRate: 16000, MinEdge: 256}

// Validate rejects non-positive settings and an odd minimum edge.
func (p Params) Validate() error {
	switch {
	case p.FPS <= 0:
		return batcherr.Wrap(batcherr.ErrConfiguration, "transcode", fmt.Sprintf("fps must be positive, got %d", p.FPS), nil)
	case p.SampleRate <= 0:
		return batcherr.Wrap(batcherr.ErrConfiguration, "transcode", fmt.Sprintf("sample rate must be positive, got %d", p.SampleRate), nil)
	case p.MinEdge <= 0 || p.MinEdge%2 != 0:
		return batcherr.Wrap(batcherr.ErrConfiguration, "transcode", fmt.Sprintf("min edge must be a positive even number, got %d", p.MinEdge), nil)
	}
	return nil
}

// Transcoder runs ffmpeg for one input file.
type Transcoder struct {
	Binary string
}

// Outputs are the files written for one input.
type Outputs struct {
	Video string
	Audio string
}

// OutputsFor returns where Transcode writes input's results inside dir: the
// video keeps its stem and extension, the wav shares the stem.
func OutputsFor(input, dir string) Outputs {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return Outputs{
		Video: filepath.Join(dir, base),
		Audio: filepath.Join(dir, stem+".wav"),
	}
}

// Transcode re-encodes input into dir and extracts the wav sibling. Either
// ffmpeg pass failing returns a batcherr.ErrToolInvocation error.
func (t Transcoder) Transcode(ctx context.Context, input, dir string, p Params) (Outputs, error) {
	out := OutputsFor(input, dir)
	if filepath.Clean(out.Video) == filepath.Clean(input) {
		return out, batcherr.Wrap(batcherr.ErrTaskFailure, "transcode", "output would overwrite input "+input, nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return out, batcherr.Wrap(batcherr.ErrTaskFailure, "transcode", "create output directory", err)
	}
	if err := t.run(ctx, VideoArgs(input, out.Video, p)); err != nil {
		return out, err
	}
	if err := t.run(ctx, AudioArgs(out.Video, out.Audio)); err != nil {
		return out, err
	}
	return out, nil
}

// VideoArgs builds the first pass: resample fps, scale the shorter edge to
// MinEdge, crop to even dimensions and resample audio.
func VideoArgs(input, output string, p Params) []string {
	filter := fmt.Sprintf(
		"fps=%d,scale=iw*%d/'min(iw,ih)':ih*%d/'min(iw,ih)',crop='trunc(iw/2)'*2:'trunc(ih/2)'*2",
		p.FPS, p.MinEdge, p.MinEdge,
	)
	return []string{
		"-hide_banner", "-loglevel", "panic",
		"-y", "-i", input,
		"-vf", filter,
		"-ar", fmt.Sprint(p.SampleRate),
		output,
	}
}

// AudioArgs builds the second pass: 16-bit mono PCM from the re-encoded video.
func AudioArgs(video, wav string) []string {
	return []string{
		"-hide_banner", "-loglevel", "panic",
		"-y", "-i", video,
		"-acodec", "pcm_s16le", "-ac", "1",
		wav,
	}
}

func (t Transcoder) run(ctx context.Context, args []string) error {
	binary := strings.TrimSpace(t.Binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, binary, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && detail == "" {
			detail = fmt.Sprintf("exit status %d", exitErr.ExitCode())
		}
		return batcherr.Wrap(batcherr.ErrToolInvocation, "ffmpeg", detail, err)
	}
	return nil
}
