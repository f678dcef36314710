package deps

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// MediaRequirements lists the binaries the media commands shell out to.
func MediaRequirements(ffmpeg, ffprobe string) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     ffmpeg,
			Description: "Required by reencode",
		},
		{
			Name:        "FFprobe",
			Command:     ffprobe,
			Description: "Required by probe",
		},
	}
}

// Version returns the first line of "<command> -version", or "" when the
// binary cannot be run.
func Version(ctx context.Context, command string) string {
	command = strings.TrimSpace(command)
	if command == "" {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, command, "-version").Output()
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line)
}
