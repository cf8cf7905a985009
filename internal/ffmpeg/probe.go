package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// probeTimeout bounds the version query; -version returns near-instantly on
// a healthy install.
const probeTimeout = 5 * time.Second

// Info describes an ffmpeg installation as reported by `ffmpeg -version`.
type Info struct {
	// Version is the banner line, e.g. "ffmpeg version 6.1.1 ...".
	Version string
	// Configuration is the build configuration line, without the
	// "configuration:" prefix.
	Configuration string
	// Libraries holds the component library lines (libavutil, libavcodec, ...).
	Libraries []string
}

// Probe runs `ffmpeg -version` and parses the output. It returns
// ErrUnavailable (wrapped) when the binary cannot be spawned or exits
// non-zero.
func (c *Converter) Probe(ctx context.Context) (*Info, error) {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(probeCtx, c.opts.Binary, "-version")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return parseVersionOutput(string(output)), nil
}

// parseVersionOutput extracts the banner, configuration and library lines
// from `ffmpeg -version` output.
func parseVersionOutput(output string) *Info {
	info := &Info{}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "ffmpeg version"):
			info.Version = line
		case strings.HasPrefix(line, "configuration:"):
			info.Configuration = strings.TrimSpace(strings.TrimPrefix(line, "configuration:"))
		case strings.HasPrefix(line, "lib"):
			info.Libraries = append(info.Libraries, line)
		}
	}

	return info
}
