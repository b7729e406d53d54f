// Copyright 2025 MediaGenAI, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package render wraps the external ffmpeg/ffprobe executables behind the
// small surface the timeline assembler needs: clip extraction, concat, and
// duration probing. The binaries are treated as opaque tools; when they
// are missing the service runs in a degraded mode where deliverables carry
// a note instead of a media file.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/mediagenai/go-trailer-service/internal/config"
)

// Executor runs ffmpeg operations against local files.
type Executor struct {
	ffmpegPath  string
	ffprobePath string
	videoCodec  string
	audioCodec  string
	crf         int
}

// NewExecutor resolves the ffmpeg and ffprobe binaries from the renderer
// configuration, falling back to PATH lookup when the configured paths are
// empty. A missing binary returns an error; callers treat that as
// "renderer unavailable" rather than a startup failure.
func NewExecutor(cfg config.Renderer) (*Executor, error) {
	ffmpegPath := cfg.FFmpegPath
	if ffmpegPath == "" {
		p, err := exec.LookPath("ffmpeg")
		if err != nil {
			return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
		}
		ffmpegPath = p
	}

	ffprobePath := cfg.FFprobePath
	if ffprobePath == "" {
		p, err := exec.LookPath("ffprobe")
		if err != nil {
			return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
		}
		ffprobePath = p
	}

	return &Executor{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		videoCodec:  cfg.VideoCodec,
		audioCodec:  cfg.AudioCodec,
		crf:         cfg.CRF,
	}, nil
}

// run executes ffmpeg with the given arguments, logging stderr on failure.
func (e *Executor) run(ctx context.Context, args []string) error {
	base := []string{"-y", "-hide_banner", "-loglevel", "error"}
	full := append(base, args...)

	slog.Debug("executing ffmpeg", "args", full)

	cmd := exec.CommandContext(ctx, e.ffmpegPath, full...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg failed: %w: %s", err, string(out))
	}
	return nil
}

// ExtractClip cuts the [start, end) window out of the source video,
// re-encoding for frame-accurate boundaries.
func (e *Executor) ExtractClip(ctx context.Context, source string, start, end float64, output string) error {
	if end <= start {
		return fmt.Errorf("invalid clip window: end must be after start")
	}

	args := []string{
		"-ss", formatSeconds(start),
		"-t", formatSeconds(end - start),
		"-i", source,
		"-c:v", e.videoCodec,
		"-c:a", e.audioCodec,
		"-crf", fmt.Sprintf("%d", e.crf),
		output,
	}
	if err := e.run(ctx, args); err != nil {
		return fmt.Errorf("clip extraction failed: %w", err)
	}
	return nil
}

// Concat merges the input clips into a single output file using the
// concat demuxer. The clips share a codec (they were produced by
// ExtractClip), so streams are copied rather than re-encoded. The output
// container is forced to mp4 because callers write under temporary names
// ffmpeg cannot infer a format from.
func (e *Executor) Concat(ctx context.Context, inputs []string, output string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("no input files provided")
	}

	listFile, err := writeConcatList(inputs)
	if err != nil {
		return fmt.Errorf("failed to create concat list: %w", err)
	}
	defer os.Remove(listFile)

	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c", "copy",
		"-f", "mp4",
		output,
	}
	return e.run(ctx, args)
}

// writeConcatList generates the temporary file list the concat demuxer
// reads from.
func writeConcatList(inputs []string) (string, error) {
	tmpFile, err := os.CreateTemp("", "trailer-concat-*.txt")
	if err != nil {
		return "", err
	}
	defer tmpFile.Close()

	for _, input := range inputs {
		absPath, err := filepath.Abs(input)
		if err != nil {
			return "", err
		}
		if _, err := fmt.Fprintf(tmpFile, "file '%s'\n", absPath); err != nil {
			return "", err
		}
	}
	return tmpFile.Name(), nil
}

// formatSeconds renders a second offset the way ffmpeg expects it.
func formatSeconds(s float64) string {
	return fmt.Sprintf("%.3f", s)
}
