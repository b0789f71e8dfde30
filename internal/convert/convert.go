// Package convert transcodes audio files to a target format with
// ffmpeg, preserving tags. Files already in the target format are
// skipped rather than re-encoded.
package convert

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/sleeve/internal/media"
)

const (
	// DefaultFormat is the target container/codec when none is configured.
	DefaultFormat = "mp3"
	// DefaultBitrate is the encoder bitrate for lossy targets.
	DefaultBitrate = "320k"
)

// Converter runs ffmpeg to produce a transcoded sibling of the input
// file. The original file is left in place.
type Converter struct {
	format     string // target extension without the dot
	bitrate    string
	ffmpegPath string
	log        logrus.FieldLogger
}

// New creates a converter. Empty arguments select the defaults; an
// empty ffmpegPath resolves "ffmpeg" from PATH.
func New(format, bitrate, ffmpegPath string, log logrus.FieldLogger) *Converter {
	if format == "" {
		format = DefaultFormat
	}
	if bitrate == "" {
		bitrate = DefaultBitrate
	}
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Converter{
		format:     strings.ToLower(strings.TrimPrefix(format, ".")),
		bitrate:    bitrate,
		ffmpegPath: ffmpegPath,
		log:        log,
	}
}

var _ media.ConvertService = (*Converter)(nil)

// Convert transcodes path to the target format and returns the path of
// the produced file. An empty path with a nil error means the file is
// already in the target format. An artifact that already exists is
// returned as-is rather than re-encoded.
func (c *Converter) Convert(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == c.format {
		return "", nil
	}

	codec, err := codecArgs(c.format, c.bitrate)
	if err != nil {
		return "", err
	}

	dst := strings.TrimSuffix(path, filepath.Ext(path)) + "." + c.format
	if _, err := os.Stat(dst); err == nil {
		c.log.WithField("path", dst).Debug("conversion artifact already exists, skipping")
		return dst, nil
	}

	ffmpeg, err := exec.LookPath(c.ffmpegPath)
	if err != nil {
		return "", fmt.Errorf("ffmpeg not found: %w", err)
	}

	args := []string{"-i", path}
	args = append(args, codec...)
	args = append(args,
		"-map_metadata", "0", // Preserve tags
		"-vn", // No video stream; embedded covers are re-added at save
		"-y",
		dst,
	)

	cmd := exec.CommandContext(ctx, ffmpeg, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		// Clean up partial file
		os.Remove(dst)
		return "", fmt.Errorf("ffmpeg conversion failed: %w\n%s", err, string(output))
	}

	return dst, nil
}

// codecArgs returns the encoder arguments for a target format.
func codecArgs(format, bitrate string) ([]string, error) {
	switch format {
	case "mp3":
		return []string{"-codec:a", "libmp3lame", "-b:a", bitrate, "-id3v2_version", "3"}, nil
	case "m4a":
		return []string{"-codec:a", "aac", "-b:a", bitrate}, nil
	case "ogg":
		return []string{"-codec:a", "libvorbis", "-b:a", bitrate}, nil
	case "opus":
		return []string{"-codec:a", "libopus", "-b:a", bitrate}, nil
	case "flac":
		return []string{"-codec:a", "flac"}, nil
	default:
		return nil, fmt.Errorf("unsupported target format %q", format)
	}
}
