package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	DefaultFolder string `koanf:"default_folder"` // starting directory (empty means cwd)
	LogLevel      string `koanf:"log_level"`      // "debug", "info", "warn", "error" (default: "warn")

	// Lyrics fetching and processing
	Lyrics LyricsConfig `koanf:"lyrics"`

	// Cover art fetching
	Covers CoversConfig `koanf:"covers"`

	// Audio format conversion
	Convert ConvertConfig `koanf:"convert"`

	// lrclib.net endpoint
	Lrclib LrclibConfig `koanf:"lrclib"`

	// MusicBrainz endpoints
	MusicBrainz MusicBrainzConfig `koanf:"musicbrainz"`
}

// LyricsConfig holds lyrics pipeline configuration.
type LyricsConfig struct {
	Romanize bool  `koanf:"romanize"` // romanize lyrics for the whole batch by default
	Extract  bool  `koanf:"extract"`  // write .lrc sidecars on save by default
	Cache    *bool `koanf:"cache"`    // cache fetched lyrics on disk (default: true)
}

// CoversConfig holds cover art pipeline configuration.
type CoversConfig struct {
	Replace bool `koanf:"replace"`  // refetch covers for files that already embed one
	MaxSize int  `koanf:"max_size"` // downscale bound in pixels (default: 1200)
}

// ConvertConfig holds audio conversion configuration.
type ConvertConfig struct {
	Format     string `koanf:"format"`      // target extension, e.g. "mp3" (default: "mp3")
	Bitrate    string `koanf:"bitrate"`     // lossy encoder bitrate (default: "320k")
	FfmpegPath string `koanf:"ffmpeg_path"` // ffmpeg binary (default: resolved from PATH)
}

// LrclibConfig holds the lrclib.net endpoint override.
type LrclibConfig struct {
	BaseURL string `koanf:"base_url"`
}

// MusicBrainzConfig holds MusicBrainz endpoint overrides.
type MusicBrainzConfig struct {
	BaseURL     string `koanf:"base_url"`
	CoverartURL string `koanf:"coverart_url"`
}

const (
	defaultCoverSize = 1200
	defaultLogLevel  = "warn"
)

// Load merges every config file that exists, in load order, so the
// working directory config overrides the one under ~/.config.
func Load() (*Config, error) {
	k := koanf.New(".")

	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	cfg.DefaultFolder = expandPath(cfg.DefaultFolder)
	cfg.Convert.FfmpegPath = expandPath(cfg.Convert.FfmpegPath)

	// The API clients append /-prefixed paths to these.
	cfg.Lrclib.BaseURL = strings.TrimSuffix(cfg.Lrclib.BaseURL, "/")
	cfg.MusicBrainz.BaseURL = strings.TrimSuffix(cfg.MusicBrainz.BaseURL, "/")
	cfg.MusicBrainz.CoverartURL = strings.TrimSuffix(cfg.MusicBrainz.CoverartURL, "/")

	return &cfg, nil
}

// getConfigPaths lists candidate config files in load order.
func getConfigPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "sleeve", "config.toml"))
	}
	return append(paths, "config.toml")
}

// expandPath resolves a leading tilde against the home directory.
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// CacheLyrics reports whether fetched lyrics should be cached on disk.
// Unset means true.
func (c *Config) CacheLyrics() bool {
	return c.Lyrics.Cache == nil || *c.Lyrics.Cache
}

// GetCoversConfig returns the cover art configuration with defaults
// applied.
func (c *Config) GetCoversConfig() CoversConfig {
	covers := c.Covers
	if covers.MaxSize <= 0 {
		covers.MaxSize = defaultCoverSize
	}
	return covers
}

// GetLogLevel returns the configured log level, defaulting to warn.
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return defaultLogLevel
	}
	return c.LogLevel
}
