package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/sleeve/internal/batch"
	"github.com/llehouerou/sleeve/internal/config"
	"github.com/llehouerou/sleeve/internal/convert"
	"github.com/llehouerou/sleeve/internal/enrich"
	"github.com/llehouerou/sleeve/internal/fsys"
	"github.com/llehouerou/sleeve/internal/lrclib"
	"github.com/llehouerou/sleeve/internal/lyrics"
	"github.com/llehouerou/sleeve/internal/media"
	"github.com/llehouerou/sleeve/internal/musicbrainz"
	"github.com/llehouerou/sleeve/internal/nav"
	"github.com/llehouerou/sleeve/internal/romanize"
	"github.com/llehouerou/sleeve/internal/save"
	"github.com/llehouerou/sleeve/internal/state"
	"github.com/llehouerou/sleeve/internal/tags"
)

// options is the command-line surface: which directory to open, the
// template edits, and which pipelines to run over the batch.
type options struct {
	dir      string
	logLevel string

	analyze bool
	list    bool
	sets    []templateEdit

	fetchLyrics bool
	fetchCovers bool
	convert     bool
	save        bool

	romanize      bool
	extract       bool
	replaceCovers bool
}

// templateEdit is one parsed -set field=value argument.
type templateEdit struct {
	field batch.Field
	value string
}

// anyAction reports whether any flag beyond directory selection was
// given. With none, the default action is listing the batch.
func (o *options) anyAction() bool {
	return o.analyze || o.list || len(o.sets) > 0 ||
		o.fetchLyrics || o.fetchCovers || o.convert || o.save
}

func parseFlags() *options {
	opts := &options{}
	flag.StringVar(&opts.dir, "dir", "", "directory to open (default: last session, then config default_folder, then cwd)")
	flag.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)")
	flag.BoolVar(&opts.analyze, "analyze", false, "print the per-field value distribution of the batch")
	flag.BoolVar(&opts.list, "list", false, "list the batch files with their tags")
	flag.Func("set", "template edit as field=value, repeatable; fields: artist, albumartist, album, genre, year (combine with -save)", func(v string) error {
		name, value, ok := strings.Cut(v, "=")
		if !ok {
			return fmt.Errorf("want field=value, got %q", v)
		}
		field, err := batch.ParseField(name)
		if err != nil {
			return err
		}
		opts.sets = append(opts.sets, templateEdit{field: field, value: value})
		return nil
	})
	flag.BoolVar(&opts.fetchLyrics, "lyrics", false, "fetch lyrics for the batch")
	flag.BoolVar(&opts.fetchCovers, "covers", false, "fetch covers for the batch")
	flag.BoolVar(&opts.convert, "convert", false, "transcode the batch to the configured format")
	flag.BoolVar(&opts.save, "save", false, "commit pending changes to the files")
	flag.BoolVar(&opts.romanize, "romanize", false, "romanize fetched and saved lyrics")
	flag.BoolVar(&opts.extract, "extract-lyrics", false, "write .lrc sidecars on save")
	flag.BoolVar(&opts.replaceCovers, "replace-covers", false, "fetch covers even for files that already have one")
	flag.Parse()
	return opts
}

func main() {
	opts := parseFlags()
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "sleeve: %v\n", err)
		os.Exit(1)
	}
}

func run(opts *options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := newLogger(cfg, opts.logLevel)

	// A broken state store costs persistence, not the session.
	var st state.Interface
	if mgr, err := state.Open(); err != nil {
		log.WithError(err).Warn("state store unavailable, navigation will not be persisted")
	} else {
		st = mgr
		defer mgr.Close()
	}

	fileSvc := fsys.New()
	tagSvc := tags.NewStore()
	romanizer := romanize.New()

	cacheDir := ""
	if cfg.CacheLyrics() {
		cacheDir = lyrics.DefaultCacheDir()
	}
	lyricsSrc := lyrics.NewSource(lrclib.New(cfg.Lrclib.BaseURL), cacheDir, log)
	mb := musicbrainz.NewClient(cfg.MusicBrainz.BaseURL, cfg.MusicBrainz.CoverartURL)
	coverSrc := musicbrainz.NewCoverSource(mb, cfg.GetCoversConfig().MaxSize, log)
	converter := convert.New(cfg.Convert.Format, cfg.Convert.Bitrate, cfg.Convert.FfmpegPath, log)

	ctl := nav.New(fileSvc, tagSvc, st, log)
	if err := openDirectory(ctl, cfg, opts.dir); err != nil {
		return err
	}
	if err := ctl.ToggleBatchMode(true); err != nil {
		return err
	}
	sess := ctl.Session()
	fmt.Printf("%s: %d files\n", ctl.CurrentPath(), sess.Len())

	applyTemplate(sess.Template, cfg, opts)

	if !opts.anyAction() {
		opts.list = true
	}
	if opts.analyze {
		printAnalysis(os.Stdout, ctl.Analyze())
	}

	obs := &consoleObserver{out: os.Stdout}
	ctx := context.Background()
	orch := enrich.New(tagSvc, fileSvc, lyricsSrc, romanizer, coverSrc, converter, log)

	if opts.fetchLyrics {
		if _, err := orch.FetchLyrics(ctx, sess, obs); err != nil {
			return fmt.Errorf("lyrics pipeline: %w", err)
		}
	}
	if opts.fetchCovers {
		if _, err := orch.FetchCovers(ctx, sess, obs); err != nil {
			return fmt.Errorf("cover pipeline: %w", err)
		}
	}
	if opts.convert {
		if _, err := orch.Convert(ctx, sess, obs); err != nil {
			return fmt.Errorf("convert pipeline: %w", err)
		}
	}

	if opts.save {
		engine := save.New(tagSvc, fileSvc, romanizer, log)
		if _, err := engine.CommitBatch(sess, obs); err != nil {
			return fmt.Errorf("save: %w", err)
		}
	}

	if opts.list {
		printItems(os.Stdout, sess.Items)
	}
	return nil
}

// newLogger builds the process logger: text to stderr, level from the
// flag when given, otherwise from config.
func newLogger(cfg *config.Config, override string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	name := cfg.GetLogLevel()
	if override != "" {
		name = override
	}
	level, err := logrus.ParseLevel(name)
	if err != nil {
		level = logrus.WarnLevel
	}
	log.SetLevel(level)
	return log
}

// openDirectory resolves the starting directory: the -dir flag, then
// the saved session, then the configured default folder, then the
// working directory.
func openDirectory(ctl *nav.Controller, cfg *config.Config, dir string) error {
	if dir != "" {
		return ctl.ScanDirectory(dir)
	}
	if ctl.Restore() {
		return nil
	}
	start := cfg.DefaultFolder
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}
		start = wd
	}
	return ctl.ScanDirectory(start)
}

// applyTemplate layers config defaults and command-line edits onto the
// session template. Behavior flags are additive: config enables, flags
// can only turn more on.
func applyTemplate(tpl *batch.Template, cfg *config.Config, opts *options) {
	tpl.Romanize = cfg.Lyrics.Romanize || opts.romanize
	tpl.ExtractLyrics = cfg.Lyrics.Extract || opts.extract
	tpl.ReplaceCovers = cfg.Covers.Replace || opts.replaceCovers
	for _, e := range opts.sets {
		tpl.Set(e.field, e.value)
	}
}

// printAnalysis renders the per-field value distribution, most frequent
// value first. Uniform fields are flagged; a template edit there would
// change nothing.
func printAnalysis(w io.Writer, reports []batch.FieldReport) {
	for _, r := range reports {
		label := string(r.Field)
		if r.Uniform() {
			label += " (uniform)"
		}
		fmt.Fprintf(w, "%s:\n", label)
		for _, v := range r.Values {
			value := v.Value
			if value == "" {
				value = "<unset>"
			}
			fmt.Fprintf(w, "  %4d  %s\n", v.Count, value)
		}
	}
}

// printItems lists the batch with the tag fields the engine edits.
func printItems(w io.Writer, items []media.Item) {
	for i := range items {
		item := &items[i]
		if !item.Loaded() {
			fmt.Fprintf(w, "%3d. %s: tags unreadable\n", i+1, item.DisplayName())
			continue
		}
		t := item.Tag
		fmt.Fprintf(w, "%3d. %s [%s]\n", i+1, item.DisplayName(), formatDuration(item.Duration))
		fmt.Fprintf(w, "     %s / %s / %s\n", orDash(t.Artist), orDash(t.Album), orDash(t.Title))
		if item.Pending.Status != "" {
			fmt.Fprintf(w, "     status: %s\n", item.Pending.Status)
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

// consoleObserver prints one line per settled item and a summary line
// per pipeline run.
type consoleObserver struct {
	out   io.Writer
	total int
}

var _ media.Observer = (*consoleObserver)(nil)

func (o *consoleObserver) PipelineStarted(name string, total int) {
	o.total = total
	fmt.Fprintf(o.out, "%s: %d files\n", name, total)
}

func (o *consoleObserver) ItemUpdated(index int, item media.Item) {
	if item.Pending.Busy {
		return
	}
	line := fmt.Sprintf("  [%d/%d] %s: %s", index+1, o.total, item.DisplayName(), item.Pending.Status)
	if data, ok := item.Pending.Cover.Get(); ok && len(data) > 0 {
		line += fmt.Sprintf(" (%s)", humanize.IBytes(uint64(len(data)))) //nolint:gosec // len is non-negative
	}
	fmt.Fprintln(o.out, line)
}

func (o *consoleObserver) PipelineFinished(name, summary string) {
	fmt.Fprintf(o.out, "%s: %s\n", name, summary)
}
