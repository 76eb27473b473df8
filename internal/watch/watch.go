// Package watch writes trending snapshots on a cron schedule.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/robfig/cron/v3"

	"github.com/jonesrussell/trendscout/internal/app"
	"github.com/jonesrussell/trendscout/internal/domain"
	"github.com/jonesrussell/trendscout/internal/logger"
	"github.com/jonesrussell/trendscout/internal/metrics"
	"github.com/jonesrussell/trendscout/internal/output"
	"github.com/jonesrussell/trendscout/internal/render"
)

// Defaults applied by New.
const (
	DefaultSchedule = "@every 1h"
	DefaultDir      = "snapshots"
	// allLanguages names snapshots taken without a language filter.
	allLanguages    = "all"
	timestampLayout = "20060102T150405Z"
)

// ErrInvalidSchedule is returned for a schedule the parser rejects.
var ErrInvalidSchedule = errors.New("invalid schedule")

// Config describes what to snapshot and when.
type Config struct {
	// Schedule is a 5-field cron expression or a descriptor such as "@every 1h".
	Schedule string
	// Languages to snapshot; empty means the unfiltered listing.
	Languages []string
	Period    domain.Period
	Dir       string
	Format    domain.Format
}

// Trender fetches a filtered trending listing.
type Trender interface {
	Trending(ctx context.Context, q app.TrendingQuery) ([]domain.Repository, error)
}

// Watcher takes snapshots on a schedule.
type Watcher struct {
	cfg      Config
	trender  Trender
	metrics  *metrics.Metrics
	log      logger.Interface
	schedule cron.Schedule
	parser   cron.Parser
	now      func() time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithClock overrides the clock used for snapshot names.
func WithClock(now func() time.Time) Option {
	return func(w *Watcher) { w.now = now }
}

// New validates cfg and creates a Watcher.
func New(cfg Config, t Trender, m *metrics.Metrics, log logger.Interface, opts ...Option) (*Watcher, error) {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if cfg.Dir == "" {
		cfg.Dir = DefaultDir
	}
	if cfg.Period == "" {
		cfg.Period = domain.PeriodDaily
	}
	if cfg.Format == "" {
		cfg.Format = domain.FormatJSON
	}
	if log == nil {
		log = logger.NewNoOp()
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSchedule, cfg.Schedule, err)
	}

	w := &Watcher{
		cfg:      cfg,
		trender:  t,
		metrics:  m,
		log:      log.WithComponent("watch"),
		schedule: schedule,
		parser:   parser,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Next returns the first scheduled run after t.
func (w *Watcher) Next(t time.Time) time.Time {
	return w.schedule.Next(t)
}

// Run takes a snapshot immediately and then on every scheduled tick until
// ctx is done. Overlapping ticks are skipped and panics are recovered, the
// first snapshot included.
func (w *Watcher) Run(ctx context.Context) error {
	cl := cronLogger{log: w.log}
	job := cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)).
		Then(cron.FuncJob(func() { w.tick(ctx) }))

	c := cron.New(cron.WithParser(w.parser), cron.WithLogger(cl))
	if _, err := c.AddJob(w.cfg.Schedule, job); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidSchedule, w.cfg.Schedule, err)
	}

	w.log.Info("Starting watch",
		"schedule", w.cfg.Schedule,
		"languages", w.cfg.Languages,
		"period", w.cfg.Period,
		"dir", w.cfg.Dir,
		"next_run", w.Next(time.Now()).Format(time.RFC3339),
	)
	job.Run()

	c.Start()
	<-ctx.Done()

	w.log.Info("Stopping watch")
	<-c.Stop().Done()
	return nil
}

func (w *Watcher) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	paths, err := w.RunOnce(ctx)
	if err != nil {
		w.log.Error("Snapshot run failed", "error", err, "written", len(paths))
		return
	}
	w.log.Info("Snapshot run complete", "written", len(paths))
}

// RunOnce snapshots every configured language and returns the written
// paths. A failing language does not stop the others; failures are joined.
func (w *Watcher) RunOnce(ctx context.Context) ([]string, error) {
	languages := w.cfg.Languages
	if len(languages) == 0 {
		languages = []string{""}
	}

	stamp := w.now().UTC()
	var (
		paths []string
		errs  []error
	)
	for _, lang := range languages {
		path, err := w.snapshot(ctx, lang, stamp)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		paths = append(paths, path)
	}
	return paths, errors.Join(errs...)
}

func (w *Watcher) snapshot(ctx context.Context, language string, stamp time.Time) (string, error) {
	repos, err := w.trender.Trending(ctx, app.TrendingQuery{
		Language: language,
		Period:   w.cfg.Period,
		Limit:    domain.MaxLimit,
	})
	if err != nil {
		return "", fmt.Errorf("snapshot %s: %w", languageLabel(language), err)
	}

	path := filepath.Join(w.cfg.Dir, SnapshotName(language, w.cfg.Period, stamp, w.cfg.Format))
	err = output.Save(path, func(out io.Writer) error {
		return render.Repositories(out, repos, w.cfg.Format)
	})
	if err != nil {
		return "", fmt.Errorf("snapshot %s: %w", languageLabel(language), err)
	}

	w.metrics.SnapshotWritten()
	w.log.Debug("Snapshot written", "path", path, "repositories", len(repos))
	return path, nil
}

// SnapshotName builds the file name of one snapshot, for example
// "go_daily_20260301T103000Z.json".
func SnapshotName(language string, period domain.Period, stamp time.Time, format domain.Format) string {
	return fmt.Sprintf("%s_%s_%s%s", slug(language), period, stamp.UTC().Format(timestampLayout), format.Extension())
}

func languageLabel(language string) string {
	if language == "" {
		return allLanguages
	}
	return language
}

// slug keeps letters and digits, mapping "+" and "#" to readable words so
// c++ and c# stay distinct.
func slug(language string) string {
	if strings.TrimSpace(language) == "" {
		return allLanguages
	}
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(language)) {
		switch {
		case r == '+':
			b.WriteString("plus")
		case r == '#':
			b.WriteString("sharp")
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// cronLogger adapts logger.Interface to cron.Logger.
type cronLogger struct {
	log logger.Interface
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}
