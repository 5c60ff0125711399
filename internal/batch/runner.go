package batch

import (
	"context"
	"errors"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"ytsave/internal/config"
	"ytsave/internal/engine"
	"ytsave/internal/options"
	"ytsave/internal/progress"
)

// Engine is the subset of the yt-dlp driver the batch needs.
type Engine interface {
	Probe(ctx context.Context, url string, opts options.Options) (engine.Info, error)
	Fetch(ctx context.Context, url string, opts options.Options, onLine func(string)) error
}

// Recorder persists item outcomes.
type Recorder interface {
	Record(ctx context.Context, runID string, r ItemResult) error
}

// ItemResult is the outcome of one work item.
type ItemResult struct {
	Index    int
	URL      string
	Kind     Kind
	Template string
	ProbeErr error // downgraded to a warning; the item is treated as single
	Err      error
	Started  time.Time
	Duration time.Duration
}

// OK reports whether the fetch succeeded.
func (r ItemResult) OK() bool { return r.Err == nil }

// Summary collects the results of one Run.
type Summary struct {
	RunID   string
	Results []ItemResult
	// Err is set when the batch stopped early because ctx was canceled.
	Err     error
}

// Failed returns the results whose fetch failed.
func (s Summary) Failed() []ItemResult {
	var out []ItemResult
	for _, r := range s.Results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// Runner executes work items one after another.
type Runner struct {
	engine   Engine
	logger   log.Interface
	reporter progress.Reporter
	recorder Recorder
	interval time.Duration
	cache    *ProbeCache
}

// Option configures a Runner.
type Option func(*Runner)

// WithEngine sets the yt-dlp driver.
func WithEngine(e Engine) Option {
	return func(r *Runner) { r.engine = e }
}

// WithLogger sets the logger.
func WithLogger(l log.Interface) Option {
	return func(r *Runner) { r.logger = l }
}

// WithReporter sets the progress observer.
func WithReporter(rep progress.Reporter) Option {
	return func(r *Runner) { r.reporter = rep }
}

// WithRecorder sets where item outcomes are persisted.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// WithInterval sets the minimum spacing between item starts.
func WithInterval(d time.Duration) Option {
	return func(r *Runner) { r.interval = d }
}

// WithProbeCache shares a probe cache across runs.
func WithProbeCache(c *ProbeCache) Option {
	return func(r *Runner) { r.cache = c }
}

// NewRunner builds a Runner. An engine is required.
func NewRunner(opts ...Option) (*Runner, error) {
	r := &Runner{}
	for _, o := range opts {
		o(r)
	}
	if r.engine == nil {
		return nil, errors.New("batch: engine is required")
	}
	if r.logger == nil {
		r.logger = log.Log
	}
	if r.reporter == nil {
		r.reporter = progress.Nop{}
	}
	if r.cache == nil {
		r.cache = NewProbeCache()
	}
	return r, nil
}

// Run probes and fetches every item in order. A failed fetch is recorded
// and the batch moves on; only ctx cancellation stops it early.
func (r *Runner) Run(ctx context.Context, items []WorkItem, opts options.Options, filenameTpl string, subdirs config.Subdirs) Summary {
	sum := Summary{RunID: uuid.NewString()}
	logger := r.logger.WithField("run", sum.RunID)

	var limiter *rate.Limiter
	if r.interval > 0 {
		limiter = rate.NewLimiter(rate.Every(r.interval), 1)
	}

	for _, it := range items {
		r.reporter.Update(progress.Update{JobID: it.JobID(), Stage: progress.StageQueued, Percent: -1, Message: "Queued"})
	}

	for _, it := range items {
		if err := ctx.Err(); err != nil {
			sum.Err = err
			break
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				sum.Err = err
				break
			}
		}

		res := r.runItem(ctx, logger, it, opts, filenameTpl, subdirs)
		sum.Results = append(sum.Results, res)

		if r.recorder != nil {
			if err := r.recorder.Record(ctx, sum.RunID, res); err != nil {
				logger.WithError(err).Warn("could not record history")
			}
		}
		if res.Err != nil && ctx.Err() != nil {
			sum.Err = ctx.Err()
			break
		}
	}
	return sum
}

func (r *Runner) runItem(ctx context.Context, logger log.Interface, it WorkItem, base options.Options, filenameTpl string, subdirs config.Subdirs) ItemResult {
	res := ItemResult{Index: it.Index, URL: it.URL, Kind: KindSingle, Started: time.Now()}
	jobID := it.JobID()
	ilog := logger.WithFields(log.Fields{"index": it.Index, "url": it.URL})

	r.reporter.Update(progress.Update{JobID: jobID, Stage: progress.StageProbing, Percent: -1, Message: "Probing"})
	info, err := r.probe(ctx, it.URL, base)
	if err != nil {
		res.ProbeErr = err
		ilog.WithError(err).Warn("probe failed, treating as single video")
	} else if info.IsCollection() {
		res.Kind = KindCollection
	}

	opts := ResolveItem(base, it, res.Kind, filenameTpl, subdirs)
	res.Template = opts.String(options.KeyOuttmpl)
	ilog.WithFields(log.Fields{"kind": res.Kind, "outtmpl": res.Template}).Info("downloading")

	r.reporter.Update(progress.Update{JobID: jobID, Stage: progress.StageDownloading, Percent: 0, Message: "Downloading"})
	res.Err = r.engine.Fetch(ctx, it.URL, opts, func(line string) {
		r.reporter.Log(progress.Log{JobID: jobID, Stream: progress.StreamStdout, Line: line})
		if u, ok := engine.ParseProgress(line, jobID); ok {
			r.reporter.Update(u)
		}
	})
	res.Duration = time.Since(res.Started)

	if res.Err != nil {
		ilog.WithError(res.Err).Error("download failed")
		r.reporter.Update(progress.Update{JobID: jobID, Stage: progress.StageError, Percent: -1, Message: res.Err.Error()})
	} else {
		ilog.WithField("took", res.Duration.Round(time.Millisecond)).Info("done")
		r.reporter.Update(progress.Update{JobID: jobID, Stage: progress.StageCompleted, Percent: 100, Message: "Done"})
	}
	r.reporter.Result(progress.Result{JobID: jobID, Template: res.Template, Err: res.Err})
	return res
}

// probe runs a quiet metadata probe, reusing a cached answer for the URL.
func (r *Runner) probe(ctx context.Context, url string, base options.Options) (engine.Info, error) {
	if info, ok := r.cache.Get(url); ok {
		return info, nil
	}
	popts := base.Clone()
	popts[options.KeyQuiet] = true
	popts[options.KeyNoWarnings] = true
	popts[options.KeyVerbose] = false

	info, err := r.engine.Probe(ctx, url, popts)
	if err != nil {
		return engine.Info{}, err
	}
	r.cache.Set(url, info)
	return info, nil
}
