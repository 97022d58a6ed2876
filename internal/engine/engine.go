package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/cfnslim/internal/config"
	"github.com/dshills/cfnslim/internal/logging"
	"github.com/dshills/cfnslim/internal/metrics"
	"github.com/dshills/cfnslim/internal/optimizer"
	"github.com/dshills/cfnslim/internal/splitter"
	"github.com/dshills/cfnslim/internal/writer"
	"github.com/dshills/cfnslim/pkg/types"
)

// Engine errors
var (
	ErrRunInProgress    = errors.New("another run is already in progress")
	ErrOverwritesSource = errors.New("output path would overwrite the source document")
)

// Engine coordinates a run: load -> split/optimize -> write -> report
type Engine struct {
	cfg       *config.Config
	splitter  *splitter.Splitter
	optimizer *optimizer.Optimizer
	logger    *zap.Logger
	lock      RunLock
}

// Options overrides per-run paths. Empty fields fall back to the config.
type Options struct {
	Source    string
	OutDir    string
	Optimized string
	DryRun    bool // Compute and report without writing artifacts
}

// Statistics contains the outcome of a run
type Statistics struct {
	RunID  string
	Mode   Mode
	Source string

	// Split outcome; nil when the mode does not split
	Split        *splitter.Result
	SplitPaths   []string
	SplitMetrics *types.ReductionMetrics

	// Optimize outcome; nil when the mode does not optimize
	Optimized       *types.OptimizedDocument
	OptimizedPath   string
	OptimizeMetrics *types.ReductionMetrics

	DryRun   bool
	Duration time.Duration
}

// New creates an Engine from a validated configuration
func New(cfg *config.Config, logger *zap.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	split, err := splitter.New(splitter.Config{
		Preamble: cfg.Preamble,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	opt := optimizer.New(
		optimizer.WithMaxBlankRun(cfg.MaxBlankRun),
		optimizer.WithLineThreshold(cfg.LineThreshold),
	)

	return &Engine{
		cfg:       cfg,
		splitter:  split,
		optimizer: opt,
		logger:    logger,
	}, nil
}

// Config returns the engine configuration
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Run performs one run. Every artifact is computed in memory and every
// output location is probed before the first write, so configuration errors
// leave existing artifacts untouched.
func (e *Engine) Run(ctx context.Context, mode Mode, opts Options) (*Statistics, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("invalid mode %s", mode)
	}
	logger, runID := logging.WithRun(e.logger)
	if holder, ok := e.lock.TryAcquire(runID); !ok {
		return nil, fmt.Errorf("%w: run %s holds the lock", ErrRunInProgress, holder)
	}
	defer e.lock.Release(runID)

	opts = e.resolve(opts)
	startTime := time.Now()

	stats := &Statistics{
		RunID:  runID,
		Mode:   mode,
		Source: opts.Source,
		DryRun: opts.DryRun,
	}

	logger.Info("run started",
		zap.Stringer("mode", mode),
		zap.String("source", opts.Source),
		zap.Bool("dry_run", opts.DryRun))

	doc, err := types.LoadDocument(opts.Source)
	if err != nil {
		return nil, err
	}
	if doc.ByteCount() == 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrEmptySource, opts.Source)
	}

	var out *writer.Writer
	if mode.Splits() {
		if out, err = writer.New(opts.OutDir); err != nil {
			return nil, err
		}
		if err := e.split(doc, stats); err != nil {
			return nil, err
		}
	}
	if mode.Optimizes() {
		e.optimize(logger, doc, opts, stats)
	}

	if !opts.DryRun {
		if err := guardSource(opts.Source, e.targets(out, opts, stats)); err != nil {
			return nil, err
		}
		if err := e.probe(out, opts, mode); err != nil {
			return nil, err
		}
		if err := e.write(ctx, logger, out, opts, stats); err != nil {
			return nil, err
		}
	}

	stats.Duration = time.Since(startTime)
	logger.Info("run finished",
		zap.Int("documents", len(stats.SplitPaths)),
		zap.String("optimized", stats.OptimizedPath),
		zap.Duration("duration", stats.Duration))

	return stats, nil
}

// resolve fills empty options from the configuration
func (e *Engine) resolve(opts Options) Options {
	if opts.Source == "" {
		opts.Source = e.cfg.Source
	}
	if opts.OutDir == "" {
		opts.OutDir = e.cfg.OutDir
	}
	if opts.Optimized == "" {
		opts.Optimized = e.cfg.Optimized
	}
	return opts
}

// split runs the splitter and records its metrics
func (e *Engine) split(doc *types.Document, stats *Statistics) error {
	result, err := e.splitter.Split(doc, e.cfg.Sections)
	if err != nil {
		return fmt.Errorf("failed to split %s: %w", doc.Path(), err)
	}
	stats.Split = result

	outputs := make([]*types.Document, 0, len(result.Documents))
	for _, d := range result.Documents {
		outputs = append(outputs, types.NewDocument(d.Filename, d.Content))
	}
	m := metrics.ReportMany(doc, outputs)
	stats.SplitMetrics = &m

	return nil
}

// optimize runs the optimizer and records its metrics
func (e *Engine) optimize(logger *zap.Logger, doc *types.Document, opts Options, stats *Statistics) {
	optimized := e.optimizer.Optimize(doc)
	stats.Optimized = optimized
	stats.OptimizedPath = opts.Optimized

	m := metrics.Report(doc, optimized.Document)
	stats.OptimizeMetrics = &m

	if !optimized.Feasible {
		logger.Warn("optimized template is still above the line threshold",
			zap.Int("lines", optimized.LineCount()),
			zap.Int("threshold", optimized.LineThreshold))
	}
}

// targets lists every path the run would write
func (e *Engine) targets(out *writer.Writer, opts Options, stats *Statistics) []string {
	var paths []string
	if stats.Split != nil {
		for _, d := range stats.Split.Documents {
			if dest, err := out.Path(d.Filename); err == nil {
				paths = append(paths, dest)
			}
		}
	}
	if stats.Optimized != nil {
		paths = append(paths, opts.Optimized)
	}
	return paths
}

// guardSource rejects runs whose outputs would replace the source
func guardSource(source string, targets []string) error {
	src, err := filepath.Abs(source)
	if err != nil {
		return err
	}
	for _, t := range targets {
		abs, err := filepath.Abs(t)
		if err != nil {
			return err
		}
		if abs == src {
			return fmt.Errorf("%w: %s", ErrOverwritesSource, t)
		}
	}
	return nil
}

// probe checks every output location before anything is written
func (e *Engine) probe(out *writer.Writer, opts Options, mode Mode) error {
	if mode.Splits() {
		if err := out.Probe(); err != nil {
			return err
		}
	}
	if mode.Optimizes() {
		if err := writer.ProbeDir(filepath.Dir(opts.Optimized)); err != nil {
			return err
		}
	}
	return nil
}

// write stores split documents and the optimized document
func (e *Engine) write(ctx context.Context, logger *zap.Logger, out *writer.Writer, opts Options, stats *Statistics) error {
	if stats.Split != nil {
		stats.SplitPaths = make([]string, 0, len(stats.Split.Documents))
		for _, d := range stats.Split.Documents {
			dest, err := out.Write(ctx, d.Filename, d.Content)
			if err != nil {
				return fmt.Errorf("failed to write section %q: %w", d.Name, err)
			}
			stats.SplitPaths = append(stats.SplitPaths, dest)
			logger.Debug("wrote section",
				zap.String("section", d.Name),
				zap.String("path", dest))
		}
	}

	if stats.Optimized != nil {
		if err := writer.WriteFile(ctx, opts.Optimized, stats.Optimized.Text()); err != nil {
			return fmt.Errorf("failed to write optimized document: %w", err)
		}
	}

	return nil
}
