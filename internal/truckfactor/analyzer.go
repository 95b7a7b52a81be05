package truckfactor

import (
	"context"
	"log/slog"

	"github.com/masmgr/truckfactor-go/config"
	"github.com/masmgr/truckfactor-go/internal/aggregation"
	"github.com/masmgr/truckfactor-go/internal/filter"
	"github.com/masmgr/truckfactor-go/internal/git"
	"github.com/masmgr/truckfactor-go/internal/logging"
	"github.com/masmgr/truckfactor-go/internal/scoring"
)

// Analysis is the outcome of a full truck factor run.
type Analysis struct {
	Result
	TotalCommits    int
	SkippedCommits  int
	DegenerateFiles []string
	FileScores      []scoring.FileScore
}

// Analyzer runs the truck factor pipeline over a commit history.
type Analyzer struct {
	options  config.TruckFactorConfig
	identity aggregation.IdentityFunc
	logger   *slog.Logger
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithIdentity sets how commit authors are keyed.
func WithIdentity(f aggregation.IdentityFunc) Option {
	return func(a *Analyzer) {
		if f != nil {
			a.identity = f
		}
	}
}

// NewAnalyzer creates a truck factor analyzer. Zero thresholds fall back to
// the defaults.
func NewAnalyzer(options config.TruckFactorConfig, opts ...Option) *Analyzer {
	if options.DOAThreshold <= 0 {
		options.DOAThreshold = aggregation.DefaultDOAThreshold
	}
	if options.CoverageThreshold <= 0 {
		options.CoverageThreshold = DefaultCoverageThreshold
	}
	a := &Analyzer{
		options:  options,
		identity: aggregation.ExactIdentity,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze computes the truck factor of changeSets.
// It returns ErrNoCommits for an empty history and ErrNoData when no commit
// touches a valid file.
func (a *Analyzer) Analyze(ctx context.Context, changeSets []git.CommitChangeSet) (*Analysis, error) {
	if len(changeSets) == 0 {
		return nil, ErrNoCommits
	}

	fa := aggregation.BuildFileAuthors(changeSets, filter.New(a.options.IgnorableExtensions), a.identity)
	a.logger.Debug("built file author index",
		"commits", len(changeSets), "files", fa.Len(), "skipped", fa.Skipped())
	if fa.Len() == 0 {
		return nil, ErrNoData
	}

	table, fileScores, err := aggregation.BuildAuthorshipTable(ctx, fa, a.options.DOAThreshold, a.options.Workers)
	if err != nil {
		return nil, err
	}

	result, err := Compute(table, fa.Len(), a.options.CoverageThreshold)
	if err != nil {
		return nil, err
	}

	analysis := &Analysis{
		Result:         result,
		TotalCommits:   len(changeSets),
		SkippedCommits: fa.Skipped(),
		FileScores:     fileScores,
	}
	for _, fs := range fileScores {
		if fs.Degenerate {
			analysis.DegenerateFiles = append(analysis.DegenerateFiles, fs.Path)
			a.logger.Warn("zero maximum DOA, raw values kept", "file", fs.Path)
		}
	}

	a.logger.Debug("computed truck factor",
		"truckFactor", result.TruckFactor, "authors", len(result.Ranked))
	return analysis, nil
}
