package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/truckfactor-go/config"
	"github.com/masmgr/truckfactor-go/internal/aggregation"
	"github.com/masmgr/truckfactor-go/internal/output"
	"github.com/masmgr/truckfactor-go/internal/truckfactor"
)

// TruckFactorCmd returns the truck-factor command.
func TruckFactorCmd() *cli.Command {
	flags := append(commonFlags(),
		&cli.StringSliceFlag{
			Name:  "ignore-ext",
			Usage: "File extensions ignored for authorship (replaces the configured list)",
		},
		&cli.Float64Flag{
			Name:  "doa-threshold",
			Usage: "Normalized DOA an author needs on a file to be associated with it",
			Value: 0.5,
		},
		&cli.Float64Flag{
			Name:  "coverage-threshold",
			Usage: "Share of files an author must cover to count towards the truck factor",
			Value: 0.5,
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Concurrent file scorers (0 = number of CPUs)",
		},
		&cli.BoolFlag{
			Name:  "ignore-email-case",
			Usage: "Treat author emails case-insensitively",
		},
	)

	return &cli.Command{
		Name:    "truck-factor",
		Aliases: []string{"tf"},
		Usage:   "Estimate the truck factor from degree of authorship",
		Flags:   flags,
		Action:  truckFactorAction,
	}
}

func truckFactorOverrides(c *cli.Context) func(*config.Config) {
	return func(cfg *config.Config) {
		if exts := c.StringSlice("ignore-ext"); len(exts) > 0 {
			cfg.TruckFactor.IgnorableExtensions = exts
		}
		if c.IsSet("doa-threshold") {
			cfg.TruckFactor.DOAThreshold = c.Float64("doa-threshold")
		}
		if c.IsSet("coverage-threshold") {
			cfg.TruckFactor.CoverageThreshold = c.Float64("coverage-threshold")
		}
		if c.IsSet("workers") {
			cfg.TruckFactor.Workers = c.Int("workers")
		}
		if c.IsSet("ignore-email-case") {
			cfg.Authors.IgnoreEmailCase = c.Bool("ignore-email-case")
		}
	}
}

func truckFactorAction(c *cli.Context) error {
	return executeWithContext(c, truckFactorOverrides(c), func(ctx *CommandContext, c *cli.Context) error {
		opts := []truckfactor.Option{truckfactor.WithLogger(ctx.Logger)}
		if ctx.Config.Authors.IgnoreEmailCase {
			opts = append(opts, truckfactor.WithIdentity(aggregation.FoldEmailCase))
		}

		analyzer := truckfactor.NewAnalyzer(ctx.Config.TruckFactor, opts...)
		analysis, err := analyzer.Analyze(c.Context, ctx.ChangeSets)
		if errors.Is(err, truckfactor.ErrNoData) {
			return fmt.Errorf("no commit in the range touches a file with a non-ignored extension: %w", err)
		}
		if err != nil {
			return err
		}

		report := &output.TruckFactorReport{
			RepoPath:          ctx.RepoPath,
			Branch:            ctx.Branch,
			Since:             ctx.Since,
			Until:             ctx.Until,
			GeneratedAt:       time.Now(),
			DOAThreshold:      ctx.Config.TruckFactor.DOAThreshold,
			CoverageThreshold: ctx.Config.TruckFactor.CoverageThreshold,
			Analysis:          analysis,
		}

		return writeTruckFactorReport(c, report, ctx.Config.TruckFactor.Top)
	})
}
