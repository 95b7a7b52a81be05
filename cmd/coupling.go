package cmd

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/truckfactor-go/config"
	"github.com/masmgr/truckfactor-go/internal/coupling"
	"github.com/masmgr/truckfactor-go/internal/output"
)

// CouplingCmd returns the coupling command.
func CouplingCmd() *cli.Command {
	flags := append(commonFlags(),
		&cli.BoolFlag{
			Name:  "ascending",
			Usage: "Sort pairs by ascending change count",
		},
		&cli.IntFlag{
			Name:  "max-files",
			Usage: "Maximum files per commit to consider (0 = unlimited)",
		},
		&cli.IntFlag{
			Name:  "min-count",
			Usage: "Minimum number of shared commits for a pair to be reported",
			Value: 1,
		},
		&cli.IntFlag{
			Name:  "top-pairs",
			Usage: "Number of pairs kept by the analysis (0 = all)",
		},
	)

	return &cli.Command{
		Name:    "coupling",
		Aliases: []string{"cp"},
		Usage:   "Count how often files change together",
		Flags:   flags,
		Action:  couplingAction,
	}
}

func couplingOverrides(c *cli.Context) func(*config.Config) {
	return func(cfg *config.Config) {
		if c.IsSet("ascending") {
			cfg.Coupling.SortAscending = c.Bool("ascending")
		}
		if c.IsSet("max-files") {
			cfg.Coupling.MaxFilesPerCommit = c.Int("max-files")
		}
		if c.IsSet("min-count") {
			cfg.Coupling.MinCount = c.Int("min-count")
		}
		if c.IsSet("top-pairs") {
			cfg.Coupling.TopPairs = c.Int("top-pairs")
		}
	}
}

func couplingAction(c *cli.Context) error {
	return executeWithContext(c, couplingOverrides(c), func(ctx *CommandContext, c *cli.Context) error {
		analyzer := coupling.NewAnalyzer(ctx.Config.Coupling, coupling.WithLogger(ctx.Logger))
		result, err := analyzer.Analyze(ctx.ChangeSets)
		if err != nil {
			return err
		}

		report := &output.CouplingAnalysisReport{
			RepoPath:    ctx.RepoPath,
			Since:       ctx.Since,
			Until:       ctx.Until,
			GeneratedAt: time.Now(),
			Result:      result,
		}

		return writeCouplingReport(c, report)
	})
}
