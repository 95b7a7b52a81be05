package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/masmgr/truckfactor-go/internal/output"
)

func writeTruckFactorReport(c *cli.Context, report *output.TruckFactorReport, defaultTop int) error {
	opts := OutputOptions(c, defaultTop)
	writer := output.NewTruckFactorReportWriter(opts.Format)
	return writer.Write(report, opts)
}

func writeCouplingReport(c *cli.Context, report *output.CouplingAnalysisReport) error {
	opts := OutputOptions(c, 0)
	writer := output.NewCouplingReportWriter(opts.Format)
	return writer.Write(report, opts)
}
