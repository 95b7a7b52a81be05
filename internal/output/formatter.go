package output

import (
	"strings"
	"time"

	"github.com/masmgr/truckfactor-go/internal/coupling"
	"github.com/masmgr/truckfactor-go/internal/truckfactor"
)

// Compile-time interface conformance checks.
var (
	_ TruckFactorReportWriter = (*ConsoleTruckFactorWriter)(nil)
	_ TruckFactorReportWriter = (*JSONTruckFactorWriter)(nil)
	_ TruckFactorReportWriter = (*CSVTruckFactorWriter)(nil)
	_ TruckFactorReportWriter = (*MarkdownTruckFactorWriter)(nil)
	_ TruckFactorReportWriter = (*CITruckFactorWriter)(nil)

	_ CouplingReportWriter = (*ConsoleCouplingWriter)(nil)
	_ CouplingReportWriter = (*JSONCouplingWriter)(nil)
	_ CouplingReportWriter = (*CSVCouplingWriter)(nil)
	_ CouplingReportWriter = (*MarkdownCouplingWriter)(nil)
	_ CouplingReportWriter = (*CICouplingWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
	FormatCI       OutputFormat = "ci"
)

// ParseFormat converts a flag value to an OutputFormat, defaulting to console.
func ParseFormat(s string) OutputFormat {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "csv":
		return FormatCSV
	case "markdown", "md":
		return FormatMarkdown
	case "ci", "ndjson":
		return FormatCI
	default:
		return FormatConsole
	}
}

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	Top        int
	OutputPath string
	Explain    bool
}

// TruckFactorReport holds the results of a truck factor analysis.
type TruckFactorReport struct {
	RepoPath          string
	Branch            string
	Since             *time.Time
	Until             time.Time
	GeneratedAt       time.Time
	DOAThreshold      float64
	CoverageThreshold float64
	Analysis          *truckfactor.Analysis
}

// CouplingAnalysisReport holds the results of coupling analysis.
type CouplingAnalysisReport struct {
	RepoPath    string
	Since       *time.Time
	Until       time.Time
	GeneratedAt time.Time
	Result      coupling.CouplingAnalysisResult
}

// TruckFactorReportWriter writes truck factor reports.
type TruckFactorReportWriter interface {
	Write(report *TruckFactorReport, options OutputOptions) error
}

// CouplingReportWriter writes coupling analysis reports.
type CouplingReportWriter interface {
	Write(report *CouplingAnalysisReport, options OutputOptions) error
}

// NewTruckFactorReportWriter creates a truck factor writer for the specified format.
func NewTruckFactorReportWriter(format OutputFormat) TruckFactorReportWriter {
	switch format {
	case FormatJSON:
		return &JSONTruckFactorWriter{}
	case FormatCSV:
		return &CSVTruckFactorWriter{}
	case FormatMarkdown:
		return &MarkdownTruckFactorWriter{}
	case FormatCI:
		return &CITruckFactorWriter{}
	default:
		return &ConsoleTruckFactorWriter{}
	}
}

// NewCouplingReportWriter creates a coupling report writer for the specified format.
func NewCouplingReportWriter(format OutputFormat) CouplingReportWriter {
	switch format {
	case FormatJSON:
		return &JSONCouplingWriter{}
	case FormatCSV:
		return &CSVCouplingWriter{}
	case FormatMarkdown:
		return &MarkdownCouplingWriter{}
	case FormatCI:
		return &CICouplingWriter{}
	default:
		return &ConsoleCouplingWriter{}
	}
}
