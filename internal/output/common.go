package output

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/masmgr/truckfactor-go/internal/coupling"
)

const (
	reportDateLayout = "2006-01-02"
	scoreFormat      = "%.4f"
)

func limitTop[T any](items []T, top int) []T {
	if top <= 0 || top >= len(items) {
		return items
	}
	return items[:top]
}

func dateRangeLabelAndValue(since *time.Time, until time.Time) (string, string) {
	if since != nil {
		return "Period", since.Format(reportDateLayout) + " to " + until.Format(reportDateLayout)
	}
	return "Until", until.Format(reportDateLayout)
}

func formatSinceDate(since *time.Time) *string {
	if since == nil {
		return nil
	}
	formatted := since.Format(reportDateLayout)
	return &formatted
}

// openOutputWriter returns stdout for an empty path. The returned file, when
// non-nil, must be closed by the caller.
func openOutputWriter(outputPath string) (io.Writer, *os.File, error) {
	if outputPath == "" {
		return os.Stdout, nil, nil
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}

// partner renders the second file of a pair; solo changes have none.
func partner(p coupling.FilePair, none string) string {
	if p.IsSolo() {
		return none
	}
	return p.FileB
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"|", "\\|",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
	)
	return replacer.Replace(s)
}
