// Package progress renders history reading progress on stderr.
package progress

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Tracker wraps a spinner counting processed commits.
type Tracker struct {
	bar  *progressbar.ProgressBar
	seen int
}

// NewSpinner creates a spinner for an unknown number of commits on stderr.
func NewSpinner(label string) *Tracker {
	return newSpinner(os.Stderr, label)
}

func newSpinner(w io.Writer, label string) *Tracker {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return &Tracker{bar: bar}
}

// Update moves the spinner to processed. It matches git.ReadOptions.OnProgress.
func (t *Tracker) Update(processed int) {
	if processed <= t.seen {
		return
	}
	_ = t.bar.Add(processed - t.seen)
	t.seen = processed
}

// Processed returns the last reported count.
func (t *Tracker) Processed() int {
	return t.seen
}

// Finish clears the spinner.
func (t *Tracker) Finish() {
	_ = t.bar.Finish()
	_ = t.bar.Clear()
}
