package output

import (
	"fmt"
	"io"
	"time"
)

// MarkdownTruckFactorWriter writes truck factor reports as Markdown.
type MarkdownTruckFactorWriter struct{}

// Write outputs the truck factor report as Markdown.
func (w *MarkdownTruckFactorWriter) Write(report *TruckFactorReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	a := report.Analysis
	writeMarkdownHeader(out, "Truck Factor Analysis Results", report.RepoPath, report.Since, report.Until)
	fmt.Fprintf(out, "**Truck Factor:** %d\n\n", a.TruckFactor)
	fmt.Fprintf(out, "**Statistics:** %d commits (%d skipped), %d files\n\n",
		a.TotalCommits, a.SkippedCommits, a.TotalFiles)

	fmt.Fprintln(out, "## Key Authors")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "| # | Author | Files | Coverage | Mean DOA | Importance | Key |")
	fmt.Fprintln(out, "|---|--------|-------|----------|----------|------------|-----|")
	for i, r := range limitTop(a.Ranked, options.Top) {
		key := ""
		if r.Key {
			key = "✔"
		}
		fmt.Fprintf(out, "| %d | %s | %d | %.1f%% | %.4f | %.4f | %s |\n",
			i+1, escapeMarkdown(r.Author.String()), r.Files, r.Coverage*100, r.MeanDOA, r.Importance, key)
	}

	if len(a.DegenerateFiles) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "## Files With Raw DOA Values")
		fmt.Fprintln(out)
		for _, f := range a.DegenerateFiles {
			fmt.Fprintf(out, "- `%s`\n", f)
		}
	}

	if options.Explain {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "## Degree of Authorship")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "| File | Author | Creator | Own | Others | Raw | Normalized |")
		fmt.Fprintln(out, "|------|--------|---------|-----|--------|-----|------------|")
		for _, fs := range a.FileScores {
			for _, s := range fs.Scores {
				creator := ""
				if s.Creator {
					creator = "✔"
				}
				fmt.Fprintf(out, "| `%s` | %s | %s | %d | %d | %.3f | %.3f |\n",
					fs.Path, escapeMarkdown(s.Author.String()), creator, s.OwnChanges, s.Others, s.Raw, s.Normalized)
			}
		}
	}

	return nil
}

// MarkdownCouplingWriter writes coupling analysis reports as Markdown.
type MarkdownCouplingWriter struct{}

// Write outputs the coupling analysis report as Markdown.
func (w *MarkdownCouplingWriter) Write(report *CouplingAnalysisReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	result := report.Result
	writeMarkdownHeader(out, "Logical Coupling Analysis Results", report.RepoPath, report.Since, report.Until)
	fmt.Fprintf(out, "**Statistics:** %d commits, %d files, %d pairs analyzed\n\n",
		result.TotalCommits, result.TotalFiles, result.TotalPairs)

	if len(result.Pairs) == 0 {
		fmt.Fprintln(out, "No file changes found.")
		return nil
	}

	fmt.Fprintln(out, "## File Pairs")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "| # | File A | File B | Changes | Jaccard | Confidence | Lift |")
	fmt.Fprintln(out, "|---|--------|--------|---------|---------|------------|------|")
	for i, p := range limitTop(result.Pairs, options.Top) {
		fileB := "-"
		if !p.IsSolo() {
			fileB = "`" + p.FileB + "`"
		}
		fmt.Fprintf(out, "| %d | `%s` | %s | %d | %.3f | %.3f | %.2f |\n",
			i+1, p.FileA, fileB, p.Count, p.Jaccard, p.Confidence, p.Lift)
	}

	return nil
}

func writeMarkdownHeader(out io.Writer, title, repo string, since *time.Time, until time.Time) {
	fmt.Fprintf(out, "# %s\n\n", title)
	fmt.Fprintf(out, "**Repository:** %s\n\n", repo)
	label, value := dateRangeLabelAndValue(since, until)
	fmt.Fprintf(out, "**%s:** %s\n\n", label, value)
}
