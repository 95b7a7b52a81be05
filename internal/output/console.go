package output

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// ConsoleTruckFactorWriter writes truck factor reports to the console.
type ConsoleTruckFactorWriter struct{}

// Write outputs the truck factor report as aligned tables.
func (w *ConsoleTruckFactorWriter) Write(report *TruckFactorReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	a := report.Analysis
	writeConsoleHeader(out, "Truck Factor Analysis Results", report.RepoPath, report.Since, report.Until)
	fmt.Fprintf(out, "Total commits: %d (skipped %d), Total files: %d\n",
		a.TotalCommits, a.SkippedCommits, a.TotalFiles)

	tfColor := color.New(color.FgGreen, color.Bold)
	if a.TruckFactor <= 1 {
		tfColor = color.New(color.FgRed, color.Bold)
	}
	tfColor.Fprintf(out, "Truck factor: %d\n\n", a.TruckFactor)

	ranked := limitTop(a.Ranked, options.Top)
	if len(ranked) == 0 {
		fmt.Fprintln(out, "No author reaches the authorship threshold on any file.")
	} else {
		rows := make([][]string, len(ranked))
		for i, r := range ranked {
			key := ""
			if r.Key {
				key = "*"
			}
			rows[i] = []string{
				strconv.Itoa(i + 1),
				r.Author.String(),
				strconv.Itoa(r.Files),
				fmt.Sprintf("%.1f%%", r.Coverage*100),
				fmt.Sprintf(scoreFormat, r.MeanDOA),
				fmt.Sprintf(scoreFormat, r.Importance),
				key,
			}
		}
		renderTable(out, []string{"#", "Author", "Files", "Coverage", "Mean DOA", "Importance", "Key"}, rows)
	}

	if len(a.DegenerateFiles) > 0 {
		color.New(color.FgYellow).Fprintf(out, "\n%d file(s) kept raw DOA values (non-positive maximum)\n",
			len(a.DegenerateFiles))
	}

	if options.Explain {
		fmt.Fprintln(out)
		color.New(color.Bold).Fprintln(out, "Degree of authorship per file")
		var rows [][]string
		for _, fs := range a.FileScores {
			for _, s := range fs.Scores {
				creator := ""
				if s.Creator {
					creator = "yes"
				}
				rows = append(rows, []string{
					fs.Path,
					s.Author.String(),
					creator,
					strconv.Itoa(s.OwnChanges),
					strconv.Itoa(s.Others),
					fmt.Sprintf(scoreFormat, s.Raw),
					fmt.Sprintf(scoreFormat, s.Normalized),
				})
			}
		}
		renderTable(out, []string{"File", "Author", "Creator", "Own", "Others", "Raw", "Normalized"}, rows)
	}

	return nil
}

// ConsoleCouplingWriter writes coupling analysis reports to the console.
type ConsoleCouplingWriter struct{}

// Write outputs the coupling analysis report to the console.
func (w *ConsoleCouplingWriter) Write(report *CouplingAnalysisReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	result := report.Result
	writeConsoleHeader(out, "Logical Coupling Analysis Results", report.RepoPath, report.Since, report.Until)
	fmt.Fprintf(out, "Total commits: %d, Total files: %d, Total pairs: %d\n\n",
		result.TotalCommits, result.TotalFiles, result.TotalPairs)

	if len(result.Pairs) == 0 {
		fmt.Fprintln(out, "No file changes found.")
		return nil
	}

	pairs := limitTop(result.Pairs, options.Top)
	rows := make([][]string, len(pairs))
	for i, p := range pairs {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			p.FileA,
			partner(p.FilePair, "-"),
			strconv.Itoa(p.Count),
			fmt.Sprintf("%.3f", p.Jaccard),
			fmt.Sprintf("%.3f", p.Confidence),
			fmt.Sprintf("%.2f", p.Lift),
		}
	}
	renderTable(out, []string{"#", "File A", "File B", "Changes", "Jaccard", "Confidence", "Lift"}, rows)

	return nil
}

func writeConsoleHeader(out io.Writer, title, repo string, since *time.Time, until time.Time) {
	color.New(color.FgGreen).Fprintln(out, title)
	fmt.Fprintf(out, "Repository: %s\n", repo)
	label, value := dateRangeLabelAndValue(since, until)
	fmt.Fprintf(out, "%s: %s\n", label, value)
}

func renderTable(out io.Writer, headers []string, rows [][]string) {
	table := tablewriter.NewTable(out,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{
				Left:   tw.Off,
				Right:  tw.Off,
				Top:    tw.Off,
				Bottom: tw.Off,
			},
			Settings: tw.Settings{
				Separators: tw.Separators{
					BetweenColumns: tw.Off,
				},
			},
		}),
	)

	table.Header(headers)
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
}
