package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// CSVTruckFactorWriter writes truck factor reports as CSV, one row per author.
type CSVTruckFactorWriter struct{}

// Write outputs the truck factor report as CSV.
// With Explain set, the per-file DOA rows are written instead.
func (w *CSVTruckFactorWriter) Write(report *TruckFactorReport, options OutputOptions) error {
	writer, file, err := createCSVWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	a := report.Analysis
	if options.Explain {
		if err := writer.Write([]string{"File", "Author", "Email", "Creator", "OwnChanges", "Others", "RawDOA", "NormalizedDOA"}); err != nil {
			return err
		}
		for _, fs := range a.FileScores {
			for _, s := range fs.Scores {
				row := []string{
					fs.Path,
					s.Author.Name,
					s.Author.Email,
					strconv.FormatBool(s.Creator),
					strconv.Itoa(s.OwnChanges),
					strconv.Itoa(s.Others),
					fmt.Sprintf("%.6f", s.Raw),
					fmt.Sprintf("%.6f", s.Normalized),
				}
				if err := writer.Write(row); err != nil {
					return err
				}
			}
		}
		writer.Flush()
		return writer.Error()
	}

	headers := []string{"Rank", "Author", "Email", "Files", "Coverage", "MeanDOA", "Importance", "Key"}
	if err := writer.Write(headers); err != nil {
		return err
	}
	for i, r := range limitTop(a.Ranked, options.Top) {
		row := []string{
			strconv.Itoa(i + 1),
			r.Author.Name,
			r.Author.Email,
			strconv.Itoa(r.Files),
			fmt.Sprintf("%.6f", r.Coverage),
			fmt.Sprintf("%.6f", r.MeanDOA),
			fmt.Sprintf("%.6f", r.Importance),
			strconv.FormatBool(r.Key),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// CSVCouplingWriter writes coupling analysis reports as CSV.
type CSVCouplingWriter struct{}

// Write outputs the coupling analysis report as CSV. File2 is empty for a
// file changed alone.
func (w *CSVCouplingWriter) Write(report *CouplingAnalysisReport, options OutputOptions) error {
	writer, file, err := createCSVWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	headers := []string{"File1", "File2", "Changes"}
	if options.Explain {
		headers = append(headers, "File1Commits", "File2Commits", "Jaccard", "Confidence", "Lift")
	}
	if err := writer.Write(headers); err != nil {
		return err
	}

	for _, p := range limitTop(report.Result.Pairs, options.Top) {
		row := []string{p.FileA, partner(p.FilePair, ""), strconv.Itoa(p.Count)}
		if options.Explain {
			row = append(row,
				strconv.Itoa(p.FileACommitCount),
				strconv.Itoa(p.FileBCommitCount),
				fmt.Sprintf("%.6f", p.Jaccard),
				fmt.Sprintf("%.6f", p.Confidence),
				fmt.Sprintf("%.6f", p.Lift),
			)
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func createCSVWriter(outputPath string) (*csv.Writer, *os.File, error) {
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return nil, nil, err
		}
		return csv.NewWriter(file), file, nil
	}
	return csv.NewWriter(os.Stdout), nil, nil
}
