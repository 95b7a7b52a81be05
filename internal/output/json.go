package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// JSONTruckFactorWriter writes truck factor reports as JSON.
type JSONTruckFactorWriter struct{}

// JSONTruckFactorReport is the JSON output structure for truck factor analysis.
type JSONTruckFactorReport struct {
	RepoPath          string            `json:"repo"`
	Branch            string            `json:"branch,omitempty"`
	Since             *string           `json:"since,omitempty"`
	Until             string            `json:"until"`
	GeneratedAt       string            `json:"generatedAt"`
	TruckFactor       int               `json:"truckFactor"`
	TotalCommits      int               `json:"totalCommits"`
	SkippedCommits    int               `json:"skippedCommits"`
	TotalFiles        int               `json:"totalFiles"`
	DOAThreshold      float64           `json:"doaThreshold"`
	CoverageThreshold float64           `json:"coverageThreshold"`
	Authors           []JSONAuthorItem  `json:"authors"`
	DegenerateFiles   []string          `json:"degenerateFiles,omitempty"`
	Files             []JSONFileDOAItem `json:"files,omitempty"`
}

// JSONAuthorItem is the JSON output structure for a ranked author.
type JSONAuthorItem struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Files      int     `json:"files"`
	Coverage   float64 `json:"coverage"`
	MeanDOA    float64 `json:"meanDoa"`
	Importance float64 `json:"importance"`
	Key        bool    `json:"key"`
}

// JSONFileDOAItem holds the per-author DOA of one file.
type JSONFileDOAItem struct {
	Path          string         `json:"path"`
	Modifications int            `json:"modifications"`
	Degenerate    bool           `json:"degenerate,omitempty"`
	Authors       []JSONDOAScore `json:"authors"`
}

// JSONDOAScore is one author's DOA on a file.
type JSONDOAScore struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Creator    bool    `json:"creator"`
	OwnChanges int     `json:"ownChanges"`
	Others     int     `json:"others"`
	Raw        float64 `json:"raw"`
	Normalized float64 `json:"normalized"`
}

// Write outputs the truck factor report as JSON.
func (w *JSONTruckFactorWriter) Write(report *TruckFactorReport, options OutputOptions) error {
	a := report.Analysis
	ranked := limitTop(a.Ranked, options.Top)

	authors := make([]JSONAuthorItem, len(ranked))
	for i, r := range ranked {
		authors[i] = JSONAuthorItem{
			Name:       r.Author.Name,
			Email:      r.Author.Email,
			Files:      r.Files,
			Coverage:   r.Coverage,
			MeanDOA:    r.MeanDOA,
			Importance: r.Importance,
			Key:        r.Key,
		}
	}

	jsonReport := JSONTruckFactorReport{
		RepoPath:          report.RepoPath,
		Branch:            report.Branch,
		Since:             formatSinceDate(report.Since),
		Until:             report.Until.Format(reportDateLayout),
		GeneratedAt:       report.GeneratedAt.Format(time.RFC3339),
		TruckFactor:       a.TruckFactor,
		TotalCommits:      a.TotalCommits,
		SkippedCommits:    a.SkippedCommits,
		TotalFiles:        a.TotalFiles,
		DOAThreshold:      report.DOAThreshold,
		CoverageThreshold: report.CoverageThreshold,
		Authors:           authors,
		DegenerateFiles:   a.DegenerateFiles,
	}

	if options.Explain {
		for _, fs := range a.FileScores {
			item := JSONFileDOAItem{
				Path:          fs.Path,
				Modifications: fs.Modifications,
				Degenerate:    fs.Degenerate,
			}
			for _, s := range fs.Scores {
				item.Authors = append(item.Authors, JSONDOAScore{
					Name:       s.Author.Name,
					Email:      s.Author.Email,
					Creator:    s.Creator,
					OwnChanges: s.OwnChanges,
					Others:     s.Others,
					Raw:        s.Raw,
					Normalized: s.Normalized,
				})
			}
			jsonReport.Files = append(jsonReport.Files, item)
		}
	}

	return writeJSON(jsonReport, options.OutputPath)
}

// JSONCouplingWriter writes coupling analysis reports as JSON.
type JSONCouplingWriter struct{}

// JSONCouplingReport is the JSON output structure for coupling analysis.
type JSONCouplingReport struct {
	RepoPath       string             `json:"repo"`
	Since          *string            `json:"since,omitempty"`
	Until          string             `json:"until"`
	GeneratedAt    string             `json:"generatedAt"`
	TotalCommits   int                `json:"totalCommits"`
	SkippedCommits int                `json:"skippedCommits"`
	TotalFiles     int                `json:"totalFiles"`
	TotalPairs     int                `json:"totalPairs"`
	Items          []JSONCouplingItem `json:"items"`
}

// JSONCouplingItem is the JSON output structure for a single pair.
// FileB is null for a file changed alone.
type JSONCouplingItem struct {
	Kind             string  `json:"kind"`
	FileA            string  `json:"fileA"`
	FileB            *string `json:"fileB"`
	Count            int     `json:"count"`
	FileACommitCount int     `json:"fileACommitCount"`
	FileBCommitCount int     `json:"fileBCommitCount,omitempty"`
	Jaccard          float64 `json:"jaccard,omitempty"`
	Confidence       float64 `json:"confidence,omitempty"`
	Lift             float64 `json:"lift,omitempty"`
}

// Write outputs the coupling analysis report as JSON.
func (w *JSONCouplingWriter) Write(report *CouplingAnalysisReport, options OutputOptions) error {
	pairs := limitTop(report.Result.Pairs, options.Top)

	items := make([]JSONCouplingItem, len(pairs))
	for i, p := range pairs {
		item := JSONCouplingItem{
			Kind:             p.Kind.String(),
			FileA:            p.FileA,
			Count:            p.Count,
			FileACommitCount: p.FileACommitCount,
			FileBCommitCount: p.FileBCommitCount,
			Jaccard:          p.Jaccard,
			Confidence:       p.Confidence,
			Lift:             p.Lift,
		}
		if !p.IsSolo() {
			fileB := p.FileB
			item.FileB = &fileB
		}
		items[i] = item
	}

	jsonReport := JSONCouplingReport{
		RepoPath:       report.RepoPath,
		Since:          formatSinceDate(report.Since),
		Until:          report.Until.Format(reportDateLayout),
		GeneratedAt:    report.GeneratedAt.Format(time.RFC3339),
		TotalCommits:   report.Result.TotalCommits,
		SkippedCommits: report.Result.SkippedCommits,
		TotalFiles:     report.Result.TotalFiles,
		TotalPairs:     report.Result.TotalPairs,
		Items:          items,
	}

	return writeJSON(jsonReport, options.OutputPath)
}

func writeJSON(data interface{}, outputPath string) error {
	out, file, err := openOutputWriter(outputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	return encodeJSON(out, data)
}

func encodeJSON(out io.Writer, data interface{}) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
