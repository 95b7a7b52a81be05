package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// CITruckFactorWriter writes truck factor reports as NDJSON (one JSON object per line) for CI pipelines.
type CITruckFactorWriter struct{}

// CITruckFactorSummary is the first line of truck factor CI output.
type CITruckFactorSummary struct {
	Type            string `json:"type"`
	TruckFactor     int    `json:"truckFactor"`
	TotalFiles      int    `json:"totalFiles"`
	TotalCommits    int    `json:"totalCommits"`
	Authors         int    `json:"authors"`
	DegenerateFiles int    `json:"degenerateFiles"`
}

// CIAuthorEntry represents a single author in CI output.
type CIAuthorEntry struct {
	Type       string  `json:"type"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Files      int     `json:"files"`
	Coverage   float64 `json:"coverage"`
	Importance float64 `json:"importance"`
	Key        bool    `json:"key"`
}

// Write outputs the truck factor report as NDJSON.
func (w *CITruckFactorWriter) Write(report *TruckFactorReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	a := report.Analysis
	ranked := limitTop(a.Ranked, options.Top)

	summary := CITruckFactorSummary{
		Type:            "summary",
		TruckFactor:     a.TruckFactor,
		TotalFiles:      a.TotalFiles,
		TotalCommits:    a.TotalCommits,
		Authors:         len(a.Ranked),
		DegenerateFiles: len(a.DegenerateFiles),
	}
	if err := writeNDJSONLine(out, summary); err != nil {
		return err
	}

	for _, r := range ranked {
		entry := CIAuthorEntry{
			Type:       "author",
			Name:       r.Author.Name,
			Email:      r.Author.Email,
			Files:      r.Files,
			Coverage:   r.Coverage,
			Importance: r.Importance,
			Key:        r.Key,
		}
		if err := writeNDJSONLine(out, entry); err != nil {
			return err
		}
	}

	return nil
}

// CICouplingWriter writes coupling reports as NDJSON.
type CICouplingWriter struct{}

// CICouplingSummary is the first line of coupling CI output.
type CICouplingSummary struct {
	Type         string `json:"type"`
	TotalCommits int    `json:"totalCommits"`
	TotalFiles   int    `json:"totalFiles"`
	TotalPairs   int    `json:"totalPairs"`
	MaxCount     int    `json:"maxCount"`
}

// CIPairEntry represents a single pair in CI output.
type CIPairEntry struct {
	Type  string  `json:"type"`
	FileA string  `json:"fileA"`
	FileB *string `json:"fileB"`
	Count int     `json:"count"`
}

// Write outputs the coupling report as NDJSON.
func (w *CICouplingWriter) Write(report *CouplingAnalysisReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	result := report.Result
	pairs := limitTop(result.Pairs, options.Top)

	var maxCount int
	for _, p := range result.Pairs {
		if p.Count > maxCount {
			maxCount = p.Count
		}
	}

	summary := CICouplingSummary{
		Type:         "summary",
		TotalCommits: result.TotalCommits,
		TotalFiles:   result.TotalFiles,
		TotalPairs:   result.TotalPairs,
		MaxCount:     maxCount,
	}
	if err := writeNDJSONLine(out, summary); err != nil {
		return err
	}

	for _, p := range pairs {
		entry := CIPairEntry{Type: "pair", FileA: p.FileA, Count: p.Count}
		if !p.IsSolo() {
			fileB := p.FileB
			entry.FileB = &fileB
		}
		if err := writeNDJSONLine(out, entry); err != nil {
			return err
		}
	}

	return nil
}

func writeNDJSONLine(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal NDJSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
