package output

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/masmgr/truckfactor-go/internal/coupling"
	"github.com/masmgr/truckfactor-go/internal/git"
	"github.com/masmgr/truckfactor-go/internal/scoring"
	"github.com/masmgr/truckfactor-go/internal/truckfactor"
)

var (
	alice = git.AuthorInfo{Name: "Alice", Email: "alice@example.com"}
	bob   = git.AuthorInfo{Name: "Bob", Email: "bob@example.com"}
)

func sampleTruckFactorReport() *TruckFactorReport {
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	return &TruckFactorReport{
		RepoPath:          "/test/repo",
		Until:             now,
		GeneratedAt:       now,
		DOAThreshold:      0.5,
		CoverageThreshold: 0.5,
		Analysis: &truckfactor.Analysis{
			Result: truckfactor.Result{
				TruckFactor: 1,
				TotalFiles:  2,
				Ranked: []truckfactor.AuthorImportance{
					{Author: alice, Files: 2, Coverage: 1, MeanDOA: 1, Importance: 1, Key: true},
					{Author: bob, Files: 1, Coverage: 0.5, MeanDOA: 0.5 / 0.9, Importance: 0.5 * 0.5 / 0.9, Key: false},
				},
			},
			TotalCommits:    3,
			SkippedCommits:  1,
			DegenerateFiles: []string{"odd.go"},
			FileScores: []scoring.FileScore{
				{Path: "a.go", Scores: []scoring.AuthorScore{
					{Author: alice, Creator: true, Raw: 1, Normalized: 1},
				}},
				{Path: "b.go", Modifications: 1, Scores: []scoring.AuthorScore{
					{Author: alice, Creator: true, Others: 1, Raw: 0.9, Normalized: 1},
					{Author: bob, OwnChanges: 1, Raw: 0.5, Normalized: 0.5 / 0.9},
				}},
			},
		},
	}
}

func sampleCouplingReport() *CouplingAnalysisReport {
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	since := now.AddDate(0, -1, 0)
	return &CouplingAnalysisReport{
		RepoPath:    "/test/repo",
		Since:       &since,
		Until:       now,
		GeneratedAt: now,
		Result: coupling.CouplingAnalysisResult{
			TotalCommits: 4,
			TotalFiles:   3,
			TotalPairs:   3,
			Pairs: []coupling.PairCount{
				{FilePair: coupling.NewFilePair("a.go", "b.go"), Count: 2, FileACommitCount: 3, FileBCommitCount: 2, Jaccard: 2.0 / 3.0, Confidence: 2.0 / 3.0, Lift: 4.0 / 3.0},
				{FilePair: coupling.NewFilePair("a.go", "c.go"), Count: 1, FileACommitCount: 3, FileBCommitCount: 1, Jaccard: 1.0 / 3.0, Confidence: 1.0 / 3.0, Lift: 4.0 / 3.0},
				{FilePair: coupling.NewSoloPair("c.go"), Count: 1, FileACommitCount: 1},
			},
		},
	}
}

func tempOutput(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	return string(data)
}
