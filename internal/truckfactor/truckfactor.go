package truckfactor

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/masmgr/truckfactor-go/internal/aggregation"
	"github.com/masmgr/truckfactor-go/internal/git"
)

// DefaultCoverageThreshold is the share of files an author must be strongly
// associated with to count towards the truck factor.
const DefaultCoverageThreshold = 0.5

// DefaultTop is the number of authors reported when no limit is given.
const DefaultTop = 10

var (
	// ErrNoCommits is returned for an empty commit sequence.
	ErrNoCommits = git.ErrNoCommits

	// ErrNoData is returned when commits exist but none touch a valid file.
	ErrNoData = errors.New("no valid files in commit history")
)

// AuthorImportance is an author's share of the codebase.
type AuthorImportance struct {
	Author     git.AuthorInfo
	Files      int     // Files the author is strongly associated with
	Coverage   float64 // Files / total files
	MeanDOA    float64 // Mean normalized DOA over those files
	Importance float64 // Coverage * MeanDOA
	Key        bool    // Coverage reached the coverage threshold
}

// Result holds the truck factor and the ranked authors.
type Result struct {
	TruckFactor int
	TotalFiles  int
	Ranked      []AuthorImportance
}

// Top returns the n most important authors. n <= 0 returns all of them.
func (r Result) Top(n int) []AuthorImportance {
	if n <= 0 || n >= len(r.Ranked) {
		return r.Ranked
	}
	return r.Ranked[:n]
}

// KeyAuthors returns the authors counted in the truck factor, most important first.
func (r Result) KeyAuthors() []AuthorImportance {
	var out []AuthorImportance
	for _, a := range r.Ranked {
		if a.Key {
			out = append(out, a)
		}
	}
	return out
}

// Compute derives the truck factor and author ranking from an authorship
// table. totalFiles is the number of distinct valid files in the history.
func Compute(table *aggregation.AuthorshipTable, totalFiles int, coverageThreshold float64) (Result, error) {
	if totalFiles <= 0 {
		return Result{}, ErrNoData
	}

	res := Result{TotalFiles: totalFiles}
	for _, author := range table.Authors() {
		scores := table.Scores(author)
		coverage := float64(len(scores)) / float64(totalFiles)
		mean := stat.Mean(scores, nil)

		ai := AuthorImportance{
			Author:     author,
			Files:      len(scores),
			Coverage:   coverage,
			MeanDOA:    mean,
			Importance: coverage * mean,
			Key:        coverage >= coverageThreshold,
		}
		if ai.Key {
			res.TruckFactor++
		}
		res.Ranked = append(res.Ranked, ai)
	}

	sort.SliceStable(res.Ranked, func(i, j int) bool {
		return res.Ranked[i].Importance > res.Ranked[j].Importance
	})
	return res, nil
}
