package coupling

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/masmgr/truckfactor-go/config"
	"github.com/masmgr/truckfactor-go/internal/filter"
	"github.com/masmgr/truckfactor-go/internal/git"
	"github.com/masmgr/truckfactor-go/internal/logging"
)

// ErrNoCommits is returned for an empty commit sequence.
var ErrNoCommits = git.ErrNoCommits

// PairKind distinguishes files changed together from a file changed alone.
type PairKind int

const (
	// CoChange is two distinct files touched by the same commit.
	CoChange PairKind = iota
	// SoloChange is the only valid file touched by a commit.
	SoloChange
)

func (k PairKind) String() string {
	switch k {
	case CoChange:
		return "co-change"
	case SoloChange:
		return "solo"
	default:
		return fmt.Sprintf("PairKind(%d)", int(k))
	}
}

// FilePair identifies a counted pair. FileB is empty for SoloChange.
type FilePair struct {
	Kind  PairKind
	FileA string
	FileB string
}

// NewFilePair creates a co-change pair with FileA <= FileB.
func NewFilePair(a, b string) FilePair {
	if a > b {
		a, b = b, a
	}
	return FilePair{Kind: CoChange, FileA: a, FileB: b}
}

// NewSoloPair creates the pair recorded for a commit touching a single file.
func NewSoloPair(file string) FilePair {
	return FilePair{Kind: SoloChange, FileA: file}
}

// IsSolo reports whether the pair has no partner file.
func (p FilePair) IsSolo() bool {
	return p.Kind == SoloChange
}

func (p FilePair) String() string {
	if p.IsSolo() {
		return p.FileA
	}
	return p.FileA + " <-> " + p.FileB
}

// PairCount is a pair with its co-change statistics.
// Association metrics are only set for CoChange pairs.
type PairCount struct {
	FilePair
	Count            int     // Commits containing the pair
	FileACommitCount int     // Counted commits touching FileA
	FileBCommitCount int     // Counted commits touching FileB
	Jaccard          float64 // |A ∩ B| / |A ∪ B|
	Confidence       float64 // P(B|A) = Count / FileACommitCount
	Lift             float64 // P(A,B) / (P(A) × P(B))
}

// CouplingAnalysisResult holds the results of coupling analysis.
type CouplingAnalysisResult struct {
	Pairs          []PairCount
	TotalCommits   int // Commits in the input
	SkippedCommits int // Commits with no valid file or above MaxFilesPerCommit
	TotalFiles     int
	TotalPairs     int // Distinct pairs before MinCount and TopPairs
}

// Analyzer counts how often files change together.
type Analyzer struct {
	options config.CouplingConfig
	filter  *filter.Filter
	logger  *slog.Logger
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAnalyzer creates a new coupling analyzer.
// Coupling keeps every file with an extension; ignorable extensions only
// apply to authorship.
func NewAnalyzer(options config.CouplingConfig, opts ...Option) *Analyzer {
	if options.MinCount < 1 {
		options.MinCount = 1
	}
	a := &Analyzer{
		options: options,
		filter:  filter.New(nil),
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze performs coupling analysis on commit change sets.
// An empty sequence returns ErrNoCommits; a history without valid files
// returns an empty result.
func (a *Analyzer) Analyze(changeSets []git.CommitChangeSet) (CouplingAnalysisResult, error) {
	if len(changeSets) == 0 {
		return CouplingAnalysisResult{}, ErrNoCommits
	}

	result := CouplingAnalysisResult{TotalCommits: len(changeSets)}
	fileCommitCounts := make(map[string]int)
	counts := linkedhashmap.New()
	counted := 0

	for _, changeSet := range changeSets {
		files := a.filter.ValidFiles(changeSet)
		if len(files) == 0 {
			result.SkippedCommits++
			continue
		}
		// Skip commits with too many files (likely refactoring or vendoring)
		if a.options.MaxFilesPerCommit > 0 && len(files) > a.options.MaxFilesPerCommit {
			a.logger.Debug("skipping large commit", "sha", changeSet.Commit.SHA, "files", len(files))
			result.SkippedCommits++
			continue
		}
		counted++

		sort.Strings(files)
		for _, f := range files {
			fileCommitCounts[f]++
		}
		for _, pair := range pairsOf(files) {
			n, _ := counts.Get(pair)
			if n == nil {
				counts.Put(pair, 1)
			} else {
				counts.Put(pair, n.(int)+1)
			}
		}
	}

	result.TotalFiles = len(fileCommitCounts)
	result.TotalPairs = counts.Size()

	it := counts.Iterator()
	for it.Next() {
		pair := it.Key().(FilePair)
		count := it.Value().(int)
		if count < a.options.MinCount {
			continue
		}
		result.Pairs = append(result.Pairs, newPairCount(pair, count, fileCommitCounts, counted))
	}

	sort.SliceStable(result.Pairs, func(i, j int) bool {
		if a.options.SortAscending {
			return result.Pairs[i].Count < result.Pairs[j].Count
		}
		return result.Pairs[i].Count > result.Pairs[j].Count
	})

	// Return top N pairs
	if a.options.TopPairs > 0 && len(result.Pairs) > a.options.TopPairs {
		result.Pairs = result.Pairs[:a.options.TopPairs]
	}

	return result, nil
}

// pairsOf expands a sorted file set into its 2-combinations, or a single
// solo pair when the set has one file.
func pairsOf(files []string) []FilePair {
	if len(files) == 1 {
		return []FilePair{NewSoloPair(files[0])}
	}
	pairs := make([]FilePair, 0, len(files)*(len(files)-1)/2)
	for i := 0; i < len(files)-1; i++ {
		for j := i + 1; j < len(files); j++ {
			pairs = append(pairs, NewFilePair(files[i], files[j]))
		}
	}
	return pairs
}

func newPairCount(pair FilePair, count int, fileCommitCounts map[string]int, totalCommits int) PairCount {
	pc := PairCount{
		FilePair:         pair,
		Count:            count,
		FileACommitCount: fileCommitCounts[pair.FileA],
	}
	if pair.IsSolo() {
		return pc
	}

	commitsA := pc.FileACommitCount
	commitsB := fileCommitCounts[pair.FileB]
	pc.FileBCommitCount = commitsB

	union := commitsA + commitsB - count
	pc.Jaccard = float64(count) / float64(union)
	pc.Confidence = float64(count) / float64(commitsA)

	supportA := float64(commitsA) / float64(totalCommits)
	supportB := float64(commitsB) / float64(totalCommits)
	supportAB := float64(count) / float64(totalCommits)
	pc.Lift = supportAB / (supportA * supportB)
	return pc
}
