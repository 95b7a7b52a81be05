package scoring

import (
	"github.com/masmgr/truckfactor-go/internal/git"
)

// Weights of the degree-of-authorship formula
// DOA = C + 0.5*MD - 0.1*MO.
const (
	CreationWeight     = 1.0
	OwnChangeWeight    = 0.5
	OthersChangeWeight = 0.1
)

// AuthorScore is the degree of authorship of one author on one file.
type AuthorScore struct {
	Author     git.AuthorInfo
	Creator    bool
	OwnChanges int // MD
	Others     int // MO
	Raw        float64
	Normalized float64
}

// FileScore holds the scores of every distinct author of a file, creator first.
type FileScore struct {
	Path          string
	Modifications int // changes after creation
	Scores        []AuthorScore
	// Degenerate is set when the file's maximum raw DOA is zero and
	// Normalized therefore carries the raw values unchanged.
	Degenerate bool
}

// RawDOA computes C + 0.5*MD - 0.1*MO for an author.
// ownChanges is MD and modifications is the file's change count after creation.
func RawDOA(creator bool, ownChanges, modifications int) float64 {
	c := 0.0
	if creator {
		c = CreationWeight
	}
	others := modifications - ownChanges
	return c + OwnChangeWeight*float64(ownChanges) - OthersChangeWeight*float64(others)
}

// ScoreFile scores every distinct author of a file from its chronological
// author sequence. authors[0] is the creator.
func ScoreFile(path string, authors []git.AuthorInfo) FileScore {
	fs := FileScore{Path: path}
	if len(authors) == 0 {
		return fs
	}

	counts := make(map[git.AuthorInfo]int, len(authors))
	order := make([]git.AuthorInfo, 0, len(authors))
	for _, a := range authors {
		if counts[a] == 0 {
			order = append(order, a)
		}
		counts[a]++
	}

	modifications := len(authors) - 1
	fs.Modifications = modifications

	creator := authors[0]
	raw := make([]float64, 0, len(order))
	for _, a := range order {
		own := counts[a]
		isCreator := a == creator
		if isCreator {
			// The creation event is not a modification.
			own--
		}
		s := AuthorScore{
			Author:     a,
			Creator:    isCreator,
			OwnChanges: own,
			Others:     modifications - own,
			Raw:        RawDOA(isCreator, own, modifications),
		}
		fs.Scores = append(fs.Scores, s)
		raw = append(raw, s.Raw)
	}

	normalized, degenerate := NormalizeByMax(raw)
	for i := range fs.Scores {
		fs.Scores[i].Normalized = normalized[i]
	}
	fs.Degenerate = degenerate
	return fs
}

// Qualifying returns the scores whose normalized value reaches threshold.
func (fs FileScore) Qualifying(threshold float64) []AuthorScore {
	var out []AuthorScore
	for _, s := range fs.Scores {
		if s.Normalized >= threshold {
			out = append(out, s)
		}
	}
	return out
}
