package aggregation

import (
	"context"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"github.com/masmgr/truckfactor-go/internal/git"
	"github.com/masmgr/truckfactor-go/internal/scoring"
)

// DefaultDOAThreshold is the normalized DOA an author needs on a file to be
// strongly associated with it.
const DefaultDOAThreshold = 0.5

// AuthorshipTable maps each author to the normalized DOA values of the files
// the author is strongly associated with. Authors keep the order in which
// they first qualified.
type AuthorshipTable struct {
	order  []git.AuthorInfo
	scores map[git.AuthorInfo][]float64
}

func newAuthorshipTable() *AuthorshipTable {
	return &AuthorshipTable{scores: make(map[git.AuthorInfo][]float64)}
}

// add folds the qualifying scores of one file into the table.
func (t *AuthorshipTable) add(fs scoring.FileScore, threshold float64) {
	for _, s := range fs.Qualifying(threshold) {
		if _, exists := t.scores[s.Author]; !exists {
			t.order = append(t.order, s.Author)
		}
		t.scores[s.Author] = append(t.scores[s.Author], s.Normalized)
	}
}

// Authors returns the authors in first-qualification order.
func (t *AuthorshipTable) Authors() []git.AuthorInfo {
	out := make([]git.AuthorInfo, len(t.order))
	copy(out, t.order)
	return out
}

// Scores returns the qualifying scores of an author.
func (t *AuthorshipTable) Scores(author git.AuthorInfo) []float64 {
	src := t.scores[author]
	out := make([]float64, len(src))
	copy(out, src)
	return out
}

// FileCount returns the number of files the author is strongly associated with.
func (t *AuthorshipTable) FileCount(author git.AuthorInfo) int {
	return len(t.scores[author])
}

// Len returns the number of authors in the table.
func (t *AuthorshipTable) Len() int {
	return len(t.order)
}

// Associations returns the total number of (author, file) associations.
func (t *AuthorshipTable) Associations() int {
	n := 0
	for _, s := range t.scores {
		n += len(s)
	}
	return n
}

// BuildAuthorshipTable scores every file of fa and keeps the authors whose
// normalized DOA reaches threshold. Files are scored concurrently on at most
// workers goroutines (GOMAXPROCS when workers <= 0); results are folded in
// file order so the table does not depend on scheduling.
func BuildAuthorshipTable(ctx context.Context, fa *FileAuthors, threshold float64, workers int) (*AuthorshipTable, []scoring.FileScore, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	files := fa.Files()
	scores := make([]scoring.FileScore, len(files))

	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx)
	for i, path := range files {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			scores[i] = scoring.ScoreFile(path, fa.authors[path])
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, nil, err
	}

	table := newAuthorshipTable()
	for _, fs := range scores {
		table.add(fs, threshold)
	}
	return table, scores, nil
}
