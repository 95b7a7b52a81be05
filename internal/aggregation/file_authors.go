package aggregation

import (
	"sort"

	"github.com/masmgr/truckfactor-go/internal/filter"
	"github.com/masmgr/truckfactor-go/internal/git"
)

// IdentityFunc maps a commit author onto the identity used as aggregation key.
type IdentityFunc func(git.AuthorInfo) git.AuthorInfo

// ExactIdentity keys authors by the exact (name, email) pair.
func ExactIdentity(a git.AuthorInfo) git.AuthorInfo { return a }

// FoldEmailCase keys authors by name and lower-cased email.
func FoldEmailCase(a git.AuthorInfo) git.AuthorInfo {
	return git.AuthorInfo{Name: a.Name, Email: a.ContributorKey()}
}

// FileAuthors maps every valid file to the chronological list of authors of
// the commits that touched it. The first author of a file is its creator.
type FileAuthors struct {
	files   []string
	authors map[string][]git.AuthorInfo
	commits int
	skipped int
}

// BuildFileAuthors folds a commit sequence into per-file author lists.
// Change sets are ordered by commit time (stable, so commits sharing a
// timestamp keep their input order) before folding. Commits without valid
// files are skipped. A nil identity means ExactIdentity.
func BuildFileAuthors(changeSets []git.CommitChangeSet, f *filter.Filter, identity IdentityFunc) *FileAuthors {
	if identity == nil {
		identity = ExactIdentity
	}

	ordered := make([]git.CommitChangeSet, len(changeSets))
	copy(ordered, changeSets)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Commit.When.Before(ordered[j].Commit.When)
	})

	fa := &FileAuthors{authors: make(map[string][]git.AuthorInfo)}
	for _, cs := range ordered {
		files := f.ValidFiles(cs)
		if len(files) == 0 {
			fa.skipped++
			continue
		}
		fa.commits++

		author := identity(cs.Commit.Author)
		for _, file := range files {
			if _, exists := fa.authors[file]; !exists {
				fa.files = append(fa.files, file)
			}
			fa.authors[file] = append(fa.authors[file], author)
		}
	}
	return fa
}

// Files returns the files in order of first appearance.
func (fa *FileAuthors) Files() []string {
	out := make([]string, len(fa.files))
	copy(out, fa.files)
	return out
}

// Authors returns the chronological author list of a file.
func (fa *FileAuthors) Authors(path string) []git.AuthorInfo {
	src := fa.authors[path]
	out := make([]git.AuthorInfo, len(src))
	copy(out, src)
	return out
}

// Creator returns the author of the first commit touching path.
func (fa *FileAuthors) Creator(path string) (git.AuthorInfo, bool) {
	src := fa.authors[path]
	if len(src) == 0 {
		return git.AuthorInfo{}, false
	}
	return src[0], true
}

// Len returns the number of distinct files.
func (fa *FileAuthors) Len() int {
	return len(fa.files)
}

// Commits returns the number of commits that contributed at least one file.
func (fa *FileAuthors) Commits() int {
	return fa.commits
}

// Skipped returns the number of commits without any valid file.
func (fa *FileAuthors) Skipped() int {
	return fa.skipped
}
