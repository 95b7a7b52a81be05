package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// HistoryReader reads commit history from a Git repository.
type HistoryReader struct {
	repo        *git.Repository
	opts        ReadOptions
	filterCache map[string]bool
}

// NewHistoryReader creates a new history reader for the given repository.
func NewHistoryReader(opts ReadOptions) (*HistoryReader, error) {
	if opts.Backend == "" {
		opts.Backend = BackendGoGit
	}

	r := &HistoryReader{opts: opts, filterCache: make(map[string]bool)}
	if opts.Backend == BackendCLI {
		return r, nil
	}

	repo, err := git.PlainOpen(opts.RepoPath)
	if err != nil {
		return nil, err
	}
	r.repo = repo
	return r, nil
}

// ReadChanges reads commit changes from the repository, oldest commit first.
// Root commits are included so that file creation is visible to callers.
func (r *HistoryReader) ReadChanges(ctx context.Context) ([]CommitChangeSet, error) {
	if r.opts.Backend == BackendCLI {
		return r.readChangesGitCLI(ctx)
	}
	return r.readChangesGoGit(ctx)
}

func (r *HistoryReader) readChangesGoGit(ctx context.Context) ([]CommitChangeSet, error) {
	from, err := r.resolveStart()
	if err != nil {
		return nil, err
	}

	logOpts := &git.LogOptions{From: from}
	if r.opts.Since != nil {
		logOpts.Since = r.opts.Since
	}
	if r.opts.Until != nil {
		logOpts.Until = r.opts.Until
	}

	cIter, err := r.repo.Log(logOpts)
	if err != nil {
		return nil, err
	}

	var results []CommitChangeSet
	processed := 0
	err = cIter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if r.opts.SkipMerges && c.NumParents() > 1 {
			return nil
		}

		changes, err := r.getCommitChanges(ctx, c)
		if err != nil {
			return fmt.Errorf("commit %s: %w", c.Hash, err)
		}
		if len(changes) == 0 {
			return nil
		}

		// Extract first line of commit message
		message := c.Message
		if idx := strings.IndexByte(message, '\n'); idx != -1 {
			message = message[:idx]
		}

		results = append(results, CommitChangeSet{
			Commit: CommitInfo{
				SHA:     c.Hash.String(),
				When:    c.Committer.When,
				Author:  AuthorInfo{Name: c.Author.Name, Email: c.Author.Email},
				Message: message,
			},
			Changes: changes,
		})

		processed++
		if r.opts.OnProgress != nil {
			r.opts.OnProgress(processed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	reverseChangeSets(results)
	return results, nil
}

// resolveStart returns the commit the log walk starts from.
func (r *HistoryReader) resolveStart() (plumbing.Hash, error) {
	rev := strings.TrimSpace(r.opts.Branch)
	if rev == "" || strings.EqualFold(rev, "HEAD") {
		ref, err := r.repo.Head()
		if err != nil {
			return plumbing.ZeroHash, err
		}
		return ref.Hash(), nil
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolve branch %q: %w", rev, err)
	}
	return *hash, nil
}

// getCommitChanges extracts file changes from a commit against its first
// parent, or against the empty tree for a root commit.
func (r *HistoryReader) getCommitChanges(ctx context.Context, c *object.Commit) ([]FileChange, error) {
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}

	parentTree := &object.Tree{}
	if c.NumParents() > 0 {
		parent, err := c.Parent(0)
		if err != nil {
			return nil, err
		}
		parentTree, err = parent.Tree()
		if err != nil {
			return nil, err
		}
	}

	patch, err := parentTree.PatchContext(ctx, tree)
	if err != nil {
		return nil, err
	}

	var changes []FileChange
	for _, filePatch := range patch.FilePatches() {
		from, to := filePatch.Files()

		var path, oldPath string
		var kind ChangeKind

		switch {
		case from == nil && to != nil:
			path = to.Path()
			kind = ChangeKindAdded
		case from != nil && to == nil:
			path = from.Path()
			kind = ChangeKindDeleted
		case from != nil && to != nil && from.Path() != to.Path():
			path = to.Path()
			oldPath = from.Path()
			kind = ChangeKindRenamed
		default:
			if to != nil {
				path = to.Path()
			} else if from != nil {
				path = from.Path()
			}
			kind = ChangeKindModified
		}

		if path == "" {
			continue
		}

		matches, err := r.matchesFilters(path)
		if err != nil {
			return nil, err
		}
		if !matches {
			continue
		}

		var added, deleted int
		for _, chunk := range filePatch.Chunks() {
			switch chunk.Type() {
			case diff.Add:
				added += countLines(chunk.Content())
			case diff.Delete:
				deleted += countLines(chunk.Content())
			}
		}

		changes = append(changes, FileChange{
			Path:         path,
			OldPath:      oldPath,
			LinesAdded:   added,
			LinesDeleted: deleted,
			Kind:         kind,
		})
	}

	return changes, nil
}

// matchesFilters checks if a path matches the include/exclude filters.
// Results are cached per path; an invalid glob is reported as an error.
func (r *HistoryReader) matchesFilters(path string) (bool, error) {
	if cached, ok := r.filterCache[path]; ok {
		return cached, nil
	}

	// Normalize path separators
	normalized := strings.ReplaceAll(path, "\\", "/")

	result, err := r.evalFilters(normalized)
	if err != nil {
		return false, err
	}
	r.filterCache[path] = result
	return result, nil
}

func (r *HistoryReader) evalFilters(path string) (bool, error) {
	for _, pattern := range r.opts.Exclude {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			return false, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		if matched {
			return false, nil
		}
	}

	if len(r.opts.Include) == 0 {
		return true, nil
	}

	for _, pattern := range r.opts.Include {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			return false, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}

func reverseChangeSets(cs []CommitChangeSet) {
	for i, j := 0, len(cs)-1; i < j; i, j = i+1, j-1 {
		cs[i], cs[j] = cs[j], cs[i]
	}
}
