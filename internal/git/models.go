package git

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNoCommits is returned when a history read or an analysis is handed an
// empty commit sequence.
var ErrNoCommits = errors.New("no commits found")

// CommitInfo represents minimal information about a Git commit.
type CommitInfo struct {
	SHA     string
	When    time.Time
	Author  AuthorInfo
	Message string
}

// AuthorInfo represents commit author information.
// It is comparable and used directly as the author identity key.
type AuthorInfo struct {
	Name  string
	Email string
}

// ContributorKey returns a normalized identifier for grouping contributors.
func (a AuthorInfo) ContributorKey() string {
	return strings.ToLower(a.Email)
}

// String renders the identity as "Name <email>".
func (a AuthorInfo) String() string {
	if a.Email == "" {
		return a.Name
	}
	return a.Name + " <" + a.Email + ">"
}

// FileChange represents a file change within a commit.
type FileChange struct {
	Path         string
	OldPath      string // For renames
	LinesAdded   int
	LinesDeleted int
	Kind         ChangeKind
}

// Churn returns total lines changed (added + deleted).
func (f FileChange) Churn() int {
	return f.LinesAdded + f.LinesDeleted
}

// ChangeKind represents the type of change.
type ChangeKind int

const (
	ChangeKindAdded ChangeKind = iota
	ChangeKindModified
	ChangeKindDeleted
	ChangeKindRenamed
)

// String returns a string representation of the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeKindAdded:
		return "added"
	case ChangeKindModified:
		return "modified"
	case ChangeKindDeleted:
		return "deleted"
	case ChangeKindRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// CommitChangeSet bundles a commit with its file changes.
type CommitChangeSet struct {
	Commit  CommitInfo
	Changes []FileChange
}

// Paths returns the changed paths in the order git reported them.
func (cs CommitChangeSet) Paths() []string {
	paths := make([]string, 0, len(cs.Changes))
	for _, c := range cs.Changes {
		if c.Path != "" {
			paths = append(paths, c.Path)
		}
	}
	return paths
}

// Backend selects the history reading implementation.
type Backend string

const (
	BackendGoGit Backend = "gogit"
	BackendCLI   Backend = "cli"
)

// ParseBackend converts a flag or config value into a Backend.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "gogit", "go-git":
		return BackendGoGit, nil
	case "cli", "git":
		return BackendCLI, nil
	default:
		return "", fmt.Errorf("unknown history backend %q (expected gogit or cli)", s)
	}
}

// ReadOptions configures the history reader.
type ReadOptions struct {
	RepoPath   string
	Branch     string
	Since      *time.Time
	Until      *time.Time
	Include    []string // Glob patterns to include
	Exclude    []string // Glob patterns to exclude
	Backend    Backend
	SkipMerges bool
	// OnProgress is called with the number of commits read so far.
	OnProgress func(processed int)
}
