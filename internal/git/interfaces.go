package git

import "context"

// RepositoryReader defines the interface for reading Git repository history.
// Implementations return change sets oldest first.
type RepositoryReader interface {
	ReadChanges(ctx context.Context) ([]CommitChangeSet, error)
}

// Compile-time interface conformance check.
var _ RepositoryReader = (*HistoryReader)(nil)
