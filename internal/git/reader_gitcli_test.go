package git

import (
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing/filemode"
)

func TestParseGitRawAndNumstat_RenameAndModify(t *testing.T) {
	// Body bytes are what comes after the pretty header line.
	// For -z formats, entries are NUL-separated and concatenated.
	body := []byte{}

	// Modify a.txt
	body = append(body, []byte(":100644 100644 1111111 2222222 M")...)
	body = append(body, 0)
	body = append(body, []byte("a.txt")...)
	body = append(body, 0)

	// Rename old.go -> new.go
	body = append(body, []byte(":100644 100644 3333333 4444444 R100")...)
	body = append(body, 0)
	body = append(body, []byte("old.go")...)
	body = append(body, 0)
	body = append(body, []byte("new.go")...)
	body = append(body, 0)

	// Numstat for a.txt
	body = append(body, []byte("1\t2\ta.txt")...)
	body = append(body, 0)

	// Numstat for rename: with -z, git writes an empty path then old\0new\0
	body = append(body, []byte("3\t4\t")...)
	body = append(body, 0) // empty path signals rename
	body = append(body, []byte("old.go")...)
	body = append(body, 0)
	body = append(body, []byte("new.go")...)
	body = append(body, 0)

	raw, pos, err := parseGitRawEntries(body)
	if err != nil {
		t.Fatalf("parseGitRawEntries: %v", err)
	}
	if len(raw) != 2 {
		t.Fatalf("raw entries = %d, expected 2", len(raw))
	}
	if raw[0].status != "M" || raw[0].path != "a.txt" || raw[0].oldPath != "" {
		t.Fatalf("raw[0] = %#v", raw[0])
	}
	if raw[1].status != "R100" || raw[1].path != "new.go" || raw[1].oldPath != "old.go" {
		t.Fatalf("raw[1] = %#v", raw[1])
	}

	stats, err := parseGitNumstat(body[pos:], raw)
	if err != nil {
		t.Fatalf("parseGitNumstat: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("stats = %d, expected 2", len(stats))
	}
	if stats[0].added != 1 || stats[0].deleted != 2 {
		t.Fatalf("stats[0] = %#v, expected 1/2", stats[0])
	}
	if stats[1].added != 3 || stats[1].deleted != 4 {
		t.Fatalf("stats[1] = %#v, expected 3/4", stats[1])
	}
}

func TestParseGitNumstat_LeadingNewline(t *testing.T) {
	// Real git output has a newline separating --raw from --numstat sections.
	body := []byte{}

	// --raw entry: modify foo.js
	body = append(body, []byte(":100644 100644 aaa bbb M")...)
	body = append(body, 0)
	body = append(body, []byte("External/foo.js")...)
	body = append(body, 0)

	// Newline separator (as real git produces)
	body = append(body, '\n')

	// --numstat entry
	body = append(body, []byte("5\t3\tExternal/foo.js")...)
	body = append(body, 0)

	raw, pos, err := parseGitRawEntries(body)
	if err != nil {
		t.Fatalf("parseGitRawEntries: %v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("raw entries = %d, expected 1", len(raw))
	}

	stats, err := parseGitNumstat(body[pos:], raw)
	if err != nil {
		t.Fatalf("parseGitNumstat: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("stats = %d, expected 1", len(stats))
	}
	if stats[0].added != 5 || stats[0].deleted != 3 {
		t.Fatalf("stats[0] = %#v, expected 5/3", stats[0])
	}
}

func TestKindFromGitStatus(t *testing.T) {
	tests := []struct {
		status   string
		oldPath  string
		wantKind ChangeKind
		wantOld  string
	}{
		{status: "A", wantKind: ChangeKindAdded},
		{status: "M", wantKind: ChangeKindModified},
		{status: "D", wantKind: ChangeKindDeleted},
		{status: "R100", oldPath: "old.go", wantKind: ChangeKindRenamed, wantOld: "old.go"},
	}

	for _, tt := range tests {
		gotKind, gotOld := kindFromGitStatus(tt.status, tt.oldPath)
		if gotKind != tt.wantKind || gotOld != tt.wantOld {
			t.Fatalf("kindFromGitStatus(%q,%q) = (%v,%q), want (%v,%q)", tt.status, tt.oldPath, gotKind, gotOld, tt.wantKind, tt.wantOld)
		}
	}
}

func TestGitLogArgs(t *testing.T) {
	since := time.Unix(1700000000, 0)
	r := &HistoryReader{opts: ReadOptions{
		RepoPath: "/repo",
		Branch:   "feature",
		Since:    &since,
	}}

	args := strings.Join(r.gitLogArgs(), " ")
	for _, want := range []string{"-C /repo", "--reverse", "--root", "--diff-merges=first-parent", "--since=@1700000000", "feature"} {
		if !strings.Contains(args, want) {
			t.Errorf("args %q missing %q", args, want)
		}
	}

	r.opts.SkipMerges = true
	r.opts.Branch = "HEAD"
	args = strings.Join(r.gitLogArgs(), " ")
	if !strings.Contains(args, "--no-merges") {
		t.Errorf("args %q missing --no-merges", args)
	}
	if strings.HasSuffix(args, "HEAD") {
		t.Errorf("args %q should not pass HEAD explicitly", args)
	}
}

func TestParseGitLog_RootCommitAndFilters(t *testing.T) {
	out := []byte{}
	out = append(out, 0x1e)
	out = append(out, []byte("aaa\x00\x002024-01-01T12:00:00Z\x00Ana\x00ana@example.com\x00initial\n")...)
	out = append(out, []byte(":000000 100644 0000000 1111111 A")...)
	out = append(out, 0)
	out = append(out, []byte("main.go")...)
	out = append(out, 0)
	out = append(out, []byte(":000000 100644 0000000 2222222 A")...)
	out = append(out, 0)
	out = append(out, []byte("vendor/x.go")...)
	out = append(out, 0)
	out = append(out, '\n')
	out = append(out, []byte("1\t0\tmain.go")...)
	out = append(out, 0)
	out = append(out, []byte("1\t0\tvendor/x.go")...)
	out = append(out, 0)

	r := &HistoryReader{
		opts:        ReadOptions{Exclude: []string{"vendor/**"}},
		filterCache: make(map[string]bool),
	}
	changeSets, err := r.parseGitLog(out)
	if err != nil {
		t.Fatalf("parseGitLog: %v", err)
	}
	if len(changeSets) != 1 {
		t.Fatalf("changesets = %d, expected 1", len(changeSets))
	}
	cs := changeSets[0]
	if cs.Commit.SHA != "aaa" || cs.Commit.Author.Email != "ana@example.com" {
		t.Errorf("commit = %+v", cs.Commit)
	}
	if len(cs.Changes) != 1 || cs.Changes[0].Path != "main.go" || cs.Changes[0].Kind != ChangeKindAdded {
		t.Errorf("changes = %+v, expected only added main.go", cs.Changes)
	}
}

func TestParseGitFileMode(t *testing.T) {
	tests := []struct {
		in       string
		expected filemode.FileMode
		isFile   bool
	}{
		{in: "", expected: filemode.Empty},
		{in: "000000", expected: filemode.Empty},
		{in: "100644", expected: filemode.Regular, isFile: true},
		{in: "100664", expected: filemode.Deprecated, isFile: true},
		{in: "100755", expected: filemode.Executable, isFile: true},
		{in: "120000", expected: filemode.Symlink, isFile: true},
		{in: "160000", expected: filemode.Submodule},
		{in: "040000", expected: filemode.Dir},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseGitFileMode(tt.in)
			if err != nil {
				t.Fatalf("parseGitFileMode(%q): %v", tt.in, err)
			}
			if got != tt.expected {
				t.Errorf("parseGitFileMode(%q) = %v, expected %v", tt.in, got, tt.expected)
			}
			if got.IsFile() != tt.isFile {
				t.Errorf("IsFile(%q) = %v, expected %v", tt.in, got.IsFile(), tt.isFile)
			}
		})
	}

	if _, err := parseGitFileMode("10064x"); err == nil {
		t.Error("expected error for non-octal mode")
	}
}

func TestParseGitLog_DeprecatedModeKeptSubmoduleSkipped(t *testing.T) {
	out := []byte{}
	out = append(out, 0x1e)
	out = append(out, []byte("bbb\x00\x002024-01-02T12:00:00Z\x00Ana\x00ana@example.com\x00modes\n")...)
	out = append(out, []byte(":100664 100664 1111111 2222222 M")...)
	out = append(out, 0)
	out = append(out, []byte("legacy.c")...)
	out = append(out, 0)
	out = append(out, []byte(":160000 160000 3333333 4444444 M")...)
	out = append(out, 0)
	out = append(out, []byte("third_party/lib")...)
	out = append(out, 0)
	out = append(out, '\n')
	out = append(out, []byte("2\t1\tlegacy.c")...)
	out = append(out, 0)
	out = append(out, []byte("1\t1\tthird_party/lib")...)
	out = append(out, 0)

	r := &HistoryReader{filterCache: make(map[string]bool)}
	changeSets, err := r.parseGitLog(out)
	if err != nil {
		t.Fatalf("parseGitLog: %v", err)
	}
	if len(changeSets) != 1 {
		t.Fatalf("changesets = %d, expected 1", len(changeSets))
	}
	changes := changeSets[0].Changes
	if len(changes) != 1 || changes[0].Path != "legacy.c" || changes[0].Kind != ChangeKindModified {
		t.Errorf("changes = %+v, expected only modified legacy.c", changes)
	}
}
