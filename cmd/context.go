package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/truckfactor-go/config"
	"github.com/masmgr/truckfactor-go/internal/git"
	"github.com/masmgr/truckfactor-go/internal/output"
	"github.com/masmgr/truckfactor-go/internal/progress"
)

// newReader opens the history reader. Tests replace it with a mock.
var newReader = func(opts git.ReadOptions) (git.RepositoryReader, error) {
	return git.NewHistoryReader(opts)
}

// CommandContext holds common state for command execution.
// It encapsulates the shared setup logic across all analysis commands.
type CommandContext struct {
	Config     *config.Config
	RepoPath   string
	Since      *time.Time
	Until      time.Time
	Branch     string
	ChangeSets []git.CommitChangeSet
	Logger     *slog.Logger
}

// NewCommandContext creates a context from CLI flags.
// applyOverrides adjusts the configuration with command specific flags
// before it is validated.
func NewCommandContext(c *cli.Context, applyOverrides func(*config.Config)) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if applyOverrides != nil {
		applyOverrides(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	since, err := parseDateFlag(c.String("since"))
	if err != nil {
		return nil, fmt.Errorf("invalid since date: %w", err)
	}
	until, err := parseDateFlag(c.String("until"))
	if err != nil {
		return nil, fmt.Errorf("invalid until date: %w", err)
	}

	untilTime := time.Now()
	if until != nil {
		untilTime = *until
	}

	backend, err := git.ParseBackend(cfg.History.Backend)
	if err != nil {
		return nil, err
	}

	logger := slog.Default()
	repoPath := c.String("repo")
	opts := git.ReadOptions{
		RepoPath:   repoPath,
		Branch:     cfg.History.Branch,
		Since:      since,
		Until:      until,
		Include:    cfg.Filters.Include,
		Exclude:    cfg.Filters.Exclude,
		Backend:    backend,
		SkipMerges: cfg.History.SkipMerges,
	}

	var spinner *progress.Tracker
	if !c.Bool("no-progress") {
		spinner = progress.NewSpinner("reading history")
		opts.OnProgress = spinner.Update
	}

	reader, err := newReader(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	logger.Debug("reading history", "repo", repoPath, "branch", opts.Branch, "backend", string(backend))
	changeSets, err := reader.ReadChanges(c.Context)
	if spinner != nil {
		spinner.Finish()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	logger.Debug("read history", "commits", len(changeSets))

	return &CommandContext{
		Config:     cfg,
		RepoPath:   repoPath,
		Since:      since,
		Until:      untilTime,
		Branch:     opts.Branch,
		ChangeSets: changeSets,
		Logger:     logger,
	}, nil
}

// HasCommits returns true if commits were found in the specified range.
func (ctx *CommandContext) HasCommits() bool {
	return len(ctx.ChangeSets) > 0
}

// PrintNoCommitsMessage prints a message when no commits are found.
func (ctx *CommandContext) PrintNoCommitsMessage(c *cli.Context) {
	fmt.Fprintln(c.App.Writer, "No commits found in the specified range.")
}

// executeWithContext builds the command context and runs fn when the
// selected range has commits. An empty range is not an error.
func executeWithContext(c *cli.Context, applyOverrides func(*config.Config), fn func(*CommandContext, *cli.Context) error) error {
	ctx, err := NewCommandContext(c, applyOverrides)
	if err != nil {
		return err
	}
	if !ctx.HasCommits() {
		ctx.PrintNoCommitsMessage(c)
		return nil
	}
	if err := fn(ctx, c); err != nil {
		if errors.Is(err, git.ErrNoCommits) {
			ctx.PrintNoCommitsMessage(c)
			return nil
		}
		return err
	}
	return nil
}

// OutputOptions creates OutputOptions from CLI flags. defaultTop applies when
// --top is not given.
func OutputOptions(c *cli.Context, defaultTop int) output.OutputOptions {
	top := defaultTop
	if c.IsSet("top") {
		top = c.Int("top")
	}
	return output.OutputOptions{
		Format:     output.ParseFormat(c.String("format")),
		Top:        top,
		OutputPath: c.String("output"),
		Explain:    c.Bool("explain"),
	}
}
