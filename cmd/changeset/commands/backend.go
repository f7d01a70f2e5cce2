package commands

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/changeset/config"
	"github.com/teranos/changeset/errors"
	"github.com/teranos/changeset/logger"
	"github.com/teranos/changeset/tracker"
	"github.com/teranos/changeset/tracker/jira"
	"github.com/teranos/changeset/vcs"
	"github.com/teranos/changeset/vcs/gitcli"
	"github.com/teranos/changeset/vcs/gogit"
)

// RepositoryFactory opens the repository a command operates on
type RepositoryFactory func(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (vcs.Repository, error)

// TrackerFactory connects to the issue tracker
type TrackerFactory func(cfg *config.Config, log *zap.SugaredLogger, verbosity int) (tracker.Tracker, error)

// OpenRepository selects the git backend named by git.backend. The cli
// backend is checked against git.min_version before use.
func OpenRepository(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (vcs.Repository, error) {
	switch cfg.Git.Backend {
	case config.BackendGoGit:
		repo, err := gogit.Open(cfg.Git.RepoPath, log)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case config.BackendCLI, "":
		cli, err := gitcli.New(cfg.Git.Binary,
			gitcli.WithDir(cfg.Git.RepoPath),
			gitcli.WithTimeout(time.Duration(cfg.Git.TimeoutSeconds)*time.Second),
			gitcli.WithLogger(log))
		if err != nil {
			return nil, err
		}
		if err := cli.CheckVersion(ctx, cfg.Git.MinVersion); err != nil {
			return nil, err
		}
		return cli, nil
	default:
		return nil, errors.NewInvalidRequestError("unknown git backend %q", cfg.Git.Backend)
	}
}

// NewJiraTracker builds a Jira client from the [jira] section. At trace
// verbosity (-vv) request and response bodies are logged.
func NewJiraTracker(cfg *config.Config, log *zap.SugaredLogger, verbosity int) (tracker.Tracker, error) {
	client, err := jira.NewClient(jira.Config{
		URL:               cfg.Jira.URL,
		User:              cfg.Jira.User,
		Password:          cfg.Jira.Password,
		Timeout:           time.Duration(cfg.Jira.TimeoutSeconds) * time.Second,
		RequestsPerSecond: cfg.Jira.RequestsPerSecond,
		MaxRetries:        cfg.Jira.MaxRetries,
		BlockPrivateHosts: cfg.Jira.BlockPrivateHosts,
		TraceBodies:       logger.ShouldLogTrace(verbosity),
		Logger:            log,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}
