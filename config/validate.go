package config

import (
	"regexp"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/changeset/errors"
)

// Validate checks that the configuration is usable by any command
func (c *Config) Validate() error {
	switch c.Git.Backend {
	case BackendCLI, BackendGoGit:
	default:
		return errors.NewInvalidRequestError("git.backend must be %q or %q, got %q", BackendCLI, BackendGoGit, c.Git.Backend)
	}

	if c.Git.Backend == BackendCLI && c.Git.Binary == "" {
		return errors.NewInvalidRequestError("git.binary cannot be empty")
	}

	if c.Git.TimeoutSeconds < 0 {
		return errors.NewInvalidRequestError("git.timeout_seconds must be >= 0, got %d", c.Git.TimeoutSeconds)
	}

	if c.Git.MinVersion != "" {
		if _, err := semver.NewConstraint(c.Git.MinVersion); err != nil {
			return errors.Wrap(errors.NewInvalidRequestError("git.min_version %q", c.Git.MinVersion), err.Error())
		}
	}

	if c.Jira.TimeoutSeconds < 0 {
		return errors.NewInvalidRequestError("jira.timeout_seconds must be >= 0, got %d", c.Jira.TimeoutSeconds)
	}
	if c.Jira.RequestsPerSecond < 0 {
		return errors.NewInvalidRequestError("jira.requests_per_second must be >= 0, got %f", c.Jira.RequestsPerSecond)
	}
	if c.Jira.MaxRetries < 0 {
		return errors.NewInvalidRequestError("jira.max_retries must be >= 0, got %d", c.Jira.MaxRetries)
	}

	if _, err := regexp.Compile(c.Jira.TicketPattern); err != nil || c.Jira.TicketPattern == "" {
		return errors.NewInvalidRequestError("jira.ticket_pattern %q is not a valid regular expression", c.Jira.TicketPattern)
	}

	return nil
}

// ValidateTracker checks the settings move-tickets needs on top of Validate
func (c *Config) ValidateTracker() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Jira.URL == "" {
		return errors.WithHint(
			errors.NewInvalidRequestError("jira.url is required"),
			"pass --jira-url or set CHANGESET_JIRA_URL")
	}
	if c.Jira.TransitionName == "" {
		return errors.NewInvalidRequestError("jira.transition_name cannot be empty")
	}
	return nil
}
