package config

import "github.com/spf13/viper"

// Default values shared by SetDefaults and Default
const (
	DefaultBackend           = BackendCLI
	DefaultBinary            = "git"
	DefaultRepoPath          = "."
	DefaultRemote            = "origin"
	DefaultMinGitVersion     = ">= 2.0.0"
	DefaultTransitionName    = "TO TEST"
	DefaultTicketPattern     = `INV-\d+`
	DefaultJiraTimeout       = 30
	DefaultRequestsPerSecond = 5.0
	DefaultMaxRetries        = 3
	DefaultTheme             = "everforest"
)

// DefaultSkipStatuses are the statuses a ticket is never moved out of
var DefaultSkipStatuses = []string{"To Test", "Done", "Closed"}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("git.backend", DefaultBackend)
	v.SetDefault("git.binary", DefaultBinary)
	v.SetDefault("git.repo_path", DefaultRepoPath)
	v.SetDefault("git.remote", DefaultRemote)
	v.SetDefault("git.timeout_seconds", 0) // no timeout: a hung git call hangs the run
	v.SetDefault("git.min_version", DefaultMinGitVersion)

	v.SetDefault("jira.transition_name", DefaultTransitionName)
	v.SetDefault("jira.ticket_pattern", DefaultTicketPattern)
	v.SetDefault("jira.skip_statuses", DefaultSkipStatuses)
	v.SetDefault("jira.timeout_seconds", DefaultJiraTimeout)
	v.SetDefault("jira.requests_per_second", DefaultRequestsPerSecond)
	v.SetDefault("jira.max_retries", DefaultMaxRetries)
	v.SetDefault("jira.block_private_hosts", false) // Jira commonly lives on an internal network

	v.SetDefault("log.json", false)
	v.SetDefault("log.theme", DefaultTheme)
}

// BindSensitiveEnvVars explicitly binds credentials to environment variables
// so they can be kept off the command line
func BindSensitiveEnvVars(v *viper.Viper) {
	_ = v.BindEnv("jira.url", "CHANGESET_JIRA_URL", "JIRA_URL")
	_ = v.BindEnv("jira.user", "CHANGESET_JIRA_USER", "JIRA_USER")
	_ = v.BindEnv("jira.password", "CHANGESET_JIRA_PASSWORD", "JIRA_PASSWORD")
}

// Default returns a Config populated with defaults only
func Default() *Config {
	return &Config{
		Git: GitConfig{
			Backend:    DefaultBackend,
			Binary:     DefaultBinary,
			RepoPath:   DefaultRepoPath,
			Remote:     DefaultRemote,
			MinVersion: DefaultMinGitVersion,
		},
		Jira: JiraConfig{
			TransitionName:    DefaultTransitionName,
			TicketPattern:     DefaultTicketPattern,
			SkipStatuses:      append([]string(nil), DefaultSkipStatuses...),
			TimeoutSeconds:    DefaultJiraTimeout,
			RequestsPerSecond: DefaultRequestsPerSecond,
			MaxRetries:        DefaultMaxRetries,
		},
		Log: LogConfig{Theme: DefaultTheme},
	}
}
