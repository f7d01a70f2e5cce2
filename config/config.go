// Package config loads changeset configuration from TOML files, environment
// variables and CLI flags using Viper.
package config

// Config represents the changeset configuration
type Config struct {
	Git  GitConfig  `mapstructure:"git" toml:"git" yaml:"git" json:"git"`
	Jira JiraConfig `mapstructure:"jira" toml:"jira" yaml:"jira" json:"jira"`
	Log  LogConfig  `mapstructure:"log" toml:"log" yaml:"log" json:"log"`
}

// Git backends
const (
	BackendCLI   = "cli"   // shell out to the git binary
	BackendGoGit = "gogit" // in-process go-git
)

// GitConfig configures access to the repository being released
type GitConfig struct {
	Backend        string `mapstructure:"backend" toml:"backend" yaml:"backend" json:"backend"`                                 // cli or gogit (default: cli)
	Binary         string `mapstructure:"binary" toml:"binary" yaml:"binary" json:"binary"`                                     // git command, may carry args: "git -c core.quotepath=off"
	RepoPath       string `mapstructure:"repo_path" toml:"repo_path" yaml:"repo_path" json:"repo_path"`                         // repository working directory (default: ".")
	Remote         string `mapstructure:"remote" toml:"remote" yaml:"remote" json:"remote"`                                     // remote that receives new tags (default: origin)
	TimeoutSeconds int    `mapstructure:"timeout_seconds" toml:"timeout_seconds" yaml:"timeout_seconds" json:"timeout_seconds"` // per-invocation timeout, 0 = none
	MinVersion     string `mapstructure:"min_version" toml:"min_version" yaml:"min_version" json:"min_version"`                 // semver constraint for the git binary
}

// JiraConfig configures the issue tracker
type JiraConfig struct {
	URL               string   `mapstructure:"url" toml:"url" yaml:"url" json:"url"`
	User              string   `mapstructure:"user" toml:"user" yaml:"user" json:"user"`
	Password          string   `mapstructure:"password" toml:"password" yaml:"password" json:"password"`
	TransitionName    string   `mapstructure:"transition_name" toml:"transition_name" yaml:"transition_name" json:"transition_name"`                 // default: TO TEST
	TicketPattern     string   `mapstructure:"ticket_pattern" toml:"ticket_pattern" yaml:"ticket_pattern" json:"ticket_pattern"`                     // default: INV-\d+
	SkipStatuses      []string `mapstructure:"skip_statuses" toml:"skip_statuses" yaml:"skip_statuses" json:"skip_statuses"`                         // exact, case-sensitive
	TimeoutSeconds    int      `mapstructure:"timeout_seconds" toml:"timeout_seconds" yaml:"timeout_seconds" json:"timeout_seconds"`                 // HTTP client timeout (default: 30)
	RequestsPerSecond float64  `mapstructure:"requests_per_second" toml:"requests_per_second" yaml:"requests_per_second" json:"requests_per_second"` // 0 = unlimited
	MaxRetries        int      `mapstructure:"max_retries" toml:"max_retries" yaml:"max_retries" json:"max_retries"`                                 // retries on 429/503
	BlockPrivateHosts bool     `mapstructure:"block_private_hosts" toml:"block_private_hosts" yaml:"block_private_hosts" json:"block_private_hosts"` // refuse private/loopback addresses
}

// LogConfig configures log output
type LogConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json" yaml:"json" json:"json"`
	Theme string `mapstructure:"theme" toml:"theme" yaml:"theme" json:"theme"` // everforest, gruvbox
}

// Redacted returns a copy safe to print
func (c Config) Redacted() Config {
	if c.Jira.Password != "" {
		c.Jira.Password = "********"
	}
	c.Jira.SkipStatuses = append([]string(nil), c.Jira.SkipStatuses...)
	return c
}
