// Package gitcli implements vcs.Repository by running the git binary.
package gitcli

import (
	"bytes"
	"context"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/teranos/changeset/errors"
	"github.com/teranos/changeset/logger"
	"github.com/teranos/changeset/vcs"
)

// Runner executes a command in dir and returns its captured output.
// Tests substitute a fake to avoid spawning processes.
type Runner func(ctx context.Context, dir, name string, args ...string) (stdout, stderr []byte, err error)

// ExecRunner runs the command with os/exec
func ExecRunner(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// CommandError is returned when git exits unsuccessfully
type CommandError struct {
	Command string // shell-quoted command line
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return e.Command + ": " + e.Err.Error() + ": " + e.Stderr
	}
	return e.Command + ": " + e.Err.Error()
}

func (e *CommandError) Unwrap() error { return e.Err }

// Option configures the CLI backend
type Option func(*CLI)

// WithDir sets the repository working directory
func WithDir(dir string) Option {
	return func(c *CLI) {
		if dir != "" {
			c.dir = dir
		}
	}
}

// WithTimeout bounds every git invocation; zero means no timeout
func WithTimeout(d time.Duration) Option {
	return func(c *CLI) { c.timeout = d }
}

// WithLogger sets the logger used for debug command tracing
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *CLI) { c.logger = logger.Component(l, "git") }
}

// WithRunner overrides how commands are executed
func WithRunner(r Runner) Option {
	return func(c *CLI) {
		if r != nil {
			c.run = r
		}
	}
}

// CLI wraps the git command-line tool
type CLI struct {
	argv    []string
	dir     string
	timeout time.Duration
	logger  *zap.SugaredLogger
	run     Runner
}

var _ vcs.Repository = (*CLI)(nil)

// New builds a CLI backend. binary may carry leading arguments and is split
// with shell quoting rules, e.g. `git -c core.quotepath=off`.
func New(binary string, opts ...Option) (*CLI, error) {
	argv, err := shellquote.Split(binary)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid git binary %q", binary)
	}
	if len(argv) == 0 {
		return nil, errors.NewInvalidRequestError("git binary cannot be empty")
	}

	c := &CLI{
		argv:   argv,
		dir:    ".",
		logger: logger.Nop(),
		run:    ExecRunner,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// git runs a subcommand and returns trimmed stdout
func (c *CLI) git(ctx context.Context, args ...string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	full := append(append([]string(nil), c.argv[1:]...), args...)
	cmdline := shellquote.Join(append([]string{c.argv[0]}, full...)...)

	start := time.Now()
	stdout, stderr, err := c.run(ctx, c.dir, c.argv[0], full...)
	c.logger.Debugw("git invocation",
		logger.FieldCommand, cmdline,
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
		"ok", err == nil)

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = errors.Wrapf(ctx.Err(), "timed out after %s", c.timeout)
		}
		return "", &CommandError{
			Command: cmdline,
			Stderr:  strings.TrimSpace(string(stderr)),
			Err:     err,
		}
	}
	return strings.TrimSpace(string(stdout)), nil
}

// notFoundMarkers are stderr fragments git prints when a lookup has no result
var notFoundMarkers = []string{
	"No names found",
	"No tags can describe",
	"cannot describe",
	"no tag exactly matches",
}

// markNotFound marks err as errors.ErrNotFound when git reported absence
func markNotFound(err error) error {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		for _, marker := range notFoundMarkers {
			if strings.Contains(cmdErr.Stderr, marker) {
				return errors.Mark(err, errors.ErrNotFound)
			}
		}
	}
	return err
}

// Describe runs `git describe --tags --match <pattern> --abbrev=0`
func (c *CLI) Describe(ctx context.Context, pattern string) (string, error) {
	out, err := c.git(ctx, "describe", "--tags", "--match", pattern, "--abbrev=0")
	if err != nil {
		return "", markNotFound(err)
	}
	return out, nil
}

// DescribeExact runs `git describe --tags --exact-match <ref>`
func (c *CLI) DescribeExact(ctx context.Context, ref string) (string, error) {
	out, err := c.git(ctx, "describe", "--tags", "--exact-match", ref)
	if err != nil {
		return "", markNotFound(err)
	}
	return out, nil
}

// RevParse resolves ref to the full hash of the commit it names
func (c *CLI) RevParse(ctx context.Context, ref string) (string, error) {
	out, err := c.git(ctx, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "unknown revision %q", ref), errors.ErrNotFound)
	}
	return out, nil
}

// TagExists runs `git tag -l <name>` and compares the listing
func (c *CLI) TagExists(ctx context.Context, name string) (bool, error) {
	out, err := c.git(ctx, "tag", "-l", name)
	if err != nil {
		return false, err
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == name {
			return true, nil
		}
	}
	return false, nil
}

// RevList runs `git rev-list -n 1 <tag>`
func (c *CLI) RevList(ctx context.Context, tag string) (string, error) {
	out, err := c.git(ctx, "rev-list", "-n", "1", tag)
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", errors.NewNotFoundError("tag %s points at no commit", tag)
	}
	return out, nil
}

// Field and record separators keep multi-line bodies intact
const (
	unitSep   = "\x1f"
	recordSep = "\x1e"
)

// Log runs `git log --format=%H%x1f%B%x1e <start>..<end>`
func (c *CLI) Log(ctx context.Context, start, end string) ([]vcs.Commit, error) {
	rangeSpec := end
	if start != "" {
		rangeSpec = start + ".." + end
	}
	out, err := c.git(ctx, "log", "--format=%H%x1f%B%x1e", rangeSpec, "--")
	if err != nil {
		return nil, err
	}
	return parseLog(out), nil
}

func parseLog(out string) []vcs.Commit {
	var commits []vcs.Commit
	for _, record := range strings.Split(out, recordSep) {
		record = strings.TrimLeft(record, "\r\n")
		if record == "" {
			continue
		}
		hash, message, ok := strings.Cut(record, unitSep)
		if !ok {
			continue
		}
		commits = append(commits, vcs.Commit{
			Hash:    strings.TrimSpace(hash),
			Message: strings.TrimRight(message, "\r\n"),
		})
	}
	return commits
}

// Tag runs `git tag <name> <commit>`
func (c *CLI) Tag(ctx context.Context, name, commit string) error {
	_, err := c.git(ctx, "tag", name, commit)
	return err
}

// Push runs `git push <remote> refs/tags/<tag>`
func (c *CLI) Push(ctx context.Context, remote, tag string) error {
	_, err := c.git(ctx, "push", remote, "refs/tags/"+tag)
	return err
}

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// Version returns the git version parsed from `git --version`
func (c *CLI) Version(ctx context.Context) (*semver.Version, error) {
	out, err := c.git(ctx, "--version")
	if err != nil {
		return nil, err
	}
	return parseVersion(out)
}

func parseVersion(out string) (*semver.Version, error) {
	m := versionPattern.FindStringSubmatch(out)
	if m == nil {
		return nil, errors.Newf("unrecognized git version output %q", out)
	}
	patch := m[3]
	if patch == "" {
		patch = "0"
	}
	return semver.NewVersion(m[1] + "." + m[2] + "." + patch)
}

// CheckVersion verifies the git binary satisfies a semver constraint
// such as ">= 2.0.0". An empty constraint accepts any version.
func (c *CLI) CheckVersion(ctx context.Context, constraint string) error {
	if constraint == "" {
		return nil
	}
	want, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.Wrapf(err, "invalid git version constraint %q", constraint)
	}
	have, err := c.Version(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to determine git version")
	}
	if !want.Check(have) {
		return errors.WithHint(
			errors.Newf("git %s does not satisfy %q", have, constraint),
			"install a newer git or relax git.min_version")
	}
	c.logger.Debugw("git version accepted", "version", have.String(), "constraint", constraint)
	return nil
}
