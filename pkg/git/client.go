// Package git drives the git CLI for stores that keep their slots under
// version control.
package git

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// DefaultLockName is the lock file used when none is configured.
const DefaultLockName = ".quicknotes.lock"

// Client wraps git command execution with a file-based lock for process safety.
type Client struct {
	WorkDir  string
	Logger   *slog.Logger
	lockPath string
}

// NewClient creates a new git client for the given working directory.
// lockName is relative to workDir; empty means DefaultLockName.
func NewClient(workDir, lockName string, logger *slog.Logger) *Client {
	if lockName == "" {
		lockName = DefaultLockName
	}
	return &Client{
		WorkDir:  workDir,
		Logger:   logger,
		lockPath: lockName,
	}
}

// IsInstalled reports whether git is available in PATH.
func IsInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// IsRepo reports whether WorkDir is the top of a git repository.
func (c *Client) IsRepo() bool {
	info, err := os.Stat(filepath.Join(c.WorkDir, ".git"))
	return err == nil && info.IsDir()
}

// Lock acquires a file-based lock. It blocks until the lock is acquired.
func (c *Client) Lock() (func(), error) {
	fullLockPath := filepath.Join(c.WorkDir, c.lockPath)
	if err := os.MkdirAll(filepath.Dir(fullLockPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	for {
		f, err := os.OpenFile(fullLockPath, os.O_CREATE|os.O_EXCL, 0666)
		if err == nil {
			f.Close()
			return func() {
				os.Remove(fullLockPath)
			}, nil
		}

		if os.IsExist(err) {
			time.Sleep(10 * time.Millisecond)
			continue
		}

		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
}

// Run executes a raw git command in the working directory.
// NOTE: It does NOT acquire the lock automatically. The caller must manage transaction safety via Client.Lock().
func (c *Client) Run(args ...string) (string, error) {
	if c.Logger != nil {
		c.Logger.Debug("executing git", "args", args, "dir", c.WorkDir)
	}

	cmd := exec.Command("git", args...)
	cmd.Dir = c.WorkDir

	out, err := cmd.CombinedOutput()
	output := string(out)

	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", subcommand(args), err, output)
	}

	return strings.TrimSpace(output), nil
}

// Init initializes a new git repository. Re-running it is harmless.
func (c *Client) Init() error {
	_, err := c.Run("init")
	return err
}

// Add adds files to the stage.
func (c *Client) Add(files ...string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"add"}, files...)
	_, err := c.Run(args...)
	return err
}

// Commit records changes to the repository. The user's configured identity
// is used; only a missing user.name or user.email falls back to a local one.
func (c *Client) Commit(msg string) error {
	args := append(c.fallbackIdentity(), "commit", "-m", msg)
	_, err := c.Run(args...)
	return err
}

// HasStagedChanges reports whether the index differs from HEAD for files.
func (c *Client) HasStagedChanges(files ...string) (bool, error) {
	args := append([]string{"status", "--porcelain", "--"}, files...)
	out, err := c.Run(args...)
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// Status returns the porcelain status of the repo.
func (c *Client) Status() (string, error) {
	return c.Run("status", "--porcelain")
}

// Fallback identity for machines without any git config.
const (
	FallbackName  = "quicknotes"
	FallbackEmail = "quicknotes@localhost"
)

// fallbackIdentity returns "-c" overrides for identity keys that neither git
// config nor the environment provide.
func (c *Client) fallbackIdentity() []string {
	var args []string
	if !c.hasIdentity("user.name", "GIT_AUTHOR_NAME", "GIT_COMMITTER_NAME") {
		args = append(args, "-c", "user.name="+FallbackName)
	}
	if !c.hasIdentity("user.email", "GIT_AUTHOR_EMAIL", "GIT_COMMITTER_EMAIL") {
		args = append(args, "-c", "user.email="+FallbackEmail)
	}
	return args
}

func (c *Client) hasIdentity(key string, envKeys ...string) bool {
	for _, k := range envKeys {
		if os.Getenv(k) == "" {
			// git config must cover this one.
			v, err := c.Run("config", "--get", key)
			return err == nil && v != ""
		}
	}
	return true
}

// subcommand skips leading "-c key=value" pairs.
func subcommand(args []string) string {
	for len(args) >= 2 && args[0] == "-c" {
		args = args[2:]
	}
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
