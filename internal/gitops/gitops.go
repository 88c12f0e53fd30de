// Package gitops shells out to git for project history.
package gitops

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNothingToCommit is returned when the staged tree matches HEAD.
var ErrNothingToCommit = errors.New("nothing to commit")

// Author identifies who commits generated files.
type Author struct {
	Name  string
	Email string
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// env sets both author and committer so commits work without a global git identity.
func (a Author) env() []string {
	return append(os.Environ(),
		"GIT_AUTHOR_NAME="+a.Name,
		"GIT_AUTHOR_EMAIL="+a.Email,
		"GIT_COMMITTER_NAME="+a.Name,
		"GIT_COMMITTER_EMAIL="+a.Email,
	)
}

// Init initializes a new git repository at dir.
func Init(dir string) error {
	if _, err := git(dir, nil, "init", "--quiet"); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// CommitAll stages all files and creates a commit. Returns the short commit hash.
func CommitAll(dir, message string, author Author) (string, error) {
	return commit(dir, message, author, []string{"-A"})
}

// CommitPaths stages only paths (relative to dir) and commits them.
func CommitPaths(dir, message string, author Author, paths ...string) (string, error) {
	if len(paths) == 0 {
		return "", ErrNothingToCommit
	}
	return commit(dir, message, author, append([]string{"-A", "--"}, paths...))
}

func commit(dir, message string, author Author, addArgs []string) (string, error) {
	env := author.env()

	if _, err := git(dir, env, append([]string{"add"}, addArgs...)...); err != nil {
		return "", fmt.Errorf("git add: %w", err)
	}

	// diff --cached --quiet exits 1 when something is staged.
	if _, err := git(dir, env, "diff", "--cached", "--quiet"); err == nil {
		return "", ErrNothingToCommit
	}

	if _, err := git(dir, env, "commit", "--quiet", "-m", message); err != nil {
		return "", fmt.Errorf("git commit: %w", err)
	}
	return Head(dir)
}

// Head returns the short hash of HEAD.
func Head(dir string) (string, error) {
	out, err := git(dir, nil, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return out, nil
}

func git(dir string, env []string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s: %w", strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}
