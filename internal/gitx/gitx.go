// Package gitx wraps the version-control operations the pipeline needs:
// capturing the source HEAD, shallow-cloning the destination repository, and
// committing/pushing the published artifacts.
package gitx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/Panquesito7/julec-ir/internal/logfields"
)

// Client performs git operations against the destination repository.
type Client struct {
	token       string
	authorName  string
	authorEmail string
}

// NewClient creates a Client. token may be empty for anonymous transports.
func NewClient(token string) *Client {
	return &Client{
		token:       token,
		authorName:  "julec-ir",
		authorEmail: "julec-ir@users.noreply.github.com",
	}
}

// WithAuthor overrides the commit author (used by tests and forks).
func (c *Client) WithAuthor(name, email string) *Client {
	c.authorName = name
	c.authorEmail = email
	return c
}

// Head returns the current HEAD commit hash of the repository at repoPath.
// It asks go-git first and falls back to reading .git/HEAD directly, which
// also covers detached checkouts with unusual layouts.
func Head(repoPath string) (string, error) {
	if repo, err := git.PlainOpen(repoPath); err == nil {
		if ref, err := repo.Head(); err == nil {
			return ref.Hash().String(), nil
		}
	}
	return readHeadFile(repoPath)
}

// readHeadFile reads .git/HEAD and resolves a symbolic ref if needed.
func readHeadFile(repoPath string) (string, error) {
	headPath := filepath.Join(repoPath, ".git", "HEAD")
	data, err := os.ReadFile(headPath)
	if err != nil {
		return "", fmt.Errorf("read HEAD: %w", err)
	}

	line := strings.TrimSpace(string(data))
	if ref, ok := strings.CutPrefix(line, "ref:"); ok {
		refPath := filepath.Join(repoPath, ".git", filepath.FromSlash(strings.TrimSpace(ref)))
		refData, err := os.ReadFile(refPath)
		if err != nil {
			return "", fmt.Errorf("resolve symbolic ref: %w", err)
		}
		return strings.TrimSpace(string(refData)), nil
	}
	return line, nil
}

// Clone shallow-clones url into path (depth 1, single branch).
func (c *Client) Clone(ctx context.Context, url, path string) error {
	slog.Debug("Cloning destination repository", logfields.URL(url), logfields.Path(path))

	_, err := git.PlainCloneContext(ctx, path, false, &git.CloneOptions{
		URL:          url,
		Depth:        1,
		SingleBranch: true,
		Auth:         c.auth(),
	})
	if err != nil {
		return fmt.Errorf("clone %s: %w", url, err)
	}
	return nil
}

// CommitAndPush stages everything in the repository at path, commits with
// message, and pushes. A clean worktree and an already-up-to-date remote are
// both successes: publishing the same IR twice is a no-op, not a failure.
func (c *Client) CommitAndPush(ctx context.Context, path, message string) error {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("get worktree: %w", err)
	}

	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("stage changes: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return fmt.Errorf("worktree status: %w", err)
	}
	if status.IsClean() {
		slog.Info("Nothing to commit, destination already current", logfields.Path(path))
	} else {
		hash, err := wt.Commit(message, &git.CommitOptions{
			Author: &object.Signature{
				Name:  c.authorName,
				Email: c.authorEmail,
				When:  time.Now(),
			},
		})
		if err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		slog.Info("Committed published artifacts", logfields.Commit(hash.String()))
	}

	err = repo.PushContext(ctx, &git.PushOptions{Auth: c.auth()})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		slog.Info("Remote already up to date", logfields.Path(path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("push: %w", err)
	}
	return nil
}

// auth returns the transport auth method for the configured token, or nil
// for anonymous access.
func (c *Client) auth() transport.AuthMethod {
	if c.token == "" {
		return nil
	}
	return &http.BasicAuth{
		Username: "token", // GitHub/GitLab use "token" as username
		Password: c.token,
	}
}
