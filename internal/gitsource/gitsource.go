// Package gitsource keeps local clones of git-hosted deck repositories.
package gitsource

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/go-git/go-git/v5"
)

// DirName derives a stable local directory name from a repository URL,
// e.g. "https://example.com/me/decks.git" becomes "decks".
func DirName(url string) string {
	name := path.Base(strings.TrimSuffix(strings.TrimRight(url, "/"), ".git"))
	if name == "" || name == "." || name == "/" {
		return "repo"
	}
	return name
}

// Sync clones the repository at url into localPath, or pulls the latest
// changes when a clone already exists there.
func Sync(url, localPath string) error {
	_, err := os.Stat(localPath)
	switch {
	case os.IsNotExist(err):
		slog.Info("cloning deck repository", "url", url, "path", localPath)
		if _, err := git.PlainClone(localPath, false, &git.CloneOptions{URL: url}); err != nil {
			return fmt.Errorf("failed to clone repo %s: %w", url, err)
		}
	case err == nil:
		slog.Info("pulling deck repository", "path", localPath)
		repo, err := git.PlainOpen(localPath)
		if err != nil {
			return fmt.Errorf("failed to open existing repo at %s: %w", localPath, err)
		}
		worktree, err := repo.Worktree()
		if err != nil {
			return fmt.Errorf("failed to get worktree for repo at %s: %w", localPath, err)
		}
		err = worktree.Pull(&git.PullOptions{RemoteName: "origin"})
		if err != nil && err != git.NoErrAlreadyUpToDate {
			return fmt.Errorf("failed to pull changes for repo at %s: %w", localPath, err)
		}
	default:
		return fmt.Errorf("error checking path %s: %w", localPath, err)
	}

	return nil
}
