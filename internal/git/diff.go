// Package git lists listing files with uncommitted changes.
package git

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dotcommander/listingscore/internal/discovery"
)

// GetStagedFiles returns absolute paths of listing files in the staging area.
// Returns an empty slice outside a git repository.
func GetStagedFiles(rootPath string) ([]string, error) {
	if !IsGitRepo(rootPath) {
		return []string{}, nil
	}

	output, err := run(rootPath, "diff", "--name-only", "--relative", "--staged")
	if err != nil {
		return nil, err
	}
	return filterListingFiles(output, rootPath), nil
}

// GetChangedFiles returns absolute paths of listing files with uncommitted
// changes: staged, unstaged and untracked. Without any commit yet every
// tracked and untracked listing counts as changed.
func GetChangedFiles(rootPath string) ([]string, error) {
	if !IsGitRepo(rootPath) {
		return []string{}, nil
	}

	var diffArgs []string
	if _, err := run(rootPath, "rev-parse", "--verify", "HEAD"); err != nil {
		diffArgs = []string{"ls-files"}
	} else {
		diffArgs = []string{"diff", "--name-only", "--relative", "HEAD"}
	}

	changed, err := run(rootPath, diffArgs...)
	if err != nil {
		return nil, err
	}
	untracked, err := run(rootPath, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, err
	}

	return filterListingFiles(changed+"\n"+untracked, rootPath), nil
}

// IsGitRepo checks if the given directory is within a git repository.
func IsGitRepo(rootPath string) bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = rootPath
	return cmd.Run() == nil
}

func run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w: %s", strings.Join(args, " "), err, output)
	}
	return string(output), nil
}

// filterListingFiles keeps existing listing files from git output (paths
// relative to rootPath) and returns them as sorted absolute paths.
func filterListingFiles(gitOutput, rootPath string) []string {
	seen := make(map[string]bool)
	files := []string{}

	for _, line := range strings.Split(gitOutput, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || seen[line] {
			continue
		}
		seen[line] = true

		if !discovery.IsListingPath(line) {
			continue
		}

		absPath := filepath.Join(rootPath, line)
		// deletions show up in diffs too
		if _, err := os.Stat(absPath); err != nil {
			continue
		}
		files = append(files, absPath)
	}

	sort.Strings(files)
	return files
}
