package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func gitInit(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available, skipping integration test")
	}
	for _, args := range [][]string{
		{"init", "-q"},
		{"config", "user.email", "test@test.com"},
		{"config", "user.name", "Test User"},
	} {
		gitRun(t, dir, args...)
	}
	return dir
}

func gitRun(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v: %s", args, err, out)
	}
}

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func relNames(t *testing.T, root string, files []string) []string {
	t.Helper()
	names := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, filepath.ToSlash(rel))
	}
	return names
}

func TestFilterListingFiles(t *testing.T) {
	tmpDir := t.TempDir()
	for _, rel := range []string{"shop/japandi.listing.md", "listings/boho.yaml", "README.md", "main.go"} {
		writeFile(t, tmpDir, rel, "x")
	}

	gitOutput := "shop/japandi.listing.md\nlistings/boho.yaml\nREADME.md\nmain.go\nlistings/deleted.yaml\nshop/japandi.listing.md\n"

	got := relNames(t, tmpDir, filterListingFiles(gitOutput, tmpDir))
	want := "listings/boho.yaml,shop/japandi.listing.md"
	if strings.Join(got, ",") != want {
		t.Errorf("filterListingFiles() = %v, want %s", got, want)
	}
}

func TestIsGitRepo(t *testing.T) {
	repo := gitInit(t)
	if !IsGitRepo(repo) {
		t.Error("IsGitRepo should return true for a fresh repository")
	}
	if IsGitRepo(t.TempDir()) {
		t.Error("IsGitRepo should return false for a non-git directory")
	}
}

func TestNonGitRepo(t *testing.T) {
	tmpDir := t.TempDir()

	staged, err := GetStagedFiles(tmpDir)
	if err != nil || len(staged) != 0 {
		t.Errorf("GetStagedFiles() = %v, %v; want empty, nil", staged, err)
	}
	changed, err := GetChangedFiles(tmpDir)
	if err != nil || len(changed) != 0 {
		t.Errorf("GetChangedFiles() = %v, %v; want empty, nil", changed, err)
	}
}

func TestGetChangedFilesNoCommits(t *testing.T) {
	repo := gitInit(t)
	writeFile(t, repo, "shop/tracked.listing.md", "---\ntitle: a\n---\n")
	writeFile(t, repo, "README.md", "# readme")
	gitRun(t, repo, "add", ".")
	writeFile(t, repo, "listings/untracked.yaml", "title: b\n")

	files, err := GetChangedFiles(repo)
	if err != nil {
		t.Fatalf("GetChangedFiles() error = %v", err)
	}
	got := strings.Join(relNames(t, repo, files), ",")
	if got != "listings/untracked.yaml,shop/tracked.listing.md" {
		t.Errorf("GetChangedFiles() = %s", got)
	}
}

func TestGetChangedFilesWithCommits(t *testing.T) {
	repo := gitInit(t)
	writeFile(t, repo, "shop/stable.listing.md", "---\ntitle: a\n---\n")
	writeFile(t, repo, "shop/edited.listing.md", "---\ntitle: b\n---\n")
	gitRun(t, repo, "add", ".")
	gitRun(t, repo, "commit", "-q", "-m", "initial")

	writeFile(t, repo, "shop/edited.listing.md", "---\ntitle: b2\n---\n")
	writeFile(t, repo, "shop/new.listing.json", `{"title": "c"}`)

	files, err := GetChangedFiles(repo)
	if err != nil {
		t.Fatalf("GetChangedFiles() error = %v", err)
	}
	got := strings.Join(relNames(t, repo, files), ",")
	if got != "shop/edited.listing.md,shop/new.listing.json" {
		t.Errorf("GetChangedFiles() = %s", got)
	}

	gitRun(t, repo, "add", "shop/new.listing.json")
	staged, err := GetStagedFiles(repo)
	if err != nil {
		t.Fatalf("GetStagedFiles() error = %v", err)
	}
	if got := strings.Join(relNames(t, repo, staged), ","); got != "shop/new.listing.json" {
		t.Errorf("GetStagedFiles() = %s", got)
	}
}
