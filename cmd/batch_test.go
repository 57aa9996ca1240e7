package cmd

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/listingscore/internal/baseline"
)

func writeShop(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, "listings", "japandi.md"), japandiListing)
	writeFile(t, filepath.Join(dir, "listings", "japandi.autocomplete.json"), japandiReport)
	writeFile(t, filepath.Join(dir, "shop", "weak.listing.yaml"), weakListing)
	writeFile(t, filepath.Join(dir, "notes", "README.md"), "# not a listing\n")
}

func TestRunBatch(t *testing.T) {
	dir := inTempDir(t)
	writeShop(t, dir)

	code, stdout, stderr := runCLI(t, "batch", "-f", "json")
	require.Equal(t, 0, code, stderr)

	r := decodeReport(t, stdout)
	require.NotNil(t, r.Summary)
	assert.Equal(t, 2, r.Summary.Listings)
	assert.Equal(t, 2, r.Summary.Scored)
	assert.Zero(t, r.Summary.Failed)
	require.Len(t, r.Listings, 2)

	byID := map[string]bool{}
	for _, l := range r.Listings {
		require.NotNil(t, l.Result, l.Path)
		byID[l.ID] = l.Result.Online
	}
	assert.Equal(t, map[string]bool{"japandi": true, "weak": false}, byID)
}

func TestRunBatchConsoleSummary(t *testing.T) {
	dir := inTempDir(t)
	writeShop(t, dir)

	code, stdout, stderr := runCLI(t, "batch", "--concurrency", "1", "--cache-size", "0")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "2/2 listings scored")
	assert.Contains(t, stdout, "shop/weak.listing.yaml")
}

func TestRunBatchLoadFailure(t *testing.T) {
	dir := inTempDir(t)
	writeShop(t, dir)
	writeFile(t, filepath.Join(dir, "shop", "broken.listing.yaml"), "title: Print\ntags: 5\n")

	code, stdout, _ := runCLI(t, "batch", "shop", "-f", "json", "--fail-on", "error")
	assert.Equal(t, 2, code)

	r := decodeReport(t, stdout)
	assert.Equal(t, 2, r.Summary.Listings)
	assert.Equal(t, 1, r.Summary.Failed)
}

func TestRunBatchBaseline(t *testing.T) {
	dir := inTempDir(t)
	writeShop(t, dir)

	code, stdout, stderr := runCLI(t, "batch", "--create-baseline", "--fail-on", "error")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "Baseline created")
	assert.NotEmpty(t, stdout)

	b, err := baseline.LoadBaseline(filepath.Join(dir, baseline.DefaultPath))
	require.NoError(t, err)
	assert.NotEmpty(t, b.Fingerprints)

	code, stdout, stderr = runCLI(t, "batch", "--baseline", "--fail-on", "warning", "-f", "json")
	require.Equal(t, 0, code, stderr)
	r := decodeReport(t, stdout)
	assert.Positive(t, r.Header.Suppressed)

	code, _, _ = runCLI(t, "batch", "--fail-on", "warning", "-q")
	assert.Equal(t, 2, code, "without --baseline nothing is hidden")
}

func TestRunBatchMissingBaselineHidesNothing(t *testing.T) {
	dir := inTempDir(t)
	writeShop(t, dir)

	code, _, _ := runCLI(t, "batch", "--baseline", "--fail-on", "error", "-q")
	assert.Equal(t, 2, code)
}

func TestRunBatchMetricsOut(t *testing.T) {
	dir := inTempDir(t)
	writeShop(t, dir)

	prom := filepath.Join(dir, "metrics", "listingscore.prom")
	code, _, stderr := runCLI(t, "batch", "-q", "--metrics-out", prom)
	require.Equal(t, 0, code, stderr)

	data, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(data), "listingscore_")
}

func TestRunBatchHistoryNeedsDSN(t *testing.T) {
	dir := inTempDir(t)
	writeShop(t, dir)

	code, _, stderr := runCLI(t, "batch", "-q", "--history")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "PostgreSQL DSN")
}

func TestCollectListingPaths(t *testing.T) {
	dir := t.TempDir()
	writeShop(t, dir)

	t.Run("discovery", func(t *testing.T) {
		paths, err := collectListingPaths(dir, nil, scopeAll, false)
		require.NoError(t, err)
		require.Len(t, paths, 2)
		assert.Equal(t, "japandi.md", filepath.Base(paths[0]))
		assert.Equal(t, "weak.listing.yaml", filepath.Base(paths[1]))
	})

	t.Run("explicit file and directory", func(t *testing.T) {
		file := filepath.Join(dir, "shop", "weak.listing.yaml")
		paths, err := collectListingPaths(dir, []string{file, filepath.Join(dir, "listings")}, scopeAll, false)
		require.NoError(t, err)
		require.Len(t, paths, 2)
		assert.Equal(t, file, paths[0])
		assert.True(t, filepath.IsAbs(paths[1]))
		assert.Equal(t, "japandi.md", filepath.Base(paths[1]))
	})

	t.Run("missing argument", func(t *testing.T) {
		_, err := collectListingPaths(dir, []string{filepath.Join(dir, "nope")}, scopeAll, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot access")
	})
}

func TestRunBatchChangedOutsideGit(t *testing.T) {
	dir := inTempDir(t)
	writeShop(t, dir)

	code, _, stderr := runCLI(t, "batch", "--changed")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "needs a git repository")
}

func gitRepo(t *testing.T, dir string) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	for _, args := range [][]string{
		{"init", "-q"},
		{"config", "user.email", "test@test.com"},
		{"config", "user.name", "Test User"},
	} {
		gitCmd(t, dir, args...)
	}
}

func gitCmd(t *testing.T, dir string, args ...string) {
	t.Helper()
	c := exec.Command("git", args...)
	c.Dir = dir
	out, err := c.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

func TestRunBatchStaged(t *testing.T) {
	dir := inTempDir(t)
	gitRepo(t, dir)
	writeShop(t, dir)
	gitCmd(t, dir, "add", "shop/weak.listing.yaml")

	code, stdout, stderr := runCLI(t, "batch", "--staged", "-f", "json")
	require.Equal(t, 0, code, stderr)
	r := decodeReport(t, stdout)
	require.Len(t, r.Listings, 1)
	assert.Equal(t, "weak", r.Listings[0].ID)

	code, stdout, stderr = runCLI(t, "batch", "--changed", "-f", "json")
	require.Equal(t, 0, code, stderr)
	assert.Len(t, decodeReport(t, stdout).Listings, 2, "--changed also covers untracked listings")
}

func TestRunBatchStagedFlagsExclusive(t *testing.T) {
	dir := inTempDir(t)
	writeShop(t, dir)

	code, _, stderr := runCLI(t, "batch", "--staged", "--changed")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "none of the others can be")
}

func TestRunBatchStagedOutsideGit(t *testing.T) {
	dir := inTempDir(t)
	writeShop(t, dir)

	code, _, stderr := runCLI(t, "batch", "--staged")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "--staged needs a git repository")
}
