// Package discovery finds listing files under a project root.
package discovery

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPatterns are the globs that identify listing files, relative to the
// root. Autocomplete sidecars are excluded separately.
var DefaultPatterns = []string{
	"**/*.listing.md",
	"**/*.listing.yaml",
	"**/*.listing.yml",
	"**/*.listing.json",
	"listings/**/*.{md,yaml,yml,json}",
}

// DirectoryPatterns are used for a directory named on the command line:
// every listing-format file in it counts.
var DirectoryPatterns = []string{"**/*.{md,yaml,yml,json}"}

// ExcludePatterns match files that live beside listings but are not listings.
var ExcludePatterns = []string{
	"**/*.autocomplete.{yaml,yml,json}",
	"**/README.md",
}

// Extensions lists the file extensions the listing loader understands.
var Extensions = []string{".md", ".yaml", ".yml", ".json"}

// File represents a discovered listing file.
type File struct {
	Path    string
	RelPath string
	Size    int64
}

// FileDiscovery manages file discovery operations
type FileDiscovery struct {
	rootPath       string
	followSymlinks bool
	patterns       []string
}

// NewFileDiscovery creates a FileDiscovery using DefaultPatterns.
func NewFileDiscovery(rootPath string, followSymlinks bool) *FileDiscovery {
	return &FileDiscovery{
		rootPath:       rootPath,
		followSymlinks: followSymlinks,
		patterns:       DefaultPatterns,
	}
}

// WithPatterns replaces the discovery globs.
func (fd *FileDiscovery) WithPatterns(patterns []string) *FileDiscovery {
	fd.patterns = patterns
	return fd
}

// DiscoverFiles finds all listing files, sorted by relative path. A file
// matched by more than one pattern is returned once.
func (fd *FileDiscovery) DiscoverFiles() ([]File, error) {
	seen := make(map[string]bool)
	var files []File

	for _, pattern := range fd.patterns {
		matches, err := doublestar.Glob(os.DirFS(fd.rootPath), pattern)
		if err != nil {
			return nil, fmt.Errorf("error evaluating pattern %s: %w", pattern, err)
		}
		for _, match := range matches {
			if seen[match] || IsExcluded(match) {
				continue
			}
			f, ok := fd.processMatch(match)
			if !ok {
				continue
			}
			seen[match] = true
			files = append(files, f)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// Paths returns the absolute paths of files.
func Paths(files []File) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}

// processMatch converts a glob match into a File, returning false if the match should be skipped.
func (fd *FileDiscovery) processMatch(match string) (File, bool) {
	fullPath := filepath.Join(fd.rootPath, match)

	info, err := os.Lstat(fullPath)
	if err != nil {
		return File{}, false
	}

	if info.Mode()&os.ModeSymlink != 0 {
		resolvedInfo, ok := fd.resolveSymlink(fullPath)
		if !ok {
			return File{}, false
		}
		info = resolvedInfo
	}

	if info.IsDir() {
		return File{}, false
	}

	return File{
		Path:    fullPath,
		RelPath: filepath.ToSlash(match),
		Size:    info.Size(),
	}, true
}

// resolveSymlink follows a symlink if configured. Targets outside the root
// are skipped.
func (fd *FileDiscovery) resolveSymlink(fullPath string) (os.FileInfo, bool) {
	if !fd.followSymlinks {
		return nil, false
	}

	realPath, err := filepath.EvalSymlinks(fullPath)
	if err != nil {
		return nil, false
	}

	realRoot, err := filepath.EvalSymlinks(fd.rootPath)
	if err != nil {
		realRoot = fd.rootPath
	}
	if !strings.HasPrefix(realPath, realRoot) {
		return nil, false
	}

	info, err := os.Stat(realPath)
	if err != nil {
		return nil, false
	}
	return info, true
}

// IsExcluded reports whether relPath is a sidecar rather than a listing.
func IsExcluded(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	for _, pattern := range ExcludePatterns {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}

// IsListingPath reports whether relPath would be picked up by DefaultPatterns.
func IsListingPath(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	if IsExcluded(relPath) {
		return false
	}
	for _, pattern := range DefaultPatterns {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}

// ReportPath returns the autocomplete sidecar for a listing path if one
// exists: shop/japandi.listing.md -> shop/japandi.autocomplete.json (or
// .yaml/.yml). When dir is set the sidecar is looked up there instead.
func ReportPath(listingPath, dir string) string {
	base := filepath.Base(listingPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimSuffix(base, ".listing")

	if dir == "" {
		dir = filepath.Dir(listingPath)
	}
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		candidate := filepath.Join(dir, base+".autocomplete"+ext)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// ValidateFilePath checks that path names a readable, non-empty text file
// with a supported extension and returns its absolute path.
func ValidateFilePath(path string) (absPath string, err error) {
	absPath, err = filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	info, err := os.Lstat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", absPath)
		}
		if os.IsPermission(err) {
			return "", fmt.Errorf("permission denied: %s", absPath)
		}
		return "", fmt.Errorf("cannot access file: %s: %w", absPath, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		realPath, evalErr := filepath.EvalSymlinks(absPath)
		if evalErr != nil {
			return "", fmt.Errorf("cannot resolve symlink %s: %w", absPath, evalErr)
		}
		absPath = realPath
		info, err = os.Stat(absPath)
		if err != nil {
			return "", fmt.Errorf("symlink target inaccessible: %s: %w", absPath, err)
		}
	}

	if info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", absPath)
	}

	ext := strings.ToLower(filepath.Ext(absPath))
	supported := false
	for _, e := range Extensions {
		if ext == e {
			supported = true
			break
		}
	}
	if !supported {
		return "", fmt.Errorf("unsupported file type %q: listings must be %s", ext, strings.Join(Extensions, ", "))
	}

	if info.Size() == 0 {
		return "", fmt.Errorf("file is empty: %s", absPath)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	if bytes.Contains(buf[:n], []byte{0}) {
		return "", fmt.Errorf("file appears to be binary, not text: %s", absPath)
	}

	return absPath, nil
}
