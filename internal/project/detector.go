package project

import (
	"os"
	"path/filepath"

	"github.com/dotcommander/listingscore/internal/config"
)

// Info describes a listing project.
// Named 'Info' instead of 'ProjectInfo' to avoid stuttering (project.Info vs project.ProjectInfo).
type Info struct {
	Root        string
	HasGit      bool
	HasConfig   bool
	HasListings bool
}

// FindProjectRoot climbs from startPath to the nearest directory holding a
// listingscore config file, a listings/ directory or a .git directory. With
// no marker found it returns startPath as an absolute path.
func FindProjectRoot(startPath string) (string, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return "", err
	}

	currentDir := absPath
	for {
		if isProjectRoot(currentDir) {
			return currentDir, nil
		}
		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			break
		}
		currentDir = parent
	}
	return absPath, nil
}

func isProjectRoot(path string) bool {
	info := Detect(path)
	return info.HasConfig || info.HasListings || info.HasGit
}

// Detect reports which project markers exist directly under rootPath.
func Detect(rootPath string) *Info {
	info := &Info{Root: rootPath}

	for _, name := range config.ConfigFiles {
		if fileExists(filepath.Join(rootPath, name)) {
			info.HasConfig = true
			break
		}
	}
	info.HasListings = dirExists(filepath.Join(rootPath, "listings"))
	_, err := os.Stat(filepath.Join(rootPath, ".git"))
	info.HasGit = err == nil

	return info
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
