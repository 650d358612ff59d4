// Package batch turns command-line arguments into batch scan jobs: it
// discovers image files under files, directories and glob patterns with
// include and exclude filters.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/invoscan/invoscan/internal/utils"
)

// Discover expands args (files, directories, globs) into a sorted,
// deduplicated list of image file paths. Directories are walked recursively
// when recursive is set, otherwise only their immediate entries are
// considered.
func Discover(args []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string

	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			// Not a file or directory; try it as a glob pattern.
			matches, globErr := filepath.Glob(arg)
			if globErr != nil || len(matches) == 0 {
				return nil, fmt.Errorf("cannot access %s: %w", arg, err)
			}
			for _, m := range matches {
				if includeFile(m, includePatterns, excludePatterns) {
					add(m)
				}
			}
			continue
		}

		if info.IsDir() {
			dirFiles, err := discoverInDirectory(arg, recursive, includePatterns, excludePatterns)
			if err != nil {
				return nil, err
			}
			for _, f := range dirFiles {
				add(f)
			}
		} else if includeFile(arg, includePatterns, excludePatterns) {
			add(arg)
		}
	}

	sort.Strings(files)
	return files, nil
}

func discoverInDirectory(dir string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	walkFn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if !recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if includeFile(path, includePatterns, excludePatterns) {
			files = append(files, path)
		}
		return nil
	}

	return files, filepath.Walk(dir, walkFn)
}

// includeFile applies exclude patterns first, then include patterns. With
// no include patterns, any supported image extension passes.
func includeFile(path string, includePatterns, excludePatterns []string) bool {
	if matchesAnyPattern(path, excludePatterns) {
		return false
	}
	if len(includePatterns) == 0 {
		return utils.IsSupportedImage(path)
	}
	return matchesAnyPattern(path, includePatterns)
}

func matchesAnyPattern(path string, patterns []string) bool {
	base := filepath.Base(path)
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}
