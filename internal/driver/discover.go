package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var skippedDirs = []string{"node_modules", "vendor", "target", "build", "dist"}

// Discover expands every root into the files to scan. A root that is a file
// is taken as is, whatever its extension; directories are walked, skipping
// hidden, vendored and excluded directories and keeping files whose extension
// is listed in opts.Extensions (any extension when the list is empty).
func Discover(roots []string, opts Options) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		clean := filepath.Clean(path)
		if _, ok := seen[clean]; ok {
			return
		}
		seen[clean] = struct{}{}
		files = append(files, clean)
	}
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && skipDir(d.Name(), opts.Exclude) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if matchesExtension(path, opts.Extensions) {
				add(path)
			}
			return nil
		})
		if walkErr != nil {
			return nil, walkErr
		}
	}
	slices.Sort(files)
	return files, nil
}

func skipDir(name string, exclude []string) bool {
	if len(name) > 1 && strings.HasPrefix(name, ".") {
		return true
	}
	return slices.Contains(skippedDirs, name) || slices.Contains(exclude, name)
}

func matchesExtension(path string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, want := range exts {
		if !strings.HasPrefix(want, ".") {
			want = "." + want
		}
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}
