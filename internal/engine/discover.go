package engine

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Basenames the engine operates on.
const (
	PlainName     = ".env"
	EncryptedName = ".env.gpg"
)

// Discover walks root and returns every regular file whose basename is
// exactly name, sorted lexicographically by full path so batches are
// reproducible. Hidden directories are searched like any other.
// Unreadable entries are skipped rather than aborting the walk: a
// partially readable tree still yields everything that could be reached.
//
// Exclude patterns are doublestar globs matched against the path relative
// to root; a matching directory is pruned, a matching file is dropped.
func Discover(root, name string, excludes []string) []string {
	var result []string

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entry or broken symlink: skip it, keep walking.
			return nil
		}

		if rel, relErr := filepath.Rel(root, path); relErr == nil && rel != "." && excluded(rel, excludes) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if filepath.Base(path) == name {
			result = append(result, path)
		}
		return nil
	})

	sort.Strings(result)
	return result
}

func excluded(rel string, excludes []string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range excludes {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
