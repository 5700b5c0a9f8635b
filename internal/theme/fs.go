// fs.go holds a tiny helper for walking the override directory, since the
// standard library's glob patterns have no “**”.  CollectHTML returns every
// .html file under a directory in a stable, sorted order so the last file
// defining a template name is predictable.
package theme

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// CollectHTML walks rootDir recursively and returns the sorted list of
// *.html paths.  Hidden files and directories (leading “.”) are skipped.
// A missing rootDir yields an empty list, not an error.
func CollectHTML(rootDir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != rootDir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(d.Name()), ".html") {
			files = append(files, path)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
