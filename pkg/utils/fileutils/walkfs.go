package fileutils

import (
	"io/fs"
	"path"
	"strings"

	"github.com/olimci/architect/pkg/utils/set"
)

// WalkFilesFS walks a filesystem tree and returns the sorted POSIX paths of
// its files relative to root. Directories named in skipDirs are not entered.
func WalkFilesFS(fsys fs.FS, root string, skipDirs ...string) ([]string, error) {
	root = path.Clean(root)
	skip := set.Of(skipDirs...)
	files := set.New[string]()

	err := fs.WalkDir(fsys, root, func(current string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if current == root {
			return nil
		}

		rel := current
		if root != "." {
			rel = strings.TrimPrefix(current, root+"/")
		}

		if d.IsDir() {
			if skip.Has(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}

		files.Add(rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return set.Sorted(files), nil
}
