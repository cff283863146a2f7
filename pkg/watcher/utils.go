package watcher

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

func lazySend[T any](ch chan<- T, value T) {
	select {
	case ch <- value:
	default:
	}
}

// relative returns name relative to the watched root. Paths inside .git
// and paths outside the root are rejected.
func (w *Watcher) relative(name string) (string, bool) {
	rel, err := filepath.Rel(w.root, name)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}

	rel = filepath.ToSlash(rel)
	for segment := range strings.SplitSeq(rel, "/") {
		if segment == ".git" {
			return "", false
		}
	}
	return rel, true
}

func (w *Watcher) ignored(rel string) bool {
	for _, pattern := range w.ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
