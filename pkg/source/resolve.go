package source

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

var gitKnownHosts = []string{
	"github.com/",
	"gitlab.com/",
	"bitbucket.org/",
	"codeberg.org/",
}

// Resolve determines the source type from the target string. Remote options
// only apply to git sources.
func Resolve(target string, opts ...RemoteOption) (Source, error) {
	if isRemoteURL(target) {
		return NewRemoteSource(target, opts...), nil
	}

	if info, err := os.Stat(target); err == nil {
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", target)
		}
		return NewOSSource(target), nil
	}

	if looksLikeGitShorthand(target) {
		return NewRemoteSource("https://"+target, opts...), nil
	}

	return nil, fmt.Errorf("cannot resolve %s: path does not exist and is not a valid remote URL", target)
}

func isRemoteURL(target string) bool {
	return strings.HasPrefix(target, "https://") ||
		strings.HasPrefix(target, "http://") ||
		strings.HasPrefix(target, "ssh://") ||
		strings.HasPrefix(target, "git://") ||
		strings.HasPrefix(target, "git@")
}

func looksLikeGitShorthand(target string) bool {
	for _, host := range gitKnownHosts {
		if strings.HasPrefix(target, host) {
			return true
		}
	}

	return false
}

// Name guesses a project name from a source string: the last path element
// without a trailing .git.
func Name(target string) string {
	target = strings.TrimRight(strings.ReplaceAll(target, `\`, "/"), "/")
	if i := strings.LastIndexAny(target, ":/"); i >= 0 {
		target = target[i+1:]
	}
	return strings.TrimSuffix(target, ".git")
}

// Sub narrows a source to a directory within it.
func Sub(src Source, dir string) Source {
	dir = strings.Trim(path.Clean("/"+dir), "/")
	if dir == "" {
		return src
	}
	return &subSource{Source: src, dir: dir}
}

type subSource struct {
	Source
	dir string
}

func (s *subSource) Root() string {
	return path.Join(s.Source.Root(), s.dir)
}

// Open returns the template tree of src rooted at its template root.
func Open(ctx context.Context, src Source) (fs.FS, error) {
	fsys, err := src.FS(ctx)
	if err != nil {
		return nil, fmt.Errorf("accessing source: %w", err)
	}

	root := src.Root()
	if root == "." || root == "" {
		return fsys, nil
	}

	info, err := fs.Stat(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("template directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template directory %s is not a directory", root)
	}

	sub, err := fs.Sub(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("template directory %s: %w", root, err)
	}
	return sub, nil
}
