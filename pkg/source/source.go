// Package source provides access to template trees, local or remote.
package source

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Source represents an arbitrary template source.
type Source interface {
	FS(context.Context) (fs.FS, error)
	// Root is the template root within FS.
	Root() string
	Close() error
}

// FSSource wraps any io/fs.FS
func NewFSSource(fsys fs.FS, root string) *FSSource {
	return &FSSource{fs: fsys, root: root}
}

type FSSource struct {
	fs   fs.FS
	root string
}

func (f *FSSource) FS(ctx context.Context) (fs.FS, error) {
	return f.fs, nil
}

func (f *FSSource) Root() string {
	return f.root
}

func (f *FSSource) Close() error {
	return nil
}

// OSSource wraps a local directory with os.DirFS
func NewOSSource(path string) *OSSource {
	return &OSSource{path: path}
}

type OSSource struct {
	path string
}

func (o *OSSource) FS(ctx context.Context) (fs.FS, error) {
	return os.DirFS(o.path), nil
}

func (o *OSSource) Root() string {
	return "."
}

// Dir returns the local directory, for watching.
func (o *OSSource) Dir() string {
	return o.path
}

func (o *OSSource) Close() error {
	return nil
}

// RemoteSource shallow-clones a git repository into a temporary directory
// the first time FS is called.
func NewRemoteSource(url string, opts ...RemoteOption) *RemoteSource {
	r := &RemoteSource{url: url, logger: log.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type RemoteSource struct {
	url      string
	branch   string
	progress io.Writer
	logger   *log.Logger

	tempDir string
	once    sync.Once
	err     error
}

type RemoteOption func(r *RemoteSource)

// WithBranch checks out branch instead of the remote's default branch.
func WithBranch(branch string) RemoteOption {
	return func(r *RemoteSource) {
		r.branch = branch
	}
}

// WithProgress streams clone progress to w.
func WithProgress(w io.Writer) RemoteOption {
	return func(r *RemoteSource) {
		r.progress = w
	}
}

func WithLogger(logger *log.Logger) RemoteOption {
	return func(r *RemoteSource) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func (r *RemoteSource) URL() string {
	return r.url
}

func (r *RemoteSource) FS(ctx context.Context) (fs.FS, error) {
	r.once.Do(func() {
		r.tempDir, r.err = r.clone(ctx)
	})

	if r.err != nil {
		return nil, r.err
	}

	return os.DirFS(r.tempDir), nil
}

func (r *RemoteSource) Root() string {
	return "."
}

func (r *RemoteSource) Close() error {
	if r.tempDir != "" {
		return os.RemoveAll(r.tempDir)
	}
	return nil
}

func (r *RemoteSource) clone(ctx context.Context) (string, error) {
	tempDir, err := os.MkdirTemp("", "architect-source-*")
	if err != nil {
		return "", fmt.Errorf("creating temp directory: %w", err)
	}

	opts := &git.CloneOptions{
		URL:          r.url,
		Depth:        1,
		SingleBranch: true,
		Progress:     r.progress,
	}
	if r.branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(r.branch)
	}

	r.logger.Debug("cloning template", "url", r.url, "branch", r.branch, "dir", tempDir)

	if _, err := git.PlainCloneContext(ctx, tempDir, false, opts); err != nil {
		os.RemoveAll(tempDir)
		return "", fmt.Errorf("cloning repository: %w", err)
	}

	return tempDir, nil
}
