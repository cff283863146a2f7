package source

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	tests := []struct {
		target  string
		want    any
		url     string
		wantErr bool
	}{
		{target: "https://github.com/user/repo.git", want: &RemoteSource{}, url: "https://github.com/user/repo.git"},
		{target: "git@github.com:user/repo.git", want: &RemoteSource{}, url: "git@github.com:user/repo.git"},
		{target: "github.com/user/repo", want: &RemoteSource{}, url: "https://github.com/user/repo"},
		{target: dir, want: &OSSource{}},
		{target: file, wantErr: true},
		{target: filepath.Join(dir, "missing"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			src, err := Resolve(tt.target)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, src)
			if remote, ok := src.(*RemoteSource); ok {
				assert.Equal(t, tt.url, remote.URL())
			}
		})
	}
}

func TestName(t *testing.T) {
	for target, want := range map[string]string{
		"https://github.com/user/my-template.git": "my-template",
		"git@github.com:user/repo.git":            "repo",
		"github.com/user/repo/":                   "repo",
		"templates/local":                         "local",
		"plain":                                   "plain",
	} {
		assert.Equal(t, want, Name(target), target)
	}
}

func TestOpenSub(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/go/.architect.json": {Data: []byte("{}")},
		"templates/go/main.go":         {Data: []byte("package main")},
		"README.md":                    {Data: []byte("root")},
	}

	src := Sub(NewFSSource(fsys, "."), "./templates/go/")
	assert.Equal(t, "templates/go", src.Root())

	tree, err := Open(context.Background(), src)
	require.NoError(t, err)

	data, err := fs.ReadFile(tree, "main.go")
	require.NoError(t, err)
	assert.Equal(t, "package main", string(data))

	_, err = Open(context.Background(), Sub(NewFSSource(fsys, "."), "missing"))
	assert.Error(t, err)

	assert.Same(t, src.(*subSource).Source, Sub(src.(*subSource).Source, ""))
}

func TestOSSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))

	tree, err := Open(context.Background(), NewOSSource(dir))
	require.NoError(t, err)

	data, err := fs.ReadFile(tree, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))
}
