package render

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/olimci/architect/pkg/answers"
	"github.com/olimci/architect/pkg/config"
	"github.com/olimci/architect/pkg/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestTargetPath(t *testing.T) {
	scope := map[string]any{
		"name":    "demo",
		"pkg":     "io.v47.test",
		"empty":   "",
		"nested":  map[string]any{"dir": "inner"},
		"escape":  "..",
		"spacing": "a\nb",
	}

	tests := []struct {
		source  string
		want    string
		ok      bool
		wantErr bool
	}{
		{source: "README.md", want: "README.md", ok: true},
		{source: "{{ .name }}/main.go", want: "demo/main.go", ok: true},
		{source: "src/{{ package .pkg }}/App.java", want: "src/io/v47/test/App.java", ok: true},
		{source: "{{ .empty }}/flat.txt", want: "flat.txt", ok: true},
		{source: "dir/{{ .empty }}", ok: false},
		{source: "{{ .nested.dir }}.txt", want: "inner.txt", ok: true},
		{source: "{{ .spacing }}.txt", want: "a b.txt", ok: true},
		{source: "{{ .escape }}/{{ .escape }}/x", wantErr: true},
		{source: "{{ .broken", want: "{{ .broken", ok: true},
		{source: "{{ broken }}.txt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got, ok, err := targetPath(tt.source, scope)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStripTemplateExt(t *testing.T) {
	for in, want := range map[string]string{
		"index.html.hbs":        "index.html",
		"a/b/README.Handlebars": "a/b/README",
		"main.go.tmpl":          "main.go",
		"plain.txt":             "plain.txt",
		".hbs":                  ".hbs",
	} {
		assert.Equal(t, want, stripTemplateExt(in), in)
	}
}

func TestNumbered(t *testing.T) {
	assert.Equal(t, "a/file.txt", numbered("a/file.txt", 0))
	assert.Equal(t, "a/file (1).txt", numbered("a/file.txt", 1))
	assert.Equal(t, "a/file.tar (2).gz", numbered("a/file.tar.gz", 2))
	assert.Equal(t, "Makefile (1)", numbered("Makefile", 1))
	assert.Equal(t, " (1).gitignore", numbered(".gitignore", 1))
}

func templateTree() fstest.MapFS {
	return fstest.MapFS{
		".architect.json":              {Data: []byte(`{}`)},
		".git/config":                  {Data: []byte("[core]")},
		".gitignore":                   {Data: []byte("dist/\n")},
		"README.md.hbs":                {Data: []byte("# {{ .name }} by {{ .author.name }}\n")},
		"LICENSE":                      {Data: []byte("MIT {{ .year }}\n")},
		"docker/Dockerfile":            {Data: []byte("FROM scratch\n")},
		"src/{{ .name }}/main.go":      {Data: []byte("package {{ .name }}\n"), Mode: 0o755},
		"logo.png":                     {Data: []byte{0x89, 'P', 'N', 'G'}},
		"notes/{{ .empty }}/todo.txt":  {Data: []byte("todo")},
		"about.txt":                    {Data: []byte("{{ .__template__.name }} {{ .__template__.version }} {{ .__template__.file.sourceName }} {{ .__template__.file.targetName }}")},
		"dup/{{ .a }}.txt":             {Data: []byte("a")},
		"dup/{{ .b }}.txt":             {Data: []byte("b")},
		"dup/same.txt":                 {Data: []byte("c")},
		"conditional/{{ .name }}.yaml": {Data: []byte("x")},
	}
}

func templateConfig() *config.Config {
	return &config.Config{
		Name:    "demo-template",
		Version: "1.2.3",
		File:    ".architect.json",
		Filters: config.Filters{
			ConditionalFiles: []config.ConditionalFile{{Condition: "useDocker", Matcher: "docker/**"}},
			IncludeHidden:    []string{".gitignore"},
			NonTemplates:     []string{"*.png", "LICENSE"},
		},
	}
}

func templateScope() answers.Context {
	return answers.Context{
		"name":      "demo",
		"useDocker": false,
		"author":    map[string]any{"name": "Jo"},
		"a":         "same",
		"b":         "same",
		"empty":     "",
	}
}

func TestPlan(t *testing.T) {
	plan, err := New().Plan(context.Background(), templateTree(), templateConfig(), templateScope())
	require.NoError(t, err)

	targets := make(map[string]*File)
	for _, f := range plan.Files {
		targets[f.Target] = f
	}

	assert.Contains(t, targets, "README.md")
	assert.True(t, targets["README.md"].Rendered)
	assert.Contains(t, targets, ".gitignore")
	assert.False(t, targets[".gitignore"].Rendered)
	assert.Equal(t, filter.IncludeVerbatim, targets["LICENSE"].Decision)
	assert.Contains(t, targets, "src/demo/main.go")
	assert.Contains(t, targets, "notes/todo.txt")
	assert.NotContains(t, targets, "docker/Dockerfile")
	assert.NotContains(t, targets, ".architect.json")
	assert.NotContains(t, targets, ".git/config")

	assert.Contains(t, targets, "dup/same.txt")
	assert.Contains(t, targets, "dup/same (1).txt")
	assert.Contains(t, targets, "dup/same (2).txt")
	require.Len(t, plan.Conflicts, 1)
	assert.Equal(t, "dup/same.txt", plan.Conflicts[0].Target)
	assert.Len(t, plan.Conflicts[0].Sources, 3)

	var skipped []string
	for _, e := range plan.Skipped {
		skipped = append(skipped, e.Path)
	}
	assert.Contains(t, skipped, "docker/Dockerfile")
}

func TestRender(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out")

	plan, err := New(WithRootDir("/templates/demo")).Render(context.Background(), templateTree(), templateConfig(), templateScope(), target)
	require.NoError(t, err)

	for _, f := range plan.Files {
		assert.Equal(t, Created, f.Status, f.Target)
	}

	assert.Equal(t, "# demo by Jo\n", readFile(t, filepath.Join(target, "README.md")))
	assert.Equal(t, "MIT {{ .year }}\n", readFile(t, filepath.Join(target, "LICENSE")))
	assert.Equal(t, "package demo\n", readFile(t, filepath.Join(target, "src", "demo", "main.go")))
	assert.Equal(t, "demo-template 1.2.3 about.txt about.txt", readFile(t, filepath.Join(target, "about.txt")))
	assert.Equal(t, "todo", readFile(t, filepath.Join(target, "notes", "todo.txt")))

	info, err := os.Stat(filepath.Join(target, "src", "demo", "main.go"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	_, err = os.Stat(filepath.Join(target, "docker"))
	assert.True(t, os.IsNotExist(err))
}

func TestRenderRefusesOverwrite(t *testing.T) {
	target := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(target, "LICENSE"), []byte("old"), 0o644))

	_, err := New().Render(context.Background(), templateTree(), templateConfig(), templateScope(), target)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExists)

	assert.Equal(t, "old", readFile(t, filepath.Join(target, "LICENSE")))
	_, err = os.Stat(filepath.Join(target, "README.md"))
	assert.True(t, os.IsNotExist(err), "nothing is written when a check fails")
}

func TestRenderForce(t *testing.T) {
	target := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(target, "LICENSE"), []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(target, ".gitignore"), []byte("dist/\n"), 0o644))

	plan, err := New(WithForce(true)).Render(context.Background(), templateTree(), templateConfig(), templateScope(), target)
	require.NoError(t, err)

	status := make(map[string]Status)
	for _, f := range plan.Files {
		status[f.Target] = f.Status
	}
	assert.Equal(t, Overwritten, status["LICENSE"])
	assert.Equal(t, Unchanged, status[".gitignore"])
	assert.Equal(t, Created, status["README.md"])
	assert.Equal(t, "MIT {{ .year }}\n", readFile(t, filepath.Join(target, "LICENSE")))
}

func TestRenderDryRun(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out")

	plan, err := New(WithDryRun(true)).Render(context.Background(), templateTree(), templateConfig(), templateScope(), target)
	require.NoError(t, err)
	assert.NotEmpty(t, plan.Files)

	for _, f := range plan.Files {
		assert.Equal(t, Planned, f.Status)
	}

	_, err = os.Stat(target)
	assert.True(t, os.IsNotExist(err))
}

func TestRenderErrorIsFatal(t *testing.T) {
	tree := fstest.MapFS{
		"ok.txt":  {Data: []byte("fine")},
		"bad.txt": {Data: []byte("{{ .x | nosuchfunc }}")},
	}
	target := filepath.Join(t.TempDir(), "out")

	_, err := New().Render(context.Background(), tree, config.Empty(), answers.New(), target)
	require.Error(t, err)

	_, err = os.Stat(filepath.Join(target, "ok.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestRenderEvaluationErrorWritesNothing(t *testing.T) {
	tree := fstest.MapFS{"docker/Dockerfile": {Data: []byte("FROM scratch")}, "a.txt": {Data: []byte("a")}}
	cfg := &config.Config{Filters: config.Filters{
		ConditionalFiles: []config.ConditionalFile{{Condition: "useDocker &&", Matcher: "**"}},
	}}
	target := filepath.Join(t.TempDir(), "out")

	_, err := New().Render(context.Background(), tree, cfg, answers.New(), target)
	require.Error(t, err)
	assert.ErrorIs(t, err, filter.ErrEvaluation)

	_, err = os.Stat(target)
	assert.True(t, os.IsNotExist(err))
}

func TestRenderMissingValues(t *testing.T) {
	tree := fstest.MapFS{
		"features.txt": {Data: []byte("{{ if .features.docs }}docs{{ else }}no docs{{ end }}")},
	}
	target := t.TempDir()

	_, err := New().Render(context.Background(), tree, config.Empty(), answers.Context{"features": map[string]any{"ci": true}}, target)
	require.NoError(t, err)
	assert.Equal(t, "no docs", readFile(t, filepath.Join(target, "features.txt")))
}

func TestPlanConditionSeesTemplateMetadata(t *testing.T) {
	tree := fstest.MapFS{
		"docker/Dockerfile": {Data: []byte("FROM scratch")},
		"legacy/old.txt":    {Data: []byte("old")},
	}
	cfg := &config.Config{
		Name:    "svc",
		Version: "2.0.0",
		Filters: config.Filters{ConditionalFiles: []config.ConditionalFile{
			{Condition: `__template__.name == "svc"`, Matcher: "docker/**"},
			{Condition: `__template__.version startsWith "1."`, Matcher: "legacy/**"},
		}},
	}

	plan, err := New().Plan(context.Background(), tree, cfg, answers.New())
	require.NoError(t, err)

	require.Len(t, plan.Files, 1)
	assert.Equal(t, "docker/Dockerfile", plan.Files[0].Target)
	require.Len(t, plan.Skipped, 1)
	assert.Equal(t, "legacy/old.txt", plan.Skipped[0].Path)
}

func TestRenderCopiesBinaryVerbatim(t *testing.T) {
	binary := []byte{0xff, 0xfe, '{', '{', ' ', 'x', 0x00, '}', '}', 0x80}
	tree := fstest.MapFS{
		"blob.bin.tmpl": {Data: binary},
		"text.txt":      {Data: []byte("{{ .name }}")},
	}
	target := t.TempDir()

	plan, err := New().Render(context.Background(), tree, config.Empty(), answers.Context{"name": "demo"}, target)
	require.NoError(t, err)

	rendered := make(map[string]bool)
	for _, f := range plan.Files {
		rendered[f.Target] = f.Rendered
	}
	assert.False(t, rendered["blob.bin.tmpl"])
	assert.True(t, rendered["text.txt"])

	data, err := os.ReadFile(filepath.Join(target, "blob.bin.tmpl"))
	require.NoError(t, err)
	assert.Equal(t, binary, data)
	assert.Equal(t, "demo", readFile(t, filepath.Join(target, "text.txt")))
}
