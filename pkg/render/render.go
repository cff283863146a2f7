// Package render turns a template tree and an answer context into files in a
// target directory.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/olimci/architect/pkg/answers"
	"github.com/olimci/architect/pkg/config"
	"github.com/olimci/architect/pkg/filter"
	"github.com/olimci/architect/pkg/utils/fileutils"
	"github.com/olimci/architect/pkg/utils/set"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEscape = errors.New("path escapes the target directory")
	ErrExists = errors.New("target file already exists")
)

type Status int

const (
	Planned Status = iota
	Created
	Overwritten
	Unchanged
)

func (s Status) String() string {
	switch s {
	case Planned:
		return "planned"
	case Created:
		return "created"
	case Overwritten:
		return "overwritten"
	case Unchanged:
		return "unchanged"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// File is one file that will be written to the target.
type File struct {
	Source   string
	Target   string
	Decision filter.Decision
	Reason   string

	// Rendered is set when the file is render-eligible and its content is
	// UTF-8 text holding template actions.
	Rendered bool
	Status   Status

	template []byte
	content  []byte
	perm     fs.FileMode
	exists   bool
}

// Conflict lists sources whose names rendered to the same target. All but
// the first were written under numbered names.
type Conflict struct {
	Target  string
	Sources []string
}

type Plan struct {
	Name      string
	Version   string
	Files     []*File
	Skipped   []filter.Entry
	Conflicts []Conflict

	scope answers.Context
}

type Renderer struct {
	options *options
}

func New(opts ...Option) *Renderer {
	return &Renderer{options: defaultOptions().apply(opts...)}
}

// Render plans the template and writes it to target.
func (r *Renderer) Render(ctx context.Context, tree fs.FS, cfg *config.Config, scope answers.Context, target string) (*Plan, error) {
	plan, err := r.Plan(ctx, tree, cfg, scope)
	if err != nil {
		return nil, err
	}

	if err := r.Write(ctx, tree, plan, target); err != nil {
		return nil, err
	}

	return plan, nil
}

// Plan decides every file of tree and works out its target name. Nothing
// outside tree is touched.
func (r *Renderer) Plan(ctx context.Context, tree fs.FS, cfg *config.Config, scope answers.Context) (*Plan, error) {
	paths, err := fileutils.WalkFilesFS(tree, ".", ".git")
	if err != nil {
		return nil, fmt.Errorf("walking template: %w", err)
	}
	if cfg.File != "" {
		paths = remove(paths, cfg.File)
	}

	decider, err := filter.New(cfg.Filters, r.options.evaluator,
		filter.WithLogger(r.options.logger),
		filter.WithWorkers(r.options.workers),
	)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Name:    cfg.Name,
		Version: cfg.Version,
		scope:   scope.WithTemplate(cfg.Name, cfg.Version),
	}

	decisions, err := decider.DecideAll(ctx, paths, plan.scope)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]string)
	var order []string

	for _, entry := range decisions {
		if !entry.Decision.Included() {
			plan.Skipped = append(plan.Skipped, entry)
			continue
		}

		target, ok, err := targetPath(entry.Path, plan.scope)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Path, err)
		}
		if !ok {
			plan.Skipped = append(plan.Skipped, filter.Entry{
				Path:        entry.Path,
				Explanation: filter.Explanation{Decision: filter.Skip, Reason: "name renders empty"},
			})
			continue
		}

		file := &File{
			Source:   entry.Path,
			Decision: entry.Decision,
			Reason:   entry.Reason,
		}

		if entry.Decision == filter.IncludeRender {
			data, err := fs.ReadFile(tree, entry.Path)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", entry.Path, err)
			}
			if utf8.Valid(data) && hasAction(string(data)) {
				file.Rendered = true
				file.template = data
				target = stripTemplateExt(target)
			}
		}

		sources := groups[target]
		if sources == nil {
			order = append(order, target)
		}
		file.Target = numbered(target, len(sources))
		groups[target] = append(sources, entry.Path)

		plan.Files = append(plan.Files, file)
	}

	for _, target := range order {
		if sources := groups[target]; len(sources) > 1 {
			plan.Conflicts = append(plan.Conflicts, Conflict{Target: target, Sources: sources})
		}
	}

	return plan, nil
}

// Write renders file contents and commits the plan to target. Every file is
// rendered and checked before the first one is written.
func (r *Renderer) Write(ctx context.Context, tree fs.FS, plan *Plan, target string) error {
	root, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolving target: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	if r.options.workers > 0 {
		g.SetLimit(r.options.workers)
	}

	for _, file := range plan.Files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			return r.prepare(tree, plan, file, root)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if !r.options.force {
		var existing []string
		for _, file := range plan.Files {
			if file.exists {
				existing = append(existing, file.Target)
			}
		}
		if len(existing) > 0 {
			return fmt.Errorf("%w: %s (use force to overwrite)", ErrExists, strings.Join(existing, ", "))
		}
	}

	if r.options.dryRun {
		return nil
	}

	dirs := set.New[string]()
	for _, file := range plan.Files {
		dirs.Add(path.Dir(file.Target))
	}
	for _, dir := range set.Sorted(dirs) {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	g, gctx = errgroup.WithContext(ctx)
	if r.options.workers > 0 {
		g.SetLimit(r.options.workers)
	}

	for _, file := range plan.Files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if err := r.write(tree, file, root); err != nil {
				return fmt.Errorf("writing %s: %w", file.Target, err)
			}

			r.options.logger.Debug("wrote file", "source", file.Source, "target", file.Target, "status", file.Status)
			return nil
		})
	}

	return g.Wait()
}

func (r *Renderer) prepare(tree fs.FS, plan *Plan, file *File, root string) error {
	dst := filepath.Join(root, filepath.FromSlash(file.Target))
	if rel, err := filepath.Rel(root, dst); err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrEscape, file.Target)
	}

	info, err := fs.Stat(tree, file.Source)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file.Source, err)
	}
	file.perm = info.Mode().Perm()
	if file.perm == 0 {
		file.perm = 0o644
	}

	if existing, err := os.Stat(dst); err == nil {
		if existing.IsDir() {
			return fmt.Errorf("%s: target is a directory", file.Target)
		}
		file.exists = true
	}

	if !file.Rendered {
		return nil
	}

	scope := fileScope(plan.scope, file, r.options.rootDir, dst)
	content, err := execute(file.Source, string(file.template), scope)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", file.Source, err)
	}
	file.content = content

	return nil
}

func (r *Renderer) write(tree fs.FS, file *File, root string) error {
	dst := filepath.Join(root, filepath.FromSlash(file.Target))

	gen := func(w io.Writer) error {
		if file.Rendered {
			_, err := w.Write(file.content)
			return err
		}

		src, err := tree.Open(file.Source)
		if err != nil {
			return err
		}
		defer src.Close()

		_, err = io.Copy(w, src)
		return err
	}

	if !file.exists {
		if err := fileutils.AtomicWrite(dst, file.perm, gen); err != nil {
			return err
		}
		file.Status = Created
		return nil
	}

	changed, err := fileutils.AtomicEdit(dst, file.perm, gen)
	if err != nil {
		return err
	}
	if changed {
		file.Status = Overwritten
	} else {
		file.Status = Unchanged
	}
	return nil
}

// fileScope adds __template__.file to the shared scope.
func fileScope(base answers.Context, file *File, rootDir, targetPath string) map[string]any {
	scope := maps.Clone(base)

	meta := make(map[string]any)
	if m, ok := base[answers.TemplateKey].(map[string]any); ok {
		meta = maps.Clone(m)
	}

	meta["file"] = map[string]any{
		"rootDir":    rootDir,
		"sourceName": path.Base(file.Source),
		"sourcePath": filepath.Join(rootDir, filepath.FromSlash(file.Source)),
		"targetName": filepath.Base(targetPath),
		"targetPath": targetPath,
	}
	scope[answers.TemplateKey] = meta

	return scope
}

func remove(paths []string, name string) []string {
	out := paths[:0:0]
	for _, p := range paths {
		if p != name {
			out = append(out, p)
		}
	}
	return out
}
