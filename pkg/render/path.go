package render

import (
	"fmt"
	"path"
	"strings"
)

// templateExts are stripped from the names of rendered files.
var templateExts = []string{".hbs", ".handlebars", ".tmpl"}

// targetPath renders every segment of a template-relative source path that
// contains an action. A segment may expand into several directories, and a
// directory segment rendering to nothing is dropped so its contents move up
// a level. ok is false when the file name itself renders empty.
func targetPath(source string, scope map[string]any) (target string, ok bool, err error) {
	segments := strings.Split(source, "/")
	out := make([]string, 0, len(segments))

	for i, segment := range segments {
		if hasAction(segment) {
			rendered, err := execute(source, segment, scope)
			if err != nil {
				return "", false, fmt.Errorf("rendering name %q: %w", segment, err)
			}
			segment = strings.Join(strings.Fields(string(rendered)), " ")
		}

		if segment == "" {
			if i == len(segments)-1 {
				return "", false, nil
			}
			continue
		}

		for part := range strings.SplitSeq(segment, "/") {
			if part != "" {
				out = append(out, part)
			}
		}
	}

	if len(out) == 0 {
		return "", false, nil
	}

	target = path.Join(out...)
	if target == ".." || strings.HasPrefix(target, "../") || target == "." {
		return "", false, fmt.Errorf("%w: %s renders to %s", ErrEscape, source, target)
	}

	return target, true, nil
}

// stripTemplateExt removes a trailing template extension, matched without
// regard to case. Names that would become empty are kept.
func stripTemplateExt(p string) string {
	dir, name := path.Split(p)
	lower := strings.ToLower(name)
	for _, ext := range templateExts {
		if strings.HasSuffix(lower, ext) && len(name) > len(ext) {
			return dir + name[:len(name)-len(ext)]
		}
	}
	return p
}

// numbered inserts " (n)" before the last extension of the file name.
func numbered(p string, n int) string {
	if n == 0 {
		return p
	}

	dir, name := path.Split(p)
	if i := strings.LastIndex(name, "."); i >= 0 {
		return fmt.Sprintf("%s%s (%d)%s", dir, name[:i], n, name[i:])
	}
	return fmt.Sprintf("%s%s (%d)", dir, name, n)
}
