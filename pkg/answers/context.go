package answers

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"strings"
)

// TemplateKey is the reserved top-level key carrying template metadata.
const TemplateKey = "__template__"

var (
	ErrInvalidPath = errors.New("invalid context path")
	ErrConflict    = errors.New("context conflict")
)

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// IsIdentifier reports whether s is a single valid path segment.
func IsIdentifier(s string) bool {
	return identifier.MatchString(s)
}

// Path is a parsed dot-separated context path.
type Path []string

// ParsePath splits a dotted name and checks every segment.
func ParsePath(name string) (Path, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidPath)
	}

	segments := strings.Split(name, ".")
	for _, segment := range segments {
		if !IsIdentifier(segment) {
			return nil, fmt.Errorf("%w: %q (segment %q must match %s)", ErrInvalidPath, name, segment, identifier)
		}
	}

	return Path(segments), nil
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

// Context is the nested answer tree. Leaves are strings or booleans, inner
// nodes are map[string]any.
type Context map[string]any

func New() Context {
	return make(Context)
}

// Insert stores value at path, creating intermediate maps as needed. An
// intermediate segment that already holds a non-map value is a conflict. The
// final segment is overwritten unconditionally.
func (c Context) Insert(path Path, value any) error {
	if len(path) == 0 {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	return insert(c, path, value, 0)
}

func insert(node map[string]any, path Path, value any, depth int) error {
	name := path[depth]

	if depth == len(path)-1 {
		node[name] = value
		return nil
	}

	existing, ok := node[name]
	if !ok {
		child := make(map[string]any)
		node[name] = child
		return insert(child, path, value, depth+1)
	}

	child, ok := asMap(existing)
	if !ok {
		return fmt.Errorf("%w: cannot set %s, %s already holds a %T", ErrConflict, path, path[:depth+1], existing)
	}

	return insert(child, path, value, depth+1)
}

// Lookup returns the value stored at path.
func (c Context) Lookup(path Path) (any, bool) {
	var node map[string]any = c
	for i, name := range path {
		value, ok := node[name]
		if !ok {
			return nil, false
		}
		if i == len(path)-1 {
			return value, true
		}
		if node, ok = asMap(value); !ok {
			return nil, false
		}
	}

	return nil, false
}

// Clone returns a deep copy of the map structure. Leaves are shared.
func (c Context) Clone() Context {
	return Context(cloneMap(c))
}

// WithTemplate returns a copy of c with template metadata under TemplateKey.
func (c Context) WithTemplate(name, version string) Context {
	out := c.Clone()

	meta, ok := asMap(out[TemplateKey])
	if !ok {
		meta = make(map[string]any)
	}
	meta["name"] = name
	meta["version"] = version
	out[TemplateKey] = meta

	return out
}

func cloneMap(m map[string]any) map[string]any {
	out := maps.Clone(m)
	if out == nil {
		out = make(map[string]any)
	}
	for k, v := range out {
		if child, ok := asMap(v); ok {
			out[k] = cloneMap(child)
		}
	}
	return out
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Context:
		return m, true
	default:
		return nil, false
	}
}
