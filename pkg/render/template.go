package render

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/olimci/architect/pkg/utils/lazy"
)

var funcs = lazy.New(func() template.FuncMap {
	fm := sprig.TxtFuncMap()
	fm["package"] = packagePath
	return fm
})

// packagePath turns a dotted package name into a directory path.
func packagePath(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), ".", "/")
}

func execute(name, text string, data any) ([]byte, error) {
	tmpl, err := template.New(name).
		Funcs(funcs.Get()).
		Option("missingkey=zero").
		Parse(text)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// hasAction reports whether s contains an opening and a later closing
// delimiter.
func hasAction(s string) bool {
	start := strings.Index(s, "{{")
	if start < 0 {
		return false
	}
	return strings.LastIndex(s, "}}") > start
}
