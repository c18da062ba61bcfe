// Package render writes generated pages and hands them to external tools.
package render

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"

	"lbm/config"
)

// SVGExt is extension of generated pages.
const SVGExt = ".svg"

// NameValues are available to output name template.
type NameValues struct {
	Base string
	Page int
	Ext  string
}

// Namer builds output file names from output argument: "labels.svg" gives
// "labels_0.svg", "labels_1.svg" and so on.
type Namer struct {
	dir           string
	base          string
	tmpl          *template.Template
	transliterate bool

	// page each issued name belongs to
	issued map[string]int
}

// NewNamer prepares naming scheme, empty nameTemplate selects default one.
func NewNamer(output, nameTemplate string, transliterate bool) (*Namer, error) {
	base := output
	if strings.EqualFold(filepath.Ext(base), SVGExt) {
		base = base[:len(base)-len(SVGExt)]
	}
	n := &Namer{
		dir:           filepath.Dir(base),
		base:          filepath.Base(base),
		transliterate: transliterate,
		issued:        make(map[string]int),
	}
	if nameTemplate != "" {
		t, err := template.New(string(config.OutputNameTemplateFieldName)).Funcs(sprig.FuncMap()).Parse(nameTemplate)
		if err != nil {
			return nil, fmt.Errorf("unable to parse template field %s: %w", config.OutputNameTemplateFieldName, err)
		}
		n.tmpl = t
	}
	return n, nil
}

// Name returns path of the page file. Name fails when two pages would share
// the same file.
func (n *Namer) Name(page int) (string, error) {
	name := fmt.Sprintf("%s_%d", n.base, page)
	if n.tmpl != nil {
		buf := new(bytes.Buffer)
		if err := n.tmpl.Execute(buf, NameValues{Base: n.base, Page: page, Ext: SVGExt}); err != nil {
			return "", fmt.Errorf("unable to expand output name for page %d: %w", page, err)
		}
		if expanded := strings.TrimSuffix(strings.TrimSpace(buf.String()), SVGExt); expanded != "" {
			name = expanded
		}
	}
	path := n.clean(name)
	if prev, ok := n.issued[path]; ok && prev != page {
		return "", fmt.Errorf("output name '%s' for page %d repeats page %d, name template must depend on .Page", path, page, prev)
	}
	n.issued[path] = page
	return path, nil
}

// Single returns path used when only one document is produced per output.
func (n *Namer) Single() string {
	return n.clean(n.base)
}

func (n *Namer) clean(stem string) string {
	if n.transliterate {
		stem = slug.Make(stem)
	}
	return filepath.Join(n.dir, config.CleanFileName(stem)+SVGExt)
}
