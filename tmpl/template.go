// Package tmpl holds a parsed label template: the static page background
// (base) and the fragments instantiated once per data row.
package tmpl

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"lbm/command"
	"lbm/filter"
	"lbm/rows"
	"lbm/svgtree"
	"lbm/utils/debug"
)

// DefaultConfigMarker names the inline configuration command.
const DefaultConfigMarker = "config"

var (
	ErrDuplicateConfig = errors.New("template has more than one config command")
	ErrMissingConfig   = errors.New("template has no config command")
)

// DefaultFragmentTags lists top level tags treated as template fragments.
var DefaultFragmentTags = []string{"g"}

// Template splits document into base and fragments. Base is never modified
// after construction.
type Template struct {
	base      *etree.Document
	fragments []*etree.Element
	config    *command.Command

	dir     string
	tags    []string
	marker  string
	filters filter.Pipeline
	log     *zap.Logger
}

// Option customizes template construction.
type Option func(*Template)

// WithFragmentTags replaces fragment tag allow-list.
func WithFragmentTags(tags ...string) Option {
	return func(t *Template) {
		if len(tags) > 0 {
			t.tags = slices.Clone(tags)
		}
	}
}

// WithConfigMarker sets inline configuration command name, empty string
// disables inline configuration.
func WithConfigMarker(name string) Option {
	return func(t *Template) { t.marker = name }
}

// WithFilters replaces default filter pipeline.
func WithFilters(p filter.Pipeline) Option {
	return func(t *Template) { t.filters = p }
}

// WithDir sets directory used to resolve included documents.
func WithDir(dir string) Option {
	return func(t *Template) { t.dir = dir }
}

func WithLogger(log *zap.Logger) Option {
	return func(t *Template) { t.log = log }
}

// New takes ownership of the document: inline configuration and fragments
// are removed from it.
func New(doc *etree.Document, opts ...Option) (*Template, error) {
	root := doc.Root()
	if root == nil {
		return nil, errors.New("template document has no root element")
	}

	t := &Template{
		base:   doc,
		tags:   DefaultFragmentTags,
		marker: DefaultConfigMarker,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.filters == nil {
		t.filters = filter.Default(svgtree.DirLoader(t.dir))
	}

	if t.marker != "" {
		if err := t.extractConfig(root); err != nil {
			return nil, err
		}
	}

	for _, child := range root.ChildElements() {
		if slices.Contains(t.tags, svgtree.LocalTag(child)) {
			t.fragments = append(t.fragments, child)
			root.RemoveChild(child)
		}
	}

	t.log.Debug("Template prepared",
		zap.Int("fragments", len(t.fragments)),
		zap.Bool("config", t.config != nil),
		zap.String("dir", t.dir))
	return t, nil
}

// Load reads template from file, included documents are resolved relative
// to the template location.
func Load(path string, opts ...Option) (*Template, error) {
	doc, err := svgtree.ReadFile(path)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithDir(filepath.Dir(path))}, opts...)
	t, err := New(doc, opts...)
	if err != nil {
		return nil, fmt.Errorf("template '%s': %w", path, err)
	}
	return t, nil
}

func (t *Template) extractConfig(root *etree.Element) error {
	var (
		found *etree.Element
		text  string
	)
	for _, el := range root.FindElements("//*") {
		if !svgtree.Is(el, "text") {
			continue
		}
		s, err := svgtree.ExtractText(el)
		if err != nil {
			if command.Is(el.Text(), t.marker) {
				return fmt.Errorf("configuration '%s': %w", strings.TrimSpace(el.Text()), err)
			}
			// cannot be a command, filters will report it if it matters
			continue
		}
		if !command.Is(s, t.marker) {
			continue
		}
		if found != nil {
			return fmt.Errorf("'%s' and '%s': %w", text, s, ErrDuplicateConfig)
		}
		found, text = el, s
	}
	if found == nil {
		return nil
	}

	cmd, err := command.Parse(text)
	if err != nil {
		return err
	}
	t.config = cmd

	parent := found.Parent()
	parent.RemoveChild(found)
	if parent != root && svgtree.Is(parent, "g") && len(parent.ChildElements()) == 0 {
		if gp := parent.Parent(); gp != nil {
			gp.RemoveChild(parent)
		}
	}
	return nil
}

// HasConfig reports whether template carries inline configuration.
func (t *Template) HasConfig() bool { return t.config != nil }

// Config returns required inline configuration value.
func (t *Template) Config(key, desc string) (string, error) {
	if t.config == nil {
		return "", fmt.Errorf("config key '%s' (%s): %w", key, desc, ErrMissingConfig)
	}
	return t.config.Keyword(key, desc)
}

// ConfigDefault returns inline configuration value or def when absent.
func (t *Template) ConfigDefault(key, desc, def string) string {
	if t.config == nil {
		return def
	}
	return t.config.KeywordDefault(key, desc, def)
}

// FinalizeConfig fails if inline configuration has arguments nobody asked for.
func (t *Template) FinalizeConfig() error {
	if t.config == nil {
		return nil
	}
	return t.config.Finalize()
}

// CloneBase returns independent copy of the page background.
func (t *Template) CloneBase() *etree.Document {
	return t.base.Copy()
}

// Generate instantiates template fragments for a single row.
func (t *Template) Generate(row rows.Row) ([]*etree.Element, error) {
	out := make([]*etree.Element, 0, len(t.fragments))
	for _, f := range t.fragments {
		out = append(out, f.Copy())
	}
	if err := t.filters.Run(out, row); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *Template) Dir() string { return t.dir }

func (t *Template) Fragments() int { return len(t.fragments) }

// Dump describes template structure for debug reports.
func (t *Template) Dump() string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "Template")
	tw.Line(1, "Directory: %q", t.dir)
	tw.Line(1, "Fragment tags: %v", t.tags)
	if t.config != nil {
		tw.TextBlock(1, "Config", t.config.String())
	} else {
		tw.Line(1, "Config: none")
	}
	tw.Line(1, "Base:")
	tw.Element(2, t.base.Root())
	tw.Line(1, "Fragments: %d", len(t.fragments))
	for _, f := range t.fragments {
		tw.Element(2, f)
	}
	return tw.String()
}
