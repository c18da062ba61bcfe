// Package svgtree contains helpers to inspect and load SVG element trees.
package svgtree

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/beevik/etree"
)

// ErrNotImplemented is returned when text extraction meets an element kind
// which carries text we do not know how to interpret.
var ErrNotImplemented = errors.New("not implemented")

var (
	textTags        = []string{"text", "tspan"}
	unsupportedTags = []string{"altGlyph", "altGlyphDef", "altGlyphItem", "glyph", "glyphRef", "textPath", "tref"}
)

// LocalTag returns element tag without namespace. etree keeps prefix
// separately, but documents built by hand may still use clark notation.
func LocalTag(el *etree.Element) string {
	tag := el.Tag
	if i := strings.IndexByte(tag, '}'); i >= 0 {
		return tag[i+1:]
	}
	return tag
}

// Is reports whether element local tag is one of the names.
func Is(el *etree.Element, names ...string) bool {
	return el != nil && slices.Contains(names, LocalTag(el))
}

// ExtractText returns concatenated text of the element and all its text and
// tspan descendants in document order. Formatting (and therefore line breaks)
// is ignored. Non-text descendants are skipped.
func ExtractText(el *etree.Element) (string, error) {
	var sb strings.Builder
	if err := collectText(el, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func collectText(el *etree.Element, sb *strings.Builder) error {
	tag := LocalTag(el)
	switch {
	case slices.Contains(textTags, tag):
		sb.WriteString(el.Text())
		for _, child := range el.ChildElements() {
			if err := collectText(child, sb); err != nil {
				return err
			}
		}
	case slices.Contains(unsupportedTags, tag):
		return fmt.Errorf("text extraction supports only tspan children, got '%s': %w", tag, ErrNotImplemented)
	}
	return nil
}
