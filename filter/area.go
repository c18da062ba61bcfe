package filter

import (
	"github.com/beevik/etree"

	"lbm/rows"
	"lbm/svgtree"
)

// Replacer produces replacement content for an area: a group holding exactly
// one rectangle and one text element. The rectangle defines position and size,
// the text holds the command.
//
// Replace returns false when the command is not handled by this replacer, in
// which case the group is left untouched. When it returns true the rectangle
// and text are removed and returned elements (possibly none) are appended to
// the group, which keeps any transform on the group in effect.
type Replacer interface {
	Replace(cmd string, rect *etree.Element) ([]*etree.Element, bool, error)
}

// Area adapts a Replacer to the Filter interface.
type Area struct {
	Replacer Replacer
}

func (f *Area) Apply(el *etree.Element, _ rows.Row) error {
	if !svgtree.Is(el, "g") {
		return nil
	}
	children := el.ChildElements()
	if len(children) != 2 {
		return nil
	}

	var rect, text *etree.Element
	switch {
	case svgtree.Is(children[0], "rect") && svgtree.Is(children[1], "text"):
		rect, text = children[0], children[1]
	case svgtree.Is(children[0], "text") && svgtree.Is(children[1], "rect"):
		text, rect = children[0], children[1]
	default:
		return nil
	}

	cmd, err := svgtree.ExtractText(text)
	if err != nil {
		return err
	}
	replacement, ok, err := f.Replacer.Replace(cmd, rect)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	el.RemoveChild(rect)
	el.RemoveChild(text)
	for _, r := range replacement {
		el.AddChild(r)
	}
	return nil
}
