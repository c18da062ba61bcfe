package filter

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"lbm/command"
)

// StyleCommand is the name of the style area command.
const StyleCommand = "style"

// Style overwrites style properties of the area rectangle with keyword
// arguments of the command, the text element is dropped:
//
//	#style fill=#ff0000 stroke-width=2
type Style struct{}

func (f *Style) Replace(text string, rect *etree.Element) ([]*etree.Element, bool, error) {
	if !command.Is(text, StyleCommand) {
		return nil, false, nil
	}
	cmd, err := command.Parse(text)
	if err != nil {
		return nil, true, err
	}

	decls, err := ParseStyle(rect.SelectAttrValue("style", ""))
	if err != nil {
		return nil, true, err
	}
	for _, key := range cmd.KeywordKeys() {
		v, err := cmd.Keyword(key, "style key-value pair")
		if err != nil {
			return nil, true, err
		}
		if !strings.HasPrefix(key, "--") {
			// parser reports property names in lower case
			key = strings.ToLower(key)
		}
		decls.Set(key, v)
	}
	if err := cmd.Finalize(); err != nil {
		return nil, true, err
	}

	rect.CreateAttr("style", decls.String())
	return []*etree.Element{rect}, true, nil
}

// Declarations is an ordered set of style properties.
type Declarations struct {
	keys   []string
	values map[string]string
}

// ParseStyle parses inline style attribute value. Duplicate properties are
// treated as template error.
func ParseStyle(style string) (*Declarations, error) {
	d := &Declarations{values: make(map[string]string)}

	p := css.NewParser(parse.NewInput(strings.NewReader(style)), true)
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("style '%s': %w: %w", style, ErrStyle, err)
			}
			return d, nil
		case css.CommentGrammar:
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			key := string(data)
			if _, exists := d.values[key]; exists {
				return nil, fmt.Errorf("style '%s': duplicate key '%s': %w", style, key, ErrStyle)
			}
			var sb strings.Builder
			for _, v := range p.Values() {
				sb.Write(v.Data)
			}
			d.keys = append(d.keys, key)
			d.values[key] = strings.TrimSpace(sb.String())
		default:
			return nil, fmt.Errorf("style '%s': unexpected '%s': %w", style, string(data), ErrStyle)
		}
	}
}

// Set overwrites existing property in place or appends new one.
func (d *Declarations) Set(key, value string) {
	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

func (d *Declarations) String() string {
	parts := make([]string, 0, len(d.keys))
	for _, k := range d.keys {
		parts = append(parts, k+":"+d.values[k])
	}
	return strings.Join(parts, ";")
}
