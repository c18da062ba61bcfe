package filter

import (
	"regexp"
	"strings"

	"github.com/beevik/etree"

	"lbm/rows"
	"lbm/svgtree"
)

var placeholderRe = regexp.MustCompile(`%\(([^()^]+)\)`)

// Text replaces %(key) in text content with values from the row.
type Text struct{}

func (f *Text) Apply(el *etree.Element, row rows.Row) error {
	if !svgtree.Is(el, "text", "tspan", "flowRoot", "flowPara", "flowSpan") {
		return nil
	}
	text := el.Text()
	if text == "" {
		return nil
	}
	out, err := substitute(text, row)
	if err != nil {
		return err
	}
	if out != text {
		el.SetText(out)
	}
	return nil
}

func substitute(text string, row rows.Row) (string, error) {
	matches := placeholderRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, nil
	}
	var sb strings.Builder
	last := 0
	for _, m := range matches {
		key := text[m[2]:m[3]]
		val, ok := row[key]
		if !ok {
			return "", &MissingKeyError{Key: key}
		}
		sb.WriteString(text[last:m[0]])
		sb.WriteString(val)
		last = m[1]
	}
	sb.WriteString(text[last:])
	return sb.String(), nil
}
