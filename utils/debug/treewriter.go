// Package debug formats indented textual dumps used in debug reports.
package debug

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// Element writes element subtree, one element per line with its attributes
// and non blank direct text.
func (tw TreeWriter) Element(depth int, el *etree.Element) {
	if el == nil {
		return
	}
	tw.indent(depth)
	tw.w.WriteString(el.FullTag())
	for _, a := range el.Attr {
		tw.w.WriteByte(' ')
		tw.w.WriteString(a.FullKey())
		tw.w.WriteByte('=')
		tw.w.WriteString(strconv.Quote(a.Value))
	}
	if text := strings.TrimSpace(el.Text()); text != "" {
		tw.w.WriteString(" ")
		tw.w.WriteString(encodeText(text))
	}
	tw.w.WriteByte('\n')
	for _, child := range el.ChildElements() {
		tw.Element(depth+1, child)
	}
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
