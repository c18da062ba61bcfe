package debug

import (
	"testing"

	"github.com/beevik/etree"
)

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{name: "no depth", format: "test", want: "test\n"},
		{name: "depth 2", depth: 2, format: "double indent", want: "    double indent\n"},
		{name: "with formatting", depth: 1, format: "value: %d", args: []any{42}, want: "  value: 42\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_TextBlock(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		label string
		value string
		want  string
	}{
		{name: "empty value", label: "field", want: "field: \n"},
		{name: "indented", depth: 1, label: "content", value: "test", want: "  content: \"test\"\n"},
		{name: "newline", label: "multiline", value: "line1\nline2", want: "multiline: \"line1\\nline2\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.TextBlock(tt.depth, tt.label, tt.value)
			if got := tw.String(); got != tt.want {
				t.Errorf("TextBlock() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Element(t *testing.T) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(`<svg:g xmlns:svg="http://www.w3.org/2000/svg" id="a"><text x="1">  hi  </text><rect/></svg:g>`); err != nil {
		t.Fatal(err)
	}
	tw := NewTreeWriter()
	tw.Element(1, doc.Root())

	want := "  svg:g xmlns:svg=\"http://www.w3.org/2000/svg\" id=\"a\"\n" +
		"    text x=\"1\" \"hi\"\n" +
		"    rect\n"
	if got := tw.String(); got != want {
		t.Errorf("Element() = %q, want %q", got, want)
	}
}

func TestTreeWriter_ElementNil(t *testing.T) {
	tw := NewTreeWriter()
	tw.Element(0, nil)
	if tw.String() != "" {
		t.Errorf("Element(nil) wrote %q", tw.String())
	}
}
