package filter

import (
	"errors"
	"strings"
	"testing"

	"github.com/beevik/etree"

	"lbm/command"
)

func applyArea(t *testing.T, r Replacer, src string) (*etree.Element, error) {
	t.Helper()
	el := parseElement(t, src)
	return el, (&Area{Replacer: r}).Apply(el, nil)
}

func TestArea_ChildOrderInsensitive(t *testing.T) {
	a, err := applyArea(t, &Barcode{}, `<g transform="rotate(90)"><rect x="0" y="5" width="500" height="40"/><text>#code128 123</text></g>`)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	b, err := applyArea(t, &Barcode{}, `<g transform="rotate(90)"><text>#code128 123</text><rect x="0" y="5" width="500" height="40"/></g>`)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if serialize(t, a) != serialize(t, b) {
		t.Errorf("outputs differ:\n%s\n%s", serialize(t, a), serialize(t, b))
	}
	if a.SelectAttrValue("transform", "") != "rotate(90)" {
		t.Error("group transform was not preserved")
	}
}

func TestArea_NoMatch(t *testing.T) {
	for _, src := range []string{
		`<g><rect x="0" y="0" width="10" height="10"/><text>#other 1</text></g>`,
		`<g><rect/><text>#code128 1</text><rect/></g>`,
		`<g><rect/><rect/></g>`,
		`<svg><rect/><text>#code128 1</text></svg>`,
	} {
		el, err := applyArea(t, &Barcode{}, src)
		if err != nil {
			t.Errorf("%s: Apply() error = %v", src, err)
			continue
		}
		if got := serialize(t, el); got != src {
			t.Errorf("group was modified:\n got %s\nwant %s", got, src)
		}
	}
}

func TestBarcode_Widths(t *testing.T) {
	for _, v := range []string{"1", "123", "ABC-123", "hello world"} {
		w, err := Code128Widths(v)
		if err != nil {
			t.Fatalf("Code128Widths(%q) error = %v", v, err)
		}
		if len(w)%2 != 1 {
			t.Errorf("Code128Widths(%q) length %d is not odd", v, len(w))
		}
		for i, m := range w {
			if m < 1 || m > 4 {
				t.Errorf("Code128Widths(%q)[%d] = %v, want 1..4 modules", v, i, m)
			}
		}
	}
}

func TestBarcode_Fits(t *testing.T) {
	el, err := applyArea(t, &Barcode{}, `<g><rect x="10" y="5" width="500" height="40"/><text>#code128 123 thickness=3 quiet=true</text></g>`)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	widths, _ := Code128Widths("123")
	bars := el.ChildElements()
	if len(bars) != (len(widths)+1)/2 {
		t.Fatalf("got %d bars, want %d", len(bars), (len(widths)+1)/2)
	}
	for _, bar := range bars {
		if bar.SelectAttrValue("y", "") != "5" || bar.SelectAttrValue("height", "") != "40" {
			t.Errorf("bar does not inherit y/height: %s", serialize(t, bar))
		}
		if bar.SelectAttrValue("style", "") != "stroke:none;fill:#000000;fill-opacity:1" {
			t.Errorf("bar style = %q", bar.SelectAttrValue("style", ""))
		}
	}

	// centered: first bar starts after half of free space plus quiet zone
	total := 0.0
	for _, w := range widths {
		total += w * 3
	}
	total += 60
	wantX := 10 + (500-total)/2 + 30
	if got := bars[0].SelectAttrValue("x", ""); got != fmtNum(wantX) {
		t.Errorf("first bar x = %s, want %s", got, fmtNum(wantX))
	}
}

func TestBarcode_Align(t *testing.T) {
	el, err := applyArea(t, &Barcode{}, `<g><rect x="10" y="0" width="500" height="40"/><text>#code128 123 align=xMin quiet=False thickness=2</text></g>`)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got := el.ChildElements()[0].SelectAttrValue("x", ""); got != "10" {
		t.Errorf("xMin first bar x = %s, want 10", got)
	}

	el, err = applyArea(t, &Barcode{}, `<g><rect x="0" y="0" width="500" height="40"/><text>#code128 123 align=xMax quiet=false thickness=1</text></g>`)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	bars := el.ChildElements()
	last := bars[len(bars)-1]
	x, _ := parseNum(last.SelectAttrValue("x", ""))
	w, _ := parseNum(last.SelectAttrValue("width", ""))
	if x+w != 500 {
		t.Errorf("xMax last bar ends at %v, want 500", x+w)
	}
}

func TestBarcode_TooWide(t *testing.T) {
	_, err := applyArea(t, &Barcode{}, `<g><rect x="0" y="0" width="10" height="40"/><text>#code128 123 thickness=3 quiet=true</text></g>`)
	if !errors.Is(err, ErrWidthExceeded) {
		t.Fatalf("Apply() error = %v, want ErrWidthExceeded", err)
	}
	var we *WidthError
	if !errors.As(err, &we) || we.Allowed != 10 || we.Value != "123" {
		t.Errorf("error = %#v", err)
	}
}

func TestBarcode_Empty(t *testing.T) {
	el, err := applyArea(t, &Barcode{}, `<g id="x"><rect x="0" y="0" width="10" height="40"/><text>#code128 </text></g>`)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if n := len(el.ChildElements()); n != 0 {
		t.Errorf("got %d children, want 0", n)
	}
	if el.SelectAttrValue("id", "") != "x" {
		t.Error("group attributes lost")
	}
}

func TestBarcode_SyntaxErrors(t *testing.T) {
	for _, cmd := range []string{
		"#code128 1 align=center",
		"#code128 1 quiet=maybe",
		"#code128 1 thicknes=2",
		"#code128 1 2",
		"#code128 1 thickness=wide",
	} {
		_, err := applyArea(t, &Barcode{}, `<g><rect x="0" y="0" width="500" height="40"/><text>`+cmd+`</text></g>`)
		if !errors.Is(err, command.ErrSyntax) {
			t.Errorf("%s: error = %v, want ErrSyntax", cmd, err)
		}
	}
}

func TestStyle(t *testing.T) {
	el, err := applyArea(t, &Style{}, `<g><text>#style fill=red opacity=0.5</text><rect style="stroke:#000;fill:blue;stroke-width:2"/></g>`)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	children := el.ChildElements()
	if len(children) != 1 || children[0].Tag != "rect" {
		t.Fatalf("unexpected children: %s", serialize(t, el))
	}
	want := "stroke:#000;fill:red;stroke-width:2;opacity:0.5"
	if got := children[0].SelectAttrValue("style", ""); got != want {
		t.Errorf("style = %q, want %q", got, want)
	}
}

func TestStyle_Idempotent(t *testing.T) {
	rect := parseElement(t, `<rect style="fill:blue;stroke:none"/>`)
	s := &Style{}
	if _, _, err := s.Replace("#style fill=red", rect); err != nil {
		t.Fatal(err)
	}
	once := rect.SelectAttrValue("style", "")
	if _, _, err := s.Replace("#style fill=red", rect); err != nil {
		t.Fatal(err)
	}
	if twice := rect.SelectAttrValue("style", ""); twice != once {
		t.Errorf("style after second application = %q, want %q", twice, once)
	}
	if once != "fill:red;stroke:none" {
		t.Errorf("style = %q", once)
	}
}

func TestStyle_Errors(t *testing.T) {
	rect := parseElement(t, `<rect style="fill:blue;fill:red"/>`)
	if _, _, err := (&Style{}).Replace("#style fill=red", rect); !errors.Is(err, ErrStyle) {
		t.Errorf("duplicate key error = %v, want ErrStyle", err)
	}
	rect = parseElement(t, `<rect/>`)
	if _, _, err := (&Style{}).Replace("#style red", rect); !errors.Is(err, command.ErrSyntax) {
		t.Errorf("positional error = %v, want ErrSyntax", err)
	}
}

func TestStyle_NoExistingStyle(t *testing.T) {
	rect := parseElement(t, `<rect/>`)
	if _, ok, err := (&Style{}).Replace("#style fill=red", rect); err != nil || !ok {
		t.Fatalf("Replace() = %v, %v", ok, err)
	}
	if got := rect.SelectAttrValue("style", ""); got != "fill:red" {
		t.Errorf("style = %q", got)
	}
}

func TestParseStyle(t *testing.T) {
	d, err := ParseStyle("font-family:'DejaVu Sans';stroke-width:1px;")
	if err != nil {
		t.Fatal(err)
	}
	got := d.String()
	if !strings.HasPrefix(got, "font-family:") || !strings.Contains(got, "DejaVu Sans") || !strings.HasSuffix(got, ";stroke-width:1px") {
		t.Errorf("String() = %q", got)
	}
}

func TestStyle_PropertyCase(t *testing.T) {
	rect := parseElement(t, `<rect style="FILL:red;stroke:none"/>`)
	if _, ok, err := (&Style{}).Replace("#style FILL=blue Stroke=black", rect); err != nil || !ok {
		t.Fatalf("Replace() = %v, %v", ok, err)
	}
	if got := rect.SelectAttrValue("style", ""); got != "fill:blue;stroke:black" {
		t.Errorf("style = %q", got)
	}
}
