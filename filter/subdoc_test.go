package filter

import (
	"errors"
	"testing"

	"lbm/command"
)

const logoSVG = `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="20" height="10" viewBox="0 0 20 10"><circle r="2"/><path d="M0 0"/></svg>`

func TestSubDocument(t *testing.T) {
	loader := memLoader{"logo.svg": logoSVG, "dir/mark.svg": `<svg width="4mm" height="4mm" viewBox="0 0 14.173228 14.173228"><rect/></svg>`}
	el, err := applyArea(t, &SubDocument{Loader: loader}, `<g><rect x="100" y="50" width="40" height="20"/><text>#svg logo.svg dir/mark.svg</text></g>`)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	groups := el.ChildElements()
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	// rect center is (120, 60), logo is 20x10
	if got := groups[0].SelectAttrValue("transform", ""); got != "translate(110,55)" {
		t.Errorf("transform = %q, want translate(110,55)", got)
	}
	if n := len(groups[0].ChildElements()); n != 2 {
		t.Errorf("logo group has %d children, want 2", n)
	}
	if groups[0].SelectAttrValue("xmlns:xlink", "") == "" {
		t.Error("prefixed namespace declaration was not carried over")
	}
	if groups[1].FindElement("rect") == nil {
		t.Error("second include content missing")
	}
}

func TestSubDocument_ViewBox(t *testing.T) {
	tests := map[string]string{
		"origin":  `<svg width="20" height="10" viewBox="1 0 20 10"/>`,
		"extents": `<svg width="20" height="10" viewBox="0 0 40 20"/>`,
		"missing": `<svg width="20" height="10"/>`,
		"size":    `<svg viewBox="0 0 20 10"/>`,
	}
	for name, src := range tests {
		loader := memLoader{"bad.svg": src}
		_, err := applyArea(t, &SubDocument{Loader: loader}, `<g><rect x="0" y="0" width="40" height="20"/><text>#svg bad.svg</text></g>`)
		if !errors.Is(err, ErrViewBox) {
			t.Errorf("%s: error = %v, want ErrViewBox", name, err)
		}
	}
}

func TestSubDocument_Errors(t *testing.T) {
	_, err := applyArea(t, &SubDocument{Loader: memLoader{}}, `<g><rect x="0" y="0" width="40" height="20"/><text>#svg absent.svg</text></g>`)
	if err == nil {
		t.Error("expected error for missing document")
	}
	_, err = applyArea(t, &SubDocument{Loader: memLoader{}}, `<g><rect x="0" y="0" width="40" height="20"/><text>#svg a.svg scale=2</text></g>`)
	if !errors.Is(err, command.ErrSyntax) {
		t.Errorf("error = %v, want ErrSyntax", err)
	}
}
