package filter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/beevik/etree"

	"lbm/command"
	"lbm/svgtree"
)

// SubDocumentCommand is the name of the include area command.
const SubDocumentCommand = "svg"

// allowed difference between declared size and viewBox extents
const viewBoxTolerance = 0.1

// Loader provides external documents referenced by templates.
type Loader interface {
	Load(name string) (*etree.Document, error)
}

// SubDocument includes external SVG files centered on the area rectangle
// without scaling. Included files are not templated.
//
//	#svg logo.svg [frame.svg...]
type SubDocument struct {
	Loader Loader
}

func (f *SubDocument) Replace(text string, rect *etree.Element) ([]*etree.Element, bool, error) {
	if !command.Is(text, SubDocumentCommand) {
		return nil, false, nil
	}
	cmd, err := command.Parse(text)
	if err != nil {
		return nil, true, err
	}

	names := make([]string, 0, cmd.NumPositional())
	for i := 0; i < cmd.NumPositional(); i++ {
		name, err := cmd.Positional(i, "SVG file to include")
		if err != nil {
			return nil, true, err
		}
		names = append(names, name)
	}
	if err := cmd.Finalize(); err != nil {
		return nil, true, err
	}
	if len(names) == 0 {
		return []*etree.Element{}, true, nil
	}
	if f.Loader == nil {
		return nil, true, fmt.Errorf("command '%s': no document loader configured", text)
	}

	cx, cy, err := centroid(rect)
	if err != nil {
		return nil, true, fmt.Errorf("include area: %w", err)
	}

	out := make([]*etree.Element, 0, len(names))
	for _, name := range names {
		doc, err := f.Loader.Load(name)
		if err != nil {
			return nil, true, fmt.Errorf("command '%s': %w", text, err)
		}
		w, h, err := checkViewBox(name, doc.Root())
		if err != nil {
			return nil, true, err
		}

		g := etree.NewElement("g")
		g.Space = rect.Space
		for _, a := range doc.Root().Attr {
			// keep prefixed namespace declarations used by included content
			if a.Space == "xmlns" {
				g.CreateAttr(a.FullKey(), a.Value)
			}
		}
		g.CreateAttr("transform", svgtree.Translate(cx-w/2, cy-h/2))
		for _, child := range doc.Root().ChildElements() {
			g.AddChild(child.Copy())
		}
		out = append(out, g)
	}
	return out, true, nil
}

func centroid(rect *etree.Element) (float64, float64, error) {
	var v [4]float64
	for i, name := range []string{"x", "y", "width", "height"} {
		f, err := svgtree.LengthAttr(rect, name)
		if err != nil {
			return 0, 0, err
		}
		v[i] = f
	}
	return v[0] + v[2]/2, v[1] + v[3]/2, nil
}

// checkViewBox makes sure document viewport maps 1:1 to user space starting
// at origin and returns document size.
func checkViewBox(name string, root *etree.Element) (float64, float64, error) {
	w, err := svgtree.LengthAttr(root, "width")
	if err != nil {
		return 0, 0, &ViewBoxError{File: name, Msg: err.Error()}
	}
	h, err := svgtree.LengthAttr(root, "height")
	if err != nil {
		return 0, 0, &ViewBoxError{File: name, Msg: err.Error()}
	}

	raw := root.SelectAttrValue("viewBox", "")
	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || unicode.IsSpace(r) })
	if len(fields) != 4 {
		return 0, 0, &ViewBoxError{File: name, Msg: fmt.Sprintf("viewBox '%s' must have 4 numbers", raw)}
	}
	var vb [4]float64
	for i, s := range fields {
		if vb[i], err = strconv.ParseFloat(s, 64); err != nil {
			return 0, 0, &ViewBoxError{File: name, Msg: fmt.Sprintf("viewBox '%s': %v", raw, err)}
		}
	}
	if vb[0] != 0 || vb[1] != 0 {
		return 0, 0, &ViewBoxError{File: name, Msg: fmt.Sprintf("viewBox origin (%g,%g) is not (0,0)", vb[0], vb[1])}
	}
	if math.Abs(vb[2]-w) >= viewBoxTolerance || math.Abs(vb[3]-h) >= viewBoxTolerance {
		return 0, 0, &ViewBoxError{File: name, Msg: fmt.Sprintf("viewBox extents %gx%g do not match size %gx%g", vb[2], vb[3], w, h)}
	}
	return w, h, nil
}
