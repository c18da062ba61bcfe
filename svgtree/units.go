package svgtree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Conversion factors to user units (px) as defined by SVG 1.1,
// http://www.w3.org/TR/SVG/coords.html#Units
var unitsToPixels = map[string]float64{
	"px": 1,
	"pt": 1.25,
	"pc": 15,
	"mm": 3.543307,
	"cm": 35.43307,
	"in": 90,
}

// ParseLength converts length with optional unit suffix to user units.
func ParseLength(s string) (float64, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return 0, fmt.Errorf("cannot parse empty length")
	}
	end := len(v)
	for end > 0 {
		c := v[end-1]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			end--
			continue
		}
		break
	}
	num, unit := strings.TrimSpace(v[:end]), strings.ToLower(v[end:])

	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse length '%s': %w", s, err)
	}
	if unit == "" {
		return f, nil
	}
	factor, ok := unitsToPixels[unit]
	if !ok {
		return 0, fmt.Errorf("cannot parse length '%s': unknown unit '%s'", s, unit)
	}
	return f * factor, nil
}

// LengthAttr parses length stored in the element attribute.
func LengthAttr(el *etree.Element, name string) (float64, error) {
	v := el.SelectAttrValue(name, "")
	if v == "" {
		return 0, fmt.Errorf("attribute '%s' is missing", name)
	}
	f, err := ParseLength(v)
	if err != nil {
		return 0, fmt.Errorf("attribute '%s': %w", name, err)
	}
	return f, nil
}

// FormatNumber returns the shortest representation of f suitable for
// attribute values.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Translate formats SVG translate transform.
func Translate(x, y float64) string {
	return "translate(" + FormatNumber(x) + "," + FormatNumber(y) + ")"
}
