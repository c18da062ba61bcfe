package filter

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/speedata/barcode"
	"github.com/speedata/barcode/code128"

	"lbm/command"
	"lbm/svgtree"
)

// BarcodeCommand is the name of the Code 128 area command.
const BarcodeCommand = "code128"

// quiet zone is 10 modules on each side
const quietModules = 10

// Barcode replaces an area with a vector Code 128 barcode:
//
//	#code128 [value] [align=xMin|xMid|xMax] [fill=#000000] [quiet=true] [thickness=3]
//
// Empty value produces no bars, which allows optional barcodes.
type Barcode struct{}

func (f *Barcode) Replace(text string, rect *etree.Element) ([]*etree.Element, bool, error) {
	if !command.Is(text, BarcodeCommand) {
		return nil, false, nil
	}
	cmd, err := command.Parse(text)
	if err != nil {
		return nil, true, err
	}

	align := cmd.KeywordDefault("align", "alignment", "xMid")
	fill := cmd.KeywordDefault("fill", "fill color", "#000000")
	quiet, err := parseBool(cmd, cmd.KeywordDefault("quiet", "add quiet zone", "true"), "quiet")
	if err != nil {
		return nil, true, err
	}
	thickness, err := svgtree.ParseLength(cmd.KeywordDefault("thickness", "barcode thickness", "3"))
	if err != nil {
		return nil, true, &command.SyntaxError{Command: text, Msg: err.Error()}
	}

	if cmd.NumPositional() == 0 {
		return []*etree.Element{}, true, cmd.Finalize()
	}
	value, err := cmd.Positional(0, "barcode value")
	if err != nil {
		return nil, true, err
	}
	if err := cmd.Finalize(); err != nil {
		return nil, true, err
	}

	x, err := svgtree.LengthAttr(rect, "x")
	if err != nil {
		return nil, true, fmt.Errorf("barcode area: %w", err)
	}
	width, err := svgtree.LengthAttr(rect, "width")
	if err != nil {
		return nil, true, fmt.Errorf("barcode area: %w", err)
	}

	widths, err := Code128Widths(value)
	if err != nil {
		return nil, true, err
	}
	total := 0.0
	for i := range widths {
		widths[i] *= thickness
		total += widths[i]
	}
	if quiet {
		total += 2 * quietModules * thickness
	}
	if total > width {
		return nil, true, &WidthError{Value: value, Width: total, Allowed: width}
	}

	var curX float64
	switch align {
	case "xMin":
		curX = x
	case "xMid":
		curX = x + (width-total)/2
	case "xMax":
		curX = x + width - total
	default:
		return nil, true, &command.SyntaxError{Command: text, Msg: fmt.Sprintf("align='%s' is not one of xMin, xMid, xMax", align)}
	}
	if quiet {
		curX += quietModules * thickness
	}

	style := "stroke:none;fill:" + fill + ";fill-opacity:1"
	out := make([]*etree.Element, 0, len(widths)/2+1)
	for i, w := range widths {
		if i%2 == 0 {
			bar := etree.NewElement("rect")
			bar.Space = rect.Space
			bar.CreateAttr("x", svgtree.FormatNumber(curX))
			if y := rect.SelectAttr("y"); y != nil {
				bar.CreateAttr("y", y.Value)
			}
			bar.CreateAttr("width", svgtree.FormatNumber(w))
			if h := rect.SelectAttr("height"); h != nil {
				bar.CreateAttr("height", h.Value)
			}
			bar.CreateAttr("style", style)
			out = append(out, bar)
		}
		curX += w
	}
	return out, true, nil
}

func parseBool(cmd *command.Command, v, name string) (bool, error) {
	switch {
	case strings.EqualFold(v, "true"):
		return true, nil
	case strings.EqualFold(v, "false"):
		return false, nil
	}
	return false, &command.SyntaxError{Command: cmd.String(), Msg: fmt.Sprintf("%s='%s' is not a bool", name, v)}
}

// Code128Widths encodes value and returns alternating bar and space widths in
// modules. Sequence always starts and ends with a bar, so its length is odd.
func Code128Widths(value string) ([]float64, error) {
	bc, err := code128.Encode(value)
	if err != nil {
		return nil, fmt.Errorf("unable to encode '%s' as code128: %w", value, err)
	}
	return runLengths(bc), nil
}

func runLengths(bc barcode.Barcode) []float64 {
	b := bc.Bounds()

	var (
		widths []float64
		run    float64
		inBar  = true
	)
	for x := b.Min.X; x < b.Max.X; x++ {
		r, _, _, _ := bc.At(x, b.Min.Y).RGBA()
		bar := r == 0
		if len(widths) == 0 && run == 0 && !bar {
			// leading quiet zone, if any
			continue
		}
		if bar != inBar {
			widths = append(widths, run)
			run, inBar = 0, bar
		}
		run++
	}
	if inBar && run > 0 {
		widths = append(widths, run)
	}
	return widths
}
