package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// used when page has no viewBox
const defaultPreviewSize = 1024

// maxPreviewDim keeps rasterization memory bounded for huge pages.
var maxPreviewDim = 8192

// Rasterize renders svg data to an image of requested width keeping aspect
// ratio, width <= 0 keeps page size. Unsupported elements (text among them)
// are skipped, so preview is only a layout check.
func Rasterize(svgData []byte, width int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, err
	}

	intrW := int(math.Ceil(icon.ViewBox.W))
	intrH := int(math.Ceil(icon.ViewBox.H))
	if intrW <= 0 {
		intrW = defaultPreviewSize
	}
	if intrH <= 0 {
		intrH = defaultPreviewSize
	}

	w, h := intrW, intrH
	if width > 0 {
		w = width
		h = int(math.Round(float64(w) * float64(intrH) / float64(intrW)))
	}
	w, h = max(w, 1), max(h, 1)
	if w > maxPreviewDim || h > maxPreviewDim {
		s := min(float64(maxPreviewDim)/float64(w), float64(maxPreviewDim)/float64(h))
		w = max(int(math.Round(float64(w)*s)), 1)
		h = max(int(math.Round(float64(h)*s)), 1)
	}

	icon.SetTarget(0, 0, float64(w), float64(h))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return dst, nil
}

// EncodePreview rasterizes svg data into PNG.
func EncodePreview(svgData []byte, width int) ([]byte, error) {
	img, err := Rasterize(svgData, width)
	if err != nil {
		return nil, fmt.Errorf("unable to rasterize preview: %w", err)
	}
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return nil, fmt.Errorf("unable to encode preview: %w", err)
	}
	return buf.Bytes(), nil
}
