// Package imgedit provides the image operations the scan pipeline needs:
// decoding uploads, cropping detected regions and drawing bounding boxes on
// a display copy.
package imgedit

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"plate_backend/internal/feature/platescan/domain/entity"
)

const boxThickness = 2

// boxColor is the bounding box color (same green the detector overlay used
// before the rewrite).
var boxColor = color.NRGBA{R: 0, G: 255, B: 0, A: 255}

// Editor implements the platescan usecase's ImageEditor interface on top of
// the imaging package.
type Editor struct{}

// NewEditor creates a new Editor.
func NewEditor() *Editor {
	return &Editor{}
}

// DrawRegions decodes img, draws a bounding box for every region on a copy
// and re-encodes it in the source format. Regions are clamped to the image
// bounds; regions left empty after clamping are skipped.
func (e *Editor) DrawRegions(img []byte, regions []entity.Region) ([]byte, error) {
	src, format, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	canvas := imaging.Clone(src)
	for _, r := range regions {
		rect, ok := clamp(r, canvas.Bounds())
		if !ok {
			continue
		}
		drawRect(canvas, rect)
	}

	f, err := imaging.FormatFromExtension(format)
	if err != nil {
		// Decodable but not encodable (e.g. tiff without the extension
		// mapping); fall back to PNG.
		f = imaging.PNG
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, f); err != nil {
		return nil, fmt.Errorf("encoding annotated image: %w", err)
	}
	return buf.Bytes(), nil
}

// Crop decodes img and returns the given region as a PNG. The region is
// clamped to the image bounds first.
func (e *Editor) Crop(img []byte, r entity.Region) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	rect, ok := clamp(r, src.Bounds())
	if !ok {
		return nil, fmt.Errorf("region %+v is empty within image bounds %v", r, src.Bounds())
	}

	cropped := imaging.Crop(src, rect)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, cropped, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encoding cropped region: %w", err)
	}
	return buf.Bytes(), nil
}

// clamp intersects the region with bounds and reports whether anything is
// left to work with.
func clamp(r entity.Region, bounds image.Rectangle) (image.Rectangle, bool) {
	rect := image.Rect(r.X1, r.Y1, r.X2, r.Y2).Intersect(bounds)
	return rect, !rect.Empty()
}

// drawRect draws the rectangle border onto the canvas, boxThickness pixels
// wide, growing inward.
func drawRect(canvas *image.NRGBA, rect image.Rectangle) {
	for t := 0; t < boxThickness; t++ {
		inner := rect.Inset(t)
		if inner.Empty() {
			return
		}
		for x := inner.Min.X; x < inner.Max.X; x++ {
			canvas.SetNRGBA(x, inner.Min.Y, boxColor)
			canvas.SetNRGBA(x, inner.Max.Y-1, boxColor)
		}
		for y := inner.Min.Y; y < inner.Max.Y; y++ {
			canvas.SetNRGBA(inner.Min.X, y, boxColor)
			canvas.SetNRGBA(inner.Max.X-1, y, boxColor)
		}
	}
}
