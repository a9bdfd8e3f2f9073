// Package visualization renders quality-control plots of the registration
// warp: the piecewise-affine curve with its anchor points, one image per
// axis kind, so a run can be eyeballed against the anatomy before the
// transformed textures are used.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/oliviercoulon/MeCA-internship/pkg/registration"
)

// Plotter renders warp curves into fixed-size PNG images.
type Plotter struct {
	width  int
	height int
	margin int
}

// NewPlotter creates a plotter with the given image dimensions.
func NewPlotter(width, height int) *Plotter {
	if width < 64 {
		width = 64
	}
	if height < 64 {
		height = 64
	}
	return &Plotter{width: width, height: height, margin: 24}
}

var (
	plotBackground = color.NRGBA{255, 255, 255, 255}
	plotFrame      = color.NRGBA{128, 128, 128, 255}
	plotCurve      = color.NRGBA{0, 64, 192, 255}
	plotAnchor     = color.NRGBA{192, 32, 32, 255}
)

// PlotTransform renders the transform curve over [0, 1.25*lastBoundary]
// with the anchors marked. Boundaries are the transform's interval
// boundaries in the source frame, anchors the pairs the transform was built
// from.
func (p *Plotter) PlotTransform(transform *registration.PiecewiseAffineTransform,
	boundaries []float64, anchors []registration.AnchorPair) (*image.NRGBA, error) {

	if len(transform.Segments) != len(boundaries)+1 {
		return nil, fmt.Errorf("transform has %d segments for %d boundaries",
			len(transform.Segments), len(boundaries))
	}
	if len(boundaries) == 0 {
		return nil, fmt.Errorf("nothing to plot: no boundaries")
	}

	// Sample the curve past the last anchor so the tail extrapolation is
	// visible.
	xMax := boundaries[len(boundaries)-1] * 1.25
	if xMax <= 0 {
		return nil, fmt.Errorf("nothing to plot: non-positive coordinate range")
	}
	yMax := 0.0
	samples := p.width - 2*p.margin
	curve := make([]float64, samples)
	for i := range curve {
		x := xMax * float64(i) / float64(samples-1)
		y := applyAt(transform, boundaries, x)
		curve[i] = y
		if y > yMax {
			yMax = y
		}
	}
	for _, a := range anchors {
		if a.Coord2 > yMax {
			yMax = a.Coord2
		}
	}
	if yMax <= 0 {
		yMax = 1
	}

	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	p.fill(img, plotBackground)
	p.frame(img)

	// Curve.
	for i, y := range curve {
		px := p.margin + i
		py := p.toPixelY(y, yMax)
		if py >= 0 {
			img.SetNRGBA(px, py, plotCurve)
		}
	}

	// Anchor markers as small crosses.
	for _, a := range anchors {
		px := p.margin + int(float64(samples-1)*a.Coord1/xMax)
		py := p.toPixelY(a.Coord2, yMax)
		for d := -2; d <= 2; d++ {
			p.set(img, px+d, py, plotAnchor)
			p.set(img, px, py+d, plotAnchor)
		}
	}

	return img, nil
}

// SaveTransformPlot renders the transform and writes it as a PNG file.
func (p *Plotter) SaveTransformPlot(path string, transform *registration.PiecewiseAffineTransform,
	boundaries []float64, anchors []registration.AnchorPair) error {

	img, err := p.PlotTransform(transform, boundaries, anchors)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating plot directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating plot file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding plot: %w", err)
	}
	return nil
}

// applyAt evaluates the transform at x with the same half-open interval
// selection the rescaler uses.
func applyAt(t *registration.PiecewiseAffineTransform, boundaries []float64, x float64) float64 {
	i := 0
	for i < len(boundaries) && boundaries[i] <= x {
		i++
	}
	return t.Segments[i].Apply(x)
}

func (p *Plotter) toPixelY(y, yMax float64) int {
	usable := p.height - 2*p.margin
	py := p.height - p.margin - int(float64(usable)*y/yMax)
	if py < 0 || py >= p.height {
		return -1
	}
	return py
}

func (p *Plotter) set(img *image.NRGBA, x, y int, c color.NRGBA) {
	if x >= 0 && x < p.width && y >= 0 && y < p.height {
		img.SetNRGBA(x, y, c)
	}
}

func (p *Plotter) fill(img *image.NRGBA, c color.NRGBA) {
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

func (p *Plotter) frame(img *image.NRGBA) {
	for x := p.margin; x <= p.width-p.margin; x++ {
		img.SetNRGBA(x, p.height-p.margin, plotFrame)
	}
	for y := p.margin; y <= p.height-p.margin; y++ {
		img.SetNRGBA(p.margin, y, plotFrame)
	}
}
