package registration

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// AxisMetrics holds the registration quality diagnostics for one axis kind.
// The metrics never influence the warp itself; they exist so a run can be
// sanity-checked against the anatomy.
type AxisMetrics struct {
	// AnchorCount is the number of resolved anchor pairs.
	AnchorCount int

	// AnchorRMSE is the root mean square residual of the transform
	// evaluated at each source anchor against its target anchor. Interior
	// segments pass through their anchors exactly, so values far from
	// zero point at a degenerate anchor configuration.
	AnchorRMSE float64

	// MaxResidual is the largest absolute anchor residual.
	MaxResidual float64

	// GlobalScale and GlobalOffset are the least-squares single affine
	// fit over all anchors, a measure of how far the warp is from a
	// plain linear rescaling between the two species.
	GlobalScale  float64
	GlobalOffset float64

	// FitResidual is the residual norm of that global fit; zero means the
	// piecewise warp collapses to a single affine map.
	FitResidual float64
}

// TextureStats summarizes one output texture.
type TextureStats struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// RegistrationMetrics aggregates the per-axis anchor diagnostics and the
// output texture summaries of one registration run.
type RegistrationMetrics struct {
	Longitude AxisMetrics
	Latitude  AxisMetrics

	LongitudeTexture TextureStats
	LatitudeTexture  TextureStats
}

// computeAxisMetrics evaluates the transform at every anchor and fits the
// global affine approximation.
func computeAxisMetrics(anchors []AnchorPair, transform *PiecewiseAffineTransform, boundaries []float64) AxisMetrics {
	m := AxisMetrics{AnchorCount: len(anchors)}
	if len(anchors) == 0 {
		return m
	}

	// Residuals of the piecewise transform at the anchors themselves.
	squares := make([]float64, len(anchors))
	for i, a := range anchors {
		got := transform.Segments[segmentIndex(a.Coord1, boundaries)].Apply(a.Coord1)
		r := got - a.Coord2
		squares[i] = r * r
		if abs := math.Abs(r); abs > m.MaxResidual {
			m.MaxResidual = abs
		}
	}
	m.AnchorRMSE = math.Sqrt(stat.Mean(squares, nil))

	// Least-squares fit of a single y = a*x + b over the anchors.
	if len(anchors) == 1 {
		m.GlobalScale = anchors[0].Coord2 / anchors[0].Coord1
		return m
	}
	design := mat.NewDense(len(anchors), 2, nil)
	target := mat.NewVecDense(len(anchors), nil)
	for i, a := range anchors {
		design.Set(i, 0, a.Coord1)
		design.Set(i, 1, 1)
		target.SetVec(i, a.Coord2)
	}
	var qr mat.QR
	qr.Factorize(design)
	var coef mat.VecDense
	if err := qr.SolveVecTo(&coef, false, target); err != nil {
		// Collinear design (all anchors at the same coordinate) cannot
		// happen after the monotonicity check; leave the fit zeroed.
		return m
	}
	m.GlobalScale = coef.AtVec(0)
	m.GlobalOffset = coef.AtVec(1)

	var fitted mat.VecDense
	fitted.MulVec(design, &coef)
	var resid mat.VecDense
	resid.SubVec(target, &fitted)
	m.FitResidual = mat.Norm(&resid, 2)

	return m
}

// summarizeTexture computes the summary statistics of one dense texture.
func summarizeTexture(values []float64) TextureStats {
	if len(values) == 0 {
		return TextureStats{}
	}
	mean, std := stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		std = 0
	}
	return TextureStats{
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(values),
		Max:    floats.Max(values),
	}
}
