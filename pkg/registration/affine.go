package registration

import (
	"github.com/oliviercoulon/MeCA-internship/internal/models"
)

// AffineSegment maps y = Scale*x + Offset on one interval between two
// consecutive anchor coordinates, or on the unbounded tail past the last
// anchor.
type AffineSegment struct {
	Scale  float64
	Offset float64
}

// Apply evaluates the segment at x.
func (s AffineSegment) Apply(x float64) float64 {
	return x*s.Scale + s.Offset
}

// PiecewiseAffineTransform is an ordered sequence of N+1 affine segments
// covering N anchors: segment 0 from the origin to the first anchor, one
// segment per gap between consecutive anchors, and a tail segment past the
// last anchor reusing the last computed coefficients. Together with the
// ascending anchor source coordinates as boundaries it is total over the
// reals.
type PiecewiseAffineTransform struct {
	Axis     models.AxisKind
	Segments []AffineSegment
}

// originSegment is the segment used below the first anchor: a pure scaling
// with zero offset. A line through the implicit origin anchor (0,0) and the
// first anchor point has exactly these coefficients, so the segment passes
// through the first anchor and both candidate first-segment policies reduce
// to the same formula.
func originSegment(first AnchorPair) AffineSegment {
	return AffineSegment{Scale: first.Coord2 / first.Coord1, Offset: 0}
}

// BuildTransform derives the piecewise-affine transform from an ordered
// anchor pair sequence (ascending in Coord1, as ResolveAnchors returns).
//
// Interior segments are the unique line through their two bounding anchor
// points, so the transform is continuous at every interior anchor and exact
// at each anchor. Two anchors sharing the same source coordinate make the
// slope undefined and fail with DegenerateIntervalError.
func BuildTransform(kind models.AxisKind, anchors []AnchorPair) (*PiecewiseAffineTransform, error) {
	if len(anchors) == 0 {
		return nil, &NonMonotonicAnchorsError{Axis: kind, Index: 0}
	}

	segments := make([]AffineSegment, 0, len(anchors)+1)
	segments = append(segments, originSegment(anchors[0]))

	last := segments[0]
	for k := 0; k+1 < len(anchors); k++ {
		dx := anchors[k+1].Coord1 - anchors[k].Coord1
		if dx == 0 {
			return nil, &DegenerateIntervalError{Axis: kind, Index: k, Coordinate: anchors[k].Coord1}
		}
		if dx < 0 {
			return nil, &NonMonotonicAnchorsError{Axis: kind, Index: k + 1}
		}
		scale := (anchors[k+1].Coord2 - anchors[k].Coord2) / dx
		last = AffineSegment{
			Scale:  scale,
			Offset: anchors[k].Coord2 - anchors[k].Coord1*scale,
		}
		segments = append(segments, last)
	}

	// Tail past the last anchor extrapolates with the last coefficients.
	segments = append(segments, last)

	return &PiecewiseAffineTransform{Axis: kind, Segments: segments}, nil
}
