package registration

import (
	"fmt"

	"github.com/oliviercoulon/MeCA-internship/internal/models"
)

// The registration core fails hard: a bad anchor or a malformed table aborts
// the whole warp for the current species/side rather than silently skipping
// input, because a partial transform would corrupt the output geometry.
// Every error below carries the axis kind and the offending index so the
// caller can point at the model or correspondence entry to fix.

// DimensionMismatchError reports that the two sides of a correspondence
// direction declare different pair counts.
type DimensionMismatchError struct {
	Axis     models.AxisKind
	Declared int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s correspondence: declared %d pairs, table has %d",
		e.Axis, e.Declared, e.Actual)
}

// IndexOutOfRangeError reports a landmark or axis identifier that does not
// resolve in a species' tables.
type IndexOutOfRangeError struct {
	Axis    models.AxisKind
	Species int // 1 or 2
	Index   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("%s correspondence: landmark %d does not resolve for species %d",
		e.Axis, e.Index, e.Species)
}

// DegenerateIntervalError reports two consecutive anchors sharing the same
// source coordinate, which would make the affine slope undefined.
type DegenerateIntervalError struct {
	Axis       models.AxisKind
	Index      int
	Coordinate float64
}

func (e *DegenerateIntervalError) Error() string {
	return fmt.Sprintf("%s anchors %d and %d share source coordinate %g: zero-width interval",
		e.Axis, e.Index, e.Index+1, e.Coordinate)
}

// NonMonotonicAnchorsError reports anchor source coordinates that are not
// strictly increasing after resolution and sorting.
type NonMonotonicAnchorsError struct {
	Axis  models.AxisKind
	Index int
}

func (e *NonMonotonicAnchorsError) Error() string {
	return fmt.Sprintf("%s anchor %d is not strictly greater than its predecessor",
		e.Axis, e.Index)
}

// SegmentCountMismatchError reports a transform whose segment count does not
// equal the boundary count plus one.
type SegmentCountMismatchError struct {
	Segments   int
	Boundaries int
}

func (e *SegmentCountMismatchError) Error() string {
	return fmt.Sprintf("transform has %d segments for %d boundaries, want %d",
		e.Segments, e.Boundaries, e.Boundaries+1)
}
