package registration

import (
	"sort"

	"github.com/oliviercoulon/MeCA-internship/internal/models"
)

// AnchorPair is the resolved sphere coordinate of one corresponding landmark
// on both species, for one axis kind. An ordered sequence of AnchorPairs
// (ascending in Coord1) defines the interval boundaries of the warp.
type AnchorPair struct {
	// Coord1 is the landmark's sphere coordinate on species 1.
	Coord1 float64

	// Coord2 is the landmark's sphere coordinate on species 2.
	Coord2 float64
}

// ResolveAnchors turns the correspondence pairs of one axis kind into sphere
// coordinate anchor pairs.
//
// Each pair (i,j) is resolved landmark-first: landmark i of species 1 to its
// representative axis identifier, that identifier to its position in the
// species-1 axis ordering, and that position to the species-1 sphere
// coordinate; then the same for landmark j on species 2. The returned
// sequence is sorted by ascending species-1 coordinate; the correspondence
// table order is not trusted.
func ResolveAnchors(kind models.AxisKind, corr *models.CorrespondenceTable,
	model1, model2 *models.Model, sphere1, sphere2 *models.SphereCoordinateSet) ([]AnchorPair, error) {

	pairs := corr.ByKind(kind)
	if len(pairs.Species1) != len(pairs.Species2) {
		return nil, &DimensionMismatchError{Axis: kind,
			Declared: len(pairs.Species1), Actual: len(pairs.Species2)}
	}

	table1 := model1.Axes(kind)
	table2 := model2.Axes(kind)
	coords1 := sphere1.Coordinates(kind)
	coords2 := sphere2.Coordinates(kind)

	anchors := make([]AnchorPair, 0, len(pairs.Species1))
	for k := range pairs.Species1 {
		i, j := pairs.Species1[k], pairs.Species2[k]
		pos1, ok := table1.RepresentativeAxis(i)
		if !ok || pos1 >= len(coords1) {
			return nil, &IndexOutOfRangeError{Axis: kind, Species: 1, Index: i}
		}
		pos2, ok := table2.RepresentativeAxis(j)
		if !ok || pos2 >= len(coords2) {
			return nil, &IndexOutOfRangeError{Axis: kind, Species: 2, Index: j}
		}
		anchors = append(anchors, AnchorPair{Coord1: coords1[pos1], Coord2: coords2[pos2]})
	}

	sort.Slice(anchors, func(a, b int) bool { return anchors[a].Coord1 < anchors[b].Coord1 })

	// Strict monotonicity after the sort; equal source coordinates would
	// produce a zero-width interval downstream.
	for i := 1; i < len(anchors); i++ {
		if anchors[i].Coord1 <= anchors[i-1].Coord1 {
			return nil, &NonMonotonicAnchorsError{Axis: kind, Index: i}
		}
	}

	return anchors, nil
}

// Swap returns the anchors with both species' roles exchanged and re-sorted,
// so a transform can be built in the opposite direction.
func Swap(anchors []AnchorPair) []AnchorPair {
	out := make([]AnchorPair, len(anchors))
	for i, a := range anchors {
		out[i] = AnchorPair{Coord1: a.Coord2, Coord2: a.Coord1}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Coord1 < out[b].Coord1 })
	return out
}

// SourceBoundaries extracts the species-1-side coordinates of the anchors,
// the interval boundaries a rescale over species-1-frame values uses.
func SourceBoundaries(anchors []AnchorPair) []float64 {
	bounds := make([]float64, len(anchors))
	for i, a := range anchors {
		bounds[i] = a.Coord1
	}
	return bounds
}
