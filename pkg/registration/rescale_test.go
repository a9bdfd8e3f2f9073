package registration

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/oliviercoulon/MeCA-internship/internal/models"
)

// twoAnchorTransform is the worked scenario used across the rescale tests:
// species-1 anchors (10, 40) mapping to species-2 anchors (30, 90).
func twoAnchorTransform(t *testing.T) (*PiecewiseAffineTransform, []float64) {
	t.Helper()
	anchors := []AnchorPair{
		{Coord1: 10, Coord2: 30},
		{Coord1: 40, Coord2: 90},
	}
	transform, err := BuildTransform(models.Longitude, anchors)
	if err != nil {
		t.Fatalf("BuildTransform failed: %v", err)
	}
	return transform, SourceBoundaries(anchors)
}

// TestRescaleWorkedScenario verifies the two reference values: 25 falls in
// [10,40) and maps through scale 2 offset 10 to 60; 5 falls below the first
// anchor and maps through the zero-offset origin segment to 15.
func TestRescaleWorkedScenario(t *testing.T) {
	transform, boundaries := twoAnchorTransform(t)

	out, err := Rescale([]float64{25, 5}, transform, boundaries)
	if err != nil {
		t.Fatalf("Rescale failed: %v", err)
	}
	if out[0] != 60 {
		t.Errorf("Value 25: expected 60, got %g", out[0])
	}
	if out[1] != 15 {
		t.Errorf("Value 5: expected 15, got %g", out[1])
	}
}

// TestRescaleSegmentSelection exercises the half-open interval convention
// and the leading/tail coverage that make the rescale total over the reals.
func TestRescaleSegmentSelection(t *testing.T) {
	transform, boundaries := twoAnchorTransform(t)

	testCases := []struct {
		value    float64
		expected float64
	}{
		{-4, -12},  // below the first boundary: origin segment
		{0, 0},     // origin maps to origin
		{10, 30},   // exactly on a boundary: segment beginning there
		{40, 90},   // exactly on the last boundary: tail segment
		{100, 210}, // past the last anchor: tail extrapolation
	}

	for _, tc := range testCases {
		out, err := Rescale([]float64{tc.value}, transform, boundaries)
		if err != nil {
			t.Fatalf("Rescale(%g) failed: %v", tc.value, err)
		}
		if math.Abs(out[0]-tc.expected) > 1e-12 {
			t.Errorf("Value %g: expected %g, got %g", tc.value, tc.expected, out[0])
		}
	}
}

// TestRescaleUnsortedInput verifies each value is looked up independently:
// an unsorted texture transforms identically to its sorted counterpart,
// value for value.
func TestRescaleUnsortedInput(t *testing.T) {
	transform, boundaries := twoAnchorTransform(t)

	values := []float64{35, 5, 80, 10, 25, -2, 40}
	out, err := Rescale(values, transform, boundaries)
	if err != nil {
		t.Fatalf("Rescale failed: %v", err)
	}

	if len(out) != len(values) {
		t.Fatalf("Cardinality changed: %d in, %d out", len(values), len(out))
	}
	for i, v := range values {
		single, err := Rescale([]float64{v}, transform, boundaries)
		if err != nil {
			t.Fatalf("Rescale(%g) failed: %v", v, err)
		}
		if out[i] != single[0] {
			t.Errorf("Value %g at position %d: batch %g, single %g", v, i, out[i], single[0])
		}
	}
	if values[0] != 35 {
		t.Error("Input slice was mutated")
	}
}

// TestRescaleSegmentCountMismatch verifies the transform/boundary pairing
// check.
func TestRescaleSegmentCountMismatch(t *testing.T) {
	transform, boundaries := twoAnchorTransform(t)

	_, err := Rescale([]float64{1}, transform, boundaries[:1])
	if err == nil {
		t.Fatal("Expected SegmentCountMismatchError, got nil")
	}
	var mismatch *SegmentCountMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("Expected SegmentCountMismatchError, got %T: %v", err, err)
	}
	if mismatch.Segments != 3 || mismatch.Boundaries != 1 {
		t.Errorf("Error context: got %d segments, %d boundaries", mismatch.Segments, mismatch.Boundaries)
	}
}

// TestRescaleNonMonotonicBoundaries verifies unsorted boundaries are
// rejected up front rather than silently mis-selecting segments.
func TestRescaleNonMonotonicBoundaries(t *testing.T) {
	transform, _ := twoAnchorTransform(t)

	_, err := Rescale([]float64{1}, transform, []float64{40, 10})
	if err == nil {
		t.Fatal("Expected NonMonotonicAnchorsError, got nil")
	}
	var nonMono *NonMonotonicAnchorsError
	if !errors.As(err, &nonMono) {
		t.Fatalf("Expected NonMonotonicAnchorsError, got %T: %v", err, err)
	}
}

// TestRescaleParallelMatchesSequential verifies the chunked parallel rescale
// produces exactly the sequential result, order preserved, across core
// counts that do and do not divide the texture evenly.
func TestRescaleParallelMatchesSequential(t *testing.T) {
	transform, boundaries := twoAnchorTransform(t)

	rng := rand.New(rand.NewSource(42))
	values := make([]float64, 10007)
	for i := range values {
		values[i] = rng.Float64()*120 - 10
	}

	want, err := Rescale(values, transform, boundaries)
	if err != nil {
		t.Fatalf("Rescale failed: %v", err)
	}

	for _, cores := range []int{1, 2, 3, 8} {
		calls := 0
		got, err := RescaleParallel(values, transform, boundaries, cores,
			func(completed, total int, message string) { calls++ })
		if err != nil {
			t.Fatalf("RescaleParallel with %d cores failed: %v", cores, err)
		}
		if len(got) != len(want) {
			t.Fatalf("%d cores: cardinality changed to %d", cores, len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("%d cores: value %d differs: %g vs %g", cores, i, got[i], want[i])
			}
		}
		if calls == 0 {
			t.Errorf("%d cores: progress callback never invoked", cores)
		}
	}
}

// BenchmarkRescale measures the per-vertex rescale on a hemisphere-sized
// texture.
func BenchmarkRescale(b *testing.B) {
	anchors := []AnchorPair{
		{Coord1: 20, Coord2: 35}, {Coord1: 80, Coord2: 110},
		{Coord1: 150, Coord2: 190}, {Coord1: 280, Coord2: 310},
	}
	transform, err := BuildTransform(models.Longitude, anchors)
	if err != nil {
		b.Fatalf("BuildTransform failed: %v", err)
	}
	boundaries := SourceBoundaries(anchors)

	rng := rand.New(rand.NewSource(7))
	values := make([]float64, 100000)
	for i := range values {
		values[i] = rng.Float64() * 360
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Rescale(values, transform, boundaries); err != nil {
			b.Fatalf("Rescale failed: %v", err)
		}
	}
}
