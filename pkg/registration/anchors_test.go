package registration

import (
	"errors"
	"testing"

	"github.com/oliviercoulon/MeCA-internship/internal/models"
)

// testSpeciesPair builds the two-species fixture used across the anchor and
// pipeline tests.
//
// Species 1 spans the full circle (rectangle longitudes equal sphere
// longitudes); species 2's rectangle is half as long in both axes, so its
// sphere coordinates double. Longitude landmarks are "S.C." and "S.F.sup.",
// the latitude landmark "F.C.M.".
func testSpeciesPair() (*models.Model, *models.Model) {
	model1 := &models.Model{
		Species:      "Human",
		Side:         models.LeftHemisphere,
		Dimensions:   models.RectangleDimensions{LengthLongitude: 360, LengthLatitude: 120},
		LatitudeBand: [2]float64{30, 150},
		LongitudeAxes: &models.AxisTable{
			Kind:        models.Longitude,
			IDs:         []string{"lonA", "lonB", "lonC"},
			Coordinates: []float64{30, 90, 200},
			Positions:   map[string]int{"lonA": 0, "lonB": 1, "lonC": 2},
			Landmarks: []models.Landmark{
				{Name: "S.C.", AxisIDs: []string{"lonA"}},
				{Name: "S.F.sup.", AxisIDs: []string{"lonB", "lonC"}},
			},
		},
		LatitudeAxes: &models.AxisTable{
			Kind:        models.Latitude,
			IDs:         []string{"latA"},
			Coordinates: []float64{60},
			Positions:   map[string]int{"latA": 0},
			Landmarks: []models.Landmark{
				{Name: "F.C.M.", AxisIDs: []string{"latA"}},
			},
		},
	}

	model2 := &models.Model{
		Species:      "Chimp",
		Side:         models.LeftHemisphere,
		Dimensions:   models.RectangleDimensions{LengthLongitude: 180, LengthLatitude: 60},
		LatitudeBand: [2]float64{30, 150},
		LongitudeAxes: &models.AxisTable{
			Kind:        models.Longitude,
			IDs:         []string{"lonA", "lonB"},
			Coordinates: []float64{20, 60},
			Positions:   map[string]int{"lonA": 0, "lonB": 1},
			Landmarks: []models.Landmark{
				{Name: "S.C.", AxisIDs: []string{"lonA"}},
				{Name: "S.F.sup.", AxisIDs: []string{"lonB"}},
			},
		},
		LatitudeAxes: &models.AxisTable{
			Kind:        models.Latitude,
			IDs:         []string{"latA"},
			Coordinates: []float64{15},
			Positions:   map[string]int{"latA": 0},
			Landmarks: []models.Landmark{
				{Name: "F.C.M.", AxisIDs: []string{"latA"}},
			},
		},
	}

	return model1, model2
}

func testCorrespondence() *models.CorrespondenceTable {
	return &models.CorrespondenceTable{
		// Deliberately listed high landmark first: the resolver must
		// sort by species-1 coordinate, not trust table order.
		Longitude: models.Correspondence{Species1: []int{1, 0}, Species2: []int{1, 0}},
		Latitude:  models.Correspondence{Species1: []int{0}, Species2: []int{0}},
	}
}

// TestResolveAnchors verifies landmark resolution through the axis tables
// and the explicit sort by species-1 coordinate.
func TestResolveAnchors(t *testing.T) {
	model1, model2 := testSpeciesPair()
	sphere1 := ProjectModel(model1)
	sphere2 := ProjectModel(model2)

	anchors, err := ResolveAnchors(models.Longitude, testCorrespondence(),
		model1, model2, sphere1, sphere2)
	if err != nil {
		t.Fatalf("ResolveAnchors failed: %v", err)
	}

	expected := []AnchorPair{
		{Coord1: 30, Coord2: 40},
		{Coord1: 90, Coord2: 120},
	}
	if len(anchors) != len(expected) {
		t.Fatalf("Expected %d anchors, got %d", len(expected), len(anchors))
	}
	for i, want := range expected {
		if anchors[i] != want {
			t.Errorf("Anchor %d: expected %+v, got %+v", i, want, anchors[i])
		}
	}

	latAnchors, err := ResolveAnchors(models.Latitude, testCorrespondence(),
		model1, model2, sphere1, sphere2)
	if err != nil {
		t.Fatalf("ResolveAnchors(latitude) failed: %v", err)
	}
	if len(latAnchors) != 1 || latAnchors[0] != (AnchorPair{Coord1: 90, Coord2: 60}) {
		t.Errorf("Latitude anchors: expected [{90 60}], got %+v", latAnchors)
	}
}

// TestResolveAnchorsDimensionMismatch verifies unequal index sequences for
// one axis kind fail with the dedicated error and axis context.
func TestResolveAnchorsDimensionMismatch(t *testing.T) {
	model1, model2 := testSpeciesPair()
	sphere1 := ProjectModel(model1)
	sphere2 := ProjectModel(model2)

	corr := testCorrespondence()
	corr.Longitude.Species2 = corr.Longitude.Species2[:1]

	_, err := ResolveAnchors(models.Longitude, corr, model1, model2, sphere1, sphere2)
	if err == nil {
		t.Fatal("Expected DimensionMismatchError, got nil")
	}
	var mismatch *DimensionMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("Expected DimensionMismatchError, got %T: %v", err, err)
	}
	if mismatch.Axis != models.Longitude || mismatch.Declared != 2 || mismatch.Actual != 1 {
		t.Errorf("Error context: %+v", mismatch)
	}
}

// TestResolveAnchorsIndexOutOfRange verifies unresolvable landmark indices
// fail with species and index context.
func TestResolveAnchorsIndexOutOfRange(t *testing.T) {
	model1, model2 := testSpeciesPair()
	sphere1 := ProjectModel(model1)
	sphere2 := ProjectModel(model2)

	testCases := []struct {
		name    string
		mutate  func(*models.CorrespondenceTable)
		species int
		index   int
	}{
		{
			name:    "species 1 landmark out of range",
			mutate:  func(c *models.CorrespondenceTable) { c.Longitude.Species1[0] = 5 },
			species: 1,
			index:   5,
		},
		{
			name:    "species 2 landmark out of range",
			mutate:  func(c *models.CorrespondenceTable) { c.Longitude.Species2[1] = 9 },
			species: 2,
			index:   9,
		},
	}

	for _, tc := range testCases {
		corr := testCorrespondence()
		tc.mutate(corr)

		_, err := ResolveAnchors(models.Longitude, corr, model1, model2, sphere1, sphere2)
		if err == nil {
			t.Fatalf("%s: expected IndexOutOfRangeError, got nil", tc.name)
		}
		var oor *IndexOutOfRangeError
		if !errors.As(err, &oor) {
			t.Fatalf("%s: expected IndexOutOfRangeError, got %T: %v", tc.name, err, err)
		}
		if oor.Species != tc.species || oor.Index != tc.index {
			t.Errorf("%s: expected species %d index %d, got %+v", tc.name, tc.species, tc.index, oor)
		}
	}
}

// TestSwapAndBoundaries verifies direction reversal and boundary extraction.
func TestSwapAndBoundaries(t *testing.T) {
	anchors := []AnchorPair{
		{Coord1: 30, Coord2: 120},
		{Coord1: 90, Coord2: 40},
	}

	swapped := Swap(anchors)
	// After the swap the sequence is re-sorted by the new source side.
	expected := []AnchorPair{
		{Coord1: 40, Coord2: 90},
		{Coord1: 120, Coord2: 30},
	}
	for i, want := range expected {
		if swapped[i] != want {
			t.Errorf("Swapped anchor %d: expected %+v, got %+v", i, want, swapped[i])
		}
	}
	if anchors[0].Coord1 != 30 {
		t.Error("Swap mutated its input")
	}

	bounds := SourceBoundaries(swapped)
	if len(bounds) != 2 || bounds[0] != 40 || bounds[1] != 120 {
		t.Errorf("SourceBoundaries: expected [40 120], got %v", bounds)
	}
}
