// Package registration implements the coordinate registration between the
// flattened cortical surfaces of two primate species: projection of
// rectangle-parameterized axis coordinates onto the sphere, resolution of
// corresponding sulcal landmarks into anchor pairs, construction of a
// piecewise-affine warp from those anchors, and application of the warp to
// dense per-vertex coordinate textures.
package registration

import (
	"github.com/oliviercoulon/MeCA-internship/internal/models"
)

// DefaultLatitudeBand is the conventional non-polar latitude band on the
// sphere: below 30 degrees lies the insular pole, above 150 the cingular
// pole.
var DefaultLatitudeBand = [2]float64{30, 150}

// ProjectToSphere converts one species' rectangle axis coordinates into
// sphere coordinates.
//
// Longitudes are rescaled to the full [0,360) circle; a negative rectangle
// longitude wraps around by +360 exactly once. Latitudes are rescaled into
// the non-polar band, except that values at or outside the band belong to
// the polar caps and pass through unchanged: the poles are excluded from the
// parameterization and must not be linearly rescaled.
//
// The function is pure and is applied identically to both species.
func ProjectToSphere(dims models.RectangleDimensions, longitudes, latitudes []float64, band [2]float64) *models.SphereCoordinateSet {
	out := &models.SphereCoordinateSet{
		Longitudes: make([]float64, len(longitudes)),
		Latitudes:  make([]float64, len(latitudes)),
	}

	for i, x := range longitudes {
		lon := x * 360 / dims.LengthLongitude
		if x < 0 {
			lon += 360
		}
		out.Longitudes[i] = lon
	}

	bandMin, bandMax := band[0], band[1]
	bandRange := bandMax - bandMin
	for i, y := range latitudes {
		if y > bandMin && y < bandMax {
			out.Latitudes[i] = y*bandRange/dims.LengthLatitude + bandMin
		} else {
			// Polar cap value, carried through untouched.
			out.Latitudes[i] = y
		}
	}

	return out
}

// ProjectModel projects both axis tables of a species model onto the sphere
// using the model's own latitude band.
func ProjectModel(m *models.Model) *models.SphereCoordinateSet {
	return ProjectToSphere(m.Dimensions,
		m.LongitudeAxes.Coordinates, m.LatitudeAxes.Coordinates, m.LatitudeBand)
}
