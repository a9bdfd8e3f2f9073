package registration

import (
	"fmt"
	"runtime"

	"github.com/oliviercoulon/MeCA-internship/internal/models"
)

// Params holds the inputs of one registration run. The models and the
// correspondence table come from the loaders in pkg/model; the core never
// touches files itself.
type Params struct {
	// Model1 is the target species: output textures are expressed in its
	// coordinate frame.
	Model1 *models.Model

	// Model2 is the source species whose textures get re-expressed.
	Model2 *models.Model

	// Correspondence pairs the landmarks of the two species.
	Correspondence *models.CorrespondenceTable

	// NumCores bounds the parallel fan-out of the texture rescale.
	// Zero or negative means all available cores.
	NumCores int

	// Progress, when non-nil, receives pipeline progress. The core never
	// prints.
	Progress ProgressCallback
}

// Registrator derives the per-axis piecewise-affine warps from two species
// models and applies them to dense coordinate textures.
//
// The registration proceeds in the order of the underlying method:
//  1. Project both species' rectangle axis coordinates onto the sphere.
//  2. Resolve the landmark correspondences into sphere anchor pairs.
//  3. Build one piecewise-affine transform per axis kind, oriented from the
//     species-2 frame into the species-1 frame.
//  4. Rescale the species-2 longitude and latitude textures vertex by
//     vertex.
type Registrator struct {
	params *Params

	// Per-axis transforms and their interval boundaries, in the
	// species-2 frame. Valid after Prepare.
	transforms map[models.AxisKind]*PiecewiseAffineTransform
	boundaries map[models.AxisKind][]float64

	metrics RegistrationMetrics
}

// NewRegistrator creates a registrator for the given run parameters.
func NewRegistrator(params *Params) *Registrator {
	cores := params.NumCores
	if cores < 1 {
		cores = runtime.NumCPU()
	}
	params.NumCores = cores
	return &Registrator{
		params:     params,
		transforms: make(map[models.AxisKind]*PiecewiseAffineTransform),
		boundaries: make(map[models.AxisKind][]float64),
	}
}

// Prepare projects both species onto the sphere, resolves the anchors and
// builds the per-axis transforms. It must run once before any texture is
// transformed; any failure aborts the whole registration.
func (r *Registrator) Prepare() error {
	r.report(0, 3, "projecting rectangle coordinates onto the sphere")
	sphere1 := ProjectModel(r.params.Model1)
	sphere2 := ProjectModel(r.params.Model2)

	r.report(1, 3, "resolving landmark anchors")
	for _, kind := range []models.AxisKind{models.Longitude, models.Latitude} {
		anchors, err := ResolveAnchors(kind, r.params.Correspondence,
			r.params.Model1, r.params.Model2, sphere1, sphere2)
		if err != nil {
			return fmt.Errorf("resolving %s anchors: %w", kind, err)
		}

		// The textures to rescale live in the species-2 frame, so the
		// transform runs species-2 to species-1 and the interval
		// boundaries are the species-2 anchor coordinates.
		inverse := Swap(anchors)
		transform, err := BuildTransform(kind, inverse)
		if err != nil {
			return fmt.Errorf("building %s transform: %w", kind, err)
		}

		bounds := SourceBoundaries(inverse)
		r.transforms[kind] = transform
		r.boundaries[kind] = bounds

		axisMetrics := computeAxisMetrics(inverse, transform, bounds)
		if kind == models.Longitude {
			r.metrics.Longitude = axisMetrics
		} else {
			r.metrics.Latitude = axisMetrics
		}
	}

	r.report(3, 3, "transforms ready")
	return nil
}

// Transform returns the built transform and its boundaries for one axis
// kind, or false before Prepare has run.
func (r *Registrator) Transform(kind models.AxisKind) (*PiecewiseAffineTransform, []float64, bool) {
	t, ok := r.transforms[kind]
	if !ok {
		return nil, nil, false
	}
	return t, r.boundaries[kind], true
}

// TransformTexture rescales one dense species-2 texture of the given axis
// kind into the species-1 frame. Output length and vertex order match the
// input.
func (r *Registrator) TransformTexture(kind models.AxisKind, values []float64) ([]float64, error) {
	transform, ok := r.transforms[kind]
	if !ok {
		return nil, fmt.Errorf("%s transform not prepared", kind)
	}

	out, err := RescaleParallel(values, transform, r.boundaries[kind], r.params.NumCores, r.params.Progress)
	if err != nil {
		return nil, fmt.Errorf("rescaling %s texture: %w", kind, err)
	}

	texStats := summarizeTexture(out)
	if kind == models.Longitude {
		r.metrics.LongitudeTexture = texStats
	} else {
		r.metrics.LatitudeTexture = texStats
	}
	return out, nil
}

// TransformTextures rescales the species-2 longitude and latitude textures
// in one call.
func (r *Registrator) TransformTextures(longitudes, latitudes []float64) ([]float64, []float64, error) {
	newLon, err := r.TransformTexture(models.Longitude, longitudes)
	if err != nil {
		return nil, nil, err
	}
	newLat, err := r.TransformTexture(models.Latitude, latitudes)
	if err != nil {
		return nil, nil, err
	}
	return newLon, newLat, nil
}

// GetMetrics returns the quality diagnostics accumulated so far. Anchor
// metrics are valid after Prepare, texture summaries after the respective
// TransformTexture call.
func (r *Registrator) GetMetrics() RegistrationMetrics {
	return r.metrics
}

func (r *Registrator) report(completed, total int, message string) {
	if r.params.Progress != nil {
		r.params.Progress(completed, total, message)
	}
}
