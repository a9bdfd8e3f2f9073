package registration

import (
	"runtime"
	"sort"
	"sync"
)

// ProgressCallback reports rescale progress to the caller. The core never
// prints; console output belongs to the command-line tool.
type ProgressCallback func(completed, total int, message string)

// segmentIndex selects the segment for one value against the sorted
// boundaries: segment 0 below the first boundary, segment i+1 on
// [boundaries[i], boundaries[i+1]), the tail segment at or above the last
// boundary. Values exactly on a boundary land in the segment beginning
// there.
func segmentIndex(v float64, boundaries []float64) int {
	return sort.Search(len(boundaries), func(i int) bool { return boundaries[i] > v })
}

// Rescale applies a piecewise-affine transform to a dense texture.
//
// The input need not be sorted: every value is looked up independently
// against the boundary sequence, so out-of-order and out-of-range vertices
// transform correctly. The output has the same length and order as the
// input; the input slice is left untouched.
func Rescale(values []float64, transform *PiecewiseAffineTransform, boundaries []float64) ([]float64, error) {
	if err := checkRescaleArgs(transform, boundaries); err != nil {
		return nil, err
	}

	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = transform.Segments[segmentIndex(v, boundaries)].Apply(v)
	}
	return out, nil
}

// RescaleParallel is Rescale fanned out over vertex chunks. Each vertex is
// independent, so the texture is split into one contiguous chunk per core
// with no shared mutation. The callback, when non-nil, is invoked once per
// completed chunk.
func RescaleParallel(values []float64, transform *PiecewiseAffineTransform, boundaries []float64,
	numCores int, progress ProgressCallback) ([]float64, error) {

	if err := checkRescaleArgs(transform, boundaries); err != nil {
		return nil, err
	}
	if numCores < 1 {
		numCores = runtime.NumCPU()
	}
	if numCores > len(values) {
		numCores = 1
	}

	out := make([]float64, len(values))
	chunk := (len(values) + numCores - 1) / numCores

	var wg sync.WaitGroup
	var mu sync.Mutex
	completed := 0

	for start := 0; start < len(values); start += chunk {
		end := start + chunk
		if end > len(values) {
			end = len(values)
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				out[i] = transform.Segments[segmentIndex(values[i], boundaries)].Apply(values[i])
			}
			if progress != nil {
				mu.Lock()
				completed += end - start
				progress(completed, len(values), "rescaling texture")
				mu.Unlock()
			}
		}(start, end)
	}
	wg.Wait()

	return out, nil
}

// checkRescaleArgs validates the transform/boundary pairing before any value
// is touched: segment count must be boundary count plus one, and boundaries
// must be strictly increasing.
func checkRescaleArgs(transform *PiecewiseAffineTransform, boundaries []float64) error {
	if len(transform.Segments) != len(boundaries)+1 {
		return &SegmentCountMismatchError{
			Segments:   len(transform.Segments),
			Boundaries: len(boundaries),
		}
	}
	for i := 1; i < len(boundaries); i++ {
		if boundaries[i] <= boundaries[i-1] {
			return &NonMonotonicAnchorsError{Axis: transform.Axis, Index: i}
		}
	}
	return nil
}
