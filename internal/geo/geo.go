// Package geo maps geographic coordinates and raw statistics into the
// bounded render space shared with the background quad.
package geo

import (
	"math"

	"statmap/internal/dataset"
)

// RenderExtent is the half-size of the background quad in local render
// space. Projected coordinates fall in [-RenderExtent, RenderExtent].
const RenderExtent = 0.75

// Project maps (lat, lon) to render space with an equirectangular projection.
// The caller guarantees lat in [-90,90] and lon in [-180,180]; no clamping is done.
func Project(lat, lon float64) (x, y float32) {
	x = float32(lon / 180 * RenderExtent)
	y = float32(lat / 90 * RenderExtent)
	return x, y
}

// Normalize rescales value into [0,1] relative to [min,max].
// A degenerate range (max == min) yields 0.
func Normalize(value, min, max float64) float64 {
	if max == min {
		return 0
	}
	n := (value - min) / (max - min)
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// Range is the global minimum and maximum of one metric.
type Range struct {
	Min float64
	Max float64
}

// Ranges computes the min/max of every category over the whole record set.
// An empty set yields zero ranges.
func Ranges(records []dataset.Record) [dataset.NumCategories]Range {
	var out [dataset.NumCategories]Range
	for i, r := range records {
		for _, c := range dataset.Categories() {
			v := r.Metrics.Select(c)
			if i == 0 {
				out[c] = Range{Min: v, Max: v}
				continue
			}
			if v < out[c].Min {
				out[c].Min = v
			}
			if v > out[c].Max {
				out[c].Max = v
			}
		}
	}
	return out
}
