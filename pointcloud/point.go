// Package pointcloud contains the range point data model used by the fusion
// pipeline. Points live in the platform frame: x facing forward from the
// sensor, y facing left, z facing up.
package pointcloud

import (
	"github.com/golang/geo/r3"
)

// Point is a single range return. It is a value type and is never mutated
// after capture.
type Point struct {
	Position  r3.Vector `json:"position"`
	Intensity float64   `json:"intensity,omitempty"`
}

// NewPoint creates a point at the given platform-frame coordinates.
func NewPoint(x, y, z float64) Point {
	return Point{Position: r3.Vector{X: x, Y: y, Z: z}}
}

// NewPointWithIntensity creates a point carrying a reflectivity value.
func NewPointWithIntensity(x, y, z, intensity float64) Point {
	return Point{Position: r3.Vector{X: x, Y: y, Z: z}, Intensity: intensity}
}

// Points is an ordered collection of range returns from one frame.
type Points []Point

// Len returns the number of points.
func (pts Points) Len() int {
	return len(pts)
}

// Swap swaps two points positionally.
func (pts Points) Swap(i, j int) {
	pts[i], pts[j] = pts[j], pts[i]
}

// Less orders points by their forward-axis coordinate.
func (pts Points) Less(i, j int) bool {
	return pts[i].Position.X < pts[j].Position.X
}

// ForwardDistances returns the forward-axis coordinate of every point, in
// input order.
func (pts Points) ForwardDistances() []float64 {
	xs := make([]float64, len(pts))
	for i, pt := range pts {
		xs[i] = pt.Position.X
	}
	return xs
}
