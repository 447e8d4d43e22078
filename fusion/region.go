// Package fusion associates range points and tracked keypoints with detected
// object regions across a pair of successive frames and estimates
// time-to-collision for each matched region pair, once from the range data
// and once from the keypoint scale change.
package fusion

import (
	"github.com/golang/geo/r2"

	"go.viam.com/ttc/keypoints"
	"go.viam.com/ttc/pointcloud"
)

// Region is one detected object area in a single frame: an axis-aligned
// rectangle in image coordinates with a frame-unique identifier. Its point
// and keypoint collections start empty and are populated once per estimation
// cycle by the associators. Region instances are never shared across frames.
type Region struct {
	ID     int64    `json:"id"`
	Origin r2.Point `json:"origin"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`

	// populated by AssociatePointsWithRegions
	Points pointcloud.Points `json:"points,omitempty"`
	// populated by AssociateMatchesWithRegion
	Matches   keypoints.Correspondences `json:"matches,omitempty"`
	KeyPoints keypoints.KeyPoints       `json:"keypoints,omitempty"`
}

// NewRegion creates an empty region with the given rectangle.
func NewRegion(id int64, x, y, width, height float64) *Region {
	return &Region{ID: id, Origin: r2.Point{X: x, Y: y}, Width: width, Height: height}
}

// Contains reports whether the pixel lies inside the region's rectangle. The
// minimum edges are inclusive and the maximum edges exclusive, following
// image.Rectangle semantics.
func (reg *Region) Contains(pt r2.Point) bool {
	return pt.X >= reg.Origin.X && pt.X < reg.Origin.X+reg.Width &&
		pt.Y >= reg.Origin.Y && pt.Y < reg.Origin.Y+reg.Height
}

// Shrunk returns a copy of the region's rectangle reduced symmetrically
// toward its center: each dimension shrinks by the fraction s and the origin
// shifts by half that reduction. The collections are not carried over.
func (reg *Region) Shrunk(s float64) *Region {
	return &Region{
		ID:     reg.ID,
		Origin: r2.Point{X: reg.Origin.X + s*reg.Width/2, Y: reg.Origin.Y + s*reg.Height/2},
		Width:  reg.Width * (1 - s),
		Height: reg.Height * (1 - s),
	}
}

// FrameObservations bundles everything observed at one time step. Matches
// pair this frame's keypoints with the previous frame's; the previous frame's
// own Matches field is not consulted when this frame is the current one.
type FrameObservations struct {
	KeyPoints keypoints.KeyPoints       `json:"keypoints"`
	Matches   keypoints.Correspondences `json:"matches,omitempty"`
	Regions   []*Region                 `json:"regions"`
}

// RegionByID returns the region with the given identifier, or nil if the
// frame has none.
func (f *FrameObservations) RegionByID(id int64) *Region {
	for _, reg := range f.Regions {
		if reg.ID == id {
			return reg
		}
	}
	return nil
}
