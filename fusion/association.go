package fusion

import (
	"github.com/pkg/errors"

	"go.viam.com/ttc/calib"
	"go.viam.com/ttc/keypoints"
	"go.viam.com/ttc/pointcloud"
)

// AssociatePointsWithRegions projects every range point into the image plane
// and assigns it to the single region whose shrunk rectangle contains it. A
// point contained by zero or by several shrunk rectangles is dropped rather
// than arbitrarily assigned, so no point ever appears in two regions'
// collections. Points whose projection is degenerate (zero depth) cannot land
// in any region and are dropped as well. Each region's Points collection is
// overwritten, not appended to, so the operation is idempotent over the same
// inputs.
func AssociatePointsWithRegions(
	regions []*Region,
	points pointcloud.Points,
	shrinkFactor float64,
	cal *calib.Calibration,
) error {
	if shrinkFactor < 0 || shrinkFactor >= 1 {
		return errors.Errorf("shrink factor %v outside [0, 1)", shrinkFactor)
	}
	shrunk := make([]*Region, len(regions))
	for i, reg := range regions {
		shrunk[i] = reg.Shrunk(shrinkFactor)
	}
	assigned := make([]pointcloud.Points, len(regions))
	for _, pt := range points {
		px, err := cal.ProjectPoint(pt)
		if err != nil {
			continue
		}
		owner := -1
		for i, reg := range shrunk {
			if !reg.Contains(px) {
				continue
			}
			if owner >= 0 {
				owner = -1
				break
			}
			owner = i
		}
		if owner >= 0 {
			assigned[owner] = append(assigned[owner], pt)
		}
	}
	for i, reg := range regions {
		reg.Points = assigned[i]
	}
	return nil
}

// AssociateMatchesWithRegion collects the correspondences whose current-frame
// keypoint lies inside the region's rectangle, together with those resolved
// keypoints. No shrinking is applied here; tracked keypoints are far less
// boundary-noisy than raw range returns. The previous-frame keypoint location
// plays no part in the membership test.
func AssociateMatchesWithRegion(
	region *Region,
	prevKps, currKps keypoints.KeyPoints,
	matches keypoints.Correspondences,
) error {
	kept := make(keypoints.Correspondences, 0, len(matches))
	keptKps := make(keypoints.KeyPoints, 0, len(matches))
	for _, m := range matches {
		_, currKp, err := m.Resolve(prevKps, currKps)
		if err != nil {
			return err
		}
		if region.Contains(currKp.Point) {
			kept = append(kept, m)
			keptKps = append(keptKps, currKp)
		}
	}
	region.Matches = kept
	region.KeyPoints = keptKps
	return nil
}
