package fusion

import (
	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"
)

// regionPair keys the vote tally by a previous-frame and a current-frame
// region identifier.
type regionPair struct {
	prevID, currID int64
}

// RegionCorrespondence maps previous-frame region identifiers to the
// current-frame region most likely representing the same physical object.
// The mapping is not necessarily injective: two previous regions may map to
// the same current region when the detector is unstable.
type RegionCorrespondence struct {
	// Pairs maps previous-frame region ID to current-frame region ID.
	Pairs map[int64]int64
	// Votes holds the winning vote count per previous-frame region ID.
	Votes map[int64]int
	// Unmatched lists previous-frame regions that received no votes at all.
	Unmatched []int64
}

// MatchRegions determines, for every region in the previous frame, its most
// likely counterpart in the current frame by counting keypoint
// correspondences whose endpoints land inside exactly one region of each
// frame. The highest vote count wins; ties break toward the lower
// current-frame identifier. A previous-frame region with zero votes yields no
// mapping entry and is reported in Unmatched instead.
func MatchRegions(prev, curr *FrameObservations, logger golog.Logger) (*RegionCorrespondence, error) {
	tally := map[regionPair]int{}
	for _, m := range curr.Matches {
		prevKp, currKp, err := m.Resolve(prev.KeyPoints, curr.KeyPoints)
		if err != nil {
			return nil, err
		}
		prevID, okPrev := uniqueOwner(prev.Regions, prevKp.Point)
		currID, okCurr := uniqueOwner(curr.Regions, currKp.Point)
		if !okPrev || !okCurr {
			continue
		}
		tally[regionPair{prevID, currID}]++
	}

	rc := &RegionCorrespondence{
		Pairs: make(map[int64]int64, len(prev.Regions)),
		Votes: make(map[int64]int, len(prev.Regions)),
	}
	for _, pr := range prev.Regions {
		bestID := int64(-1)
		bestVotes := 0
		for _, cr := range curr.Regions {
			votes := tally[regionPair{pr.ID, cr.ID}]
			if votes == 0 {
				continue
			}
			if votes > bestVotes || (votes == bestVotes && cr.ID < bestID) {
				bestID = cr.ID
				bestVotes = votes
			}
		}
		if bestVotes == 0 {
			rc.Unmatched = append(rc.Unmatched, pr.ID)
			logger.Debugf("previous region %d received no keypoint votes, leaving unmatched", pr.ID)
			continue
		}
		rc.Pairs[pr.ID] = bestID
		rc.Votes[pr.ID] = bestVotes
	}

	// two previous regions mapping to one current region is detector
	// instability worth surfacing
	claimed := make(map[int64]int64, len(rc.Pairs))
	for _, pr := range prev.Regions {
		currID, ok := rc.Pairs[pr.ID]
		if !ok {
			continue
		}
		if other, dup := claimed[currID]; dup {
			logger.Warnf("previous regions %d and %d both matched current region %d", other, pr.ID, currID)
			continue
		}
		claimed[currID] = pr.ID
	}
	return rc, nil
}

// uniqueOwner returns the identifier of the single region containing the
// pixel; ok is false when zero or several regions contain it. The unshrunk
// rectangles are used.
func uniqueOwner(regions []*Region, pt r2.Point) (int64, bool) {
	var owner int64
	found := false
	for _, reg := range regions {
		if !reg.Contains(pt) {
			continue
		}
		if found {
			return 0, false
		}
		owner = reg.ID
		found = true
	}
	return owner, found
}
