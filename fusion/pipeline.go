package fusion

import (
	"math"
	"sync"

	"github.com/edaniels/golog"
	"go.viam.com/utils"

	"go.viam.com/ttc/calib"
	"go.viam.com/ttc/pointcloud"
)

// Estimate is the pair of time-to-collision values, in seconds, for one
// matched region pair. Either value may independently be NaN when that
// modality had insufficient evidence.
type Estimate struct {
	PrevID   int64
	CurrID   int64
	RangeTTC float64
	ImageTTC float64
}

// EstimateTTC runs the full pipeline on a frame pair: range point and
// keypoint association for both frames, cross-frame region matching, then
// both estimators for every matched region pair. The two estimators of a pair
// run concurrently; once association completes their inputs are read-only.
// Estimates are returned in previous-frame region order, and the region
// correspondence is returned alongside for diagnostics. The computation is
// deterministic and idempotent over the same inputs.
func EstimateTTC(
	prev, curr *FrameObservations,
	prevPoints, currPoints pointcloud.Points,
	cal *calib.Calibration,
	cfg *EstimatorConfig,
	logger golog.Logger,
) ([]Estimate, *RegionCorrespondence, error) {
	if err := AssociatePointsWithRegions(prev.Regions, prevPoints, cfg.ShrinkFactor, cal); err != nil {
		return nil, nil, err
	}
	if err := AssociatePointsWithRegions(curr.Regions, currPoints, cfg.ShrinkFactor, cal); err != nil {
		return nil, nil, err
	}
	for _, reg := range curr.Regions {
		if err := AssociateMatchesWithRegion(reg, prev.KeyPoints, curr.KeyPoints, curr.Matches); err != nil {
			return nil, nil, err
		}
	}
	rc, err := MatchRegions(prev, curr, logger)
	if err != nil {
		return nil, nil, err
	}

	estimates := make([]Estimate, 0, len(rc.Pairs))
	for _, pr := range prev.Regions {
		currID, ok := rc.Pairs[pr.ID]
		if !ok {
			continue
		}
		cr := curr.RegionByID(currID)
		est := Estimate{PrevID: pr.ID, CurrID: currID, RangeTTC: math.NaN(), ImageTTC: math.NaN()}
		var wg sync.WaitGroup
		var rangeErr, imageErr error
		wg.Add(2)
		utils.PanicCapturingGo(func() {
			defer wg.Done()
			est.RangeTTC, rangeErr = RangeTTC(pr.Points, cr.Points, cfg.FrameRate, cfg.RangeCfg)
		})
		utils.PanicCapturingGo(func() {
			defer wg.Done()
			est.ImageTTC, imageErr = ImageTTC(prev.KeyPoints, curr.KeyPoints, cr.Matches, cfg.FrameRate, cfg.ImageCfg)
		})
		wg.Wait()
		if rangeErr != nil {
			if !IsNoEstimate(rangeErr) {
				return nil, nil, rangeErr
			}
			logger.Debugf("no range estimate for regions %d->%d: %s", pr.ID, currID, rangeErr)
		}
		if imageErr != nil {
			if !IsNoEstimate(imageErr) {
				return nil, nil, imageErr
			}
			logger.Debugf("no image estimate for regions %d->%d: %s", pr.ID, currID, imageErr)
		}
		estimates = append(estimates, est)
	}
	return estimates, rc, nil
}
