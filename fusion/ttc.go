package fusion

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"go.viam.com/ttc/keypoints"
	"go.viam.com/ttc/pointcloud"
)

// machine epsilon for float64
const floatEpsilon = 0x1p-52

var (
	// ErrInsufficientEvidence is returned when too few valid points or
	// distance ratios survive filtering to compute an estimate. The returned
	// value is NaN and the caller should treat the cycle as having no
	// estimate, not as a failure of the pipeline.
	ErrInsufficientEvidence = errors.New("not enough evidence for a time-to-collision estimate")

	// ErrRecedingObject is returned when the range data indicates the object
	// is moving away. A negative time-to-collision is mathematically well
	// defined but meaningless as a collision estimate, so it is reported as a
	// failure rather than a value.
	ErrRecedingObject = errors.New("object is receding, no collision expected")
)

// IsNoEstimate reports whether err only means no estimate is available for
// this cycle, as opposed to a contract violation by the caller.
func IsNoEstimate(err error) bool {
	return errors.Is(err, ErrInsufficientEvidence) || errors.Is(err, ErrRecedingObject)
}

// DefaultRankIndex is the order statistic used by the range estimator when
// none is configured: low enough to track the rear of the object, high enough
// to step over a handful of stray near returns.
const DefaultRankIndex = 5

// RangeTTCConfig contains the parameters of the range-based estimator.
type RangeTTCConfig struct {
	// RankIndex selects which ascending-sorted forward distance represents
	// each frame's near edge. 0 would be the absolute minimum.
	RankIndex int `json:"rank_index"`
}

// RangeTTC estimates time-to-collision from the range points of one matched
// region pair under a constant-velocity model. The representative distance of
// each frame is the RankIndex-th smallest forward coordinate, the same rank
// in both frames; using an order statistic instead of the minimum keeps stray
// near returns from dominating the estimate. frameRate is in Hz.
func RangeTTC(prevPts, currPts pointcloud.Points, frameRate float64, cfg *RangeTTCConfig) (float64, error) {
	if frameRate <= 0 {
		return math.NaN(), errors.Errorf("frame rate must be positive, got %v", frameRate)
	}
	rank := DefaultRankIndex
	if cfg != nil {
		rank = cfg.RankIndex
	}
	if rank < 0 {
		return math.NaN(), errors.Errorf("rank index must be non-negative, got %d", rank)
	}
	if len(prevPts) <= rank || len(currPts) <= rank {
		return math.NaN(), errors.Wrapf(ErrInsufficientEvidence,
			"rank %d needs more than %d points, have %d previous and %d current",
			rank, rank, len(prevPts), len(currPts))
	}
	prevXs := prevPts.ForwardDistances()
	currXs := currPts.ForwardDistances()
	sort.Float64s(prevXs)
	sort.Float64s(currXs)
	prevDist := prevXs[rank]
	currDist := currXs[rank]
	closingVelocity := (prevDist - currDist) * frameRate
	if closingVelocity == 0 {
		return math.NaN(), errors.Wrap(ErrInsufficientEvidence, "zero closing velocity")
	}
	ttc := currDist / closingVelocity
	if ttc < 0 {
		return math.NaN(), errors.Wrapf(ErrRecedingObject,
			"distance grew from %v to %v", prevDist, currDist)
	}
	return ttc, nil
}

// DefaultMinPixelDistance is the noise floor below which a current-frame
// keypoint pair is too close together for its distance ratio to be reliable.
const DefaultMinPixelDistance = 100.0

// ImageTTCConfig contains the parameters of the image-based estimator.
type ImageTTCConfig struct {
	// MinPixelDistance is the smallest current-frame separation a keypoint
	// pair may have for its ratio to count.
	MinPixelDistance float64 `json:"min_pixel_distance"`
}

// ImageTTC estimates time-to-collision from the apparent scale change of the
// keypoints matched within one region pair. For every unordered pair of
// correspondences it records the ratio of current-frame to previous-frame
// keypoint separation, takes the median of the surviving ratios, and derives
// TTC = -dt / (1 - medianRatio). The result is NaN with
// ErrInsufficientEvidence when no ratio survives filtering or the median
// ratio is exactly one.
func ImageTTC(
	prevKps, currKps keypoints.KeyPoints,
	matches keypoints.Correspondences,
	frameRate float64,
	cfg *ImageTTCConfig,
) (float64, error) {
	if frameRate <= 0 {
		return math.NaN(), errors.Errorf("frame rate must be positive, got %v", frameRate)
	}
	minDist := DefaultMinPixelDistance
	if cfg != nil {
		minDist = cfg.MinPixelDistance
	}
	distRatios := make([]float64, 0, len(matches)*(len(matches)-1)/2)
	for i := 0; i < len(matches); i++ {
		prevOuter, currOuter, err := matches[i].Resolve(prevKps, currKps)
		if err != nil {
			return math.NaN(), err
		}
		for j := i + 1; j < len(matches); j++ {
			prevInner, currInner, err := matches[j].Resolve(prevKps, currKps)
			if err != nil {
				return math.NaN(), err
			}
			distCurr := currOuter.Point.Sub(currInner.Point).Norm()
			distPrev := prevOuter.Point.Sub(prevInner.Point).Norm()
			if distPrev <= floatEpsilon || distCurr < minDist {
				continue
			}
			distRatios = append(distRatios, distCurr/distPrev)
		}
	}
	if len(distRatios) == 0 {
		return math.NaN(), errors.Wrap(ErrInsufficientEvidence, "no usable keypoint distance ratios")
	}
	medianRatio := median(distRatios)
	if medianRatio == 1 {
		return math.NaN(), errors.Wrap(ErrInsufficientEvidence, "no apparent scale change")
	}
	dt := 1 / frameRate
	return -dt / (1 - medianRatio), nil
}

// median returns the exact sample median of xs, sorting xs in place: the
// middle element for odd length, the mean of the two central elements for
// even length.
func median(xs []float64) float64 {
	sort.Float64s(xs)
	n := len(xs)
	if n%2 == 1 {
		return xs[n/2]
	}
	return (xs[n/2-1] + xs[n/2]) / 2
}
