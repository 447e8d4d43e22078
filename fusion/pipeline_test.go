package fusion

import (
	"math"
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"

	"go.viam.com/ttc/keypoints"
	"go.viam.com/ttc/pointcloud"
)

// pipelineScene builds a synthetic frame pair: one object tracked from
// previous region 1 into current region 7, closing in, plus a second current
// region 9 catching a couple of stray correspondences.
func pipelineScene() (prev, curr *FrameObservations, prevPoints, currPoints pointcloud.Points) {
	prevKps := make(keypoints.KeyPoints, 0, 6)
	currKps := make(keypoints.KeyPoints, 0, 6)
	for i := 0; i < 5; i++ {
		x := 10 + float64(i)*10
		prevKps = append(prevKps, kpAt(x, x))
		// the tracked keypoints spread apart by a factor 1.25
		currKps = append(currKps, kpAt(x*1.25, x*1.25))
	}
	// one track jumps into the stray region
	prevKps = append(prevKps, kpAt(60, 60))
	currKps = append(currKps, kpAt(250, 50))

	prev = &FrameObservations{
		KeyPoints: prevKps,
		Regions:   []*Region{NewRegion(1, 0, 0, 100, 100)},
	}
	curr = &FrameObservations{
		KeyPoints: currKps,
		Matches:   identityMatches(6),
		Regions: []*Region{
			NewRegion(7, 0, 0, 100, 100),
			NewRegion(9, 200, 0, 100, 100),
		},
	}
	for i := 0; i < 6; i++ {
		prevPoints = append(prevPoints, pointcloud.NewPoint(30+float64(i)*5, 40, 1))
		currPoints = append(currPoints, pointcloud.NewPoint(20+float64(i)*5, 40, 1))
	}
	return prev, curr, prevPoints, currPoints
}

func pipelineConfig() *EstimatorConfig {
	return &EstimatorConfig{
		FrameRate:    10,
		ShrinkFactor: 0.1,
		RangeCfg:     &RangeTTCConfig{RankIndex: 2},
		ImageCfg:     &ImageTTCConfig{MinPixelDistance: 1},
	}
}

func TestEstimateTTC(t *testing.T) {
	logger := golog.NewTestLogger(t)
	cal := screenCalibration(t)
	prev, curr, prevPoints, currPoints := pipelineScene()

	estimates, rc, err := EstimateTTC(prev, curr, prevPoints, currPoints, cal, pipelineConfig(), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rc.Pairs, test.ShouldResemble, map[int64]int64{1: 7})
	test.That(t, estimates, test.ShouldHaveLength, 1)

	est := estimates[0]
	test.That(t, est.PrevID, test.ShouldEqual, 1)
	test.That(t, est.CurrID, test.ShouldEqual, 7)
	// rank 2 forward distances: 40 previous, 30 current, closing at 100/s
	test.That(t, est.RangeTTC, test.ShouldAlmostEqual, 0.3)
	// keypoint spacing grows by 1.25: TTC = -0.1 / (1 - 1.25)
	test.That(t, est.ImageTTC, test.ShouldAlmostEqual, 0.4)
}

func TestEstimateTTCIdempotent(t *testing.T) {
	logger := golog.NewTestLogger(t)
	cal := screenCalibration(t)
	prev, curr, prevPoints, currPoints := pipelineScene()
	cfg := pipelineConfig()

	estimates1, rc1, err := EstimateTTC(prev, curr, prevPoints, currPoints, cal, cfg, logger)
	test.That(t, err, test.ShouldBeNil)
	pointsAfterFirst := append(pointcloud.Points{}, curr.Regions[0].Points...)
	matchesAfterFirst := append(keypoints.Correspondences{}, curr.Regions[0].Matches...)

	estimates2, rc2, err := EstimateTTC(prev, curr, prevPoints, currPoints, cal, cfg, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, estimates2, test.ShouldResemble, estimates1)
	test.That(t, rc2, test.ShouldResemble, rc1)
	test.That(t, curr.Regions[0].Points, test.ShouldResemble, pointsAfterFirst)
	test.That(t, curr.Regions[0].Matches, test.ShouldResemble, matchesAfterFirst)
}

func TestEstimateTTCInsufficientEvidence(t *testing.T) {
	logger := golog.NewTestLogger(t)
	cal := screenCalibration(t)
	prev, curr, prevPoints, currPoints := pipelineScene()
	cfg := pipelineConfig()
	// a rank no region's point collection can satisfy
	cfg.RangeCfg = &RangeTTCConfig{RankIndex: 50}

	estimates, _, err := EstimateTTC(prev, curr, prevPoints, currPoints, cal, cfg, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, estimates, test.ShouldHaveLength, 1)
	test.That(t, math.IsNaN(estimates[0].RangeTTC), test.ShouldBeTrue)
	// the image estimate is unaffected
	test.That(t, math.IsNaN(estimates[0].ImageTTC), test.ShouldBeFalse)
}

func TestEstimateTTCBadShrink(t *testing.T) {
	logger := golog.NewTestLogger(t)
	cal := screenCalibration(t)
	prev, curr, prevPoints, currPoints := pipelineScene()
	cfg := pipelineConfig()
	cfg.ShrinkFactor = 1

	_, _, err := EstimateTTC(prev, curr, prevPoints, currPoints, cal, cfg, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "shrink factor")
}
