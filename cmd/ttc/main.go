// Package main contains a command to run time-to-collision estimation over a
// captured frame pair.
package main

import (
	"context"
	"math"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/ttc/calib"
	"go.viam.com/ttc/fusion"
	"go.viam.com/ttc/pointcloud"
	"go.viam.com/ttc/render"
)

var logger = golog.NewDevelopmentLogger("ttc")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	Calibration string `flag:"calibration,required,usage=calibration matrices json"`
	Config      string `flag:"config,required,usage=estimator config json"`
	PrevFrame   string `flag:"prev,required,usage=previous frame observations json"`
	CurrFrame   string `flag:"curr,required,usage=current frame observations json"`
	PrevPoints  string `flag:"prev-points,required,usage=previous frame range points json"`
	CurrPoints  string `flag:"curr-points,required,usage=current frame range points json"`
	TopView     string `flag:"topview,usage=write a top view of the current frame's clustered points to this png"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	cal, err := calib.LoadCalibration(argsParsed.Calibration)
	if err != nil {
		return errors.Wrap(err, "cannot load calibration")
	}
	cfg, err := fusion.LoadEstimatorConfig(argsParsed.Config)
	if err != nil {
		return errors.Wrap(err, "cannot load estimator config")
	}
	prev, err := fusion.LoadFrameObservations(argsParsed.PrevFrame)
	if err != nil {
		return errors.Wrap(err, "cannot load previous frame")
	}
	curr, err := fusion.LoadFrameObservations(argsParsed.CurrFrame)
	if err != nil {
		return errors.Wrap(err, "cannot load current frame")
	}
	prevPoints, err := pointcloud.LoadPoints(argsParsed.PrevPoints)
	if err != nil {
		return errors.Wrap(err, "cannot load previous frame points")
	}
	currPoints, err := pointcloud.LoadPoints(argsParsed.CurrPoints)
	if err != nil {
		return errors.Wrap(err, "cannot load current frame points")
	}

	estimates, rc, err := fusion.EstimateTTC(prev, curr, prevPoints, currPoints, cal, cfg, logger)
	if err != nil {
		return err
	}

	for _, est := range estimates {
		logger.Infow("estimate",
			"prev_region", est.PrevID,
			"curr_region", est.CurrID,
			"range_ttc_s", formatTTC(est.RangeTTC),
			"image_ttc_s", formatTTC(est.ImageTTC),
		)
	}
	for _, id := range rc.Unmatched {
		logger.Warnw("region unmatched", "prev_region", id)
	}

	if argsParsed.TopView != "" {
		if err := render.TopView(curr.Regions, 10, 25, 1000, 2000, argsParsed.TopView); err != nil {
			return errors.Wrap(err, "cannot render top view")
		}
		logger.Infow("top view written", "path", argsParsed.TopView)
	}
	return nil
}

func formatTTC(ttc float64) interface{} {
	if math.IsNaN(ttc) {
		return "n/a"
	}
	return ttc
}
