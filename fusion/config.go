package fusion

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// EstimatorConfig contains the parameters needed to run the full
// time-to-collision pipeline on a frame pair.
type EstimatorConfig struct {
	// FrameRate is the capture rate of both sensors in Hz.
	FrameRate float64 `json:"frame_rate_hz"`
	// ShrinkFactor discounts range points near region boundaries during
	// association; must lie in [0, 1).
	ShrinkFactor float64 `json:"shrink_factor"`

	RangeCfg *RangeTTCConfig `json:"range"`
	ImageCfg *ImageTTCConfig `json:"image"`
}

// LoadEstimatorConfig loads an EstimatorConfig from a json file.
func LoadEstimatorConfig(file string) (*EstimatorConfig, error) {
	var config EstimatorConfig
	filePath := filepath.Clean(file)
	//nolint:gosec
	configFile, err := os.Open(filePath)
	defer utils.UncheckedErrorFunc(configFile.Close)
	if err != nil {
		return nil, err
	}
	jsonParser := json.NewDecoder(configFile)
	err = jsonParser.Decode(&config)
	if err != nil {
		return nil, err
	}
	err = config.Validate(file)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate ensures all parts of the EstimatorConfig are valid.
func (config *EstimatorConfig) Validate(path string) error {
	if config.FrameRate <= 0 {
		return utils.NewConfigValidationError(path, errors.New("frame_rate_hz should be positive"))
	}
	if config.ShrinkFactor < 0 || config.ShrinkFactor >= 1 {
		return utils.NewConfigValidationError(path, errors.New("shrink_factor should be in [0, 1)"))
	}
	if config.RangeCfg == nil {
		return utils.NewConfigValidationFieldRequiredError(path, "range")
	}
	if config.RangeCfg.RankIndex < 0 {
		return utils.NewConfigValidationError(path, errors.New("range.rank_index should be non-negative"))
	}
	if config.ImageCfg == nil {
		return utils.NewConfigValidationFieldRequiredError(path, "image")
	}
	if config.ImageCfg.MinPixelDistance < 0 {
		return utils.NewConfigValidationError(path, errors.New("image.min_pixel_distance should be non-negative"))
	}
	return nil
}

// LoadFrameObservations reads one frame's keypoints, correspondences and
// regions from a json file.
func LoadFrameObservations(file string) (*FrameObservations, error) {
	var frame FrameObservations
	filePath := filepath.Clean(file)
	//nolint:gosec
	f, err := os.Open(filePath)
	defer utils.UncheckedErrorFunc(f.Close)
	if err != nil {
		return nil, err
	}
	jsonParser := json.NewDecoder(f)
	err = jsonParser.Decode(&frame)
	if err != nil {
		return nil, err
	}
	return &frame, nil
}
