package calib

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.viam.com/utils"
	"gonum.org/v1/gonum/mat"
)

// CalibrationConfig is the on-disk form of a Calibration: each matrix as a
// list of rows.
type CalibrationConfig struct {
	Projection    [][]float64 `json:"projection"`
	Rectification [][]float64 `json:"rectification"`
	Extrinsic     [][]float64 `json:"extrinsic"`
}

// LoadCalibration loads a CalibrationConfig from a json file and builds the
// Calibration from it.
func LoadCalibration(file string) (*Calibration, error) {
	var config CalibrationConfig
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
	projection, err := denseFromRows(config.Projection)
	if err != nil {
		return nil, err
	}
	rectification, err := denseFromRows(config.Rectification)
	if err != nil {
		return nil, err
	}
	extrinsic, err := denseFromRows(config.Extrinsic)
	if err != nil {
		return nil, err
	}
	return NewCalibration(projection, rectification, extrinsic)
}

// Validate ensures all parts of the CalibrationConfig are valid.
func (config *CalibrationConfig) Validate(path string) error {
	if err := validateRows(config.Projection, 3, 4); err != nil {
		return utils.NewConfigValidationError(path, errors.Wrap(err, "projection"))
	}
	if err := validateRows(config.Rectification, 4, 4); err != nil {
		return utils.NewConfigValidationError(path, errors.Wrap(err, "rectification"))
	}
	if err := validateRows(config.Extrinsic, 4, 4); err != nil {
		return utils.NewConfigValidationError(path, errors.Wrap(err, "extrinsic"))
	}
	return nil
}

func validateRows(rows [][]float64, nRows, nCols int) error {
	if len(rows) != nRows {
		return errors.Errorf("expected %d rows, got %d", nRows, len(rows))
	}
	for i, row := range rows {
		if len(row) != nCols {
			return errors.Errorf("row %d: expected %d columns, got %d", i, nCols, len(row))
		}
	}
	return nil
}

func denseFromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.New("matrix rows are empty")
	}
	data := make([]float64, 0, len(rows)*len(rows[0]))
	for _, row := range rows {
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), len(rows[0]), data), nil
}
