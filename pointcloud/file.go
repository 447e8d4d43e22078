package pointcloud

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.viam.com/utils"
)

// LoadPoints reads one frame's range returns from a json file containing an
// array of points.
func LoadPoints(file string) (Points, error) {
	var pts Points
	filePath := filepath.Clean(file)
	//nolint:gosec
	f, err := os.Open(filePath)
	defer utils.UncheckedErrorFunc(f.Close)
	if err != nil {
		return nil, err
	}
	jsonParser := json.NewDecoder(f)
	err = jsonParser.Decode(&pts)
	if err != nil {
		return nil, err
	}
	return pts, nil
}
