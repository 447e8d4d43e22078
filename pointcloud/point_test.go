package pointcloud

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"go.viam.com/test"
)

func TestForwardDistances(t *testing.T) {
	pts := Points{
		NewPoint(12, 1, 0),
		NewPoint(8, -1, 0),
		NewPointWithIntensity(10, 0, 0, 0.5),
	}
	test.That(t, pts.ForwardDistances(), test.ShouldResemble, []float64{12, 8, 10})
}

func TestSortByForwardDistance(t *testing.T) {
	pts := Points{
		NewPoint(12, 1, 0),
		NewPoint(8, -1, 0),
		NewPoint(10, 0, 0),
	}
	sort.Sort(pts)
	test.That(t, pts[0].Position.X, test.ShouldEqual, 8)
	test.That(t, pts[1].Position.X, test.ShouldEqual, 10)
	test.That(t, pts[2].Position.X, test.ShouldEqual, 12)
}

func TestLoadPoints(t *testing.T) {
	pts := Points{
		NewPoint(7.5, 0.2, -0.9),
		NewPointWithIntensity(8.1, -0.3, -0.8, 0.4),
	}
	data, err := json.Marshal(pts)
	test.That(t, err, test.ShouldBeNil)
	path := filepath.Join(t.TempDir(), "points.json")
	test.That(t, os.WriteFile(path, data, 0o600), test.ShouldBeNil)

	loaded, err := LoadPoints(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, loaded, test.ShouldResemble, pts)

	_, err = LoadPoints(filepath.Join(t.TempDir(), "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)
}
