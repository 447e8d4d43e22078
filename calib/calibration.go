// Package calib holds the fixed platform calibration used to project range
// points into the image plane.
package calib

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/ttc/pointcloud"
)

// ErrZeroDepth is returned when a point's transformed depth would force a
// division by zero during perspective division.
var ErrZeroDepth = errors.New("projected depth is zero")

// Calibration combines the camera projection matrix, the rectifying rotation
// and the range-sensor extrinsic transform. The matrices are fixed per
// platform, not per frame.
type Calibration struct {
	Projection    *mat.Dense // 3x4 camera projection
	Rectification *mat.Dense // 4x4 rectifying rotation
	Extrinsic     *mat.Dense // 4x4 range sensor to camera transform

	combined *mat.Dense // cached 3x4 product
}

// NewCalibration validates the matrix dimensions and precomputes the combined
// transform Projection * Rectification * Extrinsic.
func NewCalibration(projection, rectification, extrinsic *mat.Dense) (*Calibration, error) {
	if err := checkDims(projection, 3, 4, "projection"); err != nil {
		return nil, err
	}
	if err := checkDims(rectification, 4, 4, "rectification"); err != nil {
		return nil, err
	}
	if err := checkDims(extrinsic, 4, 4, "extrinsic"); err != nil {
		return nil, err
	}
	combined := mat.NewDense(3, 4, nil)
	combined.Product(projection, rectification, extrinsic)
	return &Calibration{
		Projection:    projection,
		Rectification: rectification,
		Extrinsic:     extrinsic,
		combined:      combined,
	}, nil
}

func checkDims(m *mat.Dense, rows, cols int, name string) error {
	if m == nil {
		return errors.Errorf("%s matrix is nil", name)
	}
	r, c := m.Dims()
	if r != rows || c != cols {
		return errors.Errorf("%s matrix must be %dx%d, got %dx%d", name, rows, cols, r, c)
	}
	return nil
}

// ProjectPoint maps a range point into pixel coordinates: homogeneous
// multiplication by the combined transform followed by perspective division
// by the transformed depth. Returns ErrZeroDepth when that depth is zero.
func (c *Calibration) ProjectPoint(pt pointcloud.Point) (r2.Point, error) {
	x := mat.NewVecDense(4, []float64{pt.Position.X, pt.Position.Y, pt.Position.Z, 1})
	var y mat.VecDense
	y.MulVec(c.combined, x)
	depth := y.AtVec(2)
	if depth == 0 {
		return r2.Point{}, errors.Wrapf(ErrZeroDepth, "cannot project point %v", pt.Position)
	}
	return r2.Point{X: y.AtVec(0) / depth, Y: y.AtVec(1) / depth}, nil
}
