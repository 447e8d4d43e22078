// Package keypoints contains the tracked image feature types consumed by the
// fusion pipeline: per-frame keypoint sequences and the index pairs matching
// them across two successive frames.
package keypoints

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// KeyPoint is a tracked image feature with a subpixel location and detector
// metadata.
type KeyPoint struct {
	Point    r2.Point `json:"point"`
	Size     float64  `json:"size,omitempty"`
	Response float64  `json:"response,omitempty"`
}

// KeyPoints is the ordered keypoint sequence of one frame.
type KeyPoints []KeyPoint

// Correspondence pairs a previous-frame keypoint index with a current-frame
// keypoint index. It is unidirectional evidence of one feature tracked across
// the frame pair.
type Correspondence struct {
	PrevIdx int `json:"prev_idx"`
	CurrIdx int `json:"curr_idx"`
}

// Correspondences is the full match set for a frame pair.
type Correspondences []Correspondence

// Resolve looks up both endpoints of the correspondence in the two frame
// sequences. An out-of-range index is a contract violation by the upstream
// matcher and fails immediately.
func (c Correspondence) Resolve(prev, curr KeyPoints) (KeyPoint, KeyPoint, error) {
	if c.PrevIdx < 0 || c.PrevIdx >= len(prev) {
		return KeyPoint{}, KeyPoint{}, errors.Errorf(
			"previous keypoint index %d out of range [0, %d)", c.PrevIdx, len(prev))
	}
	if c.CurrIdx < 0 || c.CurrIdx >= len(curr) {
		return KeyPoint{}, KeyPoint{}, errors.Errorf(
			"current keypoint index %d out of range [0, %d)", c.CurrIdx, len(curr))
	}
	return prev[c.PrevIdx], curr[c.CurrIdx], nil
}
