package keypoints

import (
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func TestCorrespondenceResolve(t *testing.T) {
	prev := KeyPoints{
		{Point: r2.Point{X: 1, Y: 2}},
		{Point: r2.Point{X: 3, Y: 4}, Size: 7, Response: 0.9},
	}
	curr := KeyPoints{
		{Point: r2.Point{X: 5, Y: 6}},
	}

	prevKp, currKp, err := Correspondence{PrevIdx: 1, CurrIdx: 0}.Resolve(prev, curr)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, prevKp, test.ShouldResemble, prev[1])
	test.That(t, currKp, test.ShouldResemble, curr[0])
}

func TestCorrespondenceResolveOutOfRange(t *testing.T) {
	prev := KeyPoints{{Point: r2.Point{X: 1, Y: 2}}}
	curr := KeyPoints{{Point: r2.Point{X: 5, Y: 6}}}

	_, _, err := Correspondence{PrevIdx: 1, CurrIdx: 0}.Resolve(prev, curr)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "previous keypoint index 1")

	_, _, err = Correspondence{PrevIdx: 0, CurrIdx: -1}.Resolve(prev, curr)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "current keypoint index -1")
}
