// Package render contains debug renderings of fused observations. Nothing
// here feeds back into estimation.
package render

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/floats"

	"go.viam.com/ttc/fusion"
)

// lineSpacing is the gap between distance marker lines in world units.
const lineSpacing = 2.0

// TopView plots each region's clustered range points from above and saves the
// result as a png. The world extent (worldWidth x worldHeight, in the
// platform's units, forward axis up) is mapped onto an image of
// imgWidth x imgHeight pixels. Each region gets a color seeded by its
// identifier, an enclosing rectangle and a label with its id, point count and
// nearest forward distance.
func TopView(regions []*fusion.Region, worldWidth, worldHeight float64, imgWidth, imgHeight int, outName string) error {
	dc := gg.NewContext(imgWidth, imgHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	w := float64(imgWidth)
	h := float64(imgHeight)

	// distance markers
	dc.SetRGB(0, 0, 1)
	dc.SetLineWidth(1)
	nMarkers := int(math.Floor(worldHeight / lineSpacing))
	for i := 0; i < nMarkers; i++ {
		y := -(float64(i) * lineSpacing * h / worldHeight) + h
		dc.DrawLine(0, y, w, y)
		dc.Stroke()
	}

	for _, reg := range regions {
		if len(reg.Points) == 0 {
			continue
		}
		rng := rand.New(rand.NewSource(reg.ID)) //nolint:gosec
		r, g, b := rng.Float64()*0.6, rng.Float64()*0.6, rng.Float64()*0.6
		dc.SetRGB(r, g, b)

		top, left := h, w
		bottom, right := 0.0, 0.0
		for _, pt := range reg.Points {
			// world to top-view pixels: forward axis up, left axis to the left
			x := -pt.Position.Y*w/worldWidth + w/2
			y := -pt.Position.X*h/worldHeight + h

			top = math.Min(top, y)
			left = math.Min(left, x)
			bottom = math.Max(bottom, y)
			right = math.Max(right, x)

			dc.DrawCircle(x, y, 4)
			dc.Fill()
		}

		dc.SetLineWidth(2)
		dc.DrawRectangle(left, top, right-left, bottom-top)
		dc.Stroke()

		xs := reg.Points.ForwardDistances()
		label := fmt.Sprintf("id=%d, #pts=%d, xmin=%.2f", reg.ID, len(reg.Points), floats.Min(xs))
		dc.DrawString(label, left, bottom+15)
	}

	return dc.SavePNG(outName)
}
