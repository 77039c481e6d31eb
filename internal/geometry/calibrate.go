package geometry

import "github.com/jonathan/betabot/internal/types"

// Point is a position in image space, e.g. a pixel on a photo of the wall.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Transform maps board coordinates into image space: image = board*scale + offset.
type Transform struct {
	ScaleX  float64 `json:"scale_x"`
	ScaleY  float64 `json:"scale_y"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
}

// Calibrate derives a Transform from two reference holds and where they appear in an image.
// The holds must differ on both axes (typically top-left and bottom-right).
func Calibrate(holdA types.Hold, imageA Point, holdB types.Hold, imageB Point) (Transform, error) {
	dx := float64(holdB.X - holdA.X)
	dy := float64(holdB.Y - holdA.Y)
	if dx == 0 || dy == 0 {
		return Transform{}, &CalibrationError{Message: "reference holds must differ in both x and y"}
	}

	t := Transform{
		ScaleX: (imageB.X - imageA.X) / dx,
		ScaleY: (imageB.Y - imageA.Y) / dy,
	}
	if t.ScaleX == 0 || t.ScaleY == 0 {
		return Transform{}, &CalibrationError{Message: "image points must differ in both x and y"}
	}
	t.OffsetX = imageA.X - float64(holdA.X)*t.ScaleX
	t.OffsetY = imageA.Y - float64(holdA.Y)*t.ScaleY
	return t, nil
}

// Apply maps a board hold into image space.
func (t Transform) Apply(h types.Hold) Point {
	return Point{
		X: float64(h.X)*t.ScaleX + t.OffsetX,
		Y: float64(h.Y)*t.ScaleY + t.OffsetY,
	}
}

// Invert maps an image point back into board space.
func (t Transform) Invert(p Point) (x, y float64) {
	return (p.X - t.OffsetX) / t.ScaleX, (p.Y - t.OffsetY) / t.ScaleY
}
