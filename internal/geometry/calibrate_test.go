package geometry

import (
	"errors"
	"testing"

	"github.com/jonathan/betabot/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalibrate(t *testing.T) {
	a := types.Hold{ID: "a", X: 100, Y: 100}
	b := types.Hold{ID: "b", X: 900, Y: 1000}

	tr, err := Calibrate(a, Point{X: 200, Y: 150}, b, Point{X: 1800, Y: 1950})
	require.NoError(t, err)

	assert.InDelta(t, 2.0, tr.ScaleX, 1e-9)
	assert.InDelta(t, 2.0, tr.ScaleY, 1e-9)
	assert.InDelta(t, 0.0, tr.OffsetX, 1e-9)
	assert.InDelta(t, -50.0, tr.OffsetY, 1e-9)

	p := tr.Apply(b)
	assert.InDelta(t, 1800, p.X, 1e-9)
	assert.InDelta(t, 1950, p.Y, 1e-9)

	x, y := tr.Invert(Point{X: 200, Y: 150})
	assert.InDelta(t, 100, x, 1e-9)
	assert.InDelta(t, 100, y, 1e-9)
}

func TestCalibrate_Degenerate(t *testing.T) {
	a := types.Hold{ID: "a", X: 100, Y: 100}
	b := types.Hold{ID: "b", X: 100, Y: 500}

	_, err := Calibrate(a, Point{}, b, Point{X: 1, Y: 1})
	require.Error(t, err)

	var calErr *CalibrationError
	assert.True(t, errors.As(err, &calErr))

	_, err = Calibrate(a, Point{X: 5, Y: 5}, types.Hold{ID: "c", X: 200, Y: 200}, Point{X: 5, Y: 9})
	assert.Error(t, err)
}
